package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/tewodrosk/tiketa/internal/domain"
	"github.com/tewodrosk/tiketa/internal/models"
)

const redemptionCodeLength = 21

// TicketService issues, transfers, and redeems tickets. Every issuance
// reserves capacity first and creates the ticket second; a failed creation
// releases the reservation. The reverse order would oversell on a crash
// between the two steps.
type TicketService struct {
	tickets TicketRepository
	events  EventRepository
	users   UserRepository
	log     *slog.Logger
}

func NewTicketService(tickets TicketRepository, events EventRepository, users UserRepository, log *slog.Logger) *TicketService {
	return &TicketService{tickets: tickets, events: events, users: users, log: log}
}

// RSVPFree claims a free seat. Private events require the caller to be on
// the invitee list; invitation-token holders come in through Redeem
// instead, which bypasses that check.
func (s *TicketService) RSVPFree(ctx context.Context, userID, eventID uuid.UUID) (*models.Ticket, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsFree {
		return nil, domain.ErrEventNotFree
	}
	if event.IsPrivate && !event.IsInvited(userID) {
		return nil, domain.ErrNotInvited
	}
	return s.IssueFree(ctx, userID, eventID)
}

// IssueFree reserves a seat and creates a zero-price ticket. Free tickets
// are born with payment status completed.
func (s *TicketService) IssueFree(ctx context.Context, userID, eventID uuid.UUID) (*models.Ticket, error) {
	if err := s.events.ReserveSeat(ctx, eventID); err != nil {
		return nil, err
	}

	code, err := gonanoid.New(redemptionCodeLength)
	if err != nil {
		s.releaseSeat(ctx, eventID)
		return nil, fmt.Errorf("generate redemption code: %w", err)
	}

	ticket := &models.Ticket{
		UserID:          userID,
		EventID:         eventID,
		Type:            models.StandardType,
		Price:           0,
		RedemptionCode:  code,
		PaymentStatus:   models.PaymentCompleted,
		Status:          models.TicketActive,
		OriginalOwnerID: userID,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		s.releaseSeat(ctx, eventID)
		return nil, err
	}
	return ticket, nil
}

// IssuePaid reserves a type seat, then an event seat, then creates a
// pending ticket bound to the transaction reference. Losing any later step
// unwinds the earlier reservations.
func (s *TicketService) IssuePaid(ctx context.Context, userID, eventID uuid.UUID, typeName string, amount int, txRef string) (*models.Ticket, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.IsFree {
		return nil, domain.ErrEventNotPaid
	}
	tier := event.TicketTypeByName(typeName)
	if tier == nil || tier.Price != amount {
		return nil, domain.ErrInvalidTicketType
	}

	if err := s.events.ReserveTypeSeat(ctx, eventID, typeName); err != nil {
		return nil, err
	}
	if err := s.events.ReserveSeat(ctx, eventID); err != nil {
		s.releaseTypeSeat(ctx, eventID, typeName)
		return nil, err
	}

	code, err := gonanoid.New(redemptionCodeLength)
	if err != nil {
		s.releaseSeat(ctx, eventID)
		s.releaseTypeSeat(ctx, eventID, typeName)
		return nil, fmt.Errorf("generate redemption code: %w", err)
	}

	ticket := &models.Ticket{
		UserID:          userID,
		EventID:         eventID,
		Type:            typeName,
		Price:           amount,
		RedemptionCode:  code,
		PaymentStatus:   models.PaymentPending,
		Status:          models.TicketActive,
		TransactionRef:  txRef,
		OriginalOwnerID: userID,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		s.releaseSeat(ctx, eventID)
		s.releaseTypeSeat(ctx, eventID, typeName)
		return nil, err
	}
	return ticket, nil
}

// Transfer hands a ticket to another account. Only the current holder may
// transfer (the original owner loses that right after a transfer, the new
// holder gains it); used tickets never move; the recipient must exist and
// must not already hold a ticket for the event. OriginalOwnerID is
// untouched.
func (s *TicketService) Transfer(ctx context.Context, ticketID, fromUserID uuid.UUID, toEmail string) (*models.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.UserID != fromUserID {
		return nil, domain.ErrNotTicketOwner
	}
	if ticket.Status == models.TicketUsed {
		return nil, domain.ErrTicketUsed
	}

	recipient, err := s.users.GetByEmail(ctx, toEmail)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrRecipientNotFound
		}
		return nil, err
	}
	if recipient.ID == fromUserID {
		return nil, &domain.ValidationError{Fields: map[string]string{
			"to_email": "cannot transfer a ticket to yourself",
		}}
	}

	if err := s.tickets.TransferOwnership(ctx, ticketID, fromUserID, recipient.ID); err != nil {
		return nil, err
	}

	ticket.UserID = recipient.ID
	ticket.Status = models.TicketTransferred
	return ticket, nil
}

// RedeemCode marks a ticket used at the door. One-way: a second attempt on
// the same code fails with ErrTicketUsed; a ticket sitting in any other
// non-active state is rejected with ErrTicketNotActive.
func (s *TicketService) RedeemCode(ctx context.Context, code string) error {
	return s.tickets.MarkUsed(ctx, code)
}

func (s *TicketService) GetByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	return s.tickets.GetByID(ctx, id)
}

func (s *TicketService) GetByCode(ctx context.Context, code string) (*models.Ticket, error) {
	return s.tickets.GetByCode(ctx, code)
}

func (s *TicketService) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Ticket, error) {
	return s.tickets.ListByUser(ctx, userID)
}

func (s *TicketService) releaseSeat(ctx context.Context, eventID uuid.UUID) {
	if err := s.events.ReleaseSeat(ctx, eventID); err != nil {
		s.log.Error("seat release failed",
			slog.String("event_id", eventID.String()),
			slog.String("error", err.Error()),
		)
	}
}

func (s *TicketService) releaseTypeSeat(ctx context.Context, eventID uuid.UUID, typeName string) {
	if err := s.events.ReleaseTypeSeat(ctx, eventID, typeName); err != nil {
		s.log.Error("type seat release failed",
			slog.String("event_id", eventID.String()),
			slog.String("ticket_type", typeName),
			slog.String("error", err.Error()),
		)
	}
}
