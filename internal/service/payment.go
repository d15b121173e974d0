package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tewodrosk/tiketa/internal/domain"
	"github.com/tewodrosk/tiketa/internal/models"
	"github.com/tewodrosk/tiketa/internal/payment"
)

// PaidTicketIssuer creates the pending ticket bound to a transaction.
type PaidTicketIssuer interface {
	IssuePaid(ctx context.Context, userID, eventID uuid.UUID, typeName string, amount int, txRef string) (*models.Ticket, error)
}

// PaymentService initiates charges with the provider and reconciles its
// webhooks against pending tickets.
type PaymentService struct {
	provider      PaymentProvider
	issuer        PaidTicketIssuer
	tickets       TicketRepository
	events        EventRepository
	users         UserRepository
	webhookSecret string
	log           *slog.Logger
}

func NewPaymentService(
	provider PaymentProvider,
	issuer PaidTicketIssuer,
	tickets TicketRepository,
	events EventRepository,
	users UserRepository,
	webhookSecret string,
	log *slog.Logger,
) *PaymentService {
	return &PaymentService{
		provider:      provider,
		issuer:        issuer,
		tickets:       tickets,
		events:        events,
		users:         users,
		webhookSecret: webhookSecret,
		log:           log,
	}
}

type ChargeInput struct {
	EventID     uuid.UUID
	TicketType  string
	Amount      int
	Currency    string
	PhoneNumber string
}

type ChargeResult struct {
	CheckoutURL    string         `json:"checkout_url"`
	TransactionRef string         `json:"transaction_ref"`
	Ticket         *models.Ticket `json:"ticket"`
}

// InitiateCharge validates the requested tier against live event data,
// asks the provider for a checkout URL, and creates the pending ticket
// correlated by a fresh transaction reference.
func (s *PaymentService) InitiateCharge(ctx context.Context, userID uuid.UUID, input ChargeInput) (*ChargeResult, error) {
	event, err := s.events.GetByID(ctx, input.EventID)
	if err != nil {
		return nil, err
	}
	if event.IsFree {
		return nil, domain.ErrEventNotPaid
	}
	tier := event.TicketTypeByName(input.TicketType)
	if tier == nil || tier.Price != input.Amount {
		return nil, domain.ErrInvalidTicketType
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	txRef := uuid.New().String()
	checkoutURL, err := s.provider.InitiateCharge(ctx, payment.ChargeRequest{
		TxRef:       txRef,
		Amount:      input.Amount,
		Currency:    input.Currency,
		Email:       user.Email,
		PhoneNumber: input.PhoneNumber,
	})
	if err != nil {
		return nil, fmt.Errorf("initiate charge: %w", err)
	}

	ticket, err := s.issuer.IssuePaid(ctx, userID, input.EventID, input.TicketType, input.Amount, txRef)
	if err != nil {
		return nil, err
	}

	return &ChargeResult{CheckoutURL: checkoutURL, TransactionRef: txRef, Ticket: ticket}, nil
}

type webhookPayload struct {
	Status string `json:"status"`
	TxRef  string `json:"tx_ref"`
}

// HandleWebhook reconciles a provider webhook. Order matters: the HMAC
// check runs before anything is parsed or touched, the provider is then
// re-queried for the authoritative status (the webhook body is only a
// hint), and finally the ticket's payment status is overwritten. The
// overwrite makes redelivery idempotent.
func (s *PaymentService) HandleWebhook(ctx context.Context, rawBody []byte, signature string) error {
	if !payment.ValidSignature(s.webhookSecret, rawBody, signature) {
		return domain.ErrInvalidSignature
	}

	var hook webhookPayload
	if err := json.Unmarshal(rawBody, &hook); err != nil {
		return fmt.Errorf("parse webhook payload: %w", err)
	}
	if hook.TxRef == "" {
		return fmt.Errorf("webhook payload missing tx_ref")
	}

	verified, err := s.provider.VerifyTransaction(ctx, hook.TxRef)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrVerificationFailed, err)
	}

	var status models.PaymentStatus
	switch verified {
	case payment.StatusSuccess:
		status = models.PaymentCompleted
	case payment.StatusFailed:
		status = models.PaymentFailed
	default:
		// Still pending at the provider; wait for the next delivery.
		s.log.Info("webhook for unsettled transaction",
			slog.String("tx_ref", hook.TxRef),
			slog.String("provider_status", verified),
		)
		return nil
	}

	if err := s.tickets.SetPaymentStatus(ctx, hook.TxRef, status); err != nil {
		return err
	}

	s.log.Info("payment reconciled",
		slog.String("tx_ref", hook.TxRef),
		slog.String("status", string(status)),
	)
	return nil
}
