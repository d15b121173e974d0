package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/tewodrosk/tiketa/internal/domain"
	"github.com/tewodrosk/tiketa/internal/models"
)

const invitationTokenLength = 32

// FreeTicketIssuer issues a free ticket straight through the capacity
// ledger, bypassing the invitee check (a redeemed token IS the invitation).
type FreeTicketIssuer interface {
	IssueFree(ctx context.Context, userID, eventID uuid.UUID) (*models.Ticket, error)
}

// InvitationService maintains the invitation ledger for private events:
// idempotent token issuance, redemption, and expiry.
type InvitationService struct {
	invitations InvitationRepository
	events      EventRepository
	issuer      FreeTicketIssuer
	mailer      InviteMailer
	log         *slog.Logger
}

func NewInvitationService(
	invitations InvitationRepository,
	events EventRepository,
	issuer FreeTicketIssuer,
	mailer InviteMailer,
	log *slog.Logger,
) *InvitationService {
	return &InvitationService{
		invitations: invitations,
		events:      events,
		issuer:      issuer,
		mailer:      mailer,
		log:         log,
	}
}

// IssueTokens creates invitations for the unregistered emails that have no
// live invitation for the event yet. Re-running with the same list issues
// nothing new; expired invitations are re-armed in place. Only newly
// issued (or re-armed) invitations are returned.
func (s *InvitationService) IssueTokens(ctx context.Context, event *models.Event, emails []string) ([]models.Invitation, error) {
	candidates := normalizeEmails(emails)
	if len(candidates) == 0 {
		return nil, nil
	}

	existing, err := s.invitations.FindByEvent(ctx, event.ID, candidates)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}

	now := time.Now().UTC()
	current := make(map[string]bool, len(existing))
	expired := make(map[string]models.Invitation)
	for _, inv := range existing {
		switch {
		case inv.Status == models.InvitationAccepted:
			current[inv.Email] = true
		case inv.Redeemable(now):
			current[inv.Email] = true
		default:
			expired[inv.Email] = inv
		}
	}

	var issued []models.Invitation
	var fresh []models.Invitation
	for _, email := range candidates {
		if current[email] {
			continue
		}

		token, err := gonanoid.New(invitationTokenLength)
		if err != nil {
			return nil, fmt.Errorf("generate invitation token: %w", err)
		}
		expiresAt := now.Add(models.InvitationTTL)

		if prev, ok := expired[email]; ok {
			if err := s.invitations.Refresh(ctx, prev.ID, token, expiresAt); err != nil {
				return nil, fmt.Errorf("issue tokens: %w", err)
			}
			prev.Token = token
			prev.ExpiresAt = expiresAt
			prev.Status = models.InvitationPending
			issued = append(issued, prev)
			continue
		}

		fresh = append(fresh, models.Invitation{
			EventID:   event.ID,
			Email:     email,
			Token:     token,
			Status:    models.InvitationPending,
			ExpiresAt: expiresAt,
		})
	}

	if len(fresh) > 0 {
		if err := s.invitations.CreateBatch(ctx, fresh); err != nil {
			return nil, fmt.Errorf("issue tokens: %w", err)
		}
		issued = append(issued, fresh...)
	}

	// Invite emails are fire-and-forget; the ledger state is already
	// committed and a mail failure must not fail the event update.
	for _, inv := range issued {
		go s.sendInvite(context.WithoutCancel(ctx), inv, event.Title)
	}

	return issued, nil
}

func (s *InvitationService) sendInvite(ctx context.Context, inv models.Invitation, eventTitle string) {
	if err := s.mailer.SendInvite(ctx, inv.Email, eventTitle, inv.Token); err != nil {
		s.log.Error("invite email failed",
			slog.String("email", inv.Email),
			slog.String("event_id", inv.EventID.String()),
			slog.String("error", err.Error()),
		)
	}
}

// Redeem exchanges a pending invitation token for a free ticket. The
// ticket is issued before the invitation flips to accepted, so a crash in
// between leaves a retryable pending invitation instead of a lost seat;
// on retry the duplicate-ticket conflict is tolerated.
func (s *InvitationService) Redeem(ctx context.Context, token, submittedEmail string, userID uuid.UUID) (uuid.UUID, error) {
	inv, err := s.invitations.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrInvitationNotFound) {
			return uuid.Nil, domain.ErrInvalidToken
		}
		return uuid.Nil, fmt.Errorf("redeem invitation: %w", err)
	}

	if !inv.Redeemable(time.Now().UTC()) {
		return uuid.Nil, domain.ErrInvalidToken
	}
	if !strings.EqualFold(strings.TrimSpace(submittedEmail), inv.Email) {
		return uuid.Nil, domain.ErrEmailMismatch
	}

	if _, err := s.issuer.IssueFree(ctx, userID, inv.EventID); err != nil {
		if !errors.Is(err, domain.ErrAlreadyRegistered) {
			return uuid.Nil, fmt.Errorf("redeem invitation: %w", err)
		}
		// The ticket already exists from an earlier partial redeem.
	}

	if err := s.invitations.MarkAccepted(ctx, inv.ID); err != nil {
		return uuid.Nil, fmt.Errorf("redeem invitation: %w", err)
	}

	if err := s.events.AddInvitee(ctx, inv.EventID, userID); err != nil {
		s.log.Error("record redeemed invitee failed",
			slog.String("event_id", inv.EventID.String()),
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()),
		)
	}

	return inv.EventID, nil
}

// ExpireOverdue sweeps pending invitations past their expiry.
func (s *InvitationService) ExpireOverdue(ctx context.Context) (int64, error) {
	return s.invitations.ExpireOverdue(ctx, time.Now().UTC())
}
