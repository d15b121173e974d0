package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tewodrosk/tiketa/internal/models"
	"github.com/tewodrosk/tiketa/internal/payment"
)

// Repository ports consumed by the services. The gorm implementations live
// in internal/repository; tests substitute fakes.

type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	Save(ctx context.Context, event *models.Event) error
	SetInvitees(ctx context.Context, eventID uuid.UUID, invitees []string) error
	ReplaceTicketTypes(ctx context.Context, eventID uuid.UUID, types []models.TicketType) error
	List(ctx context.Context, category string, offset, limit int) ([]models.Event, int64, error)
	ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]models.Event, error)
	ReserveSeat(ctx context.Context, eventID uuid.UUID) error
	ReleaseSeat(ctx context.Context, eventID uuid.UUID) error
	ReserveTypeSeat(ctx context.Context, eventID uuid.UUID, typeName string) error
	ReleaseTypeSeat(ctx context.Context, eventID uuid.UUID, typeName string) error
	AddInvitee(ctx context.Context, eventID, userID uuid.UUID) error
}

type TicketRepository interface {
	Create(ctx context.Context, ticket *models.Ticket) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error)
	GetByCode(ctx context.Context, code string) (*models.Ticket, error)
	GetByTransactionRef(ctx context.Context, txRef string) (*models.Ticket, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Ticket, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID, offset, limit int) ([]models.Ticket, int64, error)
	SetPaymentStatus(ctx context.Context, txRef string, status models.PaymentStatus) error
	TransferOwnership(ctx context.Context, ticketID, fromUserID, toUserID uuid.UUID) error
	MarkUsed(ctx context.Context, code string) error
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (*models.User, error)
	FindByEmails(ctx context.Context, emails []string) ([]models.User, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error)
	Save(ctx context.Context, user *models.User) error
}

type InvitationRepository interface {
	FindByEvent(ctx context.Context, eventID uuid.UUID, emails []string) ([]models.Invitation, error)
	CreateBatch(ctx context.Context, invitations []models.Invitation) error
	Refresh(ctx context.Context, id uuid.UUID, token string, expiresAt time.Time) error
	GetByToken(ctx context.Context, token string) (*models.Invitation, error)
	MarkAccepted(ctx context.Context, id uuid.UUID) error
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

type KycRepository interface {
	Create(ctx context.Context, req *models.KycRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.KycRequest, error)
	ListByStatus(ctx context.Context, status models.KycStatus, offset, limit int) ([]models.KycRequest, error)
	Save(ctx context.Context, req *models.KycRequest) error
}

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListUnread(ctx context.Context, userID uuid.UUID) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
}

// PaymentProvider is the outbound contract with the payment gateway.
type PaymentProvider interface {
	InitiateCharge(ctx context.Context, req payment.ChargeRequest) (string, error)
	VerifyTransaction(ctx context.Context, txRef string) (string, error)
}

// InviteMailer delivers invitation emails, best-effort.
type InviteMailer interface {
	SendInvite(ctx context.Context, to, eventTitle, token string) error
}
