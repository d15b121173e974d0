package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tewodrosk/tiketa/internal/domain"
	"github.com/tewodrosk/tiketa/internal/models"
)

type TicketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// Create inserts the ticket. The unique (user_id, event_id) index is the
// double-RSVP guard; a duplicate surfaces as ErrAlreadyRegistered.
func (r *TicketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	if err := r.db.WithContext(ctx).Create(ticket).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrAlreadyRegistered
		}
		return fmt.Errorf("create ticket: %w", err)
	}
	return nil
}

func (r *TicketRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	var ticket models.Ticket
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	return &ticket, nil
}

func (r *TicketRepository) GetByCode(ctx context.Context, code string) (*models.Ticket, error) {
	var ticket models.Ticket
	err := r.db.WithContext(ctx).Where("redemption_code = ?", code).First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, fmt.Errorf("get ticket by code: %w", err)
	}
	return &ticket, nil
}

func (r *TicketRepository) GetByTransactionRef(ctx context.Context, txRef string) (*models.Ticket, error) {
	var ticket models.Ticket
	err := r.db.WithContext(ctx).Where("transaction_ref = ?", txRef).First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUnknownTransaction
		}
		return nil, fmt.Errorf("get ticket by tx ref: %w", err)
	}
	return &ticket, nil
}

func (r *TicketRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := r.db.WithContext(ctx).Preload("Event").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tickets).Error
	if err != nil {
		return nil, fmt.Errorf("list tickets by user: %w", err)
	}
	return tickets, nil
}

func (r *TicketRepository) ListByEvent(ctx context.Context, eventID uuid.UUID, offset, limit int) ([]models.Ticket, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Ticket{}).Where("event_id = ?", eventID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count tickets: %w", err)
	}

	var tickets []models.Ticket
	err := query.Offset(offset).Limit(limit).Order("created_at ASC").Find(&tickets).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list tickets by event: %w", err)
	}
	return tickets, total, nil
}

// SetPaymentStatus overwrites the payment status of the ticket bound to
// txRef. An overwrite, not an increment, so webhook redelivery is safe.
func (r *TicketRepository) SetPaymentStatus(ctx context.Context, txRef string, status models.PaymentStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Ticket{}).
		Where("transaction_ref = ?", txRef).
		UpdateColumn("payment_status", status)
	if res.Error != nil {
		return fmt.Errorf("set payment status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUnknownTransaction
	}
	return nil
}

// TransferOwnership reassigns the ticket to the recipient, guarded so only
// the current owner of a not-yet-used ticket can move it. A transferred
// ticket can be moved again, but only by the holder it was transferred to.
// Zero rows means the ticket changed hands or was used since it was checked.
func (r *TicketRepository) TransferOwnership(ctx context.Context, ticketID, fromUserID, toUserID uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&models.Ticket{}).
		Where("id = ? AND user_id = ? AND status <> ?", ticketID, fromUserID, models.TicketUsed).
		Updates(map[string]interface{}{
			"user_id": toUserID,
			"status":  models.TicketTransferred,
		})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return domain.ErrAlreadyRegistered
		}
		return fmt.Errorf("transfer ticket: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrAlreadyTransferred
	}
	return nil
}

// MarkUsed transitions active -> used, one-way. Zero rows means the code is
// unknown, the ticket was already used, or it sits in some other non-active
// state; a follow-up read tells the three apart.
func (r *TicketRepository) MarkUsed(ctx context.Context, code string) error {
	res := r.db.WithContext(ctx).Model(&models.Ticket{}).
		Where("redemption_code = ? AND status = ?", code, models.TicketActive).
		UpdateColumn("status", models.TicketUsed)
	if res.Error != nil {
		return fmt.Errorf("mark ticket used: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		var ticket models.Ticket
		err := r.db.WithContext(ctx).Select("status").
			Where("redemption_code = ?", code).First(&ticket).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrTicketNotFound
			}
			return fmt.Errorf("mark ticket used: %w", err)
		}
		if ticket.Status == models.TicketUsed {
			return domain.ErrTicketUsed
		}
		return domain.ErrTicketNotActive
	}
	return nil
}
