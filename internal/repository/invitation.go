package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tewodrosk/tiketa/internal/domain"
	"github.com/tewodrosk/tiketa/internal/models"
)

type InvitationRepository struct {
	db *gorm.DB
}

func NewInvitationRepository(db *gorm.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

// FindByEvent returns the invitations (any status) for the given emails on
// one event. The ledger decides which ones still count as pending.
func (r *InvitationRepository) FindByEvent(ctx context.Context, eventID uuid.UUID, emails []string) ([]models.Invitation, error) {
	if len(emails) == 0 {
		return nil, nil
	}
	var invitations []models.Invitation
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND email IN ?", eventID, emails).
		Find(&invitations).Error
	if err != nil {
		return nil, fmt.Errorf("find invitations: %w", err)
	}
	return invitations, nil
}

// Refresh re-arms an expired invitation with a fresh token and expiry.
// The (event_id, email) unique index rules out a second row, so expired
// invitations are renewed in place rather than recreated.
func (r *InvitationRepository) Refresh(ctx context.Context, id uuid.UUID, token string, expiresAt time.Time) error {
	err := r.db.WithContext(ctx).Model(&models.Invitation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"token":      token,
			"expires_at": expiresAt,
			"status":     models.InvitationPending,
		}).Error
	if err != nil {
		return fmt.Errorf("refresh invitation: %w", err)
	}
	return nil
}

func (r *InvitationRepository) CreateBatch(ctx context.Context, invitations []models.Invitation) error {
	if len(invitations) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&invitations).Error; err != nil {
		return fmt.Errorf("create invitations: %w", err)
	}
	return nil
}

func (r *InvitationRepository) GetByToken(ctx context.Context, token string) (*models.Invitation, error) {
	var invitation models.Invitation
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&invitation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvitationNotFound
		}
		return nil, fmt.Errorf("get invitation by token: %w", err)
	}
	return &invitation, nil
}

func (r *InvitationRepository) MarkAccepted(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&models.Invitation{}).
		Where("id = ? AND status = ?", id, models.InvitationPending).
		UpdateColumn("status", models.InvitationAccepted)
	if res.Error != nil {
		return fmt.Errorf("accept invitation: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrInvalidToken
	}
	return nil
}

// ExpireOverdue flips pending invitations past their expiry. Run
// periodically by the scheduler.
func (r *InvitationRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Invitation{}).
		Where("status = ? AND expires_at < ?", models.InvitationPending, now).
		UpdateColumn("status", models.InvitationExpired)
	if res.Error != nil {
		return 0, fmt.Errorf("expire invitations: %w", res.Error)
	}
	return res.RowsAffected, nil
}
