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

type KycRepository struct {
	db *gorm.DB
}

func NewKycRepository(db *gorm.DB) *KycRepository {
	return &KycRepository{db: db}
}

func (r *KycRepository) Create(ctx context.Context, req *models.KycRequest) error {
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return fmt.Errorf("create kyc request: %w", err)
	}
	return nil
}

func (r *KycRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.KycRequest, error) {
	var req models.KycRequest
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrKycNotFound
		}
		return nil, fmt.Errorf("get kyc request: %w", err)
	}
	return &req, nil
}

func (r *KycRepository) ListByStatus(ctx context.Context, status models.KycStatus, offset, limit int) ([]models.KycRequest, error) {
	var reqs []models.KycRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Offset(offset).Limit(limit).
		Order("created_at ASC").
		Find(&reqs).Error
	if err != nil {
		return nil, fmt.Errorf("list kyc requests: %w", err)
	}
	return reqs, nil
}

func (r *KycRepository) Save(ctx context.Context, req *models.KycRequest) error {
	if err := r.db.WithContext(ctx).Save(req).Error; err != nil {
		return fmt.Errorf("save kyc request: %w", err)
	}
	return nil
}
