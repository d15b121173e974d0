package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tewodrosk/tiketa/internal/domain"
	"github.com/tewodrosk/tiketa/internal/models"
)

// KycService tracks organizer identity verification. The status machine is
// one-shot: pending -> verified|rejected, gated by an admin.
type KycService struct {
	requests KycRepository
}

func NewKycService(requests KycRepository) *KycService {
	return &KycService{requests: requests}
}

func (s *KycService) Submit(ctx context.Context, userID uuid.UUID, documentURL string) (*models.KycRequest, error) {
	req := &models.KycRequest{
		UserID:      userID,
		DocumentURL: documentURL,
		Status:      models.KycPending,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// Review settles a pending request. Rejections require a reason; a settled
// request cannot be reviewed again.
func (s *KycService) Review(ctx context.Context, reviewerID, requestID uuid.UUID, status models.KycStatus, reason string) (*models.KycRequest, error) {
	if status != models.KycVerified && status != models.KycRejected {
		return nil, &domain.ValidationError{Fields: map[string]string{
			"status": "must be verified or rejected",
		}}
	}
	if status == models.KycRejected && reason == "" {
		return nil, &domain.ValidationError{Fields: map[string]string{
			"reason": "required when rejecting",
		}}
	}

	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != models.KycPending {
		return nil, domain.ErrKycAlreadyReviewed
	}

	now := time.Now().UTC()
	req.Status = status
	req.ReviewerID = &reviewerID
	req.ReviewedAt = &now
	if status == models.KycRejected {
		req.RejectionReason = reason
	} else {
		req.RejectionReason = ""
	}

	if err := s.requests.Save(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *KycService) ListPending(ctx context.Context, page, limit int) ([]models.KycRequest, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return s.requests.ListByStatus(ctx, models.KycPending, (page-1)*limit, limit)
}
