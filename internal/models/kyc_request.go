package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type KycStatus string

const (
	KycPending  KycStatus = "pending"
	KycVerified KycStatus = "verified"
	KycRejected KycStatus = "rejected"
)

type KycRequest struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	DocumentURL     string     `gorm:"not null" json:"document_url"`
	Status          KycStatus  `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	ReviewerID      *uuid.UUID `gorm:"type:uuid" json:"reviewer_id,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (req *KycRequest) BeforeCreate(tx *gorm.DB) (err error) {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	return
}
