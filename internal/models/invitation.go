package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationExpired  InvitationStatus = "expired"
)

// InvitationTTL is how long an invitation token stays redeemable.
const InvitationTTL = 7 * 24 * time.Hour

type Invitation struct {
	ID        uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	EventID   uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_invitation_event_email" json:"event_id"`
	Email     string           `gorm:"not null;uniqueIndex:idx_invitation_event_email" json:"email"`
	Token     string           `gorm:"not null;unique" json:"token"`
	Status    InvitationStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	ExpiresAt time.Time        `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func (inv *Invitation) BeforeCreate(tx *gorm.DB) (err error) {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	return
}

// Redeemable reports whether the invitation is still pending and unexpired.
func (inv *Invitation) Redeemable(now time.Time) bool {
	return inv.Status == InvitationPending && now.Before(inv.ExpiresAt)
}
