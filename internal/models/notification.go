package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotifyInvite   NotificationType = "invite"
	NotifyReminder NotificationType = "reminder"
	NotifyUpdate   NotificationType = "update"
)

type Notification struct {
	ID        uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	EventID   uuid.UUID        `gorm:"type:uuid;not null" json:"event_id"`
	Type      NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	Message   string           `gorm:"not null" json:"message"`
	Link      string           `json:"link,omitempty"`
	Status    string           `gorm:"type:varchar(10);not null;default:'unread'" json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return
}
