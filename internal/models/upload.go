package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UploadKind string

const (
	UploadImage UploadKind = "image"
	UploadKyc   UploadKind = "kyc"
)

type Upload struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	EventID   *uuid.UUID `gorm:"type:uuid" json:"event_id,omitempty"`
	FileURL   string     `gorm:"not null" json:"file_url"`
	FileName  string     `gorm:"not null" json:"file_name"`
	MimeType  string     `gorm:"not null" json:"mime_type"`
	Kind      UploadKind `gorm:"type:varchar(10);not null" json:"kind"`
	Size      int64      `gorm:"not null" json:"size"`
	CreatedAt time.Time  `json:"created_at"`
}

func (u *Upload) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}
