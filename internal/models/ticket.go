package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

type TicketStatus string

const (
	TicketActive      TicketStatus = "active"
	TicketUsed        TicketStatus = "used"
	TicketTransferred TicketStatus = "transferred"
)

// StandardType is the ticket type used for free events.
const StandardType = "standard"

type Ticket struct {
	ID             uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	UserID         uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_ticket_user_event" json:"user_id"`
	EventID        uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_ticket_user_event" json:"event_id"`
	Event          *Event        `gorm:"foreignKey:EventID" json:"event,omitempty"`
	Type           string        `gorm:"not null;default:'standard'" json:"type"`
	Price          int           `gorm:"not null" json:"price"`
	RedemptionCode string        `gorm:"not null;unique" json:"redemption_code"`
	PaymentStatus  PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	Status         TicketStatus  `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	TransactionRef string        `gorm:"index" json:"transaction_ref,omitempty"`
	// OriginalOwnerID is set at issuance and survives transfers.
	OriginalOwnerID uuid.UUID `gorm:"type:uuid;not null" json:"original_owner_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (ticket *Ticket) BeforeCreate(tx *gorm.DB) (err error) {
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	return
}
