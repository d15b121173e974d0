package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type EventStatus string

const (
	EventPending   EventStatus = "pending"
	EventApproved  EventStatus = "approved"
	EventLive      EventStatus = "live"
	EventCompleted EventStatus = "completed"
)

var EventCategories = []string{
	"cinema", "educational", "theater", "discourse", "weg", "comedy", "webinar",
}

type Event struct {
	ID          uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	Title       string      `gorm:"not null" json:"title"`
	Slug        string      `gorm:"not null;unique" json:"slug"`
	Description string      `gorm:"not null" json:"description"`
	Venue       string      `gorm:"not null" json:"venue"`
	Category    string      `gorm:"not null" json:"category"`
	Date        time.Time   `gorm:"not null" json:"date"`
	StartDate   time.Time   `gorm:"not null" json:"start_date"`
	EndDate     time.Time   `gorm:"not null" json:"end_date"`
	IsFree      bool        `gorm:"not null;default:true" json:"is_free"`
	IsPrivate   bool        `gorm:"not null;default:false" json:"is_private"`
	Capacity    int         `gorm:"not null" json:"capacity"`
	TicketsSold int         `gorm:"not null;default:0" json:"tickets_sold"`
	Status      EventStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	OrganizerID uuid.UUID   `gorm:"type:uuid;not null;index" json:"organizer_id"`
	Organizer   *User       `gorm:"foreignKey:OrganizerID" json:"organizer,omitempty"`
	// Invitees holds the user ids of registered invitees; unregistered
	// invitee emails live in the invitations table until redeemed.
	Invitees    pq.StringArray `gorm:"type:text[]" json:"invitees,omitempty"`
	CoverImage  string         `json:"cover_image,omitempty"`
	TicketTypes []TicketType   `json:"ticket_types,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (event *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return
}

// TicketType is a priced admission tier of a paid event. Sold is mutated
// only through the conditional increment in the event repository.
type TicketType struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	EventID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_event_type_name" json:"event_id"`
	Name     string    `gorm:"not null;uniqueIndex:idx_event_type_name" json:"name"`
	Price    int       `gorm:"not null" json:"price"`
	Capacity int       `gorm:"not null;default:0" json:"capacity"`
	Sold     int       `gorm:"not null;default:0" json:"sold"`
}

func (tt *TicketType) BeforeCreate(tx *gorm.DB) (err error) {
	if tt.ID == uuid.Nil {
		tt.ID = uuid.New()
	}
	return
}

// IsInvited reports whether the user id is on the resolved invitee list.
func (event *Event) IsInvited(userID uuid.UUID) bool {
	for _, id := range event.Invitees {
		if id == userID.String() {
			return true
		}
	}
	return false
}

// TicketTypeByName returns the matching tier, or nil.
func (event *Event) TicketTypeByName(name string) *TicketType {
	for i := range event.TicketTypes {
		if event.TicketTypes[i].Name == name {
			return &event.TicketTypes[i]
		}
	}
	return nil
}
