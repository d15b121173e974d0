package service

import (
	"time"

	"github.com/tewodrosk/tiketa/internal/domain"
	"github.com/tewodrosk/tiketa/internal/models"
)

// TicketTypeInput describes one admission tier in a create/update payload.
type TicketTypeInput struct {
	Name     string `json:"name" binding:"required"`
	Price    int    `json:"price"`
	Capacity int    `json:"capacity"`
}

type CreateEventInput struct {
	Title       string            `json:"title" binding:"required"`
	Description string            `json:"description" binding:"required"`
	Venue       string            `json:"venue" binding:"required"`
	Category    string            `json:"category" binding:"required"`
	Date        time.Time         `json:"date" binding:"required"`
	StartDate   time.Time         `json:"start_date" binding:"required"`
	EndDate     time.Time         `json:"end_date" binding:"required"`
	IsFree      bool              `json:"is_free"`
	IsPrivate   bool              `json:"is_private"`
	Capacity    int               `json:"capacity" binding:"required"`
	TicketTypes []TicketTypeInput `json:"ticket_types"`
	Invitees    []string          `json:"invitees"`
	CoverImage  string            `json:"cover_image"`
}

// UpdateEventInput is a patch: nil fields are untouched.
type UpdateEventInput struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Venue       *string            `json:"venue"`
	Category    *string            `json:"category"`
	Date        *time.Time         `json:"date"`
	StartDate   *time.Time         `json:"start_date"`
	EndDate     *time.Time         `json:"end_date"`
	IsFree      *bool              `json:"is_free"`
	IsPrivate   *bool              `json:"is_private"`
	Capacity    *int               `json:"capacity"`
	TicketTypes *[]TicketTypeInput `json:"ticket_types"`
	Invitees    *[]string          `json:"invitees"`
	CoverImage  *string            `json:"cover_image"`
}

// TouchesPricing reports whether the patch changes the pricing mode or the
// ticket-type list. Such patches are rejected once sales have started.
func (p *UpdateEventInput) TouchesPricing() bool {
	return p.IsFree != nil || p.TicketTypes != nil
}

func validCategory(category string) bool {
	for _, c := range models.EventCategories {
		if c == category {
			return true
		}
	}
	return false
}

// ValidateCreateEvent applies the cross-field rules a schema cannot
// express per-field: free/paid pricing coherence, date ordering, and the
// private/invitee coupling. Pure; storage never consulted.
func ValidateCreateEvent(input CreateEventInput) *domain.ValidationError {
	fields := map[string]string{}

	if len(input.Title) < 5 || len(input.Title) > 55 {
		fields["title"] = "must be between 5 and 55 characters"
	}
	if len(input.Description) < 5 || len(input.Description) > 1024 {
		fields["description"] = "must be between 5 and 1024 characters"
	}
	if len(input.Venue) < 5 || len(input.Venue) > 55 {
		fields["venue"] = "must be between 5 and 55 characters"
	}
	if !validCategory(input.Category) {
		fields["category"] = "unknown category"
	}
	if input.Capacity < 1 {
		fields["capacity"] = "must be at least 1"
	}

	if input.StartDate.After(input.Date) || input.Date.After(input.EndDate) {
		fields["date"] = "must be between start and end date"
	}
	if input.StartDate.After(input.EndDate) {
		fields["start_date"] = "must be before or equal to end date"
	}

	if input.IsFree {
		for _, tt := range input.TicketTypes {
			if tt.Price > 0 {
				fields["ticket_types"] = "free events cannot have paid ticket types"
				break
			}
		}
	} else {
		if len(input.TicketTypes) == 0 {
			fields["ticket_types"] = "paid events must have at least one ticket type"
		}
		for _, tt := range input.TicketTypes {
			if tt.Price <= 0 {
				fields["ticket_types"] = "paid events must only have ticket types with a price above 0"
				break
			}
		}
	}

	if input.IsPrivate && len(input.Invitees) == 0 {
		fields["invitees"] = "private events must have invitees"
	}
	if !input.IsPrivate && len(input.Invitees) > 0 {
		fields["invitees"] = "public events cannot have invitees"
	}
	if input.IsPrivate && len(input.Invitees) > input.Capacity {
		fields["invitees"] = "invitees must not exceed event capacity"
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// ValidateUpdateEvent checks the patch against the event it lands on.
// Per-field rules apply to what the patch carries; pricing coherence is
// judged on the mode and tier list that would result from applying it, so
// a patch cannot sneak a zero-price tier onto a paid event or flip the
// event free while paid tiers remain.
func ValidateUpdateEvent(event *models.Event, patch UpdateEventInput) *domain.ValidationError {
	fields := map[string]string{}

	if patch.Title != nil && (len(*patch.Title) < 5 || len(*patch.Title) > 55) {
		fields["title"] = "must be between 5 and 55 characters"
	}
	if patch.Description != nil && (len(*patch.Description) < 5 || len(*patch.Description) > 1024) {
		fields["description"] = "must be between 5 and 1024 characters"
	}
	if patch.Venue != nil && (len(*patch.Venue) < 5 || len(*patch.Venue) > 55) {
		fields["venue"] = "must be between 5 and 55 characters"
	}
	if patch.Category != nil && !validCategory(*patch.Category) {
		fields["category"] = "unknown category"
	}
	if patch.Capacity != nil {
		if *patch.Capacity < 1 {
			fields["capacity"] = "must be at least 1"
		} else if *patch.Capacity < event.TicketsSold {
			fields["capacity"] = "cannot be below tickets already sold"
		}
	}

	if patch.StartDate != nil && patch.EndDate != nil && patch.StartDate.After(*patch.EndDate) {
		fields["start_date"] = "must be before or equal to end date"
	}

	if patch.IsFree != nil || patch.TicketTypes != nil {
		isFree := event.IsFree
		if patch.IsFree != nil {
			isFree = *patch.IsFree
		}
		types := make([]TicketTypeInput, 0, len(event.TicketTypes))
		for _, tt := range event.TicketTypes {
			types = append(types, TicketTypeInput{Name: tt.Name, Price: tt.Price, Capacity: tt.Capacity})
		}
		if patch.TicketTypes != nil {
			types = *patch.TicketTypes
		}

		if isFree {
			for _, tt := range types {
				if tt.Price > 0 {
					fields["ticket_types"] = "free events cannot have paid ticket types"
					break
				}
			}
		} else {
			if len(types) == 0 {
				fields["ticket_types"] = "paid events must have at least one ticket type"
			}
			for _, tt := range types {
				if tt.Price <= 0 {
					fields["ticket_types"] = "paid events must have ticket types with prices above 0"
					break
				}
			}
		}
	}

	if patch.IsPrivate != nil && *patch.IsPrivate && (patch.Invitees == nil || len(*patch.Invitees) == 0) {
		fields["invitees"] = "private events must have invitees"
	}
	if patch.IsPrivate != nil && !*patch.IsPrivate && patch.Invitees != nil && len(*patch.Invitees) > 0 {
		fields["invitees"] = "public events cannot have invitees"
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
