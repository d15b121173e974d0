package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tewodrosk/tiketa/internal/domain"
	"github.com/tewodrosk/tiketa/internal/helpers"
	"github.com/tewodrosk/tiketa/internal/models"
)

// EventService coordinates event creation and edits: validation, slug
// derivation, pricing immutability, and invitee reconciliation through the
// identity resolver and the invitation ledger.
type EventService struct {
	events      EventRepository
	tickets     TicketRepository
	users       UserRepository
	identity    *IdentityService
	invitations *InvitationService
	log         *slog.Logger
}

func NewEventService(
	events EventRepository,
	tickets TicketRepository,
	users UserRepository,
	identity *IdentityService,
	invitations *InvitationService,
	log *slog.Logger,
) *EventService {
	return &EventService{
		events:      events,
		tickets:     tickets,
		users:       users,
		identity:    identity,
		invitations: invitations,
		log:         log,
	}
}

// CreateResult carries the created event plus the invitations issued for
// invitees without an account.
type CreateResult struct {
	Event          *models.Event       `json:"event"`
	NewInvitations []models.Invitation `json:"new_invitations,omitempty"`
}

func (s *EventService) Create(ctx context.Context, organizer *models.User, input CreateEventInput) (*CreateResult, error) {
	if verr := ValidateCreateEvent(input); verr != nil {
		return nil, verr
	}
	if !input.IsFree && organizer.Role == models.RoleUser {
		return nil, domain.ErrOrganizerRequired
	}

	registered, unregistered, err := s.identity.Resolve(ctx, input.Invitees)
	if err != nil {
		return nil, err
	}

	invitees := make([]string, 0, len(registered))
	for _, r := range registered {
		invitees = append(invitees, r.UserID.String())
	}

	types := make([]models.TicketType, 0, len(input.TicketTypes))
	for _, tt := range input.TicketTypes {
		types = append(types, models.TicketType{Name: tt.Name, Price: tt.Price, Capacity: tt.Capacity})
	}

	event := &models.Event{
		Title:       input.Title,
		Slug:        helpers.Slugify(input.Title),
		Description: input.Description,
		Venue:       input.Venue,
		Category:    input.Category,
		Date:        input.Date,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		IsFree:      input.IsFree,
		IsPrivate:   input.IsPrivate,
		Capacity:    input.Capacity,
		Status:      models.EventPending,
		OrganizerID: organizer.ID,
		Invitees:    invitees,
		CoverImage:  input.CoverImage,
		TicketTypes: types,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}

	newInvitations, err := s.invitations.IssueTokens(ctx, event, unregistered)
	if err != nil {
		return nil, err
	}

	return &CreateResult{Event: event, NewInvitations: newInvitations}, nil
}

// Update applies an organizer's patch. Pricing is locked once tickets have
// sold; a title change regenerates the slug; flipping the event public
// clears the invitee list; a fresh invitee list goes through the resolver
// and the ledger exactly as at creation, without duplicating live tokens.
func (s *EventService) Update(ctx context.Context, eventID, requesterID uuid.UUID, patch UpdateEventInput) (*CreateResult, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != requesterID {
		return nil, domain.ErrNotEventOwner
	}
	if event.TicketsSold > 0 && patch.TouchesPricing() {
		return nil, domain.ErrPricingLocked
	}
	if verr := ValidateUpdateEvent(event, patch); verr != nil {
		return nil, verr
	}

	if patch.Title != nil {
		event.Title = *patch.Title
		event.Slug = helpers.Slugify(*patch.Title)
	}
	if patch.Description != nil {
		event.Description = *patch.Description
	}
	if patch.Venue != nil {
		event.Venue = *patch.Venue
	}
	if patch.Category != nil {
		event.Category = *patch.Category
	}
	if patch.Date != nil {
		event.Date = *patch.Date
	}
	if patch.StartDate != nil {
		event.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		event.EndDate = *patch.EndDate
	}
	if patch.IsFree != nil {
		event.IsFree = *patch.IsFree
	}
	if patch.Capacity != nil {
		event.Capacity = *patch.Capacity
	}
	if patch.CoverImage != nil {
		event.CoverImage = *patch.CoverImage
	}
	inviteesChanged := false
	if patch.IsPrivate != nil {
		event.IsPrivate = *patch.IsPrivate
		if !event.IsPrivate {
			event.Invitees = nil
			inviteesChanged = true
		}
	}

	var newInvitations []models.Invitation
	if patch.Invitees != nil && event.IsPrivate {
		registered, unregistered, err := s.identity.Resolve(ctx, *patch.Invitees)
		if err != nil {
			return nil, err
		}
		invitees := make([]string, 0, len(registered))
		for _, r := range registered {
			invitees = append(invitees, r.UserID.String())
		}
		event.Invitees = invitees
		inviteesChanged = true

		newInvitations, err = s.invitations.IssueTokens(ctx, event, unregistered)
		if err != nil {
			return nil, err
		}
	}

	if err := s.events.Save(ctx, event); err != nil {
		return nil, err
	}
	if inviteesChanged {
		if err := s.events.SetInvitees(ctx, event.ID, event.Invitees); err != nil {
			return nil, err
		}
	}
	if patch.TicketTypes != nil {
		types := make([]models.TicketType, 0, len(*patch.TicketTypes))
		for _, tt := range *patch.TicketTypes {
			types = append(types, models.TicketType{Name: tt.Name, Price: tt.Price, Capacity: tt.Capacity})
		}
		if err := s.events.ReplaceTicketTypes(ctx, event.ID, types); err != nil {
			return nil, err
		}
		event.TicketTypes = types
	}

	return &CreateResult{Event: event, NewInvitations: newInvitations}, nil
}

func (s *EventService) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	return s.events.GetByID(ctx, id)
}

func (s *EventService) List(ctx context.Context, category string, page, limit int) ([]models.Event, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return s.events.List(ctx, category, (page-1)*limit, limit)
}

func (s *EventService) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]models.Event, error) {
	return s.events.ListByOrganizer(ctx, organizerID)
}

// Attendee is one row of the organizer's attendee list.
type Attendee struct {
	UserID       uuid.UUID `json:"user_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	TicketType   string    `json:"ticket_type"`
	TicketStatus string    `json:"ticket_status"`
	BookedAt     time.Time `json:"booked_at"`
}

// Attendees returns the ticket holders of an event, organizer-only.
func (s *EventService) Attendees(ctx context.Context, eventID, requesterID uuid.UUID, page, limit int) ([]Attendee, int64, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, 0, err
	}
	if event.OrganizerID != requesterID {
		return nil, 0, domain.ErrNotEventOwner
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	tickets, total, err := s.tickets.ListByEvent(ctx, eventID, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uuid.UUID, 0, len(tickets))
	for _, t := range tickets {
		ids = append(ids, t.UserID)
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("load attendees: %w", err)
	}
	byID := make(map[uuid.UUID]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	attendees := make([]Attendee, 0, len(tickets))
	for _, t := range tickets {
		att := Attendee{
			UserID:       t.UserID,
			Username:     "[deleted user]",
			TicketType:   t.Type,
			TicketStatus: string(t.Status),
			BookedAt:     t.CreatedAt,
		}
		if u, ok := byID[t.UserID]; ok {
			att.Username = u.Username
			att.Email = u.Email
		}
		attendees = append(attendees, att)
	}
	return attendees, total, nil
}
