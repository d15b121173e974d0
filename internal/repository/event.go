package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/tewodrosk/tiketa/internal/domain"
	"github.com/tewodrosk/tiketa/internal/models"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var event models.Event
	err := r.db.WithContext(ctx).Preload("TicketTypes").Where("id = ?", id).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &event, nil
}

// Save writes the event row. tickets_sold only moves through the
// conditional increments below, and the invitee list through SetInvitees
// and AddInvitee; a full-row write here would clobber changes that landed
// after the caller's read, so those columns are excluded.
func (r *EventRepository) Save(ctx context.Context, event *models.Event) error {
	err := r.db.WithContext(ctx).
		Omit("TicketsSold", "Invitees", "TicketTypes", "Organizer", "CreatedAt").
		Save(event).Error
	if err != nil {
		return fmt.Errorf("save event: %w", err)
	}
	return nil
}

// SetInvitees replaces the resolved invitee list of an event.
func (r *EventRepository) SetInvitees(ctx context.Context, eventID uuid.UUID, invitees []string) error {
	res := r.db.WithContext(ctx).Model(&models.Event{}).
		Where("id = ?", eventID).
		UpdateColumn("invitees", pq.StringArray(invitees))
	if res.Error != nil {
		return fmt.Errorf("set invitees: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) ReplaceTicketTypes(ctx context.Context, eventID uuid.UUID, types []models.TicketType) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", eventID).Delete(&models.TicketType{}).Error; err != nil {
			return fmt.Errorf("delete ticket types: %w", err)
		}
		for i := range types {
			types[i].EventID = eventID
		}
		if len(types) == 0 {
			return nil
		}
		if err := tx.Create(&types).Error; err != nil {
			return fmt.Errorf("create ticket types: %w", err)
		}
		return nil
	})
}

func (r *EventRepository) List(ctx context.Context, category string, offset, limit int) ([]models.Event, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Event{}).Where("is_private = false")
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	var events []models.Event
	err := query.Preload("TicketTypes").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&events).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	return events, total, nil
}

func (r *EventRepository) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]models.Event, error) {
	var events []models.Event
	err := r.db.WithContext(ctx).Preload("TicketTypes").
		Where("organizer_id = ?", organizerID).
		Order("created_at DESC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("list organizer events: %w", err)
	}
	return events, nil
}

// ReserveSeat atomically claims one seat against the event capacity. The
// conditional increment is the only write path for tickets_sold, so two
// requests racing for the last seat cannot both win.
func (r *EventRepository) ReserveSeat(ctx context.Context, eventID uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&models.Event{}).
		Where("id = ? AND tickets_sold < capacity", eventID).
		UpdateColumn("tickets_sold", gorm.Expr("tickets_sold + 1"))
	if res.Error != nil {
		return fmt.Errorf("reserve seat: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Event{}).
			Where("id = ?", eventID).Count(&count).Error; err != nil {
			return fmt.Errorf("reserve seat: %w", err)
		}
		if count == 0 {
			return domain.ErrEventNotFound
		}
		return domain.ErrEventFull
	}
	return nil
}

// ReleaseSeat compensates a reservation whose ticket creation failed.
func (r *EventRepository) ReleaseSeat(ctx context.Context, eventID uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&models.Event{}).
		Where("id = ? AND tickets_sold > 0", eventID).
		UpdateColumn("tickets_sold", gorm.Expr("tickets_sold - 1"))
	if res.Error != nil {
		return fmt.Errorf("release seat: %w", res.Error)
	}
	return nil
}

// ReserveTypeSeat claims a seat of one ticket type. Capacity 0 means the
// type carries no cap of its own; the event-level counter still applies.
func (r *EventRepository) ReserveTypeSeat(ctx context.Context, eventID uuid.UUID, typeName string) error {
	res := r.db.WithContext(ctx).Model(&models.TicketType{}).
		Where("event_id = ? AND name = ? AND (capacity = 0 OR sold < capacity)", eventID, typeName).
		UpdateColumn("sold", gorm.Expr("sold + 1"))
	if res.Error != nil {
		return fmt.Errorf("reserve type seat: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.TicketType{}).
			Where("event_id = ? AND name = ?", eventID, typeName).Count(&count).Error; err != nil {
			return fmt.Errorf("reserve type seat: %w", err)
		}
		if count == 0 {
			return domain.ErrInvalidTicketType
		}
		return domain.ErrTicketTypeSoldOut
	}
	return nil
}

func (r *EventRepository) ReleaseTypeSeat(ctx context.Context, eventID uuid.UUID, typeName string) error {
	res := r.db.WithContext(ctx).Model(&models.TicketType{}).
		Where("event_id = ? AND name = ? AND sold > 0", eventID, typeName).
		UpdateColumn("sold", gorm.Expr("sold - 1"))
	if res.Error != nil {
		return fmt.Errorf("release type seat: %w", res.Error)
	}
	return nil
}

// AddInvitee appends a resolved user id to the invitee list, once.
func (r *EventRepository) AddInvitee(ctx context.Context, eventID, userID uuid.UUID) error {
	err := r.db.WithContext(ctx).Exec(
		`UPDATE events SET invitees = array_append(invitees, ?::text)
		 WHERE id = ? AND NOT (? = ANY(coalesce(invitees, '{}')))`,
		userID.String(), eventID, userID.String(),
	).Error
	if err != nil {
		return fmt.Errorf("add invitee: %w", err)
	}
	return nil
}
