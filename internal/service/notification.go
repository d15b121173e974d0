package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tewodrosk/tiketa/internal/models"
)

// NotificationService records in-app notifications. Dispatch is
// best-effort and post-commit; it never shares a failure domain with
// capacity reservation or payment reconciliation.
type NotificationService struct {
	notifications NotificationRepository
	log           *slog.Logger
}

func NewNotificationService(notifications NotificationRepository, log *slog.Logger) *NotificationService {
	return &NotificationService{notifications: notifications, log: log}
}

// Notify records a notification, logging instead of failing the caller.
func (s *NotificationService) Notify(ctx context.Context, userID, eventID uuid.UUID, kind models.NotificationType, message, link string) {
	n := &models.Notification{
		UserID:  userID,
		EventID: eventID,
		Type:    kind,
		Message: message,
		Link:    link,
		Status:  "unread",
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		s.log.Error("notification create failed",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()),
		)
	}
}

func (s *NotificationService) ListUnread(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	return s.notifications.ListUnread(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	return s.notifications.MarkRead(ctx, userID, id)
}
