package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/shrinkearn/backend/internal/events"
	"github.com/shrinkearn/backend/internal/models"
	"github.com/shrinkearn/backend/internal/repositories"
	"go.uber.org/zap"
)

type NotificationService struct {
	notificationRepo *repositories.NotificationRepo
	publisher        events.Publisher
	log              *zap.Logger
}

func NewNotificationService(
	notificationRepo *repositories.NotificationRepo,
	publisher events.Publisher,
	log *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		publisher:        publisher,
		log:              log,
	}
}

// Notify stores a notification and pushes it to any connected clients.
// The push is best-effort; the stored row is what the center lists.
func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, typ, title, body string) {
	n := &models.Notification{UserID: userID, Type: typ, Title: title, Body: body}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		s.log.Error("failed to store notification", zap.Error(err), zap.String("user_id", userID.String()))
		return
	}

	_ = s.publisher.Publish(ctx, events.StreamNotifications, events.Event{
		Type: events.EventNotificationCreated,
		Payload: map[string]any{
			"user_id": userID.String(),
			"id":      n.ID.String(),
			"type":    typ,
			"title":   title,
			"body":    body,
		},
	})
}

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Notification, error) {
	return s.notificationRepo.ListByUser(ctx, userID, limit, offset)
}

func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.notificationRepo.CountUnread(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	return s.notificationRepo.MarkRead(ctx, userID, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}
