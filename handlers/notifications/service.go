package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fundingnl/backend/models"
)

// Notifier is what other workflows use to raise a notification.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind, title, message string, data interface{}) error
}

type Service struct {
	store  Store
	hub    *Hub
	logger *zap.Logger
}

func NewService(store Store, hub *Hub, logger *zap.Logger) *Service {
	return &Service{store: store, hub: hub, logger: logger}
}

// Notify stores a notification and pushes it to the user's open sockets.
func (s *Service) Notify(ctx context.Context, userID uuid.UUID, kind, title, message string, data interface{}) error {
	payload := json.RawMessage("{}")
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("error encoding notification data: %w", err)
		}
		payload = b
	}

	n := &models.Notification{
		UserID:  userID,
		Type:    kind,
		Title:   title,
		Message: message,
		Data:    payload,
	}
	if err := s.store.Create(ctx, n); err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.Send(userID, Push{Type: "notification", Notification: n})
	}
	return nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, opts ListOptions) ([]models.Notification, error) {
	if opts.Limit <= 0 {
		opts.Limit = defaultLimit
	}
	if opts.Limit > maxLimit {
		opts.Limit = maxLimit
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return s.store.List(ctx, userID, opts)
}

func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.store.CountUnread(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	return s.store.MarkRead(ctx, userID, id)
}

func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.store.MarkAllRead(ctx, userID)
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.store.Delete(ctx, userID, id)
}

func (s *Service) DeleteAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.store.DeleteAll(ctx, userID)
}
