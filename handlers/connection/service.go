package connection

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"fundingnl/backend/apperrors"
	"fundingnl/backend/handlers/notifications"
	"fundingnl/backend/models"
)

type Service struct {
	store    Store
	notifier notifications.Notifier
	logger   *zap.Logger
}

func NewService(store Store, notifier notifications.Notifier, logger *zap.Logger) *Service {
	return &Service{store: store, notifier: notifier, logger: logger}
}

// SendRequest opens a pending connection from requester to recipient and notifies the recipient.
func (s *Service) SendRequest(ctx context.Context, requesterID, recipientID uuid.UUID, message string) (*models.Connection, error) {
	v := apperrors.NewValidation()
	if recipientID == uuid.Nil {
		v.Add("recipient_id", "is required")
	} else if recipientID == requesterID {
		v.Add("recipient_id", "cannot connect with yourself")
	}
	message = strings.TrimSpace(message)
	if len(message) > maxMessageLength {
		v.Add("message", fmt.Sprintf("must be at most %d characters", maxMessageLength))
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	c := &models.Connection{RequesterID: requesterID, RecipientID: recipientID, Message: message}
	if err := s.store.Create(ctx, c); err != nil {
		return nil, err
	}
	c.IsRequester = true

	s.notify(ctx, recipientID, requesterID, models.NotificationConnectionRequest,
		"New connection request", "%s wants to connect with you", c)
	return c, nil
}

// GetStatus returns the status of the newest connection between exactly a and b.
func (s *Service) GetStatus(ctx context.Context, a, b uuid.UUID) (models.ConnectionStatus, error) {
	c, err := s.store.Latest(ctx, a, b)
	if errors.Is(err, apperrors.ErrNotFound) {
		return models.ConnectionStatusNone, nil
	}
	if err != nil {
		return "", err
	}
	return c.Status, nil
}

func (s *Service) Accept(ctx context.Context, actorID, id uuid.UUID) (*models.Connection, error) {
	return s.respond(ctx, actorID, id, models.ConnectionStatusAccepted)
}

func (s *Service) Reject(ctx context.Context, actorID, id uuid.UUID) (*models.Connection, error) {
	return s.respond(ctx, actorID, id, models.ConnectionStatusRejected)
}

func (s *Service) respond(ctx context.Context, actorID, id uuid.UUID, status models.ConnectionStatus) (*models.Connection, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.RecipientID != actorID {
		return nil, fmt.Errorf("only the recipient can respond to a request: %w", apperrors.ErrForbidden)
	}

	switch c.Status {
	case status:
		return c, nil
	case models.ConnectionStatusPending:
	default:
		return nil, fmt.Errorf("connection already %s: %w", c.Status, apperrors.ErrInvalidTransition)
	}

	updated, err := s.store.SetStatus(ctx, id, status)
	if errors.Is(err, apperrors.ErrInvalidTransition) {
		// A concurrent response won; identical answers are a no-op.
		current, getErr := s.store.Get(ctx, id)
		if getErr == nil && current.Status == status {
			return current, nil
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	if status == models.ConnectionStatusAccepted {
		s.notify(ctx, updated.RequesterID, actorID, models.NotificationConnectionAccepted,
			"Connection accepted", "%s accepted your connection request", updated)
	} else {
		s.notify(ctx, updated.RequesterID, actorID, models.NotificationConnectionRejected,
			"Connection declined", "%s declined your connection request", updated)
	}
	return updated, nil
}

// ListConnections returns both directions merged, newest first.
func (s *Service) ListConnections(ctx context.Context, userID uuid.UUID) ([]models.Connection, error) {
	var requested, received []models.Connection

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		requested, err = s.store.ListRequested(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		received, err = s.store.ListReceived(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := make([]models.Connection, 0, len(requested)+len(received))
	all = append(all, requested...)
	all = append(all, received...)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return all, nil
}

func (s *Service) ListPendingRequests(ctx context.Context, userID uuid.UUID) ([]models.Connection, error) {
	return s.store.ListPending(ctx, userID)
}

// Remove deletes a connection. Either participant may remove it.
func (s *Service) Remove(ctx context.Context, actorID, id uuid.UUID) error {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if c.RequesterID != actorID && c.RecipientID != actorID {
		return fmt.Errorf("not a participant: %w", apperrors.ErrForbidden)
	}
	return s.store.Delete(ctx, id)
}

// notify raises a notification for the counterpart. The connection change has
// already been committed, so failures are logged rather than returned.
func (s *Service) notify(ctx context.Context, to, from uuid.UUID, kind, title, format string, c *models.Connection) {
	if s.notifier == nil {
		return
	}

	name, err := s.store.DisplayName(ctx, from)
	if err != nil || name == "" {
		name = "Someone"
	}

	data := map[string]string{"connection_id": c.ID.String(), "user_id": from.String()}
	if err := s.notifier.Notify(ctx, to, kind, title, fmt.Sprintf(format, name), data); err != nil {
		s.logger.Error("Failed to create connection notification",
			zap.String("connection_id", c.ID.String()),
			zap.String("type", kind),
			zap.Error(err))
	}
}
