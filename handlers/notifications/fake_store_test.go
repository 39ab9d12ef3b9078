package notifications

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"fundingnl/backend/apperrors"
	"fundingnl/backend/models"
)

type fakeStore struct {
	mu    sync.Mutex
	items []models.Notification
	clock time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{clock: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (s *fakeStore) Create(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = s.clock.Add(time.Minute)
	n.ID = uuid.New()
	n.CreatedAt = s.clock
	s.items = append(s.items, *n)
	return nil
}

func (s *fakeStore) List(_ context.Context, userID uuid.UUID, opts ListOptions) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Notification{}
	for _, n := range s.items {
		if n.UserID == userID && (!opts.UnreadOnly || !n.IsRead) {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if opts.Offset >= len(out) {
		return []models.Notification{}, nil
	}
	out = out[opts.Offset:]
	if len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (s *fakeStore) CountUnread(_ context.Context, userID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := 0
	for _, n := range s.items {
		if n.UserID == userID && !n.IsRead {
			c++
		}
	}
	return c, nil
}

func (s *fakeStore) MarkRead(_ context.Context, userID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id && s.items[i].UserID == userID {
			s.items[i].IsRead = true
			return nil
		}
	}
	return fmt.Errorf("notification: %w", apperrors.ErrNotFound)
}

func (s *fakeStore) MarkAllRead(_ context.Context, userID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var c int64
	for i := range s.items {
		if s.items[i].UserID == userID && !s.items[i].IsRead {
			s.items[i].IsRead = true
			c++
		}
	}
	return c, nil
}

func (s *fakeStore) Delete(_ context.Context, userID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id && s.items[i].UserID == userID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("notification: %w", apperrors.ErrNotFound)
}

func (s *fakeStore) DeleteAll(_ context.Context, userID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	var c int64
	for _, n := range s.items {
		if n.UserID == userID {
			c++
			continue
		}
		kept = append(kept, n)
	}
	s.items = kept
	return c, nil
}
