package connection

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
	rows  map[uuid.UUID]*models.Connection
	names map[uuid.UUID]string
	clock time.Time

	// beforeSetStatus runs ahead of SetStatus to interleave a competing writer.
	beforeSetStatus func(id uuid.UUID)
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rows:  make(map[uuid.UUID]*models.Connection),
		names: make(map[uuid.UUID]string),
		clock: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *fakeStore) user(name string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.names[id] = name
	return id
}

func (s *fakeStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func samePair(c *models.Connection, a, b uuid.UUID) bool {
	return (c.RequesterID == a && c.RecipientID == b) || (c.RequesterID == b && c.RecipientID == a)
}

func open(st models.ConnectionStatus) bool {
	return st == models.ConnectionStatusPending || st == models.ConnectionStatusAccepted
}

func (s *fakeStore) Create(_ context.Context, c *models.Connection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.names[c.RecipientID]; !ok {
		return fmt.Errorf("recipient profile: %w", apperrors.ErrNotFound)
	}
	for _, row := range s.rows {
		if samePair(row, c.RequesterID, c.RecipientID) && open(row.Status) {
			return fmt.Errorf("duplicate: %w", apperrors.ErrConflict)
		}
	}
	c.ID = uuid.New()
	c.Status = models.ConnectionStatusPending
	c.CreatedAt = s.tick()
	c.UpdatedAt = c.CreatedAt
	row := *c
	s.rows[c.ID] = &row
	return nil
}

func (s *fakeStore) Get(_ context.Context, id uuid.UUID) (*models.Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return nil, fmt.Errorf("connection: %w", apperrors.ErrNotFound)
	}
	c := *row
	return &c, nil
}

func (s *fakeStore) Latest(_ context.Context, a, b uuid.UUID) (*models.Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *models.Connection
	for _, row := range s.rows {
		if samePair(row, a, b) && (latest == nil || row.CreatedAt.After(latest.CreatedAt)) {
			latest = row
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("connection: %w", apperrors.ErrNotFound)
	}
	c := *latest
	return &c, nil
}

func (s *fakeStore) SetStatus(_ context.Context, id uuid.UUID, status models.ConnectionStatus) (*models.Connection, error) {
	if s.beforeSetStatus != nil {
		s.beforeSetStatus(id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok || row.Status != models.ConnectionStatusPending {
		return nil, fmt.Errorf("not pending: %w", apperrors.ErrInvalidTransition)
	}
	row.Status = status
	row.UpdatedAt = s.tick()
	c := *row
	return &c, nil
}

// forceStatus overwrites a row as another writer would.
func (s *fakeStore) forceStatus(id uuid.UUID, status models.ConnectionStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[id].Status = status
	s.rows[id].UpdatedAt = s.tick()
}

func (s *fakeStore) list(userID uuid.UUID, keep func(*models.Connection) bool, other func(*models.Connection) uuid.UUID) []models.Connection {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Connection{}
	for _, row := range s.rows {
		if !keep(row) {
			continue
		}
		c := *row
		c.OtherUserID = other(row)
		c.OtherUserName = s.names[c.OtherUserID]
		c.IsRequester = c.RequesterID == userID
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *fakeStore) ListRequested(_ context.Context, userID uuid.UUID) ([]models.Connection, error) {
	return s.list(userID,
		func(c *models.Connection) bool { return c.RequesterID == userID },
		func(c *models.Connection) uuid.UUID { return c.RecipientID }), nil
}

func (s *fakeStore) ListReceived(_ context.Context, userID uuid.UUID) ([]models.Connection, error) {
	return s.list(userID,
		func(c *models.Connection) bool { return c.RecipientID == userID },
		func(c *models.Connection) uuid.UUID { return c.RequesterID }), nil
}

func (s *fakeStore) ListPending(_ context.Context, userID uuid.UUID) ([]models.Connection, error) {
	return s.list(userID,
		func(c *models.Connection) bool {
			return c.RecipientID == userID && c.Status == models.ConnectionStatusPending
		},
		func(c *models.Connection) uuid.UUID { return c.RequesterID }), nil
}

func (s *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return fmt.Errorf("connection: %w", apperrors.ErrNotFound)
	}
	delete(s.rows, id)
	return nil
}

func (s *fakeStore) DisplayName(_ context.Context, userID uuid.UUID) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.names[userID]
	if !ok {
		return "", fmt.Errorf("profile: %w", apperrors.ErrNotFound)
	}
	return name, nil
}

type sentNotification struct {
	to      uuid.UUID
	kind    string
	message string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
	err  error
}

func (n *recordingNotifier) Notify(_ context.Context, to uuid.UUID, kind, _, message string, _ interface{}) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentNotification{to: to, kind: kind, message: message})
	return nil
}
