package profile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"fundingnl/backend/apperrors"
	"fundingnl/backend/models"
)

type fakeStore struct {
	mu      sync.Mutex
	bundles map[uuid.UUID]*Bundle
	saves   int
	failErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{bundles: make(map[uuid.UUID]*Bundle)}
}

func (s *fakeStore) add(userType models.UserType, fullName string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.bundles[id] = &Bundle{Profile: &models.Profile{
		ID:       id,
		Email:    "user-" + id.String()[:8] + "@example.nl",
		FullName: fullName,
		UserType: userType,
		Status:   models.ProfileStatusIncomplete,
	}}
	return id
}

func (s *fakeStore) GetBundle(_ context.Context, userID uuid.UUID) (*Bundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bundles[userID]
	if !ok {
		return nil, fmt.Errorf("profile: %w", apperrors.ErrNotFound)
	}
	return Apply(b, userID, Changes{}), nil
}

func (s *fakeStore) Save(_ context.Context, userID uuid.UUID, c Changes) (*Bundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return nil, s.failErr
	}
	b, ok := s.bundles[userID]
	if !ok {
		return nil, fmt.Errorf("profile: %w", apperrors.ErrNotFound)
	}
	next := Apply(b, userID, c)
	next.Profile.UpdatedAt = time.Now()
	s.bundles[userID] = next
	s.saves++
	return Apply(next, userID, Changes{}), nil
}

func (s *fakeStore) MarkWizardCompleted(_ context.Context, userID uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bundles[userID]
	if !ok {
		return fmt.Errorf("profile: %w", apperrors.ErrNotFound)
	}
	if b.Profile.WizardCompletedAt == nil {
		b.Profile.WizardCompletedAt = &at
	}
	return nil
}
