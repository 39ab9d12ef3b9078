package saved

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
	mu            sync.Mutex
	rows          []*models.SavedOpportunity
	opportunities map[uuid.UUID]*models.FundingOpportunity
	clock         time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		opportunities: make(map[uuid.UUID]*models.FundingOpportunity),
		clock:         time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (s *fakeStore) opportunity(title string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.opportunities[id] = &models.FundingOpportunity{ID: id, Title: title}
	return id
}

func (s *fakeStore) find(userID, opportunityID uuid.UUID) int {
	for i, row := range s.rows {
		if row.UserID == userID && row.OpportunityID == opportunityID {
			return i
		}
	}
	return -1
}

func (s *fakeStore) List(_ context.Context, userID uuid.UUID) ([]models.SavedOpportunity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := []models.SavedOpportunity{}
	for _, row := range s.rows {
		if row.UserID == userID {
			cp := *row
			o := *s.opportunities[row.OpportunityID]
			cp.Opportunity = &o
			list = append(list, cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (s *fakeStore) Add(_ context.Context, so *models.SavedOpportunity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.opportunities[so.OpportunityID]; !ok {
		return fmt.Errorf("funding opportunity: %w", apperrors.ErrNotFound)
	}
	if s.find(so.UserID, so.OpportunityID) >= 0 {
		return fmt.Errorf("opportunity already saved: %w", apperrors.ErrConflict)
	}
	s.clock = s.clock.Add(time.Minute)
	so.ID = uuid.New()
	so.CreatedAt = s.clock
	cp := *so
	s.rows = append(s.rows, &cp)
	return nil
}

func (s *fakeStore) Remove(_ context.Context, userID, opportunityID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(userID, opportunityID)
	if i < 0 {
		return fmt.Errorf("saved opportunity: %w", apperrors.ErrNotFound)
	}
	s.rows = append(s.rows[:i], s.rows[i+1:]...)
	return nil
}

func (s *fakeStore) UpdateNotes(_ context.Context, userID, opportunityID uuid.UUID, notes string) (*models.SavedOpportunity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(userID, opportunityID)
	if i < 0 {
		return nil, fmt.Errorf("saved opportunity: %w", apperrors.ErrNotFound)
	}
	s.rows[i].Notes = notes
	cp := *s.rows[i]
	return &cp, nil
}

func (s *fakeStore) IsSaved(_ context.Context, userID, opportunityID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.find(userID, opportunityID) >= 0, nil
}
