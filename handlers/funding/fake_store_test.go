package funding

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"fundingnl/backend/apperrors"
	"fundingnl/backend/models"
)

type fakeStore struct {
	mu       sync.Mutex
	rows     map[uuid.UUID]*models.FundingOpportunity
	allCalls int
	failErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[uuid.UUID]*models.FundingOpportunity)}
}

func (s *fakeStore) add(slug, title, sector string) *models.FundingOpportunity {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := &models.FundingOpportunity{ID: uuid.New(), Slug: slug, Title: title, Sector: sector, Type: models.FundingTypeGrant}
	s.rows[o.ID] = o
	return o
}

func (s *fakeStore) sorted() []models.FundingOpportunity {
	list := make([]models.FundingOpportunity, 0, len(s.rows))
	for _, o := range s.rows {
		list = append(list, *o)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Title < list[j].Title })
	return list
}

func (s *fakeStore) All(context.Context) ([]models.FundingOpportunity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allCalls++
	if s.failErr != nil {
		return nil, s.failErr
	}
	return s.sorted(), nil
}

func (s *fakeStore) List(_ context.Context, f Filter) ([]models.FundingOpportunity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.FundingOpportunity{}
	for _, o := range s.sorted() {
		if f.Type != "" && o.Type != f.Type {
			continue
		}
		if f.Sector != "" && o.Sector != f.Sector {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(o.Title), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, o)
	}
	if f.Offset >= len(out) {
		return []models.FundingOpportunity{}, nil
	}
	out = out[f.Offset:]
	if len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *fakeStore) Get(_ context.Context, id uuid.UUID) (*models.FundingOpportunity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.rows[id]
	if !ok {
		return nil, fmt.Errorf("funding opportunity: %w", apperrors.ErrNotFound)
	}
	cp := *o
	return &cp, nil
}

func (s *fakeStore) Recommended(_ context.Context, sector string, limit int) ([]models.FundingOpportunity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.sorted()
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Sector == sector && list[j].Sector != sector
	})
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (s *fakeStore) slugTaken(slug string, except uuid.UUID) bool {
	for id, o := range s.rows {
		if o.Slug == slug && id != except {
			return true
		}
	}
	return false
}

func (s *fakeStore) Create(_ context.Context, o *models.FundingOpportunity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.slugTaken(o.Slug, uuid.Nil) {
		return fmt.Errorf("slug %q already in use: %w", o.Slug, apperrors.ErrConflict)
	}
	o.ID = uuid.New()
	cp := *o
	s.rows[o.ID] = &cp
	return nil
}

func (s *fakeStore) Update(_ context.Context, o *models.FundingOpportunity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[o.ID]; !ok {
		return fmt.Errorf("funding opportunity: %w", apperrors.ErrNotFound)
	}
	if s.slugTaken(o.Slug, o.ID) {
		return fmt.Errorf("slug %q already in use: %w", o.Slug, apperrors.ErrConflict)
	}
	cp := *o
	s.rows[o.ID] = &cp
	return nil
}

func (s *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return fmt.Errorf("funding opportunity: %w", apperrors.ErrNotFound)
	}
	delete(s.rows, id)
	return nil
}
