package pitch

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"fundingnl/backend/apperrors"
	"fundingnl/backend/handlers/profile"
	"fundingnl/backend/models"
)

type fakeStore struct {
	mu       sync.Mutex
	pitches  map[uuid.UUID]*models.Pitch
	feedback []models.PitchFeedback
	clock    time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		pitches: make(map[uuid.UUID]*models.Pitch),
		clock:   time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (s *fakeStore) tick() time.Time {
	s.clock = s.clock.Add(time.Minute)
	return s.clock
}

func (s *fakeStore) Create(_ context.Context, p *models.Pitch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = uuid.New()
	p.CreatedAt = s.tick()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	s.pitches[p.ID] = &cp
	return nil
}

func (s *fakeStore) Get(_ context.Context, id uuid.UUID) (*models.Pitch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pitches[id]
	if !ok {
		return nil, fmt.Errorf("pitch: %w", apperrors.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (s *fakeStore) Update(_ context.Context, p *models.Pitch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.pitches[p.ID]
	if !ok || old.FounderID != p.FounderID {
		return fmt.Errorf("pitch: %w", apperrors.ErrNotFound)
	}
	p.CreatedAt = old.CreatedAt
	p.UpdatedAt = s.tick()
	cp := *p
	s.pitches[p.ID] = &cp
	return nil
}

func (s *fakeStore) Delete(_ context.Context, founderID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pitches[id]
	if !ok || p.FounderID != founderID {
		return fmt.Errorf("pitch: %w", apperrors.ErrNotFound)
	}
	delete(s.pitches, id)
	return nil
}

func (s *fakeStore) filter(keep func(*models.Pitch) bool) []models.Pitch {
	list := []models.Pitch{}
	for _, p := range s.pitches {
		if keep(p) {
			list = append(list, *p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].UpdatedAt.After(list[j].UpdatedAt) })
	return list
}

func (s *fakeStore) ListByFounder(_ context.Context, founderID uuid.UUID) ([]models.Pitch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter(func(p *models.Pitch) bool { return p.FounderID == founderID }), nil
}

func (s *fakeStore) ListPublished(_ context.Context, limit, offset int) ([]models.Pitch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.filter(func(p *models.Pitch) bool { return p.Status == models.PitchStatusPublished })
	if offset >= len(list) {
		return []models.Pitch{}, nil
	}
	list = list[offset:]
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (s *fakeStore) AddFeedback(_ context.Context, f *models.PitchFeedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pitches[f.PitchID]; !ok {
		return fmt.Errorf("pitch: %w", apperrors.ErrNotFound)
	}
	for _, existing := range s.feedback {
		if existing.PitchID == f.PitchID && existing.InvestorID == f.InvestorID {
			return fmt.Errorf("feedback already submitted: %w", apperrors.ErrConflict)
		}
	}
	f.ID = uuid.New()
	f.CreatedAt = s.tick()
	s.feedback = append(s.feedback, *f)
	return nil
}

func (s *fakeStore) ListFeedback(_ context.Context, pitchID uuid.UUID) ([]models.PitchFeedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := []models.PitchFeedback{}
	for i := len(s.feedback) - 1; i >= 0; i-- {
		if s.feedback[i].PitchID == pitchID {
			list = append(list, s.feedback[i])
		}
	}
	return list, nil
}

type fakeProfiles map[uuid.UUID]*models.Profile

func (f fakeProfiles) add(role models.UserType, name string) uuid.UUID {
	id := uuid.New()
	f[id] = &models.Profile{ID: id, UserType: role, FullName: name}
	return id
}

func (f fakeProfiles) Get(_ context.Context, userID uuid.UUID) (*profile.Bundle, error) {
	p, ok := f[userID]
	if !ok {
		return nil, fmt.Errorf("profile: %w", apperrors.ErrNotFound)
	}
	return &profile.Bundle{Profile: p}, nil
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
