package wizard

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"fundingnl/backend/apperrors"
	"fundingnl/backend/handlers/profile"
	"fundingnl/backend/models"
)

type fakeEditor struct {
	mu        sync.Mutex
	bundles   map[uuid.UUID]*profile.Bundle
	saves     []profile.Changes
	completed map[uuid.UUID]int
	failErr   error
}

func newFakeEditor() *fakeEditor {
	return &fakeEditor{
		bundles:   make(map[uuid.UUID]*profile.Bundle),
		completed: make(map[uuid.UUID]int),
	}
}

func (e *fakeEditor) add(role models.UserType) uuid.UUID {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := uuid.New()
	e.bundles[id] = &profile.Bundle{Profile: &models.Profile{ID: id, UserType: role, Status: models.ProfileStatusIncomplete}}
	return id
}

func (e *fakeEditor) bundle(id uuid.UUID) *profile.Bundle {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bundles[id]
}

func (e *fakeEditor) Get(_ context.Context, userID uuid.UUID) (*profile.Bundle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	b, ok := e.bundles[userID]
	if !ok {
		return nil, fmt.Errorf("profile: %w", apperrors.ErrNotFound)
	}
	return b, nil
}

func (e *fakeEditor) Save(_ context.Context, userID uuid.UUID, c profile.Changes) (*profile.Bundle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.failErr != nil {
		return nil, e.failErr
	}
	if err := profile.Validate(c); err != nil {
		return nil, err
	}
	e.saves = append(e.saves, c)
	next := profile.Apply(e.bundles[userID], userID, c)
	e.bundles[userID] = next
	return next, nil
}

func (e *fakeEditor) MarkWizardCompleted(_ context.Context, userID uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.completed[userID]++
	return nil
}

type sentNotification struct {
	to   uuid.UUID
	kind string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
	err  error
}

func (n *recordingNotifier) Notify(_ context.Context, to uuid.UUID, kind, _, _ string, _ interface{}) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentNotification{to: to, kind: kind})
	return nil
}
