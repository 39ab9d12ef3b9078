package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"fundingnl/backend/apperrors"
	"fundingnl/backend/models"
)

type fakeUser struct {
	user User
	hash string
}

type fakeToken struct {
	userID    uuid.UUID
	purpose   string
	expiresAt time.Time
}

// fakeStore is an in-memory Store.
type fakeStore struct {
	mu     sync.Mutex
	users  map[uuid.UUID]*fakeUser
	tokens map[string]fakeToken
	purged int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:  make(map[uuid.UUID]*fakeUser),
		tokens: make(map[string]fakeToken),
	}
}

func (s *fakeStore) CreateUser(_ context.Context, email, hash, _ string, userType models.UserType) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.user.Email, email) {
			return nil, fmt.Errorf("email already registered: %w", apperrors.ErrConflict)
		}
	}
	u := User{ID: uuid.New(), Email: strings.ToLower(email), UserType: userType, CreatedAt: time.Now()}
	s.users[u.ID] = &fakeUser{user: u, hash: hash}
	return &u, nil
}

func (s *fakeStore) GetUserByEmail(_ context.Context, email string) (*User, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.user.Email, email) {
			user := u.user
			return &user, u.hash, nil
		}
	}
	return nil, "", fmt.Errorf("user: %w", apperrors.ErrNotFound)
}

func (s *fakeStore) GetUserByID(_ context.Context, id uuid.UUID) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user: %w", apperrors.ErrNotFound)
	}
	user := u.user
	return &user, nil
}

func (s *fakeStore) SaveToken(_ context.Context, userID uuid.UUID, token, purpose string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = fakeToken{userID: userID, purpose: purpose, expiresAt: expiresAt}
	return nil
}

func (s *fakeStore) TokenActive(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[token]
	return ok && t.purpose == PurposeSession && t.expiresAt.After(time.Now()), nil
}

func (s *fakeStore) DeleteToken(_ context.Context, token string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[token]
	if !ok || t.purpose != PurposeSession {
		return uuid.Nil, fmt.Errorf("token: %w", apperrors.ErrNotFound)
	}
	delete(s.tokens, token)
	return t.userID, nil
}

func (s *fakeStore) ResetPassword(_ context.Context, recoveryToken, hash string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[recoveryToken]
	if !ok || t.purpose != PurposeRecovery || !t.expiresAt.After(time.Now()) {
		return uuid.Nil, fmt.Errorf("recovery token already used or expired: %w", apperrors.ErrUnauthorized)
	}
	u, ok := s.users[t.userID]
	if !ok {
		return uuid.Nil, fmt.Errorf("user: %w", apperrors.ErrNotFound)
	}
	u.hash = hash
	for k, other := range s.tokens {
		if other.userID == t.userID {
			delete(s.tokens, k)
		}
	}
	return t.userID, nil
}

func (s *fakeStore) PurgeExpiredTokens(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for k, t := range s.tokens {
		if t.expiresAt.Before(before) {
			delete(s.tokens, k)
			n++
		}
	}
	s.purged++
	return n, nil
}

func (s *fakeStore) tokenCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}

func (s *fakeStore) purgeRuns() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.purged
}

// recordingMailer captures reset links.
type recordingMailer struct {
	mu    sync.Mutex
	links map[string]string
}

func (m *recordingMailer) SendPasswordReset(_ context.Context, email, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.links == nil {
		m.links = make(map[string]string)
	}
	m.links[email] = link
	return nil
}
