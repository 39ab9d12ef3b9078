package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventType string

const (
	EventSignedIn         EventType = "SIGNED_IN"
	EventSignedOut        EventType = "SIGNED_OUT"
	EventPasswordRecovery EventType = "PASSWORD_RECOVERY"
	EventUserUpdated      EventType = "USER_UPDATED"
)

// SessionEvent is published whenever a user's session state changes.
type SessionEvent struct {
	Type   EventType
	UserID uuid.UUID
	At     time.Time
}

// TokenPurger removes tokens that expired before the given time.
type TokenPurger interface {
	PurgeExpiredTokens(ctx context.Context, before time.Time) (int64, error)
}

// SessionManager owns the session-change event stream and the expired-token janitor.
// It must be started with Start and released with Stop.
type SessionManager struct {
	purger   TokenPurger
	interval time.Duration
	logger   *zap.Logger
	now      func() time.Time

	mu     sync.Mutex
	subs   map[int]chan SessionEvent
	nextID int
	cancel context.CancelFunc
	done   chan struct{}
}

func NewSessionManager(purger TokenPurger, interval time.Duration, logger *zap.Logger) *SessionManager {
	return &SessionManager{
		purger:   purger,
		interval: interval,
		logger:   logger,
		now:      time.Now,
		subs:     make(map[int]chan SessionEvent),
	}
}

// Start launches the janitor. It fails if the manager is already running.
func (m *SessionManager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		return errors.New("session manager already started")
	}

	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})

	go m.run(ctx, m.done)
	return nil
}

func (m *SessionManager) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.purge(ctx)
		}
	}
}

func (m *SessionManager) purge(ctx context.Context) {
	n, err := m.purger.PurgeExpiredTokens(ctx, m.now())
	if err != nil {
		if ctx.Err() == nil {
			m.logger.Warn("Failed to purge expired tokens", zap.Error(err))
		}
		return
	}
	if n > 0 {
		m.logger.Debug("Purged expired tokens", zap.Int64("count", n))
	}
}

// Stop halts the janitor and closes every subscriber channel.
func (m *SessionManager) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	for id, ch := range m.subs {
		close(ch)
		delete(m.subs, id)
	}
	m.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Subscribe returns a buffered event channel and a function that cancels the subscription.
// Events are dropped for a subscriber whose buffer is full.
func (m *SessionManager) Subscribe(buffer int) (<-chan SessionEvent, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	ch := make(chan SessionEvent, buffer)
	m.subs[id] = ch

	return ch, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if sub, ok := m.subs[id]; ok {
			close(sub)
			delete(m.subs, id)
		}
	}
}

// Publish fans ev out to all subscribers without blocking.
func (m *SessionManager) Publish(ev SessionEvent) {
	if ev.At.IsZero() {
		ev.At = m.now()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range m.subs {
		select {
		case ch <- ev:
		default:
			m.logger.Warn("Dropping session event for slow subscriber",
				zap.String("type", string(ev.Type)),
				zap.String("user_id", ev.UserID.String()))
		}
	}
}
