package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestSessionManager_StartStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := newFakeStore()
	m := NewSessionManager(store, 5*time.Millisecond, zaptest.NewLogger(t))

	require.NoError(t, m.Start(context.Background()))
	assert.Error(t, m.Start(context.Background()), "second start must fail")

	assert.Eventually(t, func() bool { return store.purgeRuns() > 0 }, time.Second, 5*time.Millisecond)

	m.Stop()
	m.Stop()
}

func TestSessionManager_JanitorPurgesExpired(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := newFakeStore()
	ctx := context.Background()
	userID := uuid.New()
	require.NoError(t, store.SaveToken(ctx, userID, "old", PurposeSession, time.Now().Add(-time.Minute)))
	require.NoError(t, store.SaveToken(ctx, userID, "fresh", PurposeSession, time.Now().Add(time.Hour)))

	m := NewSessionManager(store, 5*time.Millisecond, zaptest.NewLogger(t))
	require.NoError(t, m.Start(ctx))
	defer m.Stop()

	assert.Eventually(t, func() bool { return store.tokenCount() == 1 }, time.Second, 5*time.Millisecond)
}

func TestSessionManager_PublishSubscribe(t *testing.T) {
	defer goleak.VerifyNone(t)

	m := NewSessionManager(newFakeStore(), time.Hour, zaptest.NewLogger(t))
	events, unsubscribe := m.Subscribe(2)

	userID := uuid.New()
	m.Publish(SessionEvent{Type: EventSignedIn, UserID: userID})

	ev := <-events
	assert.Equal(t, EventSignedIn, ev.Type)
	assert.Equal(t, userID, ev.UserID)
	assert.False(t, ev.At.IsZero())

	unsubscribe()
	unsubscribe()
	_, open := <-events
	assert.False(t, open, "unsubscribe closes the channel")

	// Publishing with no subscribers is a no-op.
	m.Publish(SessionEvent{Type: EventSignedOut, UserID: userID})
}

func TestSessionManager_SlowSubscriberDoesNotBlock(t *testing.T) {
	m := NewSessionManager(newFakeStore(), time.Hour, zaptest.NewLogger(t))
	events, _ := m.Subscribe(1)

	for i := 0; i < 5; i++ {
		m.Publish(SessionEvent{Type: EventSignedIn, UserID: uuid.New()})
	}
	assert.Len(t, events, 1)

	m.Stop()
	<-events
	_, open := <-events
	assert.False(t, open, "stop closes subscriber channels")
}
