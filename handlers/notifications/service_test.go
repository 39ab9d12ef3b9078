package notifications

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"fundingnl/backend/apperrors"
	"fundingnl/backend/models"
)

func TestService_Lifecycle(t *testing.T) {
	logger := zaptest.NewLogger(t)
	svc := NewService(newFakeStore(), NewHub(logger), logger)
	ctx := context.Background()
	user, other := uuid.New(), uuid.New()

	require.NoError(t, svc.Notify(ctx, user, models.NotificationConnectionRequest, "New connection request", "Anna wants to connect", map[string]string{"connection_id": "c1"}))
	require.NoError(t, svc.Notify(ctx, user, models.NotificationProfileCompleted, "Profile complete", "", nil))
	require.NoError(t, svc.Notify(ctx, other, models.NotificationPitchFeedback, "Feedback", "", nil))

	list, err := svc.List(ctx, user, ListOptions{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, models.NotificationProfileCompleted, list[0].Type, "newest first")
	assert.JSONEq(t, `{}`, string(list[0].Data))
	assert.JSONEq(t, `{"connection_id":"c1"}`, string(list[1].Data))

	n, err := svc.UnreadCount(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, svc.MarkRead(ctx, user, list[1].ID))
	assert.ErrorIs(t, svc.MarkRead(ctx, other, list[0].ID), apperrors.ErrNotFound, "other users cannot touch it")

	unread, err := svc.List(ctx, user, ListOptions{UnreadOnly: true})
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, list[0].ID, unread[0].ID)

	affected, err := svc.MarkAllRead(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	require.NoError(t, svc.Delete(ctx, user, list[0].ID))
	assert.ErrorIs(t, svc.Delete(ctx, user, list[0].ID), apperrors.ErrNotFound)

	affected, err = svc.DeleteAll(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	n, err = svc.UnreadCount(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestService_ListClampsPaging(t *testing.T) {
	logger := zaptest.NewLogger(t)
	svc := NewService(newFakeStore(), nil, logger)
	ctx := context.Background()
	user := uuid.New()

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Notify(ctx, user, "test", "t", "", nil))
	}

	list, err := svc.List(ctx, user, ListOptions{Limit: 2, Offset: -5})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = svc.List(ctx, user, ListOptions{Limit: 1000})
	require.NoError(t, err)
	assert.Len(t, list, 3)
}
