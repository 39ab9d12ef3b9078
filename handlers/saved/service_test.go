package saved

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"fundingnl/backend/apperrors"
)

func TestService_SaveLifecycle(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, zaptest.NewLogger(t))
	ctx := context.Background()
	user := uuid.New()
	wbso, rise := store.opportunity("WBSO"), store.opportunity("Techleap Rise")

	_, err := svc.Add(ctx, user, SaveRequest{OpportunityID: wbso, Notes: "check deadline"})
	require.NoError(t, err)
	_, err = svc.Add(ctx, user, SaveRequest{OpportunityID: rise})
	require.NoError(t, err)

	_, err = svc.Add(ctx, user, SaveRequest{OpportunityID: wbso})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = svc.Add(ctx, user, SaveRequest{OpportunityID: uuid.New()})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	list, err := svc.List(ctx, user)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, rise, list[0].OpportunityID, "newest first")
	assert.Equal(t, "WBSO", list[1].Opportunity.Title)
	assert.Equal(t, "check deadline", list[1].Notes)

	so, err := svc.UpdateNotes(ctx, user, wbso, "")
	require.NoError(t, err)
	assert.Empty(t, so.Notes)

	ok, err := svc.IsSaved(ctx, user, wbso)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, svc.Remove(ctx, user, wbso))
	assert.ErrorIs(t, svc.Remove(ctx, user, wbso), apperrors.ErrNotFound)

	ok, err = svc.IsSaved(ctx, user, wbso)
	require.NoError(t, err)
	assert.False(t, ok)

	other, err := svc.List(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestService_Validation(t *testing.T) {
	svc := NewService(newFakeStore(), zaptest.NewLogger(t))
	ctx := context.Background()

	_, err := svc.Add(ctx, uuid.New(), SaveRequest{})
	assert.ErrorIs(t, err, apperrors.ErrInvalid)

	_, err = svc.UpdateNotes(ctx, uuid.New(), uuid.New(), strings.Repeat("x", maxNotesLength+1))
	assert.ErrorIs(t, err, apperrors.ErrInvalid)
}
