package pitch

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"fundingnl/backend/apperrors"
	"fundingnl/backend/models"
)

type fixture struct {
	svc      *Service
	store    *fakeStore
	profiles fakeProfiles
	notifier *recordingNotifier
	founder  uuid.UUID
	investor uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{store: newFakeStore(), profiles: fakeProfiles{}, notifier: &recordingNotifier{}}
	f.founder = f.profiles.add(models.UserTypeFounder, "Anna")
	f.investor = f.profiles.add(models.UserTypeInvestor, "Jan")
	f.svc = NewService(f.store, f.profiles, f.notifier, zaptest.NewLogger(t))
	return f
}

func intp(v int) *int { return &v }

func TestService_PitchLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.investor, PitchInput{Title: "x"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = f.svc.Create(ctx, f.founder, PitchInput{Title: " ", Status: "live"})
	var v *apperrors.ValidationError
	require.True(t, errors.As(err, &v))
	assert.Contains(t, v.Fields, "title")
	assert.Contains(t, v.Fields, "status")

	p, err := f.svc.Create(ctx, f.founder, PitchInput{Title: "Akkerbot seed round"})
	require.NoError(t, err)
	assert.Equal(t, models.PitchStatusDraft, p.Status)

	_, err = f.svc.Get(ctx, f.investor, p.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "drafts are private")

	list, err := f.svc.Published(ctx, f.investor, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = f.svc.Update(ctx, f.investor, p.ID, PitchInput{Title: "hijack"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	p, err = f.svc.Update(ctx, f.founder, p.ID, PitchInput{Title: "Akkerbot seed round", Status: models.PitchStatusPublished})
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, f.investor, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Title, got.Title)

	list, err = f.svc.Published(ctx, f.investor, 500, -1)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = f.svc.Published(ctx, f.founder, 10, 0)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	mine, err := f.svc.Mine(ctx, f.founder)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	require.NoError(t, f.svc.Delete(ctx, f.founder, p.ID))
	assert.ErrorIs(t, f.svc.Delete(ctx, f.founder, p.ID), apperrors.ErrNotFound)
}

func TestService_Feedback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft, err := f.svc.Create(ctx, f.founder, PitchInput{Title: "Draft"})
	require.NoError(t, err)
	_, err = f.svc.SubmitFeedback(ctx, f.investor, draft.ID, FeedbackInput{OverallRating: 4})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	p, err := f.svc.Create(ctx, f.founder, PitchInput{Title: "Live", Status: models.PitchStatusPublished})
	require.NoError(t, err)

	_, err = f.svc.SubmitFeedback(ctx, f.investor, p.ID, FeedbackInput{
		OverallRating: 6, MarketRating: intp(0), InvestmentInterest: "maybe",
	})
	var v *apperrors.ValidationError
	require.True(t, errors.As(err, &v))
	assert.Contains(t, v.Fields, "overall_rating")
	assert.Contains(t, v.Fields, "market_rating")
	assert.Contains(t, v.Fields, "investment_interest")

	_, err = f.svc.SubmitFeedback(ctx, f.founder, p.ID, FeedbackInput{OverallRating: 5})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	fb, err := f.svc.SubmitFeedback(ctx, f.investor, p.ID, FeedbackInput{OverallRating: 4, TeamRating: intp(5)})
	require.NoError(t, err)
	assert.Equal(t, "none", fb.InvestmentInterest)
	assert.Equal(t, "Jan", fb.InvestorName)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, f.founder, f.notifier.sent[0].to)
	assert.Equal(t, models.NotificationPitchFeedback, f.notifier.sent[0].kind)
	assert.Contains(t, f.notifier.sent[0].message, "Jan rated")

	_, err = f.svc.SubmitFeedback(ctx, f.investor, p.ID, FeedbackInput{OverallRating: 2})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	list, err := f.svc.Feedback(ctx, f.founder, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 5, *list[0].TeamRating)

	_, err = f.svc.Feedback(ctx, f.investor, p.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestService_FeedbackNotifyFailureIsLogged(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("down")
	p, err := f.svc.Create(context.Background(), f.founder, PitchInput{Title: "Live", Status: models.PitchStatusPublished})
	require.NoError(t, err)

	_, err = f.svc.SubmitFeedback(context.Background(), f.investor, p.ID, FeedbackInput{OverallRating: 3})
	assert.NoError(t, err)
}
