package pitch

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fundingnl/backend/apperrors"
	"fundingnl/backend/handlers/notifications"
	"fundingnl/backend/handlers/profile"
	"fundingnl/backend/models"
)

// Profiles resolves a caller's role and display name.
type Profiles interface {
	Get(ctx context.Context, userID uuid.UUID) (*profile.Bundle, error)
}

type Service struct {
	store    Store
	profiles Profiles
	notifier notifications.Notifier
	logger   *zap.Logger
}

func NewService(store Store, profiles Profiles, notifier notifications.Notifier, logger *zap.Logger) *Service {
	return &Service{store: store, profiles: profiles, notifier: notifier, logger: logger}
}

func (s *Service) requireRole(ctx context.Context, userID uuid.UUID, role models.UserType) (*models.Profile, error) {
	b, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if b.Profile.UserType != role {
		return nil, fmt.Errorf("only %ss may do this: %w", role, apperrors.ErrForbidden)
	}
	return b.Profile, nil
}

func (in PitchInput) toModel(founderID uuid.UUID) (*models.Pitch, error) {
	v := apperrors.NewValidation()
	title := strings.TrimSpace(in.Title)
	if title == "" {
		v.Add("title", "is required")
	}
	status := in.Status
	if status == "" {
		status = models.PitchStatusDraft
	}
	if status != models.PitchStatusDraft && status != models.PitchStatusPublished {
		v.Add("status", "must be draft or published")
	}
	if in.DeckURL != "" && !strings.HasPrefix(in.DeckURL, "/uploads/") {
		if u, err := url.Parse(in.DeckURL); err != nil || u.Host == "" {
			v.Add("deck_url", "must be a valid URL")
		}
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	return &models.Pitch{
		FounderID:     founderID,
		Title:         title,
		Summary:       in.Summary,
		Problem:       in.Problem,
		Solution:      in.Solution,
		Market:        in.Market,
		BusinessModel: in.BusinessModel,
		Traction:      in.Traction,
		Team:          in.Team,
		FundingAsk:    in.FundingAsk,
		DeckURL:       in.DeckURL,
		Status:        status,
	}, nil
}

func (s *Service) Create(ctx context.Context, founderID uuid.UUID, in PitchInput) (*models.Pitch, error) {
	if _, err := s.requireRole(ctx, founderID, models.UserTypeFounder); err != nil {
		return nil, err
	}
	p, err := in.toModel(founderID)
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update overwrites a pitch the founder owns. Someone else's pitch reads as not found.
func (s *Service) Update(ctx context.Context, founderID, id uuid.UUID, in PitchInput) (*models.Pitch, error) {
	p, err := in.toModel(founderID)
	if err != nil {
		return nil, err
	}
	p.ID = id
	if err := s.store.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, founderID, id uuid.UUID) error {
	return s.store.Delete(ctx, founderID, id)
}

func (s *Service) Mine(ctx context.Context, founderID uuid.UUID) ([]models.Pitch, error) {
	return s.store.ListByFounder(ctx, founderID)
}

// Published lists pitches open for review. Only investors browse them.
func (s *Service) Published(ctx context.Context, investorID uuid.UUID, limit, offset int) ([]models.Pitch, error) {
	if _, err := s.requireRole(ctx, investorID, models.UserTypeInvestor); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.ListPublished(ctx, limit, offset)
}

// Get returns a pitch to its founder, or to anyone once it is published.
func (s *Service) Get(ctx context.Context, viewerID, id uuid.UUID) (*models.Pitch, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.FounderID != viewerID && p.Status != models.PitchStatusPublished {
		return nil, fmt.Errorf("pitch: %w", apperrors.ErrNotFound)
	}
	return p, nil
}

func validateFeedback(in FeedbackInput) error {
	v := apperrors.NewValidation()
	ratings := map[string]*int{
		"problem_rating":        in.ProblemRating,
		"solution_rating":       in.SolutionRating,
		"market_rating":         in.MarketRating,
		"business_model_rating": in.BusinessModelRating,
		"traction_rating":       in.TractionRating,
		"team_rating":           in.TeamRating,
	}
	for field, r := range ratings {
		if r != nil && (*r < minRating || *r > maxRating) {
			v.Add(field, fmt.Sprintf("must be between %d and %d", minRating, maxRating))
		}
	}
	if in.OverallRating < minRating || in.OverallRating > maxRating {
		v.Add("overall_rating", fmt.Sprintf("must be between %d and %d", minRating, maxRating))
	}
	if in.InvestmentInterest != "" && !models.IsValidInvestmentInterest(in.InvestmentInterest) {
		v.Add("investment_interest", "must be one of "+strings.Join(models.InvestmentInterests, ", "))
	}
	return v.OrNil()
}

// SubmitFeedback records one investor's review of a published pitch and tells the founder.
func (s *Service) SubmitFeedback(ctx context.Context, investorID, pitchID uuid.UUID, in FeedbackInput) (*models.PitchFeedback, error) {
	investor, err := s.requireRole(ctx, investorID, models.UserTypeInvestor)
	if err != nil {
		return nil, err
	}
	if err := validateFeedback(in); err != nil {
		return nil, err
	}
	p, err := s.store.Get(ctx, pitchID)
	if err != nil {
		return nil, err
	}
	if p.Status != models.PitchStatusPublished {
		return nil, fmt.Errorf("pitch: %w", apperrors.ErrNotFound)
	}

	interest := in.InvestmentInterest
	if interest == "" {
		interest = "none"
	}
	f := &models.PitchFeedback{
		PitchID:               pitchID,
		InvestorID:            investorID,
		InvestorName:          investor.FullName,
		ProblemRating:         in.ProblemRating,
		ProblemFeedback:       in.ProblemFeedback,
		SolutionRating:        in.SolutionRating,
		SolutionFeedback:      in.SolutionFeedback,
		MarketRating:          in.MarketRating,
		MarketFeedback:        in.MarketFeedback,
		BusinessModelRating:   in.BusinessModelRating,
		BusinessModelFeedback: in.BusinessModelFeedback,
		TractionRating:        in.TractionRating,
		TractionFeedback:      in.TractionFeedback,
		TeamRating:            in.TeamRating,
		TeamFeedback:          in.TeamFeedback,
		OverallRating:         in.OverallRating,
		InvestmentInterest:    interest,
		Comments:              in.Comments,
	}
	if err := s.store.AddFeedback(ctx, f); err != nil {
		return nil, err
	}

	name := investor.FullName
	if name == "" {
		name = "An investor"
	}
	err = s.notifier.Notify(ctx, p.FounderID, models.NotificationPitchFeedback,
		"New pitch feedback",
		fmt.Sprintf("%s rated your pitch %q %d/5", name, p.Title, f.OverallRating),
		map[string]interface{}{"pitch_id": p.ID, "feedback_id": f.ID},
	)
	if err != nil {
		s.logger.Error("Failed to notify founder of feedback",
			zap.String("pitch_id", p.ID.String()), zap.Error(err))
	}
	return f, nil
}

// Feedback lists the reviews on a pitch to its founder.
func (s *Service) Feedback(ctx context.Context, founderID, pitchID uuid.UUID) ([]models.PitchFeedback, error) {
	p, err := s.store.Get(ctx, pitchID)
	if err != nil {
		return nil, err
	}
	if p.FounderID != founderID {
		return nil, fmt.Errorf("only the founder can read feedback: %w", apperrors.ErrForbidden)
	}
	return s.store.ListFeedback(ctx, pitchID)
}
