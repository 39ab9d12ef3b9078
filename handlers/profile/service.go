package profile

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fundingnl/backend/apperrors"
	"fundingnl/backend/models"
	"fundingnl/backend/services/completion"
)

// Service reads and edits profiles. Every save refreshes the derived status.
type Service struct {
	store   Store
	tracker *completion.Tracker
	logger  *zap.Logger
	now     func() time.Time
}

func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{
		store:   store,
		tracker: completion.NewTracker(bundleLoader{store}),
		logger:  logger,
		now:     time.Now,
	}
}

type bundleLoader struct{ store Store }

func (l bundleLoader) LoadBundle(ctx context.Context, userID uuid.UUID) (*models.Profile, *models.StartupProfile, *models.InvestorProfile, error) {
	b, err := l.store.GetBundle(ctx, userID)
	if err != nil {
		return nil, nil, nil, err
	}
	return b.Profile, b.Startup, b.Investor, nil
}

func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*Bundle, error) {
	return s.store.GetBundle(ctx, userID)
}

// Completion returns the zero result for anonymous callers.
func (s *Service) Completion(ctx context.Context, userID uuid.UUID) (completion.Result, error) {
	return s.tracker.ForUser(ctx, userID)
}

// StartupSector returns the founder's startup sector, empty when not set.
func (s *Service) StartupSector(ctx context.Context, userID uuid.UUID) (string, error) {
	b, err := s.store.GetBundle(ctx, userID)
	if err != nil {
		return "", err
	}
	if b.Profile.UserType != models.UserTypeFounder {
		return "", fmt.Errorf("recommendations are for founders: %w", apperrors.ErrForbidden)
	}
	if b.Startup == nil {
		return "", nil
	}
	return b.Startup.Sector, nil
}

func (s *Service) Status(ctx context.Context, userID uuid.UUID) (*StatusResponse, error) {
	b, err := s.store.GetBundle(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &StatusResponse{
		UserID:               b.Profile.ID,
		UserType:             b.Profile.UserType,
		Status:               b.Profile.Status,
		CompletionPercentage: b.Completion().CompletionPercentage,
		WizardCompleted:      b.Profile.WizardCompletedAt != nil,
		LastUpdate:           b.Profile.UpdatedAt,
	}, nil
}

// Save validates and writes changes atomically. Role extensions are only
// accepted for the matching user type.
func (s *Service) Save(ctx context.Context, userID uuid.UUID, c Changes) (*Bundle, error) {
	if c.Startup != nil || c.Investor != nil {
		current, err := s.store.GetBundle(ctx, userID)
		if err != nil {
			return nil, err
		}
		if c.Startup != nil && current.Profile.UserType != models.UserTypeFounder {
			return nil, fmt.Errorf("only founders have a startup profile: %w", apperrors.ErrForbidden)
		}
		if c.Investor != nil && current.Profile.UserType != models.UserTypeInvestor {
			return nil, fmt.Errorf("only investors have an investor profile: %w", apperrors.ErrForbidden)
		}
	}

	if err := Validate(c); err != nil {
		return nil, err
	}

	b, err := s.store.Save(ctx, userID, c)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Profile saved",
		zap.String("user_id", userID.String()),
		zap.String("status", b.Profile.Status))
	return b, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, u ProfileUpdate) (*Bundle, error) {
	return s.Save(ctx, userID, Changes{Profile: &u})
}

func (s *Service) UpdateStartup(ctx context.Context, userID uuid.UUID, u StartupUpdate) (*Bundle, error) {
	return s.Save(ctx, userID, Changes{Startup: &u})
}

func (s *Service) UpdateInvestor(ctx context.Context, userID uuid.UUID, u InvestorUpdate) (*Bundle, error) {
	return s.Save(ctx, userID, Changes{Investor: &u})
}

// MarkWizardCompleted stamps the first wizard completion; later calls keep the original time.
func (s *Service) MarkWizardCompleted(ctx context.Context, userID uuid.UUID) error {
	return s.store.MarkWizardCompleted(ctx, userID, s.now())
}

// Validate checks the format of provided fields. Emptiness is not an error here;
// the wizard enforces required fields per step.
func Validate(c Changes) error {
	v := apperrors.NewValidation()

	if p := c.Profile; p != nil {
		checkURL(v, "avatar_url", p.AvatarURL)
		checkURL(v, "linkedin_url", p.LinkedInURL)
		if p.LinkedInURL != nil && *p.LinkedInURL != "" && !strings.Contains(strings.ToLower(*p.LinkedInURL), "linkedin.com") {
			v.Add("linkedin_url", "must be a linkedin.com URL")
		}
	}

	if st := c.Startup; st != nil {
		if st.Sector != nil && *st.Sector != "" && !models.IsValidIndustry(*st.Sector) {
			v.Add("sector", "unknown sector")
		}
		if st.Stage != nil && *st.Stage != "" && !models.IsValidStage(*st.Stage) {
			v.Add("stage", "unknown stage")
		}
		checkURL(v, "website", st.Website)
		checkURL(v, "logo_url", st.LogoURL)
	}

	if inv := c.Investor; inv != nil {
		for _, stage := range inv.InvestmentStages {
			if !models.IsValidStage(strings.TrimSpace(stage)) {
				v.Add("investment_stages", fmt.Sprintf("unknown stage %q", stage))
			}
		}
		for _, industry := range inv.PreferredIndustries {
			if !models.IsValidIndustry(strings.TrimSpace(industry)) {
				v.Add("preferred_industries", fmt.Sprintf("unknown industry %q", industry))
			}
		}
	}

	return v.OrNil()
}

// checkURL accepts absolute http(s) URLs and site-relative upload paths.
func checkURL(v *apperrors.ValidationError, field string, value *string) {
	if value == nil {
		return
	}
	raw := strings.TrimSpace(*value)
	if raw == "" || strings.HasPrefix(raw, "/uploads/") {
		return
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		v.Add(field, "must be a valid http(s) URL")
	}
}
