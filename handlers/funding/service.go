package funding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fundingnl/backend/apperrors"
	"fundingnl/backend/models"
)

// Service serves the catalog. Writes invalidate the cached full catalog.
type Service struct {
	store  Store
	cache  *CachedCatalog
	logger *zap.Logger
}

func NewService(store Store, cache *CachedCatalog, logger *zap.Logger) *Service {
	return &Service{store: store, cache: cache, logger: logger}
}

func (s *Service) List(ctx context.Context, f Filter) ([]models.FundingOpportunity, error) {
	if f.Type != "" && !models.IsValidFundingType(f.Type) {
		return nil, apperrors.Invalid("type", fmt.Sprintf("unknown type %q", f.Type))
	}
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	f.Search = strings.TrimSpace(f.Search)
	return s.store.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.FundingOpportunity, error) {
	return s.store.Get(ctx, id)
}

// Recommended lists opportunities for a startup sector, sector matches first.
func (s *Service) Recommended(ctx context.Context, sector string, limit int) ([]models.FundingOpportunity, error) {
	if limit <= 0 || limit > maxLimit {
		limit = 10
	}
	return s.store.Recommended(ctx, sector, limit)
}

func (s *Service) Create(ctx context.Context, in OpportunityInput) (*models.FundingOpportunity, error) {
	o, err := in.toModel()
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, o); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return o, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in OpportunityInput) (*models.FundingOpportunity, error) {
	o, err := in.toModel()
	if err != nil {
		return nil, err
	}
	o.ID = id
	if err := s.store.Update(ctx, o); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return o, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

func (in OpportunityInput) toModel() (*models.FundingOpportunity, error) {
	v := apperrors.NewValidation()

	title := strings.TrimSpace(in.Title)
	if title == "" {
		v.Add("title", "is required")
	}
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = Normalize(title)
	} else if slug != Normalize(slug) {
		v.Add("slug", "may only contain lowercase letters, digits and single hyphens")
	}
	typ := in.Type
	if typ == "" {
		typ = models.FundingTypeGrant
	}
	if !models.IsValidFundingType(typ) {
		v.Add("type", fmt.Sprintf("unknown type %q", typ))
	}
	if in.AmountMin != nil && *in.AmountMin < 0 {
		v.Add("amount_min", "must not be negative")
	}
	if in.AmountMin != nil && in.AmountMax != nil && *in.AmountMax < *in.AmountMin {
		v.Add("amount_max", "must be at least amount_min")
	}
	for field, raw := range map[string]string{"website_url": in.WebsiteURL, "application_url": in.ApplicationURL} {
		if raw == "" {
			continue
		}
		if u, err := url.Parse(raw); err != nil || u.Host == "" {
			v.Add(field, "must be an absolute URL")
		}
	}

	var details json.RawMessage
	if in.Details != nil {
		data, err := json.Marshal(in.Details)
		if err != nil {
			v.Add("details", "must be a JSON object")
		}
		details = data
	}

	if err := v.OrNil(); err != nil {
		return nil, err
	}

	return &models.FundingOpportunity{
		Slug:              slug,
		Title:             title,
		Provider:          strings.TrimSpace(in.Provider),
		Type:              typ,
		Sector:            strings.TrimSpace(in.Sector),
		AmountMin:         in.AmountMin,
		AmountMax:         in.AmountMax,
		AmountDescription: in.AmountDescription,
		Location:          strings.TrimSpace(in.Location),
		Description:       in.Description,
		WebsiteURL:        in.WebsiteURL,
		ApplicationURL:    in.ApplicationURL,
		EquityTerms:       in.EquityTerms,
		Details:           details,
		Deadline:          in.Deadline,
	}, nil
}
