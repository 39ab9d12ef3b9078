package completion

import (
	"context"
	"math"
	"strings"

	"github.com/google/uuid"

	"fundingnl/backend/models"
)

// Missing-field identifiers used when the role extension row does not exist yet.
const (
	MissingStartup         = "startup"
	MissingInvestorProfile = "investor_profile"
)

// Result is what the progress UI renders.
type Result struct {
	CompletionPercentage int      `json:"completion_percentage"`
	MissingFields        []string `json:"missing_fields"`
}

// IsComplete reports whether every required field is present.
func (r Result) IsComplete() bool {
	return r.CompletionPercentage == 100 && len(r.MissingFields) == 0
}

// Status maps a result onto the stored profile status.
func (r Result) Status() string {
	if r.IsComplete() {
		return models.ProfileStatusActive
	}
	return models.ProfileStatusIncomplete
}

type check struct {
	name    string
	present bool
}

func filled(s string) bool {
	return strings.TrimSpace(s) != ""
}

func nonEmpty(values []string) bool {
	for _, v := range values {
		if filled(v) {
			return true
		}
	}
	return false
}

// Compute scores a profile against its role checklist. A nil profile yields a zero result.
func Compute(p *models.Profile, startup *models.StartupProfile, investor *models.InvestorProfile) Result {
	if p == nil {
		return Result{MissingFields: []string{}}
	}

	checks := []check{
		{"full_name", filled(p.FullName)},
		{"bio", filled(p.Bio)},
		{"avatar_url", filled(p.AvatarURL)},
		{"linkedin_url", filled(p.LinkedInURL)},
		{"company_name", filled(p.CompanyName)},
	}

	// placeholder replaces the role fields in MissingFields when the extension row is absent
	var placeholder string
	switch p.UserType {
	case models.UserTypeFounder:
		if startup == nil {
			placeholder = MissingStartup
			startup = &models.StartupProfile{}
		}
		checks = append(checks,
			check{"sector", filled(startup.Sector)},
			check{"stage", filled(startup.Stage)},
			check{"description", filled(startup.Description)},
		)
	case models.UserTypeInvestor:
		if investor == nil {
			placeholder = MissingInvestorProfile
			investor = &models.InvestorProfile{}
		}
		checks = append(checks,
			check{"investment_thesis", filled(investor.InvestmentThesis)},
			check{"investment_stages", nonEmpty(investor.InvestmentStages)},
			check{"preferred_industries", nonEmpty(investor.PreferredIndustries)},
		)
	}

	present := 0
	missing := []string{}
	for i, c := range checks {
		if c.present {
			present++
			continue
		}
		if placeholder != "" && i >= 5 {
			continue
		}
		missing = append(missing, c.name)
	}
	if placeholder != "" {
		missing = append(missing, placeholder)
	}

	return Result{
		CompletionPercentage: int(math.Round(100 * float64(present) / float64(len(checks)))),
		MissingFields:        missing,
	}
}

// Loader fetches a profile with its role extension. Missing extensions come back nil.
type Loader interface {
	LoadBundle(ctx context.Context, userID uuid.UUID) (*models.Profile, *models.StartupProfile, *models.InvestorProfile, error)
}

// Tracker recomputes completion on demand.
type Tracker struct {
	loader Loader
}

func NewTracker(loader Loader) *Tracker {
	return &Tracker{loader: loader}
}

// ForUser returns the zero result for an anonymous caller.
func (t *Tracker) ForUser(ctx context.Context, userID uuid.UUID) (Result, error) {
	if userID == uuid.Nil {
		return Compute(nil, nil, nil), nil
	}
	p, s, i, err := t.loader.LoadBundle(ctx, userID)
	if err != nil {
		return Result{}, err
	}
	return Compute(p, s, i), nil
}
