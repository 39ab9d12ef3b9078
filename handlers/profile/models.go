package profile

// [AI_MODELS_START]
// MODELS:
// {
//   "Bundle": {
//     "fields": ["Profile", "Startup", "Investor"],
//     "json_tags": true,
//     "omitempty": true
//   },
//   "ProfileUpdate": {
//     "fields": ["FullName", "Bio", "AvatarURL", "LinkedInURL", "CompanyName"],
//     "json_tags": true,
//     "pointers": "nil means unchanged"
//   }
// }
// [AI_MODELS_END]

import (
	"time"

	"github.com/google/uuid"

	"fundingnl/backend/models"
	"fundingnl/backend/services/completion"
)

// Bundle is a profile with whichever role extension exists.
type Bundle struct {
	Profile  *models.Profile         `json:"profile"`
	Startup  *models.StartupProfile  `json:"startup,omitempty"`
	Investor *models.InvestorProfile `json:"investor_profile,omitempty"`
}

// Completion scores the bundle.
func (b *Bundle) Completion() completion.Result {
	if b == nil {
		return completion.Compute(nil, nil, nil)
	}
	return completion.Compute(b.Profile, b.Startup, b.Investor)
}

// ProfileUpdate holds the common fields. Nil pointers leave the stored value alone.
type ProfileUpdate struct {
	FullName    *string `json:"full_name,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	LinkedInURL *string `json:"linkedin_url,omitempty"`
	CompanyName *string `json:"company_name,omitempty"`
}

type StartupUpdate struct {
	Sector      *string `json:"sector,omitempty"`
	Stage       *string `json:"stage,omitempty"`
	Description *string `json:"description,omitempty"`
	Website     *string `json:"website,omitempty"`
	LogoURL     *string `json:"logo_url,omitempty"`
	Location    *string `json:"location,omitempty"`
}

// InvestorUpdate uses nil slices for "unchanged"; an empty non-nil slice clears the set.
type InvestorUpdate struct {
	InvestmentThesis    *string  `json:"investment_thesis,omitempty"`
	InvestmentStages    []string `json:"investment_stages,omitempty"`
	PreferredIndustries []string `json:"preferred_industries,omitempty"`
}

// Changes is one atomic write across a profile and its extension.
type Changes struct {
	Profile  *ProfileUpdate
	Startup  *StartupUpdate
	Investor *InvestorUpdate
}

// ProfileResponse is returned by the profile endpoints.
type ProfileResponse struct {
	*Bundle
	Completion completion.Result `json:"completion"`
}

// StatusResponse represents the current status of a user
type StatusResponse struct {
	UserID               uuid.UUID       `json:"user_id"`
	UserType             models.UserType `json:"user_type"`
	Status               string          `json:"status"`
	CompletionPercentage int             `json:"completion_percentage"`
	WizardCompleted      bool            `json:"wizard_completed"`
	LastUpdate           time.Time       `json:"last_update"`
}
