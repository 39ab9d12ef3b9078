package models

import (
	"time"

	"github.com/google/uuid"
)

// UserType is the role a profile signs up with.
type UserType string

const (
	UserTypeFounder  UserType = "founder"
	UserTypeInvestor UserType = "investor"
)

func (t UserType) Valid() bool {
	return t == UserTypeFounder || t == UserTypeInvestor
}

// Profile statuses, derived from completion.
const (
	ProfileStatusIncomplete = "incomplete"
	ProfileStatusActive     = "active"
)

// Profile is one-to-one with a user account.
type Profile struct {
	ID                uuid.UUID  `json:"id"`
	Email             string     `json:"email,omitempty"`
	FullName          string     `json:"full_name"`
	Bio               string     `json:"bio"`
	AvatarURL         string     `json:"avatar_url"`
	LinkedInURL       string     `json:"linkedin_url"`
	CompanyName       string     `json:"company_name"`
	UserType          UserType   `json:"user_type"`
	Status            string     `json:"status"`
	WizardCompletedAt *time.Time `json:"wizard_completed_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// StartupProfile extends a founder profile.
type StartupProfile struct {
	ProfileID   uuid.UUID `json:"profile_id"`
	Sector      string    `json:"sector"`
	Stage       string    `json:"stage"`
	Description string    `json:"description"`
	Website     string    `json:"website"`
	LogoURL     string    `json:"logo_url"`
	Location    string    `json:"location"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// InvestorProfile extends an investor profile.
type InvestorProfile struct {
	ProfileID           uuid.UUID `json:"profile_id"`
	InvestmentThesis    string    `json:"investment_thesis"`
	InvestmentStages    []string  `json:"investment_stages"`
	PreferredIndustries []string  `json:"preferred_industries"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Stages shared by startups and investor preferences.
var InvestmentStages = []string{
	"pre-seed", "seed", "series-a", "series-b", "growth",
}

// Industries double as startup sectors.
var Industries = []string{
	"agritech", "ai", "biotech", "cleantech", "edtech", "fintech",
	"foodtech", "healthtech", "logistics", "mobility", "proptech", "saas", "other",
}

func IsValidStage(s string) bool {
	return contains(InvestmentStages, s)
}

func IsValidIndustry(s string) bool {
	return contains(Industries, s)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
