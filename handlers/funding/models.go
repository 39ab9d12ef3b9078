package funding

import (
	"time"

	"fundingnl/backend/models"
)

// Filter narrows catalog listings. Empty fields match everything.
type Filter struct {
	Type     string
	Sector   string
	Location string
	Search   string
	Limit    int
	Offset   int
}

const (
	defaultLimit = 50
	maxLimit     = 200
)

// OpportunityInput is the body for create and update.
type OpportunityInput struct {
	Slug              string                 `json:"slug"`
	Title             string                 `json:"title"`
	Provider          string                 `json:"provider"`
	Type              string                 `json:"type"`
	Sector            string                 `json:"sector"`
	AmountMin         *int64                 `json:"amount_min"`
	AmountMax         *int64                 `json:"amount_max"`
	AmountDescription string                 `json:"amount_description"`
	Location          string                 `json:"location"`
	Description       string                 `json:"description"`
	WebsiteURL        string                 `json:"website_url"`
	ApplicationURL    string                 `json:"application_url"`
	EquityTerms       string                 `json:"equity_terms"`
	Details           map[string]interface{} `json:"details"`
	Deadline          *time.Time             `json:"deadline"`
}

// SeedEntry is one opportunity in a YAML dataset. Key is the stable
// identifier used by the static mock pages.
type SeedEntry struct {
	Key                       string                 `yaml:"id"`
	models.FundingOpportunity `yaml:",inline"`
	Details                   map[string]interface{} `yaml:"details"`
}

// SeedFile is the top level of a YAML dataset.
type SeedFile struct {
	Opportunities []SeedEntry `yaml:"opportunities"`
}
