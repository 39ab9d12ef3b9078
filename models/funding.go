package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Funding opportunity types in the catalog.
const (
	FundingTypeGrant          = "grant"
	FundingTypeVentureCapital = "venture_capital"
	FundingTypeAccelerator    = "accelerator"
	FundingTypeLoan           = "loan"
	FundingTypeSubsidy        = "subsidy"
)

var FundingTypes = []string{
	FundingTypeGrant, FundingTypeVentureCapital, FundingTypeAccelerator,
	FundingTypeLoan, FundingTypeSubsidy,
}

func IsValidFundingType(s string) bool {
	return contains(FundingTypes, s)
}

// FundingOpportunity is a curated catalog entry.
type FundingOpportunity struct {
	ID                uuid.UUID       `json:"id" yaml:"-"`
	Slug              string          `json:"slug" yaml:"slug"`
	Title             string          `json:"title" yaml:"title"`
	Provider          string          `json:"provider" yaml:"provider"`
	Type              string          `json:"type" yaml:"type"`
	Sector            string          `json:"sector" yaml:"sector"`
	AmountMin         *int64          `json:"amount_min,omitempty" yaml:"amount_min"`
	AmountMax         *int64          `json:"amount_max,omitempty" yaml:"amount_max"`
	AmountDescription string          `json:"amount_description" yaml:"amount_description"`
	Location          string          `json:"location" yaml:"location"`
	Description       string          `json:"description" yaml:"description"`
	WebsiteURL        string          `json:"website_url" yaml:"website_url"`
	ApplicationURL    string          `json:"application_url" yaml:"application_url"`
	EquityTerms       string          `json:"equity_terms" yaml:"equity_terms"`
	Details           json.RawMessage `json:"details,omitempty" yaml:"-"`
	Deadline          *time.Time      `json:"deadline,omitempty" yaml:"deadline"`
	CreatedAt         time.Time       `json:"created_at" yaml:"-"`
	UpdatedAt         time.Time       `json:"updated_at" yaml:"-"`
}

// SavedOpportunity joins a profile to a catalog entry.
type SavedOpportunity struct {
	ID            uuid.UUID           `json:"id"`
	UserID        uuid.UUID           `json:"user_id"`
	OpportunityID uuid.UUID           `json:"opportunity_id"`
	Notes         string              `json:"notes"`
	CreatedAt     time.Time           `json:"created_at"`
	Opportunity   *FundingOpportunity `json:"opportunity,omitempty"`
}
