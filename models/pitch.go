package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PitchStatusDraft     = "draft"
	PitchStatusPublished = "published"
)

// Pitch is a founder's structured pitch.
type Pitch struct {
	ID            uuid.UUID `json:"id"`
	FounderID     uuid.UUID `json:"founder_id"`
	Title         string    `json:"title"`
	Summary       string    `json:"summary"`
	Problem       string    `json:"problem"`
	Solution      string    `json:"solution"`
	Market        string    `json:"market"`
	BusinessModel string    `json:"business_model"`
	Traction      string    `json:"traction"`
	Team          string    `json:"team"`
	FundingAsk    string    `json:"funding_ask"`
	DeckURL       string    `json:"deck_url"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Investment interest levels on feedback.
var InvestmentInterests = []string{"none", "low", "medium", "high"}

func IsValidInvestmentInterest(s string) bool {
	return contains(InvestmentInterests, s)
}

// PitchFeedback is one investor's review of a pitch.
type PitchFeedback struct {
	ID                    uuid.UUID `json:"id"`
	PitchID               uuid.UUID `json:"pitch_id"`
	InvestorID            uuid.UUID `json:"investor_id"`
	InvestorName          string    `json:"investor_name,omitempty"`
	ProblemRating         *int      `json:"problem_rating,omitempty"`
	ProblemFeedback       string    `json:"problem_feedback"`
	SolutionRating        *int      `json:"solution_rating,omitempty"`
	SolutionFeedback      string    `json:"solution_feedback"`
	MarketRating          *int      `json:"market_rating,omitempty"`
	MarketFeedback        string    `json:"market_feedback"`
	BusinessModelRating   *int      `json:"business_model_rating,omitempty"`
	BusinessModelFeedback string    `json:"business_model_feedback"`
	TractionRating        *int      `json:"traction_rating,omitempty"`
	TractionFeedback      string    `json:"traction_feedback"`
	TeamRating            *int      `json:"team_rating,omitempty"`
	TeamFeedback          string    `json:"team_feedback"`
	OverallRating         int       `json:"overall_rating"`
	InvestmentInterest    string    `json:"investment_interest"`
	Comments              string    `json:"comments"`
	CreatedAt             time.Time `json:"created_at"`
}
