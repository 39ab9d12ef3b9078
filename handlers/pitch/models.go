package pitch

// PitchInput is the body for create and update. Update overwrites every field.
type PitchInput struct {
	Title         string `json:"title"`
	Summary       string `json:"summary"`
	Problem       string `json:"problem"`
	Solution      string `json:"solution"`
	Market        string `json:"market"`
	BusinessModel string `json:"business_model"`
	Traction      string `json:"traction"`
	Team          string `json:"team"`
	FundingAsk    string `json:"funding_ask"`
	DeckURL       string `json:"deck_url"`
	Status        string `json:"status"`
}

// FeedbackInput is an investor's review. Section ratings are optional, overall is not.
type FeedbackInput struct {
	ProblemRating         *int   `json:"problem_rating"`
	ProblemFeedback       string `json:"problem_feedback"`
	SolutionRating        *int   `json:"solution_rating"`
	SolutionFeedback      string `json:"solution_feedback"`
	MarketRating          *int   `json:"market_rating"`
	MarketFeedback        string `json:"market_feedback"`
	BusinessModelRating   *int   `json:"business_model_rating"`
	BusinessModelFeedback string `json:"business_model_feedback"`
	TractionRating        *int   `json:"traction_rating"`
	TractionFeedback      string `json:"traction_feedback"`
	TeamRating            *int   `json:"team_rating"`
	TeamFeedback          string `json:"team_feedback"`
	OverallRating         int    `json:"overall_rating"`
	InvestmentInterest    string `json:"investment_interest"`
	Comments              string `json:"comments"`
}

const (
	minRating = 1
	maxRating = 5

	defaultLimit = 20
	maxLimit     = 100
)
