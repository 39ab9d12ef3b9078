package saved

import "github.com/google/uuid"

// SaveRequest is the body of POST /api/saved.
type SaveRequest struct {
	OpportunityID uuid.UUID `json:"opportunity_id"`
	Notes         string    `json:"notes"`
}

// NotesRequest replaces the notes on a saved opportunity.
type NotesRequest struct {
	Notes string `json:"notes"`
}

type IsSavedResponse struct {
	OpportunityID uuid.UUID `json:"opportunity_id"`
	Saved         bool      `json:"saved"`
}

const maxNotesLength = 5000
