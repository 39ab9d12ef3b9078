package connection

import "github.com/google/uuid"

// ConnectionRequest is the body of POST /api/connections
type ConnectionRequest struct {
	RecipientID uuid.UUID `json:"recipient_id"`
	Message     string    `json:"message"`
}

// StatusResponse reports the relationship between the caller and another user
type StatusResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Status string    `json:"status"`
}

const maxMessageLength = 1000
