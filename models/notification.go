package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Notification types emitted by other workflows.
const (
	NotificationConnectionRequest  = "connection_request"
	NotificationConnectionAccepted = "connection_accepted"
	NotificationConnectionRejected = "connection_rejected"
	NotificationPitchFeedback      = "pitch_feedback"
	NotificationProfileCompleted   = "profile_completed"
)

type Notification struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Type      string          `json:"type"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	IsRead    bool            `json:"is_read"`
	CreatedAt time.Time       `json:"created_at"`
}
