package notifications

import "fundingnl/backend/models"

// ListOptions filters a user's notifications.
type ListOptions struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}

const (
	defaultLimit = 50
	maxLimit     = 200
)

type CountResponse struct {
	Unread int `json:"unread"`
}

type AffectedResponse struct {
	Affected int64 `json:"affected"`
}

// Push is the websocket frame for a newly created notification.
type Push struct {
	Type         string               `json:"type"`
	Notification *models.Notification `json:"notification,omitempty"`
}
