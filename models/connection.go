package models

import (
	"time"

	"github.com/google/uuid"
)

type ConnectionStatus string

const (
	ConnectionStatusPending  ConnectionStatus = "pending"
	ConnectionStatusAccepted ConnectionStatus = "accepted"
	ConnectionStatusRejected ConnectionStatus = "rejected"
	// ConnectionStatusNone is reported when two users have never connected.
	ConnectionStatusNone ConnectionStatus = "none"
)

// Connection is a directed request from requester to recipient.
type Connection struct {
	ID          uuid.UUID        `json:"id"`
	RequesterID uuid.UUID        `json:"requester_id"`
	RecipientID uuid.UUID        `json:"recipient_id"`
	Status      ConnectionStatus `json:"status"`
	Message     string           `json:"message"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	// Populated on listings from the counterpart's profile.
	OtherUserID     uuid.UUID `json:"other_user_id,omitempty"`
	OtherUserName   string    `json:"other_user_name,omitempty"`
	OtherUserAvatar string    `json:"other_user_avatar,omitempty"`
	IsRequester     bool      `json:"is_requester"`
}
