package auth

import (
	"time"

	"github.com/google/uuid"

	"fundingnl/backend/models"
)

// User is the identity record behind a profile.
type User struct {
	ID        uuid.UUID       `json:"id"`
	Email     string          `json:"email"`
	UserType  models.UserType `json:"user_type"`
	CreatedAt time.Time       `json:"created_at"`
}

type SignupRequest struct {
	Email           string          `json:"email"`
	Password        string          `json:"password"`
	ConfirmPassword string          `json:"confirm_password,omitempty"`
	FullName        string          `json:"full_name"`
	UserType        models.UserType `json:"user_type"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ResetPasswordRequest struct {
	Email string `json:"email"`
}

// UpdatePasswordRequest completes a reset using the emailed recovery token.
type UpdatePasswordRequest struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password,omitempty"`
}

// Session is returned by sign-up and sign-in.
type Session struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
