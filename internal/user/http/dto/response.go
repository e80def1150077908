package dto

import (
	"time"

	"github.com/google/uuid"
)

// UserResponse represents the API response for a user.
// It never includes the password hash or salt.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse is returned by register and login. The vault session token travels
// separately in an HttpOnly cookie.
type AuthResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
}
