package dto

import (
	"time"

	"github.com/yigit/studentperf/internal/app/models"
)

// LoginRequest represents login credentials. Blank values are not rejected here:
// they simply fail to match any account.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse represents the session token handed to the client
type TokenResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType" example:"Bearer"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// SessionResponse describes the current session and the actions it may take
type SessionResponse struct {
	SessionID string          `json:"sessionId"`
	LoggedIn  bool            `json:"loggedIn"`
	Identity  models.Identity `json:"identity"`
	Menu      []string        `json:"menu"`
	CreatedAt time.Time       `json:"createdAt"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token   TokenResponse   `json:"token"`
	Session SessionResponse `json:"session"`
}
