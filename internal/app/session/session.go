package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yigit/studentperf/internal/app/models"
)

// Session errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidState    = errors.New("invalid session state transition")
)

// Menu entries
const (
	MenuDashboard      = "Dashboard"
	MenuManageStudents = "Add/Delete Student"
	MenuManageUsers    = "Manage Users"
	MenuLogout         = "Logout"
)

// Session is the per-connection state of one client. It replaces any process-wide
// "current user": every request resolves its own Session from the Store.
type Session struct {
	ID        string      `json:"id"`
	LoggedIn  bool        `json:"loggedIn"`
	Username  string      `json:"username"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// New returns a logged-out session with a fresh ID
func New() *Session {
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}
}

// Login moves the session from LoggedOut to LoggedIn(role)
func (s *Session) Login(identity models.Identity, ttl time.Duration) error {
	if s.LoggedIn {
		return fmt.Errorf("%w: already logged in as %s", ErrInvalidState, s.Username)
	}
	if !identity.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidState, identity.Role)
	}

	s.LoggedIn = true
	s.Username = identity.Username
	s.Role = identity.Role
	s.ExpiresAt = time.Now().UTC().Add(ttl)
	return nil
}

// Logout moves the session back to LoggedOut and clears the identity
func (s *Session) Logout() {
	s.LoggedIn = false
	s.Username = ""
	s.Role = ""
}

// Identity returns the signed-in identity, or nil when logged out
func (s *Session) Identity() *models.Identity {
	if s == nil || !s.LoggedIn {
		return nil
	}
	return &models.Identity{Username: s.Username, Role: s.Role}
}

// Expired reports whether the session outlived its TTL
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Menu lists the actions available to role
func Menu(role models.Role) []string {
	switch role {
	case models.RoleTeacher:
		return []string{MenuDashboard, MenuManageStudents, MenuManageUsers, MenuLogout}
	case models.RoleStudent:
		return []string{MenuDashboard, MenuLogout}
	default:
		return []string{}
	}
}

// Store persists sessions between requests
type Store interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}
