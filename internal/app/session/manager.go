package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yigit/studentperf/internal/app/models"
	"github.com/yigit/studentperf/internal/pkg/apperrors"
	"github.com/yigit/studentperf/internal/pkg/auth"
)

// Manager opens, resolves and closes sessions. The client holds a signed token whose
// ID claim names the stored session.
type Manager struct {
	store  Store
	tokens *auth.JWTService
	ttl    time.Duration
}

// NewManager creates a new Manager
func NewManager(store Store, tokens *auth.JWTService, ttl time.Duration) *Manager {
	return &Manager{store: store, tokens: tokens, ttl: ttl}
}

// Open logs identity into a fresh session and returns it with its token
func (m *Manager) Open(ctx context.Context, identity models.Identity) (*Session, string, time.Time, error) {
	s := New()
	if err := s.Login(identity, m.ttl); err != nil {
		return nil, "", time.Time{}, err
	}

	token, expiresAt, err := m.tokens.GenerateSessionToken(s.ID, s.Username, string(s.Role))
	if err != nil {
		return nil, "", time.Time{}, err
	}

	if err := m.store.Save(ctx, s); err != nil {
		return nil, "", time.Time{}, err
	}
	return s, token, expiresAt, nil
}

// Resolve verifies the token and loads its session. Any mismatch between token
// and stored session is treated as no session.
func (m *Manager) Resolve(ctx context.Context, token string) (*Session, error) {
	claims, err := m.tokens.ValidateToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTokenInvalid, err)
	}

	s, err := m.store.Get(ctx, claims.SessionID())
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}

	if !s.LoggedIn || s.Username != claims.Username || string(s.Role) != claims.Role {
		return nil, apperrors.ErrUnauthorized
	}
	return s, nil
}

// Close logs the session out and removes it from the store
func (m *Manager) Close(ctx context.Context, s *Session) error {
	s.Logout()
	return m.store.Delete(ctx, s.ID)
}
