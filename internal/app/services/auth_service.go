package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yigit/studentperf/internal/app/models"
	"github.com/yigit/studentperf/internal/app/models/dto"
	"github.com/yigit/studentperf/internal/app/repositories"
	"github.com/yigit/studentperf/internal/app/session"
	"github.com/yigit/studentperf/internal/pkg/apperrors"
	"github.com/yigit/studentperf/internal/pkg/auth"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo *repositories.UserRepository
	hasher   auth.PasswordHasher
	sessions *session.Manager
	logger   zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo *repositories.UserRepository,
	hasher auth.PasswordHasher,
	sessions *session.Manager,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		sessions: sessions,
		logger:   logger,
	}
}

// Authenticate returns the identity of the account matching username and password.
// Any mismatch, including blank input, is ErrInvalidCredentials. There is no lockout.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (models.Identity, error) {
	var (
		user *models.User
		err  error
	)

	if verifier, ok := s.hasher.(auth.PasswordVerifier); ok {
		user, err = s.userRepo.FindByUsername(ctx, username)
		if err == nil && !verifier.Matches(user.Password, password) {
			err = apperrors.ErrUserNotFound
		}
	} else {
		user, err = s.userRepo.FindByCredentials(ctx, username, password)
	}

	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			s.logger.Info().Str("username", username).Msg("Login rejected")
			return models.Identity{}, apperrors.ErrInvalidCredentials
		}
		return models.Identity{}, fmt.Errorf("authenticate: %w", err)
	}

	return user.Identity(), nil
}

// Login authenticates and opens a new session
func (s *AuthService) Login(ctx context.Context, username, password string) (*dto.AuthResponse, error) {
	identity, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	sess, token, expiresAt, err := s.sessions.Open(ctx, identity)
	if err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("Failed to open session")
		return nil, fmt.Errorf("open session: %w", err)
	}

	s.logger.Info().Str("username", identity.Username).Str("role", string(identity.Role)).Msg("User logged in")

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresAt:   expiresAt,
		},
		Session: DescribeSession(sess),
	}, nil
}

// Logout closes the session. The session returns to the logged-out state.
func (s *AuthService) Logout(ctx context.Context, sess *session.Session) error {
	username := sess.Username
	if err := s.sessions.Close(ctx, sess); err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	s.logger.Info().Str("username", username).Msg("User logged out")
	return nil
}

// DescribeSession renders a session with the menu of its role
func DescribeSession(sess *session.Session) dto.SessionResponse {
	return dto.SessionResponse{
		SessionID: sess.ID,
		LoggedIn:  sess.LoggedIn,
		Identity:  models.Identity{Username: sess.Username, Role: sess.Role},
		Menu:      session.Menu(sess.Role),
		CreatedAt: sess.CreatedAt,
	}
}
