package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	appauth "github.com/yigit/studentperf/internal/app/auth"
	"github.com/yigit/studentperf/internal/app/models"
	"github.com/yigit/studentperf/internal/app/repositories"
	"github.com/yigit/studentperf/internal/pkg/auth"
	"github.com/yigit/studentperf/internal/pkg/validation"
)

// UserService handles account management
type UserService struct {
	userRepo  *repositories.UserRepository
	hasher    auth.PasswordHasher
	validator *validation.Validator
	logger    zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo *repositories.UserRepository,
	hasher auth.PasswordHasher,
	validator *validation.Validator,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		userRepo:  userRepo,
		hasher:    hasher,
		validator: validator,
		logger:    logger,
	}
}

// CreateUser creates an account on behalf of a teacher
func (s *UserService) CreateUser(ctx context.Context, actor *models.Identity, in models.NewUser) (*models.User, error) {
	if err := appauth.RequireTeacher(actor); err != nil {
		return nil, err
	}

	user, err := s.RegisterAccount(ctx, in)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("actor", actor.Username).
		Str("username", user.Username).
		Str("role", string(user.Role)).
		Msg("User account created")
	return user, nil
}

// RegisterAccount validates and stores an account without an acting user.
// It backs the startup seed and the admin CLI.
func (s *UserService) RegisterAccount(ctx context.Context, in models.NewUser) (*models.User, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	stored, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username: in.Username,
		Password: stored,
		Role:     in.Role,
	}
	if _, err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
