package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	appModels "github.com/yigit/studentperf/internal/app/models"
	appRepos "github.com/yigit/studentperf/internal/app/repositories"
	appServices "github.com/yigit/studentperf/internal/app/services"
	"github.com/yigit/studentperf/internal/config"
	"github.com/yigit/studentperf/internal/pkg/apperrors"
)

// CreateDefaultData creates the configured default teacher account if it doesn't exist.
// Nothing is seeded when no teacher username is configured.
func CreateDefaultData(ctx context.Context, cfg *config.Config, userRepo *appRepos.UserRepository, userService *appServices.UserService, lgr zerolog.Logger) error {
	username := cfg.Seed.TeacherUsername
	if username == "" {
		lgr.Debug().Msg("No default teacher configured, skipping seed")
		return nil
	}

	lgr.Info().Str("username", username).Msg("Checking/Creating default teacher...")
	var finalErr error

	exists, err := userRepo.Exists(ctx, username)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking if default teacher exists")
		return err
	}
	if exists {
		lgr.Info().Str("username", username).Msg("Default teacher already exists, skipping creation")
		return nil
	}

	if cfg.Seed.TeacherPassword == "" {
		finalErr = errors.Join(finalErr, errors.New("seed.teacher_password is required to create the default teacher"))
		lgr.Error().Err(finalErr).Msg("Cannot create default teacher")
		return finalErr
	}

	_, err = userService.RegisterAccount(ctx, appModels.NewUser{
		Username: username,
		Password: cfg.Seed.TeacherPassword,
		Role:     appModels.RoleTeacher,
	})
	switch {
	case errors.Is(err, apperrors.ErrDuplicateUsername):
		// Another instance seeded it first
		lgr.Info().Str("username", username).Msg("Default teacher already exists, skipping creation")
	case err != nil:
		lgr.Error().Err(err).Msg("Error creating default teacher")
		finalErr = errors.Join(finalErr, err)
	default:
		lgr.Info().Str("username", username).Msg("Default teacher created successfully")
	}

	return finalErr
}
