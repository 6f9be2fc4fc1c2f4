package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/studentperf/internal/app/models"
	"github.com/yigit/studentperf/internal/pkg/apperrors"
	"github.com/yigit/studentperf/internal/pkg/auth"
)

func TestAuthenticatePlaintext(t *testing.T) {
	ctx := context.Background()
	f := setup(t, nil)
	f.addUser(t, "sam", "pw1", models.RoleStudent)

	identity, err := f.services.AuthService.Authenticate(ctx, "sam", "pw1")
	require.NoError(t, err)
	assert.Equal(t, models.Identity{Username: "sam", Role: models.RoleStudent}, identity)

	for _, creds := range [][2]string{{"sam", "pw2"}, {"SAM", "pw1"}, {"", ""}, {"ghost", "pw1"}} {
		_, err := f.services.AuthService.Authenticate(ctx, creds[0], creds[1])
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials, creds)
	}
}

func TestAuthenticateBcrypt(t *testing.T) {
	ctx := context.Background()
	f := setup(t, auth.BcryptHasher{Cost: 4})
	f.addUser(t, "tess", "teach", models.RoleTeacher)

	stored, err := f.repos.UserRepository.FindByUsername(ctx, "tess")
	require.NoError(t, err)
	assert.NotEqual(t, "teach", stored.Password)

	identity, err := f.services.AuthService.Authenticate(ctx, "tess", "teach")
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, identity.Role)

	_, err = f.services.AuthService.Authenticate(ctx, "tess", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginOpensSessionWithMenu(t *testing.T) {
	ctx := context.Background()
	f := setup(t, nil)
	f.addUser(t, "tess", "teach", models.RoleTeacher)

	resp, err := f.services.AuthService.Login(ctx, "tess", "teach")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token.AccessToken)
	assert.Equal(t, "Bearer", resp.Token.TokenType)
	assert.True(t, resp.Session.LoggedIn)
	assert.Equal(t, []string{"Dashboard", "Add/Delete Student", "Manage Users", "Logout"}, resp.Session.Menu)

	_, err = f.services.AuthService.Login(ctx, "tess", "nope")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	f := setup(t, nil)

	user, err := f.services.UserService.CreateUser(ctx, teacher, models.NewUser{Username: "sam", Password: "pw", Role: models.RoleStudent})
	require.NoError(t, err)
	assert.Positive(t, user.ID)

	_, err = f.services.UserService.CreateUser(ctx, teacher, models.NewUser{Username: "sam", Password: "other", Role: models.RoleTeacher})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateUsername)

	// The service keeps working after a duplicate
	_, err = f.services.UserService.CreateUser(ctx, teacher, models.NewUser{Username: "ann", Password: "pw", Role: models.RoleStudent})
	require.NoError(t, err)

	_, err = f.services.UserService.CreateUser(ctx, student, models.NewUser{Username: "eve", Password: "pw", Role: models.RoleTeacher})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = f.services.UserService.CreateUser(ctx, teacher, models.NewUser{Username: "bob", Password: "pw", Role: "admin"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.services.UserService.CreateUser(ctx, teacher, models.NewUser{Username: " ", Password: "pw", Role: models.RoleStudent})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}
