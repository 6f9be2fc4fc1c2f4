package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/yigit/studentperf/internal/app/classifier"
	"github.com/yigit/studentperf/internal/app/models"
	"github.com/yigit/studentperf/internal/app/repositories"
	"github.com/yigit/studentperf/internal/app/session"
	"github.com/yigit/studentperf/internal/db"
	"github.com/yigit/studentperf/internal/pkg/auth"
	"github.com/yigit/studentperf/internal/pkg/validation"
	"github.com/yigit/studentperf/internal/testutil"
)

const fastPathRule = "semester_score >= min_score && attendance >= min_attendance"

var (
	teacher = &models.Identity{Username: "tess", Role: models.RoleTeacher}
	student = &models.Identity{Username: "sam", Role: models.RoleStudent}
)

// stubClassifier returns a fixed class and counts how often it was asked
type stubClassifier struct {
	class int
	err   error
	calls atomic.Int32
	last  []float64
}

func (s *stubClassifier) Predict(features []float64) (int, error) {
	s.calls.Add(1)
	s.last = append([]float64(nil), features...)
	return s.class, s.err
}

var errStub = errors.New("stub failure")

type fixture struct {
	db       *db.DB
	services *Services
	repos    *repositories.Repositories
	model    *stubClassifier
}

func setup(t *testing.T, hasher auth.PasswordHasher) *fixture {
	t.Helper()

	database := testutil.NewSQLiteDB(t)
	repos := repositories.NewRepositories(database)

	rule, err := classifier.NewRule(fastPathRule, 60, 75)
	require.NoError(t, err)

	tokens := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", TokenExp: time.Hour, TokenIssuer: "test"})
	model := &stubClassifier{class: 0}

	if hasher == nil {
		hasher = auth.PlaintextHasher{}
	}

	svc := NewServices(Dependencies{
		DB:         database,
		Repos:      repos,
		Hasher:     hasher,
		Sessions:   session.NewManager(session.NewMemoryStore(), tokens, time.Hour),
		Classifier: model,
		Rule:       rule,
		Validator:  validation.New(),
		Logger:     zerolog.Nop(),
	})

	return &fixture{db: database, services: svc, repos: repos, model: model}
}

func (f *fixture) addUser(t *testing.T, username, password string, role models.Role) {
	t.Helper()
	_, err := f.services.UserService.RegisterAccount(context.Background(), models.NewUser{
		Username: username,
		Password: password,
		Role:     role,
	})
	require.NoError(t, err)
}
