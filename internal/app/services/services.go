package services

import (
	"github.com/rs/zerolog"

	"github.com/yigit/studentperf/internal/app/classifier"
	"github.com/yigit/studentperf/internal/app/repositories"
	"github.com/yigit/studentperf/internal/app/session"
	"github.com/yigit/studentperf/internal/db"
	"github.com/yigit/studentperf/internal/pkg/auth"
	"github.com/yigit/studentperf/internal/pkg/validation"
)

// Services defined in this package:
// - AuthService: login, logout and session introspection
// - UserService: account creation
// - RecordService: pass/fail classification, record creation and student deletion
// - DashboardService: role-specific dashboards and the XLSX export

// Services groups every service instance
type Services struct {
	AuthService      *AuthService
	UserService      *UserService
	RecordService    *RecordService
	DashboardService *DashboardService
}

// Dependencies lists what the services are built from
type Dependencies struct {
	DB         *db.DB
	Repos      *repositories.Repositories
	Hasher     auth.PasswordHasher
	Sessions   *session.Manager
	Classifier classifier.Classifier
	Rule       *classifier.Rule
	Validator  *validation.Validator
	Logger     zerolog.Logger
}

// NewServices wires every service
func NewServices(deps Dependencies) *Services {
	return &Services{
		AuthService:      NewAuthService(deps.Repos.UserRepository, deps.Hasher, deps.Sessions, deps.Logger),
		UserService:      NewUserService(deps.Repos.UserRepository, deps.Hasher, deps.Validator, deps.Logger),
		RecordService:    NewRecordService(deps.DB, deps.Repos, deps.Classifier, deps.Rule, deps.Validator, deps.Logger),
		DashboardService: NewDashboardService(deps.Repos.RecordRepository, deps.Logger),
	}
}
