package bootstrap

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appClassifier "github.com/yigit/studentperf/internal/app/classifier"
	appControllers "github.com/yigit/studentperf/internal/app/controllers"
	appMigrations "github.com/yigit/studentperf/internal/app/migrations"
	appRepos "github.com/yigit/studentperf/internal/app/repositories"
	appRoutes "github.com/yigit/studentperf/internal/app/routes"
	appServices "github.com/yigit/studentperf/internal/app/services"
	appSession "github.com/yigit/studentperf/internal/app/session"
	"github.com/yigit/studentperf/internal/config"
	"github.com/yigit/studentperf/internal/db"
	appMiddleware "github.com/yigit/studentperf/internal/middleware"
	pkgAuth "github.com/yigit/studentperf/internal/pkg/auth"
	"github.com/yigit/studentperf/internal/pkg/helpers"
	"github.com/yigit/studentperf/internal/pkg/logger"
	"github.com/yigit/studentperf/internal/pkg/validation"
	"github.com/yigit/studentperf/internal/seed"
)

// Default locations of the configuration files, relative to the working directory
const (
	DefaultConfigPath = "configs/config.yaml"
	DefaultDotEnvPath = ".env"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Services            *appServices.Services
	AuthController      *appControllers.AuthController
	DashboardController *appControllers.DashboardController
	RecordController    *appControllers.RecordController
	UserController      *appControllers.UserController
	AuthMiddleware      *appMiddleware.AuthMiddleware
	Repos               *appRepos.Repositories
	Sessions            *appSession.Manager
	Logger              zerolog.Logger

	// closers release external resources such as the redis session store
	closers []io.Closer
}

// Close releases the resources opened by BuildDependencies
func (d *Dependencies) Close() error {
	var firstErr error
	for _, c := range d.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath, dotEnvPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath, dotEnvPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.FromSettings(cfg.Logging.Level, cfg.Logging.Format))

	lgr := logger.Get()
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and initializes the schema.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.DB, error) {
	lgr.Info().Str("driver", cfg.Database.Driver).Msg("Establishing database connection...")
	database, err := db.NewDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	lgr.Info().Msg("Initializing database schema...")
	if err := appMigrations.NewMigrator(database).InitSchema(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database schema initialization error")
		_ = database.Close()
		return nil, fmt.Errorf("database schema initialization failed: %w", err)
	}
	lgr.Info().Msg("Database schema ready.")

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.DB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}
	deps.Repos = appRepos.NewRepositories(database)

	hasher, err := pkgAuth.NewPasswordHasher(cfg.Auth.PasswordMode)
	if err != nil {
		return nil, err
	}

	ttl := helpers.ParseDuration(cfg.Session.TTL, 12*time.Hour)
	jwtService := pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.Session.Secret,
		TokenExp:    ttl,
		TokenIssuer: cfg.Session.Issuer,
	})

	store, err := newSessionStore(cfg, lgr)
	if err != nil {
		return nil, err
	}
	if closer, ok := store.(io.Closer); ok {
		deps.closers = append(deps.closers, closer)
	}
	deps.Sessions = appSession.NewManager(store, jwtService, ttl)

	forest, err := appClassifier.Load(cfg.Prediction.ModelPath)
	if err != nil {
		lgr.Error().Err(err).Str("path", cfg.Prediction.ModelPath).Msg("Failed to load classifier artifact")
		_ = deps.Close()
		return nil, err
	}
	lgr.Info().Str("path", cfg.Prediction.ModelPath).Int("trees", forest.NumTrees()).Msg("Classifier loaded")

	rule, err := appClassifier.NewRule(cfg.Prediction.FastPathRule, cfg.Prediction.MinScore, cfg.Prediction.MinAttendance)
	if err != nil {
		_ = deps.Close()
		return nil, fmt.Errorf("invalid prediction fast path rule: %w", err)
	}

	deps.Services = appServices.NewServices(appServices.Dependencies{
		DB:         database,
		Repos:      deps.Repos,
		Hasher:     hasher,
		Sessions:   deps.Sessions,
		Classifier: forest,
		Rule:       rule,
		Validator:  validation.New(),
		Logger:     lgr,
	})

	if err := seed.CreateDefaultData(context.Background(), cfg, deps.Repos.UserRepository, deps.Services.UserService, lgr); err != nil {
		// Startup continues; the default teacher can still be created with the admin CLI
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.Sessions)
	deps.AuthController = appControllers.NewAuthController(deps.Services.AuthService, lgr)
	deps.DashboardController = appControllers.NewDashboardController(deps.Services.DashboardService, lgr)
	deps.RecordController = appControllers.NewRecordController(deps.Services.RecordService, deps.Services.DashboardService, lgr)
	deps.UserController = appControllers.NewUserController(deps.Services.UserService, lgr)

	return deps, nil
}

func newSessionStore(cfg *config.Config, lgr zerolog.Logger) (appSession.Store, error) {
	if cfg.Session.Store != config.SessionStoreRedis {
		lgr.Info().Msg("Using in-memory session store")
		return appSession.NewMemoryStore(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	store, err := appSession.NewRedisStore(ctx, appSession.RedisOptions{
		Addr:     cfg.Session.RedisAddr,
		Password: cfg.Session.RedisPassword,
		DB:       cfg.Session.RedisDB,
	})
	if err != nil {
		lgr.Error().Err(err).Str("addr", cfg.Session.RedisAddr).Msg("Failed to connect to redis session store")
		return nil, err
	}
	lgr.Info().Str("addr", cfg.Session.RedisAddr).Msg("Using redis session store")
	return store, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(lgr))

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.DashboardController,
		deps.RecordController,
		deps.UserController,
		deps.AuthMiddleware,
	)

	return router
}
