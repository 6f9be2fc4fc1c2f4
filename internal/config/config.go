package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Supported session stores
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// Supported password modes
const (
	PasswordModePlaintext = "plaintext"
	PasswordModeBcrypt    = "bcrypt"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
	} `yaml:"server"`

	Database struct {
		Driver          string `yaml:"driver" env:"DB_DRIVER"`
		Path            string `yaml:"path" env:"DB_PATH"`
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	Session struct {
		Secret        string `yaml:"secret" env:"SESSION_SECRET"`
		TTL           string `yaml:"ttl" env:"SESSION_TTL"`
		Issuer        string `yaml:"issuer" env:"SESSION_ISSUER"`
		Store         string `yaml:"store" env:"SESSION_STORE"`
		RedisAddr     string `yaml:"redis_addr" env:"REDIS_ADDR"`
		RedisPassword string `yaml:"redis_password" env:"REDIS_PASSWORD"`
		RedisDB       int    `yaml:"redis_db" env:"REDIS_DB"`
	} `yaml:"session"`

	Auth struct {
		PasswordMode string `yaml:"password_mode" env:"AUTH_PASSWORD_MODE"`
	} `yaml:"auth"`

	Prediction struct {
		ModelPath     string  `yaml:"model_path" env:"MODEL_PATH"`
		MinScore      float64 `yaml:"min_score" env:"PREDICTION_MIN_SCORE"`
		MinAttendance float64 `yaml:"min_attendance" env:"PREDICTION_MIN_ATTENDANCE"`
		FastPathRule  string  `yaml:"fast_path_rule" env:"PREDICTION_FAST_PATH_RULE"`
	} `yaml:"prediction"`

	Seed struct {
		TeacherUsername string `yaml:"teacher_username" env:"SEED_TEACHER_USERNAME"`
		TeacherPassword string `yaml:"teacher_password" env:"SEED_TEACHER_PASSWORD"`
	} `yaml:"seed"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file, an optional .env file and environment variables
func LoadConfig(configPath, dotEnvPath string) (*Config, error) {
	// Load default config with sane defaults
	config := &Config{}
	setDefaults(config)

	// Try to read config file if it exists
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// .env values never override variables already set in the environment
	if dotEnvPath != "" {
		if _, err := os.Stat(dotEnvPath); err == nil {
			if err := godotenv.Load(dotEnvPath); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", dotEnvPath, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat %s: %w", dotEnvPath, err)
		}
	}

	// Override with environment variables
	if err := applyEnv(reflect.ValueOf(config), ""); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// Server defaults
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	// Database defaults
	config.Database.Driver = DriverSQLite
	config.Database.Path = "students.db"
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "students"
	config.Database.SSLMode = "disable"
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"

	// Session defaults
	config.Session.TTL = "12h"
	config.Session.Issuer = "studentperf"
	config.Session.Store = SessionStoreMemory
	config.Session.RedisAddr = "localhost:6379"

	config.Auth.PasswordMode = PasswordModePlaintext

	// Prediction defaults
	config.Prediction.ModelPath = "assets/model.json"
	config.Prediction.MinScore = 60
	config.Prediction.MinAttendance = 75
	config.Prediction.FastPathRule = "semester_score >= min_score && attendance >= min_attendance"

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case DriverSQLite:
		if config.Database.Path == "" {
			return fmt.Errorf("database path is required for the sqlite driver")
		}
	case DriverPostgres:
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}

	if config.Session.Secret == "" {
		return fmt.Errorf("session secret is required")
	}

	if _, err := time.ParseDuration(config.Session.TTL); err != nil {
		return fmt.Errorf("invalid session TTL format: %w", err)
	}

	switch config.Session.Store {
	case SessionStoreMemory, SessionStoreRedis:
	default:
		return fmt.Errorf("unsupported session store %q", config.Session.Store)
	}

	switch strings.ToLower(config.Auth.PasswordMode) {
	case PasswordModePlaintext, PasswordModeBcrypt:
	default:
		return fmt.Errorf("unsupported password mode %q", config.Auth.PasswordMode)
	}

	if config.Prediction.ModelPath == "" {
		return fmt.Errorf("prediction model path is required")
	}

	if config.Prediction.FastPathRule == "" {
		return fmt.Errorf("prediction fast path rule is required")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// GetSQLiteConnectionString returns the DSN for the single-file store
func (c *Config) GetSQLiteConnectionString() string {
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", c.Database.Path)
}
