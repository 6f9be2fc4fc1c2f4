package db

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	"github.com/yigit/studentperf/internal/config"
	"github.com/yigit/studentperf/internal/pkg/helpers"
	"github.com/yigit/studentperf/internal/pkg/logger"
)

// Dialect identifies the SQL flavour of the connected store
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// DB wraps the sqlx handle together with a statement builder for its dialect
type DB struct {
	*sqlx.DB
	Dialect Dialect
	Builder sq.StatementBuilderType
}

// NewDB opens the store configured in cfg and verifies the connection
func NewDB(cfg *config.Config) (*DB, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		return open(DialectPostgres, "pgx", cfg.GetPostgresConnectionString(), cfg.Database.MaxOpenConns,
			helpers.ParseDuration(cfg.Database.ConnMaxLifetime, time.Hour))
	case config.DriverSQLite:
		return OpenSQLite(cfg.GetSQLiteConnectionString())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// OpenSQLite opens a single-file SQLite store. One connection serializes the file's writer.
func OpenSQLite(dsn string) (*DB, error) {
	return open(DialectSQLite, "sqlite", dsn, 1, 0)
}

func open(dialect Dialect, driverName, dsn string, maxOpen int, maxLifetime time.Duration) (*DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialect, err)
	}

	if maxOpen > 0 {
		conn.SetMaxOpenConns(maxOpen)
	}
	if maxLifetime > 0 {
		conn.SetConnMaxLifetime(maxLifetime)
	}

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to establish database connection: %w", err)
	}

	builder := sq.StatementBuilder.PlaceholderFormat(sq.Question)
	if dialect == DialectPostgres {
		builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}

	return &DB{DB: conn, Dialect: dialect, Builder: builder}, nil
}

// Close closes the underlying pool
func (db *DB) Close() error {
	if db.DB != nil {
		return db.DB.Close()
	}
	return nil
}

// TransactionFn is a function that executes within a transaction
type TransactionFn func(ctx context.Context, tx *sqlx.Tx) error

// WithTransaction runs a function within a transaction
func (db *DB) WithTransaction(ctx context.Context, fn TransactionFn) error {
	_, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Rollback on panic
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error().Err(rbErr).Msg("Failed to rollback transaction")
			return fmt.Errorf("error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
