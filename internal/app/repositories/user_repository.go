package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/yigit/studentperf/internal/app/models"
	"github.com/yigit/studentperf/internal/db"
	"github.com/yigit/studentperf/internal/pkg/apperrors"
	"github.com/yigit/studentperf/internal/pkg/dberrors"
	"github.com/yigit/studentperf/internal/pkg/logger"
)

var userColumns = []string{"user_id", "username", "password", "role"}

// UserRepository handles database operations on the users table
type UserRepository struct {
	base
	db *db.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(database *db.DB) *UserRepository {
	return &UserRepository{
		base: newBase(database),
		db:   database,
	}
}

// WithTx returns a copy of the repository bound to tx
func (r *UserRepository) WithTx(tx *sqlx.Tx) *UserRepository {
	clone := *r
	clone.q = tx
	return &clone
}

// FindByCredentials returns the user whose username and stored password both match exactly
func (r *UserRepository) FindByCredentials(ctx context.Context, username, password string) (*models.User, error) {
	query, args, err := r.sb.
		Select(userColumns...).
		From("users").
		Where("username = ? AND password = ?", username, password).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, storeError("build user query", err)
	}

	return r.getOne(ctx, query, args)
}

// FindByUsername returns the user with the given username
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query, args, err := r.sb.
		Select(userColumns...).
		From("users").
		Where("username = ?", username).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, storeError("build user query", err)
	}

	return r.getOne(ctx, query, args)
}

func (r *UserRepository) getOne(ctx context.Context, query string, args []interface{}) (*models.User, error) {
	user := &models.User{}
	if err := sqlx.GetContext(ctx, r.q, user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Msg("Error querying user")
		return nil, storeError("query user", err)
	}
	return user, nil
}

// Exists checks if a username is already taken
func (r *UserRepository) Exists(ctx context.Context, username string) (bool, error) {
	query, args, err := r.sb.
		Select("COUNT(*)").
		From("users").
		Where("username = ?", username).
		ToSql()
	if err != nil {
		return false, storeError("build username check", err)
	}

	var count int
	if err := sqlx.GetContext(ctx, r.q, &count, query, args...); err != nil {
		logger.Error().Err(err).Str("username", username).Msg("Error checking username")
		return false, storeError("check username", err)
	}
	return count > 0, nil
}

// Create inserts a user. The existence check and the insert run in one transaction,
// and a unique violation from either driver is reported as ErrDuplicateUsername.
func (r *UserRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	var id int64
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		txRepo := r.WithTx(tx)

		exists, err := txRepo.Exists(ctx, user.Username)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.ErrDuplicateUsername
		}

		query, args, err := txRepo.sb.
			Insert("users").
			Columns("username", "password", "role").
			Values(user.Username, user.Password, string(user.Role)).
			Suffix("RETURNING user_id").
			ToSql()
		if err != nil {
			return storeError("build user insert", err)
		}

		if err := tx.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
			if dberrors.IsUniqueViolation(err) {
				return apperrors.ErrDuplicateUsername
			}
			logger.Error().Err(err).Str("username", user.Username).Msg("Error creating user")
			return storeError("insert user", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	user.ID = id
	return id, nil
}

// DeleteStudent removes the student-role account with the given username.
// It returns the number of rows deleted; zero is not an error.
func (r *UserRepository) DeleteStudent(ctx context.Context, username string) (int64, error) {
	query, args, err := r.sb.
		Delete("users").
		Where("username = ? AND role = ?", username, string(models.RoleStudent)).
		ToSql()
	if err != nil {
		return 0, storeError("build user delete", err)
	}

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Str("username", username).Msg("Error deleting student")
		return 0, storeError("delete student", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, storeError("delete student", err)
	}
	return affected, nil
}

// Count returns the number of accounts holding role
func (r *UserRepository) Count(ctx context.Context, role models.Role) (int, error) {
	query, args, err := r.sb.
		Select("COUNT(*)").
		From("users").
		Where("role = ?", string(role)).
		ToSql()
	if err != nil {
		return 0, storeError("build user count", err)
	}

	var count int
	if err := sqlx.GetContext(ctx, r.q, &count, query, args...); err != nil {
		return 0, storeError("count users", err)
	}
	return count, nil
}
