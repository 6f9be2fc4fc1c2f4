package repositories

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/yigit/studentperf/internal/db"
	"github.com/yigit/studentperf/internal/pkg/apperrors"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository   *UserRepository
	RecordRepository *RecordRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.DB) *Repositories {
	return &Repositories{
		UserRepository:   NewUserRepository(database),
		RecordRepository: NewRecordRepository(database),
	}
}

// base carries the executor and statement builder shared by every repository.
// q is either the pool or an open transaction.
type base struct {
	q  sqlx.ExtContext
	sb sq.StatementBuilderType
}

func newBase(database *db.DB) base {
	return base{q: database.DB, sb: database.Builder}
}

// storeError marks err as a store failure while keeping the driver error in the chain
func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, apperrors.ErrStoreUnavailable, err)
}
