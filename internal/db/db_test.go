package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := OpenSQLite("file:" + filepath.Join(t.TempDir(), "tx.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	_, err = database.Exec("CREATE TABLE items (name TEXT NOT NULL)")
	require.NoError(t, err)
	return database
}

func countItems(t *testing.T, database *DB) int {
	t.Helper()
	var n int
	require.NoError(t, database.Get(&n, "SELECT COUNT(*) FROM items"))
	return n
}

func insertItem(ctx context.Context, tx *sqlx.Tx, name string) error {
	_, err := tx.ExecContext(ctx, "INSERT INTO items (name) VALUES (?)", name)
	return err
}

func TestWithTransaction(t *testing.T) {
	ctx := context.Background()
	errAbort := errors.New("abort")

	tests := []struct {
		name    string
		fn      TransactionFn
		wantErr error
		want    int
	}{
		{
			name: "commits",
			fn: func(ctx context.Context, tx *sqlx.Tx) error {
				if err := insertItem(ctx, tx, "a"); err != nil {
					return err
				}
				return insertItem(ctx, tx, "b")
			},
			want: 2,
		},
		{
			name: "rolls back on error after a write",
			fn: func(ctx context.Context, tx *sqlx.Tx) error {
				if err := insertItem(ctx, tx, "a"); err != nil {
					return err
				}
				return errAbort
			},
			wantErr: errAbort,
			want:    0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			database := openTestDB(t)

			err := database.WithTransaction(ctx, tt.fn)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, countItems(t, database))
		})
	}
}

func TestWithTransactionRollsBackOnPanic(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	assert.PanicsWithValue(t, "boom", func() {
		_ = database.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
			if err := insertItem(ctx, tx, "a"); err != nil {
				return err
			}
			panic("boom")
		})
	})

	assert.Equal(t, 0, countItems(t, database))
}
