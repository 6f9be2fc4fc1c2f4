// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yigit/studentperf/internal/app/migrations"
	"github.com/yigit/studentperf/internal/db"
)

// NewSQLiteDB opens a migrated SQLite store in a temporary directory
func NewSQLiteDB(t *testing.T) *db.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "students.db")
	database, err := db.OpenSQLite("file:" + path + "?_pragma=busy_timeout(5000)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, migrations.NewMigrator(database).InitSchema(context.Background()))
	return database
}
