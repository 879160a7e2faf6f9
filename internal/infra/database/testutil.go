package database

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"time_recorder_bot/internal/infra/database/migrations"
)

// SetupTestDB creates an in-memory SQLite database with migrations applied.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open(DriverSQLite, ":memory:")
	require.NoError(t, err, "Failed to create test database")
	db.SetMaxOpenConns(1)

	err = migrations.Migrate(db, DriverSQLite)
	require.NoError(t, err, "Failed to run migrations on test database")

	return db
}

// CleanupTestDB closes the test database.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	t.Helper()

	err := db.Close()
	require.NoError(t, err, "Failed to close test database")
}
