// Package testdb provides helpers for integration tests that need a real
// PostgreSQL database. It depends only on the database/sql interfaces and
// the migration tooling, not on any store implementation.
package testdb

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/stretchr/testify/require"

	"github.com/pvollan/identity-api/internal/platform/postgres"
)

// Timeout bounds each database operation performed by these helpers.
const Timeout = 5 * time.Second

// envTestDatabaseURL names the environment variable holding the connection
// string for the integration test database. When it is unset, integration
// tests are skipped.
const envTestDatabaseURL = "IDENTITY_TEST_DB_URL"

// URL returns the integration test database URL, or an empty string when
// no test database is configured.
func URL() string {
	return os.Getenv(envTestDatabaseURL)
}

// Skip skips the calling test when no integration test database is
// configured.
func Skip(t *testing.T) {
	t.Helper()
	if URL() == "" {
		t.Skipf("skipping: %s is not set", envTestDatabaseURL)
	}
}

// Open connects to the integration test database, runs all migrations, and
// registers a cleanup that closes the connection. It skips the test when no
// test database is configured.
func Open(t *testing.T) *sql.DB {
	t.Helper()
	Skip(t)

	db, err := sql.Open("pgx", URL())
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "failed to ping test database")
	require.NoError(t, postgres.RunMigrations(ctx, db), "failed to run migrations")

	return db
}

// Reset truncates the users table so each test starts from a clean slate.
func Reset(t *testing.T, db *sql.DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()

	_, err := db.ExecContext(ctx, "TRUNCATE TABLE users RESTART IDENTITY")
	require.NoError(t, err, "failed to reset users table")
}
