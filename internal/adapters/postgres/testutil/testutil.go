// Package testutil provides a migrated database pool for the postgres
// contract tests. The tests skip when no test database is configured, so the
// default `go test ./...` run stays hermetic.
package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chiro-horizon/registration-api/internal/adapters/postgres"
)

// OpenMigratedPool connects to the database named by TEST_DATABASE_URL and
// brings its schema up to date. Skips the calling test when the variable is
// unset.
func OpenMigratedPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping postgres contract test")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolOptions{ConnectTimeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("open test pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := postgres.Migrate(ctx, pool); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return pool
}

// ResetTables empties the application tables so each contract run starts
// from a clean slate.
func ResetTables(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`TRUNCATE work_years, groups, registrations RESTART IDENTITY`)
	if err != nil {
		t.Fatalf("reset tables: %v", err)
	}
}
