package database

import (
	"context"
	"os"
	"testing"
	"time"
)

// TestDatabaseURLEnv names the variable that enables integration tests.
const TestDatabaseURLEnv = "HEDGE_BETS_TEST_DATABASE_URL"

// SetupTestDB connects to the integration database, skipping the test when
// HEDGE_BETS_TEST_DATABASE_URL is unset or the schema is not migrated.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	url := os.Getenv(TestDatabaseURLEnv)
	if url == "" {
		t.Skipf("Integration test - set %s to run", TestDatabaseURLEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDBFromURL(ctx, url)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}

	missing, err := db.MissingTables(ctx, RequiredTables...)
	if err != nil {
		db.Close()
		t.Fatalf("failed to inspect test schema: %v", err)
	}
	if len(missing) > 0 {
		db.Close()
		t.Skipf("Integration test - test database is missing tables %v", missing)
	}

	t.Cleanup(db.Close)
	return db
}
