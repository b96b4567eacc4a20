package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// SetupTestSQLite creates an empty SQLite test database removed after the test
func SetupTestSQLite(t *testing.T) *sql.DB {
	t.Helper()

	testDBPath := filepath.Join(t.TempDir(), "test_db.sqlite")

	db, err := sql.Open("sqlite3", testDBPath)
	if err != nil {
		t.Fatalf("Failed to create SQLite test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// SetupTestPostgres connects to POSTGRES_TEST_URL, skipping the test when unset
func SetupTestPostgres(t *testing.T) *sql.DB {
	t.Helper()

	pgURL := os.Getenv("POSTGRES_TEST_URL")
	if pgURL == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL test")
	}

	db, err := sql.Open("postgres", pgURL)
	if err != nil {
		t.Fatalf("Failed to connect to PostgreSQL test database: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping PostgreSQL test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}
