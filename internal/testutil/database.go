package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // Test Package
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = MEMORY", // Faster for tests
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			t.Fatalf("Failed to set pragma: %v", err)
		}
	}

	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates the database tables for testing.
// Schema is synchronized with the goose migrations.
func createTestSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE transactions (
			id TEXT NOT NULL PRIMARY KEY,
			session_id TEXT NOT NULL,
			date DATE NOT NULL,
			type TEXT NOT NULL CHECK (type IN ('BUY', 'SELL', 'TRADE')),
			asset TEXT NOT NULL,
			quantity TEXT NOT NULL,
			price_zar TEXT NOT NULL,
			fee TEXT NOT NULL DEFAULT '0',
			acquired_asset TEXT,
			acquired_quantity TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX idx_transactions_session ON transactions(session_id);
		CREATE INDEX idx_transactions_date ON transactions(date);
		CREATE INDEX idx_transactions_session_date ON transactions(session_id, date);
	`

	_, err := db.Exec(schema)
	return err
}
