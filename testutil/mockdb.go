package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// CreateInMemoryDB creates an in-memory SQLite database for testing
func CreateInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create in-memory database: %v", err)
	}

	// Create bizchatKV table
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS bizchatKV (
		key TEXT PRIMARY KEY,
		value TEXT
	)`
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		t.Fatalf("Failed to create bizchatKV table: %v", err)
	}

	return db
}

// SeedSessionIndex writes a session-id index record into the database
func SeedSessionIndex(t *testing.T, db *sql.DB, value string) {
	t.Helper()
	insertSQL := "INSERT INTO bizchatKV (key, value) VALUES (?, ?)"
	if _, err := db.Exec(insertSQL, "sessionIds", value); err != nil {
		t.Fatalf("Failed to seed session index: %v", err)
	}
}

// ReadSessionIndex reads the raw session-id index record
func ReadSessionIndex(t *testing.T, db *sql.DB) string {
	t.Helper()
	var value string
	err := db.QueryRow("SELECT value FROM bizchatKV WHERE key = 'sessionIds'").Scan(&value)
	if err == sql.ErrNoRows {
		return ""
	}
	if err != nil {
		t.Fatalf("Failed to read session index: %v", err)
	}
	return value
}
