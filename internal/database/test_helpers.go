package database

import "testing"

// setupTestDB opens an in-memory SQLite database with the schema created,
// torn down with the test.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewDB(Config{Type: "sqlite", SQLitePath: ":memory:"})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return db
}
