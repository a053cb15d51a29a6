// Package dbtest provides migrated throwaway databases for tests.
package dbtest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"taskify/internal/platform/database"
)

// Open returns a migrated SQLite database that lives in t.TempDir and is
// closed when the test ends.
func Open(t testing.TB) *sql.DB {
	t.Helper()
	dsn := "sqlite:" + filepath.Join(t.TempDir(), "taskify.db")
	db, dialect, err := database.Open(context.Background(), dsn, 1)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(context.Background(), db, dialect); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}
