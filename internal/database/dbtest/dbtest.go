// Package dbtest opens migrated throwaway databases for tests.
package dbtest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/jengzang/grenades-backend-go/internal/database"
)

// Open returns a migrated sqlite database living in the test's temp dir
func Open(t testing.TB) *sql.DB {
	t.Helper()

	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")}, zerolog.Nop())
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	m, err := database.NewMigrationManager(db, zerolog.Nop())
	if err != nil {
		t.Fatalf("load migrations: %v", err)
	}
	if err := m.RunMigrations(context.Background()); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}
