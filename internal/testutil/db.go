// Package testutil opens throwaway sqlite databases carrying the production schema.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fekuna/omnipos-warehouse-service/internal/schema"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// NewDB returns a migrated sqlite database limited to one connection, so a
// query that escapes its transaction blocks instead of silently committing.
func NewDB(t testing.TB) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", filepath.Join(t.TempDir(), "warehouse.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = db.Close()
	})
	if err := schema.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
