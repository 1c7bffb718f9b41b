package testutil

import (
	"path/filepath"
	"testing"

	"github.com/asteroid-belt/solvesync/internal/db"
)

// NewDB opens a fresh database in a temp dir and closes it on cleanup.
func NewDB(t *testing.T) *db.DB {
	t.Helper()

	database, err := db.New(db.Config{
		Path:        filepath.Join(t.TempDir(), "test.db"),
		MaxIdleConn: 1,
		MaxOpenConn: 1,
	})
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}
