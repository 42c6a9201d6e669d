// Package testutil holds shared test helpers.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/fieldhouse/fieldhouse/internal/db"
)

// NewTestDB opens a migrated SQLite database in a per-test temp directory.
// The file is removed with the temp dir when the test finishes.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(path)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() {
		if err := database.Close(); err != nil {
			t.Errorf("closing test database: %v", err)
		}
	})
	return database
}
