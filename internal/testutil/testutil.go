// Package testutil provides shared test helpers for setting up record databases.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/veldt/opsdesk/internal/store"
)

// TestStore creates a temporary SQLite record database that is automatically
// cleaned up.
func TestStore(t *testing.T) *store.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.db")
	db, err := store.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
