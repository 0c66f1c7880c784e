// ABOUTME: Shared test helpers for the storage package.
// ABOUTME: Provides a temp-dir database per test.
package storage

import (
	"path/filepath"
	"testing"
	"time"
)

// setupTestDB opens a fresh database in a temp directory.
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "cycle.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// today returns the current local date in storage format.
func today() string { return time.Now().Format("2006-01-02") }

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func intPtr(i int) *int       { return &i }
