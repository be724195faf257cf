// Package testutil provides shared test helpers for setting up content
// trees and search databases.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/halvard/vitrine/internal/search"
	"github.com/halvard/vitrine/internal/store"
)

// Logger returns a silent logger for tests.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestDB creates a temporary SQLite search database that is automatically
// cleaned up.
func TestDB(t *testing.T) *search.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "vitrine-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := search.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestStore creates a temporary content tree with a ready Store.
func TestStore(t *testing.T) (string, *store.Store) {
	t.Helper()
	contentDir := t.TempDir()
	fs, err := store.NewFS(contentDir)
	if err != nil {
		t.Fatal(err)
	}
	return contentDir, store.New(fs, Logger())
}
