// Package testutil provides test helpers for packages that need a real,
// isolated storage backend.
package testutil

import (
	"context"
	"testing"

	"github.com/coinkeep/coinkeep/internal/service"
	"github.com/coinkeep/coinkeep/internal/storage"
)

// SetupTestDB creates a new in-memory test database, migrated and seeded
// with the given category titles. Cleanup is registered automatically.
func SetupTestDB(t *testing.T, categoryTitles ...string) service.Storage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	for _, title := range categoryTitles {
		if _, err := store.CreateCategory(ctx, title); err != nil {
			t.Fatalf("failed to seed category %q: %v", title, err)
		}
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}
