package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// createTestStorage returns a migrated in-memory storage and its cleanup.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()

	store, err := NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test storage: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate test storage: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func TestNewSQLiteStorage(t *testing.T) {
	t.Run("rejects empty path", func(t *testing.T) {
		_, err := NewSQLiteStorage("")
		require.Error(t, err)
	})

	t.Run("opens in-memory database", func(t *testing.T) {
		store, err := NewSQLiteStorage(":memory:")
		require.NoError(t, err)
		defer func() { _ = store.Close() }()
	})
}

func TestMigrate(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx := context.Background()

	version, err := store.schemaVersion(ctx)
	require.NoError(t, err)
	require.Equal(t, ExpectedSchemaVersion, version)

	// Running migrations again is a no-op.
	require.NoError(t, store.Migrate(ctx))

	version, err = store.schemaVersion(ctx)
	require.NoError(t, err)
	require.Equal(t, ExpectedSchemaVersion, version)
}

func TestTxLifecycleGuards(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx := context.Background()

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	_, err = tx.BeginTx(ctx)
	require.Error(t, err, "nested transactions must be rejected")

	require.Error(t, tx.Close(), "closing inside a transaction must be rejected")
	require.Error(t, tx.Migrate(ctx), "migrating inside a transaction must be rejected")
}
