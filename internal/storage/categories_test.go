package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinkeep/coinkeep/internal/common"
)

func TestCreateCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a new category", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		cat, err := store.CreateCategory(ctx, "Groceries")
		require.NoError(t, err)
		assert.Equal(t, "Groceries", cat.Title)
		assert.NotZero(t, cat.ID)
		assert.False(t, cat.CreatedAt.IsZero())
	})

	t.Run("returns existing category for duplicate title", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		first, err := store.CreateCategory(ctx, "Groceries")
		require.NoError(t, err)

		second, err := store.CreateCategory(ctx, "Groceries")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		all, err := store.GetCategories(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("title matching is case-sensitive", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		lower, err := store.CreateCategory(ctx, "groceries")
		require.NoError(t, err)
		upper, err := store.CreateCategory(ctx, "Groceries")
		require.NoError(t, err)
		assert.NotEqual(t, lower.ID, upper.ID)
	})

	t.Run("rejects empty title", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		_, err := store.CreateCategory(ctx, "  ")
		require.ErrorIs(t, err, ErrEmptyString)
	})
}

func TestGetCategoryByTitle(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	created, err := store.CreateCategory(ctx, "Rent")
	require.NoError(t, err)

	found, err := store.GetCategoryByTitle(ctx, "Rent")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)

	missing, err := store.GetCategoryByTitle(ctx, "Utilities")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGetCategoriesByTitles(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	for _, title := range []string{"Rent", "Groceries", "Travel"} {
		_, err := store.CreateCategory(ctx, title)
		require.NoError(t, err)
	}

	found, err := store.GetCategoriesByTitles(ctx, []string{"Rent", "Travel", "Unknown"})
	require.NoError(t, err)
	require.Len(t, found, 2)

	titles := []string{found[0].Title, found[1].Title}
	assert.ElementsMatch(t, []string{"Rent", "Travel"}, titles)
}

func TestCreateCategories(t *testing.T) {
	ctx := context.Background()

	t.Run("creates all titles as a batch", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		created, err := store.CreateCategories(ctx, []string{"Food", "Salary", "Books"})
		require.NoError(t, err)
		require.Len(t, created, 3)

		seen := make(map[int]bool)
		for _, cat := range created {
			assert.NotZero(t, cat.ID)
			assert.False(t, seen[cat.ID], "ids must be unique")
			seen[cat.ID] = true
		}
	})

	t.Run("duplicate title violates the unique constraint", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		_, err := store.CreateCategory(ctx, "Food")
		require.NoError(t, err)

		_, err = store.CreateCategories(ctx, []string{"Food"})
		require.ErrorIs(t, err, common.ErrDuplicateEntry)
	})
}
