package ledger

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinkeep/coinkeep/internal/common"
	"github.com/coinkeep/coinkeep/internal/model"
	"github.com/coinkeep/coinkeep/internal/testutil"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCreateTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("income does not require balance", func(t *testing.T) {
		store := testutil.SetupTestDB(t)
		svc := New(store)

		txn, err := svc.CreateTransaction(ctx, "Salary", model.TypeIncome, dec("1200"), "Work")
		require.NoError(t, err)
		assert.NotEmpty(t, txn.ID)
		assert.Equal(t, "Work", txn.Category.Title)
		assert.NotZero(t, txn.Category.ID)

		balance, err := svc.Balance(ctx)
		require.NoError(t, err)
		assert.True(t, dec("1200").Equal(balance.Total))
	})

	t.Run("outcome over balance fails without mutation", func(t *testing.T) {
		store := testutil.SetupTestDB(t)
		svc := New(store)

		_, err := svc.CreateTransaction(ctx, "Salary", model.TypeIncome, dec("100"), "Work")
		require.NoError(t, err)

		_, err = svc.CreateTransaction(ctx, "TV", model.TypeOutcome, dec("100.01"), "Electronics")
		require.ErrorIs(t, err, common.ErrInsufficientBalance)

		// Store unchanged: same count, same balance, no byproduct category.
		transactions, err := store.GetTransactions(ctx)
		require.NoError(t, err)
		assert.Len(t, transactions, 1)

		balance, err := svc.Balance(ctx)
		require.NoError(t, err)
		assert.True(t, dec("100").Equal(balance.Total))

		cat, err := store.GetCategoryByTitle(ctx, "Electronics")
		require.NoError(t, err)
		assert.Nil(t, cat)
	})

	t.Run("outcome equal to balance succeeds leaving zero", func(t *testing.T) {
		store := testutil.SetupTestDB(t)
		svc := New(store)

		_, err := svc.CreateTransaction(ctx, "Salary", model.TypeIncome, dec("250"), "Work")
		require.NoError(t, err)

		_, err = svc.CreateTransaction(ctx, "Rent", model.TypeOutcome, dec("250"), "Housing")
		require.NoError(t, err)

		balance, err := svc.Balance(ctx)
		require.NoError(t, err)
		assert.True(t, balance.Total.IsZero(), "total %s", balance.Total)
	})

	t.Run("reuses an existing category by exact title", func(t *testing.T) {
		store := testutil.SetupTestDB(t, "Work")
		svc := New(store)

		existing, err := store.GetCategoryByTitle(ctx, "Work")
		require.NoError(t, err)

		txn, err := svc.CreateTransaction(ctx, "Salary", model.TypeIncome, dec("10"), "Work")
		require.NoError(t, err)
		assert.Equal(t, existing.ID, txn.Category.ID)

		categories, err := store.GetCategories(ctx)
		require.NoError(t, err)
		assert.Len(t, categories, 1)
	})

	t.Run("balance reflects every prior creation", func(t *testing.T) {
		store := testutil.SetupTestDB(t)
		svc := New(store)

		steps := []struct {
			value string
			typ   model.TransactionType
			want  string
		}{
			{"1000", model.TypeIncome, "1000"},
			{"300.50", model.TypeOutcome, "699.50"},
			{"0", model.TypeIncome, "699.50"},
			{"699.50", model.TypeOutcome, "0"},
		}

		for _, step := range steps {
			_, err := svc.CreateTransaction(ctx, "step", step.typ, dec(step.value), "General")
			require.NoError(t, err)

			balance, err := svc.Balance(ctx)
			require.NoError(t, err)
			assert.True(t, dec(step.want).Equal(balance.Total),
				"after %s %s want total %s, got %s", step.typ, step.value, step.want, balance.Total)
		}
	})

	t.Run("input validation", func(t *testing.T) {
		store := testutil.SetupTestDB(t)
		svc := New(store)

		tests := []struct {
			name     string
			title    string
			typ      model.TransactionType
			value    decimal.Decimal
			category string
			wantErr  error
		}{
			{"empty title", "", model.TypeIncome, dec("1"), "Work", common.ErrInvalidInput},
			{"blank title", "   ", model.TypeIncome, dec("1"), "Work", common.ErrInvalidInput},
			{"unknown type", "Salary", "transfer", dec("1"), "Work", common.ErrInvalidTransactionType},
			{"negative value", "Salary", model.TypeIncome, dec("-1"), "Work", common.ErrInvalidInput},
			{"empty category", "Salary", model.TypeIncome, dec("1"), "", common.ErrInvalidInput},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := svc.CreateTransaction(ctx, tt.title, tt.typ, tt.value, tt.category)
				require.ErrorIs(t, err, tt.wantErr)
			})
		}

		transactions, err := store.GetTransactions(ctx)
		require.NoError(t, err)
		assert.Empty(t, transactions, "failed validations must not mutate the store")
	})
}

func TestDeleteTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes an existing transaction", func(t *testing.T) {
		store := testutil.SetupTestDB(t)
		svc := New(store)

		txn, err := svc.CreateTransaction(ctx, "Salary", model.TypeIncome, dec("10"), "Work")
		require.NoError(t, err)

		require.NoError(t, svc.DeleteTransaction(ctx, txn.ID))

		balance, err := svc.Balance(ctx)
		require.NoError(t, err)
		assert.True(t, balance.Total.IsZero())

		// Category is not cascade-deleted.
		cat, err := store.GetCategoryByTitle(ctx, "Work")
		require.NoError(t, err)
		assert.NotNil(t, cat)
	})

	t.Run("unknown id fails with not found", func(t *testing.T) {
		store := testutil.SetupTestDB(t)
		svc := New(store)

		txn, err := svc.CreateTransaction(ctx, "Salary", model.TypeIncome, dec("10"), "Work")
		require.NoError(t, err)

		err = svc.DeleteTransaction(ctx, "nope")
		require.ErrorIs(t, err, common.ErrNotFound)

		transactions, err := store.GetTransactions(ctx)
		require.NoError(t, err)
		require.Len(t, transactions, 1)
		assert.Equal(t, txn.ID, transactions[0].ID)
	})
}
