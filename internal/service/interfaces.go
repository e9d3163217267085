// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/coinkeep/coinkeep/internal/model"
)

// CategoryStore defines the contract for category persistence.
type CategoryStore interface {
	// GetCategories returns all categories ordered by title.
	GetCategories(ctx context.Context) ([]model.Category, error)
	// GetCategoryByTitle returns the category with the given title,
	// or nil if no such category exists.
	GetCategoryByTitle(ctx context.Context, title string) (*model.Category, error)
	// GetCategoriesByTitles returns all categories whose title is in the
	// given set, as one batched lookup.
	GetCategoriesByTitles(ctx context.Context, titles []string) ([]model.Category, error)
	// CreateCategory creates a single category with the given title.
	CreateCategory(ctx context.Context, title string) (*model.Category, error)
	// CreateCategories creates one category per title, as one batch.
	CreateCategories(ctx context.Context, titles []string) ([]model.Category, error)
}

// TransactionStore defines the contract for transaction persistence.
type TransactionStore interface {
	// SaveTransactions appends multiple transactions as one batch.
	SaveTransactions(ctx context.Context, transactions []model.Transaction) error
	// GetTransactionByID returns the transaction with the given id,
	// or nil if no such transaction exists.
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)
	// GetTransactions returns all transactions ordered by creation time.
	GetTransactions(ctx context.Context) ([]model.Transaction, error)
	// DeleteTransaction removes the transaction with the given id.
	DeleteTransaction(ctx context.Context, id string) error
	// GetBalance aggregates income, outcome and net total over all
	// current transactions.
	GetBalance(ctx context.Context) (*model.Balance, error)
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	CategoryStore
	TransactionStore

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Tx, error)
	Close() error
}

// Tx represents a database transaction. All Storage operations performed
// through a Tx observe and join the same transactional boundary.
type Tx interface {
	Commit() error
	Rollback() error
	// Include all Storage methods for use within the transaction
	Storage
}
