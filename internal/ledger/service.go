// Package ledger orchestrates single-transaction lifecycle operations and
// enforces the running balance invariant.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/coinkeep/coinkeep/internal/common"
	"github.com/coinkeep/coinkeep/internal/model"
	"github.com/coinkeep/coinkeep/internal/service"

	"github.com/shopspring/decimal"
)

// Service creates and deletes ledger transactions.
type Service struct {
	storage service.Storage
}

// New creates a ledger service backed by the given storage.
func New(storage service.Storage) *Service {
	return &Service{storage: storage}
}

// CreateTransaction validates the request, checks the balance invariant,
// lazily creates the category when absent, and persists the transaction.
// The balance read and the conditional insert run inside one storage
// transaction so concurrent outcome creations cannot jointly overdraw.
func (s *Service) CreateTransaction(ctx context.Context, title string, txnType model.TransactionType, value decimal.Decimal, categoryTitle string) (*model.Transaction, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", common.ErrInvalidInput)
	}
	if !txnType.Valid() {
		return nil, fmt.Errorf("%w: %q", common.ErrInvalidTransactionType, txnType)
	}
	if value.IsNegative() {
		return nil, fmt.Errorf("%w: value cannot be negative", common.ErrInvalidInput)
	}
	if strings.TrimSpace(categoryTitle) == "" {
		return nil, fmt.Errorf("%w: category cannot be empty", common.ErrInvalidInput)
	}

	tx, err := s.storage.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	balance, err := tx.GetBalance(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute balance: %w", err)
	}

	// Strict inequality: an outcome equal to the current total succeeds
	// and leaves the balance at exactly zero.
	if txnType == model.TypeOutcome && balance.Total.LessThan(value) {
		return nil, fmt.Errorf("%w: balance %s, requested %s",
			common.ErrInsufficientBalance, balance.Total, value)
	}

	// Exact, case-sensitive title match; created lazily on first reference.
	category, err := tx.GetCategoryByTitle(ctx, categoryTitle)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve category: %w", err)
	}
	if category == nil {
		category, err = tx.CreateCategory(ctx, categoryTitle)
		if err != nil {
			return nil, fmt.Errorf("failed to create category: %w", err)
		}
	}

	txn := model.Transaction{
		ID:        model.NewTransactionID(),
		Title:     title,
		Type:      txnType,
		Value:     value,
		Category:  *category,
		CreatedAt: time.Now().UTC(),
	}

	if err := tx.SaveTransactions(ctx, []model.Transaction{txn}); err != nil {
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	slog.Info("created transaction",
		"id", txn.ID,
		"type", txn.Type,
		"value", txn.Value,
		"category", category.Title)
	return &txn, nil
}

// DeleteTransaction removes the transaction with the given id. The
// referenced category is kept even when no longer referenced.
func (s *Service) DeleteTransaction(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id cannot be empty", common.ErrInvalidInput)
	}

	txn, err := s.storage.GetTransactionByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to look up transaction: %w", err)
	}
	if txn == nil {
		return fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}

	return s.storage.DeleteTransaction(ctx, id)
}

// Balance returns the current income/outcome/total aggregates.
func (s *Service) Balance(ctx context.Context) (*model.Balance, error) {
	return s.storage.GetBalance(ctx)
}
