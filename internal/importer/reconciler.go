package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/coinkeep/coinkeep/internal/common"
	"github.com/coinkeep/coinkeep/internal/model"
	"github.com/coinkeep/coinkeep/internal/service"

	"github.com/shopspring/decimal"
)

// Reconciler persists a parsed batch: it resolves referenced category titles
// against the store, creates the missing ones exactly once, then saves all
// transactions. The whole batch commits or rolls back as a unit.
type Reconciler struct {
	storage service.Storage
}

// NewReconciler creates a reconciler backed by the given storage.
func NewReconciler(storage service.Storage) *Reconciler {
	return &Reconciler{storage: storage}
}

// ImportReader drains the stream to completion, then imports the rows.
// Reconciliation never starts before the parser signals end of input.
func (r *Reconciler) ImportReader(ctx context.Context, reader io.Reader) ([]model.Transaction, error) {
	rows, err := NewParser(reader).Drain()
	if err != nil {
		return nil, err
	}
	return r.Import(ctx, rows)
}

// Import reconciles and persists a fully-materialized batch of rows.
func (r *Reconciler) Import(ctx context.Context, rows []RawRow) ([]model.Transaction, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	titles, err := distinctCategoryTitles(rows)
	if err != nil {
		return nil, err
	}

	tx, err := r.storage.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// One batched lookup for the whole title set; per-row queries would be
	// correct but quadratic against large batches.
	existing, err := tx.GetCategoriesByTitles(ctx, titles)
	if err != nil {
		return nil, fmt.Errorf("failed to look up categories: %w", err)
	}

	resolved := make(map[string]model.Category, len(titles))
	for _, cat := range existing {
		resolved[cat.Title] = cat
	}

	var missing []string
	for _, title := range titles {
		if _, ok := resolved[title]; !ok {
			missing = append(missing, title)
		}
	}

	if len(missing) > 0 {
		created, err := tx.CreateCategories(ctx, missing)
		if err != nil {
			return nil, fmt.Errorf("failed to create categories: %w", err)
		}
		for _, cat := range created {
			resolved[cat.Title] = cat
		}
	}

	transactions := make([]model.Transaction, 0, len(rows))
	now := time.Now().UTC()
	for i, row := range rows {
		txn, err := buildTransaction(row, resolved, now)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		transactions = append(transactions, txn)
	}

	if err := tx.SaveTransactions(ctx, transactions); err != nil {
		return nil, fmt.Errorf("failed to save transactions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit batch: %w", err)
	}

	slog.Info("imported batch",
		"transactions", len(transactions),
		"new_categories", len(missing))
	return transactions, nil
}

// distinctCategoryTitles collects referenced titles in first-seen order,
// for deterministic created-category ordering.
func distinctCategoryTitles(rows []RawRow) ([]string, error) {
	seen := make(map[string]struct{}, len(rows))
	titles := make([]string, 0, len(rows))
	for i, row := range rows {
		if row.Category == "" {
			return nil, fmt.Errorf("row %d: %w: category cannot be empty", i+1, common.ErrInvalidInput)
		}
		if _, ok := seen[row.Category]; ok {
			continue
		}
		seen[row.Category] = struct{}{}
		titles = append(titles, row.Category)
	}
	return titles, nil
}

func buildTransaction(row RawRow, resolved map[string]model.Category, createdAt time.Time) (model.Transaction, error) {
	txnType := model.TransactionType(row.Type)
	if !txnType.Valid() {
		return model.Transaction{}, fmt.Errorf("%w: %q", common.ErrInvalidTransactionType, row.Type)
	}

	value, err := decimal.NewFromString(row.Value)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("%w: value %q is not numeric", common.ErrInvalidInput, row.Value)
	}
	if value.IsNegative() {
		return model.Transaction{}, fmt.Errorf("%w: value cannot be negative", common.ErrInvalidInput)
	}

	category, ok := resolved[row.Category]
	if !ok {
		// Unreachable: category creation above guarantees coverage.
		return model.Transaction{}, fmt.Errorf("%w: category %q unresolved", common.ErrInvalidInput, row.Category)
	}

	return model.Transaction{
		ID:        model.NewTransactionID(),
		Title:     row.Title,
		Type:      txnType,
		Value:     value,
		Category:  category,
		CreatedAt: createdAt,
	}, nil
}
