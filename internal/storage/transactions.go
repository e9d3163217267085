package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/coinkeep/coinkeep/internal/common"
	"github.com/coinkeep/coinkeep/internal/model"

	"github.com/shopspring/decimal"
)

// SaveTransactions saves multiple transactions to the database as one batch.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransactions(transactions); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := saveTransactions(ctx, tx, transactions); err != nil {
		return err
	}

	return tx.Commit()
}

// GetTransactionByID returns the transaction with the given id, or nil when absent.
func (s *SQLiteStorage) GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return getTransactionByID(ctx, s.db, id)
}

// GetTransactions returns all transactions ordered by creation time.
func (s *SQLiteStorage) GetTransactions(ctx context.Context) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getTransactions(ctx, s.db)
}

// DeleteTransaction removes a transaction by id. The referenced category is
// never cascade-deleted, even when no other transaction references it.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	return deleteTransaction(ctx, s.db, id)
}

// GetBalance aggregates income, outcome and net total over all transactions.
func (s *SQLiteStorage) GetBalance(ctx context.Context) (*model.Balance, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getBalance(ctx, s.db)
}

func saveTransactions(ctx context.Context, q querier, transactions []model.Transaction) error {
	for _, txn := range transactions {
		_, err := q.ExecContext(ctx, `
			INSERT INTO transactions (id, title, type, value, category_id, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			txn.ID,
			txn.Title,
			string(txn.Type),
			txn.Value.String(),
			txn.Category.ID,
			txn.CreatedAt,
		)
		if err != nil {
			return wrapStoreErr(err, fmt.Sprintf("save transaction %s", txn.ID))
		}
	}

	slog.Debug("saved transactions", "count", len(transactions))
	return nil
}

const transactionColumns = `
	t.id, t.title, t.type, t.value, t.created_at,
	c.id, c.title, c.created_at`

func getTransactionByID(ctx context.Context, q querier, id string) (*model.Transaction, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.id = ?`, transactionColumns)

	txn, err := scanTransaction(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Transaction not found
	}
	if err != nil {
		return nil, wrapStoreErr(err, "query transaction")
	}

	return txn, nil
}

func getTransactions(ctx context.Context, q querier) ([]model.Transaction, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		ORDER BY t.created_at, t.id`, transactionColumns)

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapStoreErr(err, "query transactions")
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

func deleteTransaction(ctx context.Context, q querier, id string) error {
	result, err := q.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return wrapStoreErr(err, "delete transaction")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}

	slog.Info("deleted transaction", "id", id)
	return nil
}

// getBalance sums values in Go rather than SQL because amounts are stored
// as exact decimal strings, not floats.
func getBalance(ctx context.Context, q querier) (*model.Balance, error) {
	rows, err := q.QueryContext(ctx, `SELECT type, value FROM transactions`)
	if err != nil {
		return nil, wrapStoreErr(err, "query balance")
	}
	defer func() { _ = rows.Close() }()

	balance := &model.Balance{
		Income:  decimal.Zero,
		Outcome: decimal.Zero,
	}

	for rows.Next() {
		var txnType, rawValue string
		if err := rows.Scan(&txnType, &rawValue); err != nil {
			return nil, fmt.Errorf("failed to scan balance row: %w", err)
		}

		value, err := decimal.NewFromString(rawValue)
		if err != nil {
			return nil, fmt.Errorf("stored value %q is not a valid decimal: %w", rawValue, err)
		}

		switch model.TransactionType(txnType) {
		case model.TypeIncome:
			balance.Income = balance.Income.Add(value)
		case model.TypeOutcome:
			balance.Outcome = balance.Outcome.Add(value)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating balance rows: %w", err)
	}

	balance.Total = balance.Income.Sub(balance.Outcome)
	return balance, nil
}

// scannable covers *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

func scanTransaction(row scannable) (*model.Transaction, error) {
	var (
		txn      model.Transaction
		txnType  string
		rawValue string
	)

	if err := row.Scan(
		&txn.ID, &txn.Title, &txnType, &rawValue, &txn.CreatedAt,
		&txn.Category.ID, &txn.Category.Title, &txn.Category.CreatedAt,
	); err != nil {
		return nil, err
	}

	value, err := decimal.NewFromString(rawValue)
	if err != nil {
		return nil, fmt.Errorf("stored value %q is not a valid decimal: %w", rawValue, err)
	}

	txn.Type = model.TransactionType(txnType)
	txn.Value = value
	return &txn, nil
}
