// Package storage provides the data persistence layer for the coinkeep application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/coinkeep/coinkeep/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrEmptySlice         = errors.New("slice cannot be empty")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrNegativeValue      = errors.New("value cannot be negative")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTitles ensures a title set is non-nil and holds no empty titles.
func validateTitles(titles []string) error {
	if titles == nil {
		return fmt.Errorf("%w: titles", ErrNilParameter)
	}
	for i, title := range titles {
		if err := validateString(title, fmt.Sprintf("titles[%d]", i)); err != nil {
			return err
		}
	}
	return nil
}

// validateTransactions validates a slice of transactions.
func validateTransactions(transactions []model.Transaction) error {
	if transactions == nil {
		return fmt.Errorf("%w: transactions", ErrNilParameter)
	}
	if len(transactions) == 0 {
		return fmt.Errorf("%w: transactions", ErrEmptySlice)
	}

	for i, txn := range transactions {
		if err := validateTransaction(&txn); err != nil {
			return fmt.Errorf("transaction at index %d: %w", i, err)
		}
	}
	return nil
}

// validateTransaction validates a single transaction.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidTransaction)
	}
	if txn.Title == "" {
		return fmt.Errorf("%w: missing title", ErrInvalidTransaction)
	}
	if !txn.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidTransaction, txn.Type)
	}
	if txn.Value.IsNegative() {
		return fmt.Errorf("%w: %s", ErrNegativeValue, txn.Value)
	}
	if txn.Category.ID == 0 {
		return fmt.Errorf("%w: unresolved category", ErrInvalidTransaction)
	}
	return nil
}
