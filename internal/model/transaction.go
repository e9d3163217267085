package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType indicates whether a transaction adds to or draws from the balance.
type TransactionType string

const (
	// TypeIncome represents money entering the ledger.
	TypeIncome TransactionType = "income"
	// TypeOutcome represents money leaving the ledger.
	TypeOutcome TransactionType = "outcome"
)

// Valid reports whether the type is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeOutcome
}

// Transaction represents a single monetary movement in the ledger.
// Transactions are immutable once created; there is no update operation.
type Transaction struct {
	CreatedAt time.Time
	ID        string
	Title     string
	Type      TransactionType
	Value     decimal.Decimal
	Category  Category
}

// NewTransactionID generates a unique transaction identifier.
func NewTransactionID() string {
	return uuid.NewString()
}

// Balance is the net aggregate over all current transactions.
type Balance struct {
	Income  decimal.Decimal
	Outcome decimal.Decimal
	Total   decimal.Decimal
}
