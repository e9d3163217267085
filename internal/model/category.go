package model

import "time"

// Category is a user-defined label grouping transactions.
// Titles are unique across the ledger; a category is never
// mutated after creation and never deleted by the core.
type Category struct {
	CreatedAt time.Time
	Title     string
	ID        int
}
