// Package model defines the canonical data types shared across the application.
package model

import (
	"fmt"
	"time"
)

// Transaction is the canonical transaction shape used internally, independent
// of the upstream source. Sign convention: negative amounts are debits
// (spending), positive amounts are credits (income).
type Transaction struct {
	Date         time.Time  `json:"date"`
	EditedAt     *time.Time `json:"editedAt,omitempty"`
	ID           string     `json:"id"`
	Description  string     `json:"description"`
	Category     string     `json:"category,omitempty"`
	AccountID    string     `json:"accountId,omitempty"`
	Amount       float64    `json:"amount"`
	IsUserEdited bool       `json:"isUserEdited,omitempty"`
}

// IsSpending reports whether the transaction represents money leaving the
// account.
func (t Transaction) IsSpending() bool {
	return t.Amount < 0
}

// Validate checks that the transaction carries the fields every consumer
// relies on.
func (t Transaction) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("transaction ID is required")
	}
	if t.Description == "" {
		return fmt.Errorf("transaction description is required")
	}
	if t.Date.IsZero() {
		return fmt.Errorf("transaction date is required")
	}
	return nil
}

// NewDate builds a calendar date with no time-of-day component. All
// transaction dates go through this constructor so that "2025-06-15" is
// June 15 regardless of the runtime time zone.
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses an ISO yyyy-mm-dd date string into a calendar date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return NewDate(d.Year(), d.Month(), d.Day()), nil
}
