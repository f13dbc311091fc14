// Package models provides the data structures used throughout the application.
package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is an immutable revenue or expense record as delivered by the
// data provider. Amount is always non-negative; Kind carries the direction.
type Transaction struct {
	ID              string          `json:"id" yaml:"id"`
	Kind            Kind            `json:"kind" yaml:"kind"`
	Description     string          `json:"description" yaml:"description"`
	Notes           string          `json:"notes,omitempty" yaml:"notes,omitempty"`
	Amount          decimal.Decimal `json:"amount" yaml:"amount"`
	DueDate         time.Time       `json:"due_date" yaml:"due_date"`
	SettledDate     *time.Time      `json:"settled_date,omitempty" yaml:"settled_date,omitempty"`
	Status          Status          `json:"status" yaml:"status"`
	CategoryID      string          `json:"category_id" yaml:"category_id"`
	BankAccountID   string          `json:"bank_account_id,omitempty" yaml:"bank_account_id,omitempty"`
	PaymentMethodID string          `json:"payment_method_id" yaml:"payment_method_id"`
	Tags            []string        `json:"tags,omitempty" yaml:"tags,omitempty"`
	Recurrence      Recurrence      `json:"recurrence" yaml:"recurrence"`
}

// Recurrence is descriptive metadata only. Nothing in the engine expands a
// recurring transaction into instances.
type Recurrence struct {
	Frequency Frequency  `json:"frequency" yaml:"frequency"`
	Interval  int        `json:"interval,omitempty" yaml:"interval,omitempty"`
	Until     *time.Time `json:"until,omitempty" yaml:"until,omitempty"`
}

// IsRecurrent returns true if the recurrence describes a repeating schedule
func (r Recurrence) IsRecurrent() bool {
	return r.Frequency != "" && r.Frequency != FrequencyNone
}

// IsRevenue returns true if the transaction is incoming money
func (t Transaction) IsRevenue() bool {
	return t.Kind == KindRevenue
}

// IsExpense returns true if the transaction is outgoing money
func (t Transaction) IsExpense() bool {
	return t.Kind == KindExpense
}

// IsSettled returns true once the money was actually received or paid
func (t Transaction) IsSettled() bool {
	return t.SettledDate != nil
}

// HasTag reports whether the transaction carries tag (case-insensitive).
func (t Transaction) HasTag(tag string) bool {
	for _, own := range t.Tags {
		if strings.EqualFold(own, tag) {
			return true
		}
	}
	return false
}

// SearchText returns the text a search term is matched against. Missing notes
// contribute an empty string.
func (t Transaction) SearchText() string {
	if t.Notes == "" {
		return t.Description
	}
	return t.Description + " " + t.Notes
}
