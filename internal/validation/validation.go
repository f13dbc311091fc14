// Package validation holds the opt-in input checks run before the engine.
// The engine itself trusts its input; these checks let a caller fail fast on
// a snapshot that breaks the data contract.
package validation

import (
	"fmt"

	"fjacquet/finstat/internal/models"
	"fjacquet/finstat/internal/reporterror"
)

// IsValidOutputFormat checks if the given format is supported.
func IsValidOutputFormat(format string) error {
	switch format {
	case "json", "yaml", "csv":
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s. Supported formats are 'json', 'yaml', 'csv'", format)
	}
}

// ValidateTransactions returns the first contract violation found, as an
// *reporterror.InvalidTransactionError, or nil.
func ValidateTransactions(transactions []models.Transaction) error {
	seen := make(map[string]bool, len(transactions))
	for i, tx := range transactions {
		if tx.ID == "" {
			return &reporterror.InvalidTransactionError{TransactionID: fmt.Sprintf("#%d", i), Field: "id", Reason: "missing id"}
		}
		if seen[tx.ID] {
			return &reporterror.InvalidTransactionError{TransactionID: tx.ID, Field: "id", Reason: "duplicate id"}
		}
		seen[tx.ID] = true

		if err := ValidateTransaction(tx); err != nil {
			return err
		}
	}
	return nil
}

// ValidateTransaction checks the field contract of a single transaction. It
// does not look at the id, which only matters across a set.
func ValidateTransaction(tx models.Transaction) error {
	invalid := func(field, value, reason string) error {
		return &reporterror.InvalidTransactionError{TransactionID: tx.ID, Field: field, Value: value, Reason: reason}
	}

	switch {
	case !tx.Kind.IsValid():
		return invalid("kind", string(tx.Kind), "must be revenue or expense")
	case tx.Amount.IsNegative():
		return invalid("amount", tx.Amount.String(), "must not be negative")
	case tx.DueDate.IsZero():
		return invalid("due_date", "", "missing due date")
	case !tx.Status.IsValid():
		return invalid("status", string(tx.Status), "unknown status")
	case !tx.Recurrence.Frequency.IsValid():
		return invalid("recurrence.frequency", string(tx.Recurrence.Frequency), "unknown frequency")
	case tx.Recurrence.Interval < 0:
		return invalid("recurrence.interval", fmt.Sprint(tx.Recurrence.Interval), "must not be negative")
	case tx.SettledDate != nil && tx.SettledDate.IsZero():
		return invalid("settled_date", "", "present but empty")
	}
	return nil
}

// ValidateCategories checks ids, types and parent links of categories.
func ValidateCategories(categories []models.Category) error {
	index := models.CategoryIndex(categories)
	if len(index) != len(categories) {
		seen := make(map[string]bool, len(categories))
		for _, c := range categories {
			if seen[c.ID] {
				return fmt.Errorf("%w: duplicate category id '%s'", reporterror.ErrInvalidInput, c.ID)
			}
			seen[c.ID] = true
		}
	}

	for _, c := range categories {
		switch {
		case c.ID == "":
			return fmt.Errorf("%w: category '%s' has no id", reporterror.ErrInvalidInput, c.Name)
		case c.Type != models.CategoryTypeIncome && c.Type != models.CategoryTypeExpense:
			return fmt.Errorf("%w: category '%s' has unknown type '%s'", reporterror.ErrInvalidInput, c.ID, c.Type)
		case c.ParentID == c.ID:
			return fmt.Errorf("%w: category '%s' is its own parent", reporterror.ErrInvalidInput, c.ID)
		case c.ParentID != "":
			if _, ok := index[c.ParentID]; !ok {
				return fmt.Errorf("%w: category '%s' has unknown parent '%s'", reporterror.ErrInvalidInput, c.ID, c.ParentID)
			}
		}
	}
	return nil
}

// ValidateSnapshot runs every check over snapshot.
func ValidateSnapshot(snapshot models.Snapshot) error {
	if err := ValidateCategories(snapshot.Categories); err != nil {
		return err
	}
	return ValidateTransactions(snapshot.Transactions)
}
