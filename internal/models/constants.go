package models

// Kind is the transaction variant. It is authoritative for revenue/expense
// partitioning, regardless of the category type.
type Kind string

const (
	KindRevenue Kind = "revenue"
	KindExpense Kind = "expense"
)

// Status is the settlement state of a transaction.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusOverdue   Status = "overdue"
)

// CategoryType tells whether a category groups income or expenses.
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Frequency describes how often a recurring transaction repeats.
type Frequency string

const (
	FrequencyNone      Frequency = "none"
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

// Categories
const (
	CategoryUncategorized = "Uncategorized"
)

// File permissions
const (
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
)

// IsValid reports whether k is a known transaction variant.
func (k Kind) IsValid() bool {
	return k == KindRevenue || k == KindExpense
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusOverdue:
		return true
	}
	return false
}

// IsValid reports whether f is a known frequency. The empty string counts as
// FrequencyNone.
func (f Frequency) IsValid() bool {
	switch f {
	case "", FrequencyNone, FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return true
	}
	return false
}
