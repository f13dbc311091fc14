// Package aggregator turns a filtered transaction set into period totals,
// status buckets, category breakdowns and a monthly trend.
package aggregator

import (
	"sort"
	"time"

	"fjacquet/finstat/internal/dateutils"
	"fjacquet/finstat/internal/logging"
	"fjacquet/finstat/internal/models"

	"github.com/shopspring/decimal"
)

// Totals holds revenue, expenses and their difference.
type Totals struct {
	Revenue  decimal.Decimal `json:"revenue" yaml:"revenue" csv:"revenue"`
	Expenses decimal.Decimal `json:"expenses" yaml:"expenses" csv:"expenses"`
	Net      decimal.Decimal `json:"net" yaml:"net" csv:"net"`
}

// CategoryRow is one line of a category breakdown.
type CategoryRow struct {
	CategoryID        string          `json:"category_id" yaml:"category_id" csv:"category_id"`
	Name              string          `json:"name" yaml:"name" csv:"name"`
	Amount            decimal.Decimal `json:"amount" yaml:"amount" csv:"amount"`
	PercentageOfTotal decimal.Decimal `json:"percentage_of_total" yaml:"percentage_of_total" csv:"percentage_of_total"`
}

// MonthBucket is one point of the monthly trend.
type MonthBucket struct {
	MonthKey string          `json:"month" yaml:"month" csv:"month"`
	Revenue  decimal.Decimal `json:"revenue" yaml:"revenue" csv:"revenue"`
	Expenses decimal.Decimal `json:"expenses" yaml:"expenses" csv:"expenses"`
	Net      decimal.Decimal `json:"net" yaml:"net" csv:"net"`
}

// Result is the outcome of one aggregation.
type Result struct {
	Totals          Totals `json:"totals" yaml:"totals"`
	ConfirmedTotals Totals `json:"confirmed_totals" yaml:"confirmed_totals"`
	PendingTotals   Totals `json:"pending_totals" yaml:"pending_totals"`
	OverdueTotals   Totals `json:"overdue_totals" yaml:"overdue_totals"`
	CancelledTotals Totals `json:"cancelled_totals" yaml:"cancelled_totals"`

	// CategoryBreakdown covers revenue; ExpenseBreakdown is only filled when
	// requested with WithExpenseBreakdown.
	CategoryBreakdown []CategoryRow `json:"category_breakdown" yaml:"category_breakdown"`
	ExpenseBreakdown  []CategoryRow `json:"expense_breakdown,omitempty" yaml:"expense_breakdown,omitempty"`

	MonthlyTrend []MonthBucket `json:"monthly_trend" yaml:"monthly_trend"`

	TransactionCount int `json:"transaction_count" yaml:"transaction_count"`
	RevenueCount     int `json:"revenue_count" yaml:"revenue_count"`
	ExpenseCount     int `json:"expense_count" yaml:"expense_count"`
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithExpenseBreakdown also computes the per-category breakdown of expenses.
func WithExpenseBreakdown() Option {
	return func(a *Aggregator) { a.expenseBreakdown = true }
}

// WithDenseTrend emits a zero bucket for every month between the first and
// last active month.
func WithDenseTrend() Option {
	return func(a *Aggregator) { a.denseTrend = true }
}

// Aggregator computes Results. It holds no per-call state and is safe for
// concurrent use.
type Aggregator struct {
	logger           logging.Logger
	expenseBreakdown bool
	denseTrend       bool
}

// New creates an Aggregator.
func New(logger logging.Logger, opts ...Option) *Aggregator {
	a := &Aggregator{logger: logging.Component(logger, "aggregator")}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate computes totals, breakdowns and trend for filtered. Neither input
// is modified. Empty input yields zero totals and empty (non-nil) lists.
func (a *Aggregator) Aggregate(filtered []models.Transaction, categories []models.Category) Result {
	var revenue, expenses []models.Transaction
	for _, tx := range filtered {
		switch tx.Kind {
		case models.KindRevenue:
			revenue = append(revenue, tx)
		case models.KindExpense:
			expenses = append(expenses, tx)
		}
	}

	result := Result{
		Totals:           newTotals(models.SumAmounts(revenue), models.SumAmounts(expenses)),
		TransactionCount: len(filtered),
		RevenueCount:     len(revenue),
		ExpenseCount:     len(expenses),
	}

	byStatus := statusTotals(revenue, expenses)
	result.ConfirmedTotals = byStatus[models.StatusConfirmed]
	result.PendingTotals = byStatus[models.StatusPending]
	result.OverdueTotals = byStatus[models.StatusOverdue]
	result.CancelledTotals = byStatus[models.StatusCancelled]

	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	result.CategoryBreakdown = breakdown(revenue, result.Totals.Revenue, names)
	if a.expenseBreakdown {
		result.ExpenseBreakdown = breakdown(expenses, result.Totals.Expenses, names)
	}

	result.MonthlyTrend = monthlyTrend(filtered, a.denseTrend)

	a.logger.Debug("Aggregated transactions",
		logging.F(logging.FieldCount, len(filtered)),
		logging.F("categories", len(result.CategoryBreakdown)),
		logging.F(logging.FieldMonths, len(result.MonthlyTrend)))

	return result
}

func newTotals(revenue, expenses decimal.Decimal) Totals {
	return Totals{Revenue: revenue, Expenses: expenses, Net: revenue.Sub(expenses)}
}

// statusTotals sums each side per status; a transaction lands in exactly one bucket.
func statusTotals(revenue, expenses []models.Transaction) map[models.Status]Totals {
	rev := make(map[models.Status]decimal.Decimal)
	exp := make(map[models.Status]decimal.Decimal)
	for _, tx := range revenue {
		rev[tx.Status] = rev[tx.Status].Add(tx.Amount)
	}
	for _, tx := range expenses {
		exp[tx.Status] = exp[tx.Status].Add(tx.Amount)
	}

	out := make(map[models.Status]Totals, 4)
	for _, s := range []models.Status{models.StatusConfirmed, models.StatusPending, models.StatusOverdue, models.StatusCancelled} {
		out[s] = newTotals(rev[s], exp[s])
	}
	return out
}

// breakdown groups one side by category. Rows are ordered by amount
// descending, then name, then id, so the output is fully deterministic.
func breakdown(side []models.Transaction, total decimal.Decimal, names map[string]string) []CategoryRow {
	amounts := make(map[string]decimal.Decimal)
	for _, tx := range side {
		amounts[tx.CategoryID] = amounts[tx.CategoryID].Add(tx.Amount)
	}

	rows := make([]CategoryRow, 0, len(amounts))
	for id, amount := range amounts {
		name, ok := names[id]
		if !ok {
			name = models.CategoryUncategorized
		}
		// A zero side total means every amount is zero: report 0%, not an error.
		pct := decimal.Zero
		if !total.IsZero() {
			pct = amount.Div(total).Mul(models.Hundred)
		}
		rows = append(rows, CategoryRow{CategoryID: id, Name: name, Amount: amount, PercentageOfTotal: pct})
	}

	sort.Slice(rows, func(i, j int) bool {
		if c := rows[i].Amount.Cmp(rows[j].Amount); c != 0 {
			return c > 0
		}
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		return rows[i].CategoryID < rows[j].CategoryID
	})
	return rows
}

// monthlyTrend buckets both sides by the calendar month of DueDate.
func monthlyTrend(transactions []models.Transaction, dense bool) []MonthBucket {
	type sides struct{ revenue, expenses decimal.Decimal }
	buckets := make(map[string]*sides)
	var first, last time.Time

	for _, tx := range transactions {
		if !tx.Kind.IsValid() {
			continue
		}
		key := dateutils.MonthKey(tx.DueDate)
		b, ok := buckets[key]
		if !ok {
			b = &sides{}
			buckets[key] = b
		}
		if tx.IsRevenue() {
			b.revenue = b.revenue.Add(tx.Amount)
		} else {
			b.expenses = b.expenses.Add(tx.Amount)
		}
		if first.IsZero() || tx.DueDate.Before(first) {
			first = tx.DueDate
		}
		if last.IsZero() || tx.DueDate.After(last) {
			last = tx.DueDate
		}
	}

	var keys []string
	if dense && len(buckets) > 0 {
		keys = dateutils.MonthRange(first, last)
	} else {
		keys = make([]string, 0, len(buckets))
		for key := range buckets {
			keys = append(keys, key)
		}
		sort.Strings(keys)
	}

	trend := make([]MonthBucket, 0, len(keys))
	for _, key := range keys {
		b := buckets[key]
		if b == nil {
			b = &sides{}
		}
		trend = append(trend, MonthBucket{
			MonthKey: key,
			Revenue:  b.revenue,
			Expenses: b.expenses,
			Net:      b.revenue.Sub(b.expenses),
		})
	}
	return trend
}
