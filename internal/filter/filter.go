// Package filter selects the subset of a transaction snapshot that matches a
// multi-dimensional, conjunctive set of criteria.
package filter

import (
	"strings"
	"time"

	"fjacquet/finstat/internal/dateutils"
	"fjacquet/finstat/internal/models"
	"fjacquet/finstat/internal/reporterror"

	"github.com/shopspring/decimal"
)

// DateRange bounds DueDate on calendar days, both ends inclusive. A zero
// bound leaves that side open.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// AmountRange bounds Amount, both ends inclusive. A nil bound leaves that side open.
type AmountRange struct {
	Min *decimal.Decimal
	Max *decimal.Decimal
}

// Criteria is an immutable filter description. Every zero-valued field
// imposes no constraint; in particular an empty set never means "match nothing".
type Criteria struct {
	DateRange        DateRange
	CategoryIDs      []string
	BankAccountIDs   []string
	PaymentMethodIDs []string
	Statuses         []models.Status
	AmountRange      AmountRange
	SearchTerm       string
	// Tags matches transactions carrying at least one of the listed tags.
	Tags        []string
	IsRecurrent *bool
}

// IsZero reports whether the criteria impose no constraint at all.
func (c Criteria) IsZero() bool {
	return c.DateRange.Start.IsZero() && c.DateRange.End.IsZero() &&
		len(c.CategoryIDs) == 0 && len(c.BankAccountIDs) == 0 &&
		len(c.PaymentMethodIDs) == 0 && len(c.Statuses) == 0 &&
		c.AmountRange.Min == nil && c.AmountRange.Max == nil &&
		strings.TrimSpace(c.SearchTerm) == "" && len(c.Tags) == 0 &&
		c.IsRecurrent == nil
}

// Validate rejects inverted ranges. Apply itself never fails; callers that
// build criteria from user input check them here first.
func (c Criteria) Validate() error {
	dr := c.DateRange
	if !dr.Start.IsZero() && !dr.End.IsZero() && dateutils.CompareDates(dr.Start, dr.End) > 0 {
		return &reporterror.InvalidParameterError{
			Name:   "date_range",
			Value:  dateutils.ToISODate(dr.Start) + ".." + dateutils.ToISODate(dr.End),
			Reason: "start is after end",
		}
	}
	ar := c.AmountRange
	if ar.Min != nil && ar.Max != nil && ar.Min.GreaterThan(*ar.Max) {
		return &reporterror.InvalidParameterError{
			Name:   "amount_range",
			Value:  ar.Min.String() + ".." + ar.Max.String(),
			Reason: "min is greater than max",
		}
	}
	return nil
}

// Apply returns the transactions matching every criterion, preserving input
// order. The input slice is never modified; the result is never nil.
func Apply(transactions []models.Transaction, criteria Criteria) []models.Transaction {
	m := newMatcher(criteria)
	out := make([]models.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if m.match(tx) {
			out = append(out, tx)
		}
	}
	return out
}

// matcher holds the criteria pre-compiled into lookup sets.
type matcher struct {
	criteria       Criteria
	categories     map[string]struct{}
	bankAccounts   map[string]struct{}
	paymentMethods map[string]struct{}
	statuses       map[models.Status]struct{}
	tags           map[string]struct{}
	search         string
}

func newMatcher(c Criteria) matcher {
	m := matcher{
		criteria:       c,
		categories:     toSet(c.CategoryIDs),
		bankAccounts:   toSet(c.BankAccountIDs),
		paymentMethods: toSet(c.PaymentMethodIDs),
		search:         strings.ToLower(strings.TrimSpace(c.SearchTerm)),
	}
	if len(c.Statuses) > 0 {
		m.statuses = make(map[models.Status]struct{}, len(c.Statuses))
		for _, s := range c.Statuses {
			m.statuses[s] = struct{}{}
		}
	}
	if len(c.Tags) > 0 {
		m.tags = make(map[string]struct{}, len(c.Tags))
		for _, tag := range c.Tags {
			m.tags[strings.ToLower(tag)] = struct{}{}
		}
	}
	return m
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func inSet(set map[string]struct{}, value string) bool {
	if set == nil {
		return true
	}
	_, ok := set[value]
	return ok
}

func (m matcher) match(tx models.Transaction) bool {
	return m.matchDate(tx.DueDate) &&
		inSet(m.categories, tx.CategoryID) &&
		inSet(m.bankAccounts, tx.BankAccountID) &&
		inSet(m.paymentMethods, tx.PaymentMethodID) &&
		m.matchStatus(tx.Status) &&
		m.matchAmount(tx.Amount) &&
		m.matchSearch(tx) &&
		m.matchTags(tx.Tags) &&
		m.matchRecurrence(tx.Recurrence)
}

func (m matcher) matchDate(due time.Time) bool {
	dr := m.criteria.DateRange
	if !dr.Start.IsZero() && dateutils.CompareDates(due, dr.Start) < 0 {
		return false
	}
	if !dr.End.IsZero() && dateutils.CompareDates(due, dr.End) > 0 {
		return false
	}
	return true
}

func (m matcher) matchStatus(status models.Status) bool {
	if m.statuses == nil {
		return true
	}
	_, ok := m.statuses[status]
	return ok
}

func (m matcher) matchAmount(amount decimal.Decimal) bool {
	ar := m.criteria.AmountRange
	if ar.Min != nil && amount.LessThan(*ar.Min) {
		return false
	}
	if ar.Max != nil && amount.GreaterThan(*ar.Max) {
		return false
	}
	return true
}

func (m matcher) matchSearch(tx models.Transaction) bool {
	if m.search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(tx.SearchText()), m.search)
}

func (m matcher) matchTags(tags []string) bool {
	if m.tags == nil {
		return true
	}
	for _, tag := range tags {
		if _, ok := m.tags[strings.ToLower(tag)]; ok {
			return true
		}
	}
	return false
}

func (m matcher) matchRecurrence(r models.Recurrence) bool {
	if m.criteria.IsRecurrent == nil {
		return true
	}
	return r.IsRecurrent() == *m.criteria.IsRecurrent
}
