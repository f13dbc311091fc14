package statement

import (
	"fmt"
	"sort"
	"strings"

	"fjacquet/finstat/internal/models"
	"fjacquet/finstat/internal/reporterror"
)

// LineRole is the income-statement line an expense category feeds.
type LineRole string

const (
	RoleCostOfGoods      LineRole = "cost_of_goods"
	RoleSalesExpense     LineRole = "sales_expense"
	RoleAdminExpense     LineRole = "admin_expense"
	RoleFinancialExpense LineRole = "financial_expense"
	RoleOther            LineRole = "other"
)

// IsValid reports whether r is one of the known line roles.
func (r LineRole) IsValid() bool {
	switch r {
	case RoleCostOfGoods, RoleSalesExpense, RoleAdminExpense, RoleFinancialExpense, RoleOther:
		return true
	}
	return false
}

// ClassificationMap maps expense categories, and optionally tags, to line
// roles. It is deployment configuration and is loaded from outside the engine.
type ClassificationMap struct {
	Categories map[string]LineRole `json:"categories" yaml:"categories"`
	Tags       map[string]LineRole `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Validate checks that every entry names a known role.
func (m ClassificationMap) Validate() error {
	if err := validateEntries("category", m.Categories); err != nil {
		return err
	}
	return validateEntries("tag", m.Tags)
}

func validateEntries(kind string, entries map[string]LineRole) error {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.TrimSpace(k) == "" {
			return &reporterror.InvalidClassificationError{Key: k, Role: string(entries[k]), Reason: fmt.Sprintf("empty %s key", kind)}
		}
		if !entries[k].IsValid() {
			return &reporterror.InvalidClassificationError{Key: k, Role: string(entries[k]), Reason: "unknown line role"}
		}
	}
	return nil
}

// resolver answers which role a transaction plays. It owns copies of the map
// so later changes by the caller do not leak into a running calculator.
type resolver struct {
	categories map[string]LineRole
	tags       map[string]LineRole
	parents    map[string]string
}

func newResolver(m ClassificationMap, categories []models.Category) *resolver {
	r := &resolver{
		categories: make(map[string]LineRole, len(m.Categories)),
		tags:       make(map[string]LineRole, len(m.Tags)),
	}
	for k, v := range m.Categories {
		r.categories[k] = v
	}
	for k, v := range m.Tags {
		r.tags[strings.ToLower(k)] = v
	}
	if categories != nil {
		r.parents = make(map[string]string, len(categories))
		for _, c := range categories {
			if c.ParentID != "" {
				r.parents[c.ID] = c.ParentID
			}
		}
	}
	return r
}

// resolve returns the role of tx and whether any map entry matched. Lookup
// order: category id, ancestor categories, tags in ascending order.
func (r *resolver) resolve(tx models.Transaction) (LineRole, bool) {
	if role, ok := r.categories[tx.CategoryID]; ok {
		return role, true
	}

	seen := map[string]bool{tx.CategoryID: true}
	for parent := r.parents[tx.CategoryID]; parent != "" && !seen[parent]; parent = r.parents[parent] {
		if role, ok := r.categories[parent]; ok {
			return role, true
		}
		seen[parent] = true
	}

	if len(r.tags) > 0 && len(tx.Tags) > 0 {
		tags := make([]string, len(tx.Tags))
		for i, t := range tx.Tags {
			tags[i] = strings.ToLower(t)
		}
		sort.Strings(tags)
		for _, t := range tags {
			if role, ok := r.tags[t]; ok {
				return role, true
			}
		}
	}

	return RoleOther, false
}
