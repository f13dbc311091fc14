// Package statement computes the income-statement waterfall (DRE) for a
// filtered transaction set.
package statement

import (
	"sort"

	"fjacquet/finstat/internal/logging"
	"fjacquet/finstat/internal/models"
	"fjacquet/finstat/internal/reporterror"

	"github.com/shopspring/decimal"
)

// Default rates applied when the caller does not supply its own.
var (
	DefaultTaxRate       = decimal.RequireFromString("0.25")
	DefaultDeductionRate = decimal.RequireFromString("0.08")
)

// Line keys, in waterfall order.
const (
	LineGrossRevenue        = "gross_revenue"
	LineDeductions          = "deductions"
	LineNetRevenue          = "net_revenue"
	LineCostOfGoods         = "cost_of_goods"
	LineGrossProfit         = "gross_profit"
	LineOperatingExpenses   = "operating_expenses"
	LineSalesExpenses       = "sales_expenses"
	LineAdminExpenses       = "admin_expenses"
	LineFinancialExpenses   = "financial_expenses"
	LineOperatingProfit     = "operating_profit"
	LineNonOperatingRevenue = "non_operating_revenue"
	LineNonOperatingExpense = "non_operating_expense"
	LinePreTaxProfit        = "pre_tax_profit"
	LineTaxes               = "taxes"
	LineNetProfit           = "net_profit"
)

// OperatingExpenses itemizes line 6 of the waterfall.
type OperatingExpenses struct {
	Sales     decimal.Decimal `json:"sales" yaml:"sales"`
	Admin     decimal.Decimal `json:"admin" yaml:"admin"`
	Financial decimal.Decimal `json:"financial" yaml:"financial"`
	Total     decimal.Decimal `json:"total" yaml:"total"`
}

// Margins are percentages of net revenue.
type Margins struct {
	Gross     decimal.Decimal `json:"gross" yaml:"gross"`
	Operating decimal.Decimal `json:"operating" yaml:"operating"`
	Net       decimal.Decimal `json:"net" yaml:"net"`
}

// Reconciliation accounts for every expense in the input, including those
// that fed no statement line.
type Reconciliation struct {
	ClassifiedExpenses      decimal.Decimal `json:"classified_expenses" yaml:"classified_expenses"`
	UnclassifiedExpenses    decimal.Decimal `json:"unclassified_expenses" yaml:"unclassified_expenses"`
	TotalExpenses           decimal.Decimal `json:"total_expenses" yaml:"total_expenses"`
	UnclassifiedCategoryIDs []string        `json:"unclassified_category_ids" yaml:"unclassified_category_ids"`
}

// Balanced reports whether classified plus unclassified equals the total.
func (r Reconciliation) Balanced() bool {
	return r.ClassifiedExpenses.Add(r.UnclassifiedExpenses).Equal(r.TotalExpenses)
}

// LineItem is one rendered row of the statement.
type LineItem struct {
	Key        string          `json:"key" yaml:"key" csv:"key"`
	Label      string          `json:"label" yaml:"label" csv:"label"`
	Amount     decimal.Decimal `json:"amount" yaml:"amount" csv:"amount"`
	IsSubtotal bool            `json:"is_subtotal" yaml:"is_subtotal" csv:"is_subtotal"`
	Depth      int             `json:"depth" yaml:"depth" csv:"depth"`
}

// Result is a computed statement.
type Result struct {
	GrossRevenue        decimal.Decimal   `json:"gross_revenue" yaml:"gross_revenue"`
	Deductions          decimal.Decimal   `json:"deductions" yaml:"deductions"`
	NetRevenue          decimal.Decimal   `json:"net_revenue" yaml:"net_revenue"`
	CostOfGoods         decimal.Decimal   `json:"cost_of_goods" yaml:"cost_of_goods"`
	GrossProfit         decimal.Decimal   `json:"gross_profit" yaml:"gross_profit"`
	OperatingExpenses   OperatingExpenses `json:"operating_expenses" yaml:"operating_expenses"`
	OperatingProfit     decimal.Decimal   `json:"operating_profit" yaml:"operating_profit"`
	NonOperatingRevenue decimal.Decimal   `json:"non_operating_revenue" yaml:"non_operating_revenue"`
	NonOperatingExpense decimal.Decimal   `json:"non_operating_expense" yaml:"non_operating_expense"`
	PreTaxProfit        decimal.Decimal   `json:"pre_tax_profit" yaml:"pre_tax_profit"`
	Taxes               decimal.Decimal   `json:"taxes" yaml:"taxes"`
	NetProfit           decimal.Decimal   `json:"net_profit" yaml:"net_profit"`

	Margins        Margins        `json:"margins" yaml:"margins"`
	Reconciliation Reconciliation `json:"reconciliation" yaml:"reconciliation"`
	Lines          []LineItem     `json:"lines" yaml:"lines"`

	TaxRate       decimal.Decimal `json:"tax_rate" yaml:"tax_rate"`
	DeductionRate decimal.Decimal `json:"deduction_rate" yaml:"deduction_rate"`
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithTaxRate sets the income tax rate applied to pre-tax profit.
func WithTaxRate(rate decimal.Decimal) Option {
	return func(c *Calculator) { c.taxRate = rate }
}

// WithDeductionRate sets the rate of statutory deductions on gross revenue.
func WithDeductionRate(rate decimal.Decimal) Option {
	return func(c *Calculator) { c.deductionRate = rate }
}

// WithNonOperating supplies pre-aggregated non-operating revenue and expense.
func WithNonOperating(revenue, expense decimal.Decimal) Option {
	return func(c *Calculator) {
		c.nonOperatingRevenue = revenue
		c.nonOperatingExpense = expense
	}
}

// WithParents lets an unmapped category inherit the role of its nearest
// mapped ancestor.
func WithParents(categories []models.Category) Option {
	return func(c *Calculator) {
		c.categories = make([]models.Category, len(categories))
		copy(c.categories, categories)
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger logging.Logger) Option {
	return func(c *Calculator) { c.logger = logger }
}

// Calculator computes statements. It is immutable after construction and safe
// for concurrent use.
type Calculator struct {
	resolver            *resolver
	categories          []models.Category
	taxRate             decimal.Decimal
	deductionRate       decimal.Decimal
	nonOperatingRevenue decimal.Decimal
	nonOperatingExpense decimal.Decimal
	logger              logging.Logger
}

// NewCalculator validates the classification map and rates and returns a
// ready Calculator.
func NewCalculator(classification ClassificationMap, opts ...Option) (*Calculator, error) {
	c := &Calculator{
		taxRate:       DefaultTaxRate,
		deductionRate: DefaultDeductionRate,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.Component(c.logger, "statement")

	if err := classification.Validate(); err != nil {
		return nil, err
	}
	if err := checkRate("tax_rate", c.taxRate); err != nil {
		return nil, err
	}
	if err := checkRate("deduction_rate", c.deductionRate); err != nil {
		return nil, err
	}
	if c.nonOperatingRevenue.IsNegative() {
		return nil, &reporterror.InvalidParameterError{Name: "non_operating_revenue", Value: c.nonOperatingRevenue.String(), Reason: "must not be negative"}
	}
	if c.nonOperatingExpense.IsNegative() {
		return nil, &reporterror.InvalidParameterError{Name: "non_operating_expense", Value: c.nonOperatingExpense.String(), Reason: "must not be negative"}
	}

	c.resolver = newResolver(classification, c.categories)
	return c, nil
}

func checkRate(name string, rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return &reporterror.InvalidParameterError{Name: name, Value: rate.String(), Reason: "must be between 0 and 1"}
	}
	return nil
}

// Classify returns the line role of tx under the calculator's map.
func (c *Calculator) Classify(tx models.Transaction) LineRole {
	role, _ := c.resolver.resolve(tx)
	return role
}

// Compute runs the waterfall over filtered. Each subtotal feeds the next line.
func (c *Calculator) Compute(filtered []models.Transaction) Result {
	byRole := make(map[LineRole]decimal.Decimal)
	grossRevenue, totalExpenses := decimal.Zero, decimal.Zero
	unclassifiedIDs := make(map[string]bool)

	for _, tx := range filtered {
		switch tx.Kind {
		case models.KindRevenue:
			grossRevenue = grossRevenue.Add(tx.Amount)
		case models.KindExpense:
			totalExpenses = totalExpenses.Add(tx.Amount)
			role := c.Classify(tx)
			byRole[role] = byRole[role].Add(tx.Amount)
			if role == RoleOther {
				unclassifiedIDs[tx.CategoryID] = true
			}
		}
	}

	r := Result{
		GrossRevenue:        grossRevenue,
		TaxRate:             c.taxRate,
		DeductionRate:       c.deductionRate,
		NonOperatingRevenue: c.nonOperatingRevenue,
		NonOperatingExpense: c.nonOperatingExpense,
	}
	r.Deductions = r.GrossRevenue.Mul(c.deductionRate)
	r.NetRevenue = r.GrossRevenue.Sub(r.Deductions)
	r.CostOfGoods = byRole[RoleCostOfGoods]
	r.GrossProfit = r.NetRevenue.Sub(r.CostOfGoods)

	opex := OperatingExpenses{
		Sales:     byRole[RoleSalesExpense],
		Admin:     byRole[RoleAdminExpense],
		Financial: byRole[RoleFinancialExpense],
	}
	opex.Total = opex.Sales.Add(opex.Admin).Add(opex.Financial)
	r.OperatingExpenses = opex

	r.OperatingProfit = r.GrossProfit.Sub(opex.Total)
	r.PreTaxProfit = r.OperatingProfit.Add(r.NonOperatingRevenue).Sub(r.NonOperatingExpense)
	// A pre-tax loss yields zero tax, never a credit.
	r.Taxes = decimal.Max(decimal.Zero, r.PreTaxProfit.Mul(c.taxRate))
	r.NetProfit = r.PreTaxProfit.Sub(r.Taxes)

	// Margins are 0 when there is no net revenue to divide by.
	if !r.NetRevenue.IsZero() {
		r.Margins = Margins{
			Gross:     r.GrossProfit.Div(r.NetRevenue).Mul(models.Hundred),
			Operating: r.OperatingProfit.Div(r.NetRevenue).Mul(models.Hundred),
			Net:       r.NetProfit.Div(r.NetRevenue).Mul(models.Hundred),
		}
	}

	ids := make([]string, 0, len(unclassifiedIDs))
	for id := range unclassifiedIDs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	r.Reconciliation = Reconciliation{
		ClassifiedExpenses:      r.CostOfGoods.Add(opex.Total),
		UnclassifiedExpenses:    byRole[RoleOther],
		TotalExpenses:           totalExpenses,
		UnclassifiedCategoryIDs: ids,
	}

	r.Lines = lines(r)

	if !r.Reconciliation.UnclassifiedExpenses.IsZero() {
		c.logger.Warn("Expenses without a statement line",
			logging.F(logging.FieldAmount, r.Reconciliation.UnclassifiedExpenses.String()),
			logging.F(logging.FieldCount, len(ids)))
	}
	c.logger.Debug("Computed statement",
		logging.F(logging.FieldCount, len(filtered)),
		logging.F(logging.FieldAmount, r.NetProfit.String()))

	return r
}

func lines(r Result) []LineItem {
	return []LineItem{
		{Key: LineGrossRevenue, Label: "Gross Revenue", Amount: r.GrossRevenue},
		{Key: LineDeductions, Label: "Deductions", Amount: r.Deductions},
		{Key: LineNetRevenue, Label: "Net Revenue", Amount: r.NetRevenue, IsSubtotal: true},
		{Key: LineCostOfGoods, Label: "Cost of Goods/Services", Amount: r.CostOfGoods},
		{Key: LineGrossProfit, Label: "Gross Profit", Amount: r.GrossProfit, IsSubtotal: true},
		{Key: LineOperatingExpenses, Label: "Operating Expenses", Amount: r.OperatingExpenses.Total, IsSubtotal: true},
		{Key: LineSalesExpenses, Label: "Sales Expenses", Amount: r.OperatingExpenses.Sales, Depth: 1},
		{Key: LineAdminExpenses, Label: "Administrative Expenses", Amount: r.OperatingExpenses.Admin, Depth: 1},
		{Key: LineFinancialExpenses, Label: "Financial Expenses", Amount: r.OperatingExpenses.Financial, Depth: 1},
		{Key: LineOperatingProfit, Label: "Operating Profit", Amount: r.OperatingProfit, IsSubtotal: true},
		{Key: LineNonOperatingRevenue, Label: "Non-operating Revenue", Amount: r.NonOperatingRevenue},
		{Key: LineNonOperatingExpense, Label: "Non-operating Expense", Amount: r.NonOperatingExpense},
		{Key: LinePreTaxProfit, Label: "Pre-tax Profit", Amount: r.PreTaxProfit, IsSubtotal: true},
		{Key: LineTaxes, Label: "Taxes", Amount: r.Taxes},
		{Key: LineNetProfit, Label: "Net Profit", Amount: r.NetProfit, IsSubtotal: true},
	}
}

// Line returns the amount of the line with key, and whether it exists.
func (r Result) Line(key string) (decimal.Decimal, bool) {
	for _, l := range r.Lines {
		if l.Key == key {
			return l.Amount, true
		}
	}
	return decimal.Zero, false
}
