// Package insights turns period KPIs into a deterministic list of findings.
package insights

import (
	"fmt"
	"sort"

	"fjacquet/finstat/internal/logging"

	"github.com/shopspring/decimal"
)

// Severity classifies an insight.
type Severity string

const (
	SeverityInfo        Severity = "info"
	SeverityOpportunity Severity = "opportunity"
	SeverityWarning     Severity = "warning"
	SeveritySuccess     Severity = "success"
)

// Impact estimates how much an insight matters.
type Impact string

const (
	ImpactLow    Impact = "low"
	ImpactMedium Impact = "medium"
	ImpactHigh   Impact = "high"
)

// Rule thresholds. Comparisons are strict.
var (
	LowMarginThreshold     = decimal.NewFromInt(10)
	RevenueGrowthThreshold = decimal.NewFromInt(10)
	LowRunwayThreshold     = decimal.NewFromInt(6)
)

// ProfitTrendWindow is the number of trailing points the profit-trend rule reads.
const ProfitTrendWindow = 3

// Insight is one finding.
type Insight struct {
	ID             string   `json:"id" yaml:"id" csv:"id"`
	Severity       Severity `json:"severity" yaml:"severity" csv:"severity"`
	Title          string   `json:"title" yaml:"title" csv:"title"`
	Description    string   `json:"description" yaml:"description" csv:"description"`
	Impact         Impact   `json:"impact" yaml:"impact" csv:"impact"`
	Recommendation string   `json:"recommendation,omitempty" yaml:"recommendation,omitempty" csv:"recommendation"`
}

// KPIs are the inputs of the rule set. RunwayMonths is only valid when the
// caller knows the available funds.
type KPIs struct {
	NetMargin         decimal.Decimal     `json:"net_margin" yaml:"net_margin"`
	RevenueChangePct  decimal.Decimal     `json:"revenue_change_pct" yaml:"revenue_change_pct"`
	RunwayMonths      decimal.NullDecimal `json:"runway_months" yaml:"runway_months"`
	RecentProfitTrend []decimal.Decimal   `json:"recent_profit_trend" yaml:"recent_profit_trend"`

	// Informational statistics over RecentProfitTrend; no rule reads them.
	ProfitTrendSlope decimal.Decimal `json:"profit_trend_slope" yaml:"profit_trend_slope"`
	ProfitStdDev     decimal.Decimal `json:"profit_std_dev" yaml:"profit_std_dev"`
}

// Rule is a pure predicate producing at most one insight.
type Rule struct {
	ID       string
	Evaluate func(KPIs) (Insight, bool)
}

const (
	RuleLowMargin     = "low-margin"
	RuleRevenueGrowth = "revenue-growth"
	RuleLowRunway     = "low-runway"
	RuleProfitTrend   = "profit-trend"
)

// Rules returns the rule set in declaration order.
func Rules() []Rule {
	return []Rule{
		{ID: RuleLowMargin, Evaluate: lowMargin},
		{ID: RuleRevenueGrowth, Evaluate: revenueGrowth},
		{ID: RuleLowRunway, Evaluate: lowRunway},
		{ID: RuleProfitTrend, Evaluate: profitTrend},
	}
}

func lowMargin(k KPIs) (Insight, bool) {
	if !k.NetMargin.LessThan(LowMarginThreshold) {
		return Insight{}, false
	}
	return Insight{
		ID:             RuleLowMargin,
		Severity:       SeverityWarning,
		Title:          "Low profit margin",
		Description:    fmt.Sprintf("Net margin is %s%%, below the %s%% threshold.", k.NetMargin.StringFixed(2), LowMarginThreshold),
		Impact:         ImpactHigh,
		Recommendation: "Review pricing and cut the largest operating expense lines.",
	}, true
}

func revenueGrowth(k KPIs) (Insight, bool) {
	if !k.RevenueChangePct.GreaterThan(RevenueGrowthThreshold) {
		return Insight{}, false
	}
	return Insight{
		ID:          RuleRevenueGrowth,
		Severity:    SeveritySuccess,
		Title:       "Positive revenue growth",
		Description: fmt.Sprintf("Revenue grew %s%% over the previous period.", k.RevenueChangePct.StringFixed(2)),
		Impact:      ImpactMedium,
	}, true
}

func lowRunway(k KPIs) (Insight, bool) {
	if !k.RunwayMonths.Valid || !k.RunwayMonths.Decimal.LessThan(LowRunwayThreshold) {
		return Insight{}, false
	}
	return Insight{
		ID:             RuleLowRunway,
		Severity:       SeverityWarning,
		Title:          "Low runway",
		Description:    fmt.Sprintf("Available funds cover %s months at the current burn rate.", k.RunwayMonths.Decimal.StringFixed(1)),
		Impact:         ImpactHigh,
		Recommendation: "Reduce monthly burn or secure additional funding.",
	}, true
}

func profitTrend(k KPIs) (Insight, bool) {
	n := len(k.RecentProfitTrend)
	if n < ProfitTrendWindow {
		return Insight{}, false
	}
	window := k.RecentProfitTrend[n-ProfitTrendWindow:]
	first, last := window[0], window[len(window)-1]
	if !last.Sub(first).IsPositive() {
		return Insight{}, false
	}
	return Insight{
		ID:          RuleProfitTrend,
		Severity:    SeverityOpportunity,
		Title:       "Positive profit trend",
		Description: fmt.Sprintf("Profit rose from %s to %s over the last %d periods.", first.StringFixed(2), last.StringFixed(2), ProfitTrendWindow),
		Impact:      ImpactMedium,
	}, true
}

var severityRank = map[Severity]int{
	SeverityWarning:     0,
	SeverityOpportunity: 1,
	SeveritySuccess:     2,
	SeverityInfo:        3,
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeveritySort orders insights warning first, then opportunity, success
// and info. Ties keep declaration order.
func WithSeveritySort() Option {
	return func(g *Generator) { g.sortBySeverity = true }
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger logging.Logger) Option {
	return func(g *Generator) { g.logger = logger }
}

// Generator evaluates the rule set.
type Generator struct {
	rules          []Rule
	sortBySeverity bool
	logger         logging.Logger
}

// NewGenerator returns a Generator over Rules().
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{rules: Rules()}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = logging.Component(g.logger, "insights")
	return g
}

// Generate evaluates every rule independently against kpis. The result is
// never nil.
func (g *Generator) Generate(kpis KPIs) []Insight {
	out := make([]Insight, 0, len(g.rules))
	for _, rule := range g.rules {
		if insight, ok := rule.Evaluate(kpis); ok {
			out = append(out, insight)
			g.logger.Debug("Rule fired", logging.F(logging.FieldRule, rule.ID))
		}
	}
	if g.sortBySeverity {
		sort.SliceStable(out, func(i, j int) bool {
			return severityRank[out[i].Severity] < severityRank[out[j].Severity]
		})
	}
	return out
}
