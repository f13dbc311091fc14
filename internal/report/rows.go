package report

import (
	"strconv"

	"fjacquet/finstat/internal/aggregator"
	"fjacquet/finstat/internal/engine"
)

// SummaryRow is one CSV line of a summary. Breakdown rows carry the category
// name and share; totals, status buckets, trend points and counts leave them empty.
type SummaryRow struct {
	Section           string `csv:"section"`
	Key               string `csv:"key"`
	Name              string `csv:"name"`
	Amount            string `csv:"amount"`
	PercentageOfTotal string `csv:"percentage_of_total"`
}

// MetricRow is one CSV line of a full report.
type MetricRow struct {
	Section string `csv:"section"`
	Key     string `csv:"key"`
	Value   string `csv:"value"`
}

func summaryRows(r aggregator.Result) []SummaryRow {
	var rows []SummaryRow
	addTotals := func(section string, t aggregator.Totals) {
		rows = append(rows,
			SummaryRow{Section: section, Key: "revenue", Amount: t.Revenue.String()},
			SummaryRow{Section: section, Key: "expenses", Amount: t.Expenses.String()},
			SummaryRow{Section: section, Key: "net", Amount: t.Net.String()},
		)
	}
	addBreakdown := func(section string, breakdown []aggregator.CategoryRow) {
		for _, c := range breakdown {
			rows = append(rows, SummaryRow{
				Section:           section,
				Key:               c.CategoryID,
				Name:              c.Name,
				Amount:            c.Amount.String(),
				PercentageOfTotal: c.PercentageOfTotal.String(),
			})
		}
	}

	addTotals("totals", r.Totals)
	addTotals("confirmed", r.ConfirmedTotals)
	addTotals("pending", r.PendingTotals)
	addTotals("overdue", r.OverdueTotals)
	addTotals("cancelled", r.CancelledTotals)
	addBreakdown("revenue", r.CategoryBreakdown)
	addBreakdown("expense", r.ExpenseBreakdown)
	for _, bucket := range r.MonthlyTrend {
		rows = append(rows,
			SummaryRow{Section: "trend_revenue", Key: bucket.MonthKey, Amount: bucket.Revenue.String()},
			SummaryRow{Section: "trend_expenses", Key: bucket.MonthKey, Amount: bucket.Expenses.String()},
			SummaryRow{Section: "trend_net", Key: bucket.MonthKey, Amount: bucket.Net.String()},
		)
	}
	rows = append(rows,
		SummaryRow{Section: "counts", Key: "transactions", Amount: strconv.Itoa(r.TransactionCount)},
		SummaryRow{Section: "counts", Key: "revenue", Amount: strconv.Itoa(r.RevenueCount)},
		SummaryRow{Section: "counts", Key: "expenses", Amount: strconv.Itoa(r.ExpenseCount)},
	)
	return rows
}

func metricRows(r *engine.Report) []MetricRow {
	rows := []MetricRow{
		{"totals", "revenue", r.Aggregate.Totals.Revenue.String()},
		{"totals", "expenses", r.Aggregate.Totals.Expenses.String()},
		{"totals", "net", r.Aggregate.Totals.Net.String()},
	}
	for _, bucket := range r.Aggregate.MonthlyTrend {
		rows = append(rows, MetricRow{"trend", bucket.MonthKey, bucket.Net.String()})
	}
	for _, line := range r.Statement.Lines {
		rows = append(rows, MetricRow{"statement", line.Key, line.Amount.String()})
	}
	rows = append(rows,
		MetricRow{"margins", "gross", r.Statement.Margins.Gross.String()},
		MetricRow{"margins", "operating", r.Statement.Margins.Operating.String()},
		MetricRow{"margins", "net", r.Statement.Margins.Net.String()},
		MetricRow{"reconciliation", "unclassified_expenses", r.Statement.Reconciliation.UnclassifiedExpenses.String()},
		MetricRow{"kpis", "revenue_change_pct", r.KPIs.RevenueChangePct.String()},
	)
	if r.KPIs.RunwayMonths.Valid {
		rows = append(rows, MetricRow{"kpis", "runway_months", r.KPIs.RunwayMonths.Decimal.String()})
	}
	for _, insight := range r.Insights {
		rows = append(rows, MetricRow{"insights", insight.ID, string(insight.Severity)})
	}
	return rows
}
