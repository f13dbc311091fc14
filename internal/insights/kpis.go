package insights

import (
	"math"

	"fjacquet/finstat/internal/aggregator"
	"fjacquet/finstat/internal/models"
	"fjacquet/finstat/internal/statement"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// DeriveKPIs builds the rule inputs from engine results.
//
// previous is the aggregate of the comparison period; when it is nil or has no
// revenue, RevenueChangePct is 0. Runway is only derived when availableFunds
// is valid: availableFunds divided by the average monthly expenses of current.
// It stays invalid when there is no burn to divide by.
func DeriveKPIs(current aggregator.Result, stmt statement.Result, previous *aggregator.Result, availableFunds decimal.NullDecimal) KPIs {
	kpis := KPIs{
		NetMargin:         stmt.Margins.Net,
		RecentProfitTrend: make([]decimal.Decimal, 0, len(current.MonthlyTrend)),
	}

	if previous != nil && !previous.Totals.Revenue.IsZero() {
		prev := previous.Totals.Revenue
		kpis.RevenueChangePct = current.Totals.Revenue.Sub(prev).Div(prev).Mul(models.Hundred)
	}

	if availableFunds.Valid {
		if burn := AverageMonthlyBurn(current); burn.IsPositive() {
			kpis.RunwayMonths = decimal.NewNullDecimal(availableFunds.Decimal.Div(burn))
		}
	}

	for _, bucket := range current.MonthlyTrend {
		kpis.RecentProfitTrend = append(kpis.RecentProfitTrend, bucket.Net)
	}
	kpis.ProfitTrendSlope, kpis.ProfitStdDev = trendStats(kpis.RecentProfitTrend)

	return kpis
}

// AverageMonthlyBurn is total expenses divided by the number of trend months,
// or 0 when the trend is empty.
func AverageMonthlyBurn(result aggregator.Result) decimal.Decimal {
	if len(result.MonthlyTrend) == 0 {
		return decimal.Zero
	}
	total := decimal.Zero
	for _, bucket := range result.MonthlyTrend {
		total = total.Add(bucket.Expenses)
	}
	return total.Div(decimal.NewFromInt(int64(len(result.MonthlyTrend))))
}

// trendStats returns the least-squares slope per period and the sample
// standard deviation of series. Both are 0 with fewer than two points.
func trendStats(series []decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if len(series) < 2 {
		return decimal.Zero, decimal.Zero
	}
	xs := make([]float64, len(series))
	ys := make([]float64, len(series))
	for i, v := range series {
		xs[i] = float64(i)
		ys[i] = v.InexactFloat64()
	}
	_, slope := stat.LinearRegression(xs, ys, nil, false)
	return fromFloat(slope), fromFloat(stat.StdDev(ys, nil))
}

func fromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f).Round(4)
}
