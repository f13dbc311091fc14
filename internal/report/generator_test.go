package report

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/finstat/internal/aggregator"
	"fjacquet/finstat/internal/engine"
	"fjacquet/finstat/internal/fixtures"
	"fjacquet/finstat/internal/insights"
	"fjacquet/finstat/internal/logging"
	"fjacquet/finstat/internal/models"
	"fjacquet/finstat/internal/statement"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleTransactions() []models.Transaction {
	return []models.Transaction{
		fixtures.Revenue("r1", "700", "sales", "2024-01-10"),
		fixtures.Revenue("r2", "300", "services", "2024-02-10"),
		fixtures.Expense("e1", "300", "cogs", "2024-01-15"),
		fixtures.Expense("e2", "100", "marketing", "2024-02-20"),
	}
}

func sampleReport(t *testing.T) *engine.Report {
	t.Helper()
	calc, err := statement.NewCalculator(statement.ClassificationMap{
		Categories: map[string]statement.LineRole{"cogs": statement.RoleCostOfGoods, "marketing": statement.RoleSalesExpense},
	})
	require.NoError(t, err)
	e := engine.New(nil, aggregator.New(nil), calc, insights.NewGenerator())
	r, err := e.Run(context.Background(), engine.Request{
		Snapshot:       models.Snapshot{Transactions: sampleTransactions(), Categories: fixtures.Categories()},
		AvailableFunds: decimal.NewNullDecimal(fixtures.D("500")),
	})
	require.NoError(t, err)
	return r
}

func TestReportGenerator_JSON(t *testing.T) {
	generator := NewReportGenerator(logging.NewMockLogger())
	summary := aggregator.New(nil).Aggregate(sampleTransactions(), fixtures.Categories())

	data, err := generator.GenerateReport(summary, FormatJSON)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	totals := decoded["totals"].(map[string]interface{})
	assert.Equal(t, "1000", totals["revenue"])
	assert.Equal(t, "600", totals["net"])
	breakdown := decoded["category_breakdown"].([]interface{})
	assert.Len(t, breakdown, 2)
	assert.Equal(t, "sales", breakdown[0].(map[string]interface{})["category_id"])
}

func TestReportGenerator_YAML(t *testing.T) {
	generator := NewReportGenerator(nil)

	data, err := generator.GenerateReport(sampleReport(t), FormatYAML)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	stmt := decoded["statement"].(map[string]interface{})
	assert.Equal(t, "1000", stmt["gross_revenue"])
	assert.Contains(t, decoded, "insights")
	assert.NotContains(t, decoded, "previous")
}

func TestReportGenerator_CSV(t *testing.T) {
	generator := NewReportGenerator(nil)
	summary := aggregator.New(nil, aggregator.WithExpenseBreakdown()).Aggregate(sampleTransactions(), fixtures.Categories())

	data, err := generator.GenerateReport(summary, FormatCSV)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "section,key,name,amount,percentage_of_total", lines[0])
	assert.Equal(t, []string{
		"totals,revenue,,1000,",
		"totals,expenses,,400,",
		"totals,net,,600,",
		"confirmed,revenue,,1000,",
	}, lines[1:5])
	assert.Equal(t, "cancelled,net,,0,", lines[15])
	assert.Equal(t, []string{
		"revenue,sales,Product Sales,700,70",
		"revenue,services,Services,300,30",
		"expense,cogs,Cost of Goods,300,75",
		"expense,marketing,Marketing,100,25",
	}, lines[16:20])
	assert.Equal(t, []string{
		"trend_revenue,2024-01,,700,",
		"trend_expenses,2024-01,,300,",
		"trend_net,2024-01,,400,",
		"trend_revenue,2024-02,,300,",
		"trend_expenses,2024-02,,100,",
		"trend_net,2024-02,,200,",
	}, lines[20:26])
	assert.Equal(t, []string{
		"counts,transactions,,4,",
		"counts,revenue,,2,",
		"counts,expenses,,2,",
	}, lines[26:])
}

func TestReportGenerator_CSVSummaryKeepsStatusBuckets(t *testing.T) {
	txs := sampleTransactions()
	txs[1].Status = models.StatusPending
	txs[3].Status = models.StatusOverdue
	summary := aggregator.New(nil).Aggregate(txs, fixtures.Categories())

	data, err := NewReportGenerator(nil).GenerateReport(&summary, FormatCSV)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "confirmed,revenue,,700,\n")
	assert.Contains(t, out, "pending,revenue,,300,\n")
	assert.Contains(t, out, "overdue,expenses,,100,\n")
	assert.NotContains(t, out, "expense,cogs", "expense breakdown is opt-in")
}

func TestReportGenerator_CSVLayouts(t *testing.T) {
	generator := NewReportGenerator(nil)
	generator.SetDelimiter(';')
	report := sampleReport(t)

	stmt, err := generator.GenerateReport(report.Statement, FormatCSV)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(stmt), "key;label;amount;is_subtotal;depth\ngross_revenue;Gross Revenue;1000;false;0\n"))

	ins, err := generator.GenerateReport(report.Insights, FormatCSV)
	require.NoError(t, err)
	assert.Contains(t, string(ins), "low-runway;warning;Low runway")

	full, err := generator.GenerateReport(report, FormatCSV)
	require.NoError(t, err)
	assert.Contains(t, string(full), "totals;revenue;1000")
	assert.Contains(t, string(full), "statement;net_profit;")
	assert.Contains(t, string(full), "kpis;runway_months;")

	_, err = generator.GenerateReport(map[string]string{}, FormatCSV)
	assert.Error(t, err)
}

func TestReportGenerator_UnsupportedFormat(t *testing.T) {
	logger := logging.NewMockLogger()
	_, err := NewReportGenerator(logger).GenerateReport(sampleReport(t), "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported report format")
}

func TestReportGenerator_Deterministic(t *testing.T) {
	generator := NewReportGenerator(nil)
	for _, format := range []string{FormatJSON, FormatYAML, FormatCSV} {
		first, err := generator.GenerateReport(sampleReport(t), format)
		require.NoError(t, err)
		second, err := generator.GenerateReport(sampleReport(t), format)
		require.NoError(t, err)
		assert.Equal(t, first, second, format)
	}
}

func TestReportGenerator_WriteFile(t *testing.T) {
	logger := logging.NewMockLogger()
	path := filepath.Join(t.TempDir(), "out", "report.json")

	require.NoError(t, NewReportGenerator(logger).WriteFile(path, sampleReport(t), FormatJSON))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
	assert.True(t, logger.HasEntry("INFO", "Report written"))
}
