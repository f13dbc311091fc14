package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name           string
		amount         string
		expectedAmount string
		expectError    bool
	}{
		{name: "PlainDecimal", amount: "100.50", expectedAmount: "100.50"},
		{name: "CommaSeparator", amount: "100,50", expectedAmount: "100.50"},
		{name: "SwissThousands", amount: "1'234.05", expectedAmount: "1234.05"},
		{name: "EuropeanThousands", amount: "1.234,56", expectedAmount: "1234.56"},
		{name: "USThousands", amount: "1,234.56", expectedAmount: "1234.56"},
		{name: "CurrencyPrefix", amount: "R$ 99,90", expectedAmount: "99.90"},
		{name: "Empty", amount: "  ", expectError: true},
		{name: "Invalid", amount: "abc", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.amount)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedAmount, got.StringFixed(2))
		})
	}
}

func TestSumAmounts(t *testing.T) {
	txs := []Transaction{
		{Kind: KindRevenue, Amount: decimal.RequireFromString("0.10")},
		{Kind: KindExpense, Amount: decimal.RequireFromString("0.20")},
	}
	assert.True(t, decimal.RequireFromString("0.30").Equal(SumAmounts(txs)))
	assert.True(t, SumAmounts(nil).IsZero())
}

func TestTransactionHelpers(t *testing.T) {
	settled := time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC)
	tx := Transaction{
		Kind:        KindRevenue,
		Description: "Invoice 42",
		Tags:        []string{"Retainer"},
		SettledDate: &settled,
		Recurrence:  Recurrence{Frequency: FrequencyMonthly, Interval: 1},
	}

	assert.True(t, tx.IsRevenue())
	assert.False(t, tx.IsExpense())
	assert.True(t, tx.IsSettled())
	assert.True(t, tx.HasTag("retainer"))
	assert.False(t, tx.HasTag("payroll"))
	assert.True(t, tx.Recurrence.IsRecurrent())
	assert.Equal(t, "Invoice 42", tx.SearchText())

	tx.Notes = "paid late"
	assert.Equal(t, "Invoice 42 paid late", tx.SearchText())

	assert.False(t, Recurrence{}.IsRecurrent())
	assert.False(t, Recurrence{Frequency: FrequencyNone}.IsRecurrent())
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, KindExpense.IsValid())
	assert.False(t, Kind("transfer").IsValid())
	assert.True(t, StatusOverdue.IsValid())
	assert.False(t, Status("void").IsValid())
	assert.True(t, Frequency("").IsValid())
	assert.False(t, Frequency("hourly").IsValid())
}
