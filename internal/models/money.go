package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Hundred is used to express ratios as percentages.
var Hundred = decimal.NewFromInt(100)

// ParseAmount parses a monetary string into a decimal.Decimal.
// It accepts a comma as decimal separator, apostrophe or space thousand
// separators and a leading currency code or symbol.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	amount := strings.TrimSpace(amountStr)
	for _, symbol := range []string{"CHF", "EUR", "USD", "BRL", "R$", "$", "€"} {
		amount = strings.ReplaceAll(amount, symbol, "")
	}
	amount = strings.ReplaceAll(amount, " ", "")
	amount = strings.ReplaceAll(amount, "'", "")

	// With both separators present, the last one is the decimal separator
	comma, dot := strings.LastIndex(amount, ","), strings.LastIndex(amount, ".")
	switch {
	case comma >= 0 && dot >= 0 && comma > dot:
		amount = strings.ReplaceAll(amount, ".", "")
	case comma >= 0 && dot >= 0:
		amount = strings.ReplaceAll(amount, ",", "")
	}
	amount = strings.ReplaceAll(amount, ",", ".")

	if amount == "" {
		return decimal.Zero, fmt.Errorf("empty amount string '%s'", amountStr)
	}
	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount string '%s': %w", amountStr, err)
	}
	return dec, nil
}

// SumAmounts adds the amounts of all transactions, regardless of kind.
func SumAmounts(transactions []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range transactions {
		total = total.Add(tx.Amount)
	}
	return total
}
