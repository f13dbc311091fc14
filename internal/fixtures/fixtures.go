// Package fixtures builds transaction snapshots for tests across packages.
package fixtures

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"fjacquet/finstat/internal/models"

	"github.com/shopspring/decimal"
)

// D parses a decimal literal and panics on malformed input.
func D(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Date parses an ISO date and panics on malformed input.
func Date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// Revenue builds a confirmed revenue transaction.
func Revenue(id, amount, categoryID, dueDate string) models.Transaction {
	return models.Transaction{
		ID:              id,
		Kind:            models.KindRevenue,
		Description:     "Revenue " + id,
		Amount:          D(amount),
		DueDate:         Date(dueDate),
		Status:          models.StatusConfirmed,
		CategoryID:      categoryID,
		PaymentMethodID: "pix",
		Recurrence:      models.Recurrence{Frequency: models.FrequencyNone},
	}
}

// Expense builds a confirmed expense transaction.
func Expense(id, amount, categoryID, dueDate string) models.Transaction {
	tx := Revenue(id, amount, categoryID, dueDate)
	tx.Kind = models.KindExpense
	tx.Description = "Expense " + id
	return tx
}

// RandIntn returns a random int in [0, n) using crypto/rand
func RandIntn(n int) int {
	if n <= 0 {
		return 0
	}
	result, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(result.Int64())
}

var (
	categoryIDs = []string{"sales", "services", "cogs", "marketing", "rent", "bank-fees", "misc"}
	statuses    = []models.Status{models.StatusPending, models.StatusConfirmed, models.StatusCancelled, models.StatusOverdue}
	accounts    = []string{"", "acc-1", "acc-2"}
	methods     = []string{"pix", "card", "boleto"}
	tagPool     = []string{"q1", "retainer", "tax", "payroll"}
	frequencies = []models.Frequency{models.FrequencyNone, models.FrequencyMonthly, models.FrequencyYearly}
)

// Categories returns the category set used by RandomTransactions.
func Categories() []models.Category {
	return []models.Category{
		{ID: "sales", Name: "Product Sales", Type: models.CategoryTypeIncome},
		{ID: "services", Name: "Services", Type: models.CategoryTypeIncome},
		{ID: "cogs", Name: "Cost of Goods", Type: models.CategoryTypeExpense},
		{ID: "marketing", Name: "Marketing", Type: models.CategoryTypeExpense},
		{ID: "rent", Name: "Rent", Type: models.CategoryTypeExpense},
		{ID: "bank-fees", Name: "Bank Fees", Type: models.CategoryTypeExpense},
		{ID: "misc", Name: "Miscellaneous", Type: models.CategoryTypeExpense},
	}
}

// RandomTransactions generates n well-formed transactions spread over 2023-2024
// with cent-precision amounts.
func RandomTransactions(n int) []models.Transaction {
	base := Date("2023-01-01")
	txs := make([]models.Transaction, 0, n)
	for i := 0; i < n; i++ {
		kind := models.KindRevenue
		if RandIntn(2) == 0 {
			kind = models.KindExpense
		}
		var tags []string
		for _, tag := range tagPool {
			if RandIntn(3) == 0 {
				tags = append(tags, tag)
			}
		}
		txs = append(txs, models.Transaction{
			ID:              fmt.Sprintf("tx-%04d", i),
			Kind:            kind,
			Description:     fmt.Sprintf("Synthetic %s %d", kind, i),
			Notes:           []string{"", "Paid via portal", "Client ACME"}[RandIntn(3)],
			Amount:          decimal.New(int64(RandIntn(500000)), -2),
			DueDate:         base.AddDate(0, 0, RandIntn(730)),
			Status:          statuses[RandIntn(len(statuses))],
			CategoryID:      categoryIDs[RandIntn(len(categoryIDs))],
			BankAccountID:   accounts[RandIntn(len(accounts))],
			PaymentMethodID: methods[RandIntn(len(methods))],
			Tags:            tags,
			Recurrence:      models.Recurrence{Frequency: frequencies[RandIntn(len(frequencies))]},
		})
	}
	return txs
}
