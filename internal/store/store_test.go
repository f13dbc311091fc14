package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/finstat/internal/logging"
	"fjacquet/finstat/internal/models"
	"fjacquet/finstat/internal/reporterror"
	"fjacquet/finstat/internal/statement"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	err := os.WriteFile(path, []byte(content), 0600)
	require.NoError(t, err)
}

// newTestStore returns a FileStore pointing at files inside dir
func newTestStore(dir string, logger logging.Logger) *FileStore {
	return NewFileStore(
		filepath.Join(dir, "transactions.csv"),
		filepath.Join(dir, "categories.yaml"),
		filepath.Join(dir, "classification.yaml"),
		logger)
}

const transactionsCSV = `id,kind,description,notes,amount,due_date,settled_date,status,category_id,bank_account_id,payment_method_id,tags,frequency,interval,until
r1,revenue,Invoice 42,,"1'000.50",2024-01-10,2024-01-12,confirmed,sales,acc-1,pix,retainer|q1,monthly,1,2024-12-31
e1,Expense,Office rent,January,"300,00",15.01.2024,,pending,rent,,card,,,,
,expense,Bank fee,,4.90,2024-01-31,,,bank-fees,acc-1,debit,,,,
`

func TestNewFileStore_Defaults(t *testing.T) {
	s := NewFileStore("", "", "", nil)
	assert.Equal(t, DefaultTransactionsFile, s.TransactionsFile)
	assert.Equal(t, DefaultCategoriesFile, s.CategoriesFile)
	assert.Equal(t, DefaultClassificationFile, s.ClassificationFile)
	assert.Equal(t, ',', s.Delimiter)
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	testFile := filepath.Join(dir, "test.yaml")
	writeFile(t, testFile, "test content")

	s := NewFileStore("", "", "", nil)

	file, err := s.FindConfigFile(testFile)
	assert.NoError(t, err)
	assert.Equal(t, testFile, file)

	_, err = s.FindConfigFile(filepath.Join(dir, "nonexistent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadTransactions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "transactions.csv"), transactionsCSV)
	logger := logging.NewMockLogger()

	txs, err := newTestStore(dir, logger).LoadTransactions()

	require.NoError(t, err)
	require.Len(t, txs, 3)

	r1 := txs[0]
	assert.Equal(t, "r1", r1.ID)
	assert.Equal(t, models.KindRevenue, r1.Kind)
	assert.Equal(t, "1000.50", r1.Amount.StringFixed(2))
	assert.Equal(t, "2024-01-10", r1.DueDate.Format("2006-01-02"))
	require.NotNil(t, r1.SettledDate)
	assert.Equal(t, "2024-01-12", r1.SettledDate.Format("2006-01-02"))
	assert.Equal(t, []string{"retainer", "q1"}, r1.Tags)
	assert.Equal(t, models.FrequencyMonthly, r1.Recurrence.Frequency)
	assert.Equal(t, 1, r1.Recurrence.Interval)
	require.NotNil(t, r1.Recurrence.Until)

	e1 := txs[1]
	assert.Equal(t, models.KindExpense, e1.Kind)
	assert.Equal(t, "300.00", e1.Amount.StringFixed(2))
	assert.Equal(t, "2024-01-15", e1.DueDate.Format("2006-01-02"))
	assert.Equal(t, models.StatusPending, e1.Status)
	assert.Equal(t, "January", e1.Notes)
	assert.Nil(t, e1.SettledDate)
	assert.Nil(t, e1.Tags)
	assert.Equal(t, models.FrequencyNone, e1.Recurrence.Frequency)

	fee := txs[2]
	assert.Len(t, fee.ID, 36, "missing ids are generated")
	assert.Equal(t, models.StatusConfirmed, fee.Status, "status defaults to confirmed")

	again, err := newTestStore(dir, nil).LoadTransactions()
	require.NoError(t, err)
	assert.Equal(t, fee.ID, again[2].ID, "generated ids are stable across loads")

	assert.True(t, logger.HasEntry("DEBUG", "Loaded transactions"))
}

func TestLoadTransactions_SemicolonDelimiter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "transactions.csv"),
		"id;kind;description;amount;due_date;category_id\nx;revenue;Sale;12,50;2024-02-01;sales\n")
	s := newTestStore(dir, nil)
	s.Delimiter = ';'

	txs, err := s.LoadTransactions()

	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "12.50", txs[0].Amount.StringFixed(2))
}

func TestLoadTransactions_Errors(t *testing.T) {
	tests := []struct {
		name          string
		content       string
		expectedField string
	}{
		{"bad amount", "id,kind,amount,due_date\nx,revenue,abc,2024-01-01\n", "amount"},
		{"bad due date", "id,kind,amount,due_date\nx,revenue,1,someday\n", "due_date"},
		{"bad settled date", "id,kind,amount,due_date,settled_date\nx,revenue,1,2024-01-01,nope\n", "settled_date"},
		{"bad interval", "id,kind,amount,due_date,interval\nx,revenue,1,2024-01-01,often\n", "interval"},
		{"unknown kind", "id,kind,amount,due_date\nb,income,500,2024-01-01\n", "kind"},
		{"unknown status", "id,kind,amount,due_date,status\nc,revenue,200,2024-01-01,paid\n", "status"},
		{"negative amount", "id,kind,amount,due_date\nd,expense,-300,2024-01-01\n", "amount"},
		{"unknown frequency", "id,kind,amount,due_date,frequency\nx,revenue,1,2024-01-01,hourly\n", "recurrence.frequency"},
		{"negative interval", "id,kind,amount,due_date,frequency,interval\nx,revenue,1,2024-01-01,monthly,-2\n", "recurrence.interval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, "transactions.csv"), tt.content)

			_, err := newTestStore(dir, nil).LoadTransactions()

			require.Error(t, err)
			var loadErr *reporterror.LoadError
			require.True(t, errors.As(err, &loadErr))
			assert.Equal(t, tt.expectedField, loadErr.Field)
			assert.Equal(t, 1, loadErr.Line)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := newTestStore(t.TempDir(), nil).LoadTransactions()
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestLoadTransactions_RejectsContractViolations(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		expectedLine int
		expectedID   string
	}{
		{"unknown kind", "id,kind,amount,due_date\na,revenue,1,2024-01-01\nb,income,500,2024-01-01\n", 2, "b"},
		{"unknown status", "id,kind,amount,due_date,status\nc,revenue,200,2024-01-01,paid\n", 1, "c"},
		{"negative amount", "id,kind,amount,due_date\nd,expense,-300,2024-01-01\n", 1, "d"},
		{"duplicate id", "id,kind,amount,due_date\na,revenue,1,2024-01-01\nb,expense,2,2024-01-02\na,expense,3,2024-01-03\n", 3, "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, "transactions.csv"), tt.content)
			logger := logging.NewMockLogger()

			transactions, err := newTestStore(dir, logger).LoadTransactions()

			require.Error(t, err)
			assert.Nil(t, transactions)
			assert.ErrorIs(t, err, reporterror.ErrInvalidInput)

			var loadErr *reporterror.LoadError
			require.True(t, errors.As(err, &loadErr))
			assert.Equal(t, tt.expectedLine, loadErr.Line)

			var txErr *reporterror.InvalidTransactionError
			require.True(t, errors.As(err, &txErr))
			assert.Equal(t, tt.expectedID, txErr.TransactionID)
			assert.True(t, logger.HasEntry("ERROR", "Rejected transaction row"))
		})
	}
}

func TestLoadSnapshot_RowsSatisfyContract(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "transactions.csv"), transactionsCSV)

	snapshot, err := newTestStore(dir, nil).LoadSnapshot()
	require.NoError(t, err)

	for _, tx := range snapshot.Transactions {
		assert.True(t, tx.Kind.IsValid(), tx.ID)
		assert.True(t, tx.Status.IsValid(), tx.ID)
		assert.False(t, tx.Amount.IsNegative(), tx.ID)
	}
}

func TestLoadReferenceData(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "categories.yaml"), `categories:
  - id: sales
    name: Product Sales
    type: income
  - id: ads
    name: Ads
    type: expense
    parent_id: marketing
bank_accounts:
  - id: acc-1
    name: Main account
payment_methods:
  - id: pix
    name: PIX
`)
	s := newTestStore(dir, nil)

	reference, err := s.LoadReferenceData()
	require.NoError(t, err)
	require.Len(t, reference.Categories, 2)
	assert.Equal(t, models.CategoryTypeIncome, reference.Categories[0].Type)
	assert.Equal(t, "marketing", reference.Categories[1].ParentID)
	assert.Equal(t, []models.BankAccount{{ID: "acc-1", Name: "Main account"}}, reference.BankAccounts)
	assert.Equal(t, []models.PaymentMethod{{ID: "pix", Name: "PIX"}}, reference.PaymentMethods)
}

func TestLoadReferenceData_MissingAndInvalid(t *testing.T) {
	dir := t.TempDir()
	logger := logging.NewMockLogger()

	reference, err := newTestStore(dir, logger).LoadReferenceData()
	require.NoError(t, err)
	assert.NotNil(t, reference.Categories)
	assert.Empty(t, reference.Categories)
	assert.True(t, logger.HasEntry("WARN", "Categories file not found"))

	writeFile(t, filepath.Join(dir, "categories.yaml"), "categories: [unclosed")
	_, err = newTestStore(dir, nil).LoadReferenceData()
	var loadErr *reporterror.LoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestLoadClassification(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "classification.yaml"), `categories:
  cogs: cost_of_goods
  marketing: sales_expense
  rent: admin_expense
tags:
  interest: financial_expense
`)

	cm, err := newTestStore(dir, nil).LoadClassification()

	require.NoError(t, err)
	assert.Equal(t, statement.RoleCostOfGoods, cm.Categories["cogs"])
	assert.Equal(t, statement.RoleAdminExpense, cm.Categories["rent"])
	assert.Equal(t, statement.RoleFinancialExpense, cm.Tags["interest"])
}

func TestLoadClassification_MissingAndInvalid(t *testing.T) {
	dir := t.TempDir()

	cm, err := newTestStore(dir, nil).LoadClassification()
	require.NoError(t, err)
	assert.NotNil(t, cm.Categories)
	assert.Empty(t, cm.Categories)

	writeFile(t, filepath.Join(dir, "classification.yaml"), "categories:\n  rent: capex\n")
	_, err = newTestStore(dir, nil).LoadClassification()
	require.Error(t, err)
	assert.ErrorIs(t, err, reporterror.ErrInvalidInput)
}

func TestLoadSnapshot(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "transactions.csv"), transactionsCSV)
	writeFile(t, filepath.Join(dir, "categories.yaml"), "categories:\n  - id: sales\n    name: Sales\n    type: income\n")

	snapshot, err := newTestStore(dir, nil).LoadSnapshot()

	require.NoError(t, err)
	assert.Len(t, snapshot.Transactions, 3)
	assert.Len(t, snapshot.Categories, 1)
}

func TestMockStore(t *testing.T) {
	m := &MockStore{
		Snapshot:       models.Snapshot{Categories: []models.Category{{ID: "a"}}},
		Classification: statement.ClassificationMap{Categories: map[string]statement.LineRole{"a": statement.RoleOther}},
	}

	snapshot, err := m.LoadSnapshot()
	require.NoError(t, err)
	snapshot.Categories[0].ID = "changed"
	assert.Equal(t, "a", m.Snapshot.Categories[0].ID)

	cm, err := m.LoadClassification()
	require.NoError(t, err)
	cm.Categories["b"] = statement.RoleOther
	assert.Len(t, m.Classification.Categories, 1)

	m.LoadSnapshotError = errors.New("boom")
	_, err = m.LoadSnapshot()
	assert.EqualError(t, err, "boom")
}
