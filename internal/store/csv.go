package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"fjacquet/finstat/internal/dateutils"
	"fjacquet/finstat/internal/models"
	"fjacquet/finstat/internal/reporterror"
	"fjacquet/finstat/internal/validation"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
)

// TagSeparator splits the tags column.
const TagSeparator = "|"

// transactionNamespace seeds the ids generated for rows without one.
var transactionNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("finstat/transactions"))

// TransactionRow is one line of the transactions CSV file.
type TransactionRow struct {
	ID              string `csv:"id"`
	Kind            string `csv:"kind"`
	Description     string `csv:"description"`
	Notes           string `csv:"notes"`
	Amount          string `csv:"amount"`
	DueDate         string `csv:"due_date"`
	SettledDate     string `csv:"settled_date"`
	Status          string `csv:"status"`
	CategoryID      string `csv:"category_id"`
	BankAccountID   string `csv:"bank_account_id"`
	PaymentMethodID string `csv:"payment_method_id"`
	Tags            string `csv:"tags"`
	Frequency       string `csv:"frequency"`
	Interval        string `csv:"interval"`
	Until           string `csv:"until"`
}

// ReadCSVFile reads CSV data into a slice of structs using gocsv.
func ReadCSVFile[TCSVRow any](filePath string, delimiter rune) ([]TCSVRow, error) {
	file, err := os.Open(filePath) // #nosec G304 -- path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.Comma = delimiter
	reader.TrimLeadingSpace = true

	var rows []TCSVRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV file: %w", err)
	}
	return rows, nil
}

// ToTransaction converts a row. line is the 1-based data line used in errors
// and, when the row has no id, to derive a stable one.
func (r TransactionRow) ToTransaction(filePath string, line int) (models.Transaction, error) {
	fail := func(field string, err error) (models.Transaction, error) {
		return models.Transaction{}, &reporterror.LoadError{FilePath: filePath, Line: line, Field: field, Err: err}
	}

	tx := models.Transaction{
		ID:              strings.TrimSpace(r.ID),
		Kind:            models.Kind(strings.ToLower(strings.TrimSpace(r.Kind))),
		Description:     strings.TrimSpace(r.Description),
		Notes:           strings.TrimSpace(r.Notes),
		Status:          models.Status(strings.ToLower(strings.TrimSpace(r.Status))),
		CategoryID:      strings.TrimSpace(r.CategoryID),
		BankAccountID:   strings.TrimSpace(r.BankAccountID),
		PaymentMethodID: strings.TrimSpace(r.PaymentMethodID),
		Tags:            splitTags(r.Tags),
		Recurrence: models.Recurrence{
			Frequency: models.Frequency(strings.ToLower(strings.TrimSpace(r.Frequency))),
		},
	}
	if tx.Status == "" {
		tx.Status = models.StatusConfirmed
	}
	if tx.Recurrence.Frequency == "" {
		tx.Recurrence.Frequency = models.FrequencyNone
	}

	amount, err := models.ParseAmount(r.Amount)
	if err != nil {
		return fail("amount", err)
	}
	tx.Amount = amount

	if tx.DueDate, _, err = dateutils.ParseDate(r.DueDate); err != nil {
		return fail("due_date", err)
	}
	if tx.SettledDate, err = optionalDate(r.SettledDate); err != nil {
		return fail("settled_date", err)
	}
	if tx.Recurrence.Until, err = optionalDate(r.Until); err != nil {
		return fail("until", err)
	}
	if s := strings.TrimSpace(r.Interval); s != "" {
		if tx.Recurrence.Interval, err = strconv.Atoi(s); err != nil {
			return fail("interval", err)
		}
	}

	if tx.ID == "" {
		tx.ID = generatedID(line, r)
	}

	if err := validation.ValidateTransaction(tx); err != nil {
		var invalid *reporterror.InvalidTransactionError
		if errors.As(err, &invalid) {
			return fail(invalid.Field, err)
		}
		return fail("", err)
	}
	return tx, nil
}

func optionalDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, _, err := dateutils.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func splitTags(s string) []string {
	var tags []string
	for _, part := range strings.Split(s, TagSeparator) {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// generatedID is a name-based UUID over the row content, so reloading an
// unchanged file yields the same ids.
func generatedID(line int, r TransactionRow) string {
	name := strings.Join([]string{
		strconv.Itoa(line), r.Kind, r.Description, r.Notes, r.Amount, r.DueDate, r.CategoryID,
	}, "\x1f")
	return uuid.NewSHA1(transactionNamespace, []byte(name)).String()
}
