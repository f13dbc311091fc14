// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"fjacquet/finstat/internal/container"
	"fjacquet/finstat/internal/dateutils"
	"fjacquet/finstat/internal/engine"
	"fjacquet/finstat/internal/filter"
	"fjacquet/finstat/internal/logging"
	"fjacquet/finstat/internal/models"
	"fjacquet/finstat/internal/report"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// FilterFlags are the filter options shared by every reporting command.
type FilterFlags struct {
	From           string
	To             string
	Categories     []string
	BankAccounts   []string
	PaymentMethods []string
	Statuses       []string
	Tags           []string
	Search         string
	MinAmount      string
	MaxAmount      string
	Recurrent      string
	Compare        bool
	Funds          string
}

// Output tells where and how an artifact is written.
type Output struct {
	Path   string
	Format string
}

// Selector picks the artifact a command prints from a full report.
type Selector func(*engine.Report) interface{}

// BindFilterFlags registers the filter flags on cmd.
func BindFilterFlags(cmd *cobra.Command, f *FilterFlags) {
	flags := cmd.Flags()
	flags.StringVar(&f.From, "from", "", "First due date to include")
	flags.StringVar(&f.To, "to", "", "Last due date to include")
	flags.StringSliceVar(&f.Categories, "category", nil, "Category IDs to include")
	flags.StringSliceVar(&f.BankAccounts, "bank-account", nil, "Bank account IDs to include")
	flags.StringSliceVar(&f.PaymentMethods, "payment-method", nil, "Payment method IDs to include")
	flags.StringSliceVar(&f.Statuses, "status", nil, "Statuses to include (confirmed, pending, overdue, cancelled)")
	flags.StringSliceVar(&f.Tags, "tag", nil, "Tags to match (any of)")
	flags.StringVarP(&f.Search, "search", "s", "", "Case-insensitive text search in description and notes")
	flags.StringVar(&f.MinAmount, "min-amount", "", "Minimum amount")
	flags.StringVar(&f.MaxAmount, "max-amount", "", "Maximum amount")
	flags.StringVar(&f.Recurrent, "recurrent", "", "Only recurrent (true) or one-off (false) transactions")
	flags.BoolVar(&f.Compare, "compare", false, "Compare with the previous period of equal length (needs --from and --to)")
	flags.StringVar(&f.Funds, "funds", "", "Available funds for the runway KPI")
}

// Criteria converts the flags into filter criteria.
func (f FilterFlags) Criteria() (filter.Criteria, error) {
	var c filter.Criteria
	var err error

	if c.DateRange.Start, err = parseOptionalDate("from", f.From); err != nil {
		return filter.Criteria{}, err
	}
	if c.DateRange.End, err = parseOptionalDate("to", f.To); err != nil {
		return filter.Criteria{}, err
	}
	if c.AmountRange.Min, err = parseOptionalAmount("min-amount", f.MinAmount); err != nil {
		return filter.Criteria{}, err
	}
	if c.AmountRange.Max, err = parseOptionalAmount("max-amount", f.MaxAmount); err != nil {
		return filter.Criteria{}, err
	}

	for _, s := range f.Statuses {
		status := models.Status(strings.ToLower(strings.TrimSpace(s)))
		if !status.IsValid() {
			return filter.Criteria{}, fmt.Errorf("invalid --status %q", s)
		}
		c.Statuses = append(c.Statuses, status)
	}

	if f.Recurrent != "" {
		recurrent, err := strconv.ParseBool(f.Recurrent)
		if err != nil {
			return filter.Criteria{}, fmt.Errorf("invalid --recurrent %q: %w", f.Recurrent, err)
		}
		c.IsRecurrent = &recurrent
	}

	c.CategoryIDs = f.Categories
	c.BankAccountIDs = f.BankAccounts
	c.PaymentMethodIDs = f.PaymentMethods
	c.Tags = f.Tags
	c.SearchTerm = f.Search

	return c, c.Validate()
}

// PreviousCriteria returns the comparison criteria for --compare: the same
// criteria shifted to the period of equal length ending the day before From.
func (f FilterFlags) PreviousCriteria(current filter.Criteria) (*filter.Criteria, error) {
	if !f.Compare {
		return nil, nil
	}
	dr := current.DateRange
	if dr.Start.IsZero() || dr.End.IsZero() {
		return nil, fmt.Errorf("--compare needs both --from and --to")
	}
	previous := current
	previous.DateRange.Start, previous.DateRange.End = dateutils.ShiftPeriod(dr.Start, dr.End)
	return &previous, nil
}

// AvailableFunds returns the --funds value, or fallback when the flag is unset.
func (f FilterFlags) AvailableFunds(fallback decimal.NullDecimal) (decimal.NullDecimal, error) {
	if f.Funds == "" {
		return fallback, nil
	}
	funds, err := models.ParseAmount(f.Funds)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("invalid --funds: %w", err)
	}
	return decimal.NewNullDecimal(funds), nil
}

// BuildReport loads the data through the container's provider and runs the
// reporting pipeline with the given filter flags.
func BuildReport(ctx context.Context, c *container.Container, f FilterFlags) (*engine.Report, error) {
	if c == nil {
		return nil, fmt.Errorf("container not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	criteria, err := f.Criteria()
	if err != nil {
		return nil, err
	}
	previous, err := f.PreviousCriteria(criteria)
	if err != nil {
		return nil, err
	}
	funds, err := f.AvailableFunds(c.GetConfig().AvailableFunds())
	if err != nil {
		return nil, err
	}

	snapshot, err := c.GetProvider().LoadSnapshot()
	if err != nil {
		return nil, fmt.Errorf("error loading data: %w", err)
	}
	classification, err := c.GetProvider().LoadClassification()
	if err != nil {
		return nil, fmt.Errorf("error loading classification: %w", err)
	}

	e, err := c.NewEngine(classification, snapshot.Categories)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, engine.Request{
		Snapshot:         snapshot,
		Criteria:         criteria,
		PreviousCriteria: previous,
		AvailableFunds:   funds,
	})
}

// Execute builds a report, selects an artifact and writes it to out.Path, or
// to stdout when no path is given.
func Execute(ctx context.Context, c *container.Container, f FilterFlags, out Output, pick Selector, stdout io.Writer) error {
	r, err := BuildReport(ctx, c, f)
	if err != nil {
		return err
	}

	format := out.Format
	if format == "" {
		format = c.GetConfig().Output.Format
	}
	if format == "" {
		format = report.FormatJSON
	}

	gen := c.GetReportGenerator()
	artifact := pick(r)
	if out.Path != "" {
		return gen.WriteFile(out.Path, artifact, format)
	}
	if err := gen.Render(stdout, artifact, format); err != nil {
		return err
	}
	c.GetLogger().Debug("Report rendered to stdout", logging.F(logging.FieldFormat, format))
	return nil
}

func parseOptionalDate(flag, value string) (t time.Time, err error) {
	if value == "" {
		return t, nil
	}
	if t, _, err = dateutils.ParseDate(value); err != nil {
		return t, fmt.Errorf("invalid --%s: %w", flag, err)
	}
	return t, nil
}

func parseOptionalAmount(flag, value string) (*decimal.Decimal, error) {
	if value == "" {
		return nil, nil
	}
	amount, err := models.ParseAmount(value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", flag, err)
	}
	return &amount, nil
}
