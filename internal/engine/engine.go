// Package engine runs the reporting pipeline over one snapshot: filter, then
// aggregate and compute the statement, then derive KPIs and insights.
package engine

import (
	"context"
	"fmt"
	"time"

	"fjacquet/finstat/internal/aggregator"
	"fjacquet/finstat/internal/filter"
	"fjacquet/finstat/internal/insights"
	"fjacquet/finstat/internal/logging"
	"fjacquet/finstat/internal/models"
	"fjacquet/finstat/internal/statement"
	"fjacquet/finstat/internal/validation"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Request describes one run.
type Request struct {
	Snapshot models.Snapshot
	Criteria filter.Criteria

	// PreviousCriteria selects the comparison period for revenue change.
	PreviousCriteria *filter.Criteria

	// AvailableFunds enables the runway KPI when valid.
	AvailableFunds decimal.NullDecimal
}

// Report holds every artifact of a run.
type Report struct {
	Aggregate aggregator.Result  `json:"aggregate" yaml:"aggregate"`
	Previous  *aggregator.Result `json:"previous,omitempty" yaml:"previous,omitempty"`
	Statement statement.Result   `json:"statement" yaml:"statement"`
	KPIs      insights.KPIs      `json:"kpis" yaml:"kpis"`
	Insights  []insights.Insight `json:"insights" yaml:"insights"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithInputValidation runs validation.ValidateSnapshot before every run.
func WithInputValidation(enabled bool) Option {
	return func(e *Engine) { e.validateInput = enabled }
}

// WithParallel makes Run compute independent stages concurrently.
func WithParallel(enabled bool) Option {
	return func(e *Engine) { e.parallel = enabled }
}

// Engine wires the stage components together. It holds no per-run state.
type Engine struct {
	logger        logging.Logger
	aggregator    *aggregator.Aggregator
	calculator    *statement.Calculator
	generator     *insights.Generator
	validateInput bool
	parallel      bool
}

// New creates an Engine. The stage components are required.
func New(logger logging.Logger, agg *aggregator.Aggregator, calc *statement.Calculator, gen *insights.Generator, opts ...Option) *Engine {
	e := &Engine{
		logger:     logging.Component(logger, "engine"),
		aggregator: agg,
		calculator: calc,
		generator:  gen,
		parallel:   true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes the pipeline, in parallel unless disabled with WithParallel.
func (e *Engine) Run(ctx context.Context, req Request) (*Report, error) {
	if e.parallel {
		return e.RunParallel(ctx, req)
	}
	return e.RunSequential(ctx, req)
}

// RunSequential executes every stage on the calling goroutine.
func (e *Engine) RunSequential(ctx context.Context, req Request) (*Report, error) {
	return e.run(ctx, req, func(ctx context.Context, tasks ...func() error) error {
		for _, task := range tasks {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := task(); err != nil {
				return err
			}
		}
		return nil
	})
}

// RunParallel computes the current aggregate, the previous aggregate and the
// statement concurrently. The stages share only the read-only snapshot, so
// the result equals RunSequential's.
func (e *Engine) RunParallel(ctx context.Context, req Request) (*Report, error) {
	return e.run(ctx, req, func(ctx context.Context, tasks ...func() error) error {
		g, gctx := errgroup.WithContext(ctx)
		for _, task := range tasks {
			task := task
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				return task()
			})
		}
		return g.Wait()
	})
}

type executor func(ctx context.Context, tasks ...func() error) error

func (e *Engine) run(ctx context.Context, req Request, exec executor) (*Report, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.Criteria.Validate(); err != nil {
		return nil, fmt.Errorf("invalid filter criteria: %w", err)
	}
	if req.PreviousCriteria != nil {
		if err := req.PreviousCriteria.Validate(); err != nil {
			return nil, fmt.Errorf("invalid comparison criteria: %w", err)
		}
	}
	if e.validateInput {
		if err := validation.ValidateSnapshot(req.Snapshot); err != nil {
			return nil, fmt.Errorf("snapshot rejected: %w", err)
		}
	}

	filtered := filter.Apply(req.Snapshot.Transactions, req.Criteria)
	e.logger.Debug("Filtered transactions",
		logging.F(logging.FieldCount, len(req.Snapshot.Transactions)),
		logging.F(logging.FieldMatched, len(filtered)))

	report := &Report{}
	tasks := []func() error{
		func() error {
			report.Aggregate = e.aggregator.Aggregate(filtered, req.Snapshot.Categories)
			return nil
		},
		func() error {
			report.Statement = e.calculator.Compute(filtered)
			return nil
		},
	}
	if req.PreviousCriteria != nil {
		tasks = append(tasks, func() error {
			previous := e.aggregator.Aggregate(filter.Apply(req.Snapshot.Transactions, *req.PreviousCriteria), req.Snapshot.Categories)
			report.Previous = &previous
			return nil
		})
	}
	if err := exec(ctx, tasks...); err != nil {
		return nil, err
	}

	report.KPIs = insights.DeriveKPIs(report.Aggregate, report.Statement, report.Previous, req.AvailableFunds)
	report.Insights = e.generator.Generate(report.KPIs)

	e.logger.Info("Report computed",
		logging.F(logging.FieldMatched, len(filtered)),
		logging.F("insights", len(report.Insights)),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	return report, nil
}
