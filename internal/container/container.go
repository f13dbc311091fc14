// Package container provides dependency injection for the finstat application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"

	"fjacquet/finstat/internal/aggregator"
	"fjacquet/finstat/internal/config"
	"fjacquet/finstat/internal/engine"
	"fjacquet/finstat/internal/insights"
	"fjacquet/finstat/internal/logging"
	"fjacquet/finstat/internal/models"
	"fjacquet/finstat/internal/report"
	"fjacquet/finstat/internal/statement"
	"fjacquet/finstat/internal/store"
)

// Container holds all application dependencies and provides methods to access them.
// It is immutable after creation.
type Container struct {
	logger    logging.Logger
	config    *config.Config
	provider  store.Provider
	generator *report.ReportGenerator
}

// Option overrides a dependency, mostly for tests.
type Option func(*Container)

// WithProvider replaces the file store.
func WithProvider(p store.Provider) Option {
	return func(c *Container) { c.provider = p }
}

// WithLogger replaces the logrus logger built from the configuration.
func WithLogger(l logging.Logger) Option {
	return func(c *Container) { c.logger = l }
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	c := &Container{config: cfg}
	for _, opt := range opts {
		opt(c)
	}

	// Create logger first as it's needed by other components
	if c.logger == nil {
		c.logger = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	}

	delimiter := cfg.DelimiterRune()

	if c.provider == nil {
		fileStore := store.NewFileStore(
			cfg.Data.TransactionsFile,
			cfg.Data.CategoriesFile,
			cfg.Data.ClassificationFile,
			c.logger,
		)
		fileStore.Delimiter = delimiter
		c.provider = fileStore
	}

	c.generator = report.NewReportGenerator(c.logger)
	c.generator.SetDelimiter(delimiter)

	c.logger.Debug("Container initialized successfully",
		logging.F("parallel", cfg.Engine.Parallel),
		logging.F("validate_input", cfg.Engine.ValidateInput))

	return c, nil
}

// NewCalculator builds a statement calculator from the configured rates.
// categories are only used when parent-role inheritance is enabled.
func (c *Container) NewCalculator(classification statement.ClassificationMap, categories []models.Category) (*statement.Calculator, error) {
	nonOpRevenue, nonOpExpense := c.config.NonOperating()
	opts := []statement.Option{
		statement.WithTaxRate(c.config.TaxRate()),
		statement.WithDeductionRate(c.config.DeductionRate()),
		statement.WithNonOperating(nonOpRevenue, nonOpExpense),
		statement.WithLogger(c.logger),
	}
	if c.config.Statement.InheritParentRoles {
		opts = append(opts, statement.WithParents(categories))
	}
	return statement.NewCalculator(classification, opts...)
}

// NewAggregator builds an aggregator from the configured options.
func (c *Container) NewAggregator() *aggregator.Aggregator {
	var opts []aggregator.Option
	if c.config.Aggregate.ExpenseBreakdown {
		opts = append(opts, aggregator.WithExpenseBreakdown())
	}
	if c.config.Aggregate.DenseTrend {
		opts = append(opts, aggregator.WithDenseTrend())
	}
	return aggregator.New(c.logger, opts...)
}

// NewInsightGenerator builds an insight generator from the configured options.
func (c *Container) NewInsightGenerator() *insights.Generator {
	opts := []insights.Option{insights.WithLogger(c.logger)}
	if c.config.Insights.SortBySeverity {
		opts = append(opts, insights.WithSeveritySort())
	}
	return insights.NewGenerator(opts...)
}

// NewEngine wires a pipeline for one classification map.
func (c *Container) NewEngine(classification statement.ClassificationMap, categories []models.Category) (*engine.Engine, error) {
	calc, err := c.NewCalculator(classification, categories)
	if err != nil {
		return nil, fmt.Errorf("failed to create statement calculator: %w", err)
	}
	return engine.New(c.logger, c.NewAggregator(), calc, c.NewInsightGenerator(),
		engine.WithParallel(c.config.Engine.Parallel),
		engine.WithInputValidation(c.config.Engine.ValidateInput)), nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetProvider returns the data provider.
func (c *Container) GetProvider() store.Provider {
	return c.provider
}

// GetReportGenerator returns the report renderer.
func (c *Container) GetReportGenerator() *report.ReportGenerator {
	return c.generator
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
