// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"fjacquet/finstat/internal/statement"
	"fjacquet/finstat/internal/validation"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. FINSTAT_LOG_LEVEL.
const EnvPrefix = "FINSTAT"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Data struct {
		TransactionsFile   string `mapstructure:"transactions_file" yaml:"transactions_file"`
		CategoriesFile     string `mapstructure:"categories_file" yaml:"categories_file"`
		ClassificationFile string `mapstructure:"classification_file" yaml:"classification_file"`
	} `mapstructure:"data" yaml:"data"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	// Monetary settings are kept as strings so they reach decimal.Decimal
	// without a float round-trip.
	Statement struct {
		TaxRate             string `mapstructure:"tax_rate" yaml:"tax_rate"`
		DeductionRate       string `mapstructure:"deduction_rate" yaml:"deduction_rate"`
		NonOperatingRevenue string `mapstructure:"non_operating_revenue" yaml:"non_operating_revenue"`
		NonOperatingExpense string `mapstructure:"non_operating_expense" yaml:"non_operating_expense"`
		InheritParentRoles  bool   `mapstructure:"inherit_parent_roles" yaml:"inherit_parent_roles"`
	} `mapstructure:"statement" yaml:"statement"`

	Aggregate struct {
		DenseTrend       bool `mapstructure:"dense_trend" yaml:"dense_trend"`
		ExpenseBreakdown bool `mapstructure:"expense_breakdown" yaml:"expense_breakdown"`
	} `mapstructure:"aggregate" yaml:"aggregate"`

	Insights struct {
		SortBySeverity bool   `mapstructure:"sort_by_severity" yaml:"sort_by_severity"`
		AvailableFunds string `mapstructure:"available_funds" yaml:"available_funds"`
	} `mapstructure:"insights" yaml:"insights"`

	Engine struct {
		ValidateInput bool `mapstructure:"validate_input" yaml:"validate_input"`
		Parallel      bool `mapstructure:"parallel" yaml:"parallel"`
	} `mapstructure:"engine" yaml:"engine"`

	Output struct {
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"output" yaml:"output"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading.
// configFile, when set, replaces the search of the standard locations and
// must exist.
func InitializeConfig(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.finstat")
		v.AddConfigPath(".finstat")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless given explicitly)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("data.transactions_file", "transactions.csv")
	v.SetDefault("data.categories_file", "categories.yaml")
	v.SetDefault("data.classification_file", "classification.yaml")

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("statement.tax_rate", "0.25")
	v.SetDefault("statement.deduction_rate", "0.08")
	v.SetDefault("statement.non_operating_revenue", "0")
	v.SetDefault("statement.non_operating_expense", "0")
	v.SetDefault("statement.inherit_parent_roles", false)

	v.SetDefault("aggregate.dense_trend", false)
	v.SetDefault("aggregate.expense_breakdown", true)

	v.SetDefault("insights.sort_by_severity", false)
	v.SetDefault("insights.available_funds", "")

	v.SetDefault("engine.validate_input", false)
	v.SetDefault("engine.parallel", true)

	v.SetDefault("output.format", "json")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len([]rune(config.CSV.Delimiter)) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	rates := []struct{ key, value string }{
		{"statement.tax_rate", config.Statement.TaxRate},
		{"statement.deduction_rate", config.Statement.DeductionRate},
	}
	for _, r := range rates {
		rate, err := decimal.NewFromString(r.value)
		if err != nil {
			return fmt.Errorf("%s must be a decimal, got: %s", r.key, r.value)
		}
		if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("%s must be between 0 and 1, got: %s", r.key, r.value)
		}
	}

	amounts := []struct{ key, value string }{
		{"statement.non_operating_revenue", config.Statement.NonOperatingRevenue},
		{"statement.non_operating_expense", config.Statement.NonOperatingExpense},
	}
	for _, a := range amounts {
		amount, err := decimal.NewFromString(a.value)
		if err != nil || amount.IsNegative() {
			return fmt.Errorf("%s must be a non-negative decimal, got: %s", a.key, a.value)
		}
	}

	if config.Insights.AvailableFunds != "" {
		if _, err := decimal.NewFromString(config.Insights.AvailableFunds); err != nil {
			return fmt.Errorf("insights.available_funds must be a decimal, got: %s", config.Insights.AvailableFunds)
		}
	}

	if err := validation.IsValidOutputFormat(config.Output.Format); err != nil {
		return err
	}

	return nil
}

// DelimiterRune returns the configured CSV delimiter, ',' when unset.
func (c *Config) DelimiterRune() rune {
	if c.CSV.Delimiter == "" {
		return ','
	}
	return []rune(c.CSV.Delimiter)[0]
}

// TaxRate returns the validated tax rate.
func (c *Config) TaxRate() decimal.Decimal {
	return decimalOr(c.Statement.TaxRate, statement.DefaultTaxRate)
}

// DeductionRate returns the validated deduction rate.
func (c *Config) DeductionRate() decimal.Decimal {
	return decimalOr(c.Statement.DeductionRate, statement.DefaultDeductionRate)
}

// NonOperating returns the validated non-operating revenue and expense.
func (c *Config) NonOperating() (decimal.Decimal, decimal.Decimal) {
	return decimalOr(c.Statement.NonOperatingRevenue, decimal.Zero),
		decimalOr(c.Statement.NonOperatingExpense, decimal.Zero)
}

// AvailableFunds returns the configured funds, invalid when unset.
func (c *Config) AvailableFunds() decimal.NullDecimal {
	if c.Insights.AvailableFunds == "" {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimalOr(c.Insights.AvailableFunds, decimal.Zero))
}

// decimalOr parses s, falling back for empty or malformed values. Loaded
// configurations are validated, so the fallback only applies to hand-built ones.
func decimalOr(s string, fallback decimal.Decimal) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return d
}
