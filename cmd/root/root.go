// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/finstat/internal/config"
	"fjacquet/finstat/internal/container"
	"fjacquet/finstat/internal/logging"
	"fjacquet/finstat/internal/validation"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	ConfigFile         string
	TransactionsFile   string
	CategoriesFile     string
	ClassificationFile string
	Output             string
	Format             string
	LogLevel           string
}

var (
	// Log is the shared logger instance for commands
	Log = logging.NewLogrusAdapter("info", "text")

	// AppConfig is the configuration loaded before any subcommand runs
	AppConfig *config.Config

	// AppContainer holds the wired dependencies for subcommands
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "finstat",
		Short: "A CLI tool to aggregate transactions into financial statements and insights.",
		Long: `finstat is a CLI tool that turns a ledger of revenue and expense transactions
into category breakdowns, monthly trends, an income statement (DRE) and
rule-based financial insights.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to finstat!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return Initialize()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer == nil {
				return
			}
			if err := AppContainer.Close(); err != nil {
				Log.WithError(err).Warn("Failed to close container")
			}
		},
	}

	// SharedFlags are accessible to all commands
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and all flags
func Init() {
	flags := Cmd.PersistentFlags()
	flags.StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default is $HOME/.finstat/config.yaml)")
	flags.StringVarP(&SharedFlags.TransactionsFile, "transactions", "t", "", "Transactions CSV file")
	flags.StringVar(&SharedFlags.CategoriesFile, "categories", "", "Categories YAML file")
	flags.StringVar(&SharedFlags.ClassificationFile, "classification", "", "Statement classification YAML file")
	flags.StringVarP(&SharedFlags.Output, "output", "o", "", "Output file (default is stdout)")
	flags.StringVarP(&SharedFlags.Format, "format", "f", "", "Output format: json, yaml or csv")
	flags.StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
}

// Initialize loads the environment and configuration, applies flag overrides
// and builds the application container.
func Initialize() error {
	config.LoadEnv(Log)

	cfg, err := config.InitializeConfig(SharedFlags.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := ApplyFlags(cfg, SharedFlags); err != nil {
		return err
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}

	AppConfig = cfg
	AppContainer = c
	Log = c.GetLogger()
	return nil
}

// ApplyFlags overrides configuration values with explicitly set flags.
func ApplyFlags(cfg *config.Config, flags CommonFlags) error {
	if flags.TransactionsFile != "" {
		cfg.Data.TransactionsFile = flags.TransactionsFile
	}
	if flags.CategoriesFile != "" {
		cfg.Data.CategoriesFile = flags.CategoriesFile
	}
	if flags.ClassificationFile != "" {
		cfg.Data.ClassificationFile = flags.ClassificationFile
	}
	if flags.LogLevel != "" {
		cfg.Log.Level = flags.LogLevel
	}
	if flags.Format != "" {
		if err := validation.IsValidOutputFormat(flags.Format); err != nil {
			return err
		}
		cfg.Output.Format = flags.Format
	}
	return nil
}
