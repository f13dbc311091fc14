// Package validate implements the validate command.
package validate

import (
	"fmt"

	"fjacquet/finstat/cmd/root"
	"fjacquet/finstat/internal/container"
	"fjacquet/finstat/internal/logging"
	"fjacquet/finstat/internal/validation"

	"github.com/spf13/cobra"
)

// Cmd represents the validate command
var Cmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate transactions, categories and the statement classification",
	Long: `Validate the configured data files: every transaction must be well formed
with a unique ID, every category must have a known type and an existing parent,
and the statement classification must only use known line roles.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(root.AppContainer)
	},
}

// Run loads and validates the data behind the container's provider.
func Run(c *container.Container) error {
	if c == nil {
		return fmt.Errorf("container not initialized")
	}
	log := c.GetLogger()

	snapshot, err := c.GetProvider().LoadSnapshot()
	if err != nil {
		return fmt.Errorf("error loading data: %w", err)
	}
	if err := validation.ValidateSnapshot(snapshot); err != nil {
		return fmt.Errorf("invalid data: %w", err)
	}
	classification, err := c.GetProvider().LoadClassification()
	if err != nil {
		return fmt.Errorf("error loading classification: %w", err)
	}
	if err := classification.Validate(); err != nil {
		return fmt.Errorf("invalid classification: %w", err)
	}

	log.Info("Validation successful.",
		logging.F("transactions", len(snapshot.Transactions)),
		logging.F("categories", len(snapshot.Categories)),
		logging.F("classified_categories", len(classification.Categories)),
		logging.F("classified_tags", len(classification.Tags)))
	return nil
}
