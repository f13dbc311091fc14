// Package statement implements the statement command.
package statement

import (
	"fjacquet/finstat/cmd/common"
	"fjacquet/finstat/cmd/root"
	"fjacquet/finstat/internal/engine"

	"github.com/spf13/cobra"
)

// Flags holds the filter flags of the command.
var Flags common.FilterFlags

// Cmd represents the statement command
var Cmd = &cobra.Command{
	Use:   "statement",
	Short: "Compute the income statement (DRE) of filtered transactions",
	Long: `Compute the income statement (DRE) waterfall of the filtered transactions,
from gross revenue down to net profit, with margins and a reconciliation of
expenses that have no statement line.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := common.Output{Path: root.SharedFlags.Output, Format: root.SharedFlags.Format}
		return common.Execute(cmd.Context(), root.AppContainer, Flags, out, Select, cmd.OutOrStdout())
	},
}

// Select picks the artifact printed by the command.
func Select(r *engine.Report) interface{} {
	return r.Statement
}

func init() {
	common.BindFilterFlags(Cmd, &Flags)
}
