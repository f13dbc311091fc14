// Package report implements the report command.
package report

import (
	"fjacquet/finstat/cmd/common"
	"fjacquet/finstat/cmd/root"
	"fjacquet/finstat/internal/engine"

	"github.com/spf13/cobra"
)

// Flags holds the filter flags of the command.
var Flags common.FilterFlags

// Cmd represents the report command
var Cmd = &cobra.Command{
	Use:   "report",
	Short: "Run the full reporting pipeline",
	Long: `Run the full reporting pipeline and print every artifact: the aggregate,
the optional comparison aggregate, the income statement (DRE), the KPIs and
the insights.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := common.Output{Path: root.SharedFlags.Output, Format: root.SharedFlags.Format}
		return common.Execute(cmd.Context(), root.AppContainer, Flags, out, Select, cmd.OutOrStdout())
	},
}

// Select picks the artifact printed by the command.
func Select(r *engine.Report) interface{} {
	return r
}

func init() {
	common.BindFilterFlags(Cmd, &Flags)
}
