// Package insights implements the insights command.
package insights

import (
	"fjacquet/finstat/cmd/common"
	"fjacquet/finstat/cmd/root"
	"fjacquet/finstat/internal/engine"

	"github.com/spf13/cobra"
)

// Flags holds the filter flags of the command.
var Flags common.FilterFlags

// Cmd represents the insights command
var Cmd = &cobra.Command{
	Use:   "insights",
	Short: "Generate financial insights from filtered transactions",
	Long: `Generate rule-based financial insights (low margin, revenue growth, low
runway, profit trend) from the filtered transactions. Use --compare for revenue
growth and --funds for runway.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := common.Output{Path: root.SharedFlags.Output, Format: root.SharedFlags.Format}
		return common.Execute(cmd.Context(), root.AppContainer, Flags, out, Select, cmd.OutOrStdout())
	},
}

// Select picks the artifact printed by the command.
func Select(r *engine.Report) interface{} {
	return r.Insights
}

func init() {
	common.BindFilterFlags(Cmd, &Flags)
}
