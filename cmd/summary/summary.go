// Package summary implements the summary command.
package summary

import (
	"fjacquet/finstat/cmd/common"
	"fjacquet/finstat/cmd/root"
	"fjacquet/finstat/internal/engine"

	"github.com/spf13/cobra"
)

// Flags holds the filter flags of the command.
var Flags common.FilterFlags

// Cmd represents the summary command
var Cmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize filtered transactions by totals, category and month",
	Long: `Summarize the filtered transactions: revenue and expense totals, status
buckets, per-category breakdown with percentages and the monthly trend.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := common.Output{Path: root.SharedFlags.Output, Format: root.SharedFlags.Format}
		return common.Execute(cmd.Context(), root.AppContainer, Flags, out, Select, cmd.OutOrStdout())
	},
}

// Select picks the artifact printed by the command.
func Select(r *engine.Report) interface{} {
	return r.Aggregate
}

func init() {
	common.BindFilterFlags(Cmd, &Flags)
}
