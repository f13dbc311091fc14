package main

import (
	"fmt"
	"os"

	"fjacquet/finstat/cmd/insights"
	"fjacquet/finstat/cmd/report"
	"fjacquet/finstat/cmd/root"
	"fjacquet/finstat/cmd/statement"
	"fjacquet/finstat/cmd/summary"
	"fjacquet/finstat/cmd/validate"
)

func init() {
	// Initialize root command flags before subcommands are attached
	root.Init()

	root.Cmd.AddCommand(summary.Cmd)
	root.Cmd.AddCommand(statement.Cmd)
	root.Cmd.AddCommand(insights.Cmd)
	root.Cmd.AddCommand(report.Cmd)
	root.Cmd.AddCommand(validate.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
