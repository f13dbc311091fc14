package root_test

import (
	"testing"

	"fjacquet/finstat/cmd/root"
	"fjacquet/finstat/internal/config"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	root.Init()
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "finstat", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "financial statements")
	assert.Contains(t, root.Cmd.Long, "income statement (DRE)")
	assert.NotNil(t, root.Cmd.Run)
	assert.NotNil(t, root.Cmd.PersistentPreRunE)
	assert.NotNil(t, root.Cmd.PersistentPostRun)
}

func TestRootCommand_Flags(t *testing.T) {
	tests := []struct {
		name      string
		shorthand string
	}{
		{"config", ""},
		{"transactions", "t"},
		{"categories", ""},
		{"classification", ""},
		{"output", "o"},
		{"format", "f"},
		{"log-level", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := root.Cmd.PersistentFlags().Lookup(tt.name)
			require.NotNil(t, flag)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
		})
	}
}

func TestRootCommand_Run(t *testing.T) {
	assert.NotPanics(t, func() {
		root.Cmd.Run(&cobra.Command{}, []string{})
	})
}

func TestApplyFlags(t *testing.T) {
	cfg := &config.Config{}
	cfg.Data.TransactionsFile = "transactions.csv"
	cfg.Output.Format = "json"

	err := root.ApplyFlags(cfg, root.CommonFlags{
		TransactionsFile:   "ledger.csv",
		ClassificationFile: "dre.yaml",
		Format:             "csv",
		LogLevel:           "debug",
	})
	require.NoError(t, err)

	assert.Equal(t, "ledger.csv", cfg.Data.TransactionsFile)
	assert.Equal(t, "dre.yaml", cfg.Data.ClassificationFile)
	assert.Empty(t, cfg.Data.CategoriesFile)
	assert.Equal(t, "csv", cfg.Output.Format)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestApplyFlags_InvalidFormat(t *testing.T) {
	cfg := &config.Config{}
	cfg.Output.Format = "json"

	err := root.ApplyFlags(cfg, root.CommonFlags{Format: "xml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
	assert.Equal(t, "json", cfg.Output.Format)
}

func TestPersistentPostRun_NilContainer(t *testing.T) {
	original := root.AppContainer
	defer func() { root.AppContainer = original }()

	root.AppContainer = nil
	assert.NotPanics(t, func() {
		root.Cmd.PersistentPostRun(&cobra.Command{}, nil)
	})
}
