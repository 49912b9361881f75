// Package cli wires the cobra command tree for the analyst API binary.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/ledgerworks/analyst-api/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	cfgPath     string
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "analyst-api",
	Short: "Financial document ingestion and retrieval service",
	Long: `analyst-api ingests per-company financial PDF documents, splits them
into searchable chunks and answers free-text questions with the most
relevant, cross-company-redacted context.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to TOML config file")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
