// Package cli provides the cobra command tree for the matn binary.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/matn/internal/core/ports/driven"
	"github.com/custodia-labs/matn/internal/core/ports/driving"
	"github.com/custodia-labs/matn/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	configDir string
	noConfig  bool
	verbose   bool
	quiet     bool
)

// Services used by the commands. Tests replace them with mocks; otherwise
// they are built on first use.
var (
	configStore     driven.ConfigStore
	settingsService driving.SettingsService
	promptStore     driven.PromptStore
	analysisService driving.AnalysisService
	exportService   driving.ExportService
)

var rootCmd = &cobra.Command{
	Use:   "matn",
	Short: "Spelling and grammar correction for documents",
	Long: `matn checks text and documents for spelling and grammar mistakes using a
language model, and shows the corrections as a word-level diff.

Run 'matn serve' for the web interface, 'matn check' for the command line,
or 'matn mcp serve' to expose the checker to AI assistants.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
		logger.SetQuiet(quiet)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.matn)")
	rootCmd.PersistentFlags().BoolVar(&noConfig, "no-config", false, "ignore the config file and read settings from the environment")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log errors")
	rootCmd.Version = version
}

// Execute runs the root command with the given context.
func Execute(ctx context.Context) error {
	rootCmd.Version = version
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version reported by the binary.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}
