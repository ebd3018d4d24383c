package cmd

import (
	"fmt"
	"os"

	"github.com/iksnae/teampulse/internal"
	"github.com/spf13/cobra"
)

var (
	verbose     bool
	storagePath string
	configPath  string
	storeDriver string
	version     string = "dev"
	commit      string = "unknown"
	date        string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "teampulse",
	Short: "Track team mood check-ins and emotion detection sessions",
	Long: `TeamPulse keeps a local log of team mood check-ins and simulated
emotion detection sessions.

Features:
  • Record mood check-ins rated 1-5 per channel (video, audio, text)
  • Team statistics and a plain-text report
  • Detection sessions with per-tick emotion confidences
  • Filter sessions by source or dominant emotion
  • Export sessions as CSV, JSONL, JSON, YAML or Markdown

Emotion detection is simulated: scores come from random generators,
a fixed audio rule table and a keyword list, never from a model.

Quick Start:
  teampulse entry add --video 4 --text 5 --notes "good sprint"
  teampulse stats
  teampulse track --duration 10s
  teampulse session list
  teampulse session export all --format csv`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := internal.LoadDotEnv(""); err != nil {
			internal.LogWarn("%v", err)
		}
		internal.SetVerbose(verbose)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeApp()
		internal.SyncLogger()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		closeApp()
		if internal.IsValidationError(err) {
			internal.PrintWarning(err.Error())
		} else {
			internal.PrintError(fmt.Sprintf("Error: %v", err))
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&storagePath, "storage", "", "Custom storage location (SQLite file, or postgres connection string with --store postgres)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $HOME/.teampulse/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&storeDriver, "store", "", "Store driver: sqlite, memory or postgres (overrides config)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
