package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/iksnae/teampulse/internal"
	"github.com/spf13/cobra"
)

var reportOutput string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write the plain-text team report",
	Long: `Write the team report: average mood, total entries, the mood
distribution and the five most recent check-ins.

The report is written to teampulse-report-<date>.txt in the export
directory unless --output names a file. Use --output - for stdout.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}

		blob, err := app.Entries.Load()
		if err != nil {
			return fmt.Errorf("failed to load entries: %w", err)
		}

		now := time.Now()
		if reportOutput == "-" {
			return internal.WriteReport(cmd.OutOrStdout(), blob.Stats, blob.Entries, now)
		}

		path := reportOutput
		if path == "" {
			path = filepath.Join(app.Config.Export.Dir, internal.ReportFilename(now))
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		file, err := os.Create(path)
		if err != nil {
			return &internal.ExportError{Format: "txt", Path: path, Err: err}
		}
		if err := internal.WriteReport(file, blob.Stats, blob.Entries, now); err != nil {
			_ = file.Close()
			return &internal.ExportError{Format: "txt", Path: path, Err: err}
		}
		if err := file.Close(); err != nil {
			return &internal.ExportError{Format: "txt", Path: path, Err: err}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "Output file (- for stdout)")
}
