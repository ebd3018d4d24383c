package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/teampulse/internal"
	"github.com/spf13/cobra"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that teampulse can open and read its store",
	Long: `Check the health of teampulse by verifying:
  • Data directory detection
  • Configuration loading
  • Store access
  • Mood entries and emotion log readability
  • Stored keys and their sizes

Use --verbose to print paths and counts.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, sectionStyle.Render("🔍 TeamPulse Health Check"))
		fmt.Fprintln(out)

		// Step 1: Data paths
		fmt.Fprintln(out, infoStyle.Render("Step 1: Detecting data directory..."))
		paths, cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Failed to load configuration:"), err)
			return err
		}
		fmt.Fprintln(out, successStyle.Render("✅ Data directory detected"))
		if verbose {
			fmt.Fprintf(out, "   Base directory: %s\n", paths.BaseDir)
			fmt.Fprintf(out, "   Export directory: %s\n", cfg.Export.Dir)
		}
		fmt.Fprintln(out)

		// Step 2: Configuration
		fmt.Fprintln(out, infoStyle.Render("Step 2: Checking configuration..."))
		if paths.ConfigExists() {
			fmt.Fprintln(out, successStyle.Render("✅ Configuration file found"))
		} else {
			fmt.Fprintln(out, warningStyle.Render("⚠️  No configuration file, using defaults"))
		}
		if verbose {
			fmt.Fprintf(out, "   Config: %s\n", paths.ConfigPath)
			fmt.Fprintf(out, "   Store driver: %s\n", cfg.Store.Driver)
			fmt.Fprintf(out, "   Tick interval: %s\n", cfg.TickInterval())
			fmt.Fprintf(out, "   Privacy mode: %s\n", onOff(cfg.Tracker.Privacy))
		}
		fmt.Fprintln(out)

		// Step 3: Store
		fmt.Fprintln(out, infoStyle.Render("Step 3: Opening store..."))
		if cfg.Store.Driver == "sqlite" && cfg.Store.DSN == paths.DatabasePath && !paths.DatabaseExists() {
			fmt.Fprintln(out, warningStyle.Render("⚠️  No database yet, a new one will be created"))
		}
		app, err := openApp()
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Failed to open store"))
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Error details:")
			fmt.Fprintln(out, err)
			return err
		}
		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ %s store opened", cfg.Store.Driver)))
		if verbose && cfg.Store.Driver != "memory" {
			fmt.Fprintf(out, "   DSN: %s\n", cfg.Store.DSN)
		}
		fmt.Fprintln(out)

		// Step 4: Mood entries
		fmt.Fprintln(out, infoStyle.Render("Step 4: Reading mood entries..."))
		blob, err := app.Entries.Load()
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Mood entries are unreadable:"), err)
			return err
		}
		if len(blob.Entries) == 0 {
			fmt.Fprintln(out, warningStyle.Render("⚠️  No mood entries yet"))
		} else {
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Found %d mood entr%s", len(blob.Entries), pluralY(len(blob.Entries)))))
			if verbose {
				fmt.Fprintf(out, "   Average mood: %d\n", blob.Stats.AvgMood)
			}
		}
		fmt.Fprintln(out)

		// Step 5: Emotion log
		fmt.Fprintln(out, infoStyle.Render("Step 5: Reading emotion log..."))
		records, err := app.Log.Records()
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Emotion log is unreadable:"), err)
			return err
		}
		if len(records) == 0 {
			fmt.Fprintln(out, warningStyle.Render("⚠️  No emotion records yet"))
		} else {
			sessions := internal.GroupBySession(records)
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Found %d record(s) in %d session(s)", len(records), len(sessions))))
			if verbose {
				internal.SortSessionsRecentFirst(sessions)
				for i, s := range sessions {
					if i == 5 {
						fmt.Fprintf(out, "   ... and %d more\n", len(sessions)-5)
						break
					}
					fmt.Fprintf(out, "   [%d] %s (%d records)\n", i+1, s.ID, len(s.Records))
				}
			}
		}
		fmt.Fprintln(out)

		// Step 6: Stored keys
		fmt.Fprintln(out, infoStyle.Render("Step 6: Listing stored keys..."))
		pairs, err := app.KV.List("")
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Failed to list stored keys:"), err)
			return err
		}
		total := 0
		for _, p := range pairs {
			total += len(p.Value)
		}
		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Found %d stored key(s), %d bytes", len(pairs), total)))
		if verbose {
			for _, p := range pairs {
				fmt.Fprintf(out, "   %s: %d bytes\n", p.Key, len(p.Value))
			}
		}
		fmt.Fprintln(out)

		fmt.Fprintln(out, successStyle.Render("✅ Health check passed"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
}
