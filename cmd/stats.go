package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/teampulse/internal"
	"github.com/spf13/cobra"
)

var (
	statsJSON  bool
	statsTrend bool
)

var (
	statLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Width(16)

	statValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Bold(true)
)

type statsOutput struct {
	internal.TeamStats
	Trend []internal.DailyMood `json:"trend,omitempty"`
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show team mood statistics",
	Long: `Show the average mood and the happy/neutral/sad distribution over all
check-ins. Percentages are taken over every entry, so entries without
any rating lower all three buckets.`,
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

		out := statsOutput{TeamStats: blob.Stats}
		if statsTrend {
			out.Trend = internal.DailyMoodTrend(blob.Entries)
		}

		if statsJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}

		displayStats(cmd.OutOrStdout(), out)
		return nil
	},
}

func distributionBar(pct int, style lipgloss.Style) string {
	width := pct / 5
	if width < 0 {
		width = 0
	}
	return style.Render(strings.Repeat("█", width)) + fmt.Sprintf(" %d%%", pct)
}

func displayStats(w io.Writer, s statsOutput) {
	fmt.Fprintln(w, headerStyle.Render("Team Pulse"))
	fmt.Fprintln(w)

	row := func(label, value string) {
		fmt.Fprintln(w, statLabelStyle.Render(label)+statValueStyle.Render(value))
	}
	row("Average mood", fmt.Sprintf("%d", s.AvgMood))
	row("Total entries", fmt.Sprintf("%d", s.TotalEntries))
	updated := "never"
	if s.LastUpdated != nil {
		if t, err := internal.ParseTimestamp(*s.LastUpdated); err == nil {
			updated = t.Local().Format("2006-01-02 15:04:05")
		}
	}
	row("Last updated", updated)
	fmt.Fprintln(w)

	fmt.Fprintln(w, titleStyle.Render("Mood distribution"))
	fmt.Fprintln(w, statLabelStyle.Render("Happy")+distributionBar(s.MoodDistribution.Happy, happyStyle))
	fmt.Fprintln(w, statLabelStyle.Render("Neutral")+distributionBar(s.MoodDistribution.Neutral, neutralStyle))
	fmt.Fprintln(w, statLabelStyle.Render("Sad")+distributionBar(s.MoodDistribution.Sad, sadStyle))

	if len(s.Trend) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render("Daily trend"))
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(tw, "Day\tAverage\tEntries\t")
	for _, d := range s.Trend {
		_, _ = fmt.Fprintf(tw, "%s\t%.2f\t%d\t\n", dateStyle.Render(d.Day), d.Average, d.Count)
	}
	_ = tw.Flush()
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Print stats as JSON")
	statsCmd.Flags().BoolVar(&statsTrend, "trend", false, "Include the average mood per day")
}
