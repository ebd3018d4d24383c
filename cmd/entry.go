package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/teampulse/internal"
	"github.com/spf13/cobra"
)

var (
	entryVideo  int
	entryAudio  int
	entryText   int
	entryNotes  string
	entryPeriod string
	entryDate   string
	entryMood   int
	entryJSON   bool
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	happyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	neutralStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	sadStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Record and review mood check-ins",
}

var entryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a mood check-in",
	Long: `Record a mood check-in. Each channel is rated 1 (low) to 5 (high) and
may be left out; the entry's mood is the rounded mean of the given ratings.`,
	Example: `  teampulse entry add --video 4 --audio 3 --notes "standup went well"
  teampulse entry add --text 2`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ratings := internal.ModalityRatings{}
		if cmd.Flags().Changed("video") {
			ratings.Video = internal.IntPtr(entryVideo)
		}
		if cmd.Flags().Changed("audio") {
			ratings.Audio = internal.IntPtr(entryAudio)
		}
		if cmd.Flags().Changed("text") {
			ratings.Text = internal.IntPtr(entryText)
		}

		app, err := openApp()
		if err != nil {
			return err
		}

		entry, err := app.Entries.Append(ratings, entryNotes)
		if err != nil {
			if internal.IsValidationError(err) {
				return err
			}
			return fmt.Errorf("failed to save entry: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Saved entry %d: mood %s (%s)\n", entry.ID, internal.FormatMood(entry.Mood), internal.MoodLabel(entry.Mood))
		return nil
	},
}

var entryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List mood check-ins",
	Long: `List mood check-ins grouped by day.

--period narrows to today, the last week or the last month. --date and
--mood match entries exactly.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}

		var filter internal.EntryFilter
		if entryDate != "" {
			day, err := time.ParseInLocation("2006-01-02", entryDate, time.Local)
			if err != nil {
				return &internal.ValidationError{Field: "date", Message: fmt.Sprintf("expected YYYY-MM-DD, got %q", entryDate)}
			}
			filter.Date = &day
		}
		if cmd.Flags().Changed("mood") {
			filter.Mood = internal.IntPtr(entryMood)
		}

		entries, err := app.Entries.ListPeriod(entryPeriod, filter, time.Now())
		if err != nil {
			return err
		}

		if entryJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		}

		displayEntries(cmd.OutOrStdout(), entries)
		return nil
	},
}

var entryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a mood check-in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return &internal.ValidationError{Field: "id", Message: fmt.Sprintf("invalid entry id %q", args[0])}
		}

		app, err := openApp()
		if err != nil {
			return err
		}
		if err := app.Entries.Delete(id); err != nil {
			return fmt.Errorf("failed to delete entry: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Deleted entry %d\n", id)
		return nil
	},
}

func moodStyle(mood *int) lipgloss.Style {
	switch internal.MoodLabel(mood) {
	case "Happy":
		return happyStyle
	case "Neutral":
		return neutralStyle
	case "Sad":
		return sadStyle
	default:
		return dateStyle
	}
}

func formatRating(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func displayEntries(out io.Writer, entries []internal.MoodEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, headerStyle.Render("No entries found"))
		return
	}

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("Found %d entr%s", len(entries), pluralY(len(entries)))))

	var day string
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	for _, entry := range entries {
		created := entry.GetCreatedAt().Local()
		if d := created.Format("January 2, 2006"); d != day {
			if day != "" {
				_ = w.Flush()
			}
			day = d
			fmt.Fprintln(out)
			fmt.Fprintln(out, titleStyle.Render(day))
			_, _ = fmt.Fprintln(w, "Time\tMood\tVideo\tAudio\tText\tNotes\tID\t")
			_, _ = fmt.Fprintln(w, strings.Repeat("─", 8)+"\t"+strings.Repeat("─", 14)+"\t─────\t─────\t────\t"+strings.Repeat("─", 20)+"\t"+strings.Repeat("─", 13)+"\t")
		}

		notes := entry.Notes
		if r := []rune(notes); len(r) > 40 {
			notes = string(r[:37]) + "..."
		}
		mood := moodStyle(entry.Mood).Render(fmt.Sprintf("%s %s", internal.FormatMood(entry.Mood), internal.MoodLabel(entry.Mood)))

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			dateStyle.Render(created.Format("15:04")),
			mood,
			formatRating(entry.VideoMood),
			formatRating(entry.AudioMood),
			formatRating(entry.TextMood),
			notes,
			idStyle.Render(strconv.FormatInt(entry.ID, 10)),
		)
	}
	_ = w.Flush()
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

func init() {
	rootCmd.AddCommand(entryCmd)
	entryCmd.AddCommand(entryAddCmd, entryListCmd, entryDeleteCmd)

	entryAddCmd.Flags().IntVar(&entryVideo, "video", 0, "Video mood rating (1-5)")
	entryAddCmd.Flags().IntVar(&entryAudio, "audio", 0, "Audio mood rating (1-5)")
	entryAddCmd.Flags().IntVar(&entryText, "text", 0, "Text mood rating (1-5)")
	entryAddCmd.Flags().StringVarP(&entryNotes, "notes", "n", "", "Free-text notes")

	entryListCmd.Flags().StringVarP(&entryPeriod, "period", "p", internal.PeriodAll, "Period: all, today, week, month")
	entryListCmd.Flags().StringVar(&entryDate, "date", "", "Only entries from this day (YYYY-MM-DD)")
	entryListCmd.Flags().IntVar(&entryMood, "mood", 0, "Only entries with this mood")
	entryListCmd.Flags().BoolVar(&entryJSON, "json", false, "Print entries as JSON")
}
