package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/teampulse/internal"
	"github.com/iksnae/teampulse/internal/export"
	"github.com/spf13/cobra"
)

var (
	sessionFilterID      string
	sessionFilterSource  string
	sessionFilterEmotion string
	sessionShowRaw       bool
	sessionFormat        string
	sessionOutputDir     string
	sessionClearYes      bool
)

var (
	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	sourceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Italic(true)
)

var sessionCmd = &cobra.Command{
	Use:     "session",
	Aliases: []string{"sessions"},
	Short:   "Review, export and delete detection sessions",
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List detection sessions, most recent first",
	Long: `List detection sessions from the emotion log, most recent first.

--source keeps only records from one source (video, audio, text, visual,
combined). --emotion keeps only records whose strongest emotion matches.
Sessions left without records are hidden.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions, err := loadFilteredSessions()
		if err != nil {
			return err
		}
		displaySessions(cmd.OutOrStdout(), sessions)
		return nil
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show one detection session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionFilterID = args[0]
		sessions, err := loadFilteredSessions()
		if err != nil {
			return err
		}
		session, err := internal.FindSession(sessions, args[0])
		if err != nil {
			return fmt.Errorf("%w (use 'teampulse session list' to see available sessions)", err)
		}

		var md bytes.Buffer
		if err := (&export.MarkdownExporter{}).Export(session, &md); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if sessionShowRaw || !internal.IsTerminal(out) {
			_, err := out.Write(md.Bytes())
			return err
		}
		return renderMarkdown(out, md.String())
	},
}

var sessionExportCmd = &cobra.Command{
	Use:   "export [session-id|all]",
	Short: "Export sessions to file",
	Long: `Export one session, or the whole emotion log with "all", to a file.

Formats: csv (default), jsonl, json, yaml, md. Files are named
emotion_session_<date>.<ext> or all_emotion_data_<date>.<ext>.
Use --output - to write to stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}

		format := sessionFormat
		if format == "" {
			format = app.Config.Export.Format
		}
		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		target := export.AllSessionsID
		if len(args) == 1 {
			target = args[0]
		}

		records, err := app.Log.Records()
		if err != nil {
			return fmt.Errorf("failed to load emotion log: %w", err)
		}
		if len(records) == 0 {
			return fmt.Errorf("no emotion data to export")
		}

		var session *internal.Session
		if target == export.AllSessionsID {
			session = &internal.Session{ID: export.AllSessionsID, Records: records}
		} else {
			session, err = internal.FindSession(internal.GroupBySession(records), target)
			if err != nil {
				return err
			}
		}

		if sessionOutputDir == "-" {
			return exporter.Export(session, cmd.OutOrStdout())
		}

		dir := sessionOutputDir
		if dir == "" {
			dir = app.Config.Export.Dir
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		path := filepath.Join(dir, export.Filename(session.ID, exportDay(session, time.Now()), exporter.Extension()))

		err = internal.ShowProgress(context.Background(), fmt.Sprintf("Exporting %d record(s) to %s", len(session.Records), path), func() error {
			return writeExport(exporter, session, path)
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d record(s) to %s\n", len(session.Records), path)
		return nil
	},
}

// exportDay dates a single-session export by its first record and the
// all-sessions export by now
func exportDay(session *internal.Session, now time.Time) time.Time {
	if session.ID == export.AllSessionsID {
		return now
	}
	if started := session.StartedAt(); !started.IsZero() {
		return started
	}
	return now
}

var sessionImportCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Append records from a CSV export to the emotion log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer f.Close()

		records, err := export.ParseCSV(f)
		if err != nil {
			return err
		}

		app, err := openApp()
		if err != nil {
			return err
		}
		for _, rec := range records {
			if err := app.Log.Append(rec); err != nil {
				return fmt.Errorf("failed to import record: %w", err)
			}
		}
		if err := app.Log.Flush(); err != nil {
			return fmt.Errorf("failed to save emotion log: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d record(s)\n", len(records))
		return nil
	},
}

var sessionDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete every record of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		removed, err := app.Log.DeleteSession(args[0])
		if err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s (%d record(s))\n", internal.FormatSessionID(args[0]), removed)
		return nil
	},
}

var sessionClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the whole emotion log",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !sessionClearYes {
			return &internal.ValidationError{Message: "refusing to clear the emotion log without --yes"}
		}
		app, err := openApp()
		if err != nil {
			return err
		}
		if err := app.Log.Clear(); err != nil {
			return fmt.Errorf("failed to clear emotion log: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Emotion log cleared")
		return nil
	},
}

func validateSessionFilter() error {
	if s := sessionFilterSource; s != "" && s != internal.FilterAll {
		valid := false
		for _, src := range internal.RecordSources {
			valid = valid || src == s
		}
		if !valid {
			return &internal.ValidationError{Field: "source", Message: fmt.Sprintf("unknown source %q (want %s)", s, strings.Join(internal.RecordSources, ", "))}
		}
	}
	if e := sessionFilterEmotion; e != "" && e != internal.FilterAll && !internal.IsEmotionName(e) {
		return &internal.ValidationError{Field: "emotion", Message: fmt.Sprintf("unknown emotion %q (want %s)", e, strings.Join(internal.EmotionNames, ", "))}
	}
	return nil
}

func loadFilteredSessions() ([]*internal.Session, error) {
	if err := validateSessionFilter(); err != nil {
		return nil, err
	}

	app, err := openApp()
	if err != nil {
		return nil, err
	}
	records, err := app.Log.Records()
	if err != nil {
		return nil, fmt.Errorf("failed to load emotion log: %w", err)
	}

	return internal.FilterSessions(internal.GroupBySession(records), internal.SessionFilter{
		Session: sessionFilterID,
		Source:  sessionFilterSource,
		Emotion: sessionFilterEmotion,
	}), nil
}

func writeExport(exporter export.Exporter, session *internal.Session, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}
	if err := exporter.Export(session, file); err != nil {
		_ = file.Close()
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}
	if err := file.Close(); err != nil {
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}
	return nil
}

func renderMarkdown(w io.Writer, md string) error {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		internal.LogDebug("Markdown renderer unavailable: %v", err)
		_, err = io.WriteString(w, md)
		return err
	}
	rendered, err := renderer.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render session: %w", err)
	}
	_, err = io.WriteString(w, rendered)
	return err
}

func formatSummary(records []internal.EmotionLogRecord) string {
	var parts []string
	for _, avg := range internal.Summarize(records) {
		parts = append(parts, fmt.Sprintf("%s %.0f%%", avg.Emotion, avg.Average*100))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

func displaySessions(out io.Writer, sessions []*internal.Session) {
	if len(sessions) == 0 {
		fmt.Fprintln(out, headerStyle.Render("No data matches the selected filters"))
		return
	}

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("Found %d session(s)", len(sessions))))
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, titleStyle.Render("Session")+"\t"+titleStyle.Render("ID")+"\t"+titleStyle.Render("Records")+"\t"+titleStyle.Render("Sources")+"\t"+titleStyle.Render("Top emotions")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 100))
	for _, s := range sessions {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
			internal.FormatSessionID(s.ID),
			idStyle.Render(s.ID),
			countStyle.Render(strconv.Itoa(len(s.Records))),
			sourceStyle.Render(strings.Join(s.Sources(), ", ")),
			formatSummary(s.Records),
		)
	}
	_ = w.Flush()
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionListCmd, sessionShowCmd, sessionExportCmd, sessionImportCmd, sessionDeleteCmd, sessionClearCmd)

	for _, c := range []*cobra.Command{sessionListCmd, sessionShowCmd} {
		c.Flags().StringVar(&sessionFilterSource, "source", "", "Only records from this source")
		c.Flags().StringVar(&sessionFilterEmotion, "emotion", "", "Only records whose strongest emotion is this one")
	}
	sessionListCmd.Flags().StringVar(&sessionFilterID, "session", "", "Only this session")
	sessionShowCmd.Flags().BoolVar(&sessionShowRaw, "raw", false, "Print Markdown without terminal rendering")

	sessionExportCmd.Flags().StringVarP(&sessionFormat, "format", "f", "", "Export format: csv, jsonl, json, yaml, md (default from config)")
	sessionExportCmd.Flags().StringVarP(&sessionOutputDir, "output", "o", "", "Output directory (- for stdout)")

	sessionClearCmd.Flags().BoolVarP(&sessionClearYes, "yes", "y", false, "Confirm deleting every session")
}
