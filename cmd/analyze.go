package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/iksnae/teampulse/internal"
	"github.com/spf13/cobra"
)

var (
	analyzeSave    bool
	analyzeSession string
	analyzeJSON    bool
	analyzePrivacy bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score input without running a detection session",
}

var analyzeTextCmd = &cobra.Command{
	Use:   "text <text>...",
	Short: "Score text by emotion keywords",
	Long: `Score text by emotion keywords. Happy, sad, angry and neutral start
at 0.25, each keyword found adds 0.2 to its emotion, and the result is
normalized to sum to 1.

With --save the scores are appended to the emotion log as a text record.`,
	Example: `  teampulse analyze text "great demo, really happy with it"`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")

		app, err := openApp()
		if err != nil {
			return err
		}

		privacy := app.Config.Tracker.Privacy
		if cmd.Flags().Changed("privacy") {
			privacy = analyzePrivacy
		}
		scorer := internal.NewPrivacyFilter(internal.KeywordTextScorer{}, privacy, time.Now().UnixNano())

		emotions, err := scorer.Score(cmd.Context(), internal.Input{Text: text})
		if err != nil {
			return fmt.Errorf("failed to score text: %w", err)
		}

		if analyzeSave {
			now := time.Now()
			sessionID := analyzeSession
			if sessionID == "" {
				sessionID = internal.NewSessionID(now)
			}
			rec := internal.EmotionLogRecord{
				Timestamp: internal.FormatTimestamp(now),
				Source:    internal.SourceText,
				SessionID: sessionID,
				Emotions:  emotions,
			}
			if err := app.Log.Append(rec); err != nil {
				return fmt.Errorf("failed to log text emotions: %w", err)
			}
			if err := app.Log.Flush(); err != nil {
				return fmt.Errorf("failed to save emotion log: %w", err)
			}
			internal.LogInfo("Saved text record to %s", sessionID)
		}

		if analyzeJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(emotions)
		}

		out := cmd.OutOrStdout()
		if dominant, ok := internal.DominantEmotion(internal.EmotionLogRecord{Emotions: emotions}); ok {
			fmt.Fprintln(out, headerStyle.Render("Dominant: "+dominant))
		}
		w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		for _, name := range internal.EmotionNames {
			if v, ok := emotions[name]; ok {
				_, _ = fmt.Fprintf(w, "%s\t%.2f\t\n", name, v)
			}
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.AddCommand(analyzeTextCmd)
	analyzeTextCmd.Flags().BoolVar(&analyzeSave, "save", false, "Append the scores to the emotion log")
	analyzeTextCmd.Flags().StringVar(&analyzeSession, "session", "", "Session id for --save (default: a new session)")
	analyzeTextCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print scores as JSON")
	analyzeTextCmd.Flags().BoolVar(&analyzePrivacy, "privacy", false, "Add Laplace noise to the scores")
}
