package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iksnae/teampulse/internal"
)

// MarkdownExporter exports sessions in Markdown format
type MarkdownExporter struct{}

// Export exports a session to Markdown format
func (e *MarkdownExporter) Export(session *internal.Session, w io.Writer) error {
	// Header
	_, _ = fmt.Fprintf(w, "# %s\n\n", escapeMarkdown(internal.FormatSessionID(session.ID)))

	_, _ = fmt.Fprintf(w, "**Session:** `%s`  \n", session.ID)
	_, _ = fmt.Fprintf(w, "**Records:** %d  \n", len(session.Records))
	if started := session.StartedAt(); !started.IsZero() {
		_, _ = fmt.Fprintf(w, "**Started:** %s  \n", started.Local().Format("2006-01-02 15:04:05"))
	}
	if ended := session.EndedAt(); !ended.IsZero() {
		_, _ = fmt.Fprintf(w, "**Ended:** %s  \n", ended.Local().Format("2006-01-02 15:04:05"))
	}
	if sources := session.Sources(); len(sources) > 0 {
		_, _ = fmt.Fprintf(w, "**Sources:** %s\n", strings.Join(sources, ", "))
	}
	_, _ = fmt.Fprintf(w, "\n")

	if len(session.Records) == 0 {
		_, _ = fmt.Fprintf(w, "_No records._\n")
		return nil
	}

	_, _ = fmt.Fprintf(w, "## Summary\n\n")
	for i, avg := range internal.Summarize(session.Records) {
		_, _ = fmt.Fprintf(w, "%d. **%s** %s\n", i+1, avg.Emotion, percent(avg.Average))
	}
	_, _ = fmt.Fprintf(w, "\n")

	_, _ = fmt.Fprintf(w, "## Average confidence\n\n")
	_, _ = fmt.Fprintf(w, "| Emotion | Average | Records |\n|---|---:|---:|\n")
	for _, avg := range internal.AverageEmotions(session.Records) {
		_, _ = fmt.Fprintf(w, "| %s | %s | %d |\n", avg.Emotion, percent(avg.Average), avg.Count)
	}
	_, _ = fmt.Fprintf(w, "\n")

	_, _ = fmt.Fprintf(w, "## Records\n\n")
	_, _ = fmt.Fprintf(w, "| Time | Source | Dominant | %s |\n", strings.Join(internal.EmotionNames, " | "))
	_, _ = fmt.Fprintf(w, "|---|---|---|%s\n", strings.Repeat("---:|", len(internal.EmotionNames)))
	for _, rec := range session.Records {
		when := rec.Timestamp
		if t := rec.GetCreatedAt(); !t.IsZero() {
			when = t.Local().Format("15:04:05.000")
		}
		dominant, _ := internal.DominantEmotion(rec)

		cells := make([]string, len(internal.EmotionNames))
		for i, name := range internal.EmotionNames {
			if v, ok := rec.Emotions[name]; ok {
				cells[i] = strconv.FormatFloat(v, 'f', 3, 64)
			}
		}
		_, _ = fmt.Fprintf(w, "| %s | %s | %s | %s |\n", when, escapeMarkdown(rec.Source), dominant, strings.Join(cells, " | "))
	}

	return nil
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

// escapeMarkdown escapes characters that would break headings and table cells
func escapeMarkdown(text string) string {
	r := strings.NewReplacer(
		"|", "\\|",
		"**", "\\*\\*",
		"__", "\\_\\_",
		"\n", " ",
	)
	return r.Replace(text)
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
