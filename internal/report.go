package internal

import (
	"bufio"
	"fmt"
	"io"
	"time"
)

// ReportRecentEntries is how many trailing entries a report lists
const ReportRecentEntries = 5

// ReportFilename returns the default report file name for day
func ReportFilename(day time.Time) string {
	return fmt.Sprintf("teampulse-report-%s.txt", day.Format("2006-01-02"))
}

// WriteReport writes the plain-text team report
func WriteReport(w io.Writer, stats TeamStats, entries []MoodEntry, now time.Time) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "TeamPulse Report - %s\n\n", now.Local().Format("2006-01-02"))
	fmt.Fprintf(bw, "Average Mood: %d%%\n", stats.AvgMood)
	fmt.Fprintf(bw, "Total Entries: %d\n\n", stats.TotalEntries)
	fmt.Fprintf(bw, "Mood Distribution:\n")
	fmt.Fprintf(bw, "- Happy: %d%%\n", stats.MoodDistribution.Happy)
	fmt.Fprintf(bw, "- Neutral: %d%%\n", stats.MoodDistribution.Neutral)
	fmt.Fprintf(bw, "- Sad: %d%%\n\n", stats.MoodDistribution.Sad)
	fmt.Fprintf(bw, "Recent Entries:\n")

	recent := entries
	if len(recent) > ReportRecentEntries {
		recent = recent[len(recent)-ReportRecentEntries:]
	}
	for _, entry := range recent {
		when := entry.Timestamp
		if t := entry.GetCreatedAt(); !t.IsZero() {
			when = t.Local().Format("2006-01-02 15:04:05")
		}
		notes := entry.Notes
		if notes == "" {
			notes = "None"
		}
		fmt.Fprintf(bw, "[%s] Mood: %s, Notes: %s\n", when, FormatMood(entry.Mood), notes)
	}

	return bw.Flush()
}
