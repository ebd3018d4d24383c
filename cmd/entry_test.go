package cmd

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/iksnae/teampulse/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listEntriesJSON(t *testing.T, dir string, args ...string) []internal.MoodEntry {
	t.Helper()
	out, err := runCommand(t, dir, append([]string{"entry", "list", "--json"}, args...)...)
	require.NoError(t, err, out)

	var entries []internal.MoodEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries), out)
	return entries
}

func TestEntryCommands(t *testing.T) {
	dir := t.TempDir()

	out, err := runCommand(t, dir, "entry", "add", "--video", "5", "--audio", "5", "--text", "5", "--notes", "shipped")
	require.NoError(t, err)
	assert.Contains(t, out, "mood 5 (Happy)")

	out, err = runCommand(t, dir, "entry", "add", "--video", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "mood 1 (Sad)")

	entries := listEntriesJSON(t, dir)
	require.Len(t, entries, 2)
	assert.Equal(t, "shipped", entries[0].Notes)
	require.NotNil(t, entries[1].Mood)
	assert.Equal(t, 1, *entries[1].Mood)
	assert.Greater(t, entries[1].ID, entries[0].ID)

	happy := listEntriesJSON(t, dir, "--mood", "5")
	require.Len(t, happy, 1)
	assert.Equal(t, entries[0].ID, happy[0].ID)

	out, err = runCommand(t, dir, "entry", "delete", strconv.FormatInt(entries[0].ID, 10))
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted entry")

	remaining := listEntriesJSON(t, dir)
	require.Len(t, remaining, 1)
	assert.Equal(t, entries[1].ID, remaining[0].ID)
}

func TestEntryAdd_InvalidRating(t *testing.T) {
	dir := t.TempDir()

	_, err := runCommand(t, dir, "entry", "add", "--video", "6")
	require.Error(t, err)
	assert.True(t, internal.IsValidationError(err), "got %T: %v", err, err)

	assert.Empty(t, listEntriesJSON(t, dir))
}

func TestEntryDelete_Unknown(t *testing.T) {
	_, err := runCommand(t, t.TempDir(), "entry", "delete", "42")
	require.Error(t, err)
	assert.ErrorIs(t, err, internal.ErrEntryNotFound)
}

func TestEntryList_Period(t *testing.T) {
	dir := t.TempDir()

	_, err := runCommand(t, dir, "entry", "add", "--text", "3")
	require.NoError(t, err)

	assert.Len(t, listEntriesJSON(t, dir, "--period", "today"), 1)
	assert.Len(t, listEntriesJSON(t, dir, "--period", "week"), 1)

	_, err = runCommand(t, dir, "entry", "list", "--period", "year")
	require.Error(t, err)
	assert.True(t, internal.IsValidationError(err))
}

func TestEntryList_PeriodAndFilters(t *testing.T) {
	dir := t.TempDir()

	for _, rating := range []string{"5", "3"} {
		_, err := runCommand(t, dir, "entry", "add", "--text", rating)
		require.NoError(t, err)
	}

	today := time.Now().Format("2006-01-02")
	assert.Len(t, listEntriesJSON(t, dir, "--period", "today", "--date", today), 2)
	assert.Len(t, listEntriesJSON(t, dir, "--period", "week", "--mood", "3"), 1)
	assert.Empty(t, listEntriesJSON(t, dir, "--period", "month", "--date", "2001-01-01"))

	_, err := runCommand(t, dir, "entry", "list", "--date", "01/02/2024")
	require.Error(t, err)
	assert.True(t, internal.IsValidationError(err))
}

func TestEntryList_TruncatesNotesOnRunes(t *testing.T) {
	dir := t.TempDir()

	_, err := runCommand(t, dir, "entry", "add", "--text", "4", "--notes", strings.Repeat("é", 45))
	require.NoError(t, err)

	out, err := runCommand(t, dir, "entry", "list")
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(out))
	assert.Contains(t, out, strings.Repeat("é", 37)+"...")
	assert.NotContains(t, out, strings.Repeat("é", 38))
}

func TestEntryList_Table(t *testing.T) {
	dir := t.TempDir()

	out, err := runCommand(t, dir, "entry", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No entries found")

	_, err = runCommand(t, dir, "entry", "add", "--audio", "3", "--notes", "quiet standup")
	require.NoError(t, err)

	out, err = runCommand(t, dir, "entry", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 entry")
	assert.Contains(t, out, "quiet standup")
	assert.Contains(t, out, "Neutral")
}

func TestStatsCommand(t *testing.T) {
	dir := t.TempDir()

	for _, args := range [][]string{
		{"--video", "5"},
		{"--video", "5"},
		{"--video", "1"},
	} {
		_, err := runCommand(t, dir, append([]string{"entry", "add"}, args...)...)
		require.NoError(t, err)
	}

	out, err := runCommand(t, dir, "stats", "--json", "--trend")
	require.NoError(t, err)

	var stats statsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &stats), out)
	assert.Equal(t, 4, stats.AvgMood)
	assert.Equal(t, 3, stats.TotalEntries)
	assert.Equal(t, internal.MoodDistribution{Happy: 67, Neutral: 0, Sad: 33}, stats.MoodDistribution)
	require.Len(t, stats.Trend, 1)
	assert.Equal(t, 3, stats.Trend[0].Count)

	out, err = runCommand(t, dir, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Total entries")
	assert.Contains(t, out, "67%")
}

func TestReportCommand(t *testing.T) {
	dir := t.TempDir()

	_, err := runCommand(t, dir, "entry", "add", "--text", "4")
	require.NoError(t, err)

	out, err := runCommand(t, dir, "report", "--output", "-")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "TeamPulse Report - "), out)
	assert.Contains(t, out, "Total Entries: 1")
	assert.Contains(t, out, "Notes: None")

	out, err = runCommand(t, dir, "report")
	require.NoError(t, err)
	assert.Contains(t, out, "Report written to")
	assert.Contains(t, out, dir)
}
