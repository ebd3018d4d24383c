package cmd

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/iksnae/teampulse/internal"
	"github.com/iksnae/teampulse/internal/export"
	"github.com/iksnae/teampulse/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommands_ExistingDataDir(t *testing.T) {
	dir := testutil.CreateMockDataDir(t, "tracker:\n  interval: 250ms\n  privacy: true\n")

	out, err := runCommand(t, dir, "stats", "--json")
	require.NoError(t, err, out)
	var stats statsOutput
	testutil.JSONUnmarshal(t, []byte(out), &stats)
	assert.Equal(t, 2, stats.TotalEntries)
	assert.Equal(t, 3, stats.AvgMood)
	assert.Equal(t, internal.MoodDistribution{Happy: 50, Neutral: 0, Sad: 50}, stats.MoodDistribution)

	out, err = runCommand(t, dir, "session", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Found 2 session(s)")
	assert.Contains(t, out, "session_1709285400000")
	assert.Contains(t, out, internal.UnknownSessionID)

	out, err = runCommand(t, dir, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "interval: 250ms")
	assert.Contains(t, out, "privacy: true")
}

func TestSessionExport_FileDate(t *testing.T) {
	dir := testutil.CreateMockDataDir(t, "")
	outDir := filepath.Join(dir, "out")

	_, err := runCommand(t, dir, "session", "export", "session_1709285400000", "--output", outDir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(outDir, "emotion_session_2024-03-01.csv"), "named after the first record")

	_, err = runCommand(t, dir, "session", "export", "all", "--output", outDir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(outDir, export.Filename(export.AllSessionsID, time.Now(), "csv")))
}

func TestExportDay(t *testing.T) {
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	started := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	session := &internal.Session{ID: "session_1", Records: []internal.EmotionLogRecord{
		internal.CreateTestRecord("session_1", internal.SourceText, started, internal.Emotions{internal.EmotionHappy: 0.5}),
	}}
	assert.True(t, started.Equal(exportDay(session, now)))

	all := &internal.Session{ID: export.AllSessionsID, Records: session.Records}
	assert.Equal(t, now, exportDay(all, now))

	empty := &internal.Session{ID: "session_2"}
	assert.Equal(t, now, exportDay(empty, now))
}
