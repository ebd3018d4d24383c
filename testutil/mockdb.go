package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// KVTable mirrors the key-value table name used by the store
const KVTable = "teamPulseKV"

// Sample blobs stored by CreateTestDB
const (
	SampleEntriesJSON = `{"entries":[` +
		`{"id":1709285400000,"timestamp":"2024-03-01T09:30:00.000Z","videoMood":5,"audioMood":5,"textMood":5,"notes":"shipped","mood":5},` +
		`{"id":1709285460000,"timestamp":"2024-03-01T09:31:00.000Z","videoMood":null,"audioMood":null,"textMood":1,"notes":"","mood":1}` +
		`],"stats":{"totalEntries":2,"avgMood":3,"moodDistribution":{"happy":50,"neutral":0,"sad":50},"lastUpdated":"2024-03-01T09:31:00.000Z"}}`

	SampleEmotionLogsJSON = `[` +
		`{"timestamp":"2024-03-01T09:30:00.000Z","source":"audio","sessionId":"session_1709285400000","happy":0.4,"sad":0.1,"angry":0.1,"neutral":0.4},` +
		`{"timestamp":"2024-03-01T09:30:00.100Z","source":"combined","sessionId":"session_1709285400000","happy":0.7,"sad":0.1,"angry":0.05,"neutral":0.4},` +
		`{"timestamp":"2024-03-02T10:00:00.000Z","source":"text","happy":0.25,"sad":0.45,"angry":0.05,"neutral":0.25}` +
		`]`
)

// CreateInMemoryDB creates an in-memory SQLite database with the key-value
// table. It is closed when the test ends.
func CreateInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create in-memory database: %v", err)
	}
	// an in-memory database only exists on the connection that created it
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS ` + KVTable + ` (
		key TEXT PRIMARY KEY,
		value TEXT
	)`
	if _, err := db.Exec(createTableSQL); err != nil {
		t.Fatalf("Failed to create %s table: %v", KVTable, err)
	}

	return db
}

// CreateTestDB creates an in-memory database holding the sample blobs and
// a few logged-in flags
func CreateTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db := CreateInMemoryDB(t)

	rows := []struct {
		key   string
		value string
	}{
		{"teamPulseData", SampleEntriesJSON},
		{"emotionLogs", SampleEmotionLogsJSON},
		{"isLoggedIn", "true"},
		{"username", "ada"},
	}

	stmt, err := db.Prepare("INSERT INTO " + KVTable + " (key, value) VALUES (?, ?)")
	if err != nil {
		t.Fatalf("Failed to prepare insert statement: %v", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.Exec(row.key, row.value); err != nil {
			t.Fatalf("Failed to insert %s: %v", row.key, err)
		}
	}

	return db
}

// InsertKV inserts a raw row into the key-value table
func InsertKV(t *testing.T, db *sql.DB, key, value string) {
	t.Helper()
	if _, err := db.Exec("INSERT INTO "+KVTable+" (key, value) VALUES (?, ?)", key, value); err != nil {
		t.Fatalf("Failed to insert %s: %v", key, err)
	}
}
