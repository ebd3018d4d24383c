package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// CreateSQLiteFixture writes a SQLite store at dbPath holding the sample blobs
func CreateSQLiteFixture(t *testing.T, dbPath string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS ` + KVTable + ` (
		key TEXT PRIMARY KEY,
		value TEXT
	)`
	if _, err := db.Exec(createTableSQL); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	insertSQL := "INSERT INTO " + KVTable + " (key, value) VALUES (?, ?)"
	if _, err := db.Exec(insertSQL, "teamPulseData", SampleEntriesJSON); err != nil {
		t.Fatalf("Failed to insert entries: %v", err)
	}
	if _, err := db.Exec(insertSQL, "emotionLogs", SampleEmotionLogsJSON); err != nil {
		t.Fatalf("Failed to insert emotion logs: %v", err)
	}
}

// CreateConfigFixture writes a config file at path
func CreateConfigFixture(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create config directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

// CreateMockDataDir creates a data directory laid out like ~/.teampulse with
// a seeded store and the given config
func CreateMockDataDir(t *testing.T, config string) string {
	t.Helper()
	dir := CreateTempDir(t)
	CreateSQLiteFixture(t, filepath.Join(dir, "teampulse.db"))
	if config != "" {
		CreateConfigFixture(t, filepath.Join(dir, "config.yaml"), config)
	}
	return dir
}
