package internal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// KVTable is the table backing the key-value store
const KVTable = "teamPulseKV"

// OpenDatabase opens (creating if needed) a SQLite database for read-write use
func OpenDatabase(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: every write is a full read-modify-write of a blob, and an
	// in-memory database only exists on the connection that created it.
	db.SetMaxOpenConns(1)

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if err := EnsureKVTable(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureKVTable creates the key-value table if it does not exist
func EnsureKVTable(db *sql.DB) error {
	createTableSQL := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		key TEXT PRIMARY KEY,
		value TEXT
	)`, KVTable)
	if _, err := db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("failed to create %s table: %w", KVTable, err)
	}
	return nil
}

func scanPairs(rows *sql.Rows, err error) ([]KeyValuePair, error) {
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var pairs []KeyValuePair
	for rows.Next() {
		var pair KeyValuePair
		var value sql.NullString
		if err := rows.Scan(&pair.Key, &value); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		if value.Valid {
			pair.Value = value.String
			pairs = append(pairs, pair)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return pairs, nil
}

// KeyValuePair represents a key-value pair from the store
type KeyValuePair struct {
	Key   string
	Value string
}
