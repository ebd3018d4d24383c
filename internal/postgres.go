package internal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

var postgresDialect = sqlDialect{
	name:   "postgres",
	get:    "SELECT value FROM " + KVTable + " WHERE key = $1",
	upsert: "INSERT INTO " + KVTable + " (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value",
	delete: "DELETE FROM " + KVTable + " WHERE key = $1",
	list:   "SELECT key, value FROM " + KVTable + " WHERE key LIKE $1 ESCAPE '\\' AND value IS NOT NULL ORDER BY key",
}

// Connection retry settings for NewPostgresKV
var (
	postgresPingRetries = 3
	postgresRetryDelay  = 2 * time.Second
	postgresPingTimeout = 10 * time.Second
)

// NewPostgresKV opens a PostgreSQL-backed store. It shares the SQLite table layout
// so a team can point several machines at one database.
func NewPostgresKV(connString string) (*SQLKV, error) {
	if connString == "" {
		return nil, fmt.Errorf("postgres store requires a connection string")
	}

	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, &StorageError{Key: "postgres", Op: "open", Err: err}
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	var lastErr error
	for i := 0; i < postgresPingRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), postgresPingTimeout)
		lastErr = db.PingContext(ctx)
		cancel()

		if lastErr == nil {
			break
		}
		LogDebug("postgres ping attempt %d failed: %v", i+1, lastErr)
		if i < postgresPingRetries-1 {
			time.Sleep(postgresRetryDelay)
		}
	}
	if lastErr != nil {
		db.Close()
		return nil, &StorageError{Key: "postgres", Op: "open", Err: fmt.Errorf("ping failed after %d attempts: %w", postgresPingRetries, lastErr)}
	}

	createTableSQL := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		key TEXT PRIMARY KEY,
		value TEXT
	)`, KVTable)
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, &StorageError{Key: KVTable, Op: "open", Err: err}
	}

	return &SQLKV{db: db, dialect: postgresDialect}, nil
}
