package internal

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Keys used in the store
const (
	EntriesKey     = "teamPulseData"
	EmotionLogsKey = "emotionLogs"
	LoggedInKey    = "isLoggedIn"
	UsernameKey    = "username"
	UserEmailKey   = "userEmail"
	FullNameKey    = "fullName"
	UserIDKey      = "userId"
)

// KVStore is the process-wide string key-value store all state lives in
type KVStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	List(prefix string) ([]KeyValuePair, error)
	Close() error
}

// StoreConfig selects and configures a KVStore backend
type StoreConfig struct {
	Driver string `yaml:"driver"` // sqlite, memory, postgres
	DSN    string `yaml:"dsn"`    // sqlite file path or postgres connection string
}

// NewKVStore creates a KVStore for the configured driver
func NewKVStore(cfg StoreConfig) (KVStore, error) {
	switch cfg.Driver {
	case "", "sqlite":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("sqlite store requires a database path")
		}
		return NewSQLiteKV(cfg.DSN)
	case "memory":
		return NewMemoryKV(), nil
	case "postgres":
		return NewPostgresKV(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported store driver: %s (supported: sqlite, memory, postgres)", cfg.Driver)
	}
}

// sqlDialect holds the statements that differ between SQL backends
type sqlDialect struct {
	name   string
	get    string
	upsert string
	delete string
	list   string
}

var sqliteDialect = sqlDialect{
	name:   "sqlite",
	get:    "SELECT value FROM " + KVTable + " WHERE key = ?",
	upsert: "INSERT INTO " + KVTable + " (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
	delete: "DELETE FROM " + KVTable + " WHERE key = ?",
	list:   "SELECT key, value FROM " + KVTable + " WHERE key LIKE ? ESCAPE '\\' AND value IS NOT NULL ORDER BY key",
}

// SQLKV is a KVStore over a single two-column SQL table
type SQLKV struct {
	db      *sql.DB
	dialect sqlDialect
}

// NewSQLiteKV opens a SQLite-backed store at path (":memory:" is allowed)
func NewSQLiteKV(path string) (*SQLKV, error) {
	db, err := OpenDatabase(path)
	if err != nil {
		return nil, &StorageError{Key: path, Op: "open", Err: err}
	}
	return &SQLKV{db: db, dialect: sqliteDialect}, nil
}

// Driver returns the SQL dialect name
func (s *SQLKV) Driver() string {
	return s.dialect.name
}

// Get returns the value for key and whether it exists
func (s *SQLKV) Get(key string) (string, bool, error) {
	var value sql.NullString
	err := s.db.QueryRow(s.dialect.get, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &StorageError{Key: key, Op: "get", Err: err}
	}
	if !value.Valid {
		return "", false, nil
	}
	return value.String, true, nil
}

// Set stores value under key, replacing any previous value
func (s *SQLKV) Set(key, value string) error {
	if _, err := s.db.Exec(s.dialect.upsert, key, value); err != nil {
		return &StorageError{Key: key, Op: "set", Err: err}
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *SQLKV) Delete(key string) error {
	if _, err := s.db.Exec(s.dialect.delete, key); err != nil {
		return &StorageError{Key: key, Op: "delete", Err: err}
	}
	return nil
}

// List returns all pairs whose key starts with prefix, ordered by key
func (s *SQLKV) List(prefix string) ([]KeyValuePair, error) {
	pairs, err := scanPairs(s.db.Query(s.dialect.list, likePrefix(prefix)))
	if err != nil {
		return nil, &StorageError{Key: prefix, Op: "list", Err: err}
	}
	return pairs, nil
}

// likePrefix turns prefix into a LIKE pattern matching it literally
func likePrefix(prefix string) string {
	return likeEscaper.Replace(prefix) + "%"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Close closes the underlying database
func (s *SQLKV) Close() error {
	return s.db.Close()
}

// MemoryKV is an in-process KVStore. QuotaBytes, when positive, caps the total
// size of keys and values the way browser local storage does.
type MemoryKV struct {
	mu         sync.RWMutex
	data       map[string]string
	QuotaBytes int
}

// NewMemoryKV creates an empty in-memory store
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

func (m *MemoryKV) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.QuotaBytes > 0 {
		size := len(key) + len(value)
		for k, v := range m.data {
			if k != key {
				size += len(k) + len(v)
			}
		}
		if size > m.QuotaBytes {
			return &StorageError{Key: key, Op: "set", Err: ErrQuotaExceeded}
		}
	}

	m.data[key] = value
	return nil
}

func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MemoryKV) List(prefix string) ([]KeyValuePair, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var pairs []KeyValuePair
	for k, v := range m.data {
		if strings.HasPrefix(k, prefix) {
			pairs = append(pairs, KeyValuePair{Key: k, Value: v})
		}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Key < pairs[j].Key })
	return pairs, nil
}

func (m *MemoryKV) Close() error {
	return nil
}
