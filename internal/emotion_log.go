package internal

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Emotion log defaults
const (
	DefaultLogBatchSize  = 10
	DefaultLogMaxRecords = 1000
)

// EmotionLog is the append-only log of detection ticks stored under
// EmotionLogsKey. Appends are buffered in memory and persisted once BatchSize
// new records have accumulated; only the newest MaxRecords are kept.
type EmotionLog struct {
	mu      sync.Mutex
	kv      KVStore
	records []EmotionLogRecord
	loaded  bool
	pending int

	BatchSize  int
	MaxRecords int
}

// NewEmotionLog creates an EmotionLog over kv with default batching
func NewEmotionLog(kv KVStore) *EmotionLog {
	return &EmotionLog{
		kv:         kv,
		BatchSize:  DefaultLogBatchSize,
		MaxRecords: DefaultLogMaxRecords,
	}
}

func (l *EmotionLog) ensureLoaded() error {
	if l.loaded {
		return nil
	}

	raw, ok, err := l.kv.Get(EmotionLogsKey)
	if err != nil {
		return err
	}

	var records []EmotionLogRecord
	if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &records); err != nil {
			return &ParseError{Source: "kv", Key: EmotionLogsKey, Err: err}
		}
	}

	l.records = records
	l.loaded = true
	LogDebug("Loaded %d emotion records from storage", len(records))
	return nil
}

func (l *EmotionLog) capped(records []EmotionLogRecord) []EmotionLogRecord {
	if l.MaxRecords > 0 && len(records) > l.MaxRecords {
		return records[len(records)-l.MaxRecords:]
	}
	return records
}

func (l *EmotionLog) save() error {
	records := l.capped(l.records)
	if records == nil {
		records = []EmotionLogRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return &StorageError{Key: EmotionLogsKey, Op: "set", Err: err}
	}
	if err := l.kv.Set(EmotionLogsKey, string(data)); err != nil {
		return err
	}
	l.pending = 0
	return nil
}

// Append adds rec to the log and persists when a batch is complete
func (l *EmotionLog) Append(rec EmotionLogRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.ensureLoaded(); err != nil {
		return err
	}

	previous, previousPending := l.records, l.pending
	l.records = l.capped(append(l.records, rec))
	l.pending++

	if l.BatchSize <= 1 || l.pending >= l.BatchSize {
		if err := l.save(); err != nil {
			l.records, l.pending = previous, previousPending
			LogError("Failed to persist emotion log: %v", err)
			return err
		}
	}
	return nil
}

// Flush persists any buffered records
func (l *EmotionLog) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.loaded || l.pending == 0 {
		return nil
	}
	return l.save()
}

// Pending returns the number of records not yet persisted
func (l *EmotionLog) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending
}

// Records returns a copy of the log, oldest first
func (l *EmotionLog) Records() ([]EmotionLogRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.ensureLoaded(); err != nil {
		return nil, err
	}
	out := make([]EmotionLogRecord, len(l.records))
	copy(out, l.records)
	return out, nil
}

// DeleteSession removes every record grouped under sessionID and persists the
// log. Deleting "unknown" removes records without a session id.
func (l *EmotionLog) DeleteSession(sessionID string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.ensureLoaded(); err != nil {
		return 0, err
	}

	kept := make([]EmotionLogRecord, 0, len(l.records))
	for _, rec := range l.records {
		if rec.SessionKey() != sessionID {
			kept = append(kept, rec)
		}
	}
	removed := len(l.records) - len(kept)
	if removed == 0 {
		return 0, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	previous := l.records
	l.records = kept
	if err := l.save(); err != nil {
		l.records = previous
		return 0, err
	}

	LogDebug("Deleted %d records of session %s", removed, sessionID)
	return removed, nil
}

// Clear drops the whole log from memory and storage
func (l *EmotionLog) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.kv.Delete(EmotionLogsKey); err != nil {
		return err
	}
	l.records = nil
	l.pending = 0
	l.loaded = true
	return nil
}
