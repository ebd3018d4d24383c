package internal

import (
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"
)

// History periods accepted by ListPeriod
const (
	PeriodAll   = "all"
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

// EntryFilter selects entries by exact field equality. Nil fields are ignored.
// Date matches entries created on the same local calendar day.
type EntryFilter struct {
	ID        *int64
	Mood      *int
	VideoMood *int
	AudioMood *int
	TextMood  *int
	Notes     *string
	Date      *time.Time
}

// IsEmpty reports whether the filter matches every entry
func (f EntryFilter) IsEmpty() bool {
	return f == (EntryFilter{})
}

// Matches reports whether entry satisfies every set field of f
func (f EntryFilter) Matches(entry MoodEntry) bool {
	if f.ID != nil && entry.ID != *f.ID {
		return false
	}
	if !intFieldMatches(f.Mood, entry.Mood) ||
		!intFieldMatches(f.VideoMood, entry.VideoMood) ||
		!intFieldMatches(f.AudioMood, entry.AudioMood) ||
		!intFieldMatches(f.TextMood, entry.TextMood) {
		return false
	}
	if f.Notes != nil && entry.Notes != *f.Notes {
		return false
	}
	if f.Date != nil {
		created := entry.GetCreatedAt()
		if created.IsZero() || !sameDay(created.Local(), f.Date.Local()) {
			return false
		}
	}
	return true
}

func intFieldMatches(want, got *int) bool {
	if want == nil {
		return true
	}
	return got != nil && *got == *want
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// EntryStore keeps mood entries and their cached team stats under EntriesKey.
// Every mutation is a read-modify-write of the whole blob, serialized by mu.
type EntryStore struct {
	mu  sync.Mutex
	kv  KVStore
	now func() time.Time
}

// NewEntryStore creates an EntryStore over kv
func NewEntryStore(kv KVStore) *EntryStore {
	return &EntryStore{kv: kv, now: time.Now}
}

// SetClock replaces the time source, mostly for tests
func (s *EntryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Load reads the stored blob. A missing key yields an empty blob.
func (s *EntryStore) Load() (*EntriesBlob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *EntryStore) load() (*EntriesBlob, error) {
	raw, ok, err := s.kv.Get(EntriesKey)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return NewEntriesBlob(), nil
	}

	var blob EntriesBlob
	if err := json.Unmarshal([]byte(raw), &blob); err != nil {
		return nil, &ParseError{Source: "kv", Key: EntriesKey, Err: err}
	}
	if blob.Entries == nil {
		blob.Entries = []MoodEntry{}
	}
	return &blob, nil
}

func (s *EntryStore) save(blob *EntriesBlob) error {
	data, err := json.Marshal(blob)
	if err != nil {
		return &StorageError{Key: EntriesKey, Op: "set", Err: err}
	}
	return s.kv.Set(EntriesKey, string(data))
}

// Append validates ratings, builds a new entry, recomputes stats and persists
// the blob as one write. On a failed write nothing changes.
func (s *EntryStore) Append(ratings ModalityRatings, notes string) (*MoodEntry, error) {
	if err := ratings.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := s.load()
	if err != nil {
		return nil, err
	}

	now := s.now()
	id := now.UnixMilli()
	if n := len(blob.Entries); n > 0 && id <= blob.Entries[n-1].ID {
		id = blob.Entries[n-1].ID + 1
	}

	entry := MoodEntry{
		ID:        id,
		Timestamp: FormatTimestamp(now),
		VideoMood: ratings.Video,
		AudioMood: ratings.Audio,
		TextMood:  ratings.Text,
		Notes:     notes,
		Mood:      ratings.AverageMood(),
	}

	updated := &EntriesBlob{Entries: append(append([]MoodEntry{}, blob.Entries...), entry)}
	updated.Stats = ComputeTeamStats(updated.Entries, now)

	if err := s.save(updated); err != nil {
		LogError("Failed to save entry: %v", err)
		return nil, err
	}

	LogDebug("Appended entry %d (mood=%s)", entry.ID, FormatMood(entry.Mood))
	return &entry, nil
}

// List returns entries matching filter in insertion order
func (s *EntryStore) List(filter EntryFilter) ([]MoodEntry, error) {
	blob, err := s.Load()
	if err != nil {
		return nil, err
	}
	if filter.IsEmpty() {
		return blob.Entries, nil
	}

	matched := make([]MoodEntry, 0, len(blob.Entries))
	for _, entry := range blob.Entries {
		if filter.Matches(entry) {
			matched = append(matched, entry)
		}
	}
	return matched, nil
}

// ListPeriod returns entries matching filter that were created within period of
// now. Week and month use whole days rounded up; today means the same local
// calendar day.
func (s *EntryStore) ListPeriod(period string, filter EntryFilter, now time.Time) ([]MoodEntry, error) {
	if !IsValidPeriod(period) {
		return nil, &ValidationError{Field: "period", Message: fmt.Sprintf("unknown period %q (want all, today, week or month)", period)}
	}

	entries, err := s.List(filter)
	if err != nil {
		return nil, err
	}
	if period == PeriodAll || period == "" {
		return entries, nil
	}

	matched := make([]MoodEntry, 0, len(entries))
	for _, entry := range entries {
		created := entry.GetCreatedAt()
		if created.IsZero() {
			continue
		}
		diffDays := int(math.Ceil(now.Sub(created).Hours() / 24))

		var keep bool
		switch period {
		case PeriodToday:
			keep = sameDay(created.Local(), now.Local())
		case PeriodWeek:
			keep = diffDays <= 7
		case PeriodMonth:
			keep = diffDays <= 30
		}
		if keep {
			matched = append(matched, entry)
		}
	}
	return matched, nil
}

// IsValidPeriod reports whether period is accepted by ListPeriod
func IsValidPeriod(period string) bool {
	switch period {
	case "", PeriodAll, PeriodToday, PeriodWeek, PeriodMonth:
		return true
	}
	return false
}

// Delete removes the entry with id, keeping the others in order, and
// recomputes stats. The emotion log is never touched.
func (s *EntryStore) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := s.load()
	if err != nil {
		return err
	}

	kept := make([]MoodEntry, 0, len(blob.Entries))
	for _, entry := range blob.Entries {
		if entry.ID != id {
			kept = append(kept, entry)
		}
	}
	if len(kept) == len(blob.Entries) {
		return fmt.Errorf("%w: %d", ErrEntryNotFound, id)
	}

	updated := &EntriesBlob{Entries: kept, Stats: ComputeTeamStats(kept, s.now())}
	if err := s.save(updated); err != nil {
		LogError("Failed to delete entry %d: %v", id, err)
		return err
	}

	LogDebug("Deleted entry %d", id)
	return nil
}

// Stats returns the cached team stats
func (s *EntryStore) Stats() (TeamStats, error) {
	blob, err := s.Load()
	if err != nil {
		return TeamStats{}, err
	}
	return blob.Stats, nil
}
