package internal

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// SessionIDPrefix prefixes ids allocated by the tracker
const SessionIDPrefix = "session_"

// FilterAll disables a SessionFilter field, like leaving it empty
const FilterAll = "all"

// Session is one detection run: the log records sharing a session id
type Session struct {
	ID      string             `json:"id" yaml:"id"`
	Records []EmotionLogRecord `json:"records" yaml:"records"`
}

// StartedAt returns the timestamp of the first record
func (s *Session) StartedAt() time.Time {
	if len(s.Records) == 0 {
		return time.Time{}
	}
	return s.Records[0].GetCreatedAt()
}

// EndedAt returns the timestamp of the last record
func (s *Session) EndedAt() time.Time {
	if len(s.Records) == 0 {
		return time.Time{}
	}
	return s.Records[len(s.Records)-1].GetCreatedAt()
}

// Sources lists the distinct record sources in first-seen order
func (s *Session) Sources() []string {
	var sources []string
	seen := make(map[string]bool)
	for _, rec := range s.Records {
		if rec.Source != "" && !seen[rec.Source] {
			seen[rec.Source] = true
			sources = append(sources, rec.Source)
		}
	}
	return sources
}

// NewSessionID allocates a session id from the current time
func NewSessionID(now time.Time) string {
	return SessionIDPrefix + strconv.FormatInt(now.UnixMilli(), 10)
}

// FormatSessionID renders tracker ids as "Session <local date time>"; other ids are returned as is
func FormatSessionID(id string) string {
	if !strings.HasPrefix(id, SessionIDPrefix) {
		return id
	}
	ms, err := strconv.ParseInt(strings.TrimPrefix(id, SessionIDPrefix), 10, 64)
	if err != nil {
		return id
	}
	return "Session " + time.UnixMilli(ms).Local().Format("2006-01-02 15:04:05")
}

// GroupBySession groups records by session id, keeping the order in which
// sessions first appear and the insertion order within each session.
// Records without a session id are grouped under "unknown".
func GroupBySession(records []EmotionLogRecord) []*Session {
	var sessions []*Session
	index := make(map[string]*Session)
	for _, rec := range records {
		key := rec.SessionKey()
		session, ok := index[key]
		if !ok {
			session = &Session{ID: key}
			index[key] = session
			sessions = append(sessions, session)
		}
		session.Records = append(session.Records, rec)
	}
	return sessions
}

// FindSession returns the session with id
func FindSession(sessions []*Session, id string) (*Session, error) {
	for _, s := range sessions {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
}

// SessionFilter narrows the grouped view. Empty or "all" fields match everything.
type SessionFilter struct {
	Session string
	Source  string
	Emotion string
}

func filterSet(v string) bool {
	return v != "" && v != FilterAll
}

// FilterSessions applies filter to sessions and returns the matching sessions,
// most recent first by their first record. The source filter drops records of
// other sources; the emotion filter keeps records whose dominant emotion
// matches. Sessions left without records are skipped. Input sessions are not
// modified.
func FilterSessions(sessions []*Session, filter SessionFilter) []*Session {
	var out []*Session
	for _, s := range sessions {
		if filterSet(filter.Session) && s.ID != filter.Session {
			continue
		}

		records := s.Records
		if filterSet(filter.Source) {
			records = filterRecords(records, func(rec EmotionLogRecord) bool {
				return rec.Source == filter.Source
			})
		}
		if filterSet(filter.Emotion) {
			records = filterRecords(records, func(rec EmotionLogRecord) bool {
				dominant, ok := DominantEmotion(rec)
				return ok && dominant == filter.Emotion
			})
		}
		if len(records) == 0 {
			continue
		}
		out = append(out, &Session{ID: s.ID, Records: records})
	}

	SortSessionsRecentFirst(out)
	return out
}

func filterRecords(records []EmotionLogRecord, keep func(EmotionLogRecord) bool) []EmotionLogRecord {
	var out []EmotionLogRecord
	for _, rec := range records {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// SortSessionsRecentFirst orders sessions by first record timestamp, newest first
func SortSessionsRecentFirst(sessions []*Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].StartedAt().After(sessions[j].StartedAt())
	})
}

// DominantEmotion returns the emotion with the highest confidence in rec.
// Ties go to the emotion listed first in EmotionNames.
func DominantEmotion(rec EmotionLogRecord) (string, bool) {
	best, found := "", false
	bestValue := 0.0
	for _, name := range EmotionNames {
		v, ok := rec.Emotions[name]
		if !ok {
			continue
		}
		if !found || v > bestValue {
			best, bestValue, found = name, v, true
		}
	}
	return best, found
}

// EmotionAverage is the mean confidence of one emotion across records
type EmotionAverage struct {
	Emotion string  `json:"emotion" yaml:"emotion"`
	Average float64 `json:"average" yaml:"average"`
	Count   int     `json:"count" yaml:"count"`
}

// AverageEmotions averages each emotion over the records that report it, in
// order of first appearance
func AverageEmotions(records []EmotionLogRecord) []EmotionAverage {
	var order []string
	totals := make(map[string]float64)
	counts := make(map[string]int)
	for _, rec := range records {
		for _, name := range EmotionNames {
			v, ok := rec.Emotions[name]
			if !ok {
				continue
			}
			if counts[name] == 0 {
				order = append(order, name)
			}
			totals[name] += v
			counts[name]++
		}
	}

	averages := make([]EmotionAverage, 0, len(order))
	for _, name := range order {
		averages = append(averages, EmotionAverage{
			Emotion: name,
			Average: totals[name] / float64(counts[name]),
			Count:   counts[name],
		})
	}
	return averages
}

// Summarize returns the top three emotions by average confidence. Equal
// averages keep their first-appearance order.
func Summarize(records []EmotionLogRecord) []EmotionAverage {
	averages := AverageEmotions(records)
	sort.SliceStable(averages, func(i, j int) bool {
		return averages[i].Average > averages[j].Average
	})
	if len(averages) > 3 {
		averages = averages[:3]
	}
	return averages
}
