package internal

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"gopkg.in/yaml.v3"
)

// Emotion names. EmotionNames holds them in canonical order, which is also the
// tie-break order when two emotions share the highest confidence.
const (
	EmotionHappy     = "happy"
	EmotionSad       = "sad"
	EmotionAngry     = "angry"
	EmotionSurprised = "surprised"
	EmotionFearful   = "fearful"
	EmotionDisgusted = "disgusted"
	EmotionNeutral   = "neutral"
)

var EmotionNames = []string{
	EmotionHappy,
	EmotionSad,
	EmotionAngry,
	EmotionSurprised,
	EmotionFearful,
	EmotionDisgusted,
	EmotionNeutral,
}

// Record sources
const (
	SourceVideo    = "video"
	SourceAudio    = "audio"
	SourceText     = "text"
	SourceVisual   = "visual"
	SourceCombined = "combined"
)

var RecordSources = []string{SourceVideo, SourceAudio, SourceText, SourceVisual, SourceCombined}

// UnknownSessionID groups records that carry no session id
const UnknownSessionID = "unknown"

// TimestampLayout matches the millisecond ISO-8601 form used in stored blobs
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTimestamp renders t in UTC using TimestampLayout
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp accepts TimestampLayout and plain RFC3339(Nano) values
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(TimestampLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

// IsEmotionName reports whether name is one of the seven tracked emotions
func IsEmotionName(name string) bool {
	for _, n := range EmotionNames {
		if n == name {
			return true
		}
	}
	return false
}

// Emotions is an emotion confidence vector: emotion name -> confidence in [0,1].
// Emotions missing from the map were not reported by the producer.
type Emotions map[string]float64

// Clone returns a copy of e
func (e Emotions) Clone() Emotions {
	out := make(Emotions, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Normalize scales e in place so the values sum to 1. A zero vector is left alone.
func (e Emotions) Normalize() Emotions {
	total := 0.0
	for _, v := range e {
		total += v
	}
	if total == 0 {
		return e
	}
	for k, v := range e {
		e[k] = v / total
	}
	return e
}

// ModalityRatings holds the optional 1-5 ratings captured per input channel
type ModalityRatings struct {
	Video *int
	Audio *int
	Text  *int
}

// Validate rejects ratings outside 1-5
func (r ModalityRatings) Validate() error {
	check := func(field string, v *int) error {
		if v != nil && (*v < 1 || *v > 5) {
			return &ValidationError{Field: field, Message: fmt.Sprintf("rating must be between 1 and 5, got %d", *v)}
		}
		return nil
	}
	if err := check("videoMood", r.Video); err != nil {
		return err
	}
	if err := check("audioMood", r.Audio); err != nil {
		return err
	}
	return check("textMood", r.Text)
}

// AverageMood returns the rounded mean of the present ratings, or nil when none are present
func (r ModalityRatings) AverageMood() *int {
	sum, n := 0, 0
	for _, v := range []*int{r.Video, r.Audio, r.Text} {
		if v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := roundHalfUp(float64(sum) / float64(n))
	return &avg
}

// MoodEntry is one submitted mood check-in. Mood is derived from the modality
// ratings when the entry is created and never edited afterwards.
type MoodEntry struct {
	ID        int64  `json:"id" jsonschema:"required,description=Creation time in unix milliseconds"`
	Timestamp string `json:"timestamp" jsonschema:"required,format=date-time"`
	VideoMood *int   `json:"videoMood" jsonschema:"minimum=1,maximum=5"`
	AudioMood *int   `json:"audioMood" jsonschema:"minimum=1,maximum=5"`
	TextMood  *int   `json:"textMood" jsonschema:"minimum=1,maximum=5"`
	Notes     string `json:"notes"`
	Mood      *int   `json:"mood" jsonschema:"minimum=1,maximum=5,description=Rounded mean of the present ratings"`
}

// GetCreatedAt parses the entry timestamp, returning the zero time on failure
func (e MoodEntry) GetCreatedAt() time.Time {
	t, err := ParseTimestamp(e.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Ratings returns the modality ratings of the entry
func (e MoodEntry) Ratings() ModalityRatings {
	return ModalityRatings{Video: e.VideoMood, Audio: e.AudioMood, Text: e.TextMood}
}

// MoodDistribution holds bucket percentages
type MoodDistribution struct {
	Happy   int `json:"happy" jsonschema:"required,minimum=0,maximum=100"`
	Neutral int `json:"neutral" jsonschema:"required,minimum=0,maximum=100"`
	Sad     int `json:"sad" jsonschema:"required,minimum=0,maximum=100"`
}

// TeamStats is the cached aggregate over all entries
type TeamStats struct {
	TotalEntries     int              `json:"totalEntries" jsonschema:"required,minimum=0"`
	AvgMood          int              `json:"avgMood" jsonschema:"required,minimum=0,maximum=5"`
	MoodDistribution MoodDistribution `json:"moodDistribution" jsonschema:"required"`
	LastUpdated      *string          `json:"lastUpdated" jsonschema:"format=date-time"`
}

// EntriesBlob is the single unit persisted under EntriesKey
type EntriesBlob struct {
	Entries []MoodEntry `json:"entries" jsonschema:"required"`
	Stats   TeamStats   `json:"stats" jsonschema:"required"`
}

// NewEntriesBlob returns the blob used when nothing is stored yet
func NewEntriesBlob() *EntriesBlob {
	return &EntriesBlob{Entries: []MoodEntry{}}
}

// EmotionLogRecord is one detection tick. On the wire the emotion confidences are
// flattened next to timestamp/source/sessionId, e.g.
// {"timestamp":"...","source":"combined","sessionId":"session_1","happy":0.8,...}
type EmotionLogRecord struct {
	Timestamp string
	Source    string
	SessionID string
	Emotions  Emotions
}

// GetCreatedAt parses the record timestamp, returning the zero time on failure
func (r EmotionLogRecord) GetCreatedAt() time.Time {
	t, err := ParseTimestamp(r.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}

// SessionKey returns the grouping key for the record
func (r EmotionLogRecord) SessionKey() string {
	if r.SessionID == "" {
		return UnknownSessionID
	}
	return r.SessionID
}

func (r EmotionLogRecord) toMap() map[string]interface{} {
	m := make(map[string]interface{}, len(r.Emotions)+3)
	if r.Timestamp != "" {
		m["timestamp"] = r.Timestamp
	}
	if r.Source != "" {
		m["source"] = r.Source
	}
	if r.SessionID != "" {
		m["sessionId"] = r.SessionID
	}
	for name, v := range r.Emotions {
		m[name] = v
	}
	return m
}

func (r *EmotionLogRecord) fromMap(m map[string]interface{}) {
	*r = EmotionLogRecord{Emotions: Emotions{}}
	if v, ok := m["timestamp"].(string); ok {
		r.Timestamp = v
	}
	if v, ok := m["source"].(string); ok {
		r.Source = v
	}
	if v, ok := m["sessionId"].(string); ok {
		r.SessionID = v
	}
	// non-numeric emotion values are ignored, as the history view did
	for _, name := range EmotionNames {
		switch v := m[name].(type) {
		case float64:
			r.Emotions[name] = v
		case int:
			r.Emotions[name] = float64(v)
		}
	}
}

// MarshalJSON flattens the record
func (r EmotionLogRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.toMap())
}

// UnmarshalJSON reads a flattened record
func (r *EmotionLogRecord) UnmarshalJSON(data []byte) error {
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	r.fromMap(m)
	return nil
}

// MarshalYAML flattens the record the same way as JSON
func (r EmotionLogRecord) MarshalYAML() (interface{}, error) {
	return r.toMap(), nil
}

// UnmarshalYAML reads a flattened record
func (r *EmotionLogRecord) UnmarshalYAML(value *yaml.Node) error {
	var m map[string]interface{}
	if err := value.Decode(&m); err != nil {
		return err
	}
	r.fromMap(m)
	return nil
}

// roundHalfUp rounds .5 toward positive infinity
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// IntPtr is a small helper for optional ratings
func IntPtr(v int) *int {
	return &v
}
