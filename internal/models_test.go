package internal

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/iksnae/teampulse/testutil"
)

func TestModalityRatings_AverageMood(t *testing.T) {
	tests := []struct {
		name    string
		ratings ModalityRatings
		want    *int
	}{
		{"all present", ModalityRatings{Video: IntPtr(5), Audio: IntPtr(4), Text: IntPtr(3)}, IntPtr(4)},
		{"half rounds up", ModalityRatings{Video: IntPtr(4), Text: IntPtr(5)}, IntPtr(5)},
		{"below half rounds down", ModalityRatings{Video: IntPtr(1), Audio: IntPtr(1), Text: IntPtr(2)}, IntPtr(1)},
		{"single", ModalityRatings{Audio: IntPtr(2)}, IntPtr(2)},
		{"none", ModalityRatings{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.ratings.AverageMood()); diff != "" {
				t.Errorf("AverageMood() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestModalityRatings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ratings ModalityRatings
		field   string
	}{
		{"valid", ModalityRatings{Video: IntPtr(1), Audio: IntPtr(5)}, ""},
		{"empty", ModalityRatings{}, ""},
		{"too high", ModalityRatings{Video: IntPtr(6)}, "videoMood"},
		{"zero", ModalityRatings{Text: IntPtr(0)}, "textMood"},
		{"negative audio", ModalityRatings{Audio: IntPtr(-1)}, "audioMood"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ratings.Validate()
			if tt.field == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			ve, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Field = %q, want %q", ve.Field, tt.field)
			}
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 3, 1, 9, 30, 0, 500_000_000, time.UTC)

	for _, s := range []string{"2024-03-01T09:30:00.500Z", "2024-03-01T10:30:00.5+01:00"} {
		got, err := ParseTimestamp(s)
		if err != nil {
			t.Fatalf("ParseTimestamp(%q) error = %v", s, err)
		}
		if !got.Equal(want) {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", s, got, want)
		}
	}

	if got := FormatTimestamp(want.In(time.FixedZone("x", 3600))); got != "2024-03-01T09:30:00.500Z" {
		t.Errorf("FormatTimestamp() = %q", got)
	}

	if _, err := ParseTimestamp("yesterday"); err == nil {
		t.Error("ParseTimestamp(yesterday) should fail")
	}
}

func TestEmotions_Normalize(t *testing.T) {
	e := Emotions{EmotionHappy: 3, EmotionSad: 1}
	e.Normalize()
	if diff := cmp.Diff(Emotions{EmotionHappy: 0.75, EmotionSad: 0.25}, e); diff != "" {
		t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
	}

	zero := Emotions{EmotionHappy: 0}
	zero.Normalize()
	if zero[EmotionHappy] != 0 {
		t.Errorf("Normalize() changed a zero vector: %v", zero)
	}
}

func TestEmotionLogRecord_FlattenedJSON(t *testing.T) {
	rec := EmotionLogRecord{
		Timestamp: "2024-03-01T09:30:00.000Z",
		Source:    SourceCombined,
		SessionID: "session_1709285400000",
		Emotions:  Emotions{EmotionHappy: 0.7, EmotionNeutral: 0.4},
	}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var flat map[string]interface{}
	if err := json.Unmarshal(data, &flat); err != nil {
		t.Fatal(err)
	}
	wantFlat := map[string]interface{}{
		"timestamp": "2024-03-01T09:30:00.000Z",
		"source":    "combined",
		"sessionId": "session_1709285400000",
		"happy":     0.7,
		"neutral":   0.4,
	}
	if diff := cmp.Diff(wantFlat, flat); diff != "" {
		t.Errorf("flattened JSON mismatch (-want +got):\n%s", diff)
	}

	var got EmotionLogRecord
	raw := `{"timestamp":"2024-03-01T09:30:00.000Z","source":"text","happy":0.5,"sad":"high","extra":1}`
	if err := json.Unmarshal([]byte(raw), &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	want := EmotionLogRecord{
		Timestamp: "2024-03-01T09:30:00.000Z",
		Source:    SourceText,
		Emotions:  Emotions{EmotionHappy: 0.5},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Unmarshal() mismatch (-want +got):\n%s", diff)
	}
	if got.SessionKey() != UnknownSessionID {
		t.Errorf("SessionKey() = %q, want %q", got.SessionKey(), UnknownSessionID)
	}
}

func TestIsEmotionName(t *testing.T) {
	for _, name := range EmotionNames {
		if !IsEmotionName(name) {
			t.Errorf("IsEmotionName(%q) = false", name)
		}
	}
	for _, name := range []string{"", "bored", "Happy"} {
		if IsEmotionName(name) {
			t.Errorf("IsEmotionName(%q) = true", name)
		}
	}
}

func TestMoodEntry_JSONNullRatings(t *testing.T) {
	entry := MoodEntry{ID: 1709285400000, Timestamp: "2024-03-01T09:30:00.000Z", TextMood: IntPtr(2), Mood: IntPtr(2)}

	var m map[string]interface{}
	testutil.JSONUnmarshal(t, testutil.JSONMarshal(t, entry), &m)

	for _, key := range []string{"videoMood", "audioMood"} {
		v, ok := m[key]
		if !ok || v != nil {
			t.Errorf("%s = %v (present %v), want null", key, v, ok)
		}
	}
	if m["notes"] != "" {
		t.Errorf("notes = %v, want empty string", m["notes"])
	}

	var back MoodEntry
	testutil.JSONUnmarshal(t, testutil.JSONMarshal(t, entry), &back)
	if diff := cmp.Diff(entry, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
