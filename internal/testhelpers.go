package internal

import (
	"time"
)

// testSessionStart is the first record time of sessions built by CreateTestSession
var testSessionStart = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

// CreateTestRecord creates a log record with the given confidences
func CreateTestRecord(sessionID, source string, at time.Time, emotions Emotions) EmotionLogRecord {
	return EmotionLogRecord{
		Timestamp: FormatTimestamp(at),
		Source:    source,
		SessionID: sessionID,
		Emotions:  emotions,
	}
}

// CreateTestSession creates a session with one audio and one combined record
func CreateTestSession(id string) *Session {
	return &Session{
		ID: id,
		Records: []EmotionLogRecord{
			CreateTestRecord(id, SourceAudio, testSessionStart, Emotions{
				EmotionHappy:     0.5,
				EmotionSad:       0.1,
				EmotionAngry:     0.05,
				EmotionSurprised: 0.15,
				EmotionFearful:   0.05,
				EmotionDisgusted: 0,
				EmotionNeutral:   0.15,
			}),
			CreateTestRecord(id, SourceCombined, testSessionStart.Add(100*time.Millisecond), Emotions{
				EmotionHappy:   0.7,
				EmotionSad:     0.1,
				EmotionAngry:   0.05,
				EmotionNeutral: 0.4,
			}),
		},
	}
}

// CreateTestSessionWithRecords creates a session with custom records
func CreateTestSessionWithRecords(id string, records []EmotionLogRecord) *Session {
	return &Session{ID: id, Records: records}
}

// CreateTestEntry creates an entry with the given ratings and a derived mood
func CreateTestEntry(id int64, at time.Time, ratings ModalityRatings, notes string) MoodEntry {
	return MoodEntry{
		ID:        id,
		Timestamp: FormatTimestamp(at),
		VideoMood: ratings.Video,
		AudioMood: ratings.Audio,
		TextMood:  ratings.Text,
		Notes:     notes,
		Mood:      ratings.AverageMood(),
	}
}
