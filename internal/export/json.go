package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/teampulse/internal"
)

// JSONExporter exports sessions in JSON format (pretty-printed)
type JSONExporter struct{}

type jsonSession struct {
	ID      string                      `json:"id"`
	Label   string                      `json:"label"`
	Summary []internal.EmotionAverage   `json:"summary"`
	Records []internal.EmotionLogRecord `json:"records"`
}

// Export exports a session to JSON format
func (e *JSONExporter) Export(session *internal.Session, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	records := session.Records
	if records == nil {
		records = []internal.EmotionLogRecord{}
	}
	return enc.Encode(jsonSession{
		ID:      session.ID,
		Label:   internal.FormatSessionID(session.ID),
		Summary: internal.Summarize(records),
		Records: records,
	})
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
