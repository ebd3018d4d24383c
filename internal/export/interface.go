package export

import (
	"fmt"
	"io"
	"time"

	"github.com/iksnae/teampulse/internal"
)

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(session *internal.Session, w io.Writer) error
	Extension() string
}

// Formats lists the supported export formats
var Formats = []string{"csv", "jsonl", "json", "yaml", "md"}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "csv", "":
		return &CSVExporter{}, nil
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: csv, jsonl, md, yaml, json)", format)
	}
}

// AllSessionsID names the pseudo session holding every record of the log
const AllSessionsID = "all"

// Filename returns the default export file name: emotion_session_<date>.<ext>
// for one session and all_emotion_data_<date>.<ext> for the whole log
func Filename(sessionID string, day time.Time, ext string) string {
	date := day.Format("2006-01-02")
	if sessionID == AllSessionsID {
		return fmt.Sprintf("all_emotion_data_%s.%s", date, ext)
	}
	return fmt.Sprintf("emotion_session_%s.%s", date, ext)
}
