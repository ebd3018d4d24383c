package export

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/iksnae/teampulse/internal"
)

func TestNewExporter(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		wantType string
		wantExt  string
		wantErr  bool
	}{
		{
			name:     "csv format",
			format:   "csv",
			wantType: "CSVExporter",
			wantExt:  "csv",
		},
		{
			name:     "empty format defaults to csv",
			format:   "",
			wantType: "CSVExporter",
			wantExt:  "csv",
		},
		{
			name:     "jsonl format",
			format:   "jsonl",
			wantType: "JSONLExporter",
			wantExt:  "jsonl",
		},
		{
			name:     "markdown format",
			format:   "md",
			wantType: "MarkdownExporter",
			wantExt:  "md",
		},
		{
			name:     "markdown format long",
			format:   "markdown",
			wantType: "MarkdownExporter",
			wantExt:  "md",
		},
		{
			name:     "yaml format",
			format:   "yaml",
			wantType: "YAMLExporter",
			wantExt:  "yaml",
		},
		{
			name:     "yml alias",
			format:   "yml",
			wantType: "YAMLExporter",
			wantExt:  "yaml",
		},
		{
			name:     "json format",
			format:   "json",
			wantType: "JSONExporter",
			wantExt:  "json",
		},
		{
			name:    "unsupported format",
			format:  "xml",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exporter, err := NewExporter(tt.format)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewExporter() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}

			if got := fmt.Sprintf("%T", exporter); got != "*export."+tt.wantType {
				t.Errorf("NewExporter() type = %s, want *export.%s", got, tt.wantType)
			}
			if got := exporter.Extension(); got != tt.wantExt {
				t.Errorf("Extension() = %v, want %v", got, tt.wantExt)
			}
		})
	}
}

func TestExporters_EmptySession(t *testing.T) {
	for _, format := range Formats {
		t.Run(format, func(t *testing.T) {
			exporter, err := NewExporter(format)
			if err != nil {
				t.Fatalf("NewExporter(%q) error = %v", format, err)
			}
			var buf bytes.Buffer
			if err := exporter.Export(&internal.Session{ID: "empty"}, &buf); err != nil {
				t.Errorf("Export() error = %v", err)
			}
		})
	}
}

func TestFilename(t *testing.T) {
	day := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		sessionID string
		ext       string
		want      string
	}{
		{"session_1709285400000", "csv", "emotion_session_2024-03-01.csv"},
		{"unknown", "jsonl", "emotion_session_2024-03-01.jsonl"},
		{AllSessionsID, "csv", "all_emotion_data_2024-03-01.csv"},
	}

	for _, tt := range tests {
		if got := Filename(tt.sessionID, day, tt.ext); got != tt.want {
			t.Errorf("Filename(%q, %q) = %q, want %q", tt.sessionID, tt.ext, got, tt.want)
		}
	}
}
