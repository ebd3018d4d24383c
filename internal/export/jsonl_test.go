package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/iksnae/teampulse/internal"
)

func TestJSONLExporter_Export(t *testing.T) {
	session := internal.CreateTestSession("session_1709285400000")
	exporter := &JSONLExporter{}

	var buf bytes.Buffer
	if err := exporter.Export(session, &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	var got []internal.EmotionLogRecord
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var rec internal.EmotionLogRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", len(got)+1, err)
		}
		got = append(got, rec)
	}
	if err := scanner.Err(); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(session.Records, got); diff != "" {
		t.Errorf("JSONL round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONLExporter_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONLExporter{}).Export(&internal.Session{ID: "empty"}, &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Export() = %q, want no output", buf.String())
	}
}
