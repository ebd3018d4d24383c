package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iksnae/teampulse/internal"
	"gopkg.in/yaml.v3"
)

func TestYAMLExporter_Export(t *testing.T) {
	session := internal.CreateTestSession("session_1709285400000")

	var buf bytes.Buffer
	if err := (&YAMLExporter{}).Export(session, &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{"id: session_1709285400000", "summary:", "emotion: happy", "source: combined"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	var decoded yamlSession
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Export() produced invalid YAML: %v", err)
	}
	if len(decoded.Records) != 2 {
		t.Fatalf("decoded %d records, want 2", len(decoded.Records))
	}
	if got := decoded.Records[1].Emotions[internal.EmotionNeutral]; got != 0.4 {
		t.Errorf("records[1].neutral = %v, want 0.4", got)
	}
	if decoded.Records[0].SessionID != session.ID {
		t.Errorf("records[0].sessionId = %q, want %q", decoded.Records[0].SessionID, session.ID)
	}
}
