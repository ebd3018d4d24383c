package export

import (
	"io"

	"github.com/iksnae/teampulse/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter exports sessions in YAML format
type YAMLExporter struct{}

type yamlSession struct {
	ID      string                      `yaml:"id"`
	Label   string                      `yaml:"label"`
	Summary []internal.EmotionAverage   `yaml:"summary"`
	Records []internal.EmotionLogRecord `yaml:"records"`
}

// Export exports a session to YAML format
func (e *YAMLExporter) Export(session *internal.Session, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()

	return enc.Encode(yamlSession{
		ID:      session.ID,
		Label:   internal.FormatSessionID(session.ID),
		Summary: internal.Summarize(session.Records),
		Records: session.Records,
	})
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
