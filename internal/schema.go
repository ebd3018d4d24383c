package internal

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// BlobSchema is the JSON Schema of one persisted key
type BlobSchema struct {
	Key    string
	Schema *jsonschema.Schema
}

// JSONSchema describes the flattened wire form of a record
func (EmotionLogRecord) JSONSchema() *jsonschema.Schema {
	props := jsonschema.NewProperties()
	props.Set("timestamp", &jsonschema.Schema{Type: "string", Format: "date-time"})

	sources := make([]interface{}, len(RecordSources))
	for i, s := range RecordSources {
		sources[i] = s
	}
	props.Set("source", &jsonschema.Schema{Type: "string", Enum: sources})
	props.Set("sessionId", &jsonschema.Schema{Type: "string", Description: "Detection session, session_<unix ms> when produced by the tracker"})

	for _, name := range EmotionNames {
		props.Set(name, &jsonschema.Schema{
			Type:    "number",
			Minimum: json.Number("0"),
			Maximum: json.Number("1"),
		})
	}

	return &jsonschema.Schema{
		Type:       "object",
		Title:      "EmotionLogRecord",
		Properties: props,
		Required:   []string{"timestamp", "source"},
	}
}

func newSchemaReflector() *jsonschema.Reflector {
	return &jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
}

// BlobSchemas returns the schemas of the blobs kept in the KV store
func BlobSchemas() []BlobSchema {
	r := newSchemaReflector()

	entries := r.Reflect(&EntriesBlob{})
	entries.Title = "TeamPulse entries"

	logs := r.Reflect([]EmotionLogRecord{})
	logs.Title = "TeamPulse emotion log"
	logs.Description = "Most recent detection ticks, oldest first"

	return []BlobSchema{
		{Key: EntriesKey, Schema: entries},
		{Key: EmotionLogsKey, Schema: logs},
	}
}

// FindBlobSchema returns the schema for key
func FindBlobSchema(key string) (*jsonschema.Schema, bool) {
	for _, s := range BlobSchemas() {
		if s.Key == key {
			return s.Schema, true
		}
	}
	return nil, false
}
