package internal

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func schemaMap(t *testing.T, key string) map[string]interface{} {
	t.Helper()
	schema, ok := FindBlobSchema(key)
	require.True(t, ok, key)
	data, err := json.Marshal(schema)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestBlobSchemas(t *testing.T) {
	schemas := BlobSchemas()
	require.Len(t, schemas, 2)
	assert.Equal(t, EntriesKey, schemas[0].Key)
	assert.Equal(t, "TeamPulse entries", schemas[0].Schema.Title)
	assert.Equal(t, EmotionLogsKey, schemas[1].Key)
	assert.Equal(t, "TeamPulse emotion log", schemas[1].Schema.Title)

	_, ok := FindBlobSchema("isLoggedIn")
	assert.False(t, ok)
}

func TestBlobSchema_Entries(t *testing.T) {
	m := schemaMap(t, EntriesKey)
	assert.Equal(t, "object", m["type"])

	props := m["properties"].(map[string]interface{})
	assert.Contains(t, props, "entries")
	assert.Contains(t, props, "stats")
	assert.ElementsMatch(t, []interface{}{"entries", "stats"}, m["required"])
}

func TestBlobSchema_EmotionLog(t *testing.T) {
	m := schemaMap(t, EmotionLogsKey)
	assert.Equal(t, "array", m["type"])

	items := m["items"].(map[string]interface{})
	assert.Equal(t, "EmotionLogRecord", items["title"])
	props := items["properties"].(map[string]interface{})
	for _, name := range append([]string{"timestamp", "source", "sessionId"}, EmotionNames...) {
		assert.Contains(t, props, name)
	}

	source := props["source"].(map[string]interface{})
	assert.Len(t, source["enum"], len(RecordSources))
	happy := props[EmotionHappy].(map[string]interface{})
	assert.Equal(t, float64(1), happy["maximum"])
}
