package export

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iksnae/teampulse/internal"
)

// CSVColumns is the fixed column order of CSV exports
var CSVColumns = append([]string{"timestamp", "source", "sessionId"}, internal.EmotionNames...)

// CSVExporter exports session records as CSV. String fields are wrapped in
// double quotes without escaping, numbers are written bare and missing values
// are left empty. Quotes or commas inside strings are not escaped.
type CSVExporter struct{}

// Export exports a session to CSV format
func (e *CSVExporter) Export(session *internal.Session, w io.Writer) error {
	return WriteCSV(w, session.Records)
}

// Extension returns the file extension for this format
func (e *CSVExporter) Extension() string {
	return "csv"
}

// WriteCSV writes records under the CSV header, one newline-terminated row each
func WriteCSV(w io.Writer, records []internal.EmotionLogRecord) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(strings.Join(CSVColumns, ",") + "\n"); err != nil {
		return err
	}

	fields := make([]string, len(CSVColumns))
	for _, rec := range records {
		fields[0] = quoteField(rec.Timestamp)
		fields[1] = quoteField(rec.Source)
		fields[2] = quoteField(rec.SessionID)
		for i, name := range internal.EmotionNames {
			fields[3+i] = ""
			if v, ok := rec.Emotions[name]; ok {
				fields[3+i] = strconv.FormatFloat(v, 'f', -1, 64)
			}
		}
		if _, err := bw.WriteString(strings.Join(fields, ",") + "\n"); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func quoteField(s string) string {
	if s == "" {
		return ""
	}
	return `"` + s + `"`
}

// ParseCSV reads records written by WriteCSV. Columns are matched by header
// name, so extra or reordered columns are tolerated.
func ParseCSV(r io.Reader) ([]internal.EmotionLogRecord, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, &internal.ParseError{Source: "csv", Key: "header", Err: err}
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	if _, ok := index["timestamp"]; !ok {
		return nil, &internal.ParseError{Source: "csv", Key: "header", Err: fmt.Errorf("missing timestamp column")}
	}

	field := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var records []internal.EmotionLogRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &internal.ParseError{Source: "csv", Key: fmt.Sprintf("line %d", line), Err: err}
		}

		rec := internal.EmotionLogRecord{
			Timestamp: field(row, "timestamp"),
			Source:    field(row, "source"),
			SessionID: field(row, "sessionId"),
			Emotions:  internal.Emotions{},
		}
		for _, name := range internal.EmotionNames {
			raw := strings.TrimSpace(field(row, name))
			if raw == "" {
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, &internal.ParseError{Source: "csv", Key: fmt.Sprintf("line %d %s", line, name), Err: err}
			}
			rec.Emotions[name] = v
		}
		records = append(records, rec)
	}

	return records, nil
}
