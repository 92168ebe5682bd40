package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVExporter writes a dataset as one CSV sheet.
type CSVExporter struct{}

func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render writes the header record, the rows with marked names starred,
// the summary rows and then each note in the first column of its own
// record. Every record has one field per header.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}

	records := make([][]string, 0, 1+len(data.Rows)+len(data.Summary)+len(data.Notes))
	records = append(records, data.Headers)
	for i, row := range data.Rows {
		records = append(records, data.record(row, data.marked(i)))
	}
	for _, row := range data.Summary {
		records = append(records, data.record(row, false))
	}
	for _, note := range data.Notes {
		record := make([]string, len(data.Headers))
		record[0] = note
		records = append(records, record)
	}

	buf := &bytes.Buffer{}
	if err := csv.NewWriter(buf).WriteAll(records); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}
