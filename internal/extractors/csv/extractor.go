package csv

import (
	"bytes"
	"context"
	stdcsv "encoding/csv"
	"fmt"
	"strings"

	"github.com/docuverse/docuverse/internal/core/domain"
	"github.com/docuverse/docuverse/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles CSV files. The first record is treated as the
// header row.
type Extractor struct{}

// New creates a new CSV extractor.
func New() *Extractor {
	return &Extractor{}
}

// Formats returns the formats this extractor handles.
func (e *Extractor) Formats() []domain.Format {
	return []domain.Format{domain.FormatCSV}
}

// Extract parses the CSV into a table and a flattened text rendering.
// Each data row becomes one line of "column: value" pairs so that row
// context survives segmenting.
func (e *Extractor) Extract(_ context.Context, raw *domain.RawFile) (*driven.ExtractResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidArgument
	}

	reader := stdcsv.NewReader(bytes.NewReader(raw.Content))
	reader.FieldsPerRecord = -1 // tolerate ragged rows
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptDocument, err)
	}
	if len(records) == 0 {
		return &driven.ExtractResult{Table: &domain.Table{}}, nil
	}

	columns := records[0]
	rows := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		rows = append(rows, padRow(rec, len(columns)))
	}

	table := &domain.Table{
		Columns: columns,
		Rows:    rows,
	}

	return &driven.ExtractResult{
		Text:  flatten(table),
		Table: table,
	}, nil
}

// padRow extends or trims a record to the header width.
func padRow(rec []string, width int) []string {
	if len(rec) == width {
		return rec
	}
	row := make([]string, width)
	copy(row, rec)
	return row
}

// flatten renders each row as "column: value" pairs on its own line.
func flatten(table *domain.Table) string {
	var b strings.Builder
	for i, row := range table.Rows {
		if i > 0 {
			b.WriteString("\n")
		}
		for j, col := range table.Columns {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(col)
			b.WriteString(": ")
			b.WriteString(row[j])
		}
	}
	return b.String()
}
