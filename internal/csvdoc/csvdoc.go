// Package csvdoc is a document collaborator over CSV tables. Each selected
// cell becomes one plain-text occurrence addressed by a "row:col" location.
// CSV carries no character formatting and no merged regions, so every
// occurrence has a single implicit segment and no mirror group.
package csvdoc

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/valpere/doctran/internal/document"
)

// Table is an in-memory CSV document.
type Table struct {
	records [][]string
	columns map[int]bool // nil means every column
}

// Load parses CSV from r. columns selects the 0-indexed columns to expose
// as occurrences; nil or empty selects all.
func Load(r io.Reader, columns []int) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	t := &Table{records: records}
	if len(columns) > 0 {
		t.columns = make(map[int]bool, len(columns))
		for _, c := range columns {
			t.columns[c] = true
		}
	}
	return t, nil
}

// Occurrences extracts one occurrence per selected, non-empty cell.
func (t *Table) Occurrences() []document.TextOccurrence {
	var occs []document.TextOccurrence
	for row, record := range t.records {
		for col, cell := range record {
			if cell == "" {
				continue
			}
			if t.columns != nil && !t.columns[col] {
				continue
			}
			occs = append(occs, document.TextOccurrence{
				RawText:  cell,
				Location: cellLocation(row, col),
			})
		}
	}
	return occs
}

// ApplyText writes the segments' concatenated text back into the cell.
func (t *Table) ApplyText(loc document.Location, segments []document.FormatSegment) error {
	row, col, err := parseLocation(loc)
	if err != nil {
		return err
	}
	if row < 0 || row >= len(t.records) || col < 0 || col >= len(t.records[row]) {
		return fmt.Errorf("location %s out of range", loc)
	}

	text := ""
	for _, s := range segments {
		text += s.Text
	}
	t.records[row][col] = text
	return nil
}

// ResolveMirrorGroup always reports no group: CSV has no merged regions.
func (t *Table) ResolveMirrorGroup(document.Location) (*document.MirrorGroup, bool) {
	return nil, false
}

// Write serializes the table back to CSV.
func (t *Table) Write(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(t.records); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	writer.Flush()
	return writer.Error()
}

func cellLocation(row, col int) document.Location {
	return document.Location(fmt.Sprintf("%d:%d", row, col))
}

func parseLocation(loc document.Location) (row, col int, err error) {
	if _, err = fmt.Sscanf(string(loc), "%d:%d", &row, &col); err != nil {
		return 0, 0, fmt.Errorf("invalid location %q: %w", loc, err)
	}
	return row, col, nil
}
