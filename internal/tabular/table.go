// Package tabular loads translatable files into a uniform table shape,
// extracts the cells worth translating, and merges results back as
// additional columns.
//
// Supported formats: xlsx (first sheet), csv (delimiter-sniffed,
// encoding-detected) and plain txt (one row per non-empty line).
package tabular

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat marks a file extension the loader does not handle.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Format identifies how a table was loaded and how it will be written back.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatTXT  Format = "txt"
)

// Table is an ordered grid: named columns and rows of string cells. Every
// row is padded to the column count.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Metadata describes format details captured on read so a write-back can
// preserve them. Fields apply per format: Sheet for xlsx, Encoding and
// Delimiter for csv, Encoding and LineCount for txt.
type Metadata struct {
	Format    Format
	Sheet     string
	Encoding  string
	Delimiter rune
	LineCount int
}

// Cell is one translatable unit located by row and column index.
type Cell struct {
	Row  int
	Col  int
	Text string
}

// Translation pairs a cell position with its source and translated text,
// ready to merge back into the table.
type Translation struct {
	Row        int
	Col        int
	Original   string
	Translated string
}

// ColumnName returns the header of column idx.
func (t *Table) ColumnName(idx int) (string, error) {
	if idx < 0 || idx >= len(t.Columns) {
		return "", fmt.Errorf("column index %d out of range (%d columns)", idx, len(t.Columns))
	}
	return t.Columns[idx], nil
}

// cellAt returns the cell value or "" when the row is shorter than the
// column count.
func (t *Table) cellAt(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}
