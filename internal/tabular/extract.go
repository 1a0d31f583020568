package tabular

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// nonTextHints are column-name fragments that mark a column as carrying
// identifiers or numbers rather than translatable text.
var nonTextHints = []string{"id", "date", "time", "number", "count", "amount", "price"}

// sampleSize caps how many values are inspected per column when guessing
// whether it holds translatable text.
const sampleSize = 5

// ExtractTranslatable returns the cells worth translating, in row-major
// order. When columns is non-empty only those named columns are scanned;
// otherwise text columns are picked heuristically: names hinting at
// non-text content are excluded, and a column qualifies only when a sample
// of its values contains a string longer than 3 characters. Cells must
// survive trimming with more than one character to be included.
func ExtractTranslatable(tbl *Table, columns []string) []Cell {
	selected := make(map[int]bool)
	if len(columns) > 0 {
		want := make(map[string]bool, len(columns))
		for _, c := range columns {
			want[c] = true
		}
		for idx, name := range tbl.Columns {
			if want[name] {
				selected[idx] = true
			}
		}
	} else {
		for idx := range tbl.Columns {
			if looksTranslatable(tbl, idx) {
				selected[idx] = true
			}
		}
	}

	var cells []Cell
	for rowIdx := range tbl.Rows {
		for colIdx := range tbl.Columns {
			if !selected[colIdx] {
				continue
			}
			text := strings.TrimSpace(tbl.cellAt(rowIdx, colIdx))
			if utf8.RuneCountInString(text) > 1 {
				cells = append(cells, Cell{Row: rowIdx, Col: colIdx, Text: text})
			}
		}
	}
	return cells
}

// looksTranslatable applies the column heuristic: name not hinting at
// non-text content, and at least one sampled value that is a non-numeric
// string longer than 3 characters.
func looksTranslatable(tbl *Table, colIdx int) bool {
	name := strings.ToLower(tbl.Columns[colIdx])
	for _, hint := range nonTextHints {
		if strings.Contains(name, hint) {
			return false
		}
	}

	sampled := 0
	for rowIdx := 0; rowIdx < len(tbl.Rows) && sampled < sampleSize; rowIdx++ {
		v := strings.TrimSpace(tbl.cellAt(rowIdx, colIdx))
		if v == "" {
			continue
		}
		sampled++
		if utf8.RuneCountInString(v) > 3 && !isNumeric(v) {
			return true
		}
	}
	return false
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	return err == nil
}
