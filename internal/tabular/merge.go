package tabular

import "sort"

// MergeTranslations returns a new table with one extra column per translated
// source column, named "<original>_translated" and inserted immediately to
// the right of its source. The input table is not modified. Columns are
// processed left to right, so each insertion shifts the positions of later
// source columns by one; the offset bookkeeping below accounts for that.
func MergeTranslations(tbl *Table, translations []Translation) *Table {
	byCol := make(map[int][]Translation)
	for _, tr := range translations {
		byCol[tr.Col] = append(byCol[tr.Col], tr)
	}

	cols := make([]int, 0, len(byCol))
	for col := range byCol {
		cols = append(cols, col)
	}
	sort.Ints(cols)

	out := &Table{
		Columns: append([]string(nil), tbl.Columns...),
		Rows:    make([][]string, len(tbl.Rows)),
	}
	for i, row := range tbl.Rows {
		out.Rows[i] = append([]string(nil), padRow(row, len(tbl.Columns))...)
	}

	offset := 0
	for _, col := range cols {
		srcPos := col + offset
		if srcPos >= len(out.Columns) {
			continue
		}
		insertPos := srcPos + 1

		values := make([]string, len(out.Rows))
		for _, tr := range byCol[col] {
			if tr.Row >= 0 && tr.Row < len(values) {
				values[tr.Row] = tr.Translated
			}
		}

		out.Columns = insertString(out.Columns, insertPos, out.Columns[srcPos]+"_translated")
		for i := range out.Rows {
			out.Rows[i] = insertString(out.Rows[i], insertPos, values[i])
		}
		offset++
	}
	return out
}

func insertString(s []string, pos int, v string) []string {
	s = append(s, "")
	copy(s[pos+1:], s[pos:])
	s[pos] = v
	return s
}
