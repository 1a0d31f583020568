package tabular

import "testing"

func TestExtractTranslatable_Heuristic(t *testing.T) {
	tbl := &Table{
		Columns: []string{"item_id", "description", "price", "flag"},
		Rows: [][]string{
			{"1001", "A gleaming longsword", "12.50", "on"},
			{"1002", "Wooden buckler", "3.00", "off"},
		},
	}

	cells := ExtractTranslatable(tbl, nil)

	if len(cells) != 2 {
		t.Fatalf("expected 2 cells (description column only), got %d: %v", len(cells), cells)
	}
	for _, c := range cells {
		if c.Col != 1 {
			t.Errorf("expected only column 1 selected, got cell %+v", c)
		}
	}
	if cells[0].Text != "A gleaming longsword" || cells[1].Text != "Wooden buckler" {
		t.Errorf("unexpected texts: %v", cells)
	}
}

func TestExtractTranslatable_NameHintsExcluded(t *testing.T) {
	// "updated_time" contains "time" even though the values are texty.
	tbl := &Table{
		Columns: []string{"updated_time", "story"},
		Rows: [][]string{
			{"yesterday evening", "Once upon a time"},
		},
	}

	cells := ExtractTranslatable(tbl, nil)
	if len(cells) != 1 || cells[0].Col != 1 {
		t.Errorf("expected only the story column, got %v", cells)
	}
}

func TestExtractTranslatable_ExplicitColumns(t *testing.T) {
	tbl := &Table{
		Columns: []string{"key", "desc"},
		Rows: [][]string{
			{"ab", "hello there"},
		},
	}

	cells := ExtractTranslatable(tbl, []string{"key"})
	if len(cells) != 1 || cells[0].Col != 0 {
		t.Fatalf("explicit column selection ignored: %v", cells)
	}
}

func TestExtractTranslatable_SkipsShortAndEmptyCells(t *testing.T) {
	tbl := &Table{
		Columns: []string{"desc"},
		Rows: [][]string{
			{"a full sentence"},
			{""},
			{"x"},   // single character
			{"  "},  // whitespace only
			{"ok!"}, // short but more than one character
		},
	}

	cells := ExtractTranslatable(tbl, []string{"desc"})
	if len(cells) != 2 {
		t.Fatalf("expected 2 cells, got %d: %v", len(cells), cells)
	}
	if cells[0].Row != 0 || cells[1].Row != 4 {
		t.Errorf("unexpected rows: %v", cells)
	}
}

func TestExtractTranslatable_RowMajorOrder(t *testing.T) {
	tbl := &Table{
		Columns: []string{"a", "b"},
		Rows: [][]string{
			{"first cell", "second cell"},
			{"third cell", "fourth cell"},
		},
	}

	cells := ExtractTranslatable(tbl, []string{"a", "b"})
	want := []string{"first cell", "second cell", "third cell", "fourth cell"}
	if len(cells) != 4 {
		t.Fatalf("expected 4 cells, got %d", len(cells))
	}
	for i, w := range want {
		if cells[i].Text != w {
			t.Errorf("cells[%d] = %q, want %q", i, cells[i].Text, w)
		}
	}
}
