package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// ReadFile loads a file into a Table with format metadata. Errors
// distinguish a missing file (wraps os.ErrNotExist), an unsupported
// extension (wraps ErrUnsupportedFormat) and a parse failure.
func ReadFile(path string) (*Table, *Metadata, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil, fmt.Errorf("stat %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return readXLSX(path)
	case ".csv":
		return readCSV(path)
	case ".txt":
		return readTXT(path)
	default:
		return nil, nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
}

func readXLSX(path string) (*Table, *Metadata, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("parse xlsx %s: workbook has no sheets", path)
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("parse xlsx sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("parse xlsx %s: sheet %s is empty", path, sheet)
	}

	tbl := &Table{Columns: rows[0]}
	for _, row := range rows[1:] {
		tbl.Rows = append(tbl.Rows, padRow(row, len(tbl.Columns)))
	}
	return tbl, &Metadata{Format: FormatXLSX, Sheet: sheet}, nil
}

func readCSV(path string) (*Table, *Metadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	text, encName, err := decodeBytes(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("decode csv %s: %w", path, err)
	}

	delim := sniffDelimiter(text)
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse csv %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("parse csv %s: file is empty", path)
	}

	tbl := &Table{Columns: records[0]}
	for _, row := range records[1:] {
		tbl.Rows = append(tbl.Rows, padRow(row, len(tbl.Columns)))
	}
	return tbl, &Metadata{Format: FormatCSV, Encoding: encName, Delimiter: delim}, nil
}

func readTXT(path string) (*Table, *Metadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	text, encName, err := decodeBytes(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("decode txt %s: %w", path, err)
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	tbl := &Table{Columns: []string{"text"}}
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			tbl.Rows = append(tbl.Rows, []string{trimmed})
		}
	}
	return tbl, &Metadata{Format: FormatTXT, Encoding: encName, LineCount: len(lines)}, nil
}

// WriteFile saves a table using the format implied by the output extension.
// Metadata from the original read (delimiter, encoding, sheet) is honored
// when present; pass nil for defaults.
func WriteFile(tbl *Table, path string, meta *Metadata) error {
	if meta == nil {
		meta = &Metadata{}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return writeXLSX(tbl, path, meta)
	case ".csv":
		return writeCSV(tbl, path, meta)
	case ".txt":
		return writeTXT(tbl, path, meta)
	default:
		return fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
}

func writeXLSX(tbl *Table, path string, meta *Metadata) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := meta.Sheet
	if sheet == "" {
		sheet = "Sheet1"
	}
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return err
	}
	if idx == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
	}

	header := make([]any, len(tbl.Columns))
	for i, c := range tbl.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, row := range tbl.Rows {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, addr, &cells); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

func writeCSV(tbl *Table, path string, meta *Metadata) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if meta.Delimiter != 0 {
		w.Comma = meta.Delimiter
	}
	if err := w.Write(tbl.Columns); err != nil {
		return err
	}
	for _, row := range tbl.Rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return writeEncoded(path, buf.Bytes(), meta.Encoding)
}

func writeTXT(tbl *Table, path string, meta *Metadata) error {
	var sb strings.Builder
	for i, row := range tbl.Rows {
		if i > 0 {
			sb.WriteByte('\n')
		}
		if len(row) > 0 {
			sb.WriteString(row[0])
		}
	}
	return writeEncoded(path, []byte(sb.String()), meta.Encoding)
}

// OutputPath derives the default output location: same directory, the file
// name suffixed before the extension ("items.xlsx" → "items_translated.xlsx").
func OutputPath(inputPath, suffix string) string {
	dir := filepath.Dir(inputPath)
	base := filepath.Base(inputPath)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, name+suffix+ext)
}

// decodeBytes converts raw file bytes to a UTF-8 string, reporting the
// encoding it assumed. Valid UTF-8 (with or without BOM) passes through;
// otherwise GB18030 is tried (the dominant legacy encoding for the game
// text this tool handles), then Windows-1252 as a lossless last resort.
func decodeBytes(raw []byte) (string, string, error) {
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(raw) {
		return string(raw), "utf-8", nil
	}
	if decoded, err := decodeWith(simplifiedchinese.GB18030, raw); err == nil {
		return decoded, "gb18030", nil
	}
	decoded, err := decodeWith(charmap.Windows1252, raw)
	if err != nil {
		return "", "", err
	}
	return decoded, "windows-1252", nil
}

func decodeWith(enc encoding.Encoding, raw []byte) (string, error) {
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// writeEncoded writes UTF-8 content back in the encoding the file was read
// with, so round trips do not silently change the file's charset.
func writeEncoded(path string, utf8Content []byte, encName string) error {
	var enc encoding.Encoding
	switch encName {
	case "gb18030":
		enc = simplifiedchinese.GB18030
	case "windows-1252":
		enc = charmap.Windows1252
	default:
		return os.WriteFile(path, utf8Content, 0o644)
	}
	out, err := enc.NewEncoder().Bytes(utf8Content)
	if err != nil {
		return fmt.Errorf("encode %s as %s: %w", path, encName, err)
	}
	return os.WriteFile(path, out, 0o644)
}

// sniffDelimiter inspects the first line for the most common delimiters in
// precedence order comma, semicolon, tab.
func sniffDelimiter(text string) rune {
	firstLine := text
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		firstLine = text[:idx]
	}
	switch {
	case strings.ContainsRune(firstLine, ','):
		return ','
	case strings.ContainsRune(firstLine, ';'):
		return ';'
	case strings.ContainsRune(firstLine, '\t'):
		return '\t'
	default:
		return ','
	}
}

func padRow(row []string, width int) []string {
	if len(row) >= width {
		return row[:width]
	}
	padded := make([]string, width)
	copy(padded, row)
	return padded
}
