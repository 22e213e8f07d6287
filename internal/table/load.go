package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Format is the declared encoding of an upload.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ErrEmptyInput is returned when no file (or a zero-byte file) was supplied.
// Callers treat it as "nothing to do yet", not as a failure.
var ErrEmptyInput = errors.New("no input supplied")

// ParseError reports an upload that is not valid for its declared format.
type ParseError struct {
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// LoadOptions controls parsing of uploads.
type LoadOptions struct {
	ParseOptions
	// Delimiter for CSV. If 0, auto-detects among ',', ';', '\t'.
	Delimiter rune
	// Sheet selects an XLSX sheet by name; empty means the first sheet.
	Sheet string
	// Name is recorded on the loaded table (usually the upload's file name).
	Name string
}

// FormatFromName picks the format from a file name's extension.
func FormatFromName(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".tsv", ".txt":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", &ParseError{Format: Format(strings.TrimPrefix(filepath.Ext(name), ".")), Err: fmt.Errorf("unsupported file type %q", name)}
	}
}

// ParseFormat parses a declared format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv", "tsv", "text":
		return FormatCSV, nil
	case "xlsx", "excel", "spreadsheet":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported format %q (use csv|xlsx)", s)
	}
}

// Load reads an upload into a Table.
func Load(r io.Reader, format Format, opt LoadOptions) (*Table, error) {
	if r == nil {
		return nil, ErrEmptyInput
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}
	var t *Table
	switch format {
	case FormatCSV:
		t, err = loadCSV(data, opt)
	case FormatXLSX:
		t, err = loadXLSX(data, opt)
	default:
		return nil, &ParseError{Format: format, Err: fmt.Errorf("unsupported format")}
	}
	if err != nil {
		return nil, &ParseError{Format: format, Err: err}
	}
	t.Name = opt.Name
	return t, nil
}

func loadCSV(data []byte, opt LoadOptions) (*Table, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(data, opt.Name)
	}
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.Comma = delim

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("no columns to parse")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	var records [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(records)+1, err)
		}
		records = append(records, rec)
	}
	return New(header, records, opt.ParseOptions)
}

// sniffDelimiter picks the most frequent of ',', ';', '\t' on the header
// line, outside quotes. TSV file names default to tabs.
func sniffDelimiter(data []byte, name string) rune {
	if strings.HasSuffix(strings.ToLower(name), ".tsv") {
		return '\t'
	}
	line := data
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	counts := map[rune]int{}
	inQuotes := false
	for _, c := range string(line) {
		switch c {
		case '"':
			inQuotes = !inQuotes
		case ',', ';', '\t':
			if !inQuotes {
				counts[c]++
			}
		}
	}
	best := ','
	for _, c := range []rune{';', '\t'} {
		if counts[c] > counts[best] {
			best = c
		}
	}
	return best
}

func loadXLSX(data []byte, opt LoadOptions) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	sheet := sheets[0]
	if opt.Sheet != "" {
		sheet = ""
		for _, s := range sheets {
			if strings.EqualFold(s, opt.Sheet) {
				sheet = s
				break
			}
		}
		if sheet == "" {
			return nil, fmt.Errorf("sheet '%s' not found.\nAvailable sheets: %s", opt.Sheet, strings.Join(sheets, ", "))
		}
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return New(nil, nil, opt.ParseOptions)
	}
	// GetRows trims trailing empty cells, so the header may be shorter than a
	// data row that has content further right.
	header := rows[0]
	width := len(header)
	for _, row := range rows[1:] {
		if len(row) > width {
			width = len(row)
		}
	}
	for len(header) < width {
		header = append(header, "")
	}
	return New(header, rows[1:], opt.ParseOptions)
}
