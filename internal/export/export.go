// Package export serializes a table for download.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/tabclean/internal/table"
)

// FileName is the default download name.
const FileName = "cleaned_data.csv"

// SheetName is the sheet written by XLSX.
const SheetName = "cleaned"

// CSV writes a header row followed by one row per record. There is no index
// column; missing cells are written as empty fields. A row holding a single
// empty field is written as "" so readers do not skip it as a blank line.
func CSV(t *table.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Names()); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < t.NumRows(); i++ {
		row := t.Row(i)
		if len(row) == 1 && row[0] == "" {
			w.Flush()
			buf.WriteString("\"\"\n")
			continue
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// XLSX writes the table to a single-sheet workbook. Cells of numeric columns
// are stored as numbers, everything else as text.
func XLSX(t *table.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	header := make([]any, t.NumCols())
	for j, n := range t.Names() {
		header[j] = n
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < t.NumRows(); i++ {
		row := make([]any, t.NumCols())
		for j, c := range t.Columns {
			v := c.Values[i]
			switch {
			case v.Missing:
				row[j] = nil
			case c.Kind == table.KindNumeric:
				row[j] = v.Num
			default:
				row[j] = v.Raw
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// ContentType returns the MIME type for a download format.
func ContentType(f table.Format) string {
	if f == table.FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Encode dispatches on the download format.
func Encode(t *table.Table, f table.Format) ([]byte, error) {
	switch f {
	case table.FormatXLSX:
		return XLSX(t)
	case table.FormatCSV, "":
		return CSV(t)
	default:
		return nil, fmt.Errorf("unsupported export format %q", f)
	}
}
