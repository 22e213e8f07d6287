package table

import (
	"fmt"
	"strings"
)

// Kind is the inferred logical type of a column.
type Kind int

const (
	// KindNumeric columns hold only numbers (or nothing but missing cells).
	KindNumeric Kind = iota
	// KindCategorical columns hold only non-numeric text.
	KindCategorical
	// KindMixed columns hold both numbers and text.
	KindMixed
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindCategorical:
		return "categorical"
	case KindMixed:
		return "mixed"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind by name in JSON payloads.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Value is a single cell. Raw keeps the text as it was read so that export
// reproduces the upload; Num is only meaningful when IsNum is set.
type Value struct {
	Raw     string
	Num     float64
	IsNum   bool
	Missing bool
}

// Column is a named, typed column of cells.
type Column struct {
	Name   string
	Kind   Kind
	Values []Value
}

// Numbers returns the non-missing numeric cells of the column in row order.
func (c *Column) Numbers() []float64 {
	out := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if !v.Missing && v.IsNum {
			out = append(out, v.Num)
		}
	}
	return out
}

// MissingCount reports how many cells are missing.
func (c *Column) MissingCount() int {
	n := 0
	for _, v := range c.Values {
		if v.Missing {
			n++
		}
	}
	return n
}

// Table is an in-memory dataset: ordered, uniquely named columns with
// positionally aligned rows. Transformations never mutate a Table in place;
// they return a new one.
type Table struct {
	Name    string
	Columns []*Column
	rows    int
}

// New builds a table from a header and string records. Cells are classified
// as missing or numeric and each column's kind is inferred. Records shorter
// than the header are padded with missing cells.
func New(header []string, records [][]string, opt ParseOptions) (*Table, error) {
	names := uniqueNames(header)
	for i, rec := range records {
		if len(rec) > len(names) {
			return nil, fmt.Errorf("row %d: expected %d fields, saw %d", i+1, len(names), len(rec))
		}
	}
	t := &Table{Columns: make([]*Column, len(names)), rows: len(records)}
	for j, name := range names {
		vals := make([]Value, len(records))
		for i, rec := range records {
			raw := ""
			if j < len(rec) {
				raw = rec[j]
			}
			vals[i] = classify(raw, opt)
		}
		t.Columns[j] = newColumn(name, vals)
	}
	return t, nil
}

// newColumn infers the column kind. Cells that parsed as numbers inside a
// column that is not numeric keep IsNum so that mixed columns can still be
// ordered numerically where it matters.
func newColumn(name string, vals []Value) *Column {
	var nums, texts int
	for _, v := range vals {
		if v.Missing {
			continue
		}
		if v.IsNum {
			nums++
		} else {
			texts++
		}
	}
	kind := KindNumeric
	switch {
	case texts > 0 && nums > 0:
		kind = KindMixed
	case texts > 0:
		kind = KindCategorical
	}
	return &Column{Name: name, Kind: kind, Values: vals}
}

// uniqueNames mangles duplicate and empty headers: a repeated "x" becomes
// "x.1", "x.2"; an empty header at index i becomes "Unnamed: i".
func uniqueNames(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	taken := make(map[string]bool, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		taken[name] = true
		out[i] = name
	}
	for i, name := range out {
		n := seen[name]
		seen[name] = n + 1
		if n == 0 {
			continue
		}
		cand := fmt.Sprintf("%s.%d", name, n)
		for taken[cand] {
			n++
			cand = fmt.Sprintf("%s.%d", name, n)
		}
		seen[name] = n + 1
		taken[cand] = true
		out[i] = cand
	}
	return out
}

// NumRows returns the row count shared by every column.
func (t *Table) NumRows() int { return t.rows }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.Columns) }

// Names returns the column names in order.
func (t *Table) Names() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// Column looks up a column by exact name.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// ColumnsOf returns the columns with the given kinds, in table order.
func (t *Table) ColumnsOf(kinds ...Kind) []*Column {
	var out []*Column
	for _, c := range t.Columns {
		for _, k := range kinds {
			if c.Kind == k {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// Row returns the raw strings of row i in column order.
func (t *Table) Row(i int) []string {
	out := make([]string, len(t.Columns))
	for j, c := range t.Columns {
		if !c.Values[i].Missing {
			out[j] = c.Values[i].Raw
		}
	}
	return out
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{Name: t.Name, Columns: make([]*Column, len(t.Columns)), rows: t.rows}
	for j, c := range t.Columns {
		vals := make([]Value, len(c.Values))
		copy(vals, c.Values)
		out.Columns[j] = &Column{Name: c.Name, Kind: c.Kind, Values: vals}
	}
	return out
}

// WithColumn returns a copy of the table whose column j holds vals. Kinds are
// kept as they were; filling never changes a column's type.
func (t *Table) WithColumn(j int, vals []Value) *Table {
	out := &Table{Name: t.Name, Columns: make([]*Column, len(t.Columns)), rows: t.rows}
	copy(out.Columns, t.Columns)
	c := t.Columns[j]
	out.Columns[j] = &Column{Name: c.Name, Kind: c.Kind, Values: vals}
	return out
}

// SelectRows returns a new table containing the rows where keep is true,
// preserving order. keep must have NumRows entries.
func (t *Table) SelectRows(keep []bool) *Table {
	n := 0
	for _, k := range keep {
		if k {
			n++
		}
	}
	out := &Table{Name: t.Name, Columns: make([]*Column, len(t.Columns)), rows: n}
	for j, c := range t.Columns {
		vals := make([]Value, 0, n)
		for i, v := range c.Values {
			if keep[i] {
				vals = append(vals, v)
			}
		}
		out.Columns[j] = &Column{Name: c.Name, Kind: c.Kind, Values: vals}
	}
	return out
}

// Preview is a rendering-friendly slice of the first rows.
type Preview struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Total   int        `json:"total_rows"`
}

// Head returns the first n rows; n <= 0 yields only the header.
func (t *Table) Head(n int) Preview {
	if n > t.rows {
		n = t.rows
	}
	if n < 0 {
		n = 0
	}
	p := Preview{Columns: t.Names(), Rows: make([][]string, n), Total: t.rows}
	for i := 0; i < n; i++ {
		p.Rows[i] = t.Row(i)
	}
	return p
}
