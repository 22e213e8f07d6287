package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/tabclean/internal/table"
)

// NumericSummary is the descriptive-statistics row of a numeric column.
type NumericSummary struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
	Mean   Float  `json:"mean"`
	Std    Float  `json:"std"`
	Min    Float  `json:"min"`
	Q25    Float  `json:"p25"`
	Q50    Float  `json:"p50"`
	Q75    Float  `json:"p75"`
	Max    Float  `json:"max"`
}

// CategoryCount is one distinct value and how often it occurs.
type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// CategoricalSummary holds the value counts of a text column, by descending count.
type CategoricalSummary struct {
	Column string          `json:"column"`
	Counts []CategoryCount `json:"counts"`
}

// Describe computes count, mean, sample std, min, quartiles and max for every
// numeric column. It never mutates t.
func Describe(t *table.Table) []NumericSummary {
	var out []NumericSummary
	for _, c := range t.ColumnsOf(table.KindNumeric) {
		out = append(out, describeColumn(c))
	}
	return out
}

func describeColumn(c *table.Column) NumericSummary {
	vals := c.Numbers()
	s := NumericSummary{Column: c.Name, Count: len(vals)}
	lo, hi := Range(vals)
	q := Quantiles(vals, 0.25, 0.5, 0.75)
	s.Mean = Float(Mean(vals))
	s.Std = Float(StdDev(vals))
	s.Min, s.Max = Float(lo), Float(hi)
	s.Q25, s.Q50, s.Q75 = Float(q[0]), Float(q[1]), Float(q[2])
	return s
}

// ValueCounts returns, per categorical or mixed column, each distinct
// non-missing value with its count. Ties keep first-appearance order.
func ValueCounts(t *table.Table) []CategoricalSummary {
	var out []CategoricalSummary
	for _, c := range t.ColumnsOf(table.KindCategorical, table.KindMixed) {
		out = append(out, CategoricalSummary{Column: c.Name, Counts: CountValues(c)})
	}
	return out
}

// CountValues counts the distinct non-missing values of c by descending
// count; ties keep first-appearance order.
func CountValues(c *table.Column) []CategoryCount {
	idx := map[string]int{}
	var counts []CategoryCount
	for _, v := range c.Values {
		if v.Missing {
			continue
		}
		i, ok := idx[v.Raw]
		if !ok {
			i = len(counts)
			idx[v.Raw] = i
			counts = append(counts, CategoryCount{Value: v.Raw})
		}
		counts[i].Count++
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	return counts
}

// ColumnInfo is the schema line of a column in a Report.
type ColumnInfo struct {
	Name    string     `json:"name"`
	Kind    table.Kind `json:"kind"`
	NonNull int        `json:"non_null"`
	Missing int        `json:"missing"`
}

// Report bundles the schema and both summary views of a table.
type Report struct {
	Name        string               `json:"name,omitempty"`
	Rows        int                  `json:"rows"`
	Cols        []ColumnInfo         `json:"columns"`
	Numeric     []NumericSummary     `json:"numeric"`
	Categorical []CategoricalSummary `json:"categorical"`
	Samples     [][]string           `json:"samples,omitempty"`
	Warnings    []string             `json:"warnings,omitempty"`
}

// Options controls report building.
type Options struct {
	// SampleRows determines how many example rows to include in the report.
	SampleRows int
}

// DefaultOptions returns reasonable defaults for reports.
func DefaultOptions() Options {
	return Options{SampleRows: 5}
}

// maxTopValues caps the categories listed per column in Markdown.
const maxTopValues = 8

// Summarize builds a Report for t.
func Summarize(t *table.Table, opt Options) *Report {
	rep := &Report{Name: t.Name, Rows: t.NumRows()}
	for _, c := range t.Columns {
		miss := c.MissingCount()
		rep.Cols = append(rep.Cols, ColumnInfo{Name: c.Name, Kind: c.Kind, NonNull: len(c.Values) - miss, Missing: miss})
		if c.Kind == table.KindMixed {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("column %q mixes numbers and text; it is treated as categorical", c.Name))
		}
	}
	rep.Numeric = Describe(t)
	rep.Categorical = ValueCounts(t)
	if opt.SampleRows > 0 {
		rep.Samples = t.Head(opt.SampleRows).Rows
	}
	return rep
}

// Markdown renders a compact report suitable for terminals or standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)\n", safeName(c.Name), c.Kind, c.NonNull, missPct))
	}

	if len(r.Numeric) > 0 {
		b.WriteString("\n[NUMERIC SUMMARY]\n")
		b.WriteString("| column | count | mean | std | min | 25% | 50% | 75% | max |\n")
		b.WriteString("| --- | --- | --- | --- | --- | --- | --- | --- | --- |\n")
		for _, s := range r.Numeric {
			b.WriteString(fmt.Sprintf("| %s | %d | %s | %s | %s | %s | %s | %s | %s |\n",
				safeVal(s.Column), s.Count, num(s.Mean), num(s.Std), num(s.Min), num(s.Q25), num(s.Q50), num(s.Q75), num(s.Max)))
		}
	}

	if len(r.Categorical) > 0 {
		b.WriteString("\n[CATEGORICAL VALUE COUNTS]\n")
		for _, c := range r.Categorical {
			b.WriteString(fmt.Sprintf("- %s: ", safeName(c.Column)))
			lim := len(c.Counts)
			if lim > maxTopValues {
				lim = maxTopValues
			}
			for i := 0; i < lim; i++ {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%s(%d)", safeVal(c.Counts[i].Value), c.Counts[i].Count))
			}
			if len(c.Counts) > lim {
				b.WriteString(fmt.Sprintf("; unique=%d", len(c.Counts)))
			}
			b.WriteString("\n")
		}
	}

	if len(r.Samples) > 0 {
		b.WriteString("\n[HEAD]\n")
		b.WriteString("| ")
		for i, c := range r.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeName(c.Name))
		}
		b.WriteString(" |\n| ")
		for i := range r.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString("---")
		}
		b.WriteString(" |\n")
		for _, row := range r.Samples {
			b.WriteString("| ")
			for i := range r.Cols {
				if i > 0 {
					b.WriteString(" | ")
				}
				val := ""
				if i < len(row) {
					val = row[i]
				}
				if len(val) > 80 {
					val = val[:77] + "..."
				}
				b.WriteString(safeVal(val))
			}
			b.WriteString(" |\n")
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func num(f Float) string {
	v := float64(f)
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.4g", v)
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
