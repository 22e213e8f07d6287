// Package clean implements the missing-value and outlier stages of the
// cleaning pipeline. Every function returns a new table and leaves its input
// untouched.
package clean

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/tabclean/internal/analysis"
	"github.com/KaramelBytes/tabclean/internal/table"
)

// MissingStrategy selects how missing cells are handled.
type MissingStrategy string

const (
	MissingNone       MissingStrategy = "none"
	MissingDrop       MissingStrategy = "drop"
	MissingFillMean   MissingStrategy = "fill-mean"
	MissingFillMedian MissingStrategy = "fill-median"
	MissingFillMode   MissingStrategy = "fill-mode"
)

// MissingStrategies lists the strategies in menu order.
var MissingStrategies = []MissingStrategy{MissingNone, MissingDrop, MissingFillMean, MissingFillMedian, MissingFillMode}

// Label is the human-readable name shown in menus ("Fill Mean").
func (s MissingStrategy) Label() string {
	parts := strings.Split(string(s), "-")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}

// ParseMissingStrategy accepts "fill-mean", "fill_mean", "Fill Mean" and
// similar spellings. An empty string means none.
func ParseMissingStrategy(s string) (MissingStrategy, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "-", "_", "-").Replace(norm)
	if norm == "" {
		return MissingNone, nil
	}
	for _, m := range MissingStrategies {
		if string(m) == norm {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown missing-value strategy %q (use none|drop|fill-mean|fill-median|fill-mode)", s)
}

// Resolve applies a missing-value strategy. It never fails: columns for which
// a fill value is undefined (all missing, or non-numeric for mean/median) are
// left as they are.
func Resolve(t *table.Table, s MissingStrategy) *table.Table {
	switch s {
	case MissingDrop:
		return dropMissing(t)
	case MissingFillMean:
		return fillNumeric(t, analysis.Mean)
	case MissingFillMedian:
		return fillNumeric(t, analysis.Median)
	case MissingFillMode:
		return fillMode(t)
	default:
		return t.Clone()
	}
}

func dropMissing(t *table.Table) *table.Table {
	keep := make([]bool, t.NumRows())
	for i := range keep {
		keep[i] = true
	}
	for _, c := range t.Columns {
		for i, v := range c.Values {
			if v.Missing {
				keep[i] = false
			}
		}
	}
	return t.SelectRows(keep)
}

func fillNumeric(t *table.Table, stat func([]float64) float64) *table.Table {
	out := t.Clone()
	for j, c := range t.Columns {
		if c.Kind != table.KindNumeric {
			continue
		}
		vals := c.Numbers()
		if len(vals) == 0 || len(vals) == len(c.Values) {
			continue
		}
		x := stat(vals)
		if math.IsNaN(x) {
			continue
		}
		out = out.WithColumn(j, fill(c.Values, table.Value{Raw: table.FormatNumber(x), Num: x, IsNum: true}))
	}
	return out
}

func fill(vals []table.Value, with table.Value) []table.Value {
	out := make([]table.Value, len(vals))
	for i, v := range vals {
		if v.Missing {
			out[i] = with
		} else {
			out[i] = v
		}
	}
	return out
}

func fillMode(t *table.Table) *table.Table {
	out := t.Clone()
	for j, c := range t.Columns {
		if c.MissingCount() == 0 {
			continue
		}
		m, ok := Mode(c)
		if !ok {
			continue
		}
		out = out.WithColumn(j, fill(c.Values, m))
	}
	return out
}

// Mode returns the most frequent non-missing value of c. Ties go to the value
// that sorts first: numbers ascending before text, text lexicographically.
// Numeric cells are compared by value, so "1" and "1.0" count together; the
// first spelling seen is returned.
func Mode(c *table.Column) (table.Value, bool) {
	type entry struct {
		v     table.Value
		count int
	}
	byKey := map[string]*entry{}
	var entries []*entry
	for _, v := range c.Values {
		if v.Missing {
			continue
		}
		key := "s:" + v.Raw
		if v.IsNum {
			key = "n:" + table.FormatNumber(v.Num)
		}
		e, ok := byKey[key]
		if !ok {
			e = &entry{v: v}
			byKey[key] = e
			entries = append(entries, e)
		}
		e.count++
	}
	if len(entries) == 0 {
		return table.Value{}, false
	}
	sort.SliceStable(entries, func(a, b int) bool {
		ea, eb := entries[a], entries[b]
		if ea.count != eb.count {
			return ea.count > eb.count
		}
		na, nb := ea.v.IsNum, eb.v.IsNum
		switch {
		case na && nb:
			return ea.v.Num < eb.v.Num
		case na != nb:
			return na
		default:
			return ea.v.Raw < eb.v.Raw
		}
	})
	return entries[0].v, true
}
