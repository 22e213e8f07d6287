package clean

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/tabclean/internal/analysis"
	"github.com/KaramelBytes/tabclean/internal/table"
)

// OutlierMethod selects how outlier rows are detected.
type OutlierMethod string

const (
	OutlierNone   OutlierMethod = "none"
	OutlierZScore OutlierMethod = "zscore"
	OutlierIQR    OutlierMethod = "iqr"
)

// OutlierMethods lists the methods in menu order.
var OutlierMethods = []OutlierMethod{OutlierNone, OutlierZScore, OutlierIQR}

// Label is the human-readable name shown in menus.
func (m OutlierMethod) Label() string {
	switch m {
	case OutlierZScore:
		return "Z-Score"
	case OutlierIQR:
		return "IQR"
	default:
		return "None"
	}
}

// ParseOutlierMethod accepts "zscore", "z-score", "Z-Score", "iqr", "none".
// An empty string means none.
func ParseOutlierMethod(s string) (OutlierMethod, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "", "_", "", " ", "").Replace(norm)
	if norm == "" {
		return OutlierNone, nil
	}
	for _, m := range OutlierMethods {
		if string(m) == norm {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown outlier method %q (use none|zscore|iqr)", s)
}

// ZMode selects the z-score flavour.
type ZMode string

const (
	// ZStandard is (x - mean) / population std.
	ZStandard ZMode = "standard"
	// ZRobust is the modified z-score 0.6745 * (x - median) / MAD.
	ZRobust ZMode = "robust"
)

// ParseZMode parses a z-score mode; empty means standard.
func ParseZMode(s string) (ZMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard", "classic":
		return ZStandard, nil
	case "robust", "mad":
		return ZRobust, nil
	default:
		return "", fmt.Errorf("unknown z-score mode %q (use standard|robust)", s)
	}
}

// FilterOptions tunes the outlier thresholds.
type FilterOptions struct {
	// ZThreshold flags |z| strictly above it.
	ZThreshold float64
	ZMode      ZMode
	// IQRMultiplier widens the [Q1, Q3] fence by k * IQR on each side.
	IQRMultiplier float64
}

// DefaultFilterOptions returns the classic thresholds: |z| > 3 and 1.5 * IQR.
func DefaultFilterOptions() FilterOptions {
	return FilterOptions{ZThreshold: 3, ZMode: ZStandard, IQRMultiplier: 1.5}
}

func (o FilterOptions) withDefaults() FilterOptions {
	d := DefaultFilterOptions()
	if o.ZThreshold <= 0 {
		o.ZThreshold = d.ZThreshold
	}
	if o.ZMode == "" {
		o.ZMode = d.ZMode
	}
	if o.IQRMultiplier <= 0 {
		o.IQRMultiplier = d.IQRMultiplier
	}
	return o
}

// Filter drops every row that is an outlier on at least one numeric column.
// Non-numeric columns never flag a row; their cells travel with the row.
func Filter(t *table.Table, m OutlierMethod, opt FilterOptions) *table.Table {
	if m == OutlierNone || m == "" {
		return t.Clone()
	}
	flags := Flag(t, m, opt)
	keep := make([]bool, len(flags))
	for i, f := range flags {
		keep[i] = !f
	}
	return t.SelectRows(keep)
}

// Flag reports, per row, whether any numeric column marks it as an outlier.
// Missing cells never flag a row, and a column without spread (zero std or
// zero MAD) flags nothing.
func Flag(t *table.Table, m OutlierMethod, opt FilterOptions) []bool {
	opt = opt.withDefaults()
	flags := make([]bool, t.NumRows())
	if m == OutlierNone || m == "" {
		return flags
	}
	for _, c := range t.ColumnsOf(table.KindNumeric) {
		var out func(x float64) bool
		switch m {
		case OutlierZScore:
			out = zScoreTest(c.Numbers(), opt)
		case OutlierIQR:
			out = iqrTest(c.Numbers(), opt.IQRMultiplier)
		}
		if out == nil {
			continue
		}
		for i, v := range c.Values {
			if !v.Missing && v.IsNum && out(v.Num) {
				flags[i] = true
			}
		}
	}
	return flags
}

func zScoreTest(vals []float64, opt FilterOptions) func(float64) bool {
	if len(vals) == 0 {
		return nil
	}
	if opt.ZMode == ZRobust {
		median, mad := analysis.MedianMAD(vals)
		if mad == 0 {
			return nil
		}
		return func(x float64) bool {
			return math.Abs(0.6745*(x-median)/mad) > opt.ZThreshold
		}
	}
	mean := analysis.Mean(vals)
	std := analysis.PopStdDev(vals)
	if std == 0 || math.IsNaN(std) {
		return nil
	}
	return func(x float64) bool {
		return math.Abs(stat.StdScore(x, mean, std)) > opt.ZThreshold
	}
}

func iqrTest(vals []float64, k float64) func(float64) bool {
	if len(vals) == 0 {
		return nil
	}
	q := analysis.Quantiles(vals, 0.25, 0.75)
	iqr := q[1] - q[0]
	lo, hi := q[0]-k*iqr, q[1]+k*iqr
	return func(x float64) bool { return x < lo || x > hi }
}
