// Package chart maps a table and a column selection to a declarative chart
// specification. Rendering is left to the client.
package chart

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/tabclean/internal/analysis"
	"github.com/KaramelBytes/tabclean/internal/table"
)

// Type is a chart kind.
type Type string

const (
	Box       Type = "box"
	Histogram Type = "histogram"
	Bar       Type = "bar"
	Line      Type = "line"
	Scatter   Type = "scatter"
	Pie       Type = "pie"
)

// Types lists chart types in menu order.
var Types = []Type{Box, Histogram, Bar, Line, Scatter, Pie}

// ParseType parses a chart type name case-insensitively.
func ParseType(s string) (Type, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	for _, t := range Types {
		if string(t) == norm {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown chart type %q (use box|histogram|bar|line|scatter|pie)", s)
}

// NeedsY reports whether the type takes a second column.
func (t Type) NeedsY() bool { return t != Box && t != Histogram }

// Selection names the columns a chart is drawn from. Box and Histogram use
// X only. Bar, Line and Scatter plot X against Y. Pie uses X as the category
// column and Y as the value column.
type Selection struct {
	X string `json:"x"`
	Y string `json:"y,omitempty"`
}

// ConfigError reports an incompatible chart/column combination. It is meant
// to be shown as a warning, not to abort the pipeline.
type ConfigError struct {
	Type   Type
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("cannot build %s chart: %s", e.Type, e.Reason)
}

// Point is one mark of a bar, line or scatter chart. X is a float64 when the
// x column is numeric and a string otherwise.
type Point struct {
	X any     `json:"x"`
	Y float64 `json:"y"`
}

// Bin is a histogram bar. Label is set for categorical histograms.
type Bin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Label string  `json:"label,omitempty"`
	Count int     `json:"count"`
}

// BoxStats is the five-number summary drawn by a box plot.
type BoxStats struct {
	Min    float64   `json:"min"`
	Q1     float64   `json:"q1"`
	Median float64   `json:"median"`
	Q3     float64   `json:"q3"`
	Max    float64   `json:"max"`
	Values []float64 `json:"values"`
}

// Slice is one pie wedge.
type Slice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Share float64 `json:"share"`
}

// Spec is a renderer-agnostic chart description.
type Spec struct {
	Type     Type      `json:"type"`
	Title    string    `json:"title"`
	Template string    `json:"template,omitempty"`
	XLabel   string    `json:"x_label,omitempty"`
	YLabel   string    `json:"y_label,omitempty"`
	Points   []Point   `json:"points,omitempty"`
	Bins     []Bin     `json:"bins,omitempty"`
	Box      *BoxStats `json:"box,omitempty"`
	Slices   []Slice   `json:"slices,omitempty"`
}

// Build validates the selection against t and produces a Spec.
func Build(t *table.Table, typ Type, sel Selection) (*Spec, error) {
	if t == nil || t.NumRows() == 0 {
		return nil, &ConfigError{Type: typ, Reason: "table has no rows"}
	}
	switch typ {
	case Box:
		return buildBox(t, sel)
	case Histogram:
		return buildHistogram(t, sel)
	case Bar, Line, Scatter:
		return buildXY(t, typ, sel)
	case Pie:
		return buildPie(t, sel)
	default:
		return nil, &ConfigError{Type: typ, Reason: "unsupported chart type"}
	}
}

// DefaultSelection picks the columns a user would see preselected: the first
// column for X and Y, or for Pie the first categorical and first numeric column.
func DefaultSelection(t *table.Table, typ Type) Selection {
	if t == nil || t.NumCols() == 0 {
		return Selection{}
	}
	if typ == Pie {
		var sel Selection
		if cats := t.ColumnsOf(table.KindCategorical, table.KindMixed); len(cats) > 0 {
			sel.X = cats[0].Name
		}
		if nums := t.ColumnsOf(table.KindNumeric); len(nums) > 0 {
			sel.Y = nums[0].Name
		}
		return sel
	}
	sel := Selection{X: t.Columns[0].Name}
	if typ.NeedsY() {
		sel.Y = t.Columns[0].Name
	}
	return sel
}

func lookup(t *table.Table, typ Type, role, name string) (*table.Column, error) {
	if name == "" {
		return nil, &ConfigError{Type: typ, Reason: fmt.Sprintf("no %s column selected", role)}
	}
	c, ok := t.Column(name)
	if !ok {
		return nil, &ConfigError{Type: typ, Reason: fmt.Sprintf("column %q not found", name)}
	}
	return c, nil
}

func requireNumeric(typ Type, c *table.Column) error {
	if c.Kind != table.KindNumeric {
		return &ConfigError{Type: typ, Reason: fmt.Sprintf("column %q is %s, a numeric column is required", c.Name, c.Kind)}
	}
	return nil
}

func buildBox(t *table.Table, sel Selection) (*Spec, error) {
	c, err := lookup(t, Box, "value", sel.X)
	if err != nil {
		return nil, err
	}
	if err := requireNumeric(Box, c); err != nil {
		return nil, err
	}
	vals := c.Numbers()
	if len(vals) == 0 {
		return nil, &ConfigError{Type: Box, Reason: fmt.Sprintf("column %q has no values", c.Name)}
	}
	lo, hi := analysis.Range(vals)
	q := analysis.Quantiles(vals, 0.25, 0.5, 0.75)
	return &Spec{
		Type:   Box,
		Title:  fmt.Sprintf("Distribution of %s", c.Name),
		YLabel: c.Name,
		Box:    &BoxStats{Min: lo, Q1: q[0], Median: q[1], Q3: q[2], Max: hi, Values: vals},
	}, nil
}

func buildHistogram(t *table.Table, sel Selection) (*Spec, error) {
	c, err := lookup(t, Histogram, "value", sel.X)
	if err != nil {
		return nil, err
	}
	spec := &Spec{Type: Histogram, Title: fmt.Sprintf("Histogram of %s", c.Name), XLabel: c.Name, YLabel: "count"}
	if c.Kind != table.KindNumeric {
		for _, v := range analysis.CountValues(c) {
			spec.Bins = append(spec.Bins, Bin{Label: v.Value, Count: v.Count})
		}
		if len(spec.Bins) == 0 {
			return nil, &ConfigError{Type: Histogram, Reason: fmt.Sprintf("column %q has no values", c.Name)}
		}
		return spec, nil
	}
	vals := c.Numbers()
	if len(vals) == 0 {
		return nil, &ConfigError{Type: Histogram, Reason: fmt.Sprintf("column %q has no values", c.Name)}
	}
	bins, err := numericBins(vals)
	if err != nil {
		return nil, err
	}
	spec.Bins = bins
	return spec, nil
}

// numericBins splits vals into Sturges' ceil(log2 n)+1 equal-width bins.
func numericBins(vals []float64) ([]Bin, error) {
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if math.IsInf(hi-lo, 0) {
		return nil, &ConfigError{Type: Histogram, Reason: "value range is too wide to bin"}
	}
	n := int(math.Ceil(math.Log2(float64(len(sorted))))) + 1
	if hi == lo {
		n = 1
		hi = lo + 1
	}
	dividers := make([]float64, n+1)
	floats.Span(dividers, lo, hi)
	// the last bin is closed on the right
	dividers[n] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, sorted, nil)
	bins := make([]Bin, n)
	for i := range bins {
		bins[i] = Bin{Lo: dividers[i], Hi: dividers[i+1], Count: int(counts[i])}
	}
	bins[n-1].Hi = hi
	return bins, nil
}

func buildXY(t *table.Table, typ Type, sel Selection) (*Spec, error) {
	xc, err := lookup(t, typ, "x", sel.X)
	if err != nil {
		return nil, err
	}
	yc, err := lookup(t, typ, "y", sel.Y)
	if err != nil {
		return nil, err
	}
	if err := requireNumeric(typ, yc); err != nil {
		return nil, err
	}
	xNumeric := xc.Kind == table.KindNumeric
	var pts []Point
	for i := range yc.Values {
		xv, yv := xc.Values[i], yc.Values[i]
		if xv.Missing || yv.Missing {
			continue
		}
		p := Point{X: xv.Raw, Y: yv.Num}
		if xNumeric {
			p.X = xv.Num
		}
		pts = append(pts, p)
	}
	if len(pts) == 0 {
		return nil, &ConfigError{Type: typ, Reason: fmt.Sprintf("no rows with both %q and %q present", xc.Name, yc.Name)}
	}
	if typ == Line && xNumeric {
		sort.SliceStable(pts, func(i, j int) bool { return pts[i].X.(float64) < pts[j].X.(float64) })
	}
	return &Spec{
		Type:   typ,
		Title:  fmt.Sprintf("%s vs %s", yc.Name, xc.Name),
		XLabel: xc.Name,
		YLabel: yc.Name,
		Points: pts,
	}, nil
}

func buildPie(t *table.Table, sel Selection) (*Spec, error) {
	if len(t.ColumnsOf(table.KindCategorical, table.KindMixed)) == 0 {
		return nil, &ConfigError{Type: Pie, Reason: "table has no categorical column"}
	}
	if len(t.ColumnsOf(table.KindNumeric)) == 0 {
		return nil, &ConfigError{Type: Pie, Reason: "table has no numeric column"}
	}
	cc, err := lookup(t, Pie, "category", sel.X)
	if err != nil {
		return nil, err
	}
	if cc.Kind == table.KindNumeric {
		return nil, &ConfigError{Type: Pie, Reason: fmt.Sprintf("column %q is numeric, a categorical column is required", cc.Name)}
	}
	vc, err := lookup(t, Pie, "value", sel.Y)
	if err != nil {
		return nil, err
	}
	if err := requireNumeric(Pie, vc); err != nil {
		return nil, err
	}
	idx := map[string]int{}
	var labels []string
	var sums []float64
	for i := range cc.Values {
		cv, vv := cc.Values[i], vc.Values[i]
		if cv.Missing || vv.Missing {
			continue
		}
		if vv.Num < 0 {
			return nil, &ConfigError{Type: Pie, Reason: fmt.Sprintf("column %q has negative values", vc.Name)}
		}
		j, ok := idx[cv.Raw]
		if !ok {
			j = len(labels)
			idx[cv.Raw] = j
			labels = append(labels, cv.Raw)
			sums = append(sums, 0)
		}
		sums[j] += vv.Num
	}
	total := floats.Sum(sums)
	if total <= 0 {
		return nil, &ConfigError{Type: Pie, Reason: fmt.Sprintf("column %q sums to zero", vc.Name)}
	}
	spec := &Spec{Type: Pie, Title: fmt.Sprintf("%s by %s", vc.Name, cc.Name), XLabel: cc.Name, YLabel: vc.Name}
	for j, l := range labels {
		spec.Slices = append(spec.Slices, Slice{Label: l, Value: sums[j], Share: sums[j] / total})
	}
	return spec, nil
}
