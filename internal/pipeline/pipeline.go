// Package pipeline runs the cleaning stages in order: resolve missing values,
// filter outliers, summarize, then build a chart. Run is a pure function of its
// inputs; every interaction re-runs it from the raw table.
package pipeline

import (
	"errors"
	"io"

	"github.com/KaramelBytes/tabclean/internal/analysis"
	"github.com/KaramelBytes/tabclean/internal/chart"
	"github.com/KaramelBytes/tabclean/internal/clean"
	"github.com/KaramelBytes/tabclean/internal/table"
)

// Params are the user's control selections.
type Params struct {
	Missing  clean.MissingStrategy `json:"missing"`
	Outliers clean.OutlierMethod   `json:"outliers"`
	// Chart is empty when no chart is requested.
	Chart     chart.Type      `json:"chart,omitempty"`
	Selection chart.Selection `json:"selection"`
}

// Options carry the configured thresholds and presentation defaults.
type Options struct {
	Filter        clean.FilterOptions
	PreviewRows   int
	ChartTemplate string
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{Filter: clean.DefaultFilterOptions(), PreviewRows: 5, ChartTemplate: "plotly_dark"}
}

// Removed counts the rows each stage dropped.
type Removed struct {
	Missing  int `json:"missing"`
	Outliers int `json:"outliers"`
}

// Result is everything a single pass produces.
type Result struct {
	Params   Params           `json:"params"`
	Raw      table.Preview    `json:"raw"`
	Resolved table.Preview    `json:"resolved"`
	Cleaned  table.Preview    `json:"cleaned"`
	Removed  Removed          `json:"removed"`
	Summary  *analysis.Report `json:"summary"`
	Chart    *chart.Spec      `json:"chart,omitempty"`
	// ChartWarning is set instead of Chart when the selection is incompatible.
	ChartWarning string `json:"chart_warning,omitempty"`

	// Table is the cleaned table handed to the exporter.
	Table *table.Table `json:"-"`
}

// Load reads an upload. A missing or empty upload yields table.ErrEmptyInput,
// which callers treat as "waiting for input".
func Load(r io.Reader, format table.Format, opt table.LoadOptions) (*table.Table, error) {
	return table.Load(r, format, opt)
}

// IsEmpty reports whether err means there was nothing to process.
func IsEmpty(err error) bool { return errors.Is(err, table.ErrEmptyInput) }

// Clean runs the two transforming stages and returns the intermediate and
// final tables.
func Clean(raw *table.Table, p Params, opt Options) (resolved, cleaned *table.Table) {
	resolved = clean.Resolve(raw, p.Missing)
	cleaned = clean.Filter(resolved, p.Outliers, opt.Filter)
	return resolved, cleaned
}

// Run executes the pipeline. The raw table is never modified. A chart that
// cannot be built for the selection becomes ChartWarning; the rest of the
// result is still filled in.
func Run(raw *table.Table, p Params, opt Options) *Result {
	if opt.PreviewRows <= 0 {
		opt.PreviewRows = DefaultOptions().PreviewRows
	}
	resolved, cleaned := Clean(raw, p, opt)
	res := &Result{
		Params:   p,
		Raw:      raw.Head(opt.PreviewRows),
		Resolved: resolved.Head(opt.PreviewRows),
		Cleaned:  cleaned.Head(opt.PreviewRows),
		Removed: Removed{
			Missing:  raw.NumRows() - resolved.NumRows(),
			Outliers: resolved.NumRows() - cleaned.NumRows(),
		},
		Summary: analysis.Summarize(cleaned, analysis.Options{SampleRows: opt.PreviewRows}),
		Table:   cleaned,
	}
	if p.Chart == "" {
		return res
	}
	sel := p.Selection
	if sel.X == "" && sel.Y == "" {
		sel = chart.DefaultSelection(cleaned, p.Chart)
		res.Params.Selection = sel
	}
	spec, err := chart.Build(cleaned, p.Chart, sel)
	if err != nil {
		res.ChartWarning = err.Error()
		return res
	}
	spec.Template = opt.ChartTemplate
	res.Chart = spec
	return res
}
