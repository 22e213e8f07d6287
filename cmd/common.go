package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tabclean/internal/chart"
	"github.com/KaramelBytes/tabclean/internal/clean"
	"github.com/KaramelBytes/tabclean/internal/pipeline"
	"github.com/KaramelBytes/tabclean/internal/table"
)

// inputFlags are the parsing flags shared by every command that reads a file.
type inputFlags struct {
	sheet     string
	delimiter string
	decimal   string
	thousands string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "XLSX: sheet name (default first sheet)")
	cmd.Flags().StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (auto-detect if omitted)")
	cmd.Flags().StringVar(&f.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	cmd.Flags().StringVar(&f.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
}

func (f *inputFlags) loadOptions(path string) (table.LoadOptions, error) {
	opt := table.LoadOptions{Sheet: f.sheet, Name: filepath.Base(path)}
	switch f.delimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", f.delimiter)
	}
	switch strings.ToLower(strings.TrimSpace(f.decimal)) {
	case ",", "comma":
		opt.DecimalSeparator = ','
	case ".", "dot":
		opt.DecimalSeparator = '.'
	case "":
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", f.decimal)
	}
	switch strings.ToLower(strings.TrimSpace(f.thousands)) {
	case ",":
		opt.ThousandsSeparator = ','
	case ".":
		opt.ThousandsSeparator = '.'
	case "space", " ":
		opt.ThousandsSeparator = ' '
	case "":
	default:
		return opt, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", f.thousands)
	}
	return opt, nil
}

// load reads path with the format chosen by its extension.
func (f *inputFlags) load(path string) (*table.Table, error) {
	format, err := table.FormatFromName(path)
	if err != nil {
		return nil, err
	}
	opt, err := f.loadOptions(path)
	if err != nil {
		return nil, err
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer fh.Close()
	t, err := pipeline.Load(fh, format, opt)
	if pipeline.IsEmpty(err) {
		return nil, fmt.Errorf("%s is empty", path)
	}
	return t, err
}

// cleanFlags are the resolver and filter controls.
type cleanFlags struct {
	missing    string
	outliers   string
	zThreshold float64
	zMode      string
	iqrK       float64
}

func (f *cleanFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.missing, "missing", "", "missing values: none|drop|fill-mean|fill-median|fill-mode (default from config)")
	cmd.Flags().StringVar(&f.outliers, "outliers", "", "outlier filter: none|zscore|iqr (default from config)")
	cmd.Flags().Float64Var(&f.zThreshold, "z-threshold", 0, "|z| above which a value is an outlier (default from config)")
	cmd.Flags().StringVar(&f.zMode, "z-mode", "", "z-score flavour: standard|robust (default from config)")
	cmd.Flags().Float64Var(&f.iqrK, "iqr-k", 0, "IQR fence multiplier (default from config)")
}

// resolve merges flags over the configured defaults.
func (f *cleanFlags) resolve() (pipeline.Params, pipeline.Options, error) {
	c := settings()
	p := c.DefaultParams()
	opt := c.PipelineOptions()
	var err error
	if f.missing != "" {
		if p.Missing, err = clean.ParseMissingStrategy(f.missing); err != nil {
			return p, opt, err
		}
	}
	if f.outliers != "" {
		if p.Outliers, err = clean.ParseOutlierMethod(f.outliers); err != nil {
			return p, opt, err
		}
	}
	if f.zMode != "" {
		if opt.Filter.ZMode, err = clean.ParseZMode(f.zMode); err != nil {
			return p, opt, err
		}
	}
	if f.zThreshold > 0 {
		opt.Filter.ZThreshold = f.zThreshold
	}
	if f.iqrK > 0 {
		opt.Filter.IQRMultiplier = f.iqrK
	}
	return p, opt, nil
}

// chartFlags select a chart.
type chartFlags struct {
	typ string
	x   string
	y   string
}

func (f *chartFlags) register(cmd *cobra.Command, typeFlag string) {
	cmd.Flags().StringVar(&f.typ, typeFlag, "", "chart type: box|histogram|bar|line|scatter|pie")
	cmd.Flags().StringVar(&f.x, "x", "", "x column (category column for pie)")
	cmd.Flags().StringVar(&f.y, "y", "", "y column (value column for pie)")
}

func (f *chartFlags) apply(p *pipeline.Params) error {
	if f.typ == "" {
		return nil
	}
	t, err := chart.ParseType(f.typ)
	if err != nil {
		return err
	}
	p.Chart = t
	p.Selection = chart.Selection{X: f.x, Y: f.y}
	return nil
}

// writeOut writes data to path, or to stdout when path is empty.
func writeOut(cmd *cobra.Command, path string, data []byte, what string) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", what, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote %s to %s\n", what, path)
	return nil
}
