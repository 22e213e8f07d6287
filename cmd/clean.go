package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tabclean/internal/export"
	"github.com/KaramelBytes/tabclean/internal/pipeline"
	"github.com/KaramelBytes/tabclean/internal/table"
	"github.com/KaramelBytes/tabclean/internal/utils"
)

var (
	clnInput    inputFlags
	clnClean    cleanFlags
	clnChart    chartFlags
	clnOutput   string
	clnFormat   string
	clnSummary  bool
	clnChartOut string
)

var cleanCmd = &cobra.Command{
	Use:   "clean <file>",
	Short: "Resolve missing values, filter outliers and export the cleaned table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		p, opt, err := clnClean.resolve()
		if err != nil {
			return err
		}
		if err := clnChart.apply(&p); err != nil {
			return err
		}
		format, err := table.ParseFormat(clnFormat)
		if err != nil {
			return err
		}
		raw, err := clnInput.load(path)
		if err != nil {
			return err
		}
		res := pipeline.Run(raw, p, opt)
		logger.Info("cleaned",
			slog.String("file", path),
			slog.String("missing", string(p.Missing)),
			slog.String("outliers", string(p.Outliers)),
			slog.Int("dropped_missing", res.Removed.Missing),
			slog.Int("dropped_outliers", res.Removed.Outliers),
			slog.Int("rows", res.Table.NumRows()),
		)

		data, err := export.Encode(res.Table, format)
		if err != nil {
			return err
		}
		if err := writeOut(cmd, clnOutput, data, "cleaned data"); err != nil {
			return err
		}
		if clnSummary {
			fmt.Fprintln(cmd.ErrOrStderr(), res.Summary.Markdown())
		}
		if p.Chart != "" {
			if res.ChartWarning != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠ %s\n", res.ChartWarning)
				return nil
			}
			b, err := utils.PrettyJSON(res.Chart)
			if err != nil {
				return err
			}
			if clnChartOut == "" {
				fmt.Fprintln(cmd.ErrOrStderr(), string(b))
				return nil
			}
			if err := utils.SafeWriteFile(clnChartOut, b); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote chart spec to %s\n", clnChartOut)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	clnInput.register(cleanCmd)
	clnClean.register(cleanCmd)
	clnChart.register(cleanCmd, "chart")
	cleanCmd.Flags().StringVarP(&clnOutput, "output", "o", "", "path for the cleaned table (stdout if omitted)")
	cleanCmd.Flags().StringVar(&clnFormat, "format", "csv", "output format: csv|xlsx")
	cleanCmd.Flags().BoolVar(&clnSummary, "summary", false, "print the summary report to stderr")
	cleanCmd.Flags().StringVar(&clnChartOut, "chart-out", "", "path for the chart spec JSON (stderr if omitted)")
}
