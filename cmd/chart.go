package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tabclean/internal/pipeline"
	"github.com/KaramelBytes/tabclean/internal/utils"
)

var (
	chtInput  inputFlags
	chtClean  cleanFlags
	chtChart  chartFlags
	chtOutput string
	chtStrict bool
)

var chartCmd = &cobra.Command{
	Use:   "chart <file>",
	Short: "Build a chart specification (JSON) from a (cleaned) table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if chtChart.typ == "" {
			return errors.New("--type is required")
		}
		p, opt, err := chtClean.resolve()
		if err != nil {
			return err
		}
		if err := chtChart.apply(&p); err != nil {
			return err
		}
		raw, err := chtInput.load(args[0])
		if err != nil {
			return err
		}
		res := pipeline.Run(raw, p, opt)
		if res.ChartWarning != "" {
			if chtStrict {
				return errors.New(res.ChartWarning)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ %s\n", res.ChartWarning)
			return nil
		}
		b, err := utils.PrettyJSON(res.Chart)
		if err != nil {
			return err
		}
		return writeOut(cmd, chtOutput, append(b, '\n'), "chart spec")
	},
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chtInput.register(chartCmd)
	chtClean.register(chartCmd)
	chtChart.register(chartCmd, "type")
	chartCmd.Flags().StringVarP(&chtOutput, "output", "o", "", "optional path to write the chart spec")
	chartCmd.Flags().BoolVar(&chtStrict, "strict", false, "fail instead of warning when the selection cannot be charted")
}
