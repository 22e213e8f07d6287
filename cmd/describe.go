package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tabclean/internal/analysis"
	"github.com/KaramelBytes/tabclean/internal/pipeline"
	"github.com/KaramelBytes/tabclean/internal/utils"
)

var (
	dscInput      inputFlags
	dscClean      cleanFlags
	dscOutputPath string
	dscSampleRows int
	dscJSON       bool
)

var describeCmd = &cobra.Command{
	Use:   "describe <file>",
	Short: "Print summary statistics and value counts for a (cleaned) table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, opt, err := dscClean.resolve()
		if err != nil {
			return err
		}
		raw, err := dscInput.load(args[0])
		if err != nil {
			return err
		}
		_, cleaned := pipeline.Clean(raw, p, opt)
		rep := analysis.Summarize(cleaned, analysis.Options{SampleRows: dscSampleRows})

		var out []byte
		if dscJSON {
			if out, err = utils.PrettyJSON(rep); err != nil {
				return err
			}
			out = append(out, '\n')
		} else {
			out = []byte(rep.Markdown())
		}
		return writeOut(cmd, dscOutputPath, out, "summary")
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	dscInput.register(describeCmd)
	dscClean.register(describeCmd)
	describeCmd.Flags().StringVarP(&dscOutputPath, "output", "o", "", "optional path to write the summary")
	describeCmd.Flags().IntVar(&dscSampleRows, "sample-rows", 5, "number of head rows to include (0 disables)")
	describeCmd.Flags().BoolVar(&dscJSON, "json", false, "emit JSON instead of Markdown")
}
