package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tabclean/internal/export"
	"github.com/KaramelBytes/tabclean/internal/pipeline"
	"github.com/KaramelBytes/tabclean/internal/table"
	"github.com/KaramelBytes/tabclean/internal/utils"
)

var (
	cbInput     inputFlags
	cbClean     cleanFlags
	cbOutDir    string
	cbFormat    string
	cbSummaries bool
	cbQuiet     bool
)

var cleanBatchCmd = &cobra.Command{
	Use:   "clean-batch <files...>",
	Short: "Clean multiple CSV/TSV/XLSX files with the same settings",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		p, opt, err := cbClean.resolve()
		if err != nil {
			return err
		}
		format, err := table.ParseFormat(cbFormat)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(cbOutDir, 0o755); err != nil {
			return fmt.Errorf("mkdir output dir: %w", err)
		}
		out := cmd.OutOrStdout()

		total := len(files)
		for i, path := range files {
			if !cbQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			raw, err := cbInput.load(path)
			if err != nil {
				return err
			}
			_, cleaned := pipeline.Clean(raw, p, opt)
			data, err := export.Encode(cleaned, format)
			if err != nil {
				return err
			}
			base := outputBase(path, cbInput.sheet)
			outFile := uniquePath(cbOutDir, base, ".cleaned."+string(format))
			if err := utils.SafeWriteFile(outFile, data); err != nil {
				return err
			}
			logger.Debug("batch item cleaned", slog.String("file", path), slog.Int("rows_in", raw.NumRows()), slog.Int("rows_out", cleaned.NumRows()))
			if cbSummaries {
				sum := strings.TrimSuffix(outFile, ".cleaned."+string(format)) + ".summary.md"
				rep := pipeline.Run(raw, p, opt).Summary
				if err := utils.SafeWriteFile(sum, []byte(rep.Markdown())); err != nil {
					return err
				}
			}
			if !cbQuiet {
				fmt.Fprintf(out, "✓ %d → %d rows, wrote %s\n", raw.NumRows(), cleaned.NumRows(), filepath.Base(outFile))
			}
		}
		return nil
	},
}

// expandInputs resolves globs, keeps literal paths that exist, and removes
// duplicates. The result is sorted.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

// outputBase is the input's base name without extension, suffixed with a
// slug of the sheet name when one was chosen.
func outputBase(path, sheet string) string {
	base := filepath.Base(path)
	safe := strings.TrimSuffix(base, filepath.Ext(base))
	if sheet == "" {
		return safe
	}
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(sheet)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else if r == ' ' || r == '-' || r == '_' {
			b.WriteRune('-')
		}
	}
	ss := strings.Trim(b.String(), "-")
	if ss == "" {
		ss = "sheet"
	}
	return safe + "__sheet-" + ss
}

// uniquePath returns dir/base+suffix, or dir/base__N+suffix for the first N
// that does not exist yet.
func uniquePath(dir, base, suffix string) string {
	p := filepath.Join(dir, base+suffix)
	if _, err := os.Stat(p); err != nil {
		return p
	}
	for idx := 2; ; idx++ {
		cand := filepath.Join(dir, fmt.Sprintf("%s__%d%s", base, idx, suffix))
		if _, err := os.Stat(cand); os.IsNotExist(err) {
			return cand
		}
	}
}

func init() {
	rootCmd.AddCommand(cleanBatchCmd)
	cbInput.register(cleanBatchCmd)
	cbClean.register(cleanBatchCmd)
	cleanBatchCmd.Flags().StringVar(&cbOutDir, "out-dir", "cleaned", "directory for cleaned files")
	cleanBatchCmd.Flags().StringVar(&cbFormat, "format", "csv", "output format: csv|xlsx")
	cleanBatchCmd.Flags().BoolVar(&cbSummaries, "summaries", false, "also write a Markdown summary next to each cleaned file")
	cleanBatchCmd.Flags().BoolVar(&cbQuiet, "quiet", false, "suppress progress and non-essential output")
}
