package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tabclean/internal/chart"
	"github.com/KaramelBytes/tabclean/internal/clean"
	cfgpkg "github.com/KaramelBytes/tabclean/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set tabclean configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := settings()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "z_threshold: %g\n", c.ZThreshold)
		fmt.Fprintf(out, "z_mode: %s\n", c.ZMode)
		fmt.Fprintf(out, "iqr_multiplier: %g\n", c.IQRMultiplier)
		fmt.Fprintf(out, "default_missing: %s\n", c.DefaultMissing)
		fmt.Fprintf(out, "default_outliers: %s\n", c.DefaultOutliers)
		fmt.Fprintf(out, "preview_rows: %d\n", c.PreviewRows)
		fmt.Fprintf(out, "chart_template: %s\n", c.ChartTemplate)
		fmt.Fprintf(out, "export_file_name: %s\n", c.ExportFileName)
		fmt.Fprintf(out, "listen_addr: %s\n", c.ListenAddr)
		fmt.Fprintf(out, "max_upload_mb: %d\n", c.MaxUploadMB)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "z_threshold", "iqr_multiplier":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid positive float for %s: %v", key, val)
			}
			if key == "z_threshold" {
				cfg.ZThreshold = f
			} else {
				cfg.IQRMultiplier = f
			}
		case "z_mode":
			m, err := clean.ParseZMode(val)
			if err != nil {
				return err
			}
			cfg.ZMode = string(m)
		case "default_missing":
			s, err := clean.ParseMissingStrategy(val)
			if err != nil {
				return err
			}
			cfg.DefaultMissing = string(s)
		case "default_outliers":
			m, err := clean.ParseOutlierMethod(val)
			if err != nil {
				return err
			}
			cfg.DefaultOutliers = string(m)
		case "preview_rows", "max_upload_mb":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 || (key == "max_upload_mb" && i == 0) {
				return fmt.Errorf("invalid int for %s: %v", key, val)
			}
			if key == "preview_rows" {
				cfg.PreviewRows = i
			} else {
				cfg.MaxUploadMB = i
			}
		case "chart_template":
			cfg.ChartTemplate = val
		case "export_file_name":
			cfg.ExportFileName = val
		case "listen_addr":
			cfg.ListenAddr = val
		default:
			return fmt.Errorf("unknown key: %s (known: %v)", key, cfgpkg.Keys)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

var configOptionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List the accepted control values",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprint(out, "missing:")
		for _, s := range clean.MissingStrategies {
			fmt.Fprintf(out, " %s (%s)", s, s.Label())
		}
		fmt.Fprint(out, "\noutliers:")
		for _, m := range clean.OutlierMethods {
			fmt.Fprintf(out, " %s (%s)", m, m.Label())
		}
		fmt.Fprint(out, "\ncharts:")
		for _, t := range chart.Types {
			fmt.Fprintf(out, " %s", t)
		}
		fmt.Fprintln(out)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configOptionsCmd)
}
