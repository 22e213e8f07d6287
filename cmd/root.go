package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/tabclean/internal/config"
	"github.com/KaramelBytes/tabclean/internal/logging"
)

var (
	// Global flags
	cfgFile  string
	debug    bool
	logLevel string
	logJSON  bool

	// Loaded configuration
	cfg *cfgpkg.Global

	logger = logging.Discard()
)

var rootCmd = &cobra.Command{
	Use:   "tabclean",
	Short: "tabclean: clean, summarize and chart tabular data",
	Long: `tabclean loads a CSV/TSV or XLSX file, resolves missing values, filters outliers,
prints summary statistics, builds chart specifications and exports the cleaned table.
Run "tabclean serve" for the HTTP interface.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.tabclean/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "write logs as JSON")
}

func loadConfig() {
	logger = logging.New(os.Stderr, logging.Options{Level: logLevel, Debug: debug, JSON: logJSON})
	slog.SetDefault(logger)
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
	logger.Debug("config loaded", slog.String("file", cfgFile))
}

// settings returns the loaded configuration, or the built-in defaults when
// loading failed.
func settings() *cfgpkg.Global {
	if cfg != nil {
		return cfg
	}
	return cfgpkg.Defaults()
}
