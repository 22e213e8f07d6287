package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/tabclean/internal/clean"
	"github.com/KaramelBytes/tabclean/internal/pipeline"
)

// Global configuration structure.
type Global struct {
	// Outlier thresholds
	ZThreshold    float64 `mapstructure:"z_threshold" yaml:"z_threshold"`
	ZMode         string  `mapstructure:"z_mode" yaml:"z_mode"`
	IQRMultiplier float64 `mapstructure:"iqr_multiplier" yaml:"iqr_multiplier"`

	// Defaults applied when a request or flag leaves a control unset
	DefaultMissing  string `mapstructure:"default_missing" yaml:"default_missing"`
	DefaultOutliers string `mapstructure:"default_outliers" yaml:"default_outliers"`

	PreviewRows    int    `mapstructure:"preview_rows" yaml:"preview_rows"`
	ChartTemplate  string `mapstructure:"chart_template" yaml:"chart_template"`
	ExportFileName string `mapstructure:"export_file_name" yaml:"export_file_name"`

	// HTTP surface
	ListenAddr  string `mapstructure:"listen_addr" yaml:"listen_addr"`
	MaxUploadMB int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
}

// Keys lists the settable configuration keys in display order.
var Keys = []string{
	"z_threshold", "z_mode", "iqr_multiplier",
	"default_missing", "default_outliers",
	"preview_rows", "chart_template", "export_file_name",
	"listen_addr", "max_upload_mb",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("z_threshold", 3.0)
	v.SetDefault("z_mode", string(clean.ZStandard))
	v.SetDefault("iqr_multiplier", 1.5)
	v.SetDefault("default_missing", string(clean.MissingNone))
	v.SetDefault("default_outliers", string(clean.OutlierNone))
	v.SetDefault("preview_rows", 5)
	v.SetDefault("chart_template", "plotly_dark")
	v.SetDefault("export_file_name", "cleaned_data.csv")
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("max_upload_mb", 32)
}

// Defaults returns the built-in configuration.
func Defaults() *Global {
	v := viper.New()
	setDefaults(v)
	var c Global
	_ = v.Unmarshal(&c)
	return &c
}

// Dir returns ~/.tabclean.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".tabclean"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.tabclean/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("TABCLEAN")
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks enumerated and numeric settings.
func (c *Global) Validate() error {
	if c.ZThreshold <= 0 {
		return fmt.Errorf("z_threshold must be > 0, got %v", c.ZThreshold)
	}
	if c.IQRMultiplier <= 0 {
		return fmt.Errorf("iqr_multiplier must be > 0, got %v", c.IQRMultiplier)
	}
	if _, err := clean.ParseZMode(c.ZMode); err != nil {
		return fmt.Errorf("z_mode: %w", err)
	}
	if _, err := clean.ParseMissingStrategy(c.DefaultMissing); err != nil {
		return fmt.Errorf("default_missing: %w", err)
	}
	if _, err := clean.ParseOutlierMethod(c.DefaultOutliers); err != nil {
		return fmt.Errorf("default_outliers: %w", err)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be > 0, got %d", c.MaxUploadMB)
	}
	return nil
}

// PipelineOptions maps the settings onto pipeline options.
func (c *Global) PipelineOptions() pipeline.Options {
	zm, _ := clean.ParseZMode(c.ZMode)
	return pipeline.Options{
		Filter: clean.FilterOptions{
			ZThreshold:    c.ZThreshold,
			ZMode:         zm,
			IQRMultiplier: c.IQRMultiplier,
		},
		PreviewRows:   c.PreviewRows,
		ChartTemplate: c.ChartTemplate,
	}
}

// DefaultParams returns the configured default control selections.
func (c *Global) DefaultParams() pipeline.Params {
	ms, _ := clean.ParseMissingStrategy(c.DefaultMissing)
	om, _ := clean.ParseOutlierMethod(c.DefaultOutliers)
	return pipeline.Params{Missing: ms, Outliers: om}
}

// MaxUploadBytes converts MaxUploadMB to bytes.
func (c *Global) MaxUploadBytes() int64 { return int64(c.MaxUploadMB) << 20 }
