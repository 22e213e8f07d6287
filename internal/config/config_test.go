package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/tabclean/internal/clean"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3.0, c.ZThreshold)
	assert.Equal(t, 1.5, c.IQRMultiplier)
	assert.Equal(t, 5, c.PreviewRows)
	assert.Equal(t, "plotly_dark", c.ChartTemplate)
	assert.Equal(t, ":8080", c.ListenAddr)
	assert.Equal(t, int64(32<<20), c.MaxUploadBytes())
	assert.Equal(t, "cleaned_data.csv", c.ExportFileName)

	opt := c.PipelineOptions()
	assert.Equal(t, clean.DefaultFilterOptions(), opt.Filter)
	p := c.DefaultParams()
	assert.Equal(t, clean.MissingNone, p.Missing)
	assert.Equal(t, clean.OutlierNone, p.Outliers)
}

func TestSaveThenLoadFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	c, err := Load(path)
	require.NoError(t, err)
	c.ZThreshold = 2.5
	c.ZMode = "robust"
	c.DefaultMissing = "fill-median"
	require.NoError(t, Save(c, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2.5, got.ZThreshold)
	assert.Equal(t, clean.ZRobust, got.PipelineOptions().Filter.ZMode)
	assert.Equal(t, clean.MissingFillMedian, got.DefaultParams().Missing)
}

func TestSaveDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	c, err := Load("")
	require.NoError(t, err)
	require.NoError(t, Save(c, ""))
	_, err = os.Stat(filepath.Join(home, ".tabclean", "config.yaml"))
	assert.NoError(t, err)
}

func TestEnvOverridesAndValidation(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TABCLEAN_PREVIEW_ROWS", "9")
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9, c.PreviewRows)

	t.Setenv("TABCLEAN_DEFAULT_OUTLIERS", "dbscan")
	_, err = Load("")
	assert.ErrorContains(t, err, "default_outliers")
}

func TestDefaultsValidate(t *testing.T) {
	d := Defaults()
	require.NoError(t, d.Validate())
	assert.Equal(t, "standard", d.ZMode)
}
