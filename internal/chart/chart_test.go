package chart

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/tabclean/internal/table"
)

func sales(t *testing.T) *table.Table {
	t.Helper()
	tb, err := table.New([]string{"category", "amount", "day"}, [][]string{
		{"A", "10", "3"},
		{"A", "20", "1"},
		{"B", "30", "2"},
	}, table.ParseOptions{})
	require.NoError(t, err)
	return tb
}

func configErr(t *testing.T, err error) *ConfigError {
	t.Helper()
	var ce *ConfigError
	require.True(t, errors.As(err, &ce), "want *ConfigError, got %v", err)
	return ce
}

func TestPieShares(t *testing.T) {
	spec, err := Build(sales(t), Pie, Selection{X: "category", Y: "amount"})
	require.NoError(t, err)
	require.Len(t, spec.Slices, 2)
	assert.Equal(t, "A", spec.Slices[0].Label)
	assert.InDelta(t, 30.0, spec.Slices[0].Value, 1e-9)
	assert.InDelta(t, 0.5, spec.Slices[0].Share, 1e-9)
	assert.Equal(t, "B", spec.Slices[1].Label)
	assert.InDelta(t, 0.5, spec.Slices[1].Share, 1e-9)
}

func TestPieRejectsWrongKinds(t *testing.T) {
	_, err := Build(sales(t), Pie, Selection{X: "category", Y: "category"})
	assert.Contains(t, configErr(t, err).Reason, "numeric column is required")

	_, err = Build(sales(t), Pie, Selection{X: "amount", Y: "amount"})
	assert.Contains(t, configErr(t, err).Reason, "categorical column is required")

	numsOnly, _ := table.New([]string{"a", "b"}, [][]string{{"1", "2"}}, table.ParseOptions{})
	_, err = Build(numsOnly, Pie, DefaultSelection(numsOnly, Pie))
	assert.Equal(t, "table has no categorical column", configErr(t, err).Reason)

	zero, _ := table.New([]string{"c", "v"}, [][]string{{"x", "0"}}, table.ParseOptions{})
	_, err = Build(zero, Pie, Selection{X: "c", Y: "v"})
	configErr(t, err)
}

func TestMissingColumnAndEmptyTable(t *testing.T) {
	_, err := Build(sales(t), Scatter, Selection{X: "nope", Y: "amount"})
	ce := configErr(t, err)
	assert.Equal(t, Scatter, ce.Type)
	assert.Equal(t, `cannot build scatter chart: column "nope" not found`, ce.Error())

	empty, _ := table.New([]string{"a"}, nil, table.ParseOptions{})
	_, err = Build(empty, Box, Selection{X: "a"})
	assert.Equal(t, "table has no rows", configErr(t, err).Reason)

	_, err = Build(sales(t), Bar, Selection{X: "category"})
	assert.Equal(t, "no y column selected", configErr(t, err).Reason)
}

func TestBoxNeedsNumeric(t *testing.T) {
	_, err := Build(sales(t), Box, Selection{X: "category"})
	configErr(t, err)

	spec, err := Build(sales(t), Box, Selection{X: "amount"})
	require.NoError(t, err)
	assert.Equal(t, 10.0, spec.Box.Min)
	assert.Equal(t, 20.0, spec.Box.Median)
	assert.Equal(t, 30.0, spec.Box.Max)
	assert.Len(t, spec.Box.Values, 3)
}

func TestHistogramNumericAndCategorical(t *testing.T) {
	var rows [][]string
	for _, v := range []string{"1", "2", "2", "3", "3", "3", "4", "9"} {
		rows = append(rows, []string{v, "k"})
	}
	tb, err := table.New([]string{"v", "k"}, rows, table.ParseOptions{})
	require.NoError(t, err)

	spec, err := Build(tb, Histogram, Selection{X: "v"})
	require.NoError(t, err)
	// Sturges: ceil(log2 8)+1 = 4 bins over [1, 9]
	require.Len(t, spec.Bins, 4)
	total := 0
	for _, b := range spec.Bins {
		total += b.Count
	}
	assert.Equal(t, 8, total)
	assert.Equal(t, 1.0, spec.Bins[0].Lo)
	assert.Equal(t, 9.0, spec.Bins[3].Hi)
	assert.Equal(t, 1, spec.Bins[3].Count)

	spec, err = Build(sales(t), Histogram, Selection{X: "category"})
	require.NoError(t, err)
	require.Len(t, spec.Bins, 2)
	assert.Equal(t, Bin{Label: "A", Count: 2}, spec.Bins[0])

	constant, _ := table.New([]string{"c"}, [][]string{{"5"}, {"5"}}, table.ParseOptions{})
	spec, err = Build(constant, Histogram, Selection{X: "c"})
	require.NoError(t, err)
	require.Len(t, spec.Bins, 1)
	assert.Equal(t, 2, spec.Bins[0].Count)

	wide, _ := table.New([]string{"w"}, [][]string{{"-1e308"}, {"1e308"}, {"0"}}, table.ParseOptions{})
	_, err = Build(wide, Histogram, Selection{X: "w"})
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Error(), "too wide")
}

func TestLineSortsByNumericX(t *testing.T) {
	spec, err := Build(sales(t), Line, Selection{X: "day", Y: "amount"})
	require.NoError(t, err)
	require.Len(t, spec.Points, 3)
	assert.Equal(t, 1.0, spec.Points[0].X)
	assert.Equal(t, 20.0, spec.Points[0].Y)
	assert.Equal(t, 3.0, spec.Points[2].X)

	bar, err := Build(sales(t), Bar, Selection{X: "category", Y: "amount"})
	require.NoError(t, err)
	assert.Equal(t, "A", bar.Points[0].X)
	assert.Equal(t, "amount vs category", bar.Title)
}

func TestDefaultSelection(t *testing.T) {
	tb := sales(t)
	assert.Equal(t, Selection{X: "category"}, DefaultSelection(tb, Histogram))
	assert.Equal(t, Selection{X: "category", Y: "category"}, DefaultSelection(tb, Scatter))
	assert.Equal(t, Selection{X: "category", Y: "amount"}, DefaultSelection(tb, Pie))
}

func TestSpecJSON(t *testing.T) {
	spec, err := Build(sales(t), Scatter, Selection{X: "day", Y: "amount"})
	require.NoError(t, err)
	b, err := json.Marshal(spec)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"type":"scatter"`)
	assert.Contains(t, string(b), `"points":[{"x":3,"y":10}`)
}

func TestParseType(t *testing.T) {
	got, err := ParseType("Histogram")
	require.NoError(t, err)
	assert.Equal(t, Histogram, got)
	_, err = ParseType("radar")
	assert.Error(t, err)
}
