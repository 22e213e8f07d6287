package analysis

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/tabclean/internal/table"
)

func mustTable(t *testing.T, header []string, rows ...[]string) *table.Table {
	t.Helper()
	tb, err := table.New(header, rows, table.ParseOptions{})
	require.NoError(t, err)
	return tb
}

func TestDescribeMatchesDescriptiveStats(t *testing.T) {
	tb := mustTable(t, []string{"x", "label"},
		[]string{"1", "a"},
		[]string{"2", "b"},
		[]string{"3", "a"},
		[]string{"4", ""},
		[]string{"", "c"},
	)
	got := Describe(tb)
	require.Len(t, got, 1)
	s := got[0]
	assert.Equal(t, "x", s.Column)
	assert.Equal(t, 4, s.Count)
	// sample std of 1..4 = sqrt(5/3)
	checks := []struct {
		name string
		got  Float
		want float64
	}{
		{"mean", s.Mean, 2.5},
		{"std", s.Std, math.Sqrt(5.0 / 3.0)},
		{"min", s.Min, 1},
		{"p25", s.Q25, 1.75},
		{"p50", s.Q50, 2.5},
		{"p75", s.Q75, 3.25},
		{"max", s.Max, 4},
	}
	for _, c := range checks {
		assert.InDelta(t, c.want, float64(c.got), 1e-9, c.name)
	}
}

func TestDescribeDegenerateColumns(t *testing.T) {
	tb := mustTable(t, []string{"one", "none"}, []string{"5", ""})
	got := Describe(tb)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Count)
	assert.Equal(t, 5.0, float64(got[0].Mean))
	assert.True(t, math.IsNaN(float64(got[0].Std)), "single value std should be NaN")
	assert.Equal(t, 0, got[1].Count)
	assert.True(t, math.IsNaN(float64(got[1].Mean)), "all-missing mean should be NaN")

	// NaN must not break JSON encoding.
	b, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"std":null`)
}

func TestValueCountsOrdering(t *testing.T) {
	tb := mustTable(t, []string{"fruit", "n"},
		[]string{"pear", "1"},
		[]string{"apple", "2"},
		[]string{"apple", "3"},
		[]string{"fig", "4"},
		[]string{"", "5"},
	)
	vc := ValueCounts(tb)
	require.Len(t, vc, 1)
	assert.Equal(t, "fruit", vc[0].Column)
	assert.Equal(t, []CategoryCount{{"apple", 2}, {"pear", 1}, {"fig", 1}}, vc[0].Counts)
}

func TestSummarizeMarkdown(t *testing.T) {
	tb := mustTable(t, []string{"city", "temp", "code"},
		[]string{"Oslo", "4", "1"},
		[]string{"Rome", "18", "X"},
		[]string{"Oslo", "", "3"},
	)
	tb.Name = "weather.csv"
	md := Summarize(tb, DefaultOptions()).Markdown()
	for _, want := range []string{
		"[DATASET SUMMARY]",
		"File: weather.csv",
		"Rows: 3",
		"- temp: numeric (non-null 2, missing 33.3%)",
		"- code: mixed",
		"[NUMERIC SUMMARY]",
		"| temp | 2 | 11 |",
		"[CATEGORICAL VALUE COUNTS]",
		"- city: Oslo(2), Rome(1)",
		"[HEAD]",
		"[NOTES]",
	} {
		assert.Contains(t, md, want)
	}
}

func TestQuantilesAndMAD(t *testing.T) {
	q := Quantiles([]float64{10, 12, 11, 9, 13, 200}, 0.25, 0.75)
	assert.InDelta(t, 10.25, q[0], 1e-9)
	assert.InDelta(t, 12.75, q[1], 1e-9)
	assert.True(t, math.IsNaN(Quantiles(nil, 0.5)[0]), "empty quantile should be NaN")

	med, mad := MedianMAD([]float64{10, 12, 11, 9, 13, 200})
	assert.InDelta(t, 11.5, med, 1e-9)
	assert.InDelta(t, 1.5, mad, 1e-9)
}
