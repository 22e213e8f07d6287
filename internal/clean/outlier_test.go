package clean

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOutlierMethod(t *testing.T) {
	for in, want := range map[string]OutlierMethod{"": OutlierNone, "None": OutlierNone, "Z-Score": OutlierZScore, "z_score": OutlierZScore, "IQR": OutlierIQR} {
		got, err := ParseOutlierMethod(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseOutlierMethod("dbscan")
	assert.Error(t, err)
}

var ages = []string{"10", "12", "11", "9", "13", "200"}

func TestZScoreRobustDropsExtremeAge(t *testing.T) {
	var rows [][]string
	for _, a := range ages {
		rows = append(rows, []string{a})
	}
	tb := newTable(t, []string{"age"}, rows...)

	opt := DefaultFilterOptions()
	opt.ZMode = ZRobust
	out := Filter(tb, OutlierZScore, opt)
	require.Equal(t, 5, out.NumRows())
	for i := 0; i < out.NumRows(); i++ {
		assert.NotEqual(t, "200", out.Row(i)[0])
	}
}

func TestZScoreStandardIsBoundedOnTinySamples(t *testing.T) {
	var rows [][]string
	for _, a := range ages {
		rows = append(rows, []string{a})
	}
	tb := newTable(t, []string{"age"}, rows...)
	// With six values no population z-score can exceed sqrt(5).
	out := Filter(tb, OutlierZScore, DefaultFilterOptions())
	assert.Equal(t, 6, out.NumRows())

	opt := DefaultFilterOptions()
	opt.ZThreshold = 2
	out = Filter(tb, OutlierZScore, opt)
	assert.Equal(t, 5, out.NumRows())
}

func TestZScoreStandardDropsOutlierAcrossAnyColumn(t *testing.T) {
	header := []string{"a", "b", "label"}
	var rows [][]string
	for i := 0; i < 20; i++ {
		rows = append(rows, []string{strconv.Itoa(8 + i%5), strconv.Itoa(3 + i%5), "ok"})
	}
	rows = append(rows, []string{"10", "500", "bad"}) // outlier only in b
	rows = append(rows, []string{"", "5", "gap"})     // missing never flags
	tb := newTable(t, header, rows...)

	out := Filter(tb, OutlierZScore, DefaultFilterOptions())
	assert.Equal(t, tb.NumRows()-1, out.NumRows())
	for i := 0; i < out.NumRows(); i++ {
		assert.NotEqual(t, "bad", out.Row(i)[2])
	}
}

func TestIQRBounds(t *testing.T) {
	var rows [][]string
	for _, a := range ages {
		rows = append(rows, []string{a, "x"})
	}
	tb := newTable(t, []string{"age", "tag"}, rows...)
	// Q1=10.25, Q3=12.75, IQR=2.5 → [6.5, 16.5]
	flags := Flag(tb, OutlierIQR, DefaultFilterOptions())
	assert.Equal(t, []bool{false, false, false, false, false, true}, flags)

	out := Filter(tb, OutlierIQR, DefaultFilterOptions())
	assert.Equal(t, 5, out.NumRows())
	// applying the filter again removes nothing further
	again := Filter(out, OutlierIQR, DefaultFilterOptions())
	assert.Equal(t, out.NumRows(), again.NumRows())
}

func TestFilterIgnoresConstantAndTextColumns(t *testing.T) {
	tb := newTable(t, []string{"k", "s"}, []string{"1", "a"}, []string{"1", "zzzz"}, []string{"1", "b"})
	assert.Equal(t, 3, Filter(tb, OutlierZScore, DefaultFilterOptions()).NumRows())
	assert.Equal(t, 3, Filter(tb, OutlierIQR, DefaultFilterOptions()).NumRows())
	assert.Equal(t, 3, Filter(tb, OutlierNone, DefaultFilterOptions()).NumRows())
}

func TestFilterResultIsSubsetInOrder(t *testing.T) {
	tb := newTable(t, []string{"v", "id"},
		[]string{"1", "a"}, []string{"2", "b"}, []string{"3", "c"}, []string{"2", "d"},
		[]string{"1", "e"}, []string{"2", "f"}, []string{"3", "g"}, []string{"100", "h"},
	)
	out := Filter(tb, OutlierIQR, FilterOptions{})
	var ids []string
	for i := 0; i < out.NumRows(); i++ {
		ids = append(ids, out.Row(i)[1])
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f", "g"}, ids)
}
