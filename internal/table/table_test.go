package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectRowsAndCloneDoNotShareState(t *testing.T) {
	tb, err := New([]string{"n", "s"}, [][]string{{"1", "a"}, {"2", "b"}, {"3", "c"}}, ParseOptions{})
	require.NoError(t, err)
	sub := tb.SelectRows([]bool{true, false, true})
	require.Equal(t, 2, sub.NumRows())
	assert.Equal(t, []string{"3", "c"}, sub.Row(1))

	cl := tb.Clone()
	cl.Columns[0].Values[0].Raw = "changed"
	assert.Equal(t, "1", tb.Columns[0].Values[0].Raw, "clone mutated the source table")
}

func TestHeadBounds(t *testing.T) {
	tb, err := New([]string{"n"}, [][]string{{"1"}, {"2"}}, ParseOptions{})
	require.NoError(t, err)
	p := tb.Head(5)
	assert.Len(t, p.Rows, 2)
	assert.Equal(t, 2, p.Total)

	p = tb.Head(-1)
	assert.Empty(t, p.Rows)
	assert.Len(t, p.Columns, 1)
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in     string
		strict bool
		want   float64
		ok     bool
	}{
		{"12.5", false, 12.5, true},
		{" 7 ", false, 7, true},
		{"1e3", false, 1000, true},
		{"12,5", false, 12.5, true},
		{"1.234,5", false, 1234.5, true},
		{"45%", false, 45, true},
		{"45%", true, 0, false},
		{"Inf", false, 0, false},
		{"abc", false, 0, false},
		{".", false, 0, false},
	}
	for _, c := range cases {
		got, ok := ParseNumber(c.in, ParseOptions{Strict: c.strict})
		if assert.Equal(t, c.ok, ok, "ParseNumber(%q, strict=%v)", c.in, c.strict) && ok {
			assert.Equal(t, c.want, got, "ParseNumber(%q)", c.in)
		}
	}
}

func TestCustomNAValues(t *testing.T) {
	tb, err := New([]string{"x"}, [][]string{{"-"}, {"NA"}}, ParseOptions{NAValues: []string{"-"}})
	require.NoError(t, err)
	c := tb.Columns[0]
	assert.True(t, c.Values[0].Missing, "custom NA token not honored")
	assert.False(t, c.Values[1].Missing, "custom NA list replaces the defaults")
}
