package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/tabclean/internal/table"
)

func fixture(t *testing.T) *table.Table {
	t.Helper()
	tb, err := table.New([]string{"name", "score", "note"}, [][]string{
		{"ann", "1.5", "a, quoted \"note\""},
		{"bob", "", "multi\nline"},
		{"cy", "-2", ""},
	}, table.ParseOptions{})
	require.NoError(t, err)
	return tb
}

func TestCSVLayout(t *testing.T) {
	b, err := CSV(fixture(t))
	require.NoError(t, err)
	want := "name,score,note\n" +
		"ann,1.5,\"a, quoted \"\"note\"\"\"\n" +
		"bob,,\"multi\nline\"\n" +
		"cy,-2,\n"
	assert.Equal(t, want, string(b))
}

func TestCSVRoundTrip(t *testing.T) {
	first, err := CSV(fixture(t))
	require.NoError(t, err)
	back, err := table.Load(bytes.NewReader(first), table.FormatCSV, table.LoadOptions{})
	require.NoError(t, err)
	second, err := CSV(back)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
	assert.Equal(t, []string{"name", "score", "note"}, back.Names())
}

func TestCSVRoundTripSingleColumnWithGap(t *testing.T) {
	src, err := table.New([]string{"v"}, [][]string{{"1"}, {""}, {"3"}}, table.ParseOptions{})
	require.NoError(t, err)
	first, err := CSV(src)
	require.NoError(t, err)
	assert.Equal(t, "v\n1\n\"\"\n3\n", string(first))

	back, err := table.Load(bytes.NewReader(first), table.FormatCSV, table.LoadOptions{})
	require.NoError(t, err)
	require.Equal(t, 3, back.NumRows())
	v, ok := back.Column("v")
	require.True(t, ok)
	assert.True(t, v.Values[1].Missing)
	assert.Equal(t, 3.0, v.Values[2].Num)

	second, err := CSV(back)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestXLSXRoundTrip(t *testing.T) {
	src := fixture(t)
	b, err := XLSX(src)
	require.NoError(t, err)
	back, err := table.Load(bytes.NewReader(b), table.FormatXLSX, table.LoadOptions{})
	require.NoError(t, err)
	require.Equal(t, src.NumRows(), back.NumRows())
	assert.Equal(t, src.Names(), back.Names())

	score, ok := back.Column("score")
	require.True(t, ok)
	assert.Equal(t, table.KindNumeric, score.Kind)
	assert.Equal(t, 1.5, score.Values[0].Num)
	assert.True(t, score.Values[1].Missing)
	assert.Equal(t, -2.0, score.Values[2].Num)
	assert.Equal(t, "ann", back.Row(0)[0])
}

func TestEncode(t *testing.T) {
	_, err := Encode(fixture(t), "parquet")
	assert.Error(t, err)
	b, err := Encode(fixture(t), "")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("name,score,note\n")))
	assert.Contains(t, ContentType(table.FormatXLSX), "spreadsheetml")
}
