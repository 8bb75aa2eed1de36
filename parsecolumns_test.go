package chartable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseColumns(t *testing.T) {
	view := NewStringsView("CSV", [][]string{
		{"ints", "floats", "times", "text", "nullable", "empty", "months"},
		{"1", "1.5", "2024-01-01", "east", "7", "", "2024-01"},
		{"2", "2,25", "2024-01-02T10:00:00Z", "west", "NULL", "", "2024-02"},
		{"-3", "3", "02.01.2024", "4", "", "", "2024-03"},
	})
	table, err := TableFromView(view)
	require.NoError(t, err)
	parsed, err := ParseColumns(table, nil)
	require.NoError(t, err)
	require.Equal(t, table.Columns(), parsed.Columns())

	col, _ := parsed.Column("ints")
	require.Equal(t, []int64{1, 2, -3}, col.Values)
	col, _ = parsed.Column("floats")
	require.Equal(t, []float64{1.5, 2.25, 3}, col.Values)
	col, _ = parsed.Column("times")
	require.Equal(t, KindTemporal, col.Kind)
	require.True(t, time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC).Equal(col.Values.([]time.Time)[1]))
	col, _ = parsed.Column("text")
	require.Equal(t, []string{"east", "west", "4"}, col.Values)
	col, _ = parsed.Column("nullable")
	seven := int64(7)
	require.Equal(t, []*int64{&seven, nil, nil}, col.Values)
	col, _ = parsed.Column("empty")
	require.Equal(t, KindString, col.Kind, "columns without values stay strings")

	require.Equal(t, Schema{
		{Name: "ints", Type: Measure},
		{Name: "floats", Type: Measure},
		{Name: "times", Type: Datetime},
		{Name: "text", Type: Dimension},
		{Name: "nullable", Type: Measure},
		{Name: "empty", Type: Dimension},
		{Name: "months", Type: Datetime},
	}, InferSchema(parsed, nil))
}

func TestStringParser(t *testing.T) {
	p := NewStringParser()
	require.True(t, p.IsNil(" null "))
	require.False(t, p.IsNil("0"))

	f, err := p.ParseFloat("3,14")
	require.NoError(t, err)
	require.Equal(t, 3.14, f)
	_, err = p.ParseFloat("1,000.5")
	require.Error(t, err)

	_, err = p.ParseTime("yesterday")
	require.Error(t, err)
}

func TestTableFromStrings(t *testing.T) {
	table, err := TableFromStrings("t", [][]string{
		{"x", "", "x"},
		{"1", "2", "3"},
	}, nil)
	require.NoError(t, err)
	require.Equal(t, "t", table.Title())
	require.Equal(t, []string{"x", "Column 2", "x_2"}, table.Columns())

	table, err = TableFromStrings("empty", nil, nil)
	require.NoError(t, err)
	require.Equal(t, 0, table.NumCols())
}
