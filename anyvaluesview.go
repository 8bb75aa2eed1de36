package chartable

import (
	"maps"
	"slices"
)

var _ View = new(AnyValuesView)

// AnyValuesView is a View implementation
// that holds its rows as slices of values with any type.
// It is the row-oriented intermediate format
// of SQL query results and record sets.
type AnyValuesView struct {
	Tit  string
	Cols []string
	Rows [][]any
}

// NewAnyValuesViewFromRecords returns an AnyValuesView
// with one row per record.
//
// The columns are the union of all record keys sorted by name,
// because the key order of maps is not defined.
// Keys missing in a record result in nil cells,
// nil records in rows of nil cells.
func NewAnyValuesViewFromRecords(title string, records []map[string]any) *AnyValuesView {
	colSet := make(map[string]struct{})
	for _, record := range records {
		for key := range record {
			colSet[key] = struct{}{}
		}
	}
	view := &AnyValuesView{
		Tit:  title,
		Cols: slices.Sorted(maps.Keys(colSet)),
		Rows: make([][]any, len(records)),
	}
	for row, record := range records {
		view.Rows[row] = make([]any, len(view.Cols))
		for col, name := range view.Cols {
			view.Rows[row][col] = record[name]
		}
	}
	return view
}

func (view *AnyValuesView) Title() string     { return view.Tit }
func (view *AnyValuesView) Columns() []string { return view.Cols }
func (view *AnyValuesView) NumRows() int      { return len(view.Rows) }

func (view *AnyValuesView) Cell(row, col int) any {
	if row < 0 || col < 0 || row >= len(view.Rows) || col >= len(view.Rows[row]) {
		return nil
	}
	return view.Rows[row][col]
}
