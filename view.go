package chartable

import "reflect"

// View is a row-oriented read-only view of a table.
//
// Cell returns nil for row or col indices out of bounds.
// Rows may have fewer cells than columns.
type View interface {
	Title() string
	Columns() []string
	NumRows() int
	Cell(row, col int) any
}

// ReflectCellView is a View that can return
// cells as reflect.Value without boxing them in an interface.
type ReflectCellView interface {
	View

	// ReflectCell returns an invalid reflect.Value
	// for row or col indices out of bounds.
	ReflectCell(row, col int) reflect.Value
}

// AsReflectCellView returns the passed View as ReflectCellView
// if it implements the interface, or else wraps it
// to return reflect.ValueOf(view.Cell(row, col)).
func AsReflectCellView(view View) ReflectCellView {
	if r, ok := view.(ReflectCellView); ok {
		return r
	}
	return reflectCellView{view}
}

type reflectCellView struct {
	View
}

func (v reflectCellView) ReflectCell(row, col int) reflect.Value {
	return reflect.ValueOf(v.Cell(row, col))
}
