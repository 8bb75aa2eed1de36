package chartable

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
)

var _ ReflectCellView = new(Table)

// Table is an ordered set of uniquely named columns.
//
// A Table is never modified after creation,
// methods that change columns return a new Table.
// Columns may have different lengths,
// NumRows returns the length of the longest column.
//
// It implements the row-oriented View interface,
// rows of columns with fewer values than NumRows
// return nil for the missing cells.
//
// Tables are usually created with NewTableFrom
// which accepts most host data structures:
//
//	table, err := NewTableFrom(map[string]any{
//		"Genres":     []string{"Pop", "Rock"},
//		"Popularity": []float64{114, 96},
//	})
//
// or from typed rows using the "col" struct tag
// of DefaultStructFieldNaming:
//
//	type Sale struct {
//		Region string    `col:"region"`
//		Amount float64   `col:"amount"`
//		Day    date.Date `col:"day"`
//	}
//	table, err := NewTableFrom([]Sale{...})
type Table struct {
	title string
	cols  []*Column
}

// NewTable returns a Table with the passed columns in order.
// Column names must be unique and no column may be nil.
func NewTable(title string, cols ...*Column) (*Table, error) {
	names := make(map[string]struct{}, len(cols))
	for i, col := range cols {
		if col == nil {
			return nil, fmt.Errorf("column %d is nil", i)
		}
		if _, exists := names[col.Name]; exists {
			return nil, fmt.Errorf("duplicate column name %q", col.Name)
		}
		names[col.Name] = struct{}{}
	}
	return &Table{title: title, cols: cols}, nil
}

// MustNewTable is like NewTable but panics on an error.
func MustNewTable(title string, cols ...*Column) *Table {
	t, err := NewTable(title, cols...)
	if err != nil {
		panic(err)
	}
	return t
}

// TableFromMap returns a Table with a column for every
// map entry where the value has to be a slice or array.
// Columns are sorted by name because Go maps have no order.
func TableFromMap(m map[string]any) (*Table, error) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	cols := make([]*Column, len(names))
	for i, name := range names {
		col, err := NewColumn(name, m[name])
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}
	return NewTable("", cols...)
}

// TableFromView reads all cells of a row-oriented View
// into a column-oriented Table.
//
// The element type of every column is determined once:
// if all non-nil cells of a column have the same type T,
// then the column values will be of type []T,
// or []*T if the column also contains nil cells.
// Columns with mixed types or only nil cells
// have []any values and KindObject.
func TableFromView(view View) (*Table, error) {
	if view == nil {
		return nil, errors.New("view is nil")
	}
	source := AsReflectCellView(view)
	columns := source.Columns()
	numRows := source.NumRows()
	cols := make([]*Column, len(columns))
	for c, name := range columns {
		cells := make([]reflect.Value, numRows)
		for r := range cells {
			cells[r] = source.ReflectCell(r, c)
		}
		cols[c] = &Column{Name: name}
		cols[c].Values = typedSlice(cells)
		cols[c].Kind = KindOfType(reflect.TypeOf(cols[c].Values).Elem())
	}
	return NewTable(source.Title(), cols...)
}

// typedSlice returns a slice with the common element type
// of the non-nil cells.
func typedSlice(cells []reflect.Value) any {
	var (
		elemType reflect.Type
		hasNil   bool
	)
	for i, cell := range cells {
		for cell.IsValid() && cell.Kind() == reflect.Interface {
			cell = cell.Elem()
		}
		cells[i] = cell
		if ValueIsNil(cell) {
			hasNil = true
			continue
		}
		switch {
		case elemType == nil:
			elemType = cell.Type()
		case elemType != cell.Type():
			return anySlice(cells)
		}
	}
	if elemType == nil {
		return anySlice(cells)
	}
	if hasNil && elemType.Kind() != reflect.Ptr {
		slice := reflect.MakeSlice(reflect.SliceOf(reflect.PointerTo(elemType)), len(cells), len(cells))
		for i, cell := range cells {
			if !ValueIsNil(cell) {
				ptr := reflect.New(elemType)
				ptr.Elem().Set(cell)
				slice.Index(i).Set(ptr)
			}
		}
		return slice.Interface()
	}
	slice := reflect.MakeSlice(reflect.SliceOf(elemType), len(cells), len(cells))
	for i, cell := range cells {
		if !ValueIsNil(cell) {
			slice.Index(i).Set(cell)
		}
	}
	return slice.Interface()
}

func anySlice(cells []reflect.Value) []any {
	slice := make([]any, len(cells))
	for i, cell := range cells {
		if cell.IsValid() {
			slice[i] = cell.Interface()
		}
	}
	return slice
}

// NewTableFrom returns a Table for the supported source types:
//   - *Table is returned unchanged
//   - nil returns an empty Table
//   - map[string]any with slice or array values, see TableFromMap
//   - View, see TableFromView
//   - []map[string]any record set, see NewAnyValuesViewFromRecords
//   - a slice or array of structs or struct pointers, see TableFromStructs
func NewTableFrom(source any) (*Table, error) {
	switch s := source.(type) {
	case nil:
		return MustNewTable(""), nil
	case *Table:
		if s == nil {
			return MustNewTable(""), nil
		}
		return s, nil
	case map[string]any:
		return TableFromMap(s)
	case View:
		return TableFromView(s)
	case []map[string]any:
		return TableFromView(NewAnyValuesViewFromRecords("", s))
	}
	v := reflect.ValueOf(source)
	if v.Kind() == reflect.Map && v.Type().Key().Kind() == reflect.String {
		m := make(map[string]any, v.Len())
		for iter := v.MapRange(); iter.Next(); {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return TableFromMap(m)
	}
	return TableFromStructs(source, &DefaultStructFieldNaming)
}

func (t *Table) Title() string { return t.title }

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	names := make([]string, len(t.cols))
	for i, col := range t.cols {
		names[i] = col.Name
	}
	return names
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.cols) }

// NumRows returns the length of the longest column.
func (t *Table) NumRows() int {
	n := 0
	for _, col := range t.cols {
		n = max(n, col.Len())
	}
	return n
}

func (t *Table) Cell(row, col int) any {
	if col < 0 || col >= len(t.cols) {
		return nil
	}
	return t.cols[col].Value(row)
}

func (t *Table) ReflectCell(row, col int) reflect.Value {
	if col < 0 || col >= len(t.cols) {
		return reflect.Value{}
	}
	return t.cols[col].ReflectValue(row)
}

// Cols returns the columns of the table.
// The returned slice must not be modified.
func (t *Table) Cols() []*Column { return t.cols }

// Column returns the column with the passed name.
func (t *Table) Column(name string) (*Column, bool) {
	for _, col := range t.cols {
		if col.Name == name {
			return col, true
		}
	}
	return nil, false
}

// WithColumns returns a new Table where columns with the names
// of the passed columns are replaced at their position,
// columns with new names are appended,
// and all other columns are kept.
func (t *Table) WithColumns(cols ...*Column) (*Table, error) {
	merged := make([]*Column, len(t.cols), len(t.cols)+len(cols))
	copy(merged, t.cols)
	index := make(map[string]int, len(merged))
	for i, col := range merged {
		index[col.Name] = i
	}
	for _, col := range cols {
		if col == nil {
			return nil, errors.New("column is nil")
		}
		if i, ok := index[col.Name]; ok {
			merged[i] = col
			continue
		}
		index[col.Name] = len(merged)
		merged = append(merged, col)
	}
	return NewTable(t.title, merged...)
}

// WithTitle returns a Table with the same columns and a different title.
func (t *Table) WithTitle(title string) *Table {
	return &Table{title: title, cols: t.cols}
}

// Data returns a map from column name to column values.
func (t *Table) Data() map[string]any {
	data := make(map[string]any, len(t.cols))
	for _, col := range t.cols {
		data[col.Name] = col.Values
	}
	return data
}
