package chartable

import (
	"fmt"
	"reflect"
)

// TableFromStructs returns a Table with a column for every
// exported field of the struct element type of rows.
// rows must be a slice or array of structs or struct pointers.
//
// The column values have the static field types,
// so a float64 field results in a []float64 column.
// Nil struct pointer rows produce zero values.
func TableFromStructs(rows any, naming *StructFieldNaming) (*Table, error) {
	v := reflect.ValueOf(rows)
	for v.Kind() == reflect.Ptr && !v.IsNil() {
		v = v.Elem()
	}
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return nil, fmt.Errorf("rows must be a slice or array but are %T", rows)
	}
	rowType := v.Type().Elem()
	if derefType(rowType).Kind() != reflect.Struct {
		return nil, fmt.Errorf("row type must be a struct but is %s", rowType)
	}

	var (
		fields  = StructFieldTypes(derefType(rowType))
		indices []int
		slices  []reflect.Value
		cols    []*Column
	)
	for i, field := range fields {
		name := naming.StructFieldColumn(field)
		if naming.IsIgnored(name) {
			continue
		}
		indices = append(indices, i)
		slices = append(slices, reflect.MakeSlice(reflect.SliceOf(field.Type), v.Len(), v.Len()))
		cols = append(cols, &Column{Name: name, Kind: KindOfType(field.Type)})
	}
	for row := 0; row < v.Len(); row++ {
		values := StructFieldValues(v.Index(row))
		for c, i := range indices {
			slices[c].Index(row).Set(values[i])
		}
	}
	for c := range cols {
		cols[c].Values = slices[c].Interface()
	}
	return NewTable("", cols...)
}
