package chartable

import (
	"fmt"
	"reflect"
)

// Column is a named sequence of values of a table.
//
// Values is always a slice, Kind is derived once
// from the element type of Values when the Column is created.
// A Column is not mutated after creation,
// changes to a table create new columns.
type Column struct {
	Name   string
	Kind   ElemKind
	Values any
}

// NewColumn returns a Column for a slice or array of values.
// Arrays are copied into a slice of the same element type.
func NewColumn(name string, values any) (*Column, error) {
	v := reflect.ValueOf(values)
	for v.Kind() == reflect.Ptr && !v.IsNil() && v.Elem().Kind() == reflect.Array {
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Slice:
		if v.IsNil() {
			v = reflect.MakeSlice(v.Type(), 0, 0)
		}
	case reflect.Array:
		s := reflect.MakeSlice(reflect.SliceOf(v.Type().Elem()), v.Len(), v.Len())
		reflect.Copy(s, v)
		v = s
	default:
		return nil, fmt.Errorf("values of column %q must be a slice or array but are %T", name, values)
	}
	return &Column{
		Name:   name,
		Kind:   KindOfType(v.Type().Elem()),
		Values: v.Interface(),
	}, nil
}

// MustNewColumn returns a Column for a slice or array of values
// or panics if values is not a slice or array.
func MustNewColumn(name string, values any) *Column {
	col, err := NewColumn(name, values)
	if err != nil {
		panic(err)
	}
	return col
}

// ColumnOf returns a Column with the passed typed values.
func ColumnOf[T any](name string, values []T) *Column {
	if values == nil {
		values = []T{}
	}
	return &Column{
		Name:   name,
		Kind:   KindOfType(reflect.TypeOf(values).Elem()),
		Values: values,
	}
}

// Len returns the number of values in the column.
func (c *Column) Len() int {
	if c == nil || c.Values == nil {
		return 0
	}
	return reflect.ValueOf(c.Values).Len()
}

// Value returns the value at index or nil if index is out of bounds.
func (c *Column) Value(index int) any {
	v := c.ReflectValue(index)
	if !v.IsValid() {
		return nil
	}
	return v.Interface()
}

// ReflectValue returns the reflect.Value at index
// or an invalid reflect.Value if index is out of bounds.
func (c *Column) ReflectValue(index int) reflect.Value {
	if c == nil || c.Values == nil {
		return reflect.Value{}
	}
	v := reflect.ValueOf(c.Values)
	if index < 0 || index >= v.Len() {
		return reflect.Value{}
	}
	return v.Index(index)
}

// WithName returns a copy of the column
// sharing the values with a different name.
func (c *Column) WithName(name string) *Column {
	return &Column{Name: name, Kind: c.Kind, Values: c.Values}
}

func (c *Column) String() string {
	return fmt.Sprintf("Column{Name: %q, Kind: %s, Len: %d}", c.Name, c.Kind, c.Len())
}
