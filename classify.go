package chartable

import "reflect"

// Classify returns the ColumnType of a column.
//
// A type set for the column name in overrides is returned unchanged.
// Otherwise the ElemKind of the column decides:
//
//	KindTemporal                        -> Datetime
//	KindUnsigned, KindSigned, KindFloat -> Measure
//	KindBool, KindBytes, KindString     -> Dimension
//
// Only for KindObject columns, like []any or slices of interfaces,
// the first value is inspected with ClassifyValue.
// Empty KindObject columns are dimensions.
// The remaining values are never looked at,
// so a []any column starting with a number
// is a Measure even if later values are strings.
//
// Classify never fails, unknown kinds
// of values are classified as Dimension.
//
// Example:
//
//	col := MustNewColumn("Year", []any{2023, "2024"})
//	Classify(col, nil)                               // Measure
//	Classify(col, ColumnTypes{"Year": Dimension})    // Dimension
func Classify(col *Column, overrides ColumnTypes) ColumnType {
	if col == nil {
		return Dimension
	}
	if t, ok := overrides.Lookup(col.Name); ok {
		return t
	}
	switch col.Kind {
	case KindTemporal:
		return Datetime
	case KindUnsigned, KindSigned, KindFloat:
		return Measure
	case KindBool, KindBytes, KindString:
		return Dimension
	}
	if col.Len() == 0 {
		return Dimension
	}
	return ClassifyReflectValue(col.ReflectValue(0))
}

// ClassifyValue returns the ColumnType implied by a single value.
// Dates, times and Temporal implementations are Datetime,
// strings are Dimension, integer and float numbers are Measure.
// Everything else including nil is Dimension.
//
// Bools are Dimension even though they could be counted as 0 and 1,
// use a Measure override in ColumnTypes to chart them as numbers.
func ClassifyValue(value any) ColumnType {
	return ClassifyReflectValue(reflect.ValueOf(value))
}

// ClassifyReflectValue is like ClassifyValue
// but works with a reflect.Value.
func ClassifyReflectValue(val reflect.Value) ColumnType {
	for val.IsValid() && (val.Kind() == reflect.Ptr || val.Kind() == reflect.Interface) {
		if val.IsNil() {
			return Dimension
		}
		val = val.Elem()
	}
	if !val.IsValid() {
		return Dimension
	}
	switch KindOfType(val.Type()) {
	case KindTemporal:
		return Datetime
	case KindUnsigned, KindSigned, KindFloat:
		return Measure
	}
	// Strings, bytes, bools, and everything not
	// recognized falls back to Dimension
	return Dimension
}

// InferSchema returns the Schema of a table
// with one entry per column in column order.
func InferSchema(table *Table, overrides ColumnTypes) Schema {
	if table == nil {
		return Schema{}
	}
	schema := make(Schema, len(table.cols))
	for i, col := range table.cols {
		schema[i] = ColumnSchema{
			Name: col.Name,
			Type: Classify(col, overrides),
		}
	}
	return schema
}
