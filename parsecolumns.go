package chartable

import (
	"reflect"
	"time"
)

// ParseColumns returns a Table where every column of strings
// (or string pointers) is converted to []int64, []float64, or []time.Time
// if all of its non-nil cells can be parsed as such type.
// Integers are tried before floats and floats before times.
// If some cells are nil, then pointer slices are used.
// Columns that don't parse completely, and columns without
// any non-nil cell, are kept unchanged.
//
// DefaultParser is used if parser is nil.
func ParseColumns(table *Table, parser Parser) (*Table, error) {
	if parser == nil {
		parser = DefaultParser
	}
	cols := make([]*Column, len(table.cols))
	for i, col := range table.cols {
		cols[i] = parseColumn(col, parser)
	}
	return NewTable(table.title, cols...)
}

func parseColumn(col *Column, parser Parser) *Column {
	if col.Kind != KindString {
		return col
	}
	var (
		v      = reflect.ValueOf(col.Values)
		strs   = make([]string, v.Len())
		isNil  = make([]bool, v.Len())
		hasNil bool
		numVal int
	)
	for i := range strs {
		elem := v.Index(i)
		if elem.Kind() == reflect.Ptr {
			if elem.IsNil() {
				isNil[i], hasNil = true, true
				continue
			}
			elem = elem.Elem()
		}
		strs[i] = elem.String()
		if parser.IsNil(strs[i]) {
			isNil[i], hasNil = true, true
			continue
		}
		numVal++
	}
	if numVal == 0 {
		return col
	}
	if values, ok := parseAll(strs, isNil, hasNil, parser.ParseInt); ok {
		return &Column{Name: col.Name, Kind: KindSigned, Values: values}
	}
	if values, ok := parseAll(strs, isNil, hasNil, parser.ParseFloat); ok {
		return &Column{Name: col.Name, Kind: KindFloat, Values: values}
	}
	if values, ok := parseAll(strs, isNil, hasNil, parser.ParseTime); ok {
		return &Column{Name: col.Name, Kind: KindTemporal, Values: values}
	}
	return col
}

// parseAll returns []T or []*T if hasNil
func parseAll[T int64 | float64 | time.Time](strs []string, isNil []bool, hasNil bool, parse func(string) (T, error)) (any, bool) {
	parsed := make([]T, len(strs))
	for i, str := range strs {
		if isNil[i] {
			continue
		}
		val, err := parse(str)
		if err != nil {
			return nil, false
		}
		parsed[i] = val
	}
	if !hasNil {
		return parsed, true
	}
	ptrs := make([]*T, len(parsed))
	for i := range parsed {
		if !isNil[i] {
			ptrs[i] = &parsed[i]
		}
	}
	return ptrs, true
}
