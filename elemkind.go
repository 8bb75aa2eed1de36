package chartable

import (
	"reflect"
	"time"
)

// ElemKind is the category of the elements of a column.
// It is determined once when a Column is created
// from the static element type of its values slice.
type ElemKind int

const (
	// KindObject is used for element types that can't be
	// classified without looking at the actual values,
	// like interface types or structs.
	KindObject ElemKind = iota
	// KindTemporal is used for dates and times.
	KindTemporal
	// KindUnsigned is used for all unsigned integer types.
	KindUnsigned
	// KindSigned is used for all signed integer types.
	KindSigned
	// KindFloat is used for float32 and float64.
	KindFloat
	// KindBool is used for bool.
	KindBool
	// KindBytes is used for byte slices and byte arrays.
	KindBytes
	// KindString is used for string types.
	KindString
)

func (k ElemKind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindTemporal:
		return "temporal"
	case KindUnsigned:
		return "unsigned"
	case KindSigned:
		return "signed"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindBytes:
		return "bytes"
	case KindString:
		return "string"
	}
	return "invalid ElemKind"
}

// Temporal can be implemented by date-like
// or period-like types that are not registered
// with IsTemporalType.
type Temporal interface {
	Time() time.Time
}

// KindOfType returns the ElemKind for values of type t.
// Pointer types are dereferenced, so []*int64 holding
// nullable values has the same kind as []int64.
// A nil type returns KindObject.
func KindOfType(t reflect.Type) ElemKind {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil {
		return KindObject
	}
	if IsTemporalType(t) {
		return KindTemporal
	}
	if t.Kind() != reflect.Interface && reflect.PointerTo(t).Implements(typeOfTemporal) {
		return KindTemporal
	}
	switch t.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return KindUnsigned
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return KindSigned
	case reflect.Float32, reflect.Float64:
		return KindFloat
	case reflect.Bool:
		return KindBool
	case reflect.String:
		return KindString
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return KindBytes
		}
	}
	return KindObject
}
