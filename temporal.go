package chartable

import (
	"reflect"
	"time"
)

// TimeOf returns the time of a temporal value.
// Supported are time.Time, Temporal implementations,
// and string based temporal types like date.Date
// holding ISO 8601 dates. Pointers are dereferenced.
func TimeOf(value any) (time.Time, bool) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return v, true
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, true
	}
	val := reflect.ValueOf(value)
	for val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return time.Time{}, false
		}
		val = val.Elem()
	}
	if t, ok := val.Interface().(time.Time); ok {
		return t, true
	}
	if t, ok := val.Interface().(Temporal); ok {
		return t.Time(), true
	}
	if val.CanAddr() {
		if t, ok := val.Addr().Interface().(Temporal); ok {
			return t.Time(), true
		}
	}
	if val.Kind() == reflect.String && IsTemporalType(val.Type()) {
		t, err := time.Parse(time.DateOnly, val.String())
		if err == nil {
			return t, true
		}
		t, err = time.Parse(time.RFC3339Nano, val.String())
		return t, err == nil
	}
	return time.Time{}, false
}
