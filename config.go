package chartable

import (
	"reflect"
	"time"

	"github.com/domonda/go-types/date"
)

var (
	// DefaultStructFieldNaming provides the default StructFieldNaming
	// using "col" as column name tag, ignores "-" named fields,
	// and uses the struct field name for untagged fields.
	DefaultStructFieldNaming = StructFieldNaming{
		Tag:    "col",
		Ignore: "-",
	}

	// IsTemporalType reports if values of the passed type
	// are dates or times and columns of that type
	// are classified as Datetime.
	// Pointer types are dereferenced before calling IsTemporalType.
	//
	// By default time.Time, date.Date and date.NullableDate
	// from github.com/domonda/go-types/date are temporal types.
	// Replace the function to register further types.
	IsTemporalType = func(t reflect.Type) bool {
		switch t {
		case typeOfTime, typeOfDate, typeOfNullableDate:
			return true
		}
		return false
	}

	// DefaultParser is used by ParseColumns
	// if no Parser is passed.
	DefaultParser Parser = NewStringParser()
)

var (
	typeOfTime         = reflect.TypeOf(time.Time{})
	typeOfDate         = reflect.TypeOf(date.Date(""))
	typeOfNullableDate = reflect.TypeOf(date.NullableDate(""))
	typeOfAny          = reflect.TypeOf((*any)(nil)).Elem()
	typeOfTemporal     = reflect.TypeOf((*Temporal)(nil)).Elem()
)
