package chartable

import (
	"fmt"
	"reflect"
	"strings"
)

// StructFieldNaming defines how struct fields
// are mapped to column names.
//
// nil is a valid value for *StructFieldNaming
// and is equal to the zero value
// which will use all exported struct fields
// with their field name as column name.
type StructFieldNaming struct {
	// Tag is the struct field tag to be used as column name.
	// If Tag is empty, then every struct field will be treated as untagged.
	Tag string
	// Fields with the column name Ignore don't get a column.
	Ignore string
	// Untagged will be called with the struct field name to
	// return a column name in case the struct field has no tag named Tag.
	// If Untagged is nil, then the struct field name will be used.
	Untagged func(fieldName string) (column string)
}

// String implements the fmt.Stringer interface for StructFieldNaming.
func (n *StructFieldNaming) String() string {
	if n == nil {
		return `StructFieldNaming{Tag: "", Ignore: ""}`
	}
	return fmt.Sprintf("StructFieldNaming{Tag: %#v, Ignore: %#v}", n.Tag, n.Ignore)
}

// StructFieldColumn returns the column name for a struct field.
func (n *StructFieldNaming) StructFieldColumn(structField reflect.StructField) string {
	if n == nil {
		return structField.Name
	}
	if n.Tag != "" {
		if tag, ok := structField.Tag.Lookup(n.Tag); ok {
			if i := strings.IndexByte(tag, ','); i != -1 {
				tag = tag[:i]
			}
			if tag != "" {
				return tag
			}
		}
	}
	if n.Untagged == nil {
		return structField.Name
	}
	return n.Untagged(structField.Name)
}

// IsIgnored returns true if the column name
// equals the configured Ignore name.
func (n *StructFieldNaming) IsIgnored(column string) bool {
	return n != nil && n.Ignore != "" && column == n.Ignore
}
