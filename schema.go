package chartable

import (
	"fmt"
	"strings"
)

// ColumnSchema declares the type of a chart data column.
type ColumnSchema struct {
	Name string     `json:"name" yaml:"name"`
	Type ColumnType `json:"type" yaml:"type"`
}

// Schema is the ordered list of column declarations
// passed to the chart widget.
type Schema []ColumnSchema

// Names returns the column names in schema order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.Name
	}
	return names
}

// TypeOf returns the ColumnType of the named column.
func (s Schema) TypeOf(name string) (ColumnType, bool) {
	for _, c := range s {
		if c.Name == name {
			return c.Type, true
		}
	}
	return "", false
}

// ColumnTypes returns the schema as ColumnTypes map.
func (s Schema) ColumnTypes() ColumnTypes {
	types := make(ColumnTypes, len(s))
	for _, c := range s {
		types[c.Name] = c.Type
	}
	return types
}

func (s Schema) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, c := range s {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %s", c.Name, c.Type)
	}
	b.WriteByte(']')
	return b.String()
}
