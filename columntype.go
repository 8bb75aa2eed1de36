package chartable

import (
	"fmt"
	"sort"
)

// ColumnType is the type of a chart data series
// as understood by the Vizzu widget.
type ColumnType string

const (
	// Datetime columns hold temporal values.
	Datetime ColumnType = "datetime"
	// Measure columns hold quantitative values
	// that the chart can aggregate.
	Measure ColumnType = "measure"
	// Dimension columns hold categorical values.
	// It is the fallback for everything that
	// is neither temporal nor numeric.
	Dimension ColumnType = "dimension"
)

// Validate returns an error if t is not
// one of Datetime, Measure, or Dimension.
func (t ColumnType) Validate() error {
	switch t {
	case Datetime, Measure, Dimension:
		return nil
	}
	return fmt.Errorf("invalid ColumnType %q", string(t))
}

func (t ColumnType) String() string { return string(t) }

// UnmarshalText implements encoding.TextUnmarshaler
// and validates the unmarshalled text.
func (t *ColumnType) UnmarshalText(text []byte) error {
	ct := ColumnType(text)
	if err := ct.Validate(); err != nil {
		return err
	}
	*t = ct
	return nil
}

// ColumnTypes maps column names to explicitly set column types.
// An entry always wins over the inferred type of a column.
type ColumnTypes map[string]ColumnType

// Validate returns an error for the first
// invalid ColumnType in sorted column name order.
func (c ColumnTypes) Validate() error {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := c[name].Validate(); err != nil {
			return fmt.Errorf("column %q: %w", name, err)
		}
	}
	return nil
}

// Lookup returns the ColumnType set for a column name.
// It is safe to call on a nil ColumnTypes.
func (c ColumnTypes) Lookup(name string) (ColumnType, bool) {
	t, ok := c[name]
	return t, ok
}

// Clone returns a shallow copy of c or nil if c is nil.
func (c ColumnTypes) Clone() ColumnTypes {
	if c == nil {
		return nil
	}
	clone := make(ColumnTypes, len(c))
	for name, t := range c {
		clone[name] = t
	}
	return clone
}
