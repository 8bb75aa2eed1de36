package chartable

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Parser parses the string cells of text based tables
// into numbers and times.
//
// ParseColumns uses a Parser to find the narrowest type
// for every string column: a column becomes []int64
// if all non nil cells parse with ParseInt,
// else []float64 if all parse with ParseFloat,
// else []time.Time if all parse with ParseTime,
// and stays []string otherwise.
// Cells for which IsNil returns true don't take part
// in the decision and result in nil pointers,
// for example []*int64 for a column of integers with gaps.
//
// DefaultParser is also used to encode strings
// of columns that are forced to Datetime or Measure
// by a column type override.
//
// StringParser is the default implementation,
// wrap or replace it to support locale specific formats:
//
//	parser := NewStringParser()
//	parser.TimeFormats = append(parser.TimeFormats, "01/02/2006")
//	table, format, err := csvtable.Read(data, nil, parser)
type Parser interface {
	// IsNil returns true if str represents a missing value.
	IsNil(str string) bool
	ParseInt(str string) (int64, error)
	ParseFloat(str string) (float64, error)
	ParseTime(str string) (time.Time, error)
}

var _ Parser = new(StringParser)

// StringParser is a configurable Parser implementation.
type StringParser struct {
	// NilStrings lists all strings that represent missing values.
	NilStrings []string `json:"nilStrings"`
	// TimeFormats lists time layouts tried in order by ParseTime.
	TimeFormats []string `json:"timeFormats"`
}

// NewStringParser returns a StringParser with default NilStrings and TimeFormats.
func NewStringParser() *StringParser {
	return &StringParser{
		NilStrings:  []string{"", "nil", "<nil>", "null", "NULL", "NaN", "N/A"},
		TimeFormats: slices.Clone(timeFormats),
	}
}

func (p *StringParser) IsNil(str string) bool {
	return slices.Contains(p.NilStrings, strings.TrimSpace(str))
}

func (p *StringParser) ParseInt(str string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(str), 10, 64)
}

// ParseFloat parses str as float64 and also accepts
// a single comma as decimal separator.
func (p *StringParser) ParseFloat(str string) (float64, error) {
	str = strings.TrimSpace(str)
	f, err := strconv.ParseFloat(str, 64)
	if err == nil {
		return f, nil
	}
	if strings.Count(str, ",") == 1 && !strings.Contains(str, ".") {
		f, e := strconv.ParseFloat(strings.Replace(str, ",", ".", 1), 64)
		if e == nil {
			return f, nil
		}
	}
	return 0, err
}

func (p *StringParser) ParseTime(str string) (time.Time, error) {
	str = strings.TrimSpace(str)
	for _, format := range p.TimeFormats {
		t, err := time.Parse(format, str)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as time", str)
}

var timeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04", // HTML datetime-local
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02 15:04:05.999999999 -0700 MST", // time.Time.String
	time.DateTime,
	"2006-01-02 15:04",
	time.DateOnly,
	"02.01.2006 15:04:05",
	"02.01.2006",
	"2006-01", // month periods
}
