package csvtable

import (
	"errors"
	"fmt"
)

// Format of CSV data
type Format struct {
	// Encoding name as understood by charset.GetEncoding
	Encoding  string `json:"encoding" yaml:"encoding"`
	Separator string `json:"separator" yaml:"separator"`
	Newline   string `json:"newline" yaml:"newline"`
}

// NewFormat returns a UTF-8 Format with CRLF newlines
// and the passed separator.
func NewFormat(separator string) *Format {
	return &Format{
		Encoding:  "UTF-8",
		Separator: separator,
		Newline:   "\r\n",
	}
}

func (f *Format) Validate() error {
	switch {
	case f == nil:
		return errors.New("<nil> csvtable.Format")
	case f.Encoding == "":
		return errors.New("missing csvtable.Format.Encoding")
	case f.Separator == "":
		return errors.New("missing csvtable.Format.Separator")
	case len(f.Separator) > 1:
		return fmt.Errorf("invalid csvtable.Format.Separator: %q", f.Separator)
	case f.Newline != "\n" && f.Newline != "\r\n":
		return fmt.Errorf("invalid csvtable.Format.Newline: %q", f.Newline)
	}
	return nil
}

// FormatDetectionConfig lists the candidate encodings
// and the strings that have to decode correctly
// for an encoding to be detected.
type FormatDetectionConfig struct {
	Encodings     []string `json:"encodings" yaml:"encodings"`
	EncodingTests []string `json:"encodingTests" yaml:"encodingTests"`
}

func NewDefaultFormatDetectionConfig() *FormatDetectionConfig {
	return &FormatDetectionConfig{
		Encodings: []string{
			"UTF-8",
			"UTF-16LE",
			"ISO 8859-1",
			"Windows 1252",
			"Macintosh",
		},
		EncodingTests: []string{
			"ä", "Ä", "ö", "Ö", "ü", "Ü", "ß", "§", "€",
			"é", "è", "ñ", "°",
		},
	}
}
