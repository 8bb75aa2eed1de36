package csvtable

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/domonda/go-types/charset"
)

// ParseDetectFormat parses CSV data after detecting
// its encoding, newline, and separator with DetectFormat.
func ParseDetectFormat(data []byte, config *FormatDetectionConfig) (rows [][]string, format *Format, err error) {
	utf8, format, err := DetectFormat(data, config)
	if err != nil {
		return nil, nil, err
	}
	rows, err = parseUTF8(utf8, format)
	return rows, format, err
}

// ParseWithFormat parses CSV data encoded in a known format.
// A "sep=" header line must match format.Separator.
func ParseWithFormat(data []byte, format *Format) (rows [][]string, err error) {
	if err = format.Validate(); err != nil {
		return nil, err
	}
	if format.Encoding == "UTF-8" {
		data = charset.TrimBOM(data, charset.BOMUTF8)
	} else {
		enc, err := charset.GetEncoding(format.Encoding)
		if err != nil {
			return nil, err
		}
		data, err = enc.Decode(data)
		if err != nil {
			return nil, err
		}
	}
	data = sanitizeUTF8(data)

	if sep, rest := cutSepHeaderLine(data); sep != "" {
		if sep != format.Separator {
			return nil, fmt.Errorf("separator %q in header line is different from format separator %q", sep, format.Separator)
		}
		data = rest
	}
	return parseUTF8(data, format)
}

// DetectFormat decodes data to UTF-8 and detects its format:
//
//   - the first encoding of config that decodes all
//     config.EncodingTests strings found in data, defaulting to UTF-8
//   - CRLF newlines if data contains any, else LF
//   - the separator from a "sep=X" header line,
//     else the most frequent of comma, semicolon, and tab
//     outside of quoted fields, defaulting to comma
//
// The returned UTF-8 data has the header line removed.
func DetectFormat(data []byte, config *FormatDetectionConfig) (utf8 []byte, format *Format, err error) {
	if config == nil {
		config = NewDefaultFormatDetectionConfig()
	}
	encodings := make([]charset.Encoding, 0, len(config.Encodings))
	for _, name := range config.Encodings {
		enc, err := charset.GetEncoding(name)
		if err != nil {
			return nil, nil, err
		}
		encodings = append(encodings, enc)
	}

	format = new(Format)
	utf8, format.Encoding, err = charset.AutoDecode(data, encodings, config.EncodingTests)
	if err != nil {
		return nil, nil, err
	}
	if format.Encoding == "" {
		format.Encoding = "UTF-8"
	}
	utf8 = sanitizeUTF8(charset.TrimBOM(utf8, charset.BOMUTF8))

	if bytes.Contains(utf8, []byte("\r\n")) {
		format.Newline = "\r\n"
	} else {
		format.Newline = "\n"
	}

	if sep, rest := cutSepHeaderLine(utf8); sep != "" {
		format.Separator = sep
		return rest, format, nil
	}
	format.Separator = detectSeparator(utf8)
	return utf8, format, nil
}

func detectSeparator(data []byte) string {
	var (
		commas, semicolons, tabs int
		quoted                   bool
	)
	for _, c := range data {
		switch c {
		case '"':
			quoted = !quoted
		case ',':
			if !quoted {
				commas++
			}
		case ';':
			if !quoted {
				semicolons++
			}
		case '\t':
			if !quoted {
				tabs++
			}
		}
	}
	switch {
	case semicolons > commas && semicolons > tabs:
		return ";"
	case tabs > commas && tabs > semicolons:
		return "\t"
	default:
		return ","
	}
}

// cutSepHeaderLine returns the separator declared by a
// "sep=X" or "SEP=X" first line, optionally in quotes,
// and the data following that line.
// An empty sep is returned if there is no such line.
func cutSepHeaderLine(data []byte) (sep string, rest []byte) {
	line, rest, _ := bytes.Cut(data, []byte{'\n'})
	line = bytes.TrimSuffix(line, []byte{'\r'})
	if len(line) >= 2 && line[0] == '"' && line[len(line)-1] == '"' {
		line = line[1 : len(line)-1]
	}
	if len(line) != 5 || !(bytes.HasPrefix(line, []byte("sep=")) || bytes.HasPrefix(line, []byte("SEP="))) {
		return "", data
	}
	return string(line[4:]), rest
}

func parseUTF8(data []byte, format *Format) (rows [][]string, err error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = rune(format.Separator[0])
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

// sanitizeUTF8 replaces invalid characters
// and no-break spaces with spaces
func sanitizeUTF8(str []byte) []byte {
	return bytes.Map(
		func(r rune) rune {
			switch r {
			case '\uFFFD', '\u00a0':
				return ' '
			default:
				return r
			}
		},
		str,
	)
}
