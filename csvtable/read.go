package csvtable

import (
	"context"
	"fmt"
	"strings"

	fs "github.com/ungerik/go-fs"

	"github.com/domonda/go-chartable"
)

// ReadFile reads a CSV file with format detection
// and returns a typed Table titled with the file name.
func ReadFile(ctx context.Context, file fs.FileReader, config *FormatDetectionConfig, parser chartable.Parser) (*chartable.Table, *Format, error) {
	data, err := file.ReadAllContext(ctx)
	if err != nil {
		return nil, nil, err
	}
	table, format, err := Read(data, config, parser)
	if err != nil {
		return nil, nil, fmt.Errorf("can't read CSV file %s: %w", file.Name(), err)
	}
	return table.WithTitle(strings.TrimSuffix(file.Name(), file.Ext())), format, nil
}

// Read parses CSV data with format detection
// and returns a typed Table using the first row as column names.
// The string cells are converted with chartable.ParseColumns
// using parser or chartable.DefaultParser if parser is nil.
func Read(data []byte, config *FormatDetectionConfig, parser chartable.Parser) (*chartable.Table, *Format, error) {
	rows, format, err := ParseDetectFormat(data, config)
	if err != nil {
		return nil, nil, err
	}
	table, err := chartable.TableFromStrings("", rows, parser)
	if err != nil {
		return nil, nil, err
	}
	return table, format, nil
}
