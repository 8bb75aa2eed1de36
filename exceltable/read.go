// Package exceltable reads Excel workbooks into chartable.Table values.
package exceltable

import (
	"bytes"
	"context"
	"errors"
	"io"

	fs "github.com/ungerik/go-fs"
	"github.com/xuri/excelize/v2"

	"github.com/domonda/go-chartable"
)

// ReadSheet reads the sheet with the passed name, or the first sheet
// if sheet is empty, as Table using the first row as column names.
// Cell strings are typed with chartable.ParseColumns.
func ReadSheet(reader io.Reader, sheet string, parser chartable.Parser) (table *chartable.Table, err error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	if sheet == "" {
		sheet = f.GetSheetName(0)
		if sheet == "" {
			return nil, ErrSheetNotExist{SheetName: "<FirstSheet>"}
		}
	}
	return readSheet(f, sheet, parser)
}

// ReadAll reads all non empty sheets of a workbook as tables
// titled with the sheet names.
func ReadAll(reader io.Reader, parser chartable.Parser) (tables []*chartable.Table, err error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	for _, sheet := range f.GetSheetList() {
		table, err := readSheet(f, sheet, parser)
		if err != nil {
			if errors.Is(err, ErrEmptySheet) {
				continue
			}
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, nil
}

// ReadFile reads a sheet of an Excel file, see ReadSheet.
func ReadFile(ctx context.Context, file fs.FileReader, sheet string, parser chartable.Parser) (*chartable.Table, error) {
	data, err := file.ReadAllContext(ctx)
	if err != nil {
		return nil, err
	}
	return ReadSheet(bytes.NewReader(data), sheet, parser)
}

func readSheet(f *excelize.File, sheet string, parser chartable.Parser) (*chartable.Table, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	table, err := chartable.TableFromStrings(sheet, rows, parser)
	if err != nil {
		return nil, err
	}
	if table.NumCols() == 0 {
		return nil, ErrEmptySheet
	}
	return table, nil
}
