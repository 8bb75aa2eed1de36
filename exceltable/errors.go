package exceltable

import (
	"errors"

	"github.com/xuri/excelize/v2"
)

// ErrEmptySheet is returned for sheets without data
// after removing empty rows and columns.
var ErrEmptySheet = errors.New("empty sheet")

// ErrSheetNotExist is returned for sheet names
// that don't exist in a workbook.
type ErrSheetNotExist = excelize.ErrSheetNotExist
