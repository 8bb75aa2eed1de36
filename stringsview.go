package chartable

import (
	"fmt"
	"strings"
)

var _ View = new(StringsView)

// StringsView is a View implementation that uses strings as cell values.
// It is what text based sources like CSV files and
// Excel sheets with raw cell strings are read into.
//
// A row within Rows can have fewer slice elements than Cols,
// in which case Cell returns nil for the missing cells.
type StringsView struct {
	Tit  string
	Cols []string
	Rows [][]string
}

// NewStringsView returns a StringsView using the passed cols as column names.
// If no cols are passed, then the first row will be used
// as column names and removed from the data rows.
// Leading and trailing whitespace is trimmed from column names.
func NewStringsView(title string, rows [][]string, cols ...string) *StringsView {
	if len(cols) == 0 && len(rows) > 0 {
		cols = rows[0]
		rows = rows[1:]
	}
	trimmed := make([]string, len(cols))
	for i, col := range cols {
		trimmed[i] = strings.TrimSpace(col)
	}
	return &StringsView{
		Tit:  title,
		Cols: trimmed,
		Rows: rows,
	}
}

func (view *StringsView) Title() string     { return view.Tit }
func (view *StringsView) Columns() []string { return view.Cols }
func (view *StringsView) NumRows() int      { return len(view.Rows) }

func (view *StringsView) Cell(row, col int) any {
	if row < 0 || col < 0 || row >= len(view.Rows) || col >= len(view.Rows[row]) || col >= len(view.Cols) {
		return nil
	}
	return view.Rows[row][col]
}

// RemoveEmptyStringRows removes all rows
// that only consist of empty or whitespace strings.
func RemoveEmptyStringRows(rows [][]string) [][]string {
	filtered := rows[:0]
	for _, row := range rows {
		if !isEmptyStringRow(row) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// RemoveEmptyStringColumns removes trailing columns
// that are empty in all rows and returns
// the number of remaining columns.
func RemoveEmptyStringColumns(rows [][]string) (numCols int) {
	for _, row := range rows {
		for col := len(row) - 1; col >= numCols; col-- {
			if strings.TrimSpace(row[col]) != "" {
				numCols = col + 1
				break
			}
		}
	}
	for i, row := range rows {
		if len(row) > numCols {
			rows[i] = row[:numCols]
		}
	}
	return numCols
}

func isEmptyStringRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// TableFromStrings returns a typed Table from string rows
// using the first non empty row as column names.
// Empty rows and trailing empty columns are removed,
// empty column names are replaced by "Column N"
// and repeated names get a numeric suffix.
func TableFromStrings(title string, rows [][]string, parser Parser) (*Table, error) {
	rows = RemoveEmptyStringRows(rows)
	numCols := RemoveEmptyStringColumns(rows)
	if len(rows) == 0 {
		return MustNewTable(title), nil
	}
	header := make([]string, numCols)
	copy(header, rows[0])
	view := NewStringsView(title, rows[1:], uniqueColumnNames(header)...)
	table, err := TableFromView(view)
	if err != nil {
		return nil, err
	}
	return ParseColumns(table, parser)
}

func uniqueColumnNames(names []string) []string {
	unique := make([]string, len(names))
	used := make(map[string]int, len(names))
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("Column %d", i+1)
		}
		if n := used[name]; n > 0 {
			used[name] = n + 1
			name = fmt.Sprintf("%s_%d", name, n+1)
		}
		used[name]++
		unique[i] = name
	}
	return unique
}
