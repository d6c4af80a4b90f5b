package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"ageheap/internal/demography"
)

// Required column headers, matched case-sensitively.
const (
	ColumnAge   = "Age"
	ColumnHomme = "Homme"
	ColumnFemme = "Femme"
)

// RequiredColumns lists the headers every age table must carry.
var RequiredColumns = []string{ColumnAge, ColumnHomme, ColumnFemme}

var (
	// ErrUnreadableWorkbook is returned for input excelize cannot decode,
	// including legacy BIFF (.xls) workbooks.
	ErrUnreadableWorkbook = errors.New("unreadable workbook")

	// ErrSheetNotFound is returned when the requested sheet does not exist.
	ErrSheetNotFound = errors.New("sheet not found")

	// ErrMissingColumns is matched by every *MissingColumnsError.
	ErrMissingColumns = errors.New("missing required columns")
)

// MissingColumnsError lists the required headers absent from a sheet.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingColumns, strings.Join(e.Missing, ", "))
}

func (e *MissingColumnsError) Is(target error) bool {
	return target == ErrMissingColumns
}

// Options controls which sheet is read.
type Options struct {
	// SheetName selects a sheet; empty means the first sheet of the workbook.
	SheetName string
}

// Sheet is the cell text of one worksheet. The first non-empty row becomes
// Headers; Rows holds every row after it, with blank rows kept so that row
// positions match the worksheet.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// ReadFile opens the workbook at path and reads one sheet from it.
func ReadFile(path string, opts Options) (*Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}
	defer f.Close()

	return readSheet(f, opts)
}

// Read is ReadFile for a workbook held in r.
func Read(r io.Reader, opts Options) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}
	defer f.Close()

	return readSheet(f, opts)
}

func readSheet(f *excelize.File, opts Options) (*Sheet, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrUnreadableWorkbook)
	}

	name := sheets[0]
	if opts.SheetName != "" {
		idx, err := f.GetSheetIndex(opts.SheetName)
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, opts.SheetName)
		}
		name = opts.SheetName
	}

	// Raw values keep numbers free of display formats such as thousands
	// separators.
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %v", ErrUnreadableWorkbook, name, err)
	}

	sheet := &Sheet{Name: name}
	for i, row := range rows {
		if isBlank(row) {
			continue
		}
		sheet.Headers = row
		sheet.Rows = rows[i+1:]
		break
	}

	return sheet, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ColumnIndex returns the position of the first header equal to name, or -1.
func (s *Sheet) ColumnIndex(name string) int {
	for i, h := range s.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// AgeRows extracts the Age, Homme and Femme columns as raw cells, one entry
// per data row. Cells are left unparsed for demography.Normalize. A
// *MissingColumnsError is returned when any of the three headers is absent.
func (s *Sheet) AgeRows() ([]demography.RawRow, error) {
	idx := make([]int, len(RequiredColumns))
	var missing []string
	for i, col := range RequiredColumns {
		idx[i] = s.ColumnIndex(col)
		if idx[i] < 0 {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Missing: missing}
	}

	out := make([]demography.RawRow, 0, len(s.Rows))
	for _, row := range s.Rows {
		out = append(out, demography.RawRow{
			Age:   cell(row, idx[0]),
			Homme: cell(row, idx[1]),
			Femme: cell(row, idx[2]),
		})
	}
	return out, nil
}

// cell returns row[i], or "" for cells past the end of a short row.
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
