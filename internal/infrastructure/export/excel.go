// Package export builds Excel workbooks from tabular data. It knows
// nothing about any particular document type; callers describe their
// rows with a column list and get back an excelize file ready to be
// streamed to the client.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Number format codes used by callers. 3 is "#,##0" which is how
// whole-KRW amounts are displayed.
const (
	FmtInteger = 3
	FmtPercent = 10
)

// Column describes one spreadsheet column for rows of type T.
type Column[T any] struct {
	Header string
	Value  func(T) any
	// NumFmt is an excelize built-in number format id, 0 for default.
	NumFmt int
	// Width in characters, 0 for the excelize default.
	Width float64
}

// Table renders rows into a single-sheet workbook. The header row is
// bold with a light fill, data starts at row 2.
func Table[T any](sheet string, cols []Column[T], rows []T) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	for i, col := range cols {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("column name %d: %w", i+1, err)
		}
		cell := name + "1"
		if err := f.SetCellValue(sheet, cell, col.Header); err != nil {
			return nil, fmt.Errorf("set header %q: %w", col.Header, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("style header %q: %w", col.Header, err)
		}
		if col.Width > 0 {
			if err := f.SetColWidth(sheet, name, name, col.Width); err != nil {
				return nil, fmt.Errorf("set width %q: %w", col.Header, err)
			}
		}
		if col.NumFmt > 0 {
			style, err := f.NewStyle(&excelize.Style{NumFmt: col.NumFmt})
			if err != nil {
				return nil, fmt.Errorf("number style %q: %w", col.Header, err)
			}
			if len(rows) > 0 {
				first := fmt.Sprintf("%s2", name)
				last := fmt.Sprintf("%s%d", name, len(rows)+1)
				if err := f.SetCellStyle(sheet, first, last, style); err != nil {
					return nil, fmt.Errorf("style column %q: %w", col.Header, err)
				}
			}
		}
	}

	for rowIdx, row := range rows {
		for colIdx, col := range cols {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, fmt.Errorf("cell %d,%d: %w", colIdx+1, rowIdx+2, err)
			}
			if err := f.SetCellValue(sheet, cell, col.Value(row)); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	return f, nil
}
