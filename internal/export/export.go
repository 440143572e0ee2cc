// Package export writes console list screens out as downloadable files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Format selects the download encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat maps a query parameter to a Format, defaulting to CSV.
func ParseFormat(s string) Format {
	if s == string(FormatXLSX) {
		return FormatXLSX
	}
	return FormatCSV
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// Filename returns the attachment filename for the given base name.
func (f Format) Filename(base string) string {
	return base + "." + string(f)
}

// Sheet is one exported table: a sheet name for xlsx, column headers, and
// stringified rows in display order.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// Write encodes the sheet in the requested format.
func Write(w io.Writer, format Format, sheet Sheet) error {
	if format == FormatXLSX {
		return writeXLSX(w, sheet)
	}
	return writeCSV(w, sheet)
}

func writeCSV(w io.Writer, sheet Sheet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(sheet.Headers); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range sheet.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeXLSX(w io.Writer, sheet Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet.Name)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, header := range sheet.Headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		f.SetCellValue(sheet.Name, cell, header)
		f.SetCellStyle(sheet.Name, cell, cell, headerStyle)
	}

	for rowIdx, row := range sheet.Rows {
		for colIdx, value := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("data cell: %w", err)
			}
			f.SetCellValue(sheet.Name, cell, value)
		}
	}

	for i := range sheet.Headers {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("column name: %w", err)
		}
		f.SetColWidth(sheet.Name, col, col, 15)
	}

	if sheet.Name != "Sheet1" {
		f.DeleteSheet("Sheet1")
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
