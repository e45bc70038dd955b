// Package export serializes run results to spreadsheet and PDF files.
package export

import (
	"fmt"

	"github.com/gofrs/flock"
	"github.com/xuri/excelize/v2"

	"apidash/internal/analytics"
	"apidash/internal/catalog"
	"apidash/internal/runner"
)

const (
	sheetName   = "API Results"
	failBgColor = "FF5900"
	passBgColor = "C6EFCE"
	columnWidth = 24
	firstColumn = "A"
	lastColumn  = "G"
)

var excelHeaders = []string{
	"Category", "API Name", "Method", "URL", "Status Code", "Success", "Response / Error",
}

// WriteExcel writes one row per result record to an .xlsx file. Method and
// URL come from the catalog, looked up by category and name. An empty
// snapshot produces a header-only sheet. The output path is guarded by an
// advisory lock so concurrent exports cannot clobber each other.
func WriteExcel(path string, cat *catalog.Catalog, snap runner.Snapshot) (int, error) {
	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return 0, fmt.Errorf("lock export file: %w", err)
	}
	if !locked {
		return 0, fmt.Errorf("export file %s is locked by another process", path)
	}
	defer lock.Unlock()

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return 0, err
	}
	if err := f.SetColWidth(sheetName, firstColumn, lastColumn, columnWidth); err != nil {
		return 0, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return 0, err
	}
	for i, header := range excelHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return 0, err
		}
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	passStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{passBgColor}},
	})
	failStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{failBgColor}},
	})

	rows := analytics.Flatten(snap)
	for i, row := range rows {
		excelRow := i + 2

		method, url := "", ""
		if def, ok := cat.Lookup(row.Category, row.Name); ok {
			method, url = def.Method, def.URL
		}

		verdict := "FAIL"
		style := failStyle
		if row.Success {
			verdict = "PASS"
			style = passStyle
		}

		values := []any{row.Category, row.Name, method, url, row.Status.String(), verdict, row.Snippet}
		for col, value := range values {
			cell := fmt.Sprintf("%c%d", 'A'+col, excelRow)
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return 0, err
			}
		}
		verdictCell := fmt.Sprintf("F%d", excelRow)
		_ = f.SetCellStyle(sheetName, verdictCell, verdictCell, style)
	}

	if err := f.SaveAs(path); err != nil {
		return 0, fmt.Errorf("save spreadsheet: %w", err)
	}
	return len(rows), nil
}
