package export

import (
	"fmt"

	"github.com/go-pdf/fpdf"

	"apidash/internal/analytics"
)

// WritePDF renders the analytics report as a PDF: a pass/fail bar chart
// per category followed by the detailed results table.
func WritePDF(path string, summaries []analytics.CategorySummary, rows []analytics.Row) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(33, 33, 33)
	pdf.CellFormat(0, 10, "API Test Analytics Report", "", 1, "L", false, 0, "")
	pdf.Ln(4)

	drawBarChart(pdf, summaries)

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "API Test Results (Detailed)", "", 1, "L", false, 0, "")
	pdf.Ln(2)
	drawResultsTable(pdf, rows)

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// drawBarChart renders grouped pass/fail bars, one group per category.
func drawBarChart(pdf *fpdf.Fpdf, summaries []analytics.CategorySummary) {
	if len(summaries) == 0 {
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, "No results to chart.", "", 1, "L", false, 0, "")
		return
	}

	const (
		chartLeft   = 20.0
		chartTop    = 40.0
		chartHeight = 80.0
		groupWidth  = 24.0
		barWidth    = 8.0
	)

	maxCount := 1
	for _, s := range summaries {
		if s.Pass > maxCount {
			maxCount = s.Pass
		}
		if s.Fail > maxCount {
			maxCount = s.Fail
		}
	}

	baseline := chartTop + chartHeight
	pdf.SetDrawColor(120, 120, 120)
	pdf.Line(chartLeft-2, baseline, chartLeft+float64(len(summaries))*groupWidth+2, baseline)

	pdf.SetFont("Helvetica", "", 9)
	for i, s := range summaries {
		x := chartLeft + float64(i)*groupWidth

		passHeight := chartHeight * float64(s.Pass) / float64(maxCount)
		pdf.SetFillColor(0x4a, 0xde, 0x80)
		pdf.Rect(x, baseline-passHeight, barWidth, passHeight, "F")

		failHeight := chartHeight * float64(s.Fail) / float64(maxCount)
		pdf.SetFillColor(0xf8, 0x71, 0x71)
		pdf.Rect(x+barWidth+1, baseline-failHeight, barWidth, failHeight, "F")

		pdf.SetXY(x, baseline+2)
		pdf.CellFormat(groupWidth-2, 5, s.Category, "", 0, "C", false, 0, "")
	}

	// Legend
	legendY := baseline + 12
	pdf.SetFillColor(0x4a, 0xde, 0x80)
	pdf.Rect(chartLeft, legendY, 4, 4, "F")
	pdf.SetXY(chartLeft+6, legendY-1)
	pdf.CellFormat(20, 6, "Pass", "", 0, "L", false, 0, "")
	pdf.SetFillColor(0xf8, 0x71, 0x71)
	pdf.Rect(chartLeft+30, legendY, 4, 4, "F")
	pdf.SetXY(chartLeft+36, legendY-1)
	pdf.CellFormat(20, 6, "Fail", "", 0, "L", false, 0, "")
	pdf.Ln(12)
}

func drawResultsTable(pdf *fpdf.Fpdf, rows []analytics.Row) {
	headers := []string{"Category", "API Name", "Status", "Result", "Error / Response Snippet"}
	widths := []float64{25, 40, 18, 18, 89}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 7, header, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	if len(rows) == 0 {
		pdf.CellFormat(190, 7, "No API results yet", "1", 1, "C", false, 0, "")
		return
	}

	for _, row := range rows {
		verdict := "FAIL"
		if row.Success {
			verdict = "PASS"
			pdf.SetFillColor(0xe8, 0xf9, 0xee)
		} else {
			pdf.SetFillColor(0xfd, 0xe8, 0xe8)
		}
		cells := []string{row.Category, row.Name, row.Status.String(), verdict, row.Snippet}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 6, cell, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}
}
