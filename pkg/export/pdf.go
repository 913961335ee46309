package export

import (
	"bytes"

	"stillhouse/domain"

	"github.com/go-pdf/fpdf"
)

// column widths in mm, landscape letter leaves ~259mm inside the margins
var pdfWidths = [5]float64{26, 24, 50, 94, 65}

const maxPDFCell = 60

// RenderPDF draws entries as a landscape letter table.
func RenderPDF(title string, entries []domain.LogEntry) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "Letter", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	drawHeader := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for i, h := range header {
			pdf.CellFormat(pdfWidths[i], 7, h, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 8)
	}

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, tr(title), "", 1, "L", false, 0, "")
		drawHeader()
	})
	pdf.AddPage()

	for _, r := range toRows(entries) {
		for i, v := range r {
			pdf.CellFormat(pdfWidths[i], 6, tr(truncate(v, maxPDFCell)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
