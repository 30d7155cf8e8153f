package export

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

var pdfColWidths = []float64{15, 55, 45, 75}

// PDF writes the winner table as an A4 document and returns the file
// path.
func PDF(raffle string, rows []Row) (string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, title(raffle), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(255, 209, 102)
	for i, h := range header {
		pdf.CellFormat(pdfColWidths[i], 8, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	fill := false
	for _, row := range rows {
		if fill {
			pdf.SetFillColor(230, 230, 230)
		} else {
			pdf.SetFillColor(245, 245, 245)
		}
		values := []string{
			fmt.Sprintf("%d", row.Serial), row.DisplayName, row.ShortName, row.Link,
		}
		for i, v := range values {
			pdf.CellFormat(pdfColWidths[i], 8, v, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		fill = !fill
	}

	path := tempPath(raffle, "pdf")
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", err
	}
	return path, nil
}
