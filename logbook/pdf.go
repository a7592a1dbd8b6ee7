/*
pdf.go - Tabular PDF export

PURPOSE:
  Renders the full log as an A4 table, oldest day first, with a closing
  sum row. German umlauts in the day-type column are transliterated for
  the core-font encoder.
*/
package logbook

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/Jojo252511/arbeitszeit/flextime"
)

var pdfColumns = []struct {
	title string
	width float64
}{
	{"Datum", 30},
	{"Kommen", 25},
	{"Gehen", 25},
	{"Tagessaldo", 40},
	{"Typ", 50},
}

// WritePDF renders the log as a PDF document.
func WritePDF(records []DayRecord) (ExportFile, error) {
	sorted := append([]DayRecord(nil), records...)
	SortAscending(sorted)

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Arbeitszeit-Logbuch")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Stand: %s", time.Now().Format("02.01.2006")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, 8, col.title, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	total := 0
	for _, r := range sorted {
		total += r.DailySaldoMinutes
		label := r.Label
		if label == "" {
			label = LabelWork
		}
		cells := []string{
			r.Date,
			r.Arrival,
			r.Leaving,
			signedSaldo(r.DailySaldoMinutes),
			string(label),
		}
		for i, cell := range cells {
			pdf.CellFormat(pdfColumns[i].width, 7, tr(cell), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(pdfColumns[0].width+pdfColumns[1].width+pdfColumns[2].width, 8,
		"Summe", "1", 0, "L", true, 0, "")
	pdf.CellFormat(pdfColumns[3].width, 8, signedSaldo(total), "1", 0, "L", true, 0, "")
	pdf.CellFormat(pdfColumns[4].width, 8, "", "1", 0, "L", true, 0, "")
	pdf.Ln(-1)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return ExportFile{}, err
	}
	return ExportFile{
		Name: exportName("pdf"),
		MIME: "application/pdf",
		Data: buf.Bytes(),
	}, nil
}

func signedSaldo(minutes int) string {
	s := flextime.FormatSigned(minutes)
	if minutes > 0 {
		s = "+" + s
	}
	return s
}
