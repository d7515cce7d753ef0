package render

import (
	"bytes"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/platformbuilds/klaxon-core/internal/models"
)

// pdfColumnWidths fits the ten CSV columns onto a landscape A4 page.
var pdfColumnWidths = []float64{20, 12, 32, 30, 18, 40, 40, 32, 27, 26}

// PDF renders a definition set as a landscape A4 table with the same columns
// as the CSV artifact. The header row repeats on every page.
func PDF(alarms []*models.Alarm) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Alarm Definitions")
	pdf.Ln(10)

	writeHeader := func() {
		pdf.SetFont("Arial", "B", 8)
		for i, column := range csvColumns {
			pdf.CellFormat(pdfColumnWidths[i], 6, column, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 8)
	}
	writeHeader()

	for _, alarm := range alarms {
		for _, level := range alarm.Levels {
			if pdf.GetY() > 190 {
				pdf.AddPage()
				writeHeader()
			}
			values := []string{
				level.OIDSuffix,
				strconv.Itoa(level.ITUCode),
				alarm.Name,
				alarm.CauseText,
				level.SeverityText,
				level.Description,
				level.Details,
				level.Cause,
				level.Effect,
				level.Action,
			}
			for i, value := range values {
				pdf.CellFormat(pdfColumnWidths[i], 6, tr(fitCell(pdf, value, pdfColumnWidths[i])), "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fitCell trims a value so it does not overflow its column.
func fitCell(pdf *gofpdf.Fpdf, s string, width float64) string {
	const pad = 2
	if pdf.GetStringWidth(s) <= width-pad {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > width-pad {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
