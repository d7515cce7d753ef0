package render

import (
	"fmt"
	"strings"

	"github.com/platformbuilds/klaxon-core/internal/models"
)

// Format selects one of the supported output artifacts.
type Format string

const (
	FormatConstants Format = "constants"
	FormatCSV       Format = "csv"
	FormatDITA      Format = "dita"
	FormatXLSX      Format = "xlsx"
	FormatPDF       Format = "pdf"
)

// ParseFormat normalizes a format name from a URL segment or CLI flag.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(raw)) {
	case FormatConstants:
		return FormatConstants, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatDITA:
		return FormatDITA, nil
	case FormatXLSX:
		return FormatXLSX, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported render format %q", raw)
	}
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatDITA:
		return "application/xml; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/plain; charset=utf-8"
	}
}

// FileName returns the attachment name used by export endpoints and the CLI.
func (f Format) FileName() string {
	switch f {
	case FormatCSV:
		return "alarms.csv"
	case FormatDITA:
		return "alarms.xml"
	case FormatXLSX:
		return "alarms.xlsx"
	case FormatPDF:
		return "alarms.pdf"
	default:
		return "alarm_constants.txt"
	}
}

// Binary reports whether the format produces a binary artifact that should
// be served as an attachment rather than inline.
func (f Format) Binary() bool {
	return f == FormatXLSX || f == FormatPDF
}

// Render produces the artifact for one or more definition sets. Formats that
// describe a single catalog (constants, dita, xlsx, pdf) see the sets
// concatenated in input order.
func Render(f Format, sets ...[]*models.Alarm) ([]byte, error) {
	switch f {
	case FormatConstants:
		return Constants(flatten(sets)), nil
	case FormatCSV:
		return CSV(sets...)
	case FormatDITA:
		return DITA(flatten(sets)), nil
	case FormatXLSX:
		return Workbook(flatten(sets))
	case FormatPDF:
		return PDF(flatten(sets))
	default:
		return nil, fmt.Errorf("unsupported render format %q", f)
	}
}

func flatten(sets [][]*models.Alarm) []*models.Alarm {
	if len(sets) == 1 {
		return sets[0]
	}
	var alarms []*models.Alarm
	for _, set := range sets {
		alarms = append(alarms, set...)
	}
	return alarms
}
