package render

import (
	"bytes"

	"github.com/xuri/excelize/v2"

	"github.com/platformbuilds/klaxon-core/internal/models"
)

// Workbook renders a definition set as a single-sheet XLSX workbook with the
// same columns as the CSV artifact, one row per (alarm, level) pair.
func Workbook(alarms []*models.Alarm) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "alarms"
	f.SetSheetName("Sheet1", sheet)

	for col, column := range csvColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, column); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", "J1", headerStyle); err != nil {
		return nil, err
	}

	row := 2
	for _, alarm := range alarms {
		for _, level := range alarm.Levels {
			values := []interface{}{
				level.OIDSuffix,
				level.ITUCode,
				alarm.Name,
				alarm.CauseText,
				level.SeverityText,
				level.Description,
				level.Details,
				level.Cause,
				level.Effect,
				level.Action,
			}
			for col, value := range values {
				cell, err := excelize.CoordinatesToCellName(col+1, row)
				if err != nil {
					return nil, err
				}
				if err := f.SetCellValue(sheet, cell, value); err != nil {
					return nil, err
				}
			}
			row++
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
