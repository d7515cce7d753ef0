package render

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/platformbuilds/klaxon-core/internal/models"
)

// csvColumns is the fixed header row. The cause column appears twice: the
// alarm-level probable cause first, the per-level cause text later.
var csvColumns = []string{
	"OID",
	"ITU_severity",
	"name",
	"cause",
	"severity",
	"description",
	"details",
	"cause",
	"effect",
	"action",
}

// CSV flattens one or more definition sets into a single CSV document with
// one shared header row and one data row per (alarm, level) pair. Rows keep
// input order across sets; levels appear in ascending ITU-code order.
func CSV(sets ...[]*models.Alarm) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(csvColumns); err != nil {
		return nil, err
	}

	for _, alarms := range sets {
		for _, alarm := range alarms {
			for _, level := range alarm.Levels {
				row := []string{
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
				if err := writer.Write(row); err != nil {
					return nil, err
				}
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
