package render

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/platformbuilds/klaxon-core/internal/models"
)

// Constants renders the compact constants artifact consumed by agent
// tooling: one newline-terminated line per alarm of the form
//
//	NAME = (index, code_1, ..., code_k)
//
// with the name upper-cased and the ITU severity codes in ascending order.
func Constants(alarms []*models.Alarm) []byte {
	var buf bytes.Buffer
	for _, alarm := range alarms {
		parts := make([]string, 0, len(alarm.Levels)+1)
		parts = append(parts, strconv.Itoa(alarm.Index))
		for _, code := range alarm.ITUCodes() {
			parts = append(parts, strconv.Itoa(code))
		}
		buf.WriteString(strings.ToUpper(alarm.Name))
		buf.WriteString(" = (")
		buf.WriteString(strings.Join(parts, ", "))
		buf.WriteString(")\n")
	}
	return buf.Bytes()
}
