package render

import (
	"strings"

	"github.com/platformbuilds/klaxon-core/internal/models"
)

const (
	ditaHeader = `<?xml version="1.0" encoding="UTF-8"?>` + "\n" +
		`<!DOCTYPE reference PUBLIC "-//OASIS//DTD DITA Reference//EN" "reference.dtd">` + "\n"
)

var ditaEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// DITA renders a definition set as DITA reference XML: one nested reference
// topic per alarm, one properties table per severity level. Values are the
// effective (post-override) texts with their source casing.
func DITA(alarms []*models.Alarm) []byte {
	var b ditaBuilder
	b.raw(ditaHeader)
	b.open(`<reference id="alarm-definitions">`)
	b.line("<title>Alarms</title>")

	for _, alarm := range alarms {
		b.open(`<reference id="` + ditaID(alarm.Name) + `">`)
		b.line("<title>" + ditaEscaper.Replace(alarm.Name) + "</title>")
		b.open("<refbody>")
		for _, level := range alarm.Levels {
			b.open("<properties>")
			b.open("<prophead>")
			b.line("<proptypehd>Field</proptypehd>")
			b.line("<propvaluehd>Value</propvaluehd>")
			b.close("</prophead>")
			b.property("Severity", level.SeverityText)
			b.property("OID", level.FullOID())
			b.property("Description", level.Description)
			b.property("Details", level.Details)
			b.property("Cause", level.Cause)
			b.property("Effect", level.Effect)
			b.property("Action", level.Action)
			b.close("</properties>")
		}
		b.close("</refbody>")
		b.close("</reference>")
	}

	b.close("</reference>")
	return []byte(b.sb.String())
}

// ditaID maps an alarm name onto an XML id token.
func ditaID(name string) string {
	id := strings.ToUpper(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-', r == '.':
			return r
		default:
			return '_'
		}
	}, id)
}

// ditaBuilder emits indented XML lines.
type ditaBuilder struct {
	sb    strings.Builder
	depth int
}

func (b *ditaBuilder) raw(s string) {
	b.sb.WriteString(s)
}

func (b *ditaBuilder) line(s string) {
	b.sb.WriteString(strings.Repeat("  ", b.depth))
	b.sb.WriteString(s)
	b.sb.WriteByte('\n')
}

func (b *ditaBuilder) open(tag string) {
	b.line(tag)
	b.depth++
}

func (b *ditaBuilder) close(tag string) {
	b.depth--
	b.line(tag)
}

func (b *ditaBuilder) property(field, value string) {
	b.open("<property>")
	b.line("<proptype>" + ditaEscaper.Replace(field) + "</proptype>")
	b.line("<propvalue>" + ditaEscaper.Replace(value) + "</propvalue>")
	b.close("</property>")
}
