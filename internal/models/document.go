package models

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DocumentFormat identifies the encoding of a definitions document.
type DocumentFormat string

const (
	FormatJSON DocumentFormat = "json"
	FormatYAML DocumentFormat = "yaml"
)

// FormatForPath infers the document format from a file extension. Anything
// that is not YAML is treated as JSON, the historical default.
func FormatForPath(path string) DocumentFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// FormatForContentType infers the document format from an HTTP Content-Type.
func FormatForContentType(contentType string) DocumentFormat {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "yaml") || strings.Contains(ct, "yml") {
		return FormatYAML
	}
	return FormatJSON
}

// LevelRecord is one severity-level entry of a source alarm record. Pointer
// fields distinguish a missing key from an empty value.
type LevelRecord struct {
	Details             *string `json:"details" yaml:"details"`
	ExtendedDetails     *string `json:"extended_details,omitempty" yaml:"extended_details,omitempty"`
	Description         *string `json:"description" yaml:"description"`
	ExtendedDescription *string `json:"extended_description,omitempty" yaml:"extended_description,omitempty"`
	Cause               *string `json:"cause" yaml:"cause"`
	Effect              *string `json:"effect" yaml:"effect"`
	Action              *string `json:"action" yaml:"action"`
	Severity            *string `json:"severity" yaml:"severity"`
}

// AlarmRecord is one source alarm record as it appears in a definitions
// document.
type AlarmRecord struct {
	Name   *string       `json:"name" yaml:"name"`
	Index  *int          `json:"index" yaml:"index"`
	Cause  *string       `json:"cause" yaml:"cause"`
	Levels []LevelRecord `json:"levels" yaml:"levels"`
}

// DefinitionsDocument is the top-level shape of a definitions document.
type DefinitionsDocument struct {
	Alarms []AlarmRecord `json:"alarms" yaml:"alarms"`
}

// ParseDefinitions decodes and validates a whole definitions document. The
// first invalid record aborts the load; no partial result is returned.
func ParseDefinitions(data []byte, format DocumentFormat) ([]*Alarm, error) {
	var doc DefinitionsDocument

	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("definitions document: %v: %w", err, ErrMalformedRecord)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("definitions document: %v: %w", err, ErrMalformedRecord)
		}
	default:
		return nil, fmt.Errorf("unsupported document format %q", format)
	}

	if doc.Alarms == nil {
		return nil, fmt.Errorf("definitions document: missing mandatory field %q: %w", "alarms", ErrMalformedRecord)
	}

	alarms := make([]*Alarm, 0, len(doc.Alarms))
	for i, rec := range doc.Alarms {
		alarm, err := NewAlarm(rec)
		if err != nil {
			return nil, fmt.Errorf("alarms[%d]: %w", i, err)
		}
		alarms = append(alarms, alarm)
	}
	return alarms, nil
}
