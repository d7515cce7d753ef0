package models

import (
	"fmt"
	"sort"
	"strconv"
	"unicode/utf8"
)

// Field length ceilings, counted in characters.
const (
	maxFieldChars         = 255
	maxExtendedFieldChars = 4095
)

// Level is one validated severity instance of an Alarm. Entities are built
// once per load and never mutated afterwards.
type Level struct {
	Severity     Severity
	SeverityText string // source casing, used for display
	ITUCode      int
	ModelState   int
	OIDSuffix    string

	Description string
	Details     string
	Cause       string
	Effect      string
	Action      string

	AlarmName  string
	AlarmIndex int
}

// FullOID returns the level's complete numeric OID (fixed prefix + suffix).
func (l *Level) FullOID() string {
	return FullOID(l.OIDSuffix)
}

// Alarm is one validated alarm definition. Levels are ordered ascending by
// ITU severity code so rendered output is reproducible.
type Alarm struct {
	Name      string
	Index     int
	Cause     Cause
	CauseText string // source casing, used for display
	Levels    []*Level
}

// ITUCodes returns the ITU severity codes of the alarm's levels in level
// order.
func (a *Alarm) ITUCodes() []int {
	codes := make([]int, len(a.Levels))
	for i, l := range a.Levels {
		codes[i] = l.ITUCode
	}
	return codes
}

// Level returns the alarm's level for the given severity, if present.
func (a *Alarm) Level(s Severity) (*Level, bool) {
	for _, l := range a.Levels {
		if l.Severity == s {
			return l, true
		}
	}
	return nil, false
}

// NewAlarm validates one alarm record into an Alarm entity. The first
// violation aborts validation; every error names the alarm and the offending
// field.
func NewAlarm(rec AlarmRecord) (*Alarm, error) {
	if rec.Name == nil {
		return nil, fmt.Errorf("missing mandatory field %q: %w", "name", ErrMalformedRecord)
	}
	name := *rec.Name

	if rec.Index == nil {
		return nil, fmt.Errorf("alarm %s: missing mandatory field %q: %w", name, "index", ErrMalformedRecord)
	}
	index := *rec.Index
	if index <= 0 {
		return nil, fmt.Errorf("alarm %s: index must be a positive integer: %w", name, ErrMalformedRecord)
	}

	if rec.Cause == nil {
		return nil, fmt.Errorf("alarm %s: missing mandatory field %q: %w", name, "cause", ErrMalformedRecord)
	}
	cause, err := ParseCause(*rec.Cause)
	if err != nil {
		return nil, fmt.Errorf("alarm %s: %w", name, err)
	}

	if rec.Levels == nil {
		return nil, fmt.Errorf("alarm %s: missing mandatory field %q: %w", name, "levels", ErrMalformedRecord)
	}

	levels := make([]*Level, 0, len(rec.Levels))
	seen := make(map[Severity]struct{}, len(rec.Levels))
	hasCleared := false
	hasNonCleared := false

	for _, lr := range rec.Levels {
		level, err := newLevel(name, index, lr)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[level.Severity]; dup {
			return nil, fmt.Errorf("alarm %s: duplicate severity %q: %w", name, level.Severity, ErrMalformedRecord)
		}
		seen[level.Severity] = struct{}{}
		if level.Severity == SeverityCleared {
			hasCleared = true
		} else {
			hasNonCleared = true
		}
		levels = append(levels, level)
	}

	if !hasCleared {
		return nil, fmt.Errorf("alarm %s: %w", name, ErrMissingClearedLevel)
	}
	if !hasNonCleared {
		return nil, fmt.Errorf("alarm %s: %w", name, ErrMissingNonClearedLevel)
	}

	sort.Slice(levels, func(i, j int) bool { return levels[i].ITUCode < levels[j].ITUCode })

	return &Alarm{
		Name:      name,
		Index:     index,
		Cause:     cause,
		CauseText: *rec.Cause,
		Levels:    levels,
	}, nil
}

// newLevel validates one level record into a Level entity. Override fields
// replace the base value; the base is still length-checked.
func newLevel(alarmName string, alarmIndex int, rec LevelRecord) (*Level, error) {
	details, err := boundedField(alarmName, "details", rec.Details, maxFieldChars)
	if err != nil {
		return nil, err
	}
	if rec.ExtendedDetails != nil {
		details, err = boundedField(alarmName, "extended_details", rec.ExtendedDetails, maxExtendedFieldChars)
		if err != nil {
			return nil, err
		}
	}

	description, err := boundedField(alarmName, "description", rec.Description, maxFieldChars)
	if err != nil {
		return nil, err
	}
	if rec.ExtendedDescription != nil {
		description, err = boundedField(alarmName, "extended_description", rec.ExtendedDescription, maxExtendedFieldChars)
		if err != nil {
			return nil, err
		}
	}

	cause, err := boundedField(alarmName, "cause", rec.Cause, maxExtendedFieldChars)
	if err != nil {
		return nil, err
	}
	effect, err := boundedField(alarmName, "effect", rec.Effect, maxExtendedFieldChars)
	if err != nil {
		return nil, err
	}
	action, err := boundedField(alarmName, "action", rec.Action, maxExtendedFieldChars)
	if err != nil {
		return nil, err
	}

	if rec.Severity == nil {
		return nil, fmt.Errorf("alarm %s: missing mandatory field %q: %w", alarmName, "severity", ErrMalformedRecord)
	}
	severity, err := ParseSeverity(*rec.Severity)
	if err != nil {
		return nil, fmt.Errorf("alarm %s: %w", alarmName, err)
	}

	return &Level{
		Severity:     severity,
		SeverityText: *rec.Severity,
		ITUCode:      severity.ITUCode(),
		ModelState:   severity.ModelState(),
		OIDSuffix:    strconv.Itoa(alarmIndex) + "." + strconv.Itoa(severity.ModelState()),
		Description:  description,
		Details:      details,
		Cause:        cause,
		Effect:       effect,
		Action:       action,
		AlarmName:    alarmName,
		AlarmIndex:   alarmIndex,
	}, nil
}

// boundedField resolves a mandatory text field and enforces its character
// ceiling.
func boundedField(alarmName, field string, value *string, limit int) (string, error) {
	if value == nil {
		return "", fmt.Errorf("alarm %s: missing mandatory field %q: %w", alarmName, field, ErrMalformedRecord)
	}
	if utf8.RuneCountInString(*value) > limit {
		return "", fmt.Errorf("alarm %s: field %q exceeds %d characters: %w", alarmName, field, limit, ErrFieldTooLong)
	}
	return *value, nil
}
