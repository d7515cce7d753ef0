package models

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors surfaced by the definitions model. Callers classify
// failures with errors.Is.
var (
	ErrMalformedRecord        = errors.New("malformed record")
	ErrInvalidEnumeration     = errors.New("invalid enumeration value")
	ErrFieldTooLong           = errors.New("field too long")
	ErrMissingClearedLevel    = errors.New("missing cleared severity level")
	ErrMissingNonClearedLevel = errors.New("missing non-cleared severity level")
)

// Severity is one of the six alarm severities. The canonical form is
// lower-case; ParseSeverity folds input before matching.
type Severity string

const (
	SeverityCleared       Severity = "cleared"
	SeverityIndeterminate Severity = "indeterminate"
	SeverityCritical      Severity = "critical"
	SeverityMajor         Severity = "major"
	SeverityMinor         Severity = "minor"
	SeverityWarning       Severity = "warning"
)

// ituSeverityCodes carries the ITU X.733 severity codes. The numeric values
// are externally defined and must never change.
var ituSeverityCodes = map[Severity]int{
	SeverityCleared:       1,
	SeverityIndeterminate: 2,
	SeverityCritical:      3,
	SeverityMajor:         4,
	SeverityMinor:         5,
	SeverityWarning:       6,
}

// alarmModelStates maps severities to the RFC 3877 alarm model state
// ordinals. Used only for OID suffix construction, never for display.
var alarmModelStates = map[Severity]int{
	SeverityCleared:       1,
	SeverityIndeterminate: 2,
	SeverityWarning:       3,
	SeverityMinor:         4,
	SeverityMajor:         5,
	SeverityCritical:      6,
}

// ParseSeverity resolves a raw severity name case-insensitively into its
// canonical form.
func ParseSeverity(raw string) (Severity, error) {
	s := Severity(strings.ToLower(raw))
	if _, ok := ituSeverityCodes[s]; !ok {
		return "", fmt.Errorf("unknown severity %q: %w", raw, ErrInvalidEnumeration)
	}
	return s, nil
}

// Valid reports whether s is one of the six canonical severities.
func (s Severity) Valid() bool {
	_, ok := ituSeverityCodes[s]
	return ok
}

// ITUCode returns the ITU X.733 severity code, or 0 for an unknown severity.
func (s Severity) ITUCode() int {
	return ituSeverityCodes[s]
}

// ModelState returns the RFC 3877 alarm model state ordinal, or 0 for an
// unknown severity.
func (s Severity) ModelState() int {
	return alarmModelStates[s]
}

// Cause is the enumerated probable cause of an alarm. The canonical form is
// lower-case; ParseCause folds input before matching.
type Cause string

const (
	CauseSoftwareError                 Cause = "software_error"
	CauseDatabaseInconsistency         Cause = "database_inconsistency"
	CauseUnderlyingResourceUnavailable Cause = "underlying_resource_unavailable"
)

var validCauses = map[Cause]struct{}{
	CauseSoftwareError:                 {},
	CauseDatabaseInconsistency:         {},
	CauseUnderlyingResourceUnavailable: {},
}

// ParseCause resolves a raw cause name case-insensitively into its canonical
// form.
func ParseCause(raw string) (Cause, error) {
	c := Cause(strings.ToLower(raw))
	if _, ok := validCauses[c]; !ok {
		return "", fmt.Errorf("unknown cause %q: %w", raw, ErrInvalidEnumeration)
	}
	return c, nil
}

// Valid reports whether c is one of the enumerated causes.
func (c Cause) Valid() bool {
	_, ok := validCauses[c]
	return ok
}

// OIDPrefix is the fixed numeric prefix external monitoring systems prepend
// to the OID suffixes this package produces. The layout is relied on
// byte-for-byte downstream.
const OIDPrefix = "1.3.6.1.2.1.118.1.1.2.1.3.0."

// FullOID prepends the fixed OID prefix to an OID fragment.
func FullOID(fragment string) string {
	return OIDPrefix + fragment
}
