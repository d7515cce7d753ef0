package models

import (
	"errors"
	"strings"
	"testing"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

// levelRec builds a minimal valid level record for the given severity.
func levelRec(severity string) LevelRecord {
	return LevelRecord{
		Details:     strPtr("details text"),
		Description: strPtr("description text"),
		Cause:       strPtr("cause text"),
		Effect:      strPtr("effect text"),
		Action:      strPtr("action text"),
		Severity:    strPtr(severity),
	}
}

// alarmRec builds a valid alarm record with the given levels.
func alarmRec(name string, index int, cause string, levels ...LevelRecord) AlarmRecord {
	return AlarmRecord{
		Name:   strPtr(name),
		Index:  intPtr(index),
		Cause:  strPtr(cause),
		Levels: levels,
	}
}

func TestNewAlarm(t *testing.T) {
	tests := []struct {
		name    string
		rec     AlarmRecord
		wantErr bool
		kind    error
		errMsg  string
	}{
		{
			name: "valid alarm with cleared and critical",
			rec:  alarmRec("NAME", 1000, "software_error", levelRec("cleared"), levelRec("critical")),
		},
		{
			name: "cause is case-insensitive",
			rec:  alarmRec("NAME", 1000, "Software_Error", levelRec("cleared"), levelRec("critical")),
		},
		{
			name:    "unknown cause",
			rec:     alarmRec("NAME", 1000, "hardware_error", levelRec("cleared"), levelRec("critical")),
			wantErr: true,
			kind:    ErrInvalidEnumeration,
			errMsg:  `unknown cause "hardware_error"`,
		},
		{
			name: "missing name",
			rec: AlarmRecord{
				Index:  intPtr(1000),
				Cause:  strPtr("software_error"),
				Levels: []LevelRecord{levelRec("cleared"), levelRec("critical")},
			},
			wantErr: true,
			kind:    ErrMalformedRecord,
			errMsg:  `missing mandatory field "name"`,
		},
		{
			name: "missing index",
			rec: AlarmRecord{
				Name:   strPtr("NAME"),
				Cause:  strPtr("software_error"),
				Levels: []LevelRecord{levelRec("cleared"), levelRec("critical")},
			},
			wantErr: true,
			kind:    ErrMalformedRecord,
			errMsg:  `missing mandatory field "index"`,
		},
		{
			name:    "non-positive index",
			rec:     alarmRec("NAME", 0, "software_error", levelRec("cleared"), levelRec("critical")),
			wantErr: true,
			kind:    ErrMalformedRecord,
			errMsg:  "index must be a positive integer",
		},
		{
			name: "missing cause",
			rec: AlarmRecord{
				Name:   strPtr("NAME"),
				Index:  intPtr(1000),
				Levels: []LevelRecord{levelRec("cleared"), levelRec("critical")},
			},
			wantErr: true,
			kind:    ErrMalformedRecord,
			errMsg:  `missing mandatory field "cause"`,
		},
		{
			name: "missing levels",
			rec: AlarmRecord{
				Name:  strPtr("NAME"),
				Index: intPtr(1000),
				Cause: strPtr("software_error"),
			},
			wantErr: true,
			kind:    ErrMalformedRecord,
			errMsg:  `missing mandatory field "levels"`,
		},
		{
			name:    "duplicate cleared levels",
			rec:     alarmRec("NAME", 1000, "software_error", levelRec("cleared"), levelRec("cleared"), levelRec("critical")),
			wantErr: true,
			kind:    ErrMalformedRecord,
			errMsg:  `duplicate severity "cleared"`,
		},
		{
			name:    "duplicate non-cleared levels",
			rec:     alarmRec("NAME", 1000, "software_error", levelRec("cleared"), levelRec("major"), levelRec("MAJOR")),
			wantErr: true,
			kind:    ErrMalformedRecord,
			errMsg:  `duplicate severity "major"`,
		},
		{
			name:    "no cleared level",
			rec:     alarmRec("NAME", 1000, "software_error", levelRec("critical"), levelRec("major")),
			wantErr: true,
			kind:    ErrMissingClearedLevel,
		},
		{
			name:    "only cleared levels",
			rec:     alarmRec("NAME", 1000, "software_error", levelRec("cleared")),
			wantErr: true,
			kind:    ErrMissingNonClearedLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alarm, err := NewAlarm(tt.rec)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewAlarm() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if tt.kind != nil && !errors.Is(err, tt.kind) {
					t.Errorf("NewAlarm() error = %v, want kind %v", err, tt.kind)
				}
				if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("NewAlarm() error = %q, want it to contain %q", err.Error(), tt.errMsg)
				}
				return
			}
			if alarm.Name != "NAME" || alarm.Index != 1000 {
				t.Errorf("NewAlarm() = %s/%d, want NAME/1000", alarm.Name, alarm.Index)
			}
			if alarm.Cause != CauseSoftwareError {
				t.Errorf("NewAlarm() cause = %q, want %q", alarm.Cause, CauseSoftwareError)
			}
		})
	}
}

func TestNewAlarm_RetainsSourceCasing(t *testing.T) {
	rec := alarmRec("disk_full", 4000, "Database_Inconsistency", levelRec("Cleared"), levelRec("CRITICAL"))

	alarm, err := NewAlarm(rec)
	if err != nil {
		t.Fatalf("NewAlarm() error = %v", err)
	}

	if alarm.CauseText != "Database_Inconsistency" {
		t.Errorf("CauseText = %q, want source casing retained", alarm.CauseText)
	}
	cleared, ok := alarm.Level(SeverityCleared)
	if !ok || cleared.SeverityText != "Cleared" {
		t.Errorf("cleared SeverityText = %q, want %q", cleared.SeverityText, "Cleared")
	}
	critical, ok := alarm.Level(SeverityCritical)
	if !ok || critical.SeverityText != "CRITICAL" {
		t.Errorf("critical SeverityText = %q, want %q", critical.SeverityText, "CRITICAL")
	}
}

func TestNewAlarm_LevelOrderingAndOIDs(t *testing.T) {
	rec := alarmRec("NAME", 1000, "software_error",
		levelRec("warning"), levelRec("cleared"), levelRec("major"), levelRec("critical"))

	alarm, err := NewAlarm(rec)
	if err != nil {
		t.Fatalf("NewAlarm() error = %v", err)
	}

	wantCodes := []int{1, 3, 4, 6} // cleared, critical, major, warning
	gotCodes := alarm.ITUCodes()
	if len(gotCodes) != len(wantCodes) {
		t.Fatalf("ITUCodes() = %v, want %v", gotCodes, wantCodes)
	}
	for i := range wantCodes {
		if gotCodes[i] != wantCodes[i] {
			t.Fatalf("ITUCodes() = %v, want %v", gotCodes, wantCodes)
		}
	}

	wantSuffixes := map[Severity]string{
		SeverityCleared:  "1000.1",
		SeverityWarning:  "1000.3",
		SeverityMajor:    "1000.5",
		SeverityCritical: "1000.6",
	}
	for severity, want := range wantSuffixes {
		level, ok := alarm.Level(severity)
		if !ok {
			t.Fatalf("Level(%q) missing", severity)
		}
		if level.OIDSuffix != want {
			t.Errorf("Level(%q).OIDSuffix = %q, want %q", severity, level.OIDSuffix, want)
		}
		if level.FullOID() != OIDPrefix+want {
			t.Errorf("Level(%q).FullOID() = %q, want prefix %q", severity, level.FullOID(), OIDPrefix+want)
		}
	}
}

func TestNewAlarm_LevelFieldValidation(t *testing.T) {
	long256 := strings.Repeat("a", 256)
	long255 := strings.Repeat("a", 255)
	long4096 := strings.Repeat("a", 4096)
	long4095 := strings.Repeat("a", 4095)

	tests := []struct {
		name    string
		mutate  func(*LevelRecord)
		wantErr bool
		kind    error
		errMsg  string
	}{
		{
			name:   "details at the 255 ceiling",
			mutate: func(l *LevelRecord) { l.Details = strPtr(long255) },
		},
		{
			name:    "details over the ceiling",
			mutate:  func(l *LevelRecord) { l.Details = strPtr(long256) },
			wantErr: true,
			kind:    ErrFieldTooLong,
			errMsg:  `field "details" exceeds 255 characters`,
		},
		{
			name: "extended details lifts the ceiling",
			mutate: func(l *LevelRecord) {
				l.Details = strPtr(long255)
				l.ExtendedDetails = strPtr(long4095)
			},
		},
		{
			name:    "extended details over its ceiling",
			mutate:  func(l *LevelRecord) { l.ExtendedDetails = strPtr(long4096) },
			wantErr: true,
			kind:    ErrFieldTooLong,
			errMsg:  `field "extended_details" exceeds 4095 characters`,
		},
		{
			name:    "base details checked even when overridden",
			mutate:  func(l *LevelRecord) { l.Details = strPtr(long256); l.ExtendedDetails = strPtr("short") },
			wantErr: true,
			kind:    ErrFieldTooLong,
			errMsg:  `field "details"`,
		},
		{
			name:    "description over the ceiling",
			mutate:  func(l *LevelRecord) { l.Description = strPtr(long256) },
			wantErr: true,
			kind:    ErrFieldTooLong,
			errMsg:  `field "description"`,
		},
		{
			name:    "extended description over its ceiling",
			mutate:  func(l *LevelRecord) { l.ExtendedDescription = strPtr(long4096) },
			wantErr: true,
			kind:    ErrFieldTooLong,
			errMsg:  `field "extended_description"`,
		},
		{
			name:    "cause over the ceiling",
			mutate:  func(l *LevelRecord) { l.Cause = strPtr(long4096) },
			wantErr: true,
			kind:    ErrFieldTooLong,
			errMsg:  `field "cause"`,
		},
		{
			name:    "effect over the ceiling",
			mutate:  func(l *LevelRecord) { l.Effect = strPtr(long4096) },
			wantErr: true,
			kind:    ErrFieldTooLong,
			errMsg:  `field "effect"`,
		},
		{
			name:    "action over the ceiling",
			mutate:  func(l *LevelRecord) { l.Action = strPtr(long4096) },
			wantErr: true,
			kind:    ErrFieldTooLong,
			errMsg:  `field "action"`,
		},
		{
			name:    "missing details",
			mutate:  func(l *LevelRecord) { l.Details = nil },
			wantErr: true,
			kind:    ErrMalformedRecord,
			errMsg:  `missing mandatory field "details"`,
		},
		{
			name:    "missing severity",
			mutate:  func(l *LevelRecord) { l.Severity = nil },
			wantErr: true,
			kind:    ErrMalformedRecord,
			errMsg:  `missing mandatory field "severity"`,
		},
		{
			name:    "unknown severity",
			mutate:  func(l *LevelRecord) { l.Severity = strPtr("catastrophic") },
			wantErr: true,
			kind:    ErrInvalidEnumeration,
			errMsg:  `unknown severity "catastrophic"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := levelRec("critical")
			tt.mutate(&bad)
			rec := alarmRec("NAME", 1000, "software_error", levelRec("cleared"), bad)

			_, err := NewAlarm(rec)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewAlarm() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}
			if tt.kind != nil && !errors.Is(err, tt.kind) {
				t.Errorf("NewAlarm() error = %v, want kind %v", err, tt.kind)
			}
			if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("NewAlarm() error = %q, want it to contain %q", err.Error(), tt.errMsg)
			}
			if !strings.Contains(err.Error(), "NAME") {
				t.Errorf("NewAlarm() error = %q, want it to name the alarm", err.Error())
			}
		})
	}
}

func TestNewAlarm_OverridesReplaceBaseValues(t *testing.T) {
	lvl := levelRec("critical")
	lvl.Details = strPtr("short details")
	lvl.ExtendedDetails = strPtr("much longer extended details")
	lvl.Description = strPtr("short description")
	lvl.ExtendedDescription = strPtr("much longer extended description")

	alarm, err := NewAlarm(alarmRec("NAME", 1000, "software_error", levelRec("cleared"), lvl))
	if err != nil {
		t.Fatalf("NewAlarm() error = %v", err)
	}

	critical, ok := alarm.Level(SeverityCritical)
	if !ok {
		t.Fatal("critical level missing")
	}
	if critical.Details != "much longer extended details" {
		t.Errorf("Details = %q, want the extended value", critical.Details)
	}
	if critical.Description != "much longer extended description" {
		t.Errorf("Description = %q, want the extended value", critical.Description)
	}
}

func TestNewAlarm_LengthCeilingCountsRunes(t *testing.T) {
	// 255 multi-byte characters are within the ceiling even though the byte
	// length is far greater.
	lvl := levelRec("critical")
	lvl.Details = strPtr(strings.Repeat("é", 255))

	if _, err := NewAlarm(alarmRec("NAME", 1000, "software_error", levelRec("cleared"), lvl)); err != nil {
		t.Fatalf("NewAlarm() error = %v, want multi-byte details within ceiling to pass", err)
	}

	lvl.Details = strPtr(strings.Repeat("é", 256))
	if _, err := NewAlarm(alarmRec("NAME", 1000, "software_error", levelRec("cleared"), lvl)); !errors.Is(err, ErrFieldTooLong) {
		t.Fatalf("NewAlarm() error = %v, want ErrFieldTooLong", err)
	}
}
