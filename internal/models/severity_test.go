package models

import (
	"errors"
	"testing"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Severity
		ituCode int
		modelSt int
		wantErr bool
	}{
		{name: "cleared", raw: "cleared", want: SeverityCleared, ituCode: 1, modelSt: 1},
		{name: "indeterminate", raw: "indeterminate", want: SeverityIndeterminate, ituCode: 2, modelSt: 2},
		{name: "critical", raw: "critical", want: SeverityCritical, ituCode: 3, modelSt: 6},
		{name: "major", raw: "major", want: SeverityMajor, ituCode: 4, modelSt: 5},
		{name: "minor", raw: "minor", want: SeverityMinor, ituCode: 5, modelSt: 4},
		{name: "warning", raw: "warning", want: SeverityWarning, ituCode: 6, modelSt: 3},
		{name: "upper case folds", raw: "CRITICAL", want: SeverityCritical, ituCode: 3, modelSt: 6},
		{name: "mixed case folds", raw: "Cleared", want: SeverityCleared, ituCode: 1, modelSt: 1},
		{name: "unknown value", raw: "catastrophic", wantErr: true},
		{name: "empty value", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSeverity(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSeverity(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidEnumeration) {
					t.Errorf("ParseSeverity(%q) error = %v, want ErrInvalidEnumeration", tt.raw, err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseSeverity(%q) = %q, want %q", tt.raw, got, tt.want)
			}
			if got.ITUCode() != tt.ituCode {
				t.Errorf("ITUCode() = %d, want %d", got.ITUCode(), tt.ituCode)
			}
			if got.ModelState() != tt.modelSt {
				t.Errorf("ModelState() = %d, want %d", got.ModelState(), tt.modelSt)
			}
		})
	}
}

func TestParseCause(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Cause
		wantErr bool
	}{
		{name: "software error", raw: "software_error", want: CauseSoftwareError},
		{name: "database inconsistency", raw: "database_inconsistency", want: CauseDatabaseInconsistency},
		{name: "underlying resource unavailable", raw: "underlying_resource_unavailable", want: CauseUnderlyingResourceUnavailable},
		{name: "case folds", raw: "Software_Error", want: CauseSoftwareError},
		{name: "unknown value", raw: "hardware_error", wantErr: true},
		{name: "empty value", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCause(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCause(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidEnumeration) {
					t.Errorf("ParseCause(%q) error = %v, want ErrInvalidEnumeration", tt.raw, err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseCause(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFullOID(t *testing.T) {
	got := FullOID("1000.6")
	want := "1.3.6.1.2.1.118.1.1.2.1.3.0.1000.6"
	if got != want {
		t.Errorf("FullOID(1000.6) = %q, want %q", got, want)
	}
}
