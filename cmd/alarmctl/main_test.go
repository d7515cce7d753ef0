package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testDefinitions = `{
  "alarms": [
    {
      "name": "LINK_DOWN",
      "index": 1000,
      "cause": "underlying_resource_unavailable",
      "levels": [
        {
          "severity": "cleared",
          "description": "link restored",
          "details": "link is up",
          "cause": "peer recovered",
          "effect": "none",
          "action": "none"
        },
        {
          "severity": "critical",
          "description": "link lost",
          "details": "link is down",
          "cause": "cable fault",
          "effect": "traffic dropped",
          "action": "check cabling"
        }
      ]
    }
  ]
}`

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestRun_Validate(t *testing.T) {
	path := writeTestFile(t, "alarms.json", testDefinitions)
	if err := run("validate", "", []string{path}); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestRun_ValidateInvalidDocument(t *testing.T) {
	path := writeTestFile(t, "alarms.json", `{"alarms": [{"name": "BROKEN"}]}`)
	err := run("validate", "", []string{path})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !strings.Contains(err.Error(), "BROKEN") {
		t.Fatalf("error should name the alarm: %v", err)
	}
}

func TestRun_ConstantsToFile(t *testing.T) {
	path := writeTestFile(t, "alarms.json", testDefinitions)
	out := filepath.Join(t.TempDir(), "constants.txt")

	if err := run("constants", out, []string{path}); err != nil {
		t.Fatalf("constants: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "LINK_DOWN = (1000, 1, 3)\n" {
		t.Fatalf("unexpected constants output: %q", data)
	}
}

func TestRun_ConstantsRejectsMultipleFiles(t *testing.T) {
	a := writeTestFile(t, "a.json", testDefinitions)
	b := writeTestFile(t, "b.json", testDefinitions)

	if err := run("constants", "", []string{a, b}); err == nil {
		t.Fatalf("expected error for multiple files")
	}
}

func TestRun_XLSXRequiresOut(t *testing.T) {
	path := writeTestFile(t, "alarms.json", testDefinitions)
	if err := run("xlsx", "", []string{path}); err == nil {
		t.Fatalf("expected error without -out")
	}
}

func TestRun_CSVMultipleFiles(t *testing.T) {
	a := writeTestFile(t, "a.json", testDefinitions)
	b := writeTestFile(t, "b.json", strings.ReplaceAll(strings.ReplaceAll(testDefinitions, "LINK_DOWN", "PEER_LOST"), "1000", "2000"))
	out := filepath.Join(t.TempDir(), "alarms.csv")

	if err := run("csv", out, []string{a, b}); err != nil {
		t.Fatalf("csv: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	// Single header plus two levels per alarm
	if len(lines) != 5 {
		t.Fatalf("expected 5 CSV lines, got %d: %q", len(lines), data)
	}
	if strings.Count(string(data), "OID,ITU_severity") != 1 {
		t.Fatalf("expected a single header, got %q", data)
	}
}

func TestRun_UnknownMode(t *testing.T) {
	path := writeTestFile(t, "alarms.json", testDefinitions)
	if err := run("docx", "", []string{path}); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestRun_NoFiles(t *testing.T) {
	if err := run("validate", "", nil); err == nil {
		t.Fatalf("expected error without input files")
	}
}
