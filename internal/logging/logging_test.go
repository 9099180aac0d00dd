package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		name       string
		configured LogLevel
		message    LogLevel
		wantLogged bool
	}{
		{"debug passes at debug", DebugLevel, DebugLevel, true},
		{"debug filtered at info", InfoLevel, DebugLevel, false},
		{"warn passes at info", InfoLevel, WarnLevel, true},
		{"info filtered at error", ErrorLevel, InfoLevel, false},
		{"error passes at error", ErrorLevel, ErrorLevel, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(Config{Format: HumanFormat, Level: tc.configured, Output: &buf})

			logger.log(tc.message, "test message", nil)

			if got := buf.Len() > 0; got != tc.wantLogged {
				t.Errorf("logged = %v, want %v (output: %q)", got, tc.wantLogged, buf.String())
			}
		})
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: JSONFormat, Level: InfoLevel, Output: &buf})

	logger.Info("comparison complete", map[string]interface{}{
		"diagnostics": 3,
	})

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v\noutput: %s", err, buf.String())
	}
	if entry["level"] != "info" {
		t.Errorf("level = %v, want info", entry["level"])
	}
	if entry["message"] != "comparison complete" {
		t.Errorf("message = %v, want 'comparison complete'", entry["message"])
	}
	fields, ok := entry["fields"].(map[string]interface{})
	if !ok {
		t.Fatalf("fields missing from entry: %v", entry)
	}
	if fields["diagnostics"] != float64(3) {
		t.Errorf("fields.diagnostics = %v, want 3", fields["diagnostics"])
	}
}

func TestHumanFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: HumanFormat, Level: InfoLevel, Output: &buf})

	logger.Warn("stale suppression", map[string]interface{}{"id": "APC1001"})

	out := buf.String()
	if !strings.Contains(out, "[warn]") {
		t.Errorf("output missing level marker: %q", out)
	}
	if !strings.Contains(out, "stale suppression") {
		t.Errorf("output missing message: %q", out)
	}
	if !strings.Contains(out, "id=APC1001") {
		t.Errorf("output missing field: %q", out)
	}
}
