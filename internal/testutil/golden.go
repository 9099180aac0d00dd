// Package testutil holds shared test helpers: golden-file comparison
// with an -update flag for regenerating expectations.
package testutil

import (
	"bytes"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"testing"
)

// updateGolden controls whether golden files should be updated.
// Use: go test ./... -update
var updateGolden = flag.Bool("update", false, "update golden files")

// ShouldUpdate returns true if golden files should be updated.
func ShouldUpdate() bool {
	return *updateGolden
}

// GoldenPath returns the path of a golden file under testdata/.
func GoldenPath(name string) string {
	return filepath.Join("testdata", name+".golden")
}

// CompareGolden compares got against the golden file, failing with both
// values on mismatch. With -update it rewrites the golden file instead.
func CompareGolden(t *testing.T, name string, got []byte) {
	t.Helper()

	path := GoldenPath(name)
	if *updateGolden {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create testdata dir: %v", err)
		}
		if err := os.WriteFile(path, got, 0644); err != nil {
			t.Fatalf("failed to update golden %s: %v", path, err)
		}
		t.Logf("Updated golden: %s", path)
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("missing golden %s (run with -update to create): %v", path, err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("output does not match golden %s\ngot:\n%s\nwant:\n%s", path, got, want)
	}
}

// CompareGoldenJSON marshals got with stable indentation and compares
// against the golden file.
func CompareGoldenJSON(t *testing.T, name string, got any) {
	t.Helper()

	data, err := json.MarshalIndent(got, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal for golden comparison: %v", err)
	}
	data = append(data, '\n')
	CompareGolden(t, name, data)
}
