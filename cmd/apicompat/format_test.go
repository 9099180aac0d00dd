package main

import (
	"encoding/json"
	"strings"
	"testing"

	"apicompat/internal/classify"
	"apicompat/internal/report"
	"apicompat/internal/testutil"
)

func sampleReport() *report.Report {
	r := &report.Report{
		BaselineName: "Contoso.Client", BaselineVersion: "1.2.0",
		CandidateName: "Contoso.Client", CandidateVersion: "1.3.0",
		Mode: "strict",
		Diagnostics: []report.Diagnostic{
			{
				ID:       classify.DiagMemberRemoved,
				Severity: report.SeverityError,
				Target:   "Contoso.Client.Connect(string)",
				Message:  "The method 'Contoso.Client.Connect(string)' exists in the previous version (1.2.0) but no longer exists in the current version (1.3.0). This is a breaking change.",
				Binary:   classify.Breaking,
				Source:   classify.Breaking,
				FilePath: "Client.cs",
				Line:     42,
			},
			{
				ID:       classify.DiagStaleSuppression,
				Severity: report.SeverityWarning,
				Target:   "Contoso.Client.Gone()",
				Message:  "The suppression for APC0001 on 'Contoso.Client.Gone()' no longer matches any difference and can be removed.",
			},
		},
	}
	r.Summary.Errors = 1
	r.Summary.Warnings = 1
	return r
}

func TestFormatHuman(t *testing.T) {
	out, err := FormatReport(sampleReport(), FormatHuman)
	if err != nil {
		t.Fatalf("FormatReport failed: %v", err)
	}

	for _, want := range []string{
		"1.2.0 -> Contoso.Client 1.3.0",
		"ERROR APC0001:",
		"at Client.cs:42",
		"1 error(s), 1 warning(s)",
		"Result: FAIL",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("human output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatHumanGolden(t *testing.T) {
	out, err := FormatReport(sampleReport(), FormatHuman)
	if err != nil {
		t.Fatalf("FormatReport failed: %v", err)
	}
	testutil.CompareGolden(t, "check_human", []byte(out))
}

func TestFormatJSON(t *testing.T) {
	out, err := FormatReport(sampleReport(), FormatJSON)
	if err != nil {
		t.Fatalf("FormatReport failed: %v", err)
	}

	var decoded report.Report
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("JSON output does not round-trip: %v", err)
	}
	if len(decoded.Diagnostics) != 2 {
		t.Errorf("diagnostics = %d, want 2", len(decoded.Diagnostics))
	}
}

func TestFormatUnsupported(t *testing.T) {
	if _, err := FormatReport(sampleReport(), OutputFormat("xml")); err == nil {
		t.Error("unsupported formats must be rejected")
	}
}

func TestFormatSARIF(t *testing.T) {
	out, err := FormatReport(sampleReport(), FormatSARIF)
	if err != nil {
		t.Fatalf("FormatReport failed: %v", err)
	}

	var doc SARIFReport
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("SARIF output is not valid JSON: %v", err)
	}
	if doc.Version != "2.1.0" {
		t.Errorf("SARIF version = %s", doc.Version)
	}
	if len(doc.Runs) != 1 {
		t.Fatalf("runs = %d", len(doc.Runs))
	}
	run := doc.Runs[0]
	if run.Tool.Driver.Name != "apicompat" {
		t.Errorf("driver = %s", run.Tool.Driver.Name)
	}
	if len(run.Results) != 2 || len(run.Tool.Driver.Rules) != 2 {
		t.Errorf("results/rules = %d/%d, want 2/2", len(run.Results), len(run.Tool.Driver.Rules))
	}
	if run.Results[0].Level != "error" {
		t.Errorf("first result level = %s", run.Results[0].Level)
	}
	if run.Results[0].Locations[0].PhysicalLocation.Region.StartLine != 42 {
		t.Error("location should carry the member's line")
	}
	if run.Results[1].Locations != nil {
		t.Error("diagnostics without a file carry no location")
	}
}
