package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"apicompat/internal/report"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatHuman OutputFormat = "human"
	FormatSARIF OutputFormat = "sarif"
)

// FormatReport renders a run report in the requested format.
func FormatReport(r *report.Report, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(r)
	case FormatHuman:
		return formatHuman(r), nil
	case FormatSARIF:
		return FormatReportAsSARIF(r)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func formatJSON(r *report.Report) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

func formatHuman(r *report.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "API compatibility: %s %s -> %s %s (%s mode)\n",
		r.BaselineName, r.BaselineVersion, r.CandidateName, r.CandidateVersion, r.Mode)
	b.WriteString(strings.Repeat("=", 60) + "\n")

	if len(r.Diagnostics) == 0 {
		b.WriteString("\nNo compatibility issues found.\n")
	} else {
		b.WriteString("\n")
		for _, d := range r.Diagnostics {
			fmt.Fprintf(&b, "%s %s: %s\n", strings.ToUpper(string(d.Severity)), d.ID, d.Message)
			if d.FilePath != "" {
				fmt.Fprintf(&b, "    at %s:%d\n", d.FilePath, d.Line)
			}
		}
	}

	if len(r.Suppressed) > 0 {
		b.WriteString("\nSuppressed:\n")
		for _, a := range r.Suppressed {
			fmt.Fprintf(&b, "  %s  %s", a.Suppression.DiagnosticID, a.Suppression.Target)
			if a.Suppression.Justification != "" {
				fmt.Fprintf(&b, "  (%s)", a.Suppression.Justification)
			}
			b.WriteString("\n")
		}
	}

	fmt.Fprintf(&b, "\n%d error(s), %d warning(s), %d suppressed\n",
		r.Summary.Errors, r.Summary.Warnings, r.Summary.Suppressed)
	if r.Failed() {
		b.WriteString("Result: FAIL\n")
	} else {
		b.WriteString("Result: PASS\n")
	}
	return b.String()
}
