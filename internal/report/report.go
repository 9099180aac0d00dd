// Package report turns filtered, classified differences into the
// diagnostics a run emits: stable identifier, severity, and a human
// message naming the member and both versions. The run verdict lives
// here too: a run fails iff an error-severity diagnostic remains.
package report

import (
	"apicompat/internal/classify"
	"apicompat/internal/suppress"
	"apicompat/internal/surface"
)

// Severity is the reporting weight of a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	// SeverityDisabled drops the diagnostic from the report entirely.
	SeverityDisabled Severity = "disabled"
)

// Diagnostic is one reportable finding.
type Diagnostic struct {
	ID       string   `json:"id"`
	Severity Severity `json:"severity"`
	Target   string   `json:"target"`
	Message  string   `json:"message"`
	// Binary and Source carry the classification axes for machine
	// consumers; the severity already folds them into the verdict.
	Binary       classify.Compatibility `json:"binary,omitempty"`
	Source       classify.Compatibility `json:"source,omitempty"`
	Experimental bool                   `json:"experimental,omitempty"`
	FilePath     string                 `json:"filePath,omitempty"`
	Line         int                    `json:"line,omitempty"`
}

// Report is the full outcome of one compatibility run.
type Report struct {
	BaselineName     string `json:"baselineName,omitempty"`
	BaselineVersion  string `json:"baselineVersion,omitempty"`
	CandidateName    string `json:"candidateName,omitempty"`
	CandidateVersion string `json:"candidateVersion,omitempty"`
	Mode             string `json:"mode"`

	Diagnostics []Diagnostic     `json:"diagnostics"`
	Suppressed  []suppress.Audit `json:"suppressed,omitempty"`

	Summary Summary `json:"summary"`
}

// Summary counts the run outcome.
type Summary struct {
	Differences int `json:"differences"`
	Errors      int `json:"errors"`
	Warnings    int `json:"warnings"`
	Suppressed  int `json:"suppressed"`
	Stale       int `json:"stale"`
}

// Build assembles the report for one run. Only differences breaking in
// the active mode become diagnostics; a compatible difference has
// nothing to report. Stale suppressions surface as warnings, never
// failures.
func Build(out suppress.Outcome, baseline, candidate *surface.Surface, strict bool, overrides SeverityMap) *Report {
	mode := "binary"
	if strict {
		mode = "strict"
	}
	r := &Report{
		BaselineName:     baseline.Name,
		BaselineVersion:  baseline.Version,
		CandidateName:    candidate.Name,
		CandidateVersion: candidate.Version,
		Mode:             mode,
		Suppressed:       out.Suppressed,
	}
	r.Summary.Differences = len(out.Reportable)
	r.Summary.Suppressed = len(out.Suppressed)
	r.Summary.Stale = len(out.Stale)

	for _, item := range out.Reportable {
		if !item.Classification.IsBreaking(strict) {
			continue
		}

		sev := SeverityError
		if item.Difference.Experimental() {
			// The member opted out of stability guarantees.
			sev = SeverityWarning
		}
		if o, ok := overrides[item.Classification.DiagnosticID]; ok {
			sev = o
		}
		if sev == SeverityDisabled {
			continue
		}

		d := Diagnostic{
			ID:           item.Classification.DiagnosticID,
			Severity:     sev,
			Target:       item.Difference.Subject(),
			Message:      Message(item, baseline, candidate),
			Binary:       item.Classification.Binary,
			Source:       item.Classification.Source,
			Experimental: item.Difference.Experimental(),
		}
		if m := item.Difference.Baseline; m != nil {
			d.FilePath, d.Line = m.FilePath, m.Line
		} else if m := item.Difference.Candidate; m != nil {
			d.FilePath, d.Line = m.FilePath, m.Line
		}
		r.Diagnostics = append(r.Diagnostics, d)
	}

	for _, s := range out.Stale {
		sev := SeverityWarning
		if o, ok := overrides[classify.DiagStaleSuppression]; ok {
			sev = o
		}
		if sev == SeverityDisabled {
			continue
		}
		r.Diagnostics = append(r.Diagnostics, Diagnostic{
			ID:       classify.DiagStaleSuppression,
			Severity: sev,
			Target:   s.Target,
			Message:  StaleMessage(s),
		})
	}

	for _, d := range r.Diagnostics {
		switch d.Severity {
		case SeverityError:
			r.Summary.Errors++
		case SeverityWarning:
			r.Summary.Warnings++
		}
	}
	return r
}

// Failed reports whether the run should exit nonzero: any remaining
// error-severity diagnostic. Warnings alone never fail a run.
func (r *Report) Failed() bool {
	return r.Summary.Errors > 0
}
