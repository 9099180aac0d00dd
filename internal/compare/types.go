// Package compare diffs two surfaces into a symmetric set of structural
// differences. Differences carry no compatibility judgement; that is the
// classifier's job.
package compare

import (
	"apicompat/internal/surface"
)

// ChangeKind represents the type of surface change
type ChangeKind string

const (
	ChangeRemoved               ChangeKind = "removed"                // Member no longer exists in candidate
	ChangeAdded                 ChangeKind = "added"                  // New member in candidate
	ChangeSignatureChanged      ChangeKind = "signature_changed"      // Overload re-paired with a different shape
	ChangeParameterAddedDefault ChangeKind = "parameter_added_default" // Trailing parameters added, all with defaults
	ChangeReturnTypeChanged     ChangeKind = "return_type_changed"    // Same signature, different return type
	ChangeAccessibilityWidened  ChangeKind = "accessibility_widened"  // Visible to more callers
	ChangeAccessibilityNarrowed ChangeKind = "accessibility_narrowed" // Visible to fewer callers
	ChangeConstValueChanged     ChangeKind = "const_value_changed"    // Constant field's value changed
)

// Difference pairs a baseline member with its candidate counterpart.
// Baseline is nil for additions, Candidate nil for removals; every other
// kind references both.
type Difference struct {
	Kind      ChangeKind       `json:"kind"`
	Baseline  *surface.Member  `json:"baseline,omitempty"`
	Candidate *surface.Member  `json:"candidate,omitempty"`
	OldValue  string           `json:"oldValue,omitempty"`
	NewValue  string           `json:"newValue,omitempty"`
}

// Subject returns the signature a difference is about: the baseline
// member where one exists, otherwise the candidate. Diagnostics and
// suppressions key on this.
func (d *Difference) Subject() string {
	if d.Baseline != nil {
		return d.Baseline.Signature()
	}
	if d.Candidate != nil {
		return d.Candidate.Signature()
	}
	return ""
}

// Experimental reports whether the member under change is marked as
// allowed to change.
func (d *Difference) Experimental() bool {
	if d.Baseline != nil && d.Baseline.Experimental {
		return true
	}
	return d.Baseline == nil && d.Candidate != nil && d.Candidate.Experimental
}
