// Package classify assigns each structural difference a compatibility
// label on two independent axes: binary (do previously compiled callers
// still load and run) and source (does previously written source still
// compile). The axes are orthogonal; adding a parameter with a default
// value breaks binaries while leaving source untouched, and widening
// accessibility breaks neither.
package classify

import (
	"apicompat/internal/compare"
)

// Compatibility is one axis outcome.
type Compatibility string

const (
	Compatible Compatibility = "compatible"
	Breaking   Compatibility = "breaking"
)

// Diagnostic identifiers, stable across releases. The APC prefix is this
// tool's own namespace.
const (
	DiagMemberRemoved         = "APC0001"
	DiagSignatureChanged      = "APC0002"
	DiagParameterAddedDefault = "APC0003"
	DiagConstValueChanged     = "APC0004"
	DiagAccessibilityNarrowed = "APC0005"
	DiagReturnTypeChanged     = "APC0006"
	DiagAccessibilityWidened  = "APC0007"
	DiagMemberAdded           = "APC0008"

	// DiagStaleSuppression flags a suppression entry with no live match.
	DiagStaleSuppression = "APC1001"
)

// Classification is the rule-table outcome for one difference.
type Classification struct {
	DiagnosticID string        `json:"diagnosticId"`
	Binary       Compatibility `json:"binary"`
	Source       Compatibility `json:"source"`
}

// ruleTable maps change kinds to outcomes. Tagged-variant dispatch on
// the change kind; extend here, not with a type hierarchy.
var ruleTable = map[compare.ChangeKind]Classification{
	compare.ChangeRemoved: {
		DiagnosticID: DiagMemberRemoved, Binary: Breaking, Source: Breaking,
	},
	compare.ChangeAdded: {
		DiagnosticID: DiagMemberAdded, Binary: Compatible, Source: Compatible,
	},
	compare.ChangeSignatureChanged: {
		DiagnosticID: DiagSignatureChanged, Binary: Breaking, Source: Breaking,
	},
	compare.ChangeParameterAddedDefault: {
		// Source callers compile unchanged; compiled call sites bake in
		// the exact parameter count and fail at load time.
		DiagnosticID: DiagParameterAddedDefault, Binary: Breaking, Source: Compatible,
	},
	compare.ChangeConstValueChanged: {
		// Old binaries inlined the old value.
		DiagnosticID: DiagConstValueChanged, Binary: Breaking, Source: Compatible,
	},
	compare.ChangeAccessibilityNarrowed: {
		DiagnosticID: DiagAccessibilityNarrowed, Binary: Breaking, Source: Breaking,
	},
	compare.ChangeAccessibilityWidened: {
		DiagnosticID: DiagAccessibilityWidened, Binary: Compatible, Source: Compatible,
	},
	compare.ChangeReturnTypeChanged: {
		DiagnosticID: DiagReturnTypeChanged, Binary: Breaking, Source: Breaking,
	},
}

// Classify resolves a difference to its classification. Never fails:
// unknown kinds classify as breaking on both axes under the generic
// signature-changed diagnostic, which errs toward reporting.
func Classify(d *compare.Difference) Classification {
	if c, ok := ruleTable[d.Kind]; ok {
		return c
	}
	return Classification{DiagnosticID: DiagSignatureChanged, Binary: Breaking, Source: Breaking}
}

// Classified couples a difference with its rule-table outcome.
type Classified struct {
	Difference     *compare.Difference `json:"difference"`
	Classification Classification      `json:"classification"`
}

// ClassifyAll resolves every difference. Classification never fails;
// each difference maps to exactly one outcome.
func ClassifyAll(diffs []compare.Difference) []Classified {
	out := make([]Classified, len(diffs))
	for i := range diffs {
		out[i] = Classified{
			Difference:     &diffs[i],
			Classification: Classify(&diffs[i]),
		}
	}
	return out
}

// IsBreaking reports whether the classification breaks the given mode:
// binary breaks always count; source breaks count only in strict mode.
func (c Classification) IsBreaking(strict bool) bool {
	if c.Binary == Breaking {
		return true
	}
	return strict && c.Source == Breaking
}
