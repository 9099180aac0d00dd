package classify

import (
	"testing"

	"apicompat/internal/compare"
)

func TestRuleTable(t *testing.T) {
	tests := []struct {
		kind       compare.ChangeKind
		wantID     string
		wantBinary Compatibility
		wantSource Compatibility
	}{
		{compare.ChangeRemoved, DiagMemberRemoved, Breaking, Breaking},
		{compare.ChangeAdded, DiagMemberAdded, Compatible, Compatible},
		{compare.ChangeSignatureChanged, DiagSignatureChanged, Breaking, Breaking},
		{compare.ChangeParameterAddedDefault, DiagParameterAddedDefault, Breaking, Compatible},
		{compare.ChangeConstValueChanged, DiagConstValueChanged, Breaking, Compatible},
		{compare.ChangeAccessibilityNarrowed, DiagAccessibilityNarrowed, Breaking, Breaking},
		{compare.ChangeAccessibilityWidened, DiagAccessibilityWidened, Compatible, Compatible},
		{compare.ChangeReturnTypeChanged, DiagReturnTypeChanged, Breaking, Breaking},
	}

	for _, tc := range tests {
		t.Run(string(tc.kind), func(t *testing.T) {
			got := Classify(&compare.Difference{Kind: tc.kind})
			if got.DiagnosticID != tc.wantID {
				t.Errorf("DiagnosticID = %s, want %s", got.DiagnosticID, tc.wantID)
			}
			if got.Binary != tc.wantBinary {
				t.Errorf("Binary = %s, want %s", got.Binary, tc.wantBinary)
			}
			if got.Source != tc.wantSource {
				t.Errorf("Source = %s, want %s", got.Source, tc.wantSource)
			}
		})
	}
}

func TestUnknownKindClassifiesBreaking(t *testing.T) {
	got := Classify(&compare.Difference{Kind: compare.ChangeKind("mystery")})
	if got.Binary != Breaking || got.Source != Breaking {
		t.Errorf("unknown kinds must classify breaking, got %+v", got)
	}
}

func TestIsBreaking(t *testing.T) {
	tests := []struct {
		name   string
		c      Classification
		strict bool
		want   bool
	}{
		{"binary break in binary mode", Classification{Binary: Breaking, Source: Compatible}, false, true},
		{"binary break in strict mode", Classification{Binary: Breaking, Source: Compatible}, true, true},
		{"source-only break in binary mode", Classification{Binary: Compatible, Source: Breaking}, false, false},
		{"source-only break in strict mode", Classification{Binary: Compatible, Source: Breaking}, true, true},
		{"compatible both modes", Classification{Binary: Compatible, Source: Compatible}, true, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.c.IsBreaking(tc.strict); got != tc.want {
				t.Errorf("IsBreaking(%v) = %v, want %v", tc.strict, got, tc.want)
			}
		})
	}
}
