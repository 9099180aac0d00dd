package compare

import (
	"testing"

	"apicompat/internal/surface"
)

func method(decl, name string, params ...string) surface.Member {
	ps := make([]surface.Parameter, len(params))
	for i, p := range params {
		ps[i] = surface.Parameter{Type: p}
	}
	return surface.Member{
		Name:          name,
		DeclaringType: decl,
		Kind:          surface.KindMethod,
		Accessibility: surface.AccessPublic,
		Parameters:    ps,
	}
}

func surfaceOf(members ...surface.Member) *surface.Surface {
	return &surface.Surface{Name: "Contoso.Net", Version: "1.0.0", Members: members}
}

func kinds(diffs []Difference) []ChangeKind {
	out := make([]ChangeKind, len(diffs))
	for i, d := range diffs {
		out[i] = d.Kind
	}
	return out
}

func TestIdenticalSurfacesProduceEmptyDiff(t *testing.T) {
	s := surfaceOf(
		method("Contoso.Client", "Connect", "string"),
		method("Contoso.Client", "Connect", "string", "int"),
		surface.Member{Name: "Client", DeclaringType: "Contoso", Kind: surface.KindType, Accessibility: surface.AccessPublic},
	)

	diffs := Diff(s, s)
	if len(diffs) != 0 {
		t.Errorf("self-diff produced %d differences: %v", len(diffs), kinds(diffs))
	}
}

func TestRemovedAndAdded(t *testing.T) {
	base := surfaceOf(
		method("Contoso.Client", "Close"),
		method("Contoso.Client", "Connect", "string"),
	)
	cand := surfaceOf(
		method("Contoso.Client", "Connect", "string"),
		method("Contoso.Client", "Open"),
	)

	diffs := Diff(base, cand)
	if len(diffs) != 2 {
		t.Fatalf("expected 2 differences, got %d: %v", len(diffs), kinds(diffs))
	}

	var removed, added *Difference
	for i := range diffs {
		switch diffs[i].Kind {
		case ChangeRemoved:
			removed = &diffs[i]
		case ChangeAdded:
			added = &diffs[i]
		}
	}
	if removed == nil || removed.Baseline.Name != "Close" {
		t.Errorf("expected removal of Close, got %+v", removed)
	}
	if added == nil || added.Candidate.Name != "Open" {
		t.Errorf("expected addition of Open, got %+v", added)
	}
}

func TestOverloadRePairing(t *testing.T) {
	// Only one overload changed; the untouched overload must match
	// exactly and the changed one must diff as a signature change, not
	// as removed+added.
	base := surfaceOf(
		method("Contoso.Client", "Connect", "string"),
		method("Contoso.Client", "Connect", "string", "int"),
	)
	cand := surfaceOf(
		method("Contoso.Client", "Connect", "string"),
		method("Contoso.Client", "Connect", "string", "TimeSpan"),
	)

	diffs := Diff(base, cand)
	if len(diffs) != 1 {
		t.Fatalf("expected 1 difference, got %d: %v", len(diffs), kinds(diffs))
	}
	d := diffs[0]
	if d.Kind != ChangeSignatureChanged {
		t.Errorf("Kind = %s, want %s", d.Kind, ChangeSignatureChanged)
	}
	if d.OldValue != "Contoso.Client.Connect(string, int)" {
		t.Errorf("OldValue = %q", d.OldValue)
	}
	if d.NewValue != "Contoso.Client.Connect(string, TimeSpan)" {
		t.Errorf("NewValue = %q", d.NewValue)
	}
	if d.Subject() != "Contoso.Client.Connect(string, int)" {
		t.Errorf("Subject = %q, want baseline signature", d.Subject())
	}
}

func TestOverloadPairingPrefersMinimalEditDistance(t *testing.T) {
	// Two overloads change; each must pair with its nearest shape.
	base := surfaceOf(
		method("Contoso.Client", "Send", "string"),
		method("Contoso.Client", "Send", "string", "int", "bool"),
	)
	cand := surfaceOf(
		method("Contoso.Client", "Send", "byte[]"),
		method("Contoso.Client", "Send", "string", "long", "bool"),
	)

	diffs := Diff(base, cand)
	if len(diffs) != 2 {
		t.Fatalf("expected 2 differences, got %d: %v", len(diffs), kinds(diffs))
	}
	for _, d := range diffs {
		if d.Kind != ChangeSignatureChanged {
			t.Errorf("Kind = %s, want %s", d.Kind, ChangeSignatureChanged)
		}
		if len(d.Baseline.Parameters) != len(d.Candidate.Parameters) {
			t.Errorf("pairing crossed overloads: %q -> %q", d.OldValue, d.NewValue)
		}
	}
}

func TestParameterAddedWithDefault(t *testing.T) {
	base := surfaceOf(method("Contoso.Client", "Connect", "string"))

	withDefault := method("Contoso.Client", "Connect", "string", "TimeSpan")
	withDefault.Parameters[1].HasDefault = true
	withDefault.Parameters[1].Default = "TimeSpan.Zero"
	cand := surfaceOf(withDefault)

	diffs := Diff(base, cand)
	if len(diffs) != 1 {
		t.Fatalf("expected 1 difference, got %d: %v", len(diffs), kinds(diffs))
	}
	if diffs[0].Kind != ChangeParameterAddedDefault {
		t.Errorf("Kind = %s, want %s", diffs[0].Kind, ChangeParameterAddedDefault)
	}
}

func TestParameterAddedWithoutDefaultIsSignatureChange(t *testing.T) {
	base := surfaceOf(method("Contoso.Client", "Connect", "string"))
	cand := surfaceOf(method("Contoso.Client", "Connect", "string", "TimeSpan"))

	diffs := Diff(base, cand)
	if len(diffs) != 1 || diffs[0].Kind != ChangeSignatureChanged {
		t.Fatalf("expected one signature change, got %v", kinds(diffs))
	}
}

func TestAccessibilityChanges(t *testing.T) {
	narrowed := method("Contoso.Client", "Connect", "string")
	narrowed.Accessibility = surface.AccessInternal
	widened := method("Contoso.Client", "Close")
	widened.Accessibility = surface.AccessProtected
	widenedAfter := method("Contoso.Client", "Close")
	widenedAfter.Accessibility = surface.AccessPublic

	base := surfaceOf(method("Contoso.Client", "Connect", "string"), widened)
	cand := surfaceOf(narrowed, widenedAfter)

	diffs := Diff(base, cand)
	if len(diffs) != 2 {
		t.Fatalf("expected 2 differences, got %d: %v", len(diffs), kinds(diffs))
	}
	for _, d := range diffs {
		switch d.Baseline.Name {
		case "Connect":
			if d.Kind != ChangeAccessibilityNarrowed {
				t.Errorf("Connect: Kind = %s, want narrowed", d.Kind)
			}
		case "Close":
			if d.Kind != ChangeAccessibilityWidened {
				t.Errorf("Close: Kind = %s, want widened", d.Kind)
			}
		}
	}
}

func TestConstValueChanged(t *testing.T) {
	baseConst := surface.Member{
		Name: "MaxRetries", DeclaringType: "Contoso.Client", Kind: surface.KindField,
		Accessibility: surface.AccessPublic, IsConst: true, ConstValue: "3",
	}
	candConst := baseConst
	candConst.ConstValue = "5"

	diffs := Diff(surfaceOf(baseConst), surfaceOf(candConst))
	if len(diffs) != 1 {
		t.Fatalf("expected 1 difference, got %d: %v", len(diffs), kinds(diffs))
	}
	d := diffs[0]
	if d.Kind != ChangeConstValueChanged || d.OldValue != "3" || d.NewValue != "5" {
		t.Errorf("got %+v", d)
	}
}

func TestReturnTypeChanged(t *testing.T) {
	bm := method("Contoso.Client", "Connect", "string")
	bm.ReturnType = "void"
	cm := method("Contoso.Client", "Connect", "string")
	cm.ReturnType = "Task"

	diffs := Diff(surfaceOf(bm), surfaceOf(cm))
	if len(diffs) != 1 || diffs[0].Kind != ChangeReturnTypeChanged {
		t.Fatalf("expected one return type change, got %v", kinds(diffs))
	}
}

func TestAmbiguityFreeOverloadAddition(t *testing.T) {
	base := surfaceOf(method("Contoso.Client", "Connect", "string"))
	cand := surfaceOf(
		method("Contoso.Client", "Connect", "string"),
		method("Contoso.Client", "Connect", "string", "TimeSpan"),
	)

	diffs := Diff(base, cand)
	if len(diffs) != 1 || diffs[0].Kind != ChangeAdded {
		t.Fatalf("expected one addition, got %v", kinds(diffs))
	}
}

func TestEditDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want int
	}{
		{"both empty", nil, nil, 0},
		{"insertion", []string{"string"}, []string{"string", "int"}, 1},
		{"substitution", []string{"string", "int"}, []string{"string", "TimeSpan"}, 1},
		{"unrelated", []string{"int"}, []string{"string", "bool"}, 2},
		{"identical", []string{"string", "int"}, []string{"string", "int"}, 0},
		{"empty to two", nil, []string{"a", "b"}, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := editDistance(tc.a, tc.b); got != tc.want {
				t.Errorf("editDistance(%v, %v) = %d, want %d", tc.a, tc.b, got, tc.want)
			}
		})
	}
}
