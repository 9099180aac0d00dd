package surface

import (
	"testing"
)

func method(decl, name string, params ...string) Member {
	ps := make([]Parameter, len(params))
	for i, p := range params {
		ps[i] = Parameter{Type: p}
	}
	return Member{
		Name:          name,
		DeclaringType: decl,
		Kind:          KindMethod,
		Accessibility: AccessPublic,
		Parameters:    ps,
	}
}

func TestSignature(t *testing.T) {
	tests := []struct {
		name   string
		member Member
		want   string
	}{
		{
			name:   "method with parameters",
			member: method("Contoso.Client", "Connect", "string", "TimeSpan"),
			want:   "Contoso.Client.Connect(string, TimeSpan)",
		},
		{
			name:   "method without parameters",
			member: method("Contoso.Client", "Close"),
			want:   "Contoso.Client.Close()",
		},
		{
			name: "type has no parameter list",
			member: Member{
				Name: "Client", DeclaringType: "Contoso", Kind: KindType,
			},
			want: "Contoso.Client",
		},
		{
			name: "property",
			member: Member{
				Name: "Timeout", DeclaringType: "Contoso.Client", Kind: KindProperty,
			},
			want: "Contoso.Client.Timeout",
		},
		{
			name:   "top-level type",
			member: Member{Name: "Client", Kind: KindType},
			want:   "Client",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.member.Signature(); got != tc.want {
				t.Errorf("Signature() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSortIsDeterministic(t *testing.T) {
	a := Surface{Name: "Contoso", Version: "1.0.0", Members: []Member{
		method("Contoso.Client", "Connect", "string"),
		method("Contoso.Client", "Close"),
		{Name: "Client", DeclaringType: "Contoso", Kind: KindType, Accessibility: AccessPublic},
	}}
	b := Surface{Name: "Contoso", Version: "1.0.0", Members: []Member{
		{Name: "Client", DeclaringType: "Contoso", Kind: KindType, Accessibility: AccessPublic},
		method("Contoso.Client", "Close"),
		method("Contoso.Client", "Connect", "string"),
	}}

	a.Sort()
	b.Sort()

	for i := range a.Members {
		if a.Members[i].Signature() != b.Members[i].Signature() {
			t.Fatalf("order differs at %d: %q vs %q", i,
				a.Members[i].Signature(), b.Members[i].Signature())
		}
	}
}

func TestValidateRejectsDuplicates(t *testing.T) {
	s := Surface{Name: "Contoso", Version: "1.0.0", Members: []Member{
		method("Contoso.Client", "Connect", "string"),
		method("Contoso.Client", "Connect", "string"),
	}}

	if err := s.Validate(); err == nil {
		t.Error("Validate should reject duplicate signatures")
	}

	s.Members = s.Members[:1]
	if err := s.Validate(); err != nil {
		t.Errorf("Validate should accept unique signatures: %v", err)
	}
}

func TestOverloadsAreDistinctSignatures(t *testing.T) {
	s := Surface{Name: "Contoso", Version: "1.0.0", Members: []Member{
		method("Contoso.Client", "Connect", "string"),
		method("Contoso.Client", "Connect", "string", "int"),
	}}

	if err := s.Validate(); err != nil {
		t.Errorf("overloads should not collide: %v", err)
	}
	if s.Members[0].OverloadGroup() != s.Members[1].OverloadGroup() {
		t.Error("overloads should share an overload group")
	}
}

func TestAccessibilityRank(t *testing.T) {
	if AccessPublic.Rank() <= AccessProtected.Rank() {
		t.Error("public should outrank protected")
	}
	if AccessProtected.Rank() <= AccessInternal.Rank() {
		t.Error("protected should outrank internal")
	}
	if Accessibility("bogus").Rank() >= AccessPrivate.Rank() {
		t.Error("unknown accessibility should rank below private")
	}
	if !AccessProtected.Observable() {
		t.Error("protected members are part of the observable surface")
	}
	if AccessInternal.Observable() {
		t.Error("internal members are not observable")
	}
}
