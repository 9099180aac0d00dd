// Package surface models the publicly observable API surface of a library
// version: a named, versioned, canonically ordered set of members keyed by
// fully qualified signature.
package surface

import (
	"fmt"
	"sort"
	"strings"
)

// MemberKind identifies what sort of exported element a member is.
type MemberKind string

const (
	KindType     MemberKind = "type"
	KindMethod   MemberKind = "method"
	KindProperty MemberKind = "property"
	KindField    MemberKind = "field"
	KindEvent    MemberKind = "event"
)

// Accessibility is the declared visibility of a member. Order matters:
// a higher rank is visible to strictly more callers.
type Accessibility string

const (
	AccessPrivate   Accessibility = "private"
	AccessInternal  Accessibility = "internal"
	AccessProtected Accessibility = "protected"
	AccessPublic    Accessibility = "public"
)

var accessibilityRank = map[Accessibility]int{
	AccessPrivate:   0,
	AccessInternal:  1,
	AccessProtected: 2,
	AccessPublic:    3,
}

// Rank returns the ordering rank of an accessibility level.
// Unknown levels rank below private.
func (a Accessibility) Rank() int {
	if r, ok := accessibilityRank[a]; ok {
		return r
	}
	return -1
}

// Observable reports whether the accessibility is part of the public
// surface: public, or protected (exposed to derived types).
func (a Accessibility) Observable() bool {
	return a == AccessPublic || a == AccessProtected
}

// Parameter is one parameter of a callable member.
type Parameter struct {
	Type       string `json:"type"`
	Name       string `json:"name,omitempty"`
	HasDefault bool   `json:"hasDefault,omitempty"`
	Default    string `json:"default,omitempty"`
}

// Member is one exported type or callable element of a surface.
type Member struct {
	Name          string        `json:"name"`
	DeclaringType string        `json:"declaringType,omitempty"`
	Kind          MemberKind    `json:"kind"`
	Accessibility Accessibility `json:"accessibility"`
	Parameters    []Parameter   `json:"parameters,omitempty"`
	ReturnType    string        `json:"returnType,omitempty"`
	ConstValue    string        `json:"constValue,omitempty"`
	IsConst       bool          `json:"isConst,omitempty"`
	// Experimental marks a member that is allowed to change; breaking
	// differences on it are downgraded to warnings.
	Experimental bool   `json:"experimental,omitempty"`
	FilePath     string `json:"filePath,omitempty"`
	Line         int    `json:"line,omitempty"`
}

// Signature returns the fully qualified signature, the identity members
// are matched by. Parameter types participate; accessibility, return
// type, and defaults do not, so those changes diff as modifications
// rather than remove+add pairs.
func (m *Member) Signature() string {
	var b strings.Builder
	if m.DeclaringType != "" {
		b.WriteString(m.DeclaringType)
		b.WriteString(".")
	}
	b.WriteString(m.Name)
	if m.Kind == KindMethod {
		b.WriteString("(")
		for i, p := range m.Parameters {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.Type)
		}
		b.WriteString(")")
	}
	return b.String()
}

// OverloadGroup keys the set of members a changed overload may be
// re-paired against: same declaring type, name, and kind.
func (m *Member) OverloadGroup() string {
	return fmt.Sprintf("%s.%s/%s", m.DeclaringType, m.Name, m.Kind)
}

// ParameterTypes returns just the parameter type list.
func (m *Member) ParameterTypes() []string {
	types := make([]string, len(m.Parameters))
	for i, p := range m.Parameters {
		types[i] = p.Type
	}
	return types
}

// Surface is a snapshot of a library version's public interface.
type Surface struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Members []Member `json:"members"`
}

// Sort puts members into canonical order: lexicographic by fully
// qualified signature, kind as tie-break. Extraction is deterministic
// only when every producer finishes with this.
func (s *Surface) Sort() {
	sort.SliceStable(s.Members, func(i, j int) bool {
		si, sj := s.Members[i].Signature(), s.Members[j].Signature()
		if si != sj {
			return si < sj
		}
		return s.Members[i].Kind < s.Members[j].Kind
	})
}

// Validate checks the surface invariant: members unique by fully
// qualified signature.
func (s *Surface) Validate() error {
	seen := make(map[string]struct{}, len(s.Members))
	for i := range s.Members {
		sig := s.Members[i].Signature()
		key := sig + "/" + string(s.Members[i].Kind)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate member signature %q in surface %s %s", sig, s.Name, s.Version)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// Index returns a lookup from signature key to member. Kind is part of
// the key so a property and a field sharing a name stay distinct.
func (s *Surface) Index() map[string]*Member {
	idx := make(map[string]*Member, len(s.Members))
	for i := range s.Members {
		m := &s.Members[i]
		idx[m.Signature()+"/"+string(m.Kind)] = m
	}
	return idx
}

// Ref identifies a surface as "name version" for messages.
func (s *Surface) Ref() string {
	if s.Version == "" {
		return s.Name
	}
	return s.Name + " " + s.Version
}
