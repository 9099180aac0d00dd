package extract

import (
	"context"
	"fmt"
	"os"
	"strings"

	scippb "github.com/sourcegraph/scip/bindings/go/scip"
	"google.golang.org/protobuf/proto"

	comperrors "apicompat/internal/errors"
	"apicompat/internal/logging"
	"apicompat/internal/surface"
)

// experimentalMarker in a symbol's documentation opts the member out of
// stability guarantees.
const experimentalMarker = "[Experimental]"

// scipExtractor builds a surface from a SCIP protobuf index. Only
// symbols with a definition occurrence in the index count: they are
// what the artifact itself declares. SCIP does not model declared
// accessibility, so every indexed definition is taken as public.
type scipExtractor struct {
	logger *logging.Logger
}

func (e *scipExtractor) Extract(ctx context.Context, path string) (*surface.Surface, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, comperrors.New(
			comperrors.ExtractionFailed,
			fmt.Sprintf("cannot read SCIP index %s", path),
			err,
		)
	}

	var index scippb.Index
	if err := proto.Unmarshal(data, &index); err != nil {
		return nil, comperrors.New(
			comperrors.ExtractionFailed,
			fmt.Sprintf("cannot parse SCIP index %s", path),
			err,
		)
	}

	s := &surface.Surface{}

	// Definition occurrences locate each declared symbol.
	type location struct {
		file string
		line int
	}
	defs := make(map[string]location)
	for _, doc := range index.Documents {
		for _, occ := range doc.Occurrences {
			if occ.SymbolRoles&int32(scippb.SymbolRole_Definition) == 0 {
				continue
			}
			loc := location{file: doc.RelativePath}
			if len(occ.Range) > 0 {
				loc.line = int(occ.Range[0]) + 1
			}
			defs[occ.Symbol] = loc
		}
	}

	seen := make(map[string]struct{})
	for _, doc := range index.Documents {
		for _, sym := range doc.Symbols {
			if scippb.IsLocalSymbol(sym.Symbol) {
				continue
			}
			loc, defined := defs[sym.Symbol]
			if !defined {
				continue
			}

			parsed, err := scippb.ParseSymbol(sym.Symbol)
			if err != nil || len(parsed.Descriptors) == 0 {
				continue
			}

			if s.Name == "" && parsed.Package != nil {
				s.Name = parsed.Package.Name
				s.Version = parsed.Package.Version
			}

			m, ok := memberFromSymbol(parsed, sym)
			if !ok {
				continue
			}
			m.FilePath = loc.file
			m.Line = loc.line

			key := m.Signature() + "/" + string(m.Kind)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			s.Members = append(s.Members, *m)
		}
	}

	if s.Name == "" && index.Metadata != nil {
		s.Name = index.Metadata.ProjectRoot
	}
	return s, nil
}

// memberFromSymbol maps one SCIP symbol to a surface member.
func memberFromSymbol(parsed *scippb.Symbol, sym *scippb.SymbolInformation) (*surface.Member, bool) {
	last := parsed.Descriptors[len(parsed.Descriptors)-1]

	switch last.Suffix {
	case scippb.Descriptor_Parameter, scippb.Descriptor_TypeParameter,
		scippb.Descriptor_Local, scippb.Descriptor_Meta, scippb.Descriptor_Macro:
		return nil, false
	}

	var declaring []string
	for _, d := range parsed.Descriptors[:len(parsed.Descriptors)-1] {
		switch d.Suffix {
		case scippb.Descriptor_Namespace, scippb.Descriptor_Type:
			declaring = append(declaring, d.Name)
		}
	}

	m := &surface.Member{
		Name:          last.Name,
		DeclaringType: strings.Join(declaring, "."),
		Kind:          kindFromSymbol(last.Suffix, sym.Kind),
		Accessibility: surface.AccessPublic,
		Experimental:  hasExperimentalMarker(sym.Documentation),
	}
	if sym.Kind == scippb.SymbolInformation_Constant {
		m.IsConst = true
	}

	if m.Kind == surface.KindMethod && sym.SignatureDocumentation != nil {
		ret, params := parseSignatureText(sym.SignatureDocumentation.Text, m.Name)
		m.ReturnType = ret
		m.Parameters = params
	}
	return m, true
}

// kindFromSymbol resolves the member kind, preferring the indexer's
// explicit kind over the symbol suffix.
func kindFromSymbol(suffix scippb.Descriptor_Suffix, kind scippb.SymbolInformation_Kind) surface.MemberKind {
	switch kind {
	case scippb.SymbolInformation_Method, scippb.SymbolInformation_Constructor,
		scippb.SymbolInformation_Function:
		return surface.KindMethod
	case scippb.SymbolInformation_Property:
		return surface.KindProperty
	case scippb.SymbolInformation_Field, scippb.SymbolInformation_Constant:
		return surface.KindField
	case scippb.SymbolInformation_Event:
		return surface.KindEvent
	case scippb.SymbolInformation_Class, scippb.SymbolInformation_Interface,
		scippb.SymbolInformation_Struct, scippb.SymbolInformation_Enum:
		return surface.KindType
	}

	switch suffix {
	case scippb.Descriptor_Method:
		return surface.KindMethod
	case scippb.Descriptor_Type:
		return surface.KindType
	}
	return surface.KindField
}

func hasExperimentalMarker(docs []string) bool {
	for _, d := range docs {
		if strings.Contains(d, experimentalMarker) {
			return true
		}
	}
	return false
}

// parseSignatureText pulls the return type and parameter list out of an
// indexer-provided signature like "int Connect(string host, int port = 80)".
// Indexers that omit signature documentation yield a parameterless member.
func parseSignatureText(text, name string) (string, []surface.Parameter) {
	text = strings.TrimSpace(text)
	open := strings.Index(text, name+"(")
	if open < 0 {
		return "", nil
	}

	returnType := ""
	if head := strings.Fields(strings.TrimSpace(text[:open])); len(head) > 0 {
		returnType = head[len(head)-1]
	}

	rest := text[open+len(name)+1:]
	end := matchingParen(rest)
	if end < 0 {
		return returnType, nil
	}

	var params []surface.Parameter
	for _, raw := range splitTopLevel(rest[:end]) {
		if p, ok := parseParameter(raw); ok {
			params = append(params, p)
		}
	}
	return returnType, params
}

// matchingParen finds the closing paren for a list whose opener was
// already consumed, tolerating nested generics and parens.
func matchingParen(s string) int {
	depth := 0
	for i, r := range s {
		switch r {
		case '(', '<', '[':
			depth++
		case ')':
			if depth == 0 {
				return i
			}
			depth--
		case '>', ']':
			depth--
		}
	}
	return -1
}

// splitTopLevel splits a parameter list on commas outside any nesting.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(', '<', '[':
			depth++
		case ')', '>', ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if rest := strings.TrimSpace(s[start:]); rest != "" {
		parts = append(parts, rest)
	}
	return parts
}

// parseParameter reads one "type name = default" fragment.
func parseParameter(raw string) (surface.Parameter, bool) {
	var p surface.Parameter

	if eq := strings.Index(raw, "="); eq >= 0 {
		p.HasDefault = true
		p.Default = strings.TrimSpace(raw[eq+1:])
		raw = raw[:eq]
	}

	fields := strings.Fields(strings.TrimSpace(raw))
	switch len(fields) {
	case 0:
		return p, false
	case 1:
		p.Type = fields[0]
	default:
		p.Name = fields[len(fields)-1]
		p.Type = strings.Join(fields[:len(fields)-1], " ")
	}
	return p, true
}
