//go:build cgo

package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"

	comperrors "apicompat/internal/errors"
	"apicompat/internal/logging"
	"apicompat/internal/surface"
)

// sourceExtractor parses a C# source tree with tree-sitter and collects
// the observable declarations: public and protected members of public
// types. It is the fallback for artifacts that ship as source rather
// than as an index or snapshot.
type sourceExtractor struct {
	parser *sitter.Parser
	logger *logging.Logger
}

func newSourceExtractor(logger *logging.Logger) (Extractor, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(csharp.GetLanguage())
	return &sourceExtractor{parser: parser, logger: logger}, nil
}

func (e *sourceExtractor) Extract(ctx context.Context, root string) (*surface.Surface, error) {
	s := &surface.Surface{Name: filepath.Base(root)}

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			name := info.Name()
			if strings.HasPrefix(name, ".") || name == "bin" || name == "obj" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".cs") {
			return nil
		}

		rel, rerr := filepath.Rel(root, path)
		if rerr != nil {
			rel = path
		}
		members, ferr := e.extractFile(ctx, path, rel)
		if ferr != nil {
			return ferr
		}
		s.Members = append(s.Members, members...)
		return nil
	})
	if err != nil {
		return nil, comperrors.New(
			comperrors.ExtractionFailed,
			fmt.Sprintf("source extraction failed under %s", root),
			err,
		)
	}
	return s, nil
}

func (e *sourceExtractor) extractFile(ctx context.Context, path, rel string) ([]surface.Member, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	tree, err := e.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", rel, err)
	}

	var members []surface.Member
	collectTypes(tree.RootNode(), source, rel, "", &members)
	return members, nil
}

var typeNodeKinds = map[string]bool{
	"class_declaration":     true,
	"interface_declaration": true,
	"struct_declaration":    true,
	"enum_declaration":      true,
	"record_declaration":    true,
}

// collectTypes walks namespaces and type declarations, accumulating
// observable members. prefix carries the enclosing namespace and outer
// types.
func collectTypes(node *sitter.Node, source []byte, rel, prefix string, out *[]surface.Member) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		kind := child.Type()

		switch {
		case kind == "namespace_declaration" || kind == "file_scoped_namespace_declaration":
			ns := fieldText(child, "name", source)
			collectTypes(child, source, rel, join(prefix, ns), out)

		case typeNodeKinds[kind]:
			name := fieldText(child, "name", source)
			if name == "" {
				continue
			}
			access := accessibilityOf(child, source, surface.AccessInternal)
			if !access.Observable() {
				continue
			}

			*out = append(*out, surface.Member{
				Name:          name,
				DeclaringType: prefix,
				Kind:          surface.KindType,
				Accessibility: access,
				Experimental:  hasExperimentalAttribute(child, source),
				FilePath:      rel,
				Line:          int(child.StartPoint().Row) + 1,
			})

			qualified := join(prefix, name)
			collectMembers(child, source, rel, qualified, out)
			// Nested observable types.
			if body := child.ChildByFieldName("body"); body != nil {
				collectTypes(body, source, rel, qualified, out)
			}
		default:
			collectTypes(child, source, rel, prefix, out)
		}
	}
}

// collectMembers reads the declared members of one type body.
func collectMembers(typeNode *sitter.Node, source []byte, rel, declaring string, out *[]surface.Member) {
	body := typeNode.ChildByFieldName("body")
	if body == nil {
		return
	}

	for i := 0; i < int(body.NamedChildCount()); i++ {
		decl := body.NamedChild(i)
		line := int(decl.StartPoint().Row) + 1
		experimental := hasExperimentalAttribute(decl, source)

		switch decl.Type() {
		case "method_declaration", "constructor_declaration":
			access := accessibilityOf(decl, source, surface.AccessPrivate)
			if !access.Observable() {
				continue
			}
			*out = append(*out, surface.Member{
				Name:          fieldText(decl, "name", source),
				DeclaringType: declaring,
				Kind:          surface.KindMethod,
				Accessibility: access,
				Parameters:    parametersOf(decl, source),
				ReturnType:    fieldText(decl, "type", source),
				Experimental:  experimental,
				FilePath:      rel,
				Line:          line,
			})

		case "property_declaration":
			access := accessibilityOf(decl, source, surface.AccessPrivate)
			if !access.Observable() {
				continue
			}
			*out = append(*out, surface.Member{
				Name:          fieldText(decl, "name", source),
				DeclaringType: declaring,
				Kind:          surface.KindProperty,
				Accessibility: access,
				ReturnType:    fieldText(decl, "type", source),
				Experimental:  experimental,
				FilePath:      rel,
				Line:          line,
			})

		case "field_declaration", "event_field_declaration":
			access := accessibilityOf(decl, source, surface.AccessPrivate)
			if !access.Observable() {
				continue
			}
			kind := surface.KindField
			if decl.Type() == "event_field_declaration" {
				kind = surface.KindEvent
			}
			isConst := hasModifier(decl, source, "const")

			varDecl := namedChildOfType(decl, "variable_declaration")
			if varDecl == nil {
				continue
			}
			fieldType := fieldText(varDecl, "type", source)
			for j := 0; j < int(varDecl.NamedChildCount()); j++ {
				declarator := varDecl.NamedChild(j)
				if declarator.Type() != "variable_declarator" {
					continue
				}
				m := surface.Member{
					Name:          fieldText(declarator, "name", source),
					DeclaringType: declaring,
					Kind:          kind,
					Accessibility: access,
					ReturnType:    fieldType,
					IsConst:       isConst,
					Experimental:  experimental,
					FilePath:      rel,
					Line:          line,
				}
				if isConst {
					m.ConstValue = declaratorValue(declarator, source)
				}
				*out = append(*out, m)
			}
		}
	}
}

// parametersOf reads a callable's parameter list, including default
// values.
func parametersOf(decl *sitter.Node, source []byte) []surface.Parameter {
	list := decl.ChildByFieldName("parameters")
	if list == nil {
		return nil
	}

	var params []surface.Parameter
	for i := 0; i < int(list.NamedChildCount()); i++ {
		p := list.NamedChild(i)
		if p.Type() != "parameter" {
			continue
		}
		param := surface.Parameter{
			Type: fieldText(p, "type", source),
			Name: fieldText(p, "name", source),
		}
		if eq := namedChildOfType(p, "equals_value_clause"); eq != nil {
			param.HasDefault = true
			if eq.NamedChildCount() > 0 {
				param.Default = eq.NamedChild(0).Content(source)
			}
		}
		params = append(params, param)
	}
	return params
}

// accessibilityOf reads the declared accessibility modifiers, falling
// back to the C# default for the declaration site.
func accessibilityOf(node *sitter.Node, source []byte, fallback surface.Accessibility) surface.Accessibility {
	hasProtected := hasModifier(node, source, "protected")
	switch {
	case hasModifier(node, source, "public"):
		return surface.AccessPublic
	case hasProtected && hasModifier(node, source, "internal"):
		return surface.AccessProtected
	case hasProtected:
		return surface.AccessProtected
	case hasModifier(node, source, "internal"):
		return surface.AccessInternal
	case hasModifier(node, source, "private"):
		return surface.AccessPrivate
	}
	return fallback
}

func hasModifier(node *sitter.Node, source []byte, modifier string) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "modifier" && child.Content(source) == modifier {
			return true
		}
	}
	return false
}

func hasExperimentalAttribute(node *sitter.Node, source []byte) bool {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "attribute_list" {
			continue
		}
		if strings.Contains(child.Content(source), "Experimental") {
			return true
		}
	}
	return false
}

func declaratorValue(declarator *sitter.Node, source []byte) string {
	if eq := namedChildOfType(declarator, "equals_value_clause"); eq != nil && eq.NamedChildCount() > 0 {
		return eq.NamedChild(0).Content(source)
	}
	return ""
}

func namedChildOfType(node *sitter.Node, kind string) *sitter.Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if child := node.NamedChild(i); child.Type() == kind {
			return child
		}
	}
	return nil
}

func fieldText(node *sitter.Node, field string, source []byte) string {
	if child := node.ChildByFieldName(field); child != nil {
		return child.Content(source)
	}
	return ""
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	if name == "" {
		return prefix
	}
	return prefix + "." + name
}
