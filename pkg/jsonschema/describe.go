// Package jsonschema renders schema trees back into JSON Schema documents
// (Draft 2020-12) for display.
package jsonschema

import (
	"sort"

	"github.com/invopop/jsonschema"

	"github.com/afossey/message-schema-plugin/pkg/schemanode"
)

// DefaultDepth is the number of nesting levels Describe expands.
const DefaultDepth = 3

// Describe renders n as a JSON Schema. Properties are expanded depth levels
// deep; deeper objects keep their type but list no properties, which also
// bounds recursive schemas. Combinator branches render as anyOf, since the
// resolver treats oneOf, anyOf and allOf alike.
func Describe(n schemanode.Node, depth int) *jsonschema.Schema {
	if n == nil {
		return nil
	}
	if depth < 0 {
		depth = 0
	}

	s := &jsonschema.Schema{}
	setTypes(s, n.Types())

	switch n := n.(type) {
	case *schemanode.Object:
		describeObject(s, n, depth)
	case *schemanode.Combinator:
		if depth > 0 {
			for _, b := range n.Branches {
				s.AnyOf = append(s.AnyOf, Describe(b, depth-1))
			}
		}
		if n.Own != nil {
			describeObject(s, n.Own, depth)
		}
	}
	return s
}

func describeObject(s *jsonschema.Schema, n *schemanode.Object, depth int) {
	if depth == 0 {
		return
	}
	if len(n.Properties) > 0 {
		names := make([]string, 0, len(n.Properties))
		for name := range n.Properties {
			names = append(names, name)
		}
		sort.Strings(names)
		s.Properties = jsonschema.NewProperties()
		for _, name := range names {
			s.Properties.Set(name, Describe(n.Properties[name], depth-1))
		}
	}
	for _, p := range n.Patterns {
		if s.PatternProperties == nil {
			s.PatternProperties = make(map[string]*jsonschema.Schema)
		}
		key := p.Pattern.String()
		if _, dup := s.PatternProperties[key]; !dup {
			s.PatternProperties[key] = Describe(p.Node, depth-1)
		}
	}
}

// setTypes writes a single declared type to "type" and several as a type
// array.
func setTypes(s *jsonschema.Schema, ts schemanode.TypeSet) {
	names := ts.Names()
	switch len(names) {
	case 0:
	case 1:
		s.Type = names[0]
	default:
		s.Extras = map[string]any{"type": names}
	}
}
