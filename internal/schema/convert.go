package schema

import (
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/afossey/message-schema-plugin/pkg/schemanode"
)

// Convert maps a compiled schema to a schemanode tree. Shared and recursive
// subschemas map to shared nodes, so the result mirrors the $ref graph.
//
// Branches are taken from $ref (when it has sibling keywords), oneOf, anyOf
// and allOf, in that order. A schema that is nothing but a $ref becomes its
// target.
func Convert(s *jsonschema.Schema) schemanode.Node {
	c := converter{memo: make(map[*jsonschema.Schema]schemanode.Node)}
	return c.convert(s)
}

type converter struct {
	memo map[*jsonschema.Schema]schemanode.Node
}

// isAlias reports whether s is nothing but a $ref.
func isAlias(s *jsonschema.Schema) bool {
	return s.Ref != nil &&
		len(s.OneOf) == 0 && len(s.AnyOf) == 0 && len(s.AllOf) == 0 &&
		len(s.Properties) == 0 && len(s.PatternProperties) == 0 &&
		!typeSet(s).Declared()
}

// aliasTarget follows a chain of pure $ref schemas to the first real one.
// It returns nil when the chain loops.
func aliasTarget(s *jsonschema.Schema) *jsonschema.Schema {
	seen := make(map[*jsonschema.Schema]bool)
	for isAlias(s) {
		if seen[s] {
			return nil
		}
		seen[s] = true
		s = s.Ref
	}
	return s
}

func (c *converter) convert(s *jsonschema.Schema) schemanode.Node {
	if s == nil {
		return &schemanode.Leaf{}
	}
	if n, ok := c.memo[s]; ok {
		return n
	}

	types := typeSet(s)
	hasProps := len(s.Properties) > 0 || len(s.PatternProperties) > 0
	var branches []*jsonschema.Schema
	if s.Ref != nil {
		branches = append(branches, s.Ref)
	}
	branches = append(branches, s.OneOf...)
	branches = append(branches, s.AnyOf...)
	branches = append(branches, s.AllOf...)

	if isAlias(s) {
		target := aliasTarget(s)
		if target == nil {
			// $ref chain that loops without reaching a real schema
			leaf := &schemanode.Leaf{}
			c.memo[s] = leaf
			return leaf
		}
		// Back-references to s resolve to the target's memoized node.
		n := c.convert(target)
		c.memo[s] = n
		return n
	}

	switch {
	case len(branches) > 0:
		comb := &schemanode.Combinator{Declared: types}
		c.memo[s] = comb
		if hasProps {
			comb.Own = &schemanode.Object{Declared: types, Properties: make(map[string]schemanode.Node)}
			c.fillObject(comb.Own, s)
		}
		for _, b := range branches {
			comb.Branches = append(comb.Branches, c.convert(b))
		}
		return comb
	case hasProps:
		obj := &schemanode.Object{Declared: types, Properties: make(map[string]schemanode.Node, len(s.Properties))}
		c.memo[s] = obj
		c.fillObject(obj, s)
		return obj
	default:
		leaf := &schemanode.Leaf{Declared: types}
		c.memo[s] = leaf
		return leaf
	}
}

func (c *converter) fillObject(obj *schemanode.Object, s *jsonschema.Schema) {
	for name, sub := range s.Properties {
		obj.Properties[name] = c.convert(sub)
	}
	patterns := make([]jsonschema.Regexp, 0, len(s.PatternProperties))
	for re := range s.PatternProperties {
		patterns = append(patterns, re)
	}
	sort.Slice(patterns, func(i, j int) bool { return patterns[i].String() < patterns[j].String() })
	for _, re := range patterns {
		obj.Patterns = append(obj.Patterns, schemanode.PatternProperty{
			Pattern: re,
			Node:    c.convert(s.PatternProperties[re]),
		})
	}
}

func typeSet(s *jsonschema.Schema) schemanode.TypeSet {
	if s.Types == nil {
		return schemanode.Unspecified
	}
	return schemanode.Types(s.Types.ToStrings()...)
}
