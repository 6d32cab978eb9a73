package schemanode

import "regexp"

// Convenience constructors, mostly used by tests and fixtures.

// NewLeaf returns a leaf declaring the given types.
func NewLeaf(types ...string) *Leaf {
	return &Leaf{Declared: Types(types...)}
}

// String returns a string-typed leaf.
func String() *Leaf { return NewLeaf("string") }

// NewObject returns an object node with the given properties.
func NewObject(props map[string]Node, types ...string) *Object {
	if props == nil {
		props = make(map[string]Node)
	}
	return &Object{Declared: Types(types...), Properties: props}
}

// WithPattern appends a patternProperties entry compiled with regexp.
func (n *Object) WithPattern(expr string, child Node) *Object {
	n.Patterns = append(n.Patterns, PatternProperty{Pattern: regexp.MustCompile(expr), Node: child})
	return n
}

// OneOf returns a combinator over branches.
func OneOf(branches ...Node) *Combinator {
	return &Combinator{Branches: branches}
}
