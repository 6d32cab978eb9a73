// Package schemanode models the subset of a JSON Schema document that field
// path resolution reads: declared types, properties, pattern properties and
// combinator branches.
//
// A Node is one of three variants:
//
//   - *Leaf: no properties and no branches
//   - *Object: properties and/or patternProperties
//   - *Combinator: oneOf/anyOf/allOf branches, optionally with the node's own properties
//
// Nodes are built once by a loader and only read afterwards, so they are safe
// to share between goroutines. Graphs built from recursive $ref may be cyclic.
package schemanode

import (
	"sort"
	"strings"
)

// Type is a single JSON Schema primitive type.
type Type uint8

// Primitive types, usable as TypeSet bits.
const (
	TypeString Type = 1 << iota
	TypeNumber
	TypeInteger
	TypeBoolean
	TypeObject
	TypeArray
	TypeNull
)

var typeNames = []struct {
	t    Type
	name string
}{
	{TypeString, "string"},
	{TypeNumber, "number"},
	{TypeInteger, "integer"},
	{TypeBoolean, "boolean"},
	{TypeObject, "object"},
	{TypeArray, "array"},
	{TypeNull, "null"},
}

// TypeSet is the set of declared types of a node. The empty set means the
// schema did not declare a type.
type TypeSet uint8

// Unspecified is the empty TypeSet.
const Unspecified TypeSet = 0

// Types builds a TypeSet from type names. Unknown names are ignored.
func Types(names ...string) TypeSet {
	var ts TypeSet
	for _, n := range names {
		for _, tn := range typeNames {
			if tn.name == n {
				ts |= TypeSet(tn.t)
			}
		}
	}
	return ts
}

// Has reports whether t is declared.
func (ts TypeSet) Has(t Type) bool { return ts&TypeSet(t) != 0 }

// Declared reports whether any type is declared.
func (ts TypeSet) Declared() bool { return ts != Unspecified }

// AllowsString reports whether a value of the node may be a string: either no
// type is declared or "string" is among the declared types.
func (ts TypeSet) AllowsString() bool { return !ts.Declared() || ts.Has(TypeString) }

// AllowsObject is the object counterpart of AllowsString.
func (ts TypeSet) AllowsObject() bool { return !ts.Declared() || ts.Has(TypeObject) }

// Names returns the declared type names in canonical order.
func (ts TypeSet) Names() []string {
	var out []string
	for _, tn := range typeNames {
		if ts.Has(tn.t) {
			out = append(out, tn.name)
		}
	}
	return out
}

func (ts TypeSet) String() string {
	if !ts.Declared() {
		return "unspecified"
	}
	return strings.Join(ts.Names(), "|")
}

// Node is a schema node. The set of implementations is closed.
type Node interface {
	// Types returns the declared types of the node.
	Types() TypeSet
	node()
}

// Matcher matches property names against a patternProperties key.
// *regexp.Regexp satisfies it.
type Matcher interface {
	MatchString(s string) bool
	String() string
}

// PatternProperty is one patternProperties entry.
type PatternProperty struct {
	Pattern Matcher
	Node    Node
}

// Leaf is a node without properties or branches.
type Leaf struct {
	Declared TypeSet
}

// Object is a node declaring properties and/or patternProperties.
type Object struct {
	Declared   TypeSet
	Properties map[string]Node
	Patterns   []PatternProperty
}

// Combinator is a node with alternative branches. Own holds properties
// declared next to the combinator keyword, if any.
type Combinator struct {
	Declared TypeSet
	Branches []Node
	Own      *Object
}

func (n *Leaf) Types() TypeSet       { return n.Declared }
func (n *Object) Types() TypeSet     { return n.Declared }
func (n *Combinator) Types() TypeSet { return n.Declared }

func (*Leaf) node()       {}
func (*Object) node()     {}
func (*Combinator) node() {}

// Lookup finds the child for a property name: exact properties first, then
// the first pattern that matches.
func (n *Object) Lookup(name string) (Node, bool) {
	if child, ok := n.Properties[name]; ok {
		return child, true
	}
	for _, pp := range n.Patterns {
		if pp.Pattern != nil && pp.Pattern.MatchString(name) {
			return pp.Node, true
		}
	}
	return nil, false
}

// PropertyNames returns the declared property names of n, sorted. For a
// combinator the names of all branches and Own are merged. Pattern keys are
// not names and are never returned.
func PropertyNames(n Node) []string {
	seen := make(map[string]struct{})
	collectNames(n, seen, make(map[Node]bool))
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func collectNames(n Node, seen map[string]struct{}, visiting map[Node]bool) {
	if n == nil || visiting[n] {
		return
	}
	visiting[n] = true
	switch v := n.(type) {
	case *Object:
		for name := range v.Properties {
			seen[name] = struct{}{}
		}
	case *Combinator:
		for _, b := range v.Branches {
			collectNames(b, seen, visiting)
		}
		if v.Own != nil {
			collectNames(v.Own, seen, visiting)
		}
	}
}
