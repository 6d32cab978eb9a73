// Package check composes the binding index, the schema loader and the path
// resolver behind the entry points used by editor integrations.
//
// Unresolved bindings and missing schemas are never errors here: the checker
// only adds information and stays silent when it has nothing to check against.
package check

import (
	"github.com/afossey/message-schema-plugin/internal/binding"
	"github.com/afossey/message-schema-plugin/pkg/pointer"
	"github.com/afossey/message-schema-plugin/pkg/resolve"
	"github.com/afossey/message-schema-plugin/pkg/schemanode"
)

// Bindings resolves a type name to its schema path.
type Bindings interface {
	Lookup(className string, scope binding.Scope) (string, bool)
}

// Schemas materializes a schema path as a node tree.
type Schemas interface {
	LoadRelative(rel string) (schemanode.Node, bool)
}

// Checker validates and completes field paths for bound types.
type Checker struct {
	bindings Bindings
	schemas  Schemas
}

// New creates a Checker.
func New(bindings Bindings, schemas Schemas) *Checker {
	return &Checker{bindings: bindings, schemas: schemas}
}

// Schema returns the schema tree bound to className and its path.
func (c *Checker) Schema(className string, scope binding.Scope) (schemanode.Node, string, bool) {
	schemaPath, ok := c.bindings.Lookup(className, scope)
	if !ok {
		return nil, "", false
	}
	root, ok := c.schemas.LoadRelative(schemaPath)
	if !ok {
		return nil, schemaPath, false
	}
	return root, schemaPath, true
}

// Validate checks literal against the schema bound to className. It returns
// nil when the path is fine or there is nothing to check against.
func (c *Checker) Validate(className, literal string, scope binding.Scope) *resolve.Diagnostic {
	root, _, ok := c.Schema(className, scope)
	if !ok {
		return nil
	}
	return resolve.Validate(root, pointer.Parse(literal))
}

// Suggest returns completion candidates for the last segment of literal.
// The result is empty, never nil, when nothing can be suggested.
func (c *Checker) Suggest(className, literal string, scope binding.Scope) []string {
	root, _, ok := c.Schema(className, scope)
	if !ok {
		return []string{}
	}
	return resolve.Suggest(root, pointer.Parse(literal))
}

// Description is where a literal leads inside the bound schema.
type Description struct {
	SchemaPath string
	Walk       resolve.Result
}

// Describe walks literal against the bound schema without judging the
// terminal type.
func (c *Checker) Describe(className, literal string, scope binding.Scope) (Description, bool) {
	root, schemaPath, ok := c.Schema(className, scope)
	if !ok {
		return Description{}, false
	}
	return Description{SchemaPath: schemaPath, Walk: resolve.Walk(root, pointer.Parse(literal))}, true
}
