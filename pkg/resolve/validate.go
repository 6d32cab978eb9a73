package resolve

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/afossey/message-schema-plugin/pkg/pointer"
	"github.com/afossey/message-schema-plugin/pkg/schemanode"
)

// DiagnosticKind classifies a Diagnostic.
type DiagnosticKind string

const (
	// UnknownProperty means a segment has no matching property in the schema.
	UnknownProperty DiagnosticKind = "unknown_property"
	// NotString means the path resolves but the node is not string-typed.
	NotString DiagnosticKind = "not_string"
)

// Diagnostic is a problem found in a field path.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Segment string         `json:"segment,omitempty"`
	Message string         `json:"message"`
}

func (d *Diagnostic) Error() string { return d.Message }

var printer = message.NewPrinter(language.English)

// Validate reports whether p designates a string-typed location under root.
// A nil root yields no diagnostic.
func Validate(root schemanode.Node, p pointer.Path) *Diagnostic {
	if root == nil {
		return nil
	}
	res := Walk(root, p)
	if res.Rejected {
		return &Diagnostic{
			Kind:    UnknownProperty,
			Segment: res.Segment,
			Message: printer.Sprintf("unknown property %s", res.Segment),
		}
	}
	if res.Node != nil && !res.Node.Types().AllowsString() {
		return &Diagnostic{
			Kind:    NotString,
			Message: printer.Sprintf("property is not a string"),
		}
	}
	return nil
}

// Suggest returns completion candidates for the last segment of p: the
// property names of the node reached by every segment but the last. The
// result is empty when that prefix is rejected or reaches a scalar node.
// A root path is completed like a single empty segment.
func Suggest(root schemanode.Node, p pointer.Path) []string {
	if root == nil {
		return []string{}
	}
	res := Walk(root, p.Parent())
	if res.Rejected || res.Node == nil || !res.Node.Types().AllowsObject() {
		return []string{}
	}
	return schemanode.PropertyNames(res.Node)
}
