// Package resolve walks a field path against a schema node tree.
//
// Combinators are resolved greedily: the first branch that accepts a segment
// is committed to and never reconsidered, even when a deeper segment later
// fails against it. Schemas that use oneOf for real type discrimination can
// therefore yield false positives or negatives; this is accepted behavior and
// must not be replaced by backtracking without changing the diagnostics contract.
package resolve

import (
	"github.com/afossey/message-schema-plugin/pkg/pointer"
	"github.com/afossey/message-schema-plugin/pkg/schemanode"
)

// Outcome is the result of consuming one segment against one node.
type Outcome int

const (
	// Matched means the segment is a declared property of the node.
	Matched Outcome = iota
	// Rejected means the segment cannot be consumed by the node.
	Rejected
	// Undecided means a combinator branch accepted the segment without
	// proof that it is the only viable branch.
	Undecided
)

func (o Outcome) String() string {
	switch o {
	case Matched:
		return "matched"
	case Rejected:
		return "rejected"
	case Undecided:
		return "undecided"
	default:
		return "unknown"
	}
}

// Step consumes the first segment of p against node. A path without segments
// is already resolved and yields node itself.
func Step(p pointer.Path, node schemanode.Node) (Outcome, schemanode.Node) {
	if p.IsRoot() {
		return Matched, node
	}
	return step(p.First(), node, make(map[*schemanode.Combinator]bool))
}

func step(seg string, node schemanode.Node, visiting map[*schemanode.Combinator]bool) (Outcome, schemanode.Node) {
	switch n := node.(type) {
	case *schemanode.Combinator:
		// A combinator reachable from itself without consuming a segment
		// cannot accept anything new on the second visit.
		if visiting[n] {
			return Rejected, nil
		}
		visiting[n] = true
		defer delete(visiting, n)

		for _, branch := range n.Branches {
			if out, child := step(seg, branch, visiting); out != Rejected {
				return Undecided, child
			}
		}
		if n.Own != nil {
			if child, ok := n.Own.Lookup(seg); ok {
				return Undecided, child
			}
		}
		return Rejected, nil
	case *schemanode.Object:
		if child, ok := n.Lookup(seg); ok {
			return Matched, child
		}
		return Rejected, nil
	default:
		return Rejected, nil
	}
}

// Result describes where a walk stopped.
type Result struct {
	// Node is the terminal node when the walk consumed every segment, or the
	// node that rejected Segment otherwise.
	Node schemanode.Node
	// Rejected reports that a segment could not be consumed.
	Rejected bool
	// Segment is the rejected segment.
	Segment string
	// Index is the position of the rejected segment, or p.Len() on success.
	Index int
}

// Walk consumes p segment by segment starting at root.
func Walk(root schemanode.Node, p pointer.Path) Result {
	node := root
	total := p.Len()
	for i := 0; !p.IsRoot(); i++ {
		out, child := Step(p, node)
		if out == Rejected {
			return Result{Node: node, Rejected: true, Segment: p.First(), Index: i}
		}
		node = child
		p = p.Skip(1)
	}
	return Result{Node: node, Index: total}
}
