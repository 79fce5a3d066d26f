// Package folding computes the collapsible line ranges of a parsed Ruby
// tree. The collector runs its own recursive descent (independent of the
// outline builder) and applies one of several anchoring rules per node kind.
// Runs of single-line import calls are coalesced by a small merge state
// machine before ordinary dispatch.
package folding

import (
	"github.com/rbmap/rbmap/internal/ast"
	"github.com/rbmap/rbmap/internal/types"
)

// Collector accumulates folding ranges during one traversal. Construct a
// fresh Collector per document; it carries no state across invocations.
type Collector struct {
	ranges  []types.FoldingRange
	partial *partialRange
}

// NewCollector returns an empty collector in the Idle merge state.
func NewCollector() *Collector {
	return &Collector{ranges: []types.FoldingRange{}}
}

// Collect runs a full descent over the tree and returns the folding ranges.
func Collect(tree *ast.Node) []types.FoldingRange {
	c := NewCollector()
	c.visit(tree)
	c.flushPartial()
	return c.ranges
}

// Ranges returns the ranges emitted so far.
func (c *Collector) Ranges() []types.FoldingRange {
	return c.ranges
}

// Finish flushes any pending merge accumulation. Call once after the last
// visit when driving the collector manually.
func (c *Collector) Finish() {
	c.flushPartial()
}

func (c *Collector) visit(n *ast.Node) {
	if n == nil {
		return
	}
	// The merge state machine sees every node first; classified nodes are
	// consumed here and never reach ordinary dispatch.
	if c.stepPartial(n) {
		return
	}

	switch n.Kind {
	case ast.KindCase, ast.KindCaseMatch, ast.KindClass, ast.KindFor,
		ast.KindHash, ast.KindModule, ast.KindSingletonClass,
		ast.KindUnless, ast.KindUntil, ast.KindWhile,
		ast.KindElse, ast.KindBegin:
		// Whole-node rule: hide the body, keep the closing keyword's line.
		if n.Loc.IsValid() {
			c.emit(n.Loc.StartLine, n.Loc.EndLine-1, types.FoldingRangeRegion)
		}
		c.visitAll(n.Children)

	case ast.KindIf, ast.KindIn, ast.KindRescue, ast.KindWhen:
		c.foldStatements(n)
		c.visitAll(n.Children)

	case ast.KindDef:
		c.foldDef(n)

	case ast.KindCall:
		c.foldCall(n)

	case ast.KindStringConcat:
		c.foldStringConcat(n)

	default:
		// Not a fold anchor itself; nested foldables may still exist.
		c.visitAll(n.Children)
	}
}

func (c *Collector) visitAll(nodes []*ast.Node) {
	for _, n := range nodes {
		c.visit(n)
	}
}

// foldStatements anchors the range on the node's embedded statement
// sequence: from the node's own line to the last statement's end. An empty
// sequence produces nothing.
func (c *Collector) foldStatements(n *ast.Node) {
	stmts := n.BodyStatements()
	if len(stmts) == 0 || !n.Loc.IsValid() {
		return
	}
	last := stmts[len(stmts)-1]
	if !last.Loc.IsValid() {
		return
	}
	c.emit(n.Loc.StartLine, last.Loc.EndLine, types.FoldingRangeRegion)
}

// foldDef starts the range after a multiline parameter list so the full
// signature stays visible when folded, then descends into the body only.
func (c *Collector) foldDef(n *ast.Node) {
	if n.Loc.IsValid() {
		start := n.Loc.StartLine
		if n.Params != nil && n.Params.Loc.IsValid() && n.Params.Loc.IsMultiline() {
			start = n.Params.Loc.EndLine
		}
		c.emit(start, n.Loc.EndLine-1, types.FoldingRangeRegion)
	}
	c.visitAll(n.BodyStatements())
}

// foldCall emits one range per call chain rather than one per link. The
// receiver chain is unwrapped link by link (visiting each link's arguments
// and block for nested foldables); the merged range spans from the deepest
// receiver's start line to the outer call's end.
func (c *Collector) foldCall(n *ast.Node) {
	if n.Receiver == nil {
		if n.Loc.IsValid() {
			c.emit(n.Loc.StartLine, n.Loc.EndLine-1, types.FoldingRangeRegion)
		}
		c.visitCallParts(n)
		return
	}

	target := n
	receiver := n.Receiver
	for receiver != nil && receiver.Kind == ast.KindCall {
		c.visitCallParts(receiver)
		target = receiver
		receiver = receiver.Receiver
	}

	start := target.Loc
	if receiver != nil && receiver.Loc.IsValid() {
		start = receiver.Loc
	}
	if start.IsValid() && n.Loc.IsValid() {
		c.emit(start.StartLine, n.Loc.EndLine-1, types.FoldingRangeRegion)
	}
	c.visitCallParts(n)
}

func (c *Collector) visitCallParts(call *ast.Node) {
	c.visitAll(call.Arguments)
	c.visit(call.Block)
}

// foldStringConcat unwraps nested concatenation on the left to the first
// literal segment and emits a single range covering all segments.
func (c *Collector) foldStringConcat(n *ast.Node) {
	left := n.Left
	for left != nil && left.Kind == ast.KindStringConcat {
		left = left.Left
	}
	if left == nil || !left.Loc.IsValid() || !n.Loc.IsValid() {
		return
	}
	c.emit(left.Loc.StartLine, n.Loc.EndLine-1, types.FoldingRangeRegion)
}

// emit records a range given one-based inclusive lines, converting to the
// zero-based output convention. Spans that would not hide at least one line
// are dropped.
func (c *Collector) emit(startLine, endLine int, kind types.FoldingRangeKind) {
	if startLine >= endLine {
		return
	}
	c.ranges = append(c.ranges, types.FoldingRange{
		StartLine: startLine - 1,
		EndLine:   endLine - 1,
		Kind:      kind,
	})
}
