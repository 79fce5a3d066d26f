package folding

import (
	"github.com/rbmap/rbmap/internal/ast"
	"github.com/rbmap/rbmap/internal/types"
)

// importCalls is the fixed set of receiver-less call names whose consecutive
// occurrences merge into one "imports" range.
var importCalls = map[string]struct{}{
	"require":          {},
	"require_relative": {},
	"autoload":         {},
}

// partialRange accumulates a run of same-kind single-line constructs. It
// exists only between merge-class node visits; any other node flushes it.
type partialRange struct {
	kind      types.FoldingRangeKind
	startLine int
	endLine   int
}

// classifyMerge reports whether the node belongs to a merge-kind category
// and, if so, which folding kind tags the accumulated range.
func classifyMerge(n *ast.Node) (types.FoldingRangeKind, bool) {
	if n.Kind == ast.KindCall && n.Receiver == nil {
		if _, ok := importCalls[n.Name]; ok {
			return types.FoldingRangeImports, true
		}
	}
	return "", false
}

// stepPartial advances the merge state machine for the visited node. It
// returns true when the node was classified and consumed; unclassified nodes
// flush any accumulation and proceed through ordinary dispatch.
//
// Runs never break except on a kind change: consecutive merge-class nodes
// are treated as contiguous regardless of intervening blank lines, and
// comments never reach dispatch in the first place.
func (c *Collector) stepPartial(n *ast.Node) bool {
	kind, ok := classifyMerge(n)
	if !ok {
		c.flushPartial()
		return false
	}
	if !n.Loc.IsValid() {
		return true
	}
	if c.partial != nil && c.partial.kind == kind {
		if n.Loc.EndLine > c.partial.endLine {
			c.partial.endLine = n.Loc.EndLine
		}
		return true
	}
	c.flushPartial()
	c.partial = &partialRange{
		kind:      kind,
		startLine: n.Loc.StartLine,
		endLine:   n.Loc.EndLine,
	}
	return true
}

// flushPartial emits the accumulated range if it spans multiple lines, then
// resets the machine to Idle.
func (c *Collector) flushPartial() {
	if c.partial == nil {
		return
	}
	c.emit(c.partial.startLine, c.partial.endLine, c.partial.kind)
	c.partial = nil
}
