package types

// Range is a zero-based line/column span in a source document. Editor
// protocols expect zero-based positions, so all ranges leaving the engines
// use this type; one-based parser locations live in internal/ast.
type Range struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
	EndLine     int `json:"endLine"`
	EndColumn   int `json:"endColumn"`
}

// Contains reports whether other lies entirely within r.
func (r Range) Contains(other Range) bool {
	if other.StartLine < r.StartLine || other.EndLine > r.EndLine {
		return false
	}
	if other.StartLine == r.StartLine && other.StartColumn < r.StartColumn {
		return false
	}
	if other.EndLine == r.EndLine && other.EndColumn > r.EndColumn {
		return false
	}
	return true
}

// DocumentSymbol is one node of the hierarchical outline. Range spans the
// whole construct, SelectionRange only the name token; SelectionRange is
// always contained in Range. Children preserve document order.
type DocumentSymbol struct {
	Name           string            `json:"name"`
	Kind           SymbolKind        `json:"kind"`
	Range          Range             `json:"range"`
	SelectionRange Range             `json:"selectionRange"`
	Children       []*DocumentSymbol `json:"children"`
}

// FoldingRangeKind classifies a folding range for editor presentation.
type FoldingRangeKind string

const (
	FoldingRangeRegion  FoldingRangeKind = "region"
	FoldingRangeImports FoldingRangeKind = "imports"
)

// FoldingRange is one collapsible span of lines, zero-based and inclusive on
// both ends. StartLine < EndLine always holds; single-line spans are never
// produced.
type FoldingRange struct {
	StartLine int              `json:"startLine"`
	EndLine   int              `json:"endLine"`
	Kind      FoldingRangeKind `json:"kind"`
}
