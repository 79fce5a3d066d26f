package types

// StructureView bundles the two editor-facing views computed for one
// document. Both slices are immutable after construction.
type StructureView struct {
	Symbols       []*DocumentSymbol `json:"symbols"`
	FoldingRanges []FoldingRange    `json:"foldingRanges"`
}
