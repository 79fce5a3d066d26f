package folding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbmap/rbmap/internal/ast"
	"github.com/rbmap/rbmap/internal/types"
)

func requireCall(line int, name string) *ast.Node {
	return &ast.Node{Kind: ast.KindCall, Loc: lines(line, line), Name: name}
}

func imports(startLine, endLine int) types.FoldingRange {
	return types.FoldingRange{StartLine: startLine, EndLine: endLine, Kind: types.FoldingRangeImports}
}

func TestConsecutiveRequiresMergeIntoOneRange(t *testing.T) {
	tree := program(
		requireCall(1, "require"),
		requireCall(2, "require"),
		requireCall(3, "require"),
	)
	require.Equal(t, []types.FoldingRange{imports(0, 2)}, Collect(tree))
}

func TestSingleRequireDropped(t *testing.T) {
	assert.Empty(t, Collect(program(requireCall(1, "require"))))
}

func TestMixedImportCallsStayOneRun(t *testing.T) {
	tree := program(
		requireCall(1, "require"),
		requireCall(2, "require_relative"),
		requireCall(3, "autoload"),
	)
	require.Equal(t, []types.FoldingRange{imports(0, 2)}, Collect(tree))
}

func TestUnrelatedStatementBreaksRun(t *testing.T) {
	tree := program(
		requireCall(1, "require"),
		requireCall(2, "require"),
		&ast.Node{Kind: ast.KindOther, Loc: lines(3, 3)},
		requireCall(4, "require"),
	)
	// The second run is a single line and is dropped on flush.
	require.Equal(t, []types.FoldingRange{imports(0, 1)}, Collect(tree))
}

func TestBlankLinesDoNotBreakRun(t *testing.T) {
	tree := program(
		requireCall(1, "require"),
		requireCall(4, "require"),
	)
	require.Equal(t, []types.FoldingRange{imports(0, 3)}, Collect(tree))
}

func TestRequireWithReceiverIsNotAnImport(t *testing.T) {
	call := &ast.Node{
		Kind:     ast.KindCall,
		Loc:      lines(1, 1),
		Name:     "require",
		Receiver: &ast.Node{Kind: ast.KindOther, Loc: loc(1, 1, 1, 7), Name: "Kernel"},
	}
	tree := program(requireCall(2, "require"), call, requireCall(3, "require"))
	assert.Empty(t, Collect(tree))
}

func TestRunFlushedAtEndOfDocument(t *testing.T) {
	c := NewCollector()
	c.visit(requireCall(1, "require"))
	c.visit(requireCall(2, "require"))
	assert.Empty(t, c.Ranges())

	c.Finish()
	require.Equal(t, []types.FoldingRange{imports(0, 1)}, c.Ranges())
}

func TestInvalidLocationConsumedWithoutBreakingRun(t *testing.T) {
	broken := &ast.Node{Kind: ast.KindCall, Name: "require"}
	tree := program(
		requireCall(1, "require"),
		broken,
		requireCall(2, "require"),
	)
	require.Equal(t, []types.FoldingRange{imports(0, 1)}, Collect(tree))
}

func TestImportCallNeverEmitsRegionRange(t *testing.T) {
	multiline := &ast.Node{Kind: ast.KindCall, Loc: lines(1, 3), Name: "autoload"}
	ranges := Collect(program(multiline))
	require.Equal(t, []types.FoldingRange{imports(0, 2)}, ranges)
}

func TestFoldableNodeFlushesRunBeforeItsOwnRange(t *testing.T) {
	tree := program(
		requireCall(1, "require"),
		requireCall(2, "require"),
		&ast.Node{Kind: ast.KindClass, Loc: lines(4, 8), Name: "Foo"},
	)
	require.Equal(t, []types.FoldingRange{imports(0, 1), region(3, 6)}, Collect(tree))
}

func TestClassifyMerge(t *testing.T) {
	kind, ok := classifyMerge(requireCall(1, "require_relative"))
	assert.True(t, ok)
	assert.Equal(t, types.FoldingRangeImports, kind)

	_, ok = classifyMerge(requireCall(1, "puts"))
	assert.False(t, ok)

	_, ok = classifyMerge(&ast.Node{Kind: ast.KindHash, Loc: lines(1, 1)})
	assert.False(t, ok)
}
