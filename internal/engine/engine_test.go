package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbmap/rbmap/internal/types"
)

const sample = `require "json"
require "set"

class Parser
  def initialize
  end

  def parse
  end
end
`

func TestAnalyzeProducesBothViews(t *testing.T) {
	eng, err := New(8)
	require.NoError(t, err)

	view, err := eng.Analyze([]byte(sample))
	require.NoError(t, err)

	require.Len(t, view.Symbols, 1)
	parser := view.Symbols[0]
	assert.Equal(t, "Parser", parser.Name)
	assert.Equal(t, types.SymbolKindClass, parser.Kind)
	assert.Equal(t, 3, parser.Range.StartLine)
	assert.Equal(t, 9, parser.Range.EndLine)

	require.Len(t, parser.Children, 2)
	assert.Equal(t, "initialize", parser.Children[0].Name)
	assert.Equal(t, types.SymbolKindConstructor, parser.Children[0].Kind)
	assert.Equal(t, "parse", parser.Children[1].Name)
	assert.Equal(t, types.SymbolKindMethod, parser.Children[1].Kind)

	require.Len(t, view.FoldingRanges, 2)
	assert.Equal(t, types.FoldingRange{StartLine: 0, EndLine: 1, Kind: types.FoldingRangeImports}, view.FoldingRanges[0])
	assert.Equal(t, types.FoldingRange{StartLine: 3, EndLine: 8, Kind: types.FoldingRangeRegion}, view.FoldingRanges[1])
}

func TestAnalyzeServesUnchangedContentFromCache(t *testing.T) {
	eng, err := New(8)
	require.NoError(t, err)

	first, err := eng.Analyze([]byte(sample))
	require.NoError(t, err)
	second, err := eng.Analyze([]byte(sample))
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, eng.CacheLen())
}

func TestInvalidateForcesRecompute(t *testing.T) {
	eng, err := New(8)
	require.NoError(t, err)

	first, err := eng.Analyze([]byte(sample))
	require.NoError(t, err)

	eng.Invalidate([]byte(sample))
	assert.Equal(t, 0, eng.CacheLen())

	second, err := eng.Analyze([]byte(sample))
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, first.Symbols[0].Name, second.Symbols[0].Name)
}

func TestAnalyzeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "parser.rb")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	eng, err := New(8)
	require.NoError(t, err)

	view, err := eng.AnalyzeFile(path)
	require.NoError(t, err)
	require.Len(t, view.Symbols, 1)
	assert.Equal(t, "Parser", view.Symbols[0].Name)
}

func TestAnalyzeFileMissing(t *testing.T) {
	eng, err := New(8)
	require.NoError(t, err)

	_, err = eng.AnalyzeFile(filepath.Join(t.TempDir(), "absent.rb"))
	assert.Error(t, err)
}

func TestAnalyzeEmptyDocument(t *testing.T) {
	eng, err := New(8)
	require.NoError(t, err)

	view, err := eng.Analyze(nil)
	require.NoError(t, err)
	assert.Empty(t, view.Symbols)
	assert.Empty(t, view.FoldingRanges)
}
