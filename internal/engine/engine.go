// Package engine composes the parser with the outline and folding engines
// and memoizes results by content hash. One Analyze call is one complete,
// synchronous traversal; builder and collector instances are constructed
// fresh per call and never shared.
package engine

import (
	"fmt"
	"os"

	"github.com/rbmap/rbmap/internal/cache"
	"github.com/rbmap/rbmap/internal/folding"
	"github.com/rbmap/rbmap/internal/outline"
	"github.com/rbmap/rbmap/internal/parser"
	"github.com/rbmap/rbmap/internal/types"
)

// Engine computes structure views for Ruby documents.
type Engine struct {
	parser *parser.Parser
	cache  *cache.ResultCache
}

// New creates an engine with a result cache of the given capacity.
func New(cacheCapacity int) (*Engine, error) {
	p, err := parser.New()
	if err != nil {
		return nil, err
	}
	return &Engine{
		parser: p,
		cache:  cache.New(cacheCapacity),
	}, nil
}

// Analyze parses content and returns both views, serving unchanged content
// from the cache.
func (e *Engine) Analyze(content []byte) (*types.StructureView, error) {
	key := cache.Key(content)
	if view, ok := e.cache.Get(key); ok {
		return view, nil
	}

	tree, err := e.parser.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	view := &types.StructureView{
		Symbols:       outline.Build(tree),
		FoldingRanges: folding.Collect(tree),
	}
	e.cache.Put(key, view)
	return view, nil
}

// AnalyzeFile reads and analyzes one file.
func (e *Engine) AnalyzeFile(path string) (*types.StructureView, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	view, err := e.Analyze(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return view, nil
}

// Invalidate drops the cached view for the given content, if present.
func (e *Engine) Invalidate(content []byte) {
	e.cache.Invalidate(cache.Key(content))
}

// CacheLen reports how many views are currently cached.
func (e *Engine) CacheLen() int {
	return e.cache.Len()
}
