// Package parser turns Ruby source into the internal/ast node set using the
// tree-sitter Ruby grammar. The tree-sitter CST is converted eagerly and
// closed before Parse returns; nothing downstream touches cgo-owned memory.
package parser

import (
	"errors"
	"fmt"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"

	"github.com/rbmap/rbmap/internal/ast"
)

// Parser parses Ruby source. It is safe for concurrent use: underlying
// tree-sitter parsers are pooled since language setup is expensive.
type Parser struct {
	language *tree_sitter.Language
	pool     sync.Pool
}

// New creates a Ruby parser, validating the grammar binding once up front.
func New() (*Parser, error) {
	language := tree_sitter.NewLanguage(tree_sitter_ruby.Language())
	probe := tree_sitter.NewParser()
	if err := probe.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("failed to load ruby grammar: %w", err)
	}

	p := &Parser{language: language}
	p.pool.New = func() any {
		tsp := tree_sitter.NewParser()
		if err := tsp.SetLanguage(p.language); err != nil {
			return nil
		}
		return tsp
	}
	p.pool.Put(probe)
	return p, nil
}

// Parse converts one complete Ruby document into an ast tree rooted at a
// KindProgram node with one-based locations.
func (p *Parser) Parse(content []byte) (*ast.Node, error) {
	pooled := p.pool.Get()
	if pooled == nil {
		return nil, errors.New("ruby parser unavailable")
	}
	tsp := pooled.(*tree_sitter.Parser)
	defer p.pool.Put(tsp)

	tree := tsp.Parse(content, nil)
	if tree == nil {
		return nil, errors.New("tree-sitter returned no tree")
	}
	defer tree.Close()

	root := convert(tree.RootNode(), content)
	if root == nil {
		root = &ast.Node{Kind: ast.KindProgram}
	}
	return root, nil
}
