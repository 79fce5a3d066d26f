// Package outline builds the hierarchical document-symbol view from a parsed
// Ruby tree. The builder is an ast.Listener: container nodes (class, module,
// def) open a nested scope on a stack, leaf declarations attach to whichever
// container is currently open.
package outline

import (
	"github.com/rbmap/rbmap/internal/ast"
	"github.com/rbmap/rbmap/internal/types"
)

// accessorMethods is the fixed set of receiver-less calls whose literal
// symbol arguments declare fields.
var accessorMethods = map[string]struct{}{
	"attr_reader":   {},
	"attr_writer":   {},
	"attr_accessor": {},
}

// Builder accumulates document symbols during one traversal. It carries no
// state across invocations; construct a fresh Builder per document.
type Builder struct {
	root  *types.DocumentSymbol
	stack []*types.DocumentSymbol
}

// NewBuilder returns a builder whose stack holds only the virtual root.
func NewBuilder() *Builder {
	root := &types.DocumentSymbol{Children: []*types.DocumentSymbol{}}
	return &Builder{
		root:  root,
		stack: []*types.DocumentSymbol{root},
	}
}

// Symbols returns the top-level symbols discovered so far. The virtual root
// itself is never emitted.
func (b *Builder) Symbols() []*types.DocumentSymbol {
	return b.root.Children
}

// Build runs a full traversal and returns the outline.
func Build(tree *ast.Node) []*types.DocumentSymbol {
	b := NewBuilder()
	ast.Walk(tree, b)
	return b.Symbols()
}

// Enter implements ast.Listener.
func (b *Builder) Enter(n *ast.Node) {
	switch n.Kind {
	case ast.KindClass:
		b.push(n.Name, types.SymbolKindClass, n.Loc, n.NameLoc)
	case ast.KindModule:
		b.push(n.Name, types.SymbolKindModule, n.Loc, n.NameLoc)
	case ast.KindDef:
		b.enterDef(n)
	case ast.KindConstantWrite, ast.KindConstantPathWrite:
		b.leaf(n.Name, types.SymbolKindConstant, n.Loc, n.NameLoc)
	case ast.KindInstanceVariableWrite:
		b.leaf(n.Name, types.SymbolKindField, n.Loc, n.NameLoc)
	case ast.KindClassVariableWrite:
		b.leaf(n.Name, types.SymbolKindVariable, n.Loc, n.NameLoc)
	case ast.KindCall:
		b.enterCall(n)
	}
}

// Leave implements ast.Listener.
func (b *Builder) Leave(n *ast.Node) {
	switch n.Kind {
	case ast.KindClass, ast.KindModule, ast.KindDef:
		b.pop()
	}
}

func (b *Builder) enterDef(n *ast.Node) {
	name := n.Name
	if n.SelfReceiver() {
		name = "self." + name
	}
	kind := types.SymbolKindMethod
	if n.Name == "initialize" {
		kind = types.SymbolKindConstructor
	}
	b.push(name, kind, n.Loc, n.NameLoc)
}

// enterCall expands accessor declarations: each literal symbol argument of a
// receiver-less attr_reader/attr_writer/attr_accessor call becomes one field
// symbol whose range and selection range are the argument's own span.
func (b *Builder) enterCall(n *ast.Node) {
	if n.Receiver != nil {
		return
	}
	if _, ok := accessorMethods[n.Name]; !ok {
		return
	}
	for _, arg := range n.Arguments {
		if arg.Kind != ast.KindSymbol || arg.Name == "" {
			continue
		}
		b.leaf(arg.Name, types.SymbolKindField, arg.Loc, arg.Loc)
	}
}

// push appends a container symbol to the open container and makes it the new
// stack top. Defs pushed here are popped on the matching Leave event even
// when the symbol itself was skipped for a bad location, so a placeholder is
// still pushed in that case to keep enter/exit events balanced.
func (b *Builder) push(name string, kind types.SymbolKind, loc, nameLoc ast.Location) {
	sym := b.leaf(name, kind, loc, nameLoc)
	if sym == nil {
		sym = &types.DocumentSymbol{Children: []*types.DocumentSymbol{}}
	}
	b.stack = append(b.stack, sym)
}

// pop closes the current container. Underflow past the virtual root is a
// no-op: unreachable on a well-formed tree, but never a crash.
func (b *Builder) pop() {
	if len(b.stack) <= 1 {
		return
	}
	b.stack = b.stack[:len(b.stack)-1]
}

// leaf creates a symbol under the current stack top and returns it, or nil
// when the node's location is unusable.
func (b *Builder) leaf(name string, kind types.SymbolKind, loc, nameLoc ast.Location) *types.DocumentSymbol {
	if name == "" || !loc.IsValid() || !nameLoc.IsValid() {
		return nil
	}
	sym := &types.DocumentSymbol{
		Name:           name,
		Kind:           kind,
		Range:          rangeFrom(loc),
		SelectionRange: rangeFrom(nameLoc),
		Children:       []*types.DocumentSymbol{},
	}
	top := b.stack[len(b.stack)-1]
	top.Children = append(top.Children, sym)
	return sym
}

// rangeFrom converts a one-based parser location to the zero-based output
// convention.
func rangeFrom(loc ast.Location) types.Range {
	return types.Range{
		StartLine:   loc.StartLine - 1,
		StartColumn: loc.StartColumn - 1,
		EndLine:     loc.EndLine - 1,
		EndColumn:   loc.EndColumn - 1,
	}
}

// Depth reports how many containers are currently open, excluding the
// virtual root. Zero after any balanced traversal.
func (b *Builder) Depth() int {
	return len(b.stack) - 1
}
