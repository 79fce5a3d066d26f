package parser

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/rbmap/rbmap/internal/ast"
)

// grammarKinds maps tree-sitter Ruby grammar names onto the closed ast kind
// set. Grammar names missing here convert to KindOther and contribute only
// their children.
var grammarKinds = map[string]ast.Kind{
	"program":          ast.KindProgram,
	"body_statement":   ast.KindStatements,
	"then":             ast.KindStatements,
	"do":               ast.KindStatements,
	"block_body":       ast.KindStatements,
	"class":            ast.KindClass,
	"module":           ast.KindModule,
	"singleton_class":  ast.KindSingletonClass,
	"method":           ast.KindDef,
	"singleton_method": ast.KindDef,
	"call":             ast.KindCall,
	"simple_symbol":    ast.KindSymbol,
	"delimited_symbol": ast.KindSymbol,
	"string":           ast.KindString,
	"if":               ast.KindIf,
	"elsif":            ast.KindIf,
	"unless":           ast.KindUnless,
	"while":            ast.KindWhile,
	"until":            ast.KindUntil,
	"for":              ast.KindFor,
	"case":             ast.KindCase,
	"case_match":       ast.KindCaseMatch,
	"when":             ast.KindWhen,
	"in_clause":        ast.KindIn,
	"begin":            ast.KindBegin,
	"rescue":           ast.KindRescue,
	"ensure":           ast.KindEnsure,
	"else":             ast.KindElse,
	"hash":             ast.KindHash,
	"block":            ast.KindBlock,
	"do_block":         ast.KindBlock,
}

// childMap pairs each converted child with the CST child it came from, so
// field lookups can be resolved against the converted nodes.
type childMap struct {
	cst []*tree_sitter.Node
	out []*ast.Node
}

// byField resolves a grammar field to the converted child covering the same
// byte span, or nil when the field is absent or was dropped in conversion.
func (cm childMap) byField(n *tree_sitter.Node, field string) *ast.Node {
	f := n.ChildByFieldName(field)
	if f == nil {
		return nil
	}
	for i, c := range cm.cst {
		if c.StartByte() == f.StartByte() && c.EndByte() == f.EndByte() {
			return cm.out[i]
		}
	}
	return nil
}

// firstOfKind returns the first converted child of the given kind.
func (cm childMap) firstOfKind(k ast.Kind) *ast.Node {
	for _, c := range cm.out {
		if c.Kind == k {
			return c
		}
	}
	return nil
}

// convert recursively maps a CST node to an ast node. Comments are dropped
// entirely so they never interact with the folding merge machinery.
func convert(n *tree_sitter.Node, src []byte) *ast.Node {
	grammar := n.Kind()
	if grammar == "comment" {
		return nil
	}

	out := &ast.Node{
		Kind: grammarKinds[grammar],
		Loc:  locOf(n),
	}

	cm := childMap{}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		cstChild := n.NamedChild(i)
		if cstChild == nil {
			continue
		}
		if converted := convert(cstChild, src); converted != nil {
			cm.cst = append(cm.cst, cstChild)
			cm.out = append(cm.out, converted)
		}
	}
	out.Children = cm.out

	switch grammar {
	case "chained_string":
		return buildStringConcat(out, cm.out)

	case "class", "module":
		if nameNode := n.ChildByFieldName("name"); nameNode != nil {
			out.Name = text(nameNode, src)
			out.NameLoc = locOf(nameNode)
		}
		out.Body = bodyOf(n, cm)

	case "singleton_class":
		out.Body = bodyOf(n, cm)

	case "method", "singleton_method":
		if nameNode := n.ChildByFieldName("name"); nameNode != nil {
			out.Name = text(nameNode, src)
			out.NameLoc = locOf(nameNode)
		}
		out.Receiver = cm.byField(n, "object")
		out.Params = cm.byField(n, "parameters")
		out.Body = bodyOf(n, cm)

	case "assignment":
		applyAssignment(out, n, src)

	case "call":
		if methodNode := n.ChildByFieldName("method"); methodNode != nil {
			out.Name = text(methodNode, src)
			out.NameLoc = locOf(methodNode)
		}
		out.Receiver = cm.byField(n, "receiver")
		out.Block = cm.byField(n, "block")
		if args := cm.byField(n, "arguments"); args != nil {
			out.Arguments = args.Children
		}

	case "simple_symbol":
		out.Name = strings.TrimPrefix(text(n, src), ":")

	case "delimited_symbol":
		raw := strings.TrimPrefix(text(n, src), ":")
		out.Name = strings.Trim(raw, `"`)

	case "if", "elsif":
		out.Body = consequenceOf(n, cm)

	case "unless":
		out.Body = consequenceOf(n, cm)

	case "while", "until", "for":
		out.Body = bodyOf(n, cm)

	case "when", "in_clause", "rescue":
		out.Body = bodyOf(n, cm)

	case "block", "do_block":
		out.Params = cm.byField(n, "parameters")
		out.Body = bodyOf(n, cm)

	case "self":
		out.Name = "self"
	}

	return out
}

// bodyOf resolves a node's statement body: the "body" field when present,
// otherwise the first statements child.
func bodyOf(n *tree_sitter.Node, cm childMap) *ast.Node {
	if body := cm.byField(n, "body"); body != nil {
		return body
	}
	return cm.firstOfKind(ast.KindStatements)
}

// consequenceOf resolves an if/unless branch body from the "consequence"
// field, falling back to the first statements child.
func consequenceOf(n *tree_sitter.Node, cm childMap) *ast.Node {
	if body := cm.byField(n, "consequence"); body != nil {
		return body
	}
	return cm.firstOfKind(ast.KindStatements)
}

// applyAssignment classifies an assignment by its left-hand side. Only
// constant, constant-path, instance-variable, and class-variable targets are
// structurally significant; everything else stays KindOther.
func applyAssignment(out *ast.Node, n *tree_sitter.Node, src []byte) {
	left := n.ChildByFieldName("left")
	if left == nil {
		return
	}
	switch left.Kind() {
	case "constant":
		out.Kind = ast.KindConstantWrite
	case "scope_resolution":
		out.Kind = ast.KindConstantPathWrite
	case "instance_variable":
		out.Kind = ast.KindInstanceVariableWrite
	case "class_variable":
		out.Kind = ast.KindClassVariableWrite
	default:
		return
	}
	out.Name = text(left, src)
	out.NameLoc = locOf(left)
}

// buildStringConcat folds the flat segment list of a chained string into a
// left-associative concatenation so the collector can unwrap it uniformly.
func buildStringConcat(flat *ast.Node, segments []*ast.Node) *ast.Node {
	if len(segments) < 2 {
		return flat
	}
	acc := segments[0]
	for _, seg := range segments[1:] {
		acc = &ast.Node{
			Kind: ast.KindStringConcat,
			Loc: ast.Location{
				StartLine:   acc.Loc.StartLine,
				StartColumn: acc.Loc.StartColumn,
				EndLine:     seg.Loc.EndLine,
				EndColumn:   seg.Loc.EndColumn,
			},
			Left:     acc,
			Right:    seg,
			Children: []*ast.Node{acc, seg},
		}
	}
	acc.Loc = flat.Loc
	return acc
}

func text(n *tree_sitter.Node, src []byte) string {
	start, end := n.StartByte(), n.EndByte()
	if int(end) > len(src) || start > end {
		return ""
	}
	return string(src[start:end])
}

// locOf converts tree-sitter's zero-based points to the one-based location
// convention the engines expect at their input boundary.
func locOf(n *tree_sitter.Node) ast.Location {
	start := n.StartPosition()
	end := n.EndPosition()
	return ast.Location{
		StartLine:   int(start.Row) + 1,
		StartColumn: int(start.Column) + 1,
		EndLine:     int(end.Row) + 1,
		EndColumn:   int(end.Column) + 1,
	}
}
