// Package ast defines the closed set of Ruby syntax nodes the structure
// engines dispatch on, plus the depth-first traversal driver. The node set is
// deliberately small: constructs that never influence the outline or folding
// views are represented as KindOther and only contribute their children.
package ast

// Location is a one-based line/column span as reported by the parser.
// Output conversion to zero-based happens at the engine boundary, never here.
type Location struct {
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// IsValid reports whether the location carries usable position information.
// Nodes with invalid locations are skipped for symbol and range emission.
func (l Location) IsValid() bool {
	return l.StartLine >= 1 && l.EndLine >= l.StartLine
}

// IsMultiline reports whether the span covers more than one line.
func (l Location) IsMultiline() bool {
	return l.EndLine > l.StartLine
}

// Kind is the closed tagged-union discriminator for syntax nodes.
type Kind uint8

const (
	KindOther Kind = iota
	KindProgram
	KindStatements
	KindClass
	KindModule
	KindSingletonClass
	KindDef
	KindConstantWrite
	KindConstantPathWrite
	KindInstanceVariableWrite
	KindClassVariableWrite
	KindCall
	KindSymbol
	KindString
	KindStringConcat
	KindIf
	KindUnless
	KindWhile
	KindUntil
	KindFor
	KindCase
	KindCaseMatch
	KindWhen
	KindIn
	KindBegin
	KindRescue
	KindEnsure
	KindElse
	KindHash
	KindBlock
)

var kindStrings = map[Kind]string{
	KindOther:                 "other",
	KindProgram:               "program",
	KindStatements:            "statements",
	KindClass:                 "class",
	KindModule:                "module",
	KindSingletonClass:        "singleton_class",
	KindDef:                   "def",
	KindConstantWrite:         "constant_write",
	KindConstantPathWrite:     "constant_path_write",
	KindInstanceVariableWrite: "instance_variable_write",
	KindClassVariableWrite:    "class_variable_write",
	KindCall:                  "call",
	KindSymbol:                "symbol",
	KindString:                "string",
	KindStringConcat:          "string_concat",
	KindIf:                    "if",
	KindUnless:                "unless",
	KindWhile:                 "while",
	KindUntil:                 "until",
	KindFor:                   "for",
	KindCase:                  "case",
	KindCaseMatch:             "case_match",
	KindWhen:                  "when",
	KindIn:                    "in",
	KindBegin:                 "begin",
	KindRescue:                "rescue",
	KindEnsure:                "ensure",
	KindElse:                  "else",
	KindHash:                  "hash",
	KindBlock:                 "block",
}

// String returns the lowercase name of the node kind.
func (k Kind) String() string {
	if name, ok := kindStrings[k]; ok {
		return name
	}
	return "other"
}

// Node is one syntax tree node. Children holds every child in document
// order and is the sole traversal source; the named links (Receiver, Body,
// Params, ...) alias entries of Children so engines can reach structurally
// significant parts without re-scanning.
type Node struct {
	Kind Kind
	Loc  Location

	// Name carries the identifying text where one exists: the full constant
	// path of a class/module, a def or call method name, a symbol literal's
	// value (without the leading colon), or an assignment target.
	Name string
	// NameLoc spans only the name token. Zero value when Name is empty.
	NameLoc Location

	// Receiver is the call receiver or the singleton object of a
	// `def x.y` definition. Nil for receiver-less calls and plain defs.
	Receiver *Node
	// Arguments are the call arguments in document order.
	Arguments []*Node
	// Block is the brace or do/end block attached to a call.
	Block *Node
	// Params is the parameter list of a def.
	Params *Node
	// Body is the statements node of a container (class, module, def,
	// if-branch, when/in/rescue clause, ...). Nil when the body is empty.
	Body *Node
	// Left and Right are the segments of a string concatenation.
	Left  *Node
	Right *Node

	Children []*Node
}

// SelfReceiver reports whether the node's receiver is the literal `self`.
func (n *Node) SelfReceiver() bool {
	return n.Receiver != nil && n.Receiver.Name == "self"
}

// BodyStatements returns the statements of the node's body, or nil.
func (n *Node) BodyStatements() []*Node {
	if n.Body == nil {
		return nil
	}
	return n.Body.Children
}
