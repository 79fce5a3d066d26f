package ast

// Listener receives enter/exit events from Walk. Enter fires before a node's
// children are visited, Leave after. Implementations dispatch on node kind.
type Listener interface {
	Enter(n *Node)
	Leave(n *Node)
}

// Walk performs a deterministic depth-first, document-order traversal of the
// tree rooted at n, invoking every listener's Enter before descending and
// Leave after. Listeners observe the exact same event sequence; they share
// no state and must not mutate the tree.
func Walk(n *Node, listeners ...Listener) {
	if n == nil {
		return
	}
	for _, l := range listeners {
		l.Enter(n)
	}
	for _, child := range n.Children {
		Walk(child, listeners...)
	}
	for _, l := range listeners {
		l.Leave(n)
	}
}

// Inspect walks the tree calling fn on every node in document order,
// descending only while fn returns true.
func Inspect(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range n.Children {
		Inspect(child, fn)
	}
}
