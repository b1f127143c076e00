package parser

// Visitor is called for each node by Walk. If Visit returns a non-nil
// visitor w, Walk visits each child of node with w and then calls
// w.Visit(nil).
type Visitor interface {
	Visit(node *Node) (w Visitor)
}

// Walk traverses the tree rooted at node in depth-first order.
func Walk(v Visitor, node *Node) {
	if node == nil {
		return
	}
	if v = v.Visit(node); v == nil {
		return
	}
	for _, child := range node.Children {
		Walk(v, child)
	}
	v.Visit(nil)
}

type inspector func(*Node) bool

func (f inspector) Visit(node *Node) Visitor {
	if node != nil && f(node) {
		return f
	}
	return nil
}

// Inspect calls f for each node in depth-first order. Children of a node
// are skipped when f returns false.
func Inspect(node *Node, f func(*Node) bool) {
	Walk(inspector(f), node)
}

// Listener receives enter and exit events for every node. Either field may
// be nil.
type Listener struct {
	Enter func(*Node)
	Exit  func(*Node)
}

// WalkListener traverses the tree, calling Enter before a node's children
// and Exit after them.
func WalkListener(l Listener, node *Node) {
	if node == nil {
		return
	}
	if l.Enter != nil {
		l.Enter(node)
	}
	for _, child := range node.Children {
		WalkListener(l, child)
	}
	if l.Exit != nil {
		l.Exit(node)
	}
}

// Dispatch maps rule kinds to handlers.
type Dispatch map[NodeKind]func(*Node)

// Walk calls the handler for each node whose kind has one, in depth-first
// order.
func (d Dispatch) Walk(node *Node) {
	Inspect(node, func(n *Node) bool {
		if h := d[n.Kind]; h != nil {
			h(n)
		}
		return true
	})
}

// Find returns every node of kind under node, including node itself.
func Find(node *Node, kind NodeKind) []*Node {
	var result []*Node
	Inspect(node, func(n *Node) bool {
		if n.Kind == kind {
			result = append(result, n)
		}
		return true
	})
	return result
}

// CollectErrors returns the errors held by error nodes under node.
func CollectErrors(node *Node) []*SyntaxError {
	var result []*SyntaxError
	Inspect(node, func(n *Node) bool {
		if n.Error != nil {
			result = append(result, n.Error)
		}
		return true
	})
	return result
}

// NodeAt returns the innermost node whose span contains pos.
func NodeAt(root *Node, pos Position) *Node {
	var found *Node
	Inspect(root, func(n *Node) bool {
		if !n.Span.Contains(pos) {
			return false
		}
		found = n
		return true
	})
	return found
}
