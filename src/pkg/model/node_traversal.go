package model

// Walk visits n and its descendants depth-first, parents before children, in child order.
// depth is 0 for n. Returning false from fn stops the walk; Walk then returns false.
func (n *Node) Walk(fn func(node *Node, depth int) bool) bool {
	return n.walk(fn, 0)
}

func (n *Node) walk(fn func(node *Node, depth int) bool, depth int) bool {
	if !fn(n, depth) {
		return false
	}
	for _, child := range n.children.Get() {
		if !child.walk(fn, depth+1) {
			return false
		}
	}
	return true
}

// Find returns the node with the given id in the subtree rooted at n, or nil.
func (n *Node) Find(id uint64) *Node {
	var found *Node
	n.Walk(func(node *Node, _ int) bool {
		if node.id == id {
			found = node
			return false
		}
		return true
	})
	return found
}

// FindParent returns the node whose direct children include id, or nil.
// The root of the subtree has no parent within it.
func (n *Node) FindParent(id uint64) *Node {
	var parent *Node
	n.Walk(func(node *Node, _ int) bool {
		for _, child := range node.children.Get() {
			if child.id == id {
				parent = node
				return false
			}
		}
		return true
	})
	return parent
}

// Count returns the number of nodes in the subtree, n included.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node, int) bool {
		count++
		return true
	})
	return count
}

// Depth returns the number of levels in the subtree. A leaf has depth 1.
func (n *Node) Depth() int {
	deepest := 0
	n.Walk(func(_ *Node, depth int) bool {
		if depth > deepest {
			deepest = depth
		}
		return true
	})
	return deepest + 1
}

// MaxID returns the largest id in the subtree.
func (n *Node) MaxID() uint64 {
	var max uint64
	n.Walk(func(node *Node, _ int) bool {
		if node.id > max {
			max = node.id
		}
		return true
	})
	return max
}
