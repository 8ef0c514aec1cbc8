// Package model defines the data structures used throughout the Outliner application.
package model

import (
	"math"
	"sync/atomic"

	"outliner/local-app/src/pkg/reactive"
)

// nextID holds the last id handed out; zero means none yet
var nextID atomic.Uint64

// NextID allocates a fresh node id. The first id after ResetIDs is 1.
// It panics once every id has been handed out rather than reuse one.
func NextID() uint64 {
	id := nextID.Add(1)
	if id == 0 {
		nextID.Store(math.MaxUint64)
		panic("model: node id space exhausted")
	}
	return id
}

// ResetIDs rewinds the id counter so the next id is 1.
func ResetIDs() {
	nextID.Store(0)
}

// EnsureIDsAbove moves the id counter so that every id it issues from now on is
// greater than max. The counter is never moved backwards.
func EnsureIDsAbove(max uint64) {
	for {
		cur := nextID.Load()
		if cur >= max {
			return
		}
		if nextID.CompareAndSwap(cur, max) {
			return
		}
	}
}

// Node represents a single entry of an outline.
// The open flag, text and children are reactive cells; the id never changes.
type Node struct {
	id       uint64
	isOpen   *reactive.Cell[bool]
	text     *reactive.Cell[string]
	children *reactive.Cell[[]*Node]
}

// NewNode creates a node with a fresh id. The children keep the ids they already carry.
// The caller hands ownership of the children to the new node.
func NewNode(isOpen bool, text string, children ...*Node) *Node {
	return RestoreNode(NextID(), isOpen, text, children...)
}

// RestoreNode creates a node with a known id, as found in a serialized tree.
// It does not touch the id counter.
func RestoreNode(id uint64, isOpen bool, text string, children ...*Node) *Node {
	owned := make([]*Node, len(children))
	copy(owned, children)

	return &Node{
		id:       id,
		isOpen:   reactive.NewCell(isOpen),
		text:     reactive.NewCell(text),
		children: reactive.NewCell(owned),
	}
}

// ID returns the node id.
func (n *Node) ID() uint64 {
	return n.id
}

// IsOpen returns the cell holding the expanded/collapsed state.
func (n *Node) IsOpen() *reactive.Cell[bool] {
	return n.isOpen
}

// Text returns the cell holding the node label.
func (n *Node) Text() *reactive.Cell[string] {
	return n.text
}

// ChildrenCell returns the cell holding the children list.
// Subscribers receive the live slice and must not modify it.
func (n *Node) ChildrenCell() *reactive.Cell[[]*Node] {
	return n.children
}

// Children returns a copy of the direct children in order.
func (n *Node) Children() []*Node {
	current := n.children.Get()
	out := make([]*Node, len(current))
	copy(out, current)
	return out
}

// Toggle flips the open flag.
func (n *Node) Toggle() {
	n.isOpen.Update(func(open *bool) bool {
		*open = !*open
		return true
	})
}

// SetOpen sets the open flag.
func (n *Node) SetOpen(open bool) {
	n.isOpen.Set(open)
}

// SetText replaces the label.
func (n *Node) SetText(text string) {
	n.text.Set(text)
}

// PrependChild inserts child in front of the existing children.
// The child must not already belong to another node or be an ancestor of n.
func (n *Node) PrependChild(child *Node) {
	n.children.Update(func(children *[]*Node) bool {
		next := make([]*Node, 0, len(*children)+1)
		next = append(next, child)
		*children = append(next, *children...)
		return true
	})
}

// RemoveChild detaches the direct child with the given id.
// Grandchildren are not searched. It reports whether a child was removed.
func (n *Node) RemoveChild(id uint64) bool {
	return n.children.Update(func(children *[]*Node) bool {
		for i, c := range *children {
			if c.id != id {
				continue
			}
			next := make([]*Node, 0, len(*children)-1)
			next = append(next, (*children)[:i]...)
			*children = append(next, (*children)[i+1:]...)
			return true
		}
		return false
	})
}
