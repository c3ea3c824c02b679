package topo

import (
	"github.com/emirpasic/gods/trees/redblacktree"
)

// NodeIterator steps through the mesh nodes in insertion order.
//
//	it := m.Nodes()
//	for it.Next() {
//	    n := m.Node(it.Ref())
//	    …
//	}
type NodeIterator struct {
	m   *Mesh
	pos int
}

// Nodes returns an iterator over the mesh nodes.
func (m *Mesh) Nodes() *NodeIterator {
	return &NodeIterator{m: m, pos: -1}
}

// Next advances the iterator. It returns false when exhausted.
func (it *NodeIterator) Next() bool {
	it.pos++
	return it.pos < len(it.m.order)
}

// Ref returns the current node.
func (it *NodeIterator) Ref() NodeRef {
	return it.m.order[it.pos]
}

// CellIterator steps through the cells of a cell set in set order.
type CellIterator struct {
	it redblacktree.Iterator
}

// Cells returns an iterator over the final cells.
func (m *Mesh) Cells() *CellIterator {
	return m.Final.Iterator()
}

// Iterator returns an iterator over the members of s.
func (s *CellSet) Iterator() *CellIterator {
	return &CellIterator{it: s.tree.Iterator()}
}

// Next advances the iterator. It returns false when exhausted.
func (it *CellIterator) Next() bool {
	return it.it.Next()
}

// Ref returns the current cell.
func (it *CellIterator) Ref() CellRef {
	return it.it.Value().(CellRef)
}
