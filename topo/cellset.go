package topo

import (
	"github.com/emirpasic/gods/trees/redblacktree"
)

// CellSet is an ordered set of cells. Iteration order is by descending cell id.
type CellSet struct {
	name string
	tree *redblacktree.Tree // id → CellRef
	ids  map[CellRef]int    // CellRef → id
}

func byIDDescending(a, b interface{}) int {
	ia, ib := a.(int), b.(int)
	switch {
	case ia > ib:
		return -1
	case ia < ib:
		return 1
	}
	return 0
}

// NewCellSet creates an empty cell set. The name is used for tracing.
func NewCellSet(name string) *CellSet {
	return &CellSet{
		name: name,
		tree: redblacktree.NewWith(byIDDescending),
		ids:  make(map[CellRef]int),
	}
}

// Name returns the name of the set.
func (s *CellSet) Name() string {
	return s.name
}

// Insert adds cell c with ordering key id. Inserting a cell twice or two cells
// with the same id is a fatal error.
func (s *CellSet) Insert(c CellRef, id int) {
	if _, found := s.ids[c]; found {
		Fatalf("cellset.insert", "cell %d already in set %s", c, s.name)
	}
	if _, found := s.tree.Get(id); found {
		Fatalf("cellset.insert", "duplicate cell id %d in set %s", id, s.name)
	}
	s.tree.Put(id, c)
	s.ids[c] = id
}

// Remove deletes c from the set and reports whether it was a member.
func (s *CellSet) Remove(c CellRef) bool {
	id, found := s.ids[c]
	if !found {
		return false
	}
	s.tree.Remove(id)
	delete(s.ids, c)
	return true
}

// Contains is a predicate: is c a member of the set?
func (s *CellSet) Contains(c CellRef) bool {
	_, found := s.ids[c]
	return found
}

// ByID finds the member cell with the given id.
func (s *CellSet) ByID(id int) (CellRef, bool) {
	v, found := s.tree.Get(id)
	if !found {
		return 0, false
	}
	return v.(CellRef), true
}

// Size returns the number of cells in the set.
func (s *CellSet) Size() int {
	return len(s.ids)
}

// Empty is a predicate: has the set no members?
func (s *CellSet) Empty() bool {
	return len(s.ids) == 0
}

// First returns the member with the highest id, or 0.
func (s *CellSet) First() CellRef {
	node := s.tree.Left()
	if node == nil {
		return 0
	}
	return node.Value.(CellRef)
}

// Refs returns a snapshot of all members in set order. Clients mutating the set
// while visiting its members iterate over such a snapshot.
func (s *CellSet) Refs() []CellRef {
	refs := make([]CellRef, 0, len(s.ids))
	it := s.tree.Iterator()
	for it.Next() {
		refs = append(refs, it.Value().(CellRef))
	}
	return refs
}

// Each calls f for every member in set order. f must not modify the set.
// Iteration stops early if f returns false.
func (s *CellSet) Each(f func(c CellRef) bool) {
	it := s.tree.Iterator()
	for it.Next() {
		if !f(it.Value().(CellRef)) {
			return
		}
	}
}

// Clear removes all members.
func (s *CellSet) Clear() {
	s.tree.Clear()
	s.ids = make(map[CellRef]int)
}
