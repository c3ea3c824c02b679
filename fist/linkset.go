package fist

import (
	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/npillmayer/mesh2d/topo"
)

// LinkSet is an ordered set of front links. The sort key of a link is taken
// when it is inserted; a link must be removed before any of the properties
// contributing to its key change.
type LinkSet struct {
	m     *topo.Mesh
	keyOf func(*topo.Mesh, topo.LinkRef) interface{}
	tree  *redblacktree.Tree
	keys  map[topo.LinkRef]interface{}
}

// angleKey orders by angle ascending, then by link id descending.
type angleKey struct {
	angle float64
	id    int
}

func compareAngle(a, b interface{}) int {
	ka, kb := a.(angleKey), b.(angleKey)
	switch {
	case ka.angle < kb.angle:
		return -1
	case ka.angle > kb.angle:
		return 1
	case ka.id > kb.id:
		return -1
	case ka.id < kb.id:
		return 1
	}
	return 0
}

func angleKeyOf(m *topo.Mesh, l topo.LinkRef) interface{} {
	lk := m.Link(l)
	return angleKey{angle: lk.Angle, id: lk.ID}
}

// addrKey orders by node id, then by the id of the next link's node. The link
// id only separates links which would otherwise collide.
type addrKey struct {
	node, next int
	id         int
}

func compareAddr(a, b interface{}) int {
	ka, kb := a.(addrKey), b.(addrKey)
	switch {
	case ka.node != kb.node:
		return sign(ka.node - kb.node)
	case ka.next != kb.next:
		return sign(ka.next - kb.next)
	}
	return sign(ka.id - kb.id)
}

func addrKeyOf(m *topo.Mesh, l topo.LinkRef) interface{} {
	lk := m.Link(l)
	return addrKey{
		node: m.Node(lk.Node).ID,
		next: m.Node(m.Link(lk.Next).Node).ID,
		id:   lk.ID,
	}
}

func sign(d int) int {
	switch {
	case d < 0:
		return -1
	case d > 0:
		return 1
	}
	return 0
}

func newAngleSet(m *topo.Mesh) *LinkSet {
	return &LinkSet{
		m:     m,
		keyOf: angleKeyOf,
		tree:  redblacktree.NewWith(compareAngle),
		keys:  make(map[topo.LinkRef]interface{}),
	}
}

// NewAddrSet creates a set of links ordered by (node id, next node id).
func NewAddrSet(m *topo.Mesh) *LinkSet {
	return &LinkSet{
		m:     m,
		keyOf: addrKeyOf,
		tree:  redblacktree.NewWith(compareAddr),
		keys:  make(map[topo.LinkRef]interface{}),
	}
}

// Insert adds l. Inserting a member again is a no-op.
func (s *LinkSet) Insert(l topo.LinkRef) {
	if _, found := s.keys[l]; found {
		return
	}
	k := s.keyOf(s.m, l)
	s.tree.Put(k, l)
	s.keys[l] = k
}

// Remove deletes l and reports whether it was a member.
func (s *LinkSet) Remove(l topo.LinkRef) bool {
	k, found := s.keys[l]
	if !found {
		return false
	}
	s.tree.Remove(k)
	delete(s.keys, l)
	return true
}

// Contains is a predicate: is l a member?
func (s *LinkSet) Contains(l topo.LinkRef) bool {
	_, found := s.keys[l]
	return found
}

// First returns the smallest member or 0.
func (s *LinkSet) First() topo.LinkRef {
	node := s.tree.Left()
	if node == nil {
		return 0
	}
	return node.Value.(topo.LinkRef)
}

// PopFirst removes and returns the smallest member or 0.
func (s *LinkSet) PopFirst() topo.LinkRef {
	l := s.First()
	if l != 0 {
		s.Remove(l)
	}
	return l
}

// Find looks up the link from node n0 to node n1 in a set created with
// NewAddrSet. Members whose successor changed after insertion are found by a
// scan over the set.
func (s *LinkSet) Find(n0, n1 topo.NodeRef) (topo.LinkRef, bool) {
	isEdge := func(l topo.LinkRef) bool {
		lk := s.m.Link(l)
		return lk.Node == n0 && s.m.Link(lk.Next).Node == n1
	}
	probe := addrKey{node: s.m.Node(n0).ID, next: s.m.Node(n1).ID, id: -1}
	if node, found := s.tree.Ceiling(probe); found {
		if l := node.Value.(topo.LinkRef); isEdge(l) {
			return l, true
		}
	}
	for _, l := range s.Refs() {
		if isEdge(l) {
			return l, true
		}
	}
	return 0, false
}

// Refs returns a snapshot of all members in set order.
func (s *LinkSet) Refs() []topo.LinkRef {
	refs := make([]topo.LinkRef, 0, len(s.keys))
	it := s.tree.Iterator()
	for it.Next() {
		refs = append(refs, it.Value().(topo.LinkRef))
	}
	return refs
}

// Size returns the number of members.
func (s *LinkSet) Size() int {
	return len(s.keys)
}

// Empty is a predicate: has the set no members?
func (s *LinkSet) Empty() bool {
	return len(s.keys) == 0
}

// Clear removes all members.
func (s *LinkSet) Clear() {
	s.tree.Clear()
	s.keys = make(map[topo.LinkRef]interface{})
}
