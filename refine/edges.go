package refine

import (
	"math"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/npillmayer/mesh2d/topo"
)

// Edge is a frontal edge of the bad region together with the candidate node
// proposed for insertion in front of it. The edge runs from N0 to N1 with the
// bad cell on its left.
type Edge struct {
	N0, N1 topo.NodeRef
	New    topo.NodeRef // candidate node, 0 if discarded
	Adj    topo.FaceRef // face of the bad cell at this edge, 0 while detached
	Ins    topo.CellRef // bad cell containing the candidate
	H      float64      // edge length
	Theta  float64      // polar angle of the edge midpoint around the centroid
	Ro     float64      // distance of the edge midpoint from the centroid
	id0    int          // node ids, for lookups and tie-breaking
	id1    int
}

// relCompare compares a and b with a relative tolerance.
func relCompare(a, b float64) int {
	if s := a + b; s != 0 && math.Abs((a-b)/s) <= 1e-12 {
		return 0
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// compareEdges orders by length, then by distance from the centroid, then by
// polar angle. Node ids separate edges which compare equal otherwise.
func compareEdges(a, b interface{}) int {
	ea, eb := a.(*Edge), b.(*Edge)
	if r := relCompare(ea.H, eb.H); r != 0 {
		return r
	}
	if r := relCompare(ea.Ro, eb.Ro); r != 0 {
		return r
	}
	switch {
	case ea.Theta < eb.Theta:
		return -1
	case ea.Theta > eb.Theta:
		return 1
	case ea.id0 != eb.id0:
		return ea.id0 - eb.id0
	}
	return ea.id1 - eb.id1
}

// edgeQueue is an ordered set of candidate edges.
type edgeQueue struct {
	tree *redblacktree.Tree
}

func newEdgeQueue() *edgeQueue {
	return &edgeQueue{tree: redblacktree.NewWith(compareEdges)}
}

func (q *edgeQueue) insert(e *Edge) {
	q.tree.Put(e, struct{}{})
}

func (q *edgeQueue) empty() bool {
	return q.tree.Empty()
}

func (q *edgeQueue) popFirst() *Edge {
	node := q.tree.Left()
	if node == nil {
		return nil
	}
	e := node.Key.(*Edge)
	q.tree.Remove(e)
	return e
}

func (q *edgeQueue) edges() []*Edge {
	edges := make([]*Edge, 0, q.tree.Size())
	it := q.tree.Iterator()
	for it.Next() {
		edges = append(edges, it.Key().(*Edge))
	}
	return edges
}

// edgeKey addresses a frontal edge by its node ids.
type edgeKey struct {
	n0, n1 int
}

func compareKeys(a, b interface{}) int {
	ka, kb := a.(edgeKey), b.(edgeKey)
	if ka.n0 != kb.n0 {
		return ka.n0 - kb.n0
	}
	return ka.n1 - kb.n1
}

// frontalEdges holds the edges selected for insertion in a round, ordered by
// node ids.
type frontalEdges struct {
	tree *redblacktree.Tree
}

func newFrontalEdges() *frontalEdges {
	return &frontalEdges{tree: redblacktree.NewWith(compareKeys)}
}

func (fe *frontalEdges) insert(e *Edge) {
	fe.tree.Put(edgeKey{e.id0, e.id1}, e)
}

func (fe *frontalEdges) find(id0, id1 int) (*Edge, bool) {
	v, found := fe.tree.Get(edgeKey{id0, id1})
	if !found {
		return nil, false
	}
	return v.(*Edge), true
}

func (fe *frontalEdges) edges() []*Edge {
	edges := make([]*Edge, 0, fe.tree.Size())
	it := fe.tree.Iterator()
	for it.Next() {
		edges = append(edges, it.Value().(*Edge))
	}
	return edges
}

func (fe *frontalEdges) size() int {
	return fe.tree.Size()
}

func (fe *frontalEdges) clear() {
	fe.tree.Clear()
}
