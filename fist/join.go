package fist

import (
	"github.com/npillmayer/mesh2d"
	"github.com/npillmayer/mesh2d/topo"
)

// joinFronts connects the first waiting link vi with a reflex node inside its
// ear. Candidates are tried in the order of their angles; the first one whose
// triangle (vi, vip1, candidate) is free of other candidates, and whose
// connection to the midpoint of edge vi→vip1 does not cross a candidate's
// front edges, is taken. The new triangle splits the front at the candidate
// node: a new link for the candidate continues the front towards vip1.
//
//	vim1       vip1          vim1       vip1
//	   \       /                \   c   /
//	    \  cl /         ⇒        \ / \ /
//	     \ ∧ /                    cl   l0
//	      vi                      vi
//
// joinFronts returns false if no candidate qualifies.
func (t *Triangulator) joinFronts() bool {
	m := t.Mesh
	vi := t.waiting.First()
	vip1, vim1 := m.Link(vi).Next, m.Link(vi).Prev
	ni, nip1, nim1 := m.LinkNode(vi), m.LinkNode(vip1), m.LinkNode(vim1)
	pi, pip1, pim1 := m.Pos(ni), m.Pos(nip1), m.Pos(nim1)
	mid := mesh2d.Mid(pi, pip1)
	neighbours := newAngleSet(m)
	for _, r := range t.reflex.Refs() {
		n := m.LinkNode(r)
		if n == ni || n == nip1 || n == nim1 {
			continue
		}
		if mesh2d.InTriangle(pi, pip1, pim1, m.Pos(n)) {
			neighbours.Insert(r)
		}
	}
	if neighbours.Empty() {
		topo.Fatalf("fist.join_fronts", "waiting link %d without reflex node inside", m.Link(vi).ID)
	}
	candidates := neighbours.Refs()
	for _, cl := range candidates {
		ncl := m.LinkNode(cl)
		if !t.isValidJoin(ni, nip1, ncl, mid, candidates) {
			continue
		}
		clm1 := m.Link(cl).Prev
		c := t.newCell(ni, nip1, ncl)
		t.eraseFromSets(vi)
		t.eraseFromSets(vip1)
		t.eraseFromSets(cl)
		m.Attach(topo.FaceOf(c, 2), m.Link(vi).Adj)
		l0 := m.NewLink(ncl)
		m.Link(l0).Adj = topo.FaceOf(c, 0)
		m.SpliceLinks(clm1, l0)
		m.SpliceLinks(l0, vip1)
		m.SpliceLinks(vi, cl)
		m.Link(vi).Adj = topo.FaceOf(c, 1)
		t.classify(vi)
		t.classify(cl)
		t.classify(l0)
		t.classify(vip1)
		tracer().Debugf("joined fronts at node %d", m.Node(ncl).ID)
		return true
	}
	tracer().Errorf("failed to join fronts at node %d", m.Node(ni).ID)
	return false
}

// isValidJoin is a predicate: may the triangle (ni, nip1, ncl) be created,
// given the other candidate links?
func (t *Triangulator) isValidJoin(ni, nip1, ncl topo.NodeRef, mid mesh2d.Pair, candidates []topo.LinkRef) bool {
	m := t.Mesh
	pi, pip1, pcl := m.Pos(ni), m.Pos(nip1), m.Pos(ncl)
	for _, lt := range candidates {
		lk := m.Link(lt)
		nl0, nl1, nl2 := m.LinkNode(lk.Prev), lk.Node, m.LinkNode(lk.Next)
		if nl1 == ni || nl1 == nip1 || nl1 == ncl {
			continue
		}
		p1 := m.Pos(nl1)
		if mesh2d.InTriangle(pi, pip1, pcl, p1) {
			return false
		}
		// both front edges at lt may cross the connection when fronts merge
		if ncl != nl2 && mesh2d.SegmentsIntersect(mid, pcl, p1, m.Pos(nl2)) {
			return false
		}
		if ncl != nl0 && mesh2d.SegmentsIntersect(mid, pcl, m.Pos(nl0), p1) {
			return false
		}
	}
	return true
}
