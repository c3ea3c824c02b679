package refine

import (
	"github.com/npillmayer/mesh2d/fist"
	"github.com/npillmayer/mesh2d/topo"
)

// createFistFront removes the cavity of node n, i.e. the bad cells whose
// circumcircle contains n, starting from cell c which contains n. The
// boundary of the cavity is left as a closed front in the triangulator's
// front set.
//
// The front starts as the boundary of c. A front link is expanded into the
// cell across its edge if that cell is bad and its circumcircle contains n:
// the link is replaced by two links running around the far node of that
// cell. Expansion may produce spikes (a link going out to a node and
// straight back); these are cut off.
func (g *Generator) createFistFront(c topo.CellRef, n topo.NodeRef) {
	m := g.Mesh
	if !g.Front.Empty() {
		topo.Fatalf("refine.create_fist_front", "front not empty: %d links", g.Front.Size())
	}
	p := m.Pos(n)
	cl := m.Cell(c)
	var l [3]topo.LinkRef
	for i := 0; i < 3; i++ {
		l[i] = m.NewLink(cl.Face[i].Node)
	}
	untested := fist.NewAddrSet(m)
	for i := 0; i < 3; i++ {
		lk := m.Link(l[i])
		lk.Next = l[topo.Succ[i]]
		lk.Prev = l[topo.Pred[i]]
		lk.Adj = cl.Face[topo.Pred[i]].Adj
	}
	for i := 0; i < 3; i++ {
		untested.Insert(l[i])
	}
	trash := []topo.CellRef{c}
	inTrash := map[topo.CellRef]bool{c: true}
	for !untested.Empty() {
		cur := untested.PopFirst()
		face := m.Link(cur).Adj
		if face == 0 || !m.Cell(face.Cell()).Bad || !m.InCircumcircle(face.Cell(), p) {
			g.Front.Insert(cur)
			continue
		}
		prv, nxt := m.Link(cur).Prev, m.Link(cur).Next
		if fc := face.Cell(); !inTrash[fc] {
			trash = append(trash, fc)
			inTrash[fc] = true
		}
		l0 := cur
		m.Link(l0).Adj = m.Face(m.SuccFace(face)).Adj
		l1 := m.NewLink(m.Face(face).Node)
		m.Link(l1).Adj = m.Face(m.PredFace(face)).Adj
		m.SpliceLinks(prv, l0)
		m.SpliceLinks(l0, l1)
		m.SpliceLinks(l1, nxt)
		untested.Insert(l0)
		untested.Insert(l1)
		if m.LinkNode(prv) == m.LinkNode(l1) { // spike prv → l0 → l1
			g.dropLinks(untested, prv, l0)
		}
		if m.LinkNode(l1) == m.LinkNode(m.Link(nxt).Next) { // spike l1 → nxt → nxt.Next
			g.dropLinks(untested, l1, nxt)
		}
	}
	for _, t := range trash {
		g.detachBadEdges(t)
		m.DeleteCell(t)
	}
	tracer().Debugf("cavity of %d cells, front of %d links", len(trash), g.Front.Size())
}

// dropLinks removes the consecutive links a and b from the front.
func (g *Generator) dropLinks(untested *fist.LinkSet, a, b topo.LinkRef) {
	m := g.Mesh
	m.SpliceLinks(m.Link(a).Prev, m.Link(b).Next)
	for _, l := range []topo.LinkRef{a, b} {
		untested.Remove(l)
		g.Front.Remove(l)
		m.FreeLink(l)
	}
}

// createNewCell seeds the re-triangulation of a cavity with the cell between
// the edge of e and the new node n, and adds n to the mesh.
func (g *Generator) createNewCell(e *Edge, n topo.NodeRef) {
	m := g.Mesh
	lf, found := g.Front.Find(e.N0, e.N1)
	if !found {
		lf = g.Front.First()
		tracer().Debugf("edge %d→%d not on cavity front, using link of node %d",
			e.id0, e.id1, m.Node(m.LinkNode(lf)).ID)
	}
	vip1 := lf
	vim1 := m.Link(lf).Next
	if !g.Front.Remove(vim1) {
		topo.Fatalf("refine.create_new_cell", "vim1 link not found")
	}
	if !g.Front.Remove(vip1) {
		topo.Fatalf("refine.create_new_cell", "vip1 link not found")
	}
	m.AppendNode(n)
	c := m.NewBadCell(m.LinkNode(vip1), m.LinkNode(vim1), n)
	m.Attach(topo.FaceOf(c, 2), m.Link(vip1).Adj)
	l0 := m.NewLink(n)
	m.Link(l0).Adj = topo.FaceOf(c, 0)
	m.SpliceLinks(vip1, l0)
	m.SpliceLinks(l0, vim1)
	m.Link(vip1).Adj = topo.FaceOf(c, 1)
	g.attachBadEdges(c)
	g.Front.Insert(vip1)
	g.Front.Insert(l0)
	g.Front.Insert(vim1)
}
