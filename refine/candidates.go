package refine

import (
	"math"

	"github.com/npillmayer/mesh2d"
	"github.com/npillmayer/mesh2d/topo"
)

// createFrontalEdges proposes a candidate point for every frontal face of the
// bad region, merges candidates lying close to each other and stores the
// survivors as the frontal edges of the next round.
func (g *Generator) createFrontalEdges() {
	m := g.Mesh
	g.frontal.clear()
	wait, temp := newEdgeQueue(), newEdgeQueue()
	for _, c := range m.Bad.Refs() {
		for i := 0; i < 3; i++ {
			f := topo.FaceOf(c, i)
			if !g.isFrontalFace(f) {
				continue
			}
			e := g.newEdge(f)
			g.stats.Candidates++
			g.newPoint(e)
			if e.Ins != 0 && g.isPointAllowed(e.Ins, e.New) {
				wait.insert(e)
			} else {
				m.DiscardNode(e.New)
			}
		}
	}
	for changed := true; changed; {
		changed = false
		wait, temp = temp, wait
		for !temp.empty() {
			e := temp.popFirst()
			if e.New == 0 {
				continue
			}
			neighbours := g.closeCandidates(e, temp)
			if len(neighbours) > 0 {
				changed = true
			}
			ne := m.Node(e.New)
			sx, sy := ne.P.X()/ne.H, ne.P.Y()/ne.H
			so, sh, cnt := 1.0/ne.H, ne.H, 1.0
			for _, nb := range neighbours {
				nc := m.Node(nb.New)
				sx += nc.P.X() / nc.H
				sy += nc.P.Y() / nc.H
				so += 1.0 / nc.H
				sh += nc.H
				cnt++
			}
			ne.P = mesh2d.P(sx/so, sy/so)
			ne.H = sh / cnt
			e.Ins = m.Locate(m.Bad, e.Ins, ne.P)
			if e.Ins != 0 && g.isPointAllowed(e.Ins, e.New) {
				wait.insert(e)
				for _, nb := range neighbours {
					m.DiscardNode(nb.New)
					nb.New = 0
				}
			} else {
				m.DiscardNode(e.New)
				e.New = 0
			}
		}
	}
	for _, e := range wait.edges() {
		g.frontal.insert(e)
	}
}

// newEdge creates the frontal edge of face f, with a fresh candidate node.
func (g *Generator) newEdge(f topo.FaceRef) *Edge {
	m := g.Mesh
	e := &Edge{
		N0:  m.SuccNode(f),
		N1:  m.PredNode(f),
		New: m.NewNode(mesh2d.Origin),
		Adj: f,
	}
	e.id0, e.id1 = m.Node(e.N0).ID, m.Node(e.N1).ID
	p0, p1 := m.Pos(e.N0), m.Pos(e.N1)
	e.H = mesh2d.Dist(p0, p1)
	v := mesh2d.Mid(p0, p1) - g.centroid
	e.Theta = mesh2d.Atan2Pi(v.Y(), v.X())
	e.Ro = v.Norm()
	return e
}

// closeCandidates collects the candidates of queue q within the proximity
// radius of the candidate of e.
func (g *Generator) closeCandidates(e *Edge, q *edgeQueue) []*Edge {
	m := g.Mesh
	ne := m.Node(e.New)
	var close []*Edge
	for _, other := range q.edges() {
		if other.New == 0 {
			continue
		}
		nc := m.Node(other.New)
		r := mesh2d.DistFactor * 0.5 * (ne.H + nc.H)
		if mesh2d.Dist2(ne.P, nc.P) <= r*r {
			close = append(close, other)
		}
	}
	return close
}

// newPoint places the candidate node of e in front of the edge, at a distance
// derived from the spacing at the edge midpoint and the spacing gradient
// across the edge. The distance is clamped to fractions of the edge length.
// If the start point cannot be located in the background mesh, e.Ins stays 0.
func (g *Generator) newPoint(e *Edge) {
	m := g.Mesh
	p0, p1 := m.Pos(e.N0), m.Pos(e.N1)
	n, nn := mesh2d.InwardNormal(p0, p1)
	p := mesh2d.Mid(p0, p1) + n.Scaled(1e-6*nn)
	e.Ins = 0
	b := g.field.Locate(p)
	if b == 0 {
		tracer().Debugf("candidate start %v outside of background mesh", p)
		return
	}
	hm := g.field.Interpolate(b, p)
	lm := hm / (sin60 - mesh2d.Dot(g.field.Gradient(b), n))
	lmin := nn * math.Sqrt(mesh2d.S2minS2max-0.25)
	lmax := nn * math.Sqrt(mesh2d.S2maxS2min-0.25)
	if math.IsNaN(lm) {
		lm = lmin
	}
	lm = math.Max(lmin, math.Min(lm, lmax))
	nd := m.Node(e.New)
	nd.P = p + n.Scaled(lm)
	nd.H = hm
	e.Ins = m.Locate(m.Bad, e.Adj.Cell(), nd.P)
}

// isPointAllowed is a predicate: may candidate node n, located in bad cell c,
// be inserted? Starting at c, cells are visited breadth first across faces of
// cells whose circumcircle contains n. The point is rejected if it is too
// close to a node of a visited cell, or if it lies within the circumcircle of
// an accepted cell.
func (g *Generator) isPointAllowed(c topo.CellRef, n topo.NodeRef) bool {
	m := g.Mesh
	if !m.Cell(c).Bad || g.isCloseToNode(c, n) {
		return false
	}
	p := m.Pos(n)
	tested := map[topo.CellRef]bool{c: true}
	var queue []topo.FaceRef
	for i := 0; i < 3; i++ {
		if adj := m.Cell(c).Face[i].Adj; adj != 0 {
			queue = append(queue, adj)
		}
	}
	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]
		cc := f.Cell()
		if tested[cc] {
			continue
		}
		if g.isCloseToNode(cc, n) {
			return false
		}
		tested[cc] = true
		if !m.InCircumcircle(cc, p) {
			continue
		}
		if !m.Cell(cc).Bad {
			return false
		}
		if adj := m.Face(m.SuccFace(f)).Adj; adj != 0 {
			queue = append(queue, adj)
		}
		if adj := m.Face(m.PredFace(f)).Adj; adj != 0 {
			queue = append(queue, adj)
		}
	}
	return true
}

// isCloseToNode is a predicate: is n within the proximity radius of a node of
// cell c?
func (g *Generator) isCloseToNode(c topo.CellRef, n topo.NodeRef) bool {
	m := g.Mesh
	nd := m.Node(n)
	for _, w := range m.CellNodes(c) {
		wd := m.Node(w)
		r := mesh2d.DistFactor * 0.5 * (nd.H + wd.H)
		if mesh2d.Dist2(nd.P, wd.P) <= r*r {
			return true
		}
	}
	return false
}
