package refine

import (
	"math"

	"github.com/npillmayer/mesh2d"
	"github.com/npillmayer/mesh2d/topo"
)

// Implicit cell templates. A bad cell with frontal faces F (bit i set if face
// i is frontal) is implicit for
//
//	type 1: one frontal face, both other edges shorter than their target length
//	type 2: two frontal faces, both frontal edges shorter than their target length
//	type 3: three frontal faces
//
// Types 1 and 2 additionally require the cell to be non-obtuse.
const (
	implicitOne   = 1
	implicitTwo   = 2
	implicitThree = 3
)

// isImplicit is a predicate: does cell c match template typ?
func (g *Generator) isImplicit(c topo.CellRef, typ int) bool {
	m := g.Mesh
	q := m.CellPoints(c)
	nds := m.CellNodes(c)
	t0, t1, t2 := q[2]-q[1], q[0]-q[2], q[1]-q[0]
	nt0, nt1, nt2 := t0.Norm(), t1.Norm(), t2.Norm()
	h := func(a, b int) float64 {
		return mesh2d.ImplFactor * 0.5 * (m.Node(nds[a]).H + m.Node(nds[b]).H)
	}
	h0, h1, h2 := h(1, 2), h(0, 2), h(0, 1)
	mndot := math.Min(-mesh2d.Dot(t0, t1), math.Min(-mesh2d.Dot(t1, t2), -mesh2d.Dot(t2, t0)))
	flag := 0
	for i := 0; i < 3; i++ {
		if g.isFrontalFace(topo.FaceOf(c, i)) {
			flag |= 1 << i
		}
	}
	flag |= 1 << (typ + 2)
	switch flag {
	case 1 + 8, 6 + 16:
		return mndot >= 0 && nt1 < h1 && nt2 < h2
	case 2 + 8, 5 + 16:
		return mndot >= 0 && nt0 < h0 && nt2 < h2
	case 4 + 8, 3 + 16:
		return mndot >= 0 && nt0 < h0 && nt1 < h1
	case 7 + 32:
		return true
	}
	return false
}

// implicitCells accepts implicit cells, trying the templates in order, until
// no more cells qualify. It returns the number of accepted cells.
func (g *Generator) implicitCells() int {
	m := g.Mesh
	g.frontal.clear()
	cnt := 0
	for changed := true; changed; {
		changed = false
		for typ := implicitOne; typ <= implicitThree; typ++ {
			for _, c := range m.Bad.Refs() {
				if g.isImplicit(c, typ) {
					m.Accept(c)
					cnt++
					changed = true
				}
			}
		}
	}
	if cnt > 0 {
		tracer().Debugf("accepted %d implicit cells", cnt)
	}
	return cnt
}
