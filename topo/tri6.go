package topo

import (
	"github.com/npillmayer/mesh2d"
)

// Interpolator places mid-edge nodes on boundary edges when converting to
// 6-node elements. Interpolate receives the end nodes a and b of a boundary
// edge and must set position, parameter and boundary tag of mid.
type Interpolator interface {
	Interpolate(a, b, mid *Node)
}

// InterpolatorFunc adapts a function to interface Interpolator.
type InterpolatorFunc func(a, b, mid *Node)

// Interpolate is part of interface Interpolator.
func (f InterpolatorFunc) Interpolate(a, b, mid *Node) {
	f(a, b, mid)
}

// StraightEdges places boundary mid nodes at the edge midpoint, with the
// common boundary type of both end nodes.
var StraightEdges = InterpolatorFunc(func(a, b, mid *Node) {
	mid.P = mesh2d.Mid(a.P, b.P)
	mid.Param = 0.5 * (a.Param + b.Param)
	mid.BC = mesh2d.BC{Type: a.BC.Type & b.BC.Type, Surface: a.BC.Surface}
})

// ConvertToTri6 creates a mid-edge node for every face of the final cells.
// Interior edges get their midpoint, shared with the neighbour face; boundary
// edges are placed by interp. Nodes are renumbered first, mid nodes are numbered
// after all vertices. Conversion is done once per mesh; faces which already
// have a mid node are left alone.
func (m *Mesh) ConvertToTri6(interp Interpolator) int {
	if interp == nil {
		interp = StraightEdges
	}
	id := m.Renumber()
	created := 0
	it := m.Cells()
	for it.Next() {
		c := it.Ref()
		cl := m.Cell(c)
		for i := 0; i < 3; i++ {
			j, k := Succ[i], Pred[i]
			if cl.Face[k].Mid != 0 {
				continue
			}
			ni, nj := cl.Face[i].Node, cl.Face[j].Node
			mid := m.NewNode(mesh2d.Origin)
			id++
			m.Node(mid).ID = id
			m.mids = append(m.mids, mid)
			cl.Face[k].Mid = mid
			created++
			if adj := cl.Face[k].Adj; adj != 0 {
				md := m.Node(mid)
				md.P = mesh2d.Mid(m.Pos(ni), m.Pos(nj))
				md.BC = mesh2d.BC{}
				m.Face(adj).Mid = mid
			} else {
				interp.Interpolate(m.Node(ni), m.Node(nj), m.Node(mid))
			}
		}
	}
	tracer().Infof("tri6: created %d mid-edge nodes", created)
	return created
}
