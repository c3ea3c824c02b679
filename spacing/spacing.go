/*
Package spacing provides the spacing field which controls the size of cells
during refinement.

The field is defined on a background mesh: a detached copy of the bad cells
of a mesh, taken after the boundary has been triangulated and made Delaunay.
Every node carries a spacing value h (for boundary nodes, the mean length of
their boundary edges); h is interpolated linearly within background cells,
and every background cell stores the constant gradient of h.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package spacing

import (
	"github.com/npillmayer/mesh2d"
	"github.com/npillmayer/mesh2d/delaunay"
	"github.com/npillmayer/mesh2d/topo"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'mesh2d.spacing'
func tracer() tracing.Trace {
	return tracing.Select("mesh2d.spacing")
}

// Field is a spacing field over the background mesh of a Mesh.
type Field struct {
	m     *topo.Mesh
	start topo.CellRef // start cell for the next point location
}

// Build makes the bad cells of m Delaunay and copies them into the background
// set of m, including their adjacency. Background cells carry the ids of
// their originals and are not registered with their nodes.
func Build(m *topo.Mesh) (f *Field, err error) {
	defer topo.CatchInvariant(&err)
	if _, err = delaunay.MakeDelaunay(m, m.Bad); err != nil {
		return nil, err
	}
	m.Background.Clear()
	copies := make(map[topo.CellRef]topo.CellRef, m.Bad.Size())
	for _, c := range m.Bad.Refs() {
		cl := m.Cell(c)
		nds := m.CellNodes(c)
		b := m.NewDetachedCell(cl.ID, nds[0], nds[1], nds[2])
		m.Background.Insert(b, cl.ID)
		copies[c] = b
	}
	for c, b := range copies {
		for i := 0; i < 3; i++ {
			adj := m.Face(topo.FaceOf(c, i)).Adj
			if adj == 0 {
				continue
			}
			a, found := m.Background.ByID(m.Cell(adj.Cell()).ID)
			if !found {
				topo.Fatalf("spacing.build", "no background copy of cell %d", m.Cell(adj.Cell()).ID)
			}
			m.Attach(topo.FaceOf(b, i), topo.FaceOf(a, adj.Index()))
		}
	}
	m.Background.Each(func(b topo.CellRef) bool {
		m.Cell(b).Grad = gradient(m, b)
		return true
	})
	tracer().Infof("background mesh of %d cells", m.Background.Size())
	return &Field{m: m}, nil
}

// gradient of the linear interpolant of node spacings over cell c.
func gradient(m *topo.Mesh, c topo.CellRef) mesh2d.Pair {
	var gx, gy float64
	cl := m.Cell(c)
	for i := 0; i < 3; i++ {
		f := topo.FaceOf(c, i)
		d := m.Pos(m.PredNode(f)) - m.Pos(m.SuccNode(f))
		h := m.Node(cl.Face[i].Node).H
		gx -= h * d.Y()
		gy += h * d.X()
	}
	a2 := 2 * m.Area(c)
	return mesh2d.P(gx/a2, gy/a2)
}

// Locate returns the background cell containing p, or 0 if p is outside of
// the background mesh. The search starts at the cell found by the previous
// call.
func (f *Field) Locate(p mesh2d.Pair) topo.CellRef {
	if f.start == 0 || !f.m.IsAlive(f.start) {
		f.start = f.m.Background.First()
	}
	c := f.m.Locate(f.m.Background, f.start, p)
	if c != 0 {
		f.start = c
	}
	return c
}

// Interpolate evaluates the spacing at p, using the linear interpolant over
// background cell c. Points outside of c are extrapolated.
func (f *Field) Interpolate(c topo.CellRef, p mesh2d.Pair) float64 {
	m := f.m
	q := m.CellPoints(c)
	nds := m.CellNodes(c)
	var a [3]float64
	a[0] = mesh2d.Cross(q[1]-p, q[2]-p)
	a[1] = mesh2d.Cross(q[2]-p, q[0]-p)
	a[2] = mesh2d.Cross(q[0]-p, q[1]-p)
	sum := a[0] + a[1] + a[2]
	// normalized weights are exactly 1 and 0 at a vertex
	h := 0.0
	for i := 0; i < 3; i++ {
		h += a[i] / sum * m.Node(nds[i]).H
	}
	return h
}

// Gradient returns the spacing gradient of background cell c.
func (f *Field) Gradient(c topo.CellRef) mesh2d.Pair {
	return f.m.Cell(c).Grad
}

// Size returns the number of background cells.
func (f *Field) Size() int {
	return f.m.Background.Size()
}

// Free deletes the background mesh.
func (f *Field) Free() {
	for _, b := range f.m.Background.Refs() {
		f.m.DeleteCell(b)
	}
	f.start = 0
}
