package delaunay

import (
	"errors"
	"math"
	"testing"

	"github.com/npillmayer/mesh2d"
	"github.com/npillmayer/mesh2d/topo"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func nodes(m *topo.Mesh, pts ...mesh2d.Pair) []topo.NodeRef {
	var refs []topo.NodeRef
	for _, p := range pts {
		n := m.NewNode(p)
		m.AppendNode(n)
		refs = append(refs, n)
	}
	return refs
}

// flat kite, split along its long diagonal
func kite() (*topo.Mesh, []topo.NodeRef, topo.CellRef, topo.CellRef) {
	m := topo.NewMesh(nil)
	n := nodes(m, mesh2d.P(2, 0.5), mesh2d.P(0, 0), mesh2d.P(4, 0), mesh2d.P(2, -0.5))
	c1 := m.NewBadCell(n[0], n[1], n[2])
	c2 := m.NewBadCell(n[3], n[2], n[1])
	m.Attach(topo.FaceOf(c1, 0), topo.FaceOf(c2, 0))
	return m, n, c1, c2
}

func TestFlipKite(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m, n, c1, c2 := kite()
	assert.Equal(t, 2, CountViolations(m, m.Bad))
	assert.True(t, GreenSibson(m, topo.FaceOf(c1, 0)))
	assert.Equal(t, 0, CountViolations(m, m.Bad))
	assert.NoError(t, m.Check())
	for _, c := range []topo.CellRef{c1, c2} {
		nds := m.CellNodes(c)
		assert.Contains(t, nds, n[0])
		assert.Contains(t, nds, n[3])
		assert.Greater(t, m.Area(c), 0.0)
	}
	assert.Equal(t, 2, m.Degree(n[0]))
	assert.Equal(t, 1, m.Degree(n[1]))
	assert.False(t, GreenSibson(m, topo.FaceOf(c1, 0)), "already conforming")
}

func TestNoFlipOnBoundary(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m, _, c1, _ := kite()
	assert.False(t, GreenSibson(m, topo.FaceOf(c1, 1)))
}

func TestNoFlipOfCocircularQuad(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m := topo.NewMesh(nil)
	n := nodes(m, mesh2d.P(0, 0), mesh2d.P(1, 0), mesh2d.P(1, 1), mesh2d.P(0, 1))
	c1 := m.NewBadCell(n[0], n[1], n[2])
	c2 := m.NewBadCell(n[0], n[2], n[3])
	m.Attach(topo.FaceOf(c1, 1), topo.FaceOf(c2, 2))
	assert.NoError(t, m.Check())
	assert.False(t, GreenSibson(m, topo.FaceOf(c1, 1)))
	assert.False(t, GreenSibson(m, topo.FaceOf(c2, 2)))
	assert.Equal(t, 0, CountViolations(m, m.Bad))
	assert.Equal(t, [3]topo.NodeRef{n[0], n[1], n[2]}, m.CellNodes(c1))
}

// fan triangulation of a convex polygon with vertices on an ellipse
func fan(k int) *topo.Mesh {
	m := topo.NewMesh(nil)
	var pts []mesh2d.Pair
	for i := 0; i < k; i++ {
		t := 2 * math.Pi * float64(i) / float64(k)
		pts = append(pts, mesh2d.P(3*math.Cos(t), math.Sin(t)))
	}
	n := nodes(m, pts...)
	var prev topo.CellRef
	for i := 1; i < k-1; i++ {
		c := m.NewBadCell(n[0], n[i], n[i+1])
		if prev != 0 {
			m.Attach(topo.FaceOf(prev, 1), topo.FaceOf(c, 2))
		}
		prev = c
	}
	return m
}

func TestMakeDelaunayFan(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m := fan(17)
	assert.NoError(t, m.Check())
	assert.Greater(t, CountViolations(m, m.Bad), 0)
	changed, err := MakeDelaunay(m, m.Bad)
	assert.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 0, CountViolations(m, m.Bad))
	assert.Equal(t, 15, m.Bad.Size())
	assert.NoError(t, m.Check())
	changed, err = MakeDelaunay(m, m.Bad)
	assert.NoError(t, err)
	assert.False(t, changed, "second run is a no-op")
}

func TestMakeDelaunayEmptySet(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m := topo.NewMesh(nil)
	_, err := MakeDelaunay(m, m.Final)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptySet))
}
