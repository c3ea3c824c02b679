package topo

import (
	"errors"
	"testing"

	"github.com/npillmayer/mesh2d"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

// unit square split along the diagonal (0,0)-(1,1)
func square(t *testing.T) (*Mesh, [4]NodeRef, CellRef, CellRef) {
	m := NewMesh(nil)
	var n [4]NodeRef
	for i, p := range []mesh2d.Pair{mesh2d.P(0, 0), mesh2d.P(1, 0), mesh2d.P(1, 1), mesh2d.P(0, 1)} {
		n[i] = m.NewNode(p)
		m.Node(n[i]).BC = mesh2d.BC{Type: mesh2d.BCWall}
		m.AppendNode(n[i])
	}
	c1 := m.NewBadCell(n[0], n[1], n[2])
	c2 := m.NewBadCell(n[0], n[2], n[3])
	m.Attach(FaceOf(c1, 1), FaceOf(c2, 2))
	return m, n, c1, c2
}

func TestFaceHandles(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	f := FaceOf(CellRef(7), 2)
	assert.Equal(t, CellRef(7), f.Cell())
	assert.Equal(t, 2, f.Index())
	assert.Equal(t, "face(-)", FaceRef(0).String())
}

func TestCellSetOrder(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := NewCellSet("test")
	s.Insert(CellRef(1), 10)
	s.Insert(CellRef(2), 30)
	s.Insert(CellRef(3), 20)
	assert.Equal(t, []CellRef{2, 3, 1}, s.Refs(), "descending ids")
	assert.Equal(t, CellRef(2), s.First())
	assert.True(t, s.Remove(CellRef(3)))
	assert.False(t, s.Remove(CellRef(3)))
	c, ok := s.ByID(10)
	assert.True(t, ok)
	assert.Equal(t, CellRef(1), c)
	assert.Equal(t, 2, s.Size())
}

func TestSquareTopology(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m, n, c1, c2 := square(t)
	assert.NoError(t, m.Check())
	assert.InDelta(t, 0.5, m.Area(c1), 1e-15)
	assert.InDelta(t, 0.5, m.Area(c2), 1e-15)
	assert.Equal(t, 2, m.Degree(n[0]))
	assert.Equal(t, 1, m.Degree(n[1]))
	assert.Equal(t, 2, m.Degree(n[2]))
	f := FaceOf(c1, 1)
	assert.Equal(t, n[2], m.SuccNode(f))
	assert.Equal(t, n[0], m.PredNode(f))
	assert.Equal(t, FaceOf(c1, 2), m.SuccFace(f))
	assert.Equal(t, FaceOf(c1, 0), m.PredFace(f))
	cl := m.Cell(c1)
	assert.InDelta(t, 0.5, cl.Center.X(), 1e-12)
	assert.InDelta(t, 0.5, cl.Center.Y(), 1e-12)
	assert.True(t, m.InCircumcircle(c1, mesh2d.P(0, 1)), "cocircular point counts as inside")
}

func TestCheckDetectsAsymmetry(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m, _, c1, _ := square(t)
	m.Face(FaceOf(c1, 1)).Adj = 0
	err := m.Check()
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvariant))
}

func TestCheckDetectsNegativeArea(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m, n, _, _ := square(t)
	m.NewBadCell(n[0], n[3], n[1]) // clockwise
	assert.Error(t, m.Check())
}

func TestLocate(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m, _, c1, c2 := square(t)
	assert.Equal(t, c2, m.Locate(m.Bad, c1, mesh2d.P(0.2, 0.8)), "walk across the diagonal")
	assert.Equal(t, c1, m.Locate(m.Bad, c1, mesh2d.P(0.8, 0.2)))
	assert.Equal(t, CellRef(0), m.Locate(m.Bad, c1, mesh2d.P(2, 2)), "outside the domain")
	assert.Equal(t, c2, m.Locate(m.Bad, 0, mesh2d.P(0.1, 0.9)), "scan without a start cell")
}

func TestDeleteAndReuse(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m, n, c1, c2 := square(t)
	id2 := m.Cell(c2).ID
	m.DeleteCell(c2)
	assert.False(t, m.IsAlive(c2))
	assert.Equal(t, FaceRef(0), m.Face(FaceOf(c1, 1)).Adj)
	assert.Equal(t, 0, m.Degree(n[3]))
	assert.NoError(t, m.Check())
	c3 := m.NewBadCell(n[0], n[2], n[3])
	assert.Equal(t, c2, c3, "cell slot is reused")
	assert.Greater(t, m.Cell(c3).ID, id2, "ids are never reused")
}

func TestRelabelKeepsChains(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m, n, c1, c2 := square(t)
	// flip the diagonal by hand
	m.Relabel(c1, n[2], n[3], n[1])
	m.Relabel(c2, n[0], n[1], n[3])
	m.Attach(FaceOf(c1, 1), 0)
	m.Attach(FaceOf(c2, 2), 0)
	m.Attach(FaceOf(c1, 0), FaceOf(c2, 0))
	assert.NoError(t, m.Check())
	assert.Equal(t, 1, m.Degree(n[0]))
	assert.Equal(t, 2, m.Degree(n[1]))
}

func TestRecoverAdjacency(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m, _, c1, c2 := square(t)
	m.Accept(c1)
	m.Accept(c2)
	m.Attach(FaceOf(c1, 1), 0)
	m.Face(FaceOf(c2, 2)).Adj = 0
	m.RecoverAdjacency()
	assert.Equal(t, FaceOf(c2, 2), m.Face(FaceOf(c1, 1)).Adj)
	assert.NoError(t, m.Check())
	nodes, cells := m.Properties()
	assert.Equal(t, 4, nodes)
	assert.Equal(t, 2, cells)
}

func TestIterators(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m, n, c1, c2 := square(t)
	m.Accept(c1)
	m.Accept(c2)
	var nodes []NodeRef
	for it := m.Nodes(); it.Next(); {
		nodes = append(nodes, it.Ref())
	}
	assert.Equal(t, n[:], nodes)
	var cells []CellRef
	for it := m.Cells(); it.Next(); {
		cells = append(cells, it.Ref())
	}
	assert.Equal(t, []CellRef{c2, c1}, cells)
}

func TestTri6(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m, _, c1, c2 := square(t)
	m.Accept(c1)
	m.Accept(c2)
	calls := 0
	created := m.ConvertToTri6(InterpolatorFunc(func(a, b, mid *Node) {
		calls++
		StraightEdges(a, b, mid)
	}))
	assert.Equal(t, 5, created, "4 boundary edges and 1 shared diagonal")
	assert.Equal(t, 4, calls)
	assert.Len(t, m.MidNodes(), 5)
	diag := m.Face(FaceOf(c1, 1)).Mid
	assert.Equal(t, diag, m.Face(FaceOf(c2, 2)).Mid)
	assert.True(t, m.Pos(diag).Equal(mesh2d.P(0.5, 0.5)))
	assert.Equal(t, 0, m.Node(diag).BC.Type)
	assert.Equal(t, 9, m.Node(m.MidNodes()[4]).ID)
}

func TestFatalIsRecovered(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	run := func() (err error) {
		defer CatchInvariant(&err)
		m := NewMesh(nil)
		m.Cell(CellRef(42))
		return nil
	}
	err := run()
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvariant))
	var ie *InvariantError
	assert.True(t, errors.As(err, &ie))
	assert.Equal(t, "mesh.cell", ie.Op)
}
