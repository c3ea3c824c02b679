package spacing

import (
	"testing"

	"github.com/npillmayer/mesh2d"
	"github.com/npillmayer/mesh2d/fist"
	"github.com/npillmayer/mesh2d/topo"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func triangle() *topo.Mesh {
	m := topo.NewMesh(nil)
	var n [3]topo.NodeRef
	for i, p := range []mesh2d.Pair{mesh2d.P(0, 0), mesh2d.P(1, 0), mesh2d.P(0, 1)} {
		n[i] = m.NewNode(p)
		m.Node(n[i]).H = float64(i + 1) // h = 1 + x + 2y
		m.AppendNode(n[i])
	}
	m.NewBadCell(n[0], n[1], n[2])
	return m
}

func TestInterpolateLinear(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m := triangle()
	f, err := Build(m)
	assert.NoError(t, err)
	assert.Equal(t, 1, f.Size())
	b := f.Locate(mesh2d.P(0.2, 0.2))
	assert.NotEqual(t, topo.CellRef(0), b)
	for _, n := range m.NodeList() {
		assert.Equal(t, m.Node(n).H, f.Interpolate(b, m.Pos(n)), "exact at vertices")
	}
	assert.InDelta(t, 2.0, f.Interpolate(b, mesh2d.P(1.0/3, 1.0/3)), 1e-14)
	assert.InDelta(t, 1.0+2+4, f.Interpolate(b, mesh2d.P(2, 2)), 1e-12, "extrapolation")
	g := f.Gradient(b)
	assert.InDelta(t, 1.0, g.X(), 1e-14)
	assert.InDelta(t, 2.0, g.Y(), 1e-14)
	assert.Equal(t, topo.CellRef(0), f.Locate(mesh2d.P(1, 1)))
}

func TestInterpolateExactAtVertices(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m := topo.NewMesh(nil)
	var n [3]topo.NodeRef
	hs := []float64{0.1, 0.7, 1.3}
	for i, p := range []mesh2d.Pair{mesh2d.P(0.3, 0.1), mesh2d.P(2.9, 0.7), mesh2d.P(1.1, 3.3)} {
		n[i] = m.NewNode(p)
		m.Node(n[i]).H = hs[i]
		m.AppendNode(n[i])
	}
	m.NewBadCell(n[0], n[1], n[2])
	f, err := Build(m)
	assert.NoError(t, err)
	b := f.Locate(mesh2d.P(1.4, 1.3))
	assert.NotEqual(t, topo.CellRef(0), b)
	for i := range n {
		assert.Equal(t, hs[i], f.Interpolate(b, m.Pos(n[i])), "vertex %d", i)
	}
}

func TestBackgroundCopy(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m := topo.NewMesh(nil)
	tri := fist.New(m)
	tri.BeginFront()
	for _, p := range []mesh2d.Pair{
		mesh2d.P(0, 0), mesh2d.P(2, 0), mesh2d.P(2, 1),
		mesh2d.P(1, 1), mesh2d.P(1, 2), mesh2d.P(0, 2),
	} {
		tri.AddToFront(p, 0, mesh2d.BC{Type: mesh2d.BCWall})
	}
	assert.NoError(t, tri.EndFront())
	_, err := tri.Generate()
	assert.NoError(t, err)
	f, err := Build(m)
	assert.NoError(t, err)
	assert.Equal(t, m.Bad.Size(), f.Size())
	m.Bad.Each(func(c topo.CellRef) bool {
		cl := m.Cell(c)
		b, ok := m.Background.ByID(cl.ID)
		assert.True(t, ok)
		assert.Equal(t, m.CellNodes(c), m.CellNodes(b))
		for i := 0; i < 3; i++ {
			adj := cl.Face[i].Adj
			badj := m.Cell(b).Face[i].Adj
			assert.Equal(t, adj == 0, badj == 0)
			if adj != 0 {
				assert.Equal(t, cl.ID, m.Cell(m.Face(badj).Adj.Cell()).ID)
				assert.Equal(t, m.Cell(adj.Cell()).ID, m.Cell(badj.Cell()).ID)
				assert.True(t, m.Background.Contains(badj.Cell()))
			}
		}
		return true
	})
	assert.NoError(t, m.Check())
	// boundary spacing is 1 but at (2,0), (0,2) with 1.5 and at (0,0) with 2
	c := f.Locate(mesh2d.P(0.5, 0.5))
	assert.NotEqual(t, topo.CellRef(0), c)
	assert.True(t, m.Background.Contains(c))
	h := f.Interpolate(c, mesh2d.P(0.5, 0.5))
	assert.True(t, h >= 1.0 && h <= 2.0)
	f.Free()
	assert.Equal(t, 0, f.Size())
	assert.NoError(t, m.Check())
}
