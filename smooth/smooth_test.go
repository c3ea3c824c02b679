package smooth

import (
	"math"
	"testing"

	"github.com/npillmayer/mesh2d"
	"github.com/npillmayer/mesh2d/delaunay"
	"github.com/npillmayer/mesh2d/refine"
	"github.com/npillmayer/mesh2d/topo"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

// hexagon creates a fan of six final cells around an interior node c, off
// the centre of a regular hexagon.
func hexagon(c mesh2d.Pair) (*topo.Mesh, topo.NodeRef, []topo.NodeRef) {
	m := topo.NewMesh(nil)
	var ring []topo.NodeRef
	for k := 0; k < 6; k++ {
		a := float64(k) * math.Pi / 3
		n := m.NewNode(mesh2d.P(math.Cos(a), math.Sin(a)))
		m.Node(n).BC = mesh2d.BC{Type: mesh2d.BCWall}
		m.AppendNode(n)
		ring = append(ring, n)
	}
	center := m.NewNode(c)
	m.AppendNode(center)
	var cells []topo.CellRef
	for k := 0; k < 6; k++ {
		cells = append(cells, m.NewCell(center, ring[k], ring[(k+1)%6]))
	}
	for k := 0; k < 6; k++ {
		m.Attach(topo.FaceOf(cells[k], 1), topo.FaceOf(cells[(k+1)%6], 2))
	}
	for _, cl := range cells {
		m.Accept(cl)
	}
	return m, center, ring
}

func TestCenterOfHexagon(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m, center, ring := hexagon(mesh2d.P(0.1, -0.05))
	assert.NoError(t, m.Check())
	assert.NoError(t, Pass(m))
	assert.InDelta(t, 0.0, m.Pos(center).X(), 1e-12)
	assert.InDelta(t, 0.0, m.Pos(center).Y(), 1e-12)
	assert.Equal(t, 6.0, m.Node(center).Degree)
	assert.Equal(t, 7, m.Node(center).ID, "renumbered in mesh order")
	for k, n := range ring {
		a := float64(k) * math.Pi / 3
		assert.Equal(t, mesh2d.P(math.Cos(a), math.Sin(a)), m.Pos(n))
		assert.Equal(t, 2.0, m.Node(n).Degree)
	}
	assert.Equal(t, 6, m.Final.Size())
	assert.NoError(t, m.Check())
}

func TestBoundaryFixed(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m := topo.NewMesh(nil)
	g := refine.New(m)
	g.BeginFront()
	for i := 0; i < 6; i++ {
		g.AddToFront(mesh2d.P(float64(i), 0), 0, mesh2d.BC{Type: mesh2d.BCWall})
	}
	for i := 0; i < 6; i++ {
		g.AddToFront(mesh2d.P(6, float64(i)), 0, mesh2d.BC{Type: mesh2d.BCWall})
	}
	for i := 0; i < 6; i++ {
		g.AddToFront(mesh2d.P(6-float64(i), 6), 0, mesh2d.BC{Type: mesh2d.BCWall})
	}
	for i := 0; i < 6; i++ {
		g.AddToFront(mesh2d.P(0, 6-float64(i)), 0, mesh2d.BC{Type: mesh2d.BCWall})
	}
	assert.NoError(t, g.EndFront())
	_, err := g.Generate()
	assert.NoError(t, err)
	assert.NoError(t, g.MeshGeneration())
	boundary := make(map[topo.NodeRef]mesh2d.Pair)
	for _, n := range m.NodeList()[:24] {
		boundary[n] = m.Pos(n)
	}
	assert.NoError(t, Passes(m, 5))
	for n, p := range boundary {
		assert.Equal(t, p, m.Pos(n), "boundary node %d", m.Node(n).ID)
	}
	assert.NoError(t, m.Check())
	sum := 0.0
	m.Final.Each(func(c topo.CellRef) bool {
		sum += m.Area(c)
		return true
	})
	assert.InDelta(t, 36.0, sum, 1e-9)
	assert.Equal(t, 0, delaunay.CountViolations(m, m.Final))
}

func TestEmptyMesh(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	assert.Error(t, Pass(topo.NewMesh(nil)))
	assert.NoError(t, Passes(topo.NewMesh(nil), 0))
}
