package fist

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/npillmayer/mesh2d"
	"github.com/npillmayer/mesh2d/polygon"
	"github.com/npillmayer/mesh2d/topo"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func addLoop(t *testing.T, tri *Triangulator, pts ...mesh2d.Pair) {
	tri.BeginFront()
	for _, p := range pts {
		tri.AddToFront(p, 0, mesh2d.BC{Type: mesh2d.BCWall})
	}
	assert.NoError(t, tri.EndFront())
}

func box(x0, y0, x1, y1 float64, clockwise bool) []mesh2d.Pair {
	pts := []mesh2d.Pair{mesh2d.P(x0, y0), mesh2d.P(x1, y0), mesh2d.P(x1, y1), mesh2d.P(x0, y1)}
	if clockwise {
		pts[1], pts[3] = pts[3], pts[1]
	}
	return pts
}

func triangulate(t *testing.T, loops ...[]mesh2d.Pair) (*topo.Mesh, *Triangulator) {
	m := topo.NewMesh(nil)
	tri := New(m)
	for _, l := range loops {
		addLoop(t, tri, l...)
	}
	ok, err := tri.Generate()
	assert.NoError(t, err)
	assert.True(t, ok)
	return m, tri
}

func checkCells(t *testing.T, m *topo.Mesh, count int, area float64) {
	assert.Equal(t, count, m.Bad.Size())
	sum := 0.0
	m.Bad.Each(func(c topo.CellRef) bool {
		a := m.Area(c)
		assert.Greater(t, a, 0.0, "cell %d", m.Cell(c).ID)
		sum += a
		return true
	})
	assert.InDelta(t, area, sum, 1e-12)
	assert.NoError(t, m.Check())
	assert.Equal(t, 0, m.LinkCount(), "all links consumed")
}

func TestSquare(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m, tri := triangulate(t, box(0, 0, 1, 1, false))
	checkCells(t, m, 2, 1.0)
	assert.Equal(t, 0, tri.Stats().Joins)
	for _, n := range m.NodeList() {
		assert.InDelta(t, 1.0, m.Node(n).H, 1e-15, "mean length of boundary edges")
	}
}

func TestConvexPolygon(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	var pts []mesh2d.Pair
	k := 9
	for i := 0; i < k; i++ {
		a := 2 * math.Pi * float64(i) / float64(k)
		pts = append(pts, mesh2d.P(math.Cos(a), math.Sin(a)))
	}
	m, tri := triangulate(t, pts)
	checkCells(t, m, k-2, 0.5*float64(k)*math.Sin(2*math.Pi/float64(k)))
	assert.Equal(t, 0, tri.Stats().MaxWaiting)
}

func TestLShape(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m, _ := triangulate(t, []mesh2d.Pair{
		mesh2d.P(0, 0), mesh2d.P(2, 0), mesh2d.P(2, 1),
		mesh2d.P(1, 1), mesh2d.P(1, 2), mesh2d.P(0, 2),
	})
	checkCells(t, m, 4, 3.0)
}

func TestComb(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m, _ := triangulate(t, []mesh2d.Pair{
		mesh2d.P(0, 0), mesh2d.P(5, 0), mesh2d.P(5, 3), mesh2d.P(4, 3),
		mesh2d.P(4, 1), mesh2d.P(3, 1), mesh2d.P(3, 3), mesh2d.P(2, 3),
		mesh2d.P(2, 1), mesh2d.P(1, 1), mesh2d.P(1, 3), mesh2d.P(0, 3),
	})
	checkCells(t, m, 10, 11.0)
}

func TestSquareWithHole(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m, tri := triangulate(t, box(0, 0, 4, 4, false), box(1, 1, 3, 3, true))
	checkCells(t, m, 8, 12.0)
	assert.Equal(t, 1, tri.Stats().Joins)
	assert.Equal(t, 4, tri.Stats().MaxWaiting)
}

func TestTwoHoles(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m, tri := triangulate(t, box(0, 0, 6, 3, false), box(1, 1, 2, 2, true), box(4, 1, 5, 2, true))
	checkCells(t, m, 14, 16.0)
	assert.Equal(t, 2, tri.Stats().Joins)
}

func TestCellHook(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m := topo.NewMesh(nil)
	tri := New(m)
	var seen []topo.CellRef
	tri.CellHook = func(c topo.CellRef) {
		assert.True(t, m.Bad.Contains(c))
		seen = append(seen, c)
	}
	addLoop(t, tri, box(0, 0, 1, 1, false)...)
	_, err := tri.Generate()
	assert.NoError(t, err)
	assert.Len(t, seen, 2)
}

func TestEmptyFront(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	tri := New(topo.NewMesh(nil))
	ok, err := tri.Generate()
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestShortFront(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m := topo.NewMesh(nil)
	tri := New(m)
	tri.BeginFront()
	tri.AddToFront(mesh2d.P(0, 0), 0, mesh2d.BC{})
	tri.AddToFront(mesh2d.P(1, 0), 0, mesh2d.BC{})
	err := tri.EndFront()
	assert.True(t, errors.Is(err, ErrShortFront))
	assert.True(t, tri.Front.Empty())
	assert.Equal(t, 0, m.LinkCount())
}

func TestClockwiseOuterLoop(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m := topo.NewMesh(nil)
	tri := New(m)
	addLoop(t, tri, box(0, 0, 1, 1, true)...)
	ok, err := tri.Generate()
	assert.False(t, ok)
	assert.True(t, errors.Is(err, ErrIncomplete))
}

func TestFindInFront(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m := topo.NewMesh(nil)
	tri := New(m)
	addLoop(t, tri, box(0, 0, 1, 1, false)...)
	n := m.NodeList()
	l, ok := tri.Front.Find(n[1], n[2])
	assert.True(t, ok)
	assert.Equal(t, n[1], m.LinkNode(l))
	_, ok = tri.Front.Find(n[2], n[1])
	assert.False(t, ok)
	assert.Equal(t, 4, tri.Front.Size())
}

func TestCollinearNodeIsReflex(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m := topo.NewMesh(nil)
	tri := New(m)
	tri.BeginFront()
	tri.AddToFront(mesh2d.P(0, 0), 0, mesh2d.BC{Type: mesh2d.BCWall})
	tri.AddToFront(mesh2d.P(1, -1), 0, mesh2d.BC{Type: mesh2d.BCWall})
	tri.AddToFront(mesh2d.P(2, 0), 0, mesh2d.BC{Type: mesh2d.BCWall})
	// slightly above the line from (2,0) to (0,0), interior angle a few ulps below π
	flat := tri.AddToFront(mesh2d.P(1, 1e-16), 0, mesh2d.BC{Type: mesh2d.BCWall})
	assert.NoError(t, tri.EndFront())
	tri.initialize()
	assert.Equal(t, 3, tri.convex.Size())
	assert.Equal(t, 1, tri.reflex.Size())
	assert.Equal(t, flat, m.LinkNode(tri.reflex.First()))
	tri.convex.Clear()
	tri.reflex.Clear()
	//
	m, _ = triangulate(t, []mesh2d.Pair{
		mesh2d.P(0, 0), mesh2d.P(1, -1), mesh2d.P(2, 0), mesh2d.P(1, 1e-16),
	})
	checkCells(t, m, 2, 1.0)
}

func TestRefinedTriangle(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	for k := 1; k <= 10; k++ {
		outer := polygon.NullPolygon().Knot(mesh2d.P(0, 0)).Knot(mesh2d.P(3, 0.1*float64(k))).
			Knot(mesh2d.P(0, 7)).Cycle().Refined(0.3)
		m := topo.NewMesh(nil)
		tri := New(m)
		assert.NoError(t, polygon.NewDomain(outer).AddTo(tri))
		ok, err := tri.Generate()
		assert.NoError(t, err)
		assert.True(t, ok)
		checkCells(t, m, outer.N()-2, outer.Area())
	}
}

// starPolygon creates a random star-shaped loop around the origin. Radii
// vary between rmin and rmax, so the loop is mostly non-convex.
func starPolygon(rnd *rand.Rand, k int, rmin, rmax float64) *polygon.Polygon {
	pg := polygon.NullPolygon()
	for i := 0; i < k; i++ {
		a := 2 * math.Pi * (float64(i) + 0.8*rnd.Float64()) / float64(k)
		r := rmin + (rmax-rmin)*rnd.Float64()
		pg.Knot(mesh2d.P(r*math.Cos(a), r*math.Sin(a)))
	}
	return pg.Cycle()
}

func TestRandomStarPolygons(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	rnd := rand.New(rand.NewSource(4711))
	for i := 0; i < 100; i++ {
		d := polygon.NewDomain(starPolygon(rnd, 8+rnd.Intn(20), 1, 4).Refined(0.2 + rnd.Float64()))
		if i%2 == 1 {
			d.Holes = append(d.Holes, polygon.Box(mesh2d.P(-0.4, -0.3), mesh2d.P(0.3, 0.4)).Refined(0.25))
		}
		d.Normalize()
		assert.NoError(t, d.Validate(), "case %d", i)
		m := topo.NewMesh(nil)
		tri := New(m)
		assert.NoError(t, d.AddTo(tri))
		ok, err := tri.Generate()
		assert.NoError(t, err, "case %d", i)
		assert.True(t, ok, "case %d", i)
		n := len(m.NodeList())
		assert.Equal(t, n-2+2*len(d.Holes), m.Bad.Size(), "case %d", i)
		sum := 0.0
		m.Bad.Each(func(c topo.CellRef) bool {
			cell := m.Cell(c)
			a, b, cc := m.Pos(cell.Face[0].Node), m.Pos(cell.Face[1].Node), m.Pos(cell.Face[2].Node)
			assert.Equal(t, 1, mesh2d.Orientation(a, b, cc), "case %d, cell %d", i, cell.ID)
			sum += m.Area(c)
			return true
		})
		assert.InDelta(t, d.Area(), sum, 1e-9, "case %d", i)
		assert.NoError(t, m.Check(), "case %d", i)
		if t.Failed() {
			t.Logf("failing loop: %s", polygon.AsString(d.Outer))
			break
		}
	}
}
