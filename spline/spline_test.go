package spline

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/npillmayer/mesh2d"
	"github.com/npillmayer/mesh2d/topo"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func circle() *Curve {
	return Closed().Knot(mesh2d.P(1, 0)).Knot(mesh2d.P(0, 1)).Knot(mesh2d.P(-1, 0)).
		Knot(mesh2d.P(0, -1)).Cycle()
}

func TestBuilder(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := circle()
	assert.Equal(t, 4, c.N())
	assert.False(t, c.IsSolved())
	assert.Equal(t, "(1,0) .. (0,1) .. (-1,0) .. (0,-1) .. cycle", AsString(c))
	assert.Equal(t, mesh2d.P(0, -1), c.Z(-1))
	assert.Panics(t, func() { c.Knot(mesh2d.P(2, 2)) })
}

func TestValidate(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := Closed().Knot(mesh2d.P(0, 0)).Knot(mesh2d.P(1, 0)).Cycle()
	assert.True(t, errors.Is(c.Solve(), ErrTooFewKnots))
	c = Closed().Knot(mesh2d.P(0, 0)).Knot(mesh2d.P(1, 0)).Knot(mesh2d.P(1, 1)).Knot(mesh2d.P(0, 0)).Cycle()
	assert.True(t, errors.Is(c.Solve(), ErrDuplicateTerminalKnot))
	c = Closed().Knot(mesh2d.P(0, 0)).Knot(mesh2d.P(1, 0)).Knot(mesh2d.P(1, 0)).Knot(mesh2d.P(0, 1)).Cycle()
	assert.True(t, errors.Is(c.Solve(), ErrDegenerateSegment))
	c = Closed().Knot(mesh2d.P(0, 0)).Knot(mesh2d.P(math.NaN(), 0)).Knot(mesh2d.P(0, 1)).Cycle()
	assert.True(t, errors.Is(c.Solve(), ErrInvalidKnot))
	assert.False(t, c.IsSolved())
}

func TestCircleControls(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := Closed().Knot(mesh2d.P(1, 1)).Knot(mesh2d.P(2, 2)).Knot(mesh2d.P(3, 1)).
		Knot(mesh2d.P(2, 0)).Cycle()
	assert.NoError(t, c.Solve())
	t.Log(AsString(c))
	assert.InDelta(t, 1.0, c.PostControl(0).X(), 1e-4)
	assert.InDelta(t, 1.5523, c.PostControl(0).Y(), 1e-4)
	assert.InDelta(t, 1.4477, c.PreControl(1).X(), 1e-4)
	assert.InDelta(t, 2.0, c.PreControl(1).Y(), 1e-4)
	assert.InDelta(t, 2.5523, c.PostControl(1).X(), 1e-4)
	assert.InDelta(t, 3.0, c.PreControl(2).X(), 1e-4)
	assert.InDelta(t, 1.5523, c.PreControl(2).Y(), 1e-4)
	assert.True(t, strings.HasSuffix(AsString(c), ".. cycle"))
}

func TestEvaluate(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := circle()
	assert.Panics(t, func() { c.At(0.5) })
	assert.NoError(t, c.Solve())
	for i := 0; i < c.N(); i++ {
		assert.InDelta(t, 0.0, mesh2d.Dist(c.Z(i), c.At(float64(i))), 1e-12)
	}
	for _, u := range []float64{0.25, 0.5, 1.75, 3.9, 4.25, -0.5} {
		assert.InDelta(t, 1.0, c.At(u).Norm(), 1e-3, "u = %g", u)
	}
	assert.InDelta(t, 0.0, mesh2d.Dist(c.At(0.5), c.At(4.5)), 1e-12)
	p := c.At(0.5)
	assert.InDelta(t, p.X(), p.Y(), 1e-7, "symmetric segment")
}

func TestSample(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := circle()
	assert.NoError(t, c.Solve())
	pts, params := c.Sample(3)
	assert.Equal(t, 12, len(pts))
	assert.Equal(t, 12, len(params))
	assert.Equal(t, 0.0, params[0])
	assert.InDelta(t, 11.0/3.0, params[11], 1e-15)
	assert.InDelta(t, 0.0, mesh2d.Dist(pts[3], mesh2d.P(0, 1)), 1e-12)
	area := 0.0
	for i := range pts {
		area += mesh2d.Cross(pts[i], pts[(i+1)%len(pts)])
	}
	assert.Greater(t, area, 0.0, "counter-clockwise")
}

func TestMidParam(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	assert.InDelta(t, 1.5, MidParam(1, 2, 4), 1e-15)
	assert.InDelta(t, 3.75, MidParam(3.5, 0, 4), 1e-15)
	assert.InDelta(t, 0.25, MidParam(3.5, 1, 4), 1e-15)
}

func TestBoundaryInterpolator(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := circle().Boundary(mesh2d.BC{Type: mesh2d.BCWall, Surface: 3})
	assert.NoError(t, c.Solve())
	bi := NewBoundaryInterpolator(c)
	a := &topo.Node{P: c.Z(0), Param: 0, BC: c.BC}
	b := &topo.Node{P: c.Z(1), Param: 1, BC: c.BC}
	mid := &topo.Node{}
	bi.Interpolate(a, b, mid)
	assert.Equal(t, 0.5, mid.Param)
	assert.InDelta(t, 1.0, mid.P.Norm(), 1e-3)
	assert.Equal(t, c.BC, mid.BC)
	b.BC.Surface = 4
	bi.Interpolate(a, b, mid)
	assert.Equal(t, mesh2d.P(0.5, 0.5), mid.P, "straight edge between surfaces")
}
