package spline

import (
	"math"

	"github.com/npillmayer/mesh2d"
	"github.com/npillmayer/mesh2d/topo"
)

// At returns the point of a solved curve at curve parameter u. Parameters
// outside of [0, N) wrap around.
func (c *Curve) At(u float64) mesh2d.Pair {
	if !c.IsSolved() {
		panic(ErrNotSolved)
	}
	n := float64(c.N())
	u = math.Mod(u, n)
	if u < 0 {
		u += n
	}
	i := int(math.Floor(u))
	t := u - float64(i)
	return bezier(c.Z(i), c.PostControl(i), c.PreControl(i+1), c.Z(i+1), t)
}

func bezier(p0, p1, p2, p3 mesh2d.Pair, t float64) mesh2d.Pair {
	s := 1 - t
	return p0.Scaled(s*s*s) + p1.Scaled(3*s*s*t) + p2.Scaled(3*s*t*t) + p3.Scaled(t*t*t)
}

// Sample returns k points per segment of a solved curve, starting at knot 0,
// together with their curve parameters. The points run around the curve in
// knot order; the first point is not repeated at the end.
func (c *Curve) Sample(k int) ([]mesh2d.Pair, []float64) {
	if k < 1 {
		k = 1
	}
	cnt := c.N() * k
	pts := make([]mesh2d.Pair, 0, cnt)
	params := make([]float64, 0, cnt)
	for j := 0; j < cnt; j++ {
		u := float64(j) / float64(k)
		pts = append(pts, c.At(u))
		params = append(params, u)
	}
	return pts, params
}

// MidParam returns the curve parameter halfway between u0 and u1, taking the
// shorter way around a curve with n knots.
func MidParam(u0, u1 float64, n int) float64 {
	nn := float64(n)
	if math.Abs(u1-u0) > nn/2 {
		if u0 < u1 {
			u0 += nn
		} else {
			u1 += nn
		}
	}
	return math.Mod(0.5*(u0+u1), nn)
}

// BoundaryInterpolator places the mid-edge nodes of boundary edges on the
// curves the edges have been sampled from. Curves are looked up by the
// surface id of the boundary nodes; edges of unknown surfaces, or joining
// different surfaces, are kept straight.
type BoundaryInterpolator struct {
	Curves map[int]*Curve
}

// NewBoundaryInterpolator creates an interpolator for curves, which are
// registered with the surface id of their boundary condition.
func NewBoundaryInterpolator(curves ...*Curve) *BoundaryInterpolator {
	bi := &BoundaryInterpolator{Curves: make(map[int]*Curve)}
	for _, c := range curves {
		bi.Curves[c.BC.Surface] = c
	}
	return bi
}

// Interpolate is part of interface topo.Interpolator.
func (bi *BoundaryInterpolator) Interpolate(a, b, mid *topo.Node) {
	c, found := bi.Curves[a.BC.Surface]
	if !found || a.BC.Surface != b.BC.Surface || !c.IsSolved() {
		topo.StraightEdges.Interpolate(a, b, mid)
		return
	}
	mid.Param = MidParam(a.Param, b.Param, c.N())
	mid.P = c.At(mid.Param)
	mid.BC = mesh2d.BC{Type: a.BC.Type & b.BC.Type, Surface: a.BC.Surface}
}
