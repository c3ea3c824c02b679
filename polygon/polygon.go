/*
Package polygon prepares the boundary loops of a meshing domain.

Loops are built knot by knot:

	pg := NullPolygon().Knot(mesh2d.P(0, 0)).Knot(mesh2d.P(1, 3)).Knot(mesh2d.P(3, 0)).Cycle()

Every knot carries a boundary condition and a curve parameter, both of which
end up in the boundary nodes of the mesh. A Domain collects an outer loop
and any number of holes. Before meshing, a domain is validated and its loops
are oriented: the outer loop counter-clockwise, holes clockwise, so that the
interior of the domain lies to the left of every loop.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package polygon

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/npillmayer/mesh2d"
	"github.com/npillmayer/mesh2d/spline"
	"github.com/npillmayer/schuko/tracing"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// tracer writes to trace with key 'mesh2d.polygon'
func tracer() tracing.Trace {
	return tracing.Select("mesh2d.polygon")
}

var (
	// ErrTooFewKnots indicates a loop of less than 3 knots.
	ErrTooFewKnots = errors.New("loop has too few knots")
	// ErrDegenerate indicates a loop without area.
	ErrDegenerate = errors.New("loop is degenerate")
	// ErrSelfIntersection indicates a loop crossing itself.
	ErrSelfIntersection = errors.New("loop intersects itself")
	// ErrHoleOutside indicates a hole not completely inside the outer loop.
	ErrHoleOutside = errors.New("hole not inside outer loop")
	// ErrHolesOverlap indicates two overlapping holes.
	ErrHolesOverlap = errors.New("holes overlap")
)

// Knot is a vertex of a boundary loop.
type Knot struct {
	P     mesh2d.Pair
	Param float64   // curve parameter
	BC    mesh2d.BC // boundary condition
}

// Polygon is a closed boundary loop.
type Polygon struct {
	knots  []Knot
	bc     mesh2d.BC // boundary condition for subsequent knots
	period float64   // curve parameter range, 0 for N
	cycle  bool
}

// NullPolygon creates an empty polygon, to be extended by subsequent builder
// calls. Knots get a wall boundary condition unless set otherwise with
// Boundary.
func NullPolygon() *Polygon {
	return &Polygon{bc: mesh2d.BC{Type: mesh2d.BCWall}}
}

// Knot adds a knot to a polygon. Its curve parameter is the knot's index.
// Part of builder functionality.
func (pg *Polygon) Knot(p mesh2d.Pair) *Polygon {
	return pg.ParamKnot(p, float64(pg.N()))
}

// ParamKnot adds a knot with curve parameter u to a polygon.
// Part of builder functionality.
func (pg *Polygon) ParamKnot(p mesh2d.Pair, u float64) *Polygon {
	if pg.cycle {
		panic("cannot add knot to closed polygon")
	}
	pg.knots = append(pg.knots, Knot{P: p, Param: u, BC: pg.bc})
	return pg
}

// Boundary sets the boundary condition of subsequent knots.
// Part of builder functionality.
func (pg *Polygon) Boundary(bc mesh2d.BC) *Polygon {
	pg.bc = bc
	return pg
}

// Cycle closes a polygon. Part of builder functionality.
func (pg *Polygon) Cycle() *Polygon {
	pg.cycle = true
	return pg
}

// IsCycle is a predicate: is this polygon closed?
func (pg *Polygon) IsCycle() bool {
	return pg.cycle
}

// N returns the number of knots.
func (pg *Polygon) N() int {
	return len(pg.knots)
}

// Pt returns the position of knot (i mod N).
func (pg *Polygon) Pt(i int) mesh2d.Pair {
	return pg.At(i).P
}

// At returns knot (i mod N).
func (pg *Polygon) At(i int) Knot {
	n := pg.N()
	return pg.knots[((i%n)+n)%n]
}

// Period returns the range of curve parameters of the loop. Unless sampled
// from a curve, this is N.
func (pg *Polygon) Period() float64 {
	if pg.period > 0 {
		return pg.period
	}
	return float64(pg.N())
}

// Box creates a rectangle from two opposite corners. The rectangle runs
// counter-clockwise, starting at its lower left corner.
func Box(p0, p1 mesh2d.Pair) *Polygon {
	xmin, xmax := minmax(p0.X(), p1.X())
	ymin, ymax := minmax(p0.Y(), p1.Y())
	return NullPolygon().Knot(mesh2d.P(xmin, ymin)).Knot(mesh2d.P(xmax, ymin)).
		Knot(mesh2d.P(xmax, ymax)).Knot(mesh2d.P(xmin, ymax)).Cycle()
}

func minmax(a, b float64) (float64, float64) {
	if a > b {
		return b, a
	}
	return a, b
}

// FromCurve samples a solved spline curve with k knots per curve segment.
// Knots inherit the curve's boundary condition and their curve parameter.
func FromCurve(c *spline.Curve, k int) (*Polygon, error) {
	if !c.IsSolved() {
		if err := c.Solve(); err != nil {
			return nil, err
		}
	}
	pts, params := c.Sample(k)
	pg := NullPolygon().Boundary(c.BC)
	pg.period = float64(c.N())
	for i, p := range pts {
		pg.ParamKnot(p, params[i])
	}
	return pg.Cycle(), nil
}

// Refined returns a copy of pg in which every edge longer than h is split
// into equal parts. Curve parameters and boundary conditions of inserted knots
// are interpolated from the edge's end knots.
func (pg *Polygon) Refined(h float64) *Polygon {
	r := &Polygon{bc: pg.bc, period: pg.Period()}
	for i := 0; i < pg.N(); i++ {
		k0, k1 := pg.At(i), pg.At(i+1)
		r.knots = append(r.knots, k0)
		parts := int(mesh2d.Dist(k0.P, k1.P) / h)
		if mesh2d.Dist(k0.P, k1.P) > float64(parts)*h {
			parts++
		}
		u1 := k1.Param
		if u1 <= k0.Param {
			u1 += pg.Period() // closing edge
		}
		for j := 1; j < parts; j++ {
			t := float64(j) / float64(parts)
			r.knots = append(r.knots, Knot{
				P:     k0.P + (k1.P - k0.P).Scaled(t),
				Param: math.Mod(k0.Param+t*(u1-k0.Param), pg.Period()),
				BC:    mesh2d.BC{Type: k0.BC.Type & k1.BC.Type, Surface: k0.BC.Surface},
			})
		}
	}
	r.cycle = pg.cycle
	return r
}

// Ring returns the loop as a closed orb ring.
func (pg *Polygon) Ring() orb.Ring {
	ring := make(orb.Ring, 0, pg.N()+1)
	for _, k := range pg.knots {
		ring = append(ring, orb.Point{k.P.X(), k.P.Y()})
	}
	if pg.N() > 0 {
		ring = append(ring, ring[0])
	}
	return ring
}

// Area returns the signed area of the loop, positive for counter-clockwise
// loops.
func (pg *Polygon) Area() float64 {
	if pg.N() < 3 {
		return 0
	}
	return planar.Area(pg.Ring())
}

// IsCCW is a predicate: does the loop run counter-clockwise?
func (pg *Polygon) IsCCW() bool {
	return pg.N() >= 3 && pg.Ring().Orientation() == orb.CCW
}

// Reverse reverses the orientation of the loop in place, keeping its first
// knot.
func (pg *Polygon) Reverse() *Polygon {
	for i, j := 1, pg.N()-1; i < j; i, j = i+1, j-1 {
		pg.knots[i], pg.knots[j] = pg.knots[j], pg.knots[i]
	}
	return pg
}

// Transformed returns a copy of pg with every knot mapped by at. The copy is
// detached from any curve, its knot parameters are renumbered by index. A
// mirroring transform reverses the knot order, so the copy keeps the
// orientation of pg.
func (pg *Polygon) Transformed(at mesh2d.AT) *Polygon {
	r := &Polygon{bc: pg.bc, cycle: pg.cycle, knots: make([]Knot, pg.N())}
	for i, k := range pg.knots {
		r.knots[i] = Knot{P: at.Transform(k.P), BC: k.BC}
	}
	if !at.Preserving() {
		r.Reverse()
	}
	for i := range r.knots {
		r.knots[i].Param = float64(i)
	}
	return r
}

// Contains is a predicate: is p inside the loop?
func (pg *Polygon) Contains(p mesh2d.Pair) bool {
	return planar.RingContains(pg.Ring(), orb.Point{p.X(), p.Y()})
}

// SelfIntersects is a predicate: do any two non-adjacent edges of the loop
// intersect or touch?
func (pg *Polygon) SelfIntersects() bool {
	n := pg.N()
	for i := 0; i < n; i++ {
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue // adjacent through the closing edge
			}
			if edgesMeet(pg.Pt(i), pg.Pt(i+1), pg.Pt(j), pg.Pt(j+1)) {
				tracer().Debugf("edges %d and %d of loop meet", i, j)
				return true
			}
		}
	}
	return false
}

// collinearTol is the sine of the largest angle under which three points
// still count as collinear.
const collinearTol = 1e-10

// side tells on which side of the line through a and b point c is: +1 for
// left, −1 for right, 0 for (almost) on the line.
func side(a, b, c mesh2d.Pair) int {
	ab, ac := b-a, c-a
	cr := mesh2d.Cross(ab, ac)
	if math.Abs(cr) <= collinearTol*ab.Norm()*ac.Norm() {
		return 0
	}
	if cr > 0 {
		return 1
	}
	return -1
}

// within is a predicate: does c, known to be collinear with a and b, lie
// between them?
func within(a, b, c mesh2d.Pair) bool {
	ab := b - a
	t := mesh2d.Dot(c-a, ab)
	return t >= 0 && t <= ab.Norm2()
}

// edgesMeet is a predicate: do segments p0p1 and q0q1 have a point in
// common? Crossings are decided by the sides of the four end points, which
// keeps nearly parallel edges of refined straight lines apart.
func edgesMeet(p0, p1, q0, q1 mesh2d.Pair) bool {
	s0, s1 := side(p0, p1, q0), side(p0, p1, q1)
	s2, s3 := side(q0, q1, p0), side(q0, q1, p1)
	if s0*s1 < 0 && s2*s3 < 0 {
		return true
	}
	return s0 == 0 && within(p0, p1, q0) ||
		s1 == 0 && within(p0, p1, q1) ||
		s2 == 0 && within(q0, q1, p0) ||
		s3 == 0 && within(q0, q1, p1)
}

// AsString returns a polygon as a (debugging) string.
func AsString(pg *Polygon) string {
	var sb strings.Builder
	for i, k := range pg.knots {
		if i > 0 {
			sb.WriteString(" -- ")
		}
		sb.WriteString(fmt.Sprintf("(%.4g,%.4g)", k.P.X(), k.P.Y()))
	}
	if pg.cycle {
		sb.WriteString(" -- cycle")
	}
	return sb.String()
}
