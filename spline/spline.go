/*
Package spline provides closed Hobby splines for curved domain boundaries.

A boundary curve is built from its knots, much like a MetaFont path
"z0..z1..z2..cycle":

	c := spline.Closed().Knot(mesh2d.P(1, 0)).Knot(mesh2d.P(0, 1)).Knot(mesh2d.P(-1, 0)).
	    Knot(mesh2d.P(0, -1)).Cycle()
	if err := c.Solve(); err != nil { … }

Solving finds the Bézier control points with John Hobby's algorithm, see

	Smooth, Easy to Compute Interpolating Splines -- John D. Hobby
	Computer Science Dept. Stanford University
	Report No. STAN-CS-85-1047, Jan 1985

Positions on a curve are addressed by a curve parameter u ∈ [0, N) for a
curve of N knots: knot i is at u = i, and u = i + t (0 ≤ t < 1) lies on the
cubic segment from knot i to knot i+1. The parameter is stored with the
boundary nodes of a mesh, which lets BoundaryInterpolator place the mid-edge
nodes of 6-node elements on the curve.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package spline

import (
	"errors"
	"fmt"
	"math"

	"github.com/npillmayer/mesh2d"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'mesh2d.spline'
func tracer() tracing.Trace {
	return tracing.Select("mesh2d.spline")
}

const _epsilon = 0.0000001

var (
	// ErrTooFewKnots indicates a curve with less than 3 knots.
	ErrTooFewKnots = errors.New("curve has too few knots")
	// ErrInvalidKnot indicates a knot coordinate containing NaN/Inf.
	ErrInvalidKnot = errors.New("curve has invalid knot coordinate")
	// ErrDegenerateSegment indicates two consecutive knots collapsing to one point.
	ErrDegenerateSegment = errors.New("curve has degenerate segment")
	// ErrDuplicateTerminalKnot indicates a curve repeating its first knot as last knot.
	ErrDuplicateTerminalKnot = errors.New("closed curve must not repeat first knot as terminal knot")
	// ErrNotSolved indicates evaluation of a curve without control points.
	ErrNotSolved = errors.New("curve control points not yet calculated")
)

// Curve is a closed Hobby spline. To construct a curve, start with Closed(),
// add knots and finish with Cycle().
type Curve struct {
	knots   []mesh2d.Pair
	tension float64
	postc   []mesh2d.Pair // control point after knot i
	prec    []mesh2d.Pair // control point before knot i
	closed  bool
	BC      mesh2d.BC // boundary condition of nodes sampled from the curve
}

// Closed creates an empty curve, to be extended by subsequent builder calls.
func Closed() *Curve {
	return &Curve{tension: 1.0}
}

// Knot adds a knot to a curve. Part of builder functionality.
func (c *Curve) Knot(p mesh2d.Pair) *Curve {
	if c.closed {
		panic("cannot add knot to closed curve")
	}
	c.knots = append(c.knots, p)
	return c
}

// Tension sets a uniform tension for all segments. Tensions are adapted to
// lie between 3/4 and 4. Part of builder functionality.
func (c *Curve) Tension(t float64) *Curve {
	if t < 0.75 {
		t = 0.75
	} else if t > 4.0 {
		t = 4.0
	}
	c.tension = t
	return c
}

// Boundary sets the boundary condition for nodes sampled from the curve.
// Part of builder functionality.
func (c *Curve) Boundary(bc mesh2d.BC) *Curve {
	c.BC = bc
	return c
}

// Cycle closes the curve. Part of builder functionality.
func (c *Curve) Cycle() *Curve {
	c.closed = true
	return c
}

// N returns the number of knots.
func (c *Curve) N() int {
	return len(c.knots)
}

// Z returns knot (i mod N).
func (c *Curve) Z(i int) mesh2d.Pair {
	n := c.N()
	return c.knots[((i%n)+n)%n]
}

// IsSolved is a predicate: have the control points been calculated?
func (c *Curve) IsSolved() bool {
	return c.N() > 0 && len(c.postc) == c.N()
}

// PostControl returns the control point after knot i.
func (c *Curve) PostControl(i int) mesh2d.Pair {
	return c.postc[i%c.N()]
}

// PreControl returns the control point before knot i.
func (c *Curve) PreControl(i int) mesh2d.Pair {
	return c.prec[i%c.N()]
}

// Validate checks if a curve is solvable by Hobby interpolation.
func (c *Curve) Validate() error {
	n := c.N()
	if n < 3 {
		return fmt.Errorf("%w: need at least 3 knots, got %d", ErrTooFewKnots, n)
	}
	for i, z := range c.knots {
		if !z.IsValid() {
			return fmt.Errorf("%w at knot %d", ErrInvalidKnot, i)
		}
	}
	if mesh2d.Dist(c.knots[0], c.knots[n-1]) <= _epsilon {
		return ErrDuplicateTerminalKnot
	}
	for i := 0; i < n; i++ {
		if c.d(i) <= _epsilon {
			return fmt.Errorf("%w between knots %d and %d", ErrDegenerateSegment, i, (i+1)%n)
		}
	}
	return nil
}

// AsString returns a curve, including control points if present, as a
// (debugging) string in MetaFont-like notation.
func AsString(c *Curve) string {
	var s string
	solved := c.IsSolved()
	for i := 0; i < c.N(); i++ {
		if i > 0 {
			if solved {
				s += fmt.Sprintf(" and %s\n  .. ", ptstring(c.PreControl(i), true))
			} else {
				s += " .. "
			}
		}
		s += ptstring(c.Z(i), false)
		if solved {
			s += fmt.Sprintf(" .. controls %s", ptstring(c.PostControl(i), true))
		}
	}
	if solved {
		s += fmt.Sprintf(" and %s\n ", ptstring(c.PreControl(0), true))
	}
	return s + " .. cycle"
}

func ptstring(p mesh2d.Pair, iscontrol bool) string {
	if iscontrol {
		return fmt.Sprintf("(%.4f,%.4f)", round(p.X()), round(p.Y()))
	}
	return fmt.Sprintf("(%.4g,%.4g)", round(p.X()), round(p.Y()))
}

func round(x float64) float64 {
	return math.Round(x*10000.0) / 10000.0
}
