package spline

import (
	"math"
	"math/cmplx"

	"github.com/npillmayer/mesh2d"
)

const (
	pi  float64 = 3.14159265
	pi2 float64 = 6.28318530
)

// Solve finds the control points of a closed curve. The curve is validated
// first; an invalid curve is left unsolved.
//
// The unknowns are the angles θ_i between the outgoing tangent at knot i and
// the chord from knot i to knot i+1. Mock curvature continuity at every knot
// yields a cyclic tridiagonal system, which is solved by forward elimination
// carrying the cyclic coupling in a third coefficient vector w.
func (c *Curve) Solve() error {
	if err := c.Validate(); err != nil {
		return err
	}
	n := c.N()
	u := make([]float64, n+2)
	v := make([]float64, n+2)
	w := make([]float64, n+2)
	theta := make([]float64, n+2)
	c.buildEqs(u, v, w)
	c.endCycle(theta, u, v, w)
	c.setControls(theta)
	tracer().Debugf("curve = %s", AsString(c))
	return nil
}

func (c *Curve) buildEqs(u, v, w []float64) {
	n := c.N()
	a := recip(c.tension)
	u[0], v[0], w[0] = 0, 0, 1
	for i := 1; i <= n; i++ {
		A := a / (square(a) * c.d(i-1))
		B := (3 - a) / (square(a) * c.d(i-1))
		C := (3 - a) / (square(a) * c.d(i))
		D := a / (square(a) * c.d(i))
		t := B - u[i-1]*A + C
		u[i] = D / t
		v[i] = (-B*c.psi(i) - D*c.psi(i+1) - A*v[i-1]) / t
		w[i] = -A * w[i-1] / t
	}
}

func (c *Curve) endCycle(theta, u, v, w []float64) {
	n := c.N()
	var a, b float64 = 0, 1
	for i := n; i > 0; i-- {
		a = v[i] - a*u[i]
		b = w[i] - b*u[i]
	}
	t0 := (v[n] - a*u[n]) / (1 - (w[n] - b*u[n]))
	v[0] = t0
	for i := 1; i <= n; i++ {
		v[i] += w[i] * t0
	}
	theta[0], theta[n] = t0, t0
	for i := n - 1; i > 0; i-- {
		theta[i] = v[i] - u[i]*theta[i+1]
	}
}

func (c *Curve) setControls(theta []float64) {
	n := c.N()
	c.postc = make([]mesh2d.Pair, n)
	c.prec = make([]mesh2d.Pair, n)
	a := recip(c.tension)
	for i := 0; i < n; i++ {
		phi := -c.psi(i+1) - theta[i+1]
		p2, p3 := controlPoints(phi, theta[i], a, a, c.delta(i))
		c.postc[i] = c.Z(i) + p2
		c.prec[(i+1)%n] = c.Z(i+1) - p3
	}
}

func (c *Curve) delta(i int) mesh2d.Pair {
	return c.Z(i+1) - c.Z(i)
}

func (c *Curve) d(i int) float64 {
	return c.delta(i).Norm()
}

// Turning angle at z.i.
func (c *Curve) psi(i int) float64 {
	return reduceAngle(cmplx.Phase(c.delta(i).C()) - cmplx.Phase(c.delta(i-1).C()))
}

// Empiric constants, as explained by J. Hobby.
func hobbyParamsAlphaBeta(theta, phi float64) (float64, float64) {
	const (
		constA  = 1.41421356    // sqrt(2)
		constB  = 0.0625        // 1/16
		constC  = 0.38196601125 // (3 - sqrt(5)) / 2
		constCC = 0.61803398875 // 1 - c
	)
	st, ct := math.Sin(theta), math.Cos(theta)
	sf, cf := math.Sin(phi), math.Cos(phi)
	alpha := constA * (st - constB*sf) * (sf - constB*st) * (ct - cf)
	beta := 1 + constCC*ct + constC*cf
	return alpha, beta
}

// Calculate the control point offsets between z.i and z.[i+1].
func controlPoints(phi, theta, a, b float64, dvec mesh2d.Pair) (mesh2d.Pair, mesh2d.Pair) {
	alpha, beta := hobbyParamsAlphaBeta(theta, phi)
	rho, sigma := (2+alpha)/beta, (2-alpha)/beta
	st, ct := math.Sin(theta), math.Cos(theta)
	sf, cf := math.Sin(phi), math.Cos(phi)
	dx, dy := dvec.X(), dvec.Y()
	uv1 := mesh2d.P(dx*ct-dy*st, dx*st+dy*ct)
	uv2 := mesh2d.P(dx*cf+dy*sf, -dx*sf+dy*cf)
	return uv1.Scaled(a / 3 * rho), uv2.Scaled(b / 3 * sigma)
}

// Reduce an angle to fit into -pi .. pi.
func reduceAngle(a float64) float64 {
	if math.Abs(a) > pi {
		if a > 0 {
			a -= pi2
		} else {
			a += pi2
		}
	}
	return a
}

func recip(a float64) float64 {
	if math.IsNaN(a) {
		return 1.0
	}
	return 1.0 / a
}

func square(a float64) float64 {
	return a * a
}
