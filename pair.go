package mesh2d

import (
	"fmt"
	"math"
	"math/cmplx"
)

// === Numeric Data Type =====================================================

// Deg2Rad converts degrees to radians.
const Deg2Rad = math.Pi / 180

// Epsilon : numbers below ε are considered 0 when comparing coordinates.
// It is much coarser than MeshEps, which is used by the predicates only.
var Epsilon float64 = 0.0000001

// Is0 is a predicate: is n = 0 ?
func Is0(n float64) bool {
	return math.Abs(n) <= Epsilon
}

// === Pair Data Type ========================================================

// Pair is a 2D point or vector. It is a value type without identity.
type Pair complex128

// Origin represents the frequently used constant (0,0).
var Origin = P(0, 0)

// Pretty Stringer for simple pairs.
func (p Pair) String() string {
	return fmt.Sprintf("(%g,%g)", real(p), imag(p))
}

// C returns a Pair as a complex number.
func (p Pair) C() complex128 {
	return complex128(p)
}

// P is a quick notation for contructing a pair from floats.
func P(x, y float64) Pair {
	return Pair(complex(x, y))
}

// X is the x-part of a pair.
func (p Pair) X() float64 {
	return real(p)
}

// Y is the y-part of a pair.
func (p Pair) Y() float64 {
	return imag(p)
}

// IsValid is false for pairs containing NaN or Inf.
func (p Pair) IsValid() bool {
	return !cmplx.IsNaN(p.C()) && !cmplx.IsInf(p.C())
}

// Equal compares two pairs within Epsilon.
func (p Pair) Equal(p2 Pair) bool {
	return Is0(p.X()-p2.X()) && Is0(p.Y()-p2.Y())
}

// Scaled returns a new pair scaled by factor a.
func (p Pair) Scaled(a float64) Pair {
	return P(p.X()*a, p.Y()*a)
}

// Norm is the Euclidean length of p.
func (p Pair) Norm() float64 {
	return math.Hypot(p.X(), p.Y())
}

// Norm2 is the squared Euclidean length of p.
func (p Pair) Norm2() float64 {
	return p.X()*p.X() + p.Y()*p.Y()
}

// === Affine Transformations ================================================

// AT is an affine transform of the plane, used for placing boundary loops
// before meshing. A point (x,y) is mapped to
//
//	(at[0]·x + at[1]·y + at[2], at[3]·x + at[4]·y + at[5])
type AT [6]float64

// Identity maps every point onto itself.
func Identity() AT {
	return AT{1, 0, 0, 0, 1, 0}
}

// Translation shifts points by v.
func Translation(v Pair) AT {
	return AT{1, 0, v.X(), 0, 1, v.Y()}
}

// Rotation rotates points counter-clockwise around the origin by theta
// radians.
func Rotation(theta float64) AT {
	sin, cos := math.Sincos(theta)
	return AT{cos, -sin, 0, sin, cos, 0}
}

// Scaling scales x and y independently. Negative factors mirror the plane
// and therefore reverse the orientation of loops.
func Scaling(sx, sy float64) AT {
	return AT{sx, 0, 0, 0, sy, 0}
}

func (at AT) String() string {
	return fmt.Sprintf("[%g,%g,%g|%g,%g,%g]", at[0], at[1], at[2], at[3], at[4], at[5])
}

// Combine returns the transform applying at first, then n.
func (at AT) Combine(n AT) AT {
	return AT{
		n[0]*at[0] + n[1]*at[3], n[0]*at[1] + n[1]*at[4], n[0]*at[2] + n[1]*at[5] + n[2],
		n[3]*at[0] + n[4]*at[3], n[3]*at[1] + n[4]*at[4], n[3]*at[2] + n[4]*at[5] + n[5],
	}
}

// Transform maps p.
func (at AT) Transform(p Pair) Pair {
	return P(at[0]*p.X()+at[1]*p.Y()+at[2], at[3]*p.X()+at[4]*p.Y()+at[5])
}

// Preserving is true if at keeps the orientation of the plane.
func (at AT) Preserving() bool {
	return at[0]*at[4]-at[1]*at[3] > 0
}
