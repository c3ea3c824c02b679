package mesh2d

import "math"

// Cross is the z-component of the cross product a × b.
func Cross(a, b Pair) float64 {
	return a.X()*b.Y() - a.Y()*b.X()
}

// Dot is the dot product a · b.
func Dot(a, b Pair) float64 {
	return a.X()*b.X() + a.Y()*b.Y()
}

// Dist is the Euclidean distance between a and b.
func Dist(a, b Pair) float64 {
	return (b - a).Norm()
}

// Dist2 is the squared Euclidean distance between a and b.
func Dist2(a, b Pair) float64 {
	return (b - a).Norm2()
}

// Mid returns the midpoint of segment ab.
func Mid(a, b Pair) Pair {
	return P(0.5*(a.X()+b.X()), 0.5*(a.Y()+b.Y()))
}

// Atan2Pi is math.Atan2 mapped to [0,2π).
func Atan2Pi(y, x float64) float64 {
	t := math.Atan2(y, x)
	if t < 0 {
		t += 2 * math.Pi
	}
	return t
}

// SignedArea returns the signed area of triangle abc. It is positive for a
// counter-clockwise triangle.
func SignedArea(a, b, c Pair) float64 {
	return 0.5 * Cross(b-a, c-a)
}

// Orientation returns the orientation of the triangle abc: +1 if c lies to the
// left of the directed line ab, −1 if it lies to the right and 0 if the
// absolute value of twice the signed area does not exceed MeshEps.
func Orientation(a, b, c Pair) int {
	dt := (b.X()-a.X())*(c.Y()-a.Y()) - (b.Y()-a.Y())*(c.X()-a.X())
	if math.Abs(dt) <= MeshEps {
		return 0
	}
	if dt > 0 {
		return 1
	}
	return -1
}

// InTriangle is a predicate: does p lie inside the counter-clockwise triangle abc
// or on its border?
func InTriangle(a, b, c, p Pair) bool {
	return Orientation(a, b, p) >= 0 && Orientation(b, c, p) >= 0 && Orientation(c, a, p) >= 0
}

// Circumcircle returns center and radius of the circle through a, b and c.
// ok is false for collinear points, in which case center and radius are
// meaningless.
func Circumcircle(a, b, c Pair) (center Pair, r float64, ok bool) {
	ba, ca := b-a, c-a
	d := 2 * Cross(ba, ca)
	if d == 0 {
		tracer().Debugf("circumcircle of collinear points %v %v %v", a, b, c)
		return Origin, 0, false
	}
	lb, lc := ba.Norm2(), ca.Norm2()
	u := P((ca.Y()*lb-ba.Y()*lc)/d, (ba.X()*lc-ca.X()*lb)/d)
	return a + u, u.Norm(), true
}

// SegmentsIntersect tests segments p0p1 and q0q1 for a proper or touching
// intersection. Parallel segments, including collinear overlapping ones, are
// reported as not intersecting.
func SegmentsIntersect(p0, p1, q0, q1 Pair) bool {
	d1 := p1 - p0
	d2 := q1 - q0
	d0 := q0 - p0
	den := -d1.X()*d2.Y() + d2.X()*d1.Y()
	if den == 0 {
		return false
	}
	t1 := (-d2.Y()*d0.X() + d2.X()*d0.Y()) / den
	t2 := (-d1.Y()*d0.X() + d1.X()*d0.Y()) / den
	return 0 <= t1 && t1 <= 1 && 0 <= t2 && t2 <= 1
}

// EdgeNormal returns the outward normal of the edge from a to b of a
// counter-clockwise polygon. Its length equals the edge length.
func EdgeNormal(a, b Pair) Pair {
	d := b - a
	return P(d.Y(), -d.X())
}

// InwardNormal returns the unit normal of the directed edge ab pointing to its
// left side, together with the length of the edge.
func InwardNormal(a, b Pair) (Pair, float64) {
	d := b - a
	l := d.Norm()
	return P(-d.Y()/l, d.X()/l), l
}
