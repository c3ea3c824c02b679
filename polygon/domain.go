package polygon

import (
	"fmt"
	"math"

	"github.com/akavel/polyclip-go"
	"github.com/npillmayer/mesh2d"
	"github.com/npillmayer/mesh2d/topo"
	"github.com/paulmach/orb"
)

// Domain is a meshing domain, bounded by an outer loop and possibly
// containing holes.
type Domain struct {
	Outer *Polygon
	Holes []*Polygon
}

// NewDomain creates a domain from its outer loop and holes.
func NewDomain(outer *Polygon, holes ...*Polygon) *Domain {
	return &Domain{Outer: outer, Holes: holes}
}

// Loops returns the outer loop followed by the holes.
func (d *Domain) Loops() []*Polygon {
	return append([]*Polygon{d.Outer}, d.Holes...)
}

// Area returns the area of the domain.
func (d *Domain) Area() float64 {
	a := math.Abs(d.Outer.Area())
	for _, h := range d.Holes {
		a -= math.Abs(h.Area())
	}
	return a
}

// Transformed returns a copy of d with all loops mapped by at.
func (d *Domain) Transformed(at mesh2d.AT) *Domain {
	t := NewDomain(d.Outer.Transformed(at))
	for _, h := range d.Holes {
		t.Holes = append(t.Holes, h.Transformed(at))
	}
	tracer().Debugf("domain placed by %v", at)
	return t
}

// Normalize orients the loops of d: the outer loop counter-clockwise, holes
// clockwise.
func (d *Domain) Normalize() *Domain {
	if !d.Outer.IsCCW() {
		d.Outer.Reverse()
	}
	for _, h := range d.Holes {
		if h.IsCCW() {
			h.Reverse()
		}
	}
	return d
}

// Validate checks every loop for a minimum of 3 knots, a non-zero area and
// the absence of self-intersections. Holes must lie within the outer loop and
// must not overlap each other.
func (d *Domain) Validate() error {
	for i, l := range d.Loops() {
		if l.N() < 3 {
			return fmt.Errorf("%w: loop %d has %d knots", ErrTooFewKnots, i, l.N())
		}
		if math.Abs(l.Area()) <= mesh2d.MeshEps {
			return fmt.Errorf("%w: loop %d", ErrDegenerate, i)
		}
		if l.SelfIntersects() {
			return fmt.Errorf("%w: loop %d", ErrSelfIntersection, i)
		}
	}
	outer := polyclip.Polygon{d.Outer.contour()}
	obox := outer.BoundingBox()
	for i, h := range d.Holes {
		hole := polyclip.Polygon{h.contour()}
		hbox := hole.BoundingBox()
		if hbox.Min.X < obox.Min.X || hbox.Min.Y < obox.Min.Y ||
			hbox.Max.X > obox.Max.X || hbox.Max.Y > obox.Max.Y {
			return fmt.Errorf("%w: hole %d", ErrHoleOutside, i)
		}
		if rest := hole.Construct(polyclip.DIFFERENCE, outer); rest.NumVertices() > 0 {
			return fmt.Errorf("%w: hole %d", ErrHoleOutside, i)
		}
		for j := i + 1; j < len(d.Holes); j++ {
			other := polyclip.Polygon{d.Holes[j].contour()}
			if !hbox.Overlaps(other.BoundingBox()) {
				continue
			}
			if common := hole.Construct(polyclip.INTERSECTION, other); common.NumVertices() > 0 {
				return fmt.Errorf("%w: holes %d and %d", ErrHolesOverlap, i, j)
			}
		}
	}
	tracer().Debugf("domain of %d loops is valid", len(d.Holes)+1)
	return nil
}

func (pg *Polygon) contour() polyclip.Contour {
	c := make(polyclip.Contour, 0, pg.N())
	for _, k := range pg.knots {
		c = append(c, polyclip.Point{X: k.P.X(), Y: k.P.Y()})
	}
	return c
}

// FromOrb converts an orb polygon into a domain. The first ring is the
// outer loop, all other rings are holes. Knots get boundary condition bc,
// with the ring index as surface id. The domain is normalized but not
// validated.
func FromOrb(p orb.Polygon, bc mesh2d.BC) (*Domain, error) {
	if len(p) == 0 {
		return nil, fmt.Errorf("%w: empty polygon", ErrTooFewKnots)
	}
	var loops []*Polygon
	for i, ring := range p {
		if ring.Closed() {
			ring = ring[:len(ring)-1]
		}
		b := bc
		b.Surface = i
		pg := NullPolygon().Boundary(b)
		for _, pt := range ring {
			pg.Knot(mesh2d.P(pt[0], pt[1]))
		}
		loops = append(loops, pg.Cycle())
	}
	return NewDomain(loops[0], loops[1:]...).Normalize(), nil
}

// Fronter ingests boundary loops, as fist.Triangulator does.
type Fronter interface {
	BeginFront()
	AddToFront(p mesh2d.Pair, param float64, bc mesh2d.BC) topo.NodeRef
	EndFront() error
}

// AddTo feeds the loops of d to f, one front per loop.
func (d *Domain) AddTo(f Fronter) error {
	for i, l := range d.Loops() {
		f.BeginFront()
		for _, k := range l.knots {
			f.AddToFront(k.P, k.Param, k.BC)
		}
		if err := f.EndFront(); err != nil {
			return fmt.Errorf("loop %d: %w", i, err)
		}
	}
	return nil
}
