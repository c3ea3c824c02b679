/*
Package fist triangulates the interior of closed fronts by ear clipping
(FIST, Fast Industrial-Strength Triangulation).

A front is a closed loop of links around a polygonal region, counter-clockwise
for the region to be triangulated (holes run clockwise). Several loops may be
added; their union is triangulated, with loops being joined whenever plain ear
clipping gets stuck.

	t := fist.New(mesh)
	t.BeginFront()
	for _, p := range points {
	    t.AddToFront(p, 0, mesh2d.BC{Type: mesh2d.BCWall})
	}
	t.EndFront()
	ok, err := t.Generate()

Triangulation classifies every front link as convex or reflex by the interior
angle at its node. Convex links are clipped smallest angle first, unless a
reflex node lies inside the candidate ear; such links are parked in a waiting
set. When no convex link is left, the first waiting link is joined with a
reflex node inside its ear, which splices two front loops (or two parts of one
loop) together.

Created cells are members of the bad set of the mesh.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package fist

import (
	"errors"
	"fmt"
	"math"

	"github.com/npillmayer/mesh2d"
	"github.com/npillmayer/mesh2d/topo"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'mesh2d.fist'
func tracer() tracing.Trace {
	return tracing.Select("mesh2d.fist")
}

// ErrShortFront is returned for a front loop with less than three nodes.
var ErrShortFront = errors.New("front loop needs at least 3 nodes")

// ErrIncomplete is returned if the front could not be exhausted, which
// indicates invalid input, e.g. a clockwise outer boundary.
var ErrIncomplete = errors.New("triangulation incomplete")

// Stats counts the work of a triangulator.
type Stats struct {
	Cells      int // cells created
	Joins      int // successful front joins
	MaxWaiting int // maximum size of the waiting set
}

// Triangulator is the state of a FIST triangulation over a mesh.
type Triangulator struct {
	Mesh *topo.Mesh
	// Front holds the links to triangulate, ordered by address. It is filled
	// by AddToFront and EndFront, and may be filled directly by clients which
	// build their fronts by hand. Generate consumes it.
	Front *LinkSet
	// CellHook, if set, is called for every cell right after its creation.
	CellHook func(c topo.CellRef)

	convex  *LinkSet
	reflex  *LinkSet
	waiting *LinkSet
	first   topo.LinkRef // first link of the loop under construction
	prev    topo.LinkRef // last link of the loop under construction
	count   int          // links of the loop under construction
	stats   Stats
}

// New creates a triangulator working on mesh m.
func New(m *topo.Mesh) *Triangulator {
	t := &Triangulator{
		Mesh:    m,
		Front:   NewAddrSet(m),
		convex:  newAngleSet(m),
		reflex:  newAngleSet(m),
		waiting: NewAddrSet(m),
	}
	t.BeginFront()
	return t
}

// Stats returns the work counters accumulated over all calls to Generate.
func (t *Triangulator) Stats() Stats {
	return t.stats
}

// === Front construction ====================================================

// BeginFront starts a new front loop.
func (t *Triangulator) BeginFront() {
	t.first, t.prev, t.count = 0, 0, 0
}

// AddToFront appends a new boundary node at p to the current loop and returns
// it. param is the parameter of p along its boundary curve.
func (t *Triangulator) AddToFront(p mesh2d.Pair, param float64, bc mesh2d.BC) topo.NodeRef {
	n := t.Mesh.NewNode(p)
	nd := t.Mesh.Node(n)
	nd.Param = param
	nd.BC = bc
	t.AddNode(n)
	return n
}

// AddNode appends an existing node to the current loop. The node is added to
// the mesh node list.
func (t *Triangulator) AddNode(n topo.NodeRef) {
	t.Mesh.AppendNode(n)
	l := t.Mesh.NewLink(n)
	t.Mesh.Link(l).Prev = t.prev
	if t.prev != 0 {
		t.Mesh.Link(t.prev).Next = l
		t.Front.Insert(t.prev)
		t.addLength(t.prev)
	}
	if t.first == 0 {
		t.first = l
	}
	t.prev = l
	t.count++
}

// EndFront closes the current loop. Loops with less than three nodes are
// dropped and reported as an error; their nodes stay in the mesh.
func (t *Triangulator) EndFront() error {
	defer t.BeginFront()
	if t.count < 3 {
		for l := t.first; l != 0; {
			next := t.Mesh.Link(l).Next
			t.Front.Remove(l)
			t.Mesh.FreeLink(l)
			l = next
		}
		return fmt.Errorf("%w: got %d", ErrShortFront, t.count)
	}
	t.Mesh.SpliceLinks(t.prev, t.first)
	t.Front.Insert(t.prev)
	t.addLength(t.prev)
	tracer().Debugf("closed front loop of %d nodes", t.count)
	return nil
}

// addLength distributes half of the length of the edge of l to each of its
// end nodes, which makes the spacing of boundary nodes the mean length of
// their boundary edges.
func (t *Triangulator) addLength(l topo.LinkRef) {
	lk := t.Mesh.Link(l)
	a := t.Mesh.Node(lk.Node)
	b := t.Mesh.Node(t.Mesh.Link(lk.Next).Node)
	h := 0.5 * mesh2d.Dist(a.P, b.P)
	a.H += h
	b.H += h
}

// === Triangulation =========================================================

// Generate triangulates the front. It returns false without error if the
// front is empty. On success, all front links have been consumed.
func (t *Triangulator) Generate() (ok bool, err error) {
	defer topo.CatchInvariant(&err)
	if t.Front.Empty() {
		tracer().Infof("nothing to do, empty front")
		return false, nil
	}
	cells := t.stats.Cells
	t.initialize()
	m := t.Mesh
	for {
		for !t.convex.Empty() {
			vi := t.convex.PopFirst()
			lk := m.Link(vi)
			vip1, vim1 := lk.Next, lk.Prev
			if t.reflexInCell(vim1, vi, vip1) {
				t.waiting.Insert(vi)
				if t.waiting.Size() > t.stats.MaxWaiting {
					t.stats.MaxWaiting = t.waiting.Size()
				}
				continue
			}
			t.createCell(vi, vip1, vim1)
		}
		if t.waiting.Empty() {
			break
		}
		if !t.joinFronts() {
			topo.Fatalf("fist.generate", "failed to join fronts")
		}
		t.stats.Joins++
	}
	if !t.reflex.Empty() {
		err = fmt.Errorf("%w: %d reflex links left", ErrIncomplete, t.reflex.Size())
		tracer().Errorf(err.Error())
		t.reflex.Clear()
		return false, err
	}
	tracer().Debugf("created %d cells", t.stats.Cells-cells)
	return true, nil
}

func (t *Triangulator) initialize() {
	for _, l := range t.Front.Refs() {
		t.classify(l)
	}
	t.Front.Clear()
}

// straight is the smallest interior angle which counts as reflex. Nodes in
// the middle of a refined straight edge come out a few ulps off π.
const straight = math.Pi - 1e-10

// classify computes the interior angle at the node of l and stores l in the
// convex or reflex set. Collinear nodes are reflex: they must never become
// the tip of an ear, and they block every ear containing them.
func (t *Triangulator) classify(l topo.LinkRef) {
	m := t.Mesh
	lk := m.Link(l)
	p := m.Pos(lk.Node)
	prev, next := m.Pos(m.Link(lk.Prev).Node), m.Pos(m.Link(lk.Next).Node)
	a, b := prev-p, next-p
	lk.Angle = mesh2d.Atan2Pi(mesh2d.Cross(b, a), mesh2d.Dot(a, b))
	if mesh2d.Orientation(prev, p, next) > 0 && lk.Angle < straight {
		t.convex.Insert(l)
	} else {
		t.reflex.Insert(l)
	}
}

// reflexInCell is a predicate: is there a reflex node inside or on the border
// of the triangle (vi, vip1, vim1)?
func (t *Triangulator) reflexInCell(vim1, vi, vip1 topo.LinkRef) bool {
	m := t.Mesh
	ni, nip1, nim1 := m.LinkNode(vi), m.LinkNode(vip1), m.LinkNode(vim1)
	pi, pip1, pim1 := m.Pos(ni), m.Pos(nip1), m.Pos(nim1)
	for _, r := range t.reflex.Refs() {
		n := m.LinkNode(r)
		if n == ni || n == nip1 || n == nim1 {
			continue
		}
		if mesh2d.InTriangle(pi, pip1, pim1, m.Pos(n)) {
			return true
		}
	}
	return false
}

// eraseFromSets removes l from whichever classification set holds it.
func (t *Triangulator) eraseFromSets(l topo.LinkRef) {
	if t.convex.Remove(l) || t.reflex.Remove(l) || t.waiting.Remove(l) {
		return
	}
	topo.Fatalf("fist.erase_link", "link %d not found in classification sets", t.Mesh.Link(l).ID)
}

func (t *Triangulator) newCell(a, b, c topo.NodeRef) topo.CellRef {
	cell := t.Mesh.NewBadCell(a, b, c)
	t.stats.Cells++
	if t.CellHook != nil {
		t.CellHook(cell)
	}
	return cell
}

// createCell clips the ear at vi.
func (t *Triangulator) createCell(vi, vip1, vim1 topo.LinkRef) {
	m := t.Mesh
	c := t.newCell(m.LinkNode(vi), m.LinkNode(vip1), m.LinkNode(vim1))
	t.eraseFromSets(vim1)
	t.eraseFromSets(vip1)
	m.Attach(topo.FaceOf(c, 1), m.Link(vim1).Adj)
	m.Attach(topo.FaceOf(c, 2), m.Link(vi).Adj)
	if m.Link(vip1).Next == vim1 { // last triangle of this loop
		m.Attach(topo.FaceOf(c, 0), m.Link(vip1).Adj)
		m.FreeLink(vi)
		m.FreeLink(vip1)
		m.FreeLink(vim1)
		return
	}
	m.SpliceLinks(vim1, vip1)
	m.Link(vim1).Adj = topo.FaceOf(c, 0)
	t.classify(vip1)
	t.classify(vim1)
	m.FreeLink(vi)
}
