/*
Package delaunay establishes Delaunay conformance on sets of cells by local
edge flips.

A face of a cell is in conflict if the node across it, in the neighbouring
cell, lies strictly inside the circumcircle of the cell. Such a pair of cells
is replaced by the other diagonal of their quadrilateral, provided the
quadrilateral is strictly convex. Flips propagate to the four outer edges of
the quadrilateral.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package delaunay

import (
	"errors"
	"fmt"

	"github.com/npillmayer/mesh2d"
	"github.com/npillmayer/mesh2d/topo"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'mesh2d.delaunay'
func tracer() tracing.Trace {
	return tracing.Select("mesh2d.delaunay")
}

// ErrEmptySet is returned when conformance is requested for an empty cell set.
var ErrEmptySet = errors.New("empty cell set")

// inConflict is a predicate: does the node across face f lie strictly inside
// the circumcircle of the cell of f?
func inConflict(m *topo.Mesh, f topo.FaceRef) bool {
	adj := m.Face(f).Adj
	if adj == 0 {
		return false
	}
	cl := m.Cell(f.Cell())
	p := m.Pos(m.Face(adj).Node)
	return mesh2d.Dist(cl.Center, p) <= cl.R*(1.0-1e-8)
}

// flip swaps the diagonal shared by the cell of f1 and its neighbour. It
// returns the outer faces to check next, or ok=false if the flip was not done.
//
//	       a                   a
//	      / \                 /|\
//	     / 1 \               / | \
//	    b-----d     ⇒      b 1 | 2 d
//	     \ 2 /               \ | /
//	      \ /                 \|/
//	       e                   e
func flip(m *topo.Mesh, f1 topo.FaceRef) (next [2]topo.FaceRef, ok bool) {
	if !inConflict(m, f1) {
		return next, false
	}
	f2 := m.Face(f1).Adj
	c1, c2 := f1.Cell(), f2.Cell()
	a, b, d := m.Face(f1).Node, m.SuccNode(f1), m.PredNode(f1)
	e := m.Face(f2).Node
	pa, pb, pd, pe := m.Pos(a), m.Pos(b), m.Pos(d), m.Pos(e)
	if mesh2d.Orientation(pb, pe, pa) <= 0 || mesh2d.Orientation(pd, pa, pe) <= 0 {
		return next, false // quadrilateral not strictly convex
	}
	tf1 := [3]topo.FaceRef{
		topo.FaceOf(c2, 0),
		m.Face(m.PredFace(f1)).Adj,
		m.Face(m.SuccFace(f2)).Adj,
	}
	tf2 := [3]topo.FaceRef{
		topo.FaceOf(c1, 0),
		m.Face(m.PredFace(f2)).Adj,
		m.Face(m.SuccFace(f1)).Adj,
	}
	m.Relabel(c1, b, e, a)
	m.Relabel(c2, d, a, e)
	for i := 0; i < 3; i++ {
		m.Attach(topo.FaceOf(c1, i), tf1[i])
		m.Attach(topo.FaceOf(c2, i), tf2[i])
	}
	return [2]topo.FaceRef{tf1[2], tf2[1]}, true
}

// GreenSibson flips the edge of face f if it violates the Delaunay criterion,
// and continues with the outer edges of every flipped quadrilateral until no
// more flips happen. Outer edges are visited depth first. GreenSibson reports
// whether f itself has been flipped.
func GreenSibson(m *topo.Mesh, f topo.FaceRef) bool {
	next, ok := flip(m, f)
	if !ok {
		return false
	}
	var stack []topo.FaceRef
	push := func(faces [2]topo.FaceRef) {
		// faces[0] must be popped first
		if faces[1] != 0 {
			stack = append(stack, faces[1])
		}
		if faces[0] != 0 {
			stack = append(stack, faces[0])
		}
	}
	push(next)
	flips := 1
	for len(stack) > 0 {
		g := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if next, ok = flip(m, g); ok {
			flips++
			push(next)
		}
	}
	tracer().Debugf("flipped %d edges starting at %v", flips, f)
	return true
}

// MakeDelaunay applies GreenSibson to every face of every cell of set until a
// full pass over the set changes nothing. It reports whether any flip has been
// done. An empty set is an error.
func MakeDelaunay(m *topo.Mesh, set *topo.CellSet) (changed bool, err error) {
	defer topo.CatchInvariant(&err)
	if set.Empty() {
		return false, fmt.Errorf("%w: make Delaunay on set %q", ErrEmptySet, set.Name())
	}
	passes := 0
	for {
		passes++
		pass := false
		for _, c := range set.Refs() {
			for i := 0; i < 3; i++ {
				if GreenSibson(m, topo.FaceOf(c, i)) {
					pass = true
				}
			}
		}
		if !pass {
			break
		}
		changed = true
	}
	tracer().Debugf("make Delaunay on %s set: %d passes", set.Name(), passes)
	return changed, nil
}

// CountViolations returns the number of faces of cells in set whose opposite
// node lies strictly inside the cell's circumcircle. Zero means the set is
// Delaunay-conforming.
func CountViolations(m *topo.Mesh, set *topo.CellSet) int {
	cnt := 0
	set.Each(func(c topo.CellRef) bool {
		for i := 0; i < 3; i++ {
			if inConflict(m, topo.FaceOf(c, i)) {
				cnt++
			}
		}
		return true
	})
	if cnt > 0 {
		tracer().Infof("non-Delaunay %s set: %d conflicting faces", set.Name(), cnt)
	}
	return cnt
}
