/*
Package topo is the mesh topology store: nodes, triangular cells with their
faces, and the doubly linked links of advancing fronts.

Entities live in arenas owned by a Mesh and are addressed by integer handles.
Handle value 0 is reserved for "none". A cell has exactly three faces, face i
lying opposite to node i; its edge runs from node i+1 to node i+2 (mod 3).
Cells are counter-clockwise, so the interior of a cell is on the left of each
of its face edges. A face handle encodes its cell and index, which makes it
stable for the lifetime of the cell.

Cells of the mesh are members of exactly one of the ordered cell sets Bad
(pending refinement) or Final (accepted). A third set, Background, holds
detached copies used for spacing interpolation. All cell sets iterate in
descending cell id order.

Fatal invariant violations raise an *InvariantError by panicking; public
entry points of the algorithmic packages recover it with CatchInvariant and
return it as an error.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package topo

import (
	"errors"
	"fmt"

	"github.com/npillmayer/mesh2d"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'mesh2d.topo'
func tracer() tracing.Trace {
	return tracing.Select("mesh2d.topo")
}

// Succ and Pred map a face (or node) index to the next and previous index of a cell.
var (
	Succ = [3]int{1, 2, 0}
	Pred = [3]int{2, 0, 1}
)

// Handles into the arenas of a Mesh. The zero value denotes "none".
type (
	NodeRef int
	CellRef int
	LinkRef int
	FaceRef int
)

// FaceOf returns the handle of face i of cell c.
func FaceOf(c CellRef, i int) FaceRef {
	return FaceRef(int(c)*3 + i)
}

// Cell returns the cell a face belongs to.
func (f FaceRef) Cell() CellRef {
	return CellRef(int(f) / 3)
}

// Index returns the position of a face within its cell.
func (f FaceRef) Index() int {
	return int(f) % 3
}

func (f FaceRef) String() string {
	if f == 0 {
		return "face(-)"
	}
	return fmt.Sprintf("face(%d.%d)", f.Cell(), f.Index())
}

// Node is a mesh vertex.
type Node struct {
	P      mesh2d.Pair // position
	ID     int         // unique id, monotonically assigned
	BC     mesh2d.BC   // boundary condition tag
	Param  float64     // parameter along the originating boundary curve
	H      float64     // spacing
	Degree float64     // number of incident cells, valid after smoothing
	Data   interface{} // client payload, see Factory
	head   FaceRef     // first incident face
}

// Face is one of the three sides of a cell.
type Face struct {
	Node        NodeRef     // node opposite to this face
	Mid         NodeRef     // mid-edge node, tri6 post-processing only
	Adj         FaceRef     // matching face of the neighbour cell
	Orientation int         // +1 if the cell owns the face, −1 if the neighbour does
	Normal      mesh2d.Pair // outward normal, length = edge length
	next        FaceRef     // next face incident to Node
}

// Cell is a triangle.
type Cell struct {
	Face    [3]Face
	Center  mesh2d.Pair // circumcenter
	R       float64     // circumradius
	Bad     bool        // pending refinement
	Grad    mesh2d.Pair // spacing gradient, background cells only
	ID      int         // ordering key of cell sets
	Data    interface{} // client payload, see Factory
	chained bool        // registered in the incident-face chains of its nodes
}

// Link is an element of an advancing front. The front edge represented by a
// link runs from its node to the node of the next link; Adj is the face across
// that edge (the face of an already created cell), if any.
type Link struct {
	Node  NodeRef
	Next  LinkRef
	Prev  LinkRef
	Adj   FaceRef
	Angle float64 // interior opening angle at Node
	ID    int
	Data  interface{} // client payload, see Factory
}

// === Errors ================================================================

// ErrInvariant is the root of all fatal invariant violations.
var ErrInvariant = errors.New("mesh invariant violated")

// ErrNotFound is returned by lookups which found nothing.
var ErrNotFound = errors.New("not found")

// InvariantError identifies a violated invariant of the mesh algorithms.
// The mesh is not usable after such an error.
type InvariantError struct {
	Op  string // operation which detected the violation
	Msg string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvariant.Error(), e.Op, e.Msg)
}

// Unwrap makes errors.Is(err, ErrInvariant) work.
func (e *InvariantError) Unwrap() error {
	return ErrInvariant
}

// Fatalf aborts the current algorithm with an *InvariantError.
func Fatalf(op string, format string, args ...interface{}) {
	err := &InvariantError{Op: op, Msg: fmt.Sprintf(format, args...)}
	tracer().Errorf(err.Error())
	panic(err)
}

// CatchInvariant recovers a panic raised by Fatalf and stores it in *errp.
// Other panics are re-raised. Use it deferred:
//
//	func (t *T) Run() (err error) {
//	    defer topo.CatchInvariant(&err)
//	    …
//	}
func CatchInvariant(errp *error) {
	if r := recover(); r != nil {
		if ie, ok := r.(*InvariantError); ok {
			*errp = ie
			return
		}
		panic(r)
	}
}
