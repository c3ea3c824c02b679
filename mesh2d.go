/*
Package mesh2d implements points, geometric predicates and affine transformations
for an unstructured 2D triangular mesh generator.

The generator itself is split into sub-packages:

	topo      mesh topology store (nodes, cells, faces, front links)
	fist      FIST ear-clipping triangulation of closed boundary fronts
	delaunay  Green–Sibson edge flips
	spacing   background mesh and spacing field interpolation
	refine    frontal point insertion
	smooth    degree-weighted Laplacian smoothing
	polygon   boundary loops
	spline    curved boundaries (Hobby splines)
	meshio    binary, GMSH, XDA and GeoJSON serializers
	mesher    the complete pipeline, configured from an application configuration

All cells are counter-clockwise. Boundary loops are counter-clockwise for the
outer boundary and clockwise for holes, i.e. the domain is always to the left
of a front.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package mesh2d

import (
	"math"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'mesh2d'
func tracer() tracing.Trace {
	return tracing.Select("mesh2d")
}

// === Mesh constants ========================================================

// GoldenRatio is 0.5·(√5−1).
var GoldenRatio = 0.5 * (math.Sqrt(5.0) - 1.0)

// MeshEps is the tolerance of the orientation predicate: signed areas with an
// absolute value below MeshEps are considered collinear.
const MeshEps = 1e-15

var (
	// S2minS2max is the ratio of minimum to maximum squared spacing.
	S2minS2max = 1.0 - GoldenRatio
	// S2maxS2min is the ratio of maximum to minimum squared spacing.
	S2maxS2min = 1.0 / S2minS2max
	// ImplFactor scales the target spacing when testing for implicit cells.
	ImplFactor = 1.0 / GoldenRatio
	// DistFactor scales the proximity radius of new points.
	DistFactor = GoldenRatio
)

// === Boundary conditions ===================================================

// Boundary condition flags. Flags are powers of 2 and may be combined.
const (
	BCNone              = 0x00000000
	BCFarField          = 0x00000001
	BCSubsonicInlet     = 0x00000010
	BCSubsonicInletWall = 0x00000020
	BCSubsonicOutlet    = 0x00000040
	BCSupersonicInlet   = 0x00000100
	BCSupersonicOutlet  = 0x00000400
	BCWall              = 0x00001000
	BCTypeMask          = 0x00FFFFFF

	BCIndexMask   = -0x01000000 // 0xFF000000 as a signed 32 bit value
	BCIndexMaster = 0x01000000
	BCIndexSlave  = 0x02000000
)

// BC is the boundary condition tag of a node. Type is a bitmask of BCxxx flags,
// Index is a periodic node index and Surface the id of the boundary surface the
// node originates from. Interior nodes carry the zero value.
type BC struct {
	Type    int
	Index   int
	Surface int
}

// IsBoundary is a predicate: does the tag mark a boundary node?
// Boundary nodes are held fixed by the smoother.
func (bc BC) IsBoundary() bool {
	return bc.Type != BCNone
}

// Kind returns the type bits without the index bits.
func (bc BC) Kind() int {
	return bc.Type & BCTypeMask
}
