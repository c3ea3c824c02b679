/*
Package refine implements frontal point insertion, the main loop of mesh
generation.

Refinement starts from a boundary-conforming triangulation whose cells are
all bad (pending). Every round looks at the frontal edges, i.e. the edges of
the bad region which face the domain boundary or already accepted cells. For
each frontal edge a candidate point is placed inside the bad region at a
distance derived from the spacing field. Candidates too close to each other
are merged, candidates too close to existing nodes or requiring the removal
of accepted cells are dropped. Each surviving candidate is inserted by
removing the cells whose circumcircles contain it (the cavity) and
re-triangulating the cavity with a FIST front around it.

At the end of a round, cells small enough with respect to the spacing field
are accepted without further insertion (implicit cells). Rounds continue
until no frontal edge admits a candidate.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package refine

import (
	"fmt"
	"math"

	"github.com/npillmayer/mesh2d"
	"github.com/npillmayer/mesh2d/delaunay"
	"github.com/npillmayer/mesh2d/fist"
	"github.com/npillmayer/mesh2d/spacing"
	"github.com/npillmayer/mesh2d/topo"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'mesh2d.refine'
func tracer() tracing.Trace {
	return tracing.Select("mesh2d.refine")
}

var sin60 = 0.5 * math.Sqrt(3.0)

// Stats counts the work of a generator.
type Stats struct {
	Rounds     int // completed rounds
	Candidates int // candidate points proposed
	Inserted   int // points inserted
	Skipped    int // selected points which could not be located at insertion time
	Implicit   int // cells accepted as implicit
	Forced     int // cells accepted at the end
}

// Generator refines the bad cells of a mesh. It embeds the triangulator used
// to re-fill cavities; the triangulator's front API may be used to build the
// initial triangulation as well.
type Generator struct {
	*fist.Triangulator
	// Progress, if set, is called after every round with the round number and
	// the number of frontal edges selected for the next round.
	Progress func(round, frontal int)
	// Dumper, if set, is called every 10 rounds with the round number.
	Dumper func(round int)

	field    *spacing.Field
	frontal  *frontalEdges
	centroid mesh2d.Pair
	stats    Stats
}

// New creates a generator for mesh m.
func New(m *topo.Mesh) *Generator {
	g := &Generator{
		Triangulator: fist.New(m),
		frontal:      newFrontalEdges(),
	}
	g.CellHook = g.attachBadEdges
	return g
}

// Stats returns the work counters of the generator.
func (g *Generator) Stats() Stats {
	return g.stats
}

// Field returns the spacing field while a generation runs, nil otherwise.
func (g *Generator) Field() *spacing.Field {
	return g.field
}

// MeshGeneration refines the bad cells of the mesh until no frontal edge
// admits a new point, then accepts all remaining bad cells into the final
// set. The bad cells must form a boundary-conforming triangulation, as
// produced by Generate.
func (g *Generator) MeshGeneration() (err error) {
	defer topo.CatchInvariant(&err)
	m := g.Mesh
	if m.Bad.Empty() {
		return fmt.Errorf("%w: no bad cells to refine", delaunay.ErrEmptySet)
	}
	tracer().Infof("starting mesh generation with %d cells", m.Bad.Size())
	if g.field, err = spacing.Build(m); err != nil {
		return err
	}
	defer func() {
		g.field.Free()
		g.field = nil
	}()
	g.centroid = g.computeCentroid()
	g.createFrontalEdges()
	for round := 1; g.frontal.size() > 0; round++ {
		for _, e := range g.frontal.edges() {
			if e.Adj == 0 {
				topo.Fatalf("refine.mesh_generation", "frontal edge %d→%d has been removed", e.id0, e.id1)
			}
			p := m.Pos(e.New)
			ins := m.Locate(m.Bad, e.Adj.Cell(), p)
			if ins == 0 || !m.Cell(ins).Bad {
				tracer().Infof("cannot locate candidate at %v, skipped", p)
				m.DiscardNode(e.New)
				e.New = 0
				g.stats.Skipped++
				continue
			}
			g.createFistFront(ins, e.New)
			g.createNewCell(e, e.New)
			if _, err = g.Generate(); err != nil {
				return err
			}
			g.stats.Inserted++
		}
		if !m.Bad.Empty() {
			changed, err := delaunay.MakeDelaunay(m, m.Bad)
			if err != nil {
				return err
			}
			if changed {
				tracer().Infof("round %d: conformance pass changed the bad cells", round)
			}
		}
		if round%10 == 0 && g.Dumper != nil {
			g.Dumper(round)
		}
		g.stats.Implicit += g.implicitCells()
		g.createFrontalEdges()
		g.stats.Rounds = round
		tracer().Debugf("round %d: %d frontal edges", round, g.frontal.size())
		if g.Progress != nil {
			g.Progress(round, g.frontal.size())
		}
	}
	for _, c := range m.Bad.Refs() {
		m.Accept(c)
		g.stats.Forced++
	}
	tracer().Infof("mesh generation: %d rounds, %d points inserted, %d cells",
		g.stats.Rounds, g.stats.Inserted, m.Final.Size())
	return nil
}

// computeCentroid returns the mean of the circumcenters of the bad cells,
// weighted by their squared circumradii.
func (g *Generator) computeCentroid() mesh2d.Pair {
	m := g.Mesh
	var x, y, s float64
	m.Bad.Each(func(c topo.CellRef) bool {
		cl := m.Cell(c)
		r2 := cl.R * cl.R
		x += cl.Center.X() * r2
		y += cl.Center.Y() * r2
		s += r2
		return true
	})
	if s == 0 {
		return mesh2d.Origin
	}
	return mesh2d.P(x/s, y/s)
}

// isFrontalFace is a predicate: is f a face of the bad region towards the
// domain boundary or accepted cells?
func (g *Generator) isFrontalFace(f topo.FaceRef) bool {
	adj := g.Mesh.Face(f).Adj
	return adj == 0 || !g.Mesh.Cell(adj.Cell()).Bad
}

// attachBadEdges connects the frontal edges with the faces of a new cell.
func (g *Generator) attachBadEdges(c topo.CellRef) {
	g.eachFrontalEdge(c, func(e *Edge, f topo.FaceRef) {
		e.Adj = f
	})
}

// detachBadEdges disconnects the frontal edges from the faces of a cell
// about to be deleted.
func (g *Generator) detachBadEdges(c topo.CellRef) {
	g.eachFrontalEdge(c, func(e *Edge, f topo.FaceRef) {
		e.Adj = 0
	})
}

func (g *Generator) eachFrontalEdge(c topo.CellRef, fn func(*Edge, topo.FaceRef)) {
	if g.frontal.size() == 0 {
		return
	}
	m := g.Mesh
	for i := 0; i < 3; i++ {
		f := topo.FaceOf(c, i)
		id0, id1 := m.Node(m.SuccNode(f)).ID, m.Node(m.PredNode(f)).ID
		if e, found := g.frontal.find(id0, id1); found {
			fn(e, f)
		}
	}
}
