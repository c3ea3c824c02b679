/*
Package mesher runs the complete mesh generation pipeline for a domain.

	d := polygon.NewDomain(polygon.Box(mesh2d.P(0, 0), mesh2d.P(4, 4)).Refined(0.5))
	result, err := mesher.Run(d, mesher.DefaultOptions())

The boundary loops of the domain are triangulated by ear clipping. The
triangulation is then refined by frontal point insertion, with a spacing
derived from the boundary edge lengths, and finally smoothed. Options select
the phases and may be read from an application configuration.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package mesher

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/npillmayer/mesh2d/delaunay"
	"github.com/npillmayer/mesh2d/fist"
	"github.com/npillmayer/mesh2d/meshio"
	"github.com/npillmayer/mesh2d/polygon"
	"github.com/npillmayer/mesh2d/refine"
	"github.com/npillmayer/mesh2d/smooth"
	"github.com/npillmayer/mesh2d/topo"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'mesh2d.mesher'
func tracer() tracing.Trace {
	return tracing.Select("mesh2d.mesher")
}

// Result is the outcome of a pipeline run.
type Result struct {
	Mesh   *topo.Mesh
	FIST   fist.Stats   // initial triangulation
	Refine refine.Stats // refinement, zero if skipped
	Flips  bool         // conformance after ear clipping changed the mesh
}

// Run meshes domain d. The domain is placed, normalized and validated first.
// The returned mesh holds all cells in its final set.
func Run(d *polygon.Domain, opts Options) (result *Result, err error) {
	defer topo.CatchInvariant(&err)
	if opts.TraceLevel != "" {
		SetTraceLevel(opts.TraceLevel)
	}
	if opts.Placement != nil {
		d = d.Transformed(*opts.Placement)
	}
	d.Normalize()
	if err = d.Validate(); err != nil {
		return nil, err
	}
	m := topo.NewMesh(opts.Factory)
	result = &Result{Mesh: m}
	g := refine.New(m)
	if err = d.AddTo(g); err != nil {
		return nil, err
	}
	ok, err := g.Generate()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: domain yields no cells", fist.ErrIncomplete)
	}
	result.FIST = g.Triangulator.Stats()
	tracer().Infof("ear clipping created %d cells", m.Bad.Size())
	if opts.Conform {
		if result.Flips, err = delaunay.MakeDelaunay(m, m.Bad); err != nil {
			return nil, err
		}
	}
	if err = check(m, opts, "triangulation"); err != nil {
		return nil, err
	}
	dump(opts.DumpDir, "fist", m, m.Bad)
	if opts.Refine {
		g.Progress = opts.Progress
		if opts.DumpDir != "" {
			g.Dumper = func(round int) {
				dump(opts.DumpDir, fmt.Sprintf("round-%03d", round), m, m.Final, m.Bad, m.Background)
			}
		}
		if err = g.MeshGeneration(); err != nil {
			return nil, err
		}
		result.Refine = g.Stats()
	} else {
		for _, c := range m.Bad.Refs() {
			m.Accept(c)
		}
	}
	if err = check(m, opts, "refinement"); err != nil {
		return nil, err
	}
	if err = smooth.Passes(m, opts.Smooth); err != nil {
		return nil, err
	}
	if opts.Smooth > 0 {
		if err = check(m, opts, "smoothing"); err != nil {
			return nil, err
		}
	}
	dump(opts.DumpDir, "final", m, m.Final)
	nodes, cells := m.Properties()
	tracer().Infof("mesh of %d nodes and %d cells", nodes, cells)
	return result, nil
}

func check(m *topo.Mesh, opts Options, phase string) error {
	if !opts.Check {
		return nil
	}
	if err := m.Check(); err != nil {
		return fmt.Errorf("after %s: %w", phase, err)
	}
	return nil
}

// dump writes a GeoJSON snapshot of cell sets to directory dir, if set.
// Failures are logged only.
func dump(dir, name string, m *topo.Mesh, sets ...*topo.CellSet) {
	if dir == "" {
		return
	}
	path := filepath.Join(dir, name+".geojson")
	f, err := os.Create(path)
	if err != nil {
		tracer().Errorf("cannot create dump file: %v", err)
		return
	}
	defer f.Close()
	if err = meshio.WriteGeoJSON(f, m, sets...); err != nil {
		tracer().Errorf("dump %s: %v", path, err)
		return
	}
	tracer().Debugf("dumped mesh to %s", path)
}
