package mesher

import (
	"strconv"

	"github.com/npillmayer/mesh2d"
	"github.com/npillmayer/mesh2d/topo"
	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/tracing"
)

// Configuration keys read by OptionsFromConfig.
const (
	KeyConform    = "mesh2d.conform"
	KeyRefine     = "mesh2d.refine"
	KeySmooth     = "mesh2d.smooth"
	KeyCheck      = "mesh2d.check"
	KeyDumpDir    = "mesh2d.dumpdir"
	KeyTraceLevel = "mesh2d.tracelevel"
	KeyScale      = "mesh2d.scale"  // uniform scale factor
	KeyRotate     = "mesh2d.rotate" // rotation in degrees
)

// Options select the phases of a pipeline run.
type Options struct {
	Conform    bool   // Delaunay conformance right after ear clipping
	Refine     bool   // frontal refinement
	Smooth     int    // number of smoothing passes
	Check      bool   // topology check after every phase
	DumpDir    string // directory for GeoJSON snapshots, empty for none
	TraceLevel string // trace level for all mesh2d tracers, empty to leave them alone
	// Placement, if set, maps the domain before meshing.
	Placement *mesh2d.AT
	// Factory, if set, constructs the entities of the mesh.
	Factory topo.Factory
	// Progress, if set, is called after every refinement round.
	Progress func(round, frontal int)
}

// DefaultOptions returns options for a full run with 5 smoothing passes.
func DefaultOptions() Options {
	return Options{
		Refine: true,
		Smooth: 5,
		Check:  true,
	}
}

// OptionsFromConfig reads options from a configuration. Keys which are not
// set keep their default values.
func OptionsFromConfig(conf schuko.Configuration) Options {
	opts := DefaultOptions()
	if conf == nil {
		return opts
	}
	if conf.IsSet(KeyConform) {
		opts.Conform = conf.GetBool(KeyConform)
	}
	if conf.IsSet(KeyRefine) {
		opts.Refine = conf.GetBool(KeyRefine)
	}
	if conf.IsSet(KeySmooth) {
		opts.Smooth = conf.GetInt(KeySmooth)
	}
	if conf.IsSet(KeyCheck) {
		opts.Check = conf.GetBool(KeyCheck)
	}
	if conf.IsSet(KeyDumpDir) {
		opts.DumpDir = conf.GetString(KeyDumpDir)
	}
	if conf.IsSet(KeyTraceLevel) {
		opts.TraceLevel = conf.GetString(KeyTraceLevel)
	}
	if conf.IsSet(KeyScale) || conf.IsSet(KeyRotate) {
		at := mesh2d.Identity()
		if conf.IsSet(KeyScale) {
			if s, err := strconv.ParseFloat(conf.GetString(KeyScale), 64); err != nil || s <= 0 {
				tracer().Errorf("ignoring scale %q", conf.GetString(KeyScale))
			} else {
				at = mesh2d.Scaling(s, s)
			}
		}
		if conf.IsSet(KeyRotate) {
			at = at.Combine(mesh2d.Rotation(float64(conf.GetInt(KeyRotate)) * mesh2d.Deg2Rad))
		}
		opts.Placement = &at
	}
	return opts
}

var tracerKeys = []string{
	"mesh2d",
	"mesh2d.topo",
	"mesh2d.fist",
	"mesh2d.delaunay",
	"mesh2d.spacing",
	"mesh2d.refine",
	"mesh2d.smooth",
	"mesh2d.polygon",
	"mesh2d.spline",
	"mesh2d.meshio",
	"mesh2d.mesher",
}

// SetTraceLevel sets the level of all mesh2d tracers, e.g. "Debug".
func SetTraceLevel(level string) {
	l := tracing.TraceLevelFromString(level)
	for _, key := range tracerKeys {
		tracing.Select(key).SetTraceLevel(l)
	}
}
