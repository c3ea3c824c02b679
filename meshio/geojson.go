package meshio

import (
	"fmt"
	"io"

	"github.com/npillmayer/mesh2d/topo"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// FeatureCollection converts the cells of the given sets into GeoJSON
// polygon features. Every feature carries the name of its set, the cell id
// and the circumradius as properties. If no set is given, the final cells
// are converted.
func FeatureCollection(m *topo.Mesh, sets ...*topo.CellSet) *geojson.FeatureCollection {
	if len(sets) == 0 {
		sets = []*topo.CellSet{m.Final}
	}
	fc := geojson.NewFeatureCollection()
	for _, s := range sets {
		s.Each(func(c topo.CellRef) bool {
			p := m.CellPoints(c)
			ring := orb.Ring{
				{p[0].X(), p[0].Y()},
				{p[1].X(), p[1].Y()},
				{p[2].X(), p[2].Y()},
				{p[0].X(), p[0].Y()},
			}
			f := geojson.NewFeature(orb.Polygon{ring})
			cl := m.Cell(c)
			f.Properties["set"] = s.Name()
			f.Properties["id"] = cl.ID
			f.Properties["r"] = cl.R
			fc.Append(f)
			return true
		})
	}
	return fc
}

// WriteGeoJSON writes the cells of the given sets (default: the final cells)
// as a GeoJSON feature collection.
func WriteGeoJSON(w io.Writer, m *topo.Mesh, sets ...*topo.CellSet) error {
	fc := FeatureCollection(m, sets...)
	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encoding geojson: %w", err)
	}
	if _, err = w.Write(data); err != nil {
		return fmt.Errorf("writing geojson: %w", err)
	}
	tracer().Debugf("geojson: wrote %d features", len(fc.Features))
	return nil
}
