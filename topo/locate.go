package topo

import (
	"github.com/npillmayer/mesh2d"
)

// Locate finds the cell containing p (border inclusive). It walks across
// adjacent faces starting at cell start and falls back to a scan over set if
// the walk leaves the domain or does not terminate, as the domain need not be
// convex. The walk may return a cell which is not a member of set; the scan
// only returns members. Locate returns 0 if no cell contains p.
func (m *Mesh) Locate(set *CellSet, start CellRef, p mesh2d.Pair) CellRef {
	limit := set.Size() + 3
	c := start
	for steps := 0; c != 0 && m.IsAlive(c) && steps < limit; steps++ {
		q := m.CellPoints(c)
		var o [3]int
		o[0] = mesh2d.Orientation(q[1], q[2], p)
		o[1] = mesh2d.Orientation(q[2], q[0], p)
		o[2] = mesh2d.Orientation(q[0], q[1], p)
		if o[0] >= 0 && o[1] >= 0 && o[2] >= 0 {
			return c
		}
		next := CellRef(0)
		for i := 0; i < 3; i++ {
			if o[i] < 0 {
				if adj := m.cells[c].Face[i].Adj; adj != 0 {
					next = adj.Cell()
					break
				}
			}
		}
		c = next
	}
	var found CellRef
	set.Each(func(cand CellRef) bool {
		if m.Contains(cand, p) {
			found = cand
			return false
		}
		return true
	})
	if found == 0 {
		tracer().Debugf("point %v not located in set %s", p, set.Name())
	}
	return found
}
