package topo

import (
	"fmt"

	"github.com/npillmayer/mesh2d"
)

// Check validates the topology invariants of the mesh:
//
//   - every registered cell is a member of exactly one of Bad and Final, and its
//     Bad flag matches that membership
//   - every registered cell has a strictly positive orientation
//   - adjacency is symmetric and adjacent faces share their endpoints
//   - the incident-face chains of all nodes list exactly the registered cells
//
// The first violation found is returned, wrapping ErrInvariant.
func (m *Mesh) Check() error {
	chained := 0
	for i := 1; i < len(m.cells); i++ {
		cl := m.cells[i]
		if cl == nil {
			continue
		}
		c := CellRef(i)
		if cl.chained {
			chained++
			inBad, inFinal := m.Bad.Contains(c), m.Final.Contains(c)
			if inBad == inFinal {
				return m.invalid("cell %d: bad set %v, final set %v", cl.ID, inBad, inFinal)
			}
			if cl.Bad != inBad {
				return m.invalid("cell %d: bad flag %v does not match its set", cl.ID, cl.Bad)
			}
			q := m.CellPoints(c)
			if mesh2d.Orientation(q[0], q[1], q[2]) <= 0 {
				return m.invalid("cell %d has non-positive area %g", cl.ID, m.Area(c))
			}
		}
		for k := 0; k < 3; k++ {
			f := FaceOf(c, k)
			adj := cl.Face[k].Adj
			if adj == 0 {
				continue
			}
			if !m.IsAlive(adj.Cell()) {
				return m.invalid("%v of cell %d is attached to a deleted cell", f, cl.ID)
			}
			if m.Face(adj).Adj != f {
				return m.invalid("%v of cell %d: asymmetric adjacency with %v", f, cl.ID, adj)
			}
			if m.SuccNode(f) != m.PredNode(adj) || m.PredNode(f) != m.SuccNode(adj) {
				return m.invalid("%v of cell %d: adjacent faces do not share an edge", f, cl.ID)
			}
		}
	}
	entries := 0
	for i := 1; i < len(m.nodes); i++ {
		nd := m.nodes[i]
		if nd == nil {
			continue
		}
		for f := nd.head; f != 0; f = m.Face(f).next {
			if m.Face(f).Node != NodeRef(i) {
				return m.invalid("chain of node %d lists %v of another node", nd.ID, f)
			}
			if !m.cells[f.Cell()].chained {
				return m.invalid("chain of node %d lists unregistered cell", nd.ID)
			}
			entries++
		}
	}
	if entries != 3*chained {
		return m.invalid("node chains hold %d faces, expected %d", entries, 3*chained)
	}
	return nil
}

func (m *Mesh) invalid(format string, args ...interface{}) error {
	err := fmt.Errorf("%w: check: %s", ErrInvariant, fmt.Sprintf(format, args...))
	tracer().Errorf(err.Error())
	return err
}

// ComputeFaceData sets outward normals and ownership orientation for the
// faces of all final cells. A face is owned (+1) by its cell if it is a
// boundary face or the neighbour cell has a larger handle.
func (m *Mesh) ComputeFaceData() {
	m.Final.Each(func(c CellRef) bool {
		cl := m.Cell(c)
		for i := 0; i < 3; i++ {
			f := FaceOf(c, i)
			cl.Face[i].Normal = mesh2d.EdgeNormal(m.Pos(m.SuccNode(f)), m.Pos(m.PredNode(f)))
			if adj := cl.Face[i].Adj; adj == 0 || adj.Cell() > c {
				cl.Face[i].Orientation = 1
			} else {
				cl.Face[i].Orientation = -1
			}
		}
		return true
	})
}
