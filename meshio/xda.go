package meshio

import (
	"errors"
	"fmt"
	"io"

	"github.com/npillmayer/mesh2d/topo"
)

// ErrNotTri6 indicates a mesh without mid-edge nodes.
var ErrNotTri6 = errors.New("mesh has not been converted to 6-node triangles")

// xdaEdges maps the local edges of an XDA element, running from vertex i to
// vertex i+1, to the face opposite the third vertex.
var xdaEdges = [3]int{2, 0, 1}

// WriteXDA exports the final cells of a mesh converted to 6-node triangles
// (see topo.Mesh.ConvertToTri6) in deal.II XDA format. Vertices and mid-edge
// nodes are numbered from 0, vertices first. Every boundary face is listed
// with its element, its local edge index and the boundary type of its mid
// node.
func WriteXDA(w io.Writer, m *topo.Mesh) error {
	cells := m.Final.Refs()
	nodes, mids := m.NodeList(), m.MidNodes()
	for _, c := range cells {
		for i := 0; i < 3; i++ {
			if m.Face(topo.FaceOf(c, i)).Mid == 0 {
				return fmt.Errorf("%w: cell %d", ErrNotTri6, m.Cell(c).ID)
			}
		}
	}
	tw := newTextWriter(w)
	tw.printf("DEAL 003:003\n")
	tw.printf("%d\t\t #num elements\n", len(cells))
	tw.printf("%d\t\t #num nodes\n", len(nodes)+len(mids))
	tw.printf("%d\t\t #sum of elem weights\n", 6*len(cells))
	tw.printf("%d\t\t #num of bc\n", boundaryFaces(m))
	tw.printf("65535\t\t #string size\n")
	tw.printf("1\t\t #num of elem blocks\n")
	tw.printf("4\t\t #elem type in the block\n")
	tw.printf("%d\t\t #num elem in the block\n", len(cells))
	tw.printf("Id string\nTitle string\n")
	for _, c := range cells {
		cl := m.Cell(c)
		for i := 0; i < 3; i++ {
			tw.printf("%d\t", m.Node(cl.Face[i].Node).ID-1)
		}
		for _, f := range xdaEdges {
			tw.printf("%d\t", m.Node(cl.Face[f].Mid).ID-1)
		}
		tw.printf("\n")
	}
	for _, n := range nodes {
		p := m.Pos(n)
		tw.printf("%f\t%f\t0.0\n", p.X(), p.Y())
	}
	for _, n := range mids {
		p := m.Pos(n)
		tw.printf("%f\t%f\t0.0\n", p.X(), p.Y())
	}
	for k, c := range cells {
		cl := m.Cell(c)
		for i, f := range xdaEdges {
			if cl.Face[f].Adj == 0 {
				tw.printf("%d\t%d\t%d\n", k, i, m.Node(cl.Face[f].Mid).BC.Type)
			}
		}
	}
	if err := tw.flush(); err != nil {
		return fmt.Errorf("writing xda: %w", err)
	}
	return nil
}
