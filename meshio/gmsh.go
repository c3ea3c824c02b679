package meshio

import (
	"bufio"
	"fmt"
	"io"

	"github.com/npillmayer/mesh2d/topo"
)

type textWriter struct {
	w   *bufio.Writer
	err error
}

func newTextWriter(w io.Writer) *textWriter {
	return &textWriter{w: bufio.NewWriter(w)}
}

func (tw *textWriter) printf(format string, args ...interface{}) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.w, format, args...)
}

func (tw *textWriter) flush() error {
	if tw.err == nil {
		tw.err = tw.w.Flush()
	}
	return tw.err
}

// nodeIndex numbers the nodes of m from base in mesh order.
func nodeIndex(m *topo.Mesh, base int) map[topo.NodeRef]int {
	ids := make(map[topo.NodeRef]int, len(m.NodeList()))
	for i, n := range m.NodeList() {
		ids[n] = i + base
	}
	return ids
}

// boundaryFaces counts the faces of final cells without a neighbour.
func boundaryFaces(m *topo.Mesh) int {
	cnt := 0
	m.Final.Each(func(c topo.CellRef) bool {
		for i := 0; i < 3; i++ {
			if m.Face(topo.FaceOf(c, i)).Adj == 0 {
				cnt++
			}
		}
		return true
	})
	return cnt
}

// WriteGMSH exports the final cells of m in GMSH 1.0 format. Nodes are
// numbered from 0 in mesh order. Triangles (element type 2) are followed by
// one line element (type 1) per boundary face, tagged with the boundary
// types common to both of its nodes. All elements run counter-clockwise.
func WriteGMSH(w io.Writer, m *topo.Mesh, progress Progress) error {
	nodes := m.NodeList()
	cells := m.Final.Refs()
	bfaces := boundaryFaces(m)
	pc := &progressCounter{progress: progress, total: len(nodes) + 2*len(cells)}
	ids := nodeIndex(m, 0)
	tw := newTextWriter(w)
	tw.printf("$NOD\n%d\n", len(nodes))
	for i, n := range nodes {
		p := m.Pos(n)
		tw.printf("%6d  % .12f  % .12f  % .1f\n", i, p.X(), p.Y(), 0.0)
		pc.step()
	}
	tw.printf("$ENDNOD\n$ELM\n%d\n", len(cells)+bfaces)
	elm := 0
	for _, c := range cells {
		nds := m.CellNodes(c)
		tw.printf("%6d  2  0  0  3  %6d  %6d  %6d\n", elm, ids[nds[0]], ids[nds[1]], ids[nds[2]])
		elm++
		pc.step()
	}
	for _, c := range cells {
		for i := 0; i < 3; i++ {
			f := topo.FaceOf(c, i)
			if m.Face(f).Adj != 0 {
				continue
			}
			a, b := m.SuccNode(f), m.PredNode(f)
			bc := m.Node(a).BC.Type & m.Node(b).BC.Type
			tw.printf("%6d  1  0  %d  2  %6d  %6d\n", elm, bc, ids[a], ids[b])
			elm++
		}
		pc.step()
	}
	tw.printf("$ENDELM\n\n")
	if err := tw.flush(); err != nil {
		return fmt.Errorf("writing gmsh: %w", err)
	}
	tracer().Infof("gmsh: wrote %d nodes, %d triangles, %d boundary lines", len(nodes), len(cells), bfaces)
	return nil
}
