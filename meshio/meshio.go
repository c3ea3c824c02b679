/*
Package meshio reads and writes meshes and boundary fronts.

The binary mesh format is big-endian. A header of three 32-bit integers
(format version, number of nodes, number of cells) is followed by one record
per node and one record per cell:

	node: id int32, x float64, y float64, bc type int32, bc index int32, bc surface int32
	cell: id int32, center x float64, center y float64, radius float64, 3 × node id int32

Ids are assigned 1…N in mesh order at the time of saving. On loading, face
adjacency is recovered from the nodes the cells share.

Text exporters write GMSH 1.0 (nodes, triangles and boundary lines), deal.II
XDA for meshes converted to 6-node triangles, and GeoJSON for inspection with
common GIS tools.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package meshio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/npillmayer/mesh2d"
	"github.com/npillmayer/mesh2d/topo"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'mesh2d.meshio'
func tracer() tracing.Trace {
	return tracing.Select("mesh2d.meshio")
}

// Version is the binary format version written by Save.
const Version = 1

var (
	// ErrVersion indicates a binary mesh of an unsupported format version.
	ErrVersion = errors.New("unsupported mesh format version")
	// ErrFormat indicates malformed input.
	ErrFormat = errors.New("malformed mesh input")
)

// Progress receives the percentage of work done. It is purely advisory.
type Progress func(percent int)

type progressCounter struct {
	progress Progress
	cur      int
	total    int
}

func (pc *progressCounter) step() {
	pc.cur++
	if pc.progress != nil && pc.total > 0 {
		pc.progress(pc.cur * 100 / pc.total)
	}
}

// --- Writing ---------------------------------------------------------------

// binWriter remembers the first error, so that records can be written without
// checking every field.
type binWriter struct {
	w   *bufio.Writer
	err error
}

func (bw *binWriter) put(v interface{}) {
	if bw.err != nil {
		return
	}
	bw.err = binary.Write(bw.w, binary.BigEndian, v)
}

func (bw *binWriter) int(i int) {
	bw.put(int32(i))
}

func (bw *binWriter) float(f float64) {
	bw.put(f)
}

// Save writes the nodes and final cells of m in binary format. Nodes are
// written in mesh order and cells in final set order, both numbered from 1.
// The ids stored in m are not changed.
func Save(w io.Writer, m *topo.Mesh, progress Progress) error {
	bw := &binWriter{w: bufio.NewWriter(w)}
	nodes := m.NodeList()
	cells := m.Final.Refs()
	pc := &progressCounter{progress: progress, total: len(nodes) + len(cells)}
	bw.int(Version)
	bw.int(len(nodes))
	bw.int(len(cells))
	ids := make(map[topo.NodeRef]int, len(nodes))
	for i, n := range nodes {
		ids[n] = i + 1
		nd := m.Node(n)
		bw.int(i + 1)
		bw.float(nd.P.X())
		bw.float(nd.P.Y())
		bw.int(nd.BC.Type)
		bw.int(nd.BC.Index)
		bw.int(nd.BC.Surface)
		pc.step()
	}
	for i, c := range cells {
		cl := m.Cell(c)
		bw.int(i + 1)
		bw.float(cl.Center.X())
		bw.float(cl.Center.Y())
		bw.float(cl.R)
		for f := 0; f < 3; f++ {
			id, ok := ids[cl.Face[f].Node]
			if !ok {
				return fmt.Errorf("%w: cell %d references node %d outside the mesh",
					ErrFormat, cl.ID, m.Node(cl.Face[f].Node).ID)
			}
			bw.int(id)
		}
		pc.step()
	}
	if bw.err == nil {
		bw.err = bw.w.Flush()
	}
	if bw.err != nil {
		return fmt.Errorf("saving mesh: %w", bw.err)
	}
	tracer().Infof("saved mesh of %d nodes and %d cells", len(nodes), len(cells))
	return nil
}

// --- Reading ---------------------------------------------------------------

type binReader struct {
	r   *bufio.Reader
	err error
}

func (br *binReader) get(v interface{}) {
	if br.err != nil {
		return
	}
	br.err = binary.Read(br.r, binary.BigEndian, v)
}

func (br *binReader) int() int {
	var i int32
	br.get(&i)
	return int(i)
}

func (br *binReader) float() float64 {
	var f float64
	br.get(&f)
	return f
}

type cellRecord struct {
	center mesh2d.Pair
	r      float64
	nodes  [3]int
}

// Load reads a binary mesh into a new mesh, created with factory (which may
// be nil). Nodes keep the order and ids of the file. All cells become final
// cells and iterate in file order; their face adjacency, normals and
// orientation flags are recomputed.
func Load(r io.Reader, factory topo.Factory, progress Progress) (*topo.Mesh, error) {
	br := &binReader{r: bufio.NewReader(r)}
	version := br.int()
	nn, nc := br.int(), br.int()
	if br.err != nil {
		return nil, fmt.Errorf("loading mesh header: %w", br.err)
	}
	if version > Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, version)
	}
	if nn < 0 || nc < 0 {
		return nil, fmt.Errorf("%w: %d nodes, %d cells", ErrFormat, nn, nc)
	}
	pc := &progressCounter{progress: progress, total: nn + nc}
	m := topo.NewMesh(factory)
	table := make([]topo.NodeRef, nn+1)
	for i := 1; i <= nn; i++ {
		table[i] = m.NewNode(mesh2d.Origin)
		m.AppendNode(table[i])
	}
	for i := 0; i < nn; i++ {
		id := br.int()
		x, y := br.float(), br.float()
		bc := mesh2d.BC{Type: br.int(), Index: br.int(), Surface: br.int()}
		if br.err != nil {
			return nil, fmt.Errorf("loading node %d: %w", i+1, br.err)
		}
		if id < 1 || id > nn {
			return nil, fmt.Errorf("%w: node id %d out of range", ErrFormat, id)
		}
		nd := m.Node(table[id])
		nd.P = mesh2d.P(x, y)
		nd.BC = bc
		pc.step()
	}
	records := make([]cellRecord, nc+1)
	for i := 0; i < nc; i++ {
		id := br.int()
		var rec cellRecord
		x, y := br.float(), br.float()
		rec.center = mesh2d.P(x, y)
		rec.r = br.float()
		for f := 0; f < 3; f++ {
			rec.nodes[f] = br.int()
		}
		if br.err != nil {
			return nil, fmt.Errorf("loading cell %d: %w", i+1, br.err)
		}
		if id < 1 || id > nc {
			return nil, fmt.Errorf("%w: cell id %d out of range", ErrFormat, id)
		}
		for _, nid := range rec.nodes {
			if nid < 1 || nid > nn {
				return nil, fmt.Errorf("%w: cell %d references node %d", ErrFormat, id, nid)
			}
		}
		records[id] = rec
		pc.step()
	}
	// final cells iterate in descending id order, so the last record is created first
	for id := nc; id >= 1; id-- {
		rec := records[id]
		c := m.NewBadCell(table[rec.nodes[0]], table[rec.nodes[1]], table[rec.nodes[2]])
		m.Accept(c)
		cl := m.Cell(c)
		cl.Center, cl.R = rec.center, rec.r
	}
	m.RecoverAdjacency()
	m.ComputeFaceData()
	tracer().Infof("loaded mesh of %d nodes and %d cells", nn, nc)
	return m, nil
}
