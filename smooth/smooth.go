/*
Package smooth relaxes the interior nodes of a finished mesh.

A smoothing pass moves every interior node to a weighted average of its
neighbours. Neighbours are weighted by their degree (the number of incident
cells), favouring nodes which have too many cells around them:

	w(n) = max(6, 1 + 3·(degree(n) − 6))

Nodes carrying a boundary condition stay fixed. Delaunay conformance of the
final cells is re-established before and after moving nodes.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package smooth

import (
	"math"

	"github.com/npillmayer/mesh2d"
	"github.com/npillmayer/mesh2d/delaunay"
	"github.com/npillmayer/mesh2d/topo"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'mesh2d.smooth'
func tracer() tracing.Trace {
	return tracing.Select("mesh2d.smooth")
}

// Pass performs one smoothing pass over the final cells of m. Nodes are
// renumbered 1…N in mesh order as a side effect, and every node's Degree is
// set.
func Pass(m *topo.Mesh) (err error) {
	defer topo.CatchInvariant(&err)
	if _, err = delaunay.MakeDelaunay(m, m.Final); err != nil {
		return err
	}
	nodes := m.NodeList()
	m.Renumber()
	for _, n := range nodes {
		m.Node(n).Degree = 0
	}
	m.Final.Each(func(c topo.CellRef) bool {
		for _, n := range m.CellNodes(c) {
			m.Node(n).Degree++
		}
		return true
	})
	weight := make([]float64, len(nodes)+1) // indexed by node id
	for _, n := range nodes {
		nd := m.Node(n)
		weight[nd.ID] = math.Max(6, 1+3*(nd.Degree-6))
	}
	sum := make([]float64, len(nodes)+1)
	pos := make([]mesh2d.Pair, len(nodes)+1)
	m.Final.Each(func(c topo.CellRef) bool {
		for i := 0; i < 3; i++ {
			f := topo.FaceOf(c, i)
			nd := m.Node(m.Face(f).Node)
			if nd.BC.Type != 0 {
				continue
			}
			ns, np := m.Node(m.SuccNode(f)), m.Node(m.PredNode(f))
			ws, wp := weight[ns.ID], weight[np.ID]
			sum[nd.ID] += ws + wp
			pos[nd.ID] += ns.P.Scaled(ws) + np.P.Scaled(wp)
		}
		return true
	})
	moved := 0
	for _, n := range nodes {
		nd := m.Node(n)
		if nd.BC.Type != 0 || sum[nd.ID] == 0 {
			continue
		}
		nd.P = pos[nd.ID].Scaled(1 / sum[nd.ID])
		moved++
	}
	m.Final.Each(func(c topo.CellRef) bool {
		m.UpdateCircumcircle(c)
		return true
	})
	changed, err := delaunay.MakeDelaunay(m, m.Final)
	tracer().Debugf("smoothing moved %d nodes, conformance changed mesh: %v", moved, changed)
	return err
}

// Passes performs k smoothing passes.
func Passes(m *topo.Mesh, k int) error {
	for i := 0; i < k; i++ {
		if err := Pass(m); err != nil {
			return err
		}
	}
	if k > 0 {
		tracer().Infof("%d smoothing passes done", k)
	}
	return nil
}
