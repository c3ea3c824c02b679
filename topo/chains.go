package topo

// Every node keeps an intrusive list of the faces opposite to it, one per
// incident cell.

func (m *Mesh) chain(c CellRef) {
	cl := m.cells[c]
	for i := 0; i < 3; i++ {
		f := FaceOf(c, i)
		nd := m.Node(cl.Face[i].Node)
		cl.Face[i].next = nd.head
		nd.head = f
	}
	cl.chained = true
}

func (m *Mesh) unchain(c CellRef) {
	cl := m.cells[c]
	if !cl.chained {
		return
	}
	for i := 0; i < 3; i++ {
		f := FaceOf(c, i)
		nd := m.Node(cl.Face[i].Node)
		if nd.head == f {
			nd.head = cl.Face[i].next
			cl.Face[i].next = 0
			continue
		}
		prev := nd.head
		for prev != 0 && m.Face(prev).next != f {
			prev = m.Face(prev).next
		}
		if prev == 0 {
			Fatalf("mesh.unchain", "cell %d not found in chain of node %d", cl.ID, nd.ID)
		}
		m.Face(prev).next = cl.Face[i].next
		cl.Face[i].next = 0
	}
	cl.chained = false
}

// IncidentFaces returns, for every cell incident to node n, the face of that
// cell opposite to n.
func (m *Mesh) IncidentFaces(n NodeRef) []FaceRef {
	var faces []FaceRef
	for f := m.Node(n).head; f != 0; f = m.Face(f).next {
		faces = append(faces, f)
	}
	return faces
}

// EachIncident calls fn for every face opposite to node n.
func (m *Mesh) EachIncident(n NodeRef, fn func(f FaceRef)) {
	for f := m.Node(n).head; f != 0; {
		next := m.Face(f).next
		fn(f)
		f = next
	}
}

// Degree returns the number of cells incident to node n.
func (m *Mesh) Degree(n NodeRef) int {
	d := 0
	for f := m.Node(n).head; f != 0; f = m.Face(f).next {
		d++
	}
	return d
}

// RecoverAdjacency rebuilds the face adjacency of all final cells from node
// sharing: two cells are adjacent across a face if they share both of its
// endpoint nodes. Orientation is not taken into account.
func (m *Mesh) RecoverAdjacency() {
	refs := m.Final.Refs()
	for _, c := range refs {
		cl := m.Cell(c)
		for i := 0; i < 3; i++ {
			cl.Face[i].Adj = 0
		}
	}
	linked := 0
	for _, c := range refs {
		for i := 0; i < 3; i++ {
			f := FaceOf(c, i)
			if m.Face(f).Adj != 0 {
				continue
			}
			nf := [2]NodeRef{m.SuccNode(f), m.PredNode(f)}
			found := false
			for j := 0; j < 2 && !found; j++ {
				for g := m.Node(nf[j]).head; g != 0 && !found; g = m.Face(g).next {
					ca := g.Cell()
					if ca == c {
						continue
					}
					for k := 0; k < 3; k++ {
						fa := FaceOf(ca, k)
						a0, a1 := m.SuccNode(fa), m.PredNode(fa)
						if (nf[0] == a0 || nf[0] == a1) && (nf[1] == a0 || nf[1] == a1) {
							m.Attach(f, fa)
							found = true
							linked++
							break
						}
					}
				}
			}
		}
	}
	tracer().Debugf("recovered %d adjacent face pairs", linked)
}
