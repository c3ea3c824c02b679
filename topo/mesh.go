package topo

import (
	"github.com/npillmayer/mesh2d"
)

// Factory constructs mesh entities. Clients may provide their own factory to
// attach payload data to nodes, cells or links. Factories must return fresh
// zero-valued entities, apart from the payload.
type Factory interface {
	NewNode(id int) *Node
	NewCell(id int) *Cell
	NewLink(id int) *Link
}

// DefaultFactory allocates plain entities.
type DefaultFactory struct{}

// NewNode is part of interface Factory.
func (DefaultFactory) NewNode(id int) *Node { return &Node{} }

// NewCell is part of interface Factory.
func (DefaultFactory) NewCell(id int) *Cell { return &Cell{} }

// NewLink is part of interface Factory.
func (DefaultFactory) NewLink(id int) *Link { return &Link{} }

// Mesh owns all nodes, cells and links of a mesh.
type Mesh struct {
	Bad        *CellSet // cells pending refinement
	Final      *CellSet // cells accepted into the output mesh
	Background *CellSet // detached copies for spacing interpolation

	factory   Factory
	nodes     []*Node // arena, index 0 unused
	cells     []*Cell // arena, index 0 unused, nil = free
	links     []*Link // arena, index 0 unused, nil = free
	freeCells []CellRef
	freeLinks []LinkRef
	order     []NodeRef // mesh nodes in insertion order
	mids      []NodeRef // tri6 mid-edge nodes
	curNodeID int
	curCellID int
	curLinkID int
}

// NewMesh creates an empty mesh. If factory is nil, DefaultFactory is used.
func NewMesh(factory Factory) *Mesh {
	if factory == nil {
		factory = DefaultFactory{}
	}
	return &Mesh{
		Bad:        NewCellSet("bad"),
		Final:      NewCellSet("final"),
		Background: NewCellSet("background"),
		factory:    factory,
		nodes:      make([]*Node, 1, 64),
		cells:      make([]*Cell, 1, 64),
		links:      make([]*Link, 1, 64),
	}
}

// === Nodes =================================================================

// NewNode allocates a node at position p with the next node id. The node is
// not yet part of the mesh node list, see AppendNode.
func (m *Mesh) NewNode(p mesh2d.Pair) NodeRef {
	m.curNodeID++
	n := m.factory.NewNode(m.curNodeID)
	n.ID = m.curNodeID
	n.P = p
	m.nodes = append(m.nodes, n)
	return NodeRef(len(m.nodes) - 1)
}

// AppendNode adds n to the ordered list of mesh nodes.
func (m *Mesh) AppendNode(n NodeRef) {
	m.order = append(m.order, n)
}

// DiscardNode releases a candidate node which has never been appended to
// the mesh or been referenced by a cell.
func (m *Mesh) DiscardNode(n NodeRef) {
	nd := m.Node(n)
	if nd.head != 0 {
		Fatalf("mesh.discard_node", "node %d is referenced by cells", nd.ID)
	}
	m.nodes[n] = nil
}

// Node returns the node for handle n.
func (m *Mesh) Node(n NodeRef) *Node {
	if n <= 0 || int(n) >= len(m.nodes) || m.nodes[n] == nil {
		Fatalf("mesh.node", "invalid node handle %d", n)
	}
	return m.nodes[n]
}

// Pos returns the position of node n.
func (m *Mesh) Pos(n NodeRef) mesh2d.Pair {
	return m.Node(n).P
}

// NodeList returns the mesh nodes in insertion order. Clients must not modify
// the returned slice.
func (m *Mesh) NodeList() []NodeRef {
	return m.order
}

// MidNodes returns the mid-edge nodes created by ConvertToTri6.
func (m *Mesh) MidNodes() []NodeRef {
	return m.mids
}

// Renumber assigns node ids 1…N following the mesh node list and returns N.
func (m *Mesh) Renumber() int {
	for i, n := range m.order {
		m.Node(n).ID = i + 1
	}
	if len(m.order) > m.curNodeID {
		m.curNodeID = len(m.order)
	}
	return len(m.order)
}

// === Cells =================================================================

func (m *Mesh) allocCell(id int) CellRef {
	c := m.factory.NewCell(id)
	c.ID = id
	if k := len(m.freeCells); k > 0 {
		ref := m.freeCells[k-1]
		m.freeCells = m.freeCells[:k-1]
		m.cells[ref] = c
		return ref
	}
	m.cells = append(m.cells, c)
	return CellRef(len(m.cells) - 1)
}

// NewCell creates a bad cell with nodes a, b, c (counter-clockwise) and the next
// cell id. The cell is registered with its nodes' incident-face chains and its
// circumcircle is computed, but it is not inserted into any cell set.
func (m *Mesh) NewCell(a, b, c NodeRef) CellRef {
	m.curCellID++
	ref := m.allocCell(m.curCellID)
	cl := m.cells[ref]
	cl.Bad = true
	cl.Face[0].Node, cl.Face[1].Node, cl.Face[2].Node = a, b, c
	m.chain(ref)
	m.UpdateCircumcircle(ref)
	return ref
}

// NewBadCell creates a cell as NewCell does and inserts it into the bad set.
func (m *Mesh) NewBadCell(a, b, c NodeRef) CellRef {
	ref := m.NewCell(a, b, c)
	m.Bad.Insert(ref, m.cells[ref].ID)
	return ref
}

// NewDetachedCell creates a cell with a given id which is not registered with
// its nodes. Detached cells serve as read-only copies, e.g. for a background
// mesh; they are never part of the Bad or Final set.
func (m *Mesh) NewDetachedCell(id int, a, b, c NodeRef) CellRef {
	ref := m.allocCell(id)
	cl := m.cells[ref]
	cl.Face[0].Node, cl.Face[1].Node, cl.Face[2].Node = a, b, c
	m.UpdateCircumcircle(ref)
	return ref
}

// Cell returns the cell for handle c.
func (m *Mesh) Cell(c CellRef) *Cell {
	if c <= 0 || int(c) >= len(m.cells) || m.cells[c] == nil {
		Fatalf("mesh.cell", "invalid cell handle %d", c)
	}
	return m.cells[c]
}

// IsAlive is a predicate: does handle c denote an existing cell?
func (m *Mesh) IsAlive(c CellRef) bool {
	return c > 0 && int(c) < len(m.cells) && m.cells[c] != nil
}

// DeleteCell detaches c from all neighbours and node chains, removes it from
// every cell set and releases it.
func (m *Mesh) DeleteCell(c CellRef) {
	cl := m.Cell(c)
	for i := 0; i < 3; i++ {
		if adj := cl.Face[i].Adj; adj != 0 {
			m.Face(adj).Adj = 0
			cl.Face[i].Adj = 0
		}
	}
	m.unchain(c)
	m.Bad.Remove(c)
	m.Final.Remove(c)
	m.Background.Remove(c)
	m.cells[c] = nil
	m.freeCells = append(m.freeCells, c)
}

// Relabel replaces the nodes of cell c, keeping node chains in sync, and
// recomputes its circumcircle. Adjacency is left untouched.
func (m *Mesh) Relabel(c CellRef, a, b, d NodeRef) {
	cl := m.Cell(c)
	chained := cl.chained
	if chained {
		m.unchain(c)
	}
	cl.Face[0].Node, cl.Face[1].Node, cl.Face[2].Node = a, b, d
	if chained {
		m.chain(c)
	}
	m.UpdateCircumcircle(c)
}

// Accept moves c from the bad set to the final set.
func (m *Mesh) Accept(c CellRef) {
	cl := m.Cell(c)
	if !m.Bad.Remove(c) {
		Fatalf("mesh.accept", "cell %d is not bad", cl.ID)
	}
	cl.Bad = false
	m.Final.Insert(c, cl.ID)
}

// CellNodes returns the three nodes of c.
func (m *Mesh) CellNodes(c CellRef) [3]NodeRef {
	cl := m.Cell(c)
	return [3]NodeRef{cl.Face[0].Node, cl.Face[1].Node, cl.Face[2].Node}
}

// CellPoints returns the positions of the three nodes of c.
func (m *Mesh) CellPoints(c CellRef) [3]mesh2d.Pair {
	cl := m.Cell(c)
	return [3]mesh2d.Pair{
		m.Pos(cl.Face[0].Node),
		m.Pos(cl.Face[1].Node),
		m.Pos(cl.Face[2].Node),
	}
}

// Area returns the signed area of c, positive for a valid cell.
func (m *Mesh) Area(c CellRef) float64 {
	p := m.CellPoints(c)
	return mesh2d.SignedArea(p[0], p[1], p[2])
}

// UpdateCircumcircle recomputes the circumcircle of c. It returns false for a
// degenerate cell, which keeps a zero radius.
func (m *Mesh) UpdateCircumcircle(c CellRef) bool {
	cl := m.Cell(c)
	p := m.CellPoints(c)
	center, r, ok := mesh2d.Circumcircle(p[0], p[1], p[2])
	cl.Center, cl.R = center, r
	if !ok {
		tracer().Errorf("degenerate cell %d: %v %v %v", cl.ID, p[0], p[1], p[2])
	}
	return ok
}

// InCircumcircle is a predicate: does p lie inside the circumcircle of c?
// A small relative tolerance favours "inside" for points on the circle.
func (m *Mesh) InCircumcircle(c CellRef, p mesh2d.Pair) bool {
	cl := m.Cell(c)
	return mesh2d.Dist(cl.Center, p)*(1.0-1e-8) <= cl.R
}

// Contains is a predicate: does p lie inside c or on its border?
func (m *Mesh) Contains(c CellRef, p mesh2d.Pair) bool {
	q := m.CellPoints(c)
	return mesh2d.InTriangle(q[0], q[1], q[2], p)
}

// Properties returns the number of mesh nodes and final cells.
func (m *Mesh) Properties() (nodes, cells int) {
	return len(m.order), m.Final.Size()
}

// === Faces =================================================================

// Face returns the face for handle f.
func (m *Mesh) Face(f FaceRef) *Face {
	return &m.Cell(f.Cell()).Face[f.Index()]
}

// Attach makes fa and fb adjacent. Either may be 0, in which case the other
// one becomes a boundary face.
func (m *Mesh) Attach(fa, fb FaceRef) {
	if fa != 0 {
		m.Face(fa).Adj = fb
	}
	if fb != 0 {
		m.Face(fb).Adj = fa
	}
}

// SuccFace returns the face following f within its cell.
func (m *Mesh) SuccFace(f FaceRef) FaceRef {
	return FaceOf(f.Cell(), Succ[f.Index()])
}

// PredFace returns the face preceding f within its cell.
func (m *Mesh) PredFace(f FaceRef) FaceRef {
	return FaceOf(f.Cell(), Pred[f.Index()])
}

// SuccNode returns the start node of the edge of face f.
func (m *Mesh) SuccNode(f FaceRef) NodeRef {
	return m.Cell(f.Cell()).Face[Succ[f.Index()]].Node
}

// PredNode returns the end node of the edge of face f.
func (m *Mesh) PredNode(f FaceRef) NodeRef {
	return m.Cell(f.Cell()).Face[Pred[f.Index()]].Node
}

// === Links =================================================================

// NewLink allocates a front link for node n with the next link id.
func (m *Mesh) NewLink(n NodeRef) LinkRef {
	m.curLinkID++
	l := m.factory.NewLink(m.curLinkID)
	l.ID = m.curLinkID
	l.Node = n
	if k := len(m.freeLinks); k > 0 {
		ref := m.freeLinks[k-1]
		m.freeLinks = m.freeLinks[:k-1]
		m.links[ref] = l
		return ref
	}
	m.links = append(m.links, l)
	return LinkRef(len(m.links) - 1)
}

// Link returns the link for handle l.
func (m *Mesh) Link(l LinkRef) *Link {
	if l <= 0 || int(l) >= len(m.links) || m.links[l] == nil {
		Fatalf("mesh.link", "invalid link handle %d", l)
	}
	return m.links[l]
}

// FreeLink releases link l.
func (m *Mesh) FreeLink(l LinkRef) {
	m.Link(l)
	m.links[l] = nil
	m.freeLinks = append(m.freeLinks, l)
}

// SpliceLinks makes next the successor of prev.
func (m *Mesh) SpliceLinks(prev, next LinkRef) {
	m.Link(prev).Next = next
	m.Link(next).Prev = prev
}

// LinkNode returns the node of link l.
func (m *Mesh) LinkNode(l LinkRef) NodeRef {
	return m.Link(l).Node
}

// LinkCount returns the number of live links.
func (m *Mesh) LinkCount() int {
	return len(m.links) - 1 - len(m.freeLinks)
}
