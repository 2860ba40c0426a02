package cpg

import "slices"

// Memory is the in-process [Graph] implementation. It keeps nodes and edges
// in insertion order, indexes them for identity checks, and hands out
// snapshot slices so the caller can mutate the graph mid-traversal.
//
// Memory is not safe for concurrent use without external synchronization.
type Memory struct {
	name   string
	strict bool

	nodes  []*Node
	lookup map[string]*Node

	edges   []*Edge
	edgeSet map[*Edge]struct{}
	out     map[*Node][]*Edge
	in      map[*Node][]*Edge

	nodeDefaults Attributes
	edgeDefaults Attributes
}

// New creates an empty directed multigraph with the given name.
func New(name string) *Memory {
	return &Memory{
		name:         name,
		lookup:       make(map[string]*Node),
		edgeSet:      make(map[*Edge]struct{}),
		out:          make(map[*Node][]*Edge),
		in:           make(map[*Node][]*Edge),
		nodeDefaults: Attributes{},
		edgeDefaults: Attributes{},
	}
}

// NewStrict creates an empty strict digraph: AddEdge never creates parallel
// edges and rejects self-loops. The compartment merger builds its output
// with these semantics.
func NewStrict(name string) *Memory {
	m := New(name)
	m.strict = true
	return m
}

// Name returns the graph name.
func (m *Memory) Name() string { return m.name }

// Nodes returns a snapshot of all nodes in enumeration order.
func (m *Memory) Nodes() []*Node { return slices.Clone(m.nodes) }

// Node returns the node with the given name, if present.
func (m *Memory) Node(name string) (*Node, bool) {
	n, ok := m.lookup[name]
	return n, ok
}

// HasNode reports whether n currently belongs to the graph.
func (m *Memory) HasNode(n *Node) bool {
	cur, ok := m.lookup[n.name]
	return ok && cur == n
}

// AddNode returns the node with the given name, creating it if it does not
// exist yet. Returns ErrInvalidNodeName for an empty name.
func (m *Memory) AddNode(name string) (*Node, error) {
	if name == "" {
		return nil, ErrInvalidNodeName
	}
	if n, ok := m.lookup[name]; ok {
		return n, nil
	}
	n := &Node{name: name, attrs: Attributes{}, defaults: m.nodeDefaults}
	m.nodes = append(m.nodes, n)
	m.lookup[name] = n
	return n, nil
}

// RemoveNode deletes n and all edges incident to it. Removing a node that
// is no longer part of the graph is a no-op.
func (m *Memory) RemoveNode(n *Node) {
	if !m.HasNode(n) {
		return
	}
	for _, e := range slices.Clone(m.out[n]) {
		m.RemoveEdge(e)
	}
	for _, e := range slices.Clone(m.in[n]) {
		m.RemoveEdge(e)
	}
	delete(m.lookup, n.name)
	delete(m.out, n)
	delete(m.in, n)
	if i := slices.Index(m.nodes, n); i >= 0 {
		m.nodes = slices.Delete(m.nodes, i, i+1)
	}
}

// Out returns a snapshot of the edges whose tail is n, in creation order.
func (m *Memory) Out(n *Node) []*Edge { return slices.Clone(m.out[n]) }

// HasEdge reports whether e currently belongs to the graph.
func (m *Memory) HasEdge(e *Edge) bool {
	_, ok := m.edgeSet[e]
	return ok
}

// AddEdge creates a directed edge from tail to head. Both endpoints must
// already belong to the graph. On strict graphs an existing from→to edge
// is returned instead of a parallel one, and self-loops are rejected.
func (m *Memory) AddEdge(from, to *Node) (*Edge, error) {
	if !m.HasNode(from) || !m.HasNode(to) {
		return nil, ErrUnknownNode
	}
	if m.strict {
		if from == to {
			return nil, ErrSelfLoop
		}
		for _, e := range m.out[from] {
			if e.to == to {
				return e, nil
			}
		}
	}
	e := &Edge{from: from, to: to, attrs: Attributes{}, defaults: m.edgeDefaults}
	m.edges = append(m.edges, e)
	m.edgeSet[e] = struct{}{}
	m.out[from] = append(m.out[from], e)
	m.in[to] = append(m.in[to], e)
	return e, nil
}

// RemoveEdge deletes e. Removing an edge that is no longer part of the
// graph is a no-op.
func (m *Memory) RemoveEdge(e *Edge) {
	if !m.HasEdge(e) {
		return
	}
	delete(m.edgeSet, e)
	if i := slices.Index(m.edges, e); i >= 0 {
		m.edges = slices.Delete(m.edges, i, i+1)
	}
	if i := slices.Index(m.out[e.from], e); i >= 0 {
		m.out[e.from] = slices.Delete(m.out[e.from], i, i+1)
	}
	if i := slices.Index(m.in[e.to], e); i >= 0 {
		m.in[e.to] = slices.Delete(m.in[e.to], i, i+1)
	}
}

// Degree counts edges incident to n in the selected directions.
func (m *Memory) Degree(n *Node, countIn, countOut bool) int {
	d := 0
	if countIn {
		d += len(m.in[n])
	}
	if countOut {
		d += len(m.out[n])
	}
	return d
}

// NodeCount returns the number of nodes.
func (m *Memory) NodeCount() int { return len(m.nodes) }

// EdgeCount returns the number of edges.
func (m *Memory) EdgeCount() int { return len(m.edges) }

// SetNodeDefault declares a graph-level default node attribute. Existing
// and future nodes observe the default through [Node.Attr] unless they set
// the key themselves.
func (m *Memory) SetNodeDefault(key, value string) { m.nodeDefaults[key] = value }

// SetEdgeDefault declares a graph-level default edge attribute.
func (m *Memory) SetEdgeDefault(key, value string) { m.edgeDefaults[key] = value }

// Ensure Memory implements Graph.
var _ Graph = (*Memory)(nil)
