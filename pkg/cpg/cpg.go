// Package cpg defines the graph model the reduction pipeline operates on.
//
// A Code Property Graph (CPG) is a directed multigraph whose nodes are
// program entities (functions) and whose edges are relations between them
// (call edges). Every node carries string attributes; the pipeline consumes
// two of them, "file" and "label", and reads an optional "value" attribute
// on edges.
//
// The pipeline depends on the [Graph] interface rather than a concrete
// structure so that the backing graph library can be swapped without
// touching the reducer, merger, or serializers. [Memory] is the default
// implementation.
package cpg

import "errors"

// Attribute keys consumed by the pipeline.
const (
	// AttrFile associates a node with a source file. An empty value means
	// the node has no known file of origin.
	AttrFile = "file"

	// AttrLabel is the human-readable node identifier. By upstream
	// convention the stored value includes its quoting delimiters.
	AttrLabel = "label"

	// AttrValue is an optional edge weight carried through to serialization.
	AttrValue = "value"
)

var (
	// ErrInvalidNodeName is returned by [Graph.AddNode] when the name is empty.
	ErrInvalidNodeName = errors.New("node name must not be empty")

	// ErrUnknownNode is returned by [Graph.AddEdge] when an endpoint does
	// not belong to the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrSelfLoop is returned by [Graph.AddEdge] on strict graphs, which
	// permit neither self-loops nor parallel edges.
	ErrSelfLoop = errors.New("self-loop not permitted in strict graph")
)

// Attributes is a string key-value store attached to nodes and edges.
type Attributes map[string]string

// Node is a vertex with a unique name and an attribute map. Nodes are
// created through [Graph.AddNode] and compared by identity; two nodes with
// the same name in different graphs are distinct.
type Node struct {
	name     string
	attrs    Attributes
	defaults Attributes // graph-level node defaults, shared
}

// Name returns the node's unique name within its graph.
func (n *Node) Name() string { return n.name }

// Attr returns the attribute value for key. Lookup falls back to the
// graph-level default declared for that key; ok is false only when neither
// the node nor the graph defines the attribute.
func (n *Node) Attr(key string) (value string, ok bool) {
	if v, ok := n.attrs[key]; ok {
		return v, true
	}
	v, ok := n.defaults[key]
	return v, ok
}

// SetAttr sets an attribute on the node, shadowing any graph-level default.
func (n *Node) SetAttr(key, value string) {
	if n.attrs == nil {
		n.attrs = Attributes{}
	}
	n.attrs[key] = value
}

// Edge is a directed connection from a tail node to a head node. Edges are
// created through [Graph.AddEdge] and compared by identity; a multigraph
// may hold several edges between the same pair of nodes.
type Edge struct {
	from     *Node
	to       *Node
	attrs    Attributes
	defaults Attributes // graph-level edge defaults, shared
}

// From returns the tail node.
func (e *Edge) From() *Node { return e.from }

// To returns the head node.
func (e *Edge) To() *Node { return e.to }

// Attr returns the attribute value for key, falling back to the graph-level
// edge default.
func (e *Edge) Attr(key string) (value string, ok bool) {
	if v, ok := e.attrs[key]; ok {
		return v, true
	}
	v, ok := e.defaults[key]
	return v, ok
}

// SetAttr sets an attribute on the edge.
func (e *Edge) SetAttr(key, value string) {
	if e.attrs == nil {
		e.attrs = Attributes{}
	}
	e.attrs[key] = value
}

// Graph is the capability surface the pipeline requires from a graph
// implementation: enumeration, attribute access, structural mutation, and
// degree queries.
//
// Nodes and Out return snapshots, so callers may delete nodes and edges
// while ranging over them. HasNode and HasEdge report whether an entity
// from an earlier snapshot is still part of the graph.
type Graph interface {
	// Name returns the graph name from the source description.
	Name() string

	// Nodes returns all nodes in enumeration order. Enumeration order is
	// stable across calls and preserved by deletions; serialization depends
	// on it.
	Nodes() []*Node

	// Node returns the node with the given name, if present.
	Node(name string) (*Node, bool)

	// HasNode reports whether n currently belongs to the graph.
	HasNode(n *Node) bool

	// AddNode returns the node with the given name, creating it if needed.
	AddNode(name string) (*Node, error)

	// RemoveNode deletes n and every edge incident to it.
	RemoveNode(n *Node)

	// Out returns the edges whose tail is n, in creation order.
	Out(n *Node) []*Edge

	// HasEdge reports whether e currently belongs to the graph.
	HasEdge(e *Edge) bool

	// AddEdge creates a directed edge from tail to head. On strict graphs
	// an existing tail→head edge is returned instead of a parallel one,
	// and self-loops yield ErrSelfLoop.
	AddEdge(from, to *Node) (*Edge, error)

	// RemoveEdge deletes e. Removing an edge that is no longer part of the
	// graph is a no-op.
	RemoveEdge(e *Edge)

	// Degree counts edges incident to n. countIn and countOut select which
	// directions contribute; a self-loop counts once per selected direction.
	Degree(n *Node, countIn, countOut bool) int

	// NodeCount returns the number of nodes.
	NodeCount() int

	// EdgeCount returns the number of edges.
	EdgeCount() int

	// SetNodeDefault declares a graph-level default node attribute, the
	// equivalent of a DOT "node [key=value]" statement.
	SetNodeDefault(key, value string)

	// SetEdgeDefault declares a graph-level default edge attribute.
	SetEdgeDefault(key, value string)
}
