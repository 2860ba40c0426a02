package cpg

import (
	"errors"
	"testing"
)

func TestAddNodeGetOrCreate(t *testing.T) {
	g := New("g")

	a, err := g.AddNode("a")
	if err != nil {
		t.Fatalf("AddNode error: %v", err)
	}
	again, err := g.AddNode("a")
	if err != nil {
		t.Fatalf("AddNode error: %v", err)
	}
	if a != again {
		t.Error("AddNode should return the existing node for a known name")
	}
	if g.NodeCount() != 1 {
		t.Errorf("NodeCount = %d, want 1", g.NodeCount())
	}

	if _, err := g.AddNode(""); !errors.Is(err, ErrInvalidNodeName) {
		t.Errorf("AddNode(\"\") error = %v, want ErrInvalidNodeName", err)
	}
}

func TestNodeLookup(t *testing.T) {
	g := New("g")
	a, _ := g.AddNode("a")

	if n, ok := g.Node("a"); !ok || n != a {
		t.Error("Node should find an added node")
	}
	if _, ok := g.Node("missing"); ok {
		t.Error("Node should miss for unknown names")
	}
	if !g.HasNode(a) {
		t.Error("HasNode should be true for a live node")
	}

	g.RemoveNode(a)
	if g.HasNode(a) {
		t.Error("HasNode should be false after removal")
	}
	if _, ok := g.Node("a"); ok {
		t.Error("Node should miss after removal")
	}
}

func TestEnumerationOrder(t *testing.T) {
	g := New("g")
	names := []string{"z", "a", "m", "b"}
	for _, name := range names {
		if _, err := g.AddNode(name); err != nil {
			t.Fatalf("AddNode error: %v", err)
		}
	}

	nodes := g.Nodes()
	if len(nodes) != len(names) {
		t.Fatalf("Nodes length = %d, want %d", len(nodes), len(names))
	}
	for i, n := range nodes {
		if n.Name() != names[i] {
			t.Errorf("Nodes[%d] = %q, want %q (insertion order)", i, n.Name(), names[i])
		}
	}
}

func TestAddEdge(t *testing.T) {
	g := New("g")
	a, _ := g.AddNode("a")
	b, _ := g.AddNode("b")

	e, err := g.AddEdge(a, b)
	if err != nil {
		t.Fatalf("AddEdge error: %v", err)
	}
	if e.From() != a || e.To() != b {
		t.Error("AddEdge endpoints mismatch")
	}
	if !g.HasEdge(e) {
		t.Error("HasEdge should be true for a live edge")
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d, want 1", g.EdgeCount())
	}

	// Multigraphs allow parallel edges
	e2, err := g.AddEdge(a, b)
	if err != nil {
		t.Fatalf("AddEdge error: %v", err)
	}
	if e2 == e {
		t.Error("non-strict AddEdge should create a parallel edge")
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount = %d, want 2", g.EdgeCount())
	}

	// Endpoints must belong to the graph
	stranger := &Node{name: "x", attrs: Attributes{}}
	if _, err := g.AddEdge(a, stranger); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("AddEdge to unknown node error = %v, want ErrUnknownNode", err)
	}
}

func TestStrictAddEdge(t *testing.T) {
	g := NewStrict("g")
	a, _ := g.AddNode("a")
	b, _ := g.AddNode("b")

	e, err := g.AddEdge(a, b)
	if err != nil {
		t.Fatalf("AddEdge error: %v", err)
	}

	// Duplicate edges collapse to the existing one
	again, err := g.AddEdge(a, b)
	if err != nil {
		t.Fatalf("AddEdge error: %v", err)
	}
	if again != e {
		t.Error("strict AddEdge should return the existing edge")
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d, want 1", g.EdgeCount())
	}

	// Self-loops are rejected
	if _, err := g.AddEdge(a, a); !errors.Is(err, ErrSelfLoop) {
		t.Errorf("strict self-loop error = %v, want ErrSelfLoop", err)
	}
}

func TestRemoveNodeRemovesIncidentEdges(t *testing.T) {
	g := New("g")
	a, _ := g.AddNode("a")
	b, _ := g.AddNode("b")
	c, _ := g.AddNode("c")
	ab, _ := g.AddEdge(a, b)
	cb, _ := g.AddEdge(c, b)
	ac, _ := g.AddEdge(a, c)

	g.RemoveNode(b)

	if g.HasEdge(ab) || g.HasEdge(cb) {
		t.Error("edges incident to a removed node should be removed")
	}
	if !g.HasEdge(ac) {
		t.Error("unrelated edges should survive node removal")
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d, want 1", g.EdgeCount())
	}

	// Removing again is a no-op
	g.RemoveNode(b)
	if g.NodeCount() != 2 {
		t.Errorf("NodeCount = %d, want 2", g.NodeCount())
	}
}

func TestDegree(t *testing.T) {
	g := New("g")
	a, _ := g.AddNode("a")
	b, _ := g.AddNode("b")
	c, _ := g.AddNode("c")
	g.AddEdge(a, b)
	g.AddEdge(c, b)
	g.AddEdge(b, c)

	tests := []struct {
		name     string
		node     *Node
		countIn  bool
		countOut bool
		want     int
	}{
		{"b total", b, true, true, 3},
		{"b in", b, true, false, 2},
		{"b out", b, false, true, 1},
		{"a total", a, true, true, 1},
		{"a in", a, true, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.Degree(tt.node, tt.countIn, tt.countOut); got != tt.want {
				t.Errorf("Degree = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSnapshotsSurviveMutation(t *testing.T) {
	g := New("g")
	a, _ := g.AddNode("a")
	b, _ := g.AddNode("b")
	c, _ := g.AddNode("c")
	g.AddEdge(a, b)
	g.AddEdge(a, c)

	// Deleting while ranging over snapshots must not skip or panic.
	for _, n := range g.Nodes() {
		for _, e := range g.Out(n) {
			if !g.HasEdge(e) {
				continue
			}
			g.RemoveEdge(e)
			g.RemoveNode(e.To())
		}
	}

	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount = %d, want 0", g.EdgeCount())
	}
	if g.NodeCount() != 1 {
		t.Errorf("NodeCount = %d, want 1 (only the tail remains)", g.NodeCount())
	}
	if !g.HasNode(a) {
		t.Error("tail node should remain")
	}
}

func TestAttributes(t *testing.T) {
	g := New("g")
	a, _ := g.AddNode("a")

	if _, ok := a.Attr("file"); ok {
		t.Error("unset attribute should miss")
	}

	a.SetAttr("file", "main.c")
	if v, ok := a.Attr("file"); !ok || v != "main.c" {
		t.Errorf("Attr = %q, %v", v, ok)
	}
}

func TestDefaultAttributes(t *testing.T) {
	g := New("g")
	a, _ := g.AddNode("a")
	g.SetNodeDefault("file", "unknown.c")

	// Defaults apply to nodes created before and after the declaration.
	b, _ := g.AddNode("b")
	for _, n := range []*Node{a, b} {
		if v, ok := n.Attr("file"); !ok || v != "unknown.c" {
			t.Errorf("node %q Attr = %q, %v; want default", n.Name(), v, ok)
		}
	}

	// A node's own value wins over the default.
	a.SetAttr("file", "main.c")
	if v, _ := a.Attr("file"); v != "main.c" {
		t.Errorf("Attr = %q, want node value over default", v)
	}

	// Edge defaults behave the same way.
	e, _ := g.AddEdge(a, b)
	g.SetEdgeDefault("value", "0")
	if v, ok := e.Attr("value"); !ok || v != "0" {
		t.Errorf("edge Attr = %q, %v; want default", v, ok)
	}
	e.SetAttr("value", "7")
	if v, _ := e.Attr("value"); v != "7" {
		t.Errorf("edge Attr = %q, want edge value over default", v)
	}
}
