package reduce

import (
	"testing"

	"github.com/kwitaszczyk/cpg-reducer/pkg/cpg"
)

func TestMergeCompartments(t *testing.T) {
	g := cpg.New("g")
	node(t, g, "a", "one.c")
	node(t, g, "b", "one.c")
	node(t, g, "c", "two.c")

	merged, err := MergeCompartments(g)
	if err != nil {
		t.Fatalf("MergeCompartments: %v", err)
	}

	if merged.Name() != MergedGraphName {
		t.Errorf("Name = %q, want %q", merged.Name(), MergedGraphName)
	}
	if merged.NodeCount() != 2 {
		t.Fatalf("NodeCount = %d, want 2 (one per distinct file)", merged.NodeCount())
	}

	for _, file := range []string{"one.c", "two.c"} {
		n, ok := merged.Node(file)
		if !ok {
			t.Errorf("compartment %q missing", file)
			continue
		}
		if v, _ := n.Attr(cpg.AttrLabel); v != file {
			t.Errorf("compartment %q label = %q, want the file name", file, v)
		}
		if v, _ := n.Attr(cpg.AttrFile); v != file {
			t.Errorf("compartment %q file = %q, want the file name", file, v)
		}
	}
}

func TestMergeCompartmentsOrder(t *testing.T) {
	// Compartments appear in first-sighting order of their file.
	g := cpg.New("g")
	node(t, g, "a", "zz.c")
	node(t, g, "b", "aa.c")
	node(t, g, "c", "zz.c")
	node(t, g, "d", "mm.c")

	merged, err := MergeCompartments(g)
	if err != nil {
		t.Fatalf("MergeCompartments: %v", err)
	}

	want := []string{"zz.c", "aa.c", "mm.c"}
	nodes := merged.Nodes()
	if len(nodes) != len(want) {
		t.Fatalf("NodeCount = %d, want %d", len(nodes), len(want))
	}
	for i, n := range nodes {
		if n.Name() != want[i] {
			t.Errorf("compartment %d = %q, want %q", i, n.Name(), want[i])
		}
	}
}

func TestMergeCompartmentsSkipsEmptyFile(t *testing.T) {
	g := cpg.New("g")
	node(t, g, "a", "one.c")
	node(t, g, "b", "")

	merged, err := MergeCompartments(g)
	if err != nil {
		t.Fatalf("MergeCompartments: %v", err)
	}

	if merged.NodeCount() != 1 {
		t.Errorf("NodeCount = %d, want 1 (empty file contributes no compartment)", merged.NodeCount())
	}
	if _, ok := merged.Node(""); ok {
		t.Error("no compartment should exist for the empty file")
	}
}

func TestMergeCompartmentsCarriesNoEdges(t *testing.T) {
	// The compartment graph has never carried edges; serializing it yields
	// an empty links array. Pinned so a future edge-aggregation rule is a
	// deliberate format change, not an accident.
	g := cpg.New("g")
	a := node(t, g, "a", "one.c")
	b := node(t, g, "b", "two.c")
	edge(t, g, a, b)

	merged, err := MergeCompartments(g)
	if err != nil {
		t.Fatalf("MergeCompartments: %v", err)
	}

	if merged.EdgeCount() != 0 {
		t.Errorf("EdgeCount = %d, want 0", merged.EdgeCount())
	}
}

func TestMergeCompartmentsMissingFileAttr(t *testing.T) {
	g := cpg.New("g")
	if _, err := g.AddNode("a"); err != nil {
		t.Fatalf("AddNode: %v", err)
	}

	if _, err := MergeCompartments(g); err == nil {
		t.Fatal("MergeCompartments should fail on a node without a file attribute")
	}
}
