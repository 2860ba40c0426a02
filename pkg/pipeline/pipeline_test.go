package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/kwitaszczyk/cpg-reducer/pkg/cache"
	"github.com/kwitaszczyk/cpg-reducer/pkg/errors"
)

const testInput = `digraph g {
	"a" [label="\"fa\"", file="\"one.c\"xx"];
	"b" [label="\"fb\"", file="\"one.c\"xx"];
	"c" [label="\"fc\"", file="\"two.c\"xx"];
	"a" -> "b" [value="1"];
	"b" -> "c" [value="2"];
}`

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.NodeType != NodeTypeCompartment {
		t.Errorf("NodeType = %q, want %q", opts.NodeType, NodeTypeCompartment)
	}
	if opts.Format != FormatD3Arc {
		t.Errorf("Format = %q, want %q", opts.Format, FormatD3Arc)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestValidateNodeType(t *testing.T) {
	for _, valid := range []string{NodeTypeFunction, NodeTypeCompartment} {
		if err := ValidateNodeType(valid); err != nil {
			t.Errorf("ValidateNodeType(%q) = %v, want nil", valid, err)
		}
	}

	err := ValidateNodeType("module")
	if err == nil {
		t.Fatal("ValidateNodeType should reject unknown node types")
	}
	if !errors.Is(err, errors.ErrCodeInvalidNodeType) {
		t.Errorf("error = %v, want code %s", err, errors.ErrCodeInvalidNodeType)
	}
}

func TestValidateFormat(t *testing.T) {
	if err := ValidateFormat(FormatD3Arc); err != nil {
		t.Errorf("ValidateFormat(%q) = %v, want nil", FormatD3Arc, err)
	}

	err := ValidateFormat("graphml")
	if err == nil {
		t.Fatal("ValidateFormat should reject unknown formats")
	}
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want code %s", err, errors.ErrCodeInvalidFormat)
	}
}

func TestExecuteFunctionNodes(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), strings.NewReader(testInput), Options{
		NodeType: NodeTypeFunction,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Stats.GraphCount != 1 {
		t.Fatalf("GraphCount = %d, want 1", result.Stats.GraphCount)
	}
	// a -> b is intra-file, so it goes, and a with it; b -> c survives.
	if result.Stats.EdgesRemoved != 1 || result.Stats.NodesRemoved != 1 {
		t.Errorf("stats = %+v, want 1 edge and 1 node removed", result.Stats)
	}

	want := `{
  "nodes": [
    {"id": "fb", "group": "one.c"},
    {"id": "fc", "group": "two.c"}
  ],
  "links": [
    {"source": "fb", "target": "fc", "value": "2"}
  ]
}
`
	if got := string(result.Bytes()); got != want {
		t.Errorf("output mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestExecuteCompartmentNodes(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), strings.NewReader(testInput), Options{
		NodeType: NodeTypeCompartment,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	// Compartment ids go through the same label trim as function ids, so
	// the leading quote of the file value is dropped and one trailing
	// character survives. The links array is empty: compartments carry no
	// edges.
	want := `{
  "nodes": [
    {"id": "one.c"x", "group": "one.c"},
    {"id": "two.c"x", "group": "two.c"}
  ],
  "links": [
  ]
}
`
	if got := string(result.Bytes()); got != want {
		t.Errorf("output mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestExecuteMultipleGraphs(t *testing.T) {
	input := testInput + "\n" + `digraph h {
	"x" [label="\"fx\"", file="\"three.c\"xx"];
}`

	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), strings.NewReader(input), Options{
		NodeType: NodeTypeFunction,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Stats.GraphCount != 2 {
		t.Errorf("GraphCount = %d, want 2", result.Stats.GraphCount)
	}
	if len(result.Blocks) != 2 {
		t.Fatalf("Blocks = %d, want 2", len(result.Blocks))
	}
	if len(result.GraphHashes) != 2 || result.GraphHashes[0] == result.GraphHashes[1] {
		t.Error("each graph should carry its own content hash")
	}
	// Output is the concatenation of the per-graph blocks in input order.
	joined := string(result.Blocks[0]) + string(result.Blocks[1])
	if got := string(result.Bytes()); got != joined {
		t.Error("Bytes should concatenate blocks in input order")
	}
}

func TestExecuteSyntaxErrorAborts(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	_, err := runner.Execute(context.Background(), strings.NewReader(`digraph { "a" -- "b" }`), Options{})
	if err == nil {
		t.Fatal("Execute should fail on invalid input")
	}
}

func TestExecuteMissingFileAttrAborts(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	input := `digraph { "a" -> "b"; }`
	_, err := runner.Execute(context.Background(), strings.NewReader(input), Options{})
	if err == nil {
		t.Fatal("Execute should fail when a node lacks a file attribute")
	}
	if !errors.Is(err, errors.ErrCodeMissingAttribute) {
		t.Errorf("error = %v, want code %s", err, errors.ErrCodeMissingAttribute)
	}
}

func TestExecuteCaching(t *testing.T) {
	store, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	runner := NewRunner(store, nil, nil)
	defer runner.Close()

	ctx := context.Background()

	first, err := runner.Execute(ctx, strings.NewReader(testInput), Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.CacheInfo.Hits != 0 || first.CacheInfo.Misses != 1 {
		t.Errorf("first run CacheInfo = %+v, want 1 miss", first.CacheInfo)
	}

	second, err := runner.Execute(ctx, strings.NewReader(testInput), Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if second.CacheInfo.Hits != 1 {
		t.Errorf("second run CacheInfo = %+v, want 1 hit", second.CacheInfo)
	}
	if string(second.Bytes()) != string(first.Bytes()) {
		t.Error("cached output should match computed output")
	}

	// Different options key separately.
	other, err := runner.Execute(ctx, strings.NewReader(testInput), Options{NodeType: NodeTypeFunction})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if other.CacheInfo.Hits != 0 {
		t.Errorf("different options should not hit the cache: %+v", other.CacheInfo)
	}

	// Refresh bypasses the cache.
	refreshed, err := runner.Execute(ctx, strings.NewReader(testInput), Options{Refresh: true})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if refreshed.CacheInfo.Hits != 0 {
		t.Errorf("refresh should bypass the cache: %+v", refreshed.CacheInfo)
	}
}
