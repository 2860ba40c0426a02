package reduce

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/kwitaszczyk/cpg-reducer/pkg/cpg"
)

// buildGraph constructs a graph from generated data: one node per entry of
// files (the value selects the node's file), and one edge per entry of
// edges (the value selects the endpoint pair). File index 0 means an empty
// file attribute.
func buildGraph(files []int, edges []int) cpg.Graph {
	g := cpg.New("gen")
	nodes := make([]*cpg.Node, 0, len(files))
	for i, f := range files {
		n, _ := g.AddNode(fmt.Sprintf("n%d", i))
		if f == 0 {
			n.SetAttr(cpg.AttrFile, "")
		} else {
			n.SetAttr(cpg.AttrFile, fmt.Sprintf("f%d.c", f))
		}
		nodes = append(nodes, n)
	}
	if len(nodes) == 0 {
		return g
	}
	for _, e := range edges {
		from := nodes[e%len(nodes)]
		to := nodes[(e/len(nodes))%len(nodes)]
		g.AddEdge(from, to)
	}
	return g
}

// countEdges counts edges satisfying pred.
func countEdges(g cpg.Graph, pred func(e *cpg.Edge) bool) int {
	count := 0
	for _, n := range g.Nodes() {
		for _, e := range g.Out(n) {
			if pred(e) {
				count++
			}
		}
	}
	return count
}

func fileAttr(n *cpg.Node) string {
	v, _ := n.Attr(cpg.AttrFile)
	return v
}

func isIntraFile(e *cpg.Edge) bool {
	from, to := fileAttr(e.From()), fileAttr(e.To())
	return from != "" && to != "" && from == to
}

func TestReductionProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	genFiles := gen.SliceOf(gen.IntRange(0, 4))
	genEdges := gen.SliceOf(gen.IntRange(0, 1<<16))

	properties.Property("no intra-file edge survives the reduction", prop.ForAll(
		func(files []int, edges []int) bool {
			g := buildGraph(files, edges)
			if _, err := RemoveIntraFileEdges(g); err != nil {
				return false
			}
			return countEdges(g, isIntraFile) == 0
		},
		genFiles, genEdges,
	))

	properties.Property("every cross-file edge survives the reduction", prop.ForAll(
		func(files []int, edges []int) bool {
			g := buildGraph(files, edges)
			before := countEdges(g, func(e *cpg.Edge) bool { return !isIntraFile(e) })
			if _, err := RemoveIntraFileEdges(g); err != nil {
				return false
			}
			return g.EdgeCount() == before
		},
		genFiles, genEdges,
	))

	properties.Property("reduction is idempotent", prop.ForAll(
		func(files []int, edges []int) bool {
			g := buildGraph(files, edges)
			if _, err := RemoveIntraFileEdges(g); err != nil {
				return false
			}
			stats, err := RemoveIntraFileEdges(g)
			if err != nil {
				return false
			}
			return stats.EdgesRemoved == 0 && stats.NodesRemoved == 0
		},
		genFiles, genEdges,
	))

	properties.Property("one compartment per distinct non-empty file", prop.ForAll(
		func(files []int, edges []int) bool {
			g := buildGraph(files, edges)
			if _, err := RemoveIntraFileEdges(g); err != nil {
				return false
			}
			distinct := map[string]bool{}
			for _, n := range g.Nodes() {
				if f := fileAttr(n); f != "" {
					distinct[f] = true
				}
			}
			merged, err := MergeCompartments(g)
			if err != nil {
				return false
			}
			return merged.NodeCount() == len(distinct) && merged.EdgeCount() == 0
		},
		genFiles, genEdges,
	))

	properties.TestingRun(t)
}
