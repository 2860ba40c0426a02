// Package nodelink renders a CPG as a classic node-link diagram via
// Graphviz. It exists for quick visual inspection of a reduced graph
// without standing up the D3 front end: nodes are colored by their source
// file so cross-file call structure is readable at a glance.
package nodelink

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/kwitaszczyk/cpg-reducer/pkg/cpg"
)

// palette holds the fill colors cycled across file groups.
var palette = []string{
	"lightblue", "lightyellow", "lightpink", "lightgreen",
	"lightsalmon", "lightcyan", "plum", "wheat",
}

// unassignedFill is the fill color for nodes with no file of origin.
const unassignedFill = "lightgrey"

// ToDOT converts a graph to Graphviz DOT format. Nodes sharing a file
// attribute share a fill color; nodes without a file render grey. The
// resulting DOT string can be rendered with [RenderSVG].
func ToDOT(g cpg.Graph) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=12];\n")
	buf.WriteString("\n")

	colors := map[string]string{}
	for _, n := range g.Nodes() {
		file, _ := n.Attr(cpg.AttrFile)
		fill := unassignedFill
		if file != "" {
			if _, ok := colors[file]; !ok {
				colors[file] = palette[len(colors)%len(palette)]
			}
			fill = colors[file]
		}
		fmt.Fprintf(&buf, "  %q [fillcolor=%s, tooltip=%q];\n", n.Name(), fill, file)
	}

	buf.WriteString("\n")
	for _, n := range g.Nodes() {
		for _, e := range g.Out(n) {
			if v, ok := e.Attr(cpg.AttrValue); ok && v != "" {
				fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.From().Name(), e.To().Name(), v)
			} else {
				fmt.Fprintf(&buf, "  %q -> %q;\n", e.From().Name(), e.To().Name())
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
