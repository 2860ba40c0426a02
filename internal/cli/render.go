package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kwitaszczyk/cpg-reducer/pkg/dot"
	"github.com/kwitaszczyk/cpg-reducer/pkg/pipeline"
	"github.com/kwitaszczyk/cpg-reducer/pkg/reduce"
	"github.com/kwitaszczyk/cpg-reducer/pkg/render/nodelink"
)

// Render format constants.
const (
	renderFormatDOT = "dot"
	renderFormatSVG = "svg"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	nodeType string // reduction granularity before rendering
	format   string // "dot" or "svg"
	output   string // output file path (default: stdout)
}

// renderCommand creates the render command for visual inspection of a
// reduced graph. Unlike reduce, this emits Graphviz output rather than the
// front-end document, which is handy when debugging why an edge survived
// (or didn't).
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		nodeType: c.Config.NodeType,
		format:   renderFormatDOT,
	}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a reduced graph as DOT or SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateNodeType(opts.nodeType); err != nil {
				return err
			}
			if opts.format != renderFormatDOT && opts.format != renderFormatSVG {
				return fmt.Errorf("invalid format: %q (must be one of: dot, svg)", opts.format)
			}
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return c.runRender(cmd.Context(), input, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.nodeType, "node-type", "n", opts.nodeType, "node type: compartment (default), function")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot (default), svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

// runRender decodes, reduces, and renders every graph in the input.
// Multiple input graphs are concatenated in the output for DOT; SVG output
// requires a single input graph.
func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	in, err := openInput(input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	graphs, err := dot.Decode(in)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if len(graphs) == 0 {
		return fmt.Errorf("no graph descriptions in input")
	}
	if opts.format == renderFormatSVG && len(graphs) > 1 {
		return fmt.Errorf("svg output supports a single graph, input has %d", len(graphs))
	}

	var out []byte
	for _, g := range graphs {
		if _, err := reduce.RemoveIntraFileEdges(g); err != nil {
			return err
		}
		if opts.nodeType == pipeline.NodeTypeCompartment {
			merged, err := reduce.MergeCompartments(g)
			if err != nil {
				return err
			}
			g = merged
		}

		dotText := nodelink.ToDOT(g)
		if opts.format == renderFormatDOT {
			out = append(out, dotText...)
			continue
		}

		spinner := newSpinnerWithContext(ctx, "Rendering SVG...")
		spinner.Start()
		svg, err := nodelink.RenderSVG(ctx, dotText)
		spinner.Stop()
		if err != nil {
			return fmt.Errorf("render svg: %w", err)
		}
		out = svg
	}

	return c.writeRenderOutput(opts.output, out)
}

// writeRenderOutput writes rendered bytes to the output file or stdout.
func (c *CLI) writeRenderOutput(output string, data []byte) error {
	if output == "" || output == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	printSuccess("Wrote rendering")
	printFile(output)
	return nil
}
