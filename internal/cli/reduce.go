package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kwitaszczyk/cpg-reducer/pkg/pipeline"
)

// reduceOpts holds the command-line flags for the reduce command.
type reduceOpts struct {
	nodeType string // reduction granularity: "function" or "compartment"
	format   string // output format
	output   string // output file path (default: stdout)
	refresh  bool   // bypass the cache and overwrite stored results
	noCache  bool   // disable caching entirely
	redis    string // Redis cache address (host:port)
}

// reduceCommand creates the reduce command, the tool's primary operation.
//
// The input may contain several graph descriptions back to back; each is
// reduced independently and the outputs are emitted in input order. With no
// file argument (or "-") the command reads from stdin, so it composes as a
// filter:
//
//	cpg-extract kernel.bc | cpg-reducer reduce -n compartment > kernel.json
func (c *CLI) reduceCommand() *cobra.Command {
	opts := reduceOpts{
		nodeType: c.Config.NodeType,
		format:   c.Config.Format,
		noCache:  c.Config.NoCache,
		redis:    c.Config.Redis,
	}

	cmd := &cobra.Command{
		Use:   "reduce [file]",
		Short: "Reduce a CPG export to its cross-file structure",
		Long: `Reduce a CPG export to its cross-file structure.

The reduction removes every call edge between functions of the same source
file, drops functions left isolated by that removal, and (with the default
compartment node type) folds the survivors into one node per source file.
The result is serialized for the D3 arc-diagram front end.

Results are cached by input content, so repeat runs over the same export
are served from cache. Use --refresh to force recomputation.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateNodeType(opts.nodeType); err != nil {
				return err
			}
			if err := pipeline.ValidateFormat(opts.format); err != nil {
				return err
			}
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return c.runReduce(cmd.Context(), input, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.nodeType, "node-type", "n", opts.nodeType, "node type: compartment (default), function")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: d3-arc (default)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the cache and overwrite stored results")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", opts.noCache, "disable caching")
	cmd.Flags().StringVar(&opts.redis, "redis", opts.redis, "Redis cache address (host:port)")

	return cmd
}

// runReduce executes the reduction pipeline over the named input.
func (c *CLI) runReduce(ctx context.Context, input string, opts *reduceOpts) error {
	in, err := openInput(input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	runner, err := c.newRunner(ctx, opts.noCache, opts.redis)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	result, err := runner.Execute(ctx, in, pipeline.Options{
		NodeType: opts.nodeType,
		Format:   opts.format,
		Refresh:  opts.refresh,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Reduced %d graph(s)", result.Stats.GraphCount))

	if opts.output == "" || opts.output == "-" {
		_, err := os.Stdout.Write(result.Bytes())
		return err
	}

	if err := os.WriteFile(opts.output, result.Bytes(), 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	printSuccess("Wrote %s output", opts.format)
	printFile(opts.output)
	printReduceStats(result)
	return nil
}

// printReduceStats prints a summary line for a completed run.
func printReduceStats(result *pipeline.Result) {
	printStats(result.Stats.GraphCount, result.Stats.EdgesRemoved, result.Stats.NodesRemoved,
		result.CacheInfo.Hits == result.Stats.GraphCount && result.Stats.GraphCount > 0)
}
