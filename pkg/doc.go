// Package pkg provides the core libraries for reducing code property graphs.
//
// # Overview
//
// A code property graph (CPG) export describes every function of a program and
// the calls between them, with each function annotated with the source file it
// was compiled from. The reduction removes the edges between functions of the
// same file, drops the functions this isolates, and optionally folds each
// file's survivors into a single compartment node. The result is a
// cross-boundary view of the program suitable for an arc diagram.
//
// # Architecture
//
// The typical data flow:
//
//	DOT export (one or more digraphs)
//	         ↓
//	    [dot] package (stream decoding)
//	         ↓
//	    [cpg] package (in-memory graph)
//	         ↓
//	    [reduce] package (edge removal + compartment merge)
//	         ↓
//	    [render/d3arc] package (node/link serialization)
//
// # Quick Start
//
// Reduce an export end to end:
//
//	import (
//	    "context"
//	    "os"
//	    "github.com/kwitaszczyk/cpg-reducer/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	defer runner.Close()
//
//	result, err := runner.Execute(context.Background(), os.Stdin, pipeline.Options{
//	    NodeType: pipeline.NodeTypeCompartment,
//	})
//	if err != nil {
//	    // handle err
//	}
//	os.Stdout.Write(result.Bytes())
//
// # Main Packages
//
// [dot] - Streaming decoder and encoder for the DOT digraph subset emitted by
// CPG extraction tools, including nonstandard node attributes.
//
// [cpg] - In-memory directed multigraph with string attributes, insertion
// order enumeration, and snapshot-based traversal.
//
// [reduce] - The reduction itself: intra-file edge removal with isolated-node
// cleanup, and the per-file compartment merge.
//
// [render/d3arc] - Byte-exact node/link serialization for the d3 arc-diagram
// page. [render/nodelink] renders reduced graphs to DOT and SVG via Graphviz.
//
// [pipeline] - Orchestration (decode → reduce → serialize) with per-graph
// content-addressed caching. Used by the CLI and the HTTP server so both
// behave identically.
//
// [cache] - Cache backends: file-based for the CLI, Redis for serve mode, and
// a null backend when caching is disabled.
//
// [observability] - Optional hooks for pipeline and cache events.
//
// [errors] - Coded errors shared across the module.
package pkg
