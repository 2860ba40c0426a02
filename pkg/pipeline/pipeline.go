// Package pipeline provides the core reduction pipeline for cpg-reducer.
//
// This package implements the complete decode → reduce → merge → serialize
// pipeline that can be used by CLI and serve components. By centralizing this
// logic, we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of up to four stages per input graph:
//
//  1. Decode: Read the next graph description from the input stream
//  2. Reduce: Remove intra-file edges and newly isolated nodes
//  3. Merge: Fold surviving nodes into per-file compartments (compartment
//     node type only)
//  4. Serialize: Emit the node/link document for the front end
//
// An input stream may hold several graph descriptions back to back; the
// pipeline processes each in order and emits one output block per graph.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    NodeType: pipeline.NodeTypeCompartment,
//	    Format:   pipeline.FormatD3Arc,
//	}
//	result, err := runner.Execute(ctx, input, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Stdout.Write(result.Bytes())
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kwitaszczyk/cpg-reducer/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Serve
// =============================================================================

// Node type constants for reduction granularity.
const (
	// NodeTypeFunction keeps one node per function after reduction.
	NodeTypeFunction = "function"

	// NodeTypeCompartment folds functions into one node per source file.
	NodeTypeCompartment = "compartment"
)

// Format constants for output formats.
const (
	// FormatD3Arc is the node/link document for the D3 arc-diagram page.
	FormatD3Arc = "d3-arc"
)

// Defaults applied when an option is left empty.
const (
	DefaultNodeType = NodeTypeCompartment
	DefaultFormat   = FormatD3Arc
)

// ValidNodeTypes is the set of supported node types.
var ValidNodeTypes = map[string]bool{
	NodeTypeFunction:    true,
	NodeTypeCompartment: true,
}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatD3Arc: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the reduction pipeline.
// This struct supports JSON serialization for serve-mode requests.
type Options struct {
	// NodeType selects the reduction granularity: "function" or "compartment".
	NodeType string `json:"node_type,omitempty"`

	// Format selects the output format.
	Format string `json:"format,omitempty"`

	// Refresh bypasses the cache and overwrites any stored result.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Blocks holds one serialized output per input graph, in input order.
	Blocks [][]byte

	// GraphHashes holds the content hash of each input graph, parallel to
	// Blocks. Serve mode returns them so clients can poll for reuse.
	GraphHashes []string

	// Cached records, per block, whether the output came from cache.
	Cached []bool

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which graphs hit the cache.
	CacheInfo CacheInfo
}

// Bytes concatenates all output blocks in input order.
func (r *Result) Bytes() []byte {
	var total int
	for _, b := range r.Blocks {
		total += len(b)
	}
	out := make([]byte, 0, total)
	for _, b := range r.Blocks {
		out = append(out, b...)
	}
	return out
}

// Stats contains pipeline execution statistics.
type Stats struct {
	GraphCount    int
	EdgesRemoved  int
	NodesRemoved  int
	DecodeTime    time.Duration
	ReduceTime    time.Duration
	SerializeTime time.Duration
}

// CacheInfo tracks cache hits across the run.
type CacheInfo struct {
	Hits   int // Graphs whose output came from cache
	Misses int // Graphs that were reduced from scratch
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateNodeType checks that a node type is valid.
func ValidateNodeType(nodeType string) error {
	if !ValidNodeTypes[nodeType] {
		return errors.New(errors.ErrCodeInvalidNodeType,
			"invalid node type: %q (must be one of: function, compartment)", nodeType)
	}
	return nil
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be: d3-arc)", format)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks option values and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.NodeType == "" {
		o.NodeType = DefaultNodeType
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if err := ValidateNodeType(o.NodeType); err != nil {
		return err
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ShouldMerge returns true if functions are folded into compartments.
func (o *Options) ShouldMerge() bool {
	return o.NodeType == NodeTypeCompartment
}
