package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/kwitaszczyk/cpg-reducer/pkg/cache"
	"github.com/kwitaszczyk/cpg-reducer/pkg/cpg"
	"github.com/kwitaszczyk/cpg-reducer/pkg/dot"
	"github.com/kwitaszczyk/cpg-reducer/pkg/observability"
	"github.com/kwitaszczyk/cpg-reducer/pkg/reduce"
	"github.com/kwitaszczyk/cpg-reducer/pkg/render/d3arc"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and serve mode use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// graphResult holds the outcome of processing one decoded graph.
type graphResult struct {
	block         []byte
	hash          string
	hit           bool
	reduceStats   reduce.Stats
	reduceTime    time.Duration
	serializeTime time.Duration
}

// Execute runs the complete decode → reduce → merge → serialize pipeline
// over every graph description in the input stream. Any error aborts the
// whole run; no partial output is returned.
func (r *Runner) Execute(ctx context.Context, in io.Reader, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}
	reader := dot.NewReader(in)

	for {
		decodeStart := time.Now()
		observability.Pipeline().OnDecodeStart(ctx, "stream")
		g, err := reader.Next()
		decodeTime := time.Since(decodeStart)
		result.Stats.DecodeTime += decodeTime
		if err == io.EOF {
			observability.Pipeline().OnDecodeComplete(ctx, "stream", result.Stats.GraphCount, decodeTime, nil)
			break
		}
		if err != nil {
			observability.Pipeline().OnDecodeComplete(ctx, "stream", result.Stats.GraphCount, decodeTime, err)
			return nil, fmt.Errorf("decode: %w", err)
		}
		result.Stats.GraphCount++

		gr, err := r.processGraph(ctx, g, opts)
		if err != nil {
			return nil, err
		}
		result.Blocks = append(result.Blocks, gr.block)
		result.GraphHashes = append(result.GraphHashes, gr.hash)
		result.Cached = append(result.Cached, gr.hit)
		result.Stats.EdgesRemoved += gr.reduceStats.EdgesRemoved
		result.Stats.NodesRemoved += gr.reduceStats.NodesRemoved
		result.Stats.ReduceTime += gr.reduceTime
		result.Stats.SerializeTime += gr.serializeTime
		if gr.hit {
			result.CacheInfo.Hits++
		} else {
			result.CacheInfo.Misses++
		}
	}

	return result, nil
}

// ReduceGraphWithCacheInfo reduces a single decoded graph and serializes it,
// consulting the cache first. It returns the serialized block, the content
// hash of the input graph, and whether the block came from cache.
func (r *Runner) ReduceGraphWithCacheInfo(ctx context.Context, g cpg.Graph, opts Options) ([]byte, string, bool, error) {
	gr, err := r.processGraph(ctx, g, opts)
	if err != nil {
		return nil, "", false, err
	}
	return gr.block, gr.hash, gr.hit, nil
}

// processGraph runs cache lookup and, on a miss, the transformation stages
// for one decoded graph.
func (r *Runner) processGraph(ctx context.Context, g cpg.Graph, opts Options) (*graphResult, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	runID := uuid.NewString()
	logger := opts.Logger.With("run", runID, "graph", g.Name())

	// Content hash of the canonical encoding keys the cache.
	gr := &graphResult{hash: cache.Hash(dot.Marshal(g))}
	cacheKey := r.Keyer.ReduceKey(gr.hash, cache.ReduceKeyOpts{
		NodeType: opts.NodeType,
		Format:   opts.Format,
	})

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "reduce")
			logger.Debug("cache hit", "key", cacheKey)
			gr.block = data
			gr.hit = true
			return gr, nil
		}
		observability.Cache().OnCacheMiss(ctx, "reduce")
	}

	name := g.Name()

	reduceStart := time.Now()
	observability.Pipeline().OnReduceStart(ctx, name, g.NodeCount())
	stats, err := reduce.RemoveIntraFileEdges(g)
	gr.reduceTime = time.Since(reduceStart)
	gr.reduceStats = stats
	observability.Pipeline().OnReduceComplete(ctx, name, stats.EdgesRemoved, stats.NodesRemoved, gr.reduceTime, err)
	if err != nil {
		return nil, fmt.Errorf("reduce %q: %w", name, err)
	}
	logger.Info("reduced graph",
		"edges_removed", stats.EdgesRemoved,
		"nodes_removed", stats.NodesRemoved,
		"duration", gr.reduceTime)

	out := g
	if opts.ShouldMerge() {
		mergeStart := time.Now()
		observability.Pipeline().OnMergeStart(ctx, name)
		merged, err := reduce.MergeCompartments(g)
		mergeTime := time.Since(mergeStart)
		count := 0
		if merged != nil {
			count = merged.NodeCount()
		}
		gr.reduceTime += mergeTime
		observability.Pipeline().OnMergeComplete(ctx, name, count, mergeTime, err)
		if err != nil {
			return nil, fmt.Errorf("merge %q: %w", name, err)
		}
		logger.Info("merged compartments", "compartments", count, "duration", mergeTime)
		out = merged
	}

	serializeStart := time.Now()
	observability.Pipeline().OnSerializeStart(ctx, opts.Format)
	gr.block = d3arc.Marshal(out)
	gr.serializeTime = time.Since(serializeStart)
	observability.Pipeline().OnSerializeComplete(ctx, opts.Format, len(gr.block), gr.serializeTime, nil)

	if err := r.Cache.Set(ctx, cacheKey, gr.block, cache.ReduceTTL); err == nil {
		observability.Cache().OnCacheSet(ctx, "reduce", len(gr.block))
	}

	return gr, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
