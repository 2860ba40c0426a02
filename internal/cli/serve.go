package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/kwitaszczyk/cpg-reducer/pkg/cache"
	"github.com/kwitaszczyk/cpg-reducer/pkg/pipeline"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr    string // listen address
	noCache bool   // disable caching
	redis   string // Redis cache address (host:port)
}

// serveCommand creates the serve command, exposing the reducer over HTTP
// together with the arc-diagram page. Keys written on behalf of HTTP clients
// are namespaced so they never collide with local CLI runs sharing the same
// Redis instance.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:  ":8080",
		redis: c.Config.Redis,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the reducer and arc-diagram page over HTTP",
		Long: `Serve the reducer and arc-diagram page over HTTP.

Endpoints:
  GET  /            Arc-diagram page; paste or upload a CPG export
  POST /reduce      Reduce the DOT body; query params node_type, format, refresh
  GET  /healthz     Liveness probe`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", c.Config.NoCache, "disable caching")
	cmd.Flags().StringVar(&opts.redis, "redis", opts.redis, "Redis cache address (host:port)")

	return cmd
}

// reduceResponse is the JSON body returned by POST /reduce.
type reduceResponse struct {
	Graphs []reducedGraph `json:"graphs"`
}

// reducedGraph holds one reduced graph of the request body. Output carries
// the serialized block verbatim as a string: compartment ids retain raw
// quote bytes from the upstream label convention, so the block itself is
// not always well-formed JSON and must not be embedded as a raw message.
type reducedGraph struct {
	Hash   string `json:"hash"`
	Cached bool   `json:"cached"`
	Output string `json:"output"`
}

// runServe starts the HTTP server and blocks until the context is cancelled.
func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	store, err := c.newCache(ctx, opts.noCache, opts.redis)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "serve:")
	runner := pipeline.NewRunner(store, keyer, c.Logger)
	defer runner.Close()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(c.requestLogger)

	r.Get("/", c.handleIndex())
	r.Post("/reduce", c.handleReduce(runner))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", opts.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// requestLogger logs each request with method, path, and duration.
func (c *CLI) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		c.Logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond))
	})
}

// handleReduce reduces the DOT request body and returns one entry per graph.
func (c *CLI) handleReduce(runner *pipeline.Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		opts := pipeline.Options{
			NodeType: q.Get("node_type"),
			Format:   q.Get("format"),
			Refresh:  q.Get("refresh") == "true",
			Logger:   c.Logger,
		}

		result, err := runner.Execute(r.Context(), r.Body, opts)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		resp := reduceResponse{Graphs: make([]reducedGraph, 0, len(result.Blocks))}
		for i, block := range result.Blocks {
			resp.Graphs = append(resp.Graphs, reducedGraph{
				Hash:   result.GraphHashes[i],
				Cached: result.Cached[i],
				Output: string(block),
			})
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			c.Logger.Error("encode response", "err", err)
		}
	}
}

// handleIndex serves the arc-diagram page.
func (c *CLI) handleIndex() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(arcPage))
	}
}
