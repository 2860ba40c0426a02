// Package cli implements the cpg-reducer command-line interface.
//
// This package provides commands for reducing Code Property Graph exports to
// their cross-file structure, rendering reduced graphs for inspection, serving
// the reducer over HTTP, and managing the result cache. The CLI is built using
// cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - reduce: Reduce a CPG export to its cross-file structure
//   - render: Render a reduced graph as DOT or SVG for inspection
//   - serve: Expose the reducer and the arc-diagram page over HTTP
//   - cache: Manage the reduction result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/kwitaszczyk/cpg-reducer/pkg/buildinfo"
	"github.com/kwitaszczyk/cpg-reducer/pkg/cache"
	"github.com/kwitaszczyk/cpg-reducer/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "cpg-reducer"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *Config
}

// New creates a new CLI instance with a default logger and the user's
// configuration file applied (if one exists).
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: LoadConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          appName,
		Short:        "cpg-reducer reduces Code Property Graphs to their cross-file structure",
		Long:         `cpg-reducer is a CLI tool that strips a Code Property Graph of its intra-file call edges and optionally folds the remaining functions into per-file compartments, producing the node/link document consumed by the D3 arc-diagram front end.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	// Register all subcommands
	root.AddCommand(c.reduceCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool, redisAddr string) (*pipeline.Runner, error) {
	cache, err := c.newCache(ctx, noCache, redisAddr)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

// newCache selects the cache backend: null when disabled, Redis when an
// address is configured, file-based otherwise.
func (c *CLI) newCache(ctx context.Context, noCache bool, redisAddr string) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisAddr != "" {
		return cache.NewRedisCache(ctx, redisAddr)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/cpg-reducer/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Input Helpers
// =============================================================================

// openInput opens the named input file, or stdin when path is empty or "-".
// The returned closer is a no-op for stdin.
func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}
