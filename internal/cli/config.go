package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/kwitaszczyk/cpg-reducer/pkg/pipeline"
)

// Config holds persistent user preferences loaded from the configuration
// file. Every field has a zero value meaning "use the built-in default", so
// a missing or partial file is never an error.
//
// Example ~/.config/cpg-reducer/config.toml:
//
//	node_type = "function"
//	format = "d3-arc"
//	redis = "localhost:6379"
//	no_cache = false
type Config struct {
	// NodeType is the default reduction granularity.
	NodeType string `toml:"node_type"`

	// Format is the default output format.
	Format string `toml:"format"`

	// Redis is the address of a shared Redis cache (host:port).
	// Empty selects the local file cache.
	Redis string `toml:"redis"`

	// NoCache disables caching entirely.
	NoCache bool `toml:"no_cache"`
}

// LoadConfig reads the user's configuration file. A missing or unreadable
// file yields built-in defaults; a present but malformed file is ignored the
// same way, since aborting the whole CLI over a stale preference file would
// be worse than running with defaults.
func LoadConfig() *Config {
	cfg := &Config{
		NodeType: pipeline.DefaultNodeType,
		Format:   pipeline.DefaultFormat,
	}

	path, err := configPath()
	if err != nil {
		return cfg
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return &Config{
			NodeType: pipeline.DefaultNodeType,
			Format:   pipeline.DefaultFormat,
		}
	}
	if cfg.NodeType == "" {
		cfg.NodeType = pipeline.DefaultNodeType
	}
	if cfg.Format == "" {
		cfg.Format = pipeline.DefaultFormat
	}
	return cfg
}

// configPath returns the configuration file path using XDG standard
// (~/.config/cpg-reducer/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
