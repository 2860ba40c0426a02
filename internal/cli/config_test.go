package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kwitaszczyk/cpg-reducer/pkg/pipeline"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	appDir := filepath.Join(dir, appName)
	if err := os.MkdirAll(appDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(appDir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := LoadConfig()
	if cfg.NodeType != pipeline.DefaultNodeType {
		t.Errorf("NodeType = %q, want default %q", cfg.NodeType, pipeline.DefaultNodeType)
	}
	if cfg.Format != pipeline.DefaultFormat {
		t.Errorf("Format = %q, want default %q", cfg.Format, pipeline.DefaultFormat)
	}
	if cfg.Redis != "" || cfg.NoCache {
		t.Errorf("cache settings should default to zero values: %+v", cfg)
	}
}

func TestLoadConfig(t *testing.T) {
	writeConfig(t, `
node_type = "function"
redis = "localhost:6379"
no_cache = true
`)

	cfg := LoadConfig()
	if cfg.NodeType != "function" {
		t.Errorf("NodeType = %q, want %q", cfg.NodeType, "function")
	}
	if cfg.Format != pipeline.DefaultFormat {
		t.Errorf("Format = %q, unset keys should keep defaults", cfg.Format)
	}
	if cfg.Redis != "localhost:6379" {
		t.Errorf("Redis = %q", cfg.Redis)
	}
	if !cfg.NoCache {
		t.Error("NoCache should be true")
	}
}

func TestLoadConfigMalformedFile(t *testing.T) {
	writeConfig(t, `node_type = [this is not toml`)

	cfg := LoadConfig()
	if cfg.NodeType != pipeline.DefaultNodeType {
		t.Errorf("malformed config should fall back to defaults, got %+v", cfg)
	}
}
