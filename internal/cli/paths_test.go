package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	os.Unsetenv("XDG_CACHE_HOME")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != filepath.Join("/tmp/custom-cache", appName) {
		t.Errorf("cacheDir() = %q, should honor XDG_CACHE_HOME", dir)
	}
}

func TestConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	os.Unsetenv("XDG_CONFIG_HOME")

	path, err := configPath()
	if err != nil {
		t.Fatalf("configPath() error: %v", err)
	}

	if !strings.HasSuffix(path, filepath.Join(appName, "config.toml")) {
		t.Errorf("configPath() = %q, should end with %s/config.toml", path, appName)
	}
	if !strings.Contains(path, ".config") {
		t.Errorf("configPath() = %q, should be under .config", path)
	}
}

func TestConfigPathXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/custom-config")

	path, err := configPath()
	if err != nil {
		t.Fatalf("configPath() error: %v", err)
	}
	if path != filepath.Join("/tmp/custom-config", appName, "config.toml") {
		t.Errorf("configPath() = %q, should honor XDG_CONFIG_HOME", path)
	}
}

func TestOpenInputStdin(t *testing.T) {
	for _, path := range []string{"", "-"} {
		in, err := openInput(path)
		if err != nil {
			t.Fatalf("openInput(%q) error: %v", path, err)
		}
		in.Close()
	}
}

func TestOpenInputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.dot")
	if err := os.WriteFile(path, []byte("digraph {}"), 0644); err != nil {
		t.Fatal(err)
	}

	in, err := openInput(path)
	if err != nil {
		t.Fatalf("openInput error: %v", err)
	}
	defer in.Close()

	if _, err := openInput(filepath.Join(t.TempDir(), "missing.dot")); err == nil {
		t.Error("openInput should fail for a missing file")
	}
}
