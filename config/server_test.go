package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadServerConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
port: "9090"
dataDir: /var/lib/proximity
searchWorkers: 8
cacheTTL: 45s
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config file failed: %v", err)
	}

	cfg, err := LoadServerConfig(path)
	if err != nil {
		t.Fatalf("LoadServerConfig failed: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %q", cfg.Port)
	}
	if cfg.DataDir != "/var/lib/proximity" {
		t.Errorf("unexpected data dir %q", cfg.DataDir)
	}
	if cfg.SearchWorkers != 8 {
		t.Errorf("expected 8 search workers, got %d", cfg.SearchWorkers)
	}
	if cfg.CacheTTL != 45*time.Second {
		t.Errorf("expected 45s cache TTL, got %v", cfg.CacheTTL)
	}
}

func TestLoadServerConfig_PartialFileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("port: \"7070\"\n"), 0600); err != nil {
		t.Fatalf("writing config file failed: %v", err)
	}

	cfg, err := LoadServerConfig(path)
	if err != nil {
		t.Fatalf("LoadServerConfig failed: %v", err)
	}
	defaults := DefaultServerConfig()
	if cfg.Port != "7070" {
		t.Errorf("expected port 7070, got %q", cfg.Port)
	}
	if cfg.SearchWorkers != defaults.SearchWorkers {
		t.Errorf("expected default workers %d, got %d", defaults.SearchWorkers, cfg.SearchWorkers)
	}
	if cfg.CacheTTL != defaults.CacheTTL {
		t.Errorf("expected default cache TTL %v, got %v", defaults.CacheTTL, cfg.CacheTTL)
	}
}

func TestLoadServerConfig_MissingFile(t *testing.T) {
	_, err := LoadServerConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
