package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Paths.Catalog != "samples.xml" {
		t.Errorf("catalog = %q, want samples.xml", cfg.Paths.Catalog)
	}
	if cfg.Generation.Attempts != 10 {
		t.Errorf("attempts = %d, want 10", cfg.Generation.Attempts)
	}
	if cfg.Generation.Screenshots != 2 {
		t.Errorf("screenshots = %d, want 2", cfg.Generation.Screenshots)
	}
	if cfg.Server.ListenAddr == "" {
		t.Error("listen address should have a default")
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if cfg.Paths.OutputDir != "results" {
		t.Errorf("output dir = %q, want results", cfg.Paths.OutputDir)
	}
}

func TestLoadConfigOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wfcgen.yaml")
	doc := `paths:
  output_dir: out/images
  run_db: out/runs.db
generation:
  attempts: 3
server:
  allowed_origins: ["http://localhost:3000"]
logging:
  level: DEBUG
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if cfg.Paths.OutputDir != "out/images" || cfg.Paths.RunDB != "out/runs.db" {
		t.Errorf("paths = %+v", cfg.Paths)
	}
	if cfg.Generation.Attempts != 3 {
		t.Errorf("attempts = %d, want 3", cfg.Generation.Attempts)
	}
	// Untouched keys keep their defaults.
	if cfg.Generation.Screenshots != 2 {
		t.Errorf("screenshots = %d, want default 2", cfg.Generation.Screenshots)
	}
	if cfg.Paths.Catalog != "samples.xml" {
		t.Errorf("catalog = %q, want default", cfg.Paths.Catalog)
	}
	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("logging level = %q, want DEBUG", cfg.Logging.Level)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("paths: ["), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("malformed YAML should fail")
	}
}

func TestIsOriginAllowed(t *testing.T) {
	cfg := ServerConfig{AllowedOrigins: []string{"http://localhost:3000"}}
	if !cfg.IsOriginAllowed("http://localhost:3000") {
		t.Error("listed origin should be allowed")
	}
	if cfg.IsOriginAllowed("http://evil.example") {
		t.Error("unlisted origin should be rejected")
	}

	wildcard := ServerConfig{AllowedOrigins: []string{"*"}}
	if !wildcard.IsOriginAllowed("http://anything.example") {
		t.Error("wildcard should allow any origin")
	}

	empty := ServerConfig{}
	if empty.IsOriginAllowed("http://anything.example") {
		t.Error("empty list should reject cross-origin")
	}
}
