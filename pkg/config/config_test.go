package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	cfg, err := Load("non-existent-config.yaml")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg == nil {
		t.Fatalf("config is nil")
	}
	if cfg.Server.Address != ":8080" {
		t.Fatalf("expected default address :8080, got %s", cfg.Server.Address)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("expected default driver sqlite, got %s", cfg.Database.Driver)
	}
	if cfg.Upload.MaxSize != 10*1024*1024 {
		t.Fatalf("expected 10MB default upload ceiling, got %d", cfg.Upload.MaxSize)
	}
	if cfg.Upload.MaxVideoSize <= cfg.Upload.MaxSize {
		t.Fatalf("video ceiling must exceed the generic ceiling")
	}
	if cfg.Delivery.Enabled {
		t.Fatalf("delivery derivation should be disabled by default")
	}
}

func TestLoadWithPartialConfigAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  address: ":9090"
database:
  driver: ""
  sqlite: {}
upload:
  max_size: 0
delivery:
  enabled: true
  host: "cdn.example.com"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Address != ":9090" {
		t.Fatalf("expected server address :9090, got %s", cfg.Server.Address)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("expected database driver sqlite, got %s", cfg.Database.Driver)
	}
	if cfg.Upload.MaxSize != 10*1024*1024 {
		t.Fatalf("expected defaulted upload ceiling, got %d", cfg.Upload.MaxSize)
	}
	if !cfg.Delivery.Enabled || cfg.Delivery.Host != "cdn.example.com" {
		t.Fatalf("delivery config not parsed: %+v", cfg.Delivery)
	}
	if cfg.Upload.TimeoutSeconds != 30 {
		t.Fatalf("expected defaulted upload timeout, got %d", cfg.Upload.TimeoutSeconds)
	}
}
