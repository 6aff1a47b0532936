package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Output.Format != "text" {
		t.Errorf("default output format = %q, want text", cfg.Output.Format)
	}
	if !cfg.DeadCode.Enabled {
		t.Error("dead code detection should be enabled by default")
	}
	if cfg.Performance.MaxGoroutines != DefaultMaxGoroutines {
		t.Errorf("default max goroutines = %d, want %d", cfg.Performance.MaxGoroutines, DefaultMaxGoroutines)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad format", func(c *Config) { c.Output.Format = "xml" }},
		{"bad severity", func(c *Config) { c.DeadCode.MinSeverity = "fatal" }},
		{"negative goroutines", func(c *Config) { c.Performance.MaxGoroutines = -1 }},
		{"negative timeout", func(c *Config) { c.Performance.TimeoutSeconds = -10 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jflow.yaml")
	content := `
output:
  format: json
  show_details: true
dead_code:
  min_severity: info
performance:
  max_goroutines: 8
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("format = %q, want json", cfg.Output.Format)
	}
	if !cfg.Output.ShowDetails {
		t.Error("show_details should be true")
	}
	if cfg.DeadCode.MinSeverity != "info" {
		t.Errorf("min severity = %q, want info", cfg.DeadCode.MinSeverity)
	}
	if cfg.Performance.MaxGoroutines != 8 {
		t.Errorf("max goroutines = %d, want 8", cfg.Performance.MaxGoroutines)
	}
	// untouched sections keep their defaults
	if !cfg.DeadCode.Enabled {
		t.Error("enabled should keep its default")
	}
}

func TestLoadConfigInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jflow.yaml")
	if err := os.WriteFile(path, []byte("output:\n  format: bogus\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for invalid format value")
	}
}

func TestLoadConfigMissingPathFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadConfigWithTarget("", dir)
	if err != nil {
		t.Fatalf("LoadConfigWithTarget: %v", err)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("expected defaults, got format %q", cfg.Output.Format)
	}
}

func TestFindDefaultConfigWalksUpward(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "main")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(root, ".jflow.yaml")
	if err := os.WriteFile(path, []byte("output:\n  format: text\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	found := findDefaultConfig(nested)
	if found != path {
		t.Errorf("findDefaultConfig = %q, want %q", found, path)
	}
}
