package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEngineConfigDefaults(t *testing.T) {
	var cfg EngineConfig
	cfg.ApplyDefaults()

	if cfg.FailurePolicy != PolicyFailFast {
		t.Errorf("expected fail_fast default, got %s", cfg.FailurePolicy)
	}
	if cfg.EventBufferSize != 256 {
		t.Errorf("expected default buffer 256, got %d", cfg.EventBufferSize)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected info log level, got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaulted config should validate: %v", err)
	}
}

func TestEngineConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*EngineConfig)
	}{
		{"negative max concurrent", func(c *EngineConfig) { c.MaxConcurrent = -1 }},
		{"unknown policy", func(c *EngineConfig) { c.FailurePolicy = "maybe" }},
		{"negative buffer", func(c *EngineConfig) { c.EventBufferSize = -5 }},
		{"bad log level", func(c *EngineConfig) { c.Logging.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg EngineConfig
			cfg.ApplyDefaults()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadEngineFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	yaml := `
max_concurrent: 8
default_vertex_timeout: 45s
failure_policy: best_effort
event_buffer_size: 64
logging:
  level: debug
  format: json
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadEngine("flowkit", WithConfigFile(path))
	if err != nil {
		t.Fatalf("LoadEngine failed: %v", err)
	}
	if cfg.MaxConcurrent != 8 {
		t.Errorf("expected max_concurrent 8, got %d", cfg.MaxConcurrent)
	}
	if cfg.DefaultVertexTimeout != 45*time.Second {
		t.Errorf("expected 45s timeout, got %s", cfg.DefaultVertexTimeout)
	}
	if cfg.FailurePolicy != PolicyBestEffort {
		t.Errorf("expected best_effort, got %s", cfg.FailurePolicy)
	}
	if cfg.EventBufferSize != 64 {
		t.Errorf("expected buffer 64, got %d", cfg.EventBufferSize)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestLoadEngineEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	if err := os.WriteFile(path, []byte("max_concurrent: 2\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("FLOWKIT_MAX_CONCURRENT", "6")

	cfg, err := LoadEngine("flowkit", WithConfigFile(path))
	if err != nil {
		t.Fatalf("LoadEngine failed: %v", err)
	}
	if cfg.MaxConcurrent != 6 {
		t.Errorf("environment should override file, got %d", cfg.MaxConcurrent)
	}
}

func TestLoadEngineAppliesDefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadEngine("flowkit_test_no_such_service")
	if err != nil {
		t.Fatalf("LoadEngine failed: %v", err)
	}
	if cfg.FailurePolicy != PolicyFailFast {
		t.Errorf("expected defaulted policy, got %s", cfg.FailurePolicy)
	}
}

func TestLoadEngineRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	if err := os.WriteFile(path, []byte("failure_policy: maybe\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadEngine("flowkit", WithConfigFile(path)); err == nil {
		t.Error("expected validation failure")
	}
}
