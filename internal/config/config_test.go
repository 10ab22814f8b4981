package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Server.Port != 8000 {
		t.Errorf("Port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Model.Path != "models/gesture_model.json" {
		t.Errorf("Model.Path = %q", cfg.Model.Path)
	}
	if cfg.Server.PingInterval != 54*time.Second {
		t.Errorf("PingInterval = %s, want 54s", cfg.Server.PingInterval)
	}
	if !cfg.Model.Normalize() {
		t.Error("normalization should default to on")
	}
	if cfg.Storage.DatabasePath != "" {
		t.Error("store should be disabled by default")
	}
	if cfg.Server.Addr() != "0.0.0.0:8000" {
		t.Errorf("Addr() = %q", cfg.Server.Addr())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  host: "127.0.0.1"
  port: 9000
  write_wait: 2s
  pong_wait: 20s
model:
  path: "/srv/models/forest.cbor"
  normalize_input: false
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Server.WriteWait != 2*time.Second {
		t.Errorf("WriteWait = %s, want 2s", cfg.Server.WriteWait)
	}
	if cfg.Server.PingInterval != 18*time.Second {
		t.Errorf("PingInterval = %s, want 18s", cfg.Server.PingInterval)
	}
	if cfg.Model.Normalize() {
		t.Error("normalize_input: false should disable normalization")
	}
	if cfg.Model.Path != "/srv/models/forest.cbor" {
		t.Errorf("Model.Path = %q", cfg.Model.Path)
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
}

func TestLoad_expandPathDotSlashRelativeToConfigDir(t *testing.T) {
	path := writeConfig(t, `
model:
  path: "./models/gesture_model.json"
storage:
  database_path: "./data/handsign.db"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	dir := filepath.Dir(path)
	if want := filepath.Join(dir, "models", "gesture_model.json"); cfg.Model.Path != want {
		t.Errorf("Model.Path = %q, want %q", cfg.Model.Path, want)
	}
	if want := filepath.Join(dir, "data", "handsign.db"); cfg.Storage.DatabasePath != want {
		t.Errorf("DatabasePath = %q, want %q", cfg.Storage.DatabasePath, want)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "server: [unclosed"},
		{"bad duration", "server:\n  pong_wait: soon\n"},
		{"bad port", "server:\n  port: 70000\n"},
		{"ping after pong", "server:\n  pong_wait: 5s\n  ping_interval: 10s\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("expected error")
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("expected error")
		}
	})
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("expected defaults, got port %d", cfg.Server.Port)
	}

	if _, err := LoadOrDefault(writeConfig(t, "server: [")); err == nil {
		t.Error("parse errors must not fall back to defaults")
	}
}
