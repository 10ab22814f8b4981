// Package config provides configuration loading and structs for the handsign server.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug   bool          `yaml:"debug"`
	Server  ServerConfig  `yaml:"server"`
	Model   ModelConfig   `yaml:"model"`
	Storage StorageConfig `yaml:"storage"`
}

// ServerConfig holds HTTP and websocket settings.
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	MaxMessageBytes int64         `yaml:"max_message_bytes"`
	WriteWait       time.Duration `yaml:"write_wait"`
	PongWait        time.Duration `yaml:"pong_wait"`
	PingInterval    time.Duration `yaml:"ping_interval"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ModelConfig holds the classifier artifact settings.
type ModelConfig struct {
	Path           string     `yaml:"path"`
	NormalizeInput *bool      `yaml:"normalize_input"`
	ONNX           ONNXConfig `yaml:"onnx"`
}

// Normalize reports whether inbound vectors are normalized before prediction; defaults to true when unset.
func (m *ModelConfig) Normalize() bool {
	if m.NormalizeInput != nil {
		return *m.NormalizeInput
	}
	return true
}

// ONNXConfig holds settings for .onnx artifacts.
type ONNXConfig struct {
	LibraryPath string   `yaml:"library_path"`
	InputName   string   `yaml:"input_name"`
	OutputName  string   `yaml:"output_name"`
	Labels      []string `yaml:"labels"`
}

// StorageConfig holds the database location. An empty path disables the store.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	configDir := filepath.Dir(path)
	cfg.Model.Path = expandPath(cfg.Model.Path, configDir)
	cfg.Model.ONNX.LibraryPath = expandPath(cfg.Model.ONNX.LibraryPath, configDir)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)

	return &cfg, nil
}

// LoadOrDefault loads path, falling back to Default when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Server.MaxMessageBytes < 0 {
		return fmt.Errorf("invalid max_message_bytes %d", c.Server.MaxMessageBytes)
	}
	if c.Server.PingInterval >= c.Server.PongWait {
		return fmt.Errorf("ping_interval (%s) must be shorter than pong_wait (%s)",
			c.Server.PingInterval, c.Server.PongWait)
	}
	return nil
}

// expandPath resolves "./" paths against configDir and "~/" paths against the
// home directory. Other paths are returned unchanged.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
