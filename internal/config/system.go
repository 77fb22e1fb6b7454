// Package config loads the tscheck system configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// SystemConfig represents the global configuration file
// (~/.tscheck/config.yaml). Everything in it is optional; flags override it.
type SystemConfig struct {
	// TempDir overrides where ephemeral configs are written.
	TempDir string `yaml:"temp_dir"`
	// CacheDir overrides where redirected build artifacts land.
	CacheDir string `yaml:"cache_dir"`
	// Concurrency bounds simultaneous compiler subprocesses.
	Concurrency int `yaml:"concurrency"`

	Compiler CompilerConfig `yaml:"compiler"`
}

// CompilerConfig configures compiler binary selection.
type CompilerConfig struct {
	// Path is an explicit compiler binary, taking precedence over
	// discovery.
	Path string `yaml:"path"`
	// Prefer selects "tsc" or "tsgo" when both are installed.
	Prefer string `yaml:"prefer"`
	// DisableFallback stops after the first candidate binary.
	DisableFallback bool `yaml:"disable_fallback"`
	// MinVersion rejects compiler binaries older than this semver.
	MinVersion string `yaml:"min_version"`
}

// DefaultPath returns the conventional system config location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".tscheck", "config.yaml"), nil
}

// LoadSystemConfig loads the system configuration from the specified path.
// If the file does not exist, it returns an empty config without error.
func LoadSystemConfig(path string) (*SystemConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &SystemConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read system config: %w", err)
	}

	var config SystemConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse system config: %w", err)
	}

	return &config, nil
}
