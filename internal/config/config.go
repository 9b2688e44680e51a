// Package config loads loom.yaml, the per-project checker configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SourceFileExt is the extension of loom source files.
const SourceFileExt = ".loom"

// Config represents the top-level loom.yaml configuration.
type Config struct {
	// Syntax forces a surface grammar for every file: "imp", "fun", or
	// "auto" (the default, detected per file from its first keyword).
	Syntax string `yaml:"syntax,omitempty"`

	// Jobs bounds the parallel per-definition pass. 0 uses all CPUs.
	Jobs int `yaml:"jobs,omitempty"`

	// Cache enables the on-disk check cache.
	Cache bool `yaml:"cache,omitempty"`

	// CacheDir overrides the cache location; defaults to .loom-cache next
	// to loom.yaml.
	CacheDir string `yaml:"cache_dir,omitempty"`

	// NoColor disables colored diagnostics even on a terminal.
	NoColor bool `yaml:"no_color,omitempty"`

	// FailFast stops diagnostic output after the first error instead of
	// printing the whole batch.
	FailFast bool `yaml:"fail_fast,omitempty"`
}

// Default returns the configuration used when no loom.yaml exists.
func Default() *Config {
	return &Config{Syntax: "auto"}
}

// LoadConfig reads and parses a loom.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses loom.yaml content from bytes. The path argument is
// used only for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfig searches for loom.yaml starting from dir and walking up to
// parent directories. Returns an empty path, and no error, when no config
// file exists.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	for {
		for _, name := range []string{"loom.yaml", "loom.yml"} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func (c *Config) validate(path string) error {
	switch c.Syntax {
	case "", "auto", "imp", "fun":
	default:
		return fmt.Errorf("%s: syntax must be auto, imp, or fun, got %q", path, c.Syntax)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("%s: jobs must not be negative, got %d", path, c.Jobs)
	}
	return nil
}
