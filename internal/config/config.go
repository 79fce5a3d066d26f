// Package config loads rbmap settings from .rbmap.kdl (primary) or
// rbmap.toml (fallback). Missing files are not an error; defaults apply and
// CLI flags override file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config is the resolved rbmap configuration.
type Config struct {
	Project Project  `toml:"project"`
	Include []string `toml:"include"`
	Exclude []string `toml:"exclude"`
	Watch   Watch    `toml:"watch"`
	Cache   Cache    `toml:"cache"`
	Filter  Filter   `toml:"filter"`
}

type Project struct {
	Root string `toml:"root"`
	Name string `toml:"name"`
}

type Watch struct {
	DebounceMs int `toml:"debounce_ms"`
}

type Cache struct {
	MaxEntries int `toml:"max_entries"`
}

type Filter struct {
	// Threshold is the minimum Jaro-Winkler similarity (0..1) for a fuzzy
	// symbol match to be kept.
	Threshold float64 `toml:"threshold"`
}

// Default returns the built-in configuration.
func Default() *Config {
	root, err := os.Getwd()
	if err != nil || root == "" {
		root = "."
	}
	return &Config{
		Project: Project{Root: root},
		Include: []string{"**/*.rb", "**/*.rake", "**/Rakefile", "**/Gemfile"},
		Exclude: []string{"**/vendor/**", "**/tmp/**", "**/node_modules/**"},
		Watch:   Watch{DebounceMs: 200},
		Cache:   Cache{MaxEntries: 512},
		Filter:  Filter{Threshold: 0.75},
	}
}

// Load resolves configuration for the given project root. An explicit path
// wins; otherwise .rbmap.kdl then rbmap.toml are tried in rootDir.
func Load(path string, rootDir string) (*Config, error) {
	if rootDir == "" {
		rootDir = "."
	}

	if path != "" {
		return loadFile(path)
	}

	kdlPath := filepath.Join(rootDir, ".rbmap.kdl")
	if _, err := os.Stat(kdlPath); err == nil {
		return loadFile(kdlPath)
	}
	tomlPath := filepath.Join(rootDir, "rbmap.toml")
	if _, err := os.Stat(tomlPath); err == nil {
		return loadFile(tomlPath)
	}
	return Default(), nil
}

func loadFile(path string) (*Config, error) {
	switch filepath.Ext(path) {
	case ".kdl":
		return LoadKDL(path)
	case ".toml":
		return LoadTOML(path)
	default:
		return nil, fmt.Errorf("unsupported config format: %s", path)
	}
}

// Validate checks ranges that would otherwise fail silently at use sites.
func (c *Config) Validate() error {
	if c.Filter.Threshold < 0 || c.Filter.Threshold > 1 {
		return fmt.Errorf("filter threshold must be between 0 and 1, got %v", c.Filter.Threshold)
	}
	if c.Watch.DebounceMs < 0 {
		return fmt.Errorf("watch debounce_ms must not be negative, got %d", c.Watch.DebounceMs)
	}
	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache max_entries must not be negative, got %d", c.Cache.MaxEntries)
	}
	return nil
}
