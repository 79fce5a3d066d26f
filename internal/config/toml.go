package config

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// LoadTOML reads an rbmap.toml configuration file. Fields absent from the
// file keep their defaults.
func LoadTOML(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(content, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML config %s: %w", path, err)
	}
	return cfg, nil
}
