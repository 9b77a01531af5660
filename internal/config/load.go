package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Try to load from file (explicit path takes priority)
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// Apply CLI flags (highest priority)
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	if c.Engine.MaxTextureSize < 64 {
		return fmt.Errorf("engine.max_texture_size must be at least 64, got %d", c.Engine.MaxTextureSize)
	}
	if c.Engine.CanvasSize < 64 {
		return fmt.Errorf("engine.canvas_size must be at least 64, got %d", c.Engine.CanvasSize)
	}
	if c.Material.DisplacementFactor < 0 {
		return fmt.Errorf("material.displacement_factor must not be negative, got %g", c.Material.DisplacementFactor)
	}
	if c.Preview.WorldUnitsPerTexel <= 0 {
		return fmt.Errorf("preview.world_units_per_texel must be positive, got %g", c.Preview.WorldUnitsPerTexel)
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./" + FileName,
		DefaultPath(),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "PuffRelief")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "PuffRelief")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "puffrelief")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "puffrelief")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// LoadFile loads defaults merged with the given file, ignoring CLI flags.
// An empty path yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
