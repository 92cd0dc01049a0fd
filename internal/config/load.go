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
	cfg := Default()

	// Explicit path takes priority
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
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
		return filepath.Join(home, "Library", "Application Support", "PlushConfigurator")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "PlushConfigurator")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "plush-configurator")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "plush-configurator")
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

// ResolvePath joins a relative asset path onto the asset base directory.
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Assets.BaseDir == "" {
		return p
	}
	return filepath.Join(c.Assets.BaseDir, p)
}

// ResolvedPalette returns the palette with swatch texture paths joined onto
// the asset base directory.
func (c *Config) ResolvedPalette() PaletteConfig {
	resolve := func(in map[string]SwatchConfig) map[string]SwatchConfig {
		out := make(map[string]SwatchConfig, len(in))
		for name, sw := range in {
			sw.Texture = c.ResolvePath(sw.Texture)
			out[name] = sw
		}
		return out
	}
	return PaletteConfig{
		Fur:  resolve(c.Palette.Fur),
		Eyes: resolve(c.Palette.Eyes),
		Tint: resolve(c.Palette.Tint),
	}
}
