package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	path := ConfigPath()
	if path == "" {
		path = findConfigFile()
	}
	return load(path, &cli)
}

func load(path string, f *Flags) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
		cfg.resolve(filepath.Dir(path))
	}

	f.apply(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	return cfg, nil
}

// resolve makes file references relative to the config file's directory.
func (c *Config) resolve(base string) {
	for _, p := range []*string{&c.Renderer.ConfigFile, &c.Renderer.ResourcesFile, &c.Scene.Asset} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

func (c *Config) validate() error {
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return fmt.Errorf("window size %dx%d", c.Graphics.Width, c.Graphics.Height)
	}
	if c.Renderer.ConfigFile == "" || c.Renderer.ResourcesFile == "" {
		return fmt.Errorf("renderer config_file and resources_file are required")
	}
	if c.UI.StatsIntervalFrames <= 0 {
		c.UI.StatsIntervalFrames = Default().UI.StatsIntervalFrames
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	return nil
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
		return filepath.Join(home, "Library", "Application Support", "FPSGame")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "FPSGame")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "fpsgame")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "fpsgame")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
// Unknown keys are rejected.
func loadFromFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return err
	}
	return nil
}
