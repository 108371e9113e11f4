package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const fileName = "config.yaml"

// Load builds the configuration from defaults, the config file and the
// command line flags, each overriding the previous one.
//
// A file named by -config that does not exist yet is not an error. It
// becomes the file Save writes to.
func Load() (*Config, error) {
	cfg := Default()

	if path := ConfigPath(); path != "" {
		if err := cfg.merge(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
		cfg.source = path
	} else if path := findConfigFile(); path != "" {
		if err := cfg.merge(path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
		cfg.source = path
	}

	applyFlags(cfg)
	return cfg, nil
}

// Source returns the file the configuration was read from, or "" when only
// defaults and flags apply.
func (c *Config) Source() string {
	return c.source
}

// DefaultPath is where settings are saved when no config file was loaded.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), fileName)
}

// findConfigFile returns the first existing config file, looking in the
// working directory before the user config directory.
func findConfigFile() string {
	for _, path := range []string{fileName, DefaultPath()} {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// ConfigDir returns the per-user configuration directory of the converter.
func ConfigDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "modelconverter")
}

// merge reads a YAML file over the current values. Keys missing from the
// file keep their value.
func (c *Config) merge(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}
