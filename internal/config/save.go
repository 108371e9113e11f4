package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Save writes the config back to the file it was loaded from, or to the
// user's config directory.
func (c *Config) Save() error {
	path := c.source
	if path == "" {
		path = DefaultPath()
	}
	return c.SaveTo(path)
}

// RememberOpen records the directory of a file that was opened.
func (c *Config) RememberOpen(path string) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	c.Paths.LastOpenPath = filepath.Dir(path)
}

// RememberExport records the directory of a file that was exported.
func (c *Config) RememberExport(path string) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	c.Paths.LastExportPath = filepath.Dir(path)
}

// SaveTo writes the config to a specific path.
func (c *Config) SaveTo(path string) error {
	// Create parent directory if needed
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}
