// Package config handles converter configuration loading and persistence.
package config

// Config holds all converter settings.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Paths   PathsConfig   `yaml:"paths"`
	Export  ExportConfig  `yaml:"export"`
	Import  ImportConfig  `yaml:"import"`

	source string // File the config was loaded from
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// PathsConfig remembers the directories last used for opening and exporting.
type PathsConfig struct {
	LastOpenPath   string `yaml:"last_open_path"`
	LastExportPath string `yaml:"last_export_path"`
}

// ExportConfig holds export settings.
type ExportConfig struct {
	Format    string `yaml:"format"`    // Extension of the default exporter
	Overwrite bool   `yaml:"overwrite"` // Replace existing output files
}

// ImportConfig holds import settings.
type ImportConfig struct {
	TextureSearchPaths []string `yaml:"texture_search_paths"` // Extra texture directories
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Export: ExportConfig{
			Format:    "tmf",
			Overwrite: true,
		},
	}
}
