package config

import (
	"flag"
	"path/filepath"
	"slices"
	"strings"
)

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile     = flag.String("log-file", "", "Write logs to this file as well")
	flagFormat      = flag.String("format", "", "Default export format extension")
	flagNoOverwrite = flag.Bool("no-overwrite", false, "Refuse to replace existing output files")
	flagTextures    = flag.String("textures", "", "Extra texture directories, separated by the OS list separator")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the arguments left after the global flags.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagFormat != "" {
		cfg.Export.Format = strings.TrimPrefix(strings.ToLower(*flagFormat), ".")
	}
	if *flagNoOverwrite {
		cfg.Export.Overwrite = false
	}
	if *flagTextures != "" {
		for _, dir := range filepath.SplitList(*flagTextures) {
			if !slices.Contains(cfg.Import.TextureSearchPaths, dir) {
				cfg.Import.TextureSearchPaths = append(cfg.Import.TextureSearchPaths, dir)
			}
		}
	}
}
