// modelconv converts 3D models into the TankGame Saturn model format (TMF)
// and previews them as glTF.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/modelconverter/internal/config"
	"github.com/Faultbox/modelconverter/internal/logger"
	"github.com/Faultbox/modelconverter/internal/plugin"
	"github.com/Faultbox/modelconverter/internal/texture"
)

// errUsage reports a malformed command line. The usage text has already
// been printed.
var errUsage = errors.New("invalid usage")

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logger.Debug("settings loaded", zap.String("source", cfg.Source()))

	app, err := newApp(cfg, logger.Log, os.Stdout, os.Stderr)
	if err != nil {
		logger.Error("plugin registration failed", zap.Error(err))
		os.Exit(1)
	}

	if err := app.run(config.Args()); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		logger.Sync()
		os.Exit(1)
	}
}

// app holds what every command needs.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	plugins  *plugin.Registry
	textures *texture.Cache
	stdout   io.Writer
	stderr   io.Writer
}

func newApp(cfg *config.Config, log *zap.Logger, stdout, stderr io.Writer) (*app, error) {
	a := &app{
		cfg:      cfg,
		log:      log,
		textures: texture.NewCache(),
		stdout:   stdout,
		stderr:   stderr,
	}

	plugins, err := registerPlugins(cfg, log, a.textures)
	if err != nil {
		return nil, err
	}
	a.plugins = plugins
	return a, nil
}

func (a *app) run(args []string) error {
	if len(args) < 1 {
		a.printUsage()
		return errUsage
	}

	command := args[0]
	args = args[1:]

	switch command {
	case "convert", "c":
		return a.cmdConvert(args)
	case "info":
		return a.cmdInfo(args)
	case "dump":
		return a.cmdDump(args)
	case "preview":
		return a.cmdPreview(args)
	case "plugins":
		return a.cmdPlugins(args)
	case "help", "-h", "--help":
		a.printUsage()
		return nil
	default:
		fmt.Fprintf(a.stderr, "Unknown command: %s\n", command)
		a.printUsage()
		return errUsage
	}
}

func (a *app) printUsage() {
	fmt.Fprintln(a.stderr, `modelconv - TankGame model converter

Usage:
  modelconv [global options] <command> [options]

Global options:
  -config <file>     Config file (default ./config.yaml or user config dir)
  -debug             Enable debug logging
  -log-file <file>   Also write logs to a rotating file
  -format <ext>      Default export format (tmf, glb, gltf)
  -no-overwrite      Refuse to replace existing output files
  -textures <dirs>   Extra texture directories

Commands:
  convert <input> [output]   Convert a model, output defaults to the input name
                             with the default export format
  info <input>               Show models, faces and the texture table
  dump <input>               Dump the TMF structures of a model
  preview <input> [output]   Write a glTF preview (.glb or .gltf)
  plugins                    List importers and exporters

Examples:
  modelconv convert tank.obj
  modelconv convert -double-sided "hull:3,turret" -meshed "grill:*" tank.obj TANK.TMF
  modelconv preview tank.obj tank.glb`)
}
