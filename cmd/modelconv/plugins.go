package main

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/modelconverter/internal/config"
	"github.com/Faultbox/modelconverter/internal/plugin"
	"github.com/Faultbox/modelconverter/internal/texture"
	"github.com/Faultbox/modelconverter/pkg/preview"
	"github.com/Faultbox/modelconverter/pkg/tmf"
	"github.com/Faultbox/modelconverter/pkg/wavefront"
)

// registerPlugins builds the registry of built-in importers and exporters.
func registerPlugins(cfg *config.Config, log *zap.Logger, textures *texture.Cache) (*plugin.Registry, error) {
	r := plugin.NewRegistry()

	obj := wavefront.NewWithTextures(log.Named("wavefront"), textures)
	obj.SearchPaths = cfg.Import.TextureSearchPaths

	err := multierr.Combine(
		r.RegisterImporter(plugin.Info{
			Name:        "Wavefront",
			Description: "Wavefront OBJ models with MTL materials",
		}, obj, "obj"),
		r.RegisterExporter(plugin.Info{
			Name:        "Tank model file",
			Description: `Plugin for exporting models for sega Saturn game "TankGame"`,
		}, tmf.NewExporter(log.Named("tmf")), "tmf"),
		r.RegisterExporter(plugin.Info{
			Name:        "glTF preview",
			Description: "Preview scene for glTF viewers, one node per face",
		}, preview.Exporter{}, "glb", "gltf"),
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}
