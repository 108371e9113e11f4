package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"

	"github.com/Faultbox/modelconverter/internal/plugin"
	"github.com/Faultbox/modelconverter/pkg/encoding"
	"github.com/Faultbox/modelconverter/pkg/model"
	"github.com/Faultbox/modelconverter/pkg/tmf"
)

var spewConfig = &spew.ConfigState{
	Indent:                  "  ",
	DisableCapacities:       true,
	DisablePointerAddresses: true,
}

// load imports a model file with the importer matching its extension.
func (a *app) load(path string) (*model.Collection, error) {
	p, err := a.plugins.ImporterFor(path)
	if err != nil {
		return nil, err
	}

	c, err := p.Import(path)
	if err != nil {
		return nil, err
	}

	stats := c.Stats()
	a.log.Info("model loaded",
		zap.String("path", path),
		zap.String("importer", p.Name),
		zap.Int("models", stats.Models),
		zap.Int("faces", stats.Faces))

	a.cfg.RememberOpen(path)
	return c, nil
}

// export writes c with the exporter matching the extension of path.
func (a *app) export(c *model.Collection, path string) error {
	p, err := a.plugins.ExporterFor(path)
	if err != nil {
		return err
	}

	result, err := p.Write(c, path, a.cfg.Export.Overwrite)
	if err != nil {
		return err
	}
	a.log.Info("model exported",
		zap.String("path", path),
		zap.String("exporter", p.Name),
		zap.Int64("bytes", result.Bytes))
	fmt.Fprintf(a.stdout, "Done! %s\n", result)

	a.cfg.RememberExport(path)
	a.saveConfig()
	return nil
}

func (a *app) saveConfig() {
	if err := a.cfg.Save(); err != nil {
		a.log.Warn("could not save settings", zap.Error(err))
	}
}

// defaultOutput replaces the extension of input with format.
func defaultOutput(input, format string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + "." + strings.TrimPrefix(format, ".")
}

// faceSetter is a face flag edit such as (*model.Collection).SetMesh.
type faceSetter func(c *model.Collection, sel model.FaceSelector, on bool) (int, error)

// applyFaceFlags turns a flag on for every face matched by a selector list.
func applyFaceFlags(c *model.Collection, selectors string, set faceSetter) (int, error) {
	if selectors == "" {
		return 0, nil
	}

	sels, err := model.ParseFaceSelectors(selectors)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, sel := range sels {
		n, err := set(c, sel, true)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func (a *app) cmdConvert(args []string) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	doubleSided := fs.String("double-sided", "", "Faces rendered from both sides (model:face,...)")
	meshed := fs.String("meshed", "", "Faces rendered as mesh (model:face,...)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(a.stderr, "Usage: modelconv convert [-double-sided sel] [-meshed sel] <input> [output]")
		return errUsage
	}

	input := fs.Arg(0)
	output := fs.Arg(1)
	if output == "" {
		output = defaultOutput(input, a.cfg.Export.Format)
	}

	c, err := a.load(input)
	if err != nil {
		return err
	}

	n, err := applyFaceFlags(c, *doubleSided, (*model.Collection).SetDoubleSided)
	if err != nil {
		return fmt.Errorf("double-sided: %w", err)
	}
	m, err := applyFaceFlags(c, *meshed, (*model.Collection).SetMesh)
	if err != nil {
		return fmt.Errorf("meshed: %w", err)
	}
	if n > 0 || m > 0 {
		a.log.Debug("face flags applied", zap.Int("double_sided", n), zap.Int("meshed", m))
	}

	return a.export(c, output)
}

func (a *app) cmdPreview(args []string) error {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(a.stderr, "Usage: modelconv preview <input> [output.glb|output.gltf]")
		return errUsage
	}

	input := fs.Arg(0)
	output := fs.Arg(1)
	if output == "" {
		output = defaultOutput(input, "glb")
	}

	c, err := a.load(input)
	if err != nil {
		return err
	}
	return a.export(c, output)
}

func (a *app) cmdInfo(args []string) error {
	if len(args) < 1 {
		fmt.Fprintln(a.stderr, "Usage: modelconv info <input>")
		return errUsage
	}

	c, err := a.load(args[0])
	if err != nil {
		return err
	}

	stats := c.Stats()
	fmt.Fprintf(a.stdout, "File:      %s\n", args[0])
	fmt.Fprintf(a.stdout, "Models:    %d\n", stats.Models)
	fmt.Fprintf(a.stdout, "Faces:     %d\n", stats.Faces)
	fmt.Fprintf(a.stdout, "Vertices:  %d\n", stats.Vertices)
	fmt.Fprintf(a.stdout, "Normals:   %d\n", stats.Normals)
	fmt.Fprintf(a.stdout, "Materials: %d (%d textured)\n", stats.Materials, stats.TexturedMaterials)

	fmt.Fprintln(a.stdout)
	fmt.Fprintln(a.stdout, "Models:")
	for i, m := range c.Models {
		fmt.Fprintf(a.stdout, "  %-3d %-20q %d faces\n", i, m.Name, len(m.Faces))
	}

	fmt.Fprintln(a.stdout)
	fmt.Fprintln(a.stdout, "Texture table:")
	for i, name := range tmf.MaterialOrder(c.Materials) {
		entry := tmf.NewTextureEntry(c.Materials.Get(name))
		file := encoding.TrimNullString(entry.FileName[:])
		if file == "" {
			file = "-"
		}
		fmt.Fprintf(a.stdout, "  %-3d %-20q %-13s #%02X%02X%02X\n", i, name, file, entry.Color[0], entry.Color[1], entry.Color[2])
	}

	fmt.Fprintln(a.stdout)
	header, err := tmf.Transform(c)
	if err != nil {
		fmt.Fprintf(a.stdout, "TMF:       not exportable: %v\n", err)
		return nil
	}
	fmt.Fprintf(a.stdout, "TMF:       %d bytes\n", header.Size())
	for i := range header.Models {
		lo, hi := header.Models[i].Bounds()
		fmt.Fprintf(a.stdout, "  %-3d bounds %.4f %.4f %.4f .. %.4f %.4f %.4f\n", i, lo[0], lo[1], lo[2], hi[0], hi[1], hi[2])
	}
	return nil
}

func (a *app) cmdDump(args []string) error {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	asHex := fs.Bool("hex", false, "Print the encoded bytes instead of the structures")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(a.stderr, "Usage: modelconv dump [-hex] <input>")
		return errUsage
	}

	c, err := a.load(fs.Arg(0))
	if err != nil {
		return err
	}

	header, err := tmf.Transform(c)
	if err != nil {
		return err
	}

	if *asHex {
		fmt.Fprint(a.stdout, hex.Dump(header.Bytes()))
		return nil
	}
	spewConfig.Fdump(a.stdout, header)
	return nil
}

func (a *app) cmdPlugins(args []string) error {
	fmt.Fprintln(a.stdout, "Importers:")
	for _, p := range a.plugins.Importers() {
		a.printPlugin(&p.Plugin)
	}

	fmt.Fprintln(a.stdout)
	fmt.Fprintln(a.stdout, "Exporters:")
	for _, p := range a.plugins.Exporters() {
		a.printPlugin(&p.Plugin)
	}

	fmt.Fprintln(a.stdout)
	fmt.Fprintf(a.stdout, "Open filter:   %s\n", a.plugins.ImportFilter())
	fmt.Fprintf(a.stdout, "Export filter: %s\n", a.plugins.ExportFilter())
	return nil
}

func (a *app) printPlugin(p *plugin.Plugin) {
	fmt.Fprintf(a.stdout, "  %-16s %-12s %s\n", p.Name, p.Patterns(), p.Description)
}
