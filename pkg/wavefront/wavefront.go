// Package wavefront imports Wavefront OBJ files and their MTL material
// libraries into a model collection.
package wavefront

import (
	"bufio"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/modelconverter/internal/texture"
	"github.com/Faultbox/modelconverter/pkg/model"
)

// Import errors.
var (
	ErrNoFaces      = errors.New("file does not contain any faces")
	ErrInvalidIndex = errors.New("invalid index")
	ErrShortVector  = errors.New("vector needs three components")
)

const maxLineSize = 1024 * 1024

// Importer reads OBJ files. The zero value is not usable; use New.
type Importer struct {
	log      *zap.Logger
	textures *texture.Cache

	// SearchPaths are extra directories searched for texture files that
	// are not found next to the model.
	SearchPaths []string
}

// New creates an importer with its own texture cache.
// A nil logger disables logging.
func New(log *zap.Logger) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{log: log, textures: texture.NewCache()}
}

// NewWithTextures creates an importer that decodes textures through cache.
func NewWithTextures(log *zap.Logger, cache *texture.Cache) *Importer {
	im := New(log)
	im.textures = cache
	return im
}

// Import reads an OBJ file and the MTL file with the same base name next to
// it, if present. It never returns an empty collection without an error.
func (im *Importer) Import(path string) (*model.Collection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening OBJ file")
	}
	defer f.Close()

	c, err := ReadOBJ(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}

	// Faces without usemtl reference the empty name.
	c.Materials.Set("", &model.Material{Color: model.White})

	dir := filepath.Dir(path)
	mtlPath := filepath.Join(dir, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))+".mtl")
	if mtl, err := os.Open(mtlPath); err == nil {
		defer mtl.Close()
		if err := im.ReadMTL(mtl, c, dir); err != nil {
			return nil, errors.Wrapf(err, "parsing %s", mtlPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "opening MTL file")
	}

	stats := c.Stats()
	if stats.Faces == 0 {
		return nil, errors.Wrap(ErrNoFaces, path)
	}

	im.log.Debug("OBJ imported",
		zap.String("path", path),
		zap.Int("models", stats.Models),
		zap.Int("faces", stats.Faces),
		zap.Int("vertices", stats.Vertices),
		zap.Int("materials", stats.Materials))

	return c, nil
}

// ReadOBJ parses OBJ geometry: objects, vertices, normals and faces.
// Materials are referenced by name only.
func ReadOBJ(r io.Reader) (*model.Collection, error) {
	c := model.NewCollection()
	material := ""

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")

		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "vp") || strings.HasPrefix(line, "l") {
			continue
		}
		space := strings.IndexByte(line, ' ')
		if space < 0 {
			continue
		}

		switch strings.TrimSpace(line[:space]) {
		case "o":
			c.AddModel(strings.TrimSpace(line[space+1:]))

		case "usemtl":
			material = strings.TrimSpace(line[space+1:])

		case "v":
			v, err := parseVec3(line)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", lineNo)
			}
			c.AddVertex(v)

		case "vn":
			n, err := parseVec3(line)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", lineNo)
			}
			c.AddNormal(n)

		case "f":
			face, err := parseFace(line[space+1:], material, len(c.Vertices), len(c.Normals))
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", lineNo)
			}
			m := c.LastModel()
			if m == nil {
				m = c.AddModel("")
			}
			m.Faces = append(m.Faces, face)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading OBJ")
	}
	return c, nil
}

// parseVec3 parses the three components following the line keyword.
// Unparseable components read as zero.
func parseVec3(line string) (mgl64.Vec3, error) {
	fields := strings.Fields(line)[1:]
	if len(fields) < 3 {
		return mgl64.Vec3{}, errors.Wrapf(ErrShortVector, "%q", line)
	}

	var v mgl64.Vec3
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err == nil {
			v[i] = f
		}
	}
	return v, nil
}

// parseFace parses face vertex references of the form v, v/t, v//n or v/t/n.
func parseFace(refs string, material string, vertexCount, normalCount int) (*model.Face, error) {
	face := &model.Face{Material: material}

	for _, ref := range strings.Fields(refs) {
		parts := strings.Split(ref, "/")

		if n, err := strconv.Atoi(parts[0]); err == nil {
			idx, err := resolveIndex(n, vertexCount)
			if err != nil {
				return nil, errors.Wrapf(err, "vertex %q", ref)
			}
			face.Vertices = append(face.Vertices, idx)
		}

		if len(parts) == 3 {
			if n, err := strconv.Atoi(parts[2]); err == nil {
				idx, err := resolveIndex(n, normalCount)
				if err != nil {
					return nil, errors.Wrapf(err, "normal %q", ref)
				}
				face.Normals = append(face.Normals, idx)
			}
		}
	}

	return face, nil
}

// resolveIndex converts a 1-based OBJ index, or a negative index relative to
// the end of the pool, to a 0-based index.
func resolveIndex(n, count int) (int, error) {
	switch {
	case n > 0:
		return n - 1, nil
	case n < 0 && count+n >= 0:
		return count + n, nil
	default:
		return 0, errors.Wrapf(ErrInvalidIndex, "%d", n)
	}
}

// ReadMTL parses a material library into c. Texture paths are resolved
// relative to dir and the importer's search paths.
func (im *Importer) ReadMTL(r io.Reader, c *model.Collection, dir string) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		space := strings.IndexByte(line, ' ')
		if space < 0 {
			continue
		}
		value := strings.TrimSpace(line[space+1:])

		switch strings.ToLower(strings.TrimSpace(line[:space])) {
		case "newmtl":
			c.Materials.Set(value, &model.Material{Color: model.White})

		case "kd":
			if m := c.Materials.Last(); m != nil {
				v, err := parseVec3(line)
				if err != nil {
					return err
				}
				m.Color = colorFromVec(v)
			}

		case "map_kd":
			if m := c.Materials.Last(); m != nil && value != "" {
				im.applyTexture(m, value, dir)
			}
		}
	}

	return errors.Wrap(scanner.Err(), "reading MTL")
}

// applyTexture decodes the texture file into m. A texture that cannot be
// loaded leaves m as a solid color material.
func (im *Importer) applyTexture(m *model.Material, ref, dir string) {
	path := im.resolveTexturePath(ref, dir)

	img, err := im.textures.Get(path)
	if err != nil {
		im.log.Warn("texture not loaded, using solid color",
			zap.String("texture", path),
			zap.Error(err))
		return
	}

	m.Texture = img
	m.TexturePath = path
}

// resolveTexturePath finds the texture file referenced by an MTL file.
// References may use either path separator.
func (im *Importer) resolveTexturePath(ref, dir string) string {
	ref = filepath.FromSlash(strings.ReplaceAll(ref, `\`, "/"))

	if fileExists(ref) {
		return ref
	}
	if filepath.IsAbs(ref) {
		return ref
	}

	candidates := []string{filepath.Join(dir, ref)}
	for _, p := range im.SearchPaths {
		candidates = append(candidates, filepath.Join(p, ref))
	}
	for _, p := range candidates {
		if fileExists(p) {
			return p
		}
	}
	return candidates[0]
}

// colorFromVec converts a diffuse color in [0, 1] to an opaque RGBA color.
func colorFromVec(v mgl64.Vec3) color.RGBA {
	c := color.RGBA{A: 255}
	for i, dst := range []*uint8{&c.R, &c.G, &c.B} {
		*dst = uint8(mgl64.Clamp(v[i], 0, 1) * 255)
	}
	return c
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Import reads an OBJ file with a default importer.
func Import(path string) (*model.Collection, error) {
	return New(nil).Import(path)
}
