// Package model holds the format-agnostic, in-memory representation of a set
// of 3D models produced by importers and consumed by exporters.
package model

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// Face is a polygon of a model. Vertex and normal indices point into the
// shared pools of the owning Collection.
type Face struct {
	Vertices    []int  // Indices into Collection.Vertices
	Normals     []int  // Indices into Collection.Normals, parallel to Vertices
	Material    string // Material name, empty for none
	DoubleSided bool   // Rendered from both sides
	Mesh        bool   // Rendered as mesh (wireframe pattern)
}

// Model is a named group of faces.
type Model struct {
	Name  string
	Faces []*Face
}

// Material is either a solid color or a decoded texture image.
type Material struct {
	Color       color.RGBA  // Diffuse color, used when Texture is nil
	Texture     image.Image // Decoded texture image
	TexturePath string      // Source path of the texture file
}

// Textured returns true if the material carries a decoded texture.
func (m *Material) Textured() bool {
	return m != nil && m.Texture != nil
}

// White is the default material color.
var White = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Collection is an ordered set of models sharing one vertex pool, one normal
// pool and one material set.
type Collection struct {
	Models    []*Model
	Vertices  []mgl64.Vec3
	Normals   []mgl64.Vec3
	Materials *MaterialSet
}

// NewCollection returns an empty collection with an empty material set.
func NewCollection() *Collection {
	return &Collection{Materials: NewMaterialSet()}
}

// AddModel appends a new model and returns it.
func (c *Collection) AddModel(name string) *Model {
	m := &Model{Name: name}
	c.Models = append(c.Models, m)
	return m
}

// LastModel returns the most recently added model, or nil.
func (c *Collection) LastModel() *Model {
	if len(c.Models) == 0 {
		return nil
	}
	return c.Models[len(c.Models)-1]
}

// AddVertex appends a point to the shared vertex pool and returns its index.
func (c *Collection) AddVertex(v mgl64.Vec3) int {
	c.Vertices = append(c.Vertices, v)
	return len(c.Vertices) - 1
}

// AddNormal appends a vector to the shared normal pool and returns its index.
func (c *Collection) AddNormal(n mgl64.Vec3) int {
	c.Normals = append(c.Normals, n)
	return len(c.Normals) - 1
}

// ModelByName returns the first model with the given name, or nil.
func (c *Collection) ModelByName(name string) *Model {
	for _, m := range c.Models {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Stats summarizes the size of a collection.
type Stats struct {
	Models            int
	Faces             int
	Vertices          int
	Normals           int
	Materials         int
	TexturedMaterials int
}

// Stats returns the collection size summary.
func (c *Collection) Stats() Stats {
	s := Stats{
		Models:   len(c.Models),
		Vertices: len(c.Vertices),
		Normals:  len(c.Normals),
	}
	for _, m := range c.Models {
		s.Faces += len(m.Faces)
	}
	if c.Materials != nil {
		s.Materials = c.Materials.Len()
		for _, name := range c.Materials.Names() {
			if c.Materials.Get(name).Textured() {
				s.TexturedMaterials++
			}
		}
	}
	return s
}
