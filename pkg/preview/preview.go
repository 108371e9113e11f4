// Package preview converts model collections into glTF scenes so they can be
// inspected in any glTF viewer.
//
// Every face becomes its own node and mesh, so faces stay individually
// pickable. Quads are split into the triangles (0,1,2) and (2,3,0), larger
// polygons into a fan. Meshed faces are drawn as line loops.
package preview

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/modelconverter/pkg/model"
	"github.com/Faultbox/modelconverter/pkg/tmf"
)

// quadUV maps a whole texture onto a quad, one corner per face vertex.
var quadUV = [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

// Scene builds a glTF document from c. The collection is only read.
func Scene(c *model.Collection) (*gltf.Document, error) {
	doc := gltf.NewDocument()
	b := &builder{
		doc:       doc,
		c:         c,
		materials: make(map[materialKey]uint32),
		textures:  make(map[string]uint32),
	}

	for _, m := range c.Models {
		node, err := b.addModel(m)
		if err != nil {
			return nil, errors.Wrapf(err, "model %q", m.Name)
		}
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, node)
	}

	return doc, nil
}

type materialKey struct {
	name        string
	doubleSided bool
}

type builder struct {
	doc       *gltf.Document
	c         *model.Collection
	materials map[materialKey]uint32
	textures  map[string]uint32
}

// addModel adds a parent node for m with one child node per drawable face.
func (b *builder) addModel(m *model.Model) (uint32, error) {
	parent := &gltf.Node{Name: m.Name}

	for i, f := range m.Faces {
		if len(f.Vertices) < 3 {
			continue
		}

		mesh, err := b.addFace(f)
		if err != nil {
			return 0, errors.Wrapf(err, "face %d", i)
		}

		b.doc.Meshes[mesh].Name = fmt.Sprintf("%s/face%d", m.Name, i)
		parent.Children = append(parent.Children, uint32(len(b.doc.Nodes)))
		b.doc.Nodes = append(b.doc.Nodes, &gltf.Node{
			Name: b.doc.Meshes[mesh].Name,
			Mesh: gltf.Index(mesh),
		})
	}

	b.doc.Nodes = append(b.doc.Nodes, parent)
	return uint32(len(b.doc.Nodes) - 1), nil
}

// addFace writes the face geometry and returns its mesh index.
func (b *builder) addFace(f *model.Face) (uint32, error) {
	positions := make([][3]float32, len(f.Vertices))
	for i, v := range f.Vertices {
		if v < 0 || v >= len(b.c.Vertices) {
			return 0, errors.Wrapf(tmf.ErrInvalidIndex, "vertex %d", v)
		}
		p := b.c.Vertices[v]
		positions[i] = [3]float32{float32(p[0]), float32(p[1]), float32(p[2])}
	}

	material, err := b.material(f.Material, f.DoubleSided)
	if err != nil {
		return 0, err
	}

	attributes := map[string]uint32{
		"POSITION": modeler.WritePosition(b.doc, positions),
	}

	if len(f.Normals) == len(f.Vertices) {
		normals := make([][3]float32, len(f.Normals))
		for i, n := range f.Normals {
			if n < 0 || n >= len(b.c.Normals) {
				return 0, errors.Wrapf(tmf.ErrInvalidIndex, "normal %d", n)
			}
			v := b.c.Normals[n]
			if v.Len() > 0 {
				v = v.Normalize()
			}
			normals[i] = [3]float32{float32(v[0]), float32(v[1]), float32(v[2])}
		}
		attributes["NORMAL"] = modeler.WriteNormal(b.doc, normals)
	}

	if b.c.Materials.Get(f.Material).Textured() {
		uvs := make([][2]float32, len(f.Vertices))
		for i := range uvs {
			uvs[i] = quadUV[i%4]
		}
		attributes["TEXCOORD_0"] = modeler.WriteTextureCoord(b.doc, uvs)
	}

	primitive := &gltf.Primitive{
		Attributes: attributes,
		Material:   gltf.Index(material),
	}
	if f.Mesh {
		primitive.Mode = gltf.PrimitiveLineLoop
		primitive.Indices = gltf.Index(modeler.WriteIndices(b.doc, loop(len(f.Vertices))))
	} else {
		primitive.Indices = gltf.Index(modeler.WriteIndices(b.doc, Triangulate(len(f.Vertices))))
	}

	b.doc.Meshes = append(b.doc.Meshes, &gltf.Mesh{Primitives: []*gltf.Primitive{primitive}})
	return uint32(len(b.doc.Meshes) - 1), nil
}

// material returns the glTF material for a named collection material,
// creating it on first use.
func (b *builder) material(name string, doubleSided bool) (uint32, error) {
	key := materialKey{name: name, doubleSided: doubleSided}
	if idx, ok := b.materials[key]; ok {
		return idx, nil
	}

	m := b.c.Materials.Get(name)
	if m == nil {
		return 0, &tmf.MissingMaterialError{Name: name}
	}

	color := &[4]float32{
		float32(m.Color.R) / 255,
		float32(m.Color.G) / 255,
		float32(m.Color.B) / 255,
		1,
	}
	pbr := &gltf.PBRMetallicRoughness{BaseColorFactor: color}

	if m.Textured() {
		*color = [4]float32{1, 1, 1, 1}
		texture, err := b.texture(name, m)
		if err != nil {
			return 0, err
		}
		pbr.BaseColorTexture = &gltf.TextureInfo{Index: texture}
	}

	idx := uint32(len(b.doc.Materials))
	b.doc.Materials = append(b.doc.Materials, &gltf.Material{
		Name:                 name,
		DoubleSided:          doubleSided,
		PBRMetallicRoughness: pbr,
	})
	b.materials[key] = idx
	return idx, nil
}

// texture embeds a material's texture as PNG and returns its texture index.
func (b *builder) texture(name string, m *model.Material) (uint32, error) {
	if idx, ok := b.textures[name]; ok {
		return idx, nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, m.Texture); err != nil {
		return 0, errors.Wrapf(err, "encoding texture of material %q", name)
	}

	image, err := modeler.WriteImage(b.doc, name+"_image", "image/png", &buf)
	if err != nil {
		return 0, errors.Wrap(err, "failed to write gltf image")
	}

	sampler := uint32(len(b.doc.Samplers))
	b.doc.Samplers = append(b.doc.Samplers, &gltf.Sampler{
		MagFilter: gltf.MagNearest,
		MinFilter: gltf.MinNearest,
		WrapS:     gltf.WrapClampToEdge,
		WrapT:     gltf.WrapClampToEdge,
	})

	idx := uint32(len(b.doc.Textures))
	b.doc.Textures = append(b.doc.Textures, &gltf.Texture{
		Name:    name,
		Sampler: gltf.Index(sampler),
		Source:  gltf.Index(image),
	})
	b.textures[name] = idx
	return idx, nil
}

// Triangulate returns triangle indices for a polygon with n vertices.
// Quads use (0,1,2)(2,3,0); other polygons use a fan around vertex 0.
func Triangulate(n int) []uint32 {
	if n < 3 {
		return nil
	}
	if n == 4 {
		return []uint32{0, 1, 2, 2, 3, 0}
	}

	indices := make([]uint32, 0, 3*(n-2))
	for i := 1; i < n-1; i++ {
		indices = append(indices, 0, uint32(i), uint32(i+1))
	}
	return indices
}

func loop(n int) []uint32 {
	indices := make([]uint32, n)
	for i := range indices {
		indices[i] = uint32(i)
	}
	return indices
}
