package tmf

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/modelconverter/pkg/model"
)

// Validate checks the collection-wide limits of the format.
func Validate(c *model.Collection) error {
	if c == nil || len(c.Models) == 0 {
		return ErrNoModels
	}
	if len(c.Models) > MaxModels {
		return fmt.Errorf("%w: %d (max %d)", ErrTooManyModels, len(c.Models), MaxModels)
	}
	if n := c.Materials.Len(); n > MaxTextures {
		return fmt.Errorf("%w: %d (max %d)", ErrTooManyTextures, n, MaxTextures)
	}
	return nil
}

// Transform converts a model collection into its TMF layout.
// The collection is only read.
func Transform(c *model.Collection) (*Header, error) {
	if err := Validate(c); err != nil {
		return nil, err
	}

	materials := newMaterialTable(c.Materials)

	header := &Header{
		Type:         ModelStatic,
		TextureCount: uint8(materials.len()),
		ModelCount:   uint8(len(c.Models)),
		Textures:     materials.entries(),
		Models:       make([]ModelHeader, len(c.Models)),
	}

	for i, m := range c.Models {
		entry, err := transformModel(c, m, materials)
		if err != nil {
			return nil, fmt.Errorf("model %q: %w", m.Name, err)
		}
		header.Models[i] = *entry
	}

	return header, nil
}

// vertexTable assigns model-local indices to global vertex indices in order
// of first use.
type vertexTable struct {
	local    map[int]uint16
	vertices []Vertice
}

func newVertexTable() *vertexTable {
	return &vertexTable{local: make(map[int]uint16)}
}

// resolve returns the local index of a global vertex, inserting the quantized
// position on first use.
func (t *vertexTable) resolve(global int, pos mgl64.Vec3) (uint16, error) {
	if idx, ok := t.local[global]; ok {
		return idx, nil
	}
	if len(t.vertices) >= MaxVertices {
		return 0, fmt.Errorf("%w: more than %d", ErrTooManyVertices, MaxVertices)
	}

	idx := uint16(len(t.vertices))
	t.local[global] = idx
	t.vertices = append(t.vertices, NewVertice(pos))
	return idx, nil
}

func (t *vertexTable) len() int {
	return len(t.vertices)
}

func transformModel(c *model.Collection, m *model.Model, materials *materialTable) (*ModelHeader, error) {
	if len(m.Faces) > MaxFaces {
		return nil, fmt.Errorf("%w: %d (max %d)", ErrTooManyFaces, len(m.Faces), MaxFaces)
	}

	vertices := newVertexTable()
	faces := make([]Face, len(m.Faces))

	for i, f := range m.Faces {
		face, err := transformFace(c, f, vertices, materials)
		if err != nil {
			return nil, fmt.Errorf("face %d: %w", i, err)
		}
		faces[i] = face
	}

	return &ModelHeader{
		VerticesCount: uint16(vertices.len()),
		FaceCount:     uint16(len(faces)),
		Vertices:      vertices.vertices,
		Faces:         faces,
	}, nil
}

func transformFace(c *model.Collection, f *model.Face, vertices *vertexTable, materials *materialTable) (Face, error) {
	var face Face

	if len(f.Vertices) == 0 {
		return face, ErrEmptyFace
	}

	indexes := make([]uint16, 0, 4)
	for _, v := range f.Vertices {
		if v < 0 || v >= len(c.Vertices) {
			return face, fmt.Errorf("vertex %d: %w (pool has %d)", v, ErrInvalidIndex, len(c.Vertices))
		}
		idx, err := vertices.resolve(v, c.Vertices[v])
		if err != nil {
			return face, err
		}
		indexes = append(indexes, idx)
	}

	// Triangles (and smaller) become degenerate quads.
	for len(indexes) < 4 {
		indexes = append(indexes, indexes[len(indexes)-1])
	}
	if len(indexes) != 4 {
		return face, fmt.Errorf("%w: face has %d vertices", ErrNotQuad, len(indexes))
	}
	copy(face.Indexes[:], indexes)

	normal, err := faceNormal(c, f)
	if err != nil {
		return face, err
	}
	face.Normal = NewVertice(normal)

	textureIndex, ok := materials.lookup(f.Material)
	if !ok {
		return face, &MissingMaterialError{Name: f.Material}
	}
	face.TextureIndex = textureIndex

	if f.DoubleSided {
		face.Flags |= FaceDoubleSided
	}
	if f.Mesh {
		face.Flags |= FaceMeshed
	}

	return face, nil
}

// faceNormal sums the face's vertex normals and normalizes the result.
// This averages the stored normals; it is not the geometric normal of the
// face. A face without normals, or whose normals cancel out, gets a zero
// normal.
func faceNormal(c *model.Collection, f *model.Face) (mgl64.Vec3, error) {
	var sum mgl64.Vec3
	for _, n := range f.Normals {
		if n < 0 || n >= len(c.Normals) {
			return mgl64.Vec3{}, fmt.Errorf("normal %d: %w (pool has %d)", n, ErrInvalidIndex, len(c.Normals))
		}
		sum = sum.Add(c.Normals[n])
	}

	if sum.Len() == 0 {
		return mgl64.Vec3{}, nil
	}
	return sum.Normalize(), nil
}
