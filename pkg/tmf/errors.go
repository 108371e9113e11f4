package tmf

import (
	"errors"
	"fmt"
)

// Format limits.
const (
	MaxModels   = 255   // Model count is stored in one byte
	MaxTextures = 255   // Texture count is stored in one byte
	MaxVertices = 65535 // Vertex count is stored in 16 bits
	MaxFaces    = 65535 // Face count is stored in 16 bits
)

// Export errors. Every error returned by Transform or Export that comes from
// a constraint violation matches one of these with errors.Is.
var (
	ErrNoModels        = errors.New("no models")
	ErrTooManyModels   = errors.New("too many models")
	ErrTooManyTextures = errors.New("too many textures")
	ErrTooManyVertices = errors.New("too many vertices")
	ErrTooManyFaces    = errors.New("too many faces")
	ErrNotQuad         = errors.New("all faces must be quads")
	ErrEmptyFace       = errors.New("face has no vertices")
	ErrMissingMaterial = errors.New("material is missing")
	ErrInvalidIndex    = errors.New("index out of range")
)

// MissingMaterialError reports a face referencing an unknown material.
type MissingMaterialError struct {
	Name string
}

func (e *MissingMaterialError) Error() string {
	return fmt.Sprintf("material '%s' is missing", e.Name)
}

// Is makes MissingMaterialError match ErrMissingMaterial.
func (e *MissingMaterialError) Is(target error) bool {
	return target == ErrMissingMaterial
}
