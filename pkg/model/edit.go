package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Face edit errors.
var (
	ErrInvalidSelector = errors.New("invalid face selector")
	ErrModelNotFound   = errors.New("model not found")
	ErrFaceOutOfRange  = errors.New("face index out of range")
)

// AllFaces selects every face of a model.
const AllFaces = -1

// FaceSelector addresses one face (or all faces) of a named model.
type FaceSelector struct {
	Model string
	Face  int // Face index, or AllFaces
}

// String returns the selector as "model:face" or "model:*".
func (s FaceSelector) String() string {
	if s.Face == AllFaces {
		return s.Model + ":*"
	}
	return fmt.Sprintf("%s:%d", s.Model, s.Face)
}

// ParseFaceSelector parses "model:face", "model:*" or "model".
// The model name may itself contain colons; the last one separates the face.
func ParseFaceSelector(s string) (FaceSelector, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return FaceSelector{}, ErrInvalidSelector
	}

	idx := strings.LastIndex(s, ":")
	if idx < 0 {
		return FaceSelector{Model: s, Face: AllFaces}, nil
	}

	name, face := s[:idx], s[idx+1:]
	if face == "*" || face == "" {
		return FaceSelector{Model: name, Face: AllFaces}, nil
	}

	n, err := strconv.Atoi(face)
	if err != nil || n < 0 {
		return FaceSelector{}, fmt.Errorf("%w: %q", ErrInvalidSelector, s)
	}
	return FaceSelector{Model: name, Face: n}, nil
}

// ParseFaceSelectors parses a comma separated selector list.
func ParseFaceSelectors(s string) ([]FaceSelector, error) {
	var result []FaceSelector
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		sel, err := ParseFaceSelector(part)
		if err != nil {
			return nil, err
		}
		result = append(result, sel)
	}
	return result, nil
}

// EditFaces applies edit to every face addressed by sel and returns how many
// faces were edited.
func (c *Collection) EditFaces(sel FaceSelector, edit func(*Face)) (int, error) {
	m := c.ModelByName(sel.Model)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrModelNotFound, sel.Model)
	}

	if sel.Face == AllFaces {
		for _, f := range m.Faces {
			edit(f)
		}
		return len(m.Faces), nil
	}

	if sel.Face < 0 || sel.Face >= len(m.Faces) {
		return 0, fmt.Errorf("%w: %s (model has %d faces)", ErrFaceOutOfRange, sel, len(m.Faces))
	}
	edit(m.Faces[sel.Face])
	return 1, nil
}

// SetDoubleSided sets the double-sided flag on the selected faces.
func (c *Collection) SetDoubleSided(sel FaceSelector, on bool) (int, error) {
	return c.EditFaces(sel, func(f *Face) { f.DoubleSided = on })
}

// SetMesh sets the rendered-as-mesh flag on the selected faces.
func (c *Collection) SetMesh(sel FaceSelector, on bool) (int, error) {
	return c.EditFaces(sel, func(f *Face) { f.Mesh = on })
}
