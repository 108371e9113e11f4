// Package tmf writes Tank Model Format (TMF) files: the fixed-layout,
// big-endian binary model format read by the TankGame Saturn runtime.
//
// File layout (all multi-byte values big-endian, no implicit padding):
//
//	Header        type:u8 textureCount:u8 modelCount:u8 reserved:u8[5]
//	              textures:TextureEntry[textureCount] models:ModelHeader[modelCount]
//	TextureEntry  fileName:u8[13] color:u8[3]
//	ModelHeader   verticesCount:u16 faceCount:u16
//	              vertices:Vertice[verticesCount] faces:Face[faceCount]
//	Vertice       x:i32 y:i32 z:i32 (Q16.16 fixed point)
//	Face          normal:Vertice indexes:u16[4] flags:u8 textureIndex:u8 reserved:u8[2]
package tmf

import (
	"fmt"
	"strings"

	"github.com/Faultbox/modelconverter/pkg/record"
)

// Fixed sizes of the layout structures in bytes.
const (
	HeaderSize       = 8  // Header without the texture and model tables
	TextureEntrySize = 16 // FileNameSize + 3 color bytes
	ModelHeaderSize  = 4  // ModelHeader without the vertex and face tables
	VerticeSize      = 12
	FaceSize         = 24
)

// FileNameSize is the width of the texture file name field.
const FileNameSize = 13

// ModelType identifies the kind of models stored in a file.
type ModelType uint8

const (
	ModelStatic ModelType = 0 // Static model
)

// Ordinal implements record.Enum.
func (t ModelType) Ordinal() uint8 { return uint8(t) }

// String returns a human-readable model type name.
func (t ModelType) String() string {
	switch t {
	case ModelStatic:
		return "Static"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// FaceFlags holds per-face rendering flags.
type FaceFlags uint8

const (
	FaceNone        FaceFlags = 0
	FaceDoubleSided FaceFlags = 1 << 0 // Face is visible from both sides
	FaceMeshed      FaceFlags = 1 << 1 // Face is rendered as mesh
)

// Ordinal implements record.Enum.
func (f FaceFlags) Ordinal() uint8 { return uint8(f) }

// Has returns true if all bits of flag are set.
func (f FaceFlags) Has(flag FaceFlags) bool { return f&flag == flag }

// String returns the set flags joined by '|'.
func (f FaceFlags) String() string {
	if f == FaceNone {
		return "None"
	}
	var parts []string
	if f.Has(FaceDoubleSided) {
		parts = append(parts, "DoubleSided")
	}
	if f.Has(FaceMeshed) {
		parts = append(parts, "Meshed")
	}
	if rest := f &^ (FaceDoubleSided | FaceMeshed); rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%02x", uint8(rest)))
	}
	return strings.Join(parts, "|")
}

// Vertice is a point or vector in Q16.16 fixed point.
type Vertice struct {
	X, Y, Z int32
}

// Fields implements record.Record.
func (v Vertice) Fields() []any {
	return []any{v.X, v.Y, v.Z}
}

// TextureEntry describes one material: a texture file or a solid color.
type TextureEntry struct {
	FileName [FileNameSize]byte // Upper-case ASCII, null padded; zero for solid colors
	Color    [3]byte            // RGB; white for textured materials
}

// Fields implements record.Record.
func (e TextureEntry) Fields() []any {
	return []any{e.FileName[:], e.Color[:]}
}

// Face is a quad referencing four vertices of its model.
type Face struct {
	Normal       Vertice
	Indexes      [4]uint16 // Indices into ModelHeader.Vertices
	Flags        FaceFlags
	TextureIndex uint8 // Index into Header.Textures
	Reserved     [2]byte
}

// Fields implements record.Record.
func (f Face) Fields() []any {
	return []any{f.Normal, f.Indexes[:], f.Flags, f.TextureIndex, f.Reserved[:]}
}

// ModelHeader holds one model's vertex table and faces.
type ModelHeader struct {
	VerticesCount uint16
	FaceCount     uint16
	Vertices      []Vertice
	Faces         []Face
}

// Fields implements record.Record.
func (m ModelHeader) Fields() []any {
	return []any{m.VerticesCount, m.FaceCount, record.Slice(m.Vertices), record.Slice(m.Faces)}
}

// Header is the root structure of a TMF file.
type Header struct {
	Type         ModelType
	TextureCount uint8
	ModelCount   uint8
	Reserved     [5]byte
	Textures     []TextureEntry
	Models       []ModelHeader
}

// Fields implements record.Record.
func (h Header) Fields() []any {
	return []any{h.Type, h.TextureCount, h.ModelCount, h.Reserved[:], record.Slice(h.Textures), record.Slice(h.Models)}
}

// Bytes returns the encoded file contents.
func (h *Header) Bytes() []byte {
	return record.Encode(*h)
}

// Size returns the encoded size in bytes.
func (h *Header) Size() int {
	return record.Size(*h)
}
