package tmf

import (
	"sort"
	"strings"

	"github.com/Faultbox/modelconverter/pkg/encoding"
	"github.com/Faultbox/modelconverter/pkg/model"
)

// materialTable fixes the texture index of every material: textured
// materials first, then solid colors, each group in insertion order.
type materialTable struct {
	names     []string
	materials []*model.Material
	index     map[string]int
}

func newMaterialTable(set *model.MaterialSet) *materialTable {
	names := set.Names()
	sort.SliceStable(names, func(i, j int) bool {
		return set.Get(names[i]).Textured() && !set.Get(names[j]).Textured()
	})

	t := &materialTable{
		names:     names,
		materials: make([]*model.Material, len(names)),
		index:     make(map[string]int, len(names)),
	}
	for i, name := range names {
		t.materials[i] = set.Get(name)
		t.index[name] = i
	}
	return t
}

func (t *materialTable) len() int {
	return len(t.names)
}

// lookup returns the texture index of the named material.
func (t *materialTable) lookup(name string) (uint8, bool) {
	i, ok := t.index[name]
	if !ok {
		return 0, false
	}
	return uint8(i), true
}

func (t *materialTable) entries() []TextureEntry {
	entries := make([]TextureEntry, len(t.materials))
	for i, m := range t.materials {
		entries[i] = NewTextureEntry(m)
	}
	return entries
}

// MaterialOrder returns material names in texture index order.
func MaterialOrder(set *model.MaterialSet) []string {
	return newMaterialTable(set).names
}

// NewTextureEntry builds the texture entry of a material. Textured materials
// store their upper-cased file name and a white color; solid materials store
// an empty name and their color.
func NewTextureEntry(m *model.Material) TextureEntry {
	var entry TextureEntry

	if m.Textured() {
		copy(entry.FileName[:], encoding.FixedASCII(baseName(m.TexturePath), FileNameSize))
		entry.Color = [3]byte{0xFF, 0xFF, 0xFF}
		return entry
	}

	if m != nil {
		entry.Color = [3]byte{m.Color.R, m.Color.G, m.Color.B}
	}
	return entry
}

// baseName strips the directory from a path written with either separator.
func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}
