package model

// MaterialSet maps material names to materials and remembers insertion order.
type MaterialSet struct {
	names     []string
	materials map[string]*Material
}

// NewMaterialSet returns an empty set.
func NewMaterialSet() *MaterialSet {
	return &MaterialSet{materials: make(map[string]*Material)}
}

// Set stores a material under name. Replacing an existing name keeps its
// original position.
func (s *MaterialSet) Set(name string, m *Material) {
	if _, ok := s.materials[name]; !ok {
		s.names = append(s.names, name)
	}
	s.materials[name] = m
}

// Get returns the material stored under name, or nil.
func (s *MaterialSet) Get(name string) *Material {
	if s == nil {
		return nil
	}
	return s.materials[name]
}

// Has reports whether name is present.
func (s *MaterialSet) Has(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.materials[name]
	return ok
}

// Len returns the number of materials.
func (s *MaterialSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Names returns material names in insertion order.
func (s *MaterialSet) Names() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.names...)
}

// Last returns the most recently inserted material, or nil.
func (s *MaterialSet) Last() *Material {
	if s.Len() == 0 {
		return nil
	}
	return s.materials[s.names[len(s.names)-1]]
}
