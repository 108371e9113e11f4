package model

import "fmt"

// ExportResult describes a file written by an exporter.
type ExportResult struct {
	Path     string
	Models   int
	Textures int // Texture table entries or embedded images
	Bytes    int64
}

// String returns a one-line summary.
func (r *ExportResult) String() string {
	return fmt.Sprintf("Models: %d Textures: %d (%d bytes)", r.Models, r.Textures, r.Bytes)
}
