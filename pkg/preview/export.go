package preview

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"

	"github.com/Faultbox/modelconverter/pkg/model"
)

// Exporter writes collections as glTF. Files ending in .glb are written in
// the binary container, anything else as JSON glTF.
type Exporter struct{}

// Export converts c, writes it to path and reports what was written.
func (Exporter) Export(c *model.Collection, path string) (*model.ExportResult, error) {
	doc, err := Scene(c)
	if err != nil {
		return nil, errors.Wrap(err, "building preview scene")
	}

	if strings.EqualFold(filepath.Ext(path), ".glb") {
		err = writeBinary(doc, path)
	} else {
		embedBuffers(doc)
		err = gltf.Save(doc, path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "writing %s", path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "writing %s", path)
	}
	return &model.ExportResult{
		Path:     path,
		Models:   len(c.Models),
		Textures: len(doc.Images),
		Bytes:    info.Size(),
	}, nil
}

// embedBuffers stores buffer data inline as data URIs so a .gltf file is
// self-contained.
func embedBuffers(doc *gltf.Document) {
	for _, b := range doc.Buffers {
		if b.URI == "" && len(b.Data) > 0 {
			b.URI = "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(b.Data)
		}
	}
}

func writeBinary(doc *gltf.Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	encoder := gltf.NewEncoder(f)
	encoder.AsBinary = true
	if err := encoder.Encode(doc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
