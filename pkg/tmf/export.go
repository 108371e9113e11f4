package tmf

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/modelconverter/pkg/model"
	"github.com/Faultbox/modelconverter/pkg/record"
)

// Encode transforms the collection and returns the encoded file contents.
func Encode(c *model.Collection) ([]byte, error) {
	header, err := Transform(c)
	if err != nil {
		return nil, err
	}
	return header.Bytes(), nil
}

// Exporter writes model collections as TMF files.
// An Exporter holds no per-call state and may be shared between goroutines.
type Exporter struct {
	log *zap.Logger
}

// NewExporter creates an exporter. A nil logger disables logging.
func NewExporter(log *zap.Logger) *Exporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Exporter{log: log}
}

// Export writes c to path, replacing any existing file, and reports what
// was written. Nothing is written when validation or transformation fails.
func (e *Exporter) Export(c *model.Collection, path string) (*model.ExportResult, error) {
	header, err := Transform(c)
	if err != nil {
		return nil, fmt.Errorf("exporting %s: %w", path, err)
	}

	for i := range header.Models {
		e.log.Debug("model transformed",
			zap.String("model", c.Models[i].Name),
			zap.Uint16("vertices", header.Models[i].VerticesCount),
			zap.Uint16("faces", header.Models[i].FaceCount))
	}

	if err := writeFile(path, header); err != nil {
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}

	result := &model.ExportResult{
		Path:     path,
		Models:   int(header.ModelCount),
		Textures: int(header.TextureCount),
		Bytes:    int64(header.Size()),
	}
	e.log.Info("TMF export done",
		zap.String("path", path),
		zap.Int("models", result.Models),
		zap.Int("textures", result.Textures),
		zap.Int64("bytes", result.Bytes))

	return result, nil
}

// writeFile encodes header into path with a single write.
func writeFile(path string, header *Header) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := record.Write(f, *header); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Export writes c to path with a default exporter.
func Export(c *model.Collection, path string) (*model.ExportResult, error) {
	return NewExporter(nil).Export(c, path)
}
