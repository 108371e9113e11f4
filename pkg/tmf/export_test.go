package tmf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/modelconverter/pkg/model"
)

func TestExport_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plate.tmf")

	result, err := Export(makeQuadCollection(), path)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	want := HeaderSize + TextureEntrySize + ModelHeaderSize + 4*VerticeSize + FaceSize
	if len(data) != want {
		t.Errorf("file size = %d, want %d", len(data), want)
	}
	if result.Models != 1 || result.Textures != 1 || result.Bytes != int64(want) || result.Path != path {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestExport_ReplacesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plate.tmf")
	if err := os.WriteFile(path, make([]byte, 4096), 0644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	if _, err := Export(makeQuadCollection(), path); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Size() != 100 {
		t.Errorf("file size = %d, want 100 (old contents must be replaced)", info.Size())
	}
}

func TestExport_FailureWritesNothing(t *testing.T) {
	pentagon := makeQuadCollection()
	pentagon.Models[0].Faces[0].Vertices = []int{0, 1, 2, 3, 0}

	manyMaterials := makeQuadCollection()
	for i := 0; i < 255; i++ {
		manyMaterials.Materials.Set(fmt.Sprintf("mat%d", i), &model.Material{})
	}

	tests := []struct {
		name    string
		c       *model.Collection
		wantErr error
	}{
		{"no models", model.NewCollection(), ErrNoModels},
		{"pentagon", pentagon, ErrNotQuad},
		{"256 materials", manyMaterials, ErrTooManyTextures},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.tmf")

			_, err := Export(tt.c, path)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Export() error = %v, want %v", err, tt.wantErr)
			}
			if _, err := os.Stat(path); !os.IsNotExist(err) {
				t.Errorf("expected no file to be written, stat error = %v", err)
			}
		})
	}
}

func TestExporter_WriteErrorPropagates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "plate.tmf")

	_, err := NewExporter(nil).Export(makeQuadCollection(), path)
	if err == nil {
		t.Fatal("expected write error")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped os.ErrNotExist, got %v", err)
	}
}

func TestExporter_LogsCounts(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	exp := NewExporter(zap.New(core))

	path := filepath.Join(t.TempDir(), "plate.tmf")
	if _, err := exp.Export(makeQuadCollection(), path); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if n := logs.FilterMessage("model transformed").Len(); n != 1 {
		t.Errorf("expected 1 model log entry, got %d", n)
	}

	done := logs.FilterMessage("TMF export done").All()
	if len(done) != 1 {
		t.Fatalf("expected 1 completion entry, got %d", len(done))
	}
	fields := done[0].ContextMap()
	if fields["models"] != int64(1) || fields["textures"] != int64(1) || fields["bytes"] != int64(100) {
		t.Errorf("unexpected completion fields: %v", fields)
	}
}
