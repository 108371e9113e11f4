package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/Faultbox/modelconverter/internal/config"
	"github.com/Faultbox/modelconverter/internal/plugin"
	"github.com/Faultbox/modelconverter/pkg/tmf"
)

const tankOBJ = `o hull
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
usemtl green
f 1//1 2//1 3//1 4//1
f 1//1 2//1 3//1
o turret
f 4 3 2
`

const tankMTL = `newmtl green
Kd 0 1 0
`

type testApp struct {
	*app
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	dir    string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	// Keep remembered paths out of the real user config.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "tank.obj"), []byte(tankOBJ), 0644); err != nil {
		t.Fatalf("failed to write OBJ: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "tank.mtl"), []byte(tankMTL), 0644); err != nil {
		t.Fatalf("failed to write MTL: %v", err)
	}

	var stdout, stderr bytes.Buffer
	a, err := newApp(config.Default(), zap.NewNop(), &stdout, &stderr)
	if err != nil {
		t.Fatalf("newApp failed: %v", err)
	}
	return &testApp{app: a, stdout: &stdout, stderr: &stderr, dir: dir}
}

func (ta *testApp) path(name string) string {
	return filepath.Join(ta.dir, name)
}

func TestRun_Usage(t *testing.T) {
	ta := newTestApp(t)

	tests := []struct {
		name string
		args []string
	}{
		{"no command", nil},
		{"unknown command", []string{"explode"}},
		{"convert without input", []string{"convert"}},
		{"info without input", []string{"info"}},
		{"dump bad flag", []string{"dump", "-nope", "x.obj"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ta.run(tt.args); !errors.Is(err, errUsage) {
				t.Errorf("run(%v) error = %v, want %v", tt.args, err, errUsage)
			}
		})
	}

	if err := ta.run([]string{"help"}); err != nil {
		t.Errorf("help should succeed, got %v", err)
	}
	if !strings.Contains(ta.stderr.String(), "Commands:") {
		t.Error("usage text should be printed")
	}
}

func TestConvert_TMF(t *testing.T) {
	ta := newTestApp(t)

	err := ta.run([]string{"convert", "-double-sided", "hull:0", "-meshed", "turret", ta.path("tank.obj")})
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}

	data, err := os.ReadFile(ta.path("tank.tmf"))
	if err != nil {
		t.Fatalf("expected default output tank.tmf: %v", err)
	}

	// 2 materials, hull: 4 vertices 2 faces, turret: 3 vertices 1 face.
	want := tmf.HeaderSize + 2*tmf.TextureEntrySize +
		tmf.ModelHeaderSize + 4*tmf.VerticeSize + 2*tmf.FaceSize +
		tmf.ModelHeaderSize + 3*tmf.VerticeSize + 1*tmf.FaceSize
	if len(data) != want {
		t.Errorf("file size = %d, want %d", len(data), want)
	}

	// Flags byte of the first hull face.
	flagsOffset := tmf.HeaderSize + 2*tmf.TextureEntrySize + tmf.ModelHeaderSize + 4*tmf.VerticeSize + tmf.VerticeSize + 8
	if got := tmf.FaceFlags(data[flagsOffset]); got != tmf.FaceDoubleSided {
		t.Errorf("first hull face flags = %v, want %v", got, tmf.FaceDoubleSided)
	}

	if !strings.Contains(ta.stdout.String(), "Done! Models: 2 Textures: 2") {
		t.Errorf("unexpected output: %q", ta.stdout.String())
	}
	if ta.cfg.Paths.LastExportPath != ta.dir || ta.cfg.Paths.LastOpenPath != ta.dir {
		t.Errorf("paths not remembered: %+v", ta.cfg.Paths)
	}
}

func TestConvert_BadSelector(t *testing.T) {
	ta := newTestApp(t)

	err := ta.run([]string{"convert", "-meshed", "tower", ta.path("tank.obj")})
	if err == nil || !strings.Contains(err.Error(), "meshed") {
		t.Fatalf("expected meshed selector error, got %v", err)
	}
	if _, err := os.Stat(ta.path("tank.tmf")); !os.IsNotExist(err) {
		t.Error("nothing should be written on a selector error")
	}
}

func TestConvert_NoOverwrite(t *testing.T) {
	ta := newTestApp(t)
	ta.cfg.Export.Overwrite = false

	for _, name := range []string{"tank.tmf", "tank.glb"} {
		t.Run(name, func(t *testing.T) {
			out := ta.path(name)
			if err := os.WriteFile(out, []byte("keep"), 0644); err != nil {
				t.Fatalf("failed to write file: %v", err)
			}

			if err := ta.run([]string{"convert", ta.path("tank.obj"), out}); !errors.Is(err, plugin.ErrFileExists) {
				t.Fatalf("convert error = %v, want %v", err, plugin.ErrFileExists)
			}
			if data, _ := os.ReadFile(out); string(data) != "keep" {
				t.Errorf("existing file was modified: %q", data)
			}
		})
	}
}

func TestConvert_UnknownFormat(t *testing.T) {
	ta := newTestApp(t)

	if err := ta.run([]string{"convert", ta.path("tank.obj"), ta.path("tank.fbx")}); err == nil {
		t.Fatal("expected error for unknown output format")
	}
	if err := ta.run([]string{"info", ta.path("tank.mtl")}); err == nil {
		t.Fatal("expected error for unknown input format")
	}
}

func TestPreview(t *testing.T) {
	ta := newTestApp(t)

	if err := ta.run([]string{"preview", ta.path("tank.obj")}); err != nil {
		t.Fatalf("preview failed: %v", err)
	}
	info, err := os.Stat(ta.path("tank.glb"))
	if err != nil {
		t.Fatalf("expected tank.glb: %v", err)
	}
	if info.Size() == 0 {
		t.Error("preview file is empty")
	}
}

func TestInfo(t *testing.T) {
	ta := newTestApp(t)

	if err := ta.run([]string{"info", ta.path("tank.obj")}); err != nil {
		t.Fatalf("info failed: %v", err)
	}

	out := ta.stdout.String()
	for _, want := range []string{
		"Models:    2",
		"Faces:     3",
		"Materials: 2 (0 textured)",
		`"hull"`,
		"#00FF00",
		"#FFFFFF",
		"TMF:       ",
		"bounds 0.0000 0.0000 0.0000 .. 1.0000 1.0000 0.0000",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("info output missing %q:\n%s", want, out)
		}
	}
}

func TestDump(t *testing.T) {
	ta := newTestApp(t)

	if err := ta.run([]string{"dump", ta.path("tank.obj")}); err != nil {
		t.Fatalf("dump failed: %v", err)
	}
	if out := ta.stdout.String(); !strings.Contains(out, "TextureCount") || !strings.Contains(out, "Indexes") {
		t.Errorf("dump should show TMF structures:\n%s", out)
	}

	ta.stdout.Reset()
	if err := ta.run([]string{"dump", "-hex", ta.path("tank.obj")}); err != nil {
		t.Fatalf("dump -hex failed: %v", err)
	}
	if out := ta.stdout.String(); !strings.HasPrefix(out, "00000000  00 02 02") {
		t.Errorf("hex dump should start with the header bytes:\n%s", out)
	}
}

func TestPlugins(t *testing.T) {
	ta := newTestApp(t)

	if err := ta.run([]string{"plugins"}); err != nil {
		t.Fatalf("plugins failed: %v", err)
	}

	out := ta.stdout.String()
	for _, want := range []string{
		"Wavefront",
		"*.obj",
		`Plugin for exporting models for sega Saturn game "TankGame"`,
		"*.glb;*.gltf",
		"Open filter:   Wavefront|*.obj",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("plugins output missing %q:\n%s", want, out)
		}
	}
}

func TestDefaultOutput(t *testing.T) {
	tests := []struct {
		input, format, want string
	}{
		{"tank.obj", "tmf", "tank.tmf"},
		{"models/tank.obj", ".glb", "models/tank.glb"},
		{"tank", "tmf", "tank.tmf"},
	}
	for _, tt := range tests {
		if got := defaultOutput(tt.input, tt.format); got != tt.want {
			t.Errorf("defaultOutput(%q, %q) = %q, want %q", tt.input, tt.format, got, tt.want)
		}
	}
}
