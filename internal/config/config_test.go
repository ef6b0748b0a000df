package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/multierr"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if cfg.Backend != BackendOpenGL {
		t.Errorf("expected opengl backend, got %s", cfg.Backend)
	}
	if cfg.ClearColor != [4]float32{0.1, 0.1, 0.1, 1.0} {
		t.Errorf("unexpected clear color %v", cfg.ClearColor)
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Backend = "vulkan"
	cfg.Window.Width = 0
	cfg.TextureWorkers = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	if n := len(multierr.Errors(err)); n != 3 {
		t.Errorf("expected 3 errors, got %d: %v", n, err)
	}
	if !errors.Is(err, ErrInvalid) {
		t.Error("validation errors should wrap ErrInvalid")
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	data := []byte("backend: webgpu\nlegacyGL: true\nwindow:\n  width: 640\n  height: 480\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend != BackendWebGPU || !cfg.LegacyGL {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Window.Width != 640 || cfg.Window.Height != 480 {
		t.Errorf("unexpected window size %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	// Untouched fields keep their defaults
	if cfg.TextureWorkers != 4 {
		t.Errorf("expected default texture workers, got %d", cfg.TextureWorkers)
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.json")
	if err := os.WriteFile(path, []byte(`{"backend":"opengl","clearColor":[0,0,0,1]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ClearColor != [4]float32{0, 0, 0, 1} {
		t.Errorf("unexpected clear color %v", cfg.ClearColor)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
