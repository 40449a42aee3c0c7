package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vango-dev/vbind/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Addr != DefaultAddr {
		t.Errorf("Addr = %q, want %q", cfg.Addr, DefaultAddr)
	}
	if cfg.MaxUpdateDepth != DefaultMaxUpdateDepth {
		t.Errorf("MaxUpdateDepth = %d, want %d", cfg.MaxUpdateDepth, DefaultMaxUpdateDepth)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	// Test loading non-existent config
	_, err := Load(tmpDir)
	if !errors.HasCode(err, errors.CodeConfigNotFound) {
		t.Errorf("expected %s for missing config, got %v", errors.CodeConfigNotFound, err)
	}

	configYAML := `template: page.html
data: s3://bucket/data.yaml
el: "#app"
addr: ":9000"
pretty: true
s3:
  region: eu-west-1
  use_path_style: true
`
	configPath := filepath.Join(tmpDir, ConfigFileName)
	if err := os.WriteFile(configPath, []byte(configYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.El != "#app" || cfg.Addr != ":9000" || !cfg.Pretty {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.MaxUpdateDepth != DefaultMaxUpdateDepth {
		t.Errorf("MaxUpdateDepth default not applied: %d", cfg.MaxUpdateDepth)
	}
	if cfg.S3.Region != "eu-west-1" || !cfg.S3.UsePathStyle {
		t.Errorf("S3 = %+v", cfg.S3)
	}
	if cfg.Path() != configPath || cfg.Dir() != tmpDir {
		t.Errorf("Path = %q, Dir = %q", cfg.Path(), cfg.Dir())
	}
	if got := cfg.TemplatePath(); got != filepath.Join(tmpDir, "page.html") {
		t.Errorf("TemplatePath = %q", got)
	}
	if got := cfg.DataPath(); got != "s3://bucket/data.yaml" {
		t.Errorf("DataPath = %q", got)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"syntax", "template: [unclosed"},
		{"negative depth", "max_update_depth: -1"},
		{"bad s3 url", "data: s3://bucket-only"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(tt.yaml), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(dir)
			if !errors.HasCode(err, errors.CodeConfigInvalid) {
				t.Errorf("expected %s, got %v", errors.CodeConfigInvalid, err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := New()
	cfg.Template = "index.html"
	cfg.Data = "data.toml"

	path := filepath.Join(dir, ConfigFileName)
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if loaded.Template != "index.html" || loaded.Data != "data.toml" || loaded.Addr != DefaultAddr {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, ConfigFileName), []byte("addr: :1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot: %v", err)
	}
	if got != root {
		t.Errorf("root = %q, want %q", got, root)
	}
	if !Exists(root) || Exists(nested) {
		t.Error("Exists mismatch")
	}
}

func TestResolve(t *testing.T) {
	cfg := &Config{configPath: filepath.Join("proj", ConfigFileName)}

	tests := map[string]string{
		"":               "",
		"page.html":      filepath.Join("proj", "page.html"),
		"/abs/page.html": "/abs/page.html",
		"s3://b/k":       "s3://b/k",
	}
	for in, want := range tests {
		if got := cfg.Resolve(in); got != want {
			t.Errorf("Resolve(%q) = %q, want %q", in, got, want)
		}
	}
}
