package loader

import (
	"errors"
	"io/fs"
	"testing"
	"time"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return &memFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return 0 }
func (f *memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memFileInfo) ModTime() time.Time { return time.Now() }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

func TestTOMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/pixed.toml", `
[canvas]
width = 32
height = 16

[palette]
colors = ["#000000", "#ff0000"]
`)

	config, err := NewTOMLLoaderWithFS(memfs, "/pixed.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	c, ok := config["canvas"].(map[string]any)
	if !ok {
		t.Fatal("expected canvas to be a map")
	}
	if c["width"] != int64(32) || c["height"] != int64(16) {
		t.Errorf("canvas = %v", c)
	}

	p := config["palette"].(map[string]any)
	colors, ok := p["colors"].([]any)
	if !ok || len(colors) != 2 || colors[1] != "#ff0000" {
		t.Errorf("palette.colors = %v", p["colors"])
	}
}

func TestTOMLLoader_MissingFile(t *testing.T) {
	config, err := NewTOMLLoaderWithFS(NewMemFS(), "/missing.toml").Load()
	if err != nil {
		t.Errorf("missing file should not be an error: %v", err)
	}
	if config != nil {
		t.Errorf("config = %v, want nil", config)
	}
}

func TestTOMLLoader_EmptyPath(t *testing.T) {
	config, err := NewTOMLLoaderWithFS(NewMemFS(), "").Load()
	if err != nil || config != nil {
		t.Errorf("Load() = (%v, %v), want (nil, nil)", config, err)
	}
}

func TestTOMLLoader_ParseError(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.toml", "[canvas\nwidth = ")

	_, err := NewTOMLLoaderWithFS(memfs, "/bad.toml").Load()
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want *ParseError", err)
	}
	if perr.Path != "/bad.toml" {
		t.Errorf("Path = %q", perr.Path)
	}
	if perr.Line == 0 {
		t.Error("expected a line number")
	}
}

func TestTOMLLoader_Include(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/cfg/base.toml", `
[canvas]
width = 10
height = 10
`)
	memfs.AddFile("/cfg/pixed.toml", `
"@include" = "base.toml"

[canvas]
width = 20
`)

	config, err := NewTOMLLoaderWithFS(memfs, "/cfg/pixed.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, ok := config["@include"]; ok {
		t.Error("@include key should be removed")
	}

	c := config["canvas"].(map[string]any)
	if c["width"] != int64(20) {
		t.Errorf("width = %v, want 20 (main file wins)", c["width"])
	}
	if c["height"] != int64(10) {
		t.Errorf("height = %v, want 10 (from include)", c["height"])
	}
}

func TestTOMLLoader_IncludeCycle(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/a.toml", `"@include" = "b.toml"`)
	memfs.AddFile("/b.toml", `"@include" = "a.toml"`)

	if _, err := NewTOMLLoaderWithFS(memfs, "/a.toml").Load(); err == nil {
		t.Error("expected include depth error")
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"canvas":  map[string]any{"width": int64(1), "height": int64(2)},
		"logging": map[string]any{"level": "info"},
	}
	src := map[string]any{
		"canvas": map[string]any{"width": int64(9)},
		"server": map[string]any{"listen": ":1"},
	}

	out := DeepMerge(dst, src)
	c := out["canvas"].(map[string]any)
	if c["width"] != int64(9) || c["height"] != int64(2) {
		t.Errorf("canvas = %v", c)
	}
	if _, ok := out["server"]; !ok {
		t.Error("server section missing")
	}
	if out["logging"].(map[string]any)["level"] != "info" {
		t.Error("logging section lost")
	}

	if DeepMerge(nil, nil) == nil {
		t.Error("DeepMerge(nil, nil) should return an empty map")
	}
}

func TestEnvLoader(t *testing.T) {
	l := NewEnvLoader("PIXED_")
	l.environ = func() []string {
		return []string{
			"PIXED_CANVAS_WIDTH=64",
			"PIXED_EXPORT_CELL_SIZE=12",
			"PIXED_LOG_LEVEL=debug",
			"PIXED_SERVER_ADVERTISE=yes",
			`PIXED_PALETTE_COLORS=["#000000","#00ff00"]`,
			"PIXED_=ignored",
			"HOME=/root",
		}
	}

	config, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tests := []struct {
		section, key string
		want         any
	}{
		{"canvas", "width", int64(64)},
		{"export", "cellSize", int64(12)},
		{"logging", "level", "debug"},
		{"server", "advertise", true},
	}
	for _, tt := range tests {
		sec, ok := config[tt.section].(map[string]any)
		if !ok {
			t.Errorf("section %s missing", tt.section)
			continue
		}
		if sec[tt.key] != tt.want {
			t.Errorf("%s.%s = %v (%T), want %v", tt.section, tt.key, sec[tt.key], sec[tt.key], tt.want)
		}
	}

	colors, ok := config["palette"].(map[string]any)["colors"].([]any)
	if !ok || len(colors) != 2 || colors[1] != "#00ff00" {
		t.Errorf("palette.colors = %v", config["palette"])
	}
	if _, ok := config["home"]; ok {
		t.Error("unprefixed variables should be ignored")
	}
}

func TestEnvLoader_Empty(t *testing.T) {
	l := NewEnvLoader("PIXED_")
	l.environ = func() []string { return nil }

	config, err := l.Load()
	if err != nil || config != nil {
		t.Errorf("Load() = (%v, %v), want (nil, nil)", config, err)
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input string
		want  any
	}{
		{"", ""},
		{"true", true},
		{"off", false},
		{"42", int64(42)},
		{"1.5", 1.5},
		{"#ff0000", "#ff0000"},
		{"[1, 2", "[1, 2"},
	}

	for _, tt := range tests {
		if got := parseValue(tt.input); got != tt.want {
			t.Errorf("parseValue(%q) = %v (%T), want %v", tt.input, got, got, tt.want)
		}
	}
}
