package loader

import (
	"errors"
	"io/fs"
	"strings"
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

func (m *MemFS) Open(name string) (fs.File, error) {
	return nil, fs.ErrNotExist
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
	memfs.AddFile("/slider.toml", `
handles = [10, 50.5]

[slider]
min_distance = 5
decimals = 1

[logging]
level = "debug"
`)

	config, err := NewTOMLLoaderWithFS(memfs, "/slider.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if v, _ := GetPath(config, "slider.min_distance"); v != int64(5) {
		t.Errorf("slider.min_distance = %v (%T), want 5", v, v)
	}
	if v, _ := GetPath(config, "logging.level"); v != "debug" {
		t.Errorf("logging.level = %v, want debug", v)
	}
	handles, ok := config["handles"].([]any)
	if !ok || len(handles) != 2 || handles[1] != 50.5 {
		t.Errorf("handles = %#v", config["handles"])
	}
}

func TestTOMLLoader_Missing(t *testing.T) {
	config, err := NewTOMLLoaderWithFS(NewMemFS(), "/nope.toml").Load()
	if err != nil || config != nil {
		t.Errorf("Load() = %v, %v; want nil, nil", config, err)
	}
}

func TestTOMLLoader_ParseError(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.toml", "[slider]\nmin_distance = = 3\n")

	_, err := NewTOMLLoaderWithFS(memfs, "/bad.toml").Load()
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if perr.Path != "/bad.toml" || perr.Line != 2 {
		t.Errorf("ParseError = %+v, want path /bad.toml line 2", perr)
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestTOMLLoader_Includes(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/cfg/base.toml", `
[slider]
min_distance = 2
max_value = 50
`)
	memfs.AddFile("/cfg/main.toml", `
"@include" = "base.toml"

[slider]
min_distance = 7
`)

	config, err := NewTOMLLoaderWithFS(memfs, "/cfg/main.toml").LoadWithIncludes("/cfg/main.toml", DefaultIncludeDepth)
	if err != nil {
		t.Fatalf("LoadWithIncludes failed: %v", err)
	}
	if _, ok := config["@include"]; ok {
		t.Error("@include key was not removed")
	}
	if v, _ := GetPath(config, "slider.min_distance"); v != int64(7) {
		t.Errorf("including file should win: min_distance = %v", v)
	}
	if v, _ := GetPath(config, "slider.max_value"); v != int64(50) {
		t.Errorf("included value missing: max_value = %v", v)
	}
}

func TestTOMLLoader_IncludeCycle(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/a.toml", `"@include" = "b.toml"`)
	memfs.AddFile("/b.toml", `"@include" = "a.toml"`)

	_, err := NewTOMLLoaderWithFS(memfs, "/a.toml").LoadWithIncludes("/a.toml", 4)
	if !errors.Is(err, ErrIncludeDepthExceeded) {
		t.Errorf("error = %v, want ErrIncludeDepthExceeded", err)
	}
}

func TestTOMLLoader_MissingInclude(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/a.toml", `"@include" = ["gone.toml"]`)

	_, err := NewTOMLLoaderWithFS(memfs, "/a.toml").LoadWithIncludes("/a.toml", 4)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error = %v, want fs.ErrNotExist", err)
	}
}

func TestYAMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/base.yaml", "slider:\n  max_value: 40\n")
	memfs.AddFile("/slider.yaml", `
'@include': base.yaml
slider:
  min_distance: 3
  multiples: 2
handles: [4, 8]
`)

	l := NewYAMLLoaderWithFS(memfs, "/slider.yaml")
	config, err := l.LoadWithIncludes("/slider.yaml", DefaultIncludeDepth)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if v, _ := GetPath(config, "slider.multiples"); v != 2 {
		t.Errorf("slider.multiples = %v (%T), want 2", v, v)
	}
	if v, _ := GetPath(config, "slider.max_value"); v != 40 {
		t.Errorf("slider.max_value = %v, want 40", v)
	}
	if h, ok := config["handles"].([]any); !ok || len(h) != 2 {
		t.Errorf("handles = %#v", config["handles"])
	}
}

func TestYAMLLoader_ParseError(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.yml", "slider:\n  min_distance: [1\n")

	_, err := NewYAMLLoaderWithFS(memfs, "/bad.yml").Load()
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if perr.Path != "/bad.yml" {
		t.Errorf("Path = %q", perr.Path)
	}
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path string
		want string
		err  bool
	}{
		{"a.toml", "*loader.TOMLLoader", false},
		{"a.YAML", "*loader.YAMLLoader", false},
		{"a.yml", "*loader.YAMLLoader", false},
		{"a.json", "", true},
	}

	for _, tt := range tests {
		l, err := ForPath(NewMemFS(), tt.path)
		if tt.err {
			if !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("ForPath(%q) error = %v, want ErrUnsupportedFormat", tt.path, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ForPath(%q) failed: %v", tt.path, err)
		}
		if got := typeName(l); got != tt.want {
			t.Errorf("ForPath(%q) = %s, want %s", tt.path, got, tt.want)
		}
	}
}

func typeName(l FileLoader) string {
	switch l.(type) {
	case *TOMLLoader:
		return "*loader.TOMLLoader"
	case *YAMLLoader:
		return "*loader.YAMLLoader"
	default:
		return "unknown"
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"slider":  map[string]any{"min_value": 0, "max_value": 100},
		"handles": []any{1, 2},
	}
	src := map[string]any{
		"slider":  map[string]any{"max_value": 50},
		"handles": []any{9},
	}

	got := DeepMerge(dst, src)
	if v, _ := GetPath(got, "slider.min_value"); v != 0 {
		t.Errorf("min_value = %v, want 0", v)
	}
	if v, _ := GetPath(got, "slider.max_value"); v != 50 {
		t.Errorf("max_value = %v, want 50", v)
	}
	if h := got["handles"].([]any); len(h) != 1 {
		t.Errorf("handles should be replaced, got %v", h)
	}
}

func TestClone(t *testing.T) {
	src := map[string]any{"slider": map[string]any{"decimals": 1}, "handles": []any{1.5}}
	dst := Clone(src)

	SetPath(dst, "slider.decimals", 3)
	dst["handles"].([]any)[0] = 9.0

	if v, _ := GetPath(src, "slider.decimals"); v != 1 {
		t.Errorf("Clone shares nested maps: %v", v)
	}
	if src["handles"].([]any)[0] != 1.5 {
		t.Error("Clone shares slices")
	}
}

func TestPathHelpers(t *testing.T) {
	m := map[string]any{"track": "flat"}
	SetPath(m, "track.width", 40)
	if v, ok := GetPath(m, "track.width"); !ok || v != 40 {
		t.Errorf("GetPath(track.width) = %v, %v", v, ok)
	}
	if _, ok := GetPath(m, "track.width.deeper"); ok {
		t.Error("GetPath through a leaf should fail")
	}
	if _, ok := GetPath(m, ""); ok {
		t.Error("GetPath(\"\") should fail")
	}
}

func TestEnvLoader_Load(t *testing.T) {
	l := NewEnvLoader(DefaultEnvPrefix)
	l.environ = func() []string {
		return []string{
			"MULTISLIDER_LOG_LEVEL=debug",
			"MULTISLIDER_SLIDER_MIN_DISTANCE=5",
			"MULTISLIDER_SLIDER_DECIMALS=1",
			"MULTISLIDER_SLIDER_MAX_VALUE=12.5",
			"MULTISLIDER_HANDLES=[1, 2, 3]",
			"MULTISLIDER_LOG_JSON=yes",
			"OTHER_SLIDER_MIN_DISTANCE=9",
		}
	}

	config, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	checks := map[string]any{
		"logging.level":       "debug",
		"slider.min_distance": int64(5),
		"slider.decimals":     int64(1),
		"slider.max_value":    12.5,
		"logging.json":        true,
	}
	for path, want := range checks {
		if got, ok := GetPath(config, path); !ok || got != want {
			t.Errorf("%s = %v (%T), want %v", path, got, got, want)
		}
	}
	if h, ok := config["handles"].([]any); !ok || len(h) != 3 {
		t.Errorf("handles = %#v", config["handles"])
	}
	if _, ok := config["other"]; ok {
		t.Error("unprefixed variable was loaded")
	}
}

func TestEnvLoader_envToPath(t *testing.T) {
	l := NewEnvLoader("MULTISLIDER_")
	tests := []struct {
		env  string
		want string
	}{
		{"MULTISLIDER_SLIDER_MIN_DISTANCE", "slider.min_distance"},
		{"MULTISLIDER_TRACK_WIDTH", "track.width"},
		{"MULTISLIDER_HANDLES", "handles"},
	}
	for _, tt := range tests {
		if got := l.envToPath(tt.env); got != tt.want {
			t.Errorf("envToPath(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestEnvLoader_Mapping(t *testing.T) {
	l := NewEnvLoaderWithMapping("X_", nil)
	l.AddMapping("X_COLS", "track.width")
	l.environ = func() []string { return []string{"X_COLS=80"} }

	config, _ := l.Load()
	if v, _ := GetPath(config, "track.width"); v != int64(80) {
		t.Errorf("track.width = %v", v)
	}

	l.RemoveMapping("X_COLS")
	config, _ = l.Load()
	if v, _ := GetPath(config, "cols"); v != int64(80) {
		t.Errorf("unmapped fallback = %v", v)
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"", ""},
		{"on", true},
		{"No", false},
		{"1", int64(1)},
		{"0", int64(0)},
		{"-2.5", -2.5},
		{"1e2", 100.0},
		{"info", "info"},
	}
	for _, tt := range tests {
		if got := parseValue(tt.in); got != tt.want {
			t.Errorf("parseValue(%q) = %v (%T), want %v", tt.in, got, got, tt.want)
		}
	}
}
