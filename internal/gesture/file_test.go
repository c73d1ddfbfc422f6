package gesture

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/inkwell/internal/ink"
)

func TestParseTOML(t *testing.T) {
	data := []byte(`
[[template]]
name = "zigzag"
points = [[0.0, 0.0], [10.0, 10.0], [20.0, 0.0, 2.0], [30.0, 10.0, 2.0]]
`)
	defs, err := Parse("extra.toml", data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(defs) != 1 || defs[0].Name != "zigzag" {
		t.Fatalf("defs = %+v", defs)
	}
	want := []ink.Point{ink.Pt(0, 0, 1), ink.Pt(10, 10, 1), ink.Pt(20, 0, 2), ink.Pt(30, 10, 2)}
	for i, p := range defs[0].Points {
		if p != want[i] {
			t.Errorf("point %d = %v, want %v", i, p, want[i])
		}
	}
}

func TestParseYAML(t *testing.T) {
	data := []byte(`
template:
  - name: caret
    points: [[0, 10], [5, 0], [10, 10]]
  - name: bar
    points: [[0, 0, 1], [10, 0, 1]]
`)
	defs, err := Parse("extra.yaml", data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(defs) != 2 || defs[0].Name != "caret" || defs[1].Name != "bar" {
		t.Fatalf("defs = %+v", defs)
	}
	if got := defs[0].Points[1]; got != ink.Pt(5, 0, 1) {
		t.Errorf("caret point 1 = %v", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		data string
	}{
		{"bad extension", "t.json", `{}`},
		{"bad toml", "t.toml", `[[template]`},
		{"no name", "t.toml", "[[template]]\npoints = [[0.0, 0.0]]\n"},
		{"short point", "t.yaml", "template:\n  - name: a\n    points: [[1]]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.file, []byte(tt.data))
			var fe *FileError
			if !errors.As(err, &fe) {
				t.Errorf("err = %v, want *FileError", err)
			}
		})
	}
}

func TestLoadFileRegistersTemplates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "more.yml")
	content := "template:\n  - name: bar\n    points: [[0, 0], [100, 0]]\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	defs, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	r, err := New(WithTemplates(append(DefaultTemplates(), defs...)...))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m, err := r.Recognize([]ink.Point{ink.Pt(5, 50, 0), ink.Pt(300, 52, 0)})
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if m.Name != "bar" {
		t.Errorf("Name = %q, want bar", m.Name)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}
