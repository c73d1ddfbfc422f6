package gesture

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/inkwell/internal/ink"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// templateFile is the on-disk layout shared by TOML and YAML files:
//
//	[[template]]
//	name = "zigzag"
//	points = [[0.0, 0.0, 1.0], [10.0, 10.0, 1.0]]
//
// Each point is x, y and an optional stroke number (default 1).
type templateFile struct {
	Templates []templateEntry `toml:"template" yaml:"template"`
}

type templateEntry struct {
	Name   string      `toml:"name" yaml:"name"`
	Points [][]float64 `toml:"points" yaml:"points"`
}

// FileError describes a malformed template file.
type FileError struct {
	Path    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *FileError) Error() string {
	return fmt.Sprintf("template file %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *FileError) Unwrap() error {
	return e.Err
}

// LoadFile reads template definitions from a .toml, .yaml or .yml file.
func LoadFile(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template file: %w", err)
	}
	return Parse(path, data)
}

// Parse decodes template definitions. The format is chosen by the
// extension of name.
func Parse(name string, data []byte) ([]Definition, error) {
	var f templateFile
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".toml":
		if err := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&f); err != nil {
			return nil, &FileError{Path: name, Message: err.Error(), Err: err}
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, &FileError{Path: name, Message: err.Error(), Err: err}
		}
	default:
		return nil, &FileError{Path: name, Message: fmt.Sprintf("unsupported extension %q", ext)}
	}

	defs := make([]Definition, 0, len(f.Templates))
	for i, t := range f.Templates {
		if t.Name == "" {
			return nil, &FileError{Path: name, Message: fmt.Sprintf("template %d has no name", i)}
		}
		def := Definition{Name: t.Name, Points: make([]ink.Point, 0, len(t.Points))}
		for j, p := range t.Points {
			switch len(p) {
			case 2:
				def.Points = append(def.Points, ink.Pt(p[0], p[1], 1))
			case 3:
				def.Points = append(def.Points, ink.Pt(p[0], p[1], int(p[2])))
			default:
				return nil, &FileError{
					Path:    name,
					Message: fmt.Sprintf("template %q point %d: want 2 or 3 numbers, got %d", t.Name, j, len(p)),
				}
			}
		}
		defs = append(defs, def)
	}
	return defs, nil
}
