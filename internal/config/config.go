package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Version is the current compiler version.
// Set at build time via -ldflags or by writing to this file.
var Version = "0.3.1"

const SourceFileExt = ".sl"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".sl", ".schemalang"}

// ManifestFileName is the project manifest looked up in the project root.
const ManifestFileName = "schemalang.yaml"

// TrimSourceExt removes any recognized source extension from a filename.
// Returns the original string if no extension matches.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt returns true if the path ends with any recognized source
// extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// Project is the parsed schemalang.yaml manifest.
type Project struct {
	// Source is the directory scanned for modules, relative to the
	// manifest. Defaults to "src".
	Source string `yaml:"source"`
	// Output is the emitted script path. Defaults to "out.sql".
	Output string `yaml:"output"`
	// Schema is the database schema generated objects live in.
	Schema string `yaml:"schema"`
	// IndentSize is the emitted script's indent width.
	IndentSize int `yaml:"indent_size"`
	// CachePath is the build cache location; empty disables the cache.
	CachePath string `yaml:"cache"`

	// Dir is the directory the manifest was loaded from (not serialized).
	Dir string `yaml:"-"`
}

// Defaults returns a project configuration with every field at its default.
func Defaults(dir string) *Project {
	return &Project{
		Source:     "src",
		Output:     "out.sql",
		Schema:     "dbo",
		IndentSize: 4,
		Dir:        dir,
	}
}

// Load reads the manifest at dir/schemalang.yaml. A missing manifest is not
// an error: defaults apply.
func Load(dir string) (*Project, error) {
	project := Defaults(dir)
	data, err := os.ReadFile(filepath.Join(dir, ManifestFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return project, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, project); err != nil {
		return nil, fmt.Errorf("%s: %w", ManifestFileName, err)
	}
	if project.Source == "" {
		project.Source = "src"
	}
	if project.Output == "" {
		project.Output = "out.sql"
	}
	if project.Schema == "" {
		project.Schema = "dbo"
	}
	if project.IndentSize <= 0 {
		project.IndentSize = 4
	}
	project.Dir = dir
	return project, nil
}

// SourceDir returns the absolute module root.
func (p *Project) SourceDir() string {
	if filepath.IsAbs(p.Source) {
		return p.Source
	}
	return filepath.Join(p.Dir, p.Source)
}

// OutputPath returns the absolute output script path.
func (p *Project) OutputPath() string {
	if filepath.IsAbs(p.Output) {
		return p.Output
	}
	return filepath.Join(p.Dir, p.Output)
}
