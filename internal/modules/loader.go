package modules

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/funvibe/schemalang/internal/ast"
	"github.com/funvibe/schemalang/internal/config"
	"github.com/funvibe/schemalang/internal/diagnostics"
	"github.com/funvibe/schemalang/internal/lexer"
	"github.com/funvibe/schemalang/internal/parser"
	"github.com/funvibe/schemalang/internal/semantics"
	"github.com/funvibe/schemalang/internal/token"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "loader")

// Unit pairs a registered module with its parsed source file.
type Unit struct {
	Module *semantics.Module
	File   *ast.Module
}

// Loader maps a source directory tree onto the module registry: the file
// `a/b.sl` becomes module `a::b`. Files are visited in sorted path order so
// registration order — and with it emission order — is reproducible.
type Loader struct {
	Root string
}

func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll parses every source file under the root and registers one module
// per file. Parse errors carry the file path.
func (l *Loader) LoadAll(registry *semantics.Registry) ([]Unit, diagnostics.List) {
	var errs diagnostics.List
	var paths []string
	walkErr := filepath.Walk(l.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !config.HasSourceExt(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if walkErr != nil {
		errs.Append(diagnostics.New(diagnostics.ErrProject, token.Token{}, walkErr.Error()))
		return nil, errs
	}
	sort.Strings(paths)

	var units []Unit
	for _, path := range paths {
		unit, fileErrs := l.loadFile(registry, path)
		errs = append(errs, fileErrs...)
		if unit != nil {
			units = append(units, *unit)
		}
	}
	log.WithField("files", len(units)).Debug("project loaded")
	return units, errs
}

func (l *Loader) loadFile(registry *semantics.Registry, path string) (*Unit, diagnostics.List) {
	var errs diagnostics.List
	data, err := os.ReadFile(path)
	if err != nil {
		errs.Append(diagnostics.New(diagnostics.ErrProject, token.Token{}, err.Error()))
		return nil, errs
	}

	tokens := lexer.New(string(data)).Tokens()
	p := parser.New(tokens)
	file := p.ParseModule()
	file.File = path
	parseErrs := p.Errors()
	parseErrs.SetFile(path)
	errs = append(errs, parseErrs...)

	segments := l.modulePath(path)
	mod := semantics.NewModule(segments, nil)
	mod.SourceFile = path
	if !registry.AddModule(mod) {
		errs.Append(diagnostics.New(
			diagnostics.ErrDuplicateDefinition, token.Token{},
			"module", mod.Path()))
		return nil, errs
	}
	log.WithFields(logrus.Fields{
		"path":   path,
		"module": mod.Path(),
	}).Debug("module registered")
	return &Unit{Module: mod, File: file}, errs
}

// modulePath derives module path segments from a file path under the root.
func (l *Loader) modulePath(path string) []string {
	rel, err := filepath.Rel(l.Root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	rel = config.TrimSourceExt(rel)
	parts := strings.Split(filepath.ToSlash(rel), "/")
	var segments []string
	for _, part := range parts {
		if part != "" && part != "." {
			segments = append(segments, part)
		}
	}
	return segments
}
