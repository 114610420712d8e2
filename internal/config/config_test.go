package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenManifestMissing(t *testing.T) {
	dir := t.TempDir()
	project, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if project.Source != "src" || project.Output != "out.sql" || project.Schema != "dbo" {
		t.Errorf("wrong defaults: %+v", project)
	}
	if project.IndentSize != 4 {
		t.Errorf("wrong indent default: %d", project.IndentSize)
	}
	if project.SourceDir() != filepath.Join(dir, "src") {
		t.Errorf("wrong source dir: %s", project.SourceDir())
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	manifest := "source: schemas\noutput: build/db.sql\nschema: sales\nindent_size: 2\ncache: .slcache.db\n"
	if err := os.WriteFile(filepath.Join(dir, ManifestFileName), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}
	project, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if project.Source != "schemas" || project.Schema != "sales" || project.IndentSize != 2 {
		t.Errorf("manifest not honored: %+v", project)
	}
	if project.OutputPath() != filepath.Join(dir, "build/db.sql") {
		t.Errorf("wrong output path: %s", project.OutputPath())
	}
	if project.CachePath != ".slcache.db" {
		t.Errorf("wrong cache path: %s", project.CachePath)
	}
}

func TestSourceExtHelpers(t *testing.T) {
	if !HasSourceExt("a/b.sl") || !HasSourceExt("x.schemalang") || HasSourceExt("x.sql") {
		t.Error("extension detection broken")
	}
	if TrimSourceExt("core/types.sl") != "core/types" {
		t.Error("trim broken")
	}
	if TrimSourceExt("readme.md") != "readme.md" {
		t.Error("trim should leave foreign extensions alone")
	}
}
