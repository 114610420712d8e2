package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func TestPutGetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(filepath.Join(dir, "build.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	runID := uuid.NewString()
	if err := c.Put("digest-1", "CREATE OR ALTER FUNCTION dbo.[f] ...", runID); err != nil {
		t.Fatal(err)
	}

	script, ok, err := c.Get("digest-1")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || script == "" {
		t.Fatal("expected cache hit")
	}

	if _, ok, err := c.Get("digest-2"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	// Replacement under the same digest keeps the latest script.
	if err := c.Put("digest-1", "updated", uuid.NewString()); err != nil {
		t.Fatal(err)
	}
	script, ok, _ = c.Get("digest-1")
	if !ok || script != "updated" {
		t.Errorf("replace failed: %q", script)
	}
}

func TestProjectDigestStability(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.sl")
	if err := os.WriteFile(path, []byte("fn f() -> i32 { return 1 }"), 0o644); err != nil {
		t.Fatal(err)
	}
	isSource := func(p string) bool { return filepath.Ext(p) == ".sl" }

	first, err := ProjectDigest(dir, isSource)
	if err != nil {
		t.Fatal(err)
	}
	second, err := ProjectDigest(dir, isSource)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("digest should be reproducible")
	}

	if err := os.WriteFile(path, []byte("fn f() -> i32 { return 2 }"), 0o644); err != nil {
		t.Fatal(err)
	}
	changed, err := ProjectDigest(dir, isSource)
	if err != nil {
		t.Fatal(err)
	}
	if changed == first {
		t.Error("digest should track content changes")
	}
}
