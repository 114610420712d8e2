package formatter

import (
	"strings"
	"testing"
)

func TestBlockFormatter(t *testing.T) {
	var out strings.Builder
	f := NewCodeFormatter(&out)
	f.IndentSize = 2
	block := f.RootBlock()

	block.WriteLine("class X {")
	sub := block.SubBlock()
	sub.WriteLine("function a () {")
	subSub := sub.SubBlock()
	subSub.WriteLinef("return %v;", true)
	sub.WriteLine("}")
	block.WriteLine("}")

	if err := f.Err(); err != nil {
		t.Fatal(err)
	}
	want := "class X {\n" +
		"  function a () {\n" +
		"    return true;\n" +
		"  }\n" +
		"}\n"
	if out.String() != want {
		t.Errorf("output mismatch:\ngot:\n%s\nwant:\n%s", out.String(), want)
	}
}

func TestSiblingBlocksShareTarget(t *testing.T) {
	var out strings.Builder
	f := NewCodeFormatter(&out)
	f.IndentSize = 4
	root := f.RootBlock()
	a := root.SubBlock()
	b := root.SubBlock()

	root.WriteLine("begin")
	a.WriteLine("from a")
	b.WriteLine("from b")
	root.WriteLine("end")

	want := "begin\n    from a\n    from b\nend\n"
	if out.String() != want {
		t.Errorf("output mismatch:\ngot:\n%q\nwant:\n%q", out.String(), want)
	}
}

func TestLineFormatterClosesOnEveryPath(t *testing.T) {
	var out strings.Builder
	f := NewCodeFormatter(&out)
	f.IndentSize = 2
	block := f.RootBlock().SubBlock()

	func() {
		line := block.Line()
		defer line.Close()
		line.Write("a, ")
		line.Writef("%d", 7)
	}()

	// Close is idempotent.
	line := block.Line()
	line.Write("x")
	line.Close()
	line.Close()

	want := "  a, 7\n  x\n"
	if out.String() != want {
		t.Errorf("output mismatch: got %q, want %q", out.String(), want)
	}
}

func TestSimpleFormatter(t *testing.T) {
	var out strings.Builder
	f := NewSimpleFormatter(&out, 4)
	f.WriteString("export interface Bla {\n")
	sub := f.SubBlock()
	sub.WriteString("Bla, bla, bla.\n")
	f.WriteString("}\n")

	want := "export interface Bla {\n    Bla, bla, bla.\n}\n"
	if out.String() != want {
		t.Errorf("output mismatch: got %q, want %q", out.String(), want)
	}
}

func TestSimpleFormatterSplitWrites(t *testing.T) {
	var out strings.Builder
	f := NewSimpleFormatter(&out, 2)
	sub := f.SubBlock()
	// Indentation must be injected once per line even when the line arrives
	// in several writes.
	sub.WriteString("ab")
	sub.WriteString("cd\nef")
	sub.WriteString("\n")

	want := "  abcd\n  ef\n"
	if out.String() != want {
		t.Errorf("output mismatch: got %q, want %q", out.String(), want)
	}
}
