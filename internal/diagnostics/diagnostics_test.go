package diagnostics

import (
	"strings"
	"testing"

	"github.com/funvibe/schemalang/internal/token"
)

func TestDiagnosticFormatting(t *testing.T) {
	tok := token.Token{Line: 3, Column: 7}
	d := New(ErrTypeMismatch, tok, "i64", "boolean")
	d.File = "src/main.sl"

	msg := d.Error()
	if !strings.Contains(msg, "src/main.sl:3:7") {
		t.Errorf("missing position: %s", msg)
	}
	if !strings.Contains(msg, "cannot cast i64 to boolean") {
		t.Errorf("missing message: %s", msg)
	}
	if !d.Is(ErrTypeMismatch) || d.Is(ErrUnreachableStatement) {
		t.Error("kind matching broken")
	}
}

func TestListAccumulation(t *testing.T) {
	var list List
	list.Append(New(ErrUnreachableStatement, token.Token{}))
	list.Append(
		New(ErrNotAllBranchesReturn, token.Token{}),
		New(ErrDuplicateDefinition, token.Token{}, "field", "x"),
	)
	if len(list) != 3 {
		t.Fatalf("expected 3, got %d", len(list))
	}
	if !list.HasKind(ErrNotAllBranchesReturn) || list.HasKind(ErrTypeMismatch) {
		t.Error("HasKind broken")
	}
	if list.Err() == nil {
		t.Error("non-empty list should produce an error")
	}
	var empty List
	if empty.Err() != nil {
		t.Error("empty list should produce nil")
	}
}

func TestSetFileFillsOnlyMissing(t *testing.T) {
	withFile := New(ErrUnreachableStatement, token.Token{})
	withFile.File = "a.sl"
	without := New(ErrUnreachableStatement, token.Token{})
	list := List{withFile, without}
	list.SetFile("b.sl")
	if withFile.File != "a.sl" || without.File != "b.sl" {
		t.Errorf("SetFile misbehaved: %q %q", withFile.File, without.File)
	}
}
