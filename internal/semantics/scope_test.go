package semantics

import (
	"testing"

	"github.com/funvibe/schemalang/internal/diagnostics"
	"github.com/funvibe/schemalang/internal/token"
	"github.com/funvibe/schemalang/internal/typesystem"
)

func TestScopeVariableLookup(t *testing.T) {
	ctx := NewFunctionContext(nil)
	root := ctx.Root()

	outer, err := root.NewVariable(token.Token{}, "x", i32Type)
	if err != nil {
		t.Fatal(err)
	}
	child := root.Child()
	if _, err := child.NewVariable(token.Token{}, "y", i32Type); err != nil {
		t.Fatal(err)
	}

	if v, ok := child.AccessToVariable("x"); !ok || v != outer {
		t.Error("child scope should see outer variable")
	}
	if _, ok := root.AccessToVariable("y"); ok {
		t.Error("outer scope must not see child variable")
	}
	if _, ok := child.AccessToVariable("z"); ok {
		t.Error("unknown name should miss")
	}
}

func TestScopeDuplicateVariable(t *testing.T) {
	ctx := NewFunctionContext(nil)
	root := ctx.Root()
	if _, err := root.NewVariable(token.Token{}, "x", i32Type); err != nil {
		t.Fatal(err)
	}
	_, err := root.NewVariable(token.Token{}, "x", i32Type)
	if err == nil || !err.Is(diagnostics.ErrDuplicateDefinition) {
		t.Fatalf("expected duplicate definition, got %v", err)
	}
	// Shadowing in a child scope is fine.
	if _, err := root.Child().NewVariable(token.Token{}, "x", i32Type); err != nil {
		t.Errorf("shadowing should be allowed: %v", err)
	}
}

func TestAllVariablesOrder(t *testing.T) {
	ctx := NewFunctionContext(nil)
	root := ctx.Root()
	root.NewVariable(token.Token{}, "a", i32Type)
	child := root.Child()
	child.NewVariable(token.Token{}, "b", i32Type)
	root.NewVariable(token.Token{}, "c", i32Type)

	var names []string
	for _, v := range ctx.AllVariables() {
		names = append(names, v.Name())
	}
	// Pre-order: root's declarations first, then child scopes.
	want := []string{"a", "c", "b"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got %v, want %v", names, want)
		}
	}
}

func TestVariableTypeAdoption(t *testing.T) {
	ctx := NewFunctionContext(nil)
	v, _ := ctx.Root().NewVariable(token.Token{}, "x", nil)
	if _, ok := v.DataType(); ok {
		t.Error("fresh variable should have no type")
	}
	v.ReplaceDataType(i32Type)
	got, ok := v.DataType()
	if !ok || !typesystem.Equal(got, i32Type) {
		t.Error("adopted type lost")
	}
}

func TestVariableRenameSharedWithReferences(t *testing.T) {
	ctx := NewFunctionContext(nil)
	v, _ := ctx.Root().NewVariable(token.Token{}, "x", i32Type)
	expr := &VariableExpr{Var: v}
	v.SetName("x_0")
	if expr.Var.Name() != "x_0" {
		t.Error("emission rename must be visible through expression references")
	}
}

func TestVisitLockReentrantReads(t *testing.T) {
	var l visitLock
	l.RLock()
	l.RLock() // re-entrant read is the whole point
	l.RUnlock()
	l.RUnlock()
	l.Lock()
	l.Unlock()
}

func TestVisitLockWriteDuringReadPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("write during read should panic")
		}
	}()
	var l visitLock
	l.RLock()
	l.Lock()
}
