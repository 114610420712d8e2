package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/schemalang/internal/diagnostics"
	"github.com/funvibe/schemalang/internal/lexer"
	"github.com/funvibe/schemalang/internal/parser"
	"github.com/funvibe/schemalang/internal/semantics"
	"github.com/funvibe/schemalang/internal/typesystem"
)

// resolveSources parses and resolves a set of modules keyed by `::` path.
func resolveSources(t *testing.T, sources map[string]string) (*semantics.Registry, diagnostics.List) {
	t.Helper()
	registry := semantics.NewRegistry()
	a := New(registry)

	var errs diagnostics.List
	// Deterministic registration order: sorted by module path.
	var paths []string
	for path := range sources {
		paths = append(paths, path)
	}
	for i := range paths {
		for j := i + 1; j < len(paths); j++ {
			if paths[j] < paths[i] {
				paths[i], paths[j] = paths[j], paths[i]
			}
		}
	}
	for _, path := range paths {
		tokens := lexer.New(sources[path]).Tokens()
		p := parser.New(tokens)
		file := p.ParseModule()
		require.Empty(t, p.Errors(), "parse errors in %s", path)

		mod := semantics.NewModule(strings.Split(path, "::"), nil)
		require.True(t, registry.AddModule(mod))
		errs = append(errs, a.Register(mod, file)...)
	}
	errs = append(errs, a.Resolve()...)
	return registry, errs
}

func resolveOne(t *testing.T, source string) (*semantics.Registry, diagnostics.List) {
	return resolveSources(t, map[string]string{"main": source})
}

func mainFunction(t *testing.T, registry *semantics.Registry, name string) *semantics.FunctionDefinition {
	t.Helper()
	mod, ok := registry.Module("main")
	require.True(t, ok)
	item, ok := mod.FindItem(name)
	require.True(t, ok, "item %s not found", name)
	fn, ok := item.GetFunction()
	require.True(t, ok, "item %s is not a function", name)
	return fn
}

func TestResolveSimpleFunction(t *testing.T) {
	registry, errs := resolveOne(t, `
		fn id(x: i32) -> i32 {
			return x
		}
	`)
	require.Empty(t, errs)
	fn := mainFunction(t, registry, "id")
	assert.True(t, fn.IsLiteWeight)
	assert.Len(t, fn.Arguments, 1)
	assert.True(t, fn.Arguments[0].IsReadOnly())
	assert.True(t, fn.Arguments[0].IsArgument())
}

func TestNotAllBranchesReturn(t *testing.T) {
	// S3: `-> i32` with a body that returns only in one branch.
	_, errs := resolveOne(t, `
		fn f(p: boolean) -> i32 {
			if p {
				return 1
			}
		}
	`)
	require.NotEmpty(t, errs)
	assert.True(t, errs.HasKind(diagnostics.ErrNotAllBranchesReturn), "got: %v", errs)
}

func TestBothBranchesReturn(t *testing.T) {
	_, errs := resolveOne(t, `
		fn f(p: boolean) -> i32 {
			if p {
				return 1
			} else {
				return 2
			}
		}
	`)
	require.Empty(t, errs)
}

func TestUnreachableStatement(t *testing.T) {
	// S4: anything after a definite exit is unreachable.
	_, errs := resolveOne(t, `
		fn f() -> i32 {
			return 1;
			let x = 2
		}
	`)
	require.NotEmpty(t, errs)
	assert.True(t, errs.HasKind(diagnostics.ErrUnreachableStatement), "got: %v", errs)
}

func TestArrayResultRequiresLiteWeight(t *testing.T) {
	// S5: a side-effecting function cannot return an array.
	_, errs := resolveOne(t, `
		table users {
			id: i64,
			name: varchar(64),
		}

		fn bad() -> [{a: i32}] {
			delete from users;
			let out: [{a: i32}];
			return out
		}
	`)
	require.NotEmpty(t, errs)
	assert.True(t, errs.HasKind(diagnostics.ErrNotAllowedInside), "got: %v", errs)
}

func TestLiteWeightClosure(t *testing.T) {
	// Every statement is free of side effects, so the function is
	// lite-weight; inserting makes it a procedure.
	registry, errs := resolveOne(t, `
		table logs {
			id: i64,
			message: varchar(128),
		}

		fn pure(x: i32) -> i32 {
			let y = x + 1;
			return y
		}

		fn effectful(x: i64) {
			insert into logs (id, message) values (x, "hello")
		}

		fn caller(x: i64) {
			effectful(x)
		}
	`)
	require.Empty(t, errs)
	assert.True(t, mainFunction(t, registry, "pure").IsLiteWeight)
	assert.False(t, mainFunction(t, registry, "effectful").IsLiteWeight)
	// Calling a non-lite-weight function poisons the caller.
	assert.False(t, mainFunction(t, registry, "caller").IsLiteWeight)
}

func TestBreakOutsideCycle(t *testing.T) {
	_, errs := resolveOne(t, `
		fn f() {
			break
		}
	`)
	require.NotEmpty(t, errs)
	assert.True(t, errs.HasKind(diagnostics.ErrNotAllowedHere), "got: %v", errs)
}

func TestCycleLabelsNotSupported(t *testing.T) {
	_, errs := resolveOne(t, `
		fn f() {
			loop {
				break out
			}
		}
	`)
	require.NotEmpty(t, errs)
	assert.True(t, errs.HasKind(diagnostics.ErrNotSupportedYet), "got: %v", errs)
}

func TestFileScopedModulesNotSupported(t *testing.T) {
	_, errs := resolveOne(t, `
		mod nested {
			struct S { a: i32 }
		}
	`)
	require.NotEmpty(t, errs)
	assert.True(t, errs.HasKind(diagnostics.ErrNotSupportedYet), "got: %v", errs)
}

func TestReadOnlyArgument(t *testing.T) {
	_, errs := resolveOne(t, `
		fn f(x: i32) {
			x = 2
		}
	`)
	require.NotEmpty(t, errs)
	assert.True(t, errs.HasKind(diagnostics.ErrCannotModifyReadOnlyVariable), "got: %v", errs)
}

func TestTypeAdoptionOnFirstAssignment(t *testing.T) {
	registry, errs := resolveOne(t, `
		fn f() -> i32 {
			let x;
			x = 5;
			return x
		}
	`)
	require.Empty(t, errs)
	fn := mainFunction(t, registry, "f")
	variables := fn.Context.AllVariables()
	require.NotEmpty(t, variables)
	varType, ok := variables[0].DataType()
	require.True(t, ok)
	primitive, ok := typesystem.AsPrimitive(varType)
	require.True(t, ok)
	assert.Equal(t, typesystem.I32, primitive.Kind)
}

func TestAnnotationDefaultMismatch(t *testing.T) {
	_, errs := resolveOne(t, `
		fn f() {
			let x: boolean = 5
		}
	`)
	require.NotEmpty(t, errs)
	assert.True(t, errs.HasKind(diagnostics.ErrTypeMismatch), "got: %v", errs)
}

func TestConditionMustBeBoolean(t *testing.T) {
	_, errs := resolveOne(t, `
		fn f() {
			if 1 { }
		}
	`)
	require.NotEmpty(t, errs)
	assert.True(t, errs.HasKind(diagnostics.ErrTypeMismatch), "got: %v", errs)
}

func TestDuplicateItemAndField(t *testing.T) {
	_, errs := resolveOne(t, `
		struct S { a: i32 }
		struct S { b: i32 }
	`)
	require.NotEmpty(t, errs)
	assert.True(t, errs.HasKind(diagnostics.ErrDuplicateDefinition))

	_, errs = resolveOne(t, `
		table twice {
			a: i32,
			a: i64,
		}
	`)
	require.NotEmpty(t, errs)
	assert.True(t, errs.HasKind(diagnostics.ErrDuplicateDefinition))
}

func TestImportResolution(t *testing.T) {
	registry, errs := resolveSources(t, map[string]string{
		"core::types": `
			pub struct Money { amount: decimal(18, 2), currency: varchar(3) }
		`,
		"main": `
			use core::types::Money;

			fn price(m: Money) -> decimal(18, 2) {
				return m.amount
			}
		`,
	})
	require.Empty(t, errs)
	fn := mainFunction(t, registry, "price")
	require.Len(t, fn.Arguments, 1)
	argType, ok := fn.Arguments[0].DataType()
	require.True(t, ok)
	structure, ok := typesystem.AsStructure(argType)
	require.True(t, ok)
	assert.Equal(t, []string{"amount", "currency"}, structure.Fields().Names())
}

func TestImportAlias(t *testing.T) {
	_, errs := resolveSources(t, map[string]string{
		"core::types": `
			pub struct Money { amount: decimal(18, 2) }
		`,
		"main": `
			use core::types::Money as Cash;

			fn f(m: Cash) -> decimal(18, 2) {
				return m.amount
			}
		`,
	})
	require.Empty(t, errs)
}

func TestAsteriskImportInjectsModule(t *testing.T) {
	_, errs := resolveSources(t, map[string]string{
		"core::types": `
			pub struct Money { amount: decimal(18, 2) }
			pub struct Pair { a: i32, b: i32 }
		`,
		"main": `
			use core::types::*;

			fn f(m: Money, p: Pair) -> i32 {
				return p.a
			}
		`,
	})
	require.Empty(t, errs)
}

func TestAsteriskImportOfNonModule(t *testing.T) {
	_, errs := resolveSources(t, map[string]string{
		"core::types": `
			pub struct Money { amount: decimal(18, 2) }
		`,
		"main": `
			use core::types::Money::*;
		`,
	})
	require.NotEmpty(t, errs)
	assert.True(t, errs.HasKind(diagnostics.ErrExpectedItemOfAnotherType), "got: %v", errs)
}

func TestUnresolvedImport(t *testing.T) {
	_, errs := resolveOne(t, `
		use nowhere::Missing;
	`)
	require.NotEmpty(t, errs)
	assert.True(t, errs.HasKind(diagnostics.ErrUnresolvedItem), "got: %v", errs)
}

func TestImportChainsResolveAtFixedPoint(t *testing.T) {
	// b imports from a through an import item of its own; resolution order
	// must not matter.
	_, errs := resolveSources(t, map[string]string{
		"a": `
			pub struct S { v: i32 }
		`,
		"b": `
			use a::S;
			pub struct W { wrapped: S }
		`,
		"main": `
			use b::W;

			fn f(w: W) -> i32 {
				return w.wrapped.v
			}
		`,
	})
	require.Empty(t, errs)
}

func TestTablePrimaryKeyType(t *testing.T) {
	registry, errs := resolveOne(t, `
		table users {
			#[primary_key]
			id: i64,
			name: varchar(64),
		}
	`)
	require.Empty(t, errs)
	mod, _ := registry.Module("main")
	item, ok := mod.FindItem("users")
	require.True(t, ok)
	table, ok := item.GetTable()
	require.True(t, ok)

	entity, ok := typesystem.AsStructure(table.EntityType())
	require.True(t, ok)
	assert.Equal(t, []string{"id", "name"}, entity.Fields().Names())

	pk, ok := typesystem.AsStructure(table.PrimaryKeyType())
	require.True(t, ok)
	assert.Equal(t, []string{"id"}, pk.Fields().Names())

	// Memoized: same value on every call.
	assert.Equal(t, typesystem.Hash(table.EntityType()), typesystem.Hash(table.EntityType()))
}

func TestExternalFunctionLiteWeightAttribute(t *testing.T) {
	registry, errs := resolveOne(t, `
		#[is_lite_weight]
		fn ext(x: i32) -> i32 external

		fn plain() external
	`)
	require.Empty(t, errs)
	assert.True(t, mainFunction(t, registry, "ext").IsLiteWeight)
	assert.False(t, mainFunction(t, registry, "plain").IsLiteWeight)
}

func TestSelectResultType(t *testing.T) {
	registry, errs := resolveOne(t, `
		table users {
			id: i64,
			age: i32,
		}

		fn adults() -> [{id: i64, age: i32}] {
			return select u.id, u.age from users u where u.age >= 18
		}
	`)
	require.Empty(t, errs)
	fn := mainFunction(t, registry, "adults")
	assert.True(t, fn.IsLiteWeight)
}

func TestSelectUnknownColumn(t *testing.T) {
	_, errs := resolveOne(t, `
		table users { id: i64 }

		fn f() -> [{id: i64}] {
			return select u.missing from users u
		}
	`)
	require.NotEmpty(t, errs)
	assert.True(t, errs.HasKind(diagnostics.ErrUnknownProperty), "got: %v", errs)
}

func TestCallArgumentChecking(t *testing.T) {
	_, errs := resolveOne(t, `
		fn callee(x: i32) -> i32 {
			return x
		}

		fn caller() -> i32 {
			return callee(true)
		}
	`)
	require.NotEmpty(t, errs)
	assert.True(t, errs.HasKind(diagnostics.ErrTypeMismatch), "got: %v", errs)

	_, errs = resolveOne(t, `
		fn callee(x: i32) -> i32 {
			return x
		}

		fn caller() -> i32 {
			return callee(1, 2)
		}
	`)
	require.NotEmpty(t, errs)
	assert.True(t, errs.HasKind(diagnostics.ErrArgumentCount), "got: %v", errs)
}

func TestVariablePropertyAssignment(t *testing.T) {
	_, errs := resolveOne(t, `
		struct Point { x: i32, y: i32 }

		fn f(p: Point) -> i32 {
			let q: Point = p;
			q.x = 5;
			return q.x
		}
	`)
	require.Empty(t, errs)
}
