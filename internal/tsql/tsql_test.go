package tsql_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/schemalang/internal/analyzer"
	"github.com/funvibe/schemalang/internal/lexer"
	"github.com/funvibe/schemalang/internal/parser"
	"github.com/funvibe/schemalang/internal/semantics"
	"github.com/funvibe/schemalang/internal/tsql"
)

// emit compiles one root module and renders the script.
func emit(t *testing.T, source string) string {
	t.Helper()
	registry := semantics.NewRegistry()
	a := analyzer.New(registry)

	tokens := lexer.New(source).Tokens()
	p := parser.New(tokens)
	file := p.ParseModule()
	require.Empty(t, p.Errors())

	mod := semantics.NewModule(nil, nil)
	require.True(t, registry.AddModule(mod))
	require.Empty(t, a.Register(mod, file))
	require.Empty(t, a.Resolve())

	generator := tsql.NewGenerator(tsql.Parameters{Schema: "dbo", IndentSize: 4})
	script, err := generator.EmitScript(registry)
	require.NoError(t, err)
	return script
}

func TestEmitLiteWeightScalarFunction(t *testing.T) {
	// S6: a lite-weight scalar function becomes a FUNCTION with RETURNS and
	// the trailing RETURN 0 sentinel.
	script := emit(t, `
		fn id(x: i32) -> i32 {
			return x
		}
	`)
	assert.Contains(t, script, "CREATE OR ALTER FUNCTION dbo.[id]")
	assert.Contains(t, script, "@x int")
	assert.Contains(t, script, ") RETURNS int")
	assert.Contains(t, script, "AS BEGIN")
	assert.Contains(t, script, "RETURN @x;")
	assert.Contains(t, script, "RETURN 0;")
	assert.Contains(t, script, "END")
	assert.NotContains(t, script, "PROCEDURE")
}

func TestEmitProcedure(t *testing.T) {
	// S6: the side-effecting variant becomes a PROCEDURE with an OUTPUT
	// result slot.
	script := emit(t, `
		table logs { id: i64 }

		fn id(x: i32) -> i32 {
			insert into logs (id) values (1);
			return x
		}
	`)
	assert.Contains(t, script, "CREATE OR ALTER PROCEDURE dbo.[id]")
	assert.Contains(t, script, "@x int,")
	assert.Contains(t, script, "@return_value int OUTPUT")
	assert.Contains(t, script, "SET @return_value = @x;")
	assert.Contains(t, script, "RETURN;")
	assert.NotContains(t, script, "CREATE OR ALTER FUNCTION")
}

func TestEmitStructuredArgumentFlattening(t *testing.T) {
	script := emit(t, `
		struct Point { x: i32, y: i32 }

		fn dist(p: Point) -> i32 {
			return p.x + p.y
		}
	`)
	assert.Contains(t, script, "@p#x int")
	assert.Contains(t, script, "@p#y int")
	assert.Contains(t, script, "RETURN (@p#x + @p#y);")
}

func TestEmitLocalDeclarations(t *testing.T) {
	script := emit(t, `
		struct Point { x: i32, y: i32 }

		fn f() -> i32 {
			let p: Point;
			p.x = 1;
			let total = 2;
			return total
		}
	`)
	assert.Contains(t, script, "DECLARE @p#x int;")
	assert.Contains(t, script, "DECLARE @p#y int;")
	assert.Contains(t, script, "DECLARE @total int;")
	assert.Contains(t, script, "SET @p#x = 1;")
}

func TestEmitArrayVariableAsTable(t *testing.T) {
	script := emit(t, `
		fn f() -> [{a: i32}] {
			let rows: [{a: i32}];
			return rows
		}
	`)
	assert.Contains(t, script, "DECLARE @rows TABLE (")
	assert.Contains(t, script, "[a] int")
	assert.Contains(t, script, "RETURNS @return_value TABLE (")
	assert.Contains(t, script, "INSERT INTO @return_value SELECT * FROM @rows;")
}

func TestEmitWhileLoop(t *testing.T) {
	script := emit(t, `
		fn sum(n: i32) -> i32 {
			let acc = 0;
			let i = 0;
			while i < n {
				acc = acc + i;
				i = i + 1
			}
			return acc
		}
	`)
	assert.Contains(t, script, "WHILE (@i < @n)")
	assert.Contains(t, script, "SET @acc = (@acc + @i);")
	assert.Contains(t, script, "BEGIN")
	assert.Contains(t, script, "END")
}

func TestEmitDoWhileLoop(t *testing.T) {
	script := emit(t, `
		fn f(n: i32) -> i32 {
			let i = 0;
			do {
				i = i + 1
			} while i < n
			return i
		}
	`)
	assert.Contains(t, script, "WHILE 1 = 1")
	assert.Contains(t, script, "IF NOT (@i < @n) BREAK;")
}

func TestEmitConditional(t *testing.T) {
	script := emit(t, `
		fn f(p: boolean) -> i32 {
			if p {
				return 1
			} else {
				return 2
			}
		}
	`)
	assert.Contains(t, script, "IF @p")
	assert.Contains(t, script, "ELSE")
	assert.Contains(t, script, "RETURN 1;")
	assert.Contains(t, script, "RETURN 2;")
}

func TestEmitSelectQuery(t *testing.T) {
	script := emit(t, `
		table users {
			id: i64,
			age: i32,
		}

		fn adults() -> [{id: i64}] {
			return select u.id from users u where u.age >= 18 order by u.id
		}
	`)
	assert.Contains(t, script, "SELECT [u].[id] AS [id]")
	assert.Contains(t, script, "FROM dbo.[users] AS [u]")
	assert.Contains(t, script, "WHERE ([u].[age] >= 18)")
	assert.Contains(t, script, "ORDER BY [u].[id] ASC")
	assert.Contains(t, script, "INSERT INTO @return_value")
}

func TestEmitJoin(t *testing.T) {
	script := emit(t, `
		table users { id: i64 }
		table orders { id: i64, user_id: i64 }

		fn f() -> [{order_id: i64}] {
			return select o.id as order_id
				from users u left join orders o on u.id == o.user_id
		}
	`)
	assert.Contains(t, script, "dbo.[users] AS [u] LEFT JOIN dbo.[orders] AS [o] ON ([u].[id] = [o].[user_id])")
}

func TestEmitInsertUpdateDelete(t *testing.T) {
	script := emit(t, `
		table users {
			id: i64,
			age: i32,
		}

		fn touch() {
			insert into users (id, age) values (1, 20), (2, 30);
			update users u set age = 21 where u.id == 1;
			delete from users u where u.age > 90
		}
	`)
	assert.Contains(t, script, "CREATE OR ALTER PROCEDURE dbo.[touch]")
	assert.Contains(t, script, "INSERT INTO dbo.[users] ([id], [age])")
	assert.Contains(t, script, "(1, 20),")
	assert.Contains(t, script, "(2, 30);")
	assert.Contains(t, script, "UPDATE [u]")
	assert.Contains(t, script, "SET [age] = 21")
	assert.Contains(t, script, "DELETE [u]")
	assert.Contains(t, script, "WHERE ([u].[age] > 90)")
	// Void procedure sets the sentinel.
	assert.Contains(t, script, "SET @return_value = 0;")
}

func TestEmitPreCallLifting(t *testing.T) {
	// A structured result cannot appear inline: the call is lifted into a
	// pre-calculated temporary filled from the table-valued function.
	script := emit(t, `
		struct Point { x: i32, y: i32 }

		fn make(x: i32) -> Point {
			let p: Point;
			p.x = x;
			p.y = x;
			return p
		}

		fn use_it(a: i32) -> i32 {
			let p: Point = make(a);
			return p.x
		}
	`)
	assert.Contains(t, script, "DECLARE @t#x int;")
	assert.Contains(t, script, "DECLARE @t#y int;")
	assert.Contains(t, script, "SELECT @t#x = [x], @t#y = [y] FROM dbo.[make](@a);")
	assert.Contains(t, script, "SET @p#x = @t#x;")
	assert.Contains(t, script, "SET @p#y = @t#y;")
}

func TestEmitProcedureCallLifting(t *testing.T) {
	script := emit(t, `
		table logs { id: i64 }

		fn note(id: i64) -> i64 {
			insert into logs (id) values (id);
			return id
		}

		fn caller(x: i64) -> i64 {
			let v = note(x);
			return v
		}
	`)
	// The callee is a procedure, so the caller must also be one, and the
	// call travels through EXEC with an OUTPUT temporary.
	assert.Contains(t, script, "CREATE OR ALTER PROCEDURE dbo.[caller]")
	assert.Contains(t, script, "DECLARE @t bigint;")
	assert.Contains(t, script, "EXEC dbo.[note] @x, @t OUTPUT;")
	assert.Contains(t, script, "SET @v = @t;")
}

func TestEmitModulePathInObjectNames(t *testing.T) {
	registry := semantics.NewRegistry()
	a := analyzer.New(registry)

	tokens := lexer.New("fn f() -> i32 { return 1 }").Tokens()
	p := parser.New(tokens)
	file := p.ParseModule()
	require.Empty(t, p.Errors())

	mod := semantics.NewModule([]string{"geo", "shapes"}, nil)
	require.True(t, registry.AddModule(mod))
	require.Empty(t, a.Register(mod, file))
	require.Empty(t, a.Resolve())

	generator := tsql.NewGenerator(tsql.Parameters{Schema: "dbo", IndentSize: 4})
	script, err := generator.EmitScript(registry)
	require.NoError(t, err)
	assert.Contains(t, script, "CREATE OR ALTER FUNCTION dbo.[geo::shapes::f]")
}

func TestEmitUnitsSeparatedByGo(t *testing.T) {
	script := emit(t, `
		fn a() -> i32 { return 1 }
		fn b() -> i32 { return 2 }
	`)
	require.Equal(t, 1, strings.Count(script, "GO\n"))
	assert.Less(t, strings.Index(script, "dbo.[a]"), strings.Index(script, "dbo.[b]"))
}

func TestEmitParameterNameCollision(t *testing.T) {
	// The function's own result slot name must dodge a parameter that
	// already claimed it.
	script := emit(t, `
		table logs { id: i64 }

		fn f(return_value: i32) {
			insert into logs (id) values (1)
		}
	`)
	assert.Contains(t, script, "@return_value int,")
	assert.Contains(t, script, "@return_value_0 bit OUTPUT")
}
