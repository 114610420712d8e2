package parser

import (
	"testing"

	"github.com/funvibe/schemalang/internal/ast"
	"github.com/funvibe/schemalang/internal/lexer"
)

func parseModule(t *testing.T, input string) *ast.Module {
	t.Helper()
	p := New(lexer.New(input).Tokens())
	module := p.ParseModule()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	return module
}

func parseOneItem(t *testing.T, input string) ast.Item {
	t.Helper()
	module := parseModule(t, input)
	if len(module.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(module.Items))
	}
	return module.Items[0].Value
}

func TestParseStructItem(t *testing.T) {
	item := parseOneItem(t, `struct Point { x: i32, y: i32 }`)
	structItem, ok := item.(*ast.StructItem)
	if !ok {
		t.Fatalf("expected StructItem, got %T", item)
	}
	if structItem.Name.Value != "Point" {
		t.Errorf("wrong name: %s", structItem.Name.Value)
	}
	body, ok := structItem.Body.(*ast.StructType)
	if !ok {
		t.Fatalf("expected StructType body, got %T", structItem.Body)
	}
	if len(body.Fields) != 2 || body.Fields[0].Name.Value != "x" || body.Fields[1].Name.Value != "y" {
		t.Errorf("wrong fields: %+v", body.Fields)
	}
}

func TestParseTableWithAttributes(t *testing.T) {
	item := parseOneItem(t, `
		table users {
			#[primary_key]
			id: i64,
			name: varchar(255),
		}
	`)
	table, ok := item.(*ast.TableItem)
	if !ok {
		t.Fatalf("expected TableItem, got %T", item)
	}
	if len(table.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(table.Fields))
	}
	if ast.FindAttribute(table.Fields[0].Attributes, "primary_key") == nil {
		t.Error("id should carry primary_key")
	}
	varcharType, ok := table.Fields[1].Type.(*ast.PrimitiveType)
	if !ok || varcharType.Name != "varchar" || len(varcharType.Args) != 1 || varcharType.Args[0] != 255 {
		t.Errorf("wrong varchar type: %+v", table.Fields[1].Type)
	}
}

func TestParseUseForms(t *testing.T) {
	tests := []struct {
		input    string
		tail     ast.UseTail
		segments int
		name     string
	}{
		{"use a::b::c", ast.UseTailNone, 3, "c"},
		{"use a::b::*", ast.UseTailAsterisk, 2, "b"},
		{"use a::b::c as d", ast.UseTailAlias, 3, "d"},
	}
	for _, tt := range tests {
		item := parseOneItem(t, tt.input)
		use, ok := item.(*ast.UseItem)
		if !ok {
			t.Fatalf("%s: expected UseItem, got %T", tt.input, item)
		}
		if use.Tail != tt.tail {
			t.Errorf("%s: wrong tail %v", tt.input, use.Tail)
		}
		if len(use.Path.Segments) != tt.segments {
			t.Errorf("%s: wrong path %v", tt.input, use.Path.Segments)
		}
		if use.ItemName() != tt.name {
			t.Errorf("%s: binds %q, want %q", tt.input, use.ItemName(), tt.name)
		}
	}
}

func TestParseFnShapes(t *testing.T) {
	item := parseOneItem(t, `fn add(a: i32, b: i32) -> i32 { return a + b }`)
	fn := item.(*ast.FnItem)
	if len(fn.Params) != 2 || fn.Result == nil || fn.External {
		t.Fatalf("wrong fn shape: %+v", fn)
	}

	item = parseOneItem(t, `#[is_lite_weight] fn host_rand() -> f64 external`)
	module := parseModule(t, `#[is_lite_weight] fn host_rand() -> f64 external`)
	fn = item.(*ast.FnItem)
	if !fn.External || fn.Body != nil {
		t.Error("expected external fn without body")
	}
	if ast.FindAttribute(module.Items[0].Attributes, "is_lite_weight") == nil {
		t.Error("attribute lost")
	}
}

func TestParseStatements(t *testing.T) {
	module := parseModule(t, `
		fn f(n: i32) -> i32 {
			let acc: i32 = 0;
			let untyped;
			acc = acc + 1;
			if n > 0 { acc = 1 } else { acc = 2 }
			loop { break }
			while n > 0 { continue }
			do { acc = 3 } while n < 0
			return acc
		}
	`)
	fn := module.Items[0].Value.(*ast.FnItem)
	block := fn.Body.(*ast.BlockStatement)
	kinds := []string{}
	for _, stmt := range block.Statements {
		switch stmt.(type) {
		case *ast.LetStatement:
			kinds = append(kinds, "let")
		case *ast.AssignStatement:
			kinds = append(kinds, "assign")
		case *ast.IfStatement:
			kinds = append(kinds, "if")
		case *ast.CycleStatement:
			kinds = append(kinds, "cycle")
		case *ast.ReturnStatement:
			kinds = append(kinds, "return")
		default:
			kinds = append(kinds, "other")
		}
	}
	want := []string{"let", "let", "assign", "if", "cycle", "cycle", "cycle", "return"}
	if len(kinds) != len(want) {
		t.Fatalf("statement kinds %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("statement kinds %v, want %v", kinds, want)
		}
	}
}

func TestParsePrecedence(t *testing.T) {
	module := parseModule(t, `fn f(a: i32, b: i32, c: i32) -> boolean {
		return a + b * c == a and not (b < c)
	}`)
	fn := module.Items[0].Value.(*ast.FnItem)
	ret := fn.Body.(*ast.BlockStatement).Statements[0].(*ast.ReturnStatement)
	// Top node must be `and`.
	and, ok := ret.Value.(*ast.InfixExpression)
	if !ok || and.Operator != "and" {
		t.Fatalf("expected top-level and, got %+v", ret.Value)
	}
	eq, ok := and.Left.(*ast.InfixExpression)
	if !ok || eq.Operator != "==" {
		t.Fatalf("expected == under and, got %+v", and.Left)
	}
	sum, ok := eq.Left.(*ast.InfixExpression)
	if !ok || sum.Operator != "+" {
		t.Fatalf("expected + under ==, got %+v", eq.Left)
	}
	product, ok := sum.Right.(*ast.InfixExpression)
	if !ok || product.Operator != "*" {
		t.Fatalf("expected * under +, got %+v", sum.Right)
	}
}

func TestParsePropertyAssignmentVersusComparison(t *testing.T) {
	module := parseModule(t, `
		fn f(p: {x: i32}) -> boolean {
			p.x = 1;
			return p.x == 1
		}
	`)
	fn := module.Items[0].Value.(*ast.FnItem)
	statements := fn.Body.(*ast.BlockStatement).Statements
	if _, ok := statements[0].(*ast.AssignStatement); !ok {
		t.Errorf("expected assignment, got %T", statements[0])
	}
	ret := statements[1].(*ast.ReturnStatement)
	if _, ok := ret.Value.(*ast.InfixExpression); !ok {
		t.Errorf("expected comparison expression, got %T", ret.Value)
	}
}

func TestParseSelect(t *testing.T) {
	module := parseModule(t, `
		fn f() -> [{id: i64}] {
			return select distinct u.id as id
				from users u left outer join orders o on u.id == o.user_id
				where u.age >= 18
				group by u.id
				having u.id > 0
				order by u.id desc
				limit 10 offset 5
		}
	`)
	fn := module.Items[0].Value.(*ast.FnItem)
	ret := fn.Body.(*ast.BlockStatement).Statements[0].(*ast.ReturnStatement)
	query, ok := ret.Value.(*ast.SelectQuery)
	if !ok {
		t.Fatalf("expected select query, got %T", ret.Value)
	}
	if !query.Distinct || query.All {
		t.Error("distinct flag lost")
	}
	if len(query.Items) != 1 || query.Items[0].Alias.Value != "id" {
		t.Errorf("wrong items: %+v", query.Items)
	}
	join, ok := query.From.(*ast.JoinSource)
	if !ok || join.Type != ast.JoinLeft || join.Condition == nil || join.Condition.Expr == nil {
		t.Fatalf("wrong join: %+v", query.From)
	}
	if query.Where == nil || query.Having == nil {
		t.Error("where/having lost")
	}
	if len(query.GroupBy) != 1 || len(query.OrderBy) != 1 || query.OrderBy[0].Order != ast.SortDesc {
		t.Error("group/order lost")
	}
	if query.Limit == nil || query.Limit.Count != 10 || query.Limit.Offset == nil || *query.Limit.Offset != 5 {
		t.Errorf("wrong limit: %+v", query.Limit)
	}
}

func TestParseInsertForms(t *testing.T) {
	module := parseModule(t, `
		fn f() {
			insert into users (id, age) values (1, 2), (3, 4);
			insert into users set id = 5, age = default;
			insert into users (id) select o.user_id from orders o
		}
	`)
	fn := module.Items[0].Value.(*ast.FnItem)
	statements := fn.Body.(*ast.BlockStatement).Statements
	if len(statements) != 3 {
		t.Fatalf("expected 3 inserts, got %d", len(statements))
	}
	first := statements[0].(*ast.InsertStatement)
	if len(first.Source.ValueLists) != 2 || len(first.Source.Columns) != 2 {
		t.Errorf("wrong value-list insert: %+v", first.Source)
	}
	second := statements[1].(*ast.InsertStatement)
	if len(second.Source.Assignments) != 2 {
		t.Fatalf("wrong set insert: %+v", second.Source)
	}
	if second.Source.Assignments[1].Value != nil {
		t.Error("default assignment should have nil value")
	}
	third := statements[2].(*ast.InsertStatement)
	if third.Source.Query == nil {
		t.Error("select insert lost its query")
	}
}

func TestParseErrorRecovery(t *testing.T) {
	p := New(lexer.New(`
		struct Broken {
		fn ok() -> i32 { return 1 }
	`).Tokens())
	module := p.ParseModule()
	if len(p.Errors()) == 0 {
		t.Fatal("expected parse errors")
	}
	// The parser must still pick up the following item.
	found := false
	for _, item := range module.Items {
		if fn, ok := item.Value.(*ast.FnItem); ok && fn.Name.Value == "ok" {
			found = true
		}
	}
	if !found {
		t.Error("parser did not recover to the next item")
	}
}
