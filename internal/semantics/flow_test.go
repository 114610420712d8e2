package semantics

import (
	"testing"

	"github.com/funvibe/schemalang/internal/diagnostics"
	"github.com/funvibe/schemalang/internal/typesystem"
)

var i32Type = &typesystem.Primitive{Kind: typesystem.I32}

func intLiteral(raw string) *Expression {
	return &Expression{
		Type: i32Type,
		Body: &LiteralExpr{Kind: LiteralInteger, Raw: raw},
	}
}

func boolLiteral(value bool) *Expression {
	raw := "false"
	if value {
		raw = "true"
	}
	return &Expression{
		Type: typesystem.BooleanType,
		Body: &LiteralExpr{Kind: LiteralBoolean, Raw: raw},
	}
}

func returnStmt(value *Expression) *Statement {
	if value == nil {
		return &Statement{Body: &ReturnStmt{}}
	}
	return &Statement{Body: &ReturnStmt{Value: &StatementSource{Expr: value}}}
}

func block(statements ...*Statement) *Statement {
	return &Statement{Body: &BlockStmt{Statements: statements}}
}

func nothing() *Statement {
	return &Statement{Body: &NothingStmt{}}
}

func TestJumpingSum(t *testing.T) {
	tests := []struct {
		a, b, want Jumping
	}{
		{AlwaysReturns, AlwaysReturns, AlwaysReturns},
		{AlwaysBreaks, AlwaysBreaks, AlwaysBreaks},
		{AlwaysContinues, AlwaysContinues, AlwaysContinues},
		{AlwaysReturns, Nothing, Nothing},
		{AlwaysReturns, AlwaysBreaks, Nothing},
		{Nothing, Nothing, Nothing},
	}
	for _, tt := range tests {
		if got := tt.a.Sum(tt.b); got != tt.want {
			t.Errorf("%v + %v = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestReturnClassification(t *testing.T) {
	jumping, errs := returnStmt(intLiteral("1")).JumpingCheck(NewFlowPosition(), i32Type)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if jumping != AlwaysReturns {
		t.Errorf("got %v, want AlwaysReturns", jumping)
	}
}

func TestReturnTypeMismatch(t *testing.T) {
	_, errs := returnStmt(boolLiteral(true)).JumpingCheck(NewFlowPosition(), i32Type)
	if len(errs) == 0 || !errs.HasKind(diagnostics.ErrTypeMismatch) {
		t.Fatalf("expected type mismatch, got %v", errs)
	}
}

func TestConditionSumsBranches(t *testing.T) {
	both := &Statement{Body: &ConditionStmt{
		Condition: boolLiteral(true),
		Then:      returnStmt(intLiteral("1")),
		Else:      returnStmt(intLiteral("2")),
	}}
	jumping, errs := both.JumpingCheck(NewFlowPosition(), i32Type)
	if len(errs) != 0 || jumping != AlwaysReturns {
		t.Errorf("both-return condition: got %v (%v)", jumping, errs)
	}

	oneSided := &Statement{Body: &ConditionStmt{
		Condition: boolLiteral(true),
		Then:      returnStmt(intLiteral("1")),
	}}
	jumping, errs = oneSided.JumpingCheck(NewFlowPosition(), i32Type)
	if len(errs) != 0 || jumping != Nothing {
		t.Errorf("one-sided condition: got %v (%v)", jumping, errs)
	}
}

func TestCycleSwallowsBreaks(t *testing.T) {
	cycle := &Statement{Body: &CycleStmt{
		Kind: CycleSimple,
		Body: &Statement{Body: &CycleControlStmt{Break: true}},
	}}
	jumping, errs := cycle.JumpingCheck(NewFlowPosition(), typesystem.Void)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if jumping != Nothing {
		t.Errorf("cycle classification leaked: %v", jumping)
	}
}

func TestBreakOutsideCycleRejected(t *testing.T) {
	stmt := &Statement{Body: &CycleControlStmt{Break: true}}
	_, errs := stmt.JumpingCheck(NewFlowPosition(), typesystem.Void)
	if len(errs) == 0 || !errs.HasKind(diagnostics.ErrNotAllowedHere) {
		t.Fatalf("expected NotAllowedHere, got %v", errs)
	}
}

func TestUnreachableAfterReturn(t *testing.T) {
	stmt := block(returnStmt(intLiteral("1")), nothing())
	_, errs := stmt.JumpingCheck(NewFlowPosition(), i32Type)
	if len(errs) == 0 || !errs.HasKind(diagnostics.ErrUnreachableStatement) {
		t.Fatalf("expected UnreachableStatement, got %v", errs)
	}
}

func TestFlowMonotonicity(t *testing.T) {
	// If a block classifies as AlwaysReturns, any block with it as a prefix
	// classifies the same way — via the unreachable error for the suffix or
	// the same classification when nothing follows.
	prefix := block(nothing(), returnStmt(intLiteral("1")))
	jumping, errs := prefix.JumpingCheck(NewFlowPosition(), i32Type)
	if len(errs) != 0 || jumping != AlwaysReturns {
		t.Fatalf("prefix: got %v (%v)", jumping, errs)
	}

	extended := block(prefix)
	extendedJumping, errs := extended.JumpingCheck(NewFlowPosition(), i32Type)
	if len(errs) != 0 || extendedJumping != AlwaysReturns {
		t.Fatalf("extended: got %v (%v)", extendedJumping, errs)
	}
}

func TestLiteWeightClosureProperty(t *testing.T) {
	// Every inner statement lite-weight => the whole body lite-weight.
	body := block(
		nothing(),
		&Statement{Body: &ExpressionStmt{Expression: intLiteral("1")}},
		returnStmt(intLiteral("2")),
	)
	if !body.IsLiteWeight() {
		t.Error("body of lite-weight statements should be lite-weight")
	}

	withInsert := block(nothing(), &Statement{Body: &InsertStmt{Request: &Inserting{}}})
	if withInsert.IsLiteWeight() {
		t.Error("insert poisons lite-weight")
	}
}
