package analyzer

import (
	"strings"

	"github.com/funvibe/schemalang/internal/ast"
	"github.com/funvibe/schemalang/internal/diagnostics"
	"github.com/funvibe/schemalang/internal/semantics"
	"github.com/funvibe/schemalang/internal/token"
	"github.com/funvibe/schemalang/internal/typesystem"
)

func joinPath(segments []string) string {
	return strings.Join(segments, ".")
}

// stmtContext carries everything expression and statement resolution needs:
// the lexical scope, the enclosing module, and — inside queries — the
// namespace of data-source aliases.
type stmtContext struct {
	scope *semantics.Scope
	mod   *semantics.Module
	query *queryNamespace
}

func (c stmtContext) withScope(scope *semantics.Scope) stmtContext {
	return stmtContext{scope: scope, mod: c.mod, query: c.query}
}

func (c stmtContext) withQuery(query *queryNamespace) stmtContext {
	return stmtContext{scope: c.scope, mod: c.mod, query: query}
}

// resolveSource resolves a statement source: an expression or a selection.
func (a *Analyzer) resolveSource(ctx stmtContext, src ast.Source) (*semantics.StatementSource, diagnostics.List) {
	if query, ok := src.(*ast.SelectQuery); ok {
		selection, errs := a.resolveSelect(ctx, query)
		if selection == nil {
			return nil, errs
		}
		return &semantics.StatementSource{Selection: selection}, errs
	}
	expr, errs := a.resolveExpression(ctx, src.(ast.Expression))
	if expr == nil {
		return nil, errs
	}
	return &semantics.StatementSource{Expr: expr}, errs
}

// resolveExpression resolves one expression. A nil result short-circuits the
// expression only: the surrounding statement keeps checking with the
// returned diagnostics attached.
func (a *Analyzer) resolveExpression(ctx stmtContext, e ast.Expression) (*semantics.Expression, diagnostics.List) {
	switch def := e.(type) {
	case *ast.IntegerLiteral:
		return &semantics.Expression{
			Type: &typesystem.Primitive{Kind: typesystem.I32},
			Pos:  def.GetToken(),
			Body: &semantics.LiteralExpr{Kind: semantics.LiteralInteger, Raw: def.Token.Lexeme},
		}, nil

	case *ast.FloatLiteral:
		return &semantics.Expression{
			Type: &typesystem.Primitive{Kind: typesystem.F64},
			Pos:  def.GetToken(),
			Body: &semantics.LiteralExpr{Kind: semantics.LiteralFloat, Raw: def.Token.Lexeme},
		}, nil

	case *ast.StringLiteral:
		return &semantics.Expression{
			Type: &typesystem.Primitive{Kind: typesystem.VarcharKind, Length: len(def.Value)},
			Pos:  def.GetToken(),
			Body: &semantics.LiteralExpr{Kind: semantics.LiteralString, Raw: def.Value},
		}, nil

	case *ast.BooleanLiteral:
		raw := "false"
		if def.Value {
			raw = "true"
		}
		return &semantics.Expression{
			Type: typesystem.BooleanType,
			Pos:  def.GetToken(),
			Body: &semantics.LiteralExpr{Kind: semantics.LiteralBoolean, Raw: raw},
		}, nil

	case *ast.Identifier:
		return a.resolveName(ctx, def.GetToken(), []string{def.Value})

	case *ast.PropertyExpression:
		return a.resolveName(ctx, def.GetToken(), def.Path.Segments)

	case *ast.PrefixExpression:
		return a.resolvePrefix(ctx, def)

	case *ast.InfixExpression:
		return a.resolveInfix(ctx, def)

	case *ast.CallExpression:
		return a.resolveCall(ctx, def)
	}
	return nil, diagnostics.List{diagnostics.New(
		diagnostics.ErrNotSupportedYet, e.GetToken(), "expression form")}
}

// resolveName resolves a bare or dotted name: a query-source column when the
// head matches an alias (or exactly one source column), else a variable with
// an optional property tail.
func (a *Analyzer) resolveName(ctx stmtContext, tok token.Token, segments []string) (*semantics.Expression, diagnostics.List) {
	head, tail := segments[0], segments[1:]

	if ctx.query != nil {
		if expr, ok, errs := ctx.query.resolveColumn(tok, head, tail); ok || len(errs) > 0 {
			return expr, errs
		}
	}

	variable, ok := ctx.scope.AccessToVariable(head)
	if !ok {
		return nil, diagnostics.List{diagnostics.New(
			diagnostics.ErrUndefinedVariable, tok, head)}
	}
	varType, ok := variable.DataType()
	if !ok {
		return nil, diagnostics.List{diagnostics.New(
			diagnostics.ErrNotAllowedHere, tok, "reference to a variable of undetermined type")}
	}
	exprType := varType
	if len(tail) > 0 {
		propType, ok := typesystem.PropertyType(varType, tail)
		if !ok {
			return nil, diagnostics.List{diagnostics.New(
				diagnostics.ErrUnknownProperty, tok, varType.String(), joinPath(tail))}
		}
		exprType = propType
	}
	return &semantics.Expression{
		Type: exprType,
		Pos:  tok,
		Body: &semantics.VariableExpr{Var: variable, Path: tail},
	}, nil
}

func (a *Analyzer) resolvePrefix(ctx stmtContext, def *ast.PrefixExpression) (*semantics.Expression, diagnostics.List) {
	inner, errs := a.resolveExpression(ctx, def.Right)
	if inner == nil {
		return nil, errs
	}
	switch def.Operator {
	case "not":
		if !typesystem.ShouldCastTo(inner.Type, typesystem.BooleanType) {
			errs.Append(diagnostics.New(
				diagnostics.ErrTypeMismatch, def.GetToken(), inner.Type.String(), "boolean"))
			return nil, errs
		}
		return &semantics.Expression{
			Type: typesystem.BooleanType,
			Pos:  def.GetToken(),
			Body: &semantics.PrefixExpr{Operator: "NOT", Inner: inner},
		}, errs
	case "-":
		if !isNumeric(inner.Type) {
			errs.Append(diagnostics.New(
				diagnostics.ErrTypeMismatch, def.GetToken(), inner.Type.String(), "numeric"))
			return nil, errs
		}
		return &semantics.Expression{
			Type: inner.Type,
			Pos:  def.GetToken(),
			Body: &semantics.PrefixExpr{Operator: "-", Inner: inner},
		}, errs
	}
	errs.Append(diagnostics.New(
		diagnostics.ErrNotSupportedYet, def.GetToken(), "prefix operator "+def.Operator))
	return nil, errs
}

func (a *Analyzer) resolveInfix(ctx stmtContext, def *ast.InfixExpression) (*semantics.Expression, diagnostics.List) {
	left, errs := a.resolveExpression(ctx, def.Left)
	right, rightErrs := a.resolveExpression(ctx, def.Right)
	errs = append(errs, rightErrs...)
	if left == nil || right == nil {
		return nil, errs
	}

	body := &semantics.BinaryExpr{Operator: def.Operator, Left: left, Right: right}
	switch def.Operator {
	case "+", "-", "*", "/", "%":
		resultType, ok := numericJoin(left.Type, right.Type)
		if !ok {
			errs.Append(diagnostics.New(
				diagnostics.ErrTypeMismatch, def.GetToken(), left.Type.String(), right.Type.String()))
			return nil, errs
		}
		return &semantics.Expression{Type: resultType, Pos: def.GetToken(), Body: body}, errs

	case "==", "!=", "<", ">", "<=", ">=":
		if !typesystem.ShouldCastTo(left.Type, right.Type) && !typesystem.ShouldCastTo(right.Type, left.Type) {
			errs.Append(diagnostics.New(
				diagnostics.ErrTypeMismatch, def.GetToken(), left.Type.String(), right.Type.String()))
			return nil, errs
		}
		return &semantics.Expression{Type: typesystem.BooleanType, Pos: def.GetToken(), Body: body}, errs

	case "and", "or":
		for _, side := range []*semantics.Expression{left, right} {
			if !typesystem.ShouldCastTo(side.Type, typesystem.BooleanType) {
				errs.Append(diagnostics.New(
					diagnostics.ErrTypeMismatch, side.Pos, side.Type.String(), "boolean"))
			}
		}
		if len(errs) > 0 {
			return nil, errs
		}
		return &semantics.Expression{Type: typesystem.BooleanType, Pos: def.GetToken(), Body: body}, errs
	}
	errs.Append(diagnostics.New(
		diagnostics.ErrNotSupportedYet, def.GetToken(), "operator "+def.Operator))
	return nil, errs
}

func (a *Analyzer) resolveCall(ctx stmtContext, def *ast.CallExpression) (*semantics.Expression, diagnostics.List) {
	item, ok := a.lookupPath(ctx.mod, def.Function.Segments)
	if !ok {
		return nil, a.deferOrReport(diagnostics.New(
			diagnostics.ErrUnresolvedItem, def.GetToken(), def.Function.String()))
	}
	fn, ok := item.GetFunction()
	if !ok {
		if !item.Final().Resolved() {
			return nil, a.deferOrReport(diagnostics.New(
				diagnostics.ErrUnresolvedItem, def.GetToken(), def.Function.String()))
		}
		return nil, diagnostics.List{diagnostics.New(
			diagnostics.ErrExpectedItemOfAnotherType,
			def.GetToken(),
			semantics.KindFunction.String(), item.Kind().String(),
		)}
	}

	var errs diagnostics.List
	if len(def.Arguments) != len(fn.Arguments) {
		errs.Append(diagnostics.New(
			diagnostics.ErrArgumentCount, def.GetToken(),
			fn.Name, len(fn.Arguments), len(def.Arguments)))
		return nil, errs
	}
	args := make([]*semantics.Expression, 0, len(def.Arguments))
	for i, argAST := range def.Arguments {
		arg, argErrs := a.resolveExpression(ctx, argAST)
		errs = append(errs, argErrs...)
		if arg == nil {
			continue
		}
		paramType, _ := fn.Arguments[i].DataType()
		if !typesystem.ShouldCastTo(arg.Type, paramType) {
			errs.Append(diagnostics.New(
				diagnostics.ErrTypeMismatch, arg.Pos, arg.Type.String(), paramType.String()))
			continue
		}
		args = append(args, arg)
	}
	if len(args) != len(def.Arguments) {
		return nil, errs
	}
	return &semantics.Expression{
		Type: fn.Result,
		Pos:  def.GetToken(),
		Body: &semantics.CallExpr{Function: item.Final(), Arguments: args},
	}, errs
}

func isNumeric(t typesystem.DataType) bool {
	p, ok := typesystem.AsPrimitive(t)
	if !ok {
		return false
	}
	switch p.Kind {
	case typesystem.Boolean, typesystem.VarcharKind, typesystem.DateTime:
		return false
	}
	return true
}

// numericJoin picks the wider of two numeric operand types.
func numericJoin(left, right typesystem.DataType) (typesystem.DataType, bool) {
	if !isNumeric(left) || !isNumeric(right) {
		return nil, false
	}
	if typesystem.ShouldCastTo(left, right) {
		return right, true
	}
	if typesystem.ShouldCastTo(right, left) {
		return left, true
	}
	return nil, false
}
