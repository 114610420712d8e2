package analyzer

import (
	"github.com/funvibe/schemalang/internal/ast"
	"github.com/funvibe/schemalang/internal/diagnostics"
	"github.com/funvibe/schemalang/internal/semantics"
	"github.com/funvibe/schemalang/internal/typesystem"
)

// resolveStatement lowers one AST statement against a scope. A nil result
// means the statement could not be resolved; the diagnostics say why.
func (a *Analyzer) resolveStatement(ctx stmtContext, stmt ast.Statement) (*semantics.Statement, diagnostics.List) {
	switch def := stmt.(type) {
	case *ast.LetStatement:
		return a.resolveLet(ctx, def)

	case *ast.AssignStatement:
		return a.resolveAssign(ctx, def)

	case *ast.IfStatement:
		return a.resolveIf(ctx, def)

	case *ast.CycleStatement:
		return a.resolveCycle(ctx, def)

	case *ast.CycleControlStatement:
		if def.Label != nil {
			return nil, diagnostics.List{diagnostics.New(
				diagnostics.ErrNotSupportedYet, def.GetToken(), "cycle control labels")}
		}
		return &semantics.Statement{
			Pos:  def.GetToken(),
			Body: &semantics.CycleControlStmt{Break: def.Break},
		}, nil

	case *ast.ReturnStatement:
		result := &semantics.ReturnStmt{}
		var errs diagnostics.List
		if def.Value != nil {
			source, srcErrs := a.resolveSource(ctx, def.Value)
			errs = append(errs, srcErrs...)
			if source == nil {
				return nil, errs
			}
			result.Value = source
		}
		return &semantics.Statement{Pos: def.GetToken(), Body: result}, errs

	case *ast.BlockStatement:
		return a.resolveBlock(ctx, def)

	case *ast.ExpressionStatement:
		expr, errs := a.resolveExpression(ctx, def.Expression)
		if expr == nil {
			return nil, errs
		}
		return &semantics.Statement{
			Pos:  def.GetToken(),
			Body: &semantics.ExpressionStmt{Expression: expr},
		}, errs

	case *ast.SelectStatement:
		query, errs := a.resolveSelect(ctx, def.Query)
		if query == nil {
			return nil, errs
		}
		return &semantics.Statement{Pos: def.GetToken(), Body: &semantics.SelectStmt{Query: query}}, errs

	case *ast.InsertStatement:
		request, errs := a.resolveInsert(ctx, def)
		if request == nil {
			return nil, errs
		}
		return &semantics.Statement{Pos: def.GetToken(), Body: &semantics.InsertStmt{Request: request}}, errs

	case *ast.UpdateStatement:
		request, errs := a.resolveUpdate(ctx, def)
		if request == nil {
			return nil, errs
		}
		return &semantics.Statement{Pos: def.GetToken(), Body: &semantics.UpdateStmt{Request: request}}, errs

	case *ast.DeleteStatement:
		request, errs := a.resolveDelete(ctx, def)
		if request == nil {
			return nil, errs
		}
		return &semantics.Statement{Pos: def.GetToken(), Body: &semantics.DeleteStmt{Request: request}}, errs
	}
	return nil, diagnostics.List{diagnostics.New(
		diagnostics.ErrNotSupportedYet, stmt.GetToken(), "statement form")}
}

// resolveLet handles variable definition: with both annotation and default
// the default must cast to the annotation; with one, that type is adopted;
// with neither the variable starts untyped and is typed by first assignment.
func (a *Analyzer) resolveLet(ctx stmtContext, def *ast.LetStatement) (*semantics.Statement, diagnostics.List) {
	var errs diagnostics.List

	var declared typesystem.DataType
	if def.Type != nil {
		resolved, typeErrs := a.resolveType(ctx.mod, def.Type)
		errs = append(errs, typeErrs...)
		if resolved == nil {
			return nil, errs
		}
		declared = resolved
	}

	var source *semantics.StatementSource
	if def.Value != nil {
		resolved, srcErrs := a.resolveSource(ctx, def.Value)
		errs = append(errs, srcErrs...)
		if resolved == nil {
			return nil, errs
		}
		source = resolved
	}

	varType := declared
	if source != nil {
		if declared != nil {
			if !typesystem.ShouldCastTo(source.TypeOf(), declared) {
				errs.Append(diagnostics.New(
					diagnostics.ErrTypeMismatch, def.GetToken(),
					source.TypeOf().String(), declared.String()))
				return nil, errs
			}
		} else {
			varType = source.TypeOf()
		}
	}

	if arrayNeedsLiteWeight(varType) {
		ctx.scope.Context().MarkUsesArrays(def.GetToken())
	}

	variable, dupErr := ctx.scope.NewVariable(def.Name.GetToken(), def.Name.Value, varType)
	if dupErr != nil {
		errs.Append(dupErr)
		return nil, errs
	}
	if source == nil {
		return &semantics.Statement{Pos: def.GetToken(), Body: &semantics.NothingStmt{}}, errs
	}
	return &semantics.Statement{
		Pos:  def.GetToken(),
		Body: &semantics.AssignStmt{Var: variable, Source: source},
	}, errs
}

func arrayNeedsLiteWeight(t typesystem.DataType) bool {
	if t == nil {
		return false
	}
	_, ok := typesystem.AsArray(t)
	return ok
}

// resolveAssign decomposes the left-hand path into head variable plus
// property tail, rejects read-only writes, and either adopts or checks the
// source type.
func (a *Analyzer) resolveAssign(ctx stmtContext, def *ast.AssignStatement) (*semantics.Statement, diagnostics.List) {
	head := def.Path.Segments[0]
	tail := def.Path.Segments[1:]

	source, errs := a.resolveSource(ctx, def.Value)
	if source == nil {
		return nil, errs
	}

	variable, ok := ctx.scope.AccessToVariable(head)
	if !ok {
		errs.Append(diagnostics.New(diagnostics.ErrUndefinedVariable, def.GetToken(), head))
		return nil, errs
	}
	if variable.IsReadOnly() {
		errs.Append(diagnostics.New(
			diagnostics.ErrCannotModifyReadOnlyVariable, def.GetToken(), head))
		return nil, errs
	}

	sourceType := source.TypeOf()
	if len(tail) == 0 {
		if varType, ok := variable.DataType(); ok {
			if !typesystem.ShouldCastTo(sourceType, varType) {
				errs.Append(diagnostics.New(
					diagnostics.ErrTypeMismatch, def.GetToken(),
					sourceType.String(), varType.String()))
				return nil, errs
			}
		} else {
			variable.ReplaceDataType(sourceType)
		}
	} else {
		propType, ok := variable.PropertyType(tail)
		if !ok {
			varType, _ := variable.DataType()
			typeName := "unknown"
			if varType != nil {
				typeName = varType.String()
			}
			errs.Append(diagnostics.New(
				diagnostics.ErrUnknownProperty, def.GetToken(), typeName, joinPath(tail)))
			return nil, errs
		}
		if !typesystem.ShouldCastTo(sourceType, propType) {
			errs.Append(diagnostics.New(
				diagnostics.ErrTypeMismatch, def.GetToken(),
				sourceType.String(), propType.String()))
			return nil, errs
		}
	}

	return &semantics.Statement{
		Pos:  def.GetToken(),
		Body: &semantics.AssignStmt{Var: variable, Path: tail, Source: source},
	}, errs
}

func (a *Analyzer) resolveIf(ctx stmtContext, def *ast.IfStatement) (*semantics.Statement, diagnostics.List) {
	// Branches are resolved even when the condition fails, so one pass
	// reports independent problems from all three parts.
	condition, errs := a.resolveExpression(ctx, def.Condition)
	then, thenErrs := a.resolveStatement(ctx, def.Then)
	errs = append(errs, thenErrs...)
	var elseStmt *semantics.Statement
	if def.Else != nil {
		resolved, elseErrs := a.resolveStatement(ctx, def.Else)
		errs = append(errs, elseErrs...)
		elseStmt = resolved
		if resolved == nil {
			return nil, errs
		}
	}
	if condition == nil || then == nil {
		return nil, errs
	}
	if !typesystem.ShouldCastTo(condition.Type, typesystem.BooleanType) {
		errs.Append(diagnostics.New(
			diagnostics.ErrTypeMismatch, condition.Pos, condition.Type.String(), "boolean"))
		return nil, errs
	}
	return &semantics.Statement{
		Pos: def.GetToken(),
		Body: &semantics.ConditionStmt{
			Condition: condition,
			Then:      then,
			Else:      elseStmt,
		},
	}, errs
}

func (a *Analyzer) resolveCycle(ctx stmtContext, def *ast.CycleStatement) (*semantics.Statement, diagnostics.List) {
	var errs diagnostics.List
	var predicate *semantics.Expression
	if def.Predicate != nil {
		resolved, predErrs := a.resolveExpression(ctx, def.Predicate)
		errs = append(errs, predErrs...)
		predicate = resolved
	}
	body, bodyErrs := a.resolveStatement(ctx, def.Body)
	errs = append(errs, bodyErrs...)

	if def.Predicate != nil {
		if predicate == nil {
			return nil, errs
		}
		if !typesystem.ShouldCastTo(predicate.Type, typesystem.BooleanType) {
			errs.Append(diagnostics.New(
				diagnostics.ErrTypeMismatch, predicate.Pos, predicate.Type.String(), "boolean"))
			return nil, errs
		}
	}
	if body == nil {
		return nil, errs
	}
	return &semantics.Statement{
		Pos: def.GetToken(),
		Body: &semantics.CycleStmt{
			Kind:      semantics.CycleKind(def.Kind),
			Predicate: predicate,
			Body:      body,
		},
	}, errs
}

func (a *Analyzer) resolveBlock(ctx stmtContext, def *ast.BlockStatement) (*semantics.Statement, diagnostics.List) {
	scope := ctx.scope.Child()
	blockCtx := ctx.withScope(scope)
	var errs diagnostics.List
	statements := make([]*semantics.Statement, 0, len(def.Statements))
	failed := false
	for _, stmtAST := range def.Statements {
		stmt, stmtErrs := a.resolveStatement(blockCtx, stmtAST)
		errs = append(errs, stmtErrs...)
		if stmt == nil {
			failed = true
			continue
		}
		statements = append(statements, stmt)
	}
	if failed {
		return nil, errs
	}
	return &semantics.Statement{
		Pos:  def.GetToken(),
		Body: &semantics.BlockStmt{Scope: scope, Statements: statements},
	}, errs
}
