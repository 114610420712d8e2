package tsql

import (
	"strings"

	"github.com/funvibe/schemalang/internal/formatter"
	"github.com/funvibe/schemalang/internal/semantics"
	"github.com/funvibe/schemalang/internal/typesystem"
)

// emitStatementList renders statements in order, draining each statement's
// lifted pre-calls into the block ahead of the statement that needed them.
func (e *emitter) emitStatementList(f formatter.BlockFormatter, statements []*semantics.Statement) error {
	for _, stmt := range statements {
		rendered, err := e.renderStatement(stmt)
		if err != nil {
			return err
		}
		for _, preCall := range e.ctx.drainPreCalcCalls() {
			f.WriteText(preCall)
		}
		f.WriteText(rendered)
	}
	return f.Err()
}

// renderStatement renders one statement into a detached buffer so pre-calls
// discovered mid-render can be emitted before it.
func (e *emitter) renderStatement(stmt *semantics.Statement) (string, error) {
	var buffer strings.Builder
	code := formatter.NewCodeFormatter(&buffer)
	code.IndentSize = e.ctx.params.IndentSize
	if err := e.emitStatement(code.RootBlock(), stmt); err != nil {
		return "", err
	}
	if err := code.Err(); err != nil {
		return "", err
	}
	return buffer.String(), nil
}

func (e *emitter) emitStatement(f formatter.BlockFormatter, stmt *semantics.Statement) error {
	switch body := stmt.Body.(type) {
	case *semantics.NothingStmt:
		return nil

	case *semantics.AssignStmt:
		return e.emitAssign(f, body)

	case *semantics.ConditionStmt:
		condition, err := e.emitExpression(body.Condition)
		if err != nil {
			return err
		}
		f.WriteLinef("IF %s", condition)
		f.WriteLine("BEGIN")
		if err := e.emitNested(f.SubBlock(), body.Then); err != nil {
			return err
		}
		f.WriteLine("END")
		if body.Else != nil {
			f.WriteLine("ELSE")
			f.WriteLine("BEGIN")
			if err := e.emitNested(f.SubBlock(), body.Else); err != nil {
				return err
			}
			f.WriteLine("END")
		}
		return nil

	case *semantics.CycleStmt:
		return e.emitCycle(f, body)

	case *semantics.CycleControlStmt:
		if body.Break {
			f.WriteLine("BREAK;")
		} else {
			f.WriteLine("CONTINUE;")
		}
		return nil

	case *semantics.ReturnStmt:
		return e.emitReturn(f, body)

	case *semantics.BlockStmt:
		f.WriteLine("BEGIN")
		if err := e.emitStatementList(f.SubBlock(), body.Statements); err != nil {
			return err
		}
		f.WriteLine("END")
		return nil

	case *semantics.ExpressionStmt:
		return e.emitExpressionStatement(body)

	case *semantics.SelectStmt:
		if err := e.emitSelect(f, body.Query); err != nil {
			return err
		}
		f.WriteLine(";")
		return nil

	case *semantics.InsertStmt:
		return e.emitInsert(f, body.Request)

	case *semantics.UpdateStmt:
		return e.emitUpdate(f, body.Request)

	case *semantics.DeleteStmt:
		return e.emitDelete(f, body.Request)
	}
	return errUnknownVariant
}

// emitNested emits a statement as the body of a control-flow construct:
// blocks inline their statements (the construct already wrote BEGIN/END),
// anything else renders as-is.
func (e *emitter) emitNested(f formatter.BlockFormatter, stmt *semantics.Statement) error {
	if statements, ok := stmt.AsBlock(); ok {
		return e.emitStatementList(f, statements)
	}
	return e.emitStatementList(f, []*semantics.Statement{stmt})
}

func (e *emitter) emitCycle(f formatter.BlockFormatter, cycle *semantics.CycleStmt) error {
	switch cycle.Kind {
	case semantics.CycleSimple:
		f.WriteLine("WHILE 1 = 1")
		f.WriteLine("BEGIN")
		if err := e.emitNested(f.SubBlock(), cycle.Body); err != nil {
			return err
		}
		f.WriteLine("END")

	case semantics.CyclePrePredicated:
		predicate, err := e.emitExpression(cycle.Predicate)
		if err != nil {
			return err
		}
		f.WriteLinef("WHILE %s", predicate)
		f.WriteLine("BEGIN")
		if err := e.emitNested(f.SubBlock(), cycle.Body); err != nil {
			return err
		}
		f.WriteLine("END")

	case semantics.CyclePostPredicated:
		// T-SQL has no do-while; run the body once per pass and leave when
		// the predicate turns false.
		f.WriteLine("WHILE 1 = 1")
		f.WriteLine("BEGIN")
		sub := f.SubBlock()
		if err := e.emitNested(sub, cycle.Body); err != nil {
			return err
		}
		predicate, err := e.emitExpression(cycle.Predicate)
		if err != nil {
			return err
		}
		sub.WriteLinef("IF NOT %s BREAK;", predicate)
		f.WriteLine("END")
	}
	return f.Err()
}

// emitAssign lowers an assignment. Scalar slots get SET; structured values
// copy slot-wise; arrays copy table-wise; selections insert into the target
// table variable.
func (e *emitter) emitAssign(f formatter.BlockFormatter, assign *semantics.AssignStmt) error {
	target := assign.Var
	targetType, ok := target.DataType()
	if !ok {
		return errUntypedVariable
	}
	slotType := targetType
	if len(assign.Path) > 0 {
		slotType, _ = typesystem.PropertyType(targetType, assign.Path)
	}

	if assign.Source.Selection != nil {
		line := f.Line()
		line.Writef("INSERT INTO %s", variableSlot(target, assign.Path))
		line.Close()
		if err := e.emitSelect(f, assign.Source.Selection); err != nil {
			return err
		}
		f.WriteLine(";")
		return f.Err()
	}

	source, err := e.liftIfNeeded(assign.Source.Expr)
	if err != nil {
		return err
	}

	if _, scalar := typesystem.AsPrimitive(slotType); scalar {
		rendered, err := e.emitExpression(source)
		if err != nil {
			return err
		}
		f.WriteLinef("SET %s = %s;", variableSlot(target, assign.Path), rendered)
		return f.Err()
	}

	sourceVar, ok := source.Body.(*semantics.VariableExpr)
	if !ok {
		return errUnknownVariant
	}

	if _, isArray := typesystem.AsArray(slotType); isArray {
		f.WriteLinef("DELETE FROM %s;", variableSlot(target, assign.Path))
		f.WriteLinef("INSERT INTO %s SELECT * FROM %s;",
			variableSlot(target, assign.Path), variableSlot(sourceVar.Var, sourceVar.Path))
		return f.Err()
	}

	targetPrefix := typesystem.NewPath(append([]string{target.Name()}, assign.Path...)...)
	sourcePrefix := typesystem.NewPath(append([]string{sourceVar.Var.Name()}, sourceVar.Path...)...)
	targetSlots := typesystem.Primitives(slotType, targetPrefix)
	sourceSlots := typesystem.Primitives(slotType, sourcePrefix)
	for i := range targetSlots {
		f.WriteLinef("SET @%s = @%s;", targetSlots[i].Path, sourceSlots[i].Path)
	}
	return f.Err()
}

func (e *emitter) emitReturn(f formatter.BlockFormatter, ret *semantics.ReturnStmt) error {
	fn := e.ctx.function

	if ret.Value == nil {
		if !fn.IsLiteWeight && typesystem.IsVoid(fn.Result) {
			f.WriteLinef("SET @%s = 0;", e.ctx.makeResultVariableName())
		}
		f.WriteLine("RETURN;")
		return f.Err()
	}

	if ret.Value.Selection != nil {
		line := f.Line()
		line.Writef("INSERT INTO @%s", e.ctx.makeResultVariableName())
		line.Close()
		if err := e.emitSelect(f, ret.Value.Selection); err != nil {
			return err
		}
		f.WriteLine(";")
		f.WriteLine("RETURN;")
		return f.Err()
	}

	source, err := e.liftIfNeeded(ret.Value.Expr)
	if err != nil {
		return err
	}

	if _, ok := typesystem.AsPrimitive(fn.Result); ok {
		rendered, err := e.emitExpression(source)
		if err != nil {
			return err
		}
		if fn.IsLiteWeight {
			f.WriteLinef("RETURN %s;", rendered)
		} else {
			f.WriteLinef("SET @%s = %s;", e.ctx.makeResultVariableName(), rendered)
			f.WriteLine("RETURN;")
		}
		return f.Err()
	}

	sourceVar, ok := source.Body.(*semantics.VariableExpr)
	if !ok {
		return errUnknownVariant
	}
	resultName := e.ctx.makeResultVariableName()

	if _, isArray := typesystem.AsArray(fn.Result); isArray {
		if !fn.IsLiteWeight {
			f.WriteLinef("DELETE FROM @%s;", resultName)
		}
		f.WriteLinef("INSERT INTO @%s SELECT * FROM %s;",
			resultName, variableSlot(sourceVar.Var, sourceVar.Path))
		f.WriteLine("RETURN;")
		return f.Err()
	}

	// Structure result: table-valued in a function, flattened OUTPUT slots
	// in a procedure.
	sourcePrefix := typesystem.NewPath(append([]string{sourceVar.Var.Name()}, sourceVar.Path...)...)
	sourceSlots := typesystem.Primitives(fn.Result, sourcePrefix)
	if fn.IsLiteWeight {
		resultColumns := typesystem.AsTableType(fn.Result, typesystem.NewPath())
		names := make([]string, 0, len(resultColumns))
		values := make([]string, 0, len(sourceSlots))
		for i := range resultColumns {
			names = append(names, columnName(strings.Split(resultColumns[i].Path, typesystem.PathSeparator)))
			values = append(values, "@"+sourceSlots[i].Path)
		}
		f.WriteLinef("INSERT INTO @%s (%s) VALUES (%s);",
			resultName, strings.Join(names, ", "), strings.Join(values, ", "))
	} else {
		resultSlots := typesystem.Primitives(fn.Result, typesystem.NewPath(resultName))
		for i := range resultSlots {
			f.WriteLinef("SET @%s = @%s;", resultSlots[i].Path, sourceSlots[i].Path)
		}
	}
	f.WriteLine("RETURN;")
	return f.Err()
}

// emitExpressionStatement keeps only effects: procedure calls become
// pre-calls; pure expressions evaluate to nothing observable and are
// dropped.
func (e *emitter) emitExpressionStatement(stmt *semantics.ExpressionStmt) error {
	_, err := e.liftIfNeeded(stmt.Expression)
	return err
}
