package tsql

import (
	"errors"
	"fmt"
	"strings"

	"github.com/funvibe/schemalang/internal/semantics"
	"github.com/funvibe/schemalang/internal/typesystem"
)

var (
	errNotAFunction    = errors.New("tsql: call target is not a function")
	errUnknownVariant  = errors.New("tsql: unknown tree variant")
	errUntypedVariable = errors.New("tsql: variable has no type at generate time")
)

// variableSlot renders a variable reference with an optional property tail:
// @point, @point#x.
func variableSlot(v *semantics.Variable, path []string) string {
	segments := append([]string{v.Name()}, path...)
	return "@" + strings.Join(segments, typesystem.PathSeparator)
}

// columnName renders a flattened column name.
func columnName(path []string) string {
	return "[" + strings.Join(path, typesystem.PathSeparator) + "]"
}

func quoteString(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

var infixOperators = map[string]string{
	"+":   "+",
	"-":   "-",
	"*":   "*",
	"/":   "/",
	"%":   "%",
	"==":  "=",
	"!=":  "<>",
	"<":   "<",
	">":   ">",
	"<=":  "<=",
	">=":  ">=",
	"and": "AND",
	"or":  "OR",
}

// liftIfNeeded replaces a call that cannot appear inline in a T-SQL
// expression — a procedure call, or any call with a structured result — by a
// reference to a pre-calculated temporary.
func (e *emitter) liftIfNeeded(expr *semantics.Expression) (*semantics.Expression, error) {
	call, ok := expr.Body.(*semantics.CallExpr)
	if !ok {
		return expr, nil
	}
	fn, ok := call.Function.GetFunction()
	if !ok {
		return nil, errNotAFunction
	}
	_, primitive := typesystem.AsPrimitive(fn.Result)
	if fn.IsLiteWeight && primitive {
		return expr, nil
	}
	variable, err := e.ctx.addPreCalcCall(call.Function, call.Arguments, e)
	if err != nil {
		return nil, err
	}
	return &semantics.Expression{
		Type: expr.Type,
		Pos:  expr.Pos,
		Body: &semantics.VariableExpr{Var: variable},
	}, nil
}

// emitExpression renders a scalar expression. Calls that cannot be inlined
// are lifted as a side effect.
func (e *emitter) emitExpression(expr *semantics.Expression) (string, error) {
	switch body := expr.Body.(type) {
	case *semantics.LiteralExpr:
		switch body.Kind {
		case semantics.LiteralBoolean:
			if body.Raw == "true" {
				return "1", nil
			}
			return "0", nil
		case semantics.LiteralString:
			return quoteString(body.Raw), nil
		default:
			return body.Raw, nil
		}

	case *semantics.VariableExpr:
		return variableSlot(body.Var, body.Path), nil

	case *semantics.ColumnExpr:
		if len(body.Path) == 0 {
			return "[" + body.SourceAlias + "]", nil
		}
		return "[" + body.SourceAlias + "]." + columnName(body.Path), nil

	case *semantics.PrefixExpr:
		inner, err := e.emitExpression(body.Inner)
		if err != nil {
			return "", err
		}
		return "(" + body.Operator + " " + inner + ")", nil

	case *semantics.BinaryExpr:
		left, err := e.emitExpression(body.Left)
		if err != nil {
			return "", err
		}
		right, err := e.emitExpression(body.Right)
		if err != nil {
			return "", err
		}
		operator, ok := infixOperators[body.Operator]
		if !ok {
			return "", errUnknownVariant
		}
		return "(" + left + " " + operator + " " + right + ")", nil

	case *semantics.CallExpr:
		lifted, err := e.liftIfNeeded(expr)
		if err != nil {
			return "", err
		}
		if lifted != expr {
			return e.emitExpression(lifted)
		}
		return e.emitInlineCall(body)
	}
	return "", errUnknownVariant
}

// emitInlineCall renders a lite-weight scalar function call with every
// argument flattened to scalar slots.
func (e *emitter) emitInlineCall(call *semantics.CallExpr) (string, error) {
	args, err := e.flattenArguments(call.Arguments)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s.[%s](%s)", e.ctx.params.Schema, e.objectName(call.Function), strings.Join(args, ", ")), nil
}

// flattenArguments expands each argument into its scalar slots: a scalar
// expression stays one slot, a structured variable contributes one slot per
// flattened primitive. Structured call results are lifted first.
func (e *emitter) flattenArguments(arguments []*semantics.Expression) ([]string, error) {
	var slots []string
	for _, arg := range arguments {
		lifted, err := e.liftIfNeeded(arg)
		if err != nil {
			return nil, err
		}
		if _, scalar := typesystem.AsPrimitive(lifted.Type); scalar {
			rendered, err := e.emitExpression(lifted)
			if err != nil {
				return nil, err
			}
			slots = append(slots, rendered)
			continue
		}
		variable, ok := lifted.Body.(*semantics.VariableExpr)
		if !ok {
			return nil, errUnknownVariant
		}
		varType, ok := variable.Var.DataType()
		if !ok {
			return nil, errUntypedVariable
		}
		propType := varType
		if len(variable.Path) > 0 {
			propType, _ = typesystem.PropertyType(varType, variable.Path)
		}
		prefix := typesystem.NewPath(append([]string{variable.Var.Name()}, variable.Path...)...)
		for _, primitive := range typesystem.Primitives(propType, prefix) {
			slots = append(slots, "@"+primitive.Path)
		}
	}
	return slots, nil
}

// objectName builds the emitted object name of a function item.
func (e *emitter) objectName(item *semantics.Item) string {
	fn, _ := item.GetFunction()
	var segments []string
	if fn != nil && fn.Context != nil && fn.Context.Module != nil {
		segments = append(segments, fn.Context.Module.PathSegments...)
	}
	if fn != nil {
		segments = append(segments, fn.Name)
	} else {
		segments = append(segments, item.Name)
	}
	return strings.Join(segments, "::")
}

// tableObjectName builds the emitted name of a table item.
func (e *emitter) tableObjectName(item *semantics.Item) string {
	table, _ := item.GetTable()
	var segments []string
	if item.Module != nil {
		segments = append(segments, item.Module.PathSegments...)
	}
	if table != nil {
		segments = append(segments, table.Name)
	} else {
		segments = append(segments, item.Name)
	}
	return strings.Join(segments, "::")
}
