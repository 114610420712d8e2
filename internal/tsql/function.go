package tsql

import (
	"strings"

	"github.com/funvibe/schemalang/internal/formatter"
	"github.com/funvibe/schemalang/internal/semantics"
	"github.com/funvibe/schemalang/internal/typesystem"
)

// emitter lowers one resolved function to a T-SQL unit.
type emitter struct {
	ctx *functionContext
}

// EmitFunction renders one function item as a CREATE OR ALTER unit.
func EmitFunction(f formatter.BlockFormatter, function *semantics.FunctionDefinition, modulePath []string, params Parameters) error {
	e := &emitter{ctx: newFunctionContext(function, modulePath, params)}
	if err := e.emitHead(f); err != nil {
		return err
	}
	return e.emitBody(f)
}

func (e *emitter) emitHead(f formatter.BlockFormatter) error {
	class := "FUNCTION"
	if e.ctx.function.IsProcedure() {
		class = "PROCEDURE"
	}
	f.WriteLinef("CREATE OR ALTER %s %s.[%s]",
		class, e.ctx.params.Schema, e.ctx.makeFunctionName())
	return e.emitArguments(f)
}

// primitiveArg is one lowered argument or output slot.
type primitiveArg struct {
	name     string
	typeName string
	output   bool
}

func (e *emitter) emitPrimitiveArgs(f formatter.BlockFormatter, args []primitiveArg, automatic bool, lastComma bool) {
	for i, arg := range args {
		line := f.Line()
		if automatic {
			line.Write("[" + arg.name + "]")
		} else {
			line.Write("@" + arg.name)
		}
		line.Write(" " + arg.typeName)
		if arg.output {
			line.Write(" OUTPUT")
		}
		if lastComma || i+1 < len(args) {
			line.Write(",")
		}
		line.Close()
	}
}

// argumentSlots flattens the function's parameters, renaming each variable
// through the per-function uniquer.
func (e *emitter) argumentSlots() []primitiveArg {
	var slots []primitiveArg
	for _, argument := range e.ctx.function.Arguments {
		newName := e.ctx.names.AddName(argument.Name())
		argument.SetName(newName)
		argType, ok := argument.DataType()
		if !ok {
			continue
		}
		prefix := typesystem.NewPath(newName)
		for _, primitive := range typesystem.Primitives(argType, prefix) {
			slots = append(slots, primitiveArg{name: primitive.Path, typeName: TypeName(primitive.Type)})
		}
	}
	return slots
}

// emitArguments lowers parameters and the result slot. Functions wrap their
// parameters in parentheses and announce the result with RETURNS; procedures
// list parameters bare and append OUTPUT slots for the result.
func (e *emitter) emitArguments(f formatter.BlockFormatter) error {
	isProcedure := e.ctx.function.IsProcedure()
	sub := f.SubBlock()
	argSlots := e.argumentSlots()

	if !isProcedure {
		f.WriteLine("(")
		e.emitPrimitiveArgs(sub, argSlots, false, false)

		result := e.ctx.function.Result
		if typesystem.CanBeTable(result) {
			columns := typesystem.AsTableType(result, typesystem.NewPath())
			f.WriteLinef(") RETURNS @%s TABLE (", e.ctx.makeResultVariableName())
			e.emitTableColumns(sub, columns)
			f.WriteLine(")")
		} else if primitive, ok := typesystem.AsPrimitive(result); ok {
			f.WriteLinef(") RETURNS %s", TypeName(primitive))
		} else {
			f.WriteLine(") RETURNS bit")
		}
		return f.Err()
	}

	result := e.ctx.function.Result
	var resultSlots []primitiveArg
	switch {
	case typesystem.CanBeTable(result):
		prefix := e.ctx.makeResultVariablePrefix()
		if _, isArray := typesystem.AsArray(result); isArray {
			// Array results travel as one table-valued OUTPUT slot.
			resultSlots = append(resultSlots, primitiveArg{
				name:     e.ctx.makeResultVariableName(),
				typeName: tableTypeLiteral(typesystem.AsTableType(result, typesystem.NewPath())),
				output:   true,
			})
		} else {
			for _, primitive := range typesystem.Primitives(result, prefix) {
				resultSlots = append(resultSlots, primitiveArg{
					name:     primitive.Path,
					typeName: TypeName(primitive.Type),
					output:   true,
				})
			}
		}
	case typesystem.IsVoid(result):
		resultSlots = append(resultSlots, primitiveArg{
			name:     e.ctx.makeResultVariableName(),
			typeName: "bit",
			output:   true,
		})
	default:
		primitive, ok := typesystem.AsPrimitive(result)
		typeName := "bit"
		if ok {
			typeName = TypeName(primitive)
		}
		resultSlots = append(resultSlots, primitiveArg{
			name:     e.ctx.makeResultVariableName(),
			typeName: typeName,
			output:   true,
		})
	}
	e.emitPrimitiveArgs(sub, argSlots, false, len(resultSlots) > 0)
	e.emitPrimitiveArgs(sub, resultSlots, false, false)
	return f.Err()
}

// tableTypeLiteral renders an inline TABLE(...) type for OUTPUT slots.
func tableTypeLiteral(columns []typesystem.FieldPrimitive) string {
	parts := make([]string, 0, len(columns))
	for _, column := range columns {
		parts = append(parts, columnName(strings.Split(column.Path, typesystem.PathSeparator))+" "+TypeName(column.Type))
	}
	return "TABLE (" + strings.Join(parts, ", ") + ")"
}

func (e *emitter) emitTableColumns(f formatter.BlockFormatter, columns []typesystem.FieldPrimitive) {
	for i, column := range columns {
		line := f.Line()
		line.Write(columnName(strings.Split(column.Path, typesystem.PathSeparator)))
		line.Write(" " + TypeName(column.Type))
		if i+1 < len(columns) {
			line.Write(",")
		}
		line.Close()
	}
}

// emitVariableDeclaration lowers one local: arrays become table variables,
// everything else one DECLARE per flattened primitive.
func (e *emitter) emitVariableDeclaration(f formatter.BlockFormatter, variable *semantics.Variable) {
	varType, ok := variable.DataType()
	if !ok {
		return
	}
	if element, isArray := typesystem.AsArray(varType); isArray {
		f.WriteLinef("DECLARE @%s TABLE (", variable.Name())
		e.emitTableColumns(f.SubBlock(), typesystem.AsTableType(&typesystem.Array{Element: element}, typesystem.NewPath()))
		f.WriteLine(");")
		return
	}
	prefix := typesystem.NewPath(variable.Name())
	for _, primitive := range typesystem.Primitives(varType, prefix) {
		f.WriteLinef("DECLARE @%s %s;", primitive.Path, TypeName(primitive.Type))
	}
}

// emitBody declares locals, emits the statements, then the result footer.
func (e *emitter) emitBody(f formatter.BlockFormatter) error {
	if e.ctx.function.Body == nil {
		return f.Err()
	}

	f.WriteLine("AS BEGIN")
	sub := f.SubBlock()

	for _, variable := range e.ctx.function.Context.AllVariables() {
		if variable.IsAutomatic() || variable.IsArgument() {
			continue
		}
		newName := e.ctx.names.AddName(variable.Name())
		variable.SetName(newName)
		e.emitVariableDeclaration(sub, variable)
	}

	statements, ok := e.ctx.function.Body.AsBlock()
	if !ok {
		statements = []*semantics.Statement{e.ctx.function.Body}
	}
	if err := e.emitStatementList(sub, statements); err != nil {
		return err
	}

	if typesystem.IsVoid(e.ctx.function.Result) && e.ctx.resultVariableName != "" {
		sub.WriteLinef("SET @%s = 0;", e.ctx.resultVariableName)
	}
	if e.ctx.function.IsLiteWeight {
		if _, ok := typesystem.AsPrimitive(e.ctx.function.Result); ok {
			sub.WriteLine("RETURN 0;")
		} else {
			sub.WriteLine("RETURN;")
		}
	}

	f.WriteLine("END")
	return f.Err()
}
