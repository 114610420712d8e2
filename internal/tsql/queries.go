package tsql

import (
	"fmt"
	"strings"

	"github.com/funvibe/schemalang/internal/ast"
	"github.com/funvibe/schemalang/internal/formatter"
	"github.com/funvibe/schemalang/internal/semantics"
	"github.com/funvibe/schemalang/internal/typesystem"
)

// emitPreCall renders the call that fills a lifted temporary: table-valued
// function results insert or select into the temporary's slots, procedure
// results travel through OUTPUT arguments.
func (e *emitter) emitPreCall(f formatter.BlockFormatter, temp *semantics.Variable, item *semantics.Item, fn *semantics.FunctionDefinition, arguments []*semantics.Expression) error {
	args, err := e.flattenArguments(arguments)
	if err != nil {
		return err
	}
	object := fmt.Sprintf("%s.[%s]", e.ctx.params.Schema, e.objectName(item))

	if fn.IsLiteWeight {
		if _, isArray := typesystem.AsArray(fn.Result); isArray {
			f.WriteLinef("INSERT INTO @%s SELECT * FROM %s(%s);",
				temp.Name(), object, strings.Join(args, ", "))
			return f.Err()
		}
		// Structure result: one SELECT filling each flattened slot from the
		// table-valued function's single row.
		columns := typesystem.AsTableType(fn.Result, typesystem.NewPath())
		slots := typesystem.Primitives(fn.Result, typesystem.NewPath(temp.Name()))
		assignments := make([]string, 0, len(slots))
		for i := range slots {
			assignments = append(assignments, fmt.Sprintf("@%s = %s",
				slots[i].Path, columnName(strings.Split(columns[i].Path, typesystem.PathSeparator))))
		}
		f.WriteLinef("SELECT %s FROM %s(%s);",
			strings.Join(assignments, ", "), object, strings.Join(args, ", "))
		return f.Err()
	}

	// Procedure call.
	outputs := e.procedureOutputSlots(f, temp, fn)
	all := append(args, outputs...)
	f.WriteLinef("EXEC %s %s;", object, strings.Join(all, ", "))
	return f.Err()
}

// procedureOutputSlots builds the OUTPUT argument list for a lifted
// procedure call, declaring the sentinel slot for void results.
func (e *emitter) procedureOutputSlots(f formatter.BlockFormatter, temp *semantics.Variable, fn *semantics.FunctionDefinition) []string {
	result := fn.Result
	switch {
	case typesystem.IsVoid(result):
		f.WriteLinef("DECLARE @%s bit;", temp.Name())
		return []string{"@" + temp.Name() + " OUTPUT"}
	case func() bool { _, isArray := typesystem.AsArray(result); return isArray }():
		return []string{"@" + temp.Name() + " OUTPUT"}
	default:
		if _, ok := typesystem.AsPrimitive(result); ok {
			return []string{"@" + temp.Name() + " OUTPUT"}
		}
		var outputs []string
		for _, slot := range typesystem.Primitives(result, typesystem.NewPath(temp.Name())) {
			outputs = append(outputs, "@"+slot.Path+" OUTPUT")
		}
		return outputs
	}
}

// emitSelect renders a selection. The caller terminates the statement.
func (e *emitter) emitSelect(f formatter.BlockFormatter, sel *semantics.Selection) error {
	line := f.Line()
	line.Write("SELECT")
	if sel.Distinct {
		line.Write(" DISTINCT")
	}
	if sel.Limit != nil && sel.Limit.Offset == nil {
		line.Writef(" TOP (%d)", sel.Limit.Count)
	}
	if sel.All {
		line.Write(" *")
	} else {
		for i, item := range sel.Items {
			rendered, err := e.emitExpression(item.Expr)
			if err != nil {
				line.Close()
				return err
			}
			if i > 0 {
				line.Write(",")
			}
			line.Writef(" %s AS [%s]", rendered, item.Alias)
		}
	}
	line.Close()

	fromLine := f.Line()
	fromLine.Write("FROM ")
	if err := e.emitDataSource(fromLine, sel.Source); err != nil {
		fromLine.Close()
		return err
	}
	fromLine.Close()

	if sel.Where != nil {
		where, err := e.emitExpression(sel.Where)
		if err != nil {
			return err
		}
		f.WriteLinef("WHERE %s", where)
	}
	if len(sel.GroupBy) > 0 {
		rendered, err := e.emitSortingItems(sel.GroupBy, false)
		if err != nil {
			return err
		}
		f.WriteLinef("GROUP BY %s", rendered)
	}
	if sel.Having != nil {
		having, err := e.emitExpression(sel.Having)
		if err != nil {
			return err
		}
		f.WriteLinef("HAVING %s", having)
	}
	if len(sel.OrderBy) > 0 {
		rendered, err := e.emitSortingItems(sel.OrderBy, true)
		if err != nil {
			return err
		}
		f.WriteLinef("ORDER BY %s", rendered)
	}
	if sel.Limit != nil && sel.Limit.Offset != nil {
		if len(sel.OrderBy) == 0 {
			f.WriteLine("ORDER BY (SELECT NULL)")
		}
		f.WriteLinef("OFFSET %d ROWS FETCH NEXT %d ROWS ONLY", *sel.Limit.Offset, sel.Limit.Count)
	}
	return f.Err()
}

func (e *emitter) emitSortingItems(items []*semantics.SortingItem, withOrder bool) (string, error) {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		rendered, err := e.emitExpression(item.Expr)
		if err != nil {
			return "", err
		}
		if withOrder {
			if item.Desc {
				rendered += " DESC"
			} else {
				rendered += " ASC"
			}
		}
		parts = append(parts, rendered)
	}
	return strings.Join(parts, ", "), nil
}

func (e *emitter) emitDataSource(line *formatter.LineFormatter, source semantics.DataSource) error {
	switch s := source.(type) {
	case *semantics.TableSource:
		line.Writef("%s.[%s] AS [%s]", e.ctx.params.Schema, e.tableObjectName(s.Table), s.Alias)
		return nil

	case *semantics.SelectionSource:
		line.Write("(")
		// Subqueries render inline on one logical line through a nested
		// buffer; T-SQL accepts the embedded newlines.
		var buffer strings.Builder
		code := formatter.NewCodeFormatter(&buffer)
		code.IndentSize = e.ctx.params.IndentSize
		if err := e.emitSelect(code.RootBlock(), s.Query); err != nil {
			return err
		}
		if err := code.Err(); err != nil {
			return err
		}
		line.Write(strings.TrimRight(buffer.String(), "\n"))
		line.Writef(") AS [%s]", s.Alias)
		return nil

	case *semantics.JoinSource:
		if err := e.emitDataSource(line, s.Left); err != nil {
			return err
		}
		line.Write(" " + joinKeyword(s.Type) + " ")
		if err := e.emitDataSource(line, s.Right); err != nil {
			return err
		}
		return e.emitJoinCondition(line, s)
	}
	return errUnknownVariant
}

func joinKeyword(joinType ast.JoinType) string {
	switch joinType {
	case ast.JoinLeft:
		return "LEFT JOIN"
	case ast.JoinRight:
		return "RIGHT JOIN"
	case ast.JoinFull:
		return "FULL JOIN"
	}
	return "CROSS JOIN"
}

// emitJoinCondition lowers on/using/natural conditions. T-SQL has no USING
// and no NATURAL; both become explicit column equalities between the
// leftmost alias of each side.
func (e *emitter) emitJoinCondition(line *formatter.LineFormatter, join *semantics.JoinSource) error {
	if join.Condition == nil {
		return nil
	}
	if join.Condition.Expr != nil {
		rendered, err := e.emitExpression(join.Condition.Expr)
		if err != nil {
			return err
		}
		line.Write(" ON " + rendered)
		return nil
	}

	leftAlias, leftType := firstSource(join.Left)
	rightAlias, rightType := firstSource(join.Right)
	var columns []string
	if join.Condition.Natural {
		columns = commonColumns(leftType, rightType)
	} else {
		for _, using := range join.Condition.Using {
			columns = append(columns, strings.Join(using, typesystem.PathSeparator))
		}
	}
	if len(columns) == 0 {
		line.Write(" ON 1 = 1")
		return nil
	}
	parts := make([]string, 0, len(columns))
	for _, column := range columns {
		parts = append(parts, fmt.Sprintf("[%s].[%s] = [%s].[%s]",
			leftAlias, column, rightAlias, column))
	}
	line.Write(" ON " + strings.Join(parts, " AND "))
	return nil
}

// firstSource returns the leftmost alias and row type of a source tree.
func firstSource(source semantics.DataSource) (string, typesystem.DataType) {
	switch s := source.(type) {
	case *semantics.TableSource:
		if table, ok := s.Table.GetTable(); ok {
			return s.Alias, table.EntityType()
		}
		return s.Alias, nil
	case *semantics.SelectionSource:
		rowType, _ := typesystem.AsArray(s.Query.ResultType)
		return s.Alias, rowType
	case *semantics.JoinSource:
		return firstSource(s.Left)
	}
	return "", nil
}

// commonColumns returns the flattened column names two row types share, in
// the left type's order.
func commonColumns(left, right typesystem.DataType) []string {
	leftCols := typesystem.AsTableType(left, typesystem.NewPath())
	rightCols := typesystem.AsTableType(right, typesystem.NewPath())
	rightSet := make(map[string]struct{}, len(rightCols))
	for _, column := range rightCols {
		rightSet[column.Path] = struct{}{}
	}
	var out []string
	for _, column := range leftCols {
		if _, ok := rightSet[column.Path]; ok {
			out = append(out, column.Path)
		}
	}
	return out
}

func (e *emitter) emitInsert(f formatter.BlockFormatter, insert *semantics.Inserting) error {
	object := fmt.Sprintf("%s.[%s]", e.ctx.params.Schema, e.tableObjectName(insert.Target.Table))

	columns := insert.Columns
	if len(columns) == 0 && len(insert.Assignments) > 0 {
		for _, assignment := range insert.Assignments {
			columns = append(columns, assignment.Property)
		}
	}
	names := make([]string, 0, len(columns))
	for _, column := range columns {
		names = append(names, columnName(column))
	}

	header := fmt.Sprintf("INSERT INTO %s", object)
	if len(names) > 0 {
		header += " (" + strings.Join(names, ", ") + ")"
	}

	switch {
	case len(insert.ValueLists) > 0:
		f.WriteLine(header)
		f.WriteLine("VALUES")
		sub := f.SubBlock()
		for i, list := range insert.ValueLists {
			values := make([]string, 0, len(list))
			for _, value := range list {
				rendered, err := e.emitExpression(value)
				if err != nil {
					return err
				}
				values = append(values, rendered)
			}
			suffix := ","
			if i+1 == len(insert.ValueLists) {
				suffix = ";"
			}
			sub.WriteLinef("(%s)%s", strings.Join(values, ", "), suffix)
		}

	case len(insert.Assignments) > 0:
		values := make([]string, 0, len(insert.Assignments))
		for _, assignment := range insert.Assignments {
			if assignment.Value == nil {
				values = append(values, "DEFAULT")
				continue
			}
			rendered, err := e.emitExpression(assignment.Value)
			if err != nil {
				return err
			}
			values = append(values, rendered)
		}
		f.WriteLine(header)
		f.WriteLinef("VALUES (%s);", strings.Join(values, ", "))

	case insert.Query != nil:
		f.WriteLine(header)
		if err := e.emitSelect(f, insert.Query); err != nil {
			return err
		}
		f.WriteLine(";")
	}
	return f.Err()
}

func (e *emitter) emitUpdate(f formatter.BlockFormatter, update *semantics.Updating) error {
	alias, _ := firstSource(update.Source)

	line := f.Line()
	line.Write("UPDATE")
	if update.Limit != nil {
		line.Writef(" TOP (%d)", update.Limit.Count)
	}
	line.Writef(" [%s]", alias)
	line.Close()

	assignments := make([]string, 0, len(update.Assignments))
	for _, assignment := range update.Assignments {
		value := "DEFAULT"
		if assignment.Value != nil {
			rendered, err := e.emitExpression(assignment.Value)
			if err != nil {
				return err
			}
			value = rendered
		}
		assignments = append(assignments, fmt.Sprintf("%s = %s", columnName(assignment.Property), value))
	}
	f.WriteLinef("SET %s", strings.Join(assignments, ", "))

	fromLine := f.Line()
	fromLine.Write("FROM ")
	if err := e.emitDataSource(fromLine, update.Source); err != nil {
		fromLine.Close()
		return err
	}
	fromLine.Close()

	if update.Where != nil {
		where, err := e.emitExpression(update.Where)
		if err != nil {
			return err
		}
		f.WriteLinef("WHERE %s", where)
	}
	f.WriteLine(";")
	return f.Err()
}

func (e *emitter) emitDelete(f formatter.BlockFormatter, del *semantics.Deleting) error {
	alias, _ := firstSource(del.Source)

	line := f.Line()
	line.Write("DELETE")
	if del.Limit != nil {
		line.Writef(" TOP (%d)", del.Limit.Count)
	}
	line.Writef(" [%s]", alias)
	line.Close()

	fromLine := f.Line()
	fromLine.Write("FROM ")
	if err := e.emitDataSource(fromLine, del.Source); err != nil {
		fromLine.Close()
		return err
	}
	fromLine.Close()

	if del.Where != nil {
		where, err := e.emitExpression(del.Where)
		if err != nil {
			return err
		}
		f.WriteLinef("WHERE %s", where)
	}
	f.WriteLine(";")
	return f.Err()
}
