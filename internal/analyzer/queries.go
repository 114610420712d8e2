package analyzer

import (
	"strconv"

	"github.com/funvibe/schemalang/internal/ast"
	"github.com/funvibe/schemalang/internal/diagnostics"
	"github.com/funvibe/schemalang/internal/semantics"
	"github.com/funvibe/schemalang/internal/token"
	"github.com/funvibe/schemalang/internal/typesystem"
)

// queryNamespace binds data-source aliases to their row structures for the
// duration of one query. Registration order decides `*` expansion order and
// unqualified-column search order.
type queryNamespace struct {
	order   []string
	sources map[string]typesystem.DataType
}

func newQueryNamespace() *queryNamespace {
	return &queryNamespace{sources: make(map[string]typesystem.DataType)}
}

func (q *queryNamespace) add(alias string, rowType typesystem.DataType) bool {
	if _, ok := q.sources[alias]; ok {
		return false
	}
	q.order = append(q.order, alias)
	q.sources[alias] = rowType
	return true
}

// resolveColumn resolves a dotted name against the namespace. ok=false with
// no errors means "not a column, try variables".
func (q *queryNamespace) resolveColumn(tok token.Token, head string, tail []string) (*semantics.Expression, bool, diagnostics.List) {
	if rowType, ok := q.sources[head]; ok {
		if len(tail) == 0 {
			return &semantics.Expression{
				Type: rowType,
				Pos:  tok,
				Body: &semantics.ColumnExpr{SourceAlias: head},
			}, true, nil
		}
		columnType, ok := typesystem.PropertyType(rowType, tail)
		if !ok {
			return nil, true, diagnostics.List{diagnostics.New(
				diagnostics.ErrUnknownProperty, tok, rowType.String(), joinPath(tail))}
		}
		return &semantics.Expression{
			Type: columnType,
			Pos:  tok,
			Body: &semantics.ColumnExpr{SourceAlias: head, Path: tail},
		}, true, nil
	}

	// Unqualified: the column must exist in exactly one source.
	var found *semantics.Expression
	path := append([]string{head}, tail...)
	for _, alias := range q.order {
		columnType, ok := typesystem.PropertyType(q.sources[alias], path)
		if !ok {
			continue
		}
		if found != nil {
			return nil, true, diagnostics.List{diagnostics.New(
				diagnostics.ErrDuplicateDefinition, tok, "column", head)}
		}
		found = &semantics.Expression{
			Type: columnType,
			Pos:  tok,
			Body: &semantics.ColumnExpr{SourceAlias: alias, Path: path},
		}
	}
	if found == nil {
		return nil, false, nil
	}
	return found, true, nil
}

func (a *Analyzer) resolveDataSource(ctx stmtContext, src ast.DataSource, ns *queryNamespace) (semantics.DataSource, diagnostics.List) {
	switch def := src.(type) {
	case *ast.TableSource:
		table, errs := a.resolveTableSource(ctx, def, ns)
		if table == nil {
			return nil, errs
		}
		return table, errs

	case *ast.JoinSource:
		left, errs := a.resolveDataSource(ctx, def.Left, ns)
		right, rightErrs := a.resolveDataSource(ctx, def.Right, ns)
		errs = append(errs, rightErrs...)
		if left == nil || right == nil {
			return nil, errs
		}
		join := &semantics.JoinSource{Type: def.Type, Left: left, Right: right}
		if def.Condition != nil {
			cond := &semantics.JoinCondition{Natural: def.Condition.Natural}
			if def.Condition.Expr != nil {
				expr, condErrs := a.resolveExpression(ctx.withQuery(ns), def.Condition.Expr)
				errs = append(errs, condErrs...)
				if expr == nil {
					return nil, errs
				}
				if !typesystem.ShouldCastTo(expr.Type, typesystem.BooleanType) {
					errs.Append(diagnostics.New(
						diagnostics.ErrTypeMismatch, expr.Pos, expr.Type.String(), "boolean"))
					return nil, errs
				}
				cond.Expr = expr
			}
			for _, using := range def.Condition.Using {
				cond.Using = append(cond.Using, using.Segments)
			}
			join.Condition = cond
		}
		return join, errs

	case *ast.SelectionSource:
		sub, errs := a.resolveSelect(ctx, def.Query)
		if sub == nil {
			return nil, errs
		}
		alias := def.Alias.Value
		rowType, _ := typesystem.AsArray(sub.ResultType)
		if !ns.add(alias, rowType) {
			errs.Append(diagnostics.New(
				diagnostics.ErrDuplicateDefinition, def.GetToken(), "data source", alias))
			return nil, errs
		}
		return &semantics.SelectionSource{Query: sub, Alias: alias}, errs
	}
	return nil, diagnostics.List{diagnostics.New(
		diagnostics.ErrNotSupportedYet, src.GetToken(), "data source form")}
}

func (a *Analyzer) resolveTableSource(ctx stmtContext, def *ast.TableSource, ns *queryNamespace) (*semantics.TableSource, diagnostics.List) {
	item, ok := a.lookupPath(ctx.mod, def.Name.Segments)
	if !ok {
		return nil, a.deferOrReport(diagnostics.New(
			diagnostics.ErrUnresolvedItem, def.GetToken(), def.Name.String()))
	}
	table, ok := item.GetTable()
	if !ok {
		if !item.Final().Resolved() {
			return nil, a.deferOrReport(diagnostics.New(
				diagnostics.ErrUnresolvedItem, def.GetToken(), def.Name.String()))
		}
		return nil, diagnostics.List{diagnostics.New(
			diagnostics.ErrExpectedItemOfAnotherType,
			def.GetToken(),
			semantics.KindTable.String(), item.Kind().String(),
		)}
	}
	alias := def.Name.Last()
	if def.Alias != nil {
		alias = def.Alias.Value
	}
	var errs diagnostics.List
	if ns != nil && !ns.add(alias, table.EntityType()) {
		errs.Append(diagnostics.New(
			diagnostics.ErrDuplicateDefinition, def.GetToken(), "data source", alias))
		return nil, errs
	}
	return &semantics.TableSource{Table: item.Final(), Alias: alias}, errs
}

func (a *Analyzer) resolveSelect(ctx stmtContext, def *ast.SelectQuery) (*semantics.Selection, diagnostics.List) {
	ns := newQueryNamespace()
	source, errs := a.resolveDataSource(ctx, def.From, ns)
	if source == nil {
		return nil, errs
	}
	queryCtx := ctx.withQuery(ns)

	selection := &semantics.Selection{
		Pos:      def.GetToken(),
		Distinct: def.Distinct,
		All:      def.All,
		Source:   source,
	}

	resultFields := typesystem.NewFields()
	if def.All {
		// `*` concatenates every source's row structure in source order.
		for _, alias := range ns.order {
			if rowStruct, ok := typesystem.AsStructure(ns.sources[alias]); ok {
				rowStruct.Fields().Each(func(name string, field *typesystem.Field) {
					resultFields.Add(name, field)
				})
			}
		}
	} else {
		for i, item := range def.Items {
			expr, itemErrs := a.resolveExpression(queryCtx, item.Expr)
			errs = append(errs, itemErrs...)
			if expr == nil {
				continue
			}
			name := deriveColumnName(item, i)
			if !resultFields.Add(name, &typesystem.Field{Type: expr.Type}) {
				errs.Append(diagnostics.New(
					diagnostics.ErrDuplicateDefinition, item.Expr.GetToken(), "column", name))
				continue
			}
			selection.Items = append(selection.Items, &semantics.SelectionItem{Expr: expr, Alias: name})
		}
		if len(selection.Items) != len(def.Items) {
			return nil, errs
		}
	}

	if def.Where != nil {
		where, whereErrs := a.resolveBooleanExpr(queryCtx, def.Where)
		errs = append(errs, whereErrs...)
		if where == nil {
			return nil, errs
		}
		selection.Where = where
	}
	for _, groupItem := range def.GroupBy {
		expr, groupErrs := a.resolveExpression(queryCtx, groupItem.Expr)
		errs = append(errs, groupErrs...)
		if expr == nil {
			return nil, errs
		}
		selection.GroupBy = append(selection.GroupBy, &semantics.SortingItem{
			Expr: expr, Desc: groupItem.Order == ast.SortDesc})
	}
	if def.Having != nil {
		having, havingErrs := a.resolveBooleanExpr(queryCtx, def.Having)
		errs = append(errs, havingErrs...)
		if having == nil {
			return nil, errs
		}
		selection.Having = having
	}
	for _, orderItem := range def.OrderBy {
		expr, orderErrs := a.resolveExpression(queryCtx, orderItem.Expr)
		errs = append(errs, orderErrs...)
		if expr == nil {
			return nil, errs
		}
		selection.OrderBy = append(selection.OrderBy, &semantics.SortingItem{
			Expr: expr, Desc: orderItem.Order == ast.SortDesc})
	}
	if def.Limit != nil {
		selection.Limit = &semantics.Limit{Count: def.Limit.Count, Offset: def.Limit.Offset}
	}

	selection.ResultType = &typesystem.Array{Element: typesystem.NewStructure(resultFields)}
	return selection, errs
}

func deriveColumnName(item *ast.SelectExpressionItem, index int) string {
	if item.Alias != nil {
		return item.Alias.Value
	}
	if prop, ok := item.Expr.(*ast.PropertyExpression); ok {
		return prop.Path.Segments[len(prop.Path.Segments)-1]
	}
	if ident, ok := item.Expr.(*ast.Identifier); ok {
		return ident.Value
	}
	return "column_" + strconv.Itoa(index)
}

func (a *Analyzer) resolveBooleanExpr(ctx stmtContext, e ast.Expression) (*semantics.Expression, diagnostics.List) {
	expr, errs := a.resolveExpression(ctx, e)
	if expr == nil {
		return nil, errs
	}
	if !typesystem.ShouldCastTo(expr.Type, typesystem.BooleanType) {
		errs.Append(diagnostics.New(
			diagnostics.ErrTypeMismatch, expr.Pos, expr.Type.String(), "boolean"))
		return nil, errs
	}
	return expr, errs
}

func (a *Analyzer) resolveInsert(ctx stmtContext, def *ast.InsertStatement) (*semantics.Inserting, diagnostics.List) {
	target, errs := a.requireTableTarget(ctx, def.Target)
	if target == nil {
		return nil, errs
	}
	table, _ := target.Table.GetTable()

	inserting := &semantics.Inserting{
		Pos:    def.GetToken(),
		Ignore: def.Ignore,
		Target: target,
	}

	switch {
	case len(def.Source.ValueLists) > 0:
		columns, columnTypes, colErrs := a.insertColumns(table, def.Source.Columns, def.GetToken())
		errs = append(errs, colErrs...)
		if columns == nil {
			return nil, errs
		}
		inserting.Columns = columns
		for _, list := range def.Source.ValueLists {
			if len(list) != len(columnTypes) {
				errs.Append(diagnostics.New(
					diagnostics.ErrArgumentCount, def.GetToken(),
					table.Name, len(columnTypes), len(list)))
				return nil, errs
			}
			row := make([]*semantics.Expression, 0, len(list))
			for i, valueAST := range list {
				value, valueErrs := a.resolveExpression(ctx, valueAST)
				errs = append(errs, valueErrs...)
				if value == nil {
					continue
				}
				if !typesystem.ShouldCastTo(value.Type, columnTypes[i]) {
					errs.Append(diagnostics.New(
						diagnostics.ErrTypeMismatch, value.Pos,
						value.Type.String(), columnTypes[i].String()))
					continue
				}
				row = append(row, value)
			}
			if len(row) != len(list) {
				return nil, errs
			}
			inserting.ValueLists = append(inserting.ValueLists, row)
		}

	case len(def.Source.Assignments) > 0:
		assignments, assignErrs := a.resolveTableAssignments(ctx, table, def.Source.Assignments, nil)
		errs = append(errs, assignErrs...)
		if assignments == nil {
			return nil, errs
		}
		inserting.Assignments = assignments

	case def.Source.Query != nil:
		columns, columnTypes, colErrs := a.insertColumns(table, def.Source.Columns, def.GetToken())
		errs = append(errs, colErrs...)
		if columns == nil {
			return nil, errs
		}
		inserting.Columns = columns
		query, queryErrs := a.resolveSelect(ctx, def.Source.Query)
		errs = append(errs, queryErrs...)
		if query == nil {
			return nil, errs
		}
		rowType, _ := typesystem.AsArray(query.ResultType)
		rowStruct, _ := typesystem.AsStructure(rowType)
		if rowStruct == nil || rowStruct.Fields().Len() != len(columnTypes) {
			errs.Append(diagnostics.New(
				diagnostics.ErrTypeMismatch, query.Pos,
				query.ResultType.String(), table.EntityType().String()))
			return nil, errs
		}
		i := 0
		mismatch := false
		rowStruct.Fields().Each(func(_ string, field *typesystem.Field) {
			if !typesystem.ShouldCastTo(field.Type, columnTypes[i]) {
				mismatch = true
			}
			i++
		})
		if mismatch {
			errs.Append(diagnostics.New(
				diagnostics.ErrTypeMismatch, query.Pos,
				query.ResultType.String(), table.EntityType().String()))
			return nil, errs
		}
		inserting.Query = query

	default:
		errs.Append(diagnostics.New(
			diagnostics.ErrNotAllowedHere, def.GetToken(), "insert without a source"))
		return nil, errs
	}
	return inserting, errs
}

// insertColumns returns the target column paths and their types: the
// explicit column list, or every table column in definition order.
func (a *Analyzer) insertColumns(table *semantics.TableDefinition, explicit []*ast.PropertyPath, pos token.Token) ([][]string, []typesystem.DataType, diagnostics.List) {
	var errs diagnostics.List
	if len(explicit) == 0 {
		var columns [][]string
		var types []typesystem.DataType
		table.Body.Each(func(name string, field *typesystem.Field) {
			columns = append(columns, []string{name})
			types = append(types, field.Type)
		})
		return columns, types, nil
	}
	columns := make([][]string, 0, len(explicit))
	types := make([]typesystem.DataType, 0, len(explicit))
	for _, path := range explicit {
		columnType, ok := typesystem.PropertyType(table.EntityType(), path.Segments)
		if !ok {
			errs.Append(diagnostics.New(
				diagnostics.ErrUnknownProperty, path.GetToken(),
				table.Name, path.String()))
			continue
		}
		columns = append(columns, path.Segments)
		types = append(types, columnType)
	}
	if len(columns) != len(explicit) {
		return nil, nil, errs
	}
	return columns, types, errs
}

// resolveTableAssignments checks `col = expr` lists against the table's
// columns. queryCtx, when non-nil, is used to resolve the value expressions
// (update can reference source columns); otherwise the plain context is
// used.
func (a *Analyzer) resolveTableAssignments(ctx stmtContext, table *semantics.TableDefinition, assignments []*ast.UpdatingAssignment, queryCtx *stmtContext) ([]*semantics.Assignment, diagnostics.List) {
	var errs diagnostics.List
	out := make([]*semantics.Assignment, 0, len(assignments))
	valueCtx := ctx
	if queryCtx != nil {
		valueCtx = *queryCtx
	}
	for _, assign := range assignments {
		columnType, ok := typesystem.PropertyType(table.EntityType(), assign.Property.Segments)
		if !ok {
			errs.Append(diagnostics.New(
				diagnostics.ErrUnknownProperty, assign.Property.GetToken(),
				table.Name, assign.Property.String()))
			continue
		}
		resolved := &semantics.Assignment{Property: assign.Property.Segments}
		if assign.Value != nil {
			value, valueErrs := a.resolveExpression(valueCtx, assign.Value)
			errs = append(errs, valueErrs...)
			if value == nil {
				continue
			}
			if !typesystem.ShouldCastTo(value.Type, columnType) {
				errs.Append(diagnostics.New(
					diagnostics.ErrTypeMismatch, value.Pos,
					value.Type.String(), columnType.String()))
				continue
			}
			resolved.Value = value
		}
		out = append(out, resolved)
	}
	if len(out) != len(assignments) {
		return nil, errs
	}
	return out, errs
}

func (a *Analyzer) requireTableTarget(ctx stmtContext, src ast.DataSource) (*semantics.TableSource, diagnostics.List) {
	tableAST, ok := src.(*ast.TableSource)
	if !ok {
		return nil, diagnostics.List{diagnostics.New(
			diagnostics.ErrNotAllowedHere, src.GetToken(), "non-table target")}
	}
	return a.resolveTableSource(ctx, tableAST, nil)
}

func (a *Analyzer) resolveUpdate(ctx stmtContext, def *ast.UpdateStatement) (*semantics.Updating, diagnostics.List) {
	ns := newQueryNamespace()
	source, errs := a.resolveDataSource(ctx, def.Source, ns)
	if source == nil {
		return nil, errs
	}
	table, ok := updatedTable(source)
	if !ok {
		errs.Append(diagnostics.New(
			diagnostics.ErrNotAllowedHere, def.GetToken(), "update of a non-table source"))
		return nil, errs
	}
	queryCtx := ctx.withQuery(ns)
	assignments, assignErrs := a.resolveTableAssignments(ctx, table, def.Assignments, &queryCtx)
	errs = append(errs, assignErrs...)
	if assignments == nil {
		return nil, errs
	}
	updating := &semantics.Updating{
		Pos:         def.GetToken(),
		Ignore:      def.Ignore,
		Source:      source,
		Assignments: assignments,
	}
	if def.Where != nil {
		where, whereErrs := a.resolveBooleanExpr(queryCtx, def.Where)
		errs = append(errs, whereErrs...)
		if where == nil {
			return nil, errs
		}
		updating.Where = where
	}
	if def.Limit != nil {
		updating.Limit = &semantics.Limit{Count: def.Limit.Count, Offset: def.Limit.Offset}
	}
	return updating, errs
}

// updatedTable digs the leftmost table out of an update/delete source.
func updatedTable(source semantics.DataSource) (*semantics.TableDefinition, bool) {
	switch s := source.(type) {
	case *semantics.TableSource:
		return s.Table.GetTable()
	case *semantics.JoinSource:
		return updatedTable(s.Left)
	}
	return nil, false
}

func (a *Analyzer) resolveDelete(ctx stmtContext, def *ast.DeleteStatement) (*semantics.Deleting, diagnostics.List) {
	ns := newQueryNamespace()
	source, errs := a.resolveDataSource(ctx, def.Source, ns)
	if source == nil {
		return nil, errs
	}
	queryCtx := ctx.withQuery(ns)
	deleting := &semantics.Deleting{Pos: def.GetToken(), Source: source}
	if def.Where != nil {
		where, whereErrs := a.resolveBooleanExpr(queryCtx, def.Where)
		errs = append(errs, whereErrs...)
		if where == nil {
			return nil, errs
		}
		deleting.Where = where
	}
	if def.Limit != nil {
		deleting.Limit = &semantics.Limit{Count: def.Limit.Count, Offset: def.Limit.Offset}
	}
	return deleting, errs
}
