package parser

import (
	"strconv"

	"github.com/funvibe/schemalang/internal/ast"
	"github.com/funvibe/schemalang/internal/token"
)

// parseSelectQuery parses a full selection with `select` as the current
// token.
func (p *Parser) parseSelectQuery() *ast.SelectQuery {
	query := &ast.SelectQuery{Token: p.curToken}

	switch p.peekToken.Type {
	case token.ALL:
		p.nextToken()
	case token.DISTINCT:
		p.nextToken()
		query.Distinct = true
	}

	if p.peekTokenIs(token.ASTERISK) {
		p.nextToken()
		query.All = true
	} else {
		for {
			p.nextToken()
			item := &ast.SelectExpressionItem{Token: p.curToken}
			expr := p.parseExpression(LOWEST)
			if expr == nil {
				return nil
			}
			item.Expr = expr
			if p.peekTokenIs(token.AS) {
				p.nextToken()
				if !p.expectPeek(token.IDENT) {
					return nil
				}
				item.Alias = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
			}
			query.Items = append(query.Items, item)
			if !p.peekTokenIs(token.COMMA) {
				break
			}
			p.nextToken()
		}
	}

	if !p.expectPeek(token.FROM) {
		return nil
	}
	p.nextToken()
	from := p.parseDataSource()
	if from == nil {
		return nil
	}
	query.From = from

	if p.peekTokenIs(token.WHERE) {
		p.nextToken()
		p.nextToken()
		where := p.parseExpression(LOWEST)
		if where == nil {
			return nil
		}
		query.Where = where
	}
	if p.peekTokenIs(token.GROUP) {
		p.nextToken()
		if !p.expectPeek(token.BY) {
			return nil
		}
		items := p.parseSortingItems()
		if items == nil {
			return nil
		}
		query.GroupBy = items
	}
	if p.peekTokenIs(token.HAVING) {
		p.nextToken()
		p.nextToken()
		having := p.parseExpression(LOWEST)
		if having == nil {
			return nil
		}
		query.Having = having
	}
	if p.peekTokenIs(token.ORDER) {
		p.nextToken()
		if !p.expectPeek(token.BY) {
			return nil
		}
		items := p.parseSortingItems()
		if items == nil {
			return nil
		}
		query.OrderBy = items
	}
	if p.peekTokenIs(token.LIMIT) {
		p.nextToken()
		limit := p.parseLimit()
		if limit == nil {
			return nil
		}
		query.Limit = limit
	}
	return query
}

// parseSortingItems parses `expr (asc|desc)?` comma lists, with `by` as the
// current token.
func (p *Parser) parseSortingItems() []*ast.SortingItem {
	var items []*ast.SortingItem
	for {
		p.nextToken()
		item := &ast.SortingItem{Token: p.curToken}
		expr := p.parseExpression(LOWEST)
		if expr == nil {
			return nil
		}
		item.Expr = expr
		switch p.peekToken.Type {
		case token.ASC:
			p.nextToken()
		case token.DESC:
			p.nextToken()
			item.Order = ast.SortDesc
		}
		items = append(items, item)
		if !p.peekTokenIs(token.COMMA) {
			return items
		}
		p.nextToken()
	}
}

// parseLimit parses `limit n`, `limit offset, n`, `limit n offset m`, with
// `limit` as the current token.
func (p *Parser) parseLimit() *ast.Limit {
	limit := &ast.Limit{Token: p.curToken}
	if !p.expectPeek(token.INT) {
		return nil
	}
	first := p.parseU32()
	if p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if !p.expectPeek(token.INT) {
			return nil
		}
		limit.Offset = &first
		limit.Count = p.parseU32()
		return limit
	}
	if p.peekTokenIs(token.OFFSET) {
		p.nextToken()
		if !p.expectPeek(token.INT) {
			return nil
		}
		offset := p.parseU32()
		limit.Offset = &offset
	}
	limit.Count = first
	return limit
}

func (p *Parser) parseU32() uint32 {
	value, _ := strconv.ParseUint(p.curToken.Lexeme, 10, 32)
	return uint32(value)
}

// parseDataSource parses a join chain with the first source's first token as
// the current token.
func (p *Parser) parseDataSource() ast.DataSource {
	origin := p.parseJoinSource()
	if origin == nil {
		return nil
	}
	for {
		tail, stop := p.parseJoinTail(origin)
		if stop {
			return origin
		}
		if tail == nil {
			return nil
		}
		origin = tail
	}
}

func (p *Parser) parseJoinSource() ast.DataSource {
	if p.curTokenIs(token.LPAREN) {
		if p.peekTokenIs(token.SELECT) {
			source := &ast.SelectionSource{Token: p.curToken}
			p.nextToken()
			query := p.parseSelectQuery()
			if query == nil {
				return nil
			}
			source.Query = query
			if !p.expectPeek(token.RPAREN) {
				return nil
			}
			if p.peekTokenIs(token.AS) {
				p.nextToken()
			}
			if !p.expectPeek(token.IDENT) {
				return nil
			}
			source.Alias = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
			return source
		}
		p.nextToken()
		inner := p.parseDataSource()
		if inner == nil {
			return nil
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return inner
	}

	return p.parseTableSource()
}

func (p *Parser) parseTableSource() ast.DataSource {
	if !p.curTokenIs(token.IDENT) {
		p.peekError(token.IDENT)
		return nil
	}
	source := &ast.TableSource{Token: p.curToken}
	path := &ast.Path{Token: p.curToken, Segments: []string{p.curToken.Lexeme}}
	for p.peekTokenIs(token.PATH_SEP) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		path.Segments = append(path.Segments, p.curToken.Lexeme)
	}
	source.Name = path
	if p.peekTokenIs(token.IDENT) {
		p.nextToken()
		source.Alias = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	}
	return source
}

// parseJoinTail attaches one join clause to left. stop=true means no more
// join syntax follows.
func (p *Parser) parseJoinTail(left ast.DataSource) (ast.DataSource, bool) {
	natural := false
	joinType := ast.JoinCross
	explicit := false

	switch p.peekToken.Type {
	case token.NATURAL:
		p.nextToken()
		natural = true
		switch p.peekToken.Type {
		case token.LEFT:
			joinType = ast.JoinLeft
		case token.RIGHT:
			joinType = ast.JoinRight
		case token.FULL:
			joinType = ast.JoinFull
		default:
			p.peekError(token.JOIN)
			return nil, false
		}
		p.nextToken()
		explicit = true
	case token.LEFT:
		p.nextToken()
		joinType = ast.JoinLeft
		explicit = true
	case token.RIGHT:
		p.nextToken()
		joinType = ast.JoinRight
		explicit = true
	case token.FULL:
		p.nextToken()
		joinType = ast.JoinFull
		explicit = true
	case token.INNER, token.CROSS:
		p.nextToken()
		explicit = true
	case token.JOIN:
		// bare join
	case token.COMMA:
		p.nextToken()
		p.nextToken()
		right := p.parseJoinSource()
		if right == nil {
			return nil, false
		}
		return &ast.JoinSource{Token: p.curToken, Type: ast.JoinCross, Left: left, Right: right}, false
	default:
		return nil, true
	}

	if explicit && p.peekTokenIs(token.OUTER) {
		p.nextToken()
	}
	if !p.expectPeek(token.JOIN) {
		return nil, false
	}
	joinTok := p.curToken
	p.nextToken()
	right := p.parseJoinSource()
	if right == nil {
		return nil, false
	}
	join := &ast.JoinSource{Token: joinTok, Type: joinType, Left: left, Right: right}
	if natural {
		join.Condition = &ast.JoinCondition{Token: joinTok, Natural: true}
	} else if condition := p.parseJoinCondition(); condition != nil {
		join.Condition = condition
	}
	return join, false
}

// parseJoinCondition parses an optional `on expr` or `using (cols)`.
func (p *Parser) parseJoinCondition() *ast.JoinCondition {
	switch p.peekToken.Type {
	case token.ON:
		p.nextToken()
		condition := &ast.JoinCondition{Token: p.curToken}
		p.nextToken()
		expr := p.parseExpression(LOWEST)
		if expr == nil {
			return nil
		}
		condition.Expr = expr
		return condition
	case token.USING:
		p.nextToken()
		condition := &ast.JoinCondition{Token: p.curToken}
		if !p.expectPeek(token.LPAREN) {
			return nil
		}
		for {
			if !p.expectPeek(token.IDENT) {
				return nil
			}
			path := &ast.PropertyPath{Token: p.curToken, Segments: []string{p.curToken.Lexeme}}
			for p.peekTokenIs(token.DOT) {
				p.nextToken()
				if !p.expectPeek(token.IDENT) {
					return nil
				}
				path.Segments = append(path.Segments, p.curToken.Lexeme)
			}
			condition.Using = append(condition.Using, path)
			if !p.peekTokenIs(token.COMMA) {
				break
			}
			p.nextToken()
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return condition
	}
	return nil
}

func (p *Parser) parseInsertStatement() ast.Statement {
	stmt := &ast.InsertStatement{Token: p.curToken}
	if p.peekTokenIs(token.IGNORE) {
		p.nextToken()
		stmt.Ignore = true
	}
	if !p.expectPeek(token.INTO) {
		return nil
	}
	p.nextToken()
	target := p.parseTableSource()
	if target == nil {
		return nil
	}
	stmt.Target = target

	source := &ast.InsertSource{Token: p.peekToken}
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		for {
			if !p.expectPeek(token.IDENT) {
				return nil
			}
			path := &ast.PropertyPath{Token: p.curToken, Segments: []string{p.curToken.Lexeme}}
			for p.peekTokenIs(token.DOT) {
				p.nextToken()
				if !p.expectPeek(token.IDENT) {
					return nil
				}
				path.Segments = append(path.Segments, p.curToken.Lexeme)
			}
			source.Columns = append(source.Columns, path)
			if !p.peekTokenIs(token.COMMA) {
				break
			}
			p.nextToken()
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
	}

	switch p.peekToken.Type {
	case token.VALUES:
		p.nextToken()
		for {
			if !p.expectPeek(token.LPAREN) {
				return nil
			}
			var list []ast.Expression
			for !p.peekTokenIs(token.RPAREN) {
				p.nextToken()
				expr := p.parseExpression(LOWEST)
				if expr == nil {
					return nil
				}
				list = append(list, expr)
				if p.peekTokenIs(token.COMMA) {
					p.nextToken()
				} else if !p.peekTokenIs(token.RPAREN) {
					p.peekError(token.RPAREN)
					return nil
				}
			}
			p.nextToken() // )
			source.ValueLists = append(source.ValueLists, list)
			if !p.peekTokenIs(token.COMMA) {
				break
			}
			p.nextToken()
		}
	case token.SET:
		p.nextToken()
		assignments := p.parseUpdatingAssignments()
		if assignments == nil {
			return nil
		}
		source.Assignments = assignments
	case token.SELECT:
		p.nextToken()
		query := p.parseSelectQuery()
		if query == nil {
			return nil
		}
		source.Query = query
	default:
		p.peekError(token.VALUES)
		return nil
	}
	stmt.Source = source
	return stmt
}

// parseUpdatingAssignments parses `prop = expr | prop = default` comma
// lists, with `set` as the current token.
func (p *Parser) parseUpdatingAssignments() []*ast.UpdatingAssignment {
	var assignments []*ast.UpdatingAssignment
	for {
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		assignment := &ast.UpdatingAssignment{Token: p.curToken}
		path := &ast.PropertyPath{Token: p.curToken, Segments: []string{p.curToken.Lexeme}}
		for p.peekTokenIs(token.DOT) {
			p.nextToken()
			if !p.expectPeek(token.IDENT) {
				return nil
			}
			path.Segments = append(path.Segments, p.curToken.Lexeme)
		}
		assignment.Property = path
		if !p.expectPeek(token.ASSIGN) {
			return nil
		}
		if p.peekTokenIs(token.DEFAULT) {
			p.nextToken()
		} else {
			p.nextToken()
			value := p.parseExpression(LOWEST)
			if value == nil {
				return nil
			}
			assignment.Value = value
		}
		assignments = append(assignments, assignment)
		if !p.peekTokenIs(token.COMMA) {
			return assignments
		}
		p.nextToken()
	}
}

func (p *Parser) parseUpdateStatement() ast.Statement {
	stmt := &ast.UpdateStatement{Token: p.curToken}
	if p.peekTokenIs(token.IGNORE) {
		p.nextToken()
		stmt.Ignore = true
	}
	p.nextToken()
	source := p.parseDataSource()
	if source == nil {
		return nil
	}
	stmt.Source = source
	if !p.expectPeek(token.SET) {
		return nil
	}
	assignments := p.parseUpdatingAssignments()
	if assignments == nil {
		return nil
	}
	stmt.Assignments = assignments
	if p.peekTokenIs(token.WHERE) {
		p.nextToken()
		p.nextToken()
		where := p.parseExpression(LOWEST)
		if where == nil {
			return nil
		}
		stmt.Where = where
	}
	if p.peekTokenIs(token.LIMIT) {
		p.nextToken()
		limit := p.parseLimit()
		if limit == nil {
			return nil
		}
		stmt.Limit = limit
	}
	return stmt
}

func (p *Parser) parseDeleteStatement() ast.Statement {
	stmt := &ast.DeleteStatement{Token: p.curToken}
	if !p.expectPeek(token.FROM) {
		return nil
	}
	p.nextToken()
	source := p.parseDataSource()
	if source == nil {
		return nil
	}
	stmt.Source = source
	if p.peekTokenIs(token.WHERE) {
		p.nextToken()
		p.nextToken()
		where := p.parseExpression(LOWEST)
		if where == nil {
			return nil
		}
		stmt.Where = where
	}
	if p.peekTokenIs(token.LIMIT) {
		p.nextToken()
		limit := p.parseLimit()
		if limit == nil {
			return nil
		}
		stmt.Limit = limit
	}
	return stmt
}
