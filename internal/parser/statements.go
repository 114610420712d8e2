package parser

import (
	"github.com/funvibe/schemalang/internal/ast"
	"github.com/funvibe/schemalang/internal/token"
)

// parseStatement parses one statement with the current token at its start.
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.LET:
		return p.parseLetStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.LOOP:
		return p.parseSimpleCycle()
	case token.WHILE:
		return p.parseWhileCycle()
	case token.DO:
		return p.parseDoWhileCycle()
	case token.BREAK, token.CONTINUE:
		return p.parseCycleControl()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.LBRACE:
		block := p.parseBlockStatement()
		if block == nil {
			return nil
		}
		return block
	case token.SELECT:
		tok := p.curToken
		query := p.parseSelectQuery()
		if query == nil {
			return nil
		}
		return &ast.SelectStatement{Token: tok, Query: query}
	case token.INSERT:
		return p.parseInsertStatement()
	case token.UPDATE:
		return p.parseUpdateStatement()
	case token.DELETE:
		return p.parseDeleteStatement()
	case token.IDENT:
		if p.looksLikeAssignment() {
			return p.parseAssignStatement()
		}
		return p.parseExpressionStatement()
	default:
		return p.parseExpressionStatement()
	}
}

// looksLikeAssignment checks for IDENT (DOT IDENT)* ASSIGN ahead of the
// current identifier, which distinguishes `x.y = e` from the expression
// `x.y == e`.
func (p *Parser) looksLikeAssignment() bool {
	if p.peekTokenIs(token.ASSIGN) {
		return true
	}
	offset := 0
	for {
		if p.peekAt(offset).Type != token.DOT {
			return false
		}
		if p.peekAt(offset+1).Type != token.IDENT {
			return false
		}
		offset += 2
		if p.peekAt(offset).Type == token.ASSIGN {
			return true
		}
	}
}

func (p *Parser) parseLetStatement() ast.Statement {
	stmt := &ast.LetStatement{Token: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		declared := p.parseType()
		if declared == nil {
			return nil
		}
		stmt.Type = declared
	}
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		value := p.parseSource()
		if value == nil {
			return nil
		}
		stmt.Value = value
	}
	return stmt
}

func (p *Parser) parseAssignStatement() ast.Statement {
	stmt := &ast.AssignStatement{Token: p.curToken}
	path := &ast.PropertyPath{Token: p.curToken, Segments: []string{p.curToken.Lexeme}}
	for p.peekTokenIs(token.DOT) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		path.Segments = append(path.Segments, p.curToken.Lexeme)
	}
	stmt.Path = path
	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	value := p.parseSource()
	if value == nil {
		return nil
	}
	stmt.Value = value
	return stmt
}

// parseSource parses a binding right-hand side: a select query or an
// expression.
func (p *Parser) parseSource() ast.Source {
	if p.curTokenIs(token.SELECT) {
		query := p.parseSelectQuery()
		if query == nil {
			return nil
		}
		return query
	}
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	source, ok := expr.(ast.Source)
	if !ok {
		return nil
	}
	return source
}

func (p *Parser) parseIfStatement() ast.Statement {
	stmt := &ast.IfStatement{Token: p.curToken}
	p.nextToken()
	condition := p.parseExpression(LOWEST)
	if condition == nil {
		return nil
	}
	stmt.Condition = condition
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	then := p.parseBlockStatement()
	if then == nil {
		return nil
	}
	stmt.Then = then
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		if p.peekTokenIs(token.IF) {
			p.nextToken()
			elseStmt := p.parseIfStatement()
			if elseStmt == nil {
				return nil
			}
			stmt.Else = elseStmt
			return stmt
		}
		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		elseBlock := p.parseBlockStatement()
		if elseBlock == nil {
			return nil
		}
		stmt.Else = elseBlock
	}
	return stmt
}

func (p *Parser) parseSimpleCycle() ast.Statement {
	stmt := &ast.CycleStatement{Token: p.curToken, Kind: ast.CycleSimple}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	body := p.parseBlockStatement()
	if body == nil {
		return nil
	}
	stmt.Body = body
	return stmt
}

func (p *Parser) parseWhileCycle() ast.Statement {
	stmt := &ast.CycleStatement{Token: p.curToken, Kind: ast.CyclePrePredicated}
	p.nextToken()
	predicate := p.parseExpression(LOWEST)
	if predicate == nil {
		return nil
	}
	stmt.Predicate = predicate
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	body := p.parseBlockStatement()
	if body == nil {
		return nil
	}
	stmt.Body = body
	return stmt
}

func (p *Parser) parseDoWhileCycle() ast.Statement {
	stmt := &ast.CycleStatement{Token: p.curToken, Kind: ast.CyclePostPredicated}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	body := p.parseBlockStatement()
	if body == nil {
		return nil
	}
	stmt.Body = body
	if !p.expectPeek(token.WHILE) {
		return nil
	}
	p.nextToken()
	predicate := p.parseExpression(LOWEST)
	if predicate == nil {
		return nil
	}
	stmt.Predicate = predicate
	return stmt
}

func (p *Parser) parseCycleControl() ast.Statement {
	stmt := &ast.CycleControlStatement{
		Token: p.curToken,
		Break: p.curTokenIs(token.BREAK),
	}
	// A following identifier is a reserved cycle label.
	if p.peekTokenIs(token.IDENT) {
		p.nextToken()
		stmt.Label = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	}
	return stmt
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken}
	if p.peekTokenIs(token.SEMICOLON) || p.peekTokenIs(token.RBRACE) || p.peekTokenIs(token.EOF) {
		return stmt
	}
	p.nextToken()
	value := p.parseSource()
	if value == nil {
		return nil
	}
	stmt.Value = value
	return stmt
}

// parseBlockStatement parses `{ stmt; ... }` with the opening brace as the
// current token.
func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}
	for !p.peekTokenIs(token.RBRACE) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		if p.curTokenIs(token.SEMICOLON) {
			continue
		}
		stmt := p.parseStatement()
		if stmt == nil {
			return nil
		}
		block.Statements = append(block.Statements, stmt)
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return block
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	stmt.Expression = expr
	return stmt
}
