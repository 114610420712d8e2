package parser

import (
	"strconv"

	"github.com/funvibe/schemalang/internal/ast"
	"github.com/funvibe/schemalang/internal/diagnostics"
	"github.com/funvibe/schemalang/internal/token"
)

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.errors.Append(diagnostics.New(
			diagnostics.ErrUnexpectedToken, p.curToken,
			"expression", string(p.curToken.Type)))
		return nil
	}
	leftExp := prefix()
	if leftExp == nil {
		return nil
	}

	for precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
		if leftExp == nil {
			return nil
		}
	}
	return leftExp
}

// parseNameExpression parses an identifier and whatever hangs off it: a
// `::` path followed by a call, a `.` property chain, or the bare name.
func (p *Parser) parseNameExpression() ast.Expression {
	start := p.curToken

	if p.peekTokenIs(token.PATH_SEP) {
		path := &ast.Path{Token: start, Segments: []string{start.Lexeme}}
		for p.peekTokenIs(token.PATH_SEP) {
			p.nextToken()
			if !p.expectPeek(token.IDENT) {
				return nil
			}
			path.Segments = append(path.Segments, p.curToken.Lexeme)
		}
		if !p.expectPeek(token.LPAREN) {
			return nil
		}
		return p.parseCallArguments(start, path)
	}

	if p.peekTokenIs(token.LPAREN) {
		path := &ast.Path{Token: start, Segments: []string{start.Lexeme}}
		p.nextToken() // (
		return p.parseCallArguments(start, path)
	}

	if p.peekTokenIs(token.DOT) {
		propertyPath := &ast.PropertyPath{Token: start, Segments: []string{start.Lexeme}}
		for p.peekTokenIs(token.DOT) {
			p.nextToken()
			if !p.expectPeek(token.IDENT) {
				return nil
			}
			propertyPath.Segments = append(propertyPath.Segments, p.curToken.Lexeme)
		}
		return &ast.PropertyExpression{Token: start, Path: propertyPath}
	}

	return &ast.Identifier{Token: start, Value: start.Lexeme}
}

// parseCallArguments parses the argument list with the opening paren as the
// current token.
func (p *Parser) parseCallArguments(start token.Token, path *ast.Path) ast.Expression {
	call := &ast.CallExpression{Token: start, Function: path}
	for !p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		arg := p.parseExpression(LOWEST)
		if arg == nil {
			return nil
		}
		call.Arguments = append(call.Arguments, arg)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		} else if !p.peekTokenIs(token.RPAREN) {
			p.peekError(token.RPAREN)
			return nil
		}
	}
	p.nextToken() // )
	return call
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	value, err := strconv.ParseInt(p.curToken.Lexeme, 10, 64)
	if err != nil {
		p.errors.Append(diagnostics.New(
			diagnostics.ErrUnexpectedToken, p.curToken,
			"integer literal", p.curToken.Lexeme))
		return nil
	}
	return &ast.IntegerLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	value, err := strconv.ParseFloat(p.curToken.Lexeme, 64)
	if err != nil {
		p.errors.Append(diagnostics.New(
			diagnostics.ErrUnexpectedToken, p.curToken,
			"float literal", p.curToken.Lexeme))
		return nil
	}
	return &ast.FloatLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return expr
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expression := &ast.PrefixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Lexeme,
	}
	p.nextToken()
	right := p.parseExpression(PREFIX)
	if right == nil {
		return nil
	}
	expression.Right = right
	return expression
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Lexeme,
		Left:     left,
	}
	precedence := precedences[p.curToken.Type]
	p.nextToken()
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	expression.Right = right
	return expression
}
