package parser

import (
	"strconv"

	"github.com/funvibe/schemalang/internal/ast"
	"github.com/funvibe/schemalang/internal/diagnostics"
	"github.com/funvibe/schemalang/internal/token"
	"github.com/funvibe/schemalang/internal/typesystem"
)

// parseType parses a type with the current token at its first token.
func (p *Parser) parseType() ast.Type {
	switch p.curToken.Type {
	case token.LBRACKET:
		return p.parseArrayType()
	case token.LBRACE:
		structType := p.parseStructTypeBody()
		if structType == nil {
			return nil
		}
		return structType
	case token.LPAREN:
		return p.parseTupleType()
	case token.IDENT:
		return p.parseNamedOrPrimitiveType()
	}
	p.errors.Append(diagnostics.New(
		diagnostics.ErrUnexpectedToken, p.curToken, "type", string(p.curToken.Type)))
	return nil
}

func (p *Parser) parseArrayType() ast.Type {
	arrayType := &ast.ArrayType{Token: p.curToken}
	p.nextToken()
	element := p.parseType()
	if element == nil {
		return nil
	}
	arrayType.Element = element
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return arrayType
}

// parseStructTypeBody parses `{ field: type, ... }` with the opening brace
// as the current token.
func (p *Parser) parseStructTypeBody() *ast.StructType {
	structType := &ast.StructType{Token: p.curToken}
	fields := p.parseFieldList()
	if fields == nil {
		return nil
	}
	structType.Fields = fields
	return structType
}

func (p *Parser) parseTupleType() ast.Type {
	tupleType := &ast.TupleType{Token: p.curToken}
	for !p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		element := p.parseType()
		if element == nil {
			return nil
		}
		tupleType.Elements = append(tupleType.Elements, element)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		} else if !p.peekTokenIs(token.RPAREN) {
			p.peekError(token.RPAREN)
			return nil
		}
	}
	p.nextToken() // )
	return tupleType
}

// parseNamedOrPrimitiveType parses `i32`, `decimal(10, 2)`, `Money`, or
// `core::types::Money`. Built-in scalar names lower to PrimitiveType.
func (p *Parser) parseNamedOrPrimitiveType() ast.Type {
	start := p.curToken

	if typesystem.IsPrimitiveName(start.Lexeme) && !p.peekTokenIs(token.PATH_SEP) {
		primitive := &ast.PrimitiveType{Token: start, Name: start.Lexeme}
		if p.peekTokenIs(token.LPAREN) {
			p.nextToken() // (
			for {
				if !p.expectPeek(token.INT) {
					return nil
				}
				arg, err := strconv.Atoi(p.curToken.Lexeme)
				if err != nil {
					p.errors.Append(diagnostics.New(
						diagnostics.ErrUnexpectedToken, p.curToken,
						"integer", p.curToken.Lexeme))
					return nil
				}
				primitive.Args = append(primitive.Args, arg)
				if !p.peekTokenIs(token.COMMA) {
					break
				}
				p.nextToken()
			}
			if !p.expectPeek(token.RPAREN) {
				return nil
			}
		}
		return primitive
	}

	path := &ast.Path{Token: start, Segments: []string{start.Lexeme}}
	for p.peekTokenIs(token.PATH_SEP) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		path.Segments = append(path.Segments, p.curToken.Lexeme)
	}
	return &ast.NamedType{Token: start, Path: path}
}
