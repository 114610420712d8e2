package parser

import (
	"github.com/funvibe/schemalang/internal/ast"
	"github.com/funvibe/schemalang/internal/diagnostics"
	"github.com/funvibe/schemalang/internal/token"
)

// parseModuleItem parses `pub? attribute* item`. Returns nil on error.
func (p *Parser) parseModuleItem() *ast.ModuleItem {
	moduleItem := &ast.ModuleItem{Token: p.curToken}

	for p.curTokenIs(token.HASH_LBRACKET) {
		attr := p.parseAttribute()
		if attr == nil {
			return nil
		}
		moduleItem.Attributes = append(moduleItem.Attributes, attr)
		p.nextToken()
	}
	if p.curTokenIs(token.PUB) {
		moduleItem.Public = true
		p.nextToken()
	}

	var item ast.Item
	switch p.curToken.Type {
	case token.STRUCT:
		item = p.parseStructItem()
	case token.TABLE:
		item = p.parseTableItem()
	case token.FN:
		item = p.parseFnItem()
	case token.USE:
		item = p.parseUseItem()
	case token.MOD:
		item = p.parseModItem()
	default:
		p.errors.Append(diagnostics.New(
			diagnostics.ErrUnexpectedToken, p.curToken,
			"item definition", string(p.curToken.Type)))
		return nil
	}
	if item == nil {
		return nil
	}
	moduleItem.Value = item
	return moduleItem
}

// parseAttribute parses `#[name]` or `#[name(arg, ...)]`. Arguments may be
// identifiers, integers or strings; they are kept as raw text.
func (p *Parser) parseAttribute() *ast.Attribute {
	attr := &ast.Attribute{Token: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	attr.Name = p.curToken.Lexeme
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken() // (
		for {
			p.nextToken()
			switch p.curToken.Type {
			case token.IDENT, token.INT, token.STRING:
				attr.Args = append(attr.Args, p.curToken.Literal)
			default:
				p.errors.Append(diagnostics.New(
					diagnostics.ErrUnexpectedToken, p.curToken,
					"attribute argument", string(p.curToken.Type)))
				return nil
			}
			if !p.peekTokenIs(token.COMMA) {
				break
			}
			p.nextToken()
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return attr
}

func (p *Parser) parseStructItem() *ast.StructItem {
	item := &ast.StructItem{Token: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	item.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	body := p.parseStructTypeBody()
	if body == nil {
		return nil
	}
	item.Body = body
	return item
}

func (p *Parser) parseTableItem() *ast.TableItem {
	item := &ast.TableItem{Token: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	item.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	fields := p.parseFieldList()
	if fields == nil {
		return nil
	}
	item.Fields = fields
	return item
}

// parseFieldList parses `attribute* name: type` entries up to the closing
// brace. The opening brace is the current token.
func (p *Parser) parseFieldList() []*ast.FieldDef {
	fields := []*ast.FieldDef{}
	for !p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		field := &ast.FieldDef{Token: p.curToken}
		for p.curTokenIs(token.HASH_LBRACKET) {
			attr := p.parseAttribute()
			if attr == nil {
				return nil
			}
			field.Attributes = append(field.Attributes, attr)
			p.nextToken()
		}
		if !p.curTokenIs(token.IDENT) {
			p.errors.Append(diagnostics.New(
				diagnostics.ErrUnexpectedToken, p.curToken,
				"field name", string(p.curToken.Type)))
			return nil
		}
		field.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		fieldType := p.parseType()
		if fieldType == nil {
			return nil
		}
		field.Type = fieldType
		fields = append(fields, field)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		} else if !p.peekTokenIs(token.RBRACE) {
			p.peekError(token.RBRACE)
			return nil
		}
	}
	p.nextToken() // }
	return fields
}

func (p *Parser) parseFnItem() *ast.FnItem {
	item := &ast.FnItem{Token: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	item.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}

	for !p.peekTokenIs(token.RPAREN) {
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		param := &ast.Param{
			Token: p.curToken,
			Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme},
		}
		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		paramType := p.parseType()
		if paramType == nil {
			return nil
		}
		param.Type = paramType
		item.Params = append(item.Params, param)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		} else if !p.peekTokenIs(token.RPAREN) {
			p.peekError(token.RPAREN)
			return nil
		}
	}
	p.nextToken() // )

	if p.peekTokenIs(token.ARROW) {
		p.nextToken()
		p.nextToken()
		result := p.parseType()
		if result == nil {
			return nil
		}
		item.Result = result
	}

	if p.peekTokenIs(token.EXTERNAL) {
		p.nextToken()
		item.External = true
		return item
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	body := p.parseBlockStatement()
	if body == nil {
		return nil
	}
	item.Body = body
	return item
}

func (p *Parser) parseUseItem() *ast.UseItem {
	item := &ast.UseItem{Token: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	path := &ast.Path{Token: p.curToken, Segments: []string{p.curToken.Lexeme}}
	for p.peekTokenIs(token.PATH_SEP) {
		p.nextToken()
		if p.peekTokenIs(token.ASTERISK) {
			p.nextToken()
			item.Path = path
			item.Tail = ast.UseTailAsterisk
			return item
		}
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		path.Segments = append(path.Segments, p.curToken.Lexeme)
	}
	item.Path = path
	if p.peekTokenIs(token.AS) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		item.Tail = ast.UseTailAlias
		item.Alias = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	}
	return item
}

func (p *Parser) parseModItem() *ast.ModItem {
	item := &ast.ModItem{Token: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	item.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	body := &ast.Module{}
	for !p.peekTokenIs(token.RBRACE) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		if p.curTokenIs(token.SEMICOLON) {
			continue
		}
		inner := p.parseModuleItem()
		if inner == nil {
			return nil
		}
		body.Items = append(body.Items, inner)
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	item.Body = body
	return item
}
