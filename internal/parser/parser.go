package parser

import (
	"github.com/funvibe/schemalang/internal/ast"
	"github.com/funvibe/schemalang/internal/diagnostics"
	"github.com/funvibe/schemalang/internal/token"
)

// Operator precedence levels, lowest binds loosest.
const (
	LOWEST = iota
	OR
	AND
	EQUALS      // == !=
	LESSGREATER // < > <= >=
	SUM         // + -
	PRODUCT     // * / %
	PREFIX      // -x, not x
)

var precedences = map[token.TokenType]int{
	token.OR:     OR,
	token.AND:    AND,
	token.EQ:     EQUALS,
	token.NOT_EQ: EQUALS,
	token.LT:     LESSGREATER,
	token.GT:     LESSGREATER,
	token.LT_EQ:  LESSGREATER,
	token.GT_EQ:  LESSGREATER,
	token.PLUS:   SUM,
	token.MINUS:  SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.PERCENT:  PRODUCT,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser is a recursive-descent parser with Pratt expression parsing over a
// pre-lexed token stream.
type Parser struct {
	tokens []token.Token
	pos    int

	curToken  token.Token
	peekToken token.Token

	errors diagnostics.List

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

func New(tokens []token.Token) *Parser {
	p := &Parser{tokens: tokens}

	p.prefixParseFns = map[token.TokenType]prefixParseFn{
		token.IDENT:  p.parseNameExpression,
		token.INT:    p.parseIntegerLiteral,
		token.FLOAT:  p.parseFloatLiteral,
		token.STRING: p.parseStringLiteral,
		token.TRUE:   p.parseBooleanLiteral,
		token.FALSE:  p.parseBooleanLiteral,
		token.LPAREN: p.parseGroupedExpression,
		token.MINUS:  p.parsePrefixExpression,
		token.NOT:    p.parsePrefixExpression,
	}
	p.infixParseFns = map[token.TokenType]infixParseFn{}
	for tokenType := range precedences {
		p.infixParseFns[tokenType] = p.parseInfixExpression
	}

	// Prime curToken and peekToken.
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	if p.pos < len(p.tokens) {
		p.peekToken = p.tokens[p.pos]
		p.pos++
	} else if len(p.tokens) > 0 {
		p.peekToken = p.tokens[len(p.tokens)-1] // trailing EOF
	}
}

// peekAt looks ahead n tokens past peekToken (peekAt(0) == peekToken).
func (p *Parser) peekAt(n int) token.Token {
	idx := p.pos - 1 + n
	if idx < 0 || idx >= len(p.tokens) {
		if len(p.tokens) > 0 {
			return p.tokens[len(p.tokens)-1]
		}
		return token.Token{Type: token.EOF}
	}
	return p.tokens[idx]
}

func (p *Parser) curTokenIs(t token.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t token.TokenType) {
	p.errors.Append(diagnostics.New(
		diagnostics.ErrUnexpectedToken, p.peekToken, string(t), string(p.peekToken.Type)))
}

func (p *Parser) peekPrecedence() int {
	if precedence, ok := precedences[p.peekToken.Type]; ok {
		return precedence
	}
	return LOWEST
}

// Errors returns the diagnostics accumulated while parsing.
func (p *Parser) Errors() diagnostics.List {
	return p.errors
}

// ParseModule parses a whole source file.
func (p *Parser) ParseModule() *ast.Module {
	module := &ast.Module{}
	for !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}
		startPos := p.pos
		item := p.parseModuleItem()
		if item != nil {
			module.Items = append(module.Items, item)
			p.nextToken()
			continue
		}
		// A failed parse may already sit on the next item's first token;
		// only force progress when it consumed nothing.
		if p.pos == startPos {
			p.nextToken()
		}
		p.recoverToItem()
	}
	return module
}

func isItemStart(t token.TokenType) bool {
	switch t {
	case token.PUB, token.STRUCT, token.TABLE, token.FN,
		token.USE, token.MOD, token.HASH_LBRACKET:
		return true
	}
	return false
}

// recoverToItem skips to the next plausible item start after a parse error.
func (p *Parser) recoverToItem() {
	for !p.curTokenIs(token.EOF) && !isItemStart(p.curToken.Type) {
		p.nextToken()
	}
}
