package ast

import (
	"strings"

	"github.com/funvibe/schemalang/internal/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
}

// Statement is a Node that represents an imperative statement.
type Statement interface {
	Node
	statementNode()
	GetToken() token.Token
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
	GetToken() token.Token
}

// Source is anything that can appear on the right-hand side of a binding:
// a plain expression or a select query.
type Source interface {
	Node
	sourceNode()
	GetToken() token.Token
}

// Type is a Node in type position.
type Type interface {
	Node
	typeNode()
	GetToken() token.Token
}

// Item is a module-level definition.
type Item interface {
	Node
	itemNode()
	GetToken() token.Token
	ItemName() string
}

// Attribute is a `#[name]` or `#[name(arg)]` marker attached to an item or a
// table field.
type Attribute struct {
	Token token.Token
	Name  string
	Args  []string
}

// FindAttribute returns the first attribute with the given name, or nil.
func FindAttribute(attrs []*Attribute, name string) *Attribute {
	for _, a := range attrs {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// Identifier is a bare name.
type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) sourceNode()          {}
func (i *Identifier) TokenLiteral() string { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token {
	if i == nil {
		return token.Token{}
	}
	return i.Token
}

// Path is a `::`-separated module path, e.g. `core::types::Money`.
type Path struct {
	Token    token.Token
	Segments []string
}

func (p *Path) TokenLiteral() string { return p.Token.Lexeme }
func (p *Path) GetToken() token.Token {
	if p == nil {
		return token.Token{}
	}
	return p.Token
}

func (p *Path) String() string {
	return strings.Join(p.Segments, "::")
}

// Last returns the final segment of the path.
func (p *Path) Last() string {
	if len(p.Segments) == 0 {
		return ""
	}
	return p.Segments[len(p.Segments)-1]
}

// PropertyPath is a `.`-separated lvalue path, e.g. `order.customer.id`.
type PropertyPath struct {
	Token    token.Token
	Segments []string
}

func (p *PropertyPath) TokenLiteral() string { return p.Token.Lexeme }
func (p *PropertyPath) GetToken() token.Token {
	if p == nil {
		return token.Token{}
	}
	return p.Token
}

func (p *PropertyPath) String() string {
	return strings.Join(p.Segments, ".")
}

// Module is the root node produced by parsing one source file.
type Module struct {
	File  string
	Items []*ModuleItem
}

func (m *Module) TokenLiteral() string {
	if len(m.Items) > 0 {
		return m.Items[0].TokenLiteral()
	}
	return ""
}

// ModuleItem wraps an item with its visibility and attributes.
type ModuleItem struct {
	Token      token.Token
	Public     bool
	Attributes []*Attribute
	Value      Item
}

func (mi *ModuleItem) TokenLiteral() string { return mi.Token.Lexeme }
func (mi *ModuleItem) GetToken() token.Token {
	if mi == nil {
		return token.Token{}
	}
	return mi.Token
}
