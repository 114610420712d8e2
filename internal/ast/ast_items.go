package ast

import "github.com/funvibe/schemalang/internal/token"

// StructItem is a named data type definition: `struct Money { ... }`.
type StructItem struct {
	Token token.Token
	Name  *Identifier
	Body  Type
}

func (si *StructItem) itemNode()            {}
func (si *StructItem) TokenLiteral() string { return si.Token.Lexeme }
func (si *StructItem) ItemName() string     { return si.Name.Value }
func (si *StructItem) GetToken() token.Token {
	if si == nil {
		return token.Token{}
	}
	return si.Token
}

// TableItem is a table definition: `table users { id: i64, ... }`.
type TableItem struct {
	Token  token.Token
	Name   *Identifier
	Fields []*FieldDef
}

func (ti *TableItem) itemNode()            {}
func (ti *TableItem) TokenLiteral() string { return ti.Token.Lexeme }
func (ti *TableItem) ItemName() string     { return ti.Name.Value }
func (ti *TableItem) GetToken() token.Token {
	if ti == nil {
		return token.Token{}
	}
	return ti.Token
}

// Param is one function parameter.
type Param struct {
	Token token.Token
	Name  *Identifier
	Type  Type
}

// FnItem is a function definition. Body is nil for external functions.
type FnItem struct {
	Token    token.Token
	Name     *Identifier
	Params   []*Param
	Result   Type // nil means Void
	Body     Statement
	External bool
}

func (fi *FnItem) itemNode()            {}
func (fi *FnItem) TokenLiteral() string { return fi.Token.Lexeme }
func (fi *FnItem) ItemName() string     { return fi.Name.Value }
func (fi *FnItem) GetToken() token.Token {
	if fi == nil {
		return token.Token{}
	}
	return fi.Token
}

// UseTail distinguishes the three forms of a use item.
type UseTail int

const (
	UseTailNone UseTail = iota
	UseTailAsterisk
	UseTailAlias
)

// UseItem is an import: `use a::b::c`, `use a::b::*`, `use a::b::c as d`.
type UseItem struct {
	Token token.Token
	Path  *Path
	Tail  UseTail
	Alias *Identifier
}

func (ui *UseItem) itemNode()            {}
func (ui *UseItem) TokenLiteral() string { return ui.Token.Lexeme }
func (ui *UseItem) GetToken() token.Token {
	if ui == nil {
		return token.Token{}
	}
	return ui.Token
}

// ItemName returns the name the import binds in the enclosing module.
func (ui *UseItem) ItemName() string {
	if ui.Tail == UseTailAlias && ui.Alias != nil {
		return ui.Alias.Value
	}
	return ui.Path.Last()
}

// ModItem is a file-scoped module: `mod name { ... }`. Parsed for error
// recovery; rejected at resolve time.
type ModItem struct {
	Token token.Token
	Name  *Identifier
	Body  *Module
}

func (mi *ModItem) itemNode()            {}
func (mi *ModItem) TokenLiteral() string { return mi.Token.Lexeme }
func (mi *ModItem) ItemName() string     { return mi.Name.Value }
func (mi *ModItem) GetToken() token.Token {
	if mi == nil {
		return token.Token{}
	}
	return mi.Token
}
