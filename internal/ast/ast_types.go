package ast

import "github.com/funvibe/schemalang/internal/token"

// PrimitiveType is a built-in type name, optionally parameterized:
// `i32`, `boolean`, `decimal(10, 2)`, `varchar(255)`.
type PrimitiveType struct {
	Token token.Token
	Name  string
	Args  []int
}

func (pt *PrimitiveType) typeNode()            {}
func (pt *PrimitiveType) TokenLiteral() string { return pt.Token.Lexeme }
func (pt *PrimitiveType) GetToken() token.Token {
	if pt == nil {
		return token.Token{}
	}
	return pt.Token
}

// NamedType references a struct or table defined elsewhere, possibly through
// a module path: `Money`, `core::types::Money`.
type NamedType struct {
	Token token.Token
	Path  *Path
}

func (nt *NamedType) typeNode()            {}
func (nt *NamedType) TokenLiteral() string { return nt.Token.Lexeme }
func (nt *NamedType) GetToken() token.Token {
	if nt == nil {
		return token.Token{}
	}
	return nt.Token
}

// ArrayType is `[T]`.
type ArrayType struct {
	Token   token.Token
	Element Type
}

func (at *ArrayType) typeNode()            {}
func (at *ArrayType) TokenLiteral() string { return at.Token.Lexeme }
func (at *ArrayType) GetToken() token.Token {
	if at == nil {
		return token.Token{}
	}
	return at.Token
}

// FieldDef is one named field inside a struct type, struct item, or table.
type FieldDef struct {
	Token      token.Token
	Name       *Identifier
	Type       Type
	Attributes []*Attribute
}

func (fd *FieldDef) TokenLiteral() string { return fd.Token.Lexeme }
func (fd *FieldDef) GetToken() token.Token {
	if fd == nil {
		return token.Token{}
	}
	return fd.Token
}

// StructType is an anonymous structure type: `{ a: i32, b: boolean }`.
type StructType struct {
	Token  token.Token
	Fields []*FieldDef
}

func (st *StructType) typeNode()            {}
func (st *StructType) TokenLiteral() string { return st.Token.Lexeme }
func (st *StructType) GetToken() token.Token {
	if st == nil {
		return token.Token{}
	}
	return st.Token
}

// TupleType is `(T1, T2, ...)`.
type TupleType struct {
	Token    token.Token
	Elements []Type
}

func (tt *TupleType) typeNode()            {}
func (tt *TupleType) TokenLiteral() string { return tt.Token.Lexeme }
func (tt *TupleType) GetToken() token.Token {
	if tt == nil {
		return token.Token{}
	}
	return tt.Token
}
