package semantics

import (
	"github.com/funvibe/schemalang/internal/token"
	"github.com/funvibe/schemalang/internal/typesystem"
)

// Expression is a resolved expression: its inferred type plus the variant.
type Expression struct {
	Type typesystem.DataType
	Pos  token.Token
	Body ExpressionBody
}

// ExpressionBody is the variant payload of a resolved expression.
type ExpressionBody interface {
	expressionBody()
}

// LiteralKind tags literal payloads for emission.
type LiteralKind int

const (
	LiteralInteger LiteralKind = iota
	LiteralFloat
	LiteralString
	LiteralBoolean
)

// LiteralExpr keeps the source text of the literal; the emitter renders it
// in target syntax.
type LiteralExpr struct {
	Kind LiteralKind
	Raw  string
}

func (*LiteralExpr) expressionBody() {}

// VariableExpr reads a variable or a property chain hanging off it. The
// variable handle is shared with the scope entry, so emission-time renames
// are visible here.
type VariableExpr struct {
	Var  *Variable
	Path []string // property tail, possibly empty
}

func (*VariableExpr) expressionBody() {}

// ColumnExpr reads a column of a query data source: alias.column inside a
// select/update/delete.
type ColumnExpr struct {
	SourceAlias string
	Path        []string
}

func (*ColumnExpr) expressionBody() {}

// PrefixExpr is a unary operation.
type PrefixExpr struct {
	Operator string
	Inner    *Expression
}

func (*PrefixExpr) expressionBody() {}

// BinaryExpr is a binary operation.
type BinaryExpr struct {
	Operator string
	Left     *Expression
	Right    *Expression
}

func (*BinaryExpr) expressionBody() {}

// CallExpr invokes a function item.
type CallExpr struct {
	Function  *Item
	Arguments []*Expression
}

func (*CallExpr) expressionBody() {}

// IsLiteWeight reports whether evaluating the expression is free of side
// effects: literals and reads always are; a call is iff its callee is.
func (e *Expression) IsLiteWeight() bool {
	switch body := e.Body.(type) {
	case *PrefixExpr:
		return body.Inner.IsLiteWeight()
	case *BinaryExpr:
		return body.Left.IsLiteWeight() && body.Right.IsLiteWeight()
	case *CallExpr:
		fn, ok := body.Function.GetFunction()
		if !ok || !fn.IsLiteWeight {
			return false
		}
		for _, arg := range body.Arguments {
			if !arg.IsLiteWeight() {
				return false
			}
		}
		return true
	default:
		return true
	}
}
