package semantics

import (
	"github.com/funvibe/schemalang/internal/token"
	"github.com/funvibe/schemalang/internal/typesystem"
)

// FunctionDefinition is a resolved function item. Body is nil for external
// functions. Arguments are the root-scope variables in declaration order,
// shared with the scope entries so emission-time renames propagate.
type FunctionDefinition struct {
	Name         string
	Arguments    []*Variable
	Result       typesystem.DataType
	Body         *Statement
	Context      *FunctionContext
	IsLiteWeight bool
	Pos          token.Token
}

// IsProcedure reports whether the function lowers to a PROCEDURE rather
// than a FUNCTION: exactly the non-lite-weight ones.
func (f *FunctionDefinition) IsProcedure() bool {
	return !f.IsLiteWeight
}
