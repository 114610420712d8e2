package semantics

import (
	"github.com/funvibe/schemalang/internal/token"
	"github.com/funvibe/schemalang/internal/typesystem"
)

// TableDefinition is a resolved table item: its columns in definition order
// plus two lazily built derived types.
type TableDefinition struct {
	Name string
	Pos  token.Token
	Body *typesystem.Fields

	entity     typesystem.DataType
	primaryKey typesystem.DataType
}

func NewTableDefinition(name string, pos token.Token, body *typesystem.Fields) *TableDefinition {
	return &TableDefinition{Name: name, Pos: pos, Body: body}
}

// EntityType is the structure of a full row. Memoized: every call returns
// the same type value, so entity types of one table hash equal.
func (t *TableDefinition) EntityType() typesystem.DataType {
	if t.entity == nil {
		t.entity = typesystem.NewStructure(t.Body)
	}
	return t.entity
}

// PrimaryKeyType is the structure of the columns carrying the primary_key
// attribute, in column order. Memoized like EntityType.
func (t *TableDefinition) PrimaryKeyType() typesystem.DataType {
	if t.primaryKey == nil {
		keyFields := typesystem.NewFields()
		t.Body.Each(func(name string, field *typesystem.Field) {
			if typesystem.FindAttribute(field.Attributes, "primary_key") != nil {
				keyFields.Add(name, field)
			}
		})
		t.primaryKey = typesystem.NewStructure(keyFields)
	}
	return t.primaryKey
}
