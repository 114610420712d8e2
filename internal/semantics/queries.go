package semantics

import (
	"github.com/funvibe/schemalang/internal/ast"
	"github.com/funvibe/schemalang/internal/token"
	"github.com/funvibe/schemalang/internal/typesystem"
)

// DataSource is a resolved query source.
type DataSource interface {
	dataSource()
}

// TableSource is a table item under an alias. The alias is always set: an
// unaliased table uses its own name.
type TableSource struct {
	Table *Item
	Alias string
}

func (*TableSource) dataSource() {}

// JoinSource combines two sources.
type JoinSource struct {
	Type      ast.JoinType
	Condition *JoinCondition
	Left      DataSource
	Right     DataSource
}

func (*JoinSource) dataSource() {}

// JoinCondition is a resolved join predicate.
type JoinCondition struct {
	Expr    *Expression
	Using   [][]string
	Natural bool
}

// SelectionSource is a subquery under an alias.
type SelectionSource struct {
	Query *Selection
	Alias string
}

func (*SelectionSource) dataSource() {}

// SelectionItem is one projected column.
type SelectionItem struct {
	Expr  *Expression
	Alias string
}

// SortingItem is one group-by/order-by entry.
type SortingItem struct {
	Expr *Expression
	Desc bool
}

// Limit mirrors the source limit clause.
type Limit struct {
	Count  uint32
	Offset *uint32
}

// Selection is a resolved select query. ResultType is
// Array(Structure(projected columns)).
type Selection struct {
	Pos        token.Token
	Distinct   bool
	All        bool
	Items      []*SelectionItem
	Source     DataSource
	Where      *Expression
	GroupBy    []*SortingItem
	Having     *Expression
	OrderBy    []*SortingItem
	Limit      *Limit
	ResultType typesystem.DataType
}

// Assignment is one `col = expr` entry; Value nil means DEFAULT.
type Assignment struct {
	Property []string
	Value    *Expression
}

// Inserting is a resolved insert. Exactly one of ValueLists, Assignments,
// Query is populated.
type Inserting struct {
	Pos         token.Token
	Ignore      bool
	Target      *TableSource
	Columns     [][]string
	ValueLists  [][]*Expression
	Assignments []*Assignment
	Query       *Selection
}

// Updating is a resolved update.
type Updating struct {
	Pos         token.Token
	Ignore      bool
	Source      DataSource
	Assignments []*Assignment
	Where       *Expression
	Limit       *Limit
}

// Deleting is a resolved delete.
type Deleting struct {
	Pos    token.Token
	Source DataSource
	Where  *Expression
	Limit  *Limit
}
