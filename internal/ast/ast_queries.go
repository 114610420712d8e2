package ast

import "github.com/funvibe/schemalang/internal/token"

// JoinType enumerates the supported join flavors.
type JoinType int

const (
	JoinCross JoinType = iota
	JoinLeft
	JoinRight
	JoinFull
)

// JoinCondition is `on expr`, `using (a, b)` or natural.
type JoinCondition struct {
	Token   token.Token
	Expr    Expression
	Using   []*PropertyPath
	Natural bool
}

// DataSource is a table, a join, or a parenthesized subquery with alias.
type DataSource interface {
	Node
	dataSourceNode()
	GetToken() token.Token
}

// TableSource names a table item, optionally aliased.
type TableSource struct {
	Token token.Token
	Name  *Path
	Alias *Identifier
}

func (ts *TableSource) dataSourceNode()      {}
func (ts *TableSource) TokenLiteral() string { return ts.Token.Lexeme }
func (ts *TableSource) GetToken() token.Token {
	if ts == nil {
		return token.Token{}
	}
	return ts.Token
}

// JoinSource combines two data sources.
type JoinSource struct {
	Token     token.Token
	Type      JoinType
	Condition *JoinCondition
	Left      DataSource
	Right     DataSource
}

func (js *JoinSource) dataSourceNode()      {}
func (js *JoinSource) TokenLiteral() string { return js.Token.Lexeme }
func (js *JoinSource) GetToken() token.Token {
	if js == nil {
		return token.Token{}
	}
	return js.Token
}

// SelectionSource embeds a select query as a data source: `(select ...) s`.
type SelectionSource struct {
	Token token.Token
	Query *SelectQuery
	Alias *Identifier
}

func (ss *SelectionSource) dataSourceNode()      {}
func (ss *SelectionSource) TokenLiteral() string { return ss.Token.Lexeme }
func (ss *SelectionSource) GetToken() token.Token {
	if ss == nil {
		return token.Token{}
	}
	return ss.Token
}

// SelectExpressionItem is one projected column with an optional alias.
type SelectExpressionItem struct {
	Token token.Token
	Expr  Expression
	Alias *Identifier
}

// SortingOrder is asc or desc.
type SortingOrder int

const (
	SortAsc SortingOrder = iota
	SortDesc
)

// SortingItem is one `order by` / `group by` entry.
type SortingItem struct {
	Token token.Token
	Expr  Expression
	Order SortingOrder
}

// Limit is `limit n` with an optional offset.
type Limit struct {
	Token  token.Token
	Count  uint32
	Offset *uint32
}

// SelectQuery is the full selection form. Items is nil when `*` was used.
type SelectQuery struct {
	Token    token.Token
	Distinct bool
	All      bool
	Items    []*SelectExpressionItem
	From     DataSource
	Where    Expression
	GroupBy  []*SortingItem
	Having   Expression
	OrderBy  []*SortingItem
	Limit    *Limit
}

func (sq *SelectQuery) sourceNode()          {}
func (sq *SelectQuery) TokenLiteral() string { return sq.Token.Lexeme }
func (sq *SelectQuery) GetToken() token.Token {
	if sq == nil {
		return token.Token{}
	}
	return sq.Token
}

// SelectStatement is a bare select in statement position; the rowset goes to
// the caller's result stream.
type SelectStatement struct {
	Token token.Token
	Query *SelectQuery
}

func (ss *SelectStatement) statementNode()       {}
func (ss *SelectStatement) TokenLiteral() string { return ss.Token.Lexeme }
func (ss *SelectStatement) GetToken() token.Token {
	if ss == nil {
		return token.Token{}
	}
	return ss.Token
}

// UpdatingAssignment is one `col = expr` (or `col = default`) in update and
// insert-set forms.
type UpdatingAssignment struct {
	Token    token.Token
	Property *PropertyPath
	Value    Expression // nil means DEFAULT
}

// InsertSource is the payload of an insert: explicit value lists, an
// assignment list, or a select query. Exactly one group is set.
type InsertSource struct {
	Token       token.Token
	Columns     []*PropertyPath
	ValueLists  [][]Expression
	Assignments []*UpdatingAssignment
	Query       *SelectQuery
}

// InsertStatement is `insert into target ...`.
type InsertStatement struct {
	Token  token.Token
	Ignore bool
	Target DataSource
	Source *InsertSource
}

func (is *InsertStatement) statementNode()       {}
func (is *InsertStatement) TokenLiteral() string { return is.Token.Lexeme }
func (is *InsertStatement) GetToken() token.Token {
	if is == nil {
		return token.Token{}
	}
	return is.Token
}

// UpdateStatement is `update source set a = e, ... where p limit n`.
type UpdateStatement struct {
	Token       token.Token
	Ignore      bool
	Source      DataSource
	Assignments []*UpdatingAssignment
	Where       Expression
	Limit       *Limit
}

func (us *UpdateStatement) statementNode()       {}
func (us *UpdateStatement) TokenLiteral() string { return us.Token.Lexeme }
func (us *UpdateStatement) GetToken() token.Token {
	if us == nil {
		return token.Token{}
	}
	return us.Token
}

// DeleteStatement is `delete from source where p limit n`.
type DeleteStatement struct {
	Token  token.Token
	Source DataSource
	Where  Expression
	Limit  *Limit
}

func (ds *DeleteStatement) statementNode()       {}
func (ds *DeleteStatement) TokenLiteral() string { return ds.Token.Lexeme }
func (ds *DeleteStatement) GetToken() token.Token {
	if ds == nil {
		return token.Token{}
	}
	return ds.Token
}
