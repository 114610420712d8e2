package ast

import "github.com/funvibe/schemalang/internal/token"

// LetStatement declares a variable: `let x: i32 = 1`. Type and Value are
// both optional; with neither, the variable takes its type from its first
// whole-variable assignment.
type LetStatement struct {
	Token token.Token
	Name  *Identifier
	Type  Type
	Value Source
}

func (ls *LetStatement) statementNode()       {}
func (ls *LetStatement) TokenLiteral() string { return ls.Token.Lexeme }
func (ls *LetStatement) GetToken() token.Token {
	if ls == nil {
		return token.Token{}
	}
	return ls.Token
}

// AssignStatement writes to a variable or one of its properties:
// `x = e`, `point.x = e`.
type AssignStatement struct {
	Token token.Token
	Path  *PropertyPath
	Value Source
}

func (as *AssignStatement) statementNode()       {}
func (as *AssignStatement) TokenLiteral() string { return as.Token.Lexeme }
func (as *AssignStatement) GetToken() token.Token {
	if as == nil {
		return token.Token{}
	}
	return as.Token
}

// IfStatement is a conditional with an optional else branch.
type IfStatement struct {
	Token     token.Token
	Condition Expression
	Then      Statement
	Else      Statement
}

func (is *IfStatement) statementNode()       {}
func (is *IfStatement) TokenLiteral() string { return is.Token.Lexeme }
func (is *IfStatement) GetToken() token.Token {
	if is == nil {
		return token.Token{}
	}
	return is.Token
}

// CycleKind distinguishes the three loop forms.
type CycleKind int

const (
	CycleSimple        CycleKind = iota // loop { }
	CyclePrePredicated                  // while p { }
	CyclePostPredicated                 // do { } while p
)

// CycleStatement is any of the loop forms. Predicate is nil for CycleSimple.
type CycleStatement struct {
	Token     token.Token
	Kind      CycleKind
	Predicate Expression
	Body      Statement
}

func (cs *CycleStatement) statementNode()       {}
func (cs *CycleStatement) TokenLiteral() string { return cs.Token.Lexeme }
func (cs *CycleStatement) GetToken() token.Token {
	if cs == nil {
		return token.Token{}
	}
	return cs.Token
}

// CycleControlStatement is break or continue. Label is reserved syntax and
// rejected at resolve time.
type CycleControlStatement struct {
	Token token.Token
	Break bool
	Label *Identifier
}

func (ccs *CycleControlStatement) statementNode()       {}
func (ccs *CycleControlStatement) TokenLiteral() string { return ccs.Token.Lexeme }
func (ccs *CycleControlStatement) GetToken() token.Token {
	if ccs == nil {
		return token.Token{}
	}
	return ccs.Token
}

// ReturnStatement is `return` with an optional source.
type ReturnStatement struct {
	Token token.Token
	Value Source
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Lexeme }
func (rs *ReturnStatement) GetToken() token.Token {
	if rs == nil {
		return token.Token{}
	}
	return rs.Token
}

// BlockStatement is `{ ... }`; opens a child scope.
type BlockStatement struct {
	Token      token.Token
	Statements []Statement
}

func (bs *BlockStatement) statementNode()       {}
func (bs *BlockStatement) TokenLiteral() string { return bs.Token.Lexeme }
func (bs *BlockStatement) GetToken() token.Token {
	if bs == nil {
		return token.Token{}
	}
	return bs.Token
}

// ExpressionStatement is a bare expression in statement position.
type ExpressionStatement struct {
	Token      token.Token
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Lexeme }
func (es *ExpressionStatement) GetToken() token.Token {
	if es == nil {
		return token.Token{}
	}
	return es.Token
}
