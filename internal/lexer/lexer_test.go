package lexer

import (
	"testing"

	"github.com/funvibe/schemalang/internal/token"
)

func TestNextToken(t *testing.T) {
	input := `use core::types::*;

#[primary_key]
table users {
	id: i64,
	name: varchar(255),
}

fn total(x: i32) -> i32 {
	let acc = 0;
	while x > 0 {
		acc = acc + x; // running sum
		x = x - 1
	}
	return acc
}`

	tests := []struct {
		expectedType    token.TokenType
		expectedLexeme  string
	}{
		{token.USE, "use"},
		{token.IDENT, "core"},
		{token.PATH_SEP, "::"},
		{token.IDENT, "types"},
		{token.PATH_SEP, "::"},
		{token.ASTERISK, "*"},
		{token.SEMICOLON, ";"},
		{token.HASH_LBRACKET, "#["},
		{token.IDENT, "primary_key"},
		{token.RBRACKET, "]"},
		{token.TABLE, "table"},
		{token.IDENT, "users"},
		{token.LBRACE, "{"},
		{token.IDENT, "id"},
		{token.COLON, ":"},
		{token.IDENT, "i64"},
		{token.COMMA, ","},
		{token.IDENT, "name"},
		{token.COLON, ":"},
		{token.IDENT, "varchar"},
		{token.LPAREN, "("},
		{token.INT, "255"},
		{token.RPAREN, ")"},
		{token.COMMA, ","},
		{token.RBRACE, "}"},
		{token.FN, "fn"},
		{token.IDENT, "total"},
		{token.LPAREN, "("},
		{token.IDENT, "x"},
		{token.COLON, ":"},
		{token.IDENT, "i32"},
		{token.RPAREN, ")"},
		{token.ARROW, "->"},
		{token.IDENT, "i32"},
		{token.LBRACE, "{"},
		{token.LET, "let"},
		{token.IDENT, "acc"},
		{token.ASSIGN, "="},
		{token.INT, "0"},
		{token.SEMICOLON, ";"},
		{token.WHILE, "while"},
		{token.IDENT, "x"},
		{token.GT, ">"},
		{token.INT, "0"},
		{token.LBRACE, "{"},
		{token.IDENT, "acc"},
		{token.ASSIGN, "="},
		{token.IDENT, "acc"},
		{token.PLUS, "+"},
		{token.IDENT, "x"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.IDENT, "x"},
		{token.MINUS, "-"},
		{token.INT, "1"},
		{token.RBRACE, "}"},
		{token.RETURN, "return"},
		{token.IDENT, "acc"},
		{token.RBRACE, "}"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - wrong token type. expected=%q, got=%q (%q)",
				i, tt.expectedType, tok.Type, tok.Lexeme)
		}
		if tok.Lexeme != tt.expectedLexeme {
			t.Fatalf("tests[%d] - wrong lexeme. expected=%q, got=%q",
				i, tt.expectedLexeme, tok.Lexeme)
		}
	}
}

func TestStringsAndComments(t *testing.T) {
	input := "/* header */ let s = \"a\\nb\" // tail"
	l := New(input)

	expected := []struct {
		typ token.TokenType
		lit string
	}{
		{token.LET, "let"},
		{token.IDENT, "s"},
		{token.ASSIGN, "="},
		{token.STRING, "a\nb"},
		{token.EOF, ""},
	}
	for i, exp := range expected {
		tok := l.NextToken()
		if tok.Type != exp.typ {
			t.Fatalf("token %d: expected type %q, got %q", i, exp.typ, tok.Type)
		}
		if tok.Literal != exp.lit {
			t.Fatalf("token %d: expected literal %q, got %q", i, exp.lit, tok.Literal)
		}
	}
}

func TestPositions(t *testing.T) {
	input := "let x\nfn y"
	l := New(input)

	tok := l.NextToken() // let
	if tok.Line != 1 || tok.Column != 1 {
		t.Errorf("let: expected 1:1, got %d:%d", tok.Line, tok.Column)
	}
	tok = l.NextToken() // x
	if tok.Line != 1 || tok.Column != 5 {
		t.Errorf("x: expected 1:5, got %d:%d", tok.Line, tok.Column)
	}
	tok = l.NextToken() // fn
	if tok.Line != 2 || tok.Column != 1 {
		t.Errorf("fn: expected 2:1, got %d:%d", tok.Line, tok.Column)
	}
	if tok.Offset != 6 {
		t.Errorf("fn: expected offset 6, got %d", tok.Offset)
	}
}

func TestFloatVersusDot(t *testing.T) {
	l := New("1.5 a.b")
	tok := l.NextToken()
	if tok.Type != token.FLOAT || tok.Lexeme != "1.5" {
		t.Fatalf("expected FLOAT 1.5, got %s %q", tok.Type, tok.Lexeme)
	}
	tok = l.NextToken()
	if tok.Type != token.IDENT || tok.Lexeme != "a" {
		t.Fatalf("expected IDENT a, got %s %q", tok.Type, tok.Lexeme)
	}
	tok = l.NextToken()
	if tok.Type != token.DOT {
		t.Fatalf("expected DOT, got %s", tok.Type)
	}
}
