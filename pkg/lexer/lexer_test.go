package lexer

import (
	"testing"

	"paracl/pkg/token"
)

func TestNextToken(t *testing.T) {
	input := `x := 5;
if (x == 10) { print x; } else { print 0; }
a := repeat 7 of 3;
b := [1, 2, 3];
c := ?;
w := x >= 1 && x <= 9 || !x;
`

	tests := []struct {
		expectedType    token.TokenType
		expectedLiteral string
	}{
		{token.IDENT, "x"},
		{token.ASSIGN, ":="},
		{token.INT, "5"},
		{token.SEMICOLON, ";"},
		{token.IF, "if"},
		{token.LPAREN, "("},
		{token.IDENT, "x"},
		{token.EQ, "=="},
		{token.INT, "10"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.PRINT, "print"},
		{token.IDENT, "x"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.ELSE, "else"},
		{token.LBRACE, "{"},
		{token.PRINT, "print"},
		{token.INT, "0"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.IDENT, "a"},
		{token.ASSIGN, ":="},
		{token.REPEAT, "repeat"},
		{token.INT, "7"},
		{token.OF, "of"},
		{token.INT, "3"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "b"},
		{token.ASSIGN, ":="},
		{token.LBRACKET, "["},
		{token.INT, "1"},
		{token.COMMA, ","},
		{token.INT, "2"},
		{token.COMMA, ","},
		{token.INT, "3"},
		{token.RBRACKET, "]"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "c"},
		{token.ASSIGN, ":="},
		{token.QUESTION, "?"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "w"},
		{token.ASSIGN, ":="},
		{token.IDENT, "x"},
		{token.GTE, ">="},
		{token.INT, "1"},
		{token.AND, "&&"},
		{token.IDENT, "x"},
		{token.LTE, "<="},
		{token.INT, "9"},
		{token.OR, "||"},
		{token.NOT, "!"},
		{token.IDENT, "x"},
		{token.SEMICOLON, ";"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q, literal=%q",
				i, tt.expectedType, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestLineTracking(t *testing.T) {
	input := "x := 1;\ny := 2;\n"
	l := New(input)

	var lines []int
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			break
		}
		lines = append(lines, tok.Line)
	}

	want := []int{1, 1, 1, 1, 2, 2, 2, 2}
	if len(lines) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(lines), len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("token %d: line = %d, want %d", i, lines[i], want[i])
		}
	}
}

func TestSkipsComments(t *testing.T) {
	input := "x := 1; # trailing comment\nprint x;"
	l := New(input)

	var types []token.TokenType
	for {
		tok := l.NextToken()
		types = append(types, tok.Type)
		if tok.Type == token.EOF {
			break
		}
	}

	want := []token.TokenType{token.IDENT, token.ASSIGN, token.INT, token.SEMICOLON,
		token.PRINT, token.IDENT, token.SEMICOLON, token.EOF}
	if len(types) != len(want) {
		t.Fatalf("got %d tokens %v, want %d", len(types), types, len(want))
	}
}
