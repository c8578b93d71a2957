package lexer

import "testing"

func TestNextTokenOperators(t *testing.T) {
	input := `<= != !< !> < > = + - * / % ++ -- += -= *= /= ?`

	tests := []TokenType{
		ASSIGN, NE, NLT, NGT, LT, GT, EQ,
		PLUS, MINUS, TIMES, OVER, MOD,
		INC, DEC, ADDASS, SUBASS, MULASS, DIVASS, QUES,
		EOF,
	}

	l := New(input)
	for i, want := range tests {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("token %d: got %s, want %s", i, tok.Type, want)
		}
	}
}

func TestAssignmentIsNotRelational(t *testing.T) {
	l := New("a <= b")
	l.NextToken() // a
	tok := l.NextToken()
	if tok.Type != ASSIGN {
		t.Fatalf("expected <= to lex as ASSIGN, got %s", tok.Type)
	}
}

func TestNegatedRelationalsLexAsTwoCharTokens(t *testing.T) {
	l := New("!< !>")
	if tok := l.NextToken(); tok.Type != NLT {
		t.Fatalf("expected !< to lex as NLT, got %s", tok.Type)
	}
	if tok := l.NextToken(); tok.Type != NGT {
		t.Fatalf("expected !> to lex as NGT, got %s", tok.Type)
	}
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	l := New("int foo static bar")
	want := []struct {
		typ TokenType
		lit string
	}{
		{INT, "int"},
		{IDENT, "foo"},
		{STATIC, "static"},
		{IDENT, "bar"},
	}
	for i, w := range want {
		tok := l.NextToken()
		if tok.Type != w.typ || tok.Literal != w.lit {
			t.Fatalf("token %d: got {%s %q}, want {%s %q}", i, tok.Type, tok.Literal, w.typ, w.lit)
		}
	}
}

func TestBoolLiteralsCaseVariants(t *testing.T) {
	l := New("true False")
	tok := l.NextToken()
	if tok.Type != BOOLCONST || tok.IntVal != 1 {
		t.Fatalf("expected true -> BOOLCONST(1), got %s(%d)", tok.Type, tok.IntVal)
	}
	tok = l.NextToken()
	if tok.Type != BOOLCONST || tok.IntVal != 0 {
		t.Fatalf("expected False -> BOOLCONST(0), got %s(%d)", tok.Type, tok.IntVal)
	}
}

func TestNumberAndStringLiterals(t *testing.T) {
	l := New(`123 "hi\n"`)
	tok := l.NextToken()
	if tok.Type != NUMCONST || tok.IntVal != 123 {
		t.Fatalf("expected NUMCONST(123), got %s(%d)", tok.Type, tok.IntVal)
	}
	tok = l.NextToken()
	if tok.Type != STRINGCONST || tok.StrVal != "hi\n" {
		t.Fatalf("expected STRINGCONST(%q), got %s(%q)", "hi\n", tok.Type, tok.StrVal)
	}
}

func TestCharLiteralDegradesToFirstByte(t *testing.T) {
	l := New(`'a'`)
	tok := l.NextToken()
	if tok.Type != CHARCONST || tok.CharVal != 'a' || tok.Literal != "a" {
		t.Fatalf("expected CHARCONST('a'), got %s(%q, %q)", tok.Type, tok.Literal, tok.CharVal)
	}
}

func TestEmptyCharLiteralDegradesToZero(t *testing.T) {
	l := New(`''`)
	tok := l.NextToken()
	if tok.Type != CHARCONST || tok.CharVal != 0 || tok.Literal != "" {
		t.Fatalf("expected CHARCONST with zero value and empty literal, got %s(%q, %d)", tok.Type, tok.Literal, tok.CharVal)
	}
}

func TestOverlongCharLiteralDegradesToFirstChar(t *testing.T) {
	l := New(`'abc'`)
	tok := l.NextToken()
	if tok.Type != CHARCONST || tok.CharVal != 'a' || tok.Literal != "abc" {
		t.Fatalf("expected CHARCONST('a') with the full literal preserved for later diagnostics, got %s(%q, %q)", tok.Type, tok.Literal, tok.CharVal)
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	l := New("int // a line comment\nchar /* a block\ncomment */ bool")
	want := []TokenType{INT, CHAR, BOOL, EOF}
	for i, w := range want {
		tok := l.NextToken()
		if tok.Type != w {
			t.Fatalf("token %d: got %s, want %s", i, tok.Type, w)
		}
	}
}

func TestIllegalCharacterRecordsError(t *testing.T) {
	l := New("@")
	tok := l.NextToken()
	if tok.Type != ILLEGAL {
		t.Fatalf("expected ILLEGAL, got %s", tok.Type)
	}
	if len(l.Errors()) != 1 {
		t.Fatalf("expected one lexer error, got %d", len(l.Errors()))
	}
}

func TestLineTracking(t *testing.T) {
	l := New("int\nchar\nbool")
	tok := l.NextToken()
	if tok.Pos.Line != 1 {
		t.Fatalf("expected line 1, got %d", tok.Pos.Line)
	}
	tok = l.NextToken()
	if tok.Pos.Line != 2 {
		t.Fatalf("expected line 2, got %d", tok.Pos.Line)
	}
	tok = l.NextToken()
	if tok.Pos.Line != 3 {
		t.Fatalf("expected line 3, got %d", tok.Pos.Line)
	}
}
