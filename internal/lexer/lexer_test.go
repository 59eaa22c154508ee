package lexer

import (
	"testing"

	"github.com/cwbudde/exprlang/internal/token"
)

func collectTokens(t *testing.T, src string) []token.Token {
	t.Helper()
	l := New(src, true)
	var toks []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("unexpected lex error: %v", err)
		}
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

func TestNextToken_Operators(t *testing.T) {
	tests := []struct {
		src  string
		want []token.Type
	}{
		{"+ - * / %", []token.Type{token.PLUS, token.MINUS, token.ASTERISK, token.SLASH, token.PERCENT, token.EOF}},
		{"== != <= >= < >", []token.Type{token.EQ, token.NE, token.LE, token.GE, token.LT, token.GT, token.EOF}},
		{"&& || !", []token.Type{token.AND, token.OR, token.NOT, token.EOF}},
		{"( ) [ ] { } , :", []token.Type{
			token.LPAREN, token.RPAREN, token.LBRACK, token.RBRACK,
			token.LBRACE, token.RBRACE, token.COMMA, token.COLON, token.EOF,
		}},
	}

	for _, tt := range tests {
		toks := collectTokens(t, tt.src)
		if len(toks) != len(tt.want) {
			t.Fatalf("%q: got %d tokens, want %d", tt.src, len(toks), len(tt.want))
		}
		for i, ty := range tt.want {
			if toks[i].Type != ty {
				t.Errorf("%q: token %d = %s, want %s", tt.src, i, toks[i].Type, ty)
			}
		}
	}
}

func TestNextToken_KeywordsCaseInsensitive(t *testing.T) {
	for _, src := range []string{"SET", "Set", "set"} {
		toks := collectTokens(t, src)
		if toks[0].Type != token.SET {
			t.Errorf("%q: got %s, want SET", src, toks[0].Type)
		}
	}
}

func TestNextToken_LiteralsCaseSensitive(t *testing.T) {
	toks := collectTokens(t, "True")
	if toks[0].Type != token.IDENT {
		t.Errorf("True should lex as IDENT, not TRUE, got %s", toks[0].Type)
	}
}

func TestNextToken_Numbers(t *testing.T) {
	tests := []struct {
		src  string
		text string
	}{
		{"123", "123"},
		{"123.45", "123.45"},
		{".5", ".5"},
		{"0", "0"},
	}
	for _, tt := range tests {
		toks := collectTokens(t, tt.src)
		if toks[0].Type != token.NUMBER || toks[0].Text != tt.text {
			t.Errorf("%q: got %s(%q)", tt.src, toks[0].Type, toks[0].Text)
		}
	}
}

func TestNextToken_StringEscapes(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`'hello'`, "hello"},
		{`'it\'s'`, "it's"},
		{`'a\nb'`, "a\nb"},
		{`'a\tb'`, "a\tb"},
		{`'a\\b'`, `a\b`},
		{`'a\db'`, `a\db`}, // unknown escape passes through literally
	}
	for _, tt := range tests {
		toks := collectTokens(t, tt.src)
		if toks[0].Type != token.STRING || toks[0].Text != tt.want {
			t.Errorf("%q: got %s(%q), want STRING(%q)", tt.src, toks[0].Type, toks[0].Text, tt.want)
		}
	}
}

func TestNextToken_UnterminatedString(t *testing.T) {
	l := New("'abc", true)
	_, err := l.NextToken()
	if err == nil {
		t.Fatal("expected error for unterminated string")
	}
}

func TestNextToken_Newline(t *testing.T) {
	toks := collectTokens(t, "1\n2\r\n3")
	var kinds []token.Type
	for _, tk := range toks {
		kinds = append(kinds, tk.Type)
	}
	want := []token.Type{token.NUMBER, token.NEWLINE, token.NUMBER, token.NEWLINE, token.NUMBER, token.EOF}
	if len(kinds) != len(want) {
		t.Fatalf("got %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("token %d = %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestNextToken_CRLFCountsOneLine(t *testing.T) {
	l := New("1\r\n2", true)
	l.NextToken() // "1"
	l.NextToken() // NEWLINE
	tok, _ := l.NextToken()
	if tok.Pos.Line != 2 {
		t.Errorf("expected line 2 after CRLF, got %d", tok.Pos.Line)
	}
}

func TestNextToken_CommentsSkippedWhenEnabled(t *testing.T) {
	toks := collectTokens(t, "1 // trailing comment\n2")
	if toks[0].Type != token.NUMBER || toks[1].Type != token.NEWLINE || toks[2].Type != token.NUMBER {
		t.Fatalf("unexpected tokens: %v", toks)
	}
}

func TestNextToken_BlockComment(t *testing.T) {
	toks := collectTokens(t, "1 /* multi\nline */ 2")
	if toks[0].Type != token.NUMBER || toks[1].Type != token.NUMBER {
		t.Fatalf("unexpected tokens: %v", toks)
	}
}

func TestNextToken_CommentsDisabled(t *testing.T) {
	l := New("1 / / 2", false)
	var kinds []token.Type
	for {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		kinds = append(kinds, tok.Type)
		if tok.Type == token.EOF {
			break
		}
	}
	want := []token.Type{token.NUMBER, token.SLASH, token.SLASH, token.NUMBER, token.EOF}
	if len(kinds) != len(want) {
		t.Fatalf("got %v, want %v", kinds, want)
	}
}

func TestNextToken_IllegalCharacter(t *testing.T) {
	l := New("1 @ 2", true)
	l.NextToken()
	_, err := l.NextToken()
	if err == nil {
		t.Fatal("expected error for '@'")
	}
}

func TestReadFieldName_Basic(t *testing.T) {
	l := New("[Account Balance]", true)
	tok, err := l.NextToken() // consume '['
	if err != nil || tok.Type != token.LBRACK {
		t.Fatalf("expected LBRACK, got %v err=%v", tok, err)
	}
	field, err := l.ReadFieldName()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if field.Text != "Account Balance" {
		t.Errorf("got field name %q", field.Text)
	}
	if l.PeekDelimiter() != ']' {
		t.Errorf("expected ']' pending, got %q", l.PeekDelimiter())
	}
	closing, err := l.Advance()
	if err != nil || closing.Type != token.RBRACK {
		t.Fatalf("expected RBRACK, got %v err=%v", closing, err)
	}
}

func TestReadFieldName_TypeHint(t *testing.T) {
	l := New("[Balance:number]", true)
	l.NextToken() // '['
	field, err := l.ReadFieldName()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if field.Text != "Balance" {
		t.Errorf("got field name %q", field.Text)
	}
	if l.PeekDelimiter() != ':' {
		t.Errorf("expected ':' pending, got %q", l.PeekDelimiter())
	}
}

func TestReadFieldName_NewlineIsError(t *testing.T) {
	l := New("[Account\nBalance]", true)
	l.NextToken() // '['
	_, err := l.ReadFieldName()
	if err == nil {
		t.Fatal("expected error for newline inside field name")
	}
}

func TestReadFieldName_Unterminated(t *testing.T) {
	l := New("[Account Balance", true)
	l.NextToken() // '['
	_, err := l.ReadFieldName()
	if err == nil {
		t.Fatal("expected error for unterminated field name")
	}
}
