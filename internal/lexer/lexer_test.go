package lexer

import (
	"testing"

	"typeforge/internal/token"
)

func kinds(source string) []token.Kind {
	l := New(source, "test.tf")
	tokens, _ := l.Tokenize()
	out := make([]token.Kind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func assertKinds(t *testing.T, source string, expected []token.Kind) {
	t.Helper()
	got := kinds(source)
	if len(got) != len(expected) {
		t.Fatalf("%q: expected %d tokens, got %d (%v)", source, len(expected), len(got), got)
	}
	for i, exp := range expected {
		if got[i] != exp {
			t.Errorf("%q: token[%d]: expected %s, got %s", source, i, exp, got[i])
		}
	}
}

func TestTokenizeSimple(t *testing.T) {
	source := `let x: number = 42;`
	l := New(source, "test.tf")
	tokens, diags := l.Tokenize()
	if len(diags) > 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	expected := []token.Kind{
		token.KW_LET, token.IDENT, token.COLON, token.KW_NUMBER_TYPE,
		token.ASSIGN, token.NUMBER, token.SEMICOLON, token.EOF,
	}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(tokens))
	}
	for i, exp := range expected {
		if tokens[i].Kind != exp {
			t.Errorf("token[%d]: expected %s, got %s (%q)", i, exp, tokens[i].Kind, tokens[i].Lexeme)
		}
	}
}

func TestTokenizeMultiCharOperators(t *testing.T) {
	assertKinds(t, "=== !== ** >>> ?. ?? => ...", []token.Kind{
		token.EQ_STRICT, token.NEQ_STRICT, token.STAR_STAR, token.USHR,
		token.QUESTION_DOT, token.QUESTION_QUESTION, token.ARROW, token.DOT_DOT_DOT,
		token.EOF,
	})
}

func TestTokenizeMaximalMunch(t *testing.T) {
	// ">>>" must win over ">>" + ">", and ">>" over ">" + ">".
	assertKinds(t, ">>> >> > >= <<", []token.Kind{
		token.USHR, token.SHR, token.GT, token.GTE, token.SHL, token.EOF,
	})
}

func TestTokenizeStrayDotDot(t *testing.T) {
	l := New("a..b", "test.tf")
	tokens, diags := l.Tokenize()
	if len(diags) == 0 {
		t.Fatalf("expected a diagnostic for stray '..'")
	}
	if diags[0].Code != "E1004" {
		t.Errorf("expected E1004, got %s", diags[0].Code)
	}
	if tokens[0].Kind != token.IDENT || tokens[1].Kind != token.ILLEGAL {
		t.Errorf("unexpected token sequence: %v", tokens)
	}
}

func TestTokenizeNumberBases(t *testing.T) {
	for _, source := range []string{"0x1F", "0b101", "0o17", "3.14", "1e10", "1.5e-3", "42n"} {
		l := New(source, "test.tf")
		tokens, diags := l.Tokenize()
		if len(diags) > 0 {
			t.Errorf("%q: unexpected diagnostics: %v", source, diags)
		}
		if len(tokens) != 2 || tokens[0].Kind != token.NUMBER || tokens[0].Lexeme != source {
			t.Errorf("%q: expected single NUMBER token with full lexeme, got %v", source, tokens)
		}
	}
}

func TestTokenizeStringEscapes(t *testing.T) {
	l := New(`"a\nb\tcA\u{1F600}"`, "test.tf")
	tokens, diags := l.Tokenize()
	if len(diags) > 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if tokens[0].Kind != token.STRING {
		t.Fatalf("expected STRING, got %s", tokens[0].Kind)
	}
	want := "a\nb\tcA\U0001F600"
	if tokens[0].Lexeme != want {
		t.Errorf("expected %q, got %q", want, tokens[0].Lexeme)
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	l := New(`"abc`, "test.tf")
	_, diags := l.Tokenize()
	if len(diags) != 1 || diags[0].Code != "E1001" {
		t.Fatalf("expected single E1001 diagnostic, got %v", diags)
	}
}

func TestTokenizeTemplateLiteralNoInterpolation(t *testing.T) {
	l := New("`hello world`", "test.tf")
	tokens, diags := l.Tokenize()
	if len(diags) > 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if tokens[0].Kind != token.TEMPLATE_LITERAL || tokens[0].Lexeme != "hello world" {
		t.Fatalf("unexpected token: %v", tokens[0])
	}
}

func TestTokenizeTemplateLiteralInterpolation(t *testing.T) {
	l := New("`a${x}b${y}c`", "test.tf")
	tokens, diags := l.Tokenize()
	if len(diags) > 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	expectedKinds := []token.Kind{
		token.TEMPLATE_HEAD, token.IDENT, token.TEMPLATE_MIDDLE, token.IDENT, token.TEMPLATE_TAIL, token.EOF,
	}
	if len(tokens) != len(expectedKinds) {
		t.Fatalf("expected %d tokens, got %d: %v", len(expectedKinds), len(tokens), tokens)
	}
	for i, exp := range expectedKinds {
		if tokens[i].Kind != exp {
			t.Errorf("token[%d]: expected %s, got %s", i, exp, tokens[i].Kind)
		}
	}
	if tokens[0].Lexeme != "a" || tokens[2].Lexeme != "b" || tokens[4].Lexeme != "c" {
		t.Errorf("unexpected template text parts: %q %q %q", tokens[0].Lexeme, tokens[2].Lexeme, tokens[4].Lexeme)
	}
}

func TestTokenizeTemplateLiteralWithNestedBraces(t *testing.T) {
	// The interpolated expression itself contains braces (an object literal);
	// the brace-depth stack must not mistake them for the template's own '}'.
	l := New("`v=${ {a:1}.a }`", "test.tf")
	tokens, diags := l.Tokenize()
	if len(diags) > 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if tokens[0].Kind != token.TEMPLATE_HEAD {
		t.Fatalf("expected TEMPLATE_HEAD first, got %s", tokens[0].Kind)
	}
	last := tokens[len(tokens)-2] // before EOF
	if last.Kind != token.TEMPLATE_TAIL {
		t.Fatalf("expected TEMPLATE_TAIL before EOF, got %s: %v", last.Kind, tokens)
	}
}

func TestTokenizeLineAndBlockComments(t *testing.T) {
	assertKinds(t, "let x = 1; // trailing\n/* block */ let y = 2;", []token.Kind{
		token.KW_LET, token.IDENT, token.ASSIGN, token.NUMBER, token.SEMICOLON,
		token.KW_LET, token.IDENT, token.ASSIGN, token.NUMBER, token.SEMICOLON,
		token.EOF,
	})
}

func TestTokenizeUnterminatedBlockComment(t *testing.T) {
	l := New("/* never closes", "test.tf")
	_, diags := l.Tokenize()
	if len(diags) != 1 || diags[0].Code != "E1006" {
		t.Fatalf("expected single E1006 diagnostic, got %v", diags)
	}
}

func TestTokenizeUnknownCharacter(t *testing.T) {
	l := New("let x = #1;", "test.tf")
	_, diags := l.Tokenize()
	if len(diags) != 1 || diags[0].Code != "E1003" {
		t.Fatalf("expected single E1003 diagnostic, got %v", diags)
	}
}

func TestTokenizeKeywordsAndTypeKeywords(t *testing.T) {
	assertKinds(t, "interface type enum keyof infer as readonly abstract implements",
		[]token.Kind{
			token.KW_INTERFACE, token.KW_TYPE, token.KW_ENUM, token.KW_KEYOF,
			token.KW_INFER, token.KW_AS, token.KW_READONLY, token.KW_ABSTRACT,
			token.KW_IMPLEMENTS, token.EOF,
		})
}
