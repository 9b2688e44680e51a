package lexer_test

import (
	"strings"
	"testing"

	"github.com/kr/pretty"

	"github.com/loom-lang/loom/internal/diagnostics"
	"github.com/loom-lang/loom/internal/lexer"
	"github.com/loom-lang/loom/internal/token"
)

func layout(t *testing.T, input string) []token.Token {
	t.Helper()
	l := lexer.New(input)
	toks := l.Tokens()
	if errs := l.Errors(); len(errs) > 0 {
		t.Fatalf("lex errors: %v", errs)
	}
	laid, errs := lexer.Layout(toks)
	if len(errs) > 0 {
		var msgs []string
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		t.Fatalf("layout errors:\n%s", strings.Join(msgs, "\n"))
	}
	return laid
}

func expectLayout(t *testing.T, input string, want ...token.TokenType) {
	t.Helper()
	got := tokenTypes(layout(t, input))
	if diff := pretty.Diff(want, got); len(diff) > 0 {
		t.Fatalf("layout mismatch for %q:\n%s", input, strings.Join(diff, "\n"))
	}
}

func TestLayoutSimpleBlock(t *testing.T) {
	input := "def f(x):\n  return x\n"
	expectLayout(t, input,
		token.DEF, token.IDENT, token.LPAREN, token.IDENT, token.RPAREN, token.COLON,
		token.NEWLINE, token.INDENT,
		token.RETURN, token.IDENT,
		token.NEWLINE, token.DEDENT,
		token.EOF)
}

func TestLayoutNestedBlocks(t *testing.T) {
	input := "def f(x):\n  if x:\n    return 1\n  else:\n    return 0\n"
	expectLayout(t, input,
		token.DEF, token.IDENT, token.LPAREN, token.IDENT, token.RPAREN, token.COLON,
		token.NEWLINE, token.INDENT,
		token.IF, token.IDENT, token.COLON,
		token.NEWLINE, token.INDENT,
		token.RETURN, token.NUM_U24,
		token.NEWLINE, token.DEDENT,
		token.ELSE, token.COLON,
		token.NEWLINE, token.INDENT,
		token.RETURN, token.NUM_U24,
		token.NEWLINE, token.DEDENT, token.DEDENT,
		token.EOF)
}

func TestLayoutBlankLinesCollapse(t *testing.T) {
	input := "def f(x):\n\n\n  return x\n"
	expectLayout(t, input,
		token.DEF, token.IDENT, token.LPAREN, token.IDENT, token.RPAREN, token.COLON,
		token.NEWLINE, token.INDENT,
		token.RETURN, token.IDENT,
		token.NEWLINE, token.DEDENT,
		token.EOF)
}

func TestLayoutBracketsSuppressNewlines(t *testing.T) {
	input := "def f(x):\n  return (x,\n    x)\n"
	expectLayout(t, input,
		token.DEF, token.IDENT, token.LPAREN, token.IDENT, token.RPAREN, token.COLON,
		token.NEWLINE, token.INDENT,
		token.RETURN, token.LPAREN, token.IDENT, token.COMMA, token.IDENT, token.RPAREN,
		token.NEWLINE, token.DEDENT,
		token.EOF)
}

func TestLayoutMissingFinalNewline(t *testing.T) {
	// EOF closes open blocks even without a trailing newline.
	input := "def f(x):\n  return x"
	expectLayout(t, input,
		token.DEF, token.IDENT, token.LPAREN, token.IDENT, token.RPAREN, token.COLON,
		token.NEWLINE, token.INDENT,
		token.RETURN, token.IDENT,
		token.NEWLINE, token.DEDENT,
		token.EOF)
}

func TestLayoutBadDedent(t *testing.T) {
	input := "def f(x):\n    return x\n  g\n"
	l := lexer.New(input)
	toks := l.Tokens()
	_, errs := lexer.Layout(toks)
	if len(errs) == 0 {
		t.Fatal("expected an indentation error, got none")
	}
	if errs[0].Code != diagnostics.ErrP001 {
		t.Fatalf("got %s, want P001", errs[0].Code)
	}
}

func TestDetectSyntax(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"def main():\n  return 0\n", "imp"},
		{"type Option:\n  Some { x }\n  None\n", "imp"},
		{"object Point { x, y }\n", "imp"},
		{"data Bool = True | False\n", "fun"},
		{"(main) = 0\n", "fun"},
		{"\n\nmain = 0\n", "fun"},
	}
	for _, tt := range tests {
		l := lexer.New(tt.input)
		got := lexer.DetectSyntax(l.Tokens())
		if string(got) != tt.want {
			t.Errorf("DetectSyntax(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
