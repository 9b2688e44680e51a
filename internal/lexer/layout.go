package lexer

import (
	"github.com/loom-lang/loom/internal/diagnostics"
	"github.com/loom-lang/loom/internal/token"
)

// Layout converts the flat token stream of an imperative-surface unit into
// an indentation-aware one: newline runs collapse to a single NEWLINE
// followed by INDENT/DEDENT tokens as the column of the next significant
// token moves. Newlines inside brackets are suppressed.
func Layout(toks []token.Token) ([]token.Token, []*diagnostics.DiagnosticError) {
	var (
		out    []token.Token
		errs   []*diagnostics.DiagnosticError
		stack  = []int{1}
		depth  = 0
		sawTok = false
	)

	i := 0
	for i < len(toks) {
		tok := toks[i]

		switch tok.Type {
		case token.LPAREN, token.LBRACKET, token.LBRACE:
			depth++
		case token.RPAREN, token.RBRACKET, token.RBRACE:
			if depth > 0 {
				depth--
			}
		}

		if tok.Type == token.NEWLINE {
			if depth > 0 || !sawTok {
				i++
				continue
			}
			// Collapse the newline run and look at the next significant token.
			j := i
			for j < len(toks) && toks[j].Type == token.NEWLINE {
				j++
			}
			next := toks[j] // the token slice always ends in EOF
			if next.Type == token.EOF {
				i = j
				continue
			}
			out = append(out, token.Token{Type: token.NEWLINE, Lexeme: "\n", Line: tok.Line, Column: tok.Column})
			col := next.Column
			top := stack[len(stack)-1]
			switch {
			case col > top:
				out = append(out, token.Token{Type: token.INDENT, Lexeme: "", Line: next.Line, Column: next.Column})
				stack = append(stack, col)
			case col < top:
				for len(stack) > 1 && stack[len(stack)-1] > col {
					stack = stack[:len(stack)-1]
					out = append(out, token.Token{Type: token.DEDENT, Lexeme: "", Line: next.Line, Column: next.Column})
				}
				if stack[len(stack)-1] != col {
					errs = append(errs, diagnostics.NewError(
						diagnostics.ErrP001, next,
						"unindent does not match any outer indentation level"))
				}
			}
			i = j
			continue
		}

		if tok.Type == token.EOF {
			if sawTok {
				out = append(out, token.Token{Type: token.NEWLINE, Lexeme: "\n", Line: tok.Line, Column: tok.Column})
			}
			for len(stack) > 1 {
				stack = stack[:len(stack)-1]
				out = append(out, token.Token{Type: token.DEDENT, Lexeme: "", Line: tok.Line, Column: tok.Column})
			}
			out = append(out, tok)
			i++
			continue
		}

		sawTok = true
		out = append(out, tok)
		i++
	}
	return out, errs
}
