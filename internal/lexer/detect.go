package lexer

import (
	"github.com/loom-lang/loom/internal/ast"
	"github.com/loom-lang/loom/internal/token"
)

// DetectSyntax picks the surface grammar of a unit from its first
// significant token: def/type/object open the imperative surface, anything
// else (data declarations, rule equations) the functional one.
func DetectSyntax(toks []token.Token) ast.Syntax {
	for _, tok := range toks {
		switch tok.Type {
		case token.NEWLINE:
			continue
		case token.DEF, token.TYPE, token.OBJECT:
			return ast.SyntaxImp
		default:
			return ast.SyntaxFun
		}
	}
	return ast.SyntaxFun
}
