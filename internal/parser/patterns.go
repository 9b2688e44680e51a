package parser

import (
	"github.com/loom-lang/loom/internal/ast"
	"github.com/loom-lang/loom/internal/diagnostics"
	"github.com/loom-lang/loom/internal/token"
)

// parsePattern parses the binder side of assignments, lambdas, and rule
// clauses. Both surfaces share the pattern grammar. A bare identifier is
// always a VarPattern here; the match compiler reinterprets names that
// resolve to zero-argument constructors.
func (p *Parser) parsePattern() ast.Pattern {
	switch p.curToken.Type {
	case token.IDENT:
		if isWildcard(p.curToken) {
			return &ast.WildcardPattern{Token: p.curToken}
		}
		return &ast.VarPattern{Token: p.curToken, Name: p.curToken.Name()}
	case token.UNSCOPED:
		return &ast.UnscopedPattern{Token: p.curToken, Name: p.curToken.Name()}
	case token.ASTERISK:
		return &ast.WildcardPattern{Token: p.curToken}
	case token.NUM_U24:
		v, _ := p.curToken.Literal.(uint32)
		return &ast.NumPattern{Token: p.curToken, Value: v}
	case token.LPAREN:
		return p.parseParenPattern()
	case token.LBRACE:
		return p.parseSupPattern()
	default:
		p.errorf(diagnostics.ErrP002, p.curToken, "unexpected %q in pattern", p.curToken.Lexeme)
		return nil
	}
}

// parseParenPattern handles three parenthesized forms: a constructor
// application (Ctr p1 p2), a tuple (p1, p2), and a grouped pattern (p).
func (p *Parser) parseParenPattern() ast.Pattern {
	lparen := p.curToken
	p.nextToken()
	if p.curTokenIs(token.RPAREN) {
		p.errorf(diagnostics.ErrP002, p.curToken, "empty pattern")
		return nil
	}

	first := p.parsePattern()
	if first == nil {
		return nil
	}

	if p.peekTokenIs(token.COMMA) {
		subs := []ast.Pattern{first}
		for p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			sub := p.parsePattern()
			if sub == nil {
				return nil
			}
			subs = append(subs, sub)
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		if len(subs) < 2 {
			p.errorf(diagnostics.ErrP003, lparen, "tuple pattern needs at least two elements")
			return nil
		}
		return &ast.TuplePattern{Token: lparen, Subs: subs}
	}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return first
	}

	// More patterns follow without commas: constructor application.
	head, ok := first.(*ast.VarPattern)
	if !ok {
		p.errorf(diagnostics.ErrP002, first.GetToken(), "constructor pattern must start with a name")
		return nil
	}
	ctor := &ast.CtorPattern{Token: head.Token, Name: head.Name}
	for !p.peekTokenIs(token.RPAREN) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		sub := p.parsePattern()
		if sub == nil {
			return nil
		}
		ctor.Subs = append(ctor.Subs, sub)
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return ctor
}

func (p *Parser) parseSupPattern() ast.Pattern {
	lbrace := p.curToken
	var subs []ast.Pattern
	for !p.peekTokenIs(token.RBRACE) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		sub := p.parsePattern()
		if sub == nil {
			return nil
		}
		subs = append(subs, sub)
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	if len(subs) < 2 {
		p.errorf(diagnostics.ErrP003, lbrace, "superposition pattern needs at least two elements")
		return nil
	}
	return &ast.SupPattern{Token: lbrace, Subs: subs}
}
