package parser

import (
	"github.com/loom-lang/loom/internal/ast"
	"github.com/loom-lang/loom/internal/diagnostics"
	"github.com/loom-lang/loom/internal/token"
)

var funOperators = map[token.TokenType]bool{
	token.PLUS:      true,
	token.MINUS:     true,
	token.ASTERISK:  true,
	token.SLASH:     true,
	token.PERCENT:   true,
	token.POWER:     true,
	token.EQ:        true,
	token.NOT_EQ:    true,
	token.LT:        true,
	token.GT:        true,
	token.LTE:       true,
	token.GTE:       true,
	token.AMPERSAND: true,
	token.PIPE:      true,
	token.CARET:     true,
	token.LSHIFT:    true,
	token.RSHIFT:    true,
}

// parseTerm parses one functional-surface term. Application is always
// parenthesized, so no precedence climbing is needed.
func (p *Parser) parseTerm() ast.Expr {
	switch p.curToken.Type {
	case token.IDENT:
		return &ast.Ident{Token: p.curToken, Name: p.curToken.Name()}
	case token.FORK:
		return &ast.Ident{Token: p.curToken, Name: "fork"}
	case token.UNSCOPED:
		return p.parseUnscopedExpr()
	case token.NUM_U24, token.NUM_I24, token.NUM_F24:
		return p.parseNumberLit()
	case token.NAT:
		return p.parseNatLit()
	case token.CHAR:
		return p.parseCharLit()
	case token.SYMBOL:
		return p.parseSymbolLit()
	case token.STRING:
		return p.parseStringLit()
	case token.ASTERISK:
		return p.parseEraser()
	case token.LAMBDA:
		return p.parseFunLambda()
	case token.LPAREN:
		return p.parseFunParen()
	case token.LBRACE:
		return p.parseSuperposition()
	case token.LBRACKET:
		return p.parseListOrComprehension()
	case token.LET:
		return p.parseLetTerm()
	case token.USE:
		return p.parseUseTerm()
	case token.MATCH:
		return p.parseMatchTerm(false)
	case token.FOLD:
		return p.parseMatchTerm(true)
	case token.SWITCH:
		return p.parseSwitchTerm()
	case token.BEND:
		return p.parseBendTerm()
	case token.OPEN:
		return p.parseOpenTerm()
	case token.DO:
		return p.parseDoTerm()
	default:
		p.errorf(diagnostics.ErrP001, p.curToken, "unexpected %q in term", p.curToken.Lexeme)
		return nil
	}
}

// parseFunLambda parses "λpat body". Nested lambdas are written λa λb.
func (p *Parser) parseFunLambda() ast.Expr {
	lam := &ast.Lambda{Token: p.curToken}
	p.nextToken()
	pat := p.parsePattern()
	if pat == nil {
		return nil
	}
	lam.Pats = []ast.Pattern{pat}
	p.nextToken()
	lam.Body = p.parseTerm()
	if lam.Body == nil {
		return nil
	}
	return lam
}

// parseFunParen parses the parenthesized forms: operator application
// (+ a b), application (f a b), tuples (a, b), and grouping (t).
func (p *Parser) parseFunParen() ast.Expr {
	lparen := p.curToken
	if funOperators[p.peekToken.Type] {
		p.nextToken()
		expr := &ast.InfixExpr{Token: p.curToken, Op: p.curToken.Lexeme}
		p.nextToken()
		expr.Left = p.parseTerm()
		if expr.Left == nil {
			return nil
		}
		p.nextToken()
		expr.Right = p.parseTerm()
		if expr.Right == nil {
			return nil
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return expr
	}

	p.nextToken()
	if p.curTokenIs(token.RPAREN) {
		p.errorf(diagnostics.ErrP001, lparen, "empty parentheses")
		return nil
	}
	first := p.parseTerm()
	if first == nil {
		return nil
	}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return first
	}

	if p.peekTokenIs(token.COMMA) {
		tup := &ast.TupleExpr{Token: lparen, Elems: []ast.Expr{first}}
		for p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			elem := p.parseTerm()
			if elem == nil {
				return nil
			}
			tup.Elems = append(tup.Elems, elem)
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return tup
	}

	call := &ast.Call{Token: lparen, Callee: first}
	for !p.peekTokenIs(token.RPAREN) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.ASSIGN) {
			arg := &ast.NamedArg{Token: p.curToken, Name: p.curToken.Name()}
			p.nextToken()
			p.nextToken()
			arg.Value = p.parseTerm()
			if arg.Value == nil {
				return nil
			}
			call.Named = append(call.Named, arg)
			continue
		}
		if len(call.Named) > 0 {
			p.errorf(diagnostics.ErrP004, p.curToken, "positional argument after named argument")
			return nil
		}
		arg := p.parseTerm()
		if arg == nil {
			return nil
		}
		call.Args = append(call.Args, arg)
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if len(call.Named) > 0 {
		if _, ok := first.(*ast.Ident); !ok {
			p.errorf(diagnostics.ErrP004, lparen, "named arguments require calling a function by name")
			return nil
		}
	}
	return call
}

func (p *Parser) parseLetTerm() ast.Expr {
	let := &ast.LetExpr{Token: p.curToken}
	p.nextToken()
	let.Pat = p.parsePattern()
	if let.Pat == nil {
		return nil
	}
	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	let.Val = p.parseTerm()
	if let.Val == nil {
		return nil
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	p.nextToken()
	let.Next = p.parseTerm()
	if let.Next == nil {
		return nil
	}
	return let
}

func (p *Parser) parseUseTerm() ast.Expr {
	use := &ast.UseExpr{Token: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	use.Name = p.curToken.Name()
	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	use.Val = p.parseTerm()
	if use.Val == nil {
		return nil
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	p.nextToken()
	use.Next = p.parseTerm()
	if use.Next == nil {
		return nil
	}
	return use
}

// parseMatchTerm parses "match x = e { Ctr: body; _: d }" and the fold
// form with the same shape.
func (p *Parser) parseMatchTerm(fold bool) ast.Expr {
	tok := p.curToken
	bind, scrut, ok := p.parseScrutinee()
	if !ok {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	var arms []*ast.MatchArm
	for !p.peekTokenIs(token.RBRACE) && !p.peekTokenIs(token.EOF) {
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		arm := &ast.MatchArm{Token: p.curToken, Ctor: p.curToken.Name()}
		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		arm.Body = p.parseTerm()
		if arm.Body == nil {
			return nil
		}
		arms = append(arms, arm)
		if p.peekTokenIs(token.SEMICOLON) {
			p.nextToken()
		}
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	if len(arms) == 0 {
		p.errorf(diagnostics.ErrC004, tok, "match has no arms")
		return nil
	}
	if fold {
		return &ast.FoldExpr{Token: tok, Bind: bind, Scrut: scrut, Arms: arms}
	}
	return &ast.MatchExpr{Token: tok, Bind: bind, Scrut: scrut, Arms: arms}
}

func (p *Parser) parseSwitchTerm() ast.Expr {
	sw := &ast.SwitchExpr{Token: p.curToken}
	var ok bool
	sw.Bind, sw.Scrut, ok = p.parseScrutinee()
	if !ok {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	for !p.peekTokenIs(token.RBRACE) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		arm := &ast.SwitchArm{Token: p.curToken}
		switch {
		case isWildcard(p.curToken):
		case p.curTokenIs(token.NUM_U24):
			v, _ := p.curToken.Literal.(uint32)
			arm.Num = &v
		default:
			p.errorf(diagnostics.ErrC003, p.curToken,
				"switch arm must be a number or _, found %q", p.curToken.Lexeme)
			return nil
		}
		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		arm.Body = p.parseTerm()
		if arm.Body == nil {
			return nil
		}
		sw.Arms = append(sw.Arms, arm)
		if p.peekTokenIs(token.SEMICOLON) {
			p.nextToken()
		}
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	if len(sw.Arms) == 0 {
		p.errorf(diagnostics.ErrC003, sw.Token, "switch has no arms")
		return nil
	}
	return sw
}

// parseBendTerm parses "bend x = e0, y = e1 { when cond: t; else: e }".
func (p *Parser) parseBendTerm() ast.Expr {
	bend := &ast.BendExpr{Token: p.curToken}
	for {
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		b := &ast.BendBind{Token: p.curToken, Name: p.curToken.Name()}
		if !p.expectPeek(token.ASSIGN) {
			return nil
		}
		p.nextToken()
		b.Init = p.parseTerm()
		if b.Init == nil {
			return nil
		}
		bend.Binds = append(bend.Binds, b)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	if !p.expectPeek(token.WHEN) {
		return nil
	}
	p.nextToken()
	bend.Cond = p.parseTerm()
	if bend.Cond == nil {
		return nil
	}
	if !p.expectPeek(token.COLON) {
		return nil
	}
	p.nextToken()
	bend.When = p.parseTerm()
	if bend.When == nil {
		return nil
	}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	if !p.expectPeek(token.ELSE) {
		return nil
	}
	if !p.expectPeek(token.COLON) {
		return nil
	}
	p.nextToken()
	bend.Else = p.parseTerm()
	if bend.Else == nil {
		return nil
	}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return bend
}

// parseOpenTerm parses "open Type x; next".
func (p *Parser) parseOpenTerm() ast.Expr {
	open := &ast.OpenExpr{Token: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	open.TypeName = p.curToken.Name()
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	open.VarName = p.curToken.Name()
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	p.nextToken()
	open.Next = p.parseTerm()
	if open.Next == nil {
		return nil
	}
	return open
}

// parseDoTerm parses "do Type { x <- e1; e2 }".
func (p *Parser) parseDoTerm() ast.Expr {
	do := &ast.DoExpr{Token: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	do.TypeName = p.curToken.Name()
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	for !p.peekTokenIs(token.RBRACE) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		item := &ast.DoItem{Token: p.curToken}
		if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.L_ARROW) {
			item.Bind = p.curToken.Name()
			p.nextToken()
			p.nextToken()
		}
		item.Expr = p.parseTerm()
		if item.Expr == nil {
			return nil
		}
		do.Items = append(do.Items, item)
		if p.peekTokenIs(token.SEMICOLON) {
			p.nextToken()
		}
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	if len(do.Items) == 0 {
		p.errorf(diagnostics.ErrP001, do.Token, "do block is empty")
		return nil
	}
	return do
}
