package parser

import (
	"github.com/loom-lang/loom/internal/ast"
	"github.com/loom-lang/loom/internal/diagnostics"
	"github.com/loom-lang/loom/internal/term"
	"github.com/loom-lang/loom/internal/token"
)

// parseExpression is the Pratt core for the imperative surface.
func (p *Parser) parseExpression(precedence int) ast.Expr {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.errorf(diagnostics.ErrP001, p.curToken, "unexpected %q in expression", p.curToken.Lexeme)
		return nil
	}
	left := prefix()

	for left != nil && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

// parseOperand parses one expression in whichever surface grammar this
// parser was created for. Literal forms shared by both grammars call it
// for their element expressions.
func (p *Parser) parseOperand() ast.Expr {
	if p.syntax == ast.SyntaxFun {
		return p.parseTerm()
	}
	return p.parseExpression(LOWEST)
}

func (p *Parser) parseIdentExpr() ast.Expr {
	ident := &ast.Ident{Token: p.curToken, Name: p.curToken.Name()}
	if p.peekTokenIs(token.LBRACE) {
		return p.parseCtorBraceLit(ident)
	}
	return ident
}

// parseCtorBraceLit parses "Name { field: expr, ... }". It produces the
// same Call node as a positional constructor application; the desugarer
// reorders the named fields.
func (p *Parser) parseCtorBraceLit(callee *ast.Ident) ast.Expr {
	call := &ast.Call{Token: callee.Token, Callee: callee}
	p.nextToken() // {
	for !p.peekTokenIs(token.RBRACE) && !p.peekTokenIs(token.EOF) {
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		arg := &ast.NamedArg{Token: p.curToken, Name: p.curToken.Name()}
		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		arg.Value = p.parseExpression(LOWEST)
		if arg.Value == nil {
			return nil
		}
		call.Named = append(call.Named, arg)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return call
}

func (p *Parser) parseUnscopedExpr() ast.Expr {
	return &ast.UnscopedVar{Token: p.curToken, Name: p.curToken.Name()}
}

func (p *Parser) parseEraser() ast.Expr {
	return &ast.Eraser{Token: p.curToken}
}

// fork parses as an ordinary identifier; the desugarer rejects it outside
// the when branch of a bend.
func (p *Parser) parseForkExpr() ast.Expr {
	return &ast.Ident{Token: p.curToken, Name: "fork"}
}

func (p *Parser) parseNumberLit() ast.Expr {
	lit := &ast.NumLit{Token: p.curToken}
	switch p.curToken.Type {
	case token.NUM_U24:
		lit.Kind = term.U24
		lit.U, _ = p.curToken.Literal.(uint32)
	case token.NUM_I24:
		lit.Kind = term.I24
		lit.I, _ = p.curToken.Literal.(int32)
	case token.NUM_F24:
		lit.Kind = term.F24
		lit.F, _ = p.curToken.Literal.(float64)
	}
	return lit
}

func (p *Parser) parseNatLit() ast.Expr {
	v, _ := p.curToken.Literal.(uint32)
	return &ast.NatLit{Token: p.curToken, Value: v}
}

func (p *Parser) parseCharLit() ast.Expr {
	r, _ := p.curToken.Literal.(rune)
	return &ast.CharLit{Token: p.curToken, Value: r}
}

func (p *Parser) parseSymbolLit() ast.Expr {
	s, _ := p.curToken.Literal.(string)
	return &ast.SymLit{Token: p.curToken, Value: s}
}

func (p *Parser) parseStringLit() ast.Expr {
	s, _ := p.curToken.Literal.(string)
	return &ast.StrLit{Token: p.curToken, Value: s}
}

func (p *Parser) parseInfixExpr(left ast.Expr) ast.Expr {
	expr := &ast.InfixExpr{Token: p.curToken, Op: p.curToken.Lexeme, Left: left}
	precedence := p.curPrecedence()
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	if expr.Right == nil {
		return nil
	}
	return expr
}

// parseCallExpr parses "callee(a, b, name=c)". Named arguments must come
// after positional ones and require the callee to be a plain name.
func (p *Parser) parseCallExpr(callee ast.Expr) ast.Expr {
	call := &ast.Call{Token: p.curToken, Callee: callee}
	for !p.peekTokenIs(token.RPAREN) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.ASSIGN) {
			arg := &ast.NamedArg{Token: p.curToken, Name: p.curToken.Name()}
			p.nextToken()
			p.nextToken()
			arg.Value = p.parseExpression(LOWEST)
			if arg.Value == nil {
				return nil
			}
			call.Named = append(call.Named, arg)
		} else {
			if len(call.Named) > 0 {
				p.errorf(diagnostics.ErrP004, p.curToken, "positional argument after named argument")
				return nil
			}
			arg := p.parseExpression(LOWEST)
			if arg == nil {
				return nil
			}
			call.Args = append(call.Args, arg)
		}
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if len(call.Named) > 0 {
		if _, ok := callee.(*ast.Ident); !ok {
			p.errorf(diagnostics.ErrP004, call.Token, "named arguments require calling a function by name")
			return nil
		}
	}
	return call
}

// parseGrouped parses "(expr)" and tuples "(a, b, c)".
func (p *Parser) parseGrouped() ast.Expr {
	lparen := p.curToken
	p.nextToken()
	if p.curTokenIs(token.RPAREN) {
		p.errorf(diagnostics.ErrP001, lparen, "empty parentheses")
		return nil
	}
	first := p.parseExpression(LOWEST)
	if first == nil {
		return nil
	}
	if !p.peekTokenIs(token.COMMA) {
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return first
	}
	tup := &ast.TupleExpr{Token: lparen, Elems: []ast.Expr{first}}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		elem := p.parseExpression(LOWEST)
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

// parseListOrComprehension parses "[a, b]" and "[out for x in xs if cond]".
// Shared by both surfaces.
func (p *Parser) parseListOrComprehension() ast.Expr {
	lbracket := p.curToken
	if p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		return &ast.ListLit{Token: lbracket}
	}
	p.nextToken()
	first := p.parseOperand()
	if first == nil {
		return nil
	}

	if p.peekTokenIs(token.FOR) {
		comp := &ast.ListComp{Token: lbracket, Out: first}
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		comp.Var = p.curToken.Name()
		if !p.expectPeek(token.IN) {
			return nil
		}
		p.nextToken()
		comp.Iter = p.parseOperand()
		if comp.Iter == nil {
			return nil
		}
		if p.peekTokenIs(token.IF) {
			p.nextToken()
			p.nextToken()
			comp.Cond = p.parseOperand()
			if comp.Cond == nil {
				return nil
			}
		}
		if !p.expectPeek(token.RBRACKET) {
			return nil
		}
		return comp
	}

	list := &ast.ListLit{Token: lbracket, Elems: []ast.Expr{first}}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		elem := p.parseOperand()
		if elem == nil {
			return nil
		}
		list.Elems = append(list.Elems, elem)
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return list
}

// parseSuperposition parses "{a b}" (functional) and "{a, b}" (imperative);
// either separator is accepted.
func (p *Parser) parseSuperposition() ast.Expr {
	lbrace := p.curToken
	sup := &ast.SupExpr{Token: lbrace}
	for !p.peekTokenIs(token.RBRACE) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		elem := p.parseOperand()
		if elem == nil {
			return nil
		}
		sup.Elems = append(sup.Elems, elem)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	if len(sup.Elems) < 2 {
		p.errorf(diagnostics.ErrP003, lbrace, "superposition needs at least two elements")
		return nil
	}
	return sup
}

// parseLambdaExpr parses "lambda p1, p2: body" (imperative surface).
func (p *Parser) parseLambdaExpr() ast.Expr {
	lam := &ast.Lambda{Token: p.curToken}
	p.nextToken()
	pat := p.parsePattern()
	if pat == nil {
		return nil
	}
	lam.Pats = append(lam.Pats, pat)
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		pat := p.parsePattern()
		if pat == nil {
			return nil
		}
		lam.Pats = append(lam.Pats, pat)
	}
	if !p.expectPeek(token.COLON) {
		return nil
	}
	p.nextToken()
	lam.Body = p.parseExpression(LOWEST)
	if lam.Body == nil {
		return nil
	}
	return lam
}
