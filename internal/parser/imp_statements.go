package parser

import (
	"strings"

	"github.com/loom-lang/loom/internal/ast"
	"github.com/loom-lang/loom/internal/diagnostics"
	"github.com/loom-lang/loom/internal/token"
)

var inPlaceOps = map[token.TokenType]bool{
	token.PLUS_ASSIGN:      true,
	token.MINUS_ASSIGN:     true,
	token.ASTERISK_ASSIGN:  true,
	token.SLASH_ASSIGN:     true,
	token.PERCENT_ASSIGN:   true,
	token.AMPERSAND_ASSIGN: true,
	token.PIPE_ASSIGN:      true,
	token.CARET_ASSIGN:     true,
}

// parseBlock parses an indented statement sequence. It is called with the
// current token on the header's colon and returns with the current token on
// the block's closing DEDENT.
func (p *Parser) parseBlock() *ast.Block {
	block := &ast.Block{Token: p.curToken}
	if !p.expectPeek(token.NEWLINE) {
		return nil
	}
	if !p.expectPeek(token.INDENT) {
		return nil
	}
	for !p.peekTokenIs(token.DEDENT) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		if p.curTokenIs(token.NEWLINE) {
			continue
		}
		stmt := p.parseStatement()
		if stmt == nil {
			p.skipToLineEnd()
			if p.curTokenIs(token.DEDENT) {
				return block
			}
			continue
		}
		block.Stmts = append(block.Stmts, stmt)
	}
	p.nextToken()
	return block
}

// parseStatement parses one statement. Simple statements end on their
// trailing NEWLINE; statements with indented sub-blocks end on the final
// DEDENT they consume.
func (p *Parser) parseStatement() ast.Stmt {
	switch p.curToken.Type {
	case token.RETURN:
		return p.parseReturnStmt()
	case token.IF:
		return p.parseIfStmt()
	case token.SWITCH:
		return p.parseSwitchStmt()
	case token.MATCH:
		return p.parseMatchStmt(false)
	case token.FOLD:
		return p.parseMatchStmt(true)
	case token.BEND:
		return p.parseBendStmt()
	case token.OPEN:
		return p.parseOpenStmt()
	case token.DO:
		return p.parseDoStmt()
	default:
		if p.curTokenIs(token.IDENT) && inPlaceOps[p.peekToken.Type] {
			return p.parseInPlaceStmt()
		}
		return p.parseAssignStmt()
	}
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	s := &ast.ReturnStmt{Token: p.curToken}
	p.nextToken()
	s.Val = p.parseExpression(LOWEST)
	if s.Val == nil {
		return nil
	}
	if !p.expectPeek(token.NEWLINE) {
		return nil
	}
	return s
}

func (p *Parser) parseAssignStmt() ast.Stmt {
	s := &ast.AssignStmt{Token: p.curToken}
	s.Pat = p.parsePattern()
	if s.Pat == nil {
		return nil
	}
	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	s.Val = p.parseExpression(LOWEST)
	if s.Val == nil {
		return nil
	}
	if !p.expectPeek(token.NEWLINE) {
		return nil
	}
	return s
}

func (p *Parser) parseInPlaceStmt() ast.Stmt {
	s := &ast.InPlaceStmt{Token: p.curToken, Name: p.curToken.Name()}
	p.nextToken()
	s.Op = strings.TrimSuffix(p.curToken.Lexeme, "=")
	p.nextToken()
	s.Val = p.parseExpression(LOWEST)
	if s.Val == nil {
		return nil
	}
	if !p.expectPeek(token.NEWLINE) {
		return nil
	}
	return s
}

func (p *Parser) parseIfStmt() ast.Stmt {
	s := &ast.IfStmt{Token: p.curToken}
	p.nextToken()
	s.Cond = p.parseExpression(LOWEST)
	if s.Cond == nil {
		return nil
	}
	if !p.expectPeek(token.COLON) {
		return nil
	}
	s.Then = p.parseBlock()
	if s.Then == nil {
		return nil
	}
	if !p.expectPeek(token.ELSE) {
		return nil
	}
	if !p.expectPeek(token.COLON) {
		return nil
	}
	s.Else = p.parseBlock()
	if s.Else == nil {
		return nil
	}
	return s
}

// parseScrutinee parses the "x" or "x = expr" header shared by switch,
// match, and fold. The bind name is required so arms can reference fields
// (or the predecessor) through it.
func (p *Parser) parseScrutinee() (string, ast.Expr, bool) {
	if !p.expectPeek(token.IDENT) {
		return "", nil, false
	}
	bind := p.curToken.Name()
	bindTok := p.curToken
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		scrut := p.parseOperand()
		if scrut == nil {
			return "", nil, false
		}
		return bind, scrut, true
	}
	return bind, &ast.Ident{Token: bindTok, Name: bind}, true
}

func (p *Parser) parseSwitchStmt() ast.Stmt {
	s := &ast.SwitchStmt{Token: p.curToken}
	var ok bool
	s.Bind, s.Scrut, ok = p.parseScrutinee()
	if !ok {
		return nil
	}
	if !p.expectPeek(token.COLON) {
		return nil
	}
	if !p.expectPeek(token.NEWLINE) {
		return nil
	}
	if !p.expectPeek(token.INDENT) {
		return nil
	}
	for p.peekTokenIs(token.CASE) {
		p.nextToken()
		arm := &ast.SwitchStmtArm{Token: p.curToken}
		p.nextToken()
		switch {
		case isWildcard(p.curToken):
		case p.curTokenIs(token.NUM_U24):
			v, _ := p.curToken.Literal.(uint32)
			arm.Num = &v
		default:
			p.errorf(diagnostics.ErrC003, p.curToken,
				"switch case must be a number or _, found %q", p.curToken.Lexeme)
			return nil
		}
		if !p.expectPeek(token.COLON) {
			return nil
		}
		arm.Body = p.parseBlock()
		if arm.Body == nil {
			return nil
		}
		s.Arms = append(s.Arms, arm)
	}
	if !p.expectPeek(token.DEDENT) {
		return nil
	}
	if len(s.Arms) == 0 {
		p.errorf(diagnostics.ErrC003, s.Token, "switch has no cases")
		return nil
	}
	return s
}

// parseMatchStmt parses both match and fold statements; they share a
// grammar and differ only in how the arms desugar.
func (p *Parser) parseMatchStmt(fold bool) ast.Stmt {
	tok := p.curToken
	bind, scrut, ok := p.parseScrutinee()
	if !ok {
		return nil
	}
	if !p.expectPeek(token.COLON) {
		return nil
	}
	if !p.expectPeek(token.NEWLINE) {
		return nil
	}
	if !p.expectPeek(token.INDENT) {
		return nil
	}
	var arms []*ast.MatchStmtArm
	for p.peekTokenIs(token.CASE) {
		p.nextToken()
		arm := &ast.MatchStmtArm{Token: p.curToken}
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		arm.Ctor = p.curToken.Name()
		if !p.expectPeek(token.COLON) {
			return nil
		}
		arm.Body = p.parseBlock()
		if arm.Body == nil {
			return nil
		}
		arms = append(arms, arm)
	}
	if !p.expectPeek(token.DEDENT) {
		return nil
	}
	if len(arms) == 0 {
		p.errorf(diagnostics.ErrC004, tok, "match has no cases")
		return nil
	}
	if fold {
		return &ast.FoldStmt{Token: tok, Bind: bind, Scrut: scrut, Arms: arms}
	}
	return &ast.MatchStmt{Token: tok, Bind: bind, Scrut: scrut, Arms: arms}
}

func (p *Parser) parseBendStmt() ast.Stmt {
	s := &ast.BendStmt{Token: p.curToken}
	for {
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		bind := &ast.BendBind{Token: p.curToken, Name: p.curToken.Name()}
		if !p.expectPeek(token.ASSIGN) {
			return nil
		}
		p.nextToken()
		bind.Init = p.parseExpression(LOWEST)
		if bind.Init == nil {
			return nil
		}
		s.Binds = append(s.Binds, bind)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(token.COLON) {
		return nil
	}
	if !p.expectPeek(token.NEWLINE) {
		return nil
	}
	if !p.expectPeek(token.INDENT) {
		return nil
	}
	if !p.expectPeek(token.WHEN) {
		return nil
	}
	p.nextToken()
	s.Cond = p.parseExpression(LOWEST)
	if s.Cond == nil {
		return nil
	}
	if !p.expectPeek(token.COLON) {
		return nil
	}
	s.When = p.parseBlock()
	if s.When == nil {
		return nil
	}
	if !p.expectPeek(token.ELSE) {
		return nil
	}
	if !p.expectPeek(token.COLON) {
		return nil
	}
	s.Else = p.parseBlock()
	if s.Else == nil {
		return nil
	}
	if !p.expectPeek(token.DEDENT) {
		return nil
	}
	return s
}

func (p *Parser) parseOpenStmt() ast.Stmt {
	s := &ast.OpenStmt{Token: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	s.TypeName = p.curToken.Name()
	if !p.expectPeek(token.COLON) {
		return nil
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	s.VarName = p.curToken.Name()
	if !p.expectPeek(token.NEWLINE) {
		return nil
	}
	return s
}

// parseDoStmt parses a monadic block. Items are either "x <- expr" or a
// plain expression; the desugarer requires the last item to be plain.
func (p *Parser) parseDoStmt() ast.Stmt {
	s := &ast.DoStmt{Token: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	s.TypeName = p.curToken.Name()
	if !p.expectPeek(token.COLON) {
		return nil
	}
	if !p.expectPeek(token.NEWLINE) {
		return nil
	}
	if !p.expectPeek(token.INDENT) {
		return nil
	}
	for !p.peekTokenIs(token.DEDENT) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		if p.curTokenIs(token.NEWLINE) {
			continue
		}
		item := &ast.DoItem{Token: p.curToken}
		if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.L_ARROW) {
			item.Bind = p.curToken.Name()
			p.nextToken()
			p.nextToken()
		}
		item.Expr = p.parseExpression(LOWEST)
		if item.Expr == nil {
			return nil
		}
		if !p.expectPeek(token.NEWLINE) {
			return nil
		}
		s.Items = append(s.Items, item)
	}
	if !p.expectPeek(token.DEDENT) {
		return nil
	}
	if len(s.Items) == 0 {
		p.errorf(diagnostics.ErrP001, s.Token, "do block is empty")
		return nil
	}
	return s
}
