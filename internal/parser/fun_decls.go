package parser

import (
	"github.com/loom-lang/loom/internal/ast"
	"github.com/loom-lang/loom/internal/diagnostics"
	"github.com/loom-lang/loom/internal/token"
)

// parseFunProgram parses the functional surface: data declarations and
// pattern-matching equations. Adjacent equations with the same head name
// merge into one function.
func (p *Parser) parseFunProgram(prog *ast.Program) {
	for !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}
		switch p.curToken.Type {
		case token.DATA:
			if decl := p.parseDataDecl(); decl != nil {
				prog.Decls = append(prog.Decls, decl)
			} else {
				p.skipToLineEnd()
			}
		case token.LPAREN, token.IDENT:
			name, rule := p.parseFunRule()
			if rule == nil {
				p.skipToLineEnd()
				break
			}
			p.addRule(prog, name, rule)
		default:
			p.errorf(diagnostics.ErrP001, p.curToken,
				"expected data or an equation, found %q", p.curToken.Lexeme)
			p.skipToLineEnd()
		}
		p.nextToken()
	}
}

func (p *Parser) addRule(prog *ast.Program, name string, rule *ast.Rule) {
	if len(prog.Decls) > 0 {
		if fd, ok := prog.Decls[len(prog.Decls)-1].(*ast.FuncDecl); ok && fd.Name == name {
			fd.Rules = append(fd.Rules, rule)
			return
		}
	}
	prog.Decls = append(prog.Decls, &ast.FuncDecl{
		Token: rule.Token,
		Name:  name,
		Rules: []*ast.Rule{rule},
	})
}

// parseDataDecl parses "data Tree = (Node ~left ~right) | (Leaf value)".
// A variant is either parenthesized with fields or a bare name.
func (p *Parser) parseDataDecl() ast.Decl {
	td := &ast.TypeDecl{Token: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	td.Name = p.curToken.Name()
	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	for {
		p.nextToken()
		ctor := p.parseDataCtor()
		if ctor == nil {
			return nil
		}
		td.Ctors = append(td.Ctors, ctor)
		if !p.peekTokenIs(token.PIPE) {
			break
		}
		p.nextToken()
	}
	return td
}

func (p *Parser) parseDataCtor() *ast.Constructor {
	if p.curTokenIs(token.IDENT) {
		return &ast.Constructor{Token: p.curToken, Name: p.curToken.Name()}
	}
	if !p.curTokenIs(token.LPAREN) {
		p.errorf(diagnostics.ErrP001, p.curToken,
			"expected a constructor, found %q", p.curToken.Lexeme)
		return nil
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	ctor := &ast.Constructor{Token: p.curToken, Name: p.curToken.Name()}
	for !p.peekTokenIs(token.RPAREN) && !p.peekTokenIs(token.EOF) {
		recursive := false
		if p.peekTokenIs(token.TILDE) {
			p.nextToken()
			recursive = true
		}
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		ctor.Fields = append(ctor.Fields, &ast.Field{
			Token:     p.curToken,
			Name:      p.curToken.Name(),
			Recursive: recursive,
		})
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return ctor
}

// parseFunRule parses one equation: "(name pat*) = term" or the
// zero-argument form "name = term".
func (p *Parser) parseFunRule() (string, *ast.Rule) {
	if p.curTokenIs(token.IDENT) {
		name := p.curToken.Name()
		rule := &ast.Rule{Token: p.curToken}
		if !p.expectPeek(token.ASSIGN) {
			return "", nil
		}
		p.nextToken()
		rule.Body = p.parseTerm()
		if rule.Body == nil {
			return "", nil
		}
		return name, rule
	}

	// cur is LPAREN
	if !p.expectPeek(token.IDENT) {
		return "", nil
	}
	name := p.curToken.Name()
	rule := &ast.Rule{Token: p.curToken}
	for !p.peekTokenIs(token.RPAREN) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		pat := p.parsePattern()
		if pat == nil {
			return "", nil
		}
		rule.Patterns = append(rule.Patterns, pat)
	}
	if !p.expectPeek(token.RPAREN) {
		return "", nil
	}
	if !p.expectPeek(token.ASSIGN) {
		return "", nil
	}
	p.nextToken()
	rule.Body = p.parseTerm()
	if rule.Body == nil {
		return "", nil
	}
	return name, rule
}
