package parser

import (
	"github.com/loom-lang/loom/internal/ast"
	"github.com/loom-lang/loom/internal/diagnostics"
	"github.com/loom-lang/loom/internal/token"
)

func (p *Parser) parseImpProgram(prog *ast.Program) {
	for !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.NEWLINE) {
			p.nextToken()
			continue
		}
		var decl ast.Decl
		switch p.curToken.Type {
		case token.DEF:
			decl = p.parseDefDecl()
		case token.TYPE:
			decl = p.parseTypeDecl()
		case token.OBJECT:
			decl = p.parseObjectDecl()
		default:
			p.errorf(diagnostics.ErrP001, p.curToken,
				"expected def, type, or object, found %q", p.curToken.Lexeme)
			p.skipToLineEnd()
		}
		if decl != nil {
			prog.Decls = append(prog.Decls, decl)
		} else {
			p.skipToLineEnd()
		}
		p.nextToken()
	}
}

// parseDefDecl parses "def name(p1, p2):" followed by an indented body.
func (p *Parser) parseDefDecl() ast.Decl {
	fd := &ast.FuncDecl{Token: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	fd.Name = p.curToken.Name()
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	for !p.peekTokenIs(token.RPAREN) && !p.peekTokenIs(token.EOF) {
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		fd.Params = append(fd.Params, p.curToken.Name())
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.COLON) {
		return nil
	}
	fd.Body = p.parseBlock()
	if fd.Body == nil {
		return nil
	}
	return fd
}

// parseTypeDecl parses an indented list of constructors:
//
//	type Tree:
//	  Node { ~left, ~right }
//	  Leaf { value }
func (p *Parser) parseTypeDecl() ast.Decl {
	td := &ast.TypeDecl{Token: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	td.Name = p.curToken.Name()
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
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		ctor := &ast.Constructor{Token: p.curToken, Name: p.curToken.Name()}
		if p.peekTokenIs(token.LBRACE) {
			p.nextToken()
			ctor.Fields = p.parseFieldList()
			if ctor.Fields == nil {
				return nil
			}
		}
		if !p.expectPeek(token.NEWLINE) {
			return nil
		}
		td.Ctors = append(td.Ctors, ctor)
	}
	if !p.expectPeek(token.DEDENT) {
		return nil
	}
	if len(td.Ctors) == 0 {
		p.errorf(diagnostics.ErrP001, td.Token, "type %s has no constructors", td.Name)
		return nil
	}
	return td
}

// parseObjectDecl parses "object Name { f1, ~f2 }": a single-constructor
// type whose constructor shares the type's name.
func (p *Parser) parseObjectDecl() ast.Decl {
	td := &ast.TypeDecl{Token: p.curToken, IsObject: true}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	td.Name = p.curToken.Name()
	ctor := &ast.Constructor{Token: p.curToken, Name: td.Name}
	if p.peekTokenIs(token.LBRACE) {
		p.nextToken()
		ctor.Fields = p.parseFieldList()
		if ctor.Fields == nil {
			return nil
		}
	}
	td.Ctors = []*ast.Constructor{ctor}
	if !p.expectPeek(token.NEWLINE) {
		return nil
	}
	return td
}

// parseFieldList parses "{ f1, ~f2 }" starting on the opening brace.
// A '~' marks the field recursive for fold and bend expansion.
func (p *Parser) parseFieldList() []*ast.Field {
	fields := []*ast.Field{}
	for !p.peekTokenIs(token.RBRACE) && !p.peekTokenIs(token.EOF) {
		recursive := false
		if p.peekTokenIs(token.TILDE) {
			p.nextToken()
			recursive = true
		}
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		fields = append(fields, &ast.Field{
			Token:     p.curToken,
			Name:      p.curToken.Name(),
			Recursive: recursive,
		})
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return fields
}
