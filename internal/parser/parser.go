// Package parser turns a token stream into a surface AST. Both surface
// grammars live here: the imperative one (statements, indentation layout)
// and the functional one (equations and terms). Expression parsing for the
// imperative surface is Pratt-style; the functional surface is prefix form
// and needs no precedence table.
package parser

import (
	"github.com/loom-lang/loom/internal/ast"
	"github.com/loom-lang/loom/internal/diagnostics"
	"github.com/loom-lang/loom/internal/pipeline"
	"github.com/loom-lang/loom/internal/token"
)

const (
	_ int = iota
	LOWEST
	EQUALS      // == !=
	LESSGREATER // < > <= >=
	BITWISE     // & | ^ << >>
	SUM         // + -
	PRODUCT     // * / %
	POWER       // **
	CALL        // f(x)
)

var precedences = map[token.TokenType]int{
	token.EQ:        EQUALS,
	token.NOT_EQ:    EQUALS,
	token.LT:        LESSGREATER,
	token.GT:        LESSGREATER,
	token.LTE:       LESSGREATER,
	token.GTE:       LESSGREATER,
	token.AMPERSAND: BITWISE,
	token.PIPE:      BITWISE,
	token.CARET:     BITWISE,
	token.LSHIFT:    BITWISE,
	token.RSHIFT:    BITWISE,
	token.PLUS:      SUM,
	token.MINUS:     SUM,
	token.ASTERISK:  PRODUCT,
	token.SLASH:     PRODUCT,
	token.PERCENT:   PRODUCT,
	token.POWER:     POWER,
	token.LPAREN:    CALL,
}

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

type Parser struct {
	toks []token.Token
	pos  int

	curToken  token.Token
	peekToken token.Token

	syntax ast.Syntax
	ctx    *pipeline.PipelineContext

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

func New(toks []token.Token, ctx *pipeline.PipelineContext) *Parser {
	p := &Parser{
		toks:   toks,
		syntax: ctx.Syntax,
		ctx:    ctx,
	}

	// The functional surface is whitespace-insensitive: terms are fully
	// delimited, so line breaks carry no structure.
	if p.syntax == ast.SyntaxFun {
		filtered := make([]token.Token, 0, len(toks))
		for _, t := range toks {
			if t.Type != token.NEWLINE {
				filtered = append(filtered, t)
			}
		}
		p.toks = filtered
	}

	p.prefixParseFns = map[token.TokenType]prefixParseFn{
		token.IDENT:     p.parseIdentExpr,
		token.UNSCOPED:  p.parseUnscopedExpr,
		token.NUM_U24:   p.parseNumberLit,
		token.NUM_I24:   p.parseNumberLit,
		token.NUM_F24:   p.parseNumberLit,
		token.NAT:       p.parseNatLit,
		token.CHAR:      p.parseCharLit,
		token.SYMBOL:    p.parseSymbolLit,
		token.STRING:    p.parseStringLit,
		token.ASTERISK:  p.parseEraser,
		token.FORK:      p.parseForkExpr,
		token.LPAREN:    p.parseGrouped,
		token.LBRACKET:  p.parseListOrComprehension,
		token.LBRACE:    p.parseSuperposition,
		token.LAMBDA:    p.parseLambdaExpr,
		token.LAMBDA_KW: p.parseLambdaExpr,
	}
	p.infixParseFns = map[token.TokenType]infixParseFn{
		token.EQ:        p.parseInfixExpr,
		token.NOT_EQ:    p.parseInfixExpr,
		token.LT:        p.parseInfixExpr,
		token.GT:        p.parseInfixExpr,
		token.LTE:       p.parseInfixExpr,
		token.GTE:       p.parseInfixExpr,
		token.AMPERSAND: p.parseInfixExpr,
		token.PIPE:      p.parseInfixExpr,
		token.CARET:     p.parseInfixExpr,
		token.LSHIFT:    p.parseInfixExpr,
		token.RSHIFT:    p.parseInfixExpr,
		token.PLUS:      p.parseInfixExpr,
		token.MINUS:     p.parseInfixExpr,
		token.ASTERISK:  p.parseInfixExpr,
		token.SLASH:     p.parseInfixExpr,
		token.PERCENT:   p.parseInfixExpr,
		token.POWER:     p.parseInfixExpr,
		token.LPAREN:    p.parseCallExpr,
	}

	// Prime curToken and peekToken.
	p.nextToken()
	p.nextToken()
	return p
}

// ParseProgram parses the whole unit with the surface grammar selected in
// the pipeline context.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{File: p.ctx.FilePath, Syntax: p.syntax}
	if p.syntax == ast.SyntaxImp {
		p.parseImpProgram(prog)
	} else {
		p.parseFunProgram(prog)
	}
	return prog
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	if p.pos < len(p.toks) {
		p.peekToken = p.toks[p.pos]
		p.pos++
	} else {
		p.peekToken = token.Token{Type: token.EOF, Line: p.curToken.Line, Column: p.curToken.Column}
	}
}

func (p *Parser) curTokenIs(t token.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.errorf(diagnostics.ErrP001, p.peekToken, "expected %s, found %q", t, p.peekToken.Lexeme)
	return false
}

func (p *Parser) errorf(code diagnostics.ErrorCode, tok token.Token, format string, args ...any) {
	err := diagnostics.NewError(code, tok, format, args...)
	err.File = p.ctx.FilePath
	p.ctx.Errors = append(p.ctx.Errors, err)
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// skipNewlines advances past a run of NEWLINE tokens.
func (p *Parser) skipNewlines() {
	for p.curTokenIs(token.NEWLINE) {
		p.nextToken()
	}
}

// skipToLineEnd recovers from a parse error by dropping tokens up to the
// next statement boundary.
func (p *Parser) skipToLineEnd() {
	for !p.curTokenIs(token.NEWLINE) && !p.curTokenIs(token.EOF) &&
		!p.curTokenIs(token.DEDENT) {
		p.nextToken()
	}
}

func isWildcard(tok token.Token) bool {
	return tok.Type == token.IDENT && tok.Name() == "_"
}
