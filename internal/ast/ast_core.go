package ast

import (
	"github.com/loom-lang/loom/internal/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	GetToken() token.Token
}

// Decl is a top-level declaration: a type, an object, or a function.
type Decl interface {
	Node
	declNode()
}

// Syntax identifies which surface grammar a source unit was parsed with.
type Syntax string

const (
	SyntaxImp Syntax = "imp"
	SyntaxFun Syntax = "fun"
)

// Program is the root node produced for a single source unit.
type Program struct {
	File   string
	Syntax Syntax
	Decls  []Decl
}

func (p *Program) GetToken() token.Token {
	if p == nil || len(p.Decls) == 0 {
		return token.Token{}
	}
	return p.Decls[0].GetToken()
}

// Field is one constructor field. Recursive fields are marked with '~' in
// both surfaces and drive fold/bend expansion.
type Field struct {
	Token     token.Token
	Name      string
	Recursive bool
}

func (f *Field) GetToken() token.Token {
	if f == nil {
		return token.Token{}
	}
	return f.Token
}

// Constructor is one variant of a type declaration. Name is unqualified;
// the registry qualifies it as "Type/Ctr".
type Constructor struct {
	Token  token.Token
	Name   string
	Fields []*Field
}

func (c *Constructor) GetToken() token.Token {
	if c == nil {
		return token.Token{}
	}
	return c.Token
}

// TypeDecl declares an algebraic type. An object declaration is a TypeDecl
// with exactly one constructor and IsObject set.
type TypeDecl struct {
	Token    token.Token
	Name     string
	Ctors    []*Constructor
	IsObject bool
}

func (td *TypeDecl) declNode() {}
func (td *TypeDecl) GetToken() token.Token {
	if td == nil {
		return token.Token{}
	}
	return td.Token
}

// FuncDecl declares a function. Imperative-surface functions carry Params
// and a statement Body; functional-surface functions carry Rules. The two
// are mutually exclusive.
type FuncDecl struct {
	Token  token.Token
	Name   string
	Params []string
	Body   *Block
	Rules  []*Rule
}

func (fd *FuncDecl) declNode() {}
func (fd *FuncDecl) GetToken() token.Token {
	if fd == nil {
		return token.Token{}
	}
	return fd.Token
}

// Rule is one pattern-matching equation of a functional-surface function.
type Rule struct {
	Token    token.Token
	Patterns []Pattern
	Body     Expr
}

func (r *Rule) GetToken() token.Token {
	if r == nil {
		return token.Token{}
	}
	return r.Token
}
