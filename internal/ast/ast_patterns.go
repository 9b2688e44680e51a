package ast

import (
	"github.com/loom-lang/loom/internal/token"
)

// Pattern is the binder side of assignments, lambdas, and rule clauses.
type Pattern interface {
	Node
	patternNode()
}

// VarPattern binds a scoped name.
type VarPattern struct {
	Token token.Token
	Name  string
}

func (p *VarPattern) patternNode() {}
func (p *VarPattern) GetToken() token.Token {
	if p == nil {
		return token.Token{}
	}
	return p.Token
}

// UnscopedPattern binds an unscoped name ($x). The matching use must occur
// exactly once in the enclosing function.
type UnscopedPattern struct {
	Token token.Token
	Name  string
}

func (p *UnscopedPattern) patternNode() {}
func (p *UnscopedPattern) GetToken() token.Token {
	if p == nil {
		return token.Token{}
	}
	return p.Token
}

// WildcardPattern: _
type WildcardPattern struct {
	Token token.Token
}

func (p *WildcardPattern) patternNode() {}
func (p *WildcardPattern) GetToken() token.Token {
	if p == nil {
		return token.Token{}
	}
	return p.Token
}

// NumPattern matches a u24 literal in a rule clause.
type NumPattern struct {
	Token token.Token
	Value uint32
}

func (p *NumPattern) patternNode() {}
func (p *NumPattern) GetToken() token.Token {
	if p == nil {
		return token.Token{}
	}
	return p.Token
}

// CtorPattern matches a constructor application. Name may be qualified
// (Type/Ctr) or unqualified when the constructor name is unambiguous.
type CtorPattern struct {
	Token token.Token
	Name  string
	Subs  []Pattern
}

func (p *CtorPattern) patternNode() {}
func (p *CtorPattern) GetToken() token.Token {
	if p == nil {
		return token.Token{}
	}
	return p.Token
}

// TuplePattern destructures a tuple; requires at least two elements.
type TuplePattern struct {
	Token token.Token
	Subs  []Pattern
}

func (p *TuplePattern) patternNode() {}
func (p *TuplePattern) GetToken() token.Token {
	if p == nil {
		return token.Token{}
	}
	return p.Token
}

// SupPattern destructures a superposition; requires at least two elements.
type SupPattern struct {
	Token token.Token
	Subs  []Pattern
}

func (p *SupPattern) patternNode() {}
func (p *SupPattern) GetToken() token.Token {
	if p == nil {
		return token.Token{}
	}
	return p.Token
}
