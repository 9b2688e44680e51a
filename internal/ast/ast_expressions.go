package ast

import (
	"github.com/loom-lang/loom/internal/term"
	"github.com/loom-lang/loom/internal/token"
)

// Expr is the sugar-bearing expression form shared by both surfaces: the
// functional parser produces it directly, statement lowering produces it
// from imperative bodies. Desugaring turns it into core term.Term values.
type Expr interface {
	Node
	exprNode()
}

// Ident is a name use: a scoped variable, a function reference, or a
// zero-argument constructor. Resolution happens during desugaring.
type Ident struct {
	Token token.Token
	Name  string
}

func (e *Ident) exprNode() {}
func (e *Ident) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

// UnscopedVar is the use site of an unscoped variable ($x).
type UnscopedVar struct {
	Token token.Token
	Name  string
}

func (e *UnscopedVar) exprNode() {}
func (e *UnscopedVar) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

// Eraser is the '*' term.
type Eraser struct {
	Token token.Token
}

func (e *Eraser) exprNode() {}
func (e *Eraser) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

// Lambda abstracts one or more patterns over a body; multiple patterns
// desugar to nested single-pattern lambdas.
type Lambda struct {
	Token token.Token
	Pats  []Pattern
	Body  Expr
}

func (e *Lambda) exprNode() {}
func (e *Lambda) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

// NamedArg is a "name=value" call argument.
type NamedArg struct {
	Token token.Token
	Name  string
	Value Expr
}

// Call applies a callee to arguments. Named arguments are only legal when
// the callee is an Ident (a function or constructor referenced by name);
// the parser enforces that, the desugarer reorders them.
type Call struct {
	Token  token.Token
	Callee Expr
	Args   []Expr
	Named  []*NamedArg
}

func (e *Call) exprNode() {}
func (e *Call) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

// TupleExpr is an n-ary tuple, n >= 2.
type TupleExpr struct {
	Token token.Token
	Elems []Expr
}

func (e *TupleExpr) exprNode() {}
func (e *TupleExpr) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

// SupExpr is an n-ary superposition, n >= 2.
type SupExpr struct {
	Token token.Token
	Elems []Expr
}

func (e *SupExpr) exprNode() {}
func (e *SupExpr) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

// LetExpr binds a pattern within Next.
type LetExpr struct {
	Token token.Token
	Pat   Pattern
	Val   Expr
	Next  Expr
}

func (e *LetExpr) exprNode() {}
func (e *LetExpr) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

// UseExpr aliases a single name within Next.
type UseExpr struct {
	Token token.Token
	Name  string
	Val   Expr
	Next  Expr
}

func (e *UseExpr) exprNode() {}
func (e *UseExpr) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

// InfixExpr is a binary numeric operation (imperative surface infix form;
// the functional surface writes the same thing as (+ a b)).
type InfixExpr struct {
	Token token.Token
	Op    string
	Left  Expr
	Right Expr
}

func (e *InfixExpr) exprNode() {}
func (e *InfixExpr) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

// NumLit is an already-classified numeric literal.
type NumLit struct {
	Token token.Token
	Kind  term.NumKind
	U     uint32
	I     int32
	F     float64
}

func (e *NumLit) exprNode() {}
func (e *NumLit) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

// CharLit is a character literal; desugars to a u24 codepoint.
type CharLit struct {
	Token token.Token
	Value rune
}

func (e *CharLit) exprNode() {}
func (e *CharLit) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

// SymLit is a symbol literal of up to four base64 characters; desugars to
// the packed u24 value.
type SymLit struct {
	Token token.Token
	Value string
}

func (e *SymLit) exprNode() {}
func (e *SymLit) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

// NatLit is a #N literal; desugars to nested Nat/Succ around Nat/Zero.
type NatLit struct {
	Token token.Token
	Value uint32
}

func (e *NatLit) exprNode() {}
func (e *NatLit) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

// StrLit desugars to a right-nested String/Cons chain.
type StrLit struct {
	Token token.Token
	Value string
}

func (e *StrLit) exprNode() {}
func (e *StrLit) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

// ListLit desugars to a right-nested List/Cons chain.
type ListLit struct {
	Token token.Token
	Elems []Expr
}

func (e *ListLit) exprNode() {}
func (e *ListLit) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

// ListComp is [Out for Var in Iter if Cond]; Cond may be nil.
type ListComp struct {
	Token token.Token
	Out   Expr
	Var   string
	Iter  Expr
	Cond  Expr
}

func (e *ListComp) exprNode() {}
func (e *ListComp) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

// SwitchArm is one arm of a switch; Num is nil for the default arm.
type SwitchArm struct {
	Token token.Token
	Num   *uint32
	Body  Expr
}

// SwitchExpr scrutinizes a numeric value. Arms must be declared 0..k-1
// followed by the default; the match compiler enforces that.
type SwitchExpr struct {
	Token token.Token
	Bind  string
	Scrut Expr
	Arms  []*SwitchArm
}

func (e *SwitchExpr) exprNode() {}
func (e *SwitchExpr) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

// MatchArm is one constructor arm; Ctor "_" marks an explicit default.
type MatchArm struct {
	Token token.Token
	Ctor  string
	Body  Expr
}

func (a *MatchArm) GetToken() token.Token {
	if a == nil {
		return token.Token{}
	}
	return a.Token
}

// MatchExpr scrutinizes an algebraic value by constructor.
type MatchExpr struct {
	Token token.Token
	Bind  string
	Scrut Expr
	Arms  []*MatchArm
}

func (e *MatchExpr) exprNode() {}
func (e *MatchExpr) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

// FoldExpr is a structural recursive reducer: shaped like a match, but
// recursive fields are re-folded via a synthesized recursive function.
type FoldExpr struct {
	Token token.Token
	Bind  string
	Scrut Expr
	Arms  []*MatchArm
}

func (e *FoldExpr) exprNode() {}
func (e *FoldExpr) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

// BendBind is one state variable of a bend with its initial value.
type BendBind struct {
	Token token.Token
	Name  string
	Init  Expr
}

// BendExpr is a generative recursive builder: while Cond holds, When runs
// with fork(...) recursing over the state variables; otherwise Else.
type BendExpr struct {
	Token token.Token
	Binds []*BendBind
	Cond  Expr
	When  Expr
	Else  Expr
}

func (e *BendExpr) exprNode() {}
func (e *BendExpr) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

// OpenExpr brings the fields of a single-constructor value into scope
// within Next.
type OpenExpr struct {
	Token    token.Token
	TypeName string
	VarName  string
	Next     Expr
}

func (e *OpenExpr) exprNode() {}
func (e *OpenExpr) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

// DoItem is one entry of a do block; Bind is empty for plain expressions.
type DoItem struct {
	Token token.Token
	Bind  string
	Expr  Expr
}

// DoExpr is a monadic block over TypeName's bind function; items chain
// right-associatively through TypeName/bind.
type DoExpr struct {
	Token    token.Token
	TypeName string
	Items    []*DoItem
}

func (e *DoExpr) exprNode() {}
func (e *DoExpr) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}
