package ast

import (
	"github.com/loom-lang/loom/internal/token"
)

// Stmt is an imperative-surface statement, valid only before lowering.
type Stmt interface {
	Node
	stmtNode()
}

// Block is an indentation-delimited statement sequence. Lowering requires
// every block to end in a terminator statement (return, or a control-flow
// statement all of whose blocks terminate).
type Block struct {
	Token token.Token
	Stmts []Stmt
}

func (b *Block) GetToken() token.Token {
	if b == nil {
		return token.Token{}
	}
	return b.Token
}

// AssignStmt: pat = expr
type AssignStmt struct {
	Token token.Token
	Pat   Pattern
	Val   Expr
}

func (s *AssignStmt) stmtNode() {}
func (s *AssignStmt) GetToken() token.Token {
	if s == nil {
		return token.Token{}
	}
	return s.Token
}

// InPlaceStmt: x += expr and friends. Desugars to x = x <op> expr.
type InPlaceStmt struct {
	Token token.Token
	Name  string
	Op    string
	Val   Expr
}

func (s *InPlaceStmt) stmtNode() {}
func (s *InPlaceStmt) GetToken() token.Token {
	if s == nil {
		return token.Token{}
	}
	return s.Token
}

// ReturnStmt terminates a branch.
type ReturnStmt struct {
	Token token.Token
	Val   Expr
}

func (s *ReturnStmt) stmtNode() {}
func (s *ReturnStmt) GetToken() token.Token {
	if s == nil {
		return token.Token{}
	}
	return s.Token
}

// IfStmt requires both branches; each must terminate.
type IfStmt struct {
	Token token.Token
	Cond  Expr
	Then  *Block
	Else  *Block
}

func (s *IfStmt) stmtNode() {}
func (s *IfStmt) GetToken() token.Token {
	if s == nil {
		return token.Token{}
	}
	return s.Token
}

// SwitchStmtArm is one case block; Num is nil for "case _".
type SwitchStmtArm struct {
	Token token.Token
	Num   *uint32
	Body  *Block
}

// SwitchStmt: switch x = expr: case 0: ... case _: ...
type SwitchStmt struct {
	Token token.Token
	Bind  string
	Scrut Expr
	Arms  []*SwitchStmtArm
}

func (s *SwitchStmt) stmtNode() {}
func (s *SwitchStmt) GetToken() token.Token {
	if s == nil {
		return token.Token{}
	}
	return s.Token
}

// MatchStmtArm is one case block; Ctor "_" marks an explicit default.
type MatchStmtArm struct {
	Token token.Token
	Ctor  string
	Body  *Block
}

// MatchStmt: match x = expr: case Type/Ctr: ...
type MatchStmt struct {
	Token token.Token
	Bind  string
	Scrut Expr
	Arms  []*MatchStmtArm
}

func (s *MatchStmt) stmtNode() {}
func (s *MatchStmt) GetToken() token.Token {
	if s == nil {
		return token.Token{}
	}
	return s.Token
}

// FoldStmt has the shape of MatchStmt with recursive-field re-folding.
type FoldStmt struct {
	Token token.Token
	Bind  string
	Scrut Expr
	Arms  []*MatchStmtArm
}

func (s *FoldStmt) stmtNode() {}
func (s *FoldStmt) GetToken() token.Token {
	if s == nil {
		return token.Token{}
	}
	return s.Token
}

// BendStmt: bend x = e0, y = e1: when cond: ... else: ...
type BendStmt struct {
	Token token.Token
	Binds []*BendBind
	Cond  Expr
	When  *Block
	Else  *Block
}

func (s *BendStmt) stmtNode() {}
func (s *BendStmt) GetToken() token.Token {
	if s == nil {
		return token.Token{}
	}
	return s.Token
}

// OpenStmt: open Type: var. Non-terminal; scopes the fields of var over
// the rest of the block.
type OpenStmt struct {
	Token    token.Token
	TypeName string
	VarName  string
}

func (s *OpenStmt) stmtNode() {}
func (s *OpenStmt) GetToken() token.Token {
	if s == nil {
		return token.Token{}
	}
	return s.Token
}

// DoStmt is a terminal statement: the block's trailing expression is the
// branch result threaded through Type/bind.
type DoStmt struct {
	Token    token.Token
	TypeName string
	Items    []*DoItem
}

func (s *DoStmt) stmtNode() {}
func (s *DoStmt) GetToken() token.Token {
	if s == nil {
		return token.Token{}
	}
	return s.Token
}
