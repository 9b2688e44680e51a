// Package lower flattens imperative statement blocks into the shared
// expression form. After lowering, every function carries rules, and the
// later passes no longer distinguish the two surfaces.
package lower

import (
	"github.com/loom-lang/loom/internal/ast"
	"github.com/loom-lang/loom/internal/diagnostics"
	"github.com/loom-lang/loom/internal/pipeline"
	"github.com/loom-lang/loom/internal/token"
)

// Lowerer rewrites one unit's imperative function bodies.
type Lowerer struct {
	ctx *pipeline.PipelineContext
}

func New(ctx *pipeline.PipelineContext) *Lowerer {
	return &Lowerer{ctx: ctx}
}

// Lower rewrites every imperative function declaration of the program into
// a single rule whose patterns are the declared parameters.
func (lw *Lowerer) Lower(prog *ast.Program) {
	for _, decl := range prog.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || fd.Body == nil {
			continue
		}
		body := lw.lowerBlock(fd.Body)
		if body == nil {
			continue
		}
		pats := make([]ast.Pattern, len(fd.Params))
		for i, param := range fd.Params {
			pats[i] = &ast.VarPattern{Token: fd.Token, Name: param}
		}
		fd.Rules = []*ast.Rule{{Token: fd.Token, Patterns: pats, Body: body}}
		fd.Body = nil
	}
}

// lowerBlock threads the statements of a block into one expression. Every
// branch must end in exactly one terminator statement.
func (lw *Lowerer) lowerBlock(block *ast.Block) ast.Expr {
	return lw.lowerStmts(block.Stmts, block.Token)
}

func (lw *Lowerer) lowerStmts(stmts []ast.Stmt, blockTok token.Token) ast.Expr {
	if len(stmts) == 0 {
		lw.errorf(diagnostics.ErrC001, blockTok, "block does not end in a return")
		return nil
	}

	head, rest := stmts[0], stmts[1:]
	if isTerminator(head) {
		if len(rest) > 0 {
			lw.errorf(diagnostics.ErrC002, rest[0].GetToken(),
				"unreachable statement after the block's terminator")
			return nil
		}
		return lw.lowerTerminator(head)
	}

	if len(rest) == 0 {
		lw.errorf(diagnostics.ErrC001, head.GetToken(),
			"block ends in %s, expected a return", stmtKind(head))
		return nil
	}
	next := lw.lowerStmts(rest, blockTok)
	if next == nil {
		return nil
	}

	switch s := head.(type) {
	case *ast.AssignStmt:
		return &ast.LetExpr{Token: s.Token, Pat: s.Pat, Val: s.Val, Next: next}
	case *ast.InPlaceStmt:
		val := &ast.InfixExpr{
			Token: s.Token,
			Op:    s.Op,
			Left:  &ast.Ident{Token: s.Token, Name: s.Name},
			Right: s.Val,
		}
		pat := &ast.VarPattern{Token: s.Token, Name: s.Name}
		return &ast.LetExpr{Token: s.Token, Pat: pat, Val: val, Next: next}
	case *ast.OpenStmt:
		return &ast.OpenExpr{Token: s.Token, TypeName: s.TypeName, VarName: s.VarName, Next: next}
	default:
		lw.errorf(diagnostics.ErrC001, head.GetToken(), "unexpected statement")
		return nil
	}
}

// lowerTerminator lowers the statement that produces the branch's value.
func (lw *Lowerer) lowerTerminator(stmt ast.Stmt) ast.Expr {
	switch s := stmt.(type) {
	case *ast.ReturnStmt:
		return s.Val
	case *ast.IfStmt:
		return lw.lowerIf(s)
	case *ast.SwitchStmt:
		sw := &ast.SwitchExpr{Token: s.Token, Bind: s.Bind, Scrut: s.Scrut}
		for _, arm := range s.Arms {
			body := lw.lowerBlock(arm.Body)
			if body == nil {
				return nil
			}
			sw.Arms = append(sw.Arms, &ast.SwitchArm{Token: arm.Token, Num: arm.Num, Body: body})
		}
		return sw
	case *ast.MatchStmt:
		arms := lw.lowerMatchArms(s.Arms)
		if arms == nil {
			return nil
		}
		return &ast.MatchExpr{Token: s.Token, Bind: s.Bind, Scrut: s.Scrut, Arms: arms}
	case *ast.FoldStmt:
		arms := lw.lowerMatchArms(s.Arms)
		if arms == nil {
			return nil
		}
		return &ast.FoldExpr{Token: s.Token, Bind: s.Bind, Scrut: s.Scrut, Arms: arms}
	case *ast.BendStmt:
		when := lw.lowerBlock(s.When)
		els := lw.lowerBlock(s.Else)
		if when == nil || els == nil {
			return nil
		}
		return &ast.BendExpr{Token: s.Token, Binds: s.Binds, Cond: s.Cond, When: when, Else: els}
	case *ast.DoStmt:
		return &ast.DoExpr{Token: s.Token, TypeName: s.TypeName, Items: s.Items}
	default:
		lw.errorf(diagnostics.ErrC001, stmt.GetToken(), "unexpected statement")
		return nil
	}
}

// lowerIf rewrites if/else as a switch on the condition. Numeric truth
// puts zero in the first arm, so the else branch becomes case 0 and the
// then branch becomes the default.
func (lw *Lowerer) lowerIf(s *ast.IfStmt) ast.Expr {
	then := lw.lowerBlock(s.Then)
	els := lw.lowerBlock(s.Else)
	if then == nil || els == nil {
		return nil
	}
	zero := uint32(0)
	return &ast.SwitchExpr{
		Token: s.Token,
		Scrut: s.Cond,
		Arms: []*ast.SwitchArm{
			{Token: s.Else.Token, Num: &zero, Body: els},
			{Token: s.Then.Token, Body: then},
		},
	}
}

func (lw *Lowerer) lowerMatchArms(arms []*ast.MatchStmtArm) []*ast.MatchArm {
	out := make([]*ast.MatchArm, 0, len(arms))
	for _, arm := range arms {
		body := lw.lowerBlock(arm.Body)
		if body == nil {
			return nil
		}
		out = append(out, &ast.MatchArm{Token: arm.Token, Ctor: arm.Ctor, Body: body})
	}
	return out
}

func isTerminator(stmt ast.Stmt) bool {
	switch stmt.(type) {
	case *ast.ReturnStmt, *ast.IfStmt, *ast.SwitchStmt, *ast.MatchStmt,
		*ast.FoldStmt, *ast.BendStmt, *ast.DoStmt:
		return true
	}
	return false
}

func stmtKind(stmt ast.Stmt) string {
	switch stmt.(type) {
	case *ast.AssignStmt:
		return "an assignment"
	case *ast.InPlaceStmt:
		return "an in-place assignment"
	case *ast.OpenStmt:
		return "an open statement"
	default:
		return "a statement"
	}
}

func (lw *Lowerer) errorf(code diagnostics.ErrorCode, tok token.Token, format string, args ...any) {
	err := diagnostics.NewError(code, tok, format, args...)
	err.File = lw.ctx.FilePath
	lw.ctx.Errors = append(lw.ctx.Errors, err)
}

// LowerProcessor is the pipeline stage wrapping Lowerer.
type LowerProcessor struct{}

func (lp *LowerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Program != nil && ctx.Program.Syntax == ast.SyntaxImp {
		New(ctx).Lower(ctx.Program)
	}
	return ctx
}
