package lexer

import (
	"github.com/loom-lang/loom/internal/ast"
	"github.com/loom-lang/loom/internal/pipeline"
)

// LexerProcessor tokenizes ctx.SourceCode. For imperative-surface units it
// also runs the layout pass; syntax detection happens first when the
// context asks for it.
type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	l := New(ctx.SourceCode)
	toks := l.Tokens()
	ctx.Errors = append(ctx.Errors, l.Errors()...)

	if ctx.Syntax == pipeline.SyntaxAuto {
		ctx.Syntax = DetectSyntax(toks)
	}
	if ctx.Syntax == ast.SyntaxImp {
		laid, errs := Layout(toks)
		toks = laid
		ctx.Errors = append(ctx.Errors, errs...)
	}

	ctx.Tokens = toks
	for _, err := range ctx.Errors {
		if err.File == "" {
			err.File = ctx.FilePath
		}
	}
	return ctx
}
