package parser

import (
	"github.com/loom-lang/loom/internal/pipeline"
)

// ParserProcessor is the pipeline stage that builds the surface AST from
// the token stream.
type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	p := New(ctx.Tokens, ctx)
	ctx.Program = p.ParseProgram()
	return ctx
}
