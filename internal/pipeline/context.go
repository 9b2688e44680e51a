package pipeline

import (
	"github.com/loom-lang/loom/internal/ast"
	"github.com/loom-lang/loom/internal/diagnostics"
	"github.com/loom-lang/loom/internal/token"
)

// Processor is one stage of the per-unit pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext carries one source unit through the stages. Each stage
// reads the previous stage's output field and fills its own; diagnostics
// accumulate in Errors.
type PipelineContext struct {
	FilePath   string
	SourceCode string

	// Syntax selects the surface grammar; SyntaxAuto lets the parser detect
	// it from the unit's first keyword.
	Syntax ast.Syntax

	Tokens  []token.Token
	Program *ast.Program

	Errors []*diagnostics.DiagnosticError
}

// SyntaxAuto requests per-unit syntax detection.
const SyntaxAuto ast.Syntax = ""

func NewPipelineContext(source string) *PipelineContext {
	return &PipelineContext{SourceCode: source, Syntax: SyntaxAuto}
}

// HasErrors reports whether any stage recorded a diagnostic.
func (ctx *PipelineContext) HasErrors() bool {
	return len(ctx.Errors) > 0
}
