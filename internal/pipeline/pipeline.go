// Package pipeline wires the per-unit processing stages (lexing, layout,
// parsing) into a chain sharing one context. Cross-unit passes such as
// registry building and per-definition desugaring are orchestrated by
// internal/compile on top of the per-unit results.
package pipeline

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline. Stages keep running after errors so that a
// single pass collects every diagnostic the unit can produce.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
	}
	return ctx
}
