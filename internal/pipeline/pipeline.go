package pipeline

import (
	"github.com/funvibe/schemalang/internal/config"
	"github.com/funvibe/schemalang/internal/diagnostics"
	"github.com/funvibe/schemalang/internal/semantics"
)

// PipelineContext is the shared state flowing through the compilation
// stages.
type PipelineContext struct {
	Project  *config.Project
	RunID    string
	Registry *semantics.Registry
	Errors   diagnostics.List

	// Output is the emitted T-SQL script, set by the generator stage.
	Output string
	// CacheHit is set when the generator stage was satisfied from cache.
	CacheHit bool
}

// Processor is one compilation stage.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline. Stages keep running after errors so one run
// collects diagnostics from every stage that can still do useful work;
// stages that need clean input check ctx.Errors themselves.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
	}
	return ctx
}
