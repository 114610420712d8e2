package modules

import (
	"github.com/funvibe/schemalang/internal/analyzer"
	"github.com/funvibe/schemalang/internal/pipeline"
	"github.com/funvibe/schemalang/internal/semantics"
)

// LoadProcessor is the pipeline stage that discovers, parses and registers
// the project's modules, then resolves the item graph to a fixed point.
type LoadProcessor struct{}

func (lp *LoadProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Registry == nil {
		ctx.Registry = semantics.NewRegistry()
	}
	loader := NewLoader(ctx.Project.SourceDir())
	units, errs := loader.LoadAll(ctx.Registry)
	ctx.Errors = append(ctx.Errors, errs...)
	if len(ctx.Errors) > 0 {
		// Item registration on a broken parse produces noise, not signal.
		return ctx
	}

	a := analyzer.New(ctx.Registry)
	for _, unit := range units {
		regErrs := a.Register(unit.Module, unit.File)
		regErrs.SetFile(unit.File.File)
		ctx.Errors = append(ctx.Errors, regErrs...)
	}
	if len(ctx.Errors) > 0 {
		return ctx
	}

	resolveErrs := a.Resolve()
	ctx.Errors = append(ctx.Errors, resolveErrs...)
	return ctx
}
