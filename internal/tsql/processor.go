package tsql

import (
	"github.com/funvibe/schemalang/internal/diagnostics"
	"github.com/funvibe/schemalang/internal/pipeline"
	"github.com/funvibe/schemalang/internal/token"
)

// GenerateProcessor is the pipeline stage that emits the output script.
// It runs only on an error-free resolution.
type GenerateProcessor struct{}

func (gp *GenerateProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Registry == nil || len(ctx.Errors) > 0 || ctx.CacheHit {
		return ctx
	}
	generator := NewGenerator(Parameters{
		Schema:     ctx.Project.Schema,
		IndentSize: ctx.Project.IndentSize,
	})
	script, err := generator.EmitScript(ctx.Registry)
	if err != nil {
		ctx.Errors = append(ctx.Errors, diagnostics.New(
			diagnostics.ErrProject, token.Token{}, err.Error()))
		return ctx
	}
	ctx.Output = script
	return ctx
}
