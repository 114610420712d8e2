package tsql

import (
	"strings"

	"github.com/funvibe/schemalang/internal/formatter"
	"github.com/funvibe/schemalang/internal/semantics"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "tsql")

// Generator lowers a resolved registry to one T-SQL script: one CREATE OR
// ALTER unit per function, in module definition order, batches separated by
// GO.
type Generator struct {
	Params Parameters
}

func NewGenerator(params Parameters) *Generator {
	if params.Schema == "" {
		params.Schema = "dbo"
	}
	if params.IndentSize <= 0 {
		params.IndentSize = 4
	}
	return &Generator{Params: params}
}

// EmitScript renders every function of the registry.
func (g *Generator) EmitScript(registry *semantics.Registry) (string, error) {
	var out strings.Builder
	first := true
	var emitErr error

	registry.Each(func(mod *semantics.Module) {
		mod.Each(func(_ string, item *semantics.Item) {
			if emitErr != nil {
				return
			}
			fn, ok := item.GetFunction()
			if !ok || fn.Body == nil {
				return
			}
			if !first {
				out.WriteString("GO\n")
			}
			first = false

			code := formatter.NewCodeFormatter(&out)
			code.IndentSize = g.Params.IndentSize
			if err := EmitFunction(code.RootBlock(), fn, mod.PathSegments, g.Params); err != nil {
				emitErr = err
				return
			}
			log.WithFields(logrus.Fields{
				"module":   mod.Path(),
				"function": fn.Name,
				"lite":     fn.IsLiteWeight,
			}).Debug("unit emitted")
		})
	})
	if emitErr != nil {
		return "", emitErr
	}
	return out.String(), nil
}
