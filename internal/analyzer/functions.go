package analyzer

import (
	"github.com/funvibe/schemalang/internal/ast"
	"github.com/funvibe/schemalang/internal/diagnostics"
	"github.com/funvibe/schemalang/internal/semantics"
	"github.com/funvibe/schemalang/internal/typesystem"
)

func (a *Analyzer) resolveFnItem(mod *semantics.Module, item *semantics.Item, def *ast.FnItem) diagnostics.List {
	context := semantics.NewFunctionContext(mod)
	root := context.Root()
	var errs diagnostics.List
	ctx := stmtContext{scope: root, mod: mod}

	arguments := make([]*semantics.Variable, 0, len(def.Params))
	complete := true
	for _, param := range def.Params {
		paramType, typeErrs := a.resolveType(mod, param.Type)
		errs = append(errs, typeErrs...)
		if paramType == nil {
			complete = false
			continue
		}
		variable, dupErr := root.NewVariable(param.Name.GetToken(), param.Name.Value, paramType)
		if dupErr != nil {
			errs.Append(dupErr)
			complete = false
			continue
		}
		variable.MakeReadOnly()
		variable.MarkAsArgument()
		if arrayNeedsLiteWeight(paramType) {
			context.MarkUsesArrays(param.Name.GetToken())
		}
		arguments = append(arguments, variable)
	}
	if !complete {
		return errs
	}

	result := typesystem.DataType(typesystem.Void)
	resultPos := def.GetToken()
	if def.Result != nil {
		resolved, resultErrs := a.resolveType(mod, def.Result)
		errs = append(errs, resultErrs...)
		if resolved == nil {
			return errs
		}
		result = resolved
		resultPos = def.Result.GetToken()
	}

	var body *semantics.Statement
	if !def.External {
		resolved, bodyErrs := a.resolveStatement(ctx, def.Body)
		errs = append(errs, bodyErrs...)
		if resolved == nil {
			return errs
		}
		body = resolved

		jumping, flowErrs := body.JumpingCheck(semantics.NewFlowPosition(), result)
		if len(flowErrs) > 0 {
			return append(errs, flowErrs...)
		}
		if jumping != semantics.AlwaysReturns && !typesystem.IsVoid(result) {
			errs.Append(diagnostics.New(
				diagnostics.ErrNotAllBranchesReturn, body.Pos))
			return errs
		}
	}

	liteWeight := false
	if def.External {
		liteWeight = ast.FindAttribute(item.Def.Attributes, "is_lite_weight") != nil
	} else {
		liteWeight = body.IsLiteWeight()
	}

	if !liteWeight {
		if _, isArray := typesystem.AsArray(result); isArray {
			errs.Append(diagnostics.New(
				diagnostics.ErrNotAllowedInside, resultPos,
				"array type", "function with side effects"))
			return errs
		}
		for _, pos := range context.ArrayUses() {
			errs.Append(diagnostics.New(
				diagnostics.ErrNotAllowedInside, pos,
				"array type", "function with side effects"))
		}
		if len(errs) > 0 {
			return errs
		}
	}

	item.Function = &semantics.FunctionDefinition{
		Name:         def.Name.Value,
		Arguments:    arguments,
		Result:       result,
		Body:         body,
		Context:      context,
		IsLiteWeight: liteWeight,
		Pos:          def.GetToken(),
	}
	item.MarkResolved()
	return errs
}
