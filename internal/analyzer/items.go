package analyzer

import (
	"github.com/funvibe/schemalang/internal/ast"
	"github.com/funvibe/schemalang/internal/diagnostics"
	"github.com/funvibe/schemalang/internal/semantics"
	"github.com/funvibe/schemalang/internal/typesystem"
)

func (a *Analyzer) resolveStructItem(mod *semantics.Module, item *semantics.Item, def *ast.StructItem) diagnostics.List {
	dataType, errs := a.resolveType(mod, def.Body)
	if dataType == nil {
		return errs
	}
	item.DataType = dataType
	item.MarkResolved()
	return errs
}

func (a *Analyzer) resolveTableItem(mod *semantics.Module, item *semantics.Item, def *ast.TableItem) diagnostics.List {
	fields := typesystem.NewFields()
	var errs diagnostics.List
	complete := true
	for _, fieldDef := range def.Fields {
		fieldType, fieldErrs := a.resolveType(mod, fieldDef.Type)
		errs = append(errs, fieldErrs...)
		if fieldType == nil {
			complete = false
			continue
		}
		field := &typesystem.Field{Type: fieldType, Attributes: convertAttributes(fieldDef.Attributes)}
		if !fields.Add(fieldDef.Name.Value, field) {
			errs.Append(diagnostics.New(
				diagnostics.ErrDuplicateDefinition,
				fieldDef.Name.GetToken(),
				"field", fieldDef.Name.Value,
			))
		}
	}
	if !complete {
		return errs
	}
	item.Table = semantics.NewTableDefinition(def.Name.Value, def.GetToken(), fields)
	item.MarkResolved()
	return errs
}

func convertAttributes(attrs []*ast.Attribute) []typesystem.Attribute {
	out := make([]typesystem.Attribute, 0, len(attrs))
	for _, attr := range attrs {
		out = append(out, typesystem.Attribute{Name: attr.Name, Args: attr.Args})
	}
	return out
}

func (a *Analyzer) resolveUseItem(mod *semantics.Module, item *semantics.Item, def *ast.UseItem) diagnostics.List {
	target, ok := a.lookupPath(mod, def.Path.Segments)
	if !ok {
		return a.deferOrReport(diagnostics.New(
			diagnostics.ErrUnresolvedItem, def.Path.GetToken(), def.Path.String()))
	}
	// A target that is itself a still-unresolved import defers this one.
	if target.Kind() == semantics.KindUnresolvedImport {
		return a.deferOrReport(diagnostics.New(
			diagnostics.ErrUnresolvedItem, def.Path.GetToken(), def.Path.String()))
	}

	if def.Tail == ast.UseTailAsterisk {
		targetModule, ok := target.GetModule()
		if !ok {
			item.MarkResolved()
			return diagnostics.List{diagnostics.New(
				diagnostics.ErrExpectedItemOfAnotherType,
				def.Path.GetToken(),
				semantics.KindModule.String(), target.Kind().String(),
			)}
		}
		mod.InjectModule(targetModule)
	}

	item.Import = def
	item.ImportTarget = target
	item.MarkResolved()
	return nil
}

// lookupPath resolves an item path. Single-segment paths search the
// enclosing module (local items, then injected modules); longer paths walk
// from the root registry, with the module's own import bindings tried first.
func (a *Analyzer) lookupPath(mod *semantics.Module, segments []string) (*semantics.Item, bool) {
	if len(segments) == 0 {
		return nil, false
	}
	if len(segments) == 1 {
		return mod.FindItem(segments[0])
	}
	// A local binding may name a module to descend into.
	if head, ok := mod.FindItem(segments[0]); ok {
		if inner, ok := head.GetModule(); ok {
			if item, ok := a.descend(inner, segments[1:]); ok {
				return item, true
			}
		}
	}
	return a.registry.FindItem(segments)
}

func (a *Analyzer) descend(mod *semantics.Module, segments []string) (*semantics.Item, bool) {
	item, ok := mod.FindItem(segments[0])
	if !ok {
		return nil, false
	}
	for _, segment := range segments[1:] {
		inner, ok := item.GetModule()
		if !ok {
			return nil, false
		}
		item, ok = inner.FindItem(segment)
		if !ok {
			return nil, false
		}
	}
	return item, true
}
