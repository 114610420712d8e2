package analyzer

import (
	"strconv"

	"github.com/funvibe/schemalang/internal/ast"
	"github.com/funvibe/schemalang/internal/diagnostics"
	"github.com/funvibe/schemalang/internal/semantics"
	"github.com/funvibe/schemalang/internal/typesystem"
)

// resolveType lowers a type AST to a DataType. A nil result with empty errs
// means "not yet resolvable" — the caller defers.
func (a *Analyzer) resolveType(mod *semantics.Module, t ast.Type) (typesystem.DataType, diagnostics.List) {
	switch def := t.(type) {
	case *ast.PrimitiveType:
		return a.resolvePrimitive(def)

	case *ast.ArrayType:
		element, errs := a.resolveType(mod, def.Element)
		if element == nil {
			return nil, errs
		}
		return &typesystem.Array{Element: element}, errs

	case *ast.TupleType:
		elements := make([]typesystem.DataType, 0, len(def.Elements))
		var errs diagnostics.List
		for _, e := range def.Elements {
			element, elemErrs := a.resolveType(mod, e)
			errs = append(errs, elemErrs...)
			if element == nil {
				return nil, errs
			}
			elements = append(elements, element)
		}
		return &typesystem.Tuple{Elements: elements}, errs

	case *ast.StructType:
		fields := typesystem.NewFields()
		var errs diagnostics.List
		for _, fieldDef := range def.Fields {
			fieldType, fieldErrs := a.resolveType(mod, fieldDef.Type)
			errs = append(errs, fieldErrs...)
			if fieldType == nil {
				return nil, errs
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
		return typesystem.NewStructure(fields), errs

	case *ast.NamedType:
		item, ok := a.lookupPath(mod, def.Path.Segments)
		if !ok {
			return nil, a.deferOrReport(diagnostics.New(
				diagnostics.ErrUnresolvedItem, def.GetToken(), def.Path.String()))
		}
		switch item.Kind() {
		case semantics.KindUnresolvedImport:
			return nil, a.deferOrReport(diagnostics.New(
				diagnostics.ErrUnresolvedItem, def.GetToken(), def.Path.String()))
		case semantics.KindDataType, semantics.KindTable:
			final := item.Final()
			if !final.Resolved() {
				return nil, a.deferOrReport(diagnostics.New(
					diagnostics.ErrUnresolvedItem, def.GetToken(), def.Path.String()))
			}
			return &typesystem.Reference{Path: def.Path.Segments, Target: final}, nil
		default:
			return nil, diagnostics.List{diagnostics.New(
				diagnostics.ErrExpectedItemOfAnotherType,
				def.GetToken(),
				semantics.KindDataType.String(), item.Kind().String(),
			)}
		}
	}
	return nil, diagnostics.List{diagnostics.New(
		diagnostics.ErrNotSupportedYet, t.GetToken(), "type form")}
}

func (a *Analyzer) resolvePrimitive(def *ast.PrimitiveType) (typesystem.DataType, diagnostics.List) {
	kind, ok := typesystem.PrimitiveKindByName(def.Name)
	if !ok {
		return nil, diagnostics.List{diagnostics.New(
			diagnostics.ErrUnresolvedItem, def.GetToken(), def.Name)}
	}
	p := &typesystem.Primitive{Kind: kind}
	switch kind {
	case typesystem.DecimalKind:
		if len(def.Args) != 2 {
			return nil, diagnostics.List{diagnostics.New(
				diagnostics.ErrUnexpectedToken, def.GetToken(),
				"decimal(precision, scale)", "decimal with "+strconv.Itoa(len(def.Args))+" argument(s)")}
		}
		p.Precision, p.Scale = def.Args[0], def.Args[1]
	case typesystem.VarcharKind:
		if len(def.Args) != 1 {
			return nil, diagnostics.List{diagnostics.New(
				diagnostics.ErrUnexpectedToken, def.GetToken(),
				"varchar(length)", "varchar with "+strconv.Itoa(len(def.Args))+" argument(s)")}
		}
		p.Length = def.Args[0]
	default:
		if len(def.Args) != 0 {
			return nil, diagnostics.List{diagnostics.New(
				diagnostics.ErrUnexpectedToken, def.GetToken(),
				def.Name, "parameterized "+def.Name)}
		}
	}
	return p, nil
}
