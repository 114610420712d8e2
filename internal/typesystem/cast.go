package typesystem

import (
	"github.com/mitchellh/hashstructure"
)

// widensTo is the explicit numeric widening table. The chain is
// integer → decimal → float; signedness picks the first signed type wide
// enough to contain the unsigned source. Nothing here is derived from bit
// widths at runtime — the table is the rule.
var widensTo = map[PrimitiveKind][]PrimitiveKind{
	I8:          {I16, I32, I64, DecimalKind, F32, F64},
	I16:         {I32, I64, DecimalKind, F32, F64},
	I32:         {I64, DecimalKind, F32, F64},
	I64:         {DecimalKind, F32, F64},
	U8:          {U16, U32, U64, I16, I32, I64, DecimalKind, F32, F64},
	U16:         {U32, U64, I32, I64, DecimalKind, F32, F64},
	U32:         {U64, I64, DecimalKind, F32, F64},
	U64:         {DecimalKind, F32, F64},
	DecimalKind: {F32, F64},
	F32:         {F64},
}

func widens(source, target PrimitiveKind) bool {
	for _, k := range widensTo[source] {
		if k == target {
			return true
		}
	}
	return false
}

// ShouldCastTo reports whether a value of type source may be assigned to a
// slot of type target.
func ShouldCastTo(source, target DataType) bool {
	src := Deref(source)
	dst := Deref(target)
	if src == nil || dst == nil {
		return false
	}

	switch s := src.(type) {
	case *VoidType:
		_, ok := dst.(*VoidType)
		return ok
	case *Primitive:
		d, ok := dst.(*Primitive)
		if !ok {
			return false
		}
		if s.Kind == d.Kind {
			switch s.Kind {
			case DecimalKind:
				return d.Precision >= s.Precision && d.Scale >= s.Scale
			case VarcharKind:
				return d.Length >= s.Length
			default:
				return true
			}
		}
		return widens(s.Kind, d.Kind)
	case *Array:
		d, ok := dst.(*Array)
		if !ok {
			return false
		}
		return ShouldCastTo(s.Element, d.Element)
	case *Structure:
		d, ok := dst.(*Structure)
		if !ok {
			return false
		}
		return Hash(s) == Hash(d)
	case *Tuple:
		d, ok := dst.(*Tuple)
		if !ok || len(s.Elements) != len(d.Elements) {
			return false
		}
		for i := range s.Elements {
			if !ShouldCastTo(s.Elements[i], d.Elements[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// signature is the exported projection of a type fed to hashstructure.
// References collapse to their target's signature, so a struct reached
// through two different import paths still hashes equal.
type signature struct {
	Kind      string
	Precision int
	Scale     int
	Length    int
	Fields    []fieldSignature
	Elements  []signature
}

type fieldSignature struct {
	Name string
	Type signature
}

func signatureOf(t DataType) signature {
	switch d := Deref(t).(type) {
	case nil:
		return signature{Kind: "unresolved"}
	case *VoidType:
		return signature{Kind: "void"}
	case *Primitive:
		return signature{
			Kind:      primitiveNames[d.Kind],
			Precision: d.Precision,
			Scale:     d.Scale,
			Length:    d.Length,
		}
	case *Array:
		return signature{Kind: "array", Elements: []signature{signatureOf(d.Element)}}
	case *Tuple:
		elems := make([]signature, len(d.Elements))
		for i, e := range d.Elements {
			elems[i] = signatureOf(e)
		}
		return signature{Kind: "tuple", Elements: elems}
	case *Structure:
		var fields []fieldSignature
		d.Fields().Each(func(name string, f *Field) {
			fields = append(fields, fieldSignature{Name: name, Type: signatureOf(f.Type)})
		})
		return signature{Kind: "structure", Fields: fields}
	}
	return signature{Kind: "unknown"}
}

// Hash returns the structural hash of a type. Two structures are the same
// type iff their field names, order and field types hash equal.
func Hash(t DataType) uint64 {
	h, err := hashstructure.Hash(signatureOf(t), nil)
	if err != nil {
		// The signature tree contains only hashable kinds; an error here is
		// a programming mistake, not an input condition.
		panic(err)
	}
	return h
}

// Equal reports structural equality of two types.
func Equal(a, b DataType) bool {
	return Hash(a) == Hash(b)
}
