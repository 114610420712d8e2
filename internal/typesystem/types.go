package typesystem

import (
	"fmt"
	"strings"
)

// DataType is the interface for all types in the language.
type DataType interface {
	String() string
	dataType()
}

// PrimitiveKind enumerates the built-in scalar types.
type PrimitiveKind int

const (
	Boolean PrimitiveKind = iota
	I8
	I16
	I32
	I64
	U8
	U16
	U32
	U64
	F32
	F64
	DecimalKind
	VarcharKind
	DateTime
)

var primitiveNames = map[PrimitiveKind]string{
	Boolean:     "boolean",
	I8:          "i8",
	I16:         "i16",
	I32:         "i32",
	I64:         "i64",
	U8:          "u8",
	U16:         "u16",
	U32:         "u32",
	U64:         "u64",
	F32:         "f32",
	F64:         "f64",
	DecimalKind: "decimal",
	VarcharKind: "varchar",
	DateTime:    "datetime",
}

var primitiveKindsByName = func() map[string]PrimitiveKind {
	m := make(map[string]PrimitiveKind, len(primitiveNames))
	for kind, name := range primitiveNames {
		m[name] = kind
	}
	return m
}()

// PrimitiveKindByName maps a source-level type name to its kind.
func PrimitiveKindByName(name string) (PrimitiveKind, bool) {
	kind, ok := primitiveKindsByName[name]
	return kind, ok
}

// IsPrimitiveName reports whether name denotes a built-in scalar type.
func IsPrimitiveName(name string) bool {
	_, ok := primitiveKindsByName[name]
	return ok
}

// Primitive is a scalar type. Precision/Scale are meaningful for decimal,
// Length for varchar.
type Primitive struct {
	Kind      PrimitiveKind
	Precision int
	Scale     int
	Length    int
}

func (p *Primitive) dataType() {}

func (p *Primitive) String() string {
	switch p.Kind {
	case DecimalKind:
		return fmt.Sprintf("decimal(%d, %d)", p.Precision, p.Scale)
	case VarcharKind:
		return fmt.Sprintf("varchar(%d)", p.Length)
	default:
		return primitiveNames[p.Kind]
	}
}

// Attribute mirrors a source attribute on a table field after resolution.
type Attribute struct {
	Name string
	Args []string
}

// FindAttribute returns the first attribute with the given name, or nil.
func FindAttribute(attrs []Attribute, name string) *Attribute {
	for i := range attrs {
		if attrs[i].Name == name {
			return &attrs[i]
		}
	}
	return nil
}

// Field is one named component of a structure: its type plus the attributes
// carried over from the source definition.
type Field struct {
	Type       DataType
	Attributes []Attribute
}

// Structure is a compound type with named fields in insertion order. The
// order is load-bearing: it is the column order of emitted tables.
type Structure struct {
	fields *Fields
}

func NewStructure(fields *Fields) *Structure {
	if fields == nil {
		fields = NewFields()
	}
	return &Structure{fields: fields}
}

func (s *Structure) dataType() {}

func (s *Structure) Fields() *Fields { return s.fields }

func (s *Structure) String() string {
	var parts []string
	s.fields.Each(func(name string, f *Field) {
		parts = append(parts, fmt.Sprintf("%s: %s", name, f.Type.String()))
	})
	return "{" + strings.Join(parts, ", ") + "}"
}

// Tuple is a positional compound type.
type Tuple struct {
	Elements []DataType
}

func (t *Tuple) dataType() {}

func (t *Tuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Array is `[T]`.
type Array struct {
	Element DataType
}

func (a *Array) dataType() {}

func (a *Array) String() string {
	return "[" + a.Element.String() + "]"
}

// ItemRef is the minimal view of a module item a type reference needs.
// Implemented by the semantic item graph; declared here to keep the type
// system free of a dependency on it.
type ItemRef interface {
	RefName() string
	RefType() (DataType, bool)
}

// Reference is a by-name use of an item-defined type. Target is filled by the
// resolver; all downstream queries go through Deref.
type Reference struct {
	Path   []string
	Target ItemRef
}

func (r *Reference) dataType() {}

func (r *Reference) String() string {
	return strings.Join(r.Path, "::")
}

// VoidType is the type of no value.
type VoidType struct{}

func (v *VoidType) dataType()      {}
func (v *VoidType) String() string { return "void" }

// Void is the canonical no-value type.
var Void = &VoidType{}

// BooleanType is the canonical predicate type.
var BooleanType = &Primitive{Kind: Boolean}

// Deref follows reference chains to the underlying type. A reference whose
// target is still unresolved dereferences to nil.
func Deref(t DataType) DataType {
	for {
		ref, ok := t.(*Reference)
		if !ok {
			return t
		}
		if ref.Target == nil {
			return nil
		}
		inner, ok := ref.Target.RefType()
		if !ok {
			return nil
		}
		t = inner
	}
}

// AsPrimitive returns the underlying primitive, following references.
func AsPrimitive(t DataType) (*Primitive, bool) {
	p, ok := Deref(t).(*Primitive)
	return p, ok
}

// AsArray returns the element type if t is an array, following references.
func AsArray(t DataType) (DataType, bool) {
	a, ok := Deref(t).(*Array)
	if !ok {
		return nil, false
	}
	return a.Element, true
}

// AsStructure returns the underlying structure, following references.
func AsStructure(t DataType) (*Structure, bool) {
	s, ok := Deref(t).(*Structure)
	return s, ok
}

// IsVoid reports whether t is the no-value type.
func IsVoid(t DataType) bool {
	_, ok := Deref(t).(*VoidType)
	return ok
}

// PropertyType walks a dotted property path through structures.
func PropertyType(t DataType, path []string) (DataType, bool) {
	current := t
	for _, segment := range path {
		s, ok := AsStructure(current)
		if !ok {
			return nil, false
		}
		field, ok := s.Fields().Get(segment)
		if !ok {
			return nil, false
		}
		current = field.Type
	}
	return current, true
}
