package typesystem

import (
	"strconv"
	"strings"
)

// PathSeparator joins flattening segments in emitted names: a variable
// `point` of structure type {x, y} lowers to @point#x and @point#y.
const PathSeparator = "#"

// Path accumulates flattening segments.
type Path struct {
	segments []string
}

func NewPath(segments ...string) Path {
	return Path{segments: append([]string(nil), segments...)}
}

// Push returns the path extended with one more segment. The receiver is not
// modified, so sibling fields can share a prefix.
func (p Path) Push(segment string) Path {
	out := make([]string, 0, len(p.segments)+1)
	out = append(out, p.segments...)
	out = append(out, segment)
	return Path{segments: out}
}

func (p Path) String() string {
	return strings.Join(p.segments, PathSeparator)
}

func (p Path) IsEmpty() bool {
	return len(p.segments) == 0
}

// FieldPrimitive is one scalar slot of a flattened type: the joined path and
// the primitive occupying it.
type FieldPrimitive struct {
	Path string
	Type *Primitive
}

// Primitives projects a type onto its ordered scalar slots. A primitive maps
// to itself under the prefix; a structure prefixes each field; a tuple uses
// positional names; arrays and void contribute nothing at the outer level
// (arrays become table variables instead). The projection is deterministic:
// same input, same sequence.
func Primitives(t DataType, prefix Path) []FieldPrimitive {
	switch d := Deref(t).(type) {
	case *Primitive:
		return []FieldPrimitive{{Path: prefix.String(), Type: d}}
	case *Structure:
		var out []FieldPrimitive
		d.Fields().Each(func(name string, f *Field) {
			out = append(out, Primitives(f.Type, prefix.Push(name))...)
		})
		return out
	case *Tuple:
		var out []FieldPrimitive
		for i, e := range d.Elements {
			out = append(out, Primitives(e, prefix.Push(tupleSegment(i)))...)
		}
		return out
	default:
		return nil
	}
}

func tupleSegment(i int) string {
	return "item" + strconv.Itoa(i)
}

// CanBeTable reports whether t lowers to a rowset: a structure, or an array
// of structures or of primitives.
func CanBeTable(t DataType) bool {
	switch d := Deref(t).(type) {
	case *Structure:
		return true
	case *Array:
		_, ok := Deref(d.Element).(*Structure)
		return ok || isScalar(d.Element)
	}
	return false
}

func isScalar(t DataType) bool {
	_, ok := Deref(t).(*Primitive)
	return ok
}

// AsTableType flattens a table-shaped type into column primitives under the
// given prefix. For an array the element is flattened; the prefix applies to
// each column. Returns nil when t is not table-shaped.
func AsTableType(t DataType, prefix Path) []FieldPrimitive {
	switch d := Deref(t).(type) {
	case *Structure:
		return Primitives(d, prefix)
	case *Array:
		if elem, ok := Deref(d.Element).(*Structure); ok {
			return Primitives(elem, prefix)
		}
		if p, ok := Deref(d.Element).(*Primitive); ok {
			return []FieldPrimitive{{Path: prefix.Push("value").String(), Type: p}}
		}
	}
	return nil
}
