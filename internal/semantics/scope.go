package semantics

import (
	"github.com/funvibe/schemalang/internal/diagnostics"
	"github.com/funvibe/schemalang/internal/token"
	"github.com/funvibe/schemalang/internal/typesystem"
)

// Variable is one named slot in a function. It is created at resolve time
// and lives through emission, where it may be renamed to dodge collisions.
type Variable struct {
	name        string
	dataType    typesystem.DataType // nil until inferred
	readOnly    bool
	isArgument  bool
	isAutomatic bool
	Pos         token.Token
	scope       *Scope
}

func (v *Variable) Name() string { return v.name }

// SetName renames the variable for emission.
func (v *Variable) SetName(name string) { v.name = name }

// DataType returns the declared or inferred type, if known yet.
func (v *Variable) DataType() (typesystem.DataType, bool) {
	if v.dataType == nil {
		return nil, false
	}
	return v.dataType, true
}

// ReplaceDataType adopts a type for a variable declared without one.
func (v *Variable) ReplaceDataType(t typesystem.DataType) { v.dataType = t }

func (v *Variable) IsReadOnly() bool  { return v.readOnly }
func (v *Variable) MakeReadOnly()     { v.readOnly = true }
func (v *Variable) IsArgument() bool  { return v.isArgument }
func (v *Variable) MarkAsArgument()   { v.isArgument = true }
func (v *Variable) IsAutomatic() bool { return v.isAutomatic }
func (v *Variable) MarkAsAutomatic()  { v.isAutomatic = true }

// PropertyType resolves a property path against the variable's type.
func (v *Variable) PropertyType(path []string) (typesystem.DataType, bool) {
	t, ok := v.DataType()
	if !ok {
		return nil, false
	}
	return typesystem.PropertyType(t, path)
}

// Scope is one level of a function's lexical scope tree. Variables keep
// declaration order so DECLARE emission is reproducible.
type Scope struct {
	context  *FunctionContext
	parent   *Scope
	order    []string
	byName   map[string]*Variable
	children []*Scope
}

func newScope(context *FunctionContext, parent *Scope) *Scope {
	s := &Scope{context: context, parent: parent, byName: make(map[string]*Variable)}
	if parent != nil {
		parent.children = append(parent.children, s)
	}
	return s
}

// Child opens a nested scope.
func (s *Scope) Child() *Scope {
	return newScope(s.context, s)
}

// Context returns the owning function context.
func (s *Scope) Context() *FunctionContext {
	return s.context
}

// NewVariable declares a variable in this scope. dataType may be nil for
// late inference. Redeclaration within the same scope is an error.
func (s *Scope) NewVariable(pos token.Token, name string, dataType typesystem.DataType) (*Variable, *diagnostics.Diagnostic) {
	if _, ok := s.byName[name]; ok {
		return nil, diagnostics.New(diagnostics.ErrDuplicateDefinition, pos, "variable", name)
	}
	v := &Variable{name: name, dataType: dataType, Pos: pos, scope: s}
	s.order = append(s.order, name)
	s.byName[name] = v
	return v, nil
}

// AccessToVariable finds a variable by source name, walking outward.
func (s *Scope) AccessToVariable(name string) (*Variable, bool) {
	for current := s; current != nil; current = current.parent {
		if v, ok := current.byName[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Variables returns this scope's variables in declaration order.
func (s *Scope) Variables() []*Variable {
	out := make([]*Variable, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.byName[name])
	}
	return out
}

// FunctionContext owns the scope tree of one function.
type FunctionContext struct {
	Module *Module
	root   *Scope

	// Positions where an array-typed parameter or local was declared.
	// Array slots lower to table variables, which T-SQL allows only in
	// functions; the check fires after lite-weight classification.
	arrayUses []token.Token
}

// MarkUsesArrays records an array-typed parameter or local declaration.
func (c *FunctionContext) MarkUsesArrays(pos token.Token) {
	c.arrayUses = append(c.arrayUses, pos)
}

// ArrayUses returns the recorded array declaration positions.
func (c *FunctionContext) ArrayUses() []token.Token {
	return c.arrayUses
}

func NewFunctionContext(module *Module) *FunctionContext {
	ctx := &FunctionContext{Module: module}
	ctx.root = newScope(ctx, nil)
	return ctx
}

func (c *FunctionContext) Root() *Scope {
	return c.root
}

// AllVariables returns every variable of the function, scope tree in
// pre-order, declaration order within each scope.
func (c *FunctionContext) AllVariables() []*Variable {
	var out []*Variable
	var walk func(*Scope)
	walk = func(s *Scope) {
		out = append(out, s.Variables()...)
		for _, child := range s.children {
			walk(child)
		}
	}
	walk(c.root)
	return out
}
