package semantics

import (
	"fmt"

	"github.com/funvibe/schemalang/internal/ast"
	"github.com/funvibe/schemalang/internal/typesystem"
)

// ItemKind classifies what an item has resolved into.
type ItemKind int

const (
	KindDataType ItemKind = iota
	KindTable
	KindFunction
	KindModule
	KindUnresolvedImport
)

func (k ItemKind) String() string {
	switch k {
	case KindDataType:
		return "data type"
	case KindTable:
		return "table"
	case KindFunction:
		return "function"
	case KindModule:
		return "module"
	case KindUnresolvedImport:
		return "unresolved import"
	}
	return "unknown"
}

// Item is one named definition owned by a module. Its body starts as the
// parsed AST and transitions one-way into the resolved form; Resolved is
// monotone. Cross-references hold *Item handles guarded by the visit lock.
type Item struct {
	lock     visitLock
	resolved bool

	Name   string
	Module *Module
	Def    *ast.ModuleItem // original AST, nil for synthesized items

	// Exactly one of the following is set once resolution decides the kind.
	DataType  typesystem.DataType
	Table     *TableDefinition
	Function  *FunctionDefinition
	ModuleRef *Module

	// Import state: the source import and, once found, the target handle.
	Import       *ast.UseItem
	ImportTarget *Item
}

// NewItem wraps a parsed module item for resolution.
func NewItem(name string, module *Module, def *ast.ModuleItem) *Item {
	return &Item{Name: name, Module: module, Def: def}
}

// NewModuleItem synthesizes an item that directly names a module (the result
// of resolving a `use` whose target is a module).
func NewModuleItem(name string, owner *Module, target *Module) *Item {
	it := &Item{Name: name, Module: owner, ModuleRef: target}
	it.resolved = true
	return it
}

func (i *Item) Resolved() bool {
	i.lock.RLock()
	defer i.lock.RUnlock()
	return i.resolved
}

// MarkResolved flips the monotone resolution flag.
func (i *Item) MarkResolved() {
	i.lock.Lock()
	defer i.lock.Unlock()
	i.resolved = true
}

// Kind reports the current classification of the item, following resolved
// imports to their target.
func (i *Item) Kind() ItemKind {
	i.lock.RLock()
	defer i.lock.RUnlock()
	switch {
	case i.ImportTarget != nil:
		return i.ImportTarget.Kind()
	case i.Import != nil:
		return KindUnresolvedImport
	case i.ModuleRef != nil:
		return KindModule
	case i.Table != nil:
		return KindTable
	case i.Function != nil:
		return KindFunction
	default:
		return KindDataType
	}
}

// Final follows import indirections to the item actually defined somewhere.
func (i *Item) Final() *Item {
	current := i
	for {
		current.lock.RLock()
		target := current.ImportTarget
		current.lock.RUnlock()
		if target == nil {
			return current
		}
		current = target
	}
}

// GetModule returns the module this item names, if it names one.
func (i *Item) GetModule() (*Module, bool) {
	final := i.Final()
	final.lock.RLock()
	defer final.lock.RUnlock()
	if final.ModuleRef != nil {
		return final.ModuleRef, true
	}
	return nil, false
}

// GetFunction returns the function definition, if this item is a function.
func (i *Item) GetFunction() (*FunctionDefinition, bool) {
	final := i.Final()
	final.lock.RLock()
	defer final.lock.RUnlock()
	if final.Function != nil {
		return final.Function, true
	}
	return nil, false
}

// GetTable returns the table definition, if this item is a table.
func (i *Item) GetTable() (*TableDefinition, bool) {
	final := i.Final()
	final.lock.RLock()
	defer final.lock.RUnlock()
	if final.Table != nil {
		return final.Table, true
	}
	return nil, false
}

// RefName implements typesystem.ItemRef.
func (i *Item) RefName() string {
	return i.Name
}

// RefType implements typesystem.ItemRef: the data type a type reference to
// this item denotes. For tables that is the entity type.
func (i *Item) RefType() (typesystem.DataType, bool) {
	final := i.Final()
	final.lock.RLock()
	defer final.lock.RUnlock()
	if !final.resolved {
		return nil, false
	}
	switch {
	case final.DataType != nil:
		return final.DataType, true
	case final.Table != nil:
		return final.Table.EntityType(), true
	}
	return nil, false
}

func (i *Item) String() string {
	return fmt.Sprintf("%s %s", i.Kind(), i.Name)
}
