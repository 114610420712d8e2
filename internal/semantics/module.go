package semantics

import (
	"strings"
)

// Module is a named container of items. Items keep definition order for
// reproducible emission. Injected modules are the targets of `use path::*`
// imports, consulted when a local lookup misses, in injection order.
type Module struct {
	lock visitLock

	PathSegments []string
	Parent       *Module
	// SourceFile is the file this module was parsed from, for diagnostics.
	SourceFile string

	itemOrder []string
	items     map[string]*Item
	injected  []*Module
}

func NewModule(pathSegments []string, parent *Module) *Module {
	return &Module{
		PathSegments: pathSegments,
		Parent:       parent,
		items:        make(map[string]*Item),
	}
}

// Path returns the `::`-joined module path.
func (m *Module) Path() string {
	return strings.Join(m.PathSegments, "::")
}

// Name returns the final path segment (the empty string for the root).
func (m *Module) Name() string {
	if len(m.PathSegments) == 0 {
		return ""
	}
	return m.PathSegments[len(m.PathSegments)-1]
}

// PutItem registers an item under name. Returns false on duplicate.
func (m *Module) PutItem(name string, item *Item) bool {
	m.lock.Lock()
	defer m.lock.Unlock()
	if _, ok := m.items[name]; ok {
		return false
	}
	m.itemOrder = append(m.itemOrder, name)
	m.items[name] = item
	return true
}

// LocalItem looks up a directly defined or imported item, without consulting
// injected modules.
func (m *Module) LocalItem(name string) (*Item, bool) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	item, ok := m.items[name]
	return item, ok
}

// FindItem resolves name against local items first, then against injected
// modules in injection order; the first hit wins.
func (m *Module) FindItem(name string) (*Item, bool) {
	if item, ok := m.LocalItem(name); ok {
		return item, true
	}
	m.lock.RLock()
	injected := append([]*Module(nil), m.injected...)
	m.lock.RUnlock()
	for _, inj := range injected {
		if item, ok := inj.LocalItem(name); ok {
			return item, true
		}
	}
	return nil, false
}

// InjectModule registers a star-imported module for fallback lookup.
func (m *Module) InjectModule(target *Module) {
	m.lock.Lock()
	defer m.lock.Unlock()
	for _, existing := range m.injected {
		if existing == target {
			return
		}
	}
	m.injected = append(m.injected, target)
}

// Each visits items in definition order.
func (m *Module) Each(visit func(name string, item *Item)) {
	m.lock.RLock()
	order := append([]string(nil), m.itemOrder...)
	m.lock.RUnlock()
	for _, name := range order {
		m.lock.RLock()
		item := m.items[name]
		m.lock.RUnlock()
		visit(name, item)
	}
}

// Items returns the items in definition order.
func (m *Module) Items() []*Item {
	var out []*Item
	m.Each(func(_ string, item *Item) {
		out = append(out, item)
	})
	return out
}
