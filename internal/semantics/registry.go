package semantics

import "strings"

// Registry holds strong ownership of every module in the compilation, keyed
// by `::`-joined path, in registration order. Everything else holds handles.
type Registry struct {
	order   []string
	modules map[string]*Module
}

func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]*Module)}
}

// AddModule registers a module. Returns false if the path is taken.
func (r *Registry) AddModule(m *Module) bool {
	key := m.Path()
	if _, ok := r.modules[key]; ok {
		return false
	}
	r.order = append(r.order, key)
	r.modules[key] = m
	return true
}

// Module returns the module at the joined path.
func (r *Registry) Module(path string) (*Module, bool) {
	m, ok := r.modules[path]
	return m, ok
}

// FindModule walks path segments from the root.
func (r *Registry) FindModule(segments []string) (*Module, bool) {
	return r.Module(strings.Join(segments, "::"))
}

// FindItem walks an import path segment by segment: the longest prefix that
// names a module, then item lookup inside it, then property descent is not
// allowed (items do not nest). Each hop must succeed.
func (r *Registry) FindItem(segments []string) (*Item, bool) {
	if len(segments) == 0 {
		return nil, false
	}
	// Whole path may name a module; an import may bind a module itself.
	if m, ok := r.FindModule(segments); ok {
		return NewModuleItem(m.Name(), nil, m), true
	}
	for cut := len(segments) - 1; cut > 0; cut-- {
		m, ok := r.FindModule(segments[:cut])
		if !ok {
			continue
		}
		item, ok := m.FindItem(segments[cut])
		if !ok {
			return nil, false
		}
		rest := segments[cut+1:]
		for len(rest) > 0 {
			inner, ok := item.GetModule()
			if !ok {
				return nil, false
			}
			item, ok = inner.FindItem(rest[0])
			if !ok {
				return nil, false
			}
			rest = rest[1:]
		}
		return item, true
	}
	return nil, false
}

// Each visits modules in registration order.
func (r *Registry) Each(visit func(m *Module)) {
	for _, key := range r.order {
		visit(r.modules[key])
	}
}

// Modules returns modules in registration order.
func (r *Registry) Modules() []*Module {
	var out []*Module
	r.Each(func(m *Module) { out = append(out, m) })
	return out
}
