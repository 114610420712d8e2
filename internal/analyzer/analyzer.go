package analyzer

import (
	"github.com/funvibe/schemalang/internal/ast"
	"github.com/funvibe/schemalang/internal/diagnostics"
	"github.com/funvibe/schemalang/internal/semantics"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "analyzer")

// Analyzer resolves the parsed module graph to a fixed point. Items are
// attempted in registration order; an item that cannot make progress yet
// (e.g. it awaits an import target) stays unresolved and is retried on the
// next pass. The loop terminates when everything is resolved or a full pass
// resolves nothing; the final pass re-runs every remaining item with error
// collection switched on.
type Analyzer struct {
	registry *semantics.Registry

	// errors accumulates diagnostics from items that finished resolving.
	// Failures of still-pending items are retried silently until the final
	// pass.
	errors diagnostics.List

	// final marks the error-surfacing pass; before it, failures are treated
	// as "not yet" and retried.
	final bool
}

func New(registry *semantics.Registry) *Analyzer {
	return &Analyzer{registry: registry}
}

// Register builds module items from a parsed file and adds them to mod.
// Duplicate names inside one module are reported immediately.
func (a *Analyzer) Register(mod *semantics.Module, file *ast.Module) diagnostics.List {
	var errs diagnostics.List
	for _, moduleItem := range file.Items {
		name := moduleItem.Value.ItemName()
		item := semantics.NewItem(name, mod, moduleItem)
		if !mod.PutItem(name, item) {
			errs.Append(diagnostics.New(
				diagnostics.ErrDuplicateDefinition,
				moduleItem.Value.GetToken(),
				"item", name,
			))
		}
	}
	return errs
}

// Resolve drives resolution to a fixed point over the whole registry.
func (a *Analyzer) Resolve() diagnostics.List {
	for pass := 1; ; pass++ {
		progress, pending := a.pass()
		log.WithFields(logrus.Fields{
			"pass":    pass,
			"pending": pending,
		}).Debug("resolution pass finished")
		if pending == 0 {
			return a.errors
		}
		if progress == 0 {
			break
		}
	}

	// No further progress: one more pass with error collection switched on
	// for the items that are stuck.
	a.final = true
	before := len(a.errors)
	_, pending := a.pass()
	if len(a.errors) == before && pending > 0 {
		// Every failure was positionless deferral; report the stuck items.
		a.registry.Each(func(m *semantics.Module) {
			m.Each(func(name string, item *semantics.Item) {
				if !item.Resolved() {
					d := diagnostics.New(
						diagnostics.ErrUnresolvedItem,
						item.Def.GetToken(),
						m.Path()+"::"+name,
					)
					d.File = m.SourceFile
					a.errors.Append(d)
				}
			})
		})
	}
	return a.errors
}

// pass attempts every unresolved item once. Diagnostics from items that
// finished (successfully or not) are kept; failures of items that may still
// make progress are kept only on the final pass.
func (a *Analyzer) pass() (progress, pending int) {
	a.registry.Each(func(m *semantics.Module) {
		m.Each(func(_ string, item *semantics.Item) {
			if item.Resolved() {
				return
			}
			itemErrs := a.resolveItem(m, item)
			itemErrs.SetFile(m.SourceFile)
			if item.Resolved() {
				progress++
				a.errors.Append(itemErrs...)
				return
			}
			pending++
			if a.final {
				a.errors.Append(itemErrs...)
			}
		})
	})
	return progress, pending
}

// resolveItem dispatches on the item's AST. Idempotent and partial: it may
// leave the item unresolved without reporting anything before the final
// pass.
func (a *Analyzer) resolveItem(mod *semantics.Module, item *semantics.Item) diagnostics.List {
	if item.Def == nil {
		item.MarkResolved()
		return nil
	}
	switch def := item.Def.Value.(type) {
	case *ast.StructItem:
		return a.resolveStructItem(mod, item, def)
	case *ast.TableItem:
		return a.resolveTableItem(mod, item, def)
	case *ast.FnItem:
		return a.resolveFnItem(mod, item, def)
	case *ast.UseItem:
		return a.resolveUseItem(mod, item, def)
	case *ast.ModItem:
		// Reserved syntax: parses, never resolves.
		item.MarkResolved()
		return diagnostics.List{diagnostics.New(
			diagnostics.ErrNotSupportedYet, def.GetToken(), "file-scoped modules")}
	}
	item.MarkResolved()
	return nil
}

// deferOrReport wraps a failure that may be resolvable on a later pass:
// before the final pass it is swallowed and the item stays pending.
func (a *Analyzer) deferOrReport(d *diagnostics.Diagnostic) diagnostics.List {
	if !a.final {
		return nil
	}
	return diagnostics.List{d}
}
