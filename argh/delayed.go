package argh

import (
	"fmt"
	"sort"
)

// DelayedFunc computes the final value for attr, typically by calling
// ns.Set(attr, ...). It may instead delete the attribute, or set others.
type DelayedFunc func(ns *Namespace, attr string) error

// DelayedValue is a placeholder stored in a namespace in place of a final
// value. Placeholders are invoked after parsing in ascending priority order;
// ties resolve in registration order. Reading the attribute before
// resolution invokes the placeholder on demand.
type DelayedValue struct {
	Priority int

	fn       DelayedFunc
	wipe     bool
	resolved bool
}

// NewDelayedValue returns a placeholder invoking fn at the given priority.
func NewDelayedValue(priority int, fn DelayedFunc) *DelayedValue {
	if fn == nil {
		panic("argh: delayed value requires a function")
	}
	return &DelayedValue{Priority: priority, fn: fn}
}

// WipeDefault returns a placeholder that, during the defaulting pass,
// removes the named attributes and then itself. Subcommands use it to
// suppress defaults inherited from the parent parser.
func WipeDefault(priority int, attrs ...string) *DelayedValue {
	names := make([]string, len(attrs))
	copy(names, attrs)
	return &DelayedValue{
		Priority: priority,
		wipe:     true,
		fn: func(ns *Namespace, attr string) error {
			for _, name := range names {
				ns.Delete(name)
			}
			ns.Delete(attr)
			return nil
		},
	}
}

// OrderedCall returns a placeholder that invokes fn against the whole
// namespace at the given priority and then removes its own attribute. It
// sequences side effects relative to other delayed values without leaving a
// value behind.
func OrderedCall(priority int, fn func(ns *Namespace) error) *DelayedValue {
	if fn == nil {
		panic("argh: ordered call requires a function")
	}
	return &DelayedValue{
		Priority: priority,
		fn: func(ns *Namespace, attr string) error {
			if err := fn(ns); err != nil {
				return err
			}
			ns.Delete(attr)
			return nil
		},
	}
}

// invoke runs the placeholder once. Repeat invocations, as happens when a
// lazy Get already collapsed an attribute the resolution sweep later visits,
// are no-ops.
func (d *DelayedValue) invoke(ns *Namespace, attr string) error {
	if d.resolved {
		return nil
	}
	d.resolved = true
	return d.fn(ns, attr)
}

type pendingValue struct {
	attr string
	dv   *DelayedValue
	seq  int
}

// collectPending snapshots unresolved placeholders, ordered by (priority,
// registration sequence).
func collectPending(ns *Namespace, wipeOnly bool) []pendingValue {
	var pending []pendingValue
	for attr, v := range ns.values {
		dv, ok := v.(*DelayedValue)
		if !ok || dv.resolved {
			continue
		}
		if wipeOnly && !dv.wipe {
			continue
		}
		pending = append(pending, pendingValue{attr: attr, dv: dv, seq: ns.seq[attr]})
	}
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].dv.Priority != pending[j].dv.Priority {
			return pending[i].dv.Priority < pending[j].dv.Priority
		}
		return pending[i].seq < pending[j].seq
	})
	return pending
}

// resolveDelayed collapses every placeholder in the namespace. The wipe-only
// defaulting pass runs first so suppressed attributes are gone before
// regular placeholders execute; the second pass then sweeps everything that
// remains.
func resolveDelayed(ns *Namespace) error {
	for _, pass := range []bool{true, false} {
		for _, pv := range collectPending(ns, pass) {
			cur, ok := ns.raw(pv.attr)
			if !ok || cur != any(pv.dv) {
				// removed or replaced by an earlier placeholder
				continue
			}
			if err := pv.dv.invoke(ns, pv.attr); err != nil {
				return wrapDelayedError(pv.attr, err)
			}
		}
	}
	return nil
}

// wrapDelayedError names the offending attribute unless the callback already
// produced a user-facing parse error.
func wrapDelayedError(attr string, err error) error {
	if _, ok := err.(*ParseError); ok {
		return err
	}
	return fmt.Errorf("failed loading/parsing %q: %w", attr, err)
}
