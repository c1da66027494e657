package argh

import (
	"sort"

	"github.com/pkgtools/go-argh/format"
)

// Reserved attribute names the parser populates on every namespace.
const (
	attrSubcommand = "subcommand"
	attrProg       = "prog"
	attrMain       = "main"
	attrFinalCheck = "final_check"
)

// Namespace holds parsed argument values keyed by destination name. Values
// may be pending DelayedValue placeholders until resolution runs; Get
// collapses them transparently so callers always see final values.
type Namespace struct {
	values  map[string]any
	seq     map[string]int
	nextSeq int
}

// NewNamespace returns an empty namespace.
func NewNamespace() *Namespace {
	return &Namespace{
		values: make(map[string]any),
		seq:    make(map[string]int),
	}
}

// Set stores a value, overwriting any previous one. Registration order is
// tracked per attribute and refreshed on overwrite; delayed resolution uses
// it to break priority ties.
func (ns *Namespace) Set(name string, value any) {
	ns.values[name] = value
	ns.seq[name] = ns.nextSeq
	ns.nextSeq++
}

// SetDefault stores a value only when the attribute is not already set.
func (ns *Namespace) SetDefault(name string, value any) {
	if _, ok := ns.values[name]; !ok {
		ns.Set(name, value)
	}
}

// Has reports whether the attribute exists, resolved or not.
func (ns *Namespace) Has(name string) bool {
	_, ok := ns.values[name]
	return ok
}

// Delete removes an attribute, reporting whether it existed.
func (ns *Namespace) Delete(name string) bool {
	if _, ok := ns.values[name]; !ok {
		return false
	}
	delete(ns.values, name)
	delete(ns.seq, name)
	return true
}

// raw reads the stored value without collapsing delayed placeholders.
func (ns *Namespace) raw(name string) (any, bool) {
	v, ok := ns.values[name]
	return v, ok
}

// Get returns the value for name. A pending DelayedValue is invoked first;
// reading an attribute never observes the placeholder. If the invocation
// fails or removes the attribute, Get reports absence; the error itself
// surfaces from the resolution sweep at the end of Parse.
func (ns *Namespace) Get(name string) (any, bool) {
	v, ok := ns.values[name]
	if !ok {
		return nil, false
	}
	dv, isDelayed := v.(*DelayedValue)
	if !isDelayed {
		return v, true
	}
	if err := dv.invoke(ns, name); err != nil {
		return nil, false
	}
	v, ok = ns.values[name]
	if !ok {
		return nil, false
	}
	if _, still := v.(*DelayedValue); still {
		return nil, false
	}
	return v, true
}

// Pop removes and returns the attribute, collapsing a pending delayed value
// first.
func (ns *Namespace) Pop(name string) (any, bool) {
	v, ok := ns.Get(name)
	ns.Delete(name)
	return v, ok
}

// PopDefault removes and returns the attribute, or def when absent.
func (ns *Namespace) PopDefault(name string, def any) any {
	if v, ok := ns.Pop(name); ok {
		return v
	}
	return def
}

// Names returns all attribute names in sorted order.
func (ns *Namespace) Names() []string {
	names := make([]string, 0, len(ns.values))
	for name := range ns.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetString returns the attribute as a string.
func (ns *Namespace) GetString(name string) (string, bool) {
	if v, ok := ns.Get(name); ok {
		if s, ok := v.(string); ok {
			return s, true
		}
	}
	return "", false
}

// MustGetString returns the attribute as a string, or def when absent or of
// a different type.
func (ns *Namespace) MustGetString(name, def string) string {
	if s, ok := ns.GetString(name); ok {
		return s
	}
	return def
}

// GetBool returns the attribute as a bool.
func (ns *Namespace) GetBool(name string) (bool, bool) {
	if v, ok := ns.Get(name); ok {
		if b, ok := v.(bool); ok {
			return b, true
		}
	}
	return false, false
}

// MustGetBool returns the attribute as a bool, or def when absent.
func (ns *Namespace) MustGetBool(name string, def bool) bool {
	if b, ok := ns.GetBool(name); ok {
		return b
	}
	return def
}

// GetInt returns the attribute as an int.
func (ns *Namespace) GetInt(name string) (int, bool) {
	if v, ok := ns.Get(name); ok {
		if n, ok := v.(int); ok {
			return n, true
		}
	}
	return 0, false
}

// MustGetInt returns the attribute as an int, or def when absent.
func (ns *Namespace) MustGetInt(name string, def int) int {
	if n, ok := ns.GetInt(name); ok {
		return n
	}
	return def
}

// GetStrings returns the attribute as a string slice.
func (ns *Namespace) GetStrings(name string) ([]string, bool) {
	if v, ok := ns.Get(name); ok {
		if s, ok := v.([]string); ok {
			return s, true
		}
	}
	return nil, false
}

// MustGetStrings returns the attribute as a string slice, or def when absent.
func (ns *Namespace) MustGetStrings(name string, def []string) []string {
	if s, ok := ns.GetStrings(name); ok {
		return s
	}
	return def
}

// GetNegations returns the attribute as a Negations partition.
func (ns *Namespace) GetNegations(name string) (Negations, bool) {
	if v, ok := ns.Get(name); ok {
		if n, ok := v.(Negations); ok {
			return n, true
		}
	}
	return Negations{}, false
}

// GetElements returns the attribute as an Elements partition.
func (ns *Namespace) GetElements(name string) (Elements, bool) {
	if v, ok := ns.Get(name); ok {
		if e, ok := v.(Elements); ok {
			return e, true
		}
	}
	return Elements{}, false
}

// Subcommand returns the resolved subcommand path, or "" when the invocation
// did not name one.
func (ns *Namespace) Subcommand() string {
	return ns.MustGetString(attrSubcommand, "")
}

// Prog returns the program path for the resolved command, suitable for
// prefixing error and usage text.
func (ns *Namespace) Prog() string {
	return ns.MustGetString(attrProg, "")
}

// Main returns the entry point bound for the resolved command, or nil.
func (ns *Namespace) Main() MainFunc {
	if v, ok := ns.Get(attrMain); ok {
		if fn, ok := v.(MainFunc); ok {
			return fn
		}
	}
	return nil
}

// MainFunc is the entry point bound to a parser or subcommand. It receives
// the parsed namespace plus formatters for stdout and stderr and returns an
// error mapped to the process exit status.
type MainFunc func(ns *Namespace, out, errOut format.Formatter) error

// FinalCheckFunc runs after parsing and delayed resolution to validate the
// combined result. Returning an error aborts with the usual error path.
type FinalCheckFunc func(p *Parser, ns *Namespace) error
