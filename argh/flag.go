package argh

import "strings"

// FlagType determines how a flag consumes and stores its value.
type FlagType string

const (
	// FlagTypeBool is a presence toggle; no value is consumed.
	FlagTypeBool FlagType = "bool"
	// FlagTypeStoreBool takes an explicit boolean literal:
	// y, yes, true, n, no or false.
	FlagTypeStoreBool FlagType = "boolean"
	FlagTypeString    FlagType = "string"
	FlagTypeInt       FlagType = "int"
	// FlagTypeCount increments on each occurrence.
	FlagTypeCount FlagType = "count"
	// FlagTypeCSV splits its value on commas into a string slice.
	FlagTypeCSV FlagType = "csv"
	// FlagTypeCSVNegations splits on commas and partitions tokens into
	// disabled ("-" prefixed) and enabled sets.
	FlagTypeCSVNegations FlagType = "csv_negations"
	// FlagTypeCSVElements splits on commas and partitions tokens into
	// disabled ("-"), neutral and enabled ("+") sets.
	FlagTypeCSVElements FlagType = "csv_elements"
	// FlagTypeExpansion replays a fixed set of other flags when seen.
	FlagTypeExpansion FlagType = "expansion"
)

// Flag describes a single option. Instances are built through FlagBuilder
// and owned by a Parser or Command.
type Flag struct {
	Name        string
	Short       rune
	Description string
	Docs        string
	Type        FlagType
	Metavar     string
	Dest        string
	Hidden      bool

	// Append merges comma-separated values across repeated uses instead of
	// replacing the previous ones.
	Append bool
	// AllowStdin lets the literal value "-" pull tokens from stdin, one per
	// line, when input is piped in.
	AllowStdin bool
	// Delayed defers storing the value until post-parse resolution at
	// Priority.
	Delayed  bool
	Priority int
	// Subst holds the replayed option templates of an expansion flag.
	Subst []string

	DefaultString  string
	DefaultInt     int
	DefaultBool    bool
	DefaultStrings []string
	defaultSet     bool

	// onSet runs after the flag stores a value; built-in flags use it to
	// adjust parser-wide state like log level.
	onSet func(p *Parser, ns *Namespace)
}

// RequiresValue reports whether the flag consumes a following argument.
func (f *Flag) RequiresValue() bool {
	switch f.Type {
	case FlagTypeBool, FlagTypeCount, FlagTypeExpansion:
		return false
	default:
		return true
	}
}

// destName returns the namespace attribute the flag stores into.
func (f *Flag) destName() string {
	if f.Dest != "" {
		return f.Dest
	}
	return strings.ReplaceAll(f.Name, "-", "_")
}

// flagOwner is the builder a FlagBuilder returns to via Back.
type flagOwner interface {
	registerShort(short rune, f *Flag)
}

// FlagBuilder configures a single flag fluently. T is the flag's default
// value type, P the parent builder type returned by Back.
type FlagBuilder[T any, P flagOwner] struct {
	flag   *Flag
	parent P
}

func newFlagBuilder[T any, P flagOwner](flag *Flag, parent P) *FlagBuilder[T, P] {
	return &FlagBuilder[T, P]{flag: flag, parent: parent}
}

// Short registers a single-letter alias for the flag.
func (fb *FlagBuilder[T, P]) Short(short rune) *FlagBuilder[T, P] {
	fb.flag.Short = short
	fb.parent.registerShort(short, fb.flag)
	return fb
}

// Default sets the value stored when the flag is absent.
func (fb *FlagBuilder[T, P]) Default(value T) *FlagBuilder[T, P] {
	switch v := any(value).(type) {
	case string:
		fb.flag.DefaultString = v
	case int:
		fb.flag.DefaultInt = v
	case bool:
		fb.flag.DefaultBool = v
	case []string:
		fb.flag.DefaultStrings = v
	}
	fb.flag.defaultSet = true
	return fb
}

// Metavar overrides the value placeholder shown in help output.
func (fb *FlagBuilder[T, P]) Metavar(metavar string) *FlagBuilder[T, P] {
	fb.flag.Metavar = metavar
	return fb
}

// Dest overrides the namespace attribute the flag stores into.
func (fb *FlagBuilder[T, P]) Dest(dest string) *FlagBuilder[T, P] {
	fb.flag.Dest = dest
	return fb
}

// Docs attaches long-form documentation shown in generated docs instead of
// the short description.
func (fb *FlagBuilder[T, P]) Docs(docs string) *FlagBuilder[T, P] {
	fb.flag.Docs = docs
	return fb
}

// Hidden removes the flag from help output while keeping it parseable.
func (fb *FlagBuilder[T, P]) Hidden() *FlagBuilder[T, P] {
	fb.flag.Hidden = true
	return fb
}

// AppendValues makes repeated uses of a comma-separated flag accumulate
// instead of replace.
func (fb *FlagBuilder[T, P]) AppendValues() *FlagBuilder[T, P] {
	fb.flag.Append = true
	return fb
}

// AllowStdin enables the "-" sentinel for reading values from piped stdin.
func (fb *FlagBuilder[T, P]) AllowStdin() *FlagBuilder[T, P] {
	fb.flag.AllowStdin = true
	return fb
}

// Delayed defers storing the parsed value until post-parse resolution at
// the given priority.
func (fb *FlagBuilder[T, P]) Delayed(priority int) *FlagBuilder[T, P] {
	fb.flag.Delayed = true
	fb.flag.Priority = priority
	return fb
}

// Back returns to the parent builder.
func (fb *FlagBuilder[T, P]) Back() P {
	return fb.parent
}
