package argh

import "fmt"

// Command is a subcommand with its own flags, nested subcommands and entry
// point. Build instances through Parser.Command.
type Command struct {
	name        string
	description string
	docs        string
	aliases     []string
	hidden      bool

	flags       map[string]*Flag
	shortFlags  map[rune]*Flag
	flagOrder   []*Flag
	subcommands map[string]*Command
	cmdOrder    []*Command

	defaults     map[string]any
	defaultOrder []string
	main         MainFunc
	finalCheck   FinalCheckFunc
}

func newCommand(name, description string) *Command {
	return &Command{
		name:        name,
		description: description,
		flags:       make(map[string]*Flag),
		shortFlags:  make(map[rune]*Flag),
		subcommands: make(map[string]*Command),
		defaults:    make(map[string]any),
	}
}

// Name returns the command name.
func (c *Command) Name() string { return c.name }

// Description returns the short description shown in help output.
func (c *Command) Description() string { return c.description }

// Aliases returns the registered alias names.
func (c *Command) Aliases() []string { return c.aliases }

func (c *Command) addFlag(f *Flag) {
	if _, exists := c.flags[f.Name]; exists {
		panic(fmt.Sprintf("argh: duplicate flag --%s on command %q", f.Name, c.name))
	}
	c.flags[f.Name] = f
	c.flagOrder = append(c.flagOrder, f)
}

// lookup resolves a name or alias to a nested subcommand.
func (c *Command) lookup(name string) *Command {
	if sub, ok := c.subcommands[name]; ok {
		return sub
	}
	for _, sub := range c.subcommands {
		for _, alias := range sub.aliases {
			if alias == name {
				return sub
			}
		}
	}
	return nil
}

func (c *Command) setDefault(name string, value any) {
	if _, ok := c.defaults[name]; !ok {
		c.defaultOrder = append(c.defaultOrder, name)
	}
	c.defaults[name] = value
}

// CommandBuilder configures a Command fluently.
type CommandBuilder struct {
	command *Command
	parser  *Parser
}

// registerShort satisfies flagOwner for flag builders returning here.
func (cb *CommandBuilder) registerShort(short rune, f *Flag) {
	if existing, ok := cb.command.shortFlags[short]; ok && existing != f {
		panic(fmt.Sprintf("argh: duplicate short flag -%c on command %q", short, cb.command.name))
	}
	cb.command.shortFlags[short] = f
}

// Alias registers alternate names for the command.
func (cb *CommandBuilder) Alias(names ...string) *CommandBuilder {
	cb.command.aliases = append(cb.command.aliases, names...)
	return cb
}

// Hidden removes the command from help output while keeping it invocable.
func (cb *CommandBuilder) Hidden() *CommandBuilder {
	cb.command.hidden = true
	return cb
}

// Docs attaches long-form documentation used by generated docs.
func (cb *CommandBuilder) Docs(docs string) *CommandBuilder {
	cb.command.docs = docs
	return cb
}

// Main binds the entry point invoked when this command is resolved.
func (cb *CommandBuilder) Main(fn MainFunc) *CommandBuilder {
	cb.command.main = fn
	return cb
}

// FinalCheck binds a post-parse validation callback for this command.
func (cb *CommandBuilder) FinalCheck(fn FinalCheckFunc) *CommandBuilder {
	cb.command.finalCheck = fn
	return cb
}

// SetDefault seeds a namespace attribute when this command is resolved and
// the attribute is not already set. The value may be a *DelayedValue.
func (cb *CommandBuilder) SetDefault(name string, value any) *CommandBuilder {
	cb.command.setDefault(name, value)
	return cb
}

// Command adds a nested subcommand.
func (cb *CommandBuilder) Command(name, description string) *CommandBuilder {
	sub := newCommand(name, description)
	if _, exists := cb.command.subcommands[name]; exists {
		panic(fmt.Sprintf("argh: duplicate subcommand %q under %q", name, cb.command.name))
	}
	cb.command.subcommands[name] = sub
	cb.command.cmdOrder = append(cb.command.cmdOrder, sub)
	return &CommandBuilder{command: sub, parser: cb.parser}
}

// Back returns to the parser.
func (cb *CommandBuilder) Back() *Parser {
	return cb.parser
}

// StringFlag adds a flag taking a string value.
func (cb *CommandBuilder) StringFlag(name, description string) *FlagBuilder[string, *CommandBuilder] {
	f := &Flag{Name: name, Description: description, Type: FlagTypeString}
	cb.command.addFlag(f)
	return newFlagBuilder[string](f, cb)
}

// IntFlag adds a flag taking an integer value.
func (cb *CommandBuilder) IntFlag(name, description string) *FlagBuilder[int, *CommandBuilder] {
	f := &Flag{Name: name, Description: description, Type: FlagTypeInt}
	cb.command.addFlag(f)
	return newFlagBuilder[int](f, cb)
}

// BoolFlag adds a presence toggle.
func (cb *CommandBuilder) BoolFlag(name, description string) *FlagBuilder[bool, *CommandBuilder] {
	f := &Flag{Name: name, Description: description, Type: FlagTypeBool}
	cb.command.addFlag(f)
	return newFlagBuilder[bool](f, cb)
}

// StoreBoolFlag adds a flag taking an explicit boolean literal.
func (cb *CommandBuilder) StoreBoolFlag(name, description string) *FlagBuilder[bool, *CommandBuilder] {
	f := &Flag{Name: name, Description: description, Type: FlagTypeStoreBool}
	cb.command.addFlag(f)
	return newFlagBuilder[bool](f, cb)
}

// CountFlag adds a flag counting its occurrences.
func (cb *CommandBuilder) CountFlag(name, description string) *FlagBuilder[int, *CommandBuilder] {
	f := &Flag{Name: name, Description: description, Type: FlagTypeCount}
	cb.command.addFlag(f)
	return newFlagBuilder[int](f, cb)
}

// CSVFlag adds a flag splitting its value on commas.
func (cb *CommandBuilder) CSVFlag(name, description string) *FlagBuilder[[]string, *CommandBuilder] {
	f := &Flag{Name: name, Description: description, Type: FlagTypeCSV}
	cb.command.addFlag(f)
	return newFlagBuilder[[]string](f, cb)
}

// CSVNegationsFlag adds a comma-separated flag partitioning tokens into
// disabled and enabled sets.
func (cb *CommandBuilder) CSVNegationsFlag(name, description string) *FlagBuilder[[]string, *CommandBuilder] {
	f := &Flag{Name: name, Description: description, Type: FlagTypeCSVNegations}
	cb.command.addFlag(f)
	return newFlagBuilder[[]string](f, cb)
}

// CSVElementsFlag adds a comma-separated flag partitioning tokens into
// disabled, neutral and enabled sets.
func (cb *CommandBuilder) CSVElementsFlag(name, description string) *FlagBuilder[[]string, *CommandBuilder] {
	f := &Flag{Name: name, Description: description, Type: FlagTypeCSVElements}
	cb.command.addFlag(f)
	return newFlagBuilder[[]string](f, cb)
}

// ExpansionFlag adds an alias flag replaying the given option templates,
// e.g. "--fields all" or "--verbose".
func (cb *CommandBuilder) ExpansionFlag(name, description string, subst ...string) *FlagBuilder[bool, *CommandBuilder] {
	f := &Flag{Name: name, Description: description, Type: FlagTypeExpansion, Subst: subst}
	cb.command.addFlag(f)
	return newFlagBuilder[bool](f, cb)
}
