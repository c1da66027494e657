package argh

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/pkgtools/go-argh/format"
)

// Sentinel results from Parse for requests that were fully handled by the
// parser itself. Callers using Parse directly should treat them as a signal
// to exit successfully; ParseOrExit and Run do so automatically.
var (
	ErrHelpShown    = errors.New("help shown")
	ErrVersionShown = errors.New("version shown")
)

// Parser is the root of a command-line interface. Configure it fluently,
// then call Parse, ParseOrExit or Run.
type Parser struct {
	name        string
	description string
	docs        string
	version     string
	prog        string

	flags      map[string]*Flag
	shortFlags map[rune]*Flag
	flagOrder  []*Flag

	commands       map[string]*Command
	cmdOrder       []*Command
	defaultCommand string

	defaults     map[string]any
	defaultOrder []string
	mainFunc     MainFunc
	finalCheck   FinalCheckFunc

	addStdFlags   bool
	stdFlagsAdded bool
	sortedHelp    bool

	debug     bool
	verbosity int

	out    io.Writer
	errOut io.Writer
	stdin  *os.File
	exit   func(int)
	logger *format.Logger
}

// New creates a parser named after the program. The process arguments are
// prescanned so debug and verbosity settings take effect before any real
// parsing or logging happens.
func New(name, description string) *Parser {
	return NewWithArgs(name, description, os.Args[1:])
}

// NewWithArgs is New with an explicit argument list for the prescan instead
// of the process arguments.
func NewWithArgs(name, description string, argv []string) *Parser {
	p := &Parser{
		name:        name,
		description: description,
		prog:        name,
		flags:       make(map[string]*Flag),
		shortFlags:  make(map[rune]*Flag),
		commands:    make(map[string]*Command),
		defaults:    make(map[string]any),
		addStdFlags: true,
		out:         os.Stdout,
		errOut:      os.Stderr,
		stdin:       os.Stdin,
		exit:        os.Exit,
		logger:      format.Default(),
	}
	p.prescan(argv)
	return p
}

// prescan extracts debug and verbosity settings from raw arguments before
// parsing proper, so early log calls already honor them.
func (p *Parser) prescan(argv []string) {
	verbose, quiet := 0, 0
	for _, arg := range argv {
		switch arg {
		case "--":
			goto done
		case "--debug":
			p.debug = true
			p.logger.SetLevel(format.LevelDebug)
		case "-q", "--quiet":
			quiet++
		case "-v", "--verbose":
			verbose++
		}
	}
done:
	if quiet > 0 {
		p.verbosity = -1
		p.logger.SetLevel(format.LevelError)
	} else {
		p.verbosity = verbose
	}
}

// Name returns the parser name.
func (p *Parser) Name() string { return p.name }

// Prog returns the program name used in usage and error messages.
func (p *Parser) Prog() string { return p.prog }

// DebugEnabled reports whether --debug was seen.
func (p *Parser) DebugEnabled() bool { return p.debug }

// Verbosity returns the verbosity level: -1 when quieted, otherwise the
// number of -v occurrences.
func (p *Parser) Verbosity() int { return p.verbosity }

// Logger returns the parser's leveled logger.
func (p *Parser) Logger() *format.Logger { return p.logger }

// Version sets the version string reported by --version.
func (p *Parser) Version(version string) *Parser {
	p.version = version
	return p
}

// Docs attaches long-form documentation used by generated docs.
func (p *Parser) Docs(docs string) *Parser {
	p.docs = docs
	return p
}

// SortedHelp lists flags alphabetically in help output instead of in
// registration order.
func (p *Parser) SortedHelp() *Parser {
	p.sortedHelp = true
	return p
}

// SuppressStandardFlags skips registration of the built-in help, version,
// debug, quiet, verbose and color flags.
func (p *Parser) SuppressStandardFlags() *Parser {
	p.addStdFlags = false
	return p
}

// DefaultCommand names the subcommand parsing falls back to when the
// arguments do not start with a known subcommand.
func (p *Parser) DefaultCommand(name string) *Parser {
	p.defaultCommand = name
	return p
}

// Main binds the entry point used when no subcommand overrides it.
func (p *Parser) Main(fn MainFunc) *Parser {
	p.mainFunc = fn
	return p
}

// FinalCheck binds a post-parse validation callback. A subcommand's own
// final check replaces it for invocations resolving to that subcommand.
func (p *Parser) FinalCheck(fn FinalCheckFunc) *Parser {
	p.finalCheck = fn
	return p
}

// SetDefault seeds a namespace attribute unless parsing set it. The value
// may be a *DelayedValue placeholder.
func (p *Parser) SetDefault(name string, value any) *Parser {
	if _, ok := p.defaults[name]; !ok {
		p.defaultOrder = append(p.defaultOrder, name)
	}
	p.defaults[name] = value
	return p
}

// DelayedDefault seeds an attribute with a placeholder computed after
// parsing at the given priority.
func (p *Parser) DelayedDefault(name string, priority int, fn DelayedFunc) *Parser {
	return p.SetDefault(name, NewDelayedValue(priority, fn))
}

// OrderedDefault schedules fn to run against the namespace during delayed
// resolution at the given priority, leaving no attribute behind.
func (p *Parser) OrderedDefault(name string, priority int, fn func(ns *Namespace) error) *Parser {
	return p.SetDefault(name, OrderedCall(priority, fn))
}

// WithOutput redirects normal output, help and version text.
func (p *Parser) WithOutput(w io.Writer) *Parser {
	p.out = w
	return p
}

// WithErrOutput redirects error messages.
func (p *Parser) WithErrOutput(w io.Writer) *Parser {
	p.errOut = w
	return p
}

// WithStdin overrides the file read when a flag value is the "-" sentinel.
func (p *Parser) WithStdin(f *os.File) *Parser {
	p.stdin = f
	return p
}

// WithExit overrides the process-exit function; tests use it to capture
// exit codes.
func (p *Parser) WithExit(fn func(int)) *Parser {
	p.exit = fn
	return p
}

// Command adds a subcommand.
func (p *Parser) Command(name, description string) *CommandBuilder {
	if _, exists := p.commands[name]; exists {
		panic(fmt.Sprintf("argh: duplicate subcommand %q", name))
	}
	cmd := newCommand(name, description)
	p.commands[name] = cmd
	p.cmdOrder = append(p.cmdOrder, cmd)
	return &CommandBuilder{command: cmd, parser: p}
}

// Subcommands returns the top-level subcommands keyed by name, with alias
// names mapping to the same Command.
func (p *Parser) Subcommands() map[string]*Command {
	out := make(map[string]*Command, len(p.commands))
	for name, cmd := range p.commands {
		out[name] = cmd
	}
	for _, cmd := range p.commands {
		for _, alias := range cmd.aliases {
			out[alias] = cmd
		}
	}
	return out
}

func (p *Parser) lookupCommand(name string) *Command {
	if cmd, ok := p.commands[name]; ok {
		return cmd
	}
	for _, cmd := range p.commands {
		for _, alias := range cmd.aliases {
			if alias == name {
				return cmd
			}
		}
	}
	return nil
}

func (p *Parser) addFlag(f *Flag) {
	if _, exists := p.flags[f.Name]; exists {
		panic(fmt.Sprintf("argh: duplicate flag --%s", f.Name))
	}
	p.flags[f.Name] = f
	p.flagOrder = append(p.flagOrder, f)
}

// registerShort satisfies flagOwner for flag builders returning here.
func (p *Parser) registerShort(short rune, f *Flag) {
	if existing, ok := p.shortFlags[short]; ok && existing != f {
		panic(fmt.Sprintf("argh: duplicate short flag -%c", short))
	}
	p.shortFlags[short] = f
}

// StringFlag adds a global flag taking a string value.
func (p *Parser) StringFlag(name, description string) *FlagBuilder[string, *Parser] {
	f := &Flag{Name: name, Description: description, Type: FlagTypeString}
	p.addFlag(f)
	return newFlagBuilder[string](f, p)
}

// IntFlag adds a global flag taking an integer value.
func (p *Parser) IntFlag(name, description string) *FlagBuilder[int, *Parser] {
	f := &Flag{Name: name, Description: description, Type: FlagTypeInt}
	p.addFlag(f)
	return newFlagBuilder[int](f, p)
}

// BoolFlag adds a global presence toggle.
func (p *Parser) BoolFlag(name, description string) *FlagBuilder[bool, *Parser] {
	f := &Flag{Name: name, Description: description, Type: FlagTypeBool}
	p.addFlag(f)
	return newFlagBuilder[bool](f, p)
}

// StoreBoolFlag adds a global flag taking an explicit boolean literal.
func (p *Parser) StoreBoolFlag(name, description string) *FlagBuilder[bool, *Parser] {
	f := &Flag{Name: name, Description: description, Type: FlagTypeStoreBool}
	p.addFlag(f)
	return newFlagBuilder[bool](f, p)
}

// CountFlag adds a global flag counting its occurrences.
func (p *Parser) CountFlag(name, description string) *FlagBuilder[int, *Parser] {
	f := &Flag{Name: name, Description: description, Type: FlagTypeCount}
	p.addFlag(f)
	return newFlagBuilder[int](f, p)
}

// CSVFlag adds a global flag splitting its value on commas.
func (p *Parser) CSVFlag(name, description string) *FlagBuilder[[]string, *Parser] {
	f := &Flag{Name: name, Description: description, Type: FlagTypeCSV}
	p.addFlag(f)
	return newFlagBuilder[[]string](f, p)
}

// CSVNegationsFlag adds a global comma-separated flag partitioning tokens
// into disabled and enabled sets.
func (p *Parser) CSVNegationsFlag(name, description string) *FlagBuilder[[]string, *Parser] {
	f := &Flag{Name: name, Description: description, Type: FlagTypeCSVNegations}
	p.addFlag(f)
	return newFlagBuilder[[]string](f, p)
}

// CSVElementsFlag adds a global comma-separated flag partitioning tokens
// into disabled, neutral and enabled sets.
func (p *Parser) CSVElementsFlag(name, description string) *FlagBuilder[[]string, *Parser] {
	f := &Flag{Name: name, Description: description, Type: FlagTypeCSVElements}
	p.addFlag(f)
	return newFlagBuilder[[]string](f, p)
}

// ExpansionFlag adds a global alias flag replaying other option templates.
func (p *Parser) ExpansionFlag(name, description string, subst ...string) *FlagBuilder[bool, *Parser] {
	f := &Flag{Name: name, Description: description, Type: FlagTypeExpansion, Subst: subst}
	p.addFlag(f)
	return newFlagBuilder[bool](f, p)
}

// addStandardFlags registers the built-in flags once, skipping any name the
// application claimed for itself.
func (p *Parser) addStandardFlags() {
	if p.stdFlagsAdded || !p.addStdFlags {
		return
	}
	p.stdFlagsAdded = true

	add := func(f *Flag) bool {
		if _, taken := p.flags[f.Name]; taken {
			return false
		}
		p.addFlag(f)
		if f.Short != 0 {
			if _, taken := p.shortFlags[f.Short]; !taken {
				p.shortFlags[f.Short] = f
			}
		}
		return true
	}

	add(&Flag{Name: "help", Short: 'h', Description: "show this help message and exit", Type: FlagTypeBool})
	if p.version != "" {
		add(&Flag{Name: "version", Description: "show this program's version info and exit", Type: FlagTypeBool})
	}
	add(&Flag{
		Name: "debug", Description: "enable debugging checks", Type: FlagTypeBool,
		onSet: func(p *Parser, ns *Namespace) {
			p.debug = true
			p.logger.SetLevel(format.LevelDebug)
		},
	})
	add(&Flag{
		Name: "quiet", Short: 'q', Description: "suppress non-error messages", Type: FlagTypeCount,
		onSet: func(p *Parser, ns *Namespace) {
			p.verbosity = -1
			p.logger.SetLevel(format.LevelError)
		},
	})
	add(&Flag{
		Name: "verbose", Short: 'v', Description: "show verbose output", Type: FlagTypeCount,
		onSet: func(p *Parser, ns *Namespace) {
			if p.verbosity >= 0 {
				p.verbosity = ns.MustGetInt("verbose", 0)
			}
		},
	})
	color := &Flag{Name: "color", Description: "enable or disable color support", Type: FlagTypeStoreBool, Metavar: "BOOLEAN"}
	color.DefaultBool = format.IsTerminal(os.Stdout)
	color.defaultSet = true
	add(color)
}

// Parse processes args (without the program name) into a Namespace. Help and
// version requests are rendered immediately and reported through the
// ErrHelpShown and ErrVersionShown sentinels.
func (p *Parser) Parse(args []string) (*Namespace, error) {
	p.addStandardFlags()
	ns := NewNamespace()

	if p.addStdFlags && helpRequested(args) {
		p.printHelp(p.out, p.chainFor(args))
		return ns, ErrHelpShown
	}
	if p.addStdFlags && p.version != "" && versionRequested(args) {
		fmt.Fprintf(p.out, "%s %s\n", p.prog, p.version)
		return ns, ErrVersionShown
	}

	args, err := p.applyDefaultCommand(args, ns)
	if err != nil {
		return nil, err
	}

	st := &parseState{p: p, ns: ns, args: args}
	for st.pos < len(st.args) {
		if err := st.step(); err != nil {
			return nil, err
		}
	}

	if len(st.extras) > 0 {
		return nil, &ParseError{
			Type:    ErrorTypeUnrecognized,
			Message: "unrecognized arguments: " + strings.Join(st.extras, " "),
		}
	}

	p.applyDefaults(ns, st.chain)
	p.bindEntry(ns, st.chain)

	if err := resolveDelayed(ns); err != nil {
		return nil, err
	}

	if v, ok := ns.Pop(attrFinalCheck); ok {
		if fn, ok := v.(FinalCheckFunc); ok && fn != nil {
			if err := fn(p, ns); err != nil {
				return nil, err
			}
		}
	}
	return ns, nil
}

// helpRequested reports whether the raw arguments ask for help. Tokens after
// "--" are values, not flags.
func helpRequested(args []string) bool {
	for _, arg := range args {
		if arg == "--" {
			return false
		}
		if arg == "-h" || arg == "--help" {
			return true
		}
	}
	return false
}

func versionRequested(args []string) bool {
	for _, arg := range args {
		if arg == "--" {
			return false
		}
		if arg == "--version" {
			return true
		}
	}
	return false
}

// chainFor walks the leading subcommand words of args so help renders in
// the right context. Flag tokens are skipped; the walk stops at the first
// word that is not a known subcommand.
func (p *Parser) chainFor(args []string) []*Command {
	var chain []*Command
	for _, arg := range args {
		if arg == "--" {
			break
		}
		if strings.HasPrefix(arg, "-") {
			continue
		}
		var next *Command
		if len(chain) == 0 {
			next = p.lookupCommand(arg)
		} else {
			next = chain[len(chain)-1].lookup(arg)
		}
		if next == nil {
			break
		}
		chain = append(chain, next)
	}
	return chain
}

// applyDefaultCommand rewrites args to start with the default subcommand
// when one is configured and the invocation names no subcommand of its own.
// Flags known at the root are bound first so global options may precede the
// implied subcommand.
func (p *Parser) applyDefaultCommand(args []string, ns *Namespace) ([]string, error) {
	if p.defaultCommand == "" || len(p.commands) == 0 {
		return args, nil
	}
	subs := p.Subcommands()
	if len(args) > 0 {
		if _, ok := subs[args[0]]; ok {
			return args, nil
		}
	}
	if _, ok := subs[p.defaultCommand]; !ok {
		names := make([]string, 0, len(p.commands))
		for name := range p.commands {
			names = append(names, name)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("unknown default subcommand %q (available subcommands: %s)",
			p.defaultCommand, strings.Join(names, ", "))
	}

	rest, err := p.consumeRootFlags(args, ns)
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		if _, ok := subs[rest[0]]; ok {
			return rest, nil
		}
	}
	return append([]string{p.defaultCommand}, rest...), nil
}

// consumeRootFlags binds leading flags known at the root level and returns
// the remaining arguments. The first token that is not a known root flag
// stops the scan; it may belong to the subcommand about to be entered.
func (p *Parser) consumeRootFlags(args []string, ns *Namespace) ([]string, error) {
	st := &parseState{p: p, ns: ns, args: args}
	for st.pos < len(st.args) {
		if !p.knownRootFlag(st.args[st.pos]) {
			break
		}
		if err := st.step(); err != nil {
			return nil, err
		}
	}
	return st.args[st.pos:], nil
}

func (p *Parser) knownRootFlag(arg string) bool {
	if strings.HasPrefix(arg, "--") && len(arg) > 2 {
		name := arg[2:]
		if i := strings.IndexByte(name, '='); i >= 0 {
			name = name[:i]
		}
		_, ok := p.flags[name]
		return ok
	}
	if strings.HasPrefix(arg, "-") && len(arg) > 1 {
		_, ok := p.shortFlags[[]rune(arg[1:])[0]]
		return ok
	}
	return false
}

// findFlag resolves a long flag name against the command chain, deepest
// scope first, falling back to the parser's global flags.
func (p *Parser) findFlag(chain []*Command, name string) *Flag {
	for i := len(chain) - 1; i >= 0; i-- {
		if f, ok := chain[i].flags[name]; ok {
			return f
		}
	}
	return p.flags[name]
}

func (p *Parser) findShort(chain []*Command, short rune) *Flag {
	for i := len(chain) - 1; i >= 0; i-- {
		if f, ok := chain[i].shortFlags[short]; ok {
			return f
		}
	}
	return p.shortFlags[short]
}

// scopeFlagNames lists visible long flag names for suggestion lookup.
func (p *Parser) scopeFlagNames(chain []*Command) []string {
	var names []string
	for _, f := range p.flagOrder {
		if !f.Hidden {
			names = append(names, f.Name)
		}
	}
	for _, cmd := range chain {
		for _, f := range cmd.flagOrder {
			if !f.Hidden {
				names = append(names, f.Name)
			}
		}
	}
	return names
}

// applyDefaults seeds parser defaults, command defaults along the resolved
// chain, and per-flag defaults for every flag in scope. Existing attributes
// are never overwritten, so subcommand defaults cannot clobber values the
// parent already bound.
func (p *Parser) applyDefaults(ns *Namespace, chain []*Command) {
	for _, name := range p.defaultOrder {
		ns.SetDefault(name, p.defaults[name])
	}
	for _, cmd := range chain {
		for _, name := range cmd.defaultOrder {
			ns.SetDefault(name, cmd.defaults[name])
		}
	}

	applyFlagDefault := func(f *Flag) {
		if !f.defaultSet || ns.Has(f.destName()) {
			return
		}
		dest := f.destName()
		switch f.Type {
		case FlagTypeBool, FlagTypeStoreBool, FlagTypeExpansion:
			ns.Set(dest, f.DefaultBool)
		case FlagTypeInt, FlagTypeCount:
			ns.Set(dest, f.DefaultInt)
		case FlagTypeString:
			ns.Set(dest, f.DefaultString)
		case FlagTypeCSV:
			ns.Set(dest, f.DefaultStrings)
		case FlagTypeCSVNegations:
			if n, err := splitNegations(f.DefaultStrings); err == nil {
				ns.Set(dest, n)
			}
		case FlagTypeCSVElements:
			if e, err := splitElements(f.DefaultStrings); err == nil {
				ns.Set(dest, e)
			}
		}
	}
	for _, f := range p.flagOrder {
		applyFlagDefault(f)
	}
	for _, cmd := range chain {
		for _, f := range cmd.flagOrder {
			applyFlagDefault(f)
		}
	}
}

// bindEntry records the resolved program path, entry point and final check
// on the namespace. The deepest subcommand that defines one wins.
func (p *Parser) bindEntry(ns *Namespace, chain []*Command) {
	prog := p.prog
	main := p.mainFunc
	check := p.finalCheck
	for _, cmd := range chain {
		prog += " " + cmd.name
		if cmd.main != nil {
			main = cmd.main
		}
		if cmd.finalCheck != nil {
			check = cmd.finalCheck
		}
	}
	ns.Set(attrProg, prog)
	if main != nil {
		ns.Set(attrMain, MainFunc(main))
	}
	if check != nil {
		ns.Set(attrFinalCheck, FinalCheckFunc(check))
	}
}

// parseState tracks position and resolved command chain across one Parse.
type parseState struct {
	p           *Parser
	ns          *Namespace
	args        []string
	pos         int
	chain       []*Command
	extras      []string
	sawDashDash bool
}

func (st *parseState) step() error {
	arg := st.args[st.pos]
	st.pos++
	switch {
	case arg == "--":
		st.sawDashDash = true
	case st.sawDashDash:
		st.extras = append(st.extras, arg)
	case strings.HasPrefix(arg, "--"):
		return st.parseLong(arg[2:])
	case strings.HasPrefix(arg, "-") && len(arg) > 1:
		return st.parseShort(arg[1:])
	default:
		return st.parseWord(arg)
	}
	return nil
}

func (st *parseState) parseWord(word string) error {
	var next *Command
	var level map[string]*Command
	if len(st.chain) == 0 {
		next = st.p.lookupCommand(word)
		level = st.p.commands
	} else {
		deepest := st.chain[len(st.chain)-1]
		next = deepest.lookup(word)
		level = deepest.subcommands
	}
	if next == nil {
		if len(level) == 0 {
			st.extras = append(st.extras, word)
			return nil
		}
		return unknownCommandError(word, level)
	}
	st.chain = append(st.chain, next)
	path := make([]string, len(st.chain))
	for i, cmd := range st.chain {
		path[i] = cmd.name
	}
	st.ns.Set(attrSubcommand, strings.Join(path, " "))
	return nil
}

func (st *parseState) parseLong(body string) error {
	name, value := body, ""
	hasValue := false
	if i := strings.IndexByte(body, '='); i >= 0 {
		name, value, hasValue = body[:i], body[i+1:], true
	}
	f := st.p.findFlag(st.chain, name)
	if f == nil {
		return unknownFlagError(name, st.p.scopeFlagNames(st.chain))
	}
	if f.RequiresValue() && !hasValue {
		if st.pos >= len(st.args) {
			return missingValueError("--"+name, f)
		}
		value, hasValue = st.args[st.pos], true
		st.pos++
	}
	return st.storeFlag(f, value, hasValue)
}

func (st *parseState) parseShort(body string) error {
	runes := []rune(body)
	for i := 0; i < len(runes); i++ {
		f := st.p.findShort(st.chain, runes[i])
		if f == nil {
			return &ParseError{
				Type:    ErrorTypeUnknownFlag,
				Message: fmt.Sprintf("unknown flag: -%c", runes[i]),
			}
		}
		if !f.RequiresValue() {
			if err := st.storeFlag(f, "", false); err != nil {
				return err
			}
			continue
		}
		// value-taking short flag consumes the rest of the cluster, or
		// the next argument
		if rest := string(runes[i+1:]); rest != "" {
			return st.storeFlag(f, rest, true)
		}
		if st.pos >= len(st.args) {
			return missingValueError(fmt.Sprintf("-%c", runes[i]), f)
		}
		value := st.args[st.pos]
		st.pos++
		return st.storeFlag(f, value, true)
	}
	return nil
}

// storeFlag records a flag occurrence. Delayed flags store a placeholder
// resolving at their priority; everything else is applied immediately.
func (st *parseState) storeFlag(f *Flag, raw string, hasRaw bool) error {
	if f.Delayed {
		p := st.p
		chain := append([]*Command(nil), st.chain...)
		st.ns.Set(f.destName(), &DelayedValue{
			Priority: f.Priority,
			fn: func(ns *Namespace, attr string) error {
				return p.applyFlag(ns, chain, f, raw, hasRaw)
			},
		})
		return nil
	}
	return st.p.applyFlag(st.ns, st.chain, f, raw, hasRaw)
}

// applyFlag converts a raw occurrence into its namespace value.
func (p *Parser) applyFlag(ns *Namespace, chain []*Command, f *Flag, raw string, hasRaw bool) error {
	dest := f.destName()
	switch f.Type {
	case FlagTypeBool:
		value := true
		if hasRaw {
			b, err := parseBoolLiteral(raw)
			if err != nil {
				return invalidValueError(f, err)
			}
			value = b
		}
		ns.Set(dest, value)

	case FlagTypeStoreBool:
		b, err := parseBoolLiteral(raw)
		if err != nil {
			return invalidValueError(f, err)
		}
		ns.Set(dest, b)

	case FlagTypeString:
		ns.Set(dest, raw)

	case FlagTypeInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return invalidValueError(f, fmt.Errorf("invalid integer value %q", raw))
		}
		ns.Set(dest, n)

	case FlagTypeCount:
		ns.Set(dest, ns.MustGetInt(dest, 0)+1)

	case FlagTypeCSV:
		items, err := p.csvTokens(f, raw)
		if err != nil {
			return err
		}
		if f.Append {
			if prev, ok := ns.GetStrings(dest); ok {
				items = append(append([]string(nil), prev...), items...)
			}
		}
		ns.Set(dest, items)

	case FlagTypeCSVNegations:
		tokens, err := p.csvTokens(f, raw)
		if err != nil {
			return err
		}
		neg, err := splitNegations(tokens)
		if err != nil {
			return invalidValueError(f, err)
		}
		if f.Append {
			if prev, ok := ns.GetNegations(dest); ok {
				neg = prev.merge(neg)
			}
		}
		ns.Set(dest, neg)

	case FlagTypeCSVElements:
		tokens, err := p.csvTokens(f, raw)
		if err != nil {
			return err
		}
		el, err := splitElements(tokens)
		if err != nil {
			return invalidValueError(f, err)
		}
		if f.Append {
			if prev, ok := ns.GetElements(dest); ok {
				el = prev.merge(el)
			}
		}
		ns.Set(dest, el)

	case FlagTypeExpansion:
		if hasRaw {
			return invalidValueError(f, errors.New("does not take a value"))
		}
		if err := p.expand(ns, chain, f); err != nil {
			return err
		}
		ns.Set(dest, true)

	default:
		return &ParseError{Type: ErrorTypeInternal, Message: fmt.Sprintf("--%s: unhandled flag type %q", f.Name, f.Type)}
	}

	if f.onSet != nil {
		f.onSet(p, ns)
	}
	return nil
}

// csvTokens splits a comma-separated value, or pulls one token per line
// from stdin when the value is the "-" sentinel and the flag allows it.
func (p *Parser) csvTokens(f *Flag, raw string) ([]string, error) {
	if raw != "-" || !f.AllowStdin {
		return splitCSV(raw), nil
	}
	if format.IsTerminal(p.stdin) {
		return nil, &ParseError{
			Type:    ErrorTypeInvalidValue,
			Flag:    f.Name,
			Message: fmt.Sprintf("--%s: '-' is only valid when piping data in", f.Name),
		}
	}
	lines, err := readLines(bufio.NewScanner(p.stdin))
	if err != nil {
		return nil, fmt.Errorf("reading stdin for --%s: %w", f.Name, err)
	}
	if p.stdin == os.Stdin {
		// best effort; the program may still want interactive input later
		_ = reopenStdin()
	}
	return lines, nil
}

// expand replays an expansion flag's option templates in order.
func (p *Parser) expand(ns *Namespace, chain []*Command, f *Flag) error {
	for _, tmpl := range f.Subst {
		words, err := shellquote.Split(tmpl)
		if err != nil || len(words) == 0 {
			return &ParseError{
				Type:    ErrorTypeInternal,
				Message: fmt.Sprintf("--%s: bad expansion template %q", f.Name, tmpl),
			}
		}
		target := p.findFlag(chain, strings.TrimLeft(words[0], "-"))
		if target == nil {
			return &ParseError{
				Type:    ErrorTypeInternal,
				Message: fmt.Sprintf("unable to find option %q for --%s", words[0], f.Name),
			}
		}
		var value string
		hasValue := len(words) > 1
		if hasValue {
			value = strings.Join(words[1:], ",")
		}
		if target.RequiresValue() && !hasValue {
			return &ParseError{
				Type:    ErrorTypeInternal,
				Message: fmt.Sprintf("option %q in --%s expansion requires a value", words[0], f.Name),
			}
		}
		if err := p.applyFlag(ns, chain, target, value, hasValue); err != nil {
			return err
		}
	}
	return nil
}
