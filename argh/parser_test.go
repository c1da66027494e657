package argh

import (
	"bytes"
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/pkgtools/go-argh/format"
)

type capture struct {
	out   bytes.Buffer
	err   bytes.Buffer
	exits []int
}

func newTestParser(name string) (*Parser, *capture) {
	c := &capture{}
	p := NewWithArgs(name, "test program", nil).
		WithOutput(&c.out).
		WithErrOutput(&c.err).
		WithExit(func(code int) { c.exits = append(c.exits, code) })
	return p, c
}

func TestPrescan(t *testing.T) {
	tests := []struct {
		name      string
		argv      []string
		debug     bool
		verbosity int
		level     format.LogLevel
	}{
		{"empty", nil, false, 0, format.LevelInfo},
		{"debug", []string{"--debug"}, true, 0, format.LevelDebug},
		{"verbose counts", []string{"-v", "--verbose", "-v"}, false, 3, format.LevelInfo},
		{"quiet beats verbose", []string{"-v", "-q", "-v"}, false, -1, format.LevelError},
		{"stops at terminator", []string{"-v", "--", "-v", "--debug"}, false, 1, format.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewWithArgs("prog", "", tt.argv)
			if got := p.DebugEnabled(); got != tt.debug {
				t.Errorf("debug = %v, want %v", got, tt.debug)
			}
			if got := p.Verbosity(); got != tt.verbosity {
				t.Errorf("verbosity = %d, want %d", got, tt.verbosity)
			}
			if got := p.Logger().Level(); got != tt.level {
				t.Errorf("log level = %v, want %v", got, tt.level)
			}
		})
	}
}

func TestParseBasicFlags(t *testing.T) {
	p, _ := newTestParser("prog")
	p.StringFlag("name", "a name").
		Back().
		IntFlag("jobs", "parallel jobs").Default(1).
		Back().
		BoolFlag("force", "force it")

	ns, err := p.Parse([]string{"--name", "widget", "--jobs", "8", "--force"})
	if err != nil {
		t.Fatal(err)
	}
	if got := ns.MustGetString("name", ""); got != "widget" {
		t.Errorf("name = %q", got)
	}
	if got := ns.MustGetInt("jobs", 0); got != 8 {
		t.Errorf("jobs = %d", got)
	}
	if !ns.MustGetBool("force", false) {
		t.Error("force not set")
	}
}

func TestParseFlagDefaults(t *testing.T) {
	p, _ := newTestParser("prog")
	p.IntFlag("jobs", "parallel jobs").Default(4).
		Back().
		StringFlag("profile", "build profile").Default("release")

	ns, err := p.Parse(nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := ns.MustGetInt("jobs", 0); got != 4 {
		t.Errorf("jobs default = %d, want 4", got)
	}
	if got := ns.MustGetString("profile", ""); got != "release" {
		t.Errorf("profile default = %q", got)
	}
}

func TestParseEqualsSyntaxAndShortCluster(t *testing.T) {
	p, _ := newTestParser("prog")
	p.StringFlag("name", "a name").Short('n').
		Back().
		BoolFlag("force", "force it").Short('f').
		Back().
		BoolFlag("dry-run", "no side effects").Short('d')

	ns, err := p.Parse([]string{"--name=widget", "-fd"})
	if err != nil {
		t.Fatal(err)
	}
	if got := ns.MustGetString("name", ""); got != "widget" {
		t.Errorf("name = %q", got)
	}
	if !ns.MustGetBool("force", false) || !ns.MustGetBool("dry_run", false) {
		t.Error("short cluster did not set both toggles")
	}
}

func TestParseCountFlag(t *testing.T) {
	p, _ := newTestParser("prog")
	ns, err := p.Parse([]string{"-v", "-v", "--verbose"})
	if err != nil {
		t.Fatal(err)
	}
	if got := ns.MustGetInt("verbose", 0); got != 3 {
		t.Errorf("verbose = %d, want 3", got)
	}
	if p.Verbosity() != 3 {
		t.Errorf("Verbosity() = %d, want 3", p.Verbosity())
	}
}

func TestStoreBoolLiterals(t *testing.T) {
	for _, tt := range []struct {
		raw  string
		want bool
	}{
		{"y", true}, {"yes", true}, {"true", true},
		{"n", false}, {"no", false}, {"false", false},
	} {
		p, _ := newTestParser("prog")
		ns, err := p.Parse([]string{"--color", tt.raw})
		if err != nil {
			t.Fatalf("--color %s: %v", tt.raw, err)
		}
		if got := ns.MustGetBool("color", !tt.want); got != tt.want {
			t.Errorf("--color %s = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestStoreBoolRejectsOtherLiterals(t *testing.T) {
	p, _ := newTestParser("prog")
	_, err := p.Parse([]string{"--color", "bogus"})
	if err == nil {
		t.Fatal("bogus literal accepted")
	}
	want := `--color: value "bogus" must be [y|yes|true|n|no|false]`
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err, want)
	}
}

func TestCSVFlag(t *testing.T) {
	p, _ := newTestParser("prog")
	p.CSVFlag("targets", "build targets")

	ns, err := p.Parse([]string{"--targets", "a,b,c"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a", "b", "c"}
	if got := ns.MustGetStrings("targets", nil); !reflect.DeepEqual(got, want) {
		t.Errorf("targets = %v, want %v", got, want)
	}
}

// Without append, a repeated flag replaces the previous values; with it,
// values accumulate across uses.
func TestCSVFlagRepeatSemantics(t *testing.T) {
	p, _ := newTestParser("prog")
	p.CSVFlag("replace", "replaced each use").
		Back().
		CSVFlag("extend", "accumulated").AppendValues()

	ns, err := p.Parse([]string{"--replace", "a,b", "--replace", "c", "--extend", "a,b", "--extend", "c"})
	if err != nil {
		t.Fatal(err)
	}
	if got := ns.MustGetStrings("replace", nil); !reflect.DeepEqual(got, []string{"c"}) {
		t.Errorf("replace = %v, want [c]", got)
	}
	if got := ns.MustGetStrings("extend", nil); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("extend = %v, want [a b c]", got)
	}
}

func TestCSVNegationsFlag(t *testing.T) {
	p, _ := newTestParser("prog")
	p.CSVNegationsFlag("sets", "package sets")

	ns, err := p.Parse([]string{"--sets", "-system,world,-virtual,user"})
	if err != nil {
		t.Fatal(err)
	}
	got, ok := ns.GetNegations("sets")
	if !ok {
		t.Fatal("sets missing")
	}
	want := Negations{Disabled: []string{"system", "virtual"}, Enabled: []string{"world", "user"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sets = %+v, want %+v", got, want)
	}
}

func TestCSVElementsFlag(t *testing.T) {
	p, _ := newTestParser("prog")
	p.CSVElementsFlag("use", "use flags")

	ns, err := p.Parse([]string{"--use", "-doc,ssl,+static"})
	if err != nil {
		t.Fatal(err)
	}
	got, ok := ns.GetElements("use")
	if !ok {
		t.Fatal("use missing")
	}
	want := Elements{Disabled: []string{"doc"}, Neutral: []string{"ssl"}, Enabled: []string{"static"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("use = %+v, want %+v", got, want)
	}
}

func TestUnknownFlagSuggestion(t *testing.T) {
	p, _ := newTestParser("prog")
	_, err := p.Parse([]string{"--verbos"})
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error %v is not a ParseError", err)
	}
	if pe.Type != ErrorTypeUnknownFlag {
		t.Errorf("type = %q", pe.Type)
	}
	if pe.Suggestion != "verbose" {
		t.Errorf("suggestion = %q, want verbose", pe.Suggestion)
	}
}

func TestUnknownSubcommand(t *testing.T) {
	p, _ := newTestParser("prog")
	p.Command("build", "build things")
	p.Command("clean", "clean up")

	_, err := p.Parse([]string{"biuld"})
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error %v is not a ParseError", err)
	}
	if pe.Type != ErrorTypeUnknownCommand {
		t.Errorf("type = %q", pe.Type)
	}
	if !strings.Contains(pe.Message, "choices: build, clean") {
		t.Errorf("message %q does not list choices", pe.Message)
	}
	if pe.Suggestion != "build" {
		t.Errorf("suggestion = %q, want build", pe.Suggestion)
	}
}

// The deepest command defining an entry point wins; the root's is used
// otherwise.
func TestMainBinding(t *testing.T) {
	p, _ := newTestParser("prog")
	var ran string
	p.Main(func(ns *Namespace, out, errOut format.Formatter) error {
		ran = "root"
		return nil
	})
	p.Command("sub", "has its own entry point").
		Main(func(ns *Namespace, out, errOut format.Formatter) error {
			ran = "sub"
			return nil
		})

	ns, err := p.Parse([]string{"sub"})
	if err != nil {
		t.Fatal(err)
	}
	if err := ns.Main()(ns, format.NewFakeStream(), format.NewFakeStream()); err != nil {
		t.Fatal(err)
	}
	if ran != "sub" {
		t.Errorf("ran = %q, want sub", ran)
	}

	ns, err = p.Parse(nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := ns.Main()(ns, format.NewFakeStream(), format.NewFakeStream()); err != nil {
		t.Fatal(err)
	}
	if ran != "root" {
		t.Errorf("ran = %q, want root", ran)
	}
}

func TestSubcommandBinding(t *testing.T) {
	p, _ := newTestParser("prog")
	p.Command("build", "build things").
		Alias("b").
		CSVFlag("targets", "build targets").Back()

	ns, err := p.Parse([]string{"b", "--targets", "x"})
	if err != nil {
		t.Fatal(err)
	}
	if got := ns.Subcommand(); got != "build" {
		t.Errorf("subcommand = %q, want build", got)
	}
	if got := ns.Prog(); got != "prog build" {
		t.Errorf("prog = %q, want %q", got, "prog build")
	}
}

func TestNestedSubcommands(t *testing.T) {
	p, _ := newTestParser("prog")
	p.Command("pkg", "package ops").
		Command("add", "add a package").
		StringFlag("repo", "source repo").Back()

	ns, err := p.Parse([]string{"pkg", "add", "--repo", "main"})
	if err != nil {
		t.Fatal(err)
	}
	if got := ns.Subcommand(); got != "pkg add" {
		t.Errorf("subcommand = %q, want %q", got, "pkg add")
	}
	if got := ns.MustGetString("repo", ""); got != "main" {
		t.Errorf("repo = %q", got)
	}
}

// An invocation without a leading subcommand behaves exactly as if the
// default subcommand had been named.
func TestDefaultCommandEquivalence(t *testing.T) {
	build := func() *Parser {
		p, _ := newTestParser("prog")
		p.DefaultCommand("build")
		p.Command("build", "build things").
			CSVFlag("targets", "build targets").Back()
		p.Command("clean", "clean up")
		return p
	}

	implicit, err := build().Parse([]string{"--targets", "a,b"})
	if err != nil {
		t.Fatal(err)
	}
	explicit, err := build().Parse([]string{"build", "--targets", "a,b"})
	if err != nil {
		t.Fatal(err)
	}

	for _, attr := range []string{"subcommand", "targets"} {
		iv, _ := implicit.Get(attr)
		ev, _ := explicit.Get(attr)
		if !reflect.DeepEqual(iv, ev) {
			t.Errorf("%s: implicit %v != explicit %v", attr, iv, ev)
		}
	}
	if got := implicit.Subcommand(); got != "build" {
		t.Errorf("subcommand = %q, want build", got)
	}
}

// Global flags before the implied subcommand are bound at the root.
func TestDefaultCommandRootFlagsFirst(t *testing.T) {
	p, _ := newTestParser("prog")
	p.DefaultCommand("build")
	p.Command("build", "build things").
		CSVFlag("targets", "build targets").Back()

	ns, err := p.Parse([]string{"--debug", "--targets", "x"})
	if err != nil {
		t.Fatal(err)
	}
	if !ns.MustGetBool("debug", false) {
		t.Error("root --debug not bound")
	}
	if got := ns.Subcommand(); got != "build" {
		t.Errorf("subcommand = %q, want build", got)
	}
}

// A leading known subcommand disables the fallback entirely.
func TestDefaultCommandSkippedForExplicitSubcommand(t *testing.T) {
	p, _ := newTestParser("prog")
	p.DefaultCommand("build")
	p.Command("build", "build things")
	p.Command("clean", "clean up")

	ns, err := p.Parse([]string{"clean"})
	if err != nil {
		t.Fatal(err)
	}
	if got := ns.Subcommand(); got != "clean" {
		t.Errorf("subcommand = %q, want clean", got)
	}
}

func TestDefaultCommandUnknownName(t *testing.T) {
	p, _ := newTestParser("prog")
	p.DefaultCommand("bogus")
	p.Command("build", "build things")

	_, err := p.Parse(nil)
	if err == nil {
		t.Fatal("unknown default subcommand accepted")
	}
	if !strings.Contains(err.Error(), `"bogus"`) || !strings.Contains(err.Error(), "build") {
		t.Errorf("error %q should name the bad default and the available subcommands", err)
	}
}

// Delayed flags apply at their priority relative to other delayed work.
func TestDelayedFlagOrdering(t *testing.T) {
	p, _ := newTestParser("prog")
	p.StringFlag("config", "config file").Delayed(20)
	p.OrderedDefault("early", 10, func(ns *Namespace) error {
		if _, ok := ns.values["config"].(string); ok {
			t.Error("config applied before priority 10 hook")
		}
		return nil
	})
	p.OrderedDefault("late", 30, func(ns *Namespace) error {
		if _, ok := ns.values["config"].(string); !ok {
			t.Error("config not applied by priority 30 hook")
		}
		return nil
	})

	ns, err := p.Parse([]string{"--config", "/etc/app.conf"})
	if err != nil {
		t.Fatal(err)
	}
	if got := ns.MustGetString("config", ""); got != "/etc/app.conf" {
		t.Errorf("config = %q", got)
	}
	if ns.Has("early") || ns.Has("late") {
		t.Error("ordered hooks left attributes behind")
	}
}

func TestDelayedDefault(t *testing.T) {
	p, _ := newTestParser("prog")
	p.DelayedDefault("repo", 50, func(ns *Namespace, attr string) error {
		ns.Set(attr, "resolved-repo")
		return nil
	})

	ns, err := p.Parse(nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := ns.MustGetString("repo", ""); got != "resolved-repo" {
		t.Errorf("repo = %q", got)
	}
}

// A subcommand can suppress an attribute inherited from the parent by
// seeding a wipe placeholder.
func TestSubcommandWipesParentDefault(t *testing.T) {
	p, _ := newTestParser("prog")
	p.SetDefault("inherited", "parent value")
	p.Command("sub", "suppresses inherited").
		SetDefault("sub_marker", WipeDefault(90, "inherited"))

	ns, err := p.Parse([]string{"sub"})
	if err != nil {
		t.Fatal(err)
	}
	if ns.Has("inherited") {
		t.Error("inherited attr survived the wipe")
	}
	if ns.Has("sub_marker") {
		t.Error("wipe marker survived resolution")
	}

	ns, err = p.Parse(nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := ns.MustGetString("inherited", ""); got != "parent value" {
		t.Errorf("inherited = %q without subcommand", got)
	}
}

func TestFinalCheck(t *testing.T) {
	p, _ := newTestParser("prog")
	p.BoolFlag("fast", "fast mode").Back().
		BoolFlag("safe", "safe mode").Back().
		FinalCheck(func(p *Parser, ns *Namespace) error {
			if ns.MustGetBool("fast", false) && ns.MustGetBool("safe", false) {
				return Errorf("--fast and --safe are mutually exclusive")
			}
			return nil
		})

	if _, err := p.Parse([]string{"--fast"}); err != nil {
		t.Fatalf("valid combination rejected: %v", err)
	}
	_, err := p.Parse([]string{"--fast", "--safe"})
	if err == nil || err.Error() != "--fast and --safe are mutually exclusive" {
		t.Errorf("err = %v", err)
	}
}

// A subcommand's final check replaces the parser's for that invocation.
func TestFinalCheckSubcommandOverride(t *testing.T) {
	p, _ := newTestParser("prog")
	p.FinalCheck(func(p *Parser, ns *Namespace) error {
		return Errorf("root check")
	})
	p.Command("sub", "has its own check").
		FinalCheck(func(p *Parser, ns *Namespace) error { return nil })

	if _, err := p.Parse([]string{"sub"}); err != nil {
		t.Errorf("subcommand check did not override root: %v", err)
	}
	if _, err := p.Parse(nil); err == nil || err.Error() != "root check" {
		t.Errorf("root check err = %v", err)
	}
}

func TestExpansionFlag(t *testing.T) {
	p, _ := newTestParser("prog")
	p.CSVFlag("fields", "output fields").Back().
		BoolFlag("wide", "wide output").Back().
		ExpansionFlag("all", "show everything", "--fields id,name,desc", "--wide")

	ns, err := p.Parse([]string{"--all"})
	if err != nil {
		t.Fatal(err)
	}
	if got := ns.MustGetStrings("fields", nil); !reflect.DeepEqual(got, []string{"id", "name", "desc"}) {
		t.Errorf("fields = %v", got)
	}
	if !ns.MustGetBool("wide", false) {
		t.Error("wide not replayed")
	}
	if !ns.MustGetBool("all", false) {
		t.Error("expansion flag itself not recorded")
	}
}

func TestStdinSentinel(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if _, err := w.WriteString("pkg1\n  pkg2  \n \t \npkg3\n"); err != nil {
		t.Fatal(err)
	}
	w.Close()

	p, _ := newTestParser("prog")
	p.WithStdin(r)
	p.CSVFlag("targets", "things to process").AllowStdin()

	ns, err := p.Parse([]string{"--targets", "-"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"pkg1", "pkg2", "pkg3"}
	if got := ns.MustGetStrings("targets", nil); !reflect.DeepEqual(got, want) {
		t.Errorf("targets = %v, want %v", got, want)
	}
}

// Without AllowStdin the sentinel is just a value.
func TestStdinSentinelDisabled(t *testing.T) {
	p, _ := newTestParser("prog")
	p.CSVFlag("targets", "things to process")

	ns, err := p.Parse([]string{"--targets", "-"})
	if err != nil {
		t.Fatal(err)
	}
	if got := ns.MustGetStrings("targets", nil); !reflect.DeepEqual(got, []string{"-"}) {
		t.Errorf("targets = %v, want [-]", got)
	}
}

func TestHelpSentinel(t *testing.T) {
	p, c := newTestParser("prog")
	p.Command("build", "build things")

	_, err := p.Parse([]string{"--help"})
	if !errors.Is(err, ErrHelpShown) {
		t.Fatalf("err = %v, want ErrHelpShown", err)
	}
	out := c.out.String()
	if !strings.Contains(out, "usage: prog") {
		t.Errorf("help output missing usage line:\n%s", out)
	}
	if !strings.Contains(out, "build") {
		t.Errorf("help output missing subcommand list:\n%s", out)
	}
}

func TestVersionSentinel(t *testing.T) {
	p, c := newTestParser("prog")
	p.Version("1.2.3")

	_, err := p.Parse([]string{"--version"})
	if !errors.Is(err, ErrVersionShown) {
		t.Fatalf("err = %v, want ErrVersionShown", err)
	}
	if got := c.out.String(); got != "prog 1.2.3\n" {
		t.Errorf("version output = %q", got)
	}
}

// Help wins even when the rest of the invocation is invalid, and disables
// the default-subcommand fallback.
func TestHelpBeatsErrorsAndFallback(t *testing.T) {
	p, c := newTestParser("prog")
	p.DefaultCommand("build")
	p.Command("build", "build things")

	_, err := p.Parse([]string{"--bogus", "--help"})
	if !errors.Is(err, ErrHelpShown) {
		t.Fatalf("err = %v, want ErrHelpShown", err)
	}
	if c.out.Len() == 0 {
		t.Error("no help output")
	}
}

func TestParseOrExitStatuses(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		status int
		errSub string
	}{
		{"usage error", []string{"--bogus"}, 2, "prog: error: unknown flag: --bogus"},
		{"help", []string{"--help"}, 0, ""},
		{"success means no exit", []string{}, -1, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, c := newTestParser("prog")
			p.ParseOrExit(tt.args)
			got := -1
			if len(c.exits) > 0 {
				got = c.exits[len(c.exits)-1]
			}
			if got != tt.status {
				t.Errorf("exit = %d, want %d", got, tt.status)
			}
			if tt.errSub != "" && !strings.Contains(c.err.String(), tt.errSub) {
				t.Errorf("stderr = %q, want substring %q", c.err.String(), tt.errSub)
			}
		})
	}
}

func TestMissingValue(t *testing.T) {
	p, _ := newTestParser("prog")
	p.StringFlag("name", "a name")

	_, err := p.Parse([]string{"--name"})
	if err == nil || err.Error() != "flag requires a value: --name" {
		t.Errorf("err = %v", err)
	}
}

func TestUnrecognizedArguments(t *testing.T) {
	p, _ := newTestParser("prog")
	_, err := p.Parse([]string{"stray", "words"})
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v", err)
	}
	if pe.Type != ErrorTypeUnrecognized || !strings.Contains(pe.Message, "stray words") {
		t.Errorf("err = %v", pe)
	}
}

func TestExitStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"help", ErrHelpShown, 0},
		{"version", ErrVersionShown, 0},
		{"parse error", Errorf("bad"), 2},
		{"exit error", ExitWithCode(3, errors.New("boom")), 3},
		{"plain error", errors.New("boom"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitStatus(tt.err); got != tt.want {
				t.Errorf("ExitStatus = %d, want %d", got, tt.want)
			}
		})
	}
}
