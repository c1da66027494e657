// Package argtest provides helpers for exercising argh parsers in tests:
// output and exit capture, and assertions over what a bound entry point
// writes through its formatters.
package argtest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pkgtools/go-argh/argh"
	"github.com/pkgtools/go-argh/format"
)

// Harness wraps a parser with captured output streams and a recorded exit
// status so parse and run behavior can be asserted without touching the
// process.
type Harness struct {
	t      *testing.T
	Parser *argh.Parser

	Out   bytes.Buffer
	Err   bytes.Buffer
	exits []int
}

// New binds the parser's output, error and exit hooks to the harness.
func New(t *testing.T, p *argh.Parser) *Harness {
	t.Helper()
	h := &Harness{t: t, Parser: p}
	p.WithOutput(&h.Out).
		WithErrOutput(&h.Err).
		WithExit(func(code int) { h.exits = append(h.exits, code) })
	return h
}

// Exits returns the exit statuses recorded so far.
func (h *Harness) Exits() []int { return h.exits }

// LastExit returns the most recent exit status, or -1 when none was
// recorded.
func (h *Harness) LastExit() int {
	if len(h.exits) == 0 {
		return -1
	}
	return h.exits[len(h.exits)-1]
}

// Reset clears captured output and exits between assertions.
func (h *Harness) Reset() {
	h.Out.Reset()
	h.Err.Reset()
	h.exits = nil
}

// Parse parses args and fails the test on error.
func (h *Harness) Parse(args ...string) *argh.Namespace {
	h.t.Helper()
	ns, err := h.Parser.Parse(args)
	if err != nil {
		h.t.Fatalf("Parse(%q) failed: %v", args, err)
	}
	return ns
}

// AssertError parses args and requires the given error message.
func (h *Harness) AssertError(wantMsg string, args ...string) {
	h.t.Helper()
	_, err := h.Parser.Parse(args)
	if err == nil {
		h.t.Fatalf("Parse(%q) succeeded, want error %q", args, wantMsg)
	}
	if err.Error() != wantMsg {
		h.t.Fatalf("Parse(%q) error = %q, want %q", args, err, wantMsg)
	}
}

// AssertExit runs ParseOrExit on args and requires the given exit status.
func (h *Harness) AssertExit(status int, args ...string) {
	h.t.Helper()
	h.Reset()
	h.Parser.ParseOrExit(args)
	if got := h.LastExit(); got != status {
		h.t.Fatalf("ParseOrExit(%q) exited %d (stderr: %q), want %d", args, got, h.Err.String(), status)
	}
}

// run parses args and invokes the bound entry point with fake formatters,
// returning them for assertions.
func (h *Harness) run(args []string) (*format.FakeStreamFormatter, *format.FakeStreamFormatter) {
	h.t.Helper()
	ns := h.Parse(args...)
	main := ns.Main()
	if main == nil {
		h.t.Fatalf("Parse(%q) bound no entry point", args)
	}
	out := format.NewFakeStream()
	errOut := format.NewFakeStream()
	if err := main(ns, out, errOut); err != nil {
		h.t.Fatalf("main(%q) failed: %v", args, err)
	}
	return out, errOut
}

// AssertOut runs the bound entry point and requires the given stdout lines.
func (h *Harness) AssertOut(want []string, args ...string) {
	h.t.Helper()
	out, _ := h.run(args)
	assertStream(h.t, "stdout", want, out)
}

// AssertErr runs the bound entry point and requires the given stderr lines.
func (h *Harness) AssertErr(want []string, args ...string) {
	h.t.Helper()
	_, errOut := h.run(args)
	assertStream(h.t, "stderr", want, errOut)
}

// AssertOutAndErr runs the bound entry point and requires both streams.
func (h *Harness) AssertOutAndErr(wantOut, wantErr []string, args ...string) {
	h.t.Helper()
	out, errOut := h.run(args)
	assertStream(h.t, "stdout", wantOut, out)
	assertStream(h.t, "stderr", wantErr, errOut)
}

func assertStream(t *testing.T, name string, want []string, f *format.FakeStreamFormatter) {
	t.Helper()
	got := strings.TrimRight(f.TextStream(), "\n")
	if diff := cmp.Diff(strings.Join(want, "\n"), got); diff != "" {
		t.Fatalf("%s mismatch (-want +got):\n%s", name, diff)
	}
}
