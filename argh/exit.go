package argh

import (
	"errors"
	"fmt"

	"github.com/pkgtools/go-argh/format"
)

// Exit statuses used by ParseOrExit and Run.
const (
	StatusSuccess = 0
	StatusError   = 1
	StatusMisuse  = 2
)

// ExitError carries an explicit exit status out of a MainFunc.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitWithCode wraps err with an explicit exit status.
func ExitWithCode(code int, err error) *ExitError {
	return &ExitError{Code: code, Err: err}
}

// ExitStatus maps an error to its process exit status: 0 for nil and the
// help/version sentinels, 2 for usage errors, an ExitError's own code, and
// 1 for everything else.
func ExitStatus(err error) int {
	if err == nil || errors.Is(err, ErrHelpShown) || errors.Is(err, ErrVersionShown) {
		return StatusSuccess
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return StatusMisuse
	}
	return StatusError
}

// ParseOrExit parses args and exits on any error, writing usage errors to
// stderr as "prog: error: message". Help and version requests exit 0 after
// their output.
func (p *Parser) ParseOrExit(args []string) *Namespace {
	ns, err := p.Parse(args)
	if err == nil {
		return ns
	}
	if !errors.Is(err, ErrHelpShown) && !errors.Is(err, ErrVersionShown) {
		p.reportError(err)
	}
	p.exit(ExitStatus(err))
	return nil
}

func (p *Parser) reportError(err error) {
	msg := err.Error()
	var pe *ParseError
	if errors.As(err, &pe) {
		msg = pe.userMessage()
	}
	fmt.Fprintf(p.errOut, "%s: error: %s\n", p.prog, msg)
}

// Run parses args and invokes the bound entry point with formatters chosen
// by the --color setting. The process exits with the entry point's status.
func (p *Parser) Run(args []string) {
	ns := p.ParseOrExit(args)
	if ns == nil {
		return
	}
	main := ns.Main()
	if main == nil {
		p.printHelp(p.out, nil)
		p.exit(StatusSuccess)
		return
	}
	out, errOut := p.formatters(ns)
	if err := main(ns, out, errOut); err != nil {
		fmt.Fprintf(p.errOut, "%s: error: %s\n", ns.Prog(), err)
		p.exit(ExitStatus(err))
		return
	}
	p.exit(StatusSuccess)
}

// formatters builds the output sinks for a MainFunc, honoring --color.
func (p *Parser) formatters(ns *Namespace) (format.Formatter, format.Formatter) {
	if ns.MustGetBool("color", false) {
		return format.NewTerm(p.out), format.NewTerm(p.errOut)
	}
	return format.NewPlainText(p.out), format.NewPlainText(p.errOut)
}
