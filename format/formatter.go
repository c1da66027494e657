// Package format provides text-output formatters for CLI tools: a plain
// formatter for redirected output, a terminal formatter that renders style
// markers as ANSI sequences, and an in-memory fake used to assert CLI output
// in tests.
package format

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Formatter is a write sink for styled CLI output. Write accepts a mix of
// text (string or []byte) and Marker values; how markers are rendered is up
// to the implementation. Non-text, non-marker values are formatted with the
// fmt package's default verb.
type Formatter interface {
	Write(args ...any) error
	Fg(color string) Marker
	Bg(color string) Marker
	Bold() Marker
	Reset() Marker
}

// PlainTextFormatter writes text to an io.Writer and silently discards style
// markers. It is the right sink for pipes and redirected output.
type PlainTextFormatter struct {
	w io.Writer
}

// NewPlainText returns a formatter writing unstyled text to w.
func NewPlainText(w io.Writer) *PlainTextFormatter {
	return &PlainTextFormatter{w: w}
}

// Write writes the text arguments to the underlying writer, dropping markers.
func (f *PlainTextFormatter) Write(args ...any) error {
	for _, arg := range args {
		var err error
		switch v := arg.(type) {
		case string:
			_, err = io.WriteString(f.w, v)
		case []byte:
			_, err = f.w.Write(v)
		case Marker:
			// plain output has no styling
		default:
			_, err = fmt.Fprint(f.w, v)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Fg returns a foreground color marker (ignored by this formatter).
func (f *PlainTextFormatter) Fg(color string) Marker { return ColorMarker{Mode: ModeFg, Color: color} }

// Bg returns a background color marker (ignored by this formatter).
func (f *PlainTextFormatter) Bg(color string) Marker { return ColorMarker{Mode: ModeBg, Color: color} }

// Bold returns a bold marker (ignored by this formatter).
func (f *PlainTextFormatter) Bold() Marker { return BoldMarker{} }

// Reset returns a reset marker (ignored by this formatter).
func (f *PlainTextFormatter) Reset() Marker { return ResetMarker{} }

// Writeln writes the arguments to fmt followed by a newline.
func Writeln(f Formatter, args ...any) error {
	if err := f.Write(args...); err != nil {
		return err
	}
	return f.Write("\n")
}

// IsTerminal reports whether f is connected to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Auto returns a TermFormatter when f is a terminal and color is not
// disabled through the environment, and a PlainTextFormatter otherwise.
func Auto(f *os.File) Formatter {
	if IsTerminal(f) && os.Getenv("NO_COLOR") == "" {
		return NewTerm(f)
	}
	return NewPlainText(f)
}
