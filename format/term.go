package format

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// TermFormatter renders style markers as ANSI escape sequences. Markers
// mutate the current style; text written after a marker carries that style
// until the next ResetMarker.
type TermFormatter struct {
	w    io.Writer
	fg   string
	bg   string
	bold bool
}

// NewTerm returns a formatter emitting ANSI-styled text to w.
func NewTerm(w io.Writer) *TermFormatter {
	return &TermFormatter{w: w}
}

// Write writes text with the currently active style and applies markers.
func (f *TermFormatter) Write(args ...any) error {
	for _, arg := range args {
		switch v := arg.(type) {
		case string:
			if err := f.writeText(v); err != nil {
				return err
			}
		case []byte:
			if err := f.writeText(string(v)); err != nil {
				return err
			}
		case ColorMarker:
			if v.Mode == ModeBg {
				f.bg = v.Color
			} else {
				f.fg = v.Color
			}
		case BoldMarker:
			f.bold = true
		case ResetMarker:
			f.fg, f.bg, f.bold = "", "", false
		case Marker:
			// unknown marker kinds are ignored
		default:
			if err := f.writeText(fmt.Sprint(v)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *TermFormatter) writeText(s string) error {
	if s == "" {
		return nil
	}
	c := f.style()
	if c == nil {
		_, err := io.WriteString(f.w, s)
		return err
	}
	_, err := c.Fprint(f.w, s)
	return err
}

// style builds the fatih/color value for the active marker state, or nil
// when no styling is active.
func (f *TermFormatter) style() *color.Color {
	attrs := make([]color.Attribute, 0, 3)
	if a, ok := fgAttrs[f.fg]; ok {
		attrs = append(attrs, a)
	}
	if a, ok := bgAttrs[f.bg]; ok {
		attrs = append(attrs, a)
	}
	if f.bold {
		attrs = append(attrs, color.Bold)
	}
	if len(attrs) == 0 {
		return nil
	}
	return color.New(attrs...)
}

// Fg returns a marker switching the foreground color.
func (f *TermFormatter) Fg(name string) Marker { return ColorMarker{Mode: ModeFg, Color: name} }

// Bg returns a marker switching the background color.
func (f *TermFormatter) Bg(name string) Marker { return ColorMarker{Mode: ModeBg, Color: name} }

// Bold returns a marker enabling bold text.
func (f *TermFormatter) Bold() Marker { return BoldMarker{} }

// Reset returns a marker clearing all styling.
func (f *TermFormatter) Reset() Marker { return ResetMarker{} }

var fgAttrs = map[string]color.Attribute{
	"black":   color.FgBlack,
	"red":     color.FgRed,
	"green":   color.FgGreen,
	"yellow":  color.FgYellow,
	"blue":    color.FgBlue,
	"magenta": color.FgMagenta,
	"cyan":    color.FgCyan,
	"white":   color.FgWhite,
}

var bgAttrs = map[string]color.Attribute{
	"black":   color.BgBlack,
	"red":     color.BgRed,
	"green":   color.BgGreen,
	"yellow":  color.BgYellow,
	"blue":    color.BgBlue,
	"magenta": color.BgMagenta,
	"cyan":    color.BgCyan,
	"white":   color.BgWhite,
}
