package format

import "fmt"

// ListStream records formatter writes as an ordered list of entries. Adjacent
// text chunks coalesce into a single string entry; markers are kept as
// distinct entries so tests can assert on styling boundaries.
type ListStream struct {
	entries []any
}

// Append records a mixed sequence of text and markers.
func (l *ListStream) Append(args ...any) {
	for _, arg := range args {
		switch v := arg.(type) {
		case string:
			l.appendText(v)
		case []byte:
			l.appendText(string(v))
		case Marker:
			l.entries = append(l.entries, v)
		default:
			l.appendText(fmt.Sprint(v))
		}
	}
}

func (l *ListStream) appendText(s string) {
	if s == "" {
		return
	}
	if n := len(l.entries); n > 0 {
		if prev, ok := l.entries[n-1].(string); ok {
			l.entries[n-1] = prev + s
			return
		}
	}
	l.entries = append(l.entries, s)
}

// Entries returns the recorded entries: strings and Marker values.
func (l *ListStream) Entries() []any {
	return l.entries
}

// Text concatenates only the text entries, skipping markers.
func (l *ListStream) Text() string {
	out := ""
	for _, e := range l.entries {
		if s, ok := e.(string); ok {
			out += s
		}
	}
	return out
}

// FakeStreamFormatter is a Formatter backed by a ListStream. It is a drop-in
// replacement for a real output formatter in tests: writes are captured
// instead of rendered, and TextStream exposes the raw text for assertions.
type FakeStreamFormatter struct {
	stream *ListStream
}

// NewFakeStream returns an empty fake formatter.
func NewFakeStream() *FakeStreamFormatter {
	return &FakeStreamFormatter{stream: &ListStream{}}
}

// Write records the arguments on the underlying ListStream.
func (f *FakeStreamFormatter) Write(args ...any) error {
	f.stream.Append(args...)
	return nil
}

// Fg returns a foreground color marker.
func (f *FakeStreamFormatter) Fg(color string) Marker { return ColorMarker{Mode: ModeFg, Color: color} }

// Bg returns a background color marker.
func (f *FakeStreamFormatter) Bg(color string) Marker { return ColorMarker{Mode: ModeBg, Color: color} }

// Bold returns a bold marker.
func (f *FakeStreamFormatter) Bold() Marker { return BoldMarker{} }

// Reset returns a reset marker.
func (f *FakeStreamFormatter) Reset() Marker { return ResetMarker{} }

// Stream returns the underlying ListStream.
func (f *FakeStreamFormatter) Stream() *ListStream { return f.stream }

// ResetStream discards everything recorded so far.
func (f *FakeStreamFormatter) ResetStream() { f.stream = &ListStream{} }

// TextStream returns the concatenated text entries, markers excluded.
func (f *FakeStreamFormatter) TextStream() string { return f.stream.Text() }
