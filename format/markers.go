package format

// Marker is an opaque style directive interleaved with text on a Formatter
// stream. Markers are plain immutable values and compare by equality: two
// foreground-green markers are interchangeable.
type Marker interface {
	marker()
}

// ColorMode selects whether a ColorMarker applies to the foreground or the
// background.
type ColorMode string

const (
	ModeFg ColorMode = "fg"
	ModeBg ColorMode = "bg"
)

// ColorMarker switches the current output color.
type ColorMarker struct {
	Mode  ColorMode
	Color string
}

// BoldMarker switches bold rendering on.
type BoldMarker struct{}

// ResetMarker clears all active styling.
type ResetMarker struct{}

func (ColorMarker) marker() {}
func (BoldMarker) marker()  {}
func (ResetMarker) marker() {}
