package mdv

import (
	"fmt"
	"strings"
)

// Color is a terminal foreground color from the basic ANSI palette.
type Color uint8

const (
	ColorDefault Color = iota
	ColorBlack
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
)

var colorNames = [...]string{
	ColorDefault: "default",
	ColorBlack:   "black",
	ColorRed:     "red",
	ColorGreen:   "green",
	ColorYellow:  "yellow",
	ColorBlue:    "blue",
	ColorMagenta: "magenta",
	ColorCyan:    "cyan",
	ColorWhite:   "white",
}

func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return "unknown"
}

// ANSI returns the palette index (0-7) of c, or -1 for ColorDefault.
func (c Color) ANSI() int {
	if c == ColorDefault || int(c) >= len(colorNames) {
		return -1
	}
	return int(c) - 1
}

// ParseColor resolves a color name.
func ParseColor(name string) (Color, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return ColorDefault, nil
	}
	for i, n := range colorNames {
		if n == normalized {
			return Color(i), nil
		}
	}
	return ColorDefault, fmt.Errorf("unknown color %q", name)
}

// Style is the set of attributes applied to a Span or Line.
type Style struct {
	Bold   bool
	Italic bool
	Fg     Color
}

// Patch returns s with the attributes set in o layered on top.
func (s Style) Patch(o Style) Style {
	if o.Bold {
		s.Bold = true
	}
	if o.Italic {
		s.Italic = true
	}
	if o.Fg != ColorDefault {
		s.Fg = o.Fg
	}
	return s
}

// IsZero reports whether no attribute is set.
func (s Style) IsZero() bool {
	return s == Style{}
}

// Span is a styled text fragment.
type Span struct {
	Text  string
	Style Style
	// URL is the destination of the link enclosing this text, if any.
	URL string
}

// Line is a row of spans. Style applies to every span of the line and is
// used for headings.
type Line struct {
	Spans []Span
	Style Style
}

// RawLine returns a line with a single unstyled span.
func RawLine(text string) Line {
	return Line{Spans: []Span{{Text: text}}}
}

// Text returns the concatenated span text.
func (l Line) Text() string {
	switch len(l.Spans) {
	case 0:
		return ""
	case 1:
		return l.Spans[0].Text
	}
	var b strings.Builder
	for _, s := range l.Spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

// IsBlank reports whether the line has no spans.
func (l Line) IsBlank() bool {
	return len(l.Spans) == 0
}

// StyleAt returns the effective style of span i.
func (l Line) StyleAt(i int) Style {
	return l.Style.Patch(l.Spans[i].Style)
}
