// Package grid paints document lines onto a tcell screen and maps key events
// to link selections.
package grid

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"pkt.systems/mdv"
)

const tabWidth = 4

// Rect is a region of the screen in cells.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Empty reports whether the rectangle has no cells.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Style converts a line style to a tcell style.
func Style(s mdv.Style) tcell.Style {
	st := tcell.StyleDefault
	if s.Bold {
		st = st.Bold(true)
	}
	if s.Italic {
		st = st.Italic(true)
	}
	if n := s.Fg.ANSI(); n >= 0 {
		st = st.Foreground(tcell.PaletteColor(n))
	}
	return st
}

// Paint clears area and draws lines into it, starting at lines[offset].
// Text past the right edge is clipped, never wrapped. It returns the number
// of rows drawn.
func Paint(screen tcell.Screen, area Rect, lines []mdv.Line, offset int) int {
	if area.Empty() {
		return 0
	}
	fill(screen, area, tcell.StyleDefault)
	if offset < 0 {
		offset = 0
	}
	rows := 0
	for row := 0; row < area.Height; row++ {
		idx := offset + row
		if idx >= len(lines) {
			break
		}
		paintLine(screen, area, area.Y+row, lines[idx])
		rows++
	}
	return rows
}

func paintLine(screen tcell.Screen, area Rect, y int, l mdv.Line) {
	x := area.X
	right := area.X + area.Width
	for i, span := range l.Spans {
		st := Style(l.StyleAt(i))
		for _, r := range span.Text {
			if r == '\t' {
				next := area.X + ((x-area.X)/tabWidth+1)*tabWidth
				for ; x < next && x < right; x++ {
					screen.SetContent(x, y, ' ', nil, st)
				}
				continue
			}
			w := runewidth.RuneWidth(r)
			if w == 0 {
				continue
			}
			if x+w > right {
				return
			}
			screen.SetContent(x, y, r, nil, st)
			x += w
		}
	}
}

func fill(screen tcell.Screen, area Rect, st tcell.Style) {
	for y := area.Y; y < area.Y+area.Height; y++ {
		for x := area.X; x < area.X+area.Width; x++ {
			screen.SetContent(x, y, ' ', nil, st)
		}
	}
}

// PaintText draws a single unstyled row, clipped to area's width.
func PaintText(screen tcell.Screen, area Rect, y int, text string, st tcell.Style) {
	x := area.X
	right := area.X + area.Width
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > right {
			break
		}
		screen.SetContent(x, y, r, nil, st)
		x += w
	}
	for ; x < right; x++ {
		screen.SetContent(x, y, ' ', nil, st)
	}
}
