package grid

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"pkt.systems/mdv"
	"pkt.systems/mdv/internal/textfit"
)

// Viewer shows a Document on a tcell screen. The bottom row is a status line;
// digit keys select links and report them there.
type Viewer struct {
	screen   tcell.Screen
	doc      *mdv.Document
	lines    []mdv.Line
	offset   int
	status   string
	selected string
	onSelect func(string)
	log      zerolog.Logger
}

// ViewerOption configures a Viewer.
type ViewerOption func(*Viewer)

// WithLogger sets the viewer's logger.
func WithLogger(l zerolog.Logger) ViewerOption {
	return func(v *Viewer) {
		v.log = l
	}
}

// WithSelectHandler registers fn to be called with every selected link.
func WithSelectHandler(fn func(string)) ViewerOption {
	return func(v *Viewer) {
		v.onSelect = fn
	}
}

// NewViewer returns a viewer for doc. The screen must already be initialized.
func NewViewer(screen tcell.Screen, doc *mdv.Document, opts ...ViewerOption) *Viewer {
	v := &Viewer{
		screen: screen,
		doc:    doc,
		lines:  doc.Lines(),
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	v.status = v.help()
	return v
}

// Selected returns the most recently selected link.
func (v *Viewer) Selected() string { return v.selected }

// Status returns the status line text.
func (v *Viewer) Status() string { return v.status }

// Offset returns the index of the first visible line.
func (v *Viewer) Offset() int { return v.offset }

func (v *Viewer) help() string {
	switch n := v.doc.LinkCount(); n {
	case 0:
		return "q quit"
	case 1:
		return "1 link: 0 select, q quit"
	default:
		return fmt.Sprintf("%d links: 0-%d select, q quit", n, min(n, 10)-1)
	}
}

func (v *Viewer) content() Rect {
	w, h := v.screen.Size()
	return Rect{Width: w, Height: h - 1}
}

// Draw paints the visible lines and the status line, then shows the screen.
func (v *Viewer) Draw() {
	w, h := v.screen.Size()
	if h <= 0 || w <= 0 {
		return
	}
	Paint(v.screen, v.content(), v.lines, v.offset)
	PaintText(v.screen, Rect{Y: h - 1, Width: w, Height: 1}, h-1, v.status, tcell.StyleDefault.Reverse(true))
	v.screen.Show()
}

// HandleEvent applies one event and reports whether the viewer should exit.
func (v *Viewer) HandleEvent(ev tcell.Event) bool {
	switch e := ev.(type) {
	case *tcell.EventResize:
		v.screen.Sync()
		v.scroll(0)
	case *tcell.EventKey:
		return v.handleKey(e)
	}
	return false
}

func (v *Viewer) handleKey(ev *tcell.EventKey) bool {
	page := max(v.content().Height, 1)
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		v.scroll(-1)
	case tcell.KeyDown:
		v.scroll(1)
	case tcell.KeyPgUp:
		v.scroll(-page)
	case tcell.KeyPgDn:
		v.scroll(page)
	case tcell.KeyHome:
		v.scroll(-len(v.lines))
	case tcell.KeyEnd:
		v.scroll(len(v.lines))
	}
	r, ok := KeySymbol(ev)
	if !ok {
		return false
	}
	switch r {
	case 'q':
		return true
	case 'j':
		v.scroll(1)
		return false
	case 'k':
		v.scroll(-1)
		return false
	}
	v.selectKey(r)
	return false
}

func (v *Viewer) selectKey(r rune) {
	if _, digit := mdv.DigitIndex(r); !digit {
		return
	}
	link, ok := v.doc.Select(r)
	if !ok {
		v.status = fmt.Sprintf("no link [%c]; %s", r, v.help())
		return
	}
	v.selected = link
	w, _ := v.screen.Size()
	label := fmt.Sprintf("[%c] ", r)
	v.status = label + textfit.URL(link, w-textfit.Width(label))
	v.log.Debug().Str("key", string(r)).Str("link", link).Msg("link selected")
	if v.onSelect != nil {
		v.onSelect(link)
	}
}

func (v *Viewer) scroll(delta int) {
	limit := max(len(v.lines)-v.content().Height, 0)
	v.offset = min(max(v.offset+delta, 0), limit)
}

// Run draws the viewer and processes events until the user quits or ctx is
// done. It returns the last selected link.
func (v *Viewer) Run(ctx context.Context) (string, error) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = v.screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-done:
		}
	}()
	v.Draw()
	for {
		ev := v.screen.PollEvent()
		if ev == nil {
			return v.selected, nil
		}
		if _, ok := ev.(*tcell.EventInterrupt); ok {
			return v.selected, ctx.Err()
		}
		if v.HandleEvent(ev) {
			return v.selected, nil
		}
		v.Draw()
	}
}
