package grid

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pkt.systems/mdv"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

// row returns the runes of screen row y, trailing blanks trimmed.
func row(s tcell.SimulationScreen, y int) string {
	cells, w, _ := s.GetContents()
	var b strings.Builder
	for x := 0; x < w; x++ {
		c := cells[y*w+x]
		if len(c.Runes) == 0 {
			b.WriteByte(' ')
			continue
		}
		b.WriteRune(c.Runes[0])
	}
	return strings.TrimRight(b.String(), " ")
}

func cellStyle(s tcell.SimulationScreen, x, y int) tcell.Style {
	cells, w, _ := s.GetContents()
	return cells[y*w+x].Style
}

func TestPaintClipsToArea(t *testing.T) {
	s := newScreen(t, 10, 4)
	lines := []mdv.Line{
		mdv.RawLine("hello world"),
		{},
		mdv.RawLine("third"),
		mdv.RawLine("fourth"),
	}
	rows := Paint(s, Rect{X: 1, Y: 1, Width: 5, Height: 2}, lines, 0)
	s.Show()

	assert.Equal(t, 2, rows)
	assert.Equal(t, "", row(s, 0))
	assert.Equal(t, " hello", row(s, 1))
	assert.Equal(t, "", row(s, 2))
	assert.Equal(t, "", row(s, 3))
}

func TestPaintOffset(t *testing.T) {
	s := newScreen(t, 10, 2)
	lines := []mdv.Line{mdv.RawLine("a"), mdv.RawLine("b"), mdv.RawLine("c")}
	rows := Paint(s, Rect{Width: 10, Height: 2}, lines, 2)
	s.Show()

	assert.Equal(t, 1, rows)
	assert.Equal(t, "c", row(s, 0))
	assert.Equal(t, "", row(s, 1))
}

func TestPaintAppliesHeadingAndSpanStyles(t *testing.T) {
	s := newScreen(t, 20, 2)
	doc := mdv.New("### Deep\n\n**b** _i_")
	Paint(s, Rect{Width: 20, Height: 2}, doc.Lines(), 0)
	s.Show()

	require.Equal(t, "Deep", row(s, 0))
	fg, _, _ := cellStyle(s, 0, 0).Decompose()
	assert.Equal(t, tcell.PaletteColor(4), fg)

	Paint(s, Rect{Width: 20, Height: 2}, doc.Lines(), 2)
	s.Show()
	require.Equal(t, "b i", row(s, 0))
	_, _, attrs := cellStyle(s, 0, 0).Decompose()
	assert.NotZero(t, attrs&tcell.AttrBold)
	assert.Zero(t, attrs&tcell.AttrItalic)
	_, _, attrs = cellStyle(s, 2, 0).Decompose()
	assert.NotZero(t, attrs&tcell.AttrItalic)
}

func TestStyle(t *testing.T) {
	t.Parallel()
	_, _, attrs := Style(mdv.Style{Bold: true, Italic: true}).Decompose()
	assert.NotZero(t, attrs&tcell.AttrBold)
	assert.NotZero(t, attrs&tcell.AttrItalic)

	fg, _, _ := Style(mdv.Style{}).Decompose()
	assert.Equal(t, tcell.ColorDefault, fg)
}

func TestKeySymbol(t *testing.T) {
	t.Parallel()
	r, ok := KeySymbol(tcell.NewEventKey(tcell.KeyRune, '7', tcell.ModNone))
	assert.True(t, ok)
	assert.Equal(t, '7', r)

	_, ok = KeySymbol(tcell.NewEventKey(tcell.KeyRune, '7', tcell.ModAlt))
	assert.False(t, ok)

	_, ok = KeySymbol(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	assert.False(t, ok)

	_, ok = KeySymbol(nil)
	assert.False(t, ok)
}

func TestViewerSelectsLinksByDigit(t *testing.T) {
	s := newScreen(t, 40, 5)
	doc := mdv.New("[b](http://b.example) and [a](http://a.example)")
	var picked []string
	v := NewViewer(s, doc, WithSelectHandler(func(link string) { picked = append(picked, link) }))
	v.Draw()
	assert.Equal(t, "2 links: 0-1 select, q quit", row(s, 4))

	assert.False(t, v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, '0', tcell.ModNone)))
	assert.Equal(t, "(http://a.example)", v.Selected())

	assert.False(t, v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, '5', tcell.ModNone)))
	assert.Equal(t, "(http://a.example)", v.Selected())
	assert.Contains(t, v.Status(), "no link [5]")

	assert.False(t, v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)))
	assert.Equal(t, []string{"(http://a.example)"}, picked)

	assert.True(t, v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
}

func TestViewerScrollIsBounded(t *testing.T) {
	s := newScreen(t, 20, 3)
	doc := mdv.New("- a\n- b\n- c\n- d\n- e")
	v := NewViewer(s, doc)

	v.HandleEvent(tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone))
	assert.Equal(t, 0, v.Offset())

	v.HandleEvent(tcell.NewEventKey(tcell.KeyEnd, 0, tcell.ModNone))
	assert.Equal(t, 3, v.Offset())

	v.HandleEvent(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone))
	assert.Equal(t, 3, v.Offset())

	v.Draw()
	assert.Equal(t, "* d", row(s, 0))
	assert.Equal(t, "* e", row(s, 1))
}

func TestViewerRunStopsOnQuit(t *testing.T) {
	s := newScreen(t, 40, 5)
	doc := mdv.New("<http://x.example>")
	v := NewViewer(s, doc)

	s.InjectKey(tcell.KeyRune, '0', tcell.ModNone)
	s.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	link, err := v.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, "http://x.example", link)
}

func TestViewerRunStopsOnCancel(t *testing.T) {
	s := newScreen(t, 40, 5)
	v := NewViewer(s, mdv.New("text"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := v.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
