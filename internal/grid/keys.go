package grid

import "github.com/gdamore/tcell/v2"

// KeySymbol returns the character of a plain rune key press. Presses with
// Ctrl, Alt or Meta held and special keys yield false.
func KeySymbol(ev *tcell.EventKey) (rune, bool) {
	if ev == nil || ev.Key() != tcell.KeyRune {
		return 0, false
	}
	if ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt|tcell.ModMeta) != 0 {
		return 0, false
	}
	return ev.Rune(), true
}
