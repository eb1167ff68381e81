// Package textfit shortens strings to a cell budget for status lines and
// link legends.
package textfit

import (
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

const ellipsis = "…"

// Width returns the printable cell width of s, ignoring ANSI sequences.
func Width(s string) int {
	return ansi.PrintableRuneWidth(s)
}

// Truncate cuts s to at most limit cells, ending with an ellipsis when cut.
func Truncate(s string, limit int) string {
	if Width(s) <= limit {
		return s
	}
	switch {
	case limit <= 0:
		return ""
	case limit == 1:
		return ellipsis
	}
	return truncate.StringWithTail(s, uint(limit), ellipsis)
}

// URL fits a link destination into limit cells. The scheme is dropped before
// anything else is cut, and a surrounding "(...)" or "[...]" wrapper is kept.
func URL(s string, limit int) string {
	if Width(s) <= limit {
		return s
	}
	if prefix, inner, suffix, ok := splitWrapper(s); ok && limit > 2 {
		return prefix + URL(inner, limit-2) + suffix
	}
	if idx := strings.Index(s, "://"); idx != -1 {
		trimmed := s[idx+3:]
		if Width(trimmed) <= limit {
			return trimmed
		}
		return Truncate(trimmed, limit)
	}
	return Truncate(s, limit)
}

func splitWrapper(text string) (prefix, inner, suffix string, ok bool) {
	if len(text) < 2 {
		return "", "", "", false
	}
	open, last := text[0], text[len(text)-1]
	var want byte
	switch open {
	case '(':
		want = ')'
	case '[':
		want = ']'
	case '<':
		want = '>'
	default:
		return "", "", "", false
	}
	if last != want {
		return "", "", "", false
	}
	return text[:1], text[1 : len(text)-1], text[len(text)-1:], true
}
