package mdv

import "slices"

// FormatLink returns the display string registered for a link.
func FormatLink(info LinkInfo) string {
	switch info.Type {
	case LinkInline:
		return "(" + info.URL + ")"
	case LinkReference:
		return "[" + info.ID + "]"
	case LinkShortcut:
		return "[" + info.Title + "]"
	case LinkReferenceUnknown:
		return "[unknown]"
	case LinkCollapsed:
		return "[collapsed]"
	case LinkCollapsedUnknown:
		return "[collapsed unknown]"
	case LinkShortcutUnknown:
		return "[shortcut unknown]"
	case LinkAutolink, LinkEmail:
		return info.URL
	case LinkWiki:
		return "[wiki]"
	}
	return "[unknown]"
}

// LinkRegistry is a set of formatted link destinations kept in
// lexicographic order.
type LinkRegistry struct {
	entries []string
}

// Insert adds s and reports whether it was not already present.
func (r *LinkRegistry) Insert(s string) bool {
	i, found := slices.BinarySearch(r.entries, s)
	if found {
		return false
	}
	r.entries = slices.Insert(r.entries, i, s)
	return true
}

// Len returns the number of entries.
func (r *LinkRegistry) Len() int {
	return len(r.entries)
}

// At returns the i-th entry in iteration order.
func (r *LinkRegistry) At(i int) (string, bool) {
	if i < 0 || i >= len(r.entries) {
		return "", false
	}
	return r.entries[i], true
}

// All returns a copy of the entries in iteration order.
func (r *LinkRegistry) All() []string {
	return slices.Clone(r.entries)
}

// Select maps a key symbol to a registry entry. Only the ASCII digits 0-9
// select; any other key, or a digit past the end, yields false.
func (r *LinkRegistry) Select(key rune) (string, bool) {
	n, ok := DigitIndex(key)
	if !ok {
		return "", false
	}
	return r.At(n)
}

// maxSelectable is the number of registry entries reachable by a digit key.
const maxSelectable = 10

// DigitIndex returns the value of an ASCII digit key.
func DigitIndex(key rune) (int, bool) {
	if key < '0' || key > '9' {
		return 0, false
	}
	return int(key - '0'), true
}
