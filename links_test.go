package mdv

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatLink(t *testing.T) {
	t.Parallel()
	tests := []struct {
		info LinkInfo
		want string
	}{
		{LinkInfo{Type: LinkInline, URL: "http://x.com"}, "(http://x.com)"},
		{LinkInfo{Type: LinkInline, URL: ""}, "()"},
		{LinkInfo{Type: LinkReference, URL: "http://x.com", ID: "ref"}, "[ref]"},
		{LinkInfo{Type: LinkShortcut, URL: "http://x.com", Title: "T"}, "[T]"},
		{LinkInfo{Type: LinkShortcut, URL: "http://x.com"}, "[]"},
		{LinkInfo{Type: LinkReferenceUnknown, ID: "missing"}, "[unknown]"},
		{LinkInfo{Type: LinkCollapsed, URL: "http://x.com"}, "[collapsed]"},
		{LinkInfo{Type: LinkCollapsedUnknown}, "[collapsed unknown]"},
		{LinkInfo{Type: LinkShortcutUnknown}, "[shortcut unknown]"},
		{LinkInfo{Type: LinkAutolink, URL: "https://x.com/a"}, "https://x.com/a"},
		{LinkInfo{Type: LinkEmail, URL: "me@x.com"}, "me@x.com"},
		{LinkInfo{Type: LinkWiki, URL: "Page", Pothole: true}, "[wiki]"},
		{LinkInfo{Type: LinkType(200)}, "[unknown]"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, FormatLink(tc.info), "%s", tc.info.Type)
	}
}

func TestLinkRegistryDeduplicatesAndSorts(t *testing.T) {
	t.Parallel()
	var r LinkRegistry
	assert.True(t, r.Insert("(http://b)"))
	assert.True(t, r.Insert("[ref]"))
	assert.True(t, r.Insert("(http://a)"))
	assert.False(t, r.Insert("(http://b)"))
	require.Equal(t, 3, r.Len())
	assert.Equal(t, []string{"(http://a)", "(http://b)", "[ref]"}, r.All())

	all := r.All()
	all[0] = "changed"
	got, ok := r.At(0)
	require.True(t, ok)
	assert.Equal(t, "(http://a)", got)
}

func TestLinkRegistryAt(t *testing.T) {
	t.Parallel()
	var r LinkRegistry
	r.Insert("x")
	for _, i := range []int{-1, 1, 10} {
		_, ok := r.At(i)
		assert.False(t, ok, "index %d", i)
	}
}

func TestLinkRegistrySelectEmpty(t *testing.T) {
	t.Parallel()
	var r LinkRegistry
	for key := '0'; key <= '9'; key++ {
		_, ok := r.Select(key)
		assert.False(t, ok, "key %q", key)
	}
}

func TestLinkRegistrySelect(t *testing.T) {
	t.Parallel()
	var r LinkRegistry
	for i := 0; i < 12; i++ {
		r.Insert(fmt.Sprintf("(http://%02d)", i))
	}
	got, ok := r.Select('0')
	require.True(t, ok)
	assert.Equal(t, "(http://00)", got)
	got, ok = r.Select('9')
	require.True(t, ok)
	assert.Equal(t, "(http://09)", got)

	for _, key := range []rune{'a', 'q', ' ', '/', ':', '١', '０'} {
		_, ok := r.Select(key)
		assert.False(t, ok, "key %q", key)
	}
}

func TestLinkRegistrySelectPastEnd(t *testing.T) {
	t.Parallel()
	var r LinkRegistry
	r.Insert("(a)")
	r.Insert("(b)")
	_, ok := r.Select('2')
	assert.False(t, ok)
	got, ok := r.Select('1')
	require.True(t, ok)
	assert.Equal(t, "(b)", got)
}

func TestDigitIndex(t *testing.T) {
	t.Parallel()
	n, ok := DigitIndex('7')
	require.True(t, ok)
	assert.Equal(t, 7, n)
	_, ok = DigitIndex('x')
	assert.False(t, ok)
}
