package mdv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenize(t *testing.T, src string) []Event {
	t.Helper()
	events, err := NewGoldmarkTokenizer().Tokenize([]byte(src))
	require.NoError(t, err)
	return events
}

func TestGoldmarkTokenizerHeading(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []Event{HeadingStart(1), TextEvent("Hi"), EndEvent(TagHeading)}, tokenize(t, "# Hi"))
}

func TestGoldmarkTokenizerInlineLink(t *testing.T) {
	t.Parallel()
	want := []Event{
		StartEvent(TagParagraph),
		LinkStart(LinkInfo{Type: LinkInline, URL: "http://x", Title: "T"}),
		TextEvent("t"),
		EndEvent(TagLink),
		EndEvent(TagParagraph),
	}
	assert.Equal(t, want, tokenize(t, `[t](http://x "T")`))
}

func TestGoldmarkTokenizerReferenceLinks(t *testing.T) {
	t.Parallel()
	events := tokenize(t, "[*a* b][Ref]\n\n[ref]: http://x\n")
	require.GreaterOrEqual(t, len(events), 2)
	link := events[1]
	require.Equal(t, TagLink, link.Tag)
	assert.Equal(t, LinkReference, link.Link.Type)
	assert.Equal(t, "Ref", link.Link.ID)
	assert.Equal(t, "http://x", link.Link.URL)
}

func TestGoldmarkTokenizerLinkTypeAfterLabel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
		typ  LinkType
		id   string
	}{
		{name: "image label reference", src: "[![i](x.png)][ref]\n\n[ref]: /r\n", typ: LinkReference, id: "ref"},
		{name: "text and image reference", src: "[a ![i](x.png)][ref]\n\n[ref]: /r\n", typ: LinkReference, id: "ref"},
		{name: "empty label reference", src: "[][ref]\n\n[ref]: /r\n", typ: LinkReference, id: "ref"},
		{name: "emphasis label collapsed", src: "[*a*][]\n\n[*a*]: /r\n", typ: LinkCollapsed},
		{name: "nested brackets", src: "[a [b]][ref]\n\n[ref]: /r\n", typ: LinkReference, id: "ref"},
		{name: "code span label", src: "[`c]`][ref]\n\n[ref]: /r\n", typ: LinkReference, id: "ref"},
		{name: "image label inline", src: "[![i](x.png)](/r)", typ: LinkInline},
		{name: "empty label inline", src: "[](/r)", typ: LinkInline},
		{name: "emphasis label shortcut", src: "[*a*] tail\n\n[*a*]: /r\n", typ: LinkShortcut},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var links []LinkInfo
			for _, ev := range tokenize(t, tc.src) {
				if ev.Kind == KindStart && ev.Tag == TagLink {
					links = append(links, ev.Link)
				}
			}
			require.Len(t, links, 1)
			assert.Equal(t, tc.typ, links[0].Type)
			assert.Equal(t, tc.id, links[0].ID)
			assert.Equal(t, "/r", links[0].URL)
		})
	}
}

// Link labels may not contain brackets, so an image label cannot be used as
// a collapsed reference; only the image remains.
func TestGoldmarkTokenizerImageLabelIsNotCollapsedReference(t *testing.T) {
	t.Parallel()
	for _, ev := range tokenize(t, "[![i](x.png)][]\n\n[![i](x.png)]: /r\n") {
		assert.False(t, ev.Kind == KindStart && ev.Tag == TagLink, "unexpected link %+v", ev.Link)
	}
}

func TestDocumentBadgeLinkRegistersReference(t *testing.T) {
	t.Parallel()
	doc := New("[![Build](b.svg)][ci]\n\n[ci]: https://ci.example/job\n")
	assert.Equal(t, []string{"[ci]"}, doc.Links())
	got, ok := doc.Select('0')
	require.True(t, ok)
	assert.Equal(t, "[ci]", got)
}

func TestGoldmarkTokenizerMergesText(t *testing.T) {
	t.Parallel()
	want := []Event{StartEvent(TagParagraph), TextEvent("a*b"), EndEvent(TagParagraph)}
	assert.Equal(t, want, tokenize(t, `a\*b`))
}

func TestGoldmarkTokenizerEmphasis(t *testing.T) {
	t.Parallel()
	want := []Event{
		StartEvent(TagParagraph),
		TextEvent("a "),
		StartEvent(TagEmphasis),
		TextEvent("b"),
		EndEvent(TagEmphasis),
		TextEvent(" "),
		StartEvent(TagStrong),
		TextEvent("c"),
		EndEvent(TagStrong),
		EndEvent(TagParagraph),
	}
	assert.Equal(t, want, tokenize(t, "a *b* **c**"))
}

func TestGoldmarkTokenizerBreaksOnlyBetweenSiblings(t *testing.T) {
	t.Parallel()
	want := []Event{
		StartEvent(TagParagraph),
		TextEvent("a"),
		{Kind: KindSoftBreak},
		TextEvent("b"),
		EndEvent(TagParagraph),
	}
	assert.Equal(t, want, tokenize(t, "a\nb\n"))
}

func TestGoldmarkTokenizerCodeBlock(t *testing.T) {
	t.Parallel()
	want := []Event{
		StartEvent(TagCodeBlock),
		TextEvent("x"),
		{Kind: KindHardBreak},
		EndEvent(TagCodeBlock),
	}
	assert.Equal(t, want, tokenize(t, "```go\nx\n```\n"))
}

func TestGoldmarkTokenizerLists(t *testing.T) {
	t.Parallel()
	events := tokenize(t, "5. a\n6. b\n")
	require.NotEmpty(t, events)
	assert.Equal(t, OrderedListStart(5), events[0])
	assert.Equal(t, EndEvent(TagList), events[len(events)-1])

	events = tokenize(t, "- a\n")
	assert.Equal(t, []Event{ListStart(), StartEvent(TagItem), TextEvent("a"), EndEvent(TagItem), EndEvent(TagList)}, events)
}

func TestGoldmarkTokenizerExtensions(t *testing.T) {
	t.Parallel()
	kinds := func(events []Event) map[Kind]bool {
		seen := map[Kind]bool{}
		for _, ev := range events {
			seen[ev.Kind] = true
		}
		return seen
	}
	tags := func(events []Event) map[Tag]bool {
		seen := map[Tag]bool{}
		for _, ev := range events {
			if ev.Kind == KindStart {
				seen[ev.Tag] = true
			}
		}
		return seen
	}

	assert.True(t, tags(tokenize(t, "~~x~~"))[TagStrikethrough])
	assert.True(t, kinds(tokenize(t, "- [x] done\n"))[KindTaskListMarker])
	assert.True(t, kinds(tokenize(t, "a\n\n---\n\nb\n"))[KindRule])

	footnote := tokenize(t, "a[^1]\n\n[^1]: note\n")
	assert.True(t, kinds(footnote)[KindFootnoteReference])
	assert.True(t, tags(footnote)[TagFootnoteDefinition])

	html := tokenize(t, "<div>\nhi\n</div>\n")
	assert.True(t, tags(html)[TagHTMLBlock])
	assert.True(t, kinds(html)[KindHTML])

	inline := tokenize(t, "a <b>x</b>")
	assert.True(t, kinds(inline)[KindInlineHTML])
}

func TestGoldmarkTokenizerAutolinks(t *testing.T) {
	t.Parallel()
	events := tokenize(t, "<http://x.example> <me@x.example>")
	var infos []LinkInfo
	for _, ev := range events {
		if ev.Kind == KindStart && ev.Tag == TagLink {
			infos = append(infos, ev.Link)
		}
	}
	require.Len(t, infos, 2)
	assert.Equal(t, LinkInfo{Type: LinkAutolink, URL: "http://x.example"}, infos[0])
	assert.Equal(t, LinkEmail, infos[1].Type)
}

func TestGoldmarkTokenizerStreamsAreBalanced(t *testing.T) {
	t.Parallel()
	src := "# T\n\n> q *e* ~~s~~\n\n1. a\n   - b [l](http://l)\n\n```\nc\n```\n\n| a |\n|---|\n| b |\n"
	events := tokenize(t, src)
	var stack []Tag
	for _, ev := range events {
		switch ev.Kind {
		case KindStart:
			stack = append(stack, ev.Tag)
		case KindEnd:
			require.NotEmpty(t, stack)
			require.Equal(t, stack[len(stack)-1], ev.Tag)
			stack = stack[:len(stack)-1]
		}
	}
	assert.Empty(t, stack)
}
