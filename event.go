package mdv

// Kind classifies an Event.
type Kind uint8

const (
	// KindStart opens a Tag.
	KindStart Kind = iota
	// KindEnd closes the Tag opened by the matching KindStart.
	KindEnd
	// KindText carries plain inline text.
	KindText
	// KindCode carries an inline code span.
	KindCode
	// KindHTML carries one line of an HTML block.
	KindHTML
	// KindInlineHTML carries raw inline HTML.
	KindInlineHTML
	// KindInlineMath carries an inline math span.
	KindInlineMath
	// KindDisplayMath carries a display math span.
	KindDisplayMath
	KindSoftBreak
	KindHardBreak
	KindFootnoteReference
	KindRule
	KindTaskListMarker
)

var kindNames = [...]string{
	KindStart:             "start",
	KindEnd:               "end",
	KindText:              "text",
	KindCode:              "code",
	KindHTML:              "html",
	KindInlineHTML:        "inline-html",
	KindInlineMath:        "inline-math",
	KindDisplayMath:       "display-math",
	KindSoftBreak:         "soft-break",
	KindHardBreak:         "hard-break",
	KindFootnoteReference: "footnote-reference",
	KindRule:              "rule",
	KindTaskListMarker:    "task-list-marker",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// carriesText reports whether events of this kind render their Text payload.
func (k Kind) carriesText() bool {
	switch k {
	case KindText, KindCode, KindHTML, KindInlineHTML, KindInlineMath, KindDisplayMath:
		return true
	}
	return false
}

// Tag identifies the block or inline construct opened by a start event.
type Tag uint8

const (
	TagNone Tag = iota
	TagParagraph
	TagHeading
	TagBlockQuote
	TagCodeBlock
	TagList
	TagItem
	TagEmphasis
	TagStrong
	TagStrikethrough
	TagSuperscript
	TagSubscript
	TagLink
	TagImage
	TagHTMLBlock
	TagFootnoteDefinition
	TagTable
)

var tagNames = [...]string{
	TagNone:               "none",
	TagParagraph:          "paragraph",
	TagHeading:            "heading",
	TagBlockQuote:         "blockquote",
	TagCodeBlock:          "code block",
	TagList:               "list",
	TagItem:               "item",
	TagEmphasis:           "emphasis",
	TagStrong:             "strong",
	TagStrikethrough:      "strikethrough",
	TagSuperscript:        "superscript",
	TagSubscript:          "subscript",
	TagLink:               "link",
	TagImage:              "image",
	TagHTMLBlock:          "html block",
	TagFootnoteDefinition: "footnote definition",
	TagTable:              "table",
}

func (t Tag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return "unknown"
}

// Unsupported reports whether the tag is a wrapper the translator passes
// through without styling.
func (t Tag) Unsupported() bool {
	switch t {
	case TagBlockQuote, TagStrikethrough, TagSuperscript, TagSubscript:
		return true
	}
	return false
}

// LinkType is the syntactic form of a link.
type LinkType uint8

const (
	// LinkInline is [text](url).
	LinkInline LinkType = iota
	// LinkReference is [text][id].
	LinkReference
	// LinkShortcut is [text].
	LinkShortcut
	LinkReferenceUnknown
	LinkCollapsed
	LinkCollapsedUnknown
	LinkShortcutUnknown
	// LinkAutolink is <http://...> or a bare URL.
	LinkAutolink
	// LinkEmail is <user@host>.
	LinkEmail
	// LinkWiki is [[page]] or [[page|text]].
	LinkWiki
)

var linkTypeNames = [...]string{
	LinkInline:           "inline",
	LinkReference:        "reference",
	LinkShortcut:         "shortcut",
	LinkReferenceUnknown: "reference-unknown",
	LinkCollapsed:        "collapsed",
	LinkCollapsedUnknown: "collapsed-unknown",
	LinkShortcutUnknown:  "shortcut-unknown",
	LinkAutolink:         "autolink",
	LinkEmail:            "email",
	LinkWiki:             "wiki",
}

func (t LinkType) String() string {
	if int(t) < len(linkTypeNames) {
		return linkTypeNames[t]
	}
	return "unknown"
}

// LinkInfo holds the fields of a link start event.
type LinkInfo struct {
	Type  LinkType
	URL   string
	Title string
	ID    string
	// Pothole is set for wiki links written as [[page|text]].
	Pothole bool
}

// Event is one element of the structural Markdown stream consumed by the
// translator. Start and End events carry a Tag; leaf events carry Text.
type Event struct {
	Kind Kind
	Tag  Tag
	Text string

	// Level is the heading level (1-6) of a heading start.
	Level int
	// Ordered is set on a list start that carries a start number.
	Ordered bool
	// Number is the start number of an ordered list.
	Number int

	Link    LinkInfo
	Checked bool
}

// StartEvent returns a start event for tag.
func StartEvent(tag Tag) Event { return Event{Kind: KindStart, Tag: tag} }

// EndEvent returns an end event for tag.
func EndEvent(tag Tag) Event { return Event{Kind: KindEnd, Tag: tag} }

// HeadingStart returns a start event for a heading of the given level.
func HeadingStart(level int) Event {
	return Event{Kind: KindStart, Tag: TagHeading, Level: level}
}

// ListStart returns a start event for an unordered list.
func ListStart() Event { return Event{Kind: KindStart, Tag: TagList} }

// OrderedListStart returns a start event for an ordered list beginning at n.
func OrderedListStart(n int) Event {
	return Event{Kind: KindStart, Tag: TagList, Ordered: true, Number: n}
}

// LinkStart returns a start event for a link.
func LinkStart(info LinkInfo) Event {
	return Event{Kind: KindStart, Tag: TagLink, Link: info}
}

// TextEvent returns a plain text leaf.
func TextEvent(text string) Event { return Event{Kind: KindText, Text: text} }

// LeafEvent returns a leaf event of the given kind.
func LeafEvent(kind Kind, text string) Event { return Event{Kind: kind, Text: text} }
