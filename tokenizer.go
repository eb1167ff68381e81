package mdv

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Tokenizer turns Markdown source into a balanced event stream.
type Tokenizer interface {
	Tokenize(src []byte) ([]Event, error)
}

// TokenizerFunc adapts a function to the Tokenizer interface.
type TokenizerFunc func(src []byte) ([]Event, error)

// Tokenize calls f(src).
func (f TokenizerFunc) Tokenize(src []byte) ([]Event, error) { return f(src) }

// GoldmarkTokenizer produces events by walking a goldmark syntax tree. GFM
// strikethrough, task lists, footnotes and bare URL autolinks are enabled.
type GoldmarkTokenizer struct {
	md goldmark.Markdown
}

// NewGoldmarkTokenizer returns a tokenizer with the default extensions.
func NewGoldmarkTokenizer() *GoldmarkTokenizer {
	return &GoldmarkTokenizer{
		md: goldmark.New(
			goldmark.WithParser(newParser()),
			goldmark.WithExtensions(
				extension.Strikethrough,
				extension.TaskList,
				extension.Footnote,
				extension.Linkify,
			),
		),
	}
}

// Tokenize parses src and returns its event stream. Adjacent text events are
// merged.
func (g *GoldmarkTokenizer) Tokenize(src []byte) ([]Event, error) {
	root := g.md.Parser().Parse(text.NewReader(src))
	w := eventWriter{src: src}
	if err := ast.Walk(root, w.visit); err != nil {
		return nil, fmt.Errorf("goldmark walk: %w", err)
	}
	return w.events, nil
}

type eventWriter struct {
	src    []byte
	events []Event
}

func (w *eventWriter) emit(ev Event) {
	if ev.Kind == KindText {
		if n := len(w.events); n > 0 && w.events[n-1].Kind == KindText {
			w.events[n-1].Text += ev.Text
			return
		}
		if ev.Text == "" {
			return
		}
	}
	w.events = append(w.events, ev)
}

// wrap emits a start event when entering and the matching end when leaving.
func (w *eventWriter) wrap(entering bool, start Event) {
	if entering {
		start.Kind = KindStart
		w.emit(start)
		return
	}
	w.emit(EndEvent(start.Tag))
}

func (w *eventWriter) visit(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Document, *ast.TextBlock, *extast.FootnoteList:
	case *ast.Heading:
		w.wrap(entering, HeadingStart(node.Level))
	case *ast.Paragraph:
		w.wrap(entering, StartEvent(TagParagraph))
	case *ast.Blockquote:
		w.wrap(entering, StartEvent(TagBlockQuote))
	case *ast.List:
		start := ListStart()
		if node.IsOrdered() {
			start = OrderedListStart(node.Start)
		}
		w.wrap(entering, start)
	case *ast.ListItem:
		w.wrap(entering, StartEvent(TagItem))
	case *ast.Emphasis:
		tag := TagEmphasis
		if node.Level >= 2 {
			tag = TagStrong
		}
		w.wrap(entering, StartEvent(tag))
	case *extast.Strikethrough:
		w.wrap(entering, StartEvent(TagStrikethrough))
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		w.wrap(entering, StartEvent(TagCodeBlock))
		if entering {
			w.lines(n.Lines(), KindText)
		}
	case *ast.HTMLBlock:
		w.wrap(entering, StartEvent(TagHTMLBlock))
		if entering {
			w.lines(n.Lines(), KindHTML)
			if node.HasClosure() {
				w.line(node.ClosureLine.Value(w.src), KindHTML)
			}
		}
	case *ast.Link:
		w.wrap(entering, LinkStart(w.linkInfo(node)))
	case *ast.AutoLink:
		if !entering {
			return ast.WalkContinue, nil
		}
		info := LinkInfo{Type: LinkAutolink, URL: string(node.URL(w.src))}
		if node.AutoLinkType == ast.AutoLinkEmail {
			info.Type = LinkEmail
		}
		w.emit(LinkStart(info))
		w.emit(TextEvent(string(node.Label(w.src))))
		w.emit(EndEvent(TagLink))
	case *ast.Image:
		w.wrap(entering, StartEvent(TagImage))
	case *extast.Footnote:
		w.wrap(entering, StartEvent(TagFootnoteDefinition))
	case *ast.CodeSpan:
		if entering {
			w.emit(LeafEvent(KindCode, string(inlineText(node, w.src))))
		}
		return ast.WalkSkipChildren, nil
	case *ast.RawHTML:
		if entering {
			var b bytes.Buffer
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				b.Write(seg.Value(w.src))
			}
			w.emit(LeafEvent(KindInlineHTML, b.String()))
		}
	case *ast.Text:
		if !entering {
			return ast.WalkContinue, nil
		}
		value := node.Segment.Value(w.src)
		if !node.IsRaw() {
			value = unescape(value)
		}
		w.emit(TextEvent(string(value)))
		if node.NextSibling() == nil {
			break
		}
		switch {
		case node.HardLineBreak():
			w.emit(Event{Kind: KindHardBreak})
		case node.SoftLineBreak():
			w.emit(Event{Kind: KindSoftBreak})
		}
	case *ast.String:
		if entering {
			w.emit(TextEvent(string(node.Value)))
		}
	case *ast.ThematicBreak:
		if entering {
			w.emit(Event{Kind: KindRule})
		}
	case *extast.TaskCheckBox:
		if entering {
			w.emit(Event{Kind: KindTaskListMarker, Checked: node.IsChecked})
		}
	case *extast.FootnoteLink:
		if entering {
			w.emit(Event{Kind: KindFootnoteReference, Text: fmt.Sprint(node.Index)})
		}
	case *extast.FootnoteBacklink:
		return ast.WalkSkipChildren, nil
	}
	return ast.WalkContinue, nil
}

// lines emits one leaf per source line, each terminated by a hard break.
func (w *eventWriter) lines(segs *text.Segments, kind Kind) {
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		w.line(seg.Value(w.src), kind)
	}
}

func (w *eventWriter) line(b []byte, kind Kind) {
	b = bytes.TrimRight(b, "\r\n")
	if len(b) > 0 {
		w.emit(LeafEvent(kind, string(b)))
	}
	w.emit(Event{Kind: KindHardBreak})
}

// linkInfo classifies a link by the source text that follows its label:
// "(" for inline links, "[]" for collapsed references, "[id]" for full
// references, anything else for shortcuts.
func (w *eventWriter) linkInfo(node *ast.Link) LinkInfo {
	info := LinkInfo{
		Type:  LinkInline,
		URL:   string(node.Destination),
		Title: string(node.Title),
	}
	end, ok := labelEnd(node)
	if !ok || end >= len(w.src) {
		return info
	}
	rest := w.src[end+1:]
	switch {
	case len(rest) > 0 && rest[0] == '(':
		info.Type = LinkInline
	case bytes.HasPrefix(rest, []byte("[]")):
		info.Type = LinkCollapsed
	case len(rest) > 0 && rest[0] == '[':
		idEnd := bytes.IndexByte(rest, ']')
		if idEnd < 0 {
			info.Type = LinkShortcut
			break
		}
		info.Type = LinkReference
		info.ID = string(rest[1:idEnd])
	default:
		info.Type = LinkShortcut
	}
	return info
}

var labelEndAttr = []byte("mdv-label-end")

// labelEnd returns the source offset of the "]" closing the link's label.
func labelEnd(n *ast.Link) (int, bool) {
	v, ok := n.Attribute(labelEndAttr)
	if !ok {
		return 0, false
	}
	end, ok := v.(int)
	return end, ok
}

type closingInlineParser interface {
	parser.InlineParser
	parser.CloseBlocker
}

// labelEndRecorder wraps goldmark's link parser and stores, on every link it
// builds, the offset of the "]" that closed the label.
type labelEndRecorder struct {
	closingInlineParser
}

func (r *labelEndRecorder) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, seg := block.PeekLine()
	node := r.closingInlineParser.Parse(parent, block, pc)
	if link, ok := node.(*ast.Link); ok && len(line) > 0 && line[0] == ']' {
		link.SetAttribute(labelEndAttr, seg.Start)
	}
	return node
}

// newParser returns goldmark's default parser with the link parser wrapped
// by labelEndRecorder.
func newParser() parser.Parser {
	inlines := parser.DefaultInlineParsers()
	for i, v := range inlines {
		ip, ok := v.Value.(closingInlineParser)
		if ok && bytes.IndexByte(ip.Trigger(), ']') >= 0 {
			inlines[i] = util.Prioritized(&labelEndRecorder{ip}, v.Priority)
		}
	}
	return parser.NewParser(
		parser.WithBlockParsers(parser.DefaultBlockParsers()...),
		parser.WithInlineParsers(inlines...),
		parser.WithParagraphTransformers(parser.DefaultParagraphTransformers()...),
	)
}

// unescape resolves backslash escapes and character references the parser
// leaves in text segments.
func unescape(b []byte) []byte {
	if bytes.IndexByte(b, '\\') < 0 && bytes.IndexByte(b, '&') < 0 {
		return b
	}
	return util.UnescapePunctuations(util.ResolveNumericReferences(util.ResolveEntityNames(b)))
}

// inlineText concatenates the text of n's children.
func inlineText(n ast.Node, src []byte) []byte {
	var b bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
		case *ast.String:
			b.Write(t.Value)
		}
	}
	return b.Bytes()
}
