package mdv

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// ErrMalformedStream reports an event stream whose start and end events do
// not nest.
var ErrMalformedStream = errors.New("malformed event stream")

// Diagnostic records a construct the translator rendered without its own
// formatting.
type Diagnostic struct {
	Tag Tag
	// Index is the position of the start event in the stream.
	Index int
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("unsupported %s at event %d", d.Tag, d.Index)
}

type frameKind uint8

const (
	frameNormal frameKind = iota
	frameHeading
	frameStrong
	frameEmphasis
	frameCode
	frameList
	framePassThrough
)

// frame is one entry of the formatting context stack.
type frame struct {
	kind frameKind
	tag  Tag
	list listFrame
}

type listFrame struct {
	ordered bool
	nesting int
	items   int
}

// marker returns the item prefix for the current item.
func (l listFrame) marker() string {
	indent := strings.Repeat("  ", l.nesting)
	if !l.ordered {
		return indent + "* "
	}
	return fmt.Sprintf("%s%d. ", indent, l.items)
}

type translator struct {
	stack   []frame
	current Line
	lines   []Line
	// separator is a paragraph's trailing blank line, emitted once another
	// line follows.
	separator bool
	link      string

	links        *LinkRegistry
	headingColor Color
	diagnostics  []Diagnostic
	log          zerolog.Logger
}

func newTranslator(links *LinkRegistry, cfg config) *translator {
	return &translator{
		stack:        []frame{{kind: frameNormal}},
		links:        links,
		headingColor: cfg.headingColor,
		log:          cfg.logger,
	}
}

// translate folds events into lines, registering link destinations in links.
func translate(events []Event, links *LinkRegistry, cfg config) ([]Line, []Diagnostic, error) {
	t := newTranslator(links, cfg)
	for i, ev := range events {
		if err := t.apply(i, ev); err != nil {
			return nil, t.diagnostics, fmt.Errorf("translate: event %d (%s %s): %w", i, ev.Kind, ev.Tag, err)
		}
	}
	lines, err := t.finish()
	if err != nil {
		return nil, t.diagnostics, fmt.Errorf("translate: %w", err)
	}
	return lines, t.diagnostics, nil
}

func (t *translator) apply(i int, ev Event) error {
	switch ev.Kind {
	case KindStart:
		t.start(i, ev)
	case KindEnd:
		return t.end(ev)
	case KindSoftBreak:
		t.current.Spans = append(t.current.Spans, Span{Text: " "})
	case KindHardBreak:
		t.push(t.current)
		t.current = Line{}
	case KindFootnoteReference, KindRule, KindTaskListMarker:
	default:
		if ev.Kind.carriesText() {
			t.current.Spans = append(t.current.Spans, Span{Text: sanitizeString(ev.Text), Style: t.inlineStyle(), URL: t.link})
		}
	}
	return nil
}

func (t *translator) start(i int, ev Event) {
	if ev.Tag.Unsupported() {
		t.diagnostics = append(t.diagnostics, Diagnostic{Tag: ev.Tag, Index: i})
		t.log.Debug().Str("tag", ev.Tag.String()).Int("event", i).Msg("rendering unsupported construct unstyled")
		t.stack = append(t.stack, frame{kind: framePassThrough, tag: ev.Tag})
		return
	}
	switch ev.Tag {
	case TagHeading:
		t.flush()
		t.current = Line{Style: t.headingStyle(ev.Level)}
		t.stack = append(t.stack, frame{kind: frameHeading, tag: TagHeading})
	case TagParagraph:
		t.flush()
	case TagStrong:
		t.stack = append(t.stack, frame{kind: frameStrong, tag: TagStrong})
	case TagEmphasis:
		t.stack = append(t.stack, frame{kind: frameEmphasis, tag: TagEmphasis})
	case TagCodeBlock:
		t.stack = append(t.stack, frame{kind: frameCode, tag: TagCodeBlock})
	case TagList:
		t.flush()
		t.stack = append(t.stack, frame{kind: frameList, tag: TagList, list: listFrame{
			ordered: ev.Ordered,
			nesting: t.listDepth(),
		}})
	case TagItem:
		t.flush()
		if l := t.innermostList(); l != nil {
			l.items++
			t.current.Spans = append(t.current.Spans, Span{Text: l.marker()})
		}
	case TagLink:
		link := sanitizeLink(ev.Link)
		t.links.Insert(FormatLink(link))
		t.link = link.URL
	}
}

func (t *translator) end(ev Event) error {
	switch ev.Tag {
	case TagHeading:
		t.push(t.current)
		t.lines = append(t.lines, Line{})
		t.current = Line{}
		return t.pop(TagHeading)
	case TagParagraph:
		t.push(t.current)
		t.separator = true
		t.current = Line{}
	case TagStrong, TagEmphasis, TagCodeBlock, TagBlockQuote, TagStrikethrough, TagSuperscript, TagSubscript:
		return t.pop(ev.Tag)
	case TagList:
		// Lists get no trailing blank line, not even at top level.
		return t.pop(TagList)
	case TagItem:
		t.flush()
	case TagLink:
		t.link = ""
	}
	return nil
}

func (t *translator) pop(tag Tag) error {
	if len(t.stack) <= 1 {
		return fmt.Errorf("%w: end of %s with empty context stack", ErrMalformedStream, tag)
	}
	top := t.stack[len(t.stack)-1]
	if top.tag != tag {
		return fmt.Errorf("%w: end of %s closes %s", ErrMalformedStream, tag, top.tag)
	}
	t.stack = t.stack[:len(t.stack)-1]
	return nil
}

// push appends l to the output, emitting a pending paragraph separator first.
func (t *translator) push(l Line) {
	if t.separator {
		t.lines = append(t.lines, Line{})
		t.separator = false
	}
	t.lines = append(t.lines, l)
}

// flush pushes the current line if it holds any spans and starts a new one.
func (t *translator) flush() {
	if len(t.current.Spans) == 0 {
		return
	}
	t.push(t.current)
	t.current = Line{}
}

func (t *translator) finish() ([]Line, error) {
	t.flush()
	if len(t.stack) != 1 {
		return nil, fmt.Errorf("%w: %s left open at end of stream", ErrMalformedStream, t.stack[len(t.stack)-1].tag)
	}
	return t.lines, nil
}

func (t *translator) headingStyle(level int) Style {
	switch level {
	case 1:
		return Style{Bold: true}
	case 2:
		return Style{Italic: true}
	}
	return Style{Fg: t.headingColor}
}

// inlineStyle scans the stack from the innermost context outwards. A heading
// ends the scan since its line style already covers the text.
func (t *translator) inlineStyle() Style {
	var s Style
	for i := len(t.stack) - 1; i >= 0; i-- {
		switch t.stack[i].kind {
		case frameHeading:
			return s
		case frameStrong:
			s.Bold = true
		case frameEmphasis:
			s.Italic = true
		}
	}
	return s
}

func (t *translator) listDepth() int {
	n := 0
	for _, f := range t.stack {
		if f.kind == frameList {
			n++
		}
	}
	return n
}

func (t *translator) innermostList() *listFrame {
	for i := len(t.stack) - 1; i >= 0; i-- {
		if t.stack[i].kind == frameList {
			return &t.stack[i].list
		}
	}
	return nil
}
