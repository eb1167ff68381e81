package mdv

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"pkt.systems/mdv/internal/textfit"
)

// maxDocumentBytes bounds how much Markdown Render and HTTPRender read.
const maxDocumentBytes = 16 << 20

// RenderRequest configures Render.
type RenderRequest struct {
	Reader io.Reader
	Writer io.Writer
	// Options configure the ANSI output.
	Options []RenderOption
	// DocumentOptions configure parsing.
	DocumentOptions []Option
}

// Render reads Markdown from Reader, parses it and writes ANSI lines to
// Writer. The parsed Document is returned for link selection.
func Render(req RenderRequest) (*Document, error) {
	if req.Reader == nil {
		return nil, fmt.Errorf("render: reader is nil")
	}
	if req.Writer == nil {
		return nil, fmt.Errorf("render: writer is nil")
	}
	src, err := io.ReadAll(io.LimitReader(req.Reader, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("render: read: %w", err)
	}
	doc := New(string(src), req.DocumentOptions...)
	if err := RenderDocument(req.Writer, doc, req.Options...); err != nil {
		return doc, fmt.Errorf("render: %w", err)
	}
	return doc, nil
}

// RenderDocument writes the document's lines, followed by its link legend
// when WithLinkIndex is set.
func RenderDocument(w io.Writer, doc *Document, opts ...RenderOption) error {
	cfg := buildRenderConfig(opts)
	bw := bufio.NewWriter(w)
	r := newLineRenderer(w, cfg)
	for _, l := range doc.Lines() {
		r.writeLine(bw, l)
	}
	if cfg.linkIndex && doc.LinkCount() > 0 {
		bw.WriteByte('\n')
		for i, link := range doc.Links() {
			label := "[" + strconv.Itoa(i) + "] "
			if i >= maxSelectable {
				label = "    "
			}
			if cfg.width > 0 {
				link = textfit.URL(link, cfg.width-textfit.Width(label))
			}
			bw.WriteString(r.legend.Render(label) + link + "\n")
		}
		if doc.LinkCount() > maxSelectable {
			note := "only links 0-9 can be selected by key"
			if cfg.width > 0 {
				note = textfit.Truncate(note, cfg.width)
			}
			bw.WriteString(r.legend.Render(note) + "\n")
		}
	}
	return bw.Flush()
}

// RenderLines writes lines as ANSI text, one terminal row per line.
func RenderLines(w io.Writer, lines []Line, opts ...RenderOption) error {
	cfg := buildRenderConfig(opts)
	bw := bufio.NewWriter(w)
	r := newLineRenderer(w, cfg)
	for _, l := range lines {
		r.writeLine(bw, l)
	}
	return bw.Flush()
}

type lineRenderer struct {
	cfg    renderConfig
	r      *lipgloss.Renderer
	legend lipgloss.Style
}

func newLineRenderer(w io.Writer, cfg renderConfig) *lineRenderer {
	r := lipgloss.NewRenderer(w)
	if cfg.profileSet {
		r.SetColorProfile(cfg.profile)
	}
	return &lineRenderer{
		cfg:    cfg,
		r:      r,
		legend: r.NewStyle().Faint(true),
	}
}

func (lr *lineRenderer) style(s Style) lipgloss.Style {
	st := lr.r.NewStyle()
	if s.Bold {
		st = st.Bold(true)
	}
	if s.Italic {
		st = st.Italic(true)
	}
	if n := s.Fg.ANSI(); n >= 0 {
		st = st.Foreground(lipgloss.Color(strconv.Itoa(n)))
	}
	return st
}

func (lr *lineRenderer) writeLine(w *bufio.Writer, l Line) {
	budget := lr.cfg.width
	for i, span := range l.Spans {
		text := span.Text
		if lr.cfg.width > 0 {
			if budget <= 0 {
				break
			}
			if textfit.Width(text) > budget {
				text = textfit.Truncate(text, budget)
			}
			budget -= textfit.Width(text)
		}
		if st := l.StyleAt(i); !st.IsZero() {
			text = lr.style(st).Render(text)
		}
		if lr.cfg.osc8 && hyperlinkable(span.URL) {
			text = hyperlink(span.URL, text)
		}
		w.WriteString(text)
	}
	w.WriteByte('\n')
}
