package mdv

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"
)

// Option configures a Document.
type Option func(*config)

type config struct {
	tokenizer    Tokenizer
	logger       zerolog.Logger
	headingColor Color
	frontMatter  bool
}

func defaultConfig() config {
	return config{
		logger:       zerolog.Nop(),
		headingColor: ColorBlue,
		frontMatter:  true,
	}
}

// WithTokenizer replaces the goldmark tokenizer.
func WithTokenizer(t Tokenizer) Option {
	return func(cfg *config) {
		cfg.tokenizer = t
	}
}

// WithLogger sets the logger used for parse diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = l
	}
}

// WithHeadingColor sets the foreground color of level 3-6 headings.
func WithHeadingColor(c Color) Option {
	return func(cfg *config) {
		if c != ColorDefault {
			cfg.headingColor = c
		}
	}
}

// WithFrontMatter controls whether leading YAML, TOML or JSON front matter is
// dropped before tokenizing. It is dropped by default.
func WithFrontMatter(strip bool) Option {
	return func(cfg *config) {
		cfg.frontMatter = strip
	}
}

func buildConfig(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.tokenizer == nil {
		cfg.tokenizer = NewGoldmarkTokenizer()
	}
	return cfg
}

// Document is a Markdown text parsed once, at construction, into display
// lines and a link registry. It is not modified afterwards and may be read
// from multiple goroutines.
type Document struct {
	input       string
	links       LinkRegistry
	lines       []Line
	parsed      bool
	err         error
	diagnostics []Diagnostic
}

// New parses input with the configured tokenizer. Parse failures do not
// prevent construction; they are reported by Err and Lines falls back to the
// raw input.
func New(input string, opts ...Option) *Document {
	cfg := buildConfig(opts)
	d := &Document{input: input}
	src := sanitize([]byte(input))
	if cfg.frontMatter {
		src = stripFrontMatter(src)
	}
	events, err := cfg.tokenizer.Tokenize(src)
	if err != nil {
		d.err = fmt.Errorf("tokenize: %w", err)
		cfg.logger.Warn().Err(err).Msg("tokenizer failed; keeping raw input")
		return d
	}
	d.parse(events, cfg)
	return d
}

// NewFromEvents builds a Document from an already tokenized event stream.
// input is kept as the raw fallback text. Control characters in event text
// and link fields are dropped.
func NewFromEvents(input string, events []Event, opts ...Option) *Document {
	cfg := buildConfig(opts)
	d := &Document{input: input}
	d.parse(events, cfg)
	return d
}

// NewUnparsed returns a Document that skips parsing and renders its input
// raw.
func NewUnparsed(input string) *Document {
	return &Document{input: input}
}

func (d *Document) parse(events []Event, cfg config) {
	lines, diags, err := translate(events, &d.links, cfg)
	d.diagnostics = diags
	if err != nil {
		d.err = err
		d.links = LinkRegistry{}
		cfg.logger.Error().Err(err).Int("events", len(events)).Msg("discarding parse output")
		return
	}
	d.lines = lines
	d.parsed = true
	cfg.logger.Debug().
		Int("events", len(events)).
		Int("lines", len(lines)).
		Int("links", d.links.Len()).
		Int("unsupported", len(diags)).
		Msg("parsed document")
}

// Input returns the raw Markdown text.
func (d *Document) Input() string {
	return d.input
}

// Parsed reports whether parsed output is available.
func (d *Document) Parsed() bool {
	return d.parsed
}

// Err returns the error that prevented parsing, if any.
func (d *Document) Err() error {
	return d.err
}

// Lines returns the parsed lines, or the raw input as one unstyled line when
// no parsed output exists. The returned spans must not be modified.
func (d *Document) Lines() []Line {
	if !d.parsed {
		return []Line{RawLine(d.input)}
	}
	return slices.Clone(d.lines)
}

// Links returns the registered link destinations in selection order.
func (d *Document) Links() []string {
	return d.links.All()
}

// LinkCount returns the number of registered link destinations.
func (d *Document) LinkCount() int {
	return d.links.Len()
}

// Link returns the i-th registered link destination.
func (d *Document) Link(i int) (string, bool) {
	return d.links.At(i)
}

// Select maps a single key symbol to a link destination.
func (d *Document) Select(key rune) (string, bool) {
	return d.links.Select(key)
}

// Diagnostics lists the unsupported constructs met while parsing.
func (d *Document) Diagnostics() []Diagnostic {
	return slices.Clone(d.diagnostics)
}

// PlainText returns the lines joined by newlines without styling.
func (d *Document) PlainText() string {
	lines := d.Lines()
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(l.Text())
	}
	return b.String()
}
