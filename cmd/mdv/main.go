package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"golang.org/x/term"
	"pkt.systems/version"

	"pkt.systems/mdv"
	"pkt.systems/mdv/internal/grid"
)

const maxInputBytes = 16 << 20

var errNoLink = errors.New("no link for key")

func init() {
	version.SetDefaultModule("pkt.systems/mdv")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], env{
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		newScreen: tcell.NewScreen,
	})
	stop()
	os.Exit(code)
}

// env holds the process streams so run can be driven from tests.
type env struct {
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
	newScreen func() (tcell.Screen, error)
}

type cliOptions struct {
	configPath      string
	widthFlag       int
	osc8Flag        string
	outPath         string
	interactive     bool
	links           bool
	key             string
	logLevel        string
	headingColor    string
	boring          bool
	keepFrontMatter bool
	raw             bool
	showVersion     bool
}

func run(ctx context.Context, args []string, e env) int {
	var opts cliOptions
	flags := pflag.NewFlagSet("mdv", pflag.ContinueOnError)
	flags.SetOutput(e.stderr)
	flags.StringVarP(&opts.configPath, "config", "c", defaultConfigPath(), "Path to YAML config file")
	flags.IntVarP(&opts.widthFlag, "width", "w", 0, "Truncate lines to this many cells (0 uses terminal width when writing to a terminal)")
	flags.StringVarP(&opts.osc8Flag, "osc8", "8", "auto", "OSC8 hyperlinks: auto|on|off")
	flags.StringVarP(&opts.outPath, "output", "o", "", "Output file instead of stdout")
	flags.BoolVarP(&opts.interactive, "interactive", "i", false, "Open a pager where digit keys select links")
	flags.BoolVarP(&opts.links, "links", "l", false, "Append a numbered link legend")
	flags.StringVarP(&opts.key, "key", "k", "", "Print the link selected by this key and exit")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&opts.headingColor, "heading-color", "", "Color of level 3-6 headings")
	flags.BoolVarP(&opts.boring, "boring", "b", false, "Generate non-ANSI output")
	flags.BoolVar(&opts.keepFrontMatter, "front-matter", false, "Keep leading front matter instead of dropping it")
	flags.BoolVar(&opts.raw, "raw", false, "Skip Markdown parsing and show the input as-is")
	flags.BoolVarP(&opts.showVersion, "version", "V", false, "Print version and exit")

	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(e.stderr, version.Module(), version.Current())
		fmt.Fprintf(e.stderr, "Usage: mdv [flags] [inputs...]\n")
		fmt.Fprintln(e.stderr, "\nIf no input is provided, Markdown is read from stdin.")
		fmt.Fprintln(e.stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if opts.showVersion {
		fmt.Fprintln(e.stdout, version.Module(), version.Current())
		return 0
	}

	fileCfg, err := loadConfig(opts.configPath, flags.Changed("config"))
	if err != nil {
		fmt.Fprintf(e.stderr, "config: %v\n", err)
		return 2
	}
	mergeFlags(flags, &opts, fileCfg)

	logger, err := newLogger(e.stderr, opts.logLevel)
	if err != nil {
		fmt.Fprintf(e.stderr, "invalid --log-level %q: %v\n", opts.logLevel, err)
		return 2
	}
	log := logger.With().Str("cmp", "cli").Logger()

	osc8, err := resolveOSC8(opts.osc8Flag)
	if err != nil {
		fmt.Fprintf(e.stderr, "invalid --osc8 %q: %v\n", opts.osc8Flag, err)
		return 2
	}
	headingColor, err := mdv.ParseColor(opts.headingColor)
	if err != nil {
		fmt.Fprintf(e.stderr, "invalid --heading-color: %v\n", err)
		return 2
	}
	var key rune
	if opts.key != "" {
		if key, err = parseKey(opts.key); err != nil {
			fmt.Fprintf(e.stderr, "invalid --key: %v\n", err)
			return 2
		}
	}

	docOpts := []mdv.Option{
		mdv.WithLogger(logger.With().Str("cmp", "document").Logger()),
		mdv.WithHeadingColor(headingColor),
		mdv.WithFrontMatter(!opts.keepFrontMatter),
	}
	doc, err := loadDocument(ctx, flags.Args(), e.stdin, opts.raw, docOpts)
	if err != nil {
		fmt.Fprintf(e.stderr, "open input: %v\n", err)
		return 1
	}
	if doc.Err() != nil {
		log.Warn().Err(doc.Err()).Msg("showing input unformatted")
	}
	for _, d := range doc.Diagnostics() {
		log.Debug().Stringer("diagnostic", d).Send()
	}

	if opts.key != "" {
		link, ok := doc.Select(key)
		if !ok {
			fmt.Fprintf(e.stderr, "select: %v %q (%d links)\n", errNoLink, key, doc.LinkCount())
			return 1
		}
		fmt.Fprintln(e.stdout, link)
		return 0
	}

	if opts.interactive {
		link, err := interactive(ctx, e.newScreen, doc, logger.With().Str("cmp", "viewer").Logger())
		if err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintf(e.stderr, "interactive: %v\n", err)
			return 1
		}
		if link != "" {
			fmt.Fprintln(e.stdout, link)
		}
		return 0
	}

	writer, closeOut, err := resolveOutput(opts.outPath, e.stdout)
	if err != nil {
		fmt.Fprintf(e.stderr, "open output: %v\n", err)
		return 1
	}
	if closeOut != nil {
		defer func() { _ = closeOut.Close() }()
	}

	renderOpts := []mdv.RenderOption{
		mdv.WithWidth(resolveWidth(opts.widthFlag, writer)),
		mdv.WithLinkIndex(opts.links),
		mdv.WithOSC8(osc8 && !opts.boring),
	}
	if opts.boring || os.Getenv("NO_COLOR") != "" {
		renderOpts = append(renderOpts, mdv.WithColorProfile(termenv.Ascii))
	} else if !isTerminal(writer) {
		renderOpts = append(renderOpts, mdv.WithColorProfile(termenv.ANSI))
	}
	if err := mdv.RenderDocument(writer, doc, renderOpts...); err != nil {
		fmt.Fprintf(e.stderr, "render: %v\n", err)
		return 1
	}
	return 0
}

// mergeFlags fills options the user did not set on the command line from
// the config file.
func mergeFlags(flags *pflag.FlagSet, opts *cliOptions, cfg fileConfig) {
	if !flags.Changed("width") {
		opts.widthFlag = cfg.Width
	}
	if !flags.Changed("osc8") {
		opts.osc8Flag = cfg.OSC8
	}
	if !flags.Changed("heading-color") {
		opts.headingColor = cfg.HeadingColor
	}
	if !flags.Changed("log-level") {
		opts.logLevel = cfg.LogLevel
	}
	if !flags.Changed("links") {
		opts.links = cfg.Links
	}
	if !flags.Changed("boring") {
		opts.boring = cfg.Boring
	}
}

// loadDocument reads every input and parses the concatenation. A single
// HTTP(S) argument is fetched directly.
func loadDocument(ctx context.Context, args []string, stdin io.Reader, raw bool, opts []mdv.Option) (*mdv.Document, error) {
	if len(args) == 1 && !raw && isHTTPURL(args[0]) {
		return mdv.Fetch(ctx, mdv.FetchRequest{URL: strings.TrimSpace(args[0]), Options: opts})
	}
	reader, closer, err := openInputs(ctx, args, stdin)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	src, err := io.ReadAll(io.LimitReader(reader, maxInputBytes))
	if err != nil {
		return nil, err
	}
	if err := mdv.ValidateInput(src); err != nil {
		return nil, err
	}
	if raw {
		return mdv.NewUnparsed(string(src)), nil
	}
	return mdv.New(string(src), opts...), nil
}

func interactive(ctx context.Context, newScreen func() (tcell.Screen, error), doc *mdv.Document, log zerolog.Logger) (string, error) {
	screen, err := newScreen()
	if err != nil {
		return "", err
	}
	if err := screen.Init(); err != nil {
		return "", err
	}
	defer screen.Fini()
	viewer := grid.NewViewer(screen, doc,
		grid.WithLogger(log),
		grid.WithSelectHandler(func(link string) {
			log.Info().Str("link", link).Msg("selected")
		}),
	)
	return viewer.Run(ctx)
}

func parseKey(s string) (rune, error) {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) {
		return 0, fmt.Errorf("expected a single key, got %q", s)
	}
	return r, nil
}

// resolveWidth returns the truncation width: the explicit value, the
// terminal width when w is a terminal, or zero for no truncation.
func resolveWidth(width int, w io.Writer) int {
	if width > 0 {
		return width
	}
	if !isTerminal(w) {
		return 0
	}
	return terminalWidth(w.(*os.File), 0)
}

func terminalWidth(f *os.File, fallback int) int {
	fd := int(f.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	if value := os.Getenv("COLUMNS"); value != "" {
		if w, err := strconv.Atoi(value); err == nil && w > 0 {
			return w
		}
	}
	return fallback
}

func resolveOSC8(mode string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return mdv.DetectOSC8Support(), nil
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	default:
		return false, fmt.Errorf("expected auto|on|off")
	}
}

type inputSource struct {
	open func() (io.Reader, io.Closer, error)
}

type multiInputReader struct {
	sources   []inputSource
	idx       int
	cur       io.Reader
	curCloser io.Closer
	closed    bool
}

func (m *multiInputReader) Read(p []byte) (int, error) {
	for {
		if m.closed {
			return 0, io.EOF
		}
		if m.cur == nil {
			if m.idx >= len(m.sources) {
				m.closed = true
				return 0, io.EOF
			}
			reader, closer, err := m.sources[m.idx].open()
			if err != nil {
				return 0, err
			}
			m.cur = reader
			m.curCloser = closer
			m.idx++
		}
		n, err := m.cur.Read(p)
		if n > 0 {
			return n, nil
		}
		if err == io.EOF {
			if m.curCloser != nil {
				_ = m.curCloser.Close()
			}
			m.cur = nil
			m.curCloser = nil
			continue
		}
		if err != nil {
			return 0, err
		}
	}
}

func (m *multiInputReader) Close() error {
	m.closed = true
	if m.curCloser != nil {
		return m.curCloser.Close()
	}
	return nil
}

func openInputs(ctx context.Context, args []string, stdin io.Reader) (io.Reader, io.Closer, error) {
	if len(args) == 0 {
		return stdin, nil, nil
	}
	sources := make([]inputSource, 0, len(args))
	for _, raw := range args {
		src, err := makeInputSource(ctx, raw)
		if err != nil {
			return nil, nil, err
		}
		sources = append(sources, src)
	}
	m := &multiInputReader{sources: sources}
	return m, m, nil
}

func makeInputSource(ctx context.Context, raw string) (inputSource, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return inputSource{}, fmt.Errorf("empty input argument")
	}
	u, err := url.Parse(raw)
	if err == nil && u.Scheme != "" {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return inputSource{open: func() (io.Reader, io.Closer, error) {
				return openURL(ctx, raw)
			}}, nil
		case "file":
			path := u.Path
			if path == "" {
				path = u.Host
			}
			if unescaped, err := url.PathUnescape(path); err == nil {
				path = unescaped
			}
			return inputSource{open: func() (io.Reader, io.Closer, error) {
				return openFile(path)
			}}, nil
		}
	}
	return inputSource{open: func() (io.Reader, io.Closer, error) {
		return openFile(raw)
	}}, nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

func openURL(ctx context.Context, raw string) (io.Reader, io.Closer, error) {
	body, err := mdv.OpenURL(ctx, raw, nil)
	if err != nil {
		return nil, nil, err
	}
	return body, body, nil
}

func openFile(path string) (io.Reader, io.Closer, error) {
	f, err := os.Open(normalizePath(path))
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func resolveOutput(path string, stdout io.Writer) (io.Writer, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return stdout, nil, nil
	}
	clean := normalizePath(path)
	dir := filepath.Dir(clean)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.Create(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func normalizePath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			if path == "~" {
				path = home
			} else {
				path = filepath.Join(home, path[2:])
			}
		}
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		return abs
	}
	return path
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
