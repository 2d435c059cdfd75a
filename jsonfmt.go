package jsonfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/exp/utf8string"
)

const (
	// DefaultIndentWidth is the number of spaces per nesting level.
	DefaultIndentWidth = 4
	// DefaultMaxDepth is the deepest nesting a format call accepts.
	DefaultMaxDepth = 32

	// maxIndent bounds the indentation of the deepest allowed line,
	// IndentWidth*MaxDepth.
	maxIndent = 1 << 20
)

// Config controls one format call.
type Config struct {
	// IndentWidth is the number of spaces per nesting level. Zero is valid and
	// puts every token at the start of its line.
	IndentWidth int
	// MaxDepth is the deepest nesting accepted. Input nested MaxDepth levels
	// formats; one more level fails with ErrDepthExceeded. Zero means
	// DefaultMaxDepth.
	//
	// IndentWidth*MaxDepth is capped at 1<<20 spaces.
	MaxDepth int
}

// DefaultConfig returns the configuration used by DefaultFormatter.
func DefaultConfig() Config {
	return Config{
		IndentWidth: DefaultIndentWidth,
		MaxDepth:    DefaultMaxDepth,
	}
}

// Validate reports whether the configuration can be used for formatting.
func (c Config) Validate() error {
	_, err := c.normalize()
	return err
}

func (c Config) normalize() (Config, error) {
	if c.IndentWidth < 0 {
		return c, fmt.Errorf("indent width %d is negative: %w", c.IndentWidth, ErrInvalidConfig)
	}

	if c.MaxDepth < 0 {
		return c, fmt.Errorf("max depth %d is negative: %w", c.MaxDepth, ErrInvalidConfig)
	}

	if c.MaxDepth == 0 {
		c.MaxDepth = DefaultMaxDepth
	}

	if c.IndentWidth > 0 && c.MaxDepth > maxIndent/c.IndentWidth {
		return c, fmt.Errorf("indent width %d at max depth %d exceeds %d spaces: %w", c.IndentWidth, c.MaxDepth, maxIndent, ErrInvalidConfig)
	}

	return c, nil
}

// Stats describes a completed format call.
type Stats struct {
	MaxNesting int // Deepest nesting level observed.
	Chars      int // Input length in characters.
	Bytes      int // Output length in bytes.
	Lines      int // Output line count.
}

// DefaultFormatter formats with DefaultConfig and no colors. Marshal and
// NewEncoder use it.
var DefaultFormatter = &Formatter{Config: DefaultConfig()}

// Formatter re-indents JSON-like text. It holds only configuration, so one
// Formatter may be used from many goroutines at once.
type Formatter struct {
	Config

	// Palette colors the output. Nil means plain text.
	Palette *Palette
}

// NewFormatter creates a plain-text Formatter for cfg.
func NewFormatter(cfg Config) *Formatter {
	return &Formatter{Config: cfg}
}

// Format re-indents input according to cfg without colors.
func Format(input string, cfg Config) (string, error) {
	out, _, err := NewFormatter(cfg).Format(input)
	return out, err
}

// Format re-indents input. The input is not validated as JSON: only braces,
// brackets, commas, colons and string literals affect layout, and all other
// non-whitespace characters are copied through unchanged.
//
// On failure no output is returned; the error wraps one of ErrDepthExceeded,
// ErrUnbalancedStructure or ErrUnterminatedString inside a *ScanError, or
// ErrInvalidConfig.
func (f *Formatter) Format(input string) (string, Stats, error) {
	cfg, err := f.Config.normalize()
	if err != nil {
		return "", Stats{}, err
	}

	fs := newFormatterState(cfg, f.Palette)

	err = fs.format(utf8string.NewString(input))
	if err != nil {
		return "", Stats{}, err
	}

	return fs.out.String(), fs.stats, nil
}

// FormatTo formats src and writes the result to dst. Nothing is written when
// formatting fails.
func (f *Formatter) FormatTo(dst io.Writer, src []byte) (Stats, error) {
	out, stats, err := f.Format(string(src))
	if err != nil {
		return stats, err
	}

	_, err = io.WriteString(dst, out)
	if err != nil {
		return stats, fmt.Errorf("jsonfmt: failed to write output: %w", err)
	}

	return stats, nil
}

// frame is one open object or array.
type frame struct {
	object bool // True for {...}, false for [...].
	field  bool // Inside an object, true once the colon after a key is seen.
}

// expectingKey returns true if the next token inside an object is a key.
func (f *frame) expectingKey() bool {
	if f == nil {
		return false
	}
	return f.object && !f.field
}

func (f *frame) setField(field bool) {
	if f == nil {
		return
	}
	f.field = field
}

// formatterState holds the transient state of one format call.
type formatterState struct {
	indentWidth int
	maxDepth    int
	indent      string   // Cached run of spaces; sliced per nesting level.
	frames      []*frame // Open structures; len(frames) is the nesting depth.
	pending     bool     // The next token must start on a fresh indented line.
	out         strings.Builder
	stats       Stats

	// Pre-bound printing functions, plain or colored depending on the Palette.
	printComma   func()
	printColon   func()
	printDelim   func(c rune)
	printString  func(lit string, key bool)
	printContent func(tok string, key bool)
}

func newFormatterState(cfg Config, p *Palette) *formatterState {
	fs := &formatterState{
		indentWidth: cfg.IndentWidth,
		maxDepth:    cfg.MaxDepth,
	}

	if p == nil {
		fs.printComma = func() {
			fs.out.WriteByte(',')
		}
		fs.printColon = func() {
			fs.out.WriteString(": ")
		}
		fs.printDelim = func(c rune) {
			fs.out.WriteRune(c)
		}
		fs.printString = func(lit string, _ bool) {
			fs.out.WriteString(lit)
		}
		fs.printContent = func(tok string, _ bool) {
			fs.out.WriteString(tok)
		}
		return fs
	}

	sp := p.sprinters()

	fs.printComma = func() {
		fs.out.WriteString(sp.comma(","))
	}
	fs.printColon = func() {
		fs.out.WriteString(sp.colon(":"))
		fs.out.WriteByte(' ')
	}
	fs.printDelim = func(c rune) {
		if c == '{' || c == '}' {
			fs.out.WriteString(sp.object("%c", c))
		} else {
			fs.out.WriteString(sp.array("%c", c))
		}
	}
	fs.printString = func(lit string, key bool) {
		quote, text := sp.stringQuote, sp.str
		if key {
			quote, text = sp.fieldQuote, sp.field
		}
		// Color the quotes apart from the text; the text itself is untouched.
		fs.out.WriteString(quote(`"`))
		fs.out.WriteString(text("%s", lit[1:len(lit)-1]))
		fs.out.WriteString(quote(`"`))
	}
	fs.printContent = func(tok string, key bool) {
		sprintf := sp.content
		switch {
		case key:
			sprintf = sp.field
		case tok == "true":
			sprintf = sp.trueLit
		case tok == "false":
			sprintf = sp.falseLit
		case tok == "null":
			sprintf = sp.null
		case isNumber(tok):
			sprintf = sp.number
		}
		fs.out.WriteString(sprintf("%s", tok))
	}

	return fs
}

func isNumber(tok string) bool {
	switch tok[0] {
	case '-', '+', '.', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
	default:
		return false
	}
	_, err := strconv.ParseFloat(tok, 64)
	return err == nil
}

// frame returns the innermost open frame, or nil at the top level.
func (fs *formatterState) frame() *frame {
	if len(fs.frames) == 0 {
		return nil
	}
	return fs.frames[len(fs.frames)-1]
}

func (fs *formatterState) depth() int {
	return len(fs.frames)
}

func (fs *formatterState) enterFrame(c rune) {
	fs.frames = append(fs.frames, &frame{object: c == '{'})
	if fs.depth() > fs.stats.MaxNesting {
		fs.stats.MaxNesting = fs.depth()
	}
}

func (fs *formatterState) leaveFrame() {
	fs.frames = fs.frames[:len(fs.frames)-1]
}

// newline starts a fresh line indented for the current depth.
func (fs *formatterState) newline() {
	fs.out.WriteByte('\n')

	n := fs.depth() * fs.indentWidth
	if n == 0 {
		return
	}
	if len(fs.indent) < n {
		fs.indent = strings.Repeat(" ", 2*n)
	}
	fs.out.WriteString(fs.indent[:n])
}

// breakLine emits the pending newline, if any.
func (fs *formatterState) breakLine() {
	if !fs.pending {
		return
	}
	fs.newline()
	fs.pending = false
}

func (fs *formatterState) format(src *utf8string.String) error {
	n := src.RuneCount()
	fs.stats.Chars = n

	for i := 0; i < n; i++ {
		c := src.At(i)

		switch c {
		case '{', '[':
			fs.breakLine()
			fs.printDelim(c)
			fs.enterFrame(c)
			fs.pending = true
			// MaxDepth counts accepted levels; only the level after it fails.
			if fs.depth() > fs.maxDepth {
				return fs.scanError(src, i, ErrDepthExceeded)
			}

		case '}', ']':
			if fs.depth() == 0 {
				return fs.scanError(src, i, ErrUnbalancedStructure)
			}
			// Closers always start their own line.
			fs.leaveFrame()
			fs.newline()
			fs.printDelim(c)

		case ',':
			fs.printComma()
			fs.pending = true
			fs.frame().setField(false)

		case ':':
			fs.printColon()
			fs.pending = false
			fs.frame().setField(true)

		case '"':
			end, ok := stringEnd(src, i)
			if !ok {
				return fs.scanError(src, i, ErrUnterminatedString)
			}
			fs.breakLine()
			fs.printString(src.Slice(i, end+1), fs.frame().expectingKey())
			i = end

		case ' ', '\t', '\n', '\r':

		default:
			end := contentEnd(src, i)
			fs.breakLine()
			fs.printContent(src.Slice(i, end), fs.frame().expectingKey())
			i = end - 1
		}
	}

	if fs.out.Len() > 0 && !strings.HasSuffix(fs.out.String(), "\n") {
		fs.out.WriteByte('\n')
	}

	fs.stats.Bytes = fs.out.Len()
	fs.stats.Lines = strings.Count(fs.out.String(), "\n")

	return nil
}

// stringEnd returns the index of the quote closing the literal that opens at
// start. A backslash always consumes the following character.
func stringEnd(src *utf8string.String, start int) (int, bool) {
	n := src.RuneCount()
	for i := start + 1; i < n; i++ {
		switch src.At(i) {
		case '\\':
			i++
		case '"':
			return i, true
		}
	}
	return 0, false
}

// contentEnd returns the index just past the run of content characters that
// starts at start.
func contentEnd(src *utf8string.String, start int) int {
	n := src.RuneCount()
	i := start + 1
	for i < n && !isBoundary(src.At(i)) {
		i++
	}
	return i
}

func isBoundary(c rune) bool {
	switch c {
	case '{', '}', '[', ']', ',', ':', '"', ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

func (fs *formatterState) scanError(src *utf8string.String, offset int, err error) error {
	line, col := 1, 1
	for i := 0; i < offset; i++ {
		if src.At(i) == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}

	return &ScanError{
		Err:    err,
		Offset: offset,
		Line:   line,
		Column: col,
		Depth:  fs.depth(),
	}
}
