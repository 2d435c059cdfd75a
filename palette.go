package jsonfmt

import (
	"github.com/amterp/color"
)

// SprintfFuncer produces the function used to wrap one kind of token.
// *color.Color implements it; tests and callers with their own markup can
// supply anything else.
type SprintfFuncer interface {
	SprintfFunc() func(format string, a ...interface{}) string
}

// Colors used for a Palette field left nil.
var (
	DefaultCommaColor  = color.New(color.Bold)
	DefaultColonColor  = color.New(color.Bold)
	DefaultObjectColor = color.New(color.Bold) // { }
	DefaultArrayColor  = color.New(color.Bold) // [ ]

	// Object keys, quoted or bare.
	DefaultFieldQuoteColor = color.New(color.FgBlue, color.Bold)
	DefaultFieldColor      = color.New(color.FgBlue, color.Bold)

	DefaultStringQuoteColor = color.New(color.FgGreen)
	DefaultStringColor      = color.New(color.FgGreen)

	// Literals and numbers print uncolored, except null which is dimmed.
	DefaultTrueColor   = color.New()
	DefaultFalseColor  = color.New()
	DefaultNumberColor = color.New()
	DefaultNullColor   = color.New(color.FgBlack, color.Bold)

	// Unquoted text that is not a literal or a number, e.g. identifiers in
	// JSON-like input.
	DefaultContentColor = color.New(color.FgYellow)
)

// Palette selects the color of every kind of token the formatter emits.
// A nil field falls back to the matching Default*Color. A zero Palette{} is
// therefore the default color scheme.
//
// Whether escape codes are actually produced is up to the SprintfFuncer; the
// `color` package suppresses them when color.NoColor is set (for example when
// stdout is not a terminal).
type Palette struct {
	Comma       SprintfFuncer
	Colon       SprintfFuncer
	Object      SprintfFuncer
	Array       SprintfFuncer
	FieldQuote  SprintfFuncer
	Field       SprintfFuncer
	StringQuote SprintfFuncer
	String      SprintfFuncer
	True        SprintfFuncer
	False       SprintfFuncer
	Number      SprintfFuncer
	Null        SprintfFuncer
	Content     SprintfFuncer
}

// DefaultPalette returns a Palette that uses the package default colors.
func DefaultPalette() *Palette {
	return &Palette{}
}

func pick(c, fallback SprintfFuncer) SprintfFuncer {
	if c != nil {
		return c
	}
	return fallback
}

type sprintfFunc func(format string, a ...interface{}) string

// sprinters holds every color resolved once per format call.
type sprinters struct {
	comma       sprintfFunc
	colon       sprintfFunc
	object      sprintfFunc
	array       sprintfFunc
	fieldQuote  sprintfFunc
	field       sprintfFunc
	stringQuote sprintfFunc
	str         sprintfFunc
	trueLit     sprintfFunc
	falseLit    sprintfFunc
	number      sprintfFunc
	null        sprintfFunc
	content     sprintfFunc
}

func (p *Palette) sprinters() *sprinters {
	return &sprinters{
		comma:       pick(p.Comma, DefaultCommaColor).SprintfFunc(),
		colon:       pick(p.Colon, DefaultColonColor).SprintfFunc(),
		object:      pick(p.Object, DefaultObjectColor).SprintfFunc(),
		array:       pick(p.Array, DefaultArrayColor).SprintfFunc(),
		fieldQuote:  pick(p.FieldQuote, DefaultFieldQuoteColor).SprintfFunc(),
		field:       pick(p.Field, DefaultFieldColor).SprintfFunc(),
		stringQuote: pick(p.StringQuote, DefaultStringQuoteColor).SprintfFunc(),
		str:         pick(p.String, DefaultStringColor).SprintfFunc(),
		trueLit:     pick(p.True, DefaultTrueColor).SprintfFunc(),
		falseLit:    pick(p.False, DefaultFalseColor).SprintfFunc(),
		number:      pick(p.Number, DefaultNumberColor).SprintfFunc(),
		null:        pick(p.Null, DefaultNullColor).SprintfFunc(),
		content:     pick(p.Content, DefaultContentColor).SprintfFunc(),
	}
}
