package jsonfmt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Marshal works like encoding/json.Marshal but re-indents the result using
// DefaultFormatter. The output ends with a newline.
func Marshal(v interface{}) ([]byte, error) {
	return MarshalWithFormatter(v, DefaultFormatter)
}

// MarshalWithFormatter works like Marshal but uses the provided Formatter `f`.
// HTML characters are always escaped, as encoding/json.Marshal does. To
// disable HTML escaping, use an Encoder and call SetEscapeHTML(false) on it.
func MarshalWithFormatter(v interface{}, f *Formatter) ([]byte, error) {
	var buf bytes.Buffer

	enc := NewEncoderWithFormatter(&buf, f)
	enc.SetEscapeHTML(true)

	err := enc.Encode(v)
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Encoder works like encoding/json.Encoder but writes re-indented (and
// optionally colorized) output to the underlying stream.
type Encoder struct {
	w          io.Writer
	f          *Formatter
	escapeHTML bool
}

// NewEncoder creates a new Encoder that writes to `w` using DefaultFormatter.
func NewEncoder(w io.Writer) *Encoder {
	return NewEncoderWithFormatter(w, DefaultFormatter)
}

// NewEncoderWithFormatter creates a new Encoder that writes to `w` using the
// provided Formatter `f`. The formatter is copied, so later SetIndent calls
// do not affect the caller's value. HTML escaping is enabled by default.
func NewEncoderWithFormatter(w io.Writer, f *Formatter) *Encoder {
	if f == nil {
		panic("jsonfmt: cannot create Encoder with a nil Formatter")
	}

	g := *f

	return &Encoder{
		w:          w,
		f:          &g,
		escapeHTML: true,
	}
}

// SetIndent sets the number of spaces per nesting level.
func (enc *Encoder) SetIndent(width int) {
	enc.f.IndentWidth = width
}

// SetEscapeHTML controls whether <, > and & inside strings are written as
// \u escapes. It is on unless turned off here.
func (enc *Encoder) SetEscapeHTML(on bool) {
	enc.escapeHTML = on
}

// Encode writes the re-indented JSON encoding of `v`, followed by a newline.
func (enc *Encoder) Encode(v interface{}) error {
	var buf bytes.Buffer

	je := json.NewEncoder(&buf)
	je.SetEscapeHTML(enc.escapeHTML)

	err := je.Encode(v)
	if err != nil {
		return fmt.Errorf("jsonfmt: failed to marshal input to standard JSON: %w", err)
	}

	_, err = enc.f.FormatTo(enc.w, buf.Bytes())
	if err != nil {
		return fmt.Errorf("jsonfmt: failed to format JSON: %w", err)
	}

	return nil
}
