package jsonfmt_test

import (
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/amterp/jsonfmt"
	"github.com/stretchr/testify/require"
)

const sample = `{ "key": "value", "list1": [1, 2, 3, 4], "list2": ["a", "b", "c", "d"] }`

// corpus is formatted by the property tests below.
var corpus = []string{
	sample,
	`{"a":{"b":{"c":[1,[2,[3]]]}}}`,
	`[]`,
	`{}`,
	`{"a":{},"b":[],"c":[{}]}`,
	`{"s": "with spaces\tand \"quotes\" and \\ backslash"}`,
	`{a: 007, b: [1,2,],}`,
	`["ключ", "😀", {"ü": "ñ"}]`,
	"{\r\n  \"crlf\": true\r\n}\r\n",
	`1 2 3`,
	`"top" "level"`,
	`[true,false,null,-1.5e10,"x"]`,
}

// squeeze removes whitespace outside string literals.
func squeeze(s string) string {
	var b strings.Builder
	inString, escaped := false, false

	for _, r := range s {
		switch {
		case inString:
			b.WriteRune(r)
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
		case r == '"':
			inString = true
			b.WriteRune(r)
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}

func TestFormatSample(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		indent int
		want   string
	}{
		{
			name:   "indent4",
			indent: 4,
			want: `{
    "key": "value",
    "list1": [
        1,
        2,
        3,
        4
    ],
    "list2": [
        "a",
        "b",
        "c",
        "d"
    ]
}
`,
		},
		{
			name:   "indent2",
			indent: 2,
			want: `{
  "key": "value",
  "list1": [
    1,
    2,
    3,
    4
  ],
  "list2": [
    "a",
    "b",
    "c",
    "d"
  ]
}
`,
		},
		{
			name:   "indent0",
			indent: 0,
			want:   "{\n\"key\": \"value\",\n\"list1\": [\n1,\n2,\n3,\n4\n],\n\"list2\": [\n\"a\",\n\"b\",\n\"c\",\n\"d\"\n]\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := jsonfmt.Format(sample, jsonfmt.Config{IndentWidth: tt.indent, MaxDepth: 32})
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestFormatLayout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"EmptyObject", `{}`, "{\n}\n"},
		{"EmptyArray", `[ ]`, "[\n]\n"},
		{"NestedEmpty", `{"a":{}}`, "{\n    \"a\": {\n    }\n}\n"},
		{"EmptyInArray", `[{}]`, "[\n    {\n    }\n]\n"},
		{"Scalar", `42`, "42\n"},
		{"ContentRuns", `1 2 3`, "123\n"},
		{"ColonSpacing", `{"a"   :    1}`, "{\n    \"a\": 1\n}\n"},
		{"TrailingWhitespace", "[1] \n\n\t", "[\n    1\n]\n"},
		{"CarriageReturn", "[1,\r\n2]\r\n", "[\n    1,\n    2\n]\n"},
		{"MismatchedCloser", `{1]`, "{\n    1\n]\n"},
		{
			name:  "Tolerant",
			input: `{a: 007, b: [1,2,],}`,
			want:  "{\n    a: 007,\n    b: [\n        1,\n        2,\n    ],\n}\n",
		},
		{
			name:  "Unicode",
			input: `{"ключ":"значение",emoji:😀}`,
			want:  "{\n    \"ключ\": \"значение\",\n    emoji: 😀\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := jsonfmt.Format(tt.input, jsonfmt.DefaultConfig())
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestFormatEmpty(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", " ", "\n\t \r\n"} {
		got, err := jsonfmt.Format(input, jsonfmt.DefaultConfig())
		require.NoError(t, err)
		require.Equal(t, "", got)
	}
}

func TestFormatIdempotent(t *testing.T) {
	t.Parallel()

	for _, indent := range []int{0, 2, 4} {
		cfg := jsonfmt.Config{IndentWidth: indent, MaxDepth: 32}

		for _, input := range corpus {
			once, err := jsonfmt.Format(input, cfg)
			require.NoError(t, err, input)

			twice, err := jsonfmt.Format(once, cfg)
			require.NoError(t, err, input)
			require.Equal(t, once, twice, input)
		}
	}
}

func TestFormatPreservesContent(t *testing.T) {
	t.Parallel()

	for _, input := range corpus {
		got, err := jsonfmt.Format(input, jsonfmt.DefaultConfig())
		require.NoError(t, err, input)
		require.Equal(t, squeeze(input), squeeze(got), input)
	}
}

func TestFormatTrailingNewline(t *testing.T) {
	t.Parallel()

	for _, input := range corpus {
		got, err := jsonfmt.Format(input+" \n\n", jsonfmt.DefaultConfig())
		require.NoError(t, err, input)
		require.True(t, strings.HasSuffix(got, "\n"), input)
		require.False(t, strings.HasSuffix(got, "\n\n"), input)
	}
}

func TestFormatStringPassthrough(t *testing.T) {
	t.Parallel()

	literals := []string{
		`"plain"`,
		`"  spaced   out  "`,
		`"tab	inside"`,
		`"escaped \"quote\""`,
		`"escaped \\ backslash"`,
		`"ends with backslash \\"`,
		`"structural {}[],: inside"`,
		`"unicode é é 😀"`,
		`"invalid \q escape kept"`,
		"\"raw\nnewline\"",
	}

	for _, lit := range literals {
		got, err := jsonfmt.Format(`{"k": `+lit+`}`, jsonfmt.DefaultConfig())
		require.NoError(t, err, lit)
		require.Equal(t, "{\n    \"k\": "+lit+"\n}\n", got)
	}
}

func TestFormatDepthCeiling(t *testing.T) {
	t.Parallel()

	for _, depth := range []int{1, 3, 32} {
		cfg := jsonfmt.Config{IndentWidth: 4, MaxDepth: depth}

		ok := strings.Repeat("[", depth) + "1" + strings.Repeat("]", depth)
		_, err := jsonfmt.Format(ok, cfg)
		require.NoError(t, err, depth)

		tooDeep := "[" + ok + "]"
		_, err = jsonfmt.Format(tooDeep, cfg)
		require.ErrorIs(t, err, jsonfmt.ErrDepthExceeded)
		require.ErrorIs(t, err, jsonfmt.ErrMalformed)
		require.ErrorIs(t, err, jsonfmt.Err)

		var scanErr *jsonfmt.ScanError
		require.True(t, errors.As(err, &scanErr))
		require.Equal(t, depth, scanErr.Offset)
		require.Equal(t, depth+1, scanErr.Depth)
		require.Equal(t, 1, scanErr.Line)
		require.Equal(t, depth+1, scanErr.Column)
	}
}

func TestFormatDefaultDepth(t *testing.T) {
	t.Parallel()

	// A zero MaxDepth means DefaultMaxDepth.
	cfg := jsonfmt.Config{IndentWidth: 1}

	ok := strings.Repeat("{", jsonfmt.DefaultMaxDepth) + strings.Repeat("}", jsonfmt.DefaultMaxDepth)
	_, err := jsonfmt.Format(ok, cfg)
	require.NoError(t, err)

	_, err = jsonfmt.Format("["+ok+"]", cfg)
	require.ErrorIs(t, err, jsonfmt.ErrDepthExceeded)
}

func TestFormatUnbalanced(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		offset int
		line   int
		column int
	}{
		{`}`, 0, 1, 1},
		{`]`, 0, 1, 1},
		{"[1]\n]", 4, 2, 1},
		{`{"a": [1]]}`, 10, 1, 11},
	}

	for _, tt := range tests {
		out, err := jsonfmt.Format(tt.input, jsonfmt.DefaultConfig())
		require.ErrorIs(t, err, jsonfmt.ErrUnbalancedStructure, tt.input)
		require.Empty(t, out)

		var scanErr *jsonfmt.ScanError
		require.True(t, errors.As(err, &scanErr))
		require.Equal(t, tt.offset, scanErr.Offset, tt.input)
		require.Equal(t, tt.line, scanErr.Line, tt.input)
		require.Equal(t, tt.column, scanErr.Column, tt.input)
		require.Equal(t, 0, scanErr.Depth, tt.input)
	}
}

func TestFormatUnterminatedString(t *testing.T) {
	t.Parallel()

	for _, input := range []string{`"`, `{"a`, `["a\"]`, `"trailing backslash\`} {
		out, err := jsonfmt.Format(input, jsonfmt.DefaultConfig())
		require.ErrorIs(t, err, jsonfmt.ErrUnterminatedString, input)
		require.Empty(t, out)
		require.Contains(t, err.Error(), "unterminated string")
	}
}

func TestFormatInvalidConfig(t *testing.T) {
	t.Parallel()

	for _, cfg := range []jsonfmt.Config{
		{IndentWidth: -1, MaxDepth: 32},
		{IndentWidth: 4, MaxDepth: -1},
		{IndentWidth: 1 << 62, MaxDepth: 32},
		{IndentWidth: math.MaxInt, MaxDepth: 1},
		{IndentWidth: 4, MaxDepth: math.MaxInt},
		{IndentWidth: 1 << 16},
	} {
		require.ErrorIs(t, cfg.Validate(), jsonfmt.ErrInvalidConfig)

		_, err := jsonfmt.Format(sample, cfg)
		require.ErrorIs(t, err, jsonfmt.ErrInvalidConfig)
	}

	require.NoError(t, jsonfmt.DefaultConfig().Validate())
	require.NoError(t, jsonfmt.Config{}.Validate())
	require.NoError(t, jsonfmt.Config{IndentWidth: 0, MaxDepth: math.MaxInt}.Validate())
	require.NoError(t, jsonfmt.Config{IndentWidth: 1 << 15, MaxDepth: 32}.Validate())
}

func TestFormatWideIndent(t *testing.T) {
	t.Parallel()

	got, err := jsonfmt.Format(`[[1]]`, jsonfmt.Config{IndentWidth: 1 << 15, MaxDepth: 32})
	require.NoError(t, err)
	require.Equal(t, 5, strings.Count(got, "\n"))
	require.Contains(t, got, "\n"+strings.Repeat(" ", 2<<15)+"1\n")
}

func TestFormatStats(t *testing.T) {
	t.Parallel()

	out, stats, err := jsonfmt.DefaultFormatter.Format(sample)
	require.NoError(t, err)
	require.Equal(t, 2, stats.MaxNesting)
	require.Equal(t, len(sample), stats.Chars)
	require.Equal(t, len(out), stats.Bytes)
	require.Equal(t, 15, stats.Lines)

	_, stats, err = jsonfmt.DefaultFormatter.Format(`["😀"]`)
	require.NoError(t, err)
	require.Equal(t, 5, stats.Chars)
	require.Equal(t, 1, stats.MaxNesting)
}

func TestFormatTo(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	stats, err := jsonfmt.DefaultFormatter.FormatTo(&buf, []byte(`[1]`))
	require.NoError(t, err)
	require.Equal(t, "[\n    1\n]\n", buf.String())
	require.Equal(t, 3, stats.Lines)

	buf.Reset()
	_, err = jsonfmt.DefaultFormatter.FormatTo(&buf, []byte(`[1]]`))
	require.ErrorIs(t, err, jsonfmt.ErrUnbalancedStructure)
	require.Empty(t, buf.String())
}

func TestFormatConcurrent(t *testing.T) {
	t.Parallel()

	want, err := jsonfmt.Format(sample, jsonfmt.DefaultConfig())
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]string, 16)

	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _, _ = jsonfmt.DefaultFormatter.Format(sample)
		}()
	}

	wg.Wait()

	for _, got := range results {
		require.Equal(t, want, got)
	}
}
