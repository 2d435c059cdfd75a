package jsonfmt

import (
	"fmt"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// CheckResult describes how an input differs from its formatted form.
type CheckResult struct {
	Name      string
	Formatted bool   // Input is byte-identical to its formatted form.
	Output    string // Formatted form of the input.
	Diff      string // Unified diff from input to Output; empty when Formatted.
	Stats     Stats
}

// Check formats input with f (DefaultFormatter when nil) and compares the
// result to the input. Colors are never applied to a check.
func Check(name, input string, f *Formatter) (*CheckResult, error) {
	if f == nil {
		f = DefaultFormatter
	}

	plain := *f
	plain.Palette = nil

	output, stats, err := plain.Format(input)
	if err != nil {
		return nil, fmt.Errorf("failed to format %s: %w", name, err)
	}

	result := &CheckResult{
		Name:      name,
		Formatted: output == input,
		Output:    output,
		Stats:     stats,
	}

	if !result.Formatted {
		edits := myers.ComputeEdits(span.URIFromPath(name), input, output)
		result.Diff = fmt.Sprint(gotextdiff.ToUnified(name, name+" (formatted)", input, edits))
	}

	return result, nil
}
