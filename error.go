package jsonfmt

import "fmt"

var (
	// Base error; every error returned by jsonfmt wraps this
	Err = fmt.Errorf("jsonfmt error")

	ErrInvalidConfig = fmt.Errorf("invalid configuration (%w)", Err)

	// Base malformed input error
	ErrMalformed = fmt.Errorf("malformed input (%w)", Err)

	// Specific malformed input errors
	ErrDepthExceeded       = fmt.Errorf("maximum depth exceeded (%w)", ErrMalformed)
	ErrUnbalancedStructure = fmt.Errorf("unbalanced structure (%w)", ErrMalformed)
	ErrUnterminatedString  = fmt.Errorf("unterminated string (%w)", ErrMalformed)
)

// ScanError reports where in the input a format call gave up.
// Offset counts characters (runes), not bytes. Line and Column are 1-based.
type ScanError struct {
	Err    error
	Offset int
	Line   int
	Column int
	Depth  int
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d (depth %d)", e.Err, e.Line, e.Column, e.Depth)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}
