package indent

import (
	"errors"
	"fmt"
)

// ErrInvalidTabWidth is returned for a tab width that is not positive.
var ErrInvalidTabWidth = errors.New("indent: tab width must be positive")

// InvariantError reports a broken engine invariant. It always means a defect in
// this package, never bad input; the line is left untouched by the caller.
type InvariantError struct {
	Op     string // "segment", "align" or "emit"
	Offset int    // rune offset of the chunk in the line
	Column int    // emission column or computed column
	Target int    // target column that was rejected
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("indent: %s invariant violated at offset %d (column %d, target %d): %s",
		e.Op, e.Offset, e.Column, e.Target, e.Reason)
}

// LineError attaches a 1-based line number to a transform failure.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
