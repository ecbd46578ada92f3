package jsonstream

import (
	"fmt"

	goerrors "github.com/go-errors/errors"
)

// ParseError reports a grammatical violation, or (once the caller has
// signaled end-of-input) a truncated document. Offset is the absolute byte
// offset at which the problem was detected; Line and Column are -1 when
// unknown.
type ParseError struct {
	Message string
	Offset  int
	Line    int
	Column  int
}

func (e *ParseError) Error() string {
	if e.Line < 0 {
		return fmt.Sprintf("jsonstream: %s (offset %d)", e.Message, e.Offset)
	}
	return fmt.Sprintf("jsonstream: %s (offset %d, line %d, column %d)", e.Message, e.Offset, e.Line, e.Column)
}

func newParseError(msg string, offset, line, col int) *ParseError {
	return &ParseError{Message: msg, Offset: offset, Line: line, Column: col}
}

// internalError marks a violated invariant (an empty frame stack popped, a
// builder returning a nil frame, ...) rather than a malformed document.
// These are fatal: they abort parsing instead of being reported as a
// recoverable ParseError. go-errors/errors attaches a stack trace to the
// panic value, the way yaoapp/gou/query/gou wraps its DSL validation
// errors, so whoever catches the panic can tell where the invariant
// actually broke.
func internalError(format string, args ...any) error {
	return goerrors.Errorf("jsonstream: internal invariant violated: "+format, args...)
}
