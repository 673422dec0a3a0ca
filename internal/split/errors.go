package split

import (
	"errors"
	"fmt"
)

// Kind classifies how a failure affects the run.
type Kind int

const (
	// Recoverable failures are reported and the run continues with a default.
	Recoverable Kind = iota
	// Fatal failures stop the run.
	Fatal
)

func (k Kind) String() string {
	switch k {
	case Recoverable:
		return "recoverable"
	case Fatal:
		return "fatal"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is a classified failure of one step of a split run.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err carries a Fatal classification.
// Unclassified errors are treated as fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Kind == Fatal
	}
	return true
}

func fatal(op string, err error) error {
	return &Error{Kind: Fatal, Op: op, Err: err}
}

func recoverable(op string, err error) error {
	return &Error{Kind: Recoverable, Op: op, Err: err}
}
