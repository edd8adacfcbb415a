package errs

import (
	"errors"
	"fmt"
)

// Kind is the classification of a console error.
type Kind int

const (
	// Construction is an invalid argument at variable-definition time.
	Construction Kind = iota + 1
	// Parse is a malformed inbound value.
	Parse
	// Lookup is an unknown variable or action id/name.
	Lookup
	// BridgeCall is a fault raised by a native host call.
	BridgeCall
	// Persistence is an I/O failure while saving or loading the store.
	Persistence
)

// String returns the name used in log attributes.
func (k Kind) String() string {
	switch k {
	case Construction:
		return "construction"
	case Parse:
		return "parse"
	case Lookup:
		return "lookup"
	case BridgeCall:
		return "bridge_call"
	case Persistence:
		return "persistence"
	default:
		return "unknown"
	}
}

// Error is a classified error with the operation that produced it.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// E wraps err with a kind and operation. A nil err yields nil.
func E(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf builds a classified error from a format string.
func Errorf(kind Kind, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// Is reports whether any error in err's chain is classified as kind.
func Is(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if !errors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Err
	}
	return false
}

// KindOf returns the outermost classification of err, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
