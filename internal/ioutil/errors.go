// Package ioutil provides the low-level reading and error-wrapping
// primitives shared by every layer of the IDB/ELF pipeline.
package ioutil

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Compare with errors.Is after unwrapping a
// *SymError returned by a parsing function.
var (
	ErrMalformedContainer    = errors.New("malformed container")
	ErrUnsupportedCompression = errors.New("unsupported compression")
	ErrMissingSection        = errors.New("missing section")
	ErrMalformedPage         = errors.New("malformed page")
	ErrMalformedPack         = errors.New("malformed packed value")
	ErrUnknownNode           = errors.New("unknown node")
	ErrNoName                = errors.New("no name")
	ErrNoEntry               = errors.New("no entry")
	ErrDuplicateHead         = errors.New("duplicate head chunk")
	ErrNoMatchingSection     = errors.New("no matching section")
	ErrIoFailure             = errors.New("io failure")
)

// SymError is a contextual error carrying the sentinel kind it wraps.
type SymError struct {
	Context string
	Kind    error
	Cause   error
}

// Error implements the error interface.
func (e *SymError) Error() string {
	if e.Cause != nil && e.Cause != e.Kind {
		return fmt.Sprintf("%s: %v: %v", e.Context, e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Context, e.Kind)
}

// Unwrap exposes the sentinel kind so errors.Is(err, ErrMalformedPage) works.
func (e *SymError) Unwrap() error {
	return e.Kind
}

// Wrap builds a SymError for the given sentinel kind and context.
func Wrap(context string, kind error, cause error) error {
	if kind == nil {
		kind = cause
	}
	return &SymError{Context: context, Kind: kind, Cause: cause}
}
