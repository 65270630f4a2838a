package catenary

import (
	"errors"
	"fmt"
)

// Error kinds returned by the engine. Match them with errors.Is.
var (
	ErrMissingParameter = errors.New("missing parameter")
	ErrDomain           = errors.New("parameter out of range")
	ErrGeometry         = errors.New("invalid line geometry")
	ErrDegenerateInput  = errors.New("degenerate input")
)

// InputError carries the offending field alongside the error kind.
type InputError struct {
	Kind   error
	Field  string
	Reason string
}

func NewInputError(kind error, field, reason string) *InputError {
	return &InputError{Kind: kind, Field: field, Reason: reason}
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("%v: %s %s", e.Kind, e.Field, e.Reason)
}

func (e *InputError) Unwrap() error { return e.Kind }

// KindName returns a stable identifier for the error kind of err, or "" when
// err did not come from the engine.
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrMissingParameter):
		return "missing_parameter"
	case errors.Is(err, ErrDomain):
		return "domain"
	case errors.Is(err, ErrGeometry):
		return "geometry"
	case errors.Is(err, ErrDegenerateInput):
		return "degenerate_input"
	default:
		return ""
	}
}
