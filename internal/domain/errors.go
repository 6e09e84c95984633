package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidParameters is returned (wrapped) whenever a parameter set cannot
// be projected.
var ErrInvalidParameters = errors.New("invalid parameters")

// ErrUnknownTarget is returned (wrapped) for adjustment targets outside the
// supported set.
var ErrUnknownTarget = errors.New("unknown adjustment target")

// ParameterError names the offending field of an invalid parameter set.
type ParameterError struct {
	Field  string
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidParameters, e.Field, e.Reason)
}

func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameters
}

func newParameterError(field, format string, args ...any) error {
	return &ParameterError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func unknownTarget(target AdjustmentTarget, kind string) error {
	return fmt.Errorf("%w: %q is not a %s target", ErrUnknownTarget, string(target), kind)
}
