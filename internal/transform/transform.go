package transform

import (
	"fmt"

	"github.com/webxl/inflation-planner/internal/domain"
)

// ParameterTransform defines the interface for all parameter transformations.
// Transforms are composable operations that modify a parameter set in
// predictable ways, enabling what-if comparison and shortfall corrections.
type ParameterTransform interface {
	// Apply returns a modified copy of base.
	Apply(base domain.ProjectionParameters) (domain.ProjectionParameters, error)

	// Name returns a short identifier for this transform (e.g., "postpone_withdrawal").
	Name() string

	// Description returns a human-readable description of what this transform does.
	Description() string

	// Validate checks if the transform can be applied to base without applying it.
	Validate(base domain.ProjectionParameters) error
}

// ApplyTransforms applies a sequence of transforms to base.
// Transforms are applied in order, with each transform receiving the output of the previous one.
// The result is validated as a whole once every transform has run.
func ApplyTransforms(base domain.ProjectionParameters, transforms []ParameterTransform) (domain.ProjectionParameters, error) {
	current := base

	for i, transform := range transforms {
		if transform == nil {
			return base, fmt.Errorf("transform at index %d is nil", i)
		}

		if err := transform.Validate(current); err != nil {
			return base, fmt.Errorf("transform %s validation failed: %w", transform.Name(), err)
		}

		next, err := transform.Apply(current)
		if err != nil {
			return base, fmt.Errorf("transform %s failed: %w", transform.Name(), err)
		}

		current = next
	}

	if err := current.Validate(); err != nil {
		return base, fmt.Errorf("transformed parameters: %w", err)
	}
	return current, nil
}

// TransformError represents an error that occurred during transformation.
type TransformError struct {
	TransformName string
	Operation     string
	Reason        string
	Err           error
}

func (e *TransformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transform %s (%s): %s: %v", e.TransformName, e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("transform %s (%s): %s", e.TransformName, e.Operation, e.Reason)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// NewTransformError creates a new TransformError.
func NewTransformError(transformName, operation, reason string, err error) error {
	return &TransformError{
		TransformName: transformName,
		Operation:     operation,
		Reason:        reason,
		Err:           err,
	}
}
