package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound         = errors.New("resource not found")
	ErrFunctionNotFound = fmt.Errorf("%w: function", ErrNotFound)
	ErrRunNotFound      = fmt.Errorf("%w: run", ErrNotFound)

	// Computation errors. Both abort the whole comparison run.
	ErrNonPositivePartitions = errors.New("partition count must be positive")
	ErrNonFiniteResult       = errors.New("integration produced a non-finite value")
)

// NewNotFoundError builds a not-found error for a named resource
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, resource, id)
}

// IsNotFoundError reports whether err is any not-found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsComputationError reports whether err aborted a quadrature computation
func IsComputationError(err error) bool {
	return errors.Is(err, ErrNonPositivePartitions) ||
		errors.Is(err, ErrNonFiniteResult)
}
