package core

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors - centralized error definitions
var (
	// Input errors (bad sampling parameters, malformed weight lists or plans)
	ErrEmptyWeights     = errors.New("weight list is empty")
	ErrZeroWeight       = errors.New("total weight must be positive")
	ErrInvalidParameter = errors.New("invalid parameter")

	// Provider errors
	ErrProviderNotRegistered = errors.New("provider not registered")
	ErrProviderTimeout       = errors.New("provider call timed out")

	// Validation errors (verdicts from the external validator)
	ErrValidation = errors.New("record validation failed")

	// Engine lifecycle errors
	ErrSequenceFrozen = errors.New("operation sequence is frozen")
	ErrRunFinished    = errors.New("run already finished")
)

// Error constructors with context
func NewInvalidParameterError(field string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidParameter, field, reason)
}

func NewProviderNotRegisteredError(name string) error {
	return fmt.Errorf("%w: %q", ErrProviderNotRegistered, name)
}

func NewTimeoutError(provider string, timeout time.Duration) error {
	return fmt.Errorf("%w: provider %q exceeded %s", ErrProviderTimeout, provider, timeout)
}

func NewValidationError(cause error) error {
	return fmt.Errorf("%w: %v", ErrValidation, cause)
}

// Error checking helpers
func IsInputError(err error) bool {
	return errors.Is(err, ErrEmptyWeights) ||
		errors.Is(err, ErrZeroWeight) ||
		errors.Is(err, ErrInvalidParameter)
}

func IsProviderError(err error) bool {
	return errors.Is(err, ErrProviderNotRegistered) ||
		errors.Is(err, ErrProviderTimeout)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsLifecycleError(err error) bool {
	return errors.Is(err, ErrSequenceFrozen) ||
		errors.Is(err, ErrRunFinished)
}
