package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// ErrInvalidArgument covers malformed generator/injector/driver parameters.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNumericalInstability signals a near-singular implied covariance.
	ErrNumericalInstability = errors.New("numerical instability")

	// ErrDegenerateInput signals a zero-variance cause variable during
	// missingness injection.
	ErrDegenerateInput = errors.New("degenerate input")

	// ErrLearnerFailure signals that an algorithm could not produce an
	// estimate (e.g. too few complete-case rows).
	ErrLearnerFailure = errors.New("learner failure")

	// ErrShapeMismatch signals evaluator inputs with different shapes or labels.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrUnknownAlgorithm signals a learner name missing from the registry.
	ErrUnknownAlgorithm = fmt.Errorf("%w: unknown algorithm", ErrInvalidArgument)

	// ErrUnknownMechanism signals an unrecognized missingness mechanism.
	ErrUnknownMechanism = fmt.Errorf("%w: unknown mechanism", ErrInvalidArgument)
)

// Error constructors with context
func NewInvalidArgumentError(param string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidArgument, param, reason)
}

func NewInstabilityError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrNumericalInstability, op, err)
}

func NewDegenerateInputError(label string) error {
	return fmt.Errorf("%w: variable %s has zero variance", ErrDegenerateInput, label)
}

func NewLearnerFailureError(algorithm string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrLearnerFailure, algorithm, reason)
}

func NewShapeMismatchError(want, got int) error {
	return fmt.Errorf("%w: expected %d nodes, got %d", ErrShapeMismatch, want, got)
}

// Error checking helpers
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsRecoverable reports whether the error should be absorbed into a sentinel
// record by the driver instead of aborting the sweep.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrLearnerFailure) ||
		errors.Is(err, ErrNumericalInstability) ||
		errors.Is(err, ErrDegenerateInput)
}

func IsLearnerFailure(err error) bool {
	return errors.Is(err, ErrLearnerFailure)
}

func IsShapeMismatch(err error) bool {
	return errors.Is(err, ErrShapeMismatch)
}
