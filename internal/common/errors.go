package common

import "errors"

var (
	// ErrValidation marks user input rejected before any network call.
	ErrValidation = errors.New("validation error")

	// ErrNotFound is returned for lookups in locally held data.
	ErrNotFound = errors.New("not found")

	// ErrWrongStep is returned when a wizard action is not allowed in the
	// current step.
	ErrWrongStep = errors.New("action not allowed in current step")
)
