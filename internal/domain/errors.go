package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by stores, the service and the console.
// Callers match with errors.Is; stores wrap the underlying cause.
var (
	// ErrNotFound covers a missing input file and a missing record
	ErrNotFound = errors.New("not found")

	// ErrEmptyInput is returned when a source holds no records
	ErrEmptyInput = errors.New("empty input")

	// ErrValidation marks malformed user input or record shape
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateReference is a validation failure on the uniqueness invariant
	ErrDuplicateReference = fmt.Errorf("%w: duplicate reference number", ErrValidation)

	// ErrPersistence wraps generic I/O, parse and driver errors
	ErrPersistence = errors.New("persistence failure")
)
