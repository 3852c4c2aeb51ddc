package game

import (
	"errors"
	"fmt"
)

// The engine reports failures as one of four kinds. Incorrect answers are
// not failures; they come back as a normal Result with Correct=false.

// NotFoundError means a hunt, team, clue, or progress record is missing.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// InvalidStateError means the submission is not allowed from the team's
// current position (hunt not active, no current clue, ineligible target,
// clue outside the current clue set).
type InvalidStateError struct {
	Reason string
}

func (e *InvalidStateError) Error() string {
	return e.Reason
}

// ValidationError means the submission itself is malformed, such as a
// missing media upload on a clue that requires one.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// StoreError wraps an underlying persistence failure so callers can decide
// whether to retry the write.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store failure during %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

func IsInvalidState(err error) bool {
	var ise *InvalidStateError
	return errors.As(err, &ise)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsStoreFailure(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
