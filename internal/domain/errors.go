package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidReference = errors.New("invalid reference")
	ErrInvalidState     = errors.New("invalid state")
	ErrRendering        = errors.New("invoice rendering failed")
	ErrBookingLocked    = errors.New("booking is being modified by another request")
	ErrBadInput         = errors.New("bad input")
	ErrConflict         = errors.New("already exists")
)

// ReferenceError reports a foreign key on a create request that does not resolve.
type ReferenceError struct {
	Field string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("invalid %s", e.Field)
}

func (e *ReferenceError) Unwrap() error {
	return ErrInvalidReference
}

// StateError reports a lifecycle transition attempted from the wrong status.
type StateError struct {
	Expected BookingStatus
	Actual   BookingStatus
}

func (e *StateError) Error() string {
	return fmt.Sprintf("booking is not in %s state (current: %s)", e.Expected, e.Actual)
}

func (e *StateError) Unwrap() error {
	return ErrInvalidState
}
