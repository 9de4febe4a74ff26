package domain

import "errors"

var (
	// ErrUnknownSlotStatus returned when a slot status string is not recognized
	ErrUnknownSlotStatus = errors.New("unknown slot status")

	// ErrUnknownVisitStatus returned when a visit status string is not recognized
	ErrUnknownVisitStatus = errors.New("unknown visit status")

	// ErrUnknownBulkOperation returned when a bulk operation name is not recognized
	ErrUnknownBulkOperation = errors.New("unknown bulk operation")

	// ErrMissingField returned when a transition lacks a required argument
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidField returned when a transition argument is malformed
	ErrInvalidField = errors.New("invalid field value")

	// ErrInvalidTransition returned when a visit cannot move to the requested state
	ErrInvalidTransition = errors.New("invalid visit status transition")
)
