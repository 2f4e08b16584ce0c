package application

import "errors"

var (
	// ErrUnauthorized is returned when the acting principal lacks permission for an operation.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrAlreadyExists is returned when the participant already holds a live reservation.
	ErrAlreadyExists = errors.New("application: already exists")
	// ErrWindowClosed is returned when a time cutoff no longer permits the action.
	ErrWindowClosed = errors.New("application: window closed")
	// ErrSlotInactive is returned when the slot is cancelled or completed.
	ErrSlotInactive = errors.New("application: slot inactive")
	// ErrInvalidTransition is returned when the reservation status does not allow the action.
	ErrInvalidTransition = errors.New("application: invalid status transition")
	// ErrIncompleteSnapshot is returned when a slot has no start time and
	// eligibility cannot be decided.
	ErrIncompleteSnapshot = errors.New("application: slot start time missing")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// merge copies entries from a field map into the receiver.
func (v *ValidationError) merge(fields map[string]string) {
	for field, msg := range fields {
		v.add(field, msg)
	}
}
