package service

import "errors"

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrAttendeeNotFound = errors.New("attendee not found")

	ErrEventFull             = errors.New("event is fully booked")
	ErrEventCompleted        = errors.New("cannot register for a completed event")
	ErrAlreadyRegistered     = errors.New("already registered for this event")
	ErrAttendeeEventMismatch = errors.New("attendee does not belong to this event")

	ErrCapacityBelowRegistrations = errors.New("maximum attendees cannot be reduced below current registrations")

	ErrDuplicateUsername  = errors.New("username already exists")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ValidationError reports a single field that failed a business rule.
// Field rules are enforced here independently of the transport-layer
// request validation, which cannot be trusted as the sole guard.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
