package service

import "errors"

var (
	// ErrPastDate is returned when the requested date and time are
	// not strictly in the future.
	ErrPastDate = errors.New("reservation must be set in the future")

	// ErrClosedDay is returned when the requested date falls on the
	// weekday the restaurant is closed.
	ErrClosedDay = errors.New("restaurant is closed on the requested day")

	// ErrOutsideHours is returned when the requested time is outside
	// the bookable window.
	ErrOutsideHours = errors.New("reservations can only be set from 10:30 AM to 9:30 PM")

	// ErrReservationFinished is returned when a finished reservation
	// is asked to change again.
	ErrReservationFinished = errors.New("reservation has already finished")

	// ErrUnknownStatus is returned when a status transition targets a
	// state outside the lifecycle.
	ErrUnknownStatus = errors.New("status unknown")
)

// ValidationError reports a request field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func fieldError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
