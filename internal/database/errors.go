// Package database implements the relational store for reservations and
// tables on SQLite. The sentinel errors below let higher layers map
// store-state failures to HTTP responses with errors.Is instead of
// string matching.
package database

import "errors"

var (
	// ErrReservationNotFound is returned when a reservation id does
	// not resolve to a row.
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrTableNotFound is returned when a table id does not resolve
	// to a row.
	ErrTableNotFound = errors.New("table not found")

	// ErrTableOccupied is returned when seating is attempted on a
	// table that already holds a reservation.
	ErrTableOccupied = errors.New("table is occupied")

	// ErrTableNotOccupied is returned when completion is attempted
	// on a table with no linked reservation.
	ErrTableNotOccupied = errors.New("table is not occupied")

	// ErrAlreadySeated is returned when the reservation to be seated
	// is already in the seated state.
	ErrAlreadySeated = errors.New("reservation is already seated")

	// ErrCapacityExceeded is returned when the party is larger than
	// the table capacity.
	ErrCapacityExceeded = errors.New("table capacity exceeded")
)
