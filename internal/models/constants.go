package models

import "time"

const (
	// DateLayout and TimeLayout are the wire forms of reservation
	// date and time fields.
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

const (
	// DefaultOpeningHHMM is the earliest bookable time-of-day as a
	// 4-digit HHMM integer.
	DefaultOpeningHHMM = 1030

	// DefaultLastSeatingHHMM is the latest bookable time-of-day,
	// one hour before close.
	DefaultLastSeatingHHMM = 2130

	// DefaultExportQueueSize bounds the in-memory export task queue.
	DefaultExportQueueSize = 128

	// DefaultDayCacheTTL is how long a cached day listing stays fresh.
	DefaultDayCacheTTL = 5 * time.Minute
)

// DefaultClosedWeekday is the weekday the restaurant is closed.
const DefaultClosedWeekday = time.Tuesday
