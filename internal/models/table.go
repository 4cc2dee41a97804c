package models

import "time"

// Table is a physical seating unit with fixed capacity. ReservationID is
// a non-owning back-reference, set only while the table is occupied.
type Table struct {
	ID            int64     `json:"table_id"`
	TableName     string    `json:"table_name"`
	Capacity      int       `json:"capacity"`
	Occupied      bool      `json:"occupied"`
	ReservationID *int64    `json:"reservation_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
