package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/catDaddyDev/starter-restaurant-reservation/internal/models"
)

const reservationColumns = `id, first_name, last_name, mobile_number,
        reservation_date, reservation_time, people, status, created_at, updated_at`

func scanReservation(row interface{ Scan(...any) error }) (*models.Reservation, error) {
	var r models.Reservation
	err := row.Scan(
		&r.ID, &r.FirstName, &r.LastName, &r.MobileNumber,
		&r.ReservationDate, &r.ReservationTime, &r.People, &r.Status,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (db *DB) CreateReservation(ctx context.Context, r *models.Reservation) error {
	query := `INSERT INTO reservations (
				first_name, last_name, mobile_number, reservation_date,
				reservation_time, people, status, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		r.FirstName,
		r.LastName,
		r.MobileNumber,
		r.ReservationDate,
		r.ReservationTime,
		r.People,
		r.Status,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	r.ID = id
	r.CreatedAt = now
	r.UpdatedAt = now

	return nil
}

func (db *DB) GetReservation(ctx context.Context, id int64) (*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	r, err := scanReservation(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	return r, nil
}

// ListReservationsByDate returns the active bookings of a calendar day,
// earliest seating first. Cancelled and finished records are excluded.
func (db *DB) ListReservationsByDate(ctx context.Context, date string) ([]*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
              WHERE reservation_date = ? AND status NOT IN (?, ?)
              ORDER BY reservation_time ASC`
	rows, err := db.QueryContext(ctx, query, date, models.StatusCancelled, models.StatusFinished)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations by date: %w", err)
	}
	defer rows.Close()

	return collectReservations(rows)
}

// SearchReservationsByPhone matches a digits-only fragment against the
// stored mobile number with formatting characters stripped, ordered by
// reservation date.
func (db *DB) SearchReservationsByPhone(ctx context.Context, digits string) ([]*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
              WHERE replace(replace(replace(replace(mobile_number, '(', ''), ')', ''), '-', ''), ' ', '') LIKE ?
              ORDER BY reservation_date ASC`
	rows, err := db.QueryContext(ctx, query, "%"+digits+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to search reservations by phone: %w", err)
	}
	defer rows.Close()

	return collectReservations(rows)
}

func collectReservations(rows *sql.Rows) ([]*models.Reservation, error) {
	var reservations []*models.Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		reservations = append(reservations, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reservation rows: %w", err)
	}
	return reservations, nil
}

func (db *DB) UpdateReservation(ctx context.Context, id int64, r *models.Reservation) error {
	query := `UPDATE reservations SET first_name = ?, last_name = ?, mobile_number = ?,
              reservation_date = ?, reservation_time = ?, people = ?, updated_at = ?
              WHERE id = ?`
	result, err := db.ExecContext(ctx, query,
		r.FirstName,
		r.LastName,
		r.MobileNumber,
		r.ReservationDate,
		r.ReservationTime,
		r.People,
		time.Now(),
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update reservation: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrReservationNotFound
	}
	return nil
}

func (db *DB) UpdateReservationStatus(ctx context.Context, id int64, status models.Status) error {
	query := `UPDATE reservations SET status = ?, updated_at = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update reservation status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrReservationNotFound
	}
	return nil
}
