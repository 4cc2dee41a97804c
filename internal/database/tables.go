package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/catDaddyDev/starter-restaurant-reservation/internal/models"
)

const tableColumns = `id, table_name, capacity, occupied, reservation_id, created_at, updated_at`

func scanTable(row interface{ Scan(...any) error }) (*models.Table, error) {
	var t models.Table
	var reservationID sql.NullInt64
	err := row.Scan(
		&t.ID, &t.TableName, &t.Capacity, &t.Occupied, &reservationID,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if reservationID.Valid {
		id := reservationID.Int64
		t.ReservationID = &id
	}
	return &t, nil
}

func (db *DB) CreateTable(ctx context.Context, t *models.Table) error {
	query := `INSERT INTO tables (table_name, capacity, occupied, created_at, updated_at)
              VALUES (?, ?, 0, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query, t.TableName, t.Capacity, now, now)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	t.ID = id
	t.Occupied = false
	t.ReservationID = nil
	t.CreatedAt = now
	t.UpdatedAt = now

	return nil
}

func (db *DB) GetTable(ctx context.Context, id int64) (*models.Table, error) {
	query := `SELECT ` + tableColumns + ` FROM tables WHERE id = ?`
	t, err := scanTable(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTableNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get table: %w", err)
	}
	return t, nil
}

func (db *DB) ListTables(ctx context.Context) ([]*models.Table, error) {
	query := `SELECT ` + tableColumns + ` FROM tables ORDER BY table_name ASC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []*models.Table
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read table rows: %w", err)
	}
	return tables, nil
}

// SeatReservation links a table to a reservation and marks the
// reservation seated as one atomic unit. All preconditions are
// re-checked inside the transaction, and both UPDATEs are guarded on
// the state they leave, so two racing seatings cannot both commit.
func (db *DB) SeatReservation(ctx context.Context, tableID, reservationID int64) (*models.Table, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	table, err := scanTable(tx.QueryRowContext(ctx,
		`SELECT `+tableColumns+` FROM tables WHERE id = ?`, tableID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTableNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get table in tx: %w", err)
	}
	if table.Occupied {
		return nil, ErrTableOccupied
	}

	var people int
	var status models.Status
	err = tx.QueryRowContext(ctx,
		`SELECT people, status FROM reservations WHERE id = ?`, reservationID).
		Scan(&people, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation in tx: %w", err)
	}
	if status == models.StatusSeated {
		return nil, ErrAlreadySeated
	}
	if table.Capacity < people {
		return nil, ErrCapacityExceeded
	}

	now := time.Now()
	result, err := tx.ExecContext(ctx,
		`UPDATE tables SET occupied = 1, reservation_id = ?, updated_at = ? WHERE id = ? AND occupied = 0`,
		reservationID, now, tableID)
	if err != nil {
		return nil, fmt.Errorf("failed to occupy table in tx: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return nil, ErrTableOccupied
	}

	result, err = tx.ExecContext(ctx,
		`UPDATE reservations SET status = ?, updated_at = ? WHERE id = ? AND status != ?`,
		models.StatusSeated, now, reservationID, models.StatusSeated)
	if err != nil {
		return nil, fmt.Errorf("failed to seat reservation in tx: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return nil, ErrAlreadySeated
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit seating: %w", err)
	}

	table.Occupied = true
	table.ReservationID = &reservationID
	table.UpdatedAt = now
	return table, nil
}

// CompleteSeating vacates an occupied table and marks its linked
// reservation finished as one atomic unit. The freed reservation id is
// returned alongside the updated table.
func (db *DB) CompleteSeating(ctx context.Context, tableID int64) (*models.Table, int64, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	table, err := scanTable(tx.QueryRowContext(ctx,
		`SELECT `+tableColumns+` FROM tables WHERE id = ?`, tableID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, ErrTableNotFound
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get table in tx: %w", err)
	}
	if table.ReservationID == nil {
		return nil, 0, ErrTableNotOccupied
	}
	reservationID := *table.ReservationID

	now := time.Now()
	result, err := tx.ExecContext(ctx,
		`UPDATE tables SET occupied = 0, reservation_id = NULL, updated_at = ? WHERE id = ? AND occupied = 1`,
		now, tableID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to vacate table in tx: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return nil, 0, ErrTableNotOccupied
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE reservations SET status = ?, updated_at = ? WHERE id = ?`,
		models.StatusFinished, now, reservationID); err != nil {
		return nil, 0, fmt.Errorf("failed to finish reservation in tx: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("failed to commit completion: %w", err)
	}

	table.Occupied = false
	table.ReservationID = nil
	table.UpdatedAt = now
	return table, reservationID, nil
}
