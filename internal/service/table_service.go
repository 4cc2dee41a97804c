package service

import (
	"context"
	"fmt"

	"github.com/catDaddyDev/starter-restaurant-reservation/internal/database"
	"github.com/catDaddyDev/starter-restaurant-reservation/internal/domain"
	"github.com/catDaddyDev/starter-restaurant-reservation/internal/models"

	"github.com/rs/zerolog"
)

// TableInput carries the client-supplied table fields.
type TableInput struct {
	TableName string `json:"table_name"`
	Capacity  int    `json:"capacity"`
}

// TableService governs table occupancy and the coupled transitions that
// move a table and its linked reservation together. Validation reads go
// through the reservation store; the commit itself is re-validated
// inside the table store transaction.
type TableService struct {
	tables       domain.TableStore
	reservations domain.ReservationStore
	cache        domain.DayCache
	events       domain.EventPublisher
	exports      domain.ExportScheduler
	logger       *zerolog.Logger
}

func NewTableService(tables domain.TableStore, reservations domain.ReservationStore, cache domain.DayCache, events domain.EventPublisher, exports domain.ExportScheduler, logger *zerolog.Logger) *TableService {
	return &TableService{
		tables:       tables,
		reservations: reservations,
		cache:        cache,
		events:       events,
		exports:      exports,
		logger:       logger,
	}
}

// ValidateTable checks capacity and name constraints on a new table.
func (s *TableService) ValidateTable(input TableInput) error {
	if input.Capacity < 1 {
		return fieldError("capacity", "table capacity must be able to seat at least one guest")
	}
	if len(input.TableName) < 2 {
		return fieldError("table_name", "table_name must be at least 2 characters long")
	}
	return nil
}

func (s *TableService) Create(ctx context.Context, input TableInput) (*models.Table, error) {
	if err := s.ValidateTable(input); err != nil {
		return nil, err
	}

	t := &models.Table{
		TableName: input.TableName,
		Capacity:  input.Capacity,
	}
	if err := s.tables.CreateTable(ctx, t); err != nil {
		return nil, err
	}

	s.publishTableEvent(eventTableCreated, t, 0)
	return t, nil
}

func (s *TableService) Get(ctx context.Context, id int64) (*models.Table, error) {
	return s.tables.GetTable(ctx, id)
}

func (s *TableService) List(ctx context.Context) ([]*models.Table, error) {
	return s.tables.ListTables(ctx)
}

// Seat assigns a reservation to a table and marks the party seated.
// Preconditions are checked here for early, precise errors; the store
// transaction re-checks them at the commit point, so a concurrent
// seating of the same table fails with ErrTableOccupied rather than
// double-booking.
func (s *TableService) Seat(ctx context.Context, tableID, reservationID int64) (*models.Table, error) {
	reservation, err := s.reservations.GetReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation.Status == models.StatusSeated {
		return nil, database.ErrAlreadySeated
	}

	table, err := s.tables.GetTable(ctx, tableID)
	if err != nil {
		return nil, err
	}
	if table.Occupied {
		return nil, database.ErrTableOccupied
	}
	if table.Capacity < reservation.People {
		return nil, fmt.Errorf("%w: table seats %d, party of %d", database.ErrCapacityExceeded, table.Capacity, reservation.People)
	}

	seated, err := s.tables.SeatReservation(ctx, tableID, reservationID)
	if err != nil {
		return nil, err
	}

	s.invalidateDay(ctx, reservation.ReservationDate)
	s.publishTableEvent(eventTableSeated, seated, reservationID)
	s.scheduleExport(ctx, reservation.ReservationDate)

	return seated, nil
}

// Complete vacates an occupied table and finishes its reservation.
// Completing an already-empty table is an occupancy error, never a
// silent success.
func (s *TableService) Complete(ctx context.Context, tableID int64) (*models.Table, error) {
	table, reservationID, err := s.tables.CompleteSeating(ctx, tableID)
	if err != nil {
		return nil, err
	}

	if reservation, err := s.reservations.GetReservation(ctx, reservationID); err == nil {
		s.invalidateDay(ctx, reservation.ReservationDate)
		s.scheduleExport(ctx, reservation.ReservationDate)
	}
	s.publishTableEvent(eventTableFinished, table, reservationID)

	return table, nil
}

func (s *TableService) invalidateDay(ctx context.Context, date string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateDay(ctx, date); err != nil {
		s.logger.Warn().Err(err).Str("date", date).Msg("day cache invalidation failed")
	}
}

func (s *TableService) scheduleExport(ctx context.Context, day string) {
	if s.exports == nil {
		return
	}
	if err := s.exports.EnqueueDay(ctx, day); err != nil {
		s.logger.Error().Err(err).Str("day", day).Msg("export enqueue error")
	}
}
