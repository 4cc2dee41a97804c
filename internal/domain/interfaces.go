package domain

import (
	"context"
	"time"

	"github.com/catDaddyDev/starter-restaurant-reservation/internal/models"
)

// ReservationStore is the persistence contract for reservations.
type ReservationStore interface {
	CreateReservation(ctx context.Context, r *models.Reservation) error
	GetReservation(ctx context.Context, id int64) (*models.Reservation, error)
	ListReservationsByDate(ctx context.Context, date string) ([]*models.Reservation, error)
	SearchReservationsByPhone(ctx context.Context, digits string) ([]*models.Reservation, error)
	UpdateReservation(ctx context.Context, id int64, r *models.Reservation) error
	UpdateReservationStatus(ctx context.Context, id int64, status models.Status) error
}

// TableStore is the persistence contract for tables, including the
// coupled seat/complete transitions that must commit atomically.
type TableStore interface {
	CreateTable(ctx context.Context, t *models.Table) error
	GetTable(ctx context.Context, id int64) (*models.Table, error)
	ListTables(ctx context.Context) ([]*models.Table, error)
	SeatReservation(ctx context.Context, tableID, reservationID int64) (*models.Table, error)
	CompleteSeating(ctx context.Context, tableID int64) (*models.Table, int64, error)
}

// DayCache caches the dashboard listing of a calendar day.
type DayCache interface {
	GetDay(ctx context.Context, date string) ([]*models.Reservation, error)
	SetDay(ctx context.Context, date string, reservations []*models.Reservation) error
	InvalidateDay(ctx context.Context, date string) error
}

// EventPublisher fans out domain events to in-process subscribers.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// ExportScheduler queues a day for spreadsheet export.
type ExportScheduler interface {
	EnqueueDay(ctx context.Context, day string) error
}

// ExportQueue is the durable backlog the export worker drains.
type ExportQueue interface {
	CreateExportTask(ctx context.Context, task *models.ExportTask) error
	GetPendingExportTasks(ctx context.Context, limit int) ([]models.ExportTask, error)
	UpdateExportTaskStatus(ctx context.Context, id int64, status, errMsg string, nextRetryAt *time.Time) error
}
