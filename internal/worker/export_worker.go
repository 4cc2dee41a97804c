package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/catDaddyDev/starter-restaurant-reservation/internal/domain"
	"github.com/catDaddyDev/starter-restaurant-reservation/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// DayReader supplies the data an export spreadsheet is built from.
type DayReader interface {
	ListReservationsByDate(ctx context.Context, date string) ([]*models.Reservation, error)
	ListTables(ctx context.Context) ([]*models.Table, error)
}

// ExportWorker drains the durable export backlog and writes one .xlsx
// per day: the day's active reservations plus current table occupancy.
// Failed exports are retried with exponential backoff, then parked as
// failed.
type ExportWorker struct {
	tasks        domain.ExportQueue
	reader       DayReader
	exportDir    string
	retryPolicy  RetryPolicy
	queue        chan models.ExportTask
	pollInterval time.Duration
	batchSize    int
	logger       *zerolog.Logger
}

// NewExportWorker builds a worker with sane defaults.
func NewExportWorker(tasks domain.ExportQueue, reader DayReader, exportDir string, retry RetryPolicy, logger *zerolog.Logger) *ExportWorker {
	return &ExportWorker{
		tasks:        tasks,
		reader:       reader,
		exportDir:    exportDir,
		retryPolicy:  retry.withDefaults(),
		queue:        make(chan models.ExportTask, models.DefaultExportQueueSize),
		pollInterval: 2 * time.Second,
		batchSize:    20,
		logger:       logger,
	}
}

// EnqueueDay persists an export task and schedules it. A full in-memory
// queue is not an error; the polling loop picks the task up later.
func (w *ExportWorker) EnqueueDay(ctx context.Context, day string) error {
	if day == "" {
		return fmt.Errorf("export day is required")
	}

	task := models.ExportTask{Day: day, Status: "pending"}
	if err := w.tasks.CreateExportTask(ctx, &task); err != nil {
		return fmt.Errorf("persist export task: %w", err)
	}

	select {
	case w.queue <- task:
	default:
		w.logger.Warn().Int64("task_id", task.ID).Msg("export queue full, task left to polling")
	}
	return nil
}

// Run processes tasks until the context is cancelled.
func (w *ExportWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case task := <-w.queue:
			w.process(ctx, task)
		case <-ticker.C:
			pending, err := w.tasks.GetPendingExportTasks(ctx, w.batchSize)
			if err != nil {
				w.logger.Error().Err(err).Msg("poll export tasks")
				continue
			}
			for _, task := range pending {
				w.process(ctx, task)
			}
		}
	}
}

func (w *ExportWorker) process(ctx context.Context, task models.ExportTask) {
	err := w.exportDay(ctx, task.Day)
	if err == nil {
		if uErr := w.tasks.UpdateExportTaskStatus(ctx, task.ID, "completed", "", nil); uErr != nil {
			w.logger.Error().Err(uErr).Int64("task_id", task.ID).Msg("mark export completed")
		}
		return
	}

	attempt := task.RetryCount + 1
	if attempt >= w.retryPolicy.MaxRetries {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Str("day", task.Day).Msg("export failed permanently")
		if uErr := w.tasks.UpdateExportTaskStatus(ctx, task.ID, "failed", err.Error(), nil); uErr != nil {
			w.logger.Error().Err(uErr).Int64("task_id", task.ID).Msg("mark export failed")
		}
		return
	}

	next := time.Now().Add(w.retryPolicy.NextDelay(attempt))
	w.logger.Warn().Err(err).Int64("task_id", task.ID).Time("next_retry", next).Msg("export failed, will retry")
	if uErr := w.tasks.UpdateExportTaskStatus(ctx, task.ID, "retry", err.Error(), &next); uErr != nil {
		w.logger.Error().Err(uErr).Int64("task_id", task.ID).Msg("mark export for retry")
	}
}

func (w *ExportWorker) exportDay(ctx context.Context, day string) error {
	reservations, err := w.reader.ListReservationsByDate(ctx, day)
	if err != nil {
		return fmt.Errorf("read reservations: %w", err)
	}
	tables, err := w.reader.ListTables(ctx)
	if err != nil {
		return fmt.Errorf("read tables: %w", err)
	}

	if err := os.MkdirAll(w.exportDir, 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	reservationsSheet := "Reservations"
	index, err := f.NewSheet(reservationsSheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(reservationsSheet, "A1", fmt.Sprintf("Reservations for %s", day))
	headers := []string{"Time", "First Name", "Last Name", "Mobile", "People", "Status"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(reservationsSheet, cell, h)
	}
	for row, r := range reservations {
		values := []interface{}{r.ReservationTime, r.FirstName, r.LastName, r.MobileNumber, r.People, string(r.Status)}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+3)
			_ = f.SetCellValue(reservationsSheet, cell, v)
		}
	}

	tablesSheet := "Tables"
	if _, err := f.NewSheet(tablesSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	tableHeaders := []string{"Table", "Capacity", "Occupied", "Reservation"}
	for i, h := range tableHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(tablesSheet, cell, h)
	}
	for row, t := range tables {
		var linked interface{}
		if t.ReservationID != nil {
			linked = *t.ReservationID
		}
		values := []interface{}{t.TableName, t.Capacity, t.Occupied, linked}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(tablesSheet, cell, v)
		}
	}

	style, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(reservationsSheet, "A1", "A1", style)
	_ = f.SetColWidth(reservationsSheet, "A", "F", 18)
	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("dashboard_%s.xlsx", day)
	if err := f.SaveAs(filepath.Join(w.exportDir, fileName)); err != nil {
		return fmt.Errorf("save export: %w", err)
	}
	return nil
}
