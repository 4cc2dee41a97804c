package service

import (
	"github.com/catDaddyDev/starter-restaurant-reservation/internal/events"
	"github.com/catDaddyDev/starter-restaurant-reservation/internal/models"
)

const (
	eventReservationCreated   = events.EventReservationCreated
	eventReservationUpdated   = events.EventReservationUpdated
	eventReservationStatus    = events.EventReservationStatus
	eventReservationCancelled = events.EventReservationCancelled
	eventTableCreated         = events.EventTableCreated
	eventTableSeated          = events.EventTableSeated
	eventTableFinished        = events.EventTableFinished
)

func (s *ReservationService) publishReservationEvent(eventType string, r *models.Reservation) {
	if s.events == nil {
		return
	}

	payload := events.ReservationEventPayload{
		ReservationID:   r.ID,
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		ReservationDate: r.ReservationDate,
		ReservationTime: r.ReservationTime,
		People:          r.People,
		Status:          string(r.Status),
	}

	if err := s.events.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("reservation_id", r.ID).Msg("publish event error")
	}
}

func (s *TableService) publishTableEvent(eventType string, t *models.Table, reservationID int64) {
	if s.events == nil {
		return
	}

	payload := events.TableEventPayload{
		TableID:       t.ID,
		TableName:     t.TableName,
		Occupied:      t.Occupied,
		ReservationID: reservationID,
	}

	if err := s.events.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("table_id", t.ID).Msg("publish event error")
	}
}
