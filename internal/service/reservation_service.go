package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/catDaddyDev/starter-restaurant-reservation/internal/domain"
	"github.com/catDaddyDev/starter-restaurant-reservation/internal/models"

	"github.com/rs/zerolog"
)

// BusinessHours are the schedule rules reservations are validated
// against. Times are 4-digit HHMM integers. ClosedWeekday is a pointer
// so an explicit Sunday (weekday 0) is distinguishable from unset.
type BusinessHours struct {
	OpeningHHMM     int
	LastSeatingHHMM int
	ClosedWeekday   *time.Weekday
}

// ReservationInput carries the client-supplied reservation fields.
type ReservationInput struct {
	FirstName       string        `json:"first_name"`
	LastName        string        `json:"last_name"`
	MobileNumber    string        `json:"mobile_number"`
	ReservationDate string        `json:"reservation_date"`
	ReservationTime string        `json:"reservation_time"`
	People          int           `json:"people"`
	Status          models.Status `json:"status"`
}

// ReservationService governs the reservation lifecycle: field and
// schedule validation, legal status transitions, and persistence.
type ReservationService struct {
	store   domain.ReservationStore
	cache   domain.DayCache
	events  domain.EventPublisher
	exports domain.ExportScheduler
	hours   BusinessHours
	now     func() time.Time
	logger  *zerolog.Logger
}

func NewReservationService(store domain.ReservationStore, cache domain.DayCache, events domain.EventPublisher, exports domain.ExportScheduler, hours BusinessHours, logger *zerolog.Logger) *ReservationService {
	if hours.OpeningHHMM == 0 {
		hours.OpeningHHMM = models.DefaultOpeningHHMM
	}
	if hours.LastSeatingHHMM == 0 {
		hours.LastSeatingHHMM = models.DefaultLastSeatingHHMM
	}
	if hours.ClosedWeekday == nil {
		day := models.DefaultClosedWeekday
		hours.ClosedWeekday = &day
	}
	return &ReservationService{
		store:   store,
		cache:   cache,
		events:  events,
		exports: exports,
		hours:   hours,
		now:     time.Now,
		logger:  logger,
	}
}

// WithClock overrides the time source used by schedule validation.
func (s *ReservationService) WithClock(now func() time.Time) *ReservationService {
	s.now = now
	return s
}

// ValidateReservation checks the field constraints of an incoming
// reservation. Malformed date or time strings are a field error here,
// not a schedule error.
func (s *ReservationService) ValidateReservation(input ReservationInput) error {
	required := []struct {
		name  string
		value string
	}{
		{"first_name", input.FirstName},
		{"last_name", input.LastName},
		{"mobile_number", input.MobileNumber},
		{"reservation_date", input.ReservationDate},
		{"reservation_time", input.ReservationTime},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return fieldError(field.name, fmt.Sprintf("%s is missing", field.name))
		}
	}

	if _, err := time.Parse(models.DateLayout, input.ReservationDate); err != nil {
		return fieldError("reservation_date", fmt.Sprintf("reservation_date %s is invalid", input.ReservationDate))
	}
	if _, err := time.Parse(models.TimeLayout, input.ReservationTime); err != nil {
		return fieldError("reservation_time", fmt.Sprintf("reservation_time %s is invalid", input.ReservationTime))
	}
	if input.People < 1 {
		return fieldError("people", fmt.Sprintf("people %d is invalid", input.People))
	}
	if input.Status != "" && input.Status != models.StatusBooked {
		return fieldError("status", fmt.Sprintf("status can not be %s", input.Status))
	}
	return nil
}

// ValidateSchedule checks that the composed date and time land in the
// future, on an open day, within the bookable window. Calendar-local
// semantics: no timezone conversion is applied.
func (s *ReservationService) ValidateSchedule(date, timeOfDay string) error {
	day, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return fieldError("reservation_date", fmt.Sprintf("reservation_date %s is invalid", date))
	}
	tod, err := time.Parse(models.TimeLayout, timeOfDay)
	if err != nil {
		return fieldError("reservation_time", fmt.Sprintf("reservation_time %s is invalid", timeOfDay))
	}

	when := time.Date(day.Year(), day.Month(), day.Day(), tod.Hour(), tod.Minute(), 0, 0, time.Local)
	if when.Weekday() == *s.hours.ClosedWeekday {
		return ErrClosedDay
	}
	if !when.After(s.now()) {
		return ErrPastDate
	}

	hhmm := tod.Hour()*100 + tod.Minute()
	if hhmm < s.hours.OpeningHHMM || hhmm > s.hours.LastSeatingHHMM {
		return ErrOutsideHours
	}
	return nil
}

// ValidateStatusTransition applies the lifecycle rule: finished is
// terminal, cancellation is always allowed from non-terminal states,
// anything else must target a known state.
func (s *ReservationService) ValidateStatusTransition(current, requested models.Status) error {
	if current == models.StatusFinished {
		return ErrReservationFinished
	}
	if requested == models.StatusCancelled {
		return nil
	}
	if !requested.Valid() {
		return ErrUnknownStatus
	}
	return nil
}

func (s *ReservationService) Create(ctx context.Context, input ReservationInput) (*models.Reservation, error) {
	if err := s.ValidateReservation(input); err != nil {
		return nil, err
	}
	if err := s.ValidateSchedule(input.ReservationDate, input.ReservationTime); err != nil {
		return nil, err
	}

	r := &models.Reservation{
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		MobileNumber:    input.MobileNumber,
		ReservationDate: input.ReservationDate,
		ReservationTime: input.ReservationTime,
		People:          input.People,
		Status:          models.StatusBooked,
	}
	if err := s.store.CreateReservation(ctx, r); err != nil {
		return nil, err
	}

	s.invalidateDay(ctx, r.ReservationDate)
	s.publishReservationEvent(eventReservationCreated, r)
	s.scheduleExport(ctx, r.ReservationDate)

	return r, nil
}

func (s *ReservationService) Update(ctx context.Context, id int64, input ReservationInput) (*models.Reservation, error) {
	existing, err := s.store.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Status == models.StatusFinished {
		return nil, ErrReservationFinished
	}

	if err := s.ValidateReservation(input); err != nil {
		return nil, err
	}
	if err := s.ValidateSchedule(input.ReservationDate, input.ReservationTime); err != nil {
		return nil, err
	}

	updated := &models.Reservation{
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		MobileNumber:    input.MobileNumber,
		ReservationDate: input.ReservationDate,
		ReservationTime: input.ReservationTime,
		People:          input.People,
	}
	if err := s.store.UpdateReservation(ctx, id, updated); err != nil {
		return nil, err
	}

	s.invalidateDay(ctx, existing.ReservationDate)
	if input.ReservationDate != existing.ReservationDate {
		s.invalidateDay(ctx, input.ReservationDate)
	}
	s.scheduleExport(ctx, input.ReservationDate)

	r, err := s.store.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publishReservationEvent(eventReservationUpdated, r)
	return r, nil
}

func (s *ReservationService) UpdateStatus(ctx context.Context, id int64, status models.Status) (*models.Reservation, error) {
	existing, err := s.store.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ValidateStatusTransition(existing.Status, status); err != nil {
		return nil, err
	}

	if err := s.store.UpdateReservationStatus(ctx, id, status); err != nil {
		return nil, err
	}

	s.invalidateDay(ctx, existing.ReservationDate)
	s.scheduleExport(ctx, existing.ReservationDate)

	existing.Status = status
	eventType := eventReservationStatus
	if status == models.StatusCancelled {
		eventType = eventReservationCancelled
	}
	s.publishReservationEvent(eventType, existing)

	return existing, nil
}

func (s *ReservationService) Get(ctx context.Context, id int64) (*models.Reservation, error) {
	return s.store.GetReservation(ctx, id)
}

// ListByDate serves the dashboard listing of a day, cache first.
func (s *ReservationService) ListByDate(ctx context.Context, date string) ([]*models.Reservation, error) {
	if date == "" {
		date = s.now().Format(models.DateLayout)
	}

	if s.cache != nil {
		if cached, err := s.cache.GetDay(ctx, date); err == nil && cached != nil {
			return cached, nil
		}
	}

	reservations, err := s.store.ListReservationsByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetDay(ctx, date, reservations); err != nil {
			s.logger.Warn().Err(err).Str("date", date).Msg("day cache set failed")
		}
	}
	return reservations, nil
}

// SearchByPhone matches a mobile-number fragment with all formatting
// stripped down to digits on both sides.
func (s *ReservationService) SearchByPhone(ctx context.Context, fragment string) ([]*models.Reservation, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, fragment)

	return s.store.SearchReservationsByPhone(ctx, digits)
}

func (s *ReservationService) invalidateDay(ctx context.Context, date string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateDay(ctx, date); err != nil {
		s.logger.Warn().Err(err).Str("date", date).Msg("day cache invalidation failed")
	}
}

func (s *ReservationService) scheduleExport(ctx context.Context, day string) {
	if s.exports == nil {
		return
	}
	if err := s.exports.EnqueueDay(ctx, day); err != nil {
		s.logger.Error().Err(err).Str("day", day).Msg("export enqueue error")
	}
}
