package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/catDaddyDev/starter-restaurant-reservation/internal/models"
	"github.com/catDaddyDev/starter-restaurant-reservation/internal/service"
)

func (s *HTTPServer) handleReservations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listReservations(w, r)
	case http.MethodPost:
		s.createReservation(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// listReservations serves the dashboard: by mobile-number fragment when
// given, otherwise by date (defaulting to today).
func (s *HTTPServer) listReservations(w http.ResponseWriter, r *http.Request) {
	if mobile := r.URL.Query().Get("mobile_number"); mobile != "" {
		reservations, err := s.reservations.SearchByPhone(r.Context(), mobile)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		writeData(w, http.StatusOK, emptyToSlice(reservations))
		return
	}

	reservations, err := s.reservations.ListByDate(r.Context(), strings.TrimSpace(r.URL.Query().Get("date")))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, emptyToSlice(reservations))
}

func (s *HTTPServer) createReservation(w http.ResponseWriter, r *http.Request) {
	var input service.ReservationInput
	if err := decodeData(r, &input); err != nil {
		s.writeDomainError(w, err)
		return
	}

	reservation, err := s.reservations.Create(r.Context(), input)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusCreated, reservation)
}

func (s *HTTPServer) handleReservationByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/reservations/")
	parts := strings.Split(rest, "/")

	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "reservation not found")
		return
	}

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		s.readReservation(w, r, id)
	case len(parts) == 1 && r.Method == http.MethodPut:
		s.updateReservation(w, r, id)
	case len(parts) == 2 && parts[1] == "status" && r.Method == http.MethodPut:
		s.updateReservationStatus(w, r, id)
	case len(parts) == 1 || (len(parts) == 2 && parts[1] == "status"):
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (s *HTTPServer) readReservation(w http.ResponseWriter, r *http.Request, id int64) {
	reservation, err := s.reservations.Get(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, reservation)
}

func (s *HTTPServer) updateReservation(w http.ResponseWriter, r *http.Request, id int64) {
	var input service.ReservationInput
	if err := decodeData(r, &input); err != nil {
		s.writeDomainError(w, err)
		return
	}

	reservation, err := s.reservations.Update(r.Context(), id, input)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, reservation)
}

func (s *HTTPServer) updateReservationStatus(w http.ResponseWriter, r *http.Request, id int64) {
	var input struct {
		Status models.Status `json:"status"`
	}
	if err := decodeData(r, &input); err != nil {
		s.writeDomainError(w, err)
		return
	}

	reservation, err := s.reservations.UpdateStatus(r.Context(), id, input.Status)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]models.Status{"status": reservation.Status})
}

func emptyToSlice(reservations []*models.Reservation) []*models.Reservation {
	if reservations == nil {
		return []*models.Reservation{}
	}
	return reservations
}
