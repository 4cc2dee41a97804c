package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/catDaddyDev/starter-restaurant-reservation/internal/metrics"
	"github.com/catDaddyDev/starter-restaurant-reservation/internal/models"
	"github.com/catDaddyDev/starter-restaurant-reservation/internal/service"
)

func (s *HTTPServer) handleTables(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTables(w, r)
	case http.MethodPost:
		s.createTable(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) listTables(w http.ResponseWriter, r *http.Request) {
	tables, err := s.tables.List(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if tables == nil {
		tables = []*models.Table{}
	}
	writeData(w, http.StatusOK, tables)
}

func (s *HTTPServer) createTable(w http.ResponseWriter, r *http.Request) {
	var input service.TableInput
	if err := decodeData(r, &input); err != nil {
		s.writeDomainError(w, err)
		return
	}

	table, err := s.tables.Create(r.Context(), input)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusCreated, table)
}

func (s *HTTPServer) handleTableByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/tables/")
	parts := strings.Split(rest, "/")

	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "table not found")
		return
	}

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		s.readTable(w, r, id)
	case len(parts) == 2 && parts[1] == "seat" && r.Method == http.MethodPut:
		s.seatTable(w, r, id)
	case len(parts) == 2 && parts[1] == "seat" && r.Method == http.MethodDelete:
		s.completeTable(w, r, id)
	case len(parts) == 1 || (len(parts) == 2 && parts[1] == "seat"):
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (s *HTTPServer) readTable(w http.ResponseWriter, r *http.Request, id int64) {
	table, err := s.tables.Get(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, table)
}

func (s *HTTPServer) seatTable(w http.ResponseWriter, r *http.Request, id int64) {
	var input struct {
		ReservationID *int64 `json:"reservation_id"`
	}
	if err := decodeData(r, &input); err != nil {
		s.writeDomainError(w, err)
		return
	}
	if input.ReservationID == nil {
		writeError(w, http.StatusBadRequest, "a reservation_id is required")
		return
	}

	table, err := s.tables.Seat(r.Context(), id, *input.ReservationID)
	if err != nil {
		metrics.IncSeating("seat", "error")
		s.writeDomainError(w, err)
		return
	}
	metrics.IncSeating("seat", "ok")
	writeData(w, http.StatusOK, table)
}

func (s *HTTPServer) completeTable(w http.ResponseWriter, r *http.Request, id int64) {
	table, err := s.tables.Complete(r.Context(), id)
	if err != nil {
		metrics.IncSeating("complete", "error")
		s.writeDomainError(w, err)
		return
	}
	metrics.IncSeating("complete", "ok")
	writeData(w, http.StatusOK, table)
}
