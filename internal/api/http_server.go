package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/catDaddyDev/starter-restaurant-reservation/internal/config"
	"github.com/catDaddyDev/starter-restaurant-reservation/internal/database"
	"github.com/catDaddyDev/starter-restaurant-reservation/internal/metrics"
	"github.com/catDaddyDev/starter-restaurant-reservation/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HTTPServer exposes the staff-facing reservation and table API.
type HTTPServer struct {
	cfg          config.APIConfig
	reservations *service.ReservationService
	tables       *service.TableService
	server       *http.Server
	auth         *httpAuth
	limiter      *rateLimiter
	logger       *zerolog.Logger
}

func NewHTTPServer(cfg config.APIConfig, reservations *service.ReservationService, tables *service.TableService, logger *zerolog.Logger) *HTTPServer {
	mux := http.NewServeMux()
	srv := &HTTPServer{
		cfg:          cfg,
		reservations: reservations,
		tables:       tables,
		logger:       logger,
	}
	srv.auth = newHTTPAuth(cfg.Auth, logger)
	srv.limiter = newRateLimiter(cfg.RateLimit)

	mux.HandleFunc("/reservations", srv.handleReservations)
	mux.HandleFunc("/reservations/", srv.handleReservationByID)
	mux.HandleFunc("/tables", srv.handleTables)
	mux.HandleFunc("/tables/", srv.handleTableByID)

	handler := srv.loggingMiddleware(srv.limiter.wrap(srv.auth.wrap(mux)))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		metrics.IncHTTP(endpointLabel(r.URL.Path))
		next.ServeHTTP(recorder, r)

		s.logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

// endpointLabel keeps metric cardinality flat: ids collapse into their
// resource prefix.
func endpointLabel(path string) string {
	switch {
	case strings.HasPrefix(path, "/reservations"):
		return "reservations"
	case strings.HasPrefix(path, "/tables"):
		return "tables"
	}
	return "other"
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeData(w http.ResponseWriter, statusCode int, payload any) {
	writeJSON(w, statusCode, map[string]any{"data": payload})
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeDomainError maps service and store failures to the HTTP
// contract: unknown ids are 404, violated business rules are 400,
// everything else is an opaque 500.
func (s *HTTPServer) writeDomainError(w http.ResponseWriter, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.Is(err, database.ErrReservationNotFound),
		errors.Is(err, database.ErrTableNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, service.ErrPastDate),
		errors.Is(err, service.ErrClosedDay),
		errors.Is(err, service.ErrOutsideHours),
		errors.Is(err, service.ErrReservationFinished),
		errors.Is(err, service.ErrUnknownStatus),
		errors.Is(err, database.ErrTableOccupied),
		errors.Is(err, database.ErrTableNotOccupied),
		errors.Is(err, database.ErrAlreadySeated),
		errors.Is(err, database.ErrCapacityExceeded):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeData unmarshals the {"data": ...} request envelope into target.
// A type mismatch is reported against the offending field.
func decodeData(r *http.Request, target any) error {
	envelope := map[string]json.RawMessage{}
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		return &service.ValidationError{Field: "data", Message: "invalid JSON body"}
	}
	raw, ok := envelope["data"]
	if !ok || len(raw) == 0 {
		return &service.ValidationError{Field: "data", Message: "a data object is required"}
	}
	if err := json.Unmarshal(raw, target); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return &service.ValidationError{
				Field:   typeErr.Field,
				Message: fmt.Sprintf("%s is invalid", typeErr.Field),
			}
		}
		return &service.ValidationError{Field: "data", Message: "invalid JSON body"}
	}
	return nil
}
