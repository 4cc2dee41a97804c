package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/catDaddyDev/starter-restaurant-reservation/internal/config"
	"github.com/catDaddyDev/starter-restaurant-reservation/internal/database"
	"github.com/catDaddyDev/starter-restaurant-reservation/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The test clock is pinned to a Thursday so the Friday after it is
// always a valid reservation day.
var (
	testNow      = time.Date(2030, time.January, 3, 12, 0, 0, 0, time.Local)
	testDate     = "2030-01-04"
	testTuesday  = "2030-01-08"
	testYearBack = "2029-01-05"
)

func newTestServer(t *testing.T) *HTTPServer {
	t.Helper()
	logger := zerolog.Nop()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	reservations := service.NewReservationService(db, nil, nil, nil, service.BusinessHours{}, &logger).
		WithClock(func() time.Time { return testNow })
	tables := service.NewTableService(db, db, nil, nil, nil, &logger)

	return NewHTTPServer(config.APIConfig{Port: 0}, reservations, tables, &logger)
}

func (s *HTTPServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(map[string]any{"data": body}))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = "127.0.0.1:55555"
	rec := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func reservationBody(date, timeOfDay string) map[string]any {
	return map[string]any{
		"first_name":       "Grace",
		"last_name":        "Hopper",
		"mobile_number":    "(202) 555-0175",
		"reservation_date": date,
		"reservation_time": timeOfDay,
		"people":           2,
	}
}

func createReservation(t *testing.T, srv *HTTPServer, date, timeOfDay string) int64 {
	t.Helper()
	rec := srv.do(t, http.MethodPost, "/reservations", reservationBody(date, timeOfDay))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	return int64(data["reservation_id"].(float64))
}

func createTable(t *testing.T, srv *HTTPServer, name string, capacity int) int64 {
	t.Helper()
	rec := srv.do(t, http.MethodPost, "/tables", map[string]any{
		"table_name": name,
		"capacity":   capacity,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	return int64(data["table_id"].(float64))
}

func TestCreateReservation(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/reservations", reservationBody(testDate, "18:00"))
	require.Equal(t, http.StatusCreated, rec.Code)

	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	assert.Equal(t, "booked", data["status"])
	assert.Equal(t, "Grace", data["first_name"])
	assert.NotZero(t, data["reservation_id"])
}

func TestCreateReservation_Rejections(t *testing.T) {
	srv := newTestServer(t)

	cases := []struct {
		name    string
		mutate  func(map[string]any)
		message string
	}{
		{"missing first name", func(b map[string]any) { delete(b, "first_name") }, "first_name is missing"},
		{"fractional people", func(b map[string]any) { b["people"] = 2.5 }, "people is invalid"},
		{"string people", func(b map[string]any) { b["people"] = "2" }, "people is invalid"},
		{"zero people", func(b map[string]any) { b["people"] = 0 }, "people 0 is invalid"},
		{"seated status", func(b map[string]any) { b["status"] = "seated" }, "status can not be seated"},
		{"closed tuesday", func(b map[string]any) { b["reservation_date"] = testTuesday }, "restaurant is closed on the requested day"},
		{"past date", func(b map[string]any) { b["reservation_date"] = testYearBack }, "reservation must be set in the future"},
		{"before opening", func(b map[string]any) { b["reservation_time"] = "09:00" }, "reservations can only be set from 10:30 AM to 9:30 PM"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := reservationBody(testDate, "18:00")
			tc.mutate(body)

			rec := srv.do(t, http.MethodPost, "/reservations", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.message, decodeEnvelope(t, rec)["error"])
		})
	}
}

func TestCreateReservation_MissingDataEnvelope(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/reservations", bytes.NewBufferString(`{"first_name":"Grace"}`))
	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "a data object is required", decodeEnvelope(t, rec)["error"])
}

func TestListReservations_ByDate(t *testing.T) {
	srv := newTestServer(t)

	createReservation(t, srv, testDate, "19:00")
	createReservation(t, srv, testDate, "18:00")
	createReservation(t, srv, "2030-01-05", "18:00")

	rec := srv.do(t, http.MethodGet, "/reservations?date="+testDate, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeEnvelope(t, rec)["data"].([]any)
	require.Len(t, data, 2)
	first := data[0].(map[string]any)
	second := data[1].(map[string]any)
	assert.Equal(t, "18:00", first["reservation_time"])
	assert.Equal(t, "19:00", second["reservation_time"])
}

func TestListReservations_EmptyDayIsEmptyArray(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/reservations?date=2030-06-07", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[]}`, rec.Body.String())
}

func TestSearchReservations_ByPhoneFragment(t *testing.T) {
	srv := newTestServer(t)

	id := createReservation(t, srv, testDate, "18:00")

	rec := srv.do(t, http.MethodGet, "/reservations?mobile_number=555-0175", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeEnvelope(t, rec)["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, float64(id), data[0].(map[string]any)["reservation_id"])

	rec = srv.do(t, http.MethodGet, "/reservations?mobile_number=999", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[]}`, rec.Body.String())
}

func TestReadReservation_NotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/reservations/9999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodGet, "/reservations/not-a-number", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateReservation(t *testing.T) {
	srv := newTestServer(t)
	id := createReservation(t, srv, testDate, "18:00")

	body := reservationBody(testDate, "19:30")
	body["first_name"] = "Ada"

	rec := srv.do(t, http.MethodPut, fmt.Sprintf("/reservations/%d", id), body)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	assert.Equal(t, "Ada", data["first_name"])
	assert.Equal(t, "19:30", data["reservation_time"])
	assert.Equal(t, "booked", data["status"])
}

func TestUpdateReservationStatus(t *testing.T) {
	srv := newTestServer(t)
	id := createReservation(t, srv, testDate, "18:00")

	rec := srv.do(t, http.MethodPut, fmt.Sprintf("/reservations/%d/status", id), map[string]any{"status": "cancelled"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"status":"cancelled"}}`, rec.Body.String())
}

func TestUpdateReservationStatus_Rejections(t *testing.T) {
	srv := newTestServer(t)
	id := createReservation(t, srv, testDate, "18:00")

	rec := srv.do(t, http.MethodPut, fmt.Sprintf("/reservations/%d/status", id), map[string]any{"status": "archived"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "status unknown", decodeEnvelope(t, rec)["error"])

	rec = srv.do(t, http.MethodPut, "/reservations/9999/status", map[string]any{"status": "seated"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Finish the reservation, then every further transition fails.
	tableID := createTable(t, srv, "Bar #1", 4)
	rec = srv.do(t, http.MethodPut, fmt.Sprintf("/tables/%d/seat", tableID), map[string]any{"reservation_id": id})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodDelete, fmt.Sprintf("/tables/%d/seat", tableID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodPut, fmt.Sprintf("/reservations/%d/status", id), map[string]any{"status": "booked"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "reservation has already finished", decodeEnvelope(t, rec)["error"])
}

func TestCreateTable_Rejections(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/tables", map[string]any{"table_name": "B", "capacity": 4})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "table_name must be at least 2 characters long", decodeEnvelope(t, rec)["error"])

	rec = srv.do(t, http.MethodPost, "/tables", map[string]any{"table_name": "Bar #1", "capacity": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "table capacity must be able to seat at least one guest", decodeEnvelope(t, rec)["error"])
}

func TestListTables(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/tables", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[]}`, rec.Body.String())

	createTable(t, srv, "Patio", 6)
	createTable(t, srv, "Bar #1", 2)

	rec = srv.do(t, http.MethodGet, "/tables", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeEnvelope(t, rec)["data"].([]any)
	require.Len(t, data, 2)
	assert.Equal(t, "Bar #1", data[0].(map[string]any)["table_name"])
	assert.Equal(t, "Patio", data[1].(map[string]any)["table_name"])
}

func TestSeatAndComplete_RoundTrip(t *testing.T) {
	srv := newTestServer(t)

	reservationID := createReservation(t, srv, testDate, "18:00")
	tableID := createTable(t, srv, "Window", 4)

	rec := srv.do(t, http.MethodPut, fmt.Sprintf("/tables/%d/seat", tableID), map[string]any{"reservation_id": reservationID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	assert.Equal(t, true, data["occupied"])
	assert.Equal(t, float64(reservationID), data["reservation_id"])

	rec = srv.do(t, http.MethodGet, fmt.Sprintf("/reservations/%d", reservationID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "seated", decodeEnvelope(t, rec)["data"].(map[string]any)["status"])

	rec = srv.do(t, http.MethodDelete, fmt.Sprintf("/tables/%d/seat", tableID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data = decodeEnvelope(t, rec)["data"].(map[string]any)
	assert.Equal(t, false, data["occupied"])
	assert.Nil(t, data["reservation_id"])

	rec = srv.do(t, http.MethodGet, fmt.Sprintf("/reservations/%d", reservationID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "finished", decodeEnvelope(t, rec)["data"].(map[string]any)["status"])
}

func TestSeat_Rejections(t *testing.T) {
	srv := newTestServer(t)

	smallTable := createTable(t, srv, "Two-top", 2)
	bigParty := createReservation(t, srv, testDate, "18:00")

	rec := srv.do(t, http.MethodPut, fmt.Sprintf("/tables/%d/seat", smallTable), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid JSON body", decodeEnvelope(t, rec)["error"])

	rec = srv.do(t, http.MethodPut, fmt.Sprintf("/tables/%d/seat", smallTable), map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "a reservation_id is required", decodeEnvelope(t, rec)["error"])

	rec = srv.do(t, http.MethodPut, fmt.Sprintf("/tables/%d/seat", smallTable), map[string]any{"reservation_id": 9999})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Occupy the table, then a second seating must fail.
	rec = srv.do(t, http.MethodPut, fmt.Sprintf("/tables/%d/seat", smallTable), map[string]any{"reservation_id": bigParty})
	require.Equal(t, http.StatusOK, rec.Code)

	other := createReservation(t, srv, testDate, "19:00")
	rec = srv.do(t, http.MethodPut, fmt.Sprintf("/tables/%d/seat", smallTable), map[string]any{"reservation_id": other})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// A seated reservation cannot be seated at another table.
	secondTable := createTable(t, srv, "Patio", 4)
	rec = srv.do(t, http.MethodPut, fmt.Sprintf("/tables/%d/seat", secondTable), map[string]any{"reservation_id": bigParty})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSeat_CapacityExceeded(t *testing.T) {
	srv := newTestServer(t)

	tableID := createTable(t, srv, "Two-top", 2)

	body := reservationBody(testDate, "18:00")
	body["people"] = 5
	rec := srv.do(t, http.MethodPost, "/reservations", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	reservationID := int64(decodeEnvelope(t, rec)["data"].(map[string]any)["reservation_id"].(float64))

	rec = srv.do(t, http.MethodPut, fmt.Sprintf("/tables/%d/seat", tableID), map[string]any{"reservation_id": reservationID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestComplete_Rejections(t *testing.T) {
	srv := newTestServer(t)

	tableID := createTable(t, srv, "Window", 4)

	rec := srv.do(t, http.MethodDelete, fmt.Sprintf("/tables/%d/seat", tableID), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodDelete, "/tables/9999/seat", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestComplete_TwiceFails(t *testing.T) {
	srv := newTestServer(t)

	reservationID := createReservation(t, srv, testDate, "18:00")
	tableID := createTable(t, srv, "Window", 4)

	rec := srv.do(t, http.MethodPut, fmt.Sprintf("/tables/%d/seat", tableID), map[string]any{"reservation_id": reservationID})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodDelete, fmt.Sprintf("/tables/%d/seat", tableID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodDelete, fmt.Sprintf("/tables/%d/seat", tableID), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodDelete, "/reservations", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	id := createReservation(t, srv, testDate, "18:00")
	rec = srv.do(t, http.MethodDelete, fmt.Sprintf("/reservations/%d", id), nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = srv.do(t, http.MethodPatch, "/tables", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer(t)

	id := createReservation(t, srv, testDate, "18:00")
	rec := srv.do(t, http.MethodGet, fmt.Sprintf("/reservations/%d/unknown", id), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
