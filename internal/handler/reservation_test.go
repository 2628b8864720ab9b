package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkroener/hall-booking/internal/config"
	"github.com/mkroener/hall-booking/internal/recurrence"
	"github.com/mkroener/hall-booking/internal/repository"
)

// stubStore records calls and returns canned results.
type stubStore struct {
	createRec  repository.ReservationRecord
	createOccs []recurrence.Occurrence
	createIDs  []uint64
	createErr  error
	created    bool

	confirmID    uint64
	confirmValue *bool
	confirmErr   error

	deleteID  uint64
	deleteErr error

	listRows []repository.ReservationDetail
	listErr  error
}

func (s *stubStore) CreateOccurrences(_ context.Context, rec repository.ReservationRecord, occs []recurrence.Occurrence) ([]uint64, error) {
	s.created = true
	s.createRec = rec
	s.createOccs = occs
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.createIDs, nil
}

func (s *stubStore) ListAll(_ context.Context) ([]repository.ReservationDetail, error) {
	return s.listRows, s.listErr
}

func (s *stubStore) SetConfirmation(_ context.Context, id uint64, confirmed *bool) error {
	s.confirmID = id
	s.confirmValue = confirmed
	return s.confirmErr
}

func (s *stubStore) Delete(_ context.Context, id uint64) error {
	s.deleteID = id
	return s.deleteErr
}

func testConfig() config.Config {
	return config.Config{RecurrenceMaxCount: 52}
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func doJSON(e *echo.Echo, h echo.HandlerFunc, method, target, body string, params map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for k, v := range params {
		c.SetParamNames(k)
		c.SetParamValues(v)
	}
	_ = h(c)
	return rec
}

func TestCreateWeeklyRecurrence(t *testing.T) {
	store := &stubStore{createIDs: []uint64{11, 12, 13}}
	h := NewReservationHandler(testConfig(), store)

	body := `{
		"startTime": "2025-02-09T07:30:00Z",
		"endTime": "2025-02-09T09:00:00Z",
		"hall": 1,
		"reason": "Meeting",
		"extras": ["Bar", "Projector"],
		"recurrence": {"interval": "weekly", "count": 3}
	}`
	rec := doJSON(newEcho(), h.Create, http.MethodPost, "/api/reservations", body, nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		Success        bool     `json:"success"`
		ReservationIDs []uint64 `json:"reservationIds"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, []uint64{11, 12, 13}, resp.ReservationIDs)

	// Three occurrences one week apart, shared record fields.
	require.Len(t, store.createOccs, 3)
	assert.Equal(t, "2025-02-09T07:30:00Z", store.createOccs[0].Start.UTC().Format("2006-01-02T15:04:05Z"))
	assert.Equal(t, "2025-02-16T07:30:00Z", store.createOccs[1].Start.UTC().Format("2006-01-02T15:04:05Z"))
	assert.Equal(t, "2025-02-23T07:30:00Z", store.createOccs[2].Start.UTC().Format("2006-01-02T15:04:05Z"))
	assert.True(t, store.createRec.Extras.Bar)
	assert.True(t, store.createRec.Extras.Projector)
	assert.False(t, store.createRec.Extras.Kitchen)
	assert.Equal(t, "Meeting", store.createRec.Purpose)
	assert.Equal(t, uint64(1), store.createRec.HallID)
}

func TestCreateMissingRequiredField(t *testing.T) {
	store := &stubStore{}
	h := NewReservationHandler(testConfig(), store)

	// reason is absent.
	body := `{
		"startTime": "2025-02-09T07:30:00Z",
		"endTime": "2025-02-09T09:00:00Z",
		"hall": 1
	}`
	rec := doJSON(newEcho(), h.Create, http.MethodPost, "/api/reservations", body, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, store.created, "no write may happen on validation failure")
}

func TestCreateDefaultsToSingleOccurrenceAndFallbackUser(t *testing.T) {
	store := &stubStore{createIDs: []uint64{5}}
	h := NewReservationHandler(testConfig(), store)

	body := `{
		"startTime": "2025-02-09T07:30:00Z",
		"endTime": "2025-02-09T09:00:00Z",
		"hall": 2,
		"reason": "Birthday"
	}`
	rec := doJSON(newEcho(), h.Create, http.MethodPost, "/api/reservations", body, nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, store.createOccs, 1)
	assert.Equal(t, uint64(fallbackUserID), store.createRec.UserID)
	assert.Nil(t, store.createRec.Details)
}

func TestCreateRejectsCountOverCap(t *testing.T) {
	store := &stubStore{}
	cfg := testConfig()
	cfg.RecurrenceMaxCount = 10
	h := NewReservationHandler(cfg, store)

	body := `{
		"startTime": "2025-02-09T07:30:00Z",
		"endTime": "2025-02-09T09:00:00Z",
		"hall": 1,
		"reason": "Meeting",
		"recurrence": {"interval": "daily", "count": 11}
	}`
	rec := doJSON(newEcho(), h.Create, http.MethodPost, "/api/reservations", body, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, store.created)
}

func TestCreateStorageFailure(t *testing.T) {
	store := &stubStore{createErr: errors.New("insert failed")}
	h := NewReservationHandler(testConfig(), store)

	body := `{
		"startTime": "2025-02-09T07:30:00Z",
		"endTime": "2025-02-09T09:00:00Z",
		"hall": 1,
		"reason": "Meeting"
	}`
	rec := doJSON(newEcho(), h.Create, http.MethodPost, "/api/reservations", body, nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.NotEmpty(t, resp["message"])
}

func TestConfirmUpdatesTriState(t *testing.T) {
	store := &stubStore{}
	h := NewReservationHandler(testConfig(), store)

	rec := doJSON(newEcho(), h.Confirm, http.MethodPut, "/api/reservations/9/confirm",
		`{"confirmed": true}`, map[string]string{"id": "9"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(9), store.confirmID)
	require.NotNil(t, store.confirmValue)
	assert.True(t, *store.confirmValue)

	// Absent confirmed resets to pending.
	rec = doJSON(newEcho(), h.Confirm, http.MethodPut, "/api/reservations/9/confirm",
		`{}`, map[string]string{"id": "9"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, store.confirmValue)
}

func TestConfirmUnknownID(t *testing.T) {
	store := &stubStore{confirmErr: repository.ErrReservationNotFound}
	h := NewReservationHandler(testConfig(), store)

	rec := doJSON(newEcho(), h.Confirm, http.MethodPut, "/api/reservations/999/confirm",
		`{"confirmed": false}`, map[string]string{"id": "999"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteUnknownID(t *testing.T) {
	store := &stubStore{deleteErr: repository.ErrReservationNotFound}
	h := NewReservationHandler(testConfig(), store)

	rec := doJSON(newEcho(), h.Delete, http.MethodDelete, "/api/reservations/999",
		``, map[string]string{"id": "999"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListReturnsRows(t *testing.T) {
	confirmed := true
	store := &stubStore{listRows: []repository.ReservationDetail{
		{ID: 1, Start: "2025-02-09T07:30:00Z", End: "2025-02-09T09:00:00Z", HallID: 1, Reason: "Meeting", Confirmed: &confirmed, Title: "Ada Lovelace"},
	}}
	h := NewReservationHandler(testConfig(), store)

	rec := doJSON(newEcho(), h.List, http.MethodGet, "/api/reservations", ``, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Ada Lovelace", rows[0]["title"])
	assert.Equal(t, true, rows[0]["confirmed"])
	assert.Equal(t, false, rows[0]["bar"])
}
