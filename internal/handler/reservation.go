package handler

import (
	"context"  // context with cancellation for DB calls
	"errors"   // errors.Is comparisons against repository sentinels
	"fmt"      // building validation messages
	"net/http" // HTTP status codes
	"strconv"  // parsing path parameters
	"time"     // timestamp parsing and DB timeouts

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/mkroener/hall-booking/internal/config"
	"github.com/mkroener/hall-booking/internal/model"
	"github.com/mkroener/hall-booking/internal/queue"
	"github.com/mkroener/hall-booking/internal/recurrence"
	"github.com/mkroener/hall-booking/internal/repository"
	queue_publisher "github.com/mkroener/hall-booking/internal/service"
)

// fallbackUserID is persisted when a request arrives without a user id.
// The frontend's anonymous booking form has always behaved this way.
const fallbackUserID = 1

// ReservationStore is the persistence surface the reservation endpoints
// need.  *repository.ReservationRepo implements it; tests substitute stubs.
type ReservationStore interface {
	CreateOccurrences(ctx context.Context, rec repository.ReservationRecord, occs []recurrence.Occurrence) ([]uint64, error)
	ListAll(ctx context.Context) ([]repository.ReservationDetail, error)
	SetConfirmation(ctx context.Context, id uint64, confirmed *bool) error
	Delete(ctx context.Context, id uint64) error
}

// ReservationHandler serves the booking endpoints: create (with recurrence
// expansion), list, confirm/decline and delete.
type ReservationHandler struct {
	Cfg   config.Config
	Store ReservationStore
}

func NewReservationHandler(cfg config.Config, store ReservationStore) *ReservationHandler {
	return &ReservationHandler{Cfg: cfg, Store: store}
}

// ----- DTOs -----

type recurrenceReq struct {
	Interval string `json:"interval"`
	Count    int    `json:"count"`
}

type createReservationReq struct {
	StartTime  string         `json:"startTime" validate:"required"`
	EndTime    string         `json:"endTime" validate:"required"`
	Hall       uint64         `json:"hall" validate:"required"`
	Reason     string         `json:"reason" validate:"required"`
	Details    string         `json:"details"`
	UserID     uint64         `json:"userId"`
	Extras     []string       `json:"extras"`
	Recurrence *recurrenceReq `json:"recurrence"`
}

// parseTimestamp accepts RFC3339 timestamps with or without a zone suffix.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05", s, time.UTC)
}

// Create handles POST /api/reservations.  The pipeline is: validate the
// request, expand the recurrence rule into concrete occurrences, persist
// them in one transaction and return the generated ids in occurrence order.
func (h *ReservationHandler) Create(c echo.Context) error {
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "missing required reservation fields"})
	}

	start, err := parseTimestamp(req.StartTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid startTime"})
	}
	end, err := parseTimestamp(req.EndTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid endTime"})
	}

	rule := recurrence.Rule{Interval: recurrence.None, Count: 1}
	if req.Recurrence != nil {
		rule.Interval = recurrence.ParseInterval(req.Recurrence.Interval)
		rule.Count = req.Recurrence.Count
		if rule.Count < 1 {
			rule.Count = 1
		}
		if rule.Count > h.Cfg.RecurrenceMaxCount {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false,
				"message": fmt.Sprintf("recurrence count exceeds the maximum of %d", h.Cfg.RecurrenceMaxCount),
			})
		}
	}

	userID := req.UserID
	if userID == 0 {
		userID = fallbackUserID
	}
	rec := repository.ReservationRecord{
		UserID:  userID,
		HallID:  req.Hall,
		Purpose: req.Reason,
		Extras:  model.ExtrasFromLabels(req.Extras),
	}
	if req.Details != "" {
		rec.Details = &req.Details
	}

	occs := recurrence.Expand(start, end, rule)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	ids, err := h.Store.CreateOccurrences(ctx, rec, occs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "failed to save reservation"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success":        true,
		"reservationIds": ids,
	})
}

// List handles GET /api/reservations and returns every occurrence row with
// extras flags, confirmation state and the requester's display name.
func (h *ReservationHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	details, err := h.Store.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "failed to load reservations"})
	}
	return c.JSON(http.StatusOK, details)
}

// Confirm handles PUT /api/reservations/:id/confirm.  The body's confirmed
// field is tri-state: true accepts, false declines, null resets to pending.
// A decision event is published for downstream consumers from a goroutine,
// so a slow or unreachable broker never delays the response; publish
// failures are logged inside the publisher and never fail the request.
func (h *ReservationHandler) Confirm(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid reservation id"})
	}
	var req struct {
		Confirmed *bool `json:"confirmed"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Store.SetConfirmation(ctx, id, req.Confirmed); err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "failed to update confirmation"})
	}

	ev := queue.ReservationDecidedEvent{
		ReservationID: id,
		Decision:      queue.DecisionFromConfirmed(req.Confirmed),
		DecidedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	// The request context is canceled once the response is written, so the
	// publish gets its own deadline.
	go func() {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pubCancel()
		_ = queue_publisher.PublishReservationDecided(pubCtx, ev)
	}()

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "confirmation updated"})
}

// Delete handles DELETE /api/reservations/:id.
func (h *ReservationHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid reservation id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Store.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "failed to delete reservation"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "reservation deleted successfully"})
}
