package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mkroener/hall-booking/internal/repository"
)

// HallHandler lists the venue's halls for the booking form.
type HallHandler struct {
	Halls *repository.HallRepo
}

func NewHallHandler(h *repository.HallRepo) *HallHandler { return &HallHandler{Halls: h} }

// List handles GET /api/halls.
func (h *HallHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	halls, err := h.Halls.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "failed to load halls"})
	}
	out := make([]echo.Map, 0, len(halls))
	for _, hall := range halls {
		out = append(out, echo.Map{"hallId": hall.ID, "name": hall.Name, "capacity": hall.Capacity})
	}
	return c.JSON(http.StatusOK, out)
}
