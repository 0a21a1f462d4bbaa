package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ktozkim/watchdog/internal/domain"
	"github.com/ktozkim/watchdog/internal/repository"
	"github.com/ktozkim/watchdog/internal/service"
)

// OfficialHandler handles the public officials directory endpoints.
type OfficialHandler struct {
	officials *service.OfficialService
}

// NewOfficialHandler creates a new OfficialHandler.
func NewOfficialHandler(officials *service.OfficialService) *OfficialHandler {
	return &OfficialHandler{officials: officials}
}

// List returns officials matching the query filters.
func (h *OfficialHandler) List(c echo.Context) error {
	filter := repository.OfficialFilter{
		City:     c.QueryParam("city"),
		Position: c.QueryParam("position"),
	}
	if v := c.QueryParam("verified"); v != "" {
		verified, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: verified must be a boolean", domain.ErrInvalidInput)
		}
		filter.Verified = &verified
	}
	filter.Limit, filter.Offset = pageParams(c)

	officials, total, err := h.officials.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, map[string]any{
		"officials": officials,
		"total":     total,
		"limit":     filter.Limit,
		"offset":    filter.Offset,
	})
}

// Get returns a single official by ID.
func (h *OfficialHandler) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: invalid official id", domain.ErrInvalidInput)
	}

	official, err := h.officials.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, map[string]any{"official": official})
}

func pageParams(c echo.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	offset, _ = strconv.Atoi(c.QueryParam("offset"))
	return service.ClampPage(limit, offset)
}
