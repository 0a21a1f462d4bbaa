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

// ReportHandler handles allegation report endpoints.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

type createReportRequest struct {
	OfficialID     *int64 `json:"officialId"`
	AllegationType string `json:"allegationType" validate:"required"`
	Title          string `json:"title" validate:"required"`
	Description    string `json:"description" validate:"required"`
	Evidence       string `json:"evidence"`
}

// Create files a new report for the authenticated user.
func (h *ReportHandler) Create(c echo.Context) error {
	identity, ok := CurrentIdentity(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	var req createReportRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	report, err := h.reports.Submit(c.Request().Context(), identity.UserID, service.ReportInput{
		OfficialID:     req.OfficialID,
		AllegationType: req.AllegationType,
		Title:          req.Title,
		Description:    req.Description,
		Evidence:       req.Evidence,
	})
	if err != nil {
		return err
	}

	return JSONMessage(c, http.StatusCreated, "Report submitted successfully", map[string]any{"report": report})
}

// List returns reports matching the query filters. Runs behind OptionalAuth:
// mine=true restricts the listing to the caller's own reports and is rejected
// for anonymous callers.
func (h *ReportHandler) List(c echo.Context) error {
	filter := repository.ReportFilter{
		Status:         c.QueryParam("status"),
		AllegationType: c.QueryParam("allegationType"),
	}

	if mine, _ := strconv.ParseBool(c.QueryParam("mine")); mine {
		identity, ok := CurrentIdentity(c)
		if !ok {
			return domain.ErrUnauthorized
		}
		filter.UserID = &identity.UserID
	}
	if v := c.QueryParam("officialId"); v != "" {
		officialID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: invalid official id", domain.ErrInvalidInput)
		}
		filter.OfficialID = &officialID
	}
	filter.Limit, filter.Offset = pageParams(c)

	reports, total, err := h.reports.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, map[string]any{
		"reports": reports,
		"total":   total,
		"limit":   filter.Limit,
		"offset":  filter.Offset,
	})
}

// Get returns a single report by ID.
func (h *ReportHandler) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: invalid report id", domain.ErrInvalidInput)
	}

	report, err := h.reports.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, map[string]any{"report": report})
}
