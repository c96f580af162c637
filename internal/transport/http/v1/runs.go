package v1

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/domain"
)

// GetState returns the controller state.
// GET /v1/state
func (h *Handler) GetState(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.State())
}

// ListRuns lists traced runs, newest first.
// GET /v1/runs
func (h *Handler) ListRuns(c echo.Context) error {
	limit := 50
	if l := c.QueryParam("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil {
			limit = val
		}
	}

	runs, err := h.service.ListRuns(c.Request().Context(), domain.RunKind(c.QueryParam("kind")), limit)
	if err != nil {
		return errorJSON(c, err)
	}
	if runs == nil {
		runs = []domain.Run{}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"runs": runs,
	})
}

// GetRunEvents retrieves events for a run.
// GET /v1/runs/:run_id/events
func (h *Handler) GetRunEvents(c echo.Context) error {
	runID := c.Param("run_id")
	limit := 100
	if l := c.QueryParam("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil {
			limit = val
		}
	}
	afterTs := int64(0)
	if t := c.QueryParam("after_ts"); t != "" {
		if val, err := strconv.ParseInt(t, 10, 64); err == nil {
			afterTs = val
		}
	}
	var types []string
	if t := c.QueryParam("types"); t != "" {
		types = strings.Split(t, ",")
	}

	events, err := h.service.GetRunEvents(c.Request().Context(), runID, afterTs, types, limit)
	if err != nil {
		return errorJSON(c, err)
	}
	if events == nil {
		events = []domain.Event{}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"events":   events,
		"has_more": len(events) == limit,
	})
}
