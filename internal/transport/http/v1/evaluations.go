package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// BatchVisibilityRequest is the request body for PUT /v1/evaluations/batch_visibility.
type BatchVisibilityRequest struct {
	Visible *bool `json:"visible"`
}

// GetEvaluations returns the evaluation table rows.
// GET /v1/evaluations
//
// With all=true every record is returned regardless of batch visibility.
func (h *Handler) GetEvaluations(c echo.Context) error {
	all, _ := strconv.ParseBool(c.QueryParam("all"))

	snap := h.service.Snapshot()
	rows := snap.Rows
	if all {
		rows = snap.Records
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"rows":          rows,
		"batch_visible": snap.State.BatchVisible,
	})
}

// SetBatchVisibility shows or hides batch rows.
// PUT /v1/evaluations/batch_visibility
func (h *Handler) SetBatchVisibility(c echo.Context) error {
	var req BatchVisibilityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Visible == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "visible is required"})
	}

	return c.JSON(http.StatusOK, h.service.SetBatchVisible(*req.Visible))
}

// StartBatch starts a batch run in the background.
// POST /v1/batch
func (h *Handler) StartBatch(c echo.Context) error {
	start, err := h.service.StartBatch(c.Request().Context())
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusAccepted, start)
}
