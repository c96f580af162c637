// Package v1 provides the HTTP handlers of the session server.
package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/domain"
	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Conversation
	e.GET("/v1/messages", h.GetMessages)
	e.POST("/v1/ask", h.Ask)
	e.POST("/v1/messages/:index/reaction", h.SetReaction)

	// Evaluation table
	e.GET("/v1/evaluations", h.GetEvaluations)
	e.PUT("/v1/evaluations/batch_visibility", h.SetBatchVisibility)
	e.POST("/v1/batch", h.StartBatch)

	// Session state and trace
	e.GET("/v1/state", h.GetState)
	e.GET("/v1/runs", h.ListRuns)
	e.GET("/v1/runs/:run_id/events", h.GetRunEvents)

	e.GET("/health", h.Health)
	e.GET("/metrics", echo.WrapHandler(h.service.Metrics().Handler()))
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
		"state":   string(h.service.State().State),
	})
}

// statusFor maps session errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmptyQuery), errors.Is(err, domain.ErrInvalidReaction):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMessageNotFound), errors.Is(err, domain.ErrRunNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, domain.ErrMalformedBatchSource):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func errorJSON(c echo.Context, err error) error {
	return c.JSON(statusFor(err), map[string]string{"error": err.Error()})
}
