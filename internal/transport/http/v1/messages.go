package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/domain"
)

// AskRequest is the request body for POST /v1/ask.
type AskRequest struct {
	Question string `json:"question"`
}

// ReactionRequest is the request body for POST /v1/messages/:index/reaction.
type ReactionRequest struct {
	Reaction domain.Reaction `json:"reaction"`
}

// GetMessages returns the conversation log.
// GET /v1/messages
func (h *Handler) GetMessages(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"messages": h.service.Messages(),
	})
}

// Ask submits a manual question and waits for the answer.
// POST /v1/ask
//
// A backend failure answers 502 but still carries the appended error message.
func (h *Handler) Ask(c echo.Context) error {
	var req AskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	outcome, err := h.service.SubmitQuery(c.Request().Context(), req.Question)
	if err != nil {
		if errors.Is(err, domain.ErrTransport) && outcome != nil {
			return c.JSON(http.StatusBadGateway, map[string]interface{}{
				"error":   err.Error(),
				"outcome": outcome,
			})
		}
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, outcome)
}

// SetReaction sets the reaction of one message.
// POST /v1/messages/:index/reaction
func (h *Handler) SetReaction(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "index must be an integer"})
	}

	var req ReactionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	msg, err := h.service.SetReaction(c.Request().Context(), index, req.Reaction)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"index":   index,
		"message": msg,
	})
}
