package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ecotrip/orchestrator/domain"
)

// Chat processes one conversational turn.
// POST /v1/chat
func (h *Handler) Chat(c echo.Context) error {
	var req domain.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "message is required"})
	}

	resp := h.svc.Process(c.Request().Context(), &req)
	return c.JSON(http.StatusOK, resp)
}
