package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// GetSession returns the current session record.
// GET /v1/sessions/:session_id
func (h *Handler) GetSession(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	sess, err := h.svc.GetSession(ctx, sessionID)
	if err != nil {
		h.log.Error("failed to get session", zap.String("session_id", sessionID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get session"})
	}
	if sess == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
	}

	return c.JSON(http.StatusOK, sess)
}

// ClearSession resets the session to a fresh default record.
// DELETE /v1/sessions/:session_id
func (h *Handler) ClearSession(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	if err := h.svc.ResetSession(ctx, sessionID); err != nil {
		h.log.Error("failed to clear session", zap.String("session_id", sessionID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to clear session"})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status":     "cleared",
		"session_id": sessionID,
	})
}
