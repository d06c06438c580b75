// Package api provides HTTP handlers for the orchestrator.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ecotrip/orchestrator/internal/service"
	"github.com/ecotrip/orchestrator/pkg/logger"
	"github.com/ecotrip/orchestrator/pkg/metrics"
)

// Handler handles HTTP requests.
type Handler struct {
	svc *service.Service
	log *logger.Logger
}

// NewHandler creates a new handler.
func NewHandler(svc *service.Service, log *logger.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/v1/chat", h.Chat)

	e.GET("/v1/sessions/:session_id", h.GetSession)
	e.DELETE("/v1/sessions/:session_id", h.ClearSession)

	e.GET("/health", h.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

// Metrics returns middleware recording request counts and latency per route.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			metrics.RecordRequest(c.Request().Method, c.Path(), strconv.Itoa(status), time.Since(start).Seconds())
			return err
		}
	}
}
