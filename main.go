package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/ecotrip/orchestrator/api"
	"github.com/ecotrip/orchestrator/config"
	"github.com/ecotrip/orchestrator/internal/adapter/extractor"
	"github.com/ecotrip/orchestrator/internal/adapter/planner"
	"github.com/ecotrip/orchestrator/internal/service"
	"github.com/ecotrip/orchestrator/pkg/logger"
	"github.com/ecotrip/orchestrator/policy"
	"github.com/ecotrip/orchestrator/store"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	zlog.Info("starting orchestrator",
		zap.Int("http_port", cfg.HTTPPort),
		zap.String("store_backend", cfg.StoreBackend),
		zap.String("extractor_mode", cfg.ExtractorMode),
		zap.Bool("policy_enabled", cfg.PolicyEnabled))

	// Initialize store
	st, err := store.New(cfg)
	if err != nil {
		zlog.Fatal("failed to initialize store", zap.Error(err))
	}
	defer st.Close()

	// Initialize extraction client
	ex, err := extractor.New(cfg)
	if err != nil {
		zlog.Fatal("failed to initialize extractor", zap.Error(err))
	}

	// Initialize planning agent client
	var plannerClient *planner.Client
	if cfg.PlannerURL != "" {
		plannerClient = planner.NewClient(cfg.PlannerURL, cfg.PlannerTimeout, planner.RetryPolicy{
			MaxAttempts: cfg.PlannerMaxAttempts,
			Backoff:     cfg.PlannerRetryBackoff,
		})
	} else {
		zlog.Warn("PLANNER_URL not set, downstream handoff disabled")
	}

	// Initialize policy engine
	ctx := context.Background()
	var policyEngine *policy.Engine
	if cfg.PolicyEnabled {
		policyEngine, err = policy.NewEngine(ctx)
		if err != nil {
			zlog.Fatal("failed to initialize policy engine", zap.Error(err))
		}
	}

	// Initialize service
	svc := service.New(st, ex, plannerClient, policyEngine, cfg, zlog)

	// Initialize handler
	h := api.NewHandler(svc, zlog)

	// Create Echo server
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(api.Metrics())

	// Register routes
	h.RegisterRoutes(e)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	zlog.Info("orchestrator started", zap.Int("port", cfg.HTTPPort))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down orchestrator")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		zlog.Error("failed to shutdown server gracefully", zap.Error(err))
	}

	zlog.Info("orchestrator stopped")
}
