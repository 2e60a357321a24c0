package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/creativeiyke/agency-platform/cmd/mainconfig"
	"github.com/creativeiyke/agency-platform/internal/advisor"
	"github.com/creativeiyke/agency-platform/internal/api/router"
	"github.com/creativeiyke/agency-platform/internal/app/bootstrap"
	appconfig "github.com/creativeiyke/agency-platform/internal/config"
	"github.com/creativeiyke/agency-platform/internal/content"
	httpmiddleware "github.com/creativeiyke/agency-platform/internal/http/middleware"
	"github.com/creativeiyke/agency-platform/internal/observability/metrics"
	"github.com/creativeiyke/agency-platform/internal/qualify"
	"github.com/creativeiyke/agency-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting agency-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	// Background work stops when the server shuts down.
	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()

	awsCfg, err := mainconfig.LoadAWSConfig(appCtx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	metricsHandler, widgetMetrics := setupWidgetMetrics()

	generator, closeGenerator, err := bootstrap.BuildGenerator(appCtx, cfg, awsCfg, logger)
	if err != nil {
		logger.Warn("text generator unavailable, using static analysis", "error", err)
		generator, closeGenerator = advisor.StaticGenerator{}, func() {}
	}
	defer closeGenerator()

	sink, closeSink, err := bootstrap.BuildLeadSink(appCtx, cfg, awsCfg, logger)
	if err != nil {
		logger.Error("failed to configure lead sink", "error", err)
		os.Exit(1)
	}
	defer closeSink()

	analyst := advisor.NewAnalyst(generator, logger.Component("advisor"),
		advisor.WithTimeout(cfg.AnalysisTimeout),
		advisor.WithObserver(widgetMetrics),
	)

	sessions := qualify.NewSessionStore(qualify.StoreConfig{
		Analyzer: analyst,
		Sink:     sink,
		Guard:    submissionGuard(cfg),
		Observer: widgetMetrics,
		Gauge:    widgetMetrics,
		TTL:      cfg.SessionTTL,
	}, logger.Component("qualify"))
	go sessions.Run(appCtx, time.Minute)

	catalog, err := content.Load()
	if err != nil {
		logger.Error("failed to load content catalog", "error", err)
		os.Exit(1)
	}

	// Setup router
	routerCfg := &router.Config{
		Logger:             logger,
		WidgetHandler:      qualify.NewHandler(sessions, logger.Component("widget-api")),
		ContentHandler:     content.NewHandler(catalog, logger),
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimit:          httpmiddleware.RateLimit(appCtx, cfg.RateLimitRPS, cfg.RateLimitBurst),
	}
	r := router.New(routerCfg)

	// Create HTTP server. No write timeout: progress streams are long-lived.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	stopApp()

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// setupWidgetMetrics registers widget metrics on a private registry and
// returns the /metrics handler for it.
func setupWidgetMetrics() (http.Handler, *metrics.WidgetMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), metrics.NewWidgetMetrics(reg)
}

// submissionGuard always checks the honeypot and adds a minimum fill time when configured.
func submissionGuard(cfg *appconfig.Config) qualify.Guard {
	guards := qualify.Guards{qualify.HoneypotGuard{}}
	if cfg.MinFillTime > 0 {
		guards = append(guards, qualify.MinFillTimeGuard{Min: cfg.MinFillTime})
	}
	return guards
}
