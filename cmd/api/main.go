package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	httpadapter "github.com/transitdocs/doctrack/internal/adapters/http"
	"github.com/transitdocs/doctrack/internal/bootstrap"
	"github.com/transitdocs/doctrack/internal/config"
	"github.com/transitdocs/doctrack/internal/observability/logging"
	"github.com/transitdocs/doctrack/internal/observability/metrics"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := logging.NewJSONLogger("api", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	router := httpadapter.NewRouter(
		app.IngestUC,
		app.ReaderUC,
		app.SearchUC,
		app.ReportUC,
		metrics.NewHTTPServerMetrics("api"),
		httpadapter.RouterConfig{
			RateLimitRPS:      float64(cfg.APIRateLimitRPS),
			RateLimitBurst:    cfg.APIRateLimitBurst,
			MaxConcurrent:     cfg.APIMaxConcurrent,
			MaxUploadBytes:    int64(cfg.APIMaxUploadMB) << 20,
			DefaultAuditLimit: cfg.DefaultAuditLimit,
		},
	)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("api listening", "addr", server.Addr, "store_backend", cfg.StoreBackend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("api shutdown failed", "error", err)
	}
}
